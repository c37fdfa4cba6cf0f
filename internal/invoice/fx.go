// Package invoice wires the invoice feature: storage, rendering and service.
package invoice

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	invoicedomain "github.com/openbill/invoicecraft/internal/invoice/domain"
	"github.com/openbill/invoicecraft/internal/invoice/render"
	"github.com/openbill/invoicecraft/internal/invoice/service"
	"github.com/openbill/invoicecraft/pkg/repository"
)

var Module = fx.Module("invoice",
	fx.Provide(
		newRepository,
		render.NewRenderer,
		service.NewService,
	),
	fx.Invoke(migrate),
)

func newRepository(db *gorm.DB) repository.Repository[invoicedomain.Invoice] {
	return repository.ProvideStore[invoicedomain.Invoice](db)
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(&invoicedomain.Invoice{})
}
