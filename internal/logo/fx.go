package logo

import (
	"github.com/openbill/invoicecraft/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("logo",
	fx.Provide(NewFromConfig),
)

func NewFromConfig(cfg config.Config, log *zap.Logger) (*Store, error) {
	return NewStore(cfg.UploadDir, log)
}
