package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"

	"github.com/openbill/invoicecraft/internal/config"
	"github.com/openbill/invoicecraft/internal/invoice"
	"github.com/openbill/invoicecraft/internal/logger"
	"github.com/openbill/invoicecraft/internal/logo"
	"github.com/openbill/invoicecraft/internal/providers/email"
	"github.com/openbill/invoicecraft/internal/server"
	"github.com/openbill/invoicecraft/pkg/db"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,

		email.Module,
		logo.Module,
		invoice.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
