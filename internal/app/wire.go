//go:build wireinject
// +build wireinject

package app

import (
	brcfg "bidsmith/internal/config"

	"github.com/google/wire"
)

func buildAppWithWire(cfg *brcfg.Config) (*App, error) {
	wire.Build(provideAppBuilder, provideAppFromBuilder)
	return nil, nil
}
