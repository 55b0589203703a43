package config_fx

import (
	"go.uber.org/fx"
	"wayfare/internal/infra"
)

var Module = fx.Provide(infra.LoadConfig, infra.NewLogger)
