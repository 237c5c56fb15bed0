package accrual

import (
	"github.com/clipfuellabs/clipfuel/internal/accrual/service"
	"go.uber.org/fx"
)

var Module = fx.Module("accrual.service",
	fx.Provide(service.NewService),
)
