package demographics

import (
	"github.com/clipfuellabs/clipfuel/internal/demographics/service"
	"go.uber.org/fx"
)

var Module = fx.Module("demographics.service",
	fx.Provide(service.NewResolver),
)
