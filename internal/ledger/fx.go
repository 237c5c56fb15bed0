package ledger

import (
	"github.com/clipfuellabs/clipfuel/internal/ledger/repository"
	"github.com/clipfuellabs/clipfuel/internal/ledger/service"
	"go.uber.org/fx"
)

var Module = fx.Module("ledger.service",
	fx.Provide(
		repository.NewRepository,
		service.NewService,
	),
)
