package campaign

import (
	"github.com/clipfuellabs/clipfuel/internal/campaign/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("campaign.repository",
	fx.Provide(repository.NewRepository),
)
