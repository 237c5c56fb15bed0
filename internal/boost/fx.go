package boost

import (
	"github.com/clipfuellabs/clipfuel/internal/boost/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("boost.repository",
	fx.Provide(repository.NewRepository),
)
