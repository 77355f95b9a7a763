package components

import (
	"featured-slots/internal/handler"
	"featured-slots/internal/handler/api"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewSlotHandler,
	),
	fx.Invoke(handler.NewRouter),
)
