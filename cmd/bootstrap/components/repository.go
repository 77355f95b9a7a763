package components

import (
	repo_impl "featured-slots/internal/infra/repository"
	"featured-slots/internal/usecase/commands"
	"featured-slots/internal/usecase/queries"

	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		fx.Annotate(
			repo_impl.NewSlotRequestRepository,
			fx.As(new(commands.SlotRequestRepository)),
		),
		fx.Annotate(
			repo_impl.NewSlotRequestRepository,
			fx.As(new(queries.SlotRequestReader)),
		),
		fx.Annotate(
			repo_impl.NewEventRepository,
			fx.As(new(queries.EventReader)),
		),
	),
)
