package actions

import (
	"notquiteparadise/internal/domain"
	"notquiteparadise/internal/engine/handlers"
	"notquiteparadise/internal/event"
	"notquiteparadise/pkg/api"
)

func HandleMove(ctx handlers.Context, p api.DirectionPayload) (handlers.Result, error) {
	return handlers.Result{
		Intent: event.Move{Entity: ctx.Actor, Direction: domain.Direction{Dx: p.Dx, Dy: p.Dy}},
	}, nil
}
