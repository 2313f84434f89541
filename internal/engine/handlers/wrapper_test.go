package handlers

import (
	"encoding/json"
	"errors"
	"testing"

	"notquiteparadise/internal/domain"
	"notquiteparadise/internal/event"
	"notquiteparadise/pkg/api"
)

func TestRegistry_Dispatch(t *testing.T) {
	actor := domain.PackEntityID(domain.KindPlayer, 1)
	var got api.DirectionPayload

	r := Registry{
		"STEP": WithPayload(func(ctx Context, p api.DirectionPayload) (Result, error) {
			got = p
			return Result{Intent: event.Move{Entity: ctx.Actor, Direction: domain.Direction{Dx: p.Dx, Dy: p.Dy}}}, nil
		}),
		"NOOP": WithEmptyPayload(func(Context) (Result, error) {
			return EmptyResult(), nil
		}),
	}
	ctx := Context{Actor: actor}

	t.Run("Typed payload", func(t *testing.T) {
		res, err := r.Dispatch(ctx, api.ClientCommand{Action: "STEP", Payload: json.RawMessage(`{"dx":-1,"dy":1}`)})
		if err != nil {
			t.Fatalf("Dispatch: %v", err)
		}
		if got.Dx != -1 || got.Dy != 1 {
			t.Errorf("Payload not decoded: %+v", got)
		}
		if mv, ok := res.Intent.(event.Move); !ok || mv.Entity != actor {
			t.Errorf("Unexpected intent %#v", res.Intent)
		}
	})

	t.Run("Errors", func(t *testing.T) {
		tests := []struct {
			name    string
			cmd     api.ClientCommand
			unknown bool
		}{
			{"Missing payload", api.ClientCommand{Action: "STEP"}, false},
			{"Malformed payload", api.ClientCommand{Action: "STEP", Payload: json.RawMessage(`{"dx":`)}, false},
			{"Validation", api.ClientCommand{Action: "STEP", Payload: json.RawMessage(`{"dx":0,"dy":0}`)}, false},
			{"Unknown action", api.ClientCommand{Action: "FLY"}, true},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := r.Dispatch(ctx, tt.cmd)
				if err == nil {
					t.Fatal("Expected an error")
				}
				if errors.Is(err, ErrUnknownAction) != tt.unknown {
					t.Errorf("Unexpected error kind: %v", err)
				}
			})
		}
	})

	t.Run("Empty payload handler ignores data", func(t *testing.T) {
		if _, err := r.Dispatch(ctx, api.ClientCommand{Action: "NOOP", Payload: json.RawMessage(`garbage`)}); err != nil {
			t.Errorf("Unexpected error: %v", err)
		}
	})
}
