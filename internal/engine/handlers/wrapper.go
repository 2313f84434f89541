package handlers

import (
	"encoding/json"
	"errors"
	"fmt"

	"notquiteparadise/pkg/api"
)

var ErrUnknownAction = errors.New("unknown action")

// TypedHandlerFunc - это "чистый" хендлер, который работает с готовой структурой T
type TypedHandlerFunc[T any] func(ctx Context, payload T) (Result, error)

// EmptyHandlerFunc - хендлер, которому НЕ нужны данные (WAIT, CANCEL_TARGETING)
type EmptyHandlerFunc func(ctx Context) (Result, error)

// WithPayload берет "чистый" хендлер и превращает его в стандартный HandlerFunc.
// Она берет на себя Unmarshal и Validate.
func WithPayload[T any](handler TypedHandlerFunc[T]) HandlerFunc {
	return func(ctx Context, raw json.RawMessage) (Result, error) {
		var payload T

		if len(raw) == 0 {
			return Result{}, errors.New("payload is required")
		}
		if err := json.Unmarshal(raw, &payload); err != nil {
			return Result{}, fmt.Errorf("invalid payload format: %w", err)
		}

		// Проверяем, реализует ли структура T интерфейс Validator
		if v, ok := any(payload).(api.Validator); ok {
			if err := v.Validate(); err != nil {
				return Result{}, fmt.Errorf("validation failed: %w", err)
			}
		}

		return handler(ctx, payload)
	}
}

// WithEmptyPayload - обертка для команд без данных
func WithEmptyPayload(handler EmptyHandlerFunc) HandlerFunc {
	return func(ctx Context, _ json.RawMessage) (Result, error) {
		return handler(ctx)
	}
}

// Registry - таблица команд по имени действия.
type Registry map[string]HandlerFunc

// Dispatch находит хендлер и превращает команду клиента в намерение.
func (r Registry) Dispatch(ctx Context, cmd api.ClientCommand) (Result, error) {
	handler, ok := r[cmd.Action]
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownAction, cmd.Action)
	}
	return handler(ctx, cmd.Payload)
}
