package admin

import (
	"errors"
	"fmt"

	"notquiteparadise/internal/domain"
	"notquiteparadise/internal/engine/handlers"
	"notquiteparadise/internal/event"
)

// Админские команды.
const (
	ActionGodSkill = "GOD_SKILL"
	ActionExit     = "EXIT"
)

var ErrNoGod = errors.New("no god entity in this game")

// GodSkillPayload: { "skillId": "raise_wall", "x": 10, "y": 10 }
type GodSkillPayload struct {
	SkillID string `json:"skillId"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
}

func (p GodSkillPayload) Validate() error {
	if p.SkillID == "" {
		return errors.New("skillId is required")
	}
	return nil
}

// HandleGodSkill - бог применяет навык. Ход никто не тратит.
func HandleGodSkill(ctx handlers.Context, p GodSkillPayload) (handlers.Result, error) {
	if ctx.God == domain.NilEntityID {
		return handlers.Result{}, ErrNoGod
	}
	return handlers.Result{
		Intent: event.UseSkill{Entity: ctx.God, Target: domain.Position{X: p.X, Y: p.Y}, SkillID: p.SkillID},
		Msg:    fmt.Sprintf("The gods use %s.", p.SkillID),
	}, nil
}

// HandleExit завершает игру.
func HandleExit(_ handlers.Context) (handlers.Result, error) {
	return handlers.Result{Intent: event.Exit{}}, nil
}

// Register добавляет админские команды в реестр.
func Register(r handlers.Registry) {
	r[ActionGodSkill] = handlers.WithPayload(HandleGodSkill)
	r[ActionExit] = handlers.WithEmptyPayload(HandleExit)
}
