package api

import "errors"

// Validator - интерфейс, который могут реализовать DTO
type Validator interface {
	Validate() error
}

func (p DirectionPayload) Validate() error {
	if p.Dx == 0 && p.Dy == 0 {
		return errors.New("movement vector cannot be zero")
	}
	if p.Dx < -1 || p.Dx > 1 || p.Dy < -1 || p.Dy > 1 {
		return errors.New("movement step too large")
	}
	return nil
}

func (p SkillPayload) Validate() error {
	if p.SkillID == "" {
		return errors.New("skillId is required")
	}
	if p.X < 0 || p.Y < 0 {
		return errors.New("target position cannot be negative")
	}
	return nil
}

func (p SlotPayload) Validate() error {
	if p.Slot < 0 {
		return errors.New("slot cannot be negative")
	}
	return nil
}
