package actions

import (
	"notquiteparadise/internal/engine/handlers"
	"notquiteparadise/pkg/api"
)

// Register добавляет игровые команды в реестр.
func Register(r handlers.Registry) {
	r[api.ActionMove] = handlers.WithPayload(HandleMove)
	r[api.ActionUseSkill] = handlers.WithPayload(HandleUseSkill)
	r[api.ActionWantToUseSkill] = handlers.WithPayload(HandleWantToUseSkill)
	r[api.ActionCancelTargeting] = handlers.WithEmptyPayload(HandleCancelTargeting)
	r[api.ActionWait] = handlers.WithEmptyPayload(HandleWait)
}
