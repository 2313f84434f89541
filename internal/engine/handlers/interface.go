package handlers

import (
	"encoding/json"

	"notquiteparadise/internal/domain"
	"notquiteparadise/internal/event"
)

// Context - кто отправил команду.
// Хендлеры не трогают мир: они только превращают команду в намерение.
type Context struct {
	Actor domain.EntityID // Сущность игрока
	God   domain.EntityID // Бог для админских команд (NilEntityID, если нет)
}

// Result - намерение, которое движок опубликует в шину.
type Result struct {
	Intent event.Event
	Msg    string // Текст для лога клиента (необязательно)
}

// HandlerFunc - это контракт для любой команды (MOVE, USE_SKILL, etc).
type HandlerFunc func(ctx Context, payload json.RawMessage) (Result, error)

// EmptyResult - вспомогательная функция для пустого успешного ответа
func EmptyResult() Result {
	return Result{}
}
