package api

import (
	"encoding/json"
)

// Типы сообщений сервера.
const (
	ResponseUpdate = "UPDATE"
	ResponseError  = "ERROR"
)

// Команды клиента.
const (
	ActionMove            = "MOVE"
	ActionUseSkill        = "USE_SKILL"
	ActionWantToUseSkill  = "WANT_TO_USE_SKILL"
	ActionCancelTargeting = "CANCEL_TARGETING"
	ActionWait            = "WAIT"

	// ActionInit - первое сообщение соединения, запрашивает текущий снимок.
	ActionInit = "INIT"
)

// --- СЕРВЕР -> КЛИЕНТ ---

// ServerResponse - снимок того, что видит игрок. Отправляется после каждого
// шага симуляции.
type ServerResponse struct {
	// Type - UPDATE или ERROR.
	Type string `json:"type"`

	// Tick - глобальное время симуляции.
	Tick  int `json:"tick"`
	Round int `json:"round"`

	// State - состояние автомата игры (PLAYER_TURN, TARGETING_MODE, ...).
	State string `json:"state"`

	// ActiveEntityID - чей сейчас ход. Клиент принимает ввод, только если
	// совпадает с MyEntityID.
	ActiveEntityID string `json:"activeEntityId,omitempty"`
	MyEntityID     string `json:"myEntityId,omitempty"`

	// TargetingSkill - навык, для которого выбирается цель.
	TargetingSkill string `json:"targetingSkill,omitempty"`

	Grid     *GridMeta    `json:"grid,omitempty"`
	Map      []TileView   `json:"map,omitempty"`
	Entities []EntityView `json:"entities,omitempty"`
	Logs     []LogEntry   `json:"logs,omitempty"`
	Events   []EventView  `json:"events,omitempty"`

	// Error - текст ошибки разбора команды (Type == ERROR).
	Error string `json:"error,omitempty"`
}

// GridMeta - размеры карты.
type GridMeta struct {
	Width  int `json:"w"`
	Height int `json:"h"`
}

// TileView - видимый или исследованный тайл.
type TileView struct {
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Terrain string `json:"terrain"`

	IsVisible  bool `json:"isVisible"`
	IsExplored bool `json:"isExplored"`
}

// EntityView - видимая игроку сущность.
type EntityView struct {
	ID   string `json:"id"`
	Kind string `json:"kind"`
	Name string `json:"name"`
	X    int    `json:"x"`
	Y    int    `json:"y"`

	Stats *StatsView `json:"stats,omitempty"`
}

// StatsView - ресурсы сущности.
type StatsView struct {
	HP         int `json:"hp"`
	MaxHP      int `json:"maxHp"`
	Stamina    int `json:"stamina,omitempty"`
	MaxStamina int `json:"maxStamina,omitempty"`
	TimeSpent  int `json:"timeSpent"`
}

// LogEntry - одна запись игрового лога.
type LogEntry struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Type      string `json:"type"`      // BASIC, SYSTEM, COMBAT
	Timestamp int64  `json:"timestamp"` // Unix milliseconds
}

// EventView - наблюдаемое событие ядра (для анимаций клиента).
type EventView struct {
	Type   string `json:"type"`
	Entity string `json:"entity,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// --- КЛИЕНТ -> СЕРВЕР ---

// ClientCommand - корневой объект сообщения от клиента.
type ClientCommand struct {
	Action string `json:"action"`

	// Payload - данные действия, структура зависит от Action.
	Payload json.RawMessage `json:"payload"`
}

// --- Payloads ---

// DirectionPayload - MOVE.
type DirectionPayload struct {
	Dx int `json:"dx"` // Смещение по X (-1, 0, 1)
	Dy int `json:"dy"` // Смещение по Y (-1, 0, 1)
}

// SkillPayload - USE_SKILL: навык и точка на карте.
type SkillPayload struct {
	SkillID string `json:"skillId"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
}

// SlotPayload - WANT_TO_USE_SKILL: номер слота навыка.
type SlotPayload struct {
	Slot int `json:"slot"`
}
