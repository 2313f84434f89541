package event

// Topic - грубая категория события.
type Topic uint8

const (
	TopicEntity Topic = iota
	TopicGame
	TopicMessage
	TopicMap
	TopicUI
)

var topicNames = map[Topic]string{
	TopicEntity:  "ENTITY",
	TopicGame:    "GAME",
	TopicMessage: "MESSAGE",
	TopicMap:     "MAP",
	TopicUI:      "UI",
}

func (t Topic) String() string {
	if s, ok := topicNames[t]; ok {
		return s
	}
	return "UNKNOWN"
}

// Type - тип события внутри топика.
type Type uint8

const (
	TypeUnknown Type = iota

	// entity: намерения
	TypeMove
	TypeUseSkill
	TypeWantToUseSkill
	// entity: факты
	TypeMoved
	TypeDie
	TypeDied
	TypeSkillUsed
	TypeDamaged
	TypeAfflicted
	TypeActivated
	TypeDeactivated

	// game
	TypeEndTurn
	TypeTurnEnded
	TypeEndRound
	TypeChangeGameState
	TypeGameStateChanged
	TypeExit

	// message
	TypeMessage

	// map
	TypeTerrainChanged
)

var typeNames = map[Type]string{
	TypeUnknown:          "UNKNOWN",
	TypeMove:             "MOVE",
	TypeUseSkill:         "USE_SKILL",
	TypeWantToUseSkill:   "WANT_TO_USE_SKILL",
	TypeMoved:            "MOVED",
	TypeDie:              "DIE",
	TypeDied:             "DIED",
	TypeSkillUsed:        "SKILL_USED",
	TypeDamaged:          "DAMAGED",
	TypeAfflicted:        "AFFLICTED",
	TypeActivated:        "ACTIVATED",
	TypeDeactivated:      "DEACTIVATED",
	TypeEndTurn:          "END_TURN",
	TypeTurnEnded:        "TURN_ENDED",
	TypeEndRound:         "END_ROUND",
	TypeChangeGameState:  "CHANGE_GAME_STATE",
	TypeGameStateChanged: "GAME_STATE_CHANGED",
	TypeExit:             "EXIT",
	TypeMessage:          "MESSAGE",
	TypeTerrainChanged:   "TERRAIN_CHANGED",
}

// String реализует интерфейс Stringer (для логов)
func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return "UNKNOWN"
}
