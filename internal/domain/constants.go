package domain

// Стоимость действий в единицах времени (time_spent)
const (
	TimeCostMove = 10
	TimeCostWait = 10
)

// Параметры восприятия
const (
	DefaultSightRange       = 8
	DefaultActivationRadius = 12
)

// Пороги попадания (to_hit) и модификаторы урона по типу попадания.
const (
	HitThresholdHit  = 5
	HitThresholdCrit = 20

	FlatBonusGraze = 0
	FlatBonusHit   = 5
	FlatBonusCrit  = 20

	MultiplierGraze = 0.6
	MultiplierHit   = 1.0
	MultiplierCrit  = 1.4

	// Разброс броска точности: [-ToHitSpread, +ToHitSpread]
	ToHitSpread = 3
)

// ImmunityGrace - сколько раундов сверх длительности недуга держится иммунитет к нему.
const ImmunityGrace = 2

// Infinite - значение ресурса, который никогда не тратится (боги).
const Infinite = -1

// Тексты сообщений для игрока
const (
	MsgCannotAfford  = "You cannot afford to do that."
	MsgBlocked       = "There's something in the way!"
	MsgInvalidTarget = "You can't do that there."
	MsgOnCooldown    = "That isn't ready yet."
	MsgUnknownSkill  = "You don't know how to do that."
	MsgNotYourTurn   = "Wait for your turn."
	MsgPlayerDied    = "You have died."
)
