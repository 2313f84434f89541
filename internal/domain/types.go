package domain

// ResourceType - ресурс, которым оплачивается навык.
type ResourceType uint8

const (
	ResourceNone ResourceType = iota
	ResourceHealth
	ResourceStamina
)

func (r ResourceType) String() string {
	switch r {
	case ResourceHealth:
		return "HEALTH"
	case ResourceStamina:
		return "STAMINA"
	}
	return "NONE"
}

// DamageType - тип урона, определяет, каким сопротивлением он гасится.
type DamageType uint8

const (
	DamageBurn DamageType = iota
	DamageCold
	DamageChemical
	DamageAstral
	DamageMundane
)

var damageTypeNames = []string{"BURN", "COLD", "CHEMICAL", "ASTRAL", "MUNDANE"}

func (d DamageType) String() string {
	if int(d) < len(damageTypeNames) {
		return damageTypeNames[d]
	}
	return "UNKNOWN"
}

// StatType - первичные и вторичные характеристики, которые можно модифицировать.
type StatType uint8

const (
	StatVigour StatType = iota
	StatClout
	StatSkullduggery
	StatBustle
	StatExactitude
	StatAccuracy
	StatResistBurn
	StatResistCold
	StatResistChemical
	StatResistAstral
	StatResistMundane
)

var statNames = []string{
	"VIGOUR", "CLOUT", "SKULLDUGGERY", "BUSTLE", "EXACTITUDE", "ACCURACY",
	"RESIST_BURN", "RESIST_COLD", "RESIST_CHEMICAL", "RESIST_ASTRAL", "RESIST_MUNDANE",
}

func (s StatType) String() string {
	if int(s) < len(statNames) {
		return statNames[s]
	}
	return "UNKNOWN"
}

// ResistFor возвращает характеристику сопротивления для типа урона.
func ResistFor(d DamageType) StatType {
	return StatResistBurn + StatType(d)
}

// HitType - уровень попадания.
type HitType uint8

const (
	HitGraze HitType = iota
	HitHit
	HitCrit
)

func (h HitType) String() string {
	switch h {
	case HitHit:
		return "HIT"
	case HitCrit:
		return "CRIT"
	}
	return "GRAZE"
}

// Multiplier возвращает множитель урона для уровня попадания.
func (h HitType) Multiplier() float64 {
	switch h {
	case HitHit:
		return MultiplierHit
	case HitCrit:
		return MultiplierCrit
	}
	return MultiplierGraze
}

// FlatBonus возвращает плоскую прибавку к урону до умножения.
func (h HitType) FlatBonus() int {
	switch h {
	case HitHit:
		return FlatBonusHit
	case HitCrit:
		return FlatBonusCrit
	}
	return FlatBonusGraze
}

// HitTypeFor переводит значение to_hit в уровень попадания.
func HitTypeFor(toHit int) HitType {
	switch {
	case toHit >= HitThresholdCrit:
		return HitCrit
	case toHit >= HitThresholdHit:
		return HitHit
	}
	return HitGraze
}

// GameState - состояния автомата игры. Значения совпадают с именами состояний FSM.
type GameState string

const (
	StateInitialising GameState = "GAME_INITIALISING"
	StatePlayerTurn   GameState = "PLAYER_TURN"
	StateEnemyTurn    GameState = "ENEMY_TURN"
	StatePlayerDead   GameState = "PLAYER_DEAD"
	StateTargeting    GameState = "TARGETING_MODE"
	StateExitGame     GameState = "EXIT_GAME"
)

func (s GameState) String() string { return string(s) }

// MessageKind - тип записи в игровом логе.
type MessageKind uint8

const (
	MessageBasic MessageKind = iota
	MessageSystem
	MessageCombat
)

func (m MessageKind) String() string {
	switch m {
	case MessageSystem:
		return "SYSTEM"
	case MessageCombat:
		return "COMBAT"
	}
	return "BASIC"
}
