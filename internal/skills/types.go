package skills

// TargetTag - требование к тайлу-цели навыка.
type TargetTag uint8

const (
	TagAny TargetTag = iota
	TagFloor
	TagWall
	TagSelf
	TagOtherEntity
	TagNoEntity
	TagOutOfBounds
	TagOpenSpace
	TagBlockedMovement
)

var tagNames = map[TargetTag]string{
	TagAny:             "ANY",
	TagFloor:           "FLOOR",
	TagWall:            "WALL",
	TagSelf:            "SELF",
	TagOtherEntity:     "OTHER_ENTITY",
	TagNoEntity:        "NO_ENTITY",
	TagOutOfBounds:     "OUT_OF_BOUNDS",
	TagOpenSpace:       "OPEN_SPACE",
	TagBlockedMovement: "BLOCKED_MOVEMENT",
}

func (t TargetTag) String() string {
	if s, ok := tagNames[t]; ok {
		return s
	}
	return "UNKNOWN"
}

// Shape - форма области действия вокруг точки прицеливания.
type Shape uint8

const (
	ShapeTarget Shape = iota
	ShapeSquare
	ShapeCircle
	ShapeCross
)

func (s Shape) String() string {
	switch s {
	case ShapeSquare:
		return "SQUARE"
	case ShapeCircle:
		return "CIRCLE"
	case ShapeCross:
		return "CROSS"
	}
	return "TARGET"
}

// EffectKind - вид атомарного эффекта.
type EffectKind uint8

const (
	EffectDamage EffectKind = iota
	EffectMove
	EffectApplyAffliction
	EffectChangeTerrain
	EffectAffectStat
	EffectAffectCooldown
)

var effectNames = map[EffectKind]string{
	EffectDamage:          "DAMAGE",
	EffectMove:            "MOVE",
	EffectApplyAffliction: "APPLY_AFFLICTION",
	EffectChangeTerrain:   "CHANGE_TERRAIN",
	EffectAffectStat:      "AFFECT_STAT",
	EffectAffectCooldown:  "AFFECT_COOLDOWN",
}

func (k EffectKind) String() string {
	if s, ok := effectNames[k]; ok {
		return s
	}
	return "UNKNOWN"
}

// TargetsTile - эффект применяется к тайлу, а не к сущностям на нём.
func (k EffectKind) TargetsTile() bool {
	return k == EffectChangeTerrain
}
