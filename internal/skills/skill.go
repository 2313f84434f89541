package skills

import (
	"errors"
	"fmt"
	"sort"

	"notquiteparadise/internal/domain"
	"notquiteparadise/internal/world"
)

// ErrUnknownSkill - навык не зарегистрирован в библиотеке.
var ErrUnknownSkill = errors.New("unknown skill")

type DamageParams struct {
	Base       int               `json:"base"`
	Potency    float64           `json:"potency,omitempty"`
	DamageType domain.DamageType `json:"damageType"`
	Accuracy   int               `json:"accuracy"`
	ModStat    domain.StatType   `json:"modStat"`
	TargetStat domain.StatType   `json:"targetStat"`
	ForceHit   *domain.HitType   `json:"forceHit,omitempty"`
}

// MoveParams: нулевое направление означает "от исполнителя к цели" (толчок).
type MoveParams struct {
	Direction domain.Direction `json:"direction"`
	Distance  int              `json:"distance"`
}

type AfflictionParams struct {
	Name     string          `json:"name"`
	Duration int             `json:"duration"`
	Stat     domain.StatType `json:"stat"`
	Amount   int             `json:"amount"`
}

type TerrainParams struct {
	Terrain world.Terrain `json:"terrain"`
}

type StatParams struct {
	Cause  string          `json:"cause"`
	Stat   domain.StatType `json:"stat"`
	Amount int             `json:"amount"`
}

// CooldownParams: пустой SkillID - все навыки цели.
type CooldownParams struct {
	SkillID string `json:"skillId,omitempty"`
	Amount  int    `json:"amount"`
}

// Effect - тегированный вариант: Kind выбирает, какие параметры читаются.
type Effect struct {
	Kind EffectKind `json:"kind"`
	// ApplyToSelf направляет эффект на исполнителя вместо сущностей на тайле.
	ApplyToSelf bool `json:"applyToSelf,omitempty"`

	Damage     DamageParams     `json:"damage"`
	Move       MoveParams       `json:"move"`
	Affliction AfflictionParams `json:"affliction"`
	Terrain    TerrainParams    `json:"terrain"`
	Stat       StatParams       `json:"stat"`
	Cooldown   CooldownParams   `json:"cooldown"`

	OnSuccess []Effect `json:"onSuccess,omitempty"`
	OnFail    []Effect `json:"onFail,omitempty"`
}

// Skill - статическое описание навыка.
type Skill struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`

	RequiredTags []TargetTag `json:"requiredTags"`
	Shape        Shape       `json:"shape"`
	// ShapeSize - радиус формы (для TARGET игнорируется).
	ShapeSize int `json:"shapeSize"`
	// Range - максимальная дистанция (по Чебышеву) до точки прицеливания, 0 - без ограничения.
	Range int `json:"range"`

	ResourceType domain.ResourceType `json:"resourceType"`
	ResourceCost int                 `json:"resourceCost"`
	TimeCost     int                 `json:"timeCost"`
	Cooldown     int                 `json:"cooldown"`

	Effects []Effect `json:"effects"`
}

// Library - реестр навыков по ID.
type Library struct {
	skills map[string]Skill
}

func NewLibrary(skills ...Skill) *Library {
	l := &Library{skills: make(map[string]Skill, len(skills))}
	for _, s := range skills {
		l.Register(s)
	}
	return l
}

// Register добавляет или заменяет навык.
func (l *Library) Register(s Skill) {
	l.skills[s.ID] = s
}

func (l *Library) Get(id string) (Skill, error) {
	s, ok := l.skills[id]
	if !ok {
		return Skill{}, fmt.Errorf("%w: %q", ErrUnknownSkill, id)
	}
	return s, nil
}

// IDs - отсортированный список навыков.
func (l *Library) IDs() []string {
	ids := make([]string, 0, len(l.skills))
	for id := range l.skills {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
