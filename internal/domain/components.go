package domain

// --- КОМПОНЕНТЫ ---
// Все компоненты - простые данные. Поведение живёт в системах.

// Identity - имя и описание для логов и клиента.
type Identity struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Resources - здоровье и выносливость.
type Resources struct {
	Health     int `json:"health"`
	MaxHealth  int `json:"maxHealth"`
	Stamina    int `json:"stamina"`
	MaxStamina int `json:"maxStamina"`
}

// StatModifier - именованная прибавка к характеристике (от эффекта или недуга).
type StatModifier struct {
	Cause  string   `json:"cause"`
	Stat   StatType `json:"stat"`
	Amount int      `json:"amount"`
}

// CombatStats - характеристики, участвующие в расчёте попадания и урона.
type CombatStats struct {
	Base map[StatType]int `json:"base"`
	Mods []StatModifier   `json:"mods,omitempty"`
}

// Tracked - участник очереди ходов.
type Tracked struct {
	TimeSpent int `json:"timeSpent"`
}

// FieldOfView - личное поле зрения актора (пересчитывается системой видимости).
type FieldOfView struct {
	Mask *Mask `json:"-"`
}

// Sight - дальность зрения.
type Sight struct {
	Range int `json:"range"`
}

// LightSource - источник света с радиусом.
type LightSource struct {
	Radius int `json:"radius"`
}

// Physicality - физическое присутствие на тайле.
type Physicality struct {
	Height         int  `json:"height"`
	BlocksMovement bool `json:"blocksMovement"`
	BlocksSight    bool `json:"blocksSight"`
}

// Behaviour - имя политики ИИ (см. пакет ai).
type Behaviour struct {
	Policy string `json:"policy"`
}

// Knowledge - известные навыки (порядок = слоты) и их перезарядка.
type Knowledge struct {
	Skills    []string       `json:"skills"`
	Cooldowns map[string]int `json:"cooldowns,omitempty"`
}

// Affliction - временный недуг, пока активен держит модификатор характеристики.
type Affliction struct {
	Name     string   `json:"name"`
	Duration int      `json:"duration"`
	Origin   EntityID `json:"origin"`
	Stat     StatType `json:"stat"`
	Amount   int      `json:"amount"`
}

// Afflictions - активные недуги сущности.
type Afflictions struct {
	Active []Affliction `json:"active"`
}

// Immunities - недуги, которые сейчас не действуют на сущность, и сколько
// раундов это продлится.
type Immunities struct {
	Active map[string]int `json:"active"`
}

// Has - есть ли иммунитет к недугу.
func (im *Immunities) Has(name string) bool {
	return im != nil && im.Active[name] > 0
}

// Grant выдаёт иммунитет, не укорачивая уже имеющийся.
func (im *Immunities) Grant(name string, rounds int) {
	if im.Active == nil {
		im.Active = make(map[string]int)
	}
	if rounds > im.Active[name] {
		im.Active[name] = rounds
	}
}

// Intervention - навык бога и мнение, начиная с которого он готов его применить.
// Отрицательный порог означает вмешательство против неугодных.
type Intervention struct {
	SkillID         string `json:"skillId"`
	RequiredOpinion int    `json:"requiredOpinion"`
}

// Opinion - отношение бога к действиям (Attitudes) и к тем, кто их совершает (Scores).
// Действие - имя навыка, вид эффекта, тип урона или имя недуга.
type Opinion struct {
	Attitudes     map[string]int   `json:"attitudes"`
	Interventions []Intervention   `json:"interventions,omitempty"`
	Scores        map[EntityID]int `json:"scores,omitempty"`
}

// Cares - есть ли у бога отношение к действию.
func (o *Opinion) Cares(action string) bool {
	_, ok := o.Attitudes[action]
	return ok
}

// Judge меняет мнение о сущности по действию. false - богу всё равно.
func (o *Opinion) Judge(actor EntityID, action string) (int, bool) {
	change, ok := o.Attitudes[action]
	if !ok {
		return o.Scores[actor], false
	}
	if o.Scores == nil {
		o.Scores = make(map[EntityID]int)
	}
	o.Scores[actor] += change
	return o.Scores[actor], true
}

// Eligible - вмешательства, порог которых мнение о сущности превысило,
// и их веса (на сколько превысило).
func (o *Opinion) Eligible(actor EntityID) ([]string, []int) {
	score := o.Scores[actor]
	var skills []string
	var weights []int
	for _, in := range o.Interventions {
		switch {
		case in.RequiredOpinion >= 0 && score > in.RequiredOpinion:
			skills = append(skills, in.SkillID)
			weights = append(weights, score-in.RequiredOpinion)
		case in.RequiredOpinion < 0 && score < in.RequiredOpinion:
			skills = append(skills, in.SkillID)
			weights = append(weights, in.RequiredOpinion-score)
		}
	}
	return skills, weights
}

// Lifespan - сущность умирает, когда счётчик раундов доходит до нуля.
type Lifespan struct {
	Rounds int `json:"rounds"`
}

// Теги (компоненты без данных).
type (
	Active   struct{}
	IsPlayer struct{}
	IsGod    struct{}
)
