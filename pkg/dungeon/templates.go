package dungeon

import (
	"notquiteparadise/internal/ai"
	"notquiteparadise/internal/components"
	"notquiteparadise/internal/domain"
	"notquiteparadise/internal/ecs"
	"notquiteparadise/internal/skills"
)

// EntityTemplate определяет шаблон для создания актора
type EntityTemplate struct {
	Name        string
	Description string

	Health  int
	Stamina int
	Stats   map[domain.StatType]int

	Height int
	Sight  int
	// Light - радиус собственного источника света (0 - без света).
	Light int

	Policy string
	Skills []string
}

// Spawn создает сущность из шаблона на заданной позиции
func (t EntityTemplate) Spawn(store *ecs.Store, kind domain.EntityKind, pos domain.Position) domain.EntityID {
	stats := make(map[domain.StatType]int, len(t.Stats))
	for k, v := range t.Stats {
		stats[k] = v
	}
	known := append([]string(nil), t.Skills...)

	attachments := []ecs.Attachment{
		ecs.With(components.Identity, domain.Identity{Name: t.Name, Description: t.Description}),
		ecs.With(components.Position, pos),
		ecs.With(components.Resources, domain.Resources{
			Health: t.Health, MaxHealth: t.Health,
			Stamina: t.Stamina, MaxStamina: t.Stamina,
		}),
		ecs.With(components.CombatStats, domain.CombatStats{Base: stats}),
		ecs.With(components.Tracked, domain.Tracked{}),
		ecs.With(components.Physicality, domain.Physicality{Height: t.Height, BlocksMovement: true, BlocksSight: true}),
		ecs.With(components.Knowledge, domain.Knowledge{Skills: known, Cooldowns: map[string]int{}}),
	}
	if t.Sight > 0 {
		attachments = append(attachments, ecs.With(components.Sight, domain.Sight{Range: t.Sight}))
	}
	if t.Light > 0 {
		attachments = append(attachments, ecs.With(components.LightSource, domain.LightSource{Radius: t.Light}))
	}
	if t.Policy != "" {
		attachments = append(attachments, ecs.With(components.Behaviour, domain.Behaviour{Policy: t.Policy}))
	}

	return store.Create(kind, attachments...)
}

// --- ИГРОК ---

var Hero = EntityTemplate{
	Name:        "Hero",
	Description: "A stubborn explorer of ruins.",
	Health:      50,
	Stamina:     40,
	Stats: map[domain.StatType]int{
		domain.StatVigour:     2,
		domain.StatClout:      2,
		domain.StatBustle:     2,
		domain.StatExactitude: 2,
		domain.StatAccuracy:   4,
	},
	Height: 1,
	Sight:  domain.DefaultSightRange,
	Light:  domain.DefaultSightRange,
	Skills: []string{skills.BasicAttack, skills.Lunge, skills.Shove, skills.RaiseWall, skills.Rally},
}

// --- ВРАГИ ---

var Goblin = EntityTemplate{
	Name:        "Goblin",
	Description: "Small, sneaky and always hungry.",
	Health:      12,
	Stamina:     20,
	Stats: map[domain.StatType]int{
		domain.StatBustle:   3,
		domain.StatAccuracy: 3,
	},
	Height: 1,
	Sight:  domain.DefaultSightRange,
	Policy: ai.PolicyBasicMonster,
	Skills: []string{skills.BasicAttack},
}

var Orc = EntityTemplate{
	Name:        "Orc",
	Description: "Tall, furious and covered in scars.",
	Health:      25,
	Stamina:     30,
	Stats: map[domain.StatType]int{
		domain.StatClout:         4,
		domain.StatVigour:        3,
		domain.StatAccuracy:      2,
		domain.StatResistMundane: 1,
	},
	Height: 2,
	Sight:  domain.DefaultSightRange - 2,
	Policy: ai.PolicyBasicMonster,
	Skills: []string{skills.BasicAttack, skills.Shove},
}

// Statue ничего не делает, но загораживает проход.
var Statue = EntityTemplate{
	Name:        "Statue",
	Description: "Someone carved it a very long time ago.",
	Health:      100,
	Height:      2,
	Policy:      ai.PolicySkipTurn,
}

// --- БОГИ ---

// GodTemplate - бог: что ему нравится и чем он отвечает.
type GodTemplate struct {
	Name          string
	Description   string
	Attitudes     map[string]int
	Interventions []domain.Intervention
}

// Spawn создаёт бога без позиции: он всегда активен и не стоит в очереди ходов.
func (t GodTemplate) Spawn(store *ecs.Store) domain.EntityID {
	attitudes := make(map[string]int, len(t.Attitudes))
	for k, v := range t.Attitudes {
		attitudes[k] = v
	}
	known := make([]string, 0, len(t.Interventions))
	for _, in := range t.Interventions {
		known = append(known, in.SkillID)
	}

	return store.Create(domain.KindGod,
		ecs.With(components.Identity, domain.Identity{Name: t.Name, Description: t.Description}),
		ecs.With(components.Knowledge, domain.Knowledge{Skills: known, Cooldowns: map[string]int{}}),
		ecs.With(components.Opinion, domain.Opinion{
			Attitudes:     attitudes,
			Interventions: append([]domain.Intervention(nil), t.Interventions...),
		}),
		ecs.With(components.IsGod, domain.IsGod{}),
	)
}

// Architect любит строить и не любит грубую силу.
var Architect = GodTemplate{
	Name:        "The Architect",
	Description: "Patron of walls, ruins and patient hands.",
	Attitudes: map[string]int{
		skills.RaiseWall:                    10,
		skills.EffectChangeTerrain.String(): 2,
		domain.DamageMundane.String():       -1,
		"rallied":                           3,
	},
	Interventions: []domain.Intervention{
		{SkillID: skills.Bless, RequiredOpinion: 15},
		{SkillID: skills.Smite, RequiredOpinion: -20},
	},
}

// Templates - шаблоны по имени (для LevelBuilder.SpawnEnemy).
var Templates = map[string]EntityTemplate{
	"goblin": Goblin,
	"orc":    Orc,
	"statue": Statue,
}
