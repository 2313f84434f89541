package skills

import (
	"notquiteparadise/internal/domain"
	"notquiteparadise/internal/world"
)

// Идентификаторы встроенных навыков.
const (
	BasicAttack = "basic_attack"
	Lunge       = "lunge"
	Shove       = "shove"
	RaiseWall   = "raise_wall"
	Rally       = "rally"

	// Вмешательства богов.
	Bless = "bless"
	Smite = "smite"
)

// DefaultLibrary - минимальный набор навыков, на котором держится демо и тесты.
func DefaultLibrary() *Library {
	return NewLibrary(
		Skill{
			ID:           BasicAttack,
			Name:         "Basic Attack",
			Description:  "A clumsy, untrained strike.",
			RequiredTags: []TargetTag{TagOtherEntity},
			Shape:        ShapeTarget,
			ShapeSize:    1,
			Range:        1,
			ResourceType: domain.ResourceStamina,
			ResourceCost: 5,
			TimeCost:     30,
			Cooldown:     1,
			Effects: []Effect{{
				Kind: EffectDamage,
				Damage: DamageParams{
					Base:       3,
					DamageType: domain.DamageMundane,
					ModStat:    domain.StatClout,
					TargetStat: domain.StatBustle,
				},
			}},
		},
		Skill{
			ID:           Lunge,
			Name:         "Lunge",
			Description:  "Leap forward a single step.",
			RequiredTags: []TargetTag{TagOpenSpace},
			Shape:        ShapeTarget,
			Range:        1,
			ResourceType: domain.ResourceStamina,
			ResourceCost: 10,
			TimeCost:     40,
			Cooldown:     3,
			Effects: []Effect{{
				Kind:        EffectMove,
				ApplyToSelf: true,
				Move:        MoveParams{Distance: 1},
			}},
		},
		Skill{
			ID:           Shove,
			Name:         "Shove",
			Description:  "Hit a target and push it back.",
			RequiredTags: []TargetTag{TagOtherEntity},
			Shape:        ShapeTarget,
			Range:        1,
			ResourceType: domain.ResourceStamina,
			ResourceCost: 8,
			TimeCost:     30,
			Cooldown:     2,
			Effects: []Effect{{
				Kind: EffectDamage,
				Damage: DamageParams{
					Base:       1,
					DamageType: domain.DamageMundane,
					ModStat:    domain.StatClout,
					TargetStat: domain.StatVigour,
				},
				OnSuccess: []Effect{{
					Kind: EffectMove,
					Move: MoveParams{Distance: 1},
				}},
			}},
		},
		Skill{
			ID:           RaiseWall,
			Name:         "Raise Wall",
			Description:  "Pull stone up from the floor.",
			RequiredTags: []TargetTag{TagOpenSpace},
			Shape:        ShapeCross,
			ShapeSize:    1,
			Range:        4,
			ResourceType: domain.ResourceStamina,
			ResourceCost: 20,
			TimeCost:     50,
			Cooldown:     5,
			Effects: []Effect{{
				Kind:    EffectChangeTerrain,
				Terrain: TerrainParams{Terrain: world.TerrainWall},
			}},
		},
		Skill{
			ID:           Rally,
			Name:         "Rally",
			Description:  "Steady yourself and recover your footing.",
			RequiredTags: []TargetTag{TagSelf},
			Shape:        ShapeTarget,
			ResourceType: domain.ResourceStamina,
			ResourceCost: 5,
			TimeCost:     20,
			Cooldown:     10,
			Effects: []Effect{{
				Kind:       EffectApplyAffliction,
				Affliction: AfflictionParams{Name: "rallied", Duration: 3, Stat: domain.StatAccuracy, Amount: 2},
				OnSuccess: []Effect{{
					Kind:     EffectAffectCooldown,
					Cooldown: CooldownParams{SkillID: BasicAttack, Amount: -1},
				}},
			}},
		},
		Skill{
			ID:           Bless,
			Name:         "Blessing",
			Description:  "A favoured mortal fights with a steadier hand.",
			RequiredTags: []TargetTag{TagOtherEntity},
			Shape:        ShapeTarget,
			Effects: []Effect{{
				Kind:       EffectApplyAffliction,
				Affliction: AfflictionParams{Name: "blessed", Duration: 5, Stat: domain.StatAccuracy, Amount: 3},
			}},
		},
		Skill{
			ID:           Smite,
			Name:         "Smite",
			Description:  "Astral fire for those who displease.",
			RequiredTags: []TargetTag{TagOtherEntity},
			Shape:        ShapeTarget,
			Effects: []Effect{{
				Kind: EffectDamage,
				Damage: DamageParams{
					Base:       6,
					DamageType: domain.DamageAstral,
					Accuracy:   10,
					TargetStat: domain.StatBustle,
				},
			}},
		},
	)
}
