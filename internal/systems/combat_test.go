package systems

import (
	"math/rand"
	"testing"

	"notquiteparadise/internal/domain"
)

func TestCalculateDamage(t *testing.T) {
	tests := []struct {
		name   string
		base   int
		mod    int
		resist int
		hit    domain.HitType
		want   int
	}{
		{"Graze", 10, 0, 0, domain.HitGraze, 6},
		{"Hit adds flat bonus", 10, 0, 0, domain.HitHit, 15},
		{"Crit", 10, 0, 0, domain.HitCrit, 42},
		{"Modifier and resist", 10, 3, 5, domain.HitHit, 13},
		{"Minimum one", 1, 0, 100, domain.HitGraze, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CalculateDamage(tt.base, tt.mod, tt.resist, tt.hit); got != tt.want {
				t.Errorf("CalculateDamage() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRollToHit_Spread(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		got := RollToHit(rng, 10, 2, 4)
		if got < 8-domain.ToHitSpread || got > 8+domain.ToHitSpread {
			t.Fatalf("RollToHit out of spread: %d", got)
		}
	}
}

func TestResolveAttack(t *testing.T) {
	hit := domain.HitHit
	attacker := &domain.CombatStats{Base: map[domain.StatType]int{domain.StatClout: 2}}
	defender := &domain.CombatStats{Base: map[domain.StatType]int{domain.StatResistMundane: 1}}
	target := &domain.Resources{Health: 20, MaxHealth: 20}

	a := Attack{
		Base:       10,
		DamageType: domain.DamageMundane,
		ModStat:    domain.StatClout,
		TargetStat: domain.StatBustle,
		ForceHit:   &hit,
	}

	// (10 + 2 + 5 - 1) x 1.0 = 16
	out := ResolveAttack(rand.New(rand.NewSource(1)), attacker, defender, target, a)
	if out.Damage != 16 {
		t.Errorf("Expected damage 16, got %d", out.Damage)
	}
	if target.Health != 4 || out.RemainingHP != 4 {
		t.Errorf("Expected 4 HP left, got %d (outcome %d)", target.Health, out.RemainingHP)
	}
	if out.Died {
		t.Error("Target should survive the first hit")
	}

	// Kill shot
	out = ResolveAttack(rand.New(rand.NewSource(1)), attacker, defender, target, a)
	if !out.Died || target.Health != 0 {
		t.Errorf("Expected target dead with 0 HP, got died=%v hp=%d", out.Died, target.Health)
	}
}

func TestResolveAttack_Environment(t *testing.T) {
	crit := domain.HitCrit
	target := &domain.Resources{Health: 100, MaxHealth: 100}

	// Без атакующего и защитника: (5x2 + 20) x 1.4 = 42
	out := ResolveAttack(rand.New(rand.NewSource(1)), nil, nil, target, Attack{Base: 5, Potency: 2, ForceHit: &crit})
	if out.Damage != 42 {
		t.Errorf("Expected damage 42, got %d", out.Damage)
	}
}
