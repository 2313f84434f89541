package systems

import (
	"math/rand"

	"notquiteparadise/internal/domain"
	"notquiteparadise/pkg/logger"

	"github.com/sirupsen/logrus"
)

// Attack - параметры одного удара (из данных эффекта урона).
type Attack struct {
	Base       int
	Potency    float64
	DamageType domain.DamageType
	Accuracy   int
	ModStat    domain.StatType
	TargetStat domain.StatType
	// ForceHit отключает бросок точности (скрипты, тесты).
	ForceHit *domain.HitType
}

// AttackOutcome - итог удара.
type AttackOutcome struct {
	HitType     domain.HitType
	ToHit       int
	Damage      int
	RemainingHP int
	Died        bool
}

// RollToHit: точность атакующего + точность эффекта + бросок - защитная характеристика цели.
func RollToHit(rng *rand.Rand, attackerAccuracy, effectAccuracy, defence int) int {
	roll := rng.Intn(domain.ToHitSpread*2+1) - domain.ToHitSpread
	return attackerAccuracy + effectAccuracy + roll - defence
}

// CalculateDamage: (база + модификатор + плоский бонус попадания - сопротивление) x множитель.
// Минимум 1.
func CalculateDamage(base, mod, resist int, hit domain.HitType) int {
	raw := base + mod + hit.FlatBonus() - resist
	dmg := int(float64(raw) * hit.Multiplier())
	if dmg < 1 {
		dmg = 1
	}
	return dmg
}

// ResolveAttack бросает точность, считает урон и применяет его к ресурсам цели.
// attacker может быть nil (урон от окружения).
func ResolveAttack(rng *rand.Rand, attacker, defender *domain.CombatStats, target *domain.Resources, a Attack) AttackOutcome {
	combatLogger := logger.Log.WithField("component", "combat_system")

	attackerAccuracy, mod := 0, 0
	if attacker != nil {
		attackerAccuracy = attacker.Get(domain.StatAccuracy)
		mod = attacker.Get(a.ModStat)
	}
	defence, resist := 0, 0
	if defender != nil {
		defence = defender.Get(a.TargetStat)
		resist = defender.Get(domain.ResistFor(a.DamageType))
	}

	var out AttackOutcome
	if a.ForceHit != nil {
		out.HitType = *a.ForceHit
	} else {
		out.ToHit = RollToHit(rng, attackerAccuracy, a.Accuracy, defence)
		out.HitType = domain.HitTypeFor(out.ToHit)
	}

	potency := a.Potency
	if potency == 0 {
		potency = 1
	}
	base := int(float64(a.Base) * potency)

	out.Damage = CalculateDamage(base, mod, resist, out.HitType)
	out.Died = target.TakeDamage(out.Damage)
	out.RemainingHP = target.Health

	combatLogger.WithFields(logrus.Fields{
		"to_hit":       out.ToHit,
		"hit_type":     out.HitType,
		"base_damage":  base,
		"mod":          mod,
		"resist":       resist,
		"final_damage": out.Damage,
		"hp_after":     out.RemainingHP,
		"target_died":  out.Died,
	}).Debug("Attack resolved.")

	return out
}
