package domain

// TakeDamage наносит урон. Возвращает true, если цель погибла.
func (r *Resources) TakeDamage(amount int) bool {
	if amount < 0 {
		amount = 0
	}
	r.Health -= amount
	if r.Health <= 0 {
		r.Health = 0
		return true
	}
	return false
}

// Heal лечит сущность
func (r *Resources) Heal(amount int) {
	r.Health += amount
	if r.Health > r.MaxHealth {
		r.Health = r.MaxHealth
	}
}

// CanAfford проверяет, хватает ли ресурса. Infinite всегда хватает.
func (r *Resources) CanAfford(rt ResourceType, cost int) bool {
	switch rt {
	case ResourceHealth:
		return r.Health == Infinite || r.Health > cost
	case ResourceStamina:
		return r.Stamina == Infinite || r.Stamina >= cost
	}
	return true
}

// Spend тратит ресурс. Возвращает false, если не хватило.
func (r *Resources) Spend(rt ResourceType, cost int) bool {
	if !r.CanAfford(rt, cost) {
		return false
	}
	switch rt {
	case ResourceHealth:
		if r.Health != Infinite {
			r.Health -= cost
		}
	case ResourceStamina:
		if r.Stamina != Infinite {
			r.Stamina -= cost
		}
	}
	return true
}

// Get возвращает значение характеристики с учётом модификаторов.
func (s *CombatStats) Get(stat StatType) int {
	v := s.Base[stat]
	for _, m := range s.Mods {
		if m.Stat == stat {
			v += m.Amount
		}
	}
	return v
}

// AddModifier добавляет модификатор. Повтор той же причины отклоняется.
func (s *CombatStats) AddModifier(m StatModifier) bool {
	for _, existing := range s.Mods {
		if existing.Cause == m.Cause {
			return false
		}
	}
	s.Mods = append(s.Mods, m)
	return true
}

// RemoveModifiers снимает все модификаторы с указанной причиной.
func (s *CombatStats) RemoveModifiers(cause string) int {
	kept := s.Mods[:0]
	removed := 0
	for _, m := range s.Mods {
		if m.Cause == cause {
			removed++
			continue
		}
		kept = append(kept, m)
	}
	s.Mods = kept
	return removed
}
