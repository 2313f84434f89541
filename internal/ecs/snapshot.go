package ecs

import (
	"encoding/json"
	"fmt"

	"notquiteparadise/internal/domain"
)

// Record - сериализованная сущность: ID и компоненты по имени вида.
type Record struct {
	ID         domain.EntityID            `json:"id"`
	Components map[string]json.RawMessage `json:"components"`
}

// Export сериализует все живые сущности (без запланированных к удалению)
// по переданному каталогу видов. Виды вне каталога не сохраняются.
func (s *Store) Export(kinds []ComponentKind) ([]Record, error) {
	records := make([]Record, 0, len(s.entries))
	for _, id := range s.Entities() {
		if s.IsPendingDeletion(id) {
			continue
		}
		entry := s.world.Entry(s.entries[id])
		rec := Record{ID: id, Components: make(map[string]json.RawMessage)}
		for _, k := range kinds {
			if !entry.HasComponent(k.componentType()) {
				continue
			}
			raw, err := k.encode(entry)
			if err != nil {
				return nil, fmt.Errorf("export %s: %w", id, err)
			}
			rec.Components[k.Name()] = raw
		}
		records = append(records, rec)
	}
	return records, nil
}

// Restore воссоздаёт сущности с исходными ID. Следующий Create выдаст индекс
// больше любого восстановленного.
func (s *Store) Restore(records []Record, kinds []ComponentKind) error {
	byName := make(map[string]ComponentKind, len(kinds))
	for _, k := range kinds {
		byName[k.Name()] = k
	}

	for _, rec := range records {
		if s.Exists(rec.ID) {
			return fmt.Errorf("restore %s: %w", rec.ID, ErrEntityExists)
		}
		entry := s.spawn(rec.ID, nil)
		for name, raw := range rec.Components {
			k, ok := byName[name]
			if !ok {
				s.log.WithField("kind", name).Warn("Unknown component kind in snapshot, skipping")
				continue
			}
			if err := k.decode(entry, raw); err != nil {
				return fmt.Errorf("restore %s: %w", rec.ID, err)
			}
			// AddComponent переносит сущность в другой архетип.
			entry = s.world.Entry(s.entries[rec.ID])
		}
		if idx := rec.ID.Index(); idx >= s.nextIndex {
			s.nextIndex = idx + 1
		}
	}
	return nil
}
