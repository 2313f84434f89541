package ecs

import (
	"iter"

	"notquiteparadise/internal/domain"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/component"
	"github.com/yohamta/donburi/filter"
	"github.com/yohamta/donburi/query"
)

// Row - доступ к компонентам сущности внутри Query.
type Row struct {
	entry *donburi.Entry
}

// Field возвращает компонент строки или nil, если его нет.
func Field[T any](r Row, k *Kind[T]) *T {
	if r.entry == nil || !r.entry.HasComponent(k.ctype) {
		return nil
	}
	return k.ctype.Get(r.entry)
}

// Query возвращает ленивую последовательность сущностей, у которых есть все kinds.
//
// Набор сущностей фиксируется в момент начала итерации и обходится в порядке
// создания. Сущности, запланированные к удалению, видны до Flush. Если во время
// обхода у сущности сняли один из запрошенных компонентов, она пропускается.
// Каждый range по результату выполняет запрос заново.
func (s *Store) Query(kinds ...ComponentKind) iter.Seq2[domain.EntityID, Row] {
	types := make([]component.IComponentType, 0, len(kinds)+1)
	types = append(types, s.idType)
	for _, k := range kinds {
		types = append(types, k.componentType())
	}

	return func(yield func(domain.EntityID, Row) bool) {
		q := query.NewQuery(filter.Contains(types...))

		var ids []domain.EntityID
		q.Each(s.world, func(entry *donburi.Entry) {
			ids = append(ids, *s.idType.Get(entry))
		})
		sortByCreation(ids)

		for _, id := range ids {
			e, ok := s.entries[id]
			if !ok || !s.world.Valid(e) {
				continue
			}
			entry := s.world.Entry(e)
			if !hasAll(entry, types) {
				continue
			}
			if !yield(id, Row{entry: entry}) {
				return
			}
		}
	}
}

// Count - число сущностей, подходящих под запрос.
func (s *Store) Count(kinds ...ComponentKind) int {
	n := 0
	for range s.Query(kinds...) {
		n++
	}
	return n
}

// First возвращает первую (по порядку создания) подходящую сущность.
func (s *Store) First(kinds ...ComponentKind) (domain.EntityID, bool) {
	for id := range s.Query(kinds...) {
		return id, true
	}
	return domain.NilEntityID, false
}

func hasAll(entry *donburi.Entry, types []component.IComponentType) bool {
	for _, t := range types {
		if !entry.HasComponent(t) {
			return false
		}
	}
	return true
}
