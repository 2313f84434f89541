package ecs

import (
	"fmt"
	"sort"

	"notquiteparadise/internal/domain"
	"notquiteparadise/pkg/logger"

	"github.com/sirupsen/logrus"
	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/component"
)

// Store владеет идентичностью сущностей и данными компонентов.
//
// Хранение и архетипы делегированы donburi; Store добавляет стабильные
// EntityID, отложенное удаление и ошибки вместо паник.
//
// Указатели, возвращённые Get, действительны до следующего Attach/Detach
// на той же сущности (donburi переносит данные между архетипами).
type Store struct {
	world   donburi.World
	idType  *donburi.ComponentType[domain.EntityID]
	entries map[domain.EntityID]donburi.Entity

	nextIndex uint64

	pending      map[domain.EntityID]struct{}
	pendingOrder []domain.EntityID

	log *logrus.Entry
}

func NewStore() *Store {
	return &Store{
		world:     donburi.NewWorld(),
		idType:    donburi.NewComponentType[domain.EntityID](),
		entries:   make(map[domain.EntityID]donburi.Entity),
		nextIndex: 1,
		pending:   make(map[domain.EntityID]struct{}),
		log:       logger.Log.WithField("component", "entity_store"),
	}
}

// Create создаёт сущность с набором компонентов и возвращает её ID.
// Повторный вид в наборе отклоняется (остаётся первый экземпляр).
func (s *Store) Create(kind domain.EntityKind, attachments ...Attachment) domain.EntityID {
	id := domain.PackEntityID(kind, s.nextIndex)
	s.nextIndex++

	s.spawn(id, attachments)
	s.log.WithFields(logrus.Fields{
		"entity_id":  id,
		"components": len(attachments),
	}).Debug("Entity created")
	return id
}

func (s *Store) spawn(id domain.EntityID, attachments []Attachment) *donburi.Entry {
	types := []component.IComponentType{s.idType}
	accepted := make([]Attachment, 0, len(attachments))
	seen := make(map[string]bool, len(attachments))
	for _, a := range attachments {
		name := a.kind().Name()
		if seen[name] {
			s.log.WithFields(logrus.Fields{
				"entity_id": id,
				"kind":      name,
			}).Error("Duplicate component in create set, ignoring")
			continue
		}
		seen[name] = true
		types = append(types, a.kind().componentType())
		accepted = append(accepted, a)
	}

	e := s.world.Create(types...)
	entry := s.world.Entry(e)
	s.idType.SetValue(entry, id)
	for _, a := range accepted {
		a.apply(entry)
	}
	s.entries[id] = e
	return entry
}

func (s *Store) entry(id domain.EntityID) (*donburi.Entry, error) {
	e, ok := s.entries[id]
	if !ok || !s.world.Valid(e) {
		s.log.WithField("entity_id", id).Warn("Entity does not exist")
		return nil, fmt.Errorf("%w: %s", ErrEntityNotFound, id)
	}
	return s.world.Entry(e), nil
}

// Exists - сущность жива (в том числе если запланирована к удалению).
func (s *Store) Exists(id domain.EntityID) bool {
	e, ok := s.entries[id]
	return ok && s.world.Valid(e)
}

// Attach прикрепляет компонент. Второй экземпляр того же вида - дефект,
// мутация отклоняется.
func Attach[T any](s *Store, id domain.EntityID, k *Kind[T], value T) error {
	entry, err := s.entry(id)
	if err != nil {
		return err
	}
	if entry.HasComponent(k.ctype) {
		s.log.WithFields(logrus.Fields{
			"entity_id": id,
			"kind":      k.name,
		}).Error("Duplicate component attach rejected")
		return fmt.Errorf("%w: %s on %s", ErrDuplicateComponent, k.name, id)
	}
	entry.AddComponent(k.ctype)
	k.ctype.SetValue(entry, value)
	return nil
}

// Get возвращает указатель на компонент или ErrComponentNotFound.
func Get[T any](s *Store, id domain.EntityID, k *Kind[T]) (*T, error) {
	entry, err := s.entry(id)
	if err != nil {
		return nil, err
	}
	if !entry.HasComponent(k.ctype) {
		return nil, fmt.Errorf("%w: %s on %s", ErrComponentNotFound, k.name, id)
	}
	return k.ctype.Get(entry), nil
}

// Detach снимает компонент указанного вида.
func (s *Store) Detach(id domain.EntityID, k ComponentKind) error {
	entry, err := s.entry(id)
	if err != nil {
		return err
	}
	if !entry.HasComponent(k.componentType()) {
		return fmt.Errorf("%w: %s on %s", ErrComponentNotFound, k.Name(), id)
	}
	entry.RemoveComponent(k.componentType())
	return nil
}

// Has проверяет наличие всех указанных видов. Для несуществующей сущности - false.
func (s *Store) Has(id domain.EntityID, kinds ...ComponentKind) bool {
	e, ok := s.entries[id]
	if !ok || !s.world.Valid(e) {
		return false
	}
	entry := s.world.Entry(e)
	for _, k := range kinds {
		if !entry.HasComponent(k.componentType()) {
			return false
		}
	}
	return true
}

// Delete планирует удаление. Фактическое удаление - в Flush.
func (s *Store) Delete(id domain.EntityID) error {
	if !s.Exists(id) {
		s.log.WithField("entity_id", id).Warn("Delete of missing entity ignored")
		return fmt.Errorf("%w: %s", ErrEntityNotFound, id)
	}
	if _, ok := s.pending[id]; ok {
		return nil
	}
	s.pending[id] = struct{}{}
	s.pendingOrder = append(s.pendingOrder, id)
	return nil
}

// IsPendingDeletion - сущность будет удалена на ближайшем Flush.
func (s *Store) IsPendingDeletion(id domain.EntityID) bool {
	_, ok := s.pending[id]
	return ok
}

// Flush применяет отложенные удаления и возвращает удалённые ID в порядке Delete.
func (s *Store) Flush() []domain.EntityID {
	if len(s.pendingOrder) == 0 {
		return nil
	}
	removed := make([]domain.EntityID, 0, len(s.pendingOrder))
	for _, id := range s.pendingOrder {
		if e, ok := s.entries[id]; ok && s.world.Valid(e) {
			s.world.Remove(e)
			removed = append(removed, id)
		}
		delete(s.entries, id)
	}
	s.pending = make(map[domain.EntityID]struct{})
	s.pendingOrder = s.pendingOrder[:0]

	s.log.WithField("count", len(removed)).Debug("Flushed deleted entities")
	return removed
}

// Len - число живых сущностей (включая запланированные к удалению).
func (s *Store) Len() int {
	return len(s.entries)
}

// Entities возвращает все ID в порядке создания.
func (s *Store) Entities() []domain.EntityID {
	ids := make([]domain.EntityID, 0, len(s.entries))
	for id := range s.entries {
		ids = append(ids, id)
	}
	sortByCreation(ids)
	return ids
}

func sortByCreation(ids []domain.EntityID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i].Index() < ids[j].Index() })
}
