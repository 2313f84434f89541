package engine

import (
	"context"
	"errors"
	"fmt"

	"notquiteparadise/internal/components"
	"notquiteparadise/internal/domain"
	"notquiteparadise/internal/ecs"
	"notquiteparadise/internal/event"
	"notquiteparadise/pkg/logger"

	"github.com/looplab/fsm"
	"github.com/sirupsen/logrus"
)

// Имена переходов автомата.
const (
	transPlayerTurn = "player_turn"
	transEnemyTurn  = "enemy_turn"
	transPlayerDied = "player_died"
	transTarget     = "target"
	transExit       = "exit"
)

var ErrInvalidState = errors.New("invalid game state for this action")

// Scheduler владеет глобальным временем, очередью ходов и автоматом состояний игры.
//
// Ход переходит к голове очереди (минимальный time_spent). Сам планировщик
// никогда не вызывает ИИ: ходы NPC крутит Game.Step.
type Scheduler struct {
	store *ecs.Store
	bus   *event.Bus
	queue *TurnManager
	fsm   *fsm.FSM

	holder domain.EntityID
	// previous - состояние, в которое вернёт выход из прицеливания.
	previous       domain.GameState
	targetingSkill string

	globalTime  int
	round       int
	roundLength int
	nextRoundAt int
	turns       uint64

	log *logrus.Entry
}

func NewScheduler(store *ecs.Store, bus *event.Bus, roundLength int) *Scheduler {
	if roundLength <= 0 {
		roundLength = 100
	}
	s := &Scheduler{
		store:       store,
		bus:         bus,
		queue:       NewTurnManager(),
		roundLength: roundLength,
		nextRoundAt: roundLength,
		log:         logger.Log.WithField("component", "turn_scheduler"),
	}

	turnStates := []string{
		string(domain.StateInitialising),
		string(domain.StatePlayerTurn),
		string(domain.StateEnemyTurn),
	}
	s.fsm = fsm.NewFSM(
		string(domain.StateInitialising),
		fsm.Events{
			{Name: transPlayerTurn, Src: turnStates, Dst: string(domain.StatePlayerTurn)},
			{Name: transEnemyTurn, Src: turnStates, Dst: string(domain.StateEnemyTurn)},
			{Name: transPlayerDied, Src: append(turnStates, string(domain.StateTargeting)), Dst: string(domain.StatePlayerDead)},
			{Name: transTarget, Src: []string{string(domain.StatePlayerTurn)}, Dst: string(domain.StateTargeting)},
			{Name: transExit, Src: append(turnStates,
				string(domain.StateTargeting),
				string(domain.StatePlayerDead),
			), Dst: string(domain.StateExitGame)},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				s.log.WithFields(logrus.Fields{
					"event": e.Event,
					"from":  e.Src,
					"to":    e.Dst,
				}).Debug("Game state transition")
			},
		},
	)

	bus.Subscribe("scheduler.end_turn", event.TopicGame, s.onEndTurn, event.TypeEndTurn)
	bus.Subscribe("scheduler.change_state", event.TopicGame, s.onChangeGameState, event.TypeChangeGameState, event.TypeExit)
	bus.Subscribe("scheduler.entity", event.TopicEntity, s.onEntityEvent,
		event.TypeDie, event.TypeActivated, event.TypeDeactivated)

	return s
}

// --- Состояние ---

func (s *Scheduler) State() domain.GameState { return domain.GameState(s.fsm.Current()) }

// Holder - сущность, чей сейчас ход (NilEntityID, если ход никому не отдан).
func (s *Scheduler) Holder() domain.EntityID { return s.holder }

func (s *Scheduler) GlobalTime() int { return s.globalTime }

func (s *Scheduler) Round() int { return s.round }

// Turns - число выданных ходов. Меняется при каждом NextTurn.
func (s *Scheduler) Turns() uint64 { return s.turns }

func (s *Scheduler) TargetingSkill() string { return s.targetingSkill }

func (s *Scheduler) Queue() *TurnManager { return s.queue }

// Order - очередь от головы к хвосту.
func (s *Scheduler) Order() []domain.EntityID { return s.queue.Order() }

func (s *Scheduler) terminal() bool {
	st := s.State()
	return st == domain.StatePlayerDead || st == domain.StateExitGame
}

// transition выполняет переход автомата и публикует game_state_changed.
func (s *Scheduler) transition(name string) error {
	from := s.State()
	if err := s.fsm.Event(context.Background(), name); err != nil {
		var noTransition fsm.NoTransitionError
		if errors.As(err, &noTransition) {
			return nil
		}
		return fmt.Errorf("transition %s from %s: %w", name, from, err)
	}
	_ = s.bus.Publish(event.GameStateChanged{From: from, To: s.State()})
	return nil
}

// --- Очередь ---

// Start строит очередь из активных отслеживаемых сущностей и отдаёт первый ход.
func (s *Scheduler) Start() {
	if s.queue.Len() == 0 {
		s.Rebuild()
	}
	s.NextTurn()
}

// Rebuild пересобирает очередь из живых активных сущностей в порядке создания.
// Сущности из exclude и помеченные на удаление пропускаются.
func (s *Scheduler) Rebuild(exclude ...domain.EntityID) {
	skip := make(map[domain.EntityID]bool, len(exclude))
	for _, id := range exclude {
		skip[id] = true
	}

	s.queue.Clear()
	for id, row := range s.store.Query(components.Tracked, components.Active) {
		if skip[id] || s.store.IsPendingDeletion(id) {
			continue
		}
		s.queue.AddEntity(id, ecs.Field(row, components.Tracked).TimeSpent)
	}
	s.log.WithField("size", s.queue.Len()).Debug("Turn queue rebuilt")
}

// RestoreQueue восстанавливает очередь в сохранённом порядке (загрузка снимка).
func (s *Scheduler) RestoreQueue(order []domain.EntityID, globalTime, round int) {
	s.queue.Clear()
	for _, id := range order {
		tracked, err := ecs.Get(s.store, id, components.Tracked)
		if err != nil {
			s.log.WithField("entity_id", id).Warn("Snapshot queue entry has no Tracked component")
			continue
		}
		s.queue.AddEntity(id, tracked.TimeSpent)
	}
	s.globalTime = globalTime
	s.round = round
	s.nextRoundAt = (round + 1) * s.roundLength
}

// head возвращает валидную голову очереди. Ссылка на удалённую сущность
// считается нарушением инварианта: очередь пересобирается.
func (s *Scheduler) head() *TurnItem {
	item := s.queue.PeekNext()
	if item == nil {
		return nil
	}
	if s.store.Exists(item.Entity) && !s.store.IsPendingDeletion(item.Entity) {
		return item
	}
	s.log.WithField("entity_id", item.Entity).Error("Turn queue references a missing entity, rebuilding")
	s.Rebuild(item.Entity)
	return s.queue.PeekNext()
}

// NextTurn отдаёт ход голове очереди, продвигая глобальное время (и раунды).
func (s *Scheduler) NextTurn() {
	if s.terminal() {
		return
	}
	s.holder = domain.NilEntityID

	var item *TurnItem
	for {
		item = s.head()
		if item == nil {
			s.log.Warn("Turn queue is empty")
			return
		}
		if item.Priority <= s.globalTime {
			break
		}
		s.advanceTime(item.Priority)
		if s.terminal() {
			return
		}
	}

	s.holder = item.Entity
	s.turns++

	name := transEnemyTurn
	if s.store.Has(item.Entity, components.IsPlayer) {
		name = transPlayerTurn
	}
	if err := s.transition(name); err != nil {
		s.log.WithError(err).Error("Failed to hand over the turn")
	}

	s.log.WithFields(logrus.Fields{
		"holder": s.holder,
		"time":   s.globalTime,
		"turn":   s.turns,
	}).Debug("Turn started")
}

// advanceTime двигает глобальное время вперёд и закрывает пройденные раунды.
func (s *Scheduler) advanceTime(t int) {
	if t <= s.globalTime {
		return
	}
	s.globalTime = t
	for s.globalTime >= s.nextRoundAt {
		s.round++
		s.nextRoundAt += s.roundLength
		_ = s.bus.Publish(event.EndRound{Round: s.round})
	}
}

// --- Обработчики событий ---

func (s *Scheduler) onEndTurn(ev event.Event) error {
	e := ev.(event.EndTurn)
	if s.terminal() {
		return nil
	}

	log := s.log.WithFields(logrus.Fields{"entity_id": e.Entity, "cost": e.TimeCost})

	if e.Entity != s.holder {
		if !s.store.Exists(e.Entity) || s.store.IsPendingDeletion(e.Entity) {
			log.Debug("end_turn from a removed entity ignored")
			return nil
		}
		log.WithField("holder", s.holder).Error("end_turn from an entity that does not hold the turn")
		if s.holder == domain.NilEntityID || !s.queue.Contains(s.holder) {
			s.Rebuild()
			s.NextTurn()
		}
		return nil
	}

	cost := e.TimeCost
	if cost < 0 {
		log.Warn("Negative time cost clamped to zero")
		cost = 0
	}

	tracked, err := ecs.Get(s.store, e.Entity, components.Tracked)
	if err != nil {
		log.WithError(err).Error("Turn holder is not tracked")
		s.queue.RemoveEntity(e.Entity)
		s.NextTurn()
		return nil
	}
	tracked.TimeSpent += cost
	if !s.queue.UpdatePriority(e.Entity, tracked.TimeSpent) {
		s.queue.AddEntity(e.Entity, tracked.TimeSpent)
	}

	if s.State() == domain.StateTargeting {
		s.ExitTargeting()
	}

	_ = s.bus.Publish(event.TurnEnded{Entity: e.Entity, TimeCost: cost})
	s.NextTurn()
	return nil
}

func (s *Scheduler) onEntityEvent(ev event.Event) error {
	switch e := ev.(type) {
	case event.Die:
		s.onDie(e.Entity)
	case event.Activated:
		if s.store.Has(e.Entity, components.IsGod) || s.store.IsPendingDeletion(e.Entity) {
			return nil
		}
		if tracked, err := ecs.Get(s.store, e.Entity, components.Tracked); err == nil {
			s.queue.AddEntity(e.Entity, tracked.TimeSpent)
		}
	case event.Deactivated:
		s.queue.RemoveEntity(e.Entity)
	}
	return nil
}

func (s *Scheduler) onDie(id domain.EntityID) {
	if s.store.IsPendingDeletion(id) {
		return
	}
	s.queue.RemoveEntity(id)

	if s.store.Has(id, components.IsPlayer) {
		if s.terminal() {
			return
		}
		s.holder = domain.NilEntityID
		if err := s.transition(transPlayerDied); err != nil {
			s.log.WithError(err).Error("Failed to enter PLAYER_DEAD")
		}
		return
	}

	if id == s.holder {
		s.Rebuild(id)
		s.NextTurn()
	}
}

func (s *Scheduler) onChangeGameState(ev event.Event) error {
	switch e := ev.(type) {
	case event.Exit:
		return s.transition(transExit)
	case event.ChangeGameState:
		switch e.State {
		case domain.StateTargeting:
			return s.EnterTargeting(e.SkillID)
		case domain.StateExitGame:
			return s.transition(transExit)
		case domain.StatePlayerTurn:
			s.ExitTargeting()
		default:
			s.log.WithField("state", e.State).Warn("Unsupported game state change request")
		}
	}
	return nil
}

// EnterTargeting сохраняет текущее состояние и переходит в режим прицеливания.
func (s *Scheduler) EnterTargeting(skillID string) error {
	if s.State() == domain.StateTargeting {
		s.targetingSkill = skillID
		return nil
	}
	if s.State() != domain.StatePlayerTurn {
		return fmt.Errorf("%w: targeting from %s", ErrInvalidState, s.State())
	}
	s.previous = s.State()
	s.targetingSkill = skillID
	return s.transition(transTarget)
}

// ExitTargeting возвращает сохранённое состояние.
func (s *Scheduler) ExitTargeting() {
	if s.State() != domain.StateTargeting {
		return
	}
	prev := s.previous
	if prev == "" {
		prev = domain.StatePlayerTurn
	}
	s.fsm.SetState(string(prev))
	s.targetingSkill = ""
	_ = s.bus.Publish(event.GameStateChanged{From: domain.StateTargeting, To: prev})
}
