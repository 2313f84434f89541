package engine

import (
	"math/rand"
	"time"

	"notquiteparadise/internal/ai"
	"notquiteparadise/internal/components"
	"notquiteparadise/internal/domain"
	"notquiteparadise/internal/ecs"
	"notquiteparadise/internal/event"
	"notquiteparadise/internal/skills"
	"notquiteparadise/internal/systems"
	"notquiteparadise/internal/world"
	"notquiteparadise/pkg/api"
	"notquiteparadise/pkg/logger"

	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"
)

// Game - контекст симуляции. Владеет хранилищем, шиной, картой и системами;
// порядок создания фиксирован: Store -> Bus -> системы -> Scheduler ->
// обработчики сущностей -> боги -> служебные подписки.
//
// Game не потокобезопасна, ею владеет одна горутина игрового цикла.
type Game struct {
	Config Config
	Seed   int64
	Rng    *rand.Rand

	Store      *ecs.Store
	Bus        *event.Bus
	Map        *world.GameMap
	Visibility *systems.Visibility
	Activation *systems.Activation
	Resolver   *skills.Resolver
	Scheduler  *Scheduler

	// Logs - сообщения с прошлой рассылки.
	Logs []api.LogEntry

	// Restored - игра поднята из снимка, запускать через Resume.
	Restored bool

	log *logrus.Entry
}

// NewGame собирает контекст. Сущности добавляются в g.Store до Start.
func NewGame(cfg Config, gm *world.GameMap, library *skills.Library) *Game {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if library == nil {
		library = skills.DefaultLibrary()
	}

	g := &Game{
		Config: cfg,
		Seed:   seed,
		Rng:    rand.New(rand.NewSource(seed)),
		Map:    gm,
		log:    logger.Log.WithField("component", "game"),
	}

	g.Store = ecs.NewStore()
	g.Bus = event.NewBus(cfg.MaxDispatchDepth)
	g.Visibility = systems.NewVisibility(g.Store, gm)
	g.Activation = systems.NewActivation(g.Store, g.Bus, cfg.ActivationRadius)
	g.Resolver = skills.NewResolver(g.Store, g.Bus, gm, library, g.Rng)

	// Планировщик подписывается раньше обработчика сущностей: на die он
	// успевает пересобрать очередь до удаления сущности.
	g.Scheduler = NewScheduler(g.Store, g.Bus, cfg.RoundLength)
	g.registerEntityHandlers()
	g.registerGodHandlers()
	g.registerHooks()

	g.log.WithField("seed", seed).Info("Game context created")
	return g
}

func (g *Game) registerHooks() {
	g.Bus.Subscribe("game.turn_ended", event.TopicGame, func(event.Event) error {
		g.Activation.Process(g.Scheduler.GlobalTime())
		g.Visibility.Process()
		return nil
	}, event.TypeTurnEnded)

	g.Bus.Subscribe("game.visibility", event.TopicEntity, func(event.Event) error {
		g.Visibility.Process()
		return nil
	}, event.TypeMoved)
	g.Bus.Subscribe("game.terrain", event.TopicMap, func(event.Event) error {
		g.Visibility.Process()
		return nil
	}, event.TypeTerrainChanged)

	g.Bus.Subscribe("game.end_round", event.TopicGame, g.onEndRound, event.TypeEndRound)
	g.Bus.Subscribe("game.messages", event.TopicMessage, g.onMessage, event.TypeMessage)
}

// Start считает активацию и видимость и отдаёт первый ход.
func (g *Game) Start() {
	g.Activation.Process(g.Scheduler.GlobalTime())
	g.Visibility.Process()
	g.Scheduler.Start()
	g.Step()
}

// Resume продолжает восстановленную игру с сохранённой очередью.
func (g *Game) Resume() {
	g.Visibility.Process()
	g.Scheduler.NextTurn()
	g.Step()
}

// Begin запускает новую или восстановленную игру.
func (g *Game) Begin() {
	if g.Restored {
		g.Resume()
		return
	}
	g.Start()
}

// Submit публикует намерение (обычно от игрока) и прогоняет ходы NPC.
func (g *Game) Submit(ev event.Event) error {
	err := g.Bus.Publish(ev)
	g.Store.Flush()
	g.Step()
	return err
}

// Step крутит ходы NPC, пока ход не вернётся к игроку или игра не закончится.
// Удаления применяются после каждого хода.
func (g *Game) Step() {
	limit := g.Config.MaxAITurns
	if limit <= 0 {
		limit = 1000
	}

	for i := 0; i < limit; i++ {
		if g.Scheduler.State() != domain.StateEnemyTurn {
			g.Store.Flush()
			return
		}

		holder := g.Scheduler.Holder()
		before := g.Scheduler.Turns()
		g.processAITurn(holder)

		// Намерение не закончило ход (упёрся в стену, нарушил правило): ждём.
		if g.Scheduler.Turns() == before && g.Scheduler.Holder() == holder &&
			g.Scheduler.State() == domain.StateEnemyTurn {
			g.log.WithField("entity_id", holder).Debug("AI intent did not end the turn, forcing wait")
			_ = g.Bus.Publish(ai.Wait(holder))
		}
		g.Store.Flush()
	}

	g.log.WithField("limit", limit).Warn("AI turn limit reached within one step")
}

// Player - управляемая игроком сущность.
func (g *Game) Player() (domain.EntityID, bool) {
	return g.Store.First(components.IsPlayer)
}

// SetMap заменяет карту во всех системах.
func (g *Game) SetMap(gm *world.GameMap) {
	g.Map = gm
	g.Visibility.SetMap(gm)
	g.Resolver.SetMap(gm)
}

// DrainLogs возвращает накопленные сообщения и очищает буфер.
func (g *Game) DrainLogs() []api.LogEntry {
	out := g.Logs
	g.Logs = nil
	return out
}

func (g *Game) onEndRound(ev event.Event) error {
	e := ev.(event.EndRound)

	systems.ReduceCooldowns(g.Store)
	expired := systems.ReduceAfflictions(g.Store)
	immune := systems.ReduceImmunities(g.Store)
	dead := systems.ReduceLifespans(g.Store)

	g.log.WithFields(logrus.Fields{
		"round":       e.Round,
		"afflictions": len(expired),
		"immunities":  len(immune),
		"expired":     len(dead),
	}).Debug("Round ended")

	for _, id := range dead {
		_ = g.Bus.Publish(event.Die{Entity: id})
	}
	return nil
}

func (g *Game) onMessage(ev event.Event) error {
	e := ev.(event.Message)
	if e.Entity != domain.NilEntityID && !g.Store.Has(e.Entity, components.IsPlayer) {
		return nil
	}
	g.Logs = append(g.Logs, api.LogEntry{
		ID:        ulid.Make().String(),
		Text:      e.Text,
		Type:      e.Kind.String(),
		Timestamp: time.Now().UnixMilli(),
	})
	return nil
}
