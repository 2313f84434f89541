package network

import (
	"fmt"
	"sync"

	"notquiteparadise/internal/domain"
	"notquiteparadise/internal/event"
	"notquiteparadise/pkg/api"
	"notquiteparadise/pkg/logger"

	"github.com/sirupsen/logrus"
)

// Broadcaster рассылает снимки подписчикам и копит наблюдаемые события ядра
// между рассылками.
type Broadcaster struct {
	mu sync.RWMutex
	// Мапа: EntityID -> Личный канал
	subscribers map[domain.EntityID]chan api.ServerResponse

	feed []api.EventView
	log  *logrus.Entry
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[domain.EntityID]chan api.ServerResponse),
		log:         logger.Log.WithField("component", "broadcaster"),
	}
}

// Observe подписывает ленту на события для презентации.
func (b *Broadcaster) Observe(bus *event.Bus) {
	bus.Subscribe("presentation.entity", event.TopicEntity, b.record,
		event.TypeMoved, event.TypeDied, event.TypeSkillUsed, event.TypeDamaged, event.TypeAfflicted)
	bus.Subscribe("presentation.game", event.TopicGame, b.record,
		event.TypeTurnEnded, event.TypeGameStateChanged)
	bus.Subscribe("presentation.map", event.TopicMap, b.record, event.TypeTerrainChanged)
}

func (b *Broadcaster) record(ev event.Event) error {
	view := api.EventView{Type: ev.Type().String()}
	switch e := ev.(type) {
	case event.Moved:
		view.Entity = e.Entity.String()
		view.Detail = fmt.Sprintf("%d,%d->%d,%d", e.From.X, e.From.Y, e.To.X, e.To.Y)
	case event.Died:
		view.Entity = e.Entity.String()
	case event.SkillUsed:
		view.Entity = e.Entity.String()
		view.Detail = e.SkillID
	case event.Damaged:
		view.Entity = e.Target.String()
		view.Detail = fmt.Sprintf("%d %s %s", e.Amount, e.DamageType, e.HitType)
	case event.Afflicted:
		view.Entity = e.Target.String()
		view.Detail = e.Affliction
	case event.TurnEnded:
		view.Entity = e.Entity.String()
		view.Detail = fmt.Sprintf("%d", e.TimeCost)
	case event.GameStateChanged:
		view.Detail = fmt.Sprintf("%s->%s", e.From, e.To)
	case event.TerrainChanged:
		view.Detail = fmt.Sprintf("%d,%d", e.Position.X, e.Position.Y)
	}

	b.mu.Lock()
	b.feed = append(b.feed, view)
	b.mu.Unlock()
	return nil
}

// DrainFeed возвращает накопленные события и очищает ленту.
func (b *Broadcaster) DrainFeed() []api.EventView {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.feed
	b.feed = nil
	return out
}

// Register создает личный канал для сущности
func (b *Broadcaster) Register(entityID domain.EntityID) chan api.ServerResponse {
	b.mu.Lock()
	defer b.mu.Unlock()

	// Если канал был, закрываем
	if old, ok := b.subscribers[entityID]; ok {
		close(old)
	}

	ch := make(chan api.ServerResponse, 100)
	b.subscribers[entityID] = ch
	return ch
}

// Unregister удаляет подписчика
func (b *Broadcaster) Unregister(entityID domain.EntityID, ch chan api.ServerResponse) {
	b.mu.Lock()
	defer b.mu.Unlock()

	// Канал мог быть уже заменён новым подключением
	if cur, ok := b.subscribers[entityID]; ok && cur == ch {
		close(cur)
		delete(b.subscribers, entityID)
	}
}

// SendTo отправляет сообщение конкретному ID (Unicast)
func (b *Broadcaster) SendTo(entityID domain.EntityID, msg api.ServerResponse) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if ch, ok := b.subscribers[entityID]; ok {
		select {
		case ch <- msg:
		default:
			b.log.WithField("entity_id", entityID).Warn("Subscriber channel full, update dropped")
		}
	}
}

// Subscribers возвращает ID всех подписчиков.
func (b *Broadcaster) Subscribers() []domain.EntityID {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]domain.EntityID, 0, len(b.subscribers))
	for id := range b.subscribers {
		out = append(out, id)
	}
	return out
}

// HasSubscriber проверяет, смотрит ли кто-то за сущностью
func (b *Broadcaster) HasSubscriber(entityID domain.EntityID) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, ok := b.subscribers[entityID]
	return ok
}

// SubscriberCount возвращает количество активных подписчиков.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
