package event

import (
	"errors"
	"fmt"

	"notquiteparadise/pkg/logger"

	"github.com/sirupsen/logrus"
)

// DefaultMaxDepth - предел вложенных Publish по умолчанию.
const DefaultMaxDepth = 64

// ErrDispatchDepthExceeded - цикл событий превысил предел вложенности.
var ErrDispatchDepthExceeded = errors.New("event dispatch depth exceeded")

// Handler обрабатывает событие. Ошибка логируется шиной и не прерывает рассылку.
type Handler func(ev Event) error

// SubscriptionID - ключ для Unsubscribe.
type SubscriptionID uint64

type subscription struct {
	id      SubscriptionID
	topic   Topic
	types   map[Type]bool // nil - все типы топика
	handler Handler
	name    string
}

func (s *subscription) matches(ev Event) bool {
	if s.topic != ev.Topic() {
		return false
	}
	return s.types == nil || s.types[ev.Type()]
}

// Bus - синхронный диспетчер событий.
//
// Publish вызывает подписчиков в порядке регистрации на вызывающем потоке.
// Вложенные Publish из обработчиков выполняются сразу (в глубину).
// Шина не потокобезопасна: ею владеет игровой цикл.
type Bus struct {
	subs     []*subscription
	nextID   SubscriptionID
	depth    int
	maxDepth int
	log      *logrus.Entry
}

func NewBus(maxDepth int) *Bus {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Bus{
		maxDepth: maxDepth,
		log:      logger.Log.WithField("component", "event_bus"),
	}
}

// Subscribe регистрирует обработчик на топик и, опционально, на конкретные типы.
// name попадает в логи при ошибках обработчика.
func (b *Bus) Subscribe(name string, topic Topic, handler Handler, types ...Type) SubscriptionID {
	b.nextID++
	sub := &subscription{id: b.nextID, topic: topic, handler: handler, name: name}
	if len(types) > 0 {
		sub.types = make(map[Type]bool, len(types))
		for _, t := range types {
			sub.types[t] = true
		}
	}
	b.subs = append(b.subs, sub)

	b.log.WithFields(logrus.Fields{
		"subscriber": name,
		"topic":      topic,
		"types":      len(types),
	}).Debug("Subscribed")
	return sub.id
}

// Unsubscribe снимает подписку. Текущая рассылка её уже не вызовет.
func (b *Bus) Unsubscribe(id SubscriptionID) bool {
	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return true
		}
	}
	return false
}

// Publish синхронно доставляет событие всем подходящим подписчикам.
func (b *Bus) Publish(ev Event) error {
	if b.depth >= b.maxDepth {
		b.log.WithFields(logrus.Fields{
			"topic": ev.Topic(),
			"type":  ev.Type(),
			"depth": b.depth,
		}).Error("Event dispatch depth exceeded, dropping event")
		return fmt.Errorf("%w: %s/%s at depth %d", ErrDispatchDepthExceeded, ev.Topic(), ev.Type(), b.depth)
	}

	b.depth++
	defer func() { b.depth-- }()

	// Снимок: подписки, добавленные во время рассылки, получат только следующие события.
	subs := b.subs
	for _, s := range subs {
		if !s.matches(ev) || !b.active(s.id) {
			continue
		}
		b.dispatch(s, ev)
	}
	return nil
}

// Depth - текущая глубина вложенности (0 вне Publish).
func (b *Bus) Depth() int {
	return b.depth
}

// HandlerCount - число подписчиков, которые получили бы событие.
func (b *Bus) HandlerCount(ev Event) int {
	n := 0
	for _, s := range b.subs {
		if s.matches(ev) {
			n++
		}
	}
	return n
}

func (b *Bus) active(id SubscriptionID) bool {
	for _, s := range b.subs {
		if s.id == id {
			return true
		}
	}
	return false
}

func (b *Bus) dispatch(s *subscription, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			b.log.WithFields(logrus.Fields{
				"subscriber": s.name,
				"type":       ev.Type(),
				"panic":      r,
			}).Error("Subscriber panicked")
		}
	}()

	if err := s.handler(ev); err != nil {
		b.log.WithFields(logrus.Fields{
			"subscriber": s.name,
			"type":       ev.Type(),
		}).WithError(err).Warn("Subscriber failed")
	}
}
