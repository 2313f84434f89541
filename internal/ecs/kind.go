package ecs

import (
	"encoding/json"
	"fmt"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/component"
)

// ComponentKind - нетипизированная сторона Kind[T], нужна для Detach/Has/Query.
type ComponentKind interface {
	Name() string
	componentType() component.IComponentType
	encode(entry *donburi.Entry) (json.RawMessage, error)
	decode(entry *donburi.Entry, raw json.RawMessage) error
}

// Kind[T] - зарегистрированный вид компонента. Каждый NewKind создаёт
// отдельный тип компонента donburi.
type Kind[T any] struct {
	name  string
	ctype *donburi.ComponentType[T]
}

// NewKind регистрирует вид компонента с именем (имя используется в снапшотах и логах).
func NewKind[T any](name string) *Kind[T] {
	return &Kind[T]{name: name, ctype: donburi.NewComponentType[T]()}
}

func (k *Kind[T]) Name() string { return k.name }

func (k *Kind[T]) String() string { return k.name }

func (k *Kind[T]) componentType() component.IComponentType { return k.ctype }

func (k *Kind[T]) encode(entry *donburi.Entry) (json.RawMessage, error) {
	return json.Marshal(k.ctype.Get(entry))
}

func (k *Kind[T]) decode(entry *donburi.Entry, raw json.RawMessage) error {
	var v T
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &v); err != nil {
			return fmt.Errorf("decode %s: %w", k.name, err)
		}
	}
	if !entry.HasComponent(k.ctype) {
		entry.AddComponent(k.ctype)
	}
	k.ctype.SetValue(entry, v)
	return nil
}

// Attachment - компонент со значением, готовый к прикреплению при Create.
type Attachment interface {
	kind() ComponentKind
	apply(entry *donburi.Entry)
}

type attachment[T any] struct {
	k     *Kind[T]
	value T
}

func (a attachment[T]) kind() ComponentKind { return a.k }

func (a attachment[T]) apply(entry *donburi.Entry) {
	a.k.ctype.SetValue(entry, a.value)
}

// With упаковывает значение компонента для Create.
func With[T any](k *Kind[T], value T) Attachment {
	return attachment[T]{k: k, value: value}
}
