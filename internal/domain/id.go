package domain

import (
	"fmt"
	"strconv"
)

// EntityID - упакованный идентификатор (Kind + Index).
//
// Index выдаётся хранилищем последовательно, поэтому порядок индексов
// совпадает с порядком создания сущностей.
type EntityID uint64

// NilEntityID - отсутствующая сущность.
const NilEntityID EntityID = 0

const (
	bitsIndex = 40
	bitsKind  = 8

	shiftKind = bitsIndex

	maskIndex = (1 << bitsIndex) - 1
	maskKind  = (1 << bitsKind) - 1
)

// EntityKind - грубая категория сущности, зашитая в ID (для логов и клиента).
type EntityKind uint8

const (
	KindUnknown EntityKind = iota
	KindPlayer
	KindActor
	KindGod
	KindProp
)

var kindNames = map[EntityKind]string{
	KindUnknown: "UNKNOWN",
	KindPlayer:  "PLAYER",
	KindActor:   "ACTOR",
	KindGod:     "GOD",
	KindProp:    "PROP",
}

func (k EntityKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "UNKNOWN"
}

// PackEntityID создает ID из компонентов
func PackEntityID(kind EntityKind, index uint64) EntityID {
	id := index & maskIndex
	id |= (uint64(kind) & maskKind) << shiftKind
	return EntityID(id)
}

func (id EntityID) Kind() EntityKind {
	return EntityKind((id >> shiftKind) & maskKind)
}

func (id EntityID) Index() uint64 {
	return uint64(id & maskIndex)
}

// MarshalJSON сериализует ID в строку, так как JS теряет точность для больших int64
func (id EntityID) MarshalJSON() ([]byte, error) {
	s := strconv.FormatUint(uint64(id), 10)
	return []byte(`"` + s + `"`), nil
}

// UnmarshalJSON парсит строку или число из JSON
func (id *EntityID) UnmarshalJSON(data []byte) error {
	if len(data) > 1 && data[0] == '"' && data[len(data)-1] == '"' {
		data = data[1 : len(data)-1]
	}
	val, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		return err
	}
	*id = EntityID(val)
	return nil
}

// ParseEntityID разбирает десятичное представление (как в JSON).
func ParseEntityID(s string) (EntityID, error) {
	val, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return NilEntityID, fmt.Errorf("parse entity id %q: %w", s, err)
	}
	return EntityID(val), nil
}

// String для логов: [KIND:Idx]
func (id EntityID) String() string {
	return fmt.Sprintf("[%s:%d]", id.Kind(), id.Index())
}
