package component

import (
	"errors"
	"reflect"
	"sync/atomic"
)

var (
	ErrEntityNotAlive       = errors.New("ecs: entity not alive")
	ErrNilComponent         = errors.New("ecs: component is nil")
	ErrInvalidComponentKind = errors.New("ecs: invalid component kind")
)

// ComponentID indexes a world's component stores. Zero is unregistered.
type ComponentID uint32

var registered atomic.Uint32

// ComponentKind is the typed key for one component store.
type ComponentKind[T any] struct {
	id   ComponentID
	name string
}

func (k ComponentKind[T]) ID() ComponentID { return k.id }

func (k ComponentKind[T]) Valid() bool { return k.id != 0 }

// String names the component type for error messages.
func (k ComponentKind[T]) String() string {
	if k.name == "" {
		return "component?"
	}
	return k.name
}

// ComponentHandle is declared once per component type, at package level.
type ComponentHandle[T any] struct {
	kind ComponentKind[T]
}

func NewComponent[T any]() ComponentHandle[T] {
	return ComponentHandle[T]{kind: ComponentKind[T]{
		id:   ComponentID(registered.Add(1)),
		name: reflect.TypeFor[T]().String(),
	}}
}

func (h ComponentHandle[T]) Kind() ComponentKind[T] { return h.kind }
