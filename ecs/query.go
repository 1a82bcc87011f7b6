package ecs

import "github.com/milk9111/netguardian/ecs/component"

// handles snapshots the live entities stored in s, generation included, so
// a slot destroyed and reused during the walk is not visited.
func (w *World) handles(s *SparseSet) []Entity {
	ids := s.snapshot()
	out := make([]Entity, 0, len(ids))
	for _, id := range ids {
		if e, ok := w.entities.handle(id); ok {
			out = append(out, e)
		}
	}
	return out
}

// ForEach visits every entity holding kind. The entity list is snapshotted
// before the first callback, so fn may create or destroy entities; entities
// created during the walk are not visited.
func ForEach[T any](w *World, kind component.ComponentKind[T], fn func(Entity, *T)) {
	s := w.store(kind.ID(), false)
	for _, e := range w.handles(s) {
		if !w.entities.isAlive(e) {
			continue
		}
		v, ok := s.Get(e.id()).(*T)
		if !ok {
			continue
		}
		fn(e, v)
	}
}

func ForEach2[A, B any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], fn func(Entity, *A, *B)) {
	sa := w.store(ka.ID(), false)
	sb := w.store(kb.ID(), false)
	if sa == nil || sb == nil {
		return
	}
	driver := sa
	if sb.Len() < sa.Len() {
		driver = sb
	}
	for _, e := range w.handles(driver) {
		visit2(w, e, sa, sb, fn)
	}
}

func visit2[A, B any](w *World, e Entity, sa, sb *SparseSet, fn func(Entity, *A, *B)) {
	if !w.entities.isAlive(e) {
		return
	}
	a, okA := sa.Get(e.id()).(*A)
	b, okB := sb.Get(e.id()).(*B)
	if !okA || !okB {
		return
	}
	fn(e, a, b)
}

func ForEach3[A, B, C any](w *World, ka component.ComponentKind[A], kb component.ComponentKind[B], kc component.ComponentKind[C], fn func(Entity, *A, *B, *C)) {
	sa := w.store(ka.ID(), false)
	sb := w.store(kb.ID(), false)
	sc := w.store(kc.ID(), false)
	if sa == nil || sb == nil || sc == nil {
		return
	}
	for _, e := range w.handles(sa) {
		if !w.entities.isAlive(e) {
			continue
		}
		id := e.id()
		a, okA := sa.Get(id).(*A)
		b, okB := sb.Get(id).(*B)
		c, okC := sc.Get(id).(*C)
		if !okA || !okB || !okC {
			continue
		}
		fn(e, a, b, c)
	}
}

// First returns any entity holding kind.
func First[T any](w *World, kind component.ComponentKind[T]) (Entity, bool) {
	s := w.store(kind.ID(), false)
	if s == nil {
		return 0, false
	}
	for _, id := range s.denseEntities {
		if e, ok := w.entities.handle(id); ok {
			return e, true
		}
	}
	return 0, false
}

// Count reports how many live entities hold kind.
func Count[T any](w *World, kind component.ComponentKind[T]) int {
	return w.store(kind.ID(), false).Len()
}
