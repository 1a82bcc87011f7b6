package ecs

import "strconv"

// Entity is a handle into a World. The low half is the slot and the high
// half counts how often the slot was reused, so a stale handle to a recycled
// slot is never alive. Zero is never issued.
type Entity uint64

type entityID uint32
type generation uint32

const slotBits = 32

func makeEntity(id entityID, gen generation) Entity {
	return Entity(uint64(gen)<<slotBits | uint64(id))
}

func (e Entity) id() entityID { return entityID(uint32(e)) }

func (e Entity) generation() generation { return generation(e >> slotBits) }

// String renders the handle as slot/generation, e.g. "e7/2".
func (e Entity) String() string {
	return "e" + strconv.FormatUint(uint64(e.id()), 10) + "/" + strconv.FormatUint(uint64(e.generation()), 10)
}

func (e Entity) Valid() bool { return e != 0 }
