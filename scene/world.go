package scene

import (
	"time"

	"github.com/google/uuid"
	"github.com/transformlab/transformer/tmath"
)

// World is the per-participant object registry. Parts and actors are created
// and destroyed only through it, and everything on the wire is resolved
// against it by ID. It is owned by a single participant and mutated only
// from that participant's tick, so it carries no locks.
type World struct {
	now func() time.Time

	actors map[uuid.UUID]*Actor
	parts  map[uuid.UUID]*Part
}

// NewWorld returns an empty world using the wall clock.
func NewWorld() *World {
	return &World{
		now:    time.Now,
		actors: make(map[uuid.UUID]*Actor),
		parts:  make(map[uuid.UUID]*Part),
	}
}

// SetClock replaces the world clock. Tests use this together with a manual
// scheduler to control the clone settle window.
func (w *World) SetClock(now func() time.Time) {
	w.now = now
}

// SpawnActor creates an actor with a single root part at the given pose. The
// actor is not begun until FinishSpawn is called on it.
func (w *World) SpawnActor(name string, pose tmath.Transform) *Actor {
	a := &Actor{
		id:        uuid.New(),
		name:      name,
		spawnedAt: w.now(),
	}
	root := &Part{
		id:      uuid.New(),
		name:    name,
		local:   pose,
		owner:   a,
		movable: true,
	}
	a.root = root
	a.parts = []*Part{root}
	w.actors[a.id] = a
	w.parts[root.id] = root
	return a
}

// AddPart creates a part owned by actor, attached to parent (the actor root
// when parent is nil), with the given local transform.
func (w *World) AddPart(a *Actor, name string, parent *Part, local tmath.Transform) *Part {
	if a == nil || !a.Valid() {
		return nil
	}
	if parent == nil {
		parent = a.root
	}
	p := &Part{
		id:      uuid.New(),
		name:    name,
		local:   local,
		parent:  parent,
		owner:   a,
		movable: true,
	}
	a.parts = append(a.parts, p)
	w.parts[p.id] = p
	return p
}

// DuplicateActor spawns a structural copy of src at the default pose: same
// part topology, local transforms, mobility and visibility flags, fresh
// identities. Used by the clone engine.
func (w *World) DuplicateActor(src *Actor) *Actor {
	if src == nil || !src.Valid() {
		return nil
	}
	clone := w.SpawnActor(src.name, tmath.Identity())
	clone.replicated = src.replicated
	clone.gizmo = src.gizmo
	clone.root.movable = src.root.movable
	clone.root.replicated = src.root.replicated
	clone.root.tag = src.root.tag
	clone.root.bounds = src.root.bounds

	made := map[*Part]*Part{src.root: clone.root}
	for _, p := range src.parts {
		if p == src.root {
			continue
		}
		parent := made[p.parent]
		if parent == nil {
			parent = clone.root
		}
		cp := w.AddPart(clone, p.name, parent, p.local)
		cp.movable = p.movable
		cp.replicated = p.replicated
		cp.tag = p.tag
		cp.bounds = p.bounds
		made[p] = cp
	}
	return clone
}

// DuplicatePart creates a copy of src inside the same actor, preserving the
// local transform. The copy is left attached to src's parent; reparenting is
// the clone engine's job.
func (w *World) DuplicatePart(src *Part) *Part {
	if src == nil || !src.Valid() || src.owner == nil {
		return nil
	}
	p := &Part{
		id:         uuid.New(),
		name:       src.name,
		local:      src.local,
		parent:     src.parent,
		owner:      src.owner,
		movable:    src.movable,
		replicated: src.replicated,
		tag:        src.tag,
		bounds:     src.bounds,
	}
	src.owner.parts = append(src.owner.parts, p)
	w.parts[p.id] = p
	return p
}

// Adopt copies a replicated actor from another participant's world into this
// one, preserving every identity. It models the transport delivering a newly
// replicated actor.
func (w *World) Adopt(src *Actor) *Actor {
	if src == nil || !src.Valid() {
		return nil
	}
	a := &Actor{
		id:         src.id,
		name:       src.name,
		replicated: src.replicated,
		gizmo:      src.gizmo,
		spawnedAt:  w.now(),
		begun:      true,
	}
	made := make(map[*Part]*Part, len(src.parts))
	for _, p := range src.parts {
		cp := &Part{
			id:         p.id,
			name:       p.name,
			local:      p.local,
			owner:      a,
			movable:    p.movable,
			replicated: p.replicated,
			tag:        p.tag,
			bounds:     p.bounds,
		}
		made[p] = cp
		a.parts = append(a.parts, cp)
		w.parts[cp.id] = cp
	}
	for _, p := range src.parts {
		if p.parent != nil {
			made[p].parent = made[p.parent]
		}
	}
	a.root = made[src.root]
	w.actors[a.id] = a
	return a
}

// ResolveActor returns the live actor with the given ID, or nil.
func (w *World) ResolveActor(id uuid.UUID) *Actor {
	a := w.actors[id]
	if a == nil || !a.Valid() {
		return nil
	}
	return a
}

// ResolvePart returns the live part with the given ID, or nil.
func (w *World) ResolvePart(id uuid.UUID) *Part {
	p := w.parts[id]
	if p == nil || !p.Valid() {
		return nil
	}
	return p
}

// DestroyPart removes a single part (and any parts attached below it) from
// its actor and the registry.
func (w *World) DestroyPart(p *Part) {
	if p == nil || p.destroyed {
		return
	}
	owner := p.owner
	if owner != nil {
		kept := owner.parts[:0]
		for _, op := range owner.parts {
			if op == p || p.IsAncestorOf(op) {
				op.destroyed = true
				delete(w.parts, op.id)
				continue
			}
			kept = append(kept, op)
		}
		owner.parts = kept
		if owner.root == p {
			owner.root = nil
		}
		return
	}
	p.destroyed = true
	delete(w.parts, p.id)
}

// DestroyActor removes the actor and all of its parts from the registry.
func (w *World) DestroyActor(a *Actor) {
	if a == nil || a.destroyed {
		return
	}
	for _, p := range a.parts {
		p.destroyed = true
		delete(w.parts, p.id)
	}
	a.destroyed = true
	delete(w.actors, a.id)
}

// Parts iterates all live parts. Iteration order is unspecified.
func (w *World) Parts(f func(*Part) bool) {
	for _, p := range w.parts {
		if !p.Valid() {
			continue
		}
		if !f(p) {
			return
		}
	}
}

// Now returns the current world time.
func (w *World) Now() time.Time {
	return w.now()
}
