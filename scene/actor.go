package scene

import (
	"time"

	"github.com/google/uuid"
)

// Actor is an aggregate of parts with a single root. Actors are the unit of
// cloning and destruction in networked sessions.
type Actor struct {
	id   uuid.UUID
	name string

	root  *Part
	parts []*Part

	replicated bool
	gizmo      bool
	focusable  Focusable

	spawnedAt time.Time
	begun     bool

	destroyed bool
}

// ID returns the unique identity of the actor.
func (a *Actor) ID() uuid.UUID {
	return a.id
}

// Name returns the display name of the actor.
func (a *Actor) Name() string {
	return a.name
}

// Root returns the root part of the actor.
func (a *Actor) Root() *Part {
	return a.root
}

// Parts returns the parts of the actor, root first.
func (a *Actor) Parts() []*Part {
	return a.parts
}

// Replicated reports whether the actor is network-visible.
func (a *Actor) Replicated() bool {
	return a.replicated
}

// SetReplicated sets the network visibility of the actor.
func (a *Actor) SetReplicated(replicated bool) {
	a.replicated = replicated
}

// MarkGizmo flags the actor as a transform gizmo carrier. Gizmo actors are
// never selectable and never replicate.
func (a *Actor) MarkGizmo() {
	a.gizmo = true
}

// IsGizmo reports whether the actor carries transform gizmo handles.
func (a *Actor) IsGizmo() bool {
	return a.gizmo
}

// SpawnedAt returns the time the actor was created in its world.
func (a *Actor) SpawnedAt() time.Time {
	return a.spawnedAt
}

// HasBegun reports whether the actor completed its post-spawn
// initialization.
func (a *Actor) HasBegun() bool {
	return a.begun
}

// FinishSpawn marks the actor's post-spawn initialization as complete. Until
// it is called the actor must not be referenced on the wire.
func (a *Actor) FinishSpawn() {
	a.begun = true
}

// SetFocusable attaches a focus capability to the actor.
func (a *Actor) SetFocusable(f Focusable) {
	a.focusable = f
}

// Focusable returns the focus capability attached to the actor, or nil.
func (a *Actor) Focusable() Focusable {
	return a.focusable
}

// Valid reports whether the actor still exists.
func (a *Actor) Valid() bool {
	return a != nil && !a.destroyed
}
