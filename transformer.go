package transformer

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/transformlab/transformer/clone"
	"github.com/transformlab/transformer/gizmo"
	"github.com/transformlab/transformer/scene"
	"github.com/transformlab/transformer/scheduler"
	"github.com/transformlab/transformer/selection"
	"github.com/transformlab/transformer/session"
	"github.com/transformlab/transformer/settings"
	"github.com/transformlab/transformer/trace"
	"github.com/transformlab/transformer/wire"
	"go.uber.org/atomic"
)

// Transformer is one participant's replication coordinator. It owns the
// selection set, the gizmo and the transform session exclusively; every
// mutation happens synchronously inside a tick or a message handler, so no
// locking exists and handlers must never be re-entered.
type Transformer struct {
	log *logrus.Logger

	id   string
	role Role

	world   *scene.World
	tracer  trace.Tracer
	channel wire.Channel
	sched   scheduler.Scheduler
	conf    settings.Settings

	sel    *selection.Set
	sess   *session.Session
	cloner *clone.Engine
	giz    *gizmo.Gizmo

	kind      gizmo.Kind
	space     gizmo.Space
	placement gizmo.Placement
	domain    gizmo.Domain

	snapping map[gizmo.Kind]settings.Snap

	handlers map[wire.MsgKind]handlerEntry

	// Authority side: clone roots awaiting replication readiness.
	unreplicated []*scene.Part
	cloneTask    scheduler.Task

	// Proxy side: selection divergence recovery.
	outOfSync  atomic.Bool
	resyncTask scheduler.Task

	closed atomic.Bool
}

// New creates a participant coordinator. The id must be unique across the
// session; the tracer and channel are the external collaborators of the
// core.
func New(log *logrus.Logger, id string, role Role, world *scene.World,
	tracer trace.Tracer, channel wire.Channel, sched scheduler.Scheduler,
	conf settings.Settings) *Transformer {

	t := &Transformer{
		log:     log,
		id:      id,
		role:    role,
		world:   world,
		tracer:  tracer,
		channel: channel,
		sched:   sched,
		conf:    conf,

		kind:     gizmo.KindTranslation,
		snapping: make(map[gizmo.Kind]settings.Snap),
	}

	t.sel = selection.NewSet(log, world)
	t.sel.Toggle = conf.ToggleSelected
	t.sel.PartBased = conf.PartBased

	t.sess = session.NewSession(log, t.sel)
	t.sess.RotateOnLocalAxis = conf.RotateOnLocalAxis
	t.sess.ForceMobility = conf.ForceMobility
	t.sess.TransformFocusables = conf.TransformFocusables

	t.cloner = clone.NewEngine(log, world)

	if conf.Space == settings.SpaceLocal {
		t.space = gizmo.SpaceLocal
	}
	if conf.Placement == settings.PlacementFirst {
		t.placement = gizmo.PlaceOnFirstSelection
	} else {
		t.placement = gizmo.PlaceOnLastSelection
	}
	for name, snap := range conf.Snapping {
		switch name {
		case "translation":
			t.snapping[gizmo.KindTranslation] = snap
		case "rotation":
			t.snapping[gizmo.KindRotation] = snap
		case "scale":
			t.snapping[gizmo.KindScale] = snap
		}
	}

	t.registerHandlers()
	return t
}

// ID returns the participant identity used on the wire.
func (t *Transformer) ID() string {
	return t.id
}

// Role returns the replication role of this participant.
func (t *Transformer) Role() Role {
	return t.role
}

// Selection returns the participant's selection set.
func (t *Transformer) Selection() *selection.Set {
	return t.sel
}

// Session returns the participant's transform session.
func (t *Transformer) Session() *session.Session {
	return t.sess
}

// Gizmo returns the active gizmo, or nil while nothing is selected.
func (t *Transformer) Gizmo() *gizmo.Gizmo {
	return t.giz
}

// CurrentDomain returns the engaged domain and whether a transform gesture
// is in progress.
func (t *Transformer) CurrentDomain() (gizmo.Domain, bool) {
	return t.domain, t.domain != gizmo.DomainNone
}

// SetDomain engages the given domain on the current gizmo.
func (t *Transformer) SetDomain(d gizmo.Domain) {
	t.domain = d
	if t.giz != nil {
		t.giz.SetProgress(d != gizmo.DomainNone, d)
	}
}

// ClearDomain ends the transform gesture, resetting the snapping remainder.
// The session's network delta is deliberately left alone; it is flushed by
// FinishTransform.
func (t *Transformer) ClearDomain() {
	if t.giz != nil {
		t.giz.ResetAccumulator()
	}
	t.SetDomain(gizmo.DomainNone)
}

// SetTransformKind rebinds the gizmo to a new transformation kind. The
// snapping remainder resets with the gizmo. No-op when the kind is
// unchanged.
func (t *Transformer) SetTransformKind(kind gizmo.Kind) {
	if t.kind == kind {
		return
	}
	if kind == gizmo.KindNone {
		t.log.Warn("setting transformation kind to none")
	}
	t.kind = kind
	t.updateGizmoPlacement()
}

// TransformKind returns the bound transformation kind.
func (t *Transformer) TransformKind() gizmo.Kind {
	return t.kind
}

// SetSpace switches gizmo axes between world frame and the anchor's own
// rotation.
func (t *Transformer) SetSpace(space gizmo.Space) {
	t.space = space
	if t.giz != nil {
		t.giz.SetSpace(space)
	}
}

// SetLocalAxisRotation toggles rotating objects about their own axes
// instead of orbiting the gizmo anchor.
func (t *Transformer) SetLocalAxisRotation(enabled bool) {
	t.sess.RotateOnLocalAxis = enabled
}

// SetComponentMode switches between part-based and aggregate-based
// selection, re-selecting the current selection under the new mode.
func (t *Transformer) SetComponentMode(partBased bool) {
	removed := t.DeselectAll(false)
	t.sel.PartBased = partBased
	if partBased {
		t.SelectParts(removed, false)
		return
	}
	roots := make([]*scene.Part, 0, len(removed))
	for _, p := range removed {
		if owner := p.Owner(); owner != nil && owner.Valid() {
			roots = append(roots, owner.Root())
		}
	}
	t.SelectParts(roots, false)
}

// SetPlacement changes which selected object anchors the gizmo and
// re-anchors it immediately.
func (t *Transformer) SetPlacement(p gizmo.Placement) {
	t.placement = p
	t.updateGizmoPlacement()
}

// Placement returns the gizmo anchoring policy.
func (t *Transformer) Placement() gizmo.Placement {
	return t.placement
}

// PartBased reports whether selection currently targets individual parts.
func (t *Transformer) PartBased() bool {
	return t.sel.PartBased
}

// SetSnapping sets the snapping policy for one transformation kind.
func (t *Transformer) SetSnapping(kind gizmo.Kind, enabled bool, increment float32) {
	t.snapping[kind] = settings.Snap{Enabled: enabled, Increment: increment}
}

// Snapping returns the snapping policy for the given kind.
func (t *Transformer) Snapping(kind gizmo.Kind) settings.Snap {
	return t.snapping[kind]
}

// Select adds a part (or, in aggregate mode, its owner's root) to the
// selection. Invalid references are ignored.
func (t *Transformer) Select(part *scene.Part, append bool) {
	if part == nil || !part.Valid() {
		return
	}
	if !t.sel.PartBased {
		owner := part.Owner()
		if owner == nil {
			return
		}
		part = owner.Root()
	}
	t.sel.Select(part, append)
	t.updateGizmoPlacement()
}

// SelectParts adds every valid part in the list to the selection.
func (t *Transformer) SelectParts(parts []*scene.Part, append bool) {
	t.sel.SelectMany(parts, append)
	t.updateGizmoPlacement()
}

// Deselect removes a part from the selection.
func (t *Transformer) Deselect(part *scene.Part) {
	t.sel.Deselect(part)
	t.updateGizmoPlacement()
}

// DeselectAll clears the selection, optionally destroying the deselected
// objects, and returns what was removed.
func (t *Transformer) DeselectAll(destroy bool) []*scene.Part {
	removed := t.sel.DeselectAll(destroy)
	t.updateGizmoPlacement()
	return removed
}

// Trace runs a local selection trace: gizmo handles win over world objects,
// the first selectable hit is selected, and the engaged domain is updated.
// Returns whether anything was hit.
func (t *Transformer) Trace(start, end mgl32.Vec3, filter trace.FilterSpec, append bool) bool {
	return t.traceIgnoring(start, end, filter, append, nil)
}

func (t *Transformer) traceIgnoring(start, end mgl32.Vec3, filter trace.FilterSpec, append bool, ignore []*scene.Part) bool {
	hits := t.tracer.Trace(start, end, filter, ignore)
	hits = t.filterHits(hits)
	return t.handleTracedHits(hits, append)
}

// filterHits drops objects that are not network-visible when the session is
// configured to ignore them. Gizmo handles never replicate and are always
// kept.
func (t *Transformer) filterHits(hits []trace.Hit) []trace.Hit {
	if !t.conf.IgnoreNonReplicated {
		return hits
	}
	kept := hits[:0]
	for _, h := range hits {
		if t.giz != nil && t.giz.OwnsPart(h.Part) {
			kept = append(kept, h)
			continue
		}
		if h.Part != nil && h.Part.Replicated() {
			kept = append(kept, h)
			continue
		}
		if h.Part != nil {
			t.log.Warnf("dropping %s from hits: not supported for networking", h.Part.Name())
		}
	}
	return kept
}

// handleTracedHits interprets filtered hits: a hit on one of our own gizmo
// handles engages that domain, otherwise the first remaining hit is
// selected.
func (t *Transformer) handleTracedHits(hits []trace.Hit, append bool) bool {
	// Assume no domain until we find one of our gizmo's handles.
	t.ClearDomain()

	if t.giz != nil {
		for _, h := range hits {
			if !t.giz.OwnsPart(h.Part) {
				continue
			}
			if d := t.giz.DomainOf(h.Part); d != gizmo.DomainNone {
				t.SetDomain(d)
				return true
			}
		}
	}

	for _, h := range hits {
		if t.isGizmoPart(h.Part) {
			continue
		}
		t.Select(h.Part, append)
		return true
	}
	return false
}

// isGizmoPart reports whether the part belongs to any gizmo's handle actor,
// ours or a remote participant's.
func (t *Transformer) isGizmoPart(p *scene.Part) bool {
	if p == nil {
		return true
	}
	if t.giz != nil && t.giz.OwnsPart(p) {
		return true
	}
	owner := p.Owner()
	return owner != nil && owner.IsGizmo()
}

// Tick runs one frame of the interactive gesture using the local pointer
// ray, and keeps the gizmo aligned with the configured space. The applied
// delta accumulates into the session's network delta.
func (t *Transformer) Tick(lookDir, rayOrigin, rayDir mgl32.Vec3) {
	if t.giz == nil {
		return
	}
	if t.domain != gizmo.DomainNone {
		t.sess.Tick(t.giz, t.snapping[t.kind], lookDir, rayOrigin, rayDir)
	}
	t.giz.SetSpace(t.space)
}

// updateGizmoPlacement creates, destroys or re-anchors the gizmo after any
// selection or kind change. The gizmo exists exactly while the selection is
// non-empty.
func (t *Transformer) updateGizmoPlacement() {
	t.setGizmo()
	if t.giz == nil {
		return
	}
	var anchor *scene.Part
	switch t.placement {
	case gizmo.PlaceOnFirstSelection:
		anchor = t.sel.First()
	case gizmo.PlaceOnLastSelection:
		anchor = t.sel.Last()
	}
	if anchor != nil {
		t.giz.AttachTo(anchor)
	}
}

func (t *Transformer) setGizmo() {
	if t.sel.Len() == 0 {
		if t.giz != nil {
			t.giz.Destroy()
			t.giz = nil
		}
		return
	}
	if t.giz != nil {
		if t.giz.Kind() == t.kind {
			return
		}
		t.giz.Destroy()
	}
	t.giz = gizmo.New(t.log, t.world, t.kind, t.space)
	if t.domain != gizmo.DomainNone {
		t.giz.SetProgress(true, t.domain)
	}
}

// LogSelected dumps the selection at info level.
func (t *Transformer) LogSelected() {
	parts := t.sel.Parts()
	t.log.Infof("selected part count: %d", len(parts))
	for i, p := range parts {
		owner := "[none]"
		if a := p.Owner(); a != nil {
			owner = a.Name()
		}
		t.log.Infof("  [%d] part %s owner %s", i, p.Name(), owner)
	}
}

// Close cancels any outstanding polling. Further use of the coordinator is
// undefined.
func (t *Transformer) Close() {
	if !t.closed.CompareAndSwap(false, true) {
		return
	}
	if t.cloneTask != nil {
		t.cloneTask.Cancel()
		t.cloneTask = nil
	}
	if t.resyncTask != nil {
		t.resyncTask.Cancel()
		t.resyncTask = nil
	}
}

// selectionIDs returns the selection as wire references.
func (t *Transformer) selectionIDs() []uuid.UUID {
	parts := t.sel.Parts()
	ids := make([]uuid.UUID, 0, len(parts))
	for _, p := range parts {
		ids = append(ids, p.ID())
	}
	return ids
}
