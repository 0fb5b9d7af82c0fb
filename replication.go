package transformer

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/transformlab/transformer/gizmo"
	"github.com/transformlab/transformer/scene"
	"github.com/transformlab/transformer/trace"
	"github.com/transformlab/transformer/wire"
)

// ReplicatedTrace is the networked selection entry point. The trace always
// runs locally first so a hit on the participant's own gizmo is cheap; what
// happens next depends on the role. The authority republishes its outcome
// to everyone, an autonomous proxy forwards either the whole trace or, when
// its local gizmo was hit, just the resulting domain.
func (t *Transformer) ReplicatedTrace(start, end mgl32.Vec3, filter trace.FilterSpec, append bool) bool {
	success := t.Trace(start, end, filter, append)

	switch t.role {
	case RoleAuthority:
		if !success && !append {
			t.DeselectAll(false)
		}
		t.channel.Broadcast(wire.BroadcastDomain{Domain: t.domain})
		t.channel.Broadcast(wire.BroadcastSelection{Objects: t.selectionIDs()})

	case RoleAutonomousProxy:
		if !success && !append {
			t.channel.SendToAuthority(wire.RequestDeselectAll{})
		} else if t.domain != gizmo.DomainNone {
			t.channel.SendToAuthority(wire.RequestSetDomain{Domain: t.domain})
		} else {
			t.channel.SendToAuthority(wire.RequestTrace{
				Start: start, End: end, Filter: filter, Append: append,
			})
		}

	default:
		t.log.Warnf("simulated proxy %s attempted a replicated trace", t.id)
	}
	return success
}

// FinishTransform ends the interactive gesture for every participant: the
// domain is cleared everywhere and the session's accumulated network delta
// is applied once by everyone who did not run the gesture locally. Deltas
// already on the wire are not recalled.
func (t *Transformer) FinishTransform() {
	delta := t.sess.NetworkDelta()

	switch t.role {
	case RoleAuthority:
		t.ClearDomain()
		t.channel.Broadcast(wire.BroadcastClearDomain{})
		t.channel.Broadcast(wire.BroadcastApplyDelta{Delta: delta, Requester: t.id})
	case RoleAutonomousProxy:
		t.channel.SendToAuthority(wire.RequestClearDomain{})
		t.channel.SendToAuthority(wire.RequestApplyDelta{Delta: delta})
	default:
		t.log.Warnf("simulated proxy %s attempted to finish a transform", t.id)
		return
	}

	t.sess.ResetNetworkDelta()
}

// ReplicatedDeselectAll clears the selection on every participant.
func (t *Transformer) ReplicatedDeselectAll(destroy bool) {
	switch t.role {
	case RoleAuthority:
		t.DeselectAll(destroy)
		t.channel.Broadcast(wire.BroadcastDeselectAll{Destroy: destroy})
	case RoleAutonomousProxy:
		t.channel.SendToAuthority(wire.RequestDeselectAll{Destroy: destroy})
	}
}

// ReplicatedSetSpace switches the gizmo space on every participant.
func (t *Transformer) ReplicatedSetSpace(space gizmo.Space) {
	switch t.role {
	case RoleAuthority:
		t.SetSpace(space)
		t.channel.Broadcast(wire.BroadcastSetSpace{Space: space})
	case RoleAutonomousProxy:
		t.channel.SendToAuthority(wire.RequestSetSpace{Space: space})
	}
}

// ReplicatedSetTransformKind rebinds the gizmo kind on every participant.
func (t *Transformer) ReplicatedSetTransformKind(kind gizmo.Kind) {
	switch t.role {
	case RoleAuthority:
		t.SetTransformKind(kind)
		t.channel.Broadcast(wire.BroadcastSetKind{Kind: kind})
	case RoleAutonomousProxy:
		t.channel.SendToAuthority(wire.RequestSetKind{Kind: kind})
	}
}

// ReplicatedSetComponentMode switches selection mode on every participant.
func (t *Transformer) ReplicatedSetComponentMode(partBased bool) {
	switch t.role {
	case RoleAuthority:
		t.SetComponentMode(partBased)
		t.channel.Broadcast(wire.BroadcastSetComponentMode{PartBased: partBased})
	case RoleAutonomousProxy:
		t.channel.SendToAuthority(wire.RequestSetComponentMode{PartBased: partBased})
	}
}

// ReplicatedSetLocalAxisRotation toggles local-axis rotation on every
// participant.
func (t *Transformer) ReplicatedSetLocalAxisRotation(enabled bool) {
	switch t.role {
	case RoleAuthority:
		t.SetLocalAxisRotation(enabled)
		t.channel.Broadcast(wire.BroadcastSetLocalAxisRotation{Enabled: enabled})
	case RoleAutonomousProxy:
		t.channel.SendToAuthority(wire.RequestSetLocalAxisRotation{Enabled: enabled})
	}
}

// CloneSelected clones the current selection across the session. Networked
// cloning is whole-aggregate only and performed by the authority; a proxy
// forwards the request.
func (t *Transformer) CloneSelected(selectNewClones, append bool) {
	switch t.role {
	case RoleAuthority:
		t.authorityClone(selectNewClones, append)
	case RoleAutonomousProxy:
		t.channel.SendToAuthority(wire.RequestClone{
			SelectNewClones: selectNewClones, Append: append,
		})
	default:
		t.log.Warnf("simulated proxy %s attempted a clone", t.id)
	}
}

// CloneLocal clones without any replication, for single-participant
// sessions. Part-based cloning is legal here; only topmost clones are
// auto-selected so a parent and its child are never both selected.
func (t *Transformer) CloneLocal(selectNewClones, append bool) []*scene.Part {
	var clones []*scene.Part
	if t.sel.PartBased {
		res := t.cloner.CloneParts(t.sel.Parts())
		clones = res.Topmost
	} else {
		clones = t.cloner.CloneActors(t.sel.Parts())
		for _, c := range clones {
			if owner := c.Owner(); owner != nil {
				owner.FinishSpawn()
			}
		}
	}
	if selectNewClones {
		t.SelectParts(clones, append)
	}
	if t.domain != gizmo.DomainNone && t.giz != nil {
		t.giz.SetProgress(true, t.domain)
	}
	return clones
}

// authorityClone performs a networked clone: spawn the aggregates, select
// them locally, then hold the selection broadcast until every clone is
// confirmed ready on the wire.
func (t *Transformer) authorityClone(selectNewClones, appendSelection bool) {
	if t.sel.PartBased {
		t.log.Warn("part cloning is not supported in a networked session")
		return
	}

	clones := t.cloner.CloneActors(t.sel.Parts())
	if !selectNewClones {
		return
	}

	t.SelectParts(clones, appendSelection)
	if t.domain != gizmo.DomainNone && t.giz != nil {
		t.giz.SetProgress(true, t.domain)
	}

	t.unreplicated = append(t.unreplicated, clones...)
	if t.cloneTask == nil {
		t.cloneTask = t.sched.Every(t.conf.CloneCheckInterval, t.checkUnreplicatedClones)
	}
}

// checkUnreplicatedClones is the authority's readiness poll. A clone is
// ready once its actor finished post-spawn initialization and the minimum
// settle duration has elapsed; the new selection is broadcast only when
// every pending clone is ready, and the poll cancels itself.
func (t *Transformer) checkUnreplicatedClones() {
	now := t.sched.Now()
	pending := t.unreplicated[:0]
	for _, c := range t.unreplicated {
		owner := c.Owner()
		if c.Valid() && owner != nil &&
			owner.HasBegun() && now.Sub(owner.SpawnedAt()) >= t.conf.MinCloneSettle {
			continue
		}
		if !c.Valid() {
			continue
		}
		pending = append(pending, c)
	}
	t.unreplicated = pending

	if len(t.unreplicated) > 0 {
		return
	}
	t.cloneTask.Cancel()
	t.cloneTask = nil
	t.log.Infof("%d selected clones confirmed replicated", t.sel.Len())
	t.channel.Broadcast(wire.BroadcastSelection{Objects: t.selectionIDs()})
}

// applyBroadcastSelection applies the authority's published selection on a
// proxy. References that do not resolve locally yet mean the proxy is out
// of sync; it polls the authority for a fresh broadcast until one resolves
// completely, then stops.
func (t *Transformer) applyBroadcastSelection(ids []uuid.UUID) {
	t.DeselectAll(false)

	resolved := make([]*scene.Part, 0, len(ids))
	for _, id := range ids {
		if p := t.world.ResolvePart(id); p != nil {
			resolved = append(resolved, p)
		}
	}
	t.SelectParts(resolved, true)

	mismatch := len(ids) != t.sel.Len()
	t.outOfSync.Store(mismatch)

	if mismatch {
		t.log.Infof("selection out of sync: %d of %d references resolved", t.sel.Len(), len(ids))
		if t.resyncTask == nil {
			t.resyncTask = t.sched.Every(t.conf.ResyncInterval, t.resyncPoll)
		}
		return
	}
	if t.resyncTask != nil {
		t.log.Info("selection resync finished")
		t.resyncTask.Cancel()
		t.resyncTask = nil
	}
}

// resyncPoll keeps asking the authority for its selection while out of
// sync.
func (t *Transformer) resyncPoll() {
	if !t.outOfSync.Load() {
		if t.resyncTask != nil {
			t.resyncTask.Cancel()
			t.resyncTask = nil
		}
		return
	}
	t.log.Warn("resyncing selection")
	t.channel.SendToAuthority(wire.RequestResync{})
}

// OutOfSync reports whether this proxy is waiting on a selection resync.
func (t *Transformer) OutOfSync() bool {
	return t.outOfSync.Load()
}

// applyRemoteDelta applies a gesture delta published by another
// participant.
func (t *Transformer) applyRemoteDelta(delta wire.BroadcastApplyDelta) {
	if delta.Requester == t.id {
		// We ran the gesture interactively; applying the total again
		// would double it.
		return
	}
	if t.giz == nil {
		return
	}
	t.sess.Apply(t.giz, delta.Delta, t.snapping[t.kind])
}
