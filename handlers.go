package transformer

import (
	"github.com/transformlab/transformer/assert"
	"github.com/transformlab/transformer/scene"
	"github.com/transformlab/transformer/wire"
)

// handlerEntry pairs an explicit precondition with a message handler. The
// precondition runs first and rejected messages are dropped with a warning
// and no state change.
type handlerEntry struct {
	accept func(t *Transformer) bool
	handle func(t *Transformer, from string, msg wire.Message)
}

func acceptOnAuthority(t *Transformer) bool {
	return t.role == RoleAuthority
}

func acceptOnProxy(t *Transformer) bool {
	return t.role != RoleAuthority
}

// HandleMessage dispatches one inbound protocol message. It always runs to
// completion before the channel hands over the next message, which is what
// makes lock-free mutation of the selection and gizmo safe.
func (t *Transformer) HandleMessage(from string, msg wire.Message) {
	if t.closed.Load() {
		return
	}
	entry, ok := t.handlers[msg.MsgKind()]
	if !ok {
		t.log.Warnf("no handler for message kind %d", msg.MsgKind())
		return
	}
	if !entry.accept(t) {
		t.log.Warnf("%s rejected %T from %s", t.role, msg, from)
		return
	}
	entry.handle(t, from, msg)
}

func (t *Transformer) registerHandlers() {
	assert.IsTrue(t.handlers == nil, "handler table registered twice")
	t.handlers = map[wire.MsgKind]handlerEntry{
		wire.MsgRequestTrace: {accept: acceptOnAuthority, handle: func(t *Transformer, from string, msg wire.Message) {
			m := msg.(wire.RequestTrace)
			// The local gizmo belongs to the authority's own view;
			// keep it out of a trace run on a remote's behalf.
			var ignore []*scene.Part
			if t.giz != nil {
				ignore = t.giz.HandleParts()
			}
			success := t.traceIgnoring(m.Start, m.End, m.Filter, m.Append, ignore)
			if !success && !m.Append {
				t.DeselectAll(false)
			}
			t.channel.Broadcast(wire.BroadcastDomain{Domain: t.domain})
			t.channel.Broadcast(wire.BroadcastSelection{Objects: t.selectionIDs()})
		}},
		wire.MsgRequestSetDomain: {accept: acceptOnAuthority, handle: func(t *Transformer, from string, msg wire.Message) {
			m := msg.(wire.RequestSetDomain)
			t.SetDomain(m.Domain)
			t.channel.Broadcast(wire.BroadcastDomain{Domain: m.Domain})
		}},
		wire.MsgRequestClearDomain: {accept: acceptOnAuthority, handle: func(t *Transformer, from string, msg wire.Message) {
			t.ClearDomain()
			t.channel.Broadcast(wire.BroadcastClearDomain{})
		}},
		wire.MsgRequestApplyDelta: {accept: acceptOnAuthority, handle: func(t *Transformer, from string, msg wire.Message) {
			m := msg.(wire.RequestApplyDelta)
			out := wire.BroadcastApplyDelta{Delta: m.Delta, Requester: from}
			t.applyRemoteDelta(out)
			t.channel.Broadcast(out)
		}},
		wire.MsgRequestDeselectAll: {accept: acceptOnAuthority, handle: func(t *Transformer, from string, msg wire.Message) {
			m := msg.(wire.RequestDeselectAll)
			t.DeselectAll(m.Destroy)
			t.channel.Broadcast(wire.BroadcastDeselectAll{Destroy: m.Destroy})
		}},
		wire.MsgRequestSetSpace: {accept: acceptOnAuthority, handle: func(t *Transformer, from string, msg wire.Message) {
			m := msg.(wire.RequestSetSpace)
			t.SetSpace(m.Space)
			t.channel.Broadcast(wire.BroadcastSetSpace{Space: m.Space})
		}},
		wire.MsgRequestSetKind: {accept: acceptOnAuthority, handle: func(t *Transformer, from string, msg wire.Message) {
			m := msg.(wire.RequestSetKind)
			t.SetTransformKind(m.Kind)
			t.channel.Broadcast(wire.BroadcastSetKind{Kind: m.Kind})
		}},
		wire.MsgRequestSetComponentMode: {accept: acceptOnAuthority, handle: func(t *Transformer, from string, msg wire.Message) {
			m := msg.(wire.RequestSetComponentMode)
			t.SetComponentMode(m.PartBased)
			t.channel.Broadcast(wire.BroadcastSetComponentMode{PartBased: m.PartBased})
		}},
		wire.MsgRequestSetLocalAxisRotation: {accept: acceptOnAuthority, handle: func(t *Transformer, from string, msg wire.Message) {
			m := msg.(wire.RequestSetLocalAxisRotation)
			t.SetLocalAxisRotation(m.Enabled)
			t.channel.Broadcast(wire.BroadcastSetLocalAxisRotation{Enabled: m.Enabled})
		}},
		wire.MsgRequestClone: {accept: acceptOnAuthority, handle: func(t *Transformer, from string, msg wire.Message) {
			m := msg.(wire.RequestClone)
			t.authorityClone(m.SelectNewClones, m.Append)
		}},
		wire.MsgRequestResync: {accept: acceptOnAuthority, handle: func(t *Transformer, from string, msg wire.Message) {
			t.channel.Broadcast(wire.BroadcastSelection{Objects: t.selectionIDs()})
		}},

		wire.MsgBroadcastDomain: {accept: acceptOnProxy, handle: func(t *Transformer, from string, msg wire.Message) {
			m := msg.(wire.BroadcastDomain)
			t.SetDomain(m.Domain)
		}},
		wire.MsgBroadcastSelection: {accept: acceptOnProxy, handle: func(t *Transformer, from string, msg wire.Message) {
			m := msg.(wire.BroadcastSelection)
			t.applyBroadcastSelection(m.Objects)
		}},
		wire.MsgBroadcastClearDomain: {accept: acceptOnProxy, handle: func(t *Transformer, from string, msg wire.Message) {
			t.ClearDomain()
		}},
		wire.MsgBroadcastApplyDelta: {accept: acceptOnProxy, handle: func(t *Transformer, from string, msg wire.Message) {
			t.applyRemoteDelta(msg.(wire.BroadcastApplyDelta))
		}},
		wire.MsgBroadcastDeselectAll: {accept: acceptOnProxy, handle: func(t *Transformer, from string, msg wire.Message) {
			m := msg.(wire.BroadcastDeselectAll)
			t.DeselectAll(m.Destroy)
		}},
		wire.MsgBroadcastSetSpace: {accept: acceptOnProxy, handle: func(t *Transformer, from string, msg wire.Message) {
			t.SetSpace(msg.(wire.BroadcastSetSpace).Space)
		}},
		wire.MsgBroadcastSetKind: {accept: acceptOnProxy, handle: func(t *Transformer, from string, msg wire.Message) {
			t.SetTransformKind(msg.(wire.BroadcastSetKind).Kind)
		}},
		wire.MsgBroadcastSetComponentMode: {accept: acceptOnProxy, handle: func(t *Transformer, from string, msg wire.Message) {
			t.SetComponentMode(msg.(wire.BroadcastSetComponentMode).PartBased)
		}},
		wire.MsgBroadcastSetLocalAxisRotation: {accept: acceptOnProxy, handle: func(t *Transformer, from string, msg wire.Message) {
			t.SetLocalAxisRotation(msg.(wire.BroadcastSetLocalAxisRotation).Enabled)
		}},
	}
}
