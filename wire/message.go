package wire

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/transformlab/transformer/gizmo"
	"github.com/transformlab/transformer/tmath"
	"github.com/transformlab/transformer/trace"
)

// MsgKind tags the logical protocol messages so handlers can be looked up
// without reflection.
type MsgKind byte

const (
	// Requests, proxy -> authority.
	MsgRequestTrace MsgKind = iota
	MsgRequestSetDomain
	MsgRequestClearDomain
	MsgRequestApplyDelta
	MsgRequestDeselectAll
	MsgRequestSetSpace
	MsgRequestSetKind
	MsgRequestSetComponentMode
	MsgRequestSetLocalAxisRotation
	MsgRequestClone
	MsgRequestResync

	// Broadcasts, authority -> all proxies.
	MsgBroadcastDomain
	MsgBroadcastSelection
	MsgBroadcastClearDomain
	MsgBroadcastApplyDelta
	MsgBroadcastDeselectAll
	MsgBroadcastSetSpace
	MsgBroadcastSetKind
	MsgBroadcastSetComponentMode
	MsgBroadcastSetLocalAxisRotation
)

// Message is a logical protocol message. Wire encoding is the transport's
// concern; the core only dispatches on the kind tag.
type Message interface {
	MsgKind() MsgKind
}

// RequestTrace asks the authority to perform a selection trace on the
// proxy's behalf and republish the outcome.
type RequestTrace struct {
	Start, End mgl32.Vec3
	Filter     trace.FilterSpec
	Append     bool
}

// RequestSetDomain short-circuits a full trace when the proxy's local trace
// already hit its own gizmo: only the resulting domain is sent.
type RequestSetDomain struct {
	Domain gizmo.Domain
}

// RequestClearDomain ends the transform gesture everywhere.
type RequestClearDomain struct{}

// RequestApplyDelta carries a gesture's accumulated delta for application on
// every participant that did not run the gesture interactively.
type RequestApplyDelta struct {
	Delta tmath.Transform
}

// RequestDeselectAll clears the selection everywhere.
type RequestDeselectAll struct {
	Destroy bool
}

// RequestSetSpace switches between world and local gizmo space.
type RequestSetSpace struct {
	Space gizmo.Space
}

// RequestSetKind switches the transformation kind.
type RequestSetKind struct {
	Kind gizmo.Kind
}

// RequestSetComponentMode switches between part-based and aggregate-based
// selection.
type RequestSetComponentMode struct {
	PartBased bool
}

// RequestSetLocalAxisRotation toggles rotating objects about their own axes.
type RequestSetLocalAxisRotation struct {
	Enabled bool
}

// RequestClone asks the authority to clone the current selection. Only
// whole-aggregate cloning is legal on the wire.
type RequestClone struct {
	SelectNewClones bool
	Append          bool
}

// RequestResync asks the authority to re-broadcast its selection
// unconditionally.
type RequestResync struct{}

// BroadcastDomain publishes the authority's engaged domain.
type BroadcastDomain struct {
	Domain gizmo.Domain
}

// BroadcastSelection publishes the authority's selection as part IDs.
// Receivers resolve the IDs locally; entries that do not resolve yet start
// the resync loop.
type BroadcastSelection struct {
	Objects []uuid.UUID
}

// BroadcastClearDomain ends the transform gesture on every proxy.
type BroadcastClearDomain struct{}

// BroadcastApplyDelta distributes a gesture's net delta. The participant
// named by Requester already applied it interactively and skips it.
type BroadcastApplyDelta struct {
	Delta     tmath.Transform
	Requester string
}

// BroadcastDeselectAll clears the selection on every proxy.
type BroadcastDeselectAll struct {
	Destroy bool
}

// BroadcastSetSpace mirrors RequestSetSpace to every proxy.
type BroadcastSetSpace struct {
	Space gizmo.Space
}

// BroadcastSetKind mirrors RequestSetKind to every proxy.
type BroadcastSetKind struct {
	Kind gizmo.Kind
}

// BroadcastSetComponentMode mirrors RequestSetComponentMode to every proxy.
type BroadcastSetComponentMode struct {
	PartBased bool
}

// BroadcastSetLocalAxisRotation mirrors RequestSetLocalAxisRotation to every
// proxy.
type BroadcastSetLocalAxisRotation struct {
	Enabled bool
}

func (RequestTrace) MsgKind() MsgKind                 { return MsgRequestTrace }
func (RequestSetDomain) MsgKind() MsgKind             { return MsgRequestSetDomain }
func (RequestClearDomain) MsgKind() MsgKind           { return MsgRequestClearDomain }
func (RequestApplyDelta) MsgKind() MsgKind            { return MsgRequestApplyDelta }
func (RequestDeselectAll) MsgKind() MsgKind           { return MsgRequestDeselectAll }
func (RequestSetSpace) MsgKind() MsgKind              { return MsgRequestSetSpace }
func (RequestSetKind) MsgKind() MsgKind               { return MsgRequestSetKind }
func (RequestSetComponentMode) MsgKind() MsgKind      { return MsgRequestSetComponentMode }
func (RequestSetLocalAxisRotation) MsgKind() MsgKind  { return MsgRequestSetLocalAxisRotation }
func (RequestClone) MsgKind() MsgKind                 { return MsgRequestClone }
func (RequestResync) MsgKind() MsgKind                { return MsgRequestResync }
func (BroadcastDomain) MsgKind() MsgKind              { return MsgBroadcastDomain }
func (BroadcastSelection) MsgKind() MsgKind           { return MsgBroadcastSelection }
func (BroadcastClearDomain) MsgKind() MsgKind         { return MsgBroadcastClearDomain }
func (BroadcastApplyDelta) MsgKind() MsgKind          { return MsgBroadcastApplyDelta }
func (BroadcastDeselectAll) MsgKind() MsgKind         { return MsgBroadcastDeselectAll }
func (BroadcastSetSpace) MsgKind() MsgKind            { return MsgBroadcastSetSpace }
func (BroadcastSetKind) MsgKind() MsgKind             { return MsgBroadcastSetKind }
func (BroadcastSetComponentMode) MsgKind() MsgKind    { return MsgBroadcastSetComponentMode }
func (BroadcastSetLocalAxisRotation) MsgKind() MsgKind { return MsgBroadcastSetLocalAxisRotation }
