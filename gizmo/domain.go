package gizmo

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Kind is the transformation a gizmo is bound to.
type Kind byte

const (
	KindNone Kind = iota
	KindTranslation
	KindRotation
	KindScale
)

// String ...
func (k Kind) String() string {
	switch k {
	case KindTranslation:
		return "translation"
	case KindRotation:
		return "rotation"
	case KindScale:
		return "scale"
	}
	return "none"
}

// Space decides whether gizmo axes follow the world frame or the anchor's
// own rotation.
type Space byte

const (
	SpaceWorld Space = iota
	SpaceLocal
)

// String ...
func (s Space) String() string {
	if s == SpaceLocal {
		return "local"
	}
	return "world"
}

// Placement decides which selected object the gizmo is anchored to.
type Placement byte

const (
	PlaceOnFirstSelection Placement = iota
	PlaceOnLastSelection
)

// Domain is the axis, plane or uniform mode a transform gesture is engaged
// on. Exactly one domain (or DomainNone) is active at a time.
type Domain byte

const (
	DomainNone Domain = iota
	DomainX
	DomainY
	DomainZ
	DomainXY
	DomainYZ
	DomainXZ
	DomainXYZ
)

// String ...
func (d Domain) String() string {
	switch d {
	case DomainX:
		return "x"
	case DomainY:
		return "y"
	case DomainZ:
		return "z"
	case DomainXY:
		return "xy"
	case DomainYZ:
		return "yz"
	case DomainXZ:
		return "xz"
	case DomainXYZ:
		return "xyz"
	}
	return "none"
}

// IsAxis reports whether the domain is a single axis.
func (d Domain) IsAxis() bool {
	return d == DomainX || d == DomainY || d == DomainZ
}

// IsPlane reports whether the domain is a two-axis plane.
func (d Domain) IsPlane() bool {
	return d == DomainXY || d == DomainYZ || d == DomainXZ
}

var baseAxes = map[Domain]mgl32.Vec3{
	DomainX: {1, 0, 0},
	DomainY: {0, 1, 0},
	DomainZ: {0, 0, 1},
	// Plane domains are identified by their normal.
	DomainXY: {0, 0, 1},
	DomainYZ: {1, 0, 0},
	DomainXZ: {0, 1, 0},
}

// axisOf returns the world-space direction of the domain: the axis itself
// for axis domains, the plane normal for plane domains. Under local space
// the base direction is rotated by the anchor's rotation.
func axisOf(d Domain, space Space, anchorRot mgl32.Quat) (mgl32.Vec3, bool) {
	base, ok := baseAxes[d]
	if !ok {
		return mgl32.Vec3{}, false
	}
	if space == SpaceLocal {
		return anchorRot.Rotate(base).Normalize(), true
	}
	return base, true
}

// axisMask returns the unit vector selecting the domain's component in
// gizmo-frame terms, used to express scale deltas.
func axisMask(d Domain) mgl32.Vec3 {
	switch d {
	case DomainX:
		return mgl32.Vec3{1, 0, 0}
	case DomainY:
		return mgl32.Vec3{0, 1, 0}
	case DomainZ:
		return mgl32.Vec3{0, 0, 1}
	case DomainXYZ:
		return mgl32.Vec3{1, 1, 1}
	}
	return mgl32.Vec3{}
}
