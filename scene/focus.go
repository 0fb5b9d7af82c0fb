package scene

import "github.com/transformlab/transformer/tmath"

// Focusable is the optional capability of an object that reacts to being
// selected, deselected or moved. Objects without it are legal and are
// silently skipped.
type Focusable interface {
	OnFocus(part *Part, partBased bool)
	OnUnfocus(part *Part, partBased bool)
	OnNewTransform(part *Part, transform tmath.Transform, partBased bool)
}

// FocusTarget resolves the capability that should receive focus events for
// the given part. In part-based mode the part's own capability is used; in
// aggregate mode the owning actor's.
func FocusTarget(p *Part, partBased bool) Focusable {
	if p == nil {
		return nil
	}
	if partBased {
		return p.focusable
	}
	if owner := p.Owner(); owner != nil {
		return owner.focusable
	}
	return nil
}
