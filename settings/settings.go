package settings

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml"
)

// Settings contains everything configurable about a transformer participant.
type Settings struct {
	// Placement decides which selected object anchors the gizmo.
	Placement string
	// Space is the initial gizmo space, "world" or "local".
	Space string

	// PartBased selects individual parts instead of whole aggregates.
	PartBased bool
	// RotateOnLocalAxis rotates each object about its own axis instead of
	// orbiting the gizmo anchor.
	RotateOnLocalAxis bool
	// ForceMobility applies transforms to non-movable objects too.
	ForceMobility bool
	// ToggleSelected deselects an already-selected object when it is
	// re-selected in append mode.
	ToggleSelected bool
	// TransformFocusables moves objects that carry a focus capability, on
	// top of notifying them.
	TransformFocusables bool
	// IgnoreNonReplicated drops objects that are not network-visible from
	// trace hits in networked sessions.
	IgnoreNonReplicated bool

	// Snapping holds per-transformation snapping policy, keyed by
	// "translation", "rotation" and "scale".
	Snapping map[string]Snap

	// CloneCheckInterval is how often the authority polls spawned clones
	// for replication readiness.
	CloneCheckInterval time.Duration
	// MinCloneSettle is the minimum age a clone must reach before the
	// authority references it on the wire.
	MinCloneSettle time.Duration
	// ResyncInterval is how often an out-of-sync proxy asks the authority
	// to re-broadcast its selection.
	ResyncInterval time.Duration
}

// Snap is the snapping policy for one transformation kind.
type Snap struct {
	Enabled   bool
	Increment float32
}

const (
	PlacementFirst = "first"
	PlacementLast  = "last"

	SpaceWorld = "world"
	SpaceLocal = "local"
)

// Default returns the settings every participant starts from.
func Default() Settings {
	return Settings{
		Placement:           PlacementLast,
		Space:               SpaceWorld,
		ToggleSelected:      true,
		TransformFocusables: true,
		Snapping: map[string]Snap{
			"translation": {},
			"rotation":    {},
			"scale":       {},
		},
		CloneCheckInterval: 50 * time.Millisecond,
		MinCloneSettle:     10 * time.Millisecond,
		ResyncInterval:     100 * time.Millisecond,
	}
}

// Load reads settings from the TOML file at path, creating it with defaults
// if it does not yet exist.
func Load(path string) (Settings, error) {
	s := Default()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		data, err := toml.Marshal(s)
		if err != nil {
			return s, fmt.Errorf("encode default settings: %v", err)
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return s, fmt.Errorf("create default settings: %v", err)
		}
		return s, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("read settings: %v", err)
	}
	if err := toml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("decode settings: %v", err)
	}
	return s, nil
}
