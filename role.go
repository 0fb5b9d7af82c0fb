package transformer

// Role is the replication role of a participant. Exactly one participant is
// the authority; its state is ground truth and everyone else reconciles to
// it.
type Role byte

const (
	// RoleSimulatedProxy passively mirrors authority state.
	RoleSimulatedProxy Role = iota
	// RoleAutonomousProxy drives local input but is not authoritative.
	RoleAutonomousProxy
	// RoleAuthority is the single writer of ground truth.
	RoleAuthority
)

// String ...
func (r Role) String() string {
	switch r {
	case RoleAuthority:
		return "authority"
	case RoleAutonomousProxy:
		return "autonomous-proxy"
	}
	return "simulated-proxy"
}
