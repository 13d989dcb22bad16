package session

// Access is the outcome of the authorization gate.
type Access int

const (
	AccessLoading Access = iota // session is being restored: render a loading indicator
	AccessGranted
	AccessDenied
)

func (a Access) String() string {
	switch a {
	case AccessLoading:
		return "loading"
	case AccessGranted:
		return "granted"
	default:
		return "denied"
	}
}

// Gate decides whether gated content may render for the snapshot.
// It never blocks nor touches the network: while the session is restoring the
// answer is AccessLoading, never a premature denial.
func (s Snapshot) Gate(role string) Access {
	if s.Loading {
		return AccessLoading
	}
	if s.User != nil && s.User.Role.Includes(role) {
		return AccessGranted
	}
	return AccessDenied
}
