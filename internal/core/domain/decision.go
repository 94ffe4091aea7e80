package domain

// DenyReason explains why an authorization evaluation denied access.
type DenyReason string

const (
	DenyUnauthenticated    DenyReason = "unauthenticated"
	DenyProfileUnavailable DenyReason = "profile_unavailable"
	DenyForbidden          DenyReason = "forbidden"
)

// Decision is the transient outcome of one authorization evaluation.
// The zero value means the evaluation was abandoned (the request went away
// mid-flight) and must not be acted upon.
type Decision struct {
	Allowed bool
	Reason  DenyReason
	Role    Role
	Session *Session
	Profile *Profile
}

// Terminal reports whether the evaluation actually reached an outcome.
func (d Decision) Terminal() bool {
	return d.Allowed || d.Reason != ""
}

// Allow builds an allowed decision carrying the snapshots it was derived from.
func Allow(sess *Session, profile *Profile) Decision {
	return Decision{Allowed: true, Role: profile.Role, Session: sess, Profile: profile}
}

// Deny builds a denied decision with the given reason.
func Deny(reason DenyReason) Decision {
	return Decision{Reason: reason}
}
