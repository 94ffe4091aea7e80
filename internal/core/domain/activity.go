package domain

import "time"

// Activity log actions.
const (
	ActionSignIn       = "sign_in"
	ActionSignOut      = "sign_out"
	ActionRoleUpdate   = "role_update"
	ActionAccessDenied = "access_denied"
)

// ActivityEntry is one audit record in the activity log. Entries are written
// asynchronously by the activity dispatcher; losing one under pressure is
// preferable to blocking an authorization decision.
type ActivityEntry struct {
	ID        string         `json:"id"`
	SubjectID string         `json:"subject_id"`
	Action    string         `json:"action"`
	Details   map[string]any `json:"details,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
