package shared

// Roles known to the review workflow. Role resolution happens upstream;
// these constants only name what the gateway forwards.
const (
	RoleAdmin    = "admin"
	RoleReviewer = "reviewer"
	RoleEditor   = "editor"
)

// Principal is the already-authenticated caller identity.
// It is passed explicitly to every component that needs it; the core never
// reads ambient session state.
type Principal struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
}
