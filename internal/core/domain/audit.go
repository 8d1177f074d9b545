package domain

import "time"

// AuthEventType names an authentication lifecycle event.
type AuthEventType string

const (
	EventRegistered    AuthEventType = "register"
	EventLogin         AuthEventType = "login"
	EventLoginFailed   AuthEventType = "login_failed"
	EventLogout        AuthEventType = "logout"
	EventTokenRefresh  AuthEventType = "refresh"
	EventUserDeleted   AuthEventType = "user_deleted"
	EventRoleChanged   AuthEventType = "role_changed"
	EventAuthorCreated AuthEventType = "author_created"
)

// AuthEvent is an audit record of something that happened to an account.
type AuthEvent struct {
	Type      AuthEventType
	UserID    string // empty when the account could not be resolved
	Username  string
	IP        string
	UserAgent string
	Detail    string
	Timestamp time.Time
}
