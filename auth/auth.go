// Package auth supplies the session and bearer token todui authenticates
// with. The todo app owns authentication; this package only reads identity
// from a token the hosting environment hands us, it never writes back.
package auth

import "context"

// User is the authenticated user's identity.
type User struct {
	ID string
}

// Session describes the current login state as reported by the provider.
type Session struct {
	User User
}

// Provider is the session/token source the chat core and the UI poll.
//
// Both methods report "not logged in" as a zero value (nil session, empty
// token) with a nil error; errors are reserved for provider failures.
type Provider interface {
	// GetSession returns the current session, or nil when no user is
	// logged in.
	GetSession(ctx context.Context) (*Session, error)

	// GetToken returns a bearer token valid right now, or "" when none
	// is available (missing or expired).
	GetToken(ctx context.Context) (string, error)
}
