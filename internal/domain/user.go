package domain

import "time"

// User is an account scoped to an organization. Exactly one credential mode
// is live at a time: a pending one-time access code (AccessCode non-nil) or a
// set password (PasswordHash non-nil). Setting a password clears the code
// fields; issuing or resetting a code clears the password hash.
type User struct {
	ID             string
	OrganizationID string
	Username       string
	Role           Role
	PasswordHash   *string    // bcrypt encoded, nil until activated
	AccessCode     *string    // one-time access code, nil once a password is set
	AccessCodeExp  *time.Time // expiry of AccessCode, nil alongside it
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// AwaitingPassword reports whether the account is still in onboarding mode.
func (u User) AwaitingPassword() bool {
	return u.AccessCode != nil
}
