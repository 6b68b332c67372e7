package invertarsdk

import "time"

// Status strings returned by the auth procedures.
const (
	StatusValidAccessCode = "VALID_ACCESS_CODE"
	StatusSuccess         = "SUCCESS"
	StatusPasswordSet     = "PASSWORD_SET"
	StatusTokenRefreshed  = "TOKEN_REFRESHED"
	StatusLoggedOut       = "LOGGED_OUT"
)

// StatusResponse is the envelope returned by the auth procedures. UserID is
// only present on a VALID_ACCESS_CODE login outcome.
type StatusResponse struct {
	Status string `json:"status"`
	UserID string `json:"userId,omitempty"`
}

// UserInfo is the authenticated identity as reported by the server.
type UserInfo struct {
	ID               string     `json:"id"`
	OrganizationID   string     `json:"organizationId"`
	OrganizationName string     `json:"organizationName,omitempty"`
	Username         string     `json:"username"`
	Role             string     `json:"role"`
	AwaitingPassword bool       `json:"awaitingPassword"`
	AccessCodeExp    *time.Time `json:"accessCodeExpiresAt,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
}

// LoginRequest is the login procedure's payload. Password carries either the
// account password or, during onboarding, the one-time access code.
type LoginRequest struct {
	Username         string `json:"username"`
	OrganizationName string `json:"organizationName"`
	Password         string `json:"password"`
}

// SetPasswordRequest exchanges a one-time access code for a password.
type SetPasswordRequest struct {
	UserID            string `json:"userId"`
	NewPassword       string `json:"newPassword"`
	OneTimeAccessCode string `json:"oneTimeAccessCode"`
}

// HealthChecks reports the state of the service's critical dependencies.
type HealthChecks struct {
	Database string `json:"database"`
}

// HealthResponse is returned by the livez/readyz probes.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}
