package domain

import "time"

// ApplicationStatus enumerates whitelist application lifecycle states.
type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "Pending"
	ApplicationStatusAccepted ApplicationStatus = "Accepted"
	ApplicationStatusRejected ApplicationStatus = "Rejected"
)

// Decided reports whether a staff decision has already been recorded.
func (s ApplicationStatus) Decided() bool {
	return s == ApplicationStatusAccepted || s == ApplicationStatusRejected
}

// Active reports whether the status blocks a new application for the same
// requester or in-game name. Accepted stays active: an approved name holds
// its slot until it is removed from the whitelist.
func (s ApplicationStatus) Active() bool {
	return s == ApplicationStatusPending || s == ApplicationStatusAccepted
}

// Application is a whitelist request submitted through the application form.
type Application struct {
	ID           string
	RequesterID  string
	RequesterTag string
	IGN          string
	Platform     string
	Status       ApplicationStatus
	DecidedBy    *string
	CreatedAt    time.Time
	DecidedAt    *time.Time
}
