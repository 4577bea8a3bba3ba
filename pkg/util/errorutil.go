package util

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5"
)

// Error codes for the workflow taxonomy.
const (
	CodeNotFound           = "NOT_FOUND"
	CodeDuplicateActive    = "DUPLICATE_ACTIVE"
	CodeAlreadyDecided     = "ALREADY_DECIDED"
	CodeAlreadyClaimed     = "ALREADY_CLAIMED"
	CodeAlreadyClosed      = "ALREADY_CLOSED"
	CodeRateLimited        = "RATE_LIMITED"
	CodeBlacklisted        = "BLACKLISTED"
	CodeExpired            = "EXPIRED"
	CodeValidationFailed   = "VALIDATION_FAILED"
	CodePersistenceFailure = "PERSISTENCE_FAILURE"
	CodeEffectFailure      = "EFFECT_FAILURE"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches DomainErrors by code so callers can use errors.Is against the
// constructors below.
func (e *DomainError) Is(target error) bool {
	var other *DomainError
	if !errors.As(target, &other) {
		return false
	}
	return e.Code == other.Code
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewNotFound(resource string) error {
	return NewDomainError(CodeNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound, nil)
}

func NewDuplicateActive(message string) error {
	return NewDomainError(CodeDuplicateActive, message, http.StatusConflict, nil)
}

func NewAlreadyDecided(applicationID string) error {
	return NewDomainError(CodeAlreadyDecided, "application already decided", http.StatusConflict,
		map[string]any{"application_id": applicationID})
}

func NewAlreadyClaimed(ticketID string) error {
	return NewDomainError(CodeAlreadyClaimed, "ticket already claimed", http.StatusConflict,
		map[string]any{"ticket_id": ticketID})
}

func NewAlreadyClosed(ticketID string) error {
	return NewDomainError(CodeAlreadyClosed, "ticket already closed", http.StatusConflict,
		map[string]any{"ticket_id": ticketID})
}

// NewRateLimited carries the remaining cooldown so the rejection message can
// tell the user how long to wait.
func NewRateLimited(remaining time.Duration) error {
	return NewDomainError(CodeRateLimited, "ticket creation on cooldown", http.StatusTooManyRequests,
		map[string]any{"remaining": remaining})
}

func NewBlacklisted() error {
	return NewDomainError(CodeBlacklisted, "user is blacklisted from creating tickets", http.StatusForbidden, nil)
}

func NewExpired(message string) error {
	return NewDomainError(CodeExpired, message, http.StatusGone, nil)
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(CodeValidationFailed, message, http.StatusBadRequest, details)
}

func NewPersistenceFailure(err error) error {
	return &DomainError{
		Code:       CodePersistenceFailure,
		Message:    "storage operation failed",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func NewEffectFailure(effect string, err error) error {
	return &DomainError{
		Code:       CodeEffectFailure,
		Message:    fmt.Sprintf("effect %s failed", effect),
		HTTPStatus: http.StatusBadGateway,
		Details:    map[string]any{"effect": effect},
		Err:        err,
	}
}

// RemainingCooldown extracts the remaining duration from a RATE_LIMITED error.
func RemainingCooldown(err error) (time.Duration, bool) {
	var de *DomainError
	if !errors.As(err, &de) || de.Code != CodeRateLimited {
		return 0, false
	}
	remaining, ok := de.Details["remaining"].(time.Duration)
	return remaining, ok
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, pgx.ErrNoRows) {
		if de, ok := NewNotFound("resource").(*DomainError); ok {
			return de
		}
	}
	if de, ok := NewPersistenceFailure(err).(*DomainError); ok {
		return de
	}
	return &DomainError{
		Code:       CodePersistenceFailure,
		Message:    "storage operation failed",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// IsCode reports whether err is a DomainError with the given code.
func IsCode(err error, code string) bool {
	var de *DomainError
	return errors.As(err, &de) && de.Code == code
}
