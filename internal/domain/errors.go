package domain

import "errors"

var (
	// ErrNotFound is returned when a requested id is absent. Store getters
	// report absence as (nil, nil); the service layer turns that into this.
	ErrNotFound = errors.New("not found")

	// ErrIntegrity is returned when a delete is blocked by a referencing record.
	ErrIntegrity = errors.New("integrity violation")

	// ErrBackendUnavailable wraps failures to reach or configure the remote medium.
	ErrBackendUnavailable = errors.New("backend unavailable")

	// ErrMalformedRecord is returned when a persisted row cannot be parsed.
	ErrMalformedRecord = errors.New("malformed record")

	// ErrInvalidValue is returned when a field value cannot be encoded,
	// e.g. a tag id containing the list delimiter.
	ErrInvalidValue = errors.New("invalid field value")

	// ErrEmptyPayload is returned by upload sinks given zero bytes.
	ErrEmptyPayload = errors.New("empty upload payload")
)
