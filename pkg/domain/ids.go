// Package domain holds typed identifiers shared across modules.
//
// IDs are distinct named UUID types so an OwnerID can never be passed where a
// SightingID is expected. Construct them via the Parse functions at trust
// boundaries; direct conversion from uuid.UUID is reserved for stores and tests.
package domain

import (
	"strings"

	"github.com/google/uuid"

	dErrors "catwatch/pkg/domain-errors"
)

type (
	OwnerID        uuid.UUID
	SightingID     uuid.UUID
	NotificationID uuid.UUID
)

// NewOwnerID returns a random owner ID.
func NewOwnerID() OwnerID { return OwnerID(uuid.New()) }

// NewSightingID returns a random sighting ID.
func NewSightingID() SightingID { return SightingID(uuid.New()) }

// NewNotificationID returns a random notification ID.
func NewNotificationID() NotificationID { return NotificationID(uuid.New()) }

func parseUUID(kind, s string) (uuid.UUID, error) {
	if strings.TrimSpace(s) == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" is required")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid "+kind)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, kind+" must not be nil")
	}
	return u, nil
}

// ParseOwnerID parses and validates an owner identifier.
func ParseOwnerID(s string) (OwnerID, error) {
	u, err := parseUUID("owner id", s)
	return OwnerID(u), err
}

// ParseSightingID parses and validates a sighting identifier.
func ParseSightingID(s string) (SightingID, error) {
	u, err := parseUUID("sighting id", s)
	return SightingID(u), err
}

// ParseNotificationID parses and validates a notification identifier.
func ParseNotificationID(s string) (NotificationID, error) {
	u, err := parseUUID("notification id", s)
	return NotificationID(u), err
}

func (id OwnerID) String() string        { return uuid.UUID(id).String() }
func (id OwnerID) IsNil() bool           { return uuid.UUID(id) == uuid.Nil }
func (id SightingID) String() string     { return uuid.UUID(id).String() }
func (id SightingID) IsNil() bool        { return uuid.UUID(id) == uuid.Nil }
func (id NotificationID) String() string { return uuid.UUID(id).String() }
func (id NotificationID) IsNil() bool    { return uuid.UUID(id) == uuid.Nil }

func (id OwnerID) MarshalText() ([]byte, error)        { return uuid.UUID(id).MarshalText() }
func (id SightingID) MarshalText() ([]byte, error)     { return uuid.UUID(id).MarshalText() }
func (id NotificationID) MarshalText() ([]byte, error) { return uuid.UUID(id).MarshalText() }

func (id *OwnerID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}

func (id *SightingID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}

func (id *NotificationID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(id).UnmarshalText(b)
}
