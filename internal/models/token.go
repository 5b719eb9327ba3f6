package models

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken is the persisted, opaque, single-use credential.
// A token is live while its row exists and expires_at is in the future.
// Rotation deletes the row, so a rotated token is indistinguishable from one
// that never existed.
type RefreshToken struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Token     string
	CreatedAt time.Time
	ExpiresAt time.Time
}

type IssuedToken struct {
	Value     string
	ExpiresAt time.Time
}

// Token pair issued by TokenManager on login and refresh
type TokenPair struct {
	Access  IssuedToken
	Refresh IssuedToken
}
