package models

import (
	"time"

	"github.com/google/uuid"
)

// Invite is a short-lived, single-use code granting membership in a family.
// The code itself is the primary key. Once UsedBy is set the invite is dead
// for good, whatever its expiry says.
type Invite struct {
	Code      string     `json:"code"`
	FamilyID  uuid.UUID  `json:"family_id"`
	CreatedBy uuid.UUID  `json:"created_by"`
	ExpiresAt time.Time  `json:"expires_at"`
	UsedBy    *uuid.UUID `json:"used_by,omitempty"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// Expired reports whether the invite's expiry has passed at now.
func (i *Invite) Expired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}

// Used reports whether the invite has been redeemed.
func (i *Invite) Used() bool {
	return i.UsedBy != nil
}
