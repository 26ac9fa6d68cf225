package models

import (
	"time"

	"github.com/google/uuid"
)

// Family is a household group. MemberIDs always contains CreatedBy while the
// family exists; every member's User.FamilyID points back at this family.
type Family struct {
	ID        uuid.UUID   `json:"id"`
	Name      string      `json:"name"`
	MemberIDs []uuid.UUID `json:"member_ids"`
	CreatedBy uuid.UUID   `json:"created_by"`
	CreatedAt time.Time   `json:"created_at"`
}

// IsMember reports whether id is in MemberIDs.
func (f *Family) IsMember(id uuid.UUID) bool {
	for _, m := range f.MemberIDs {
		if m == id {
			return true
		}
	}
	return false
}
