package models

import (
	"time"

	"github.com/google/uuid"
)

// Suggestion tracks how often an item name gets bought by a family, so the
// client can offer frequently-purchased items when adding to a list.
type Suggestion struct {
	ID           uuid.UUID  `json:"id"`
	FamilyID     uuid.UUID  `json:"family_id"`
	ItemName     string     `json:"item_name"`
	Count        int64      `json:"count"`
	LastBoughtAt *time.Time `json:"last_bought_at,omitempty"`
	CreatedBy    uuid.UUID  `json:"created_by"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
