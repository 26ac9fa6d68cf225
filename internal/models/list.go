package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	ItemStatusTodo   = "todo"
	ItemStatusBought = "bought"
)

type List struct {
	ID        uuid.UUID `json:"id"`
	FamilyID  uuid.UUID `json:"family_id"`
	Name      string    `json:"name"`
	CreatedBy uuid.UUID `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

type ListItem struct {
	ID         uuid.UUID  `json:"id"`
	FamilyID   uuid.UUID  `json:"family_id"`
	ListID     uuid.UUID  `json:"list_id"`
	Name       string     `json:"name"`
	Status     string     `json:"status"`
	AssignedTo *uuid.UUID `json:"assigned_to,omitempty"`
	CreatedBy  uuid.UUID  `json:"created_by"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

type AddItemParams struct {
	ListID uuid.UUID
	Name   string
}
