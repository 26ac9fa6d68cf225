package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hearthshare/hearthshare/internal/models"
)

var (
	ErrListNameRequired  = errors.New("list name is required")
	ErrListNotFound      = errors.New("list not found")
	ErrItemNameRequired  = errors.New("item name is required")
	ErrItemNotFound      = errors.New("item not found")
	ErrInvalidItemStatus = errors.New("invalid item status")
)

// ListService manages shared shopping lists and their items. Everything is
// scoped by family id so one household can never see another's rows.
type ListService struct {
	db DB
}

func NewListService(db DB) *ListService {
	return &ListService{db: db}
}

func (s *ListService) CreateList(ctx context.Context, callerID, familyID uuid.UUID, name string) (*models.List, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrListNameRequired
	}

	list := &models.List{}
	err := s.db.QueryRow(ctx,
		`INSERT INTO lists (family_id, name, created_by)
		 VALUES ($1, $2, $3)
		 RETURNING id, family_id, name, created_by, created_at`,
		familyID, name, callerID,
	).Scan(&list.ID, &list.FamilyID, &list.Name, &list.CreatedBy, &list.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert list: %w", err)
	}
	return list, nil
}

func (s *ListService) ListsByFamily(ctx context.Context, familyID uuid.UUID) ([]models.List, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, family_id, name, created_by, created_at
		 FROM lists WHERE family_id = $1
		 ORDER BY created_at DESC`,
		familyID,
	)
	if err != nil {
		return nil, fmt.Errorf("list lists: %w", err)
	}
	defer rows.Close()

	var lists []models.List
	for rows.Next() {
		var l models.List
		if err := rows.Scan(&l.ID, &l.FamilyID, &l.Name, &l.CreatedBy, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan list: %w", err)
		}
		lists = append(lists, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list lists: %w", err)
	}
	if lists == nil {
		lists = []models.List{}
	}
	return lists, nil
}

// DeleteList removes a list and its items together.
func (s *ListService) DeleteList(ctx context.Context, familyID, listID uuid.UUID) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete list transaction: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback(ctx)
		}
	}()

	_, err = tx.Exec(ctx,
		`DELETE FROM list_items WHERE list_id = $1 AND family_id = $2`,
		listID, familyID,
	)
	if err != nil {
		return fmt.Errorf("delete list items: %w", err)
	}

	result, err := tx.Exec(ctx,
		`DELETE FROM lists WHERE id = $1 AND family_id = $2`,
		listID, familyID,
	)
	if err != nil {
		return fmt.Errorf("delete list: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrListNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit delete list: %w", err)
	}
	committed = true
	return nil
}

func (s *ListService) AddItem(ctx context.Context, callerID, familyID uuid.UUID, params models.AddItemParams) (*models.ListItem, error) {
	name := strings.TrimSpace(params.Name)
	if name == "" {
		return nil, ErrItemNameRequired
	}

	var exists bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM lists WHERE id = $1 AND family_id = $2)`,
		params.ListID, familyID,
	).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("check list: %w", err)
	}
	if !exists {
		return nil, ErrListNotFound
	}

	item := &models.ListItem{}
	err = s.db.QueryRow(ctx,
		`INSERT INTO list_items (family_id, list_id, name, status, created_by)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, family_id, list_id, name, status, assigned_to, created_by, created_at, updated_at`,
		familyID, params.ListID, name, models.ItemStatusTodo, callerID,
	).Scan(&item.ID, &item.FamilyID, &item.ListID, &item.Name, &item.Status, &item.AssignedTo, &item.CreatedBy, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert item: %w", err)
	}
	return item, nil
}

func (s *ListService) ItemsByList(ctx context.Context, familyID, listID uuid.UUID) ([]models.ListItem, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, family_id, list_id, name, status, assigned_to, created_by, created_at, updated_at
		 FROM list_items WHERE family_id = $1 AND list_id = $2
		 ORDER BY created_at`,
		familyID, listID,
	)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var items []models.ListItem
	for rows.Next() {
		var item models.ListItem
		if err := rows.Scan(&item.ID, &item.FamilyID, &item.ListID, &item.Name, &item.Status, &item.AssignedTo, &item.CreatedBy, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	if items == nil {
		items = []models.ListItem{}
	}
	return items, nil
}

func (s *ListService) RenameItem(ctx context.Context, familyID, itemID uuid.UUID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrItemNameRequired
	}

	result, err := s.db.Exec(ctx,
		`UPDATE list_items SET name = $1, updated_at = NOW()
		 WHERE id = $2 AND family_id = $3`,
		name, itemID, familyID,
	)
	if err != nil {
		return fmt.Errorf("rename item: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrItemNotFound
	}
	return nil
}

// SetItemStatus flips an item between todo and bought. Marking an item
// bought also bumps the family's purchase-frequency counter for that item
// name, which feeds the suggestions list.
func (s *ListService) SetItemStatus(ctx context.Context, callerID, familyID, itemID uuid.UUID, status string) (*models.ListItem, error) {
	if status != models.ItemStatusTodo && status != models.ItemStatusBought {
		return nil, ErrInvalidItemStatus
	}

	item := &models.ListItem{}
	err := s.db.QueryRow(ctx,
		`UPDATE list_items SET status = $1, updated_at = NOW()
		 WHERE id = $2 AND family_id = $3
		 RETURNING id, family_id, list_id, name, status, assigned_to, created_by, created_at, updated_at`,
		status, itemID, familyID,
	).Scan(&item.ID, &item.FamilyID, &item.ListID, &item.Name, &item.Status, &item.AssignedTo, &item.CreatedBy, &item.CreatedAt, &item.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update item status: %w", err)
	}

	if status == models.ItemStatusBought {
		if err := s.recordSuggestion(ctx, callerID, familyID, item.Name); err != nil {
			return nil, err
		}
	}
	return item, nil
}

func (s *ListService) AssignItem(ctx context.Context, familyID, itemID uuid.UUID, assigneeID *uuid.UUID) error {
	result, err := s.db.Exec(ctx,
		`UPDATE list_items SET assigned_to = $1, updated_at = NOW()
		 WHERE id = $2 AND family_id = $3`,
		assigneeID, itemID, familyID,
	)
	if err != nil {
		return fmt.Errorf("assign item: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (s *ListService) DeleteItem(ctx context.Context, familyID, itemID uuid.UUID) error {
	result, err := s.db.Exec(ctx,
		`DELETE FROM list_items WHERE id = $1 AND family_id = $2`,
		itemID, familyID,
	)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (s *ListService) Suggestions(ctx context.Context, familyID uuid.UUID) ([]models.Suggestion, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, family_id, item_name, count, last_bought_at, created_by, created_at, updated_at
		 FROM suggestions WHERE family_id = $1
		 ORDER BY count DESC, item_name`,
		familyID,
	)
	if err != nil {
		return nil, fmt.Errorf("list suggestions: %w", err)
	}
	defer rows.Close()

	var suggestions []models.Suggestion
	for rows.Next() {
		var sg models.Suggestion
		if err := rows.Scan(&sg.ID, &sg.FamilyID, &sg.ItemName, &sg.Count, &sg.LastBoughtAt, &sg.CreatedBy, &sg.CreatedAt, &sg.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan suggestion: %w", err)
		}
		suggestions = append(suggestions, sg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list suggestions: %w", err)
	}
	if suggestions == nil {
		suggestions = []models.Suggestion{}
	}
	return suggestions, nil
}

// recordSuggestion upserts the counter row in a single statement so
// concurrent bumps never lose an increment.
func (s *ListService) recordSuggestion(ctx context.Context, callerID, familyID uuid.UUID, itemName string) error {
	itemName = strings.TrimSpace(itemName)
	if itemName == "" {
		return nil
	}

	_, err := s.db.Exec(ctx,
		`INSERT INTO suggestions (family_id, item_name, count, last_bought_at, created_by)
		 VALUES ($1, $2, 1, NOW(), $3)
		 ON CONFLICT (family_id, item_name)
		 DO UPDATE SET count = suggestions.count + 1, last_bought_at = NOW(), updated_at = NOW()`,
		familyID, itemName, callerID,
	)
	if err != nil {
		return fmt.Errorf("record suggestion: %w", err)
	}
	return nil
}
