package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/hearthshare/hearthshare/internal/models"
)

const (
	// DefaultInviteCodeLength is validated on join as well as used on
	// generation; the two must never drift apart.
	DefaultInviteCodeLength = 8
	DefaultInviteTTL        = 30 * time.Minute
	DefaultCreateCooldown   = 10 * time.Minute

	rateLimitActionFamilyCreate = "family_create"
	maxCodeAttempts             = 5
)

var (
	ErrFamilyNameRequired = errors.New("family name is required")
	ErrFamilyNotFound     = errors.New("family not found")
	ErrAlreadyInFamily    = errors.New("leave your current family first")
	ErrCreateRateLimited  = errors.New("wait before creating another family")
	ErrInviteCodeLength   = errors.New("invite code has the wrong length")
	ErrInviteNotFound     = errors.New("invite code not found")
	ErrInviteExpired      = errors.New("invite code expired")
	ErrInviteUsed         = errors.New("invite already used")
	ErrNotFamilyOwner     = errors.New("only the family owner can do that")
	ErrOwnerCannotLeave   = errors.New("owner cannot leave; disband instead")
	ErrCannotRemoveSelf   = errors.New("use leave family instead")
)

// familyChildTables are the family-scoped tables disband sweeps, in delete
// order. Children go before the parent family row so an interrupted disband
// leaves an orphaned family stub rather than dangling child rows, and a
// retry just finds the remaining tables empty.
var familyChildTables = []string{
	"lists",
	"list_items",
	"expenses",
	"categories",
	"suggestions",
	"budgets",
	"invites",
}

// FamilyConfig tunes the membership service. Zero values fall back to the
// defaults above.
type FamilyConfig struct {
	InviteCodeLength int
	InviteTTL        time.Duration
	CreateCooldown   time.Duration
}

type CreateFamilyResult struct {
	FamilyID   uuid.UUID
	InviteCode string
	ExpiresAt  time.Time
}

type JoinFamilyResult struct {
	FamilyID   uuid.UUID
	FamilyName string
}

type CreateInviteResult struct {
	InviteCode string
	ExpiresAt  time.Time
}

// FamilyService owns family membership and invites. Every mutation that
// touches more than one row runs in a single transaction with the rows it
// reads locked FOR UPDATE, so the database is the only serialization point;
// the service itself holds no state.
type FamilyService struct {
	db             DB
	codeLength     int
	inviteTTL      time.Duration
	createCooldown time.Duration
	now            func() time.Time
}

func NewFamilyService(db DB, cfg FamilyConfig) *FamilyService {
	s := &FamilyService{
		db:             db,
		codeLength:     cfg.InviteCodeLength,
		inviteTTL:      cfg.InviteTTL,
		createCooldown: cfg.CreateCooldown,
		now:            time.Now,
	}
	if s.codeLength <= 0 {
		s.codeLength = DefaultInviteCodeLength
	}
	if s.inviteTTL <= 0 {
		s.inviteTTL = DefaultInviteTTL
	}
	if s.createCooldown <= 0 {
		s.createCooldown = DefaultCreateCooldown
	}
	return s
}

// CreateFamily creates a family with the caller as sole member and owner,
// mints its first invite, and stamps the caller's creation cooldown, all in
// one transaction.
func (s *FamilyService) CreateFamily(ctx context.Context, callerID uuid.UUID, name string) (*CreateFamilyResult, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrFamilyNameRequired
	}

	now := s.now()

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin create family transaction: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback(ctx)
		}
	}()

	var lastCreatedAt time.Time
	err = tx.QueryRow(ctx,
		`SELECT last_action_at FROM rate_limits
		 WHERE user_id = $1 AND action = $2
		 FOR UPDATE`,
		callerID, rateLimitActionFamilyCreate,
	).Scan(&lastCreatedAt)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("load rate limit: %w", err)
	}
	if err == nil && now.Sub(lastCreatedAt) < s.createCooldown {
		return nil, ErrCreateRateLimited
	}

	var currentFamilyID *uuid.UUID
	err = tx.QueryRow(ctx,
		`SELECT family_id FROM users WHERE id = $1 FOR UPDATE`,
		callerID,
	).Scan(&currentFamilyID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if currentFamilyID != nil {
		return nil, ErrAlreadyInFamily
	}

	var familyID uuid.UUID
	err = tx.QueryRow(ctx,
		`INSERT INTO families (name, member_ids, created_by)
		 VALUES ($1, ARRAY[$2::uuid], $2)
		 RETURNING id`,
		name, callerID,
	).Scan(&familyID)
	if err != nil {
		return nil, fmt.Errorf("insert family: %w", err)
	}

	code, err := s.uniqueInviteCode(ctx, tx)
	if err != nil {
		return nil, err
	}
	expiresAt := now.Add(s.inviteTTL)

	_, err = tx.Exec(ctx,
		`INSERT INTO invites (code, family_id, created_by, expires_at)
		 VALUES ($1, $2, $3, $4)`,
		code, familyID, callerID, expiresAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert invite: %w", err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE users SET family_id = $1, updated_at = NOW() WHERE id = $2`,
		familyID, callerID,
	)
	if err != nil {
		return nil, fmt.Errorf("set user family: %w", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO rate_limits (user_id, action, last_action_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, action) DO UPDATE SET last_action_at = EXCLUDED.last_action_at`,
		callerID, rateLimitActionFamilyCreate, now,
	)
	if err != nil {
		return nil, fmt.Errorf("stamp rate limit: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit create family: %w", err)
	}
	committed = true

	return &CreateFamilyResult{FamilyID: familyID, InviteCode: code, ExpiresAt: expiresAt}, nil
}

// JoinFamily redeems an invite code for the caller. The invite row is locked
// FOR UPDATE for the whole transaction, so of two concurrent redemptions of
// the same code exactly one commits; the other observes used_by already set.
func (s *FamilyService) JoinFamily(ctx context.Context, callerID uuid.UUID, code string) (*JoinFamilyResult, error) {
	code = strings.TrimSpace(code)
	if len(code) != s.codeLength {
		return nil, ErrInviteCodeLength
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin join transaction: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback(ctx)
		}
	}()

	invite := &models.Invite{}
	err = tx.QueryRow(ctx,
		`SELECT code, family_id, created_by, expires_at, used_by, used_at, created_at
		 FROM invites WHERE code = $1
		 FOR UPDATE`,
		code,
	).Scan(&invite.Code, &invite.FamilyID, &invite.CreatedBy, &invite.ExpiresAt, &invite.UsedBy, &invite.UsedAt, &invite.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrInviteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load invite: %w", err)
	}

	if invite.Expired(s.now()) {
		return nil, ErrInviteExpired
	}
	if invite.Used() {
		return nil, ErrInviteUsed
	}

	var currentFamilyID *uuid.UUID
	err = tx.QueryRow(ctx,
		`SELECT family_id FROM users WHERE id = $1 FOR UPDATE`,
		callerID,
	).Scan(&currentFamilyID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if currentFamilyID != nil {
		return nil, ErrAlreadyInFamily
	}

	var familyName string
	err = tx.QueryRow(ctx,
		`SELECT name FROM families WHERE id = $1 FOR UPDATE`,
		invite.FamilyID,
	).Scan(&familyName)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrFamilyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load family: %w", err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE invites SET used_by = $1, used_at = NOW() WHERE code = $2`,
		callerID, code,
	)
	if err != nil {
		return nil, fmt.Errorf("mark invite used: %w", err)
	}

	// Set-union semantics: appending an already-present member is a no-op.
	_, err = tx.Exec(ctx,
		`UPDATE families SET member_ids = array_append(member_ids, $1)
		 WHERE id = $2 AND NOT ($1 = ANY(member_ids))`,
		callerID, invite.FamilyID,
	)
	if err != nil {
		return nil, fmt.Errorf("add member: %w", err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE users SET family_id = $1, updated_at = NOW() WHERE id = $2`,
		invite.FamilyID, callerID,
	)
	if err != nil {
		return nil, fmt.Errorf("set user family: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit join: %w", err)
	}
	committed = true

	return &JoinFamilyResult{FamilyID: invite.FamilyID, FamilyName: familyName}, nil
}

// CreateInvite mints a fresh code for an existing family. Owner only. The
// new invite is independent of any earlier one; expired or used codes stay
// dead.
func (s *FamilyService) CreateInvite(ctx context.Context, callerID, familyID uuid.UUID) (*CreateInviteResult, error) {
	var createdBy uuid.UUID
	err := s.db.QueryRow(ctx,
		`SELECT created_by FROM families WHERE id = $1`,
		familyID,
	).Scan(&createdBy)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrFamilyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load family: %w", err)
	}
	if createdBy != callerID {
		return nil, ErrNotFamilyOwner
	}

	code, err := s.uniqueInviteCode(ctx, s.db)
	if err != nil {
		return nil, err
	}
	expiresAt := s.now().Add(s.inviteTTL)

	_, err = s.db.Exec(ctx,
		`INSERT INTO invites (code, family_id, created_by, expires_at)
		 VALUES ($1, $2, $3, $4)`,
		code, familyID, callerID, expiresAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert invite: %w", err)
	}

	return &CreateInviteResult{InviteCode: code, ExpiresAt: expiresAt}, nil
}

// LeaveFamily removes the caller from a family. The owner cannot leave; the
// family would be left without its createdBy member.
func (s *FamilyService) LeaveFamily(ctx context.Context, callerID, familyID uuid.UUID) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin leave transaction: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback(ctx)
		}
	}()

	var createdBy uuid.UUID
	err = tx.QueryRow(ctx,
		`SELECT created_by FROM families WHERE id = $1 FOR UPDATE`,
		familyID,
	).Scan(&createdBy)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrFamilyNotFound
	}
	if err != nil {
		return fmt.Errorf("load family: %w", err)
	}
	if createdBy == callerID {
		return ErrOwnerCannotLeave
	}

	if err := s.detachMember(ctx, tx, familyID, callerID); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit leave: %w", err)
	}
	committed = true
	return nil
}

// RemoveMember evicts a member. Owner only; the owner removes themselves via
// disband, not here.
func (s *FamilyService) RemoveMember(ctx context.Context, callerID, familyID, memberID uuid.UUID) error {
	if callerID == memberID {
		return ErrCannotRemoveSelf
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin remove transaction: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback(ctx)
		}
	}()

	var createdBy uuid.UUID
	err = tx.QueryRow(ctx,
		`SELECT created_by FROM families WHERE id = $1 FOR UPDATE`,
		familyID,
	).Scan(&createdBy)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrFamilyNotFound
	}
	if err != nil {
		return fmt.Errorf("load family: %w", err)
	}
	if createdBy != callerID {
		return ErrNotFamilyOwner
	}

	if err := s.detachMember(ctx, tx, familyID, memberID); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit remove: %w", err)
	}
	committed = true
	return nil
}

// DisbandFamily deletes a family and everything scoped to it. Deliberately
// not one transaction: the sweep can touch an unbounded number of rows, so
// each table is cleared on its own and the family row goes last. Running it
// again on a half-disbanded family finds the remaining steps already empty,
// and a family that is gone entirely counts as disbanded.
func (s *FamilyService) DisbandFamily(ctx context.Context, callerID, familyID uuid.UUID) error {
	var createdBy uuid.UUID
	err := s.db.QueryRow(ctx,
		`SELECT created_by FROM families WHERE id = $1`,
		familyID,
	).Scan(&createdBy)
	if errors.Is(err, pgx.ErrNoRows) {
		// Already disbanded; a retry after a partial failure lands here.
		return nil
	}
	if err != nil {
		return fmt.Errorf("load family: %w", err)
	}
	if createdBy != callerID {
		return ErrNotFamilyOwner
	}

	for _, table := range familyChildTables {
		_, err := s.db.Exec(ctx,
			`DELETE FROM `+table+` WHERE family_id = $1`,
			familyID,
		)
		if err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	_, err = s.db.Exec(ctx,
		`UPDATE users SET family_id = NULL, updated_at = NOW() WHERE family_id = $1`,
		familyID,
	)
	if err != nil {
		return fmt.Errorf("clear members: %w", err)
	}

	_, err = s.db.Exec(ctx, `DELETE FROM families WHERE id = $1`, familyID)
	if err != nil {
		return fmt.Errorf("delete family: %w", err)
	}

	return nil
}

// GetByID loads a family.
func (s *FamilyService) GetByID(ctx context.Context, familyID uuid.UUID) (*models.Family, error) {
	family := &models.Family{}
	err := s.db.QueryRow(ctx,
		`SELECT id, name, member_ids, created_by, created_at
		 FROM families WHERE id = $1`,
		familyID,
	).Scan(&family.ID, &family.Name, &family.MemberIDs, &family.CreatedBy, &family.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrFamilyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load family: %w", err)
	}
	return family, nil
}

// ListMembers returns the users whose family_id points at the family.
func (s *FamilyService) ListMembers(ctx context.Context, familyID uuid.UUID) ([]models.User, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, email, display_name, photo_url, family_id, created_at, updated_at
		 FROM users WHERE family_id = $1
		 ORDER BY display_name`,
		familyID,
	)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	var members []models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.ID, &u.Email, &u.DisplayName, &u.PhotoURL, &u.FamilyID, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	if members == nil {
		members = []models.User{}
	}
	return members, nil
}

// detachMember drops a member from member_ids and clears the member's
// family_id inside the caller's transaction, keeping both sides of the
// relationship in step.
func (s *FamilyService) detachMember(ctx context.Context, tx Tx, familyID, memberID uuid.UUID) error {
	_, err := tx.Exec(ctx,
		`UPDATE families SET member_ids = array_remove(member_ids, $1) WHERE id = $2`,
		memberID, familyID,
	)
	if err != nil {
		return fmt.Errorf("remove member: %w", err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE users SET family_id = NULL, updated_at = NOW() WHERE id = $1`,
		memberID,
	)
	if err != nil {
		return fmt.Errorf("clear user family: %w", err)
	}
	return nil
}

// rowQuerier is satisfied by both DB and Tx, so code generation can run
// inside or outside a transaction.
type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) Row
}

// uniqueInviteCode generates a code not currently present in invites,
// retrying on the (unlikely) collision.
func (s *FamilyService) uniqueInviteCode(ctx context.Context, q rowQuerier) (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := generateInviteCode(s.codeLength)
		if err != nil {
			return "", err
		}
		var exists bool
		err = q.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM invites WHERE code = $1)`,
			code,
		).Scan(&exists)
		if err != nil {
			return "", fmt.Errorf("check invite code: %w", err)
		}
		if !exists {
			return code, nil
		}
	}
	return "", errors.New("could not generate a unique invite code")
}
