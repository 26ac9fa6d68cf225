package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

func TestAuthService_HashPassword(t *testing.T) {
	auth := &AuthService{}

	password := "securePassword123!"
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if hash == "" {
		t.Error("hash should not be empty")
	}
	if hash == password {
		t.Error("hash should not equal plain password")
	}
	if !strings.HasPrefix(hash, "$2a$") && !strings.HasPrefix(hash, "$2b$") {
		t.Error("hash should be bcrypt format")
	}
}

func TestAuthService_HashPassword_UniqueHashes(t *testing.T) {
	auth := &AuthService{}

	password := "samePassword123"
	hash1, _ := auth.HashPassword(password)
	hash2, _ := auth.HashPassword(password)

	if hash1 == hash2 {
		t.Error("same password should produce different hashes (due to salt)")
	}
}

func TestAuthService_VerifyPassword(t *testing.T) {
	auth := &AuthService{}

	password := "correctPassword123!"
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	if !auth.VerifyPassword(hash, password) {
		t.Error("correct password should verify successfully")
	}
	if auth.VerifyPassword(hash, "wrongPassword") {
		t.Error("incorrect password should not verify")
	}
	if auth.VerifyPassword(hash, "") {
		t.Error("empty password should not verify")
	}
	if auth.VerifyPassword("not-a-valid-hash", password) {
		t.Error("invalid hash should not verify")
	}
}

func TestAuthService_GenerateSessionToken(t *testing.T) {
	auth := &AuthService{}

	token, hash, err := auth.GenerateSessionToken()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Token is 32 random bytes hex encoded, hash is its SHA256.
	if len(token) != 64 {
		t.Errorf("token should be 64 chars, got %d", len(token))
	}
	if len(hash) != 64 {
		t.Errorf("hash should be 64 chars, got %d", len(hash))
	}
	if token == hash {
		t.Error("token and hash should be different")
	}

	token2, hash2, _ := auth.GenerateSessionToken()
	if token == token2 || hash == hash2 {
		t.Error("tokens should be unique")
	}
}

func TestAuthService_HashToken_ConsistentWithGenerate(t *testing.T) {
	auth := &AuthService{}

	token, generatedHash, _ := auth.GenerateSessionToken()
	if auth.hashToken(token) != generatedHash {
		t.Error("hashToken should produce same result as GenerateSessionToken")
	}
}

type fakeRedis struct {
	setErr      error
	getValue    string
	getErr      error
	expireErr   error
	delErr      error
	setCalls    int
	getCalls    int
	expireCalls int
	delCalls    int
}

func (f *fakeRedis) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	f.setCalls++
	return f.setErr
}

func (f *fakeRedis) Get(ctx context.Context, key string) (string, error) {
	f.getCalls++
	return f.getValue, f.getErr
}

func (f *fakeRedis) Expire(ctx context.Context, key string, expiration time.Duration) error {
	f.expireCalls++
	return f.expireErr
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) error {
	f.delCalls += len(keys)
	return f.delErr
}

func TestAuthService_CreateSession_RedisSuccess(t *testing.T) {
	ctx := context.Background()
	db := &fakeDB{
		ExecFunc: func(ctx context.Context, sql string, args ...any) (CommandTag, error) {
			t.Fatal("unexpected db fallback")
			return fakeCommandTag{}, nil
		},
	}
	redis := &fakeRedis{}

	auth := NewAuthService(db, redis)
	token, err := auth.CreateSession(ctx, uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token == "" {
		t.Fatal("expected token")
	}
	if redis.setCalls != 1 {
		t.Fatalf("expected redis set, got %d", redis.setCalls)
	}
}

func TestAuthService_CreateSession_RedisFailure_FallsBackToDB(t *testing.T) {
	ctx := context.Background()
	execCalled := false

	db := &fakeDB{
		ExecFunc: func(ctx context.Context, sql string, args ...any) (CommandTag, error) {
			execCalled = true
			return fakeCommandTag{rowsAffected: 1}, nil
		},
	}
	redis := &fakeRedis{setErr: errors.New("redis down")}

	auth := NewAuthService(db, redis)
	token, err := auth.CreateSession(ctx, uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token == "" {
		t.Fatal("expected token to be returned")
	}
	if !execCalled {
		t.Fatal("expected database fallback when redis set fails")
	}
}

func TestAuthService_ValidateSession_RedisHit(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	db := &fakeDB{
		QueryRowFunc: func(ctx context.Context, sql string, args ...any) Row {
			return rowFromValues(userRow(userID, "user@example.com", "User")...)
		},
	}
	redis := &fakeRedis{getValue: userID.String()}

	auth := NewAuthService(db, redis)
	user, err := auth.ValidateSession(ctx, "token")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != userID {
		t.Fatalf("expected user ID %v, got %v", userID, user.ID)
	}
	if redis.expireCalls != 1 {
		t.Fatalf("expected redis expire call, got %d", redis.expireCalls)
	}
}

func TestAuthService_ValidateSession_RedisInvalidUserID(t *testing.T) {
	auth := NewAuthService(&fakeDB{}, &fakeRedis{getValue: "not-a-uuid"})
	if _, err := auth.ValidateSession(context.Background(), "token"); err == nil {
		t.Fatal("expected error for invalid user id")
	}
}

func TestAuthService_ValidateSession_DBHit(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	sessionID := uuid.New()
	expires := time.Now().Add(1 * time.Hour)
	call := 0

	db := &fakeDB{
		QueryRowFunc: func(ctx context.Context, sql string, args ...any) Row {
			call++
			if call == 1 {
				return rowFromValues(sessionID, userID, "hash", expires, time.Now())
			}
			return rowFromValues(userRow(userID, "user@example.com", "User")...)
		},
	}
	redis := &fakeRedis{getErr: errors.New("miss")}

	auth := NewAuthService(db, redis)
	user, err := auth.ValidateSession(ctx, "token")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != userID {
		t.Fatalf("expected user ID %v, got %v", userID, user.ID)
	}
}

func TestAuthService_ValidateSession_DBExpired(t *testing.T) {
	ctx := context.Background()
	expired := time.Now().Add(-2 * time.Hour)
	execCalled := false

	db := &fakeDB{
		QueryRowFunc: func(ctx context.Context, sql string, args ...any) Row {
			return rowFromValues(uuid.New(), uuid.New(), "hash", expired, expired)
		},
		ExecFunc: func(ctx context.Context, sql string, args ...any) (CommandTag, error) {
			execCalled = true
			return fakeCommandTag{rowsAffected: 1}, nil
		},
	}
	redis := &fakeRedis{getErr: errors.New("miss")}

	auth := NewAuthService(db, redis)
	_, err := auth.ValidateSession(ctx, "token")
	if !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
	if !execCalled {
		t.Fatal("expected expired session cleanup to hit database")
	}
}

func TestAuthService_ValidateSession_DBNotFound(t *testing.T) {
	db := &fakeDB{
		QueryRowFunc: func(ctx context.Context, sql string, args ...any) Row {
			return rowWithError(pgx.ErrNoRows)
		},
	}
	redis := &fakeRedis{getErr: errors.New("miss")}

	auth := NewAuthService(db, redis)
	_, err := auth.ValidateSession(context.Background(), "token")
	if !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestAuthService_DeleteSession(t *testing.T) {
	db := &fakeDB{
		ExecFunc: func(ctx context.Context, sql string, args ...any) (CommandTag, error) {
			return fakeCommandTag{rowsAffected: 1}, nil
		},
	}
	redis := &fakeRedis{}

	auth := NewAuthService(db, redis)
	if err := auth.DeleteSession(context.Background(), "token"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if redis.delCalls != 1 {
		t.Fatalf("expected redis delete, got %d", redis.delCalls)
	}
}

func TestAuthService_DeleteSession_DBError(t *testing.T) {
	db := &fakeDB{
		ExecFunc: func(ctx context.Context, sql string, args ...any) (CommandTag, error) {
			return fakeCommandTag{}, errors.New("db error")
		},
	}

	auth := NewAuthService(db, &fakeRedis{})
	if err := auth.DeleteSession(context.Background(), "token"); err == nil {
		t.Fatal("expected error on delete session")
	}
}

func TestAuthService_DeleteAllUserSessions_DeletesRedisAndDB(t *testing.T) {
	execCalled := false
	db := &fakeDB{
		QueryFunc: func(ctx context.Context, sql string, args ...any) (Rows, error) {
			return &fakeRows{rows: [][]any{{"hash1"}, {"hash2"}}}, nil
		},
		ExecFunc: func(ctx context.Context, sql string, args ...any) (CommandTag, error) {
			execCalled = true
			return fakeCommandTag{rowsAffected: 2}, nil
		},
	}
	redis := &fakeRedis{}

	auth := NewAuthService(db, redis)
	if err := auth.DeleteAllUserSessions(context.Background(), uuid.New()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if redis.delCalls != 2 {
		t.Fatalf("expected 2 redis deletions, got %d", redis.delCalls)
	}
	if !execCalled {
		t.Fatal("expected database delete for user sessions")
	}
}

func TestAuthService_DeleteAllUserSessions_QueryError(t *testing.T) {
	db := &fakeDB{
		QueryFunc: func(ctx context.Context, sql string, args ...any) (Rows, error) {
			return nil, errors.New("boom")
		},
	}

	auth := NewAuthService(db, &fakeRedis{})
	if err := auth.DeleteAllUserSessions(context.Background(), uuid.New()); err == nil {
		t.Fatal("expected error")
	}
}
