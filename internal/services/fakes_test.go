package services

import (
	"context"
	"fmt"
	"reflect"
)

// fakeDB scripts the DB interface for tests. A nil func panics so a test
// fails loudly when a service touches the database unexpectedly.
type fakeDB struct {
	QueryRowFunc func(ctx context.Context, sql string, args ...any) Row
	QueryFunc    func(ctx context.Context, sql string, args ...any) (Rows, error)
	ExecFunc     func(ctx context.Context, sql string, args ...any) (CommandTag, error)
	BeginFunc    func(ctx context.Context) (Tx, error)
}

func (db *fakeDB) QueryRow(ctx context.Context, sql string, args ...any) Row {
	if db.QueryRowFunc == nil {
		panic("unexpected QueryRow: " + sql)
	}
	return db.QueryRowFunc(ctx, sql, args...)
}

func (db *fakeDB) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	if db.QueryFunc == nil {
		panic("unexpected Query: " + sql)
	}
	return db.QueryFunc(ctx, sql, args...)
}

func (db *fakeDB) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	if db.ExecFunc == nil {
		panic("unexpected Exec: " + sql)
	}
	return db.ExecFunc(ctx, sql, args...)
}

func (db *fakeDB) Begin(ctx context.Context) (Tx, error) {
	if db.BeginFunc == nil {
		panic("unexpected Begin")
	}
	return db.BeginFunc(ctx)
}

type fakeTx struct {
	QueryRowFunc func(ctx context.Context, sql string, args ...any) Row
	QueryFunc    func(ctx context.Context, sql string, args ...any) (Rows, error)
	ExecFunc     func(ctx context.Context, sql string, args ...any) (CommandTag, error)
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

func (tx *fakeTx) QueryRow(ctx context.Context, sql string, args ...any) Row {
	if tx.QueryRowFunc == nil {
		panic("unexpected tx QueryRow: " + sql)
	}
	return tx.QueryRowFunc(ctx, sql, args...)
}

func (tx *fakeTx) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	if tx.QueryFunc == nil {
		panic("unexpected tx Query: " + sql)
	}
	return tx.QueryFunc(ctx, sql, args...)
}

func (tx *fakeTx) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	if tx.ExecFunc == nil {
		panic("unexpected tx Exec: " + sql)
	}
	return tx.ExecFunc(ctx, sql, args...)
}

func (tx *fakeTx) Commit(ctx context.Context) error {
	if tx.CommitFunc == nil {
		return nil
	}
	return tx.CommitFunc(ctx)
}

func (tx *fakeTx) Rollback(ctx context.Context) error {
	if tx.RollbackFunc == nil {
		return nil
	}
	return tx.RollbackFunc(ctx)
}

type fakeCommandTag struct {
	rowsAffected int64
}

func (t fakeCommandTag) RowsAffected() int64 {
	return t.rowsAffected
}

type fakeRow struct {
	values []any
	err    error
}

func (r *fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != len(r.values) {
		return fmt.Errorf("scan: expected %d destinations, got %d", len(r.values), len(dest))
	}
	for i, v := range r.values {
		if err := assignValue(dest[i], v); err != nil {
			return err
		}
	}
	return nil
}

// rowFromValues builds a row whose Scan fills destinations in order. A nil
// value leaves the destination at its zero value.
func rowFromValues(values ...any) Row {
	return &fakeRow{values: values}
}

// rowWithError builds a row whose Scan returns err, e.g. pgx.ErrNoRows.
func rowWithError(err error) Row {
	return &fakeRow{err: err}
}

type fakeRows struct {
	rows [][]any
	idx  int
	err  error
}

func (r *fakeRows) Next() bool {
	if r.idx >= len(r.rows) {
		return false
	}
	r.idx++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.rows[r.idx-1]
	if len(dest) != len(row) {
		return fmt.Errorf("scan: expected %d destinations, got %d", len(row), len(dest))
	}
	for i, v := range row {
		if err := assignValue(dest[i], v); err != nil {
			return err
		}
	}
	return nil
}

func (r *fakeRows) Close() {}

func (r *fakeRows) Err() error {
	return r.err
}

func assignValue(dest, value any) error {
	dv := reflect.ValueOf(dest)
	if dv.Kind() != reflect.Ptr || dv.IsNil() {
		return fmt.Errorf("scan destination must be a non-nil pointer, got %T", dest)
	}
	target := dv.Elem()

	if value == nil {
		target.Set(reflect.Zero(target.Type()))
		return nil
	}

	sv := reflect.ValueOf(value)
	switch {
	case sv.Type().AssignableTo(target.Type()):
		target.Set(sv)
	case target.Kind() == reflect.Ptr && sv.Type().AssignableTo(target.Type().Elem()):
		p := reflect.New(target.Type().Elem())
		p.Elem().Set(sv)
		target.Set(p)
	case sv.Kind() == reflect.Ptr && !sv.IsNil() && sv.Type().Elem().AssignableTo(target.Type()):
		target.Set(sv.Elem())
	default:
		return fmt.Errorf("cannot scan %T into %T", value, dest)
	}
	return nil
}
