package services

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testUserID  = "0b6f3c1e-5d7a-4a8e-9c2b-1f4e6a7d8c90"
	testOutfit  = "5f1d2c3b-4a59-4687-9a1b-2c3d4e5f6a7b"
	testItemID  = "9a8b7c6d-5e4f-4321-8765-0fedcba98765"
	testClerkID = "user_123"
)

// scanInto copies values into Scan targets, converting named types such as
// wardrobe.Category from plain strings.
func scanInto(dest, values []any) error {
	if len(dest) != len(values) {
		return fmt.Errorf("scan: %d targets for %d values", len(dest), len(values))
	}
	for i, d := range dest {
		target := reflect.ValueOf(d).Elem()
		if values[i] == nil {
			target.SetZero()
			continue
		}
		v := reflect.ValueOf(values[i])
		switch {
		case v.Type().AssignableTo(target.Type()):
		case v.Type().ConvertibleTo(target.Type()):
			v = v.Convert(target.Type())
		default:
			return fmt.Errorf("scan: column %d is %s, target is %s", i, v.Type(), target.Type())
		}
		target.Set(v)
	}
	return nil
}

type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return scanInto(dest, r.values)
}

type fakeRows struct {
	rows [][]any
	pos  int
	err  error
}

func (r *fakeRows) Close() {}
func (r *fakeRows) Err() error { return r.err }
func (r *fakeRows) CommandTag() pgconn.CommandTag { return pgconn.NewCommandTag("SELECT") }
func (r *fakeRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *fakeRows) RawValues() [][]byte { return nil }
func (r *fakeRows) Conn() *pgx.Conn { return nil }

func (r *fakeRows) Next() bool {
	if r.pos >= len(r.rows) {
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	return scanInto(dest, r.rows[r.pos-1])
}

func (r *fakeRows) Values() ([]any, error) {
	return r.rows[r.pos-1], nil
}

type fakeBatchResults struct {
	remaining int
	err       error
}

func (b *fakeBatchResults) Exec() (pgconn.CommandTag, error) {
	if b.err != nil {
		return pgconn.CommandTag{}, b.err
	}
	if b.remaining == 0 {
		return pgconn.CommandTag{}, errors.New("no more batch results")
	}
	b.remaining--
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (b *fakeBatchResults) Query() (pgx.Rows, error) { return &fakeRows{}, nil }
func (b *fakeBatchResults) QueryRow() pgx.Row { return fakeRow{err: pgx.ErrNoRows} }
func (b *fakeBatchResults) Close() error { return nil }

type dbCall struct {
	sql  string
	args []any
}

// fakeDB answers the clerk id lookup from users and hands every other
// statement to the matching hook.
type fakeDB struct {
	mu    sync.Mutex
	users map[string]string
	calls []dbCall

	queryRow func(sql string, args []any) pgx.Row
	query    func(sql string, args []any) (pgx.Rows, error)
	exec     func(sql string, args []any) (pgconn.CommandTag, error)
	batches  []*pgx.Batch
	batchErr error
}

func newFakeDB() *fakeDB {
	return &fakeDB{users: map[string]string{testClerkID: testUserID}}
}

func (f *fakeDB) record(sql string, args []any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, dbCall{sql: sql, args: args})
}

func (f *fakeDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	f.record(sql, args)
	if strings.Contains(sql, "SELECT id FROM users WHERE clerk_id") {
		id, ok := f.users[args[0].(string)]
		if !ok {
			return fakeRow{err: pgx.ErrNoRows}
		}
		return fakeRow{values: []any{id}}
	}
	if f.queryRow == nil {
		return fakeRow{err: fmt.Errorf("unexpected query: %s", sql)}
	}
	return f.queryRow(sql, args)
}

func (f *fakeDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	f.record(sql, args)
	if f.query == nil {
		return nil, fmt.Errorf("unexpected query: %s", sql)
	}
	return f.query(sql, args)
}

func (f *fakeDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.record(sql, args)
	if f.exec == nil {
		return pgconn.CommandTag{}, fmt.Errorf("unexpected exec: %s", sql)
	}
	return f.exec(sql, args)
}

func (f *fakeDB) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	f.mu.Lock()
	f.batches = append(f.batches, b)
	f.mu.Unlock()
	return &fakeBatchResults{remaining: b.Len(), err: f.batchErr}
}

// callsMatching counts statements containing fragment.
func (f *fakeDB) callsMatching(fragment string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if strings.Contains(c.sql, fragment) {
			n++
		}
	}
	return n
}

func (f *fakeDB) lastCall() dbCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

func tag(s string) func(string, []any) (pgconn.CommandTag, error) {
	return func(string, []any) (pgconn.CommandTag, error) {
		return pgconn.NewCommandTag(s), nil
	}
}

func TestResolveUserID(t *testing.T) {
	db := newFakeDB()

	id, err := resolveUserID(context.Background(), db, testClerkID)
	require.NoError(t, err)
	assert.Equal(t, testUserID, id)

	_, err = resolveUserID(context.Background(), db, "user_unknown")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCheckID(t *testing.T) {
	assert.NoError(t, checkID("outfit", testOutfit))
	for _, bad := range []string{"", "nope", "o-1", testOutfit + "0"} {
		assert.ErrorIs(t, checkID("outfit", bad), ErrNotFound, bad)
	}
}

func TestIsForeignKeyViolation(t *testing.T) {
	fk := fmt.Errorf("wrapped: %w", &pgconn.PgError{Code: "23503"})
	assert.True(t, isForeignKeyViolation(fk))
	assert.False(t, isForeignKeyViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isForeignKeyViolation(errors.New("boom")))
}
