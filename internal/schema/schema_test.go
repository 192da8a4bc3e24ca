package schema

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingExec struct {
	sql []string
	err error
}

func (r *recordingExec) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	r.sql = append(r.sql, sql)
	return pgconn.CommandTag{}, r.err
}

func TestSchemaIsIdempotent(t *testing.T) {
	for _, stmt := range strings.Split(SQL, ";") {
		stmt = strings.TrimSpace(stmt)
		if !strings.HasPrefix(stmt, "CREATE") {
			continue
		}
		assert.Contains(t, stmt, "IF NOT EXISTS", stmt)
	}
}

func TestSchemaTables(t *testing.T) {
	for _, table := range []string{"users", "clothing_items", "outfits", "calendar_entries", "device_tokens"} {
		assert.Contains(t, SQL, "CREATE TABLE IF NOT EXISTS "+table+" (")
	}
}

func TestApply(t *testing.T) {
	db := &recordingExec{}
	require.NoError(t, Apply(context.Background(), db))
	assert.Equal(t, []string{SQL}, db.sql)

	db = &recordingExec{err: errors.New("permission denied")}
	assert.ErrorContains(t, Apply(context.Background(), db), "permission denied")
}
