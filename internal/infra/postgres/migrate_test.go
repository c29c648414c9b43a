package postgres

import (
	"context"
	"errors"
	"io/fs"
	"regexp"
	"testing"
	"testing/fstest"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aliskhannn/mindgrowth-bot/internal/infra/postgres/migrations"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock
}

func expectMigrationsTable(mock pgxmock.PgxPoolIface, applied ...string) {
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").
		WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))

	rows := pgxmock.NewRows([]string{"name"})
	for _, name := range applied {
		rows.AddRow(name)
	}
	mock.ExpectQuery("SELECT name FROM schema_migrations").WillReturnRows(rows)
}

func expectApplied(mock pgxmock.PgxPoolIface, name, body string) {
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(body)).WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))
	mock.ExpectExec("INSERT INTO schema_migrations").
		WithArgs(name).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()
}

func TestMigrate_AppliesPendingInOrder(t *testing.T) {
	mock := newMock(t)
	expectMigrationsTable(mock, "0001_a.sql")
	expectApplied(mock, "0002_b.sql", "CREATE TABLE b (id INT);")
	expectApplied(mock, "0003_c.sql", "CREATE TABLE c (id INT);")

	fsys := fstest.MapFS{
		"0002_b.sql": {Data: []byte("CREATE TABLE b (id INT);")},
		"0001_a.sql": {Data: []byte("CREATE TABLE a (id INT);")},
		"0003_c.sql": {Data: []byte("CREATE TABLE c (id INT);")},
		"README.md":  {Data: []byte("not a migration")},
	}

	err := Migrate(context.Background(), mock, NewTransactor(mock), fsys, zap.NewNop())

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrate_StopsOnFailure(t *testing.T) {
	mock := newMock(t)
	expectMigrationsTable(mock)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE broken (")).WillReturnError(errors.New("syntax error"))
	mock.ExpectRollback()

	fsys := fstest.MapFS{
		"0001_broken.sql": {Data: []byte("CREATE TABLE broken (")},
		"0002_next.sql":   {Data: []byte("CREATE TABLE next (id INT);")},
	}

	err := Migrate(context.Background(), mock, NewTransactor(mock), fsys, zap.NewNop())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "0001_broken.sql")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrate_RejectsEmptyFile(t *testing.T) {
	mock := newMock(t)
	expectMigrationsTable(mock)

	fsys := fstest.MapFS{"0001_empty.sql": {Data: []byte("  \n")}}

	err := Migrate(context.Background(), mock, NewTransactor(mock), fsys, zap.NewNop())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "is empty")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrations_Embedded(t *testing.T) {
	names, err := fs.Glob(migrations.FS, "*.sql")
	require.NoError(t, err)
	assert.Equal(t, []string{"0001_users.sql", "0002_progress_snapshots.sql"}, names)
}
