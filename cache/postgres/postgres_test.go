package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"

	"github.com/chigraph/chigraph/cache"
)

func TestStoreSave(t *testing.T) {
	mock, err := pgxmock.NewPool()
	assert.NoError(t, err)
	defer mock.Close()

	store := NewWithPool(mock, "module_cache")
	now := time.Now()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO module_cache")).
		WithArgs("a/b.c", []byte("bitcode"), now).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = store.Save(context.Background(), &cache.Entry{
		ModuleFullName: "a/b.c",
		Bitcode:        []byte("bitcode"),
		ModTime:        now,
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreRetrieveFresh(t *testing.T) {
	mock, err := pgxmock.NewPool()
	assert.NoError(t, err)
	defer mock.Close()

	store := NewWithPool(mock, "module_cache")
	modTime := time.Now()

	rows := pgxmock.NewRows([]string{"bitcode", "mod_time"}).AddRow([]byte("bitcode"), modTime)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT bitcode, mod_time FROM module_cache WHERE full_name = $1")).
		WithArgs("a/b.c").
		WillReturnRows(rows)

	entry, err := store.Retrieve(context.Background(), "a/b.c", modTime.Add(-time.Minute))
	assert.NoError(t, err)
	assert.NotNil(t, entry)
	assert.Equal(t, []byte("bitcode"), entry.Bitcode)
}

func TestStoreRetrieveStale(t *testing.T) {
	mock, err := pgxmock.NewPool()
	assert.NoError(t, err)
	defer mock.Close()

	store := NewWithPool(mock, "module_cache")
	modTime := time.Now()

	rows := pgxmock.NewRows([]string{"bitcode", "mod_time"}).AddRow([]byte("bitcode"), modTime)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT bitcode, mod_time FROM module_cache WHERE full_name = $1")).
		WithArgs("a/b.c").
		WillReturnRows(rows)

	entry, err := store.Retrieve(context.Background(), "a/b.c", modTime.Add(time.Minute))
	assert.NoError(t, err)
	assert.Nil(t, entry)
}

func TestStoreRetrieveMiss(t *testing.T) {
	mock, err := pgxmock.NewPool()
	assert.NoError(t, err)
	defer mock.Close()

	store := NewWithPool(mock, "module_cache")

	mock.ExpectQuery(regexp.QuoteMeta("SELECT bitcode, mod_time FROM module_cache WHERE full_name = $1")).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	entry, err := store.Retrieve(context.Background(), "missing", time.Time{})
	assert.NoError(t, err)
	assert.Nil(t, entry)
}

func TestStoreRetrieveDatabaseError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	assert.NoError(t, err)
	defer mock.Close()

	store := NewWithPool(mock, "module_cache")

	mock.ExpectQuery(regexp.QuoteMeta("SELECT bitcode, mod_time FROM module_cache WHERE full_name = $1")).
		WithArgs("a/b.c").
		WillReturnError(errors.New("connection reset"))

	entry, err := store.Retrieve(context.Background(), "a/b.c", time.Time{})
	assert.Error(t, err)
	assert.Nil(t, entry)
}

func TestStoreInvalidate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	assert.NoError(t, err)
	defer mock.Close()

	store := NewWithPool(mock, "module_cache")

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM module_cache WHERE full_name = $1")).
		WithArgs("a/b.c").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err = store.Invalidate(context.Background(), "a/b.c")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreInitSchema(t *testing.T) {
	mock, err := pgxmock.NewPool()
	assert.NoError(t, err)
	defer mock.Close()

	store := NewWithPool(mock, "module_cache")

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS module_cache")).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	err = store.InitSchema(context.Background())
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewWithPoolDefaultTableName(t *testing.T) {
	mock, err := pgxmock.NewPool()
	assert.NoError(t, err)
	defer mock.Close()

	store := NewWithPool(mock, "")
	assert.Equal(t, "module_cache", store.tableName)
}
