package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-redis/redismock/v8"
	"github.com/peterldowns/testy/assert"
	"github.com/peterldowns/testy/check"
)

func TestFileStore_SaveLoad(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "nested", "sessions")
	fs, err := NewFileStore(dir)
	assert.NoError(t, err)

	_, err = fs.Load(ctx, "draft")
	check.True(t, errors.Is(err, ErrNotFound))

	assert.NoError(t, fs.Save(ctx, "draft", []byte("first")))
	assert.NoError(t, fs.Save(ctx, "draft", []byte("second")))

	data, err := fs.Load(ctx, "draft")
	assert.NoError(t, err)
	check.Equal(t, "second", string(data))

	info, err := os.Stat(filepath.Join(dir, "draft"+snapshotExt))
	assert.NoError(t, err)
	check.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	entries, err := os.ReadDir(dir)
	assert.NoError(t, err)
	check.Equal(t, 1, len(entries))
}

func TestFileStore_Delete(t *testing.T) {
	ctx := context.Background()
	fs, err := NewFileStore(t.TempDir())
	assert.NoError(t, err)

	assert.NoError(t, fs.Save(ctx, "draft", []byte("x")))
	assert.NoError(t, fs.Delete(ctx, "draft"))
	check.NoError(t, fs.Delete(ctx, "draft"))

	_, err = fs.Load(ctx, "draft")
	check.True(t, errors.Is(err, ErrNotFound))
}

func TestFileStore_RejectsBadKeys(t *testing.T) {
	ctx := context.Background()
	fs, err := NewFileStore(t.TempDir())
	assert.NoError(t, err)

	for _, key := range []string{"", ".", "..", "../escape", `a\b`} {
		check.Error(t, fs.Save(ctx, key, []byte("x")))
		_, err := fs.Load(ctx, key)
		check.Error(t, err)
	}
}

func TestRedisStore_Save(t *testing.T) {
	db, mock := redismock.NewClientMock()
	rs := NewRedisStoreWithClient(db, "auctioneer:")

	mock.ExpectSet("auctioneer:draft", "payload", 0).SetVal("OK")
	check.NoError(t, rs.Save(context.Background(), "draft", []byte("payload")))

	mock.ExpectSet("auctioneer:draft", "payload", 0).SetErr(errors.New("connection refused"))
	check.Error(t, rs.Save(context.Background(), "draft", []byte("payload")))

	check.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_Load(t *testing.T) {
	db, mock := redismock.NewClientMock()
	rs := NewRedisStoreWithClient(db, "auctioneer:")

	mock.ExpectGet("auctioneer:draft").SetVal("payload")
	data, err := rs.Load(context.Background(), "draft")
	assert.NoError(t, err)
	check.Equal(t, "payload", string(data))

	mock.ExpectGet("auctioneer:missing").RedisNil()
	_, err = rs.Load(context.Background(), "missing")
	check.True(t, errors.Is(err, ErrNotFound))

	mock.ExpectGet("auctioneer:broken").SetErr(errors.New("timeout"))
	_, err = rs.Load(context.Background(), "broken")
	check.Error(t, err)
	check.False(t, errors.Is(err, ErrNotFound))

	check.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStore_Delete(t *testing.T) {
	db, mock := redismock.NewClientMock()
	rs := NewRedisStoreWithClient(db, "auctioneer:")

	mock.ExpectDel("auctioneer:draft").SetVal(1)
	check.NoError(t, rs.Delete(context.Background(), "draft"))
	check.NoError(t, mock.ExpectationsWereMet())
}
