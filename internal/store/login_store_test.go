package store

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"signet/internal/domain"
	"signet/internal/logger"
)

func record(id string) domain.LoginRecord {
	return domain.LoginRecord{
		ID:        id,
		Method:    domain.LoginLocalKey,
		PubKey:    "pub-" + id,
		Secret:    "nsec-" + id,
		CreatedAt: time.Unix(1700000000, 0).UTC(),
	}
}

func TestLoginStoreStartsEmpty(t *testing.T) {
	s := OpenLoginStore(NewMemKV(), logger.Discard())

	assert.Empty(t, s.List())
	_, ok := s.Active()
	assert.False(t, ok)
}

func TestLoginStoreAddActivates(t *testing.T) {
	s := OpenLoginStore(NewMemKV(), logger.Discard())

	require.NoError(t, s.Add(record("a")))
	require.NoError(t, s.Add(record("b")))

	assert.Len(t, s.List(), 2)
	active, ok := s.Active()
	require.True(t, ok)
	assert.Equal(t, "b", active.ID)
}

func TestLoginStoreRemoveActivePromotesNext(t *testing.T) {
	s := OpenLoginStore(NewMemKV(), logger.Discard())
	require.NoError(t, s.Add(record("a")))
	require.NoError(t, s.Add(record("b")))

	require.NoError(t, s.RemoveActive())

	recs := s.List()
	require.Len(t, recs, 1)
	assert.Equal(t, "a", recs[0].ID)
	active, ok := s.Active()
	require.True(t, ok)
	assert.Equal(t, "a", active.ID)

	require.NoError(t, s.RemoveActive())
	assert.Empty(t, s.List())
	_, ok = s.Active()
	assert.False(t, ok)

	// Removing with nothing active is a no-op.
	require.NoError(t, s.RemoveActive())
}

func TestLoginStorePersistsAcrossOpen(t *testing.T) {
	kv := NewFileKV(filepath.Join(t.TempDir(), "state.json"))

	s := OpenLoginStore(kv, logger.Discard())
	require.NoError(t, s.Add(record("a")))
	require.NoError(t, s.Add(record("b")))

	reopened := OpenLoginStore(kv, logger.Discard())
	assert.Len(t, reopened.List(), 2)
	active, ok := reopened.Active()
	require.True(t, ok)
	assert.Equal(t, "b", active.ID)
	assert.Equal(t, "nsec-b", active.Secret)
}

func TestLoginStorePurge(t *testing.T) {
	kv := NewMemKV()
	s := OpenLoginStore(kv, logger.Discard())
	require.NoError(t, s.Add(record("a")))

	require.NoError(t, s.Purge())

	assert.Empty(t, s.List())
	_, ok, err := kv.Get(KeyLoginRecords)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLoginStoreReloadReplacesWholesale(t *testing.T) {
	kv := NewMemKV()
	s := OpenLoginStore(kv, logger.Discard())
	require.NoError(t, s.Add(record("a")))

	// Another writer replaces the durable state underneath us.
	next := loginState{Active: "c", Records: []domain.LoginRecord{record("b"), record("c")}}
	raw, err := json.Marshal(next)
	require.NoError(t, err)
	require.NoError(t, kv.Set(KeyLoginRecords, string(raw)))

	require.NoError(t, s.Reload())

	recs := s.List()
	require.Len(t, recs, 2)
	assert.Equal(t, "b", recs[0].ID)
	assert.Equal(t, "c", recs[1].ID)
	active, ok := s.Active()
	require.True(t, ok)
	assert.Equal(t, "c", active.ID)
}

func TestLoginStoreNotifiesSubscribers(t *testing.T) {
	s := OpenLoginStore(NewMemKV(), logger.Discard())

	var seen [][]domain.LoginRecord
	s.Subscribe(func(recs []domain.LoginRecord) {
		seen = append(seen, recs)
	})

	require.NoError(t, s.Add(record("a")))
	require.NoError(t, s.RemoveActive())

	require.Len(t, seen, 2)
	require.Len(t, seen[0], 1)
	assert.Equal(t, "a", seen[0][0].ID)
	assert.Empty(t, seen[1])
}

func TestLoginStoreUnreadableStateStartsEmpty(t *testing.T) {
	kv := NewMemKV()
	require.NoError(t, kv.Set(KeyLoginRecords, "not json"))

	s := OpenLoginStore(kv, logger.Discard())
	assert.Empty(t, s.List())
}
