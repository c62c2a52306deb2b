package settings

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverrides_Lookup(t *testing.T) {
	o := NewOverrides(NewFile("testdata/settings.yml"))

	rec, ok := o.Lookup(12)
	require.True(t, ok)
	assert.Equal(t, FeedOverride{ProxyHost: "proxy.example.com", ProxyPort: 3128, SSLVerify: true}, rec)

	rec, ok = o.Lookup(20)
	require.True(t, ok)
	assert.False(t, rec.SSLVerify)

	_, ok = o.Lookup(999)
	assert.False(t, ok)
}

func TestOverrides_LookupFailures(t *testing.T) {
	{ // store failure is absence
		o := NewOverrides(&StoreMock{GetFunc: func(plugin, key string, dest interface{}) (bool, error) {
			return false, errors.New("db is down")
		}})
		_, ok := o.Lookup(1)
		assert.False(t, ok)
	}
	{ // malformed value is absence
		o := NewOverrides(&StoreMock{GetFunc: func(plugin, key string, dest interface{}) (bool, error) {
			return false, ErrDecode
		}})
		_, ok := o.Lookup(1)
		assert.False(t, ok)
	}
	{ // unusable record is absence
		s := NewFile(filepath.Join(t.TempDir(), "s.yml"))
		require.NoError(t, s.Set(PluginName, keyOptions, map[int64]FeedOverride{1: {UserAgent: "ua\nX-Injected: 1", SSLVerify: true}}))
		o := NewOverrides(s)
		_, ok := o.Lookup(1)
		assert.False(t, ok)
	}
}

func TestOverrides_LookupProxyWithoutPort(t *testing.T) {
	stored := FeedOverride{ProxyHost: "proxy.example.com", UserAgent: "custom", SSLVerify: true}
	o := NewOverrides(&StoreMock{GetFunc: func(plugin, key string, dest interface{}) (bool, error) {
		*(dest.(*map[int64]FeedOverride)) = map[int64]FeedOverride{5: stored}
		return true, nil
	}})

	rec, ok := o.Lookup(5)
	require.True(t, ok, "record with proxy host and no port is active")
	assert.Equal(t, stored, rec)
	assert.True(t, rec.Active())
}

func TestOverrides_SaveGet(t *testing.T) {
	o := NewOverrides(NewFile(filepath.Join(t.TempDir(), "s.yml")))

	rec, enabled, err := o.Get(7)
	require.NoError(t, err)
	assert.False(t, enabled)
	assert.Equal(t, DefaultFeedOverride(), rec)

	err = o.Save(7, true, FeedOverride{ProxyHost: "proxy.example.com", ProxyPort: 3128, SSLVerify: true})
	require.NoError(t, err)
	err = o.Save(3, true, FeedOverride{UserAgent: "ua", SSLVerify: true})
	require.NoError(t, err)

	rec, enabled, err = o.Get(7)
	require.NoError(t, err)
	assert.True(t, enabled)
	assert.Equal(t, FeedOverride{ProxyHost: "proxy.example.com", ProxyPort: 3128, SSLVerify: true}, rec)

	ids, err := o.EnabledFeeds()
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 7}, ids)

	{ // overwrite keeps single id
		err = o.Save(7, true, FeedOverride{CalcReferer: true, SSLVerify: true})
		require.NoError(t, err)
		ids, err = o.EnabledFeeds()
		require.NoError(t, err)
		assert.Equal(t, []int64{3, 7}, ids)
		rec, ok := o.Lookup(7)
		require.True(t, ok)
		assert.Equal(t, FeedOverride{CalcReferer: true, SSLVerify: true}, rec)
	}

	{ // invalid record rejected, nothing changed
		err = o.Save(8, true, FeedOverride{ProxyHost: "p", SSLVerify: true})
		require.ErrorIs(t, err, ErrInvalid)
		assert.EqualError(t, err, `invalid override for feed 8: proxy port required for proxy host "p"`)
		ids, err = o.EnabledFeeds()
		require.NoError(t, err)
		assert.Equal(t, []int64{3, 7}, ids)
	}

	{ // disable removes record and id
		err = o.Save(7, false, FeedOverride{})
		require.NoError(t, err)
		ids, err = o.EnabledFeeds()
		require.NoError(t, err)
		assert.Equal(t, []int64{3}, ids)
		_, ok := o.Lookup(7)
		assert.False(t, ok)
		_, enabled, err = o.Get(7)
		require.NoError(t, err)
		assert.False(t, enabled)
	}
}

func TestOverrides_SaveStoreError(t *testing.T) {
	s := &StoreMock{
		GetFunc: func(plugin, key string, dest interface{}) (bool, error) {
			return false, errors.New("io error")
		},
		SetFunc: func(plugin, key string, value interface{}) error {
			return nil
		},
	}
	o := NewOverrides(s)
	err := o.Save(1, true, FeedOverride{UserAgent: "ua", SSLVerify: true})
	require.Error(t, err)
	assert.Equal(t, 0, len(s.SetCalls()), "nothing written on read failure")
}

func TestOverrides_SaveMalformed(t *testing.T) {
	s := NewFile(filepath.Join(t.TempDir(), "s.yml"))
	require.NoError(t, s.Set(PluginName, keyEnabled, "not a list"))
	o := NewOverrides(s)

	require.NoError(t, o.Save(1, true, FeedOverride{UserAgent: "ua", SSLVerify: true}))
	ids, err := o.EnabledFeeds()
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, ids)
}

func TestOverrides_Prune(t *testing.T) {
	s := NewFile(filepath.Join(t.TempDir(), "s.yml"))
	o := NewOverrides(s)
	for _, id := range []int64{1, 2, 3} {
		require.NoError(t, o.Save(id, true, FeedOverride{UserAgent: "ua", SSLVerify: true}))
	}
	// orphan record without enabled id
	recs := map[int64]FeedOverride{}
	_, err := s.Get(PluginName, keyOptions, &recs)
	require.NoError(t, err)
	recs[9] = FeedOverride{UserAgent: "orphan", SSLVerify: true}
	require.NoError(t, s.Set(PluginName, keyOptions, recs))

	dir := &DirectoryMock{FeedExistsAndOwnedByFunc: func(ctx context.Context, feedID, userID int64) (bool, error) {
		return feedID != 2 && userID == 100, nil
	}}

	ids, err := o.Prune(context.Background(), dir, 100)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3}, ids)
	assert.Equal(t, 3, len(dir.FeedExistsAndOwnedByCalls()))
	assert.Equal(t, int64(100), dir.FeedExistsAndOwnedByCalls()[0].UserID)

	_, ok := o.Lookup(2)
	assert.False(t, ok, "pruned record removed")
	_, ok = o.Lookup(9)
	assert.False(t, ok, "orphan record removed")
	_, ok = o.Lookup(1)
	assert.True(t, ok)

	{ // another user owns nothing
		ids, err = o.Prune(context.Background(), dir, 200)
		require.NoError(t, err)
		assert.Empty(t, ids)
	}

	{ // directory failure
		require.NoError(t, o.Save(5, true, FeedOverride{UserAgent: "ua", SSLVerify: true}))
		failing := &DirectoryMock{FeedExistsAndOwnedByFunc: func(ctx context.Context, feedID, userID int64) (bool, error) {
			return false, errors.New("db error")
		}}
		_, err = o.Prune(context.Background(), failing, 100)
		require.EqualError(t, err, "can't check feed 5: db error")
		ids, err = o.EnabledFeeds()
		require.NoError(t, err)
		assert.Equal(t, []int64{5}, ids, "nothing pruned on failure")
	}
}
