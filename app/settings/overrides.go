package settings

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	log "github.com/go-pkgz/lgr"
)

//go:generate moq -out directory_mock.go -fmt goimports . Directory

// PluginName is the storage scope of all override records
const PluginName = "options_per_feed"

const (
	keyOptions = "options_feeds" // map of feed id to FeedOverride
	keyEnabled = "enabled_feeds" // list of feed ids with overrides enabled
)

// Directory tells if the feed still exists and belongs to the user
type Directory interface {
	FeedExistsAndOwnedBy(ctx context.Context, feedID, userID int64) (bool, error)
}

// Overrides provides typed access to per-feed records kept in the Store.
// Lookup is read-only and safe for concurrent use, mutations are serialized.
type Overrides struct {
	Store Store
	lock  sync.Mutex
}

// NewOverrides makes Overrides on top of the store
func NewOverrides(store Store) *Overrides {
	return &Overrides{Store: store}
}

// Lookup returns usable record for the feed. Missing, malformed or unusable value reported as absent.
func (o *Overrides) Lookup(feedID int64) (FeedOverride, bool) {
	recs := map[int64]FeedOverride{}
	found, err := o.Store.Get(PluginName, keyOptions, &recs)
	if err != nil {
		log.Printf("[WARN] can't read overrides for feed %d, %v", feedID, err)
		return FeedOverride{}, false
	}
	if !found {
		return FeedOverride{}, false
	}
	rec, ok := recs[feedID]
	if !ok {
		return FeedOverride{}, false
	}
	if err = rec.Validate(); err != nil {
		log.Printf("[WARN] invalid override for feed %d ignored, %v", feedID, err)
		return FeedOverride{}, false
	}
	return rec, true
}

// Get returns record and enabled flag for the feed, defaults if not enabled
func (o *Overrides) Get(feedID int64) (rec FeedOverride, enabled bool, err error) {
	recs, err := o.records()
	if err != nil {
		return FeedOverride{}, false, err
	}
	if rec, ok := recs[feedID]; ok {
		return rec, true, nil
	}
	return DefaultFeedOverride(), false, nil
}

// Save stores the record for enabled feed, or removes it if not enabled
func (o *Overrides) Save(feedID int64, enabled bool, rec FeedOverride) error {
	if enabled {
		rec = rec.normalize()
		if err := rec.Validate(); err != nil {
			return fmt.Errorf("%w for feed %d: %w", ErrInvalid, feedID, err)
		}
		if rec.ProxyHost != "" && rec.ProxyPort == 0 {
			return fmt.Errorf("%w for feed %d: proxy port required for proxy host %q", ErrInvalid, feedID, rec.ProxyHost)
		}
	}

	o.lock.Lock()
	defer o.lock.Unlock()

	recs, err := o.records()
	if err != nil {
		return err
	}
	ids, err := o.enabled()
	if err != nil {
		return err
	}

	if enabled {
		recs[feedID] = rec
		if !contains(ids, feedID) {
			ids = append(ids, feedID)
		}
		log.Printf("[INFO] override enabled for feed %d", feedID)
	} else {
		delete(recs, feedID)
		ids = without(ids, map[int64]bool{feedID: true})
		log.Printf("[INFO] override disabled for feed %d", feedID)
	}
	return o.store(recs, ids)
}

// EnabledFeeds returns ids of feeds with enabled overrides
func (o *Overrides) EnabledFeeds() ([]int64, error) {
	return o.enabled()
}

// Prune drops feeds not existing or not owned by the user from enabled list, with their records.
// Returns ids left enabled.
func (o *Overrides) Prune(ctx context.Context, dir Directory, userID int64) ([]int64, error) {
	o.lock.Lock()
	defer o.lock.Unlock()

	ids, err := o.enabled()
	if err != nil {
		return nil, err
	}
	recs, err := o.records()
	if err != nil {
		return nil, err
	}

	stale := map[int64]bool{}
	for _, id := range ids {
		ok, err := dir.FeedExistsAndOwnedBy(ctx, id, userID)
		if err != nil {
			return nil, fmt.Errorf("can't check feed %d: %w", id, err)
		}
		if !ok {
			stale[id] = true
		}
	}
	for id := range recs {
		if !contains(ids, id) {
			stale[id] = true // orphan record, not in the enabled list
		}
	}
	if len(stale) == 0 {
		return ids, nil
	}

	for id := range stale {
		delete(recs, id)
	}
	ids = without(ids, stale)
	log.Printf("[INFO] pruned %d stale feed overrides for user %d", len(stale), userID)
	if err = o.store(recs, ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// records loads all records, undecodable value treated as empty
func (o *Overrides) records() (map[int64]FeedOverride, error) {
	recs := map[int64]FeedOverride{}
	_, err := o.Store.Get(PluginName, keyOptions, &recs)
	if errors.Is(err, ErrDecode) {
		log.Printf("[WARN] malformed %s dropped, %v", keyOptions, err)
		return map[int64]FeedOverride{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("can't load %s: %w", keyOptions, err)
	}
	if recs == nil {
		recs = map[int64]FeedOverride{}
	}
	return recs, nil
}

// enabled loads enabled list, undecodable value treated as empty
func (o *Overrides) enabled() ([]int64, error) {
	var ids []int64
	_, err := o.Store.Get(PluginName, keyEnabled, &ids)
	if errors.Is(err, ErrDecode) {
		log.Printf("[WARN] malformed %s dropped, %v", keyEnabled, err)
		return []int64{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("can't load %s: %w", keyEnabled, err)
	}
	return ids, nil
}

func (o *Overrides) store(recs map[int64]FeedOverride, ids []int64) error {
	if ids == nil {
		ids = []int64{}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	if err := o.Store.Set(PluginName, keyOptions, recs); err != nil {
		return fmt.Errorf("can't store %s: %w", keyOptions, err)
	}
	if err := o.Store.Set(PluginName, keyEnabled, ids); err != nil {
		return fmt.Errorf("can't store %s: %w", keyEnabled, err)
	}
	return nil
}

func contains(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func without(ids []int64, drop map[int64]bool) []int64 {
	res := make([]int64, 0, len(ids))
	for _, v := range ids {
		if !drop[v] {
			res = append(res, v)
		}
	}
	return res
}
