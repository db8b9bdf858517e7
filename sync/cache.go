// ABOUTME: Badger-backed cache of the last successful remote event fetch
// ABOUTME: Lets the agenda render stale remote events while Google is unreachable
package sync

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v3"
)

// defaultCacheTTL bounds how stale a cached remote list may get before it is
// dropped entirely.
const defaultCacheTTL = 24 * time.Hour

// EventCache persists the most recent ListEvents result per user.
type EventCache struct {
	db *badger.DB
}

// OpenEventCache opens (or creates) the cache at dir.
func OpenEventCache(dir string) (*EventCache, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open event cache: %w", err)
	}
	return &EventCache{db: db}, nil
}

func (c *EventCache) Close() error {
	return c.db.Close()
}

func cacheKey(userID string) []byte {
	return []byte("remote-events/" + userID)
}

// Put replaces the cached remote list for a user.
func (c *EventCache) Put(userID string, events []RemoteEvent) error {
	data, err := json.Marshal(events)
	if err != nil {
		return err
	}

	return c.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry(cacheKey(userID), data).WithTTL(defaultCacheTTL)
		return txn.SetEntry(entry)
	})
}

// Get returns the cached remote list, reporting whether one exists.
func (c *EventCache) Get(userID string) ([]RemoteEvent, bool, error) {
	var events []RemoteEvent
	found := false

	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(cacheKey(userID))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			if err := json.Unmarshal(val, &events); err != nil {
				return err
			}
			found = true
			return nil
		})
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to read event cache: %w", err)
	}

	return events, found, nil
}
