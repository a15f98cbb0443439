package source

import (
	"fmt"

	"github.com/Avi18971911/product-reindexer/pkg/reindex/model"
	"github.com/dgraph-io/ristretto"
)

// ReadCache is an identity map of the records read since the last release, keyed by id. A row
// whose id was already read resolves to the first instance, so a table without a unique id
// never sends two different bodies for one document in the same bulk request.
type ReadCache struct {
	cache *ristretto.Cache
}

func NewReadCache(maxRecords int64) (*ReadCache, error) {
	if maxRecords < 1 {
		maxRecords = 1
	}
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: maxRecords * 10,
		MaxCost:     maxRecords,
		BufferItems: 64,
		// every record costs 1 so MaxCost is a record count
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create read cache: %w", err)
	}
	return &ReadCache{cache: cache}, nil
}

// Resolve returns the cached instance for record.ID and true when the id was already read.
// Otherwise record is cached and returned with false.
func (rc *ReadCache) Resolve(record model.SourceRecord) (*model.SourceRecord, bool) {
	if cached, found := rc.Get(record.ID); found {
		return cached, true
	}
	instance := &record
	if rc.cache.Set(record.ID, instance, 1) {
		// Set is buffered; the next Resolve of this id must see it
		rc.cache.Wait()
	}
	return instance, false
}

func (rc *ReadCache) Get(id string) (*model.SourceRecord, bool) {
	cached, found := rc.cache.Get(id)
	if !found {
		return nil, false
	}
	typed, ok := cached.(*model.SourceRecord)
	return typed, ok
}

// Wait blocks until pending writes are visible to Get.
func (rc *ReadCache) Wait() {
	rc.cache.Wait()
}

func (rc *ReadCache) Clear() {
	rc.cache.Clear()
}

func (rc *ReadCache) Close() {
	rc.cache.Close()
}
