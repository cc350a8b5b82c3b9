package middles

import (
	"sync"
	"time"
)

type item struct {
	value      string
	expiration time.Time
}

// NewVolatileStorage creates an in-memory implementation of Storage whose
// entries expire after ttl.
func NewVolatileStorage(ttl time.Duration) *VolatileStorage {
	return &VolatileStorage{
		lock:  new(sync.Mutex),
		data:  make(map[string]*item, 3),
		ttl:   ttl,
		clock: time.Now,
	}
}

// VolatileStorage is an in-memory implementation of Storage.
//
// Useful for tests and for embedding a Session outside of an HTTP request,
// where there is no cookie jar to persist into. Expired entries are purged
// lazily on access.
type VolatileStorage struct {
	lock  *sync.Mutex
	data  map[string]*item
	ttl   time.Duration
	clock func() time.Time
}

func (vs *VolatileStorage) Get(key string) (string, bool) {
	now := vs.clock()

	vs.lock.Lock()
	defer vs.lock.Unlock()

	item, exists := vs.data[key]

	// check item was in the storage
	if !exists {
		return "", false
	}

	// check item expiration and purge if necessary
	if now.After(item.expiration) {
		delete(vs.data, key)
		return "", false
	}

	return item.value, true
}

func (vs *VolatileStorage) Put(key, value string) {
	now := vs.clock()

	vs.lock.Lock()
	defer vs.lock.Unlock()

	vs.data[key] = &item{
		expiration: now.Add(vs.ttl),
		value:      value,
	}
}

func (vs *VolatileStorage) Remove(key string) {
	vs.lock.Lock()
	defer vs.lock.Unlock()

	delete(vs.data, key)
}
