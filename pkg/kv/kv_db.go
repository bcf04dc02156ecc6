package kv

import (
	"errors"
	"fmt"
	"time"

	"kmend/agriroute/pkg/datastructure"

	"github.com/cockroachdb/pebble"
)

var ErrGraphNotFound = errors.New("road graph not in store")

const graphKeyPrefix = "graph:"

// KVDB pebble-backed road graph store. Entries older than ttl are treated as missing.
type KVDB struct {
	db  *pebble.DB
	ttl time.Duration
	now func() time.Time
}

func NewKVDB(db *pebble.DB, ttl time.Duration) *KVDB {
	return &KVDB{db: db, ttl: ttl, now: time.Now}
}

func OpenKVDB(dir string, ttl time.Duration) (*KVDB, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("open pebble %s: %w", dir, err)
	}
	return NewKVDB(db, ttl), nil
}

func graphKey(key string) []byte {
	return []byte(graphKeyPrefix + key)
}

func (k *KVDB) SaveGraph(g *datastructure.RoadGraph) error {
	val, err := EncodeGraph(g)
	if err != nil {
		return fmt.Errorf("encode graph %s: %w", g.Key, err)
	}
	return k.db.Set(graphKey(g.Key), val, pebble.Sync)
}

// GetGraph returns ErrGraphNotFound for missing or expired entries. Expired and undecodable entries are deleted.
func (k *KVDB) GetGraph(key string) (*datastructure.RoadGraph, error) {
	val, closer, err := k.db.Get(graphKey(key))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, ErrGraphNotFound
	}
	if err != nil {
		return nil, err
	}
	g, err := DecodeGraph(val)
	closer.Close()
	if err != nil {
		// unreadable entries get rebuilt on the next miss
		_ = k.deleteGraph(key)
		return nil, fmt.Errorf("decode graph %s: %w", key, err)
	}

	if k.ttl > 0 && k.now().Sub(g.FetchedAt) > k.ttl {
		_ = k.deleteGraph(key)
		return nil, ErrGraphNotFound
	}
	return g, nil
}

func (k *KVDB) deleteGraph(key string) error {
	return k.db.Delete(graphKey(key), pebble.NoSync)
}

func (k *KVDB) Close() error {
	return k.db.Close()
}
