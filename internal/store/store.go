package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"

	"pulseboard/internal/domain"
)

// schemaVersion invalidates the whole cache when the stored layout changes.
const schemaVersion = 1

// Bucket names
var (
	bucketEngineers   = []byte("engineers")
	bucketProjects    = []byte("projects")
	bucketAssignments = []byte("assignments")
	bucketMeta        = []byte("meta")
)

// DashboardStore caches tracker data in BoltDB so the dashboard renders
// instantly on startup and survives the server being unreachable.
type DashboardStore struct {
	db *bolt.DB
	mu sync.RWMutex // Protects memory cache

	// In-memory cache for hot-path reads (promoted on access)
	cache map[string][]byte
}

func NewDashboardStore(baseCacheDir, serverURL string) (*DashboardStore, error) {
	if baseCacheDir == "" {
		// Memory-only mode (no persistence)
		return &DashboardStore{cache: make(map[string][]byte)}, nil
	}

	dir := baseCacheDir
	if serverURL != "" {
		dir = filepath.Join(baseCacheDir, hashServerURL(serverURL))
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(dir, "pulseboard.db")
	db, err := bolt.Open(dbPath, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketEngineers, bucketProjects, bucketAssignments, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	st := &DashboardStore{db: db, cache: make(map[string][]byte)}

	// Data written under a different layout cannot be trusted; wipe it.
	var stored int
	if !st.get(bucketMeta, "schema", &stored) || stored != schemaVersion {
		st.InvalidateAll()
		if err := st.set(bucketMeta, "schema", schemaVersion); err != nil {
			db.Close()
			return nil, err
		}
	}

	return st, nil
}

func hashServerURL(serverURL string) string {
	normalized := strings.TrimRight(strings.ToLower(serverURL), "/")
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:6])
}

func (s *DashboardStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// === Generic helpers ===

func (s *DashboardStore) get(bucket []byte, key string, dest interface{}) bool {
	cacheKey := string(bucket) + ":" + key

	// Check memory cache first
	s.mu.RLock()
	if data, ok := s.cache[cacheKey]; ok {
		s.mu.RUnlock()
		return json.Unmarshal(data, dest) == nil
	}
	s.mu.RUnlock()

	if s.db == nil {
		return false
	}

	// Read from BoltDB
	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})

	if data == nil {
		return false
	}

	// Promote to memory cache
	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	return json.Unmarshal(data, dest) == nil
}

func (s *DashboardStore) set(bucket []byte, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	cacheKey := string(bucket) + ":" + key

	// Update memory cache
	s.mu.Lock()
	s.cache[cacheKey] = data
	s.mu.Unlock()

	if s.db == nil {
		return nil // Memory-only mode
	}

	// Write to BoltDB
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		return b.Put([]byte(key), data)
	})
}

func (s *DashboardStore) delete(bucket []byte, key string) {
	cacheKey := string(bucket) + ":" + key

	s.mu.Lock()
	delete(s.cache, cacheKey)
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b != nil {
			b.Delete([]byte(key))
		}
		return nil
	})
}

// === Engineers ===

func (s *DashboardStore) GetEngineers() ([]domain.Engineer, bool) {
	var engineers []domain.Engineer
	ok := s.get(bucketEngineers, "list", &engineers)
	return engineers, ok
}

func (s *DashboardStore) SaveEngineers(engineers []domain.Engineer) error {
	return s.set(bucketEngineers, "list", engineers)
}

// === Projects ===

func (s *DashboardStore) GetProjects() ([]domain.Project, bool) {
	var projects []domain.Project
	ok := s.get(bucketProjects, "list", &projects)
	return projects, ok
}

func (s *DashboardStore) SaveProjects(projects []domain.Project) error {
	return s.set(bucketProjects, "list", projects)
}

// === Assignments (keyed per project) ===

func (s *DashboardStore) GetAssignments(projectID string) ([]domain.Assignment, bool) {
	var assignments []domain.Assignment
	ok := s.get(bucketAssignments, "project:"+projectID, &assignments)
	return assignments, ok
}

func (s *DashboardStore) SaveAssignments(projectID string, assignments []domain.Assignment) error {
	return s.set(bucketAssignments, "project:"+projectID, assignments)
}

func (s *DashboardStore) GetAllAssignments() ([]domain.Assignment, bool) {
	var assignments []domain.Assignment
	ok := s.get(bucketAssignments, "all", &assignments)
	return assignments, ok
}

func (s *DashboardStore) SaveAllAssignments(assignments []domain.Assignment) error {
	return s.set(bucketAssignments, "all", assignments)
}

// === Watermark ===

// Watermark returns the server's lastSyncTime recorded at the most recent
// successful refresh. Used to decide whether a completed sync brought new data.
func (s *DashboardStore) Watermark() (time.Time, bool) {
	var ts time.Time
	if !s.get(bucketMeta, "watermark", &ts) {
		return time.Time{}, false
	}
	return ts, !ts.IsZero()
}

func (s *DashboardStore) SaveWatermark(ts time.Time) error {
	return s.set(bucketMeta, "watermark", ts)
}

// IsFresh reports whether cached data is at least as new as the given
// server sync time.
func (s *DashboardStore) IsFresh(serverTS time.Time) bool {
	stored, ok := s.Watermark()
	if !ok {
		return false
	}
	return !stored.Before(serverTS)
}

// === Invalidation ===

func (s *DashboardStore) InvalidateAssignments(projectID string) {
	s.delete(bucketAssignments, "project:"+projectID)
}

func (s *DashboardStore) InvalidateAll() {
	s.mu.Lock()
	s.cache = make(map[string][]byte)
	s.mu.Unlock()

	if s.db == nil {
		return
	}

	s.db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketEngineers, bucketProjects, bucketAssignments, bucketMeta} {
			b := tx.Bucket(bucket)
			if b == nil {
				continue
			}
			c := b.Cursor()
			for k, _ := c.First(); k != nil; k, _ = c.Next() {
				if err := b.Delete(k); err != nil {
					return err
				}
			}
		}
		return nil
	})
}
