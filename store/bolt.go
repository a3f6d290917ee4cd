package store

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"

	"github.com/alorle/chaos-stream-manager/domain"
	"github.com/alorle/chaos-stream-manager/logging"
	"github.com/alorle/chaos-stream-manager/metrics"
)

const configurationsBucket = "configurations"

// BoltStore persists configurations in a BoltDB file, one record per
// (name, protocol) key. Unlike the file backend, writes are transactional
// per record; list order is reconstructed from the save timestamps.
type BoltStore struct {
	db     *bbolt.DB
	logger *logging.Logger
}

// NewBoltStore opens (or creates) the BoltDB file at path and ensures the
// configurations bucket exists.
func NewBoltStore(path string, logger *logging.Logger) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open store database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(configurationsBucket))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create configurations bucket: %w", err)
	}

	s := &BoltStore{db: db, logger: logger}
	if count, err := s.count(); err == nil {
		logger.LogStoreLoaded(count, path)
	}
	return s, nil
}

// Save upserts a configuration, preserving the record ID across upserts of
// the same key.
func (s *BoltStore) Save(cfg StoredConfiguration) (StoredConfiguration, error) {
	if err := cfg.Validate(); err != nil {
		return StoredConfiguration{}, err
	}

	cfg.ID = uuid.New()
	cfg.SavedAt = time.Now().UTC()

	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(configurationsBucket))
		key := []byte(cfg.key())

		if existing := bucket.Get(key); existing != nil {
			var prev StoredConfiguration
			if err := json.Unmarshal(existing, &prev); err == nil {
				cfg.ID = prev.ID
			}
		}

		data, err := json.Marshal(cfg)
		if err != nil {
			return err
		}
		return bucket.Put(key, data)
	})
	if err != nil {
		metrics.PersistFailures.Inc()
		s.logger.LogPersistFailure(s.db.Path(), err)
		return StoredConfiguration{}, fmt.Errorf("%w: %v", ErrPersist, err)
	}

	metrics.ConfigSaves.Inc()
	if count, err := s.count(); err == nil {
		metrics.SetConfigurationsStored(count)
	}
	return cfg, nil
}

// Get returns the configuration under (name, protocol)
func (s *BoltStore) Get(name string, protocol domain.Protocol) (StoredConfiguration, error) {
	var cfg StoredConfiguration
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(configurationsBucket))
		data := bucket.Get([]byte(name + "/" + string(protocol)))
		if data == nil {
			return ErrNotFound
		}
		return json.Unmarshal(data, &cfg)
	})
	if err != nil {
		return StoredConfiguration{}, err
	}
	return cfg, nil
}

// List returns all configurations, most recently saved first. Records that
// fail to decode are skipped with a warning rather than failing the listing.
func (s *BoltStore) List() ([]StoredConfiguration, error) {
	var result []StoredConfiguration
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(configurationsBucket))
		return bucket.ForEach(func(k, v []byte) error {
			var cfg StoredConfiguration
			if err := json.Unmarshal(v, &cfg); err != nil {
				s.logger.Warn("Skipping corrupt configuration record", map[string]interface{}{
					"key":   string(k),
					"error": err.Error(),
				})
				return nil
			}
			result = append(result, cfg)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].SavedAt.After(result[j].SavedAt)
	})
	return result, nil
}

// Delete removes the configuration under (name, protocol)
func (s *BoltStore) Delete(name string, protocol domain.Protocol) (bool, error) {
	existed := false
	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(configurationsBucket))
		key := []byte(name + "/" + string(protocol))
		if bucket.Get(key) == nil {
			return nil
		}
		existed = true
		return bucket.Delete(key)
	})
	if err != nil {
		metrics.PersistFailures.Inc()
		s.logger.LogPersistFailure(s.db.Path(), err)
		return existed, fmt.Errorf("%w: %v", ErrPersist, err)
	}

	if existed {
		metrics.ConfigDeletes.Inc()
		if count, err := s.count(); err == nil {
			metrics.SetConfigurationsStored(count)
		}
	}
	return existed, nil
}

// Close closes the underlying database file
func (s *BoltStore) Close() error {
	return s.db.Close()
}

func (s *BoltStore) count() (int, error) {
	count := 0
	err := s.db.View(func(tx *bbolt.Tx) error {
		count = tx.Bucket([]byte(configurationsBucket)).Stats().KeyN
		return nil
	})
	return count, err
}
