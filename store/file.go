package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/alorle/chaos-stream-manager/domain"
	"github.com/alorle/chaos-stream-manager/logging"
	"github.com/alorle/chaos-stream-manager/metrics"
)

// fileDocument is the on-disk layout. The slice order is the list order:
// most recently saved first.
type fileDocument struct {
	Configurations []StoredConfiguration `yaml:"configurations"`
}

// FileStore keeps all configurations in memory and rewrites one YAML file
// whole on every mutation. The mutex serializes read-modify-write within
// this process; the file itself assumes a single writing process.
type FileStore struct {
	mu      sync.RWMutex
	configs []StoredConfiguration
	path    string
	logger  *logging.Logger
}

// NewFileStore loads the configuration collection from path. A missing or
// unparseable file degrades to an empty store with a logged warning; it
// never prevents startup.
func NewFileStore(path string, logger *logging.Logger) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("store path cannot be empty")
	}

	s := &FileStore{path: path, logger: logger}

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Warn("Failed to read configuration store, starting empty", map[string]interface{}{
				"path":  path,
				"error": err.Error(),
			})
		}
		return s, nil
	}

	var doc fileDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		logger.Warn("Configuration store is corrupt, starting empty", map[string]interface{}{
			"path":  path,
			"error": err.Error(),
		})
		return s, nil
	}

	s.configs = doc.Configurations
	logger.LogStoreLoaded(len(s.configs), path)
	return s, nil
}

// Save upserts by (name, protocol) and moves the record to the front of the
// list. The whole collection is written through to disk before returning; a
// failed write is reported but the in-memory change stays.
func (s *FileStore) Save(cfg StoredConfiguration) (StoredConfiguration, error) {
	if err := cfg.Validate(); err != nil {
		return StoredConfiguration{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cfg.ID = uuid.New()
	cfg.SavedAt = time.Now().UTC()

	rest := make([]StoredConfiguration, 0, len(s.configs)+1)
	for _, existing := range s.configs {
		if existing.key() == cfg.key() {
			// Same logical configuration: keep its identity.
			cfg.ID = existing.ID
			continue
		}
		rest = append(rest, existing)
	}
	s.configs = append([]StoredConfiguration{cfg}, rest...)

	metrics.ConfigSaves.Inc()
	metrics.SetConfigurationsStored(len(s.configs))

	if err := s.persist(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Get returns the configuration under (name, protocol)
func (s *FileStore) Get(name string, protocol domain.Protocol) (StoredConfiguration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, cfg := range s.configs {
		if cfg.Name == name && cfg.Protocol == protocol {
			return cfg, nil
		}
	}
	return StoredConfiguration{}, ErrNotFound
}

// List returns a snapshot of all configurations, most recently saved first
func (s *FileStore) List() ([]StoredConfiguration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]StoredConfiguration, len(s.configs))
	copy(result, s.configs)
	return result, nil
}

// Delete removes the configuration under (name, protocol) and persists the
// removal. It reports whether the record existed.
func (s *FileStore) Delete(name string, protocol domain.Protocol) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, cfg := range s.configs {
		if cfg.Name == name && cfg.Protocol == protocol {
			s.configs = append(s.configs[:i], s.configs[i+1:]...)
			metrics.ConfigDeletes.Inc()
			metrics.SetConfigurationsStored(len(s.configs))
			if err := s.persist(); err != nil {
				return true, err
			}
			return true, nil
		}
	}
	return false, nil
}

// Close is a no-op for the file backend
func (s *FileStore) Close() error {
	return nil
}

// persist writes the entire collection to the store file. Callers hold the
// write lock.
func (s *FileStore) persist() error {
	doc := fileDocument{Configurations: s.configs}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		s.reportPersistFailure(err)
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		s.reportPersistFailure(err)
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	return nil
}

func (s *FileStore) reportPersistFailure(err error) {
	metrics.PersistFailures.Inc()
	s.logger.LogPersistFailure(s.path, err)
}
