// Package store persists named chaos-proxy configurations, keyed by
// (name, protocol).
package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/alorle/chaos-stream-manager/corruption"
	"github.com/alorle/chaos-stream-manager/domain"
)

// ErrNotFound is returned when no configuration exists under a key
var ErrNotFound = errors.New("configuration not found")

// ErrPersist wraps durable-write failures. The in-memory state is already
// mutated when this is returned; it is reported, not rolled back.
var ErrPersist = errors.New("failed to persist configurations")

// StoredConfiguration is one named corruption profile bound to a chaos-proxy
// instance. Identity is (Name, Protocol): the same name may exist once for
// hls and once for dash. Saves replace the whole record.
type StoredConfiguration struct {
	// ID is assigned on first save and survives upserts of the same key.
	ID          uuid.UUID               `json:"id" yaml:"id"`
	Name        string                  `json:"name" yaml:"name"`
	Protocol    domain.Protocol         `json:"protocol" yaml:"protocol"`
	InstanceURL string                  `json:"instanceUrl" yaml:"instance_url"`
	SourceURL   string                  `json:"sourceUrl" yaml:"source_url"`
	StreamType  domain.StreamType       `json:"streamType" yaml:"stream_type"`
	Description string                  `json:"description,omitempty" yaml:"description,omitempty"`
	Delays      []corruption.Delay      `json:"delays,omitempty" yaml:"delays,omitempty"`
	StatusCodes []corruption.StatusCode `json:"statusCodes,omitempty" yaml:"status_codes,omitempty"`
	Timeouts    []corruption.Timeout    `json:"timeouts,omitempty" yaml:"timeouts,omitempty"`
	Throttles   []corruption.Throttle   `json:"throttles,omitempty" yaml:"throttles,omitempty"`
	SavedAt     time.Time               `json:"savedAt" yaml:"saved_at"`
}

// Profile extracts the corruption profile used for proxy URL generation
func (c StoredConfiguration) Profile() corruption.Profile {
	return corruption.Profile{
		SourceURL:   c.SourceURL,
		Protocol:    c.Protocol,
		StreamType:  c.StreamType,
		Delays:      c.Delays,
		StatusCodes: c.StatusCodes,
		Timeouts:    c.Timeouts,
		Throttles:   c.Throttles,
	}
}

// Validate checks the configuration before it is allowed into the store.
// It returns a *domain.FieldError naming the offending field.
func (c StoredConfiguration) Validate() error {
	if !domain.IsValidConfigName(c.Name) {
		return domain.NewFieldError("name", fmt.Sprintf("%q must contain only letters, digits, underscores and hyphens", c.Name))
	}
	if _, err := domain.ParseProtocol(string(c.Protocol)); err != nil {
		return domain.NewFieldError("protocol", err.Error())
	}
	if c.SourceURL == "" {
		return domain.NewFieldError("sourceUrl", "source URL is required")
	}
	if c.InstanceURL == "" {
		return domain.NewFieldError("instanceUrl", "chaos proxy instance URL is required")
	}
	if _, err := domain.ParseStreamType(string(c.StreamType)); err != nil {
		return domain.NewFieldError("streamType", err.Error())
	}
	return c.Profile().Validate()
}

// key is the identity of a stored configuration
func (c StoredConfiguration) key() string {
	return c.Name + "/" + string(c.Protocol)
}

// Interface defines the contract for the configuration store
type Interface interface {
	// Save upserts a configuration by (name, protocol), replacing the whole
	// record, and persists the change before returning. The returned record
	// carries the assigned ID and save time.
	Save(cfg StoredConfiguration) (StoredConfiguration, error)

	// Get returns the configuration under (name, protocol) or ErrNotFound
	Get(name string, protocol domain.Protocol) (StoredConfiguration, error)

	// List returns all configurations, most recently saved first
	List() ([]StoredConfiguration, error)

	// Delete removes the configuration under (name, protocol) and reports
	// whether it existed
	Delete(name string, protocol domain.Protocol) (bool, error)

	// Close releases the durable resource
	Close() error
}
