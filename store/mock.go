package store

import "github.com/alorle/chaos-stream-manager/domain"

// MockStore is a mock implementation of the store Interface for testing
type MockStore struct {
	SaveFunc   func(cfg StoredConfiguration) (StoredConfiguration, error)
	GetFunc    func(name string, protocol domain.Protocol) (StoredConfiguration, error)
	ListFunc   func() ([]StoredConfiguration, error)
	DeleteFunc func(name string, protocol domain.Protocol) (bool, error)
	CloseFunc  func() error
}

// Save implements Interface.Save
func (m *MockStore) Save(cfg StoredConfiguration) (StoredConfiguration, error) {
	if m.SaveFunc != nil {
		return m.SaveFunc(cfg)
	}
	return cfg, nil
}

// Get implements Interface.Get
func (m *MockStore) Get(name string, protocol domain.Protocol) (StoredConfiguration, error) {
	if m.GetFunc != nil {
		return m.GetFunc(name, protocol)
	}
	return StoredConfiguration{}, ErrNotFound
}

// List implements Interface.List
func (m *MockStore) List() ([]StoredConfiguration, error) {
	if m.ListFunc != nil {
		return m.ListFunc()
	}
	return nil, nil
}

// Delete implements Interface.Delete
func (m *MockStore) Delete(name string, protocol domain.Protocol) (bool, error) {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(name, protocol)
	}
	return false, nil
}

// Close implements Interface.Close
func (m *MockStore) Close() error {
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}
