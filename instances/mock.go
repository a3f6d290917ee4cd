package instances

import "context"

// MockClient is a mock implementation of the instances Interface for testing
// and for running without the external CLI configured.
type MockClient struct {
	ListFunc     func(ctx context.Context) ([]Instance, error)
	CreateFunc   func(ctx context.Context, name string, statefulMode bool) (Instance, error)
	DeleteFunc   func(ctx context.Context, name string) error
	DescribeFunc func(ctx context.Context, name string) (Instance, error)
}

// List implements Interface.List
func (m *MockClient) List(ctx context.Context) ([]Instance, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

// Create implements Interface.Create
func (m *MockClient) Create(ctx context.Context, name string, statefulMode bool) (Instance, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, name, statefulMode)
	}
	return Instance{Name: name, StatefulMode: statefulMode}, nil
}

// Delete implements Interface.Delete
func (m *MockClient) Delete(ctx context.Context, name string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, name)
	}
	return nil
}

// Describe implements Interface.Describe
func (m *MockClient) Describe(ctx context.Context, name string) (Instance, error) {
	if m.DescribeFunc != nil {
		return m.DescribeFunc(ctx, name)
	}
	return Instance{Name: name}, nil
}
