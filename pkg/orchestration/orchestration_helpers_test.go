package orchestration_test

import (
	"context"

	"github.com/illmade-knight/go-app-transfer/pkg/definitionstore"
	"github.com/illmade-knight/go-app-transfer/pkg/transfer"
	"github.com/stretchr/testify/mock"
)

// --- Shared collaborator mocks for the orchestrator tests ---

type MockDefinitionSource struct{ mock.Mock }

func (m *MockDefinitionSource) GetDefinition(ctx context.Context, workspace string, applicationID int, filter transfer.ComponentFilter, split bool) (transfer.FileCollection, error) {
	args := m.Called(ctx, workspace, applicationID, filter, split)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(transfer.FileCollection), args.Error(1)
}

func (m *MockDefinitionSource) Install(ctx context.Context, workspace string, files transfer.FileCollection, opts definitionstore.InstallOptions) error {
	return m.Called(ctx, workspace, files, opts).Error(0)
}

func (m *MockDefinitionSource) RemoveDefinition(ctx context.Context, workspace string, applicationID int) error {
	return m.Called(ctx, workspace, applicationID).Error(0)
}

type MockScopeResolver struct{ mock.Mock }

func (m *MockScopeResolver) Resolve(ctx context.Context, explicit string) (string, error) {
	args := m.Called(ctx, explicit)
	return args.String(0), args.Error(1)
}
