package definitionstore_test

import (
	"context"
	"errors"
	"testing"

	"github.com/illmade-knight/go-app-transfer/pkg/definitionstore"
	"github.com/illmade-knight/go-app-transfer/pkg/transfer"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockWorkspaceDirectory struct{ mock.Mock }

func (m *MockWorkspaceDirectory) Assignments(ctx context.Context, caller string) ([]string, error) {
	args := m.Called(ctx, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func setupResolverTest(t *testing.T) (*definitionstore.DirectoryScopeResolver, *MockWorkspaceDirectory) {
	mockDirectory := new(MockWorkspaceDirectory)
	resolver, err := definitionstore.NewDirectoryScopeResolver(mockDirectory, "transfer-service", zerolog.Nop())
	require.NoError(t, err)
	return resolver, mockDirectory
}

func TestNewDirectoryScopeResolver(t *testing.T) {
	t.Run("Nil Directory", func(t *testing.T) {
		_, err := definitionstore.NewDirectoryScopeResolver(nil, "caller", zerolog.Nop())
		assert.Error(t, err)
	})

	t.Run("Empty Caller", func(t *testing.T) {
		_, err := definitionstore.NewDirectoryScopeResolver(new(MockWorkspaceDirectory), "", zerolog.Nop())
		assert.Error(t, err)
	})
}

func TestDirectoryScopeResolver_Resolve(t *testing.T) {
	ctx := context.Background()

	t.Run("Explicit Workspace Wins", func(t *testing.T) {
		resolver, mockDirectory := setupResolverTest(t)

		workspace, err := resolver.Resolve(ctx, "QA")

		require.NoError(t, err)
		assert.Equal(t, "QA", workspace)
		mockDirectory.AssertNotCalled(t, "Assignments", mock.Anything, mock.Anything)
	})

	t.Run("Default Is First Assignment", func(t *testing.T) {
		resolver, mockDirectory := setupResolverTest(t)
		mockDirectory.On("Assignments", ctx, "transfer-service").Return([]string{"DEV", "QA"}, nil).Once()

		workspace, err := resolver.Resolve(ctx, "")

		require.NoError(t, err)
		assert.Equal(t, "DEV", workspace)
		mockDirectory.AssertExpectations(t)
	})

	t.Run("Whitespace Explicit Falls Back", func(t *testing.T) {
		resolver, mockDirectory := setupResolverTest(t)
		mockDirectory.On("Assignments", ctx, "transfer-service").Return([]string{"DEV"}, nil).Once()

		workspace, err := resolver.Resolve(ctx, "   ")

		require.NoError(t, err)
		assert.Equal(t, "DEV", workspace)
	})

	t.Run("No Assignments", func(t *testing.T) {
		resolver, mockDirectory := setupResolverTest(t)
		mockDirectory.On("Assignments", ctx, "transfer-service").Return([]string{}, nil).Once()

		_, err := resolver.Resolve(ctx, "")

		require.Error(t, err)
		assert.ErrorIs(t, err, transfer.ErrScopeResolution)
	})

	t.Run("Directory Failure", func(t *testing.T) {
		resolver, mockDirectory := setupResolverTest(t)
		mockDirectory.On("Assignments", ctx, "transfer-service").Return(nil, errors.New("firestore unavailable")).Once()

		_, err := resolver.Resolve(ctx, "")

		require.Error(t, err)
		assert.ErrorIs(t, err, transfer.ErrScopeResolution)
	})
}
