package orchestration_test

import (
	"context"
	"errors"
	"testing"

	"github.com/illmade-knight/go-app-transfer/pkg/definitionstore"
	"github.com/illmade-knight/go-app-transfer/pkg/orchestration"
	"github.com/illmade-knight/go-app-transfer/pkg/transfer"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupImporterTest(t *testing.T) (*orchestration.Importer, *MockDefinitionSource, *MockScopeResolver) {
	mockSource := new(MockDefinitionSource)
	mockScopes := new(MockScopeResolver)
	importer, err := orchestration.NewImporter(mockSource, mockScopes, zerolog.Nop())
	require.NoError(t, err)
	return importer, mockSource, mockScopes
}

func TestNewImporter(t *testing.T) {
	t.Run("Nil Source", func(t *testing.T) {
		_, err := orchestration.NewImporter(nil, new(MockScopeResolver), zerolog.Nop())
		assert.Error(t, err)
	})

	t.Run("Nil Scope Resolver", func(t *testing.T) {
		_, err := orchestration.NewImporter(new(MockDefinitionSource), nil, zerolog.Nop())
		assert.Error(t, err)
	})
}

func TestImporter_Import(t *testing.T) {
	ctx := context.Background()

	t.Run("Single Document With Forced ID", func(t *testing.T) {
		importer, mockSource, mockScopes := setupImporterTest(t)
		mockScopes.On("Resolve", ctx, "").Return("DEV", nil).Once()

		forced := 205
		expectedFiles := transfer.FileCollection{{Name: transfer.DefaultDocumentName, Contents: "-- application: 101\nselect 1;"}}
		expectedOpts := definitionstore.InstallOptions{Overwrite: true, ForcedID: &forced}
		mockSource.On("Install", ctx, "DEV", expectedFiles, expectedOpts).Return(nil).Once()

		err := importer.Import(ctx, orchestration.ImportRequest{
			Payload:             []byte("-- application: 101\nselect 1;"),
			MediaType:           "application/sql",
			TargetApplicationID: &forced,
		})

		require.NoError(t, err)
		mockSource.AssertExpectations(t)
	})

	t.Run("Archive Payload Unpacked Before Install", func(t *testing.T) {
		importer, mockSource, mockScopes := setupImporterTest(t)
		mockScopes.On("Resolve", ctx, "").Return("DEV", nil).Once()

		collection := transfer.FileCollection{
			{Name: "install.sql", Contents: "-- application: 101\n"},
			{Name: "pages/page_00001.sql", Contents: "begin null; end;\n"},
		}
		blob, err := transfer.Pack(collection)
		require.NoError(t, err)

		expectedOpts := definitionstore.InstallOptions{Overwrite: true}
		mockSource.On("Install", ctx, "DEV", collection, expectedOpts).Return(nil).Once()

		err = importer.Import(ctx, orchestration.ImportRequest{
			Payload:   blob,
			MediaType: "application/zip",
		})

		require.NoError(t, err)
		mockSource.AssertExpectations(t)
	})

	t.Run("Explicit Workspace Threaded Through", func(t *testing.T) {
		importer, mockSource, mockScopes := setupImporterTest(t)
		mockScopes.On("Resolve", ctx, "QA").Return("QA", nil).Once()
		mockSource.On("Install", ctx, "QA", mock.Anything, mock.Anything).Return(nil).Once()

		err := importer.Import(ctx, orchestration.ImportRequest{
			Payload:   []byte("select 1;"),
			MediaType: "application/sql",
			Workspace: "QA",
		})

		require.NoError(t, err)
		mockSource.AssertExpectations(t)
	})

	t.Run("Scope Resolution Failure Is Fatal", func(t *testing.T) {
		importer, mockSource, mockScopes := setupImporterTest(t)
		mockScopes.On("Resolve", ctx, "").Return("", transfer.ErrScopeResolution).Once()

		err := importer.Import(ctx, orchestration.ImportRequest{
			Payload:   []byte("select 1;"),
			MediaType: "application/sql",
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, transfer.ErrScopeResolution)
		mockSource.AssertNotCalled(t, "Install", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Malformed Archive", func(t *testing.T) {
		importer, mockSource, mockScopes := setupImporterTest(t)
		mockScopes.On("Resolve", ctx, "").Return("DEV", nil).Once()

		err := importer.Import(ctx, orchestration.ImportRequest{
			Payload:   []byte("not an archive"),
			MediaType: "application/zip",
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, transfer.ErrArchiveFormat)
		mockSource.AssertNotCalled(t, "Install", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Non Text Single Document", func(t *testing.T) {
		importer, mockSource, mockScopes := setupImporterTest(t)
		mockScopes.On("Resolve", ctx, "").Return("DEV", nil).Once()

		err := importer.Import(ctx, orchestration.ImportRequest{
			Payload:   []byte{0xff, 0xfe, 0x00},
			MediaType: "application/sql",
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, transfer.ErrEncoding)
		mockSource.AssertNotCalled(t, "Install", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Store Diagnostic Surfaces Unchanged", func(t *testing.T) {
		importer, mockSource, mockScopes := setupImporterTest(t)
		mockScopes.On("Resolve", ctx, "").Return("DEV", nil).Once()
		installErr := errors.New("validation failed: page 3 references missing region")
		mockSource.On("Install", ctx, "DEV", mock.Anything, mock.Anything).Return(installErr).Once()

		err := importer.Import(ctx, orchestration.ImportRequest{
			Payload:   []byte("select 1;"),
			MediaType: "application/sql",
		})

		require.Error(t, err)
		assert.ErrorIs(t, err, installErr)
	})
}
