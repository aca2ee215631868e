package state

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/fiware-datamodels/dmv/pkg/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store := NewSQLiteStore()
	require.NoError(t, store.Open(filepath.Join(t.TempDir(), "history", "dmv.db")))
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleReport(root string) *report.Report {
	r := report.New(root)
	r.AddValidSchema(filepath.Join(root, "Parking"), "Schema schema.json is valid")
	r.AddValidExample(filepath.Join(root, "Parking"), "example.json is valid")
	r.AddWarning(filepath.Join(root, "Street"), "does not include a Readme file README.md")
	r.AddError(filepath.Join(root, "Street"), "Example example.json is invalid: /: missing properties: 'id'")
	return r
}

func TestSQLiteStore_OpenMigrates(t *testing.T) {
	store := setupTestStore(t)

	version, err := store.GetMigrationVersion(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)
}

func TestSQLiteStore_OpenMemory(t *testing.T) {
	store := NewSQLiteStore()
	require.NoError(t, store.Open(":memory:"))
	defer func() { _ = store.Close() }()

	_, err := store.CreateScan(context.Background(), "/data/dataModels")
	assert.NoError(t, err)
}

func TestSQLiteStore_ScanRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	scan, err := store.CreateScan(ctx, "/data/dataModels")
	require.NoError(t, err)
	assert.Equal(t, ScanStatusRunning, scan.Status)

	rep := sampleReport("/data/dataModels")
	require.NoError(t, store.CompleteScan(ctx, scan.ID, ScanStatusFailed, rep, nil))

	got, err := store.GetScan(ctx, scan.ID)
	require.NoError(t, err)
	assert.Equal(t, ScanStatusFailed, got.Status)
	assert.Equal(t, "/data/dataModels", got.Root)
	require.NotNil(t, got.CompletedAt)
	assert.Equal(t, 1, got.ValidSchemas)
	assert.Equal(t, 1, got.ValidExamples)
	assert.Equal(t, 0, got.SupportedExamples)
	assert.Equal(t, 1, got.Warnings)
	assert.Equal(t, 1, got.Errors)
	assert.Empty(t, got.Error)

	msgs, err := store.GetMessages(ctx, scan.ID)
	require.NoError(t, err)

	entries := rep.Entries()
	require.Len(t, msgs, len(entries))
	for i, e := range entries {
		assert.Equal(t, i, msgs[i].Seq)
		assert.Equal(t, e.Kind, msgs[i].Kind)
		assert.Equal(t, e.Model, msgs[i].Model)
		assert.Equal(t, e.Message, msgs[i].Message)
	}
}

func TestSQLiteStore_AbortedScanKeepsError(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	scan, err := store.CreateScan(ctx, "/data")
	require.NoError(t, err)
	require.NoError(t, store.CompleteScan(ctx, scan.ID, ScanStatusAborted, nil, errors.New("Fail on Errors: x")))

	got, err := store.GetScan(ctx, scan.ID)
	require.NoError(t, err)
	assert.Equal(t, ScanStatusAborted, got.Status)
	assert.Equal(t, "Fail on Errors: x", got.Error)
}

func TestSQLiteStore_ListScans(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	var ids []string
	for i := 0; i < 3; i++ {
		scan, err := store.CreateScan(ctx, "/data")
		require.NoError(t, err)
		ids = append(ids, scan.ID)
	}

	scans, err := store.ListScans(ctx, 2)
	require.NoError(t, err)
	require.Len(t, scans, 2)
	assert.Equal(t, ids[2], scans[0].ID)
	assert.Equal(t, ids[1], scans[1].ID)

	all, err := store.ListScans(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestSQLiteStore_NotFound(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	_, err := store.GetScan(ctx, "missing")
	assert.ErrorIs(t, err, ErrScanNotFound)

	err = store.CompleteScan(ctx, "missing", ScanStatusPassed, nil, nil)
	assert.ErrorIs(t, err, ErrScanNotFound)

	msgs, err := store.GetMessages(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestSQLiteStore_NotOpened(t *testing.T) {
	store := NewSQLiteStore()
	ctx := context.Background()

	_, err := store.CreateScan(ctx, "/data")
	assert.Error(t, err)
	_, err = store.ListScans(ctx, 1)
	assert.Error(t, err)
	assert.NoError(t, store.Close())
}
