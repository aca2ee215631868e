package state

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteStore_CreateScanError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectExec("INSERT INTO scans").WillReturnError(assert.AnError)

	store := NewSQLiteStoreWithDB(db)
	_, err = store.CreateScan(context.Background(), "/data")

	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Contains(t, err.Error(), "failed to create scan")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteStore_CompleteScanRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO scan_messages").WillReturnError(assert.AnError)
	mock.ExpectRollback()

	store := NewSQLiteStoreWithDB(db)
	err = store.CompleteScan(context.Background(), "scan-1", ScanStatusFailed, sampleReport("/data"), nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to store scan message")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteStore_CompleteScanCommits(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE scans SET status").
		WithArgs("passed", sqlmock.AnyArg(), nil, 0, 0, 0, 0, 0, "scan-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	store := NewSQLiteStoreWithDB(db)
	require.NoError(t, store.CompleteScan(context.Background(), "scan-1", ScanStatusPassed, nil, nil))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteStore_ListScansQueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("SELECT (.+) FROM scans ORDER BY").WithArgs(5).WillReturnError(assert.AnError)

	store := NewSQLiteStoreWithDB(db)
	_, err = store.ListScans(context.Background(), 5)

	assert.ErrorIs(t, err, assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}
