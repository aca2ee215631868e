// Package state records validation scans in SQLite.
// It keeps one row per scan and every message the scan produced.
package state

import (
	"context"
	"errors"
	"time"

	"github.com/fiware-datamodels/dmv/pkg/report"
)

// ErrScanNotFound is returned when no scan has the requested id.
var ErrScanNotFound = errors.New("scan not found")

// ScanStatus is the outcome of a scan.
type ScanStatus string

// Scan statuses.
const (
	ScanStatusRunning ScanStatus = "running"
	ScanStatusPassed  ScanStatus = "passed"  // errors map empty
	ScanStatusFailed  ScanStatus = "failed"  // errors map not empty
	ScanStatusAborted ScanStatus = "aborted" // stopped by failWarnings, failErrors or a fatal error
)

// Scan is one recorded validation run.
type Scan struct {
	ID          string
	Root        string
	Status      ScanStatus
	StartedAt   time.Time
	CompletedAt *time.Time
	Error       string

	ValidSchemas      int
	ValidExamples     int
	SupportedExamples int
	Warnings          int
	Errors            int
}

// Message is one stored report message.
type Message struct {
	Seq     int
	Kind    report.Kind
	Model   string
	Message string
}

// Store persists scans.
type Store interface {
	CreateScan(ctx context.Context, root string) (*Scan, error)
	CompleteScan(ctx context.Context, id string, status ScanStatus, rep *report.Report, scanErr error) error
	GetScan(ctx context.Context, id string) (*Scan, error)
	ListScans(ctx context.Context, limit int) ([]*Scan, error)
	GetMessages(ctx context.Context, id string) ([]Message, error)
	Close() error
}
