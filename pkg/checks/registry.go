package checks

import (
	"log/slog"
	"slices"
	"sort"
	"sync"

	"github.com/fiware-datamodels/dmv/pkg/report"
)

// globalRegistry is the single global registry for directory checks.
var globalRegistry = &Registry{
	checks: make(map[string]Def),
}

// Registry stores registered checks for discovery.
type Registry struct {
	mu     sync.RWMutex
	checks map[string]Def // keyed by ID
}

// Options holds the folder conventions the checks rely on.
type Options struct {
	IgnoreFolders         []string
	DocFolders            []string
	ExternalSchemaFolders []string
	WarningChecks         []string
}

// Context carries what a check needs besides the directory itself.
type Context struct {
	Options  Options
	Recorder *report.Recorder
	Logger   *slog.Logger
}

// NewContext creates a check context.
func NewContext(opts Options, rec *report.Recorder, logger *slog.Logger) *Context {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Context{Options: opts, Recorder: rec, Logger: logger}
}

// Enabled reports whether a check is listed in warningChecks.
func (c *Context) Enabled(id string) bool {
	return slices.Contains(c.Options.WarningChecks, id)
}

// warn records a warning for dir.
func (c *Context) warn(dir, message string) error {
	return c.Recorder.Warn(dir, message)
}

// Func inspects dir. It returns whether the check passed; the error is
// non-nil for filesystem failures, fatal parse errors and fail-fast aborts.
type Func func(ctx *Context, dir string) (bool, error)

// Def is a check definition.
type Def struct {
	ID          string // name used in warningChecks, e.g. "readmeExist"
	Order       int    // position in the fixed execution order
	Description string
	Root        bool // also applies to the scan root
	Check       Func
}

// Register adds a check to the global registry.
// Call this from init() functions.
func Register(def Def) {
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()
	globalRegistry.checks[def.ID] = def
}

// GetAll returns all registered checks in execution order.
func GetAll() []Def {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()

	defs := make([]Def, 0, len(globalRegistry.checks))
	for _, def := range globalRegistry.checks {
		defs = append(defs, def)
	}
	sort.Slice(defs, func(i, j int) bool {
		if defs[i].Order != defs[j].Order {
			return defs[i].Order < defs[j].Order
		}
		return defs[i].ID < defs[j].ID
	})
	return defs
}

// GetByID returns a check by its ID.
func GetByID(id string) (Def, bool) {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()
	def, ok := globalRegistry.checks[id]
	return def, ok
}

// Count returns the number of registered checks.
func Count() int {
	globalRegistry.mu.RLock()
	defer globalRegistry.mu.RUnlock()
	return len(globalRegistry.checks)
}

// Clear removes all registered checks. Used for testing.
func Clear() {
	globalRegistry.mu.Lock()
	defer globalRegistry.mu.Unlock()
	globalRegistry.checks = make(map[string]Def)
}

// Run executes every enabled check on dir in execution order. On the scan
// root only checks flagged Root run. It stops at the first error.
func Run(ctx *Context, dir string, isRoot bool) error {
	for _, def := range GetAll() {
		if !ctx.Enabled(def.ID) {
			continue
		}
		if isRoot && !def.Root {
			continue
		}
		ok, err := def.Check(ctx, dir)
		ctx.Logger.Debug("check", slog.String("check", def.ID), slog.String("dir", dir), slog.Bool("passed", ok))
		if err != nil {
			return err
		}
	}
	return nil
}
