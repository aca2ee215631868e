// Package report accumulates the outcome of a data model scan.
//
// A Report groups human-readable messages by root model, the first path
// segment under the scan root. Five independent maps are kept: warnings,
// errors, valid schemas, valid examples and examples supported by a live
// context broker. Appending never overwrites earlier messages and insertion
// order is preserved per root model.
//
// Reports are plain values threaded through the directory walk: each frame
// fills its own Report and the caller merges it into its own with Merge.
package report

import (
	"path/filepath"
	"strings"
)

// Kind identifies one of the five message maps.
type Kind string

// Message kinds, in reporting order.
const (
	KindValidSchema      Kind = "validSchemas"
	KindValidExample     Kind = "validExamples"
	KindSupportedExample Kind = "supportedExamples"
	KindWarning          Kind = "warnings"
	KindError            Kind = "errors"
)

// Kinds returns all message kinds in reporting order.
func Kinds() []Kind {
	return []Kind{KindValidSchema, KindValidExample, KindSupportedExample, KindWarning, KindError}
}

// Messages maps a root model name to its ordered messages.
type Messages map[string][]string

// Report holds the messages produced by a scan.
type Report struct {
	Root              string   `json:"-"`
	ValidSchemas      Messages `json:"validSchemas"`
	ValidExamples     Messages `json:"validExamples"`
	SupportedExamples Messages `json:"supportedExamples"`
	Warnings          Messages `json:"warnings"`
	Errors            Messages `json:"errors"`

	// order remembers the first-seen order of root models across all maps.
	order []string
}

// New creates an empty report for a scan rooted at root.
func New(root string) *Report {
	return &Report{
		Root:              filepath.Clean(root),
		ValidSchemas:      Messages{},
		ValidExamples:     Messages{},
		SupportedExamples: Messages{},
		Warnings:          Messages{},
		Errors:            Messages{},
	}
}

// Map returns the message map for a kind.
func (r *Report) Map(kind Kind) Messages {
	switch kind {
	case KindValidSchema:
		return r.ValidSchemas
	case KindValidExample:
		return r.ValidExamples
	case KindSupportedExample:
		return r.SupportedExamples
	case KindWarning:
		return r.Warnings
	case KindError:
		return r.Errors
	default:
		return nil
	}
}

// Add appends a message about path to the map of the given kind.
func (r *Report) Add(kind Kind, path, message string) {
	m := r.Map(kind)
	if m == nil {
		return
	}
	key := r.RootModel(path)
	r.track(key)
	m[key] = append(m[key], r.DisplayPath(path)+": "+message)
}

// AddWarning records a warning for path.
func (r *Report) AddWarning(path, message string) { r.Add(KindWarning, path, message) }

// AddError records an error for path.
func (r *Report) AddError(path, message string) { r.Add(KindError, path, message) }

// AddValidSchema records a successfully compiled schema for path.
func (r *Report) AddValidSchema(path, message string) { r.Add(KindValidSchema, path, message) }

// AddValidExample records an example that passed schema validation.
func (r *Report) AddValidExample(path, message string) { r.Add(KindValidExample, path, message) }

// AddSupportedExample records an example accepted by the context broker.
func (r *Report) AddSupportedExample(path, message string) {
	r.Add(KindSupportedExample, path, message)
}

// Merge appends every message of other after the messages already held.
func (r *Report) Merge(other *Report) {
	if other == nil {
		return
	}
	for _, key := range other.order {
		r.track(key)
	}
	for _, kind := range Kinds() {
		dst := r.Map(kind)
		for key, msgs := range other.Map(kind) {
			dst[key] = append(dst[key], msgs...)
		}
	}
}

// RootModel returns the name of the root model a path belongs to: the first
// path segment under the scan root, or the root's own name for the root.
func (r *Report) RootModel(path string) string {
	rel := r.relative(path)
	if rel == "." {
		return filepath.Base(r.Root)
	}
	if i := strings.IndexRune(rel, filepath.Separator); i > 0 {
		return rel[:i]
	}
	return rel
}

// DisplayPath renders path relative to the parent of the scan root.
func (r *Report) DisplayPath(path string) string {
	rel := r.relative(path)
	if rel == "." {
		return filepath.Base(r.Root)
	}
	return filepath.Join(filepath.Base(r.Root), rel)
}

func (r *Report) relative(path string) string {
	rel, err := filepath.Rel(r.Root, filepath.Clean(path))
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.Clean(path)
	}
	return rel
}

func (r *Report) track(key string) {
	for _, k := range r.order {
		if k == key {
			return
		}
	}
	r.order = append(r.order, key)
}

// Models returns the root models mentioned by the report in first-seen order.
func (r *Report) Models() []string {
	return append([]string(nil), r.order...)
}

// Count returns the number of messages of a kind.
func (r *Report) Count(kind Kind) int {
	n := 0
	for _, msgs := range r.Map(kind) {
		n += len(msgs)
	}
	return n
}

// HasErrors reports whether the errors map is non-empty.
func (r *Report) HasErrors() bool {
	return len(r.Errors) > 0
}

// Entry is one message of a report in flattened form.
type Entry struct {
	Kind    Kind
	Model   string
	Message string
}

// Entries flattens the report in reporting order: by kind, then by root
// model in first-seen order, then by insertion order.
func (r *Report) Entries() []Entry {
	var entries []Entry
	for _, kind := range Kinds() {
		m := r.Map(kind)
		for _, model := range r.order {
			for _, msg := range m[model] {
				entries = append(entries, Entry{Kind: kind, Model: model, Message: msg})
			}
		}
	}
	return entries
}
