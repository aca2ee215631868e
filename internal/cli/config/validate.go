package config

import (
	"fmt"
	"net/url"
	"os"
	"slices"
	"strings"

	sharedcfg "github.com/fiware-datamodels/dmv/internal/config"
	"github.com/fiware-datamodels/dmv/pkg/schema"
)

// Error reports an invalid configuration. The CLI prints usage for it.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Message)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Path) == "" {
		return &Error{Field: "path", Message: "path is required"}
	}

	for _, name := range c.WarningChecks {
		if !sharedcfg.IsKnownCheck(name) {
			return &Error{
				Field:   "warningChecks",
				Message: fmt.Sprintf("unknown check %q (known: %s)", name, strings.Join(sharedcfg.KnownChecks(), ", ")),
			}
		}
	}

	if !slices.Contains(sharedcfg.OutputModes(), c.Output) {
		return &Error{
			Field:   "output",
			Message: fmt.Sprintf("unknown output %q (use %s)", c.Output, strings.Join(sharedcfg.OutputModes(), ", ")),
		}
	}

	if _, err := schema.ParseDraft(c.SchemaDraft); err != nil {
		return &Error{Field: "schemaDraft", Message: err.Error()}
	}

	if c.ContextBroker {
		u, err := url.Parse(c.ContextBrokerURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return &Error{Field: "contextBrokerUrl", Message: fmt.Sprintf("invalid context broker url %q", c.ContextBrokerURL)}
		}
	}

	return nil
}

// ValidatePath checks that the scan path is an existing directory.
// Only commands that scan call it, so help and version work anywhere.
func (c *Config) ValidatePath() error {
	info, err := os.Stat(c.Path)
	if os.IsNotExist(err) {
		return &Error{Field: "path", Message: fmt.Sprintf("path %s does not exist", c.Path)}
	}
	if err != nil {
		return &Error{Field: "path", Message: err.Error()}
	}
	if !info.IsDir() {
		return &Error{Field: "path", Message: fmt.Sprintf("path %s is not a directory", c.Path)}
	}
	return nil
}
