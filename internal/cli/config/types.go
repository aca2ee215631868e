// Package config provides configuration management for the dmv CLI.
//
// Shared defaults and check names live in internal/config; this package
// layers them with the YAML config file, DMV_* environment variables and
// command-line flags.
package config

import (
	sharedcfg "github.com/fiware-datamodels/dmv/internal/config"
)

// Config holds all CLI configuration options. Keys are camelCase in YAML
// and koanf, kebab-case as flags and upper snake case as DMV_* variables.
type Config struct {
	Path                   string   `koanf:"path" yaml:"path"`
	IgnoreFolders          []string `koanf:"ignoreFolders" yaml:"ignoreFolders"`
	DocFolders             []string `koanf:"docFolders" yaml:"docFolders"`
	ExternalSchemaFolders  []string `koanf:"externalSchemaFolders" yaml:"externalSchemaFolders"`
	WarningChecks          []string `koanf:"warningChecks" yaml:"warningChecks"`
	RecursiveScan          bool     `koanf:"recursiveScan" yaml:"recursiveScan"`
	LoadModelCommonSchemas bool     `koanf:"loadModelCommonSchemas" yaml:"loadModelCommonSchemas"`
	ResolveRemoteSchemas   bool     `koanf:"resolveRemoteSchemas" yaml:"resolveRemoteSchemas"`
	ValidateExamples       bool     `koanf:"validateExamples" yaml:"validateExamples"`
	ImportSchemas          []string `koanf:"importSchemas" yaml:"importSchemas"`
	SchemaDraft            string   `koanf:"schemaDraft" yaml:"schemaDraft"`

	ContextBroker     bool   `koanf:"contextBroker" yaml:"contextBroker"`
	ContextBrokerURL  string `koanf:"contextBrokerUrl" yaml:"contextBrokerUrl"`
	FiwareService     string `koanf:"fiwareService" yaml:"fiwareService"`
	FiwareServicePath string `koanf:"fiwareServicePath" yaml:"fiwareServicePath"`

	FailWarnings   bool `koanf:"failWarnings" yaml:"failWarnings"`
	FailErrors     bool `koanf:"failErrors" yaml:"failErrors"`
	IgnoreWarnings bool `koanf:"ignoreWarnings" yaml:"ignoreWarnings"`

	Output  string `koanf:"output" yaml:"output"`
	Verbose bool   `koanf:"verbose" yaml:"verbose"`
	History string `koanf:"history" yaml:"history"`
}

// Default configuration values.
const (
	DefaultPath             = sharedcfg.DefaultPath
	DefaultContextBrokerURL = sharedcfg.DefaultContextBrokerURL
	DefaultSchemaDraft      = sharedcfg.DefaultSchemaDraft
	DefaultOutput           = sharedcfg.DefaultOutput // Auto-detect: TTY=text, non-TTY=markdown
)

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() *Config {
	return &Config{
		Path:                   DefaultPath,
		IgnoreFolders:          sharedcfg.DefaultIgnoreFolders(),
		DocFolders:             sharedcfg.DefaultDocFolders(),
		ExternalSchemaFolders:  sharedcfg.DefaultExternalSchemaFolders(),
		WarningChecks:          sharedcfg.DefaultWarningChecks(),
		RecursiveScan:          true,
		LoadModelCommonSchemas: true,
		ValidateExamples:       true,
		ImportSchemas:          []string{},
		SchemaDraft:            DefaultSchemaDraft,
		ContextBrokerURL:       DefaultContextBrokerURL,
		Output:                 DefaultOutput,
	}
}

// defaultsMap is DefaultConfig keyed the way koanf stores it.
func defaultsMap() map[string]any {
	d := DefaultConfig()
	return map[string]any{
		"path":                   d.Path,
		"ignoreFolders":          d.IgnoreFolders,
		"docFolders":             d.DocFolders,
		"externalSchemaFolders":  d.ExternalSchemaFolders,
		"warningChecks":          d.WarningChecks,
		"recursiveScan":          d.RecursiveScan,
		"loadModelCommonSchemas": d.LoadModelCommonSchemas,
		"resolveRemoteSchemas":   d.ResolveRemoteSchemas,
		"validateExamples":       d.ValidateExamples,
		"importSchemas":          d.ImportSchemas,
		"schemaDraft":            d.SchemaDraft,
		"contextBroker":          d.ContextBroker,
		"contextBrokerUrl":       d.ContextBrokerURL,
		"fiwareService":          d.FiwareService,
		"fiwareServicePath":      d.FiwareServicePath,
		"failWarnings":           d.FailWarnings,
		"failErrors":             d.FailErrors,
		"ignoreWarnings":         d.IgnoreWarnings,
		"output":                 d.Output,
		"verbose":                d.Verbose,
		"history":                d.History,
	}
}
