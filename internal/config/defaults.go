package config

// Default configuration values.
const (
	DefaultPath             = "."
	DefaultContextBrokerURL = "http://localhost:1026"
	DefaultSchemaDraft      = "draft-07"
	DefaultOutput           = "auto" // Auto-detect: TTY=text, non-TTY=markdown
)

// Check names accepted in warningChecks.
const (
	CheckModelNameValid = "modelNameValid"
	CheckDocFolderExist = "docFolderExist"
	CheckDocExist       = "docExist"
	CheckReadmeExist    = "readmeExist"
	CheckSchemaExist    = "schemaExist"
	CheckExampleExist   = "exampleExist"
	CheckIDMatching     = "idMatching"
	CheckDocValidLinks  = "docValidLinks"
)

// DefaultIgnoreFolders lists directories that never hold data models.
func DefaultIgnoreFolders() []string {
	return []string{
		"harvest",
		"harvesters",
		"auxiliary",
		"img",
		"validator",
		"specs",
		"node_modules",
		".git",
		"contrib",
	}
}

// DefaultDocFolders lists the names recognized as documentation folders.
func DefaultDocFolders() []string {
	return []string{"doc"}
}

// DefaultExternalSchemaFolders lists folders holding third party schemas.
func DefaultExternalSchemaFolders() []string {
	return []string{"externalSchema"}
}

// DefaultWarningChecks returns the checks enabled when none are configured.
func DefaultWarningChecks() []string {
	return []string{
		CheckModelNameValid,
		CheckDocFolderExist,
		CheckDocExist,
		CheckReadmeExist,
		CheckSchemaExist,
		CheckExampleExist,
	}
}

// KnownChecks returns every check name the validator understands.
func KnownChecks() []string {
	return []string{
		CheckModelNameValid,
		CheckDocFolderExist,
		CheckDocExist,
		CheckReadmeExist,
		CheckSchemaExist,
		CheckExampleExist,
		CheckIDMatching,
		CheckDocValidLinks,
	}
}

// SchemaDrafts lists the accepted values of schemaDraft.
func SchemaDrafts() []string {
	return []string{"draft-04", "draft-06", "draft-07", "2019-09", "2020-12"}
}

// OutputModes lists the accepted values of output.
func OutputModes() []string {
	return []string{"auto", "text", "markdown", "json"}
}
