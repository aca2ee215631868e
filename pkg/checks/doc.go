// Package checks provides the structural checks run on every data model
// directory.
//
// Each check inspects one directory for one property and records a warning
// on failure. Checks register themselves in init() and run in a fixed order:
//
//   - modelNameValid: model folder names start with a capital letter
//   - docFolderExist: a documentation folder exists
//   - docExist: the documentation folder holds spec.md or introduction.md
//   - readmeExist: a README.md file exists (also checked on the scan root)
//   - schemaExist: a schema.json file exists (not on category nodes)
//   - exampleExist: an example(-N).json file exists (not on category nodes)
//   - idMatching: the schema $id mentions the model folder name
//   - docValidLinks: relative links in the documentation resolve
//
// File name checks use unanchored regular expressions: "spec.md" also
// matches "my-spec.md" and "specxmd". This loose matching is intentional.
//
// ExampleSupported is not a registered warning check; it pushes examples to
// a live context broker and records errors.
package checks
