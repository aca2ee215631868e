package checks

import (
	"path/filepath"
	"unicode"
	"unicode/utf8"

	"github.com/fiware-datamodels/dmv/internal/config"
)

// Patterns of the files a model directory is expected to hold.
const (
	ReadmePattern  = `README.md`
	SchemaPattern  = `^schema\.json`
	ExamplePattern = `^example(-\d+)?\.json`
)

func init() {
	Register(Def{
		ID:          config.CheckModelNameValid,
		Order:       10,
		Description: "Model folder names start with a capital letter",
		Check:       ModelNameValid,
	})
	Register(Def{
		ID:          config.CheckReadmeExist,
		Order:       40,
		Description: "Folder includes a README.md file",
		Root:        true,
		Check:       ReadmeExist,
	})
	Register(Def{
		ID:          config.CheckSchemaExist,
		Order:       50,
		Description: "Model folder includes a JSON Schema file schema.json",
		Check:       SchemaExist,
	})
	Register(Def{
		ID:          config.CheckExampleExist,
		Order:       60,
		Description: "Model folder includes one or more example(-N).json files",
		Check:       ExampleExist,
	})
}

// ModelNameValid fails when the folder name does not start with an
// uppercase letter.
func ModelNameValid(ctx *Context, dir string) (bool, error) {
	name := filepath.Base(dir)
	r, _ := utf8.DecodeRuneInString(name)
	if unicode.IsUpper(r) {
		return true, nil
	}
	return false, ctx.warn(dir, "Model folder names should start in capital letter")
}

// ReadmeExist fails when dir has no README.md.
func ReadmeExist(ctx *Context, dir string) (bool, error) {
	ok, err := FileExists(dir, ReadmePattern)
	if err != nil || ok {
		return ok, err
	}
	return false, ctx.warn(dir, "does not include a Readme file README.md")
}

// SchemaExist fails when a model directory has no schema.json. Category
// nodes are exempt.
func SchemaExist(ctx *Context, dir string) (bool, error) {
	return requireLeafFile(ctx, dir, SchemaPattern, "does not include a JSON Schema file schema.json")
}

// ExampleExist fails when a model directory has no example file. Category
// nodes are exempt.
func ExampleExist(ctx *Context, dir string) (bool, error) {
	return requireLeafFile(ctx, dir, ExamplePattern, `does not include a JSON Example file example(-\d+)?\.json`)
}

func requireLeafFile(ctx *Context, dir, pattern, message string) (bool, error) {
	ok, err := FileExists(dir, pattern)
	if err != nil || ok {
		return ok, err
	}
	category, err := ContainsModelFolders(dir, ctx.Options)
	if err != nil {
		return false, err
	}
	if category {
		ctx.Logger.Debug("category node exempt", "dir", dir, "pattern", pattern)
		return true, nil
	}
	return false, ctx.warn(dir, message)
}
