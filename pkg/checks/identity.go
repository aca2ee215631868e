package checks

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fiware-datamodels/dmv/internal/config"
	"github.com/fiware-datamodels/dmv/pkg/schema"
)

func init() {
	Register(Def{
		ID:          config.CheckIDMatching,
		Order:       70,
		Description: "Schema $id mentions the model folder name",
		Check:       IDMatching,
	})
}

// IDMatching fails when schema.json declares an $id that does not mention
// the model folder name. Directories without a schema, or schemas without
// an $id, pass.
func IDMatching(ctx *Context, dir string) (bool, error) {
	file := filepath.Join(dir, "schema.json")
	if _, err := os.Stat(file); os.IsNotExist(err) {
		return true, nil
	}

	doc, err := schema.LoadFile(file)
	if err != nil {
		return false, err
	}
	obj, ok := doc.(map[string]any)
	if !ok {
		return true, nil
	}
	id, ok := obj["$id"].(string)
	if !ok || id == "" {
		return true, nil
	}

	name := filepath.Base(dir)
	if strings.Contains(id, name) {
		return true, nil
	}
	return false, ctx.warn(dir, fmt.Sprintf("schema $id %s does not match the model folder name %s", id, name))
}
