package checks

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/fiware-datamodels/dmv/internal/config"
)

const docFileMessage = "does not include a documentation file named spec.md or introduction.md"

func init() {
	Register(Def{
		ID:          config.CheckDocFolderExist,
		Order:       20,
		Description: "Model folder includes a documentation folder",
		Check:       DocFolderExist,
	})
	Register(Def{
		ID:          config.CheckDocExist,
		Order:       30,
		Description: "Documentation folder includes spec.md or introduction.md",
		Check:       DocExist,
	})
	Register(Def{
		ID:          config.CheckDocValidLinks,
		Order:       80,
		Description: "Relative links in README.md and documentation files resolve",
		Check:       DocValidLinks,
	})
}

// DocFolderExist fails when none of the configured documentation folders
// exist under dir. When docExist is enabled too, the missing documentation
// file is reported as well.
func DocFolderExist(ctx *Context, dir string) (bool, error) {
	for _, name := range ctx.Options.DocFolders {
		if isDir(filepath.Join(dir, name)) {
			return true, nil
		}
	}

	if err := ctx.warn(dir, "does not include a documentation folder"); err != nil {
		return false, err
	}
	if ctx.Enabled(config.CheckDocExist) {
		if err := ctx.warn(dir, docFileMessage); err != nil {
			return false, err
		}
	}
	return false, nil
}

// DocExist fails unless some documentation folder holds a file whose name
// contains spec.md or introduction.md.
func DocExist(ctx *Context, dir string) (bool, error) {
	for _, name := range ctx.Options.DocFolders {
		docDir := filepath.Join(dir, name)
		if !isDir(docDir) {
			continue
		}
		for _, pattern := range []string{"spec.md", "introduction.md"} {
			ok, err := FileExists(docDir, pattern)
			if err != nil {
				return false, err
			}
			if ok {
				return true, nil
			}
		}
	}
	return false, ctx.warn(dir, docFileMessage)
}

// markdownLink matches inline markdown links and images: [text](target "title").
var markdownLink = regexp.MustCompile(`!?\[[^\]]*\]\(\s*<?([^)\s>]+)>?(?:\s+"[^"]*")?\s*\)`)

// DocValidLinks fails when README.md or a markdown file of a documentation
// folder links to a relative path that does not exist.
func DocValidLinks(ctx *Context, dir string) (bool, error) {
	files := []string{filepath.Join(dir, "README.md")}
	for _, name := range ctx.Options.DocFolders {
		matches, err := filepath.Glob(filepath.Join(dir, name, "*.md"))
		if err != nil {
			return false, err
		}
		files = append(files, matches...)
	}

	passed := true
	for _, file := range files {
		content, err := os.ReadFile(file) // #nosec G304 -- file comes from the scanned tree
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return false, fmt.Errorf("read %s: %w", file, err)
		}

		for _, target := range brokenLinks(filepath.Dir(file), string(content)) {
			passed = false
			rel, _ := filepath.Rel(dir, file)
			if err := ctx.warn(dir, fmt.Sprintf("documentation %s links to missing file %s", rel, target)); err != nil {
				return false, err
			}
		}
	}
	return passed, nil
}

// brokenLinks returns the relative link targets of a markdown document that
// do not exist on disk, resolved against base.
func brokenLinks(base, content string) []string {
	var broken []string
	for _, m := range markdownLink.FindAllStringSubmatch(content, -1) {
		target := m[1]
		if !isLocalLink(target) {
			continue
		}
		if i := strings.IndexAny(target, "#?"); i >= 0 {
			target = target[:i]
		}
		if target == "" {
			continue
		}
		decoded, err := url.PathUnescape(target)
		if err != nil {
			decoded = target
		}
		if _, err := os.Stat(filepath.Join(base, filepath.FromSlash(decoded))); err != nil {
			broken = append(broken, m[1])
		}
	}
	return broken
}

func isLocalLink(target string) bool {
	if strings.HasPrefix(target, "#") || strings.HasPrefix(target, "/") {
		return false
	}
	u, err := url.Parse(target)
	if err != nil {
		return false
	}
	return u.Scheme == "" && u.Host == ""
}
