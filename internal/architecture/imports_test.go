package architecture_test

import (
	"fmt"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"testing"
)

// Each layer lists the internal packages it must never import. Lower layers see only pkg/
// and domain/.
var boundaries = []struct {
	layer      string
	disallowed []string
}{
	{"internal/pkg/", []string{"internal/domain/", "internal/data/", "internal/modules/", "internal/platform/", "internal/services/", "internal/http/", "internal/app/", "internal/observability/"}},
	{"internal/domain/", []string{"internal/data/", "internal/modules/", "internal/platform/", "internal/services/", "internal/http/", "internal/app/"}},
	{"internal/modules/", []string{"internal/data/", "internal/platform/", "internal/services/", "internal/http/", "internal/app/"}},
	{"internal/platform/", []string{"internal/data/", "internal/modules/", "internal/services/", "internal/http/", "internal/app/"}},
	{"internal/data/", []string{"internal/modules/", "internal/platform/", "internal/services/", "internal/http/", "internal/app/"}},
	{"internal/services/", []string{"internal/http/", "internal/app/", "internal/observability/"}},
	{"internal/http/", []string{"internal/app/", "internal/data/db"}},
}

func TestImportBoundaries(t *testing.T) {
	root := moduleRoot(t)
	modulePath := modulePathOf(t, root)

	fset := token.NewFileSet()
	var violations []string

	walkErr := filepath.WalkDir(filepath.Join(root, "internal"), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".go") {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		disallowed := disallowedFor(rel)
		if len(disallowed) == 0 {
			return nil
		}
		f, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
		if err != nil {
			return err
		}
		for _, spec := range f.Imports {
			imp, err := strconv.Unquote(spec.Path.Value)
			if err != nil || !strings.HasPrefix(imp, modulePath+"/") {
				continue
			}
			local := strings.TrimPrefix(imp, modulePath+"/")
			for _, bad := range disallowed {
				if strings.HasPrefix(local+"/", bad) || strings.HasPrefix(local, bad) {
					violations = append(violations, fmt.Sprintf("- %s imports %q (disallowed: %q)", rel, imp, bad))
					break
				}
			}
		}
		return nil
	})
	if walkErr != nil {
		t.Fatalf("walk internal/: %v", walkErr)
	}
	if len(violations) > 0 {
		t.Fatal("import boundary violations:\n" + strings.Join(violations, "\n"))
	}
}

func disallowedFor(rel string) []string {
	// Test helpers may reach across layers.
	if strings.HasSuffix(rel, "_test.go") {
		return nil
	}
	for _, b := range boundaries {
		if strings.HasPrefix(rel, b.layer) {
			return b.disallowed
		}
	}
	return nil
}

// moduleRoot is two levels above this file.
func moduleRoot(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("cannot locate test file")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}

func modulePathOf(t *testing.T, root string) string {
	t.Helper()
	raw, err := os.ReadFile(filepath.Join(root, "go.mod"))
	if err != nil {
		t.Fatalf("read go.mod: %v", err)
	}
	for _, line := range strings.Split(string(raw), "\n") {
		if rest, ok := strings.CutPrefix(strings.TrimSpace(line), "module "); ok {
			return strings.TrimSpace(rest)
		}
	}
	t.Fatalf("no module line in go.mod")
	return ""
}
