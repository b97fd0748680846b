package domains

import (
	"fmt"
	"go/parser"
	"go/token"
	"io/fs"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

const modulePath = "xrpl-gateway/go-backend"

func TestArchitecture_DomainPackagesDisallowAdapterCompositionInfraImports(t *testing.T) {
	domainsDir := currentDir(t)
	forbiddenPrefixes := []string{
		modulePath + "/internal/adapters",
		modulePath + "/internal/composition",
		modulePath + "/internal/bootstrap",
		modulePath + "/internal/platform",
		modulePath + "/internal/ledger/wsclient",
		modulePath + "/cmd",
	}

	violations := collectViolations(t, domainsDir, func(string) []string { return forbiddenPrefixes }, nil)
	if len(violations) > 0 {
		t.Fatalf("domain boundary violations detected:\n- %s", strings.Join(violations, "\n- "))
	}
}

// Results and inputs stay free of ledger sessions and key material; only the
// pure address codec is allowed for input validation.
func TestArchitecture_ModelAndPolicyStayTransportFree(t *testing.T) {
	domainsDir := currentDir(t)
	layered := map[string][]string{
		filepath.Join("gateway", "model"): {
			modulePath + "/internal/ledger",
			modulePath + "/internal/wallet",
			modulePath + "/internal/faucet",
			modulePath + "/internal/domains/gateway/usecase",
		},
		filepath.Join("gateway", "policy"): {
			modulePath + "/internal/ledger",
			modulePath + "/internal/wallet",
			modulePath + "/internal/faucet",
			modulePath + "/internal/domains/gateway/usecase",
		},
	}
	allowed := map[string]struct{}{
		modulePath + "/internal/ledger/addresscodec": {},
	}

	forbiddenFor := func(relPath string) []string {
		for layer, prefixes := range layered {
			if strings.HasPrefix(relPath, layer+string(filepath.Separator)) {
				return prefixes
			}
		}
		return nil
	}
	violations := collectViolations(t, domainsDir, forbiddenFor, allowed)
	if len(violations) > 0 {
		t.Fatalf("layer violations detected:\n- %s", strings.Join(violations, "\n- "))
	}
}

func currentDir(t *testing.T) string {
	t.Helper()
	_, currentFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("failed to resolve current test file path")
	}
	return filepath.Dir(currentFile)
}

func collectViolations(t *testing.T, root string, forbiddenFor func(relPath string) []string, allowed map[string]struct{}) []string {
	t.Helper()
	fset := token.NewFileSet()
	var violations []string
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		relPath, relErr := filepath.Rel(root, path)
		if relErr != nil {
			relPath = path
		}
		prefixes := forbiddenFor(relPath)
		if len(prefixes) == 0 {
			return nil
		}

		parsed, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
		if err != nil {
			return fmt.Errorf("parse file %s: %w", path, err)
		}
		for _, imp := range parsed.Imports {
			importPath := strings.Trim(imp.Path.Value, `"`)
			if _, ok := allowed[importPath]; ok {
				continue
			}
			for _, prefix := range prefixes {
				if !hasPrefixImport(importPath, prefix) {
					continue
				}
				pos := fset.Position(imp.Path.Pos())
				violations = append(violations, fmt.Sprintf("%s:%d imports %q", relPath, pos.Line, importPath))
				break
			}
		}
		return nil
	})
	if walkErr != nil {
		t.Fatalf("walk domains tree: %v", walkErr)
	}
	return violations
}

func hasPrefixImport(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}
