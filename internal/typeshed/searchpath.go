package typeshed

import (
	"bufio"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/LayneInNL/dmf/internal/config"
)

// versionRange is one VERSIONS manifest line's gate: the module is
// usable for LanguageVersion in [Min, Max] (Max nil means unbounded).
type versionRange struct {
	Min config.LanguageVersion
	Max *config.LanguageVersion
}

func (r versionRange) allows(v config.LanguageVersion) bool {
	if v.Less(r.Min) {
		return false
	}
	if r.Max != nil && r.Max.Less(v) {
		return false
	}
	return true
}

// versionTable memoizes one stub root's parsed VERSIONS file, matching
// the original implementation's lru_cache(get_typeshed_versions) — the
// file is read once per process per root.
var versionTable = struct {
	mu    sync.Mutex
	byDir map[string]map[string]versionRange
}{byDir: map[string]map[string]versionRange{}}

func loadVersions(stubRoot string) (map[string]versionRange, error) {
	versionTable.mu.Lock()
	defer versionTable.mu.Unlock()
	if v, ok := versionTable.byDir[stubRoot]; ok {
		return v, nil
	}

	f, err := os.Open(filepath.Join(stubRoot, "VERSIONS"))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	out := map[string]versionRange{}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, ": ", 2)
		if len(parts) != 2 {
			continue
		}
		module, version := parts[0], parts[1]
		var minStr, maxStr string
		if i := strings.IndexByte(version, '-'); i >= 0 {
			minStr, maxStr = version[:i], version[i+1:]
		} else {
			minStr = version
		}
		min, err := parseVersion(minStr)
		if err != nil {
			continue
		}
		var max *config.LanguageVersion
		if maxStr != "" {
			if mv, err := parseVersion(maxStr); err == nil {
				max = &mv
			}
		}
		out[module] = versionRange{Min: min, Max: max}
	}
	versionTable.byDir[stubRoot] = out
	return out, sc.Err()
}

func parseVersion(s string) (config.LanguageVersion, error) {
	parts := strings.SplitN(s, ".", 2)
	if len(parts) != 2 {
		return config.LanguageVersion{}, strconv.ErrSyntax
	}
	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return config.LanguageVersion{}, err
	}
	minor, err := strconv.Atoi(parts[1])
	if err != nil {
		return config.LanguageVersion{}, err
	}
	return config.LanguageVersion{Major: major, Minor: minor}, nil
}

// findStub resolves a dotted module path to an absolute .pyi path under
// stubRoot, honoring PEP 561 module-resolution order #3 (typeshed's own
// stdlib stubs) — the only order this model's single-stub-root supports,
// matching the original implementation's explicit narrowing. Returns
// ok=false (never an error) for any module not present or version-gated
// out, so callers degrade to Any uniformly.
func findStub(stubRoot string, modulePath string, target config.LanguageVersion) (string, bool) {
	if stubRoot == "" || modulePath == "" {
		return "", false
	}
	parts := strings.Split(modulePath, ".")

	versions, err := loadVersions(stubRoot)
	if err == nil {
		if vr, ok := versions[parts[0]]; ok && !vr.allows(target) {
			return "", false
		}
	}

	return findStubInDir(stubRoot, parts)
}

func findStubInDir(dir string, parts []string) (string, bool) {
	if len(parts) == 0 {
		initPath := filepath.Join(dir, "__init__.pyi")
		if fileExists(initPath) {
			return initPath, true
		}
		return "", false
	}
	if len(parts) == 1 {
		leaf := filepath.Join(dir, parts[0]+".pyi")
		if fileExists(leaf) {
			return leaf, true
		}
	}
	next := filepath.Join(dir, parts[0])
	if dirExists(next) {
		return findStubInDir(next, parts[1:])
	}
	return "", false
}

func fileExists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && !st.IsDir()
}

func dirExists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && st.IsDir()
}
