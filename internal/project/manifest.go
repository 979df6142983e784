package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/BurntSushi/toml"
)

// Manifest describes a parsed pybridge.toml.
type Manifest struct {
	// Path is the absolute location of the manifest file.
	Path string
	// Root is the directory containing the manifest.
	Root string

	// Name is [package].name, the Python extension module name.
	Name string
	// DeclsDir is [inputs].decls resolved against Root.
	DeclsDir string
	// OutDir is [gen].out resolved against Root.
	OutDir string
	// MaxDiagnostics is [limits].max_diagnostics; 0 means "use the default".
	MaxDiagnostics int
}

var (
	// ErrPackageSectionMissing indicates that [package] is missing in a manifest.
	ErrPackageSectionMissing = errors.New("missing [package]")
	// ErrPackageNameMissing indicates that [package].name is missing in a manifest.
	ErrPackageNameMissing = errors.New("missing [package].name")
	// ErrInputsDeclsMissing indicates that [inputs].decls is missing in a manifest.
	ErrInputsDeclsMissing = errors.New("missing [inputs].decls")
)

// Раскладка pybridge.toml:
//
//	[package]
//	name = "mypkg"
//
//	[inputs]
//	decls = "bindings"
//
//	[gen]
//	out = "gen"
//
//	[limits]
//	max_diagnostics = 200
type manifestFile struct {
	Package struct {
		Name string `toml:"name"`
	} `toml:"package"`
	Inputs struct {
		Decls string `toml:"decls"`
	} `toml:"inputs"`
	Gen struct {
		Out string `toml:"out"`
	} `toml:"gen"`
	Limits struct {
		MaxDiagnostics int `toml:"max_diagnostics"`
	} `toml:"limits"`
}

// defaultOutDir is used when [gen].out is not set.
const defaultOutDir = "gen"

// LoadManifest parses and validates a pybridge.toml at path.
func LoadManifest(path string) (*Manifest, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %q: %w", path, err)
	}

	var cfg manifestFile
	meta, err := toml.DecodeFile(abs, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}

	if !meta.IsDefined("package") {
		return nil, fmt.Errorf("%s: %w", path, ErrPackageSectionMissing)
	}
	name := strings.TrimSpace(cfg.Package.Name)
	if !meta.IsDefined("package", "name") || name == "" {
		return nil, fmt.Errorf("%s: %w", path, ErrPackageNameMissing)
	}
	if !isValidModuleName(name) {
		return nil, fmt.Errorf("%s: invalid [package].name %q", path, name)
	}

	decls := strings.TrimSpace(cfg.Inputs.Decls)
	if !meta.IsDefined("inputs", "decls") || decls == "" {
		return nil, fmt.Errorf("%s: %w", path, ErrInputsDeclsMissing)
	}

	out := strings.TrimSpace(cfg.Gen.Out)
	if out == "" {
		out = defaultOutDir
	}

	if cfg.Limits.MaxDiagnostics < 0 {
		return nil, fmt.Errorf("%s: [limits].max_diagnostics must be >= 0", path)
	}

	root := filepath.Dir(abs)
	m := &Manifest{
		Path:           abs,
		Root:           root,
		Name:           name,
		MaxDiagnostics: cfg.Limits.MaxDiagnostics,
	}
	if m.DeclsDir, err = resolveDir(path, root, "inputs", "decls", decls); err != nil {
		return nil, err
	}
	if m.OutDir, err = resolveDir(path, root, "gen", "out", out); err != nil {
		return nil, err
	}
	return m, nil
}

// LoadProject locates pybridge.toml from startDir and loads it.
func LoadProject(startDir string) (*Manifest, bool, error) {
	manifestPath, ok, err := FindPybridgeToml(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	m, err := LoadManifest(manifestPath)
	if err != nil {
		return nil, true, err
	}
	return m, true, nil
}

// resolveDir validates a manifest directory value and anchors it at root.
func resolveDir(manifestPath, root, section, key, value string) (string, error) {
	if filepath.IsAbs(value) {
		return "", fmt.Errorf("%s: invalid [%s].%s %q: must be relative", manifestPath, section, key, value)
	}
	clean := filepath.Clean(filepath.FromSlash(value))
	resolved := filepath.Join(root, clean)
	if !pathWithin(root, resolved) {
		return "", fmt.Errorf("%s: invalid [%s].%s %q: escapes project root", manifestPath, section, key, value)
	}
	return resolved, nil
}

// isValidModuleName accepts a dotted chain of Python identifiers, so both
// "mypkg" and "mypkg._native" work as extension module names.
func isValidModuleName(name string) bool {
	for _, part := range strings.Split(name, ".") {
		if !isIdentifier(part) {
			return false
		}
	}
	return true
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || unicode.IsLetter(r) {
			continue
		}
		if i > 0 && unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return true
}

func pathWithin(root, path string) bool {
	if root == "" || path == "" {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(os.PathSeparator))
}
