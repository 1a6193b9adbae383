package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FilesystemLoader reads deck templates from <basePath>/templates/<name>.html.
type FilesystemLoader struct {
	basePath string // absolute, symlinks resolved
}

// NewFilesystemLoader checks that basePath is a readable directory.
func NewFilesystemLoader(basePath string) (*FilesystemLoader, error) {
	if basePath == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidBasePath)
	}
	dir, err := resolveDir(basePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBasePath, err)
	}
	return &FilesystemLoader{basePath: dir}, nil
}

func resolveDir(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	info, err := os.Stat(abs)
	switch {
	case os.IsNotExist(err):
		return "", fmt.Errorf("directory does not exist: %s", abs)
	case err != nil:
		return "", err
	case !info.IsDir():
		return "", fmt.Errorf("not a directory: %s", abs)
	}
	if _, err := os.ReadDir(abs); err != nil {
		return "", fmt.Errorf("cannot read directory: %v", err)
	}
	return abs, nil
}

// LoadTemplate returns the source of the named template.
func (f *FilesystemLoader) LoadTemplate(name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}

	file, err := f.contained(filepath.Join(f.basePath, "templates", name+templateExt))
	if err != nil {
		return "", err
	}

	content, err := os.ReadFile(file) // #nosec G304 -- contained in basePath
	if os.IsNotExist(err) {
		return "", fmt.Errorf("%w: %q", ErrTemplateNotFound, name)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAssetRead, err)
	}
	return string(content), nil
}

// contained resolves file and rejects it when a symlink leads outside
// basePath. A missing file keeps its unresolved path and fails on open.
func (f *FilesystemLoader) contained(file string) (string, error) {
	abs, err := filepath.Abs(file)
	if err != nil {
		return "", fmt.Errorf("%w: cannot resolve path", ErrPathTraversal)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	if !strings.HasPrefix(abs, f.basePath+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s escapes %s", ErrPathTraversal, file, f.basePath)
	}
	return abs, nil
}

var _ AssetLoader = (*FilesystemLoader)(nil)
