package importers

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// ErrExternal is returned for bare module specifiers, which name packages
// rather than files.
var ErrExternal = errors.New("external module")

// Extensions are tried in order when a specifier does not name a file.
var Extensions = []string{".js", ".mjs"}

// FileImporter resolves module specifiers to files of the file system. It
// uses absolute paths of modules as their names.
type FileImporter struct {
	NameResolver func(cwd, name string) (string, error)
	WorkDir      string
	FileReader   func(string) (data []byte, uri string, err error)
}

// IsRelative reports whether specifier is a path rather than a package
// name.
func IsRelative(specifier string) bool {
	return strings.HasPrefix(specifier, "./") || strings.HasPrefix(specifier, "../") ||
		specifier == "." || specifier == ".." || filepath.IsAbs(specifier)
}

// Name returns the absolute path of the module named by specifier.
func (m *FileImporter) Name(specifier string) (string, error) {
	if specifier == "" {
		return "", errors.New("empty module specifier")
	}
	if m.NameResolver != nil {
		return m.NameResolver(m.WorkDir, specifier)
	}
	if !IsRelative(specifier) {
		return "", errors.Wrap(ErrExternal, specifier)
	}

	path := specifier
	if !filepath.IsAbs(path) {
		path = filepath.Join(m.WorkDir, path)
		if p, err := filepath.Abs(path); err == nil {
			path = p
		}
	}
	if fi, err := os.Stat(path); err == nil && !fi.IsDir() {
		return path, nil
	}
	for _, ext := range Extensions {
		if fi, err := os.Stat(path + ext); err == nil && !fi.IsDir() {
			return path + ext, nil
		}
	}
	return path, nil
}

// Import returns the content of the module path determined by Name.
func (m *FileImporter) Import(path string) (data []byte, url string, err error) {
	if path == "" {
		err = errors.New("invalid import call")
		return
	}
	if m.FileReader == nil {
		if data, err = os.ReadFile(path); err != nil {
			err = errors.Wrapf(err, "import %s", path)
			return
		}
		url = "file:" + path
		return
	}
	return m.FileReader(path)
}

// Fork returns an importer resolving relative to the directory of the
// module at path.
func (m *FileImporter) Fork(path string) *FileImporter {
	return &FileImporter{
		WorkDir:      filepath.Dir(path),
		FileReader:   m.FileReader,
		NameResolver: m.NameResolver,
	}
}
