package prefabs

import (
	"embed"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// DiskDir shadows the embedded files: a spec or script with the same
// relative path under it is read instead, which is what makes hot reload
// useful without a rebuild.
const DiskDir = "prefabs"

//go:embed *.yaml
var specFS embed.FS

//go:embed scripts/*.tengo
var scriptFS embed.FS

// bundle is one embedded directory with its disk override.
type bundle struct {
	files embed.FS
	sub   string
}

var (
	specs   = bundle{files: specFS}
	scripts = bundle{files: scriptFS, sub: "scripts"}
)

// rel normalizes "prefabs/scripts/x.tengo", "scripts/x.tengo" and
// "x.tengo" to the same bundle-relative path.
func (b bundle) rel(name string) string {
	s := path.Clean(filepath.ToSlash(name))
	s = strings.TrimPrefix(s, DiskDir+"/")
	if b.sub == "" {
		return s
	}
	return b.sub + "/" + strings.TrimPrefix(s, b.sub+"/")
}

func (b bundle) read(name string) ([]byte, error) {
	rel := b.rel(name)
	if data, err := os.ReadFile(filepath.Join(DiskDir, filepath.FromSlash(rel))); err == nil {
		return data, nil
	}
	return b.files.ReadFile(rel)
}

// Load reads a YAML spec, preferring the copy on disk.
func Load(name string) ([]byte, error) {
	return specs.read(name)
}

// LoadScript reads an enemy behaviour script, preferring the copy on disk.
func LoadScript(name string) ([]byte, error) {
	return scripts.read(name)
}
