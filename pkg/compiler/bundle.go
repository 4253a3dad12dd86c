package compiler

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/tools/txtar"
	"gopkg.in/yaml.v3"

	"github.com/nuki-esphome/nuki-go/pkg/buildplan"
	"github.com/nuki-esphome/nuki-go/pkg/codegen"
	"github.com/nuki-esphome/nuki-go/pkg/inspect"
)

// Bundle file names.
const (
	FileResolved   = "resolved.yaml"
	FileEntities   = "entities.txt"
	FileSDKConfig  = "sdkconfig.defaults"
	FilePlatformIO = "platformio.ini"
	FileUnit       = codegen.FileName
	FileReport     = "report.txt"
)

// ErrIncomplete is returned by Bundle for a Result that did not finish.
var ErrIncomplete = errors.New("compilation did not complete")

// Bundle packs the artifacts into a txtar archive. The security PIN is
// redacted in resolved.yaml.
func (r *Result) Bundle() (*txtar.Archive, error) {
	if r.Unit == nil || r.Plan == nil || r.Report == nil {
		return nil, ErrIncomplete
	}

	resolved, err := yaml.Marshal(r.Config.Redacted())
	if err != nil {
		return nil, fmt.Errorf("resolved config: %w", err)
	}

	ar := &txtar.Archive{
		Comment: []byte(fmt.Sprintf("run: %s\nschema: %s\nvariant: %s\n", r.RunID, r.Schema.Version(), r.Variant)),
	}
	add := func(name string, data []byte) {
		ar.Files = append(ar.Files, txtar.File{Name: name, Data: data})
	}

	add(FileResolved, resolved)
	add(FileEntities, []byte(inspect.NewFormatter().FormatDevice(r.Device)))
	if r.Variant == buildplan.VariantIDF {
		add(FileSDKConfig, []byte(r.Plan.SDKConfig()))
	}
	add(FilePlatformIO, []byte(r.Plan.PlatformIO()))
	add(FileUnit, r.Unit)
	add(FileReport, []byte(r.Report.String()))
	return ar, nil
}

// WriteBundle writes the archive to path.
func (r *Result) WriteBundle(path string) error {
	ar, err := r.Bundle()
	if err != nil {
		return err
	}
	return os.WriteFile(path, txtar.Format(ar), 0644)
}

// Extract writes every file of ar under dir.
func Extract(ar *txtar.Archive, dir string) error {
	for _, f := range ar.Files {
		if filepath.IsAbs(f.Name) || !filepath.IsLocal(f.Name) {
			return fmt.Errorf("bundle: unsafe file name %q", f.Name)
		}
		path := filepath.Join(dir, f.Name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(path, f.Data, 0644); err != nil {
			return err
		}
	}
	return nil
}

// File returns the named file of ar.
func File(ar *txtar.Archive, name string) ([]byte, bool) {
	for _, f := range ar.Files {
		if f.Name == name {
			return f.Data, true
		}
	}
	return nil, false
}

// Names lists the file names of ar in order.
func Names(ar *txtar.Archive) []string {
	out := make([]string, len(ar.Files))
	for i, f := range ar.Files {
		out[i] = f.Name
	}
	return out
}

