package services

import (
	"errors"
	"os"
	"path"
	"path/filepath"
	"strings"

	"postcms/pkg/models"
)

// ErrScriptNotFound is returned when a custom_js identifier resolves to
// no bundle in the scripts directory.
var ErrScriptNotFound = errors.New("script bundle not found")

// Assets inventories the client-side script bundles posts can attach
// through the custom_js front-matter field.
type Assets struct {
	SiteRoot   string
	ScriptsDir string // relative to SiteRoot
}

// List returns the available script bundles, with the URL path the
// published site would serve them under.
func (a *Assets) List() ([]models.ScriptBundle, error) {
	dir := filepath.Join(a.SiteRoot, a.ScriptsDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var bundles []models.ScriptBundle
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".js") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		bundles = append(bundles, models.ScriptBundle{
			Name: strings.TrimSuffix(entry.Name(), ".js"),
			Path: filepath.ToSlash(filepath.Join(a.ScriptsDir, entry.Name())),
			URL:  "/" + path.Join(filepath.ToSlash(a.ScriptsDir), entry.Name()),
			Size: info.Size(),
		})
	}
	return bundles, nil
}

// Resolve maps a custom_js identifier to its bundle. The identifier may
// carry the .js extension or not.
func (a *Assets) Resolve(name string) (models.ScriptBundle, error) {
	name = strings.TrimSuffix(name, ".js")
	if name == "" {
		return models.ScriptBundle{}, ErrScriptNotFound
	}

	bundles, err := a.List()
	if err != nil {
		return models.ScriptBundle{}, err
	}
	for _, b := range bundles {
		if b.Name == name {
			return b, nil
		}
	}
	return models.ScriptBundle{}, ErrScriptNotFound
}
