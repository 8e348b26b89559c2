package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssets_List(t *testing.T) {
	root := t.TempDir()
	scripts := filepath.Join(root, "assets", "js")
	require.NoError(t, os.MkdirAll(scripts, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(scripts, "quiz.js"), []byte("var q;"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(scripts, "notes.txt"), []byte("x"), 0o644))

	a := &Assets{SiteRoot: root, ScriptsDir: filepath.Join("assets", "js")}

	bundles, err := a.List()
	require.NoError(t, err)
	require.Len(t, bundles, 1, "only .js files are bundles")

	assert.Equal(t, "quiz", bundles[0].Name)
	assert.Equal(t, "/assets/js/quiz.js", bundles[0].URL)
	assert.Equal(t, int64(6), bundles[0].Size)
}

func TestAssets_ListMissingDir(t *testing.T) {
	a := &Assets{SiteRoot: t.TempDir(), ScriptsDir: "assets/js"}

	bundles, err := a.List()
	require.NoError(t, err)
	assert.Empty(t, bundles)
}

func TestAssets_Resolve(t *testing.T) {
	root := t.TempDir()
	scripts := filepath.Join(root, "js")
	require.NoError(t, os.MkdirAll(scripts, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(scripts, "graph.js"), []byte("//"), 0o644))

	a := &Assets{SiteRoot: root, ScriptsDir: "js"}

	b, err := a.Resolve("graph")
	require.NoError(t, err)
	assert.Equal(t, "graph", b.Name)

	// custom_js may name the bundle with or without the extension.
	b, err = a.Resolve("graph.js")
	require.NoError(t, err)
	assert.Equal(t, "graph", b.Name)

	_, err = a.Resolve("missing")
	assert.ErrorIs(t, err, ErrScriptNotFound)

	_, err = a.Resolve("")
	assert.ErrorIs(t, err, ErrScriptNotFound)
}
