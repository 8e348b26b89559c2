package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDefaults(t *testing.T) {
	require.NoError(t, Init(""))

	assert.Equal(t, ":8080", Addr)
	assert.Equal(t, "_posts", PostsDir)
	assert.Equal(t, "yaml", DefaultFormat)
	assert.Equal(t, "jekyll", GeneratorCommand)
}

func TestInitEnvOverride(t *testing.T) {
	t.Setenv("POSTCMS_SITE_ROOT", "/srv/blog")
	t.Setenv("POSTCMS_SITE_POSTS_DIR", "posts")
	t.Setenv("POSTCMS_GENERATOR_COMMAND", "hugo")

	require.NoError(t, Init(""))

	assert.Equal(t, "/srv/blog", SiteRoot)
	assert.Equal(t, "posts", PostsDir)
	assert.Equal(t, "hugo", GeneratorCommand)
	assert.Equal(t, filepath.Join("/srv/blog", "posts"), PostsPath())
}

func TestInitMissingExplicitConfigFile(t *testing.T) {
	err := Init(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}
