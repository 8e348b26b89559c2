package services

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"postcms/pkg/models"
)

func writePost(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(filepath.Join(dir, name)), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func post(layout, category, title string) string {
	return "---\nlayout: " + layout + "\ncategory: " + category + "\ntitle: " + title + "\n---\n\nbody\n"
}

func TestParsePostName(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		wantSlug string
		wantErr  bool
	}{
		{"valid", "2023-04-01-rust-guessing-game.md", "rust-guessing-game", false},
		{"no date prefix", "about.md", "", true},
		{"impossible date", "2023-02-30-leap.md", "", true},
		{"month out of range", "2023-13-01-bad.md", "", true},
		{"not markdown suffix handled by caller", "2023-04-01-post.markdown", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			date, slug, err := ParsePostName(tt.filename)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSlug, slug)
			assert.Equal(t, 2023, date.Year())
		})
	}
}

func TestSafeJoin(t *testing.T) {
	assert.Equal(t, filepath.Join("root", "sub", "a.md"), SafeJoin("root", "sub", "a.md"))
	assert.Empty(t, SafeJoin("root", "", "../escape.md"))
	assert.Empty(t, SafeJoin("root", "", "/etc/passwd"))
}

func TestCorpus_Posts(t *testing.T) {
	dir := t.TempDir()
	writePost(t, dir, "2023-01-15-older.md", post("post", "tutorials", "Older"))
	writePost(t, dir, "2024-06-01-newer.md", post("post", "snippets", "Newer"))
	writePost(t, dir, "2024-02-10-middle.md", post("guide", "tutorials", "Middle"))

	corpus := NewCorpus(dir, nil)
	posts, err := corpus.Posts()
	require.NoError(t, err)
	require.Len(t, posts, 3)

	// Newest first.
	assert.Equal(t, "newer", posts[0].Slug)
	assert.Equal(t, "middle", posts[1].Slug)
	assert.Equal(t, "older", posts[2].Slug)

	assert.Equal(t, "Newer", posts[0].Title)
	assert.Equal(t, "snippets", posts[0].Category)
	assert.Equal(t, "post", posts[0].Layout)
	assert.Empty(t, posts[0].Body, "listings must not carry bodies")
}

func TestCorpus_PostsEmptyAndMissingDir(t *testing.T) {
	corpus := NewCorpus(filepath.Join(t.TempDir(), "does-not-exist"), nil)
	posts, err := corpus.Posts()
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestCorpus_BrokenFrontMatterStillListed(t *testing.T) {
	dir := t.TempDir()
	writePost(t, dir, "2024-01-01-broken.md", "# no front matter at all\n")

	corpus := NewCorpus(dir, nil)
	posts, err := corpus.Posts()
	require.NoError(t, err)
	require.Len(t, posts, 1)

	assert.Equal(t, "broken", posts[0].Slug)
	assert.Equal(t, "broken", posts[0].Title)
	assert.Empty(t, posts[0].Layout)
}

func TestCorpus_ByCategoryAndCategories(t *testing.T) {
	dir := t.TempDir()
	writePost(t, dir, "2024-01-01-a.md", post("post", "tutorials", "A"))
	writePost(t, dir, "2024-01-02-b.md", post("post", "snippets", "B"))
	writePost(t, dir, "2024-01-03-c.md", post("post", "tutorials", "C"))

	corpus := NewCorpus(dir, nil)

	tutorials, err := corpus.ByCategory("tutorials")
	require.NoError(t, err)
	assert.Len(t, tutorials, 2)

	cats, err := corpus.Categories()
	require.NoError(t, err)
	assert.Equal(t, []string{"snippets", "tutorials"}, cats)
}

func TestCorpus_Get(t *testing.T) {
	dir := t.TempDir()
	writePost(t, dir, "2024-03-05-full.md",
		"---\nlayout: post\ncategory: tutorials\ntitle: Full\nrating: 5\n---\n\n# Heading\n\ncontent\n")

	corpus := NewCorpus(dir, nil)

	p, err := corpus.Get("2024-03-05-full.md")
	require.NoError(t, err)
	assert.Equal(t, "full", p.Slug)
	assert.Equal(t, "Full", p.Title)
	assert.Equal(t, FormatYAML, p.Format)
	assert.Equal(t, 5, p.Extra["rating"])
	assert.Contains(t, p.Body, "# Heading")
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), p.Date)

	_, err = corpus.Get("2024-03-05-missing.md")
	assert.ErrorIs(t, err, ErrPostNotFound)

	_, err = corpus.Get("../outside.md")
	assert.ErrorIs(t, err, ErrInvalidPath)

	_, err = corpus.Get("")
	assert.ErrorIs(t, err, ErrInvalidPath)

	_, err = corpus.Get("   ")
	assert.ErrorIs(t, err, ErrInvalidPath)
}

func TestCorpus_PostsReturnsCopy(t *testing.T) {
	dir := t.TempDir()
	writePost(t, dir, "2024-01-01-a.md", post("post", "tutorials", "A"))
	writePost(t, dir, "2024-01-02-b.md", post("post", "snippets", "B"))

	corpus := NewCorpus(dir, nil)
	posts, err := corpus.Posts()
	require.NoError(t, err)
	require.Len(t, posts, 2)

	// A caller mutating its listing must not reach the cache.
	posts[0].Title = "clobbered"
	posts = posts[:1]

	again, err := corpus.Posts()
	require.NoError(t, err)
	require.Len(t, again, 2)
	assert.Equal(t, "B", again[0].Title)
}

func TestCorpus_CacheInvalidation(t *testing.T) {
	dir := t.TempDir()
	writePost(t, dir, "2024-01-01-first.md", post("post", "tutorials", "First"))

	corpus := NewCorpus(dir, nil)
	posts, err := corpus.Posts()
	require.NoError(t, err)
	require.Len(t, posts, 1)

	writePost(t, dir, "2024-01-02-second.md", post("post", "tutorials", "Second"))

	posts, err = corpus.Posts()
	require.NoError(t, err)
	assert.Len(t, posts, 1, "listing is cached until invalidated")

	corpus.Invalidate()
	posts, err = corpus.Posts()
	require.NoError(t, err)
	assert.Len(t, posts, 2)
}

func TestCorpus_Create(t *testing.T) {
	dir := t.TempDir()
	corpus := NewCorpus(dir, nil)

	fm := models.FrontMatter{Layout: "post", Category: "tutorials", Title: "Hello"}
	date := time.Date(2024, 5, 20, 14, 30, 0, 0, time.UTC)

	p, err := corpus.Create(fm, "hello-world", date, "Some body.", FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-20-hello-world.md", p.Path)

	content, err := os.ReadFile(filepath.Join(dir, p.Path))
	require.NoError(t, err)

	got, body, format, err := ParseFrontMatter(content)
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, format)
	assert.Equal(t, "post", got.Layout)
	assert.Equal(t, "tutorials", got.Category)
	assert.Equal(t, "Some body.", body)

	// Posts are authored exactly once.
	_, err = corpus.Create(fm, "hello-world", date, "other", FormatYAML)
	assert.ErrorIs(t, err, ErrPostExists)
}

func TestCorpus_CreateRejectsBadInput(t *testing.T) {
	corpus := NewCorpus(t.TempDir(), nil)
	date := time.Now()

	_, err := corpus.Create(models.FrontMatter{Layout: "post", Category: "c"}, "Bad Slug!", date, "", FormatYAML)
	assert.Error(t, err)

	_, err = corpus.Create(models.FrontMatter{Layout: "post"}, "ok-slug", date, "", FormatYAML)
	assert.Error(t, err, "category is required")

	_, err = corpus.Create(models.FrontMatter{Category: "c"}, "ok-slug", date, "", FormatYAML)
	assert.Error(t, err, "layout is required")
}

func TestCorpus_CreateJSONWithBodyFails(t *testing.T) {
	dir := t.TempDir()
	corpus := NewCorpus(dir, nil)

	fm := models.FrontMatter{Layout: "post", Category: "tutorials"}
	_, err := corpus.Create(fm, "json-post", time.Now(), "This body matters.", FormatJSON)
	require.ErrorContains(t, err, "cannot carry a markdown body")

	// Nothing was written.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	// Without a body the JSON post round-trips.
	p, err := corpus.Create(fm, "json-post", time.Now(), "", FormatJSON)
	require.NoError(t, err)

	got, err := corpus.Get(p.Path)
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, got.Format)
	assert.Empty(t, got.Body)
}
