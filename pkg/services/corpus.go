package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/sirupsen/logrus"

	"postcms/pkg/models"
)

var (
	ErrPostExists   = errors.New("post already exists")
	ErrPostNotFound = errors.New("post not found")
	ErrInvalidPath  = errors.New("invalid post path")
)

var (
	postNameRe = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})-(.+)\.md$`)
	slugRe     = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
)

// ParsePostName splits a YYYY-MM-DD-slug.md filename into its publish
// date and slug. The date must be a real calendar date.
func ParsePostName(name string) (time.Time, string, error) {
	m := postNameRe.FindStringSubmatch(name)
	if m == nil {
		return time.Time{}, "", fmt.Errorf("filename %q does not match YYYY-MM-DD-slug.md", name)
	}
	date, err := time.Parse("2006-01-02", m[1])
	if err != nil {
		return time.Time{}, "", fmt.Errorf("filename %q: invalid date prefix: %w", name, err)
	}
	return date, m[2], nil
}

// SafeJoin joins target under root/sub, rejecting path traversal.
func SafeJoin(root, sub, target string) string {
	cleanTarget := filepath.Clean(target)
	if strings.Contains(cleanTarget, "..") || filepath.IsAbs(cleanTarget) {
		return ""
	}
	return filepath.Join(root, sub, cleanTarget)
}

// Corpus is the in-memory index over the posts directory. Listings are
// cached lazily behind a mutex and invalidated explicitly (or by the
// filesystem watcher); individual posts are always read from disk so a
// Get never serves stale content.
type Corpus struct {
	postsDir string
	git      *Git // optional, marks posts with uncommitted changes

	mu     sync.Mutex
	posts  []models.Post
	loaded bool
}

func NewCorpus(postsDir string, git *Git) *Corpus {
	return &Corpus{postsDir: postsDir, git: git}
}

// Dir returns the posts directory the corpus indexes.
func (c *Corpus) Dir() string {
	return c.postsDir
}

// Posts returns every post in the corpus, newest first. Entries are
// listing-weight: body content is omitted. A file whose front matter
// fails to parse still appears, with its slug as the title, so broken
// posts stay visible rather than silently vanishing.
func (c *Corpus) Posts() ([]models.Post, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loaded {
		return append([]models.Post(nil), c.posts...), nil
	}

	var dirty map[string]bool
	if c.git != nil {
		var err error
		if dirty, err = c.git.DirtyFiles(); err != nil {
			logrus.WithError(err).Debug("git status unavailable, dirty flags skipped")
		}
	}

	var posts []models.Post
	err := filepath.WalkDir(c.postsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}

		relPath, _ := filepath.Rel(c.postsDir, path)
		relPath = filepath.ToSlash(relPath)

		post := models.Post{Path: relPath}
		if c.git != nil && dirty != nil {
			// git status paths are relative to the repo root, not the
			// posts dir.
			if repoRel, err := filepath.Rel(c.git.Dir, path); err == nil {
				post.IsDirty = dirty[filepath.ToSlash(repoRel)]
			}
		}
		if date, slug, err := ParsePostName(d.Name()); err == nil {
			post.Date = date
			post.Slug = slug
		} else {
			post.Slug = strings.TrimSuffix(d.Name(), ".md")
		}

		if content, err := os.ReadFile(path); err == nil {
			if fm, _, format, err := ParseFrontMatter(content); err == nil {
				post.Title = fm.Title
				post.Layout = fm.Layout
				post.Category = fm.Category
				post.CustomJS = fm.CustomJS
				post.Format = format
			}
		}
		if post.Title == "" {
			post.Title = post.Slug
		}

		posts = append(posts, post)
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			c.posts, c.loaded = nil, true
			return nil, nil
		}
		return nil, fmt.Errorf("walk posts dir: %w", err)
	}

	sort.Slice(posts, func(i, j int) bool {
		if !posts[i].Date.Equal(posts[j].Date) {
			return posts[i].Date.After(posts[j].Date)
		}
		return posts[i].Path < posts[j].Path
	})

	c.posts = posts
	c.loaded = true
	// Callers get their own slice; the cached one stays private.
	return append([]models.Post(nil), c.posts...), nil
}

// ByCategory filters the listing down to one category.
func (c *Corpus) ByCategory(category string) ([]models.Post, error) {
	posts, err := c.Posts()
	if err != nil {
		return nil, err
	}
	var out []models.Post
	for _, p := range posts {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out, nil
}

// Categories returns the distinct category tags present, sorted.
func (c *Corpus) Categories() ([]string, error) {
	posts, err := c.Posts()
	if err != nil {
		return nil, err
	}
	seen := map[string]struct{}{}
	var cats []string
	for _, p := range posts {
		if p.Category == "" {
			continue
		}
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		cats = append(cats, p.Category)
	}
	sort.Strings(cats)
	return cats, nil
}

// Get reads one post in full, body included.
func (c *Corpus) Get(relPath string) (models.Post, error) {
	if strings.TrimSpace(relPath) == "" {
		return models.Post{}, ErrInvalidPath
	}
	fullPath := SafeJoin(c.postsDir, "", relPath)
	if fullPath == "" {
		return models.Post{}, ErrInvalidPath
	}

	content, err := os.ReadFile(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return models.Post{}, ErrPostNotFound
		}
		return models.Post{}, fmt.Errorf("read post: %w", err)
	}

	post := models.Post{Path: filepath.ToSlash(relPath)}
	if date, slug, err := ParsePostName(filepath.Base(relPath)); err == nil {
		post.Date = date
		post.Slug = slug
	} else {
		post.Slug = strings.TrimSuffix(filepath.Base(relPath), ".md")
	}

	fm, body, format, err := ParseFrontMatter(content)
	if err != nil {
		// Backward door for malformed posts: hand back the raw body so
		// the caller can still inspect the file.
		post.Body = string(content)
		post.Title = post.Slug
		return post, nil
	}

	post.Title = fm.Title
	if post.Title == "" {
		post.Title = post.Slug
	}
	post.Layout = fm.Layout
	post.Category = fm.Category
	post.CustomJS = fm.CustomJS
	post.Extra = fm.Extra
	post.Body = body
	post.Format = format
	return post, nil
}

// Create authors a new post. Posts are written exactly once: an
// existing file with the same date and slug is refused, never
// overwritten.
func (c *Corpus) Create(fm models.FrontMatter, slug string, date time.Time, body, format string) (models.Post, error) {
	if err := validation.Validate(slug,
		validation.Required,
		validation.Match(slugRe).Error("must be lowercase words separated by hyphens"),
	); err != nil {
		return models.Post{}, fmt.Errorf("slug: %w", err)
	}
	if err := validation.ValidateStruct(&fm,
		validation.Field(&fm.Layout, validation.Required),
		validation.Field(&fm.Category, validation.Required),
	); err != nil {
		return models.Post{}, fmt.Errorf("front matter: %w", err)
	}
	if date.IsZero() {
		date = time.Now()
	}

	name := fmt.Sprintf("%s-%s.md", date.Format("2006-01-02"), slug)
	fullPath := filepath.Join(c.postsDir, name)
	if _, err := os.Stat(fullPath); err == nil {
		return models.Post{}, ErrPostExists
	}

	content, err := ConstructFileContent(fm, body, format)
	if err != nil {
		return models.Post{}, fmt.Errorf("construct post content: %w", err)
	}

	if err := os.MkdirAll(c.postsDir, 0o755); err != nil {
		return models.Post{}, fmt.Errorf("create posts dir: %w", err)
	}
	if err := os.WriteFile(fullPath, content, 0o644); err != nil {
		return models.Post{}, fmt.Errorf("write post: %w", err)
	}

	c.Invalidate()

	title := fm.Title
	if title == "" {
		title = slug
	}
	day, _ := time.Parse("2006-01-02", date.Format("2006-01-02"))
	return models.Post{
		Path:     name,
		Slug:     slug,
		Date:     day,
		Title:    title,
		Layout:   fm.Layout,
		Category: fm.Category,
		CustomJS: fm.CustomJS,
		Extra:    fm.Extra,
		Body:     body,
		Format:   format,
	}, nil
}

// Invalidate drops the cached listing; the next Posts call reloads.
func (c *Corpus) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loaded = false
	c.posts = nil
}

// Watch invalidates the listing cache whenever the posts directory
// changes on disk. It blocks until ctx is cancelled.
func (c *Corpus) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	addDirs := func(root string) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if d.IsDir() {
				if err := watcher.Add(path); err != nil {
					logrus.WithError(err).WithField("dir", path).Warn("watch failed")
				}
			}
			return nil
		})
	}
	addDirs(c.postsDir)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			logrus.WithField("event", event.String()).Debug("posts dir changed")
			c.Invalidate()
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					addDirs(event.Name)
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logrus.WithError(err).Warn("posts watcher error")
		}
	}
}
