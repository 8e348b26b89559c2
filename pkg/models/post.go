package models

import "time"

// Post represents one markdown document in the corpus. Path is relative
// to the posts directory and doubles as the post identity: the filename
// carries the publish date and URL slug (YYYY-MM-DD-slug.md).
type Post struct {
	Path     string         `json:"path"`
	Slug     string         `json:"slug"`
	Date     time.Time      `json:"date"`
	Title    string         `json:"title"`
	Layout   string         `json:"layout"`
	Category string         `json:"category"`
	CustomJS string         `json:"custom_js,omitempty"`
	Extra    map[string]any `json:"extra,omitempty"`
	Body     string         `json:"body,omitempty"`
	Format   string         `json:"format,omitempty"` // yaml, toml, json
	IsDirty  bool           `json:"is_dirty"`
}

// FrontMatter is the metadata contract every post carries for the
// external site generator. Layout and Category are required; CustomJS
// optionally names a client-side script bundle. Keys outside the
// contract are preserved in Extra untouched.
type FrontMatter struct {
	Layout   string         `json:"layout"`
	Category string         `json:"category"`
	CustomJS string         `json:"custom_js,omitempty"`
	Title    string         `json:"title,omitempty"`
	Extra    map[string]any `json:"extra,omitempty"`
}

// ToMap flattens the front matter back into the key/value form the
// on-disk encoders consume. Contract fields win over Extra duplicates.
func (fm FrontMatter) ToMap() map[string]any {
	out := make(map[string]any, len(fm.Extra)+4)
	for k, v := range fm.Extra {
		out[k] = v
	}
	out["layout"] = fm.Layout
	out["category"] = fm.Category
	if fm.CustomJS != "" {
		out["custom_js"] = fm.CustomJS
	}
	if fm.Title != "" {
		out["title"] = fm.Title
	}
	return out
}

// ScriptBundle describes one client-side script a post may attach via
// the custom_js front-matter field.
type ScriptBundle struct {
	Name string `json:"name"`
	Path string `json:"path"`
	URL  string `json:"url"`
	Size int64  `json:"size"`
}
