package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"postcms/pkg/models"
)

// Front-matter formats supported on disk.
const (
	FormatYAML = "yaml"
	FormatTOML = "toml"
	FormatJSON = "json"
)

// ErrUnknownFormat is returned when content carries no recognizable
// front-matter block.
var ErrUnknownFormat = fmt.Errorf("unknown front matter format")

// ParseFrontMatter splits raw post content into typed front matter, the
// markdown body, and the detected encoding. The format is sniffed from
// the opening delimiter: --- for YAML, +++ for TOML, a leading { for a
// pure-JSON document.
func ParseFrontMatter(content []byte) (models.FrontMatter, string, string, error) {
	str := string(content)

	if strings.HasPrefix(str, "---\n") || strings.HasPrefix(str, "---\r\n") {
		block, body, ok := splitFrontMatter(str, "---")
		if !ok {
			return models.FrontMatter{}, "", "", fmt.Errorf("yaml front matter: missing closing delimiter")
		}
		var raw map[string]any
		if err := yaml.Unmarshal([]byte(block), &raw); err != nil {
			return models.FrontMatter{}, "", "", fmt.Errorf("parse yaml front matter: %w", err)
		}
		return liftFrontMatter(raw), strings.TrimSpace(body), FormatYAML, nil
	}

	if strings.HasPrefix(str, "+++\n") || strings.HasPrefix(str, "+++\r\n") {
		block, body, ok := splitFrontMatter(str, "+++")
		if !ok {
			return models.FrontMatter{}, "", "", fmt.Errorf("toml front matter: missing closing delimiter")
		}
		var raw map[string]any
		if err := toml.Unmarshal([]byte(block), &raw); err != nil {
			return models.FrontMatter{}, "", "", fmt.Errorf("parse toml front matter: %w", err)
		}
		return liftFrontMatter(raw), strings.TrimSpace(body), FormatTOML, nil
	}

	if strings.HasPrefix(strings.TrimSpace(str), "{") {
		var raw map[string]any
		if err := json.Unmarshal(content, &raw); err != nil {
			return models.FrontMatter{}, "", "", fmt.Errorf("parse json front matter: %w", err)
		}
		return liftFrontMatter(raw), "", FormatJSON, nil
	}

	return models.FrontMatter{}, "", "", ErrUnknownFormat
}

// splitFrontMatter separates the metadata block from the body. The
// closing delimiter only counts when it sits alone on its own line, so
// a value containing a literal --- does not end the block early.
func splitFrontMatter(str, delim string) (block, body string, ok bool) {
	lines := strings.Split(str, "\n")
	// lines[0] is the opening delimiter.
	for i := 1; i < len(lines); i++ {
		if strings.TrimRight(lines[i], "\r") == delim {
			return strings.Join(lines[1:i], "\n"), strings.Join(lines[i+1:], "\n"), true
		}
	}
	return "", "", false
}

// liftFrontMatter promotes the contract fields out of the raw map and
// keeps everything else in Extra.
func liftFrontMatter(raw map[string]any) models.FrontMatter {
	fm := models.FrontMatter{Extra: map[string]any{}}
	for key, value := range raw {
		switch key {
		case "layout":
			fm.Layout = stringValue(value)
		case "category":
			fm.Category = stringValue(value)
		case "custom_js":
			fm.CustomJS = stringValue(value)
		case "title":
			fm.Title = stringValue(value)
		default:
			fm.Extra[key] = sanitizeValue(value)
		}
	}
	return fm
}

func stringValue(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

// sanitizeValue normalizes decoder-specific map types so front matter
// round-trips through any of the three encoders.
func sanitizeValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, inner := range v {
			out[k] = sanitizeValue(inner)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(v))
		for k, inner := range v {
			out[fmt.Sprint(k)] = sanitizeValue(inner)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i := range v {
			out[i] = sanitizeValue(v[i])
		}
		return out
	default:
		return v
	}
}

// ConstructFileContent serializes front matter and body back into the
// on-disk post representation in the requested format.
func ConstructFileContent(fm models.FrontMatter, body string, format string) ([]byte, error) {
	data := fm.ToMap()

	var buf bytes.Buffer
	switch format {
	case FormatYAML:
		buf.WriteString("---\n")
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(data); err != nil {
			return nil, err
		}
		buf.WriteString("---\n")
	case FormatTOML:
		buf.WriteString("+++\n")
		enc := toml.NewEncoder(&buf)
		if err := enc.Encode(data); err != nil {
			return nil, err
		}
		buf.WriteString("+++\n")
	case FormatJSON:
		// A pure-JSON post is the whole document; there is nowhere for
		// a markdown body to live. Refusing beats dropping it.
		if body != "" {
			return nil, fmt.Errorf("json posts cannot carry a markdown body")
		}
		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		if err := enc.Encode(data); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}

	if body != "" {
		buf.WriteString("\n")
		buf.WriteString(body)
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}
