package profile

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/fuzzkit/internal/model"
)

// Format is the document syntax of a profile.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath picks the format from the file extension. TOML is the default.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".json":
		return FormatJSON
	default:
		return FormatTOML
	}
}

// ParseFormat maps a user-supplied format name to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "toml":
		return FormatTOML, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown profile format %q (toml|yaml|json)", s)
	}
}

// FormatError reports a profile document that is malformed or missing required fields.
// Err carries the parser or schema detail unchanged.
type FormatError struct {
	Source string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("invalid profile: %v", e.Err)
	}
	return fmt.Sprintf("invalid profile %s: %v", e.Source, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// Load loads a profile from a file path. When no file exists at ref and ref
// names a built-in profile, the embedded profile is used instead.
func Load(ref string) (*model.Profile, error) {
	p, _, err := LoadWithHash(ref)
	return p, err
}

// LoadWithHash loads a profile and returns the SHA-256 of the raw document.
func LoadWithHash(ref string) (*model.Profile, string, error) {
	source := ref
	format := FormatFromPath(ref)

	data, err := os.ReadFile(ref)
	if err != nil {
		b, ok := builtinProfiles[ref]
		if !ok || !errors.Is(err, fs.ErrNotExist) {
			return nil, "", fmt.Errorf("failed to read profile %s: %w", ref, err)
		}
		source = "builtin:" + ref
		data, format = b.data, b.format
	}

	p, err := Parse(data, format)
	if err != nil {
		var fe *FormatError
		if errors.As(err, &fe) {
			fe.Source = source
		}
		return nil, "", err
	}
	return p, Hash(data), nil
}

// Hash returns "sha256:<hex>" of a raw profile document.
func Hash(data []byte) string {
	h := sha256.Sum256(data)
	return "sha256:" + hex.EncodeToString(h[:])
}

// Parse decodes a profile document. The document is first checked against the
// profile schema so missing fields and wrong types surface as a FormatError
// before any typed decoding. An absent force_headers table becomes an empty map.
func Parse(data []byte, format Format) (*model.Profile, error) {
	tree, err := decodeTree(data, format)
	if err != nil {
		return nil, &FormatError{Err: err}
	}
	if err := validateTree(tree); err != nil {
		return nil, &FormatError{Err: err}
	}

	var p model.Profile
	if err := decodeTyped(data, format, &p); err != nil {
		return nil, &FormatError{Err: err}
	}
	if p.Safety.ForceHeaders == nil {
		p.Safety.ForceHeaders = map[string]string{}
	}
	return &p, nil
}

// decodeTree decodes a document into plain JSON values (json.Number for numbers).
func decodeTree(data []byte, format Format) (any, error) {
	var raw any
	switch format {
	case FormatTOML:
		var m map[string]any
		if err := toml.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("toml: %w", err)
		}
		raw = m
	case FormatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("yaml: %w", err)
		}
	case FormatJSON:
		return decodeJSON(data)
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}

	normalized, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("normalize %s document: %w", format, err)
	}
	return decodeJSON(normalized)
}

func decodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("json: %w", err)
	}
	return out, nil
}

func decodeTyped(data []byte, format Format, p *model.Profile) error {
	switch format {
	case FormatTOML:
		if err := toml.Unmarshal(data, p); err != nil {
			return fmt.Errorf("toml: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, p); err != nil {
			return fmt.Errorf("yaml: %w", err)
		}
	case FormatJSON:
		if err := json.Unmarshal(data, p); err != nil {
			return fmt.Errorf("json: %w", err)
		}
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
	return nil
}

// List returns sorted names of built-in profiles plus profile files found in dir.
// An empty or unreadable dir contributes nothing.
func List(dir string) []string {
	seen := make(map[string]bool)
	for name := range builtinProfiles {
		seen[name] = true
	}

	if dir != "" {
		entries, err := os.ReadDir(dir)
		if err == nil {
			for _, e := range entries {
				if e.IsDir() {
					continue
				}
				switch filepath.Ext(e.Name()) {
				case ".toml", ".yaml", ".yml", ".json":
					seen[filepath.Join(dir, e.Name())] = true
				}
			}
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
