// file: internal/catalog/loader.go
// version: 1.0.0
// guid: 501cbe15-be49-4451-ad22-ef922715b202

package catalog

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jdfalk/kitfinder/internal/matcher"
	"gopkg.in/yaml.v3"
)

var (
	// ErrUnsupportedFormat is returned for catalog files with an unknown extension.
	ErrUnsupportedFormat = errors.New("unsupported catalog format")
	// ErrEmptyKitName is returned when a kit has a blank name.
	ErrEmptyKitName = errors.New("kit name is empty")
)

// Format identifies a catalog encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// catalogFile is the wrapped document shape: {kits: [...]}.
type catalogFile struct {
	Kits []matcher.Kit `json:"kits" yaml:"kits"`
}

// FormatForPath picks a format from the file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".txt", ".text":
		return FormatText, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// LoadFile reads and parses a catalog file.
func LoadFile(path string) ([]matcher.Kit, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()

	kits, err := Parse(f, format)
	if err != nil {
		return nil, fmt.Errorf("failed to parse catalog %s: %w", path, err)
	}
	return kits, nil
}

// Parse decodes a catalog from r. YAML and JSON accept either a bare list of
// kits or a document with a top-level "kits" key.
func Parse(r io.Reader, format Format) ([]matcher.Kit, error) {
	var (
		kits []matcher.Kit
		err  error
	)
	switch format {
	case FormatYAML:
		kits, err = parseYAML(r)
	case FormatJSON:
		kits, err = parseJSON(r)
	case FormatText:
		kits, err = parseText(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, err
	}
	return clean(kits)
}

func parseYAML(r io.Reader) ([]matcher.Kit, error) {
	var node yaml.Node
	if err := yaml.NewDecoder(r).Decode(&node); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("invalid yaml: %w", err)
	}

	root := &node
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}

	switch root.Kind {
	case yaml.SequenceNode:
		var kits []matcher.Kit
		if err := root.Decode(&kits); err != nil {
			return nil, fmt.Errorf("invalid kit list: %w", err)
		}
		return kits, nil
	case yaml.MappingNode:
		var doc catalogFile
		if err := root.Decode(&doc); err != nil {
			return nil, fmt.Errorf("invalid catalog document: %w", err)
		}
		return doc.Kits, nil
	default:
		return nil, fmt.Errorf("invalid yaml: expected a list or a mapping at the top level")
	}
}

func parseJSON(r io.Reader) ([]matcher.Kit, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	if data[0] == '[' {
		var kits []matcher.Kit
		if err := json.Unmarshal(data, &kits); err != nil {
			return nil, fmt.Errorf("invalid json: %w", err)
		}
		return kits, nil
	}
	var doc catalogFile
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}
	return doc.Kits, nil
}

// parseText reads the plain-text layout:
//
//	Forest Kit:
//	  - Grass Block
//	  - Oak Planks
//	Nether Kit: Netherrack, Soul Sand
//
// Blank lines and lines starting with # are ignored.
func parseText(r io.Reader) ([]matcher.Kit, error) {
	var kits []matcher.Kit
	var current *matcher.Kit

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if item, ok := cutBullet(line); ok {
			if current == nil {
				return nil, fmt.Errorf("line %d: block %q appears before any kit name", lineNo, item)
			}
			current.Blocks = append(current.Blocks, item)
			continue
		}

		name, rest, found := strings.Cut(line, ":")
		if !found {
			if current == nil {
				return nil, fmt.Errorf("line %d: expected \"Kit Name:\" but got %q", lineNo, line)
			}
			current.Blocks = append(current.Blocks, line)
			continue
		}

		kits = append(kits, matcher.Kit{Name: name})
		current = &kits[len(kits)-1]
		if rest = strings.TrimSpace(rest); rest != "" {
			current.Blocks = append(current.Blocks, strings.Split(rest, ",")...)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return kits, nil
}

func cutBullet(line string) (string, bool) {
	for _, prefix := range []string{"- ", "* "} {
		if after, ok := strings.CutPrefix(line, prefix); ok {
			return strings.TrimSpace(after), true
		}
	}
	return "", false
}

// clean trims names and blocks and drops empty blocks. Kits without blocks
// are kept; they simply never match.
func clean(kits []matcher.Kit) ([]matcher.Kit, error) {
	out := make([]matcher.Kit, 0, len(kits))
	for i, k := range kits {
		name := strings.TrimSpace(k.Name)
		if name == "" {
			return nil, fmt.Errorf("kit %d: %w", i+1, ErrEmptyKitName)
		}
		blocks := make([]string, 0, len(k.Blocks))
		for _, b := range k.Blocks {
			if b = strings.TrimSpace(b); b != "" {
				blocks = append(blocks, b)
			}
		}
		out = append(out, matcher.Kit{Name: name, Blocks: blocks})
	}
	return out, nil
}
