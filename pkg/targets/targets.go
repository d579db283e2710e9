package targets

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Package targets contains the pluggable scrape-target registry (YAML/JSON).

// Selector strategy names understood by the scrape layer.
const (
	StrategySectionLink = "section_link"
	StrategyFirstLink   = "first_link"
	StrategyElementText = "element_text"
)

// Target describes one page to scrape and where its records go.
type Target struct {
	ID       string         `json:"id" yaml:"id"`
	Name     string         `json:"name" yaml:"name"`
	URL      string         `json:"url" yaml:"url"`
	Output   string         `json:"output" yaml:"output"`
	Timezone string         `json:"timezone" yaml:"timezone"`
	Selector Selector       `json:"selector" yaml:"selector"`
	Follow   *Follow        `json:"follow" yaml:"follow"`
	Config   map[string]any `json:"config" yaml:"config"`

	loc *time.Location
}

// Selector holds the element-matching rule for a target.
type Selector struct {
	Strategy     string `json:"strategy" yaml:"strategy"`
	HeadingTag   string `json:"heading_tag" yaml:"heading_tag"`
	HeadingID    string `json:"heading_id" yaml:"heading_id"`
	HeadingClass string `json:"heading_class" yaml:"heading_class"`
	LinkClass    string `json:"link_class" yaml:"link_class"`
}

// Follow configures the optional second hop: after selecting a link on the
// front page, fetch the linked article and read the headline element there.
type Follow struct {
	HeadlineTag string `json:"headline_tag" yaml:"headline_tag"`
}

// Location returns the target's resolved timezone, or nil when the target
// relies on the application default.
func (t Target) Location() *time.Location { return t.loc }

type registryFile struct {
	Targets []Target `json:"targets" yaml:"targets"`
}

// Registry materializes target definitions loaded from a config file.
type Registry struct {
	mu      sync.RWMutex
	targets []Target
	idx     map[string]Target
}

// LoadRegistry loads the target registry from a YAML/JSON file.
func LoadRegistry(path string) (*Registry, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("targets file path is empty")
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open targets file: %w", err)
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read targets file: %w", err)
	}

	fileReg, err := parseRegistry(raw, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	if len(fileReg.Targets) == 0 {
		return nil, errors.New("targets file contains no targets entries")
	}

	reg := &Registry{
		targets: make([]Target, len(fileReg.Targets)),
		idx:     make(map[string]Target, len(fileReg.Targets)),
	}

	for i := range fileReg.Targets {
		t := sanitizeTarget(fileReg.Targets[i])
		t, err := validateTarget(t)
		if err != nil {
			return nil, fmt.Errorf("targets[%d]: %w", i, err)
		}
		if _, exists := reg.idx[t.ID]; exists {
			return nil, fmt.Errorf("duplicate target id %q", t.ID)
		}
		reg.targets[i] = t
		reg.idx[t.ID] = t
	}

	return reg, nil
}

// parseRegistry attempts to decode the targets file content.
func parseRegistry(data []byte, ext string) (registryFile, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))

	decoders := []struct {
		name string
		ext  string
		fn   unmarshalFn
	}{
		{name: "yaml", ext: ".yaml", fn: yaml.Unmarshal},
		{name: "yaml", ext: ".yml", fn: yaml.Unmarshal},
		{name: "json", ext: ".json", fn: json.Unmarshal},
	}

	for _, d := range decoders {
		if ext != "" && ext != d.ext {
			continue
		}
		if reg, err := unmarshalRegistry(d.name, data, d.fn); err == nil {
			return reg, nil
		}
	}

	return registryFile{}, errors.New("targets file format not recognized (expected YAML or JSON)")
}

type unmarshalFn func([]byte, any) error

func unmarshalRegistry(name string, data []byte, fn unmarshalFn) (registryFile, error) {
	var reg registryFile
	if err := fn(data, &reg); err != nil {
		return registryFile{}, fmt.Errorf("decode %s targets: %w", name, err)
	}
	return reg, nil
}

// sanitizeTarget trims and normalizes the target fields.
func sanitizeTarget(t Target) Target {
	t.ID = strings.TrimSpace(t.ID)
	t.Name = strings.TrimSpace(t.Name)
	t.URL = strings.TrimSpace(t.URL)
	t.Output = strings.TrimSpace(t.Output)
	t.Timezone = strings.TrimSpace(t.Timezone)

	t.Selector.Strategy = strings.ToLower(strings.TrimSpace(t.Selector.Strategy))
	if t.Selector.Strategy == "" {
		t.Selector.Strategy = StrategySectionLink
	}
	t.Selector.HeadingTag = strings.ToLower(strings.TrimSpace(t.Selector.HeadingTag))
	t.Selector.HeadingID = strings.TrimSpace(t.Selector.HeadingID)
	t.Selector.HeadingClass = strings.TrimSpace(t.Selector.HeadingClass)
	t.Selector.LinkClass = strings.TrimSpace(t.Selector.LinkClass)

	if t.Follow != nil {
		f := *t.Follow
		f.HeadlineTag = strings.ToLower(strings.TrimSpace(f.HeadlineTag))
		if f.HeadlineTag == "" {
			f.HeadlineTag = "h1"
		}
		t.Follow = &f
	}

	if t.Config == nil {
		t.Config = map[string]any{}
	}

	return t
}

// validateTarget checks required fields and resolves the timezone.
func validateTarget(t Target) (Target, error) {
	if t.ID == "" {
		return t, errors.New("id is required")
	}
	if t.Name == "" {
		return t, fmt.Errorf("name is required for target %q", t.ID)
	}
	if t.URL == "" {
		return t, fmt.Errorf("url is required for target %q", t.ID)
	}
	u, err := url.Parse(t.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return t, fmt.Errorf("url %q is not an absolute http(s) url for target %q", t.URL, t.ID)
	}

	switch t.Selector.Strategy {
	case StrategySectionLink, StrategyFirstLink, StrategyElementText:
	default:
		return t, fmt.Errorf("unknown selector strategy %q for target %q", t.Selector.Strategy, t.ID)
	}

	if t.Timezone != "" {
		loc, err := time.LoadLocation(t.Timezone)
		if err != nil {
			return t, fmt.Errorf("invalid timezone %q for target %q: %w", t.Timezone, t.ID, err)
		}
		t.loc = loc
	}

	return t, nil
}

// ByID returns the target entry for the given id, if loaded.
func (r *Registry) ByID(id string) (Target, bool) {
	if r == nil {
		return Target{}, false
	}

	id = strings.TrimSpace(id)
	if id == "" {
		return Target{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.idx[id]
	return t, ok
}

// All returns a copy of the configured targets in file order.
func (r *Registry) All() []Target {
	if r == nil {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Target, len(r.targets))
	copy(out, r.targets)
	return out
}
