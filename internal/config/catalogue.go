package config

import (
	"fmt"

	"igris/internal/logging"
)

// CatalogueEntry is one known task: the phrases that trigger it, the action
// it runs, and whether it needs admin confirmation.
type CatalogueEntry struct {
	Task          string   `json:"task" yaml:"task"`
	Phrases       []string `json:"phrases" yaml:"phrases"`
	Action        string   `json:"action" yaml:"action"`
	RequiresAdmin bool     `json:"requires_admin" yaml:"requires_admin"`
	Tags          []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// HasTag reports whether the entry carries the given tag.
func (e CatalogueEntry) HasTag(tag string) bool {
	for _, t := range e.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// Catalogue is the ordered set of known tasks. Order is load order and is
// semantically significant: the offline matcher returns the first substring
// hit, so earlier entries shadow later ones.
type Catalogue struct {
	Tasks []CatalogueEntry `json:"tasks" yaml:"tasks"`
}

// Validate warns about latent catalogue problems without rejecting them.
// Duplicate task names are allowed (first-match-wins is load-bearing for
// existing catalogues) but authors should not rely on them.
func (c *Catalogue) Validate() error {
	seen := make(map[string]bool, len(c.Tasks))
	for i, t := range c.Tasks {
		if t.Task == "" {
			return fmt.Errorf("catalogue entry %d has no task name", i)
		}
		if seen[t.Task] {
			logging.Get(logging.CategoryCatalogue).Warnw("duplicate task name in catalogue; first entry wins",
				"task", t.Task)
		}
		seen[t.Task] = true
	}
	return nil
}

// LoadCatalogue reads a catalogue document from disk. A missing path yields
// an empty catalogue rather than an error.
func LoadCatalogue(path string) (*Catalogue, error) {
	if path == "" {
		return &Catalogue{}, nil
	}
	var c Catalogue
	if err := decodeFile(path, &c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// SaveCatalogue persists the catalogue as JSON.
func SaveCatalogue(path string, c *Catalogue) error {
	return encodeFile(path, c)
}
