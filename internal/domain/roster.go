package domain

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kapu/hololive-wiki-scraper/pkg/errors"
)

//go:embed data/roster.yaml
var defaultRosterYAML []byte

// Group is an ordered list of wiki page identifiers sharing one output folder.
type Group struct {
	Name    string   `yaml:"name"`
	Talents []string `yaml:"talents"`
}

// Roster lists groups in processing order.
type Roster struct {
	Groups []Group `yaml:"groups"`
}

// RosterEntry is one (group, talent) pair to scrape.
type RosterEntry struct {
	Group string
	ID    string
}

// LoadRoster reads the roster from path, or the embedded default when path is empty.
func LoadRoster(path string) (*Roster, error) {
	data := defaultRosterYAML
	if strings.TrimSpace(path) != "" {
		fileData, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read roster file: %w", err)
		}
		data = fileData
	}
	return ParseRoster(data)
}

// ParseRoster decodes and validates a YAML roster document.
func ParseRoster(data []byte) (*Roster, error) {
	var roster Roster
	if err := yaml.Unmarshal(data, &roster); err != nil {
		return nil, fmt.Errorf("failed to parse roster: %w", err)
	}
	if err := roster.Validate(); err != nil {
		return nil, err
	}
	return &roster, nil
}

func (r *Roster) Validate() error {
	if r == nil || len(r.Groups) == 0 {
		return errors.NewValidationError("roster has no groups", "groups", nil)
	}

	seenGroups := make(map[string]struct{}, len(r.Groups))
	for i, group := range r.Groups {
		name := strings.TrimSpace(group.Name)
		if name == "" {
			return errors.NewValidationError(fmt.Sprintf("group #%d has no name", i+1), "groups.name", group.Name)
		}
		if _, dup := seenGroups[name]; dup {
			return errors.NewValidationError(fmt.Sprintf("duplicate group %q", name), "groups.name", name)
		}
		seenGroups[name] = struct{}{}

		seenIDs := make(map[string]struct{}, len(group.Talents))
		for _, id := range group.Talents {
			if strings.TrimSpace(id) == "" {
				return errors.NewValidationError(fmt.Sprintf("group %q has an empty talent id", name), "groups.talents", id)
			}
			if _, dup := seenIDs[id]; dup {
				return errors.NewValidationError(fmt.Sprintf("group %q lists %q twice", name, id), "groups.talents", id)
			}
			seenIDs[id] = struct{}{}
		}
	}
	return nil
}

// Entries flattens the roster in declaration order.
func (r *Roster) Entries() []RosterEntry {
	if r == nil {
		return nil
	}
	entries := make([]RosterEntry, 0, r.Len())
	for _, group := range r.Groups {
		for _, id := range group.Talents {
			entries = append(entries, RosterEntry{Group: strings.TrimSpace(group.Name), ID: id})
		}
	}
	return entries
}

// Len returns the total number of talent entries across all groups.
func (r *Roster) Len() int {
	if r == nil {
		return 0
	}
	total := 0
	for _, group := range r.Groups {
		total += len(group.Talents)
	}
	return total
}
