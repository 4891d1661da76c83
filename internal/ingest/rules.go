package ingest

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// rulesFile is the on-disk shape of a category table:
//
//	fallback: Miscellaneous
//	categories:
//	  - name: Income
//	    patterns: [SALARY, INTEREST, CREDIT]
type rulesFile struct {
	Fallback   string `yaml:"fallback"`
	Categories []struct {
		Name     string   `yaml:"name"`
		Patterns []string `yaml:"patterns"`
	} `yaml:"categories"`
}

var ErrEmptyRules = errors.New("category rules: no categories defined")

// LoadRules reads a YAML category table from path.
func LoadRules(path string) (Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("read category rules: %w", err)
	}
	return ParseRules(data)
}

// ParseRules decodes a YAML category table. Patterns are regular expressions
// matched case-insensitively; list order is the match order.
func ParseRules(data []byte) (Rules, error) {
	var f rulesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Rules{}, fmt.Errorf("decode category rules: %w", err)
	}
	if len(f.Categories) == 0 {
		return Rules{}, ErrEmptyRules
	}

	rules := Rules{Fallback: strings.TrimSpace(f.Fallback)}
	for i, c := range f.Categories {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return Rules{}, fmt.Errorf("category rules: entry %d has no name", i)
		}
		if len(c.Patterns) == 0 {
			return Rules{}, fmt.Errorf("category rules: %q has no patterns", name)
		}
		r := CategoryRule{Category: name}
		for _, p := range c.Patterns {
			re, err := regexp.Compile(`(?i)` + p)
			if err != nil {
				return Rules{}, fmt.Errorf("category rules: %q pattern %q: %w", name, p, err)
			}
			r.Patterns = append(r.Patterns, re)
		}
		rules.Categories = append(rules.Categories, r)
	}
	if rules.Fallback == "" {
		rules.Fallback = DefaultFallback
	}
	return rules, nil
}
