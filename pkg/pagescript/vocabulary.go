package pagescript

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

//go:embed locations.yaml
var defaultLocations []byte

// Area is one group of the location-code drop-down.
type Area struct {
	Name      string   `yaml:"area"`
	Locations []string `yaml:"locations"`
}

// Vocabulary is the ordered list of valid location codes.
type Vocabulary []Area

// ParseVocabulary reads a YAML vocabulary. Areas without a name or without
// locations are rejected, as are codes listed twice.
func ParseVocabulary(data []byte) (Vocabulary, error) {
	var v Vocabulary
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("syntax error in location vocabulary: %w", err)
	}

	seen := map[string]string{}
	for i, area := range v {
		if area.Name == "" {
			return nil, fmt.Errorf("area #%d has no name", i+1)
		}
		if len(area.Locations) == 0 {
			return nil, fmt.Errorf("area '%s' has no locations", area.Name)
		}
		for _, loc := range area.Locations {
			if prev, ok := seen[loc]; ok {
				return nil, fmt.Errorf("location '%s' listed in both '%s' and '%s'", loc, prev, area.Name)
			}
			seen[loc] = area.Name
		}
	}
	return v, nil
}

// LoadVocabulary reads a vocabulary file from disk.
func LoadVocabulary(filename string) (Vocabulary, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read vocabulary file '%s': %w", filename, err)
	}
	return ParseVocabulary(data)
}

// DefaultVocabulary returns the location codes agreed on for the shop.
func DefaultVocabulary() Vocabulary {
	v, err := ParseVocabulary(defaultLocations)
	if err != nil {
		panic(fmt.Sprintf("embedded location vocabulary: %v", err))
	}
	return v
}

// Contains reports whether code is a valid location code.
func (v Vocabulary) Contains(code string) bool {
	return lo.ContainsBy(v, func(a Area) bool {
		return lo.Contains(a.Locations, code)
	})
}

// Len counts every location code across areas.
func (v Vocabulary) Len() int {
	n := 0
	for _, a := range v {
		n += len(a.Locations)
	}
	return n
}
