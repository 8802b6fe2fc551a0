package annotator

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var defaultRulesData []byte

// Rules drive the basic annotator: which tokens never become subjects and
// which carry sentiment valence.
type Rules struct {
	ExcludeTokens  []string `yaml:"exclude_tokens"`
	PositiveTokens []string `yaml:"positive_tokens"`
	NegativeTokens []string `yaml:"negative_tokens"`
}

// DefaultRules returns the embedded rule set.
func DefaultRules() (Rules, error) {
	return parseRules(defaultRulesData)
}

// LoadRules reads a rules file from disk, falling back on nothing: a missing
// or malformed file is a configuration error.
func LoadRules(path string) (Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("failed to read rules file %s: %w", path, err)
	}
	return parseRules(data)
}

func parseRules(data []byte) (Rules, error) {
	var rules Rules
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return Rules{}, fmt.Errorf("failed to parse rules: %w", err)
	}
	return rules, nil
}
