package store

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var seedYAML []byte

type seedFile struct {
	Articles []Article `yaml:"articles"`
}

// Seed returns the mock collection bundled with the binary, in supply order.
// Each call returns a fresh slice.
func Seed() []Article {
	articles, err := ParseSeed(seedYAML)
	if err != nil {
		// The embedded file is part of the build; a parse failure is a bug.
		panic(fmt.Sprintf("store: embedded seed: %v", err))
	}
	return articles
}

// ParseSeed decodes a YAML article collection and validates it.
func ParseSeed(data []byte) ([]Article, error) {
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}
	if f.Articles == nil {
		f.Articles = []Article{}
	}
	if err := ValidateCollection(f.Articles); err != nil {
		return nil, fmt.Errorf("validate seed: %w", err)
	}
	return f.Articles, nil
}
