package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cardforge/optcg"
)

// cardEntry is one card in a YAML card list.
type cardEntry struct {
	ID       string   `yaml:"id"`
	Name     string   `yaml:"name"`
	Category string   `yaml:"category"`
	Cost     int      `yaml:"cost"`
	Power    int      `yaml:"power"`
	Color    string   `yaml:"color"`
	Traits   []string `yaml:"traits"`
	Keywords []string `yaml:"keywords"`
	Text     string   `yaml:"text"`
}

type cardFile struct {
	Cards []cardEntry `yaml:"cards"`
}

func loadCards(path string) ([]cardEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read card file: %w", err)
	}
	var file cardFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse card file: %w", err)
	}
	if len(file.Cards) == 0 {
		return nil, fmt.Errorf("card file %s lists no cards", path)
	}
	return file.Cards, nil
}

func (e cardEntry) instance() (*optcg.CardInstance, error) {
	category, ok := optcg.ParseCategory(e.Category)
	if !ok {
		return nil, fmt.Errorf("card %s: unknown category %q", e.ID, e.Category)
	}
	return &optcg.CardInstance{
		ID:        e.ID,
		Code:      e.ID,
		Name:      e.Name,
		Category:  category,
		Cost:      e.Cost,
		BasePower: e.Power,
		Color:     e.Color,
		Traits:    e.Traits,
		Keywords:  e.Keywords,
	}, nil
}
