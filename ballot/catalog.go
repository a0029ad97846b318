// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ballot

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Category is a contest with a fixed list of candidates.
type Category struct {
	Name       string   `json:"name" yaml:"name"`
	Candidates []string `json:"candidates" yaml:"candidates"`
}

// Catalog is the ordered set of categories open for voting.
type Catalog struct {
	categories []Category
	index      map[string]int
	candidates map[string]map[string]bool
}

// NewCatalog validates categories and builds a Catalog from them.
func NewCatalog(categories []Category) (Catalog, error) {
	if len(categories) == 0 {
		return Catalog{}, errors.New("catalog has no categories")
	}

	c := Catalog{
		categories: make([]Category, 0, len(categories)),
		index:      make(map[string]int, len(categories)),
		candidates: make(map[string]map[string]bool, len(categories)),
	}
	for _, cat := range categories {
		name := NormalizeName(cat.Name)
		if name == "" {
			return Catalog{}, errors.New("category name is required")
		}
		if _, dup := c.index[name]; dup {
			return Catalog{}, fmt.Errorf("duplicate category %q", name)
		}
		if len(cat.Candidates) == 0 {
			return Catalog{}, fmt.Errorf("category %q has no candidates", name)
		}

		members := make(map[string]bool, len(cat.Candidates))
		list := make([]string, 0, len(cat.Candidates))
		for _, candidate := range cat.Candidates {
			candidate = NormalizeName(candidate)
			if candidate == "" {
				return Catalog{}, fmt.Errorf("category %q has a blank candidate", name)
			}
			if members[candidate] {
				return Catalog{}, fmt.Errorf("category %q lists %q twice", name, candidate)
			}
			members[candidate] = true
			list = append(list, candidate)
		}

		c.index[name] = len(c.categories)
		c.candidates[name] = members
		c.categories = append(c.categories, Category{Name: name, Candidates: list})
	}
	return c, nil
}

// LoadCatalog reads a YAML catalog file of the form
//
//	categories:
//	  - name: Meilleur club
//	    candidates: [MCA, USMA, CSC]
func LoadCatalog(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("read catalog: %w", err)
	}

	var doc struct {
		Categories []Category `yaml:"categories"`
	}
	if err := yaml.UnmarshalStrict(data, &doc); err != nil {
		return Catalog{}, fmt.Errorf("parse catalog %s: %w", path, err)
	}

	c, err := NewCatalog(doc.Categories)
	if err != nil {
		return Catalog{}, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// OpenCatalog loads path, or returns DefaultCatalog when path is empty.
func OpenCatalog(path string) (Catalog, error) {
	if path == "" {
		return DefaultCatalog(), nil
	}
	return LoadCatalog(path)
}

// Categories returns a copy of the categories in display order.
func (c Catalog) Categories() []Category {
	out := make([]Category, len(c.categories))
	for i, cat := range c.categories {
		out[i] = Category{Name: cat.Name, Candidates: append([]string(nil), cat.Candidates...)}
	}
	return out
}

// Category looks up a category by name. The name is normalized like a voter
// name, so composed and decomposed accents match.
func (c Catalog) Category(name string) (Category, bool) {
	i, ok := c.index[NormalizeName(name)]
	if !ok {
		return Category{}, false
	}
	return c.categories[i], true
}

// HasCandidate reports whether candidate is listed in category.
func (c Catalog) HasCandidate(category, candidate string) bool {
	return c.candidates[NormalizeName(category)][NormalizeName(candidate)]
}

// DefaultCatalog is the DZMatch awards catalog.
func DefaultCatalog() Catalog {
	c, err := NewCatalog([]Category{
		{
			Name: "Meilleur gardien",
			Candidates: []string{
				"Oussama Benbout (USMA)",
				"Zakaria Bouhalfaya (CSC)",
				"Abderrahmane Medjadel (ASO)",
				"Tarek Boussder (ESS)",
				"Abdelkader Salhi (MCEB)",
				"Zeghba (CRB)",
				"Hadid (JSK)",
				"Ramdane (MCA)",
			},
		},
		{
			Name:       "Meilleur club",
			Candidates: []string{"MCA", "USMA", "CSC", "CRB", "JSK", "PAC", "ESS"},
		},
		{
			Name: "Meilleur joueur",
			Candidates: []string{
				"Adel Boulbina (PAC)",
				"Aymen Mahious (CRB)",
				"Abderrahmane Meziane (CRB)",
				"Ibrahim Dib (CSC)",
				"Salim Boukhenchouch (USMA)",
				"Larbi Tabti (MCA)",
				"Mehdi Boudjamaa (JSK)",
			},
		},
		{
			Name: "Meilleur entraîneur",
			Candidates: []string{
				"Khaled Benyahia (MCA)",
				"Joseph Zinbauer (JSK)",
				"Sead Ramovic (CRB)",
				"Khereddine Madoui (CSC)",
				"Bilal Dziri (PAC)",
			},
		},
	})
	if err != nil {
		panic(err)
	}
	return c
}
