package utils

import (
	"github.com/Pallinder/go-randomdata"
)

// NameGenerator hands out name suggestions for new maps, layers, and contexts.
// Suggested and reserved names are never suggested again, so a suggestion is
// always free to use.
type NameGenerator map[string]struct{}

// Reserve marks names already in use.
func (g *NameGenerator) Reserve(names []string) {
	if *g == nil {
		*g = make(map[string]struct{})
	}
	for _, name := range names {
		(*g)[name] = struct{}{}
	}
}

// Suggest returns a name not seen by this generator before.
func (g *NameGenerator) Suggest() string {
	if *g == nil {
		*g = make(map[string]struct{})
	}
	for {
		name := randomdata.SillyName()
		if _, exists := (*g)[name]; !exists {
			(*g)[name] = struct{}{}
			return name
		}
	}
}
