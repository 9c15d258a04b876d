package share

import (
	"fmt"
	"math/rand/v2"
	"os"

	"gopkg.in/yaml.v3"
)

// SiteURL is where every call to action points.
const SiteURL = "https://ikigen.vercel.app"

var defaultHeaders = []string{
	"✨ My Ikigai ✨",
	"💡 What Drives Me",
	"🧘‍♀️ My Purpose, Defined",
	"🎨 A Reflection on Meaning",
	"🪷 Why I Wake Up Each Day",
}

var defaultCallsToAction = []string{
	"👉 What would your Ikigai say? → " + SiteURL,
	"🎯 Discover your own purpose → " + SiteURL,
	"✨ Start your journey → " + SiteURL,
	"🧭 Reflect. Discover. Align. → " + SiteURL,
	"🪞 What drives *you*? → " + SiteURL,
}

// Templates holds the header and call-to-action pools a post is drawn from.
type Templates struct {
	Headers       []string `yaml:"headers"`
	CallsToAction []string `yaml:"callsToAction"`
}

// DefaultTemplates returns a copy of the built-in pools.
func DefaultTemplates() Templates {
	return Templates{
		Headers:       append([]string(nil), defaultHeaders...),
		CallsToAction: append([]string(nil), defaultCallsToAction...),
	}
}

// LoadTemplates reads pools from a YAML file. A list that is missing or
// empty in the file keeps its built-in default.
func LoadTemplates(path string) (Templates, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Templates{}, fmt.Errorf("read templates from %s: %w", path, err)
	}
	var t Templates
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Templates{}, fmt.Errorf("parse templates from %s: %w", path, err)
	}
	for i, h := range t.Headers {
		if h == "" {
			return Templates{}, fmt.Errorf("templates %s: header %d is empty", path, i)
		}
	}
	for i, c := range t.CallsToAction {
		if c == "" {
			return Templates{}, fmt.Errorf("templates %s: call to action %d is empty", path, i)
		}
	}
	return t.withDefaults(), nil
}

func (t Templates) withDefaults() Templates {
	d := DefaultTemplates()
	if len(t.Headers) == 0 {
		t.Headers = d.Headers
	}
	if len(t.CallsToAction) == 0 {
		t.CallsToAction = d.CallsToAction
	}
	return t
}

// RandSource yields integers in [0, n). *rand.Rand from math/rand/v2
// satisfies it, so tests can pass a seeded generator.
type RandSource interface {
	IntN(n int) int
}

// globalRand draws from math/rand/v2's top-level source, which is safe for
// concurrent use and randomly seeded.
type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// Selector picks headers and calls to action uniformly and independently.
// It holds no state between picks and is safe for concurrent use as long as
// its RandSource is.
type Selector struct {
	templates Templates
	rnd       RandSource
}

// NewSelector creates a Selector. Empty pools fall back to the built-in
// ones and a nil source uses the global random source.
func NewSelector(t Templates, rnd RandSource) *Selector {
	if rnd == nil {
		rnd = globalRand{}
	}
	return &Selector{templates: t.withDefaults(), rnd: rnd}
}

// Header returns one header from the pool.
func (s *Selector) Header() string {
	return s.templates.Headers[s.rnd.IntN(len(s.templates.Headers))]
}

// CallToAction returns one call to action from the pool.
func (s *Selector) CallToAction() string {
	return s.templates.CallsToAction[s.rnd.IntN(len(s.templates.CallsToAction))]
}

// Templates returns a copy of the pools in use.
func (s *Selector) Templates() Templates {
	return Templates{
		Headers:       append([]string(nil), s.templates.Headers...),
		CallsToAction: append([]string(nil), s.templates.CallsToAction...),
	}
}

var defaultSelector = NewSelector(Templates{}, nil)

// RandomHeader picks a built-in header.
func RandomHeader() string { return defaultSelector.Header() }

// RandomCallToAction picks a built-in call to action.
func RandomCallToAction() string { return defaultSelector.CallToAction() }
