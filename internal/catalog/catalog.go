package catalog

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/adrien9192/tiktok-viral-scripts/internal/apperr"
	"github.com/adrien9192/tiktok-viral-scripts/internal/model"
)

// TopicPlaceholder must appear in every hook, setup, payoff and point
// template; AudiencePlaceholder is optional.
const (
	TopicPlaceholder    = "{topic}"
	AudiencePlaceholder = "{audience}"
)

// HookStyle is one hook phrasing family with a fixed efficacy percentage.
type HookStyle struct {
	ID        string   `yaml:"-"`
	Label     string   `yaml:"label"`
	Efficacy  int      `yaml:"efficacy"`
	Templates []string `yaml:"templates"`
}

// NicheProfile is one content niche: tone, default hashtags and the
// phrasing banks the assembler draws from.
type NicheProfile struct {
	ID             string   `yaml:"-"`
	Label          string   `yaml:"label"`
	Tone           string   `yaml:"tone"`
	Hashtags       []string `yaml:"hashtags"`
	PreferredHooks []string `yaml:"preferred_hooks"`
	Setup          string   `yaml:"setup"`
	Payoff         string   `yaml:"payoff"`
	Points         []string `yaml:"points"`
}

// LengthProfile is one target duration with cumulative section-end
// fractions. The CTA always ends at 1.0 of the total duration.
type LengthProfile struct {
	ID           string  `yaml:"-"`
	TotalSeconds int     `yaml:"total_seconds"`
	HookEnd      float64 `yaml:"hook_end"`
	SetupEnd     float64 `yaml:"setup_end"`
	ContentEnd   float64 `yaml:"content_end"`
	PayoffEnd    float64 `yaml:"payoff_end"`
}

// HashtagRules bounds hashtag assembly. Trending tags are seasonal tags
// (current year and the like) appended to every script's list.
type HashtagRules struct {
	Max          int      `yaml:"max"`
	MaxFromTopic int      `yaml:"max_from_topic"`
	Denylist     []string `yaml:"denylist"`
	Trending     []string `yaml:"trending"`
}

// TipTables holds the fixed tip rule tables.
type TipTables struct {
	Algorithm []string          `yaml:"algorithm"`
	ByLength  map[string]string `yaml:"by_length"`
	ByHook    map[string]string `yaml:"by_hook"`
}

// TrendSeed is a static trend entry served when a live source fails.
type TrendSeed struct {
	Term     string `yaml:"term"`
	Category string `yaml:"category"`
	Volume   *int   `yaml:"volume"`
}

type rawCatalog struct {
	Hooks         map[string]*HookStyle     `yaml:"hooks"`
	Niches        map[string]*NicheProfile  `yaml:"niches"`
	Lengths       map[string]*LengthProfile `yaml:"lengths"`
	CTAPool       []string                  `yaml:"cta_pool"`
	VisualNotes   map[string]string         `yaml:"visual_notes"`
	Hashtags      HashtagRules              `yaml:"hashtags"`
	GenericTopics []string                  `yaml:"generic_topics"`
	Tips          TipTables                 `yaml:"tips"`
	TrendSeeds    map[string][]TrendSeed    `yaml:"trend_seeds"`
}

// Catalog is the immutable configuration catalog, loaded once at startup.
// All lookup methods are safe for concurrent use.
type Catalog struct {
	hooks         map[string]*HookStyle
	niches        map[string]*NicheProfile
	lengths       map[string]*LengthProfile
	ctaPool       []string
	visualNotes   map[string]string
	hashtagRules  HashtagRules
	genericTopics map[string]struct{}
	tips          TipTables
	trendSeeds    map[string][]TrendSeed
}

// Load reads and validates the catalog definition file. Any structural
// problem is a startup failure: the service must not run with missing or
// malformed templates.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}

	var raw rawCatalog
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse catalog file: %w", err)
	}

	c := &Catalog{
		hooks:         raw.Hooks,
		niches:        raw.Niches,
		lengths:       raw.Lengths,
		ctaPool:       raw.CTAPool,
		visualNotes:   raw.VisualNotes,
		hashtagRules:  raw.Hashtags,
		genericTopics: make(map[string]struct{}, len(raw.GenericTopics)),
		tips:          raw.Tips,
		trendSeeds:    raw.TrendSeeds,
	}

	for id, h := range c.hooks {
		h.ID = id
	}
	for id, n := range c.niches {
		n.ID = id
	}
	for id, l := range c.lengths {
		l.ID = id
	}
	for _, topic := range raw.GenericTopics {
		c.genericTopics[strings.ToLower(topic)] = struct{}{}
	}

	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	return c, nil
}

// validate fails fast on malformed configuration so template problems
// surface at startup, not at request time.
func (c *Catalog) validate() error {
	if len(c.hooks) == 0 {
		return fmt.Errorf("no hook styles defined")
	}
	for id, h := range c.hooks {
		if len(h.Templates) == 0 {
			return fmt.Errorf("hook %q has no templates", id)
		}
		for _, tpl := range h.Templates {
			if !strings.Contains(tpl, TopicPlaceholder) {
				return fmt.Errorf("hook %q template %q lacks %s placeholder", id, tpl, TopicPlaceholder)
			}
		}
		if h.Efficacy < 0 || h.Efficacy > 100 {
			return fmt.Errorf("hook %q efficacy %d out of range [0,100]", id, h.Efficacy)
		}
	}

	if len(c.niches) == 0 {
		return fmt.Errorf("no niches defined")
	}
	for id, n := range c.niches {
		if len(n.Points) < 3 {
			return fmt.Errorf("niche %q point bank has %d entries, need at least 3", id, len(n.Points))
		}
		for _, tpl := range []string{n.Setup, n.Payoff} {
			if !strings.Contains(tpl, TopicPlaceholder) {
				return fmt.Errorf("niche %q template %q lacks %s placeholder", id, tpl, TopicPlaceholder)
			}
		}
		if len(n.PreferredHooks) == 0 {
			return fmt.Errorf("niche %q has no preferred hooks", id)
		}
		for _, hookID := range n.PreferredHooks {
			if _, ok := c.hooks[hookID]; !ok {
				return fmt.Errorf("niche %q prefers unknown hook %q", id, hookID)
			}
		}
	}

	if len(c.lengths) == 0 {
		return fmt.Errorf("no length profiles defined")
	}
	for id, l := range c.lengths {
		if l.TotalSeconds <= 0 {
			return fmt.Errorf("length %q has non-positive duration", id)
		}
		bounds := []float64{0, l.HookEnd, l.SetupEnd, l.ContentEnd, l.PayoffEnd, 1.0}
		for i := 1; i < len(bounds); i++ {
			if bounds[i] <= bounds[i-1] {
				return fmt.Errorf("length %q section fractions are not strictly ascending", id)
			}
		}
		// The payoff must round below the total or the cta section
		// collapses to zero seconds.
		if int(math.Round(l.PayoffEnd*float64(l.TotalSeconds))) >= l.TotalSeconds {
			return fmt.Errorf("length %q payoff_end %v leaves no room for a cta", id, l.PayoffEnd)
		}
	}

	if len(c.ctaPool) == 0 {
		return fmt.Errorf("empty cta pool")
	}
	if c.hashtagRules.Max <= 0 {
		return fmt.Errorf("hashtag max must be positive")
	}
	return nil
}

// HookStyle looks up a hook style by identifier.
func (c *Catalog) HookStyle(id string) (*HookStyle, error) {
	h, ok := c.hooks[id]
	if !ok {
		return nil, apperr.NewNotFound("hook style", id)
	}
	return h, nil
}

// Niche looks up a niche profile by identifier.
func (c *Catalog) Niche(id string) (*NicheProfile, error) {
	n, ok := c.niches[id]
	if !ok {
		return nil, apperr.NewNotFound("niche", id)
	}
	return n, nil
}

// Length looks up a length profile by identifier.
func (c *Catalog) Length(id string) (*LengthProfile, error) {
	l, ok := c.lengths[id]
	if !ok {
		return nil, apperr.NewNotFound("length", id)
	}
	return l, nil
}

// CTAPool returns the fixed call-to-action phrasings.
func (c *Catalog) CTAPool() []string {
	return c.ctaPool
}

// VisualNote returns the visual direction for a section name, if any.
func (c *Catalog) VisualNote(section string) string {
	return c.visualNotes[section]
}

// HashtagRules returns the hashtag assembly bounds.
func (c *Catalog) HashtagRules() HashtagRules {
	return c.hashtagRules
}

// IsGenericTopic reports whether the topic is on the generic list.
func (c *Catalog) IsGenericTopic(topic string) bool {
	_, ok := c.genericTopics[strings.ToLower(strings.TrimSpace(topic))]
	return ok
}

// Tips returns the fixed tip rule tables.
func (c *Catalog) Tips() TipTables {
	return c.tips
}

// TrendSeeds returns the static fallback trend list for a source label.
func (c *Catalog) TrendSeeds(source string) []TrendSeed {
	return c.trendSeeds[source]
}

// HookSummaries lists all hook styles sorted by descending efficacy,
// ties broken by id for stable output.
func (c *Catalog) HookSummaries() []model.HookSummary {
	out := make([]model.HookSummary, 0, len(c.hooks))
	for _, h := range c.hooks {
		out = append(out, model.HookSummary{
			ID:       h.ID,
			Label:    h.Label,
			Efficacy: h.Efficacy,
			Example:  h.Templates[0],
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Efficacy != out[j].Efficacy {
			return out[i].Efficacy > out[j].Efficacy
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// NicheSummaries lists all niche profiles sorted by id.
func (c *Catalog) NicheSummaries() []model.NicheSummary {
	out := make([]model.NicheSummary, 0, len(c.niches))
	for _, n := range c.niches {
		out = append(out, model.NicheSummary{
			ID:             n.ID,
			Label:          n.Label,
			Tone:           n.Tone,
			Hashtags:       n.Hashtags,
			PreferredHooks: n.PreferredHooks,
			BestHook:       n.PreferredHooks[0],
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
