package service

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/adrien9192/tiktok-viral-scripts/internal/apperr"
	"github.com/adrien9192/tiktok-viral-scripts/internal/catalog"
	"github.com/adrien9192/tiktok-viral-scripts/internal/model"
	"github.com/adrien9192/tiktok-viral-scripts/pkg/hash"
)

// Request field limits and defaults.
const (
	MinTopicLen    = 3
	MaxTopicLen    = 500
	MaxAudienceLen = 200
	MaxToneLen     = 100

	DefaultNiche  = "custom"
	DefaultLength = "medium"

	// AutoHookStyle resolves to the niche's first preferred hook.
	AutoHookStyle = "auto"

	minContentPoints   = 3
	contentPointSpread = 3

	defaultAudience = "toi"
	maxTips         = 5
)

// Assembler builds scripts from catalog templates. Assembly is a pure
// function of the resolved catalog entries and the topic digest: identical
// requests yield identical script content.
type Assembler struct {
	cat    *catalog.Catalog
	scorer *Scorer
}

func NewAssembler(cat *catalog.Catalog) *Assembler {
	return &Assembler{cat: cat, scorer: NewScorer(cat)}
}

// Generate validates the request, resolves catalog entries and assembles
// the script. On any failure no partial script is returned.
func (a *Assembler) Generate(req model.ScriptRequest) (*model.GeneratedScript, error) {
	req, err := a.normalize(req)
	if err != nil {
		return nil, err
	}

	niche, err := a.cat.Niche(req.Niche)
	if err != nil {
		return nil, err
	}

	hookID := req.HookStyle
	if hookID == AutoHookStyle {
		hookID = niche.PreferredHooks[0]
	}
	hook, err := a.cat.HookStyle(hookID)
	if err != nil {
		return nil, err
	}

	length, err := a.cat.Length(req.Length)
	if err != nil {
		return nil, err
	}

	digest := hash.TopicDigest(req.Topic)
	bounds := sectionBounds(length, req.IncludeCTA)

	script := &model.GeneratedScript{
		ID:            uuid.NewString(),
		Hook:          a.section("hook", bounds[0], a.hookText(hook, req, digest)),
		Setup:         a.section("setup", bounds[1], a.render(niche.Setup, req)),
		Content:       a.section("content", bounds[2], a.contentText(niche, req, digest)),
		Payoff:        a.section("payoff", bounds[3], a.render(niche.Payoff, req)),
		TotalDuration: length.TotalSeconds,
		Hashtags:      a.hashtags(niche, req.Topic),
		CreatedAt:     time.Now().UTC(),
	}

	if req.IncludeCTA {
		cta := a.section("cta", bounds[4], a.ctaText(digest))
		script.CTA = &cta
	}

	script.HookScore = a.scorer.HookScore(hook, niche, req.Topic)
	script.ViralPotential = a.scorer.ViralPotential(script.HookScore)
	script.Tips = a.tips(length, hook, req)

	return script, nil
}

// normalize trims and defaults request fields, rejecting anything out of
// bounds before any catalog work happens.
func (a *Assembler) normalize(req model.ScriptRequest) (model.ScriptRequest, error) {
	req.Topic = strings.TrimSpace(req.Topic)
	if utf8.RuneCountInString(req.Topic) < MinTopicLen {
		return req, apperr.NewValidation("topic", fmt.Sprintf("must be at least %d characters", MinTopicLen))
	}
	if utf8.RuneCountInString(req.Topic) > MaxTopicLen {
		return req, apperr.NewValidation("topic", fmt.Sprintf("must be at most %d characters", MaxTopicLen))
	}

	req.TargetAudience = strings.TrimSpace(req.TargetAudience)
	if utf8.RuneCountInString(req.TargetAudience) > MaxAudienceLen {
		return req, apperr.NewValidation("target_audience", fmt.Sprintf("must be at most %d characters", MaxAudienceLen))
	}

	req.Tone = strings.TrimSpace(req.Tone)
	if utf8.RuneCountInString(req.Tone) > MaxToneLen {
		return req, apperr.NewValidation("tone", fmt.Sprintf("must be at most %d characters", MaxToneLen))
	}

	if req.Niche = strings.TrimSpace(req.Niche); req.Niche == "" {
		req.Niche = DefaultNiche
	}
	if req.HookStyle = strings.TrimSpace(req.HookStyle); req.HookStyle == "" {
		req.HookStyle = AutoHookStyle
	}
	if req.Length = strings.TrimSpace(req.Length); req.Length == "" {
		req.Length = DefaultLength
	}
	return req, nil
}

func (a *Assembler) section(name string, b sectionBound, text string) model.ScriptSection {
	return model.ScriptSection{
		Name:        name,
		Timecode:    fmt.Sprintf("%d-%ds", b.start, b.end),
		Text:        text,
		VisualNotes: a.cat.VisualNote(name),
	}
}

func (a *Assembler) hookText(hook *catalog.HookStyle, req model.ScriptRequest, digest uint64) string {
	tpl := hook.Templates[hash.PickIndex(digest, len(hook.Templates))]
	return a.render(tpl, req)
}

// contentText picks 3-5 sub-points from the niche point bank. The window
// size and start are both digest-derived so the selection varies across
// topics but never across repeats of the same topic.
func (a *Assembler) contentText(niche *catalog.NicheProfile, req model.ScriptRequest, digest uint64) string {
	bank := niche.Points
	count := minContentPoints + hash.PickIndex(digest, contentPointSpread)
	if count > len(bank) {
		count = len(bank)
	}
	start := hash.PickIndex(digest>>8, len(bank))

	points := make([]string, 0, count)
	for i := 0; i < count; i++ {
		points = append(points, a.render(bank[(start+i)%len(bank)], req))
	}
	return strings.Join(points, ". ") + "."
}

func (a *Assembler) ctaText(digest uint64) string {
	pool := a.cat.CTAPool()
	return pool[hash.PickIndex(digest, len(pool))]
}

// render substitutes the topic and target audience into a template.
func (a *Assembler) render(tpl string, req model.ScriptRequest) string {
	audience := req.TargetAudience
	if audience == "" {
		audience = defaultAudience
	}
	out := strings.ReplaceAll(tpl, catalog.TopicPlaceholder, req.Topic)
	return strings.ReplaceAll(out, catalog.AudiencePlaceholder, audience)
}

// hashtags merges niche defaults, seasonal trending tags and topic-derived
// tags: ordered, deduplicated, denylist-filtered and capped.
func (a *Assembler) hashtags(niche *catalog.NicheProfile, topic string) []string {
	rules := a.cat.HashtagRules()

	denied := make(map[string]struct{}, len(rules.Denylist))
	for _, tag := range rules.Denylist {
		denied[strings.ToLower(tag)] = struct{}{}
	}

	seen := make(map[string]struct{})
	out := make([]string, 0, rules.Max)
	add := func(tag string) {
		tag = strings.ToLower(tag)
		if len(out) >= rules.Max {
			return
		}
		if _, ok := denied[tag]; ok {
			return
		}
		if _, ok := seen[tag]; ok {
			return
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}

	for _, tag := range niche.Hashtags {
		add(tag)
	}
	for _, tag := range rules.Trending {
		add(tag)
	}

	fromTopic := 0
	for _, token := range topicTokens(topic) {
		if fromTopic >= rules.MaxFromTopic {
			break
		}
		before := len(out)
		add("#" + token)
		if len(out) > before {
			fromTopic++
		}
	}
	return out
}

// topicTokens lowercases the topic, strips non-alphanumeric runes from each
// word and keeps tokens longer than 3 characters.
func topicTokens(topic string) []string {
	var tokens []string
	for _, word := range strings.Fields(strings.ToLower(topic)) {
		var b strings.Builder
		for _, r := range word {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				b.WriteRune(r)
			}
		}
		if token := b.String(); utf8.RuneCountInString(token) > 3 {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

// tips assembles the fixed rule table output for this length/hook combo.
func (a *Assembler) tips(length *catalog.LengthProfile, hook *catalog.HookStyle, req model.ScriptRequest) []string {
	tables := a.cat.Tips()

	tips := make([]string, 0, maxTips)
	if tip, ok := tables.ByLength[length.ID]; ok {
		tips = append(tips, tip)
	}
	if tip, ok := tables.ByHook[hook.ID]; ok {
		tips = append(tips, tip)
	}
	if req.Tone != "" {
		tips = append(tips, fmt.Sprintf("Garde un ton %s du hook au payoff", req.Tone))
	}
	for _, tip := range tables.Algorithm {
		if len(tips) >= maxTips {
			break
		}
		tips = append(tips, tip)
	}
	return tips
}

// sectionBound is a [start, end) second range for one section.
type sectionBound struct {
	start, end int
}

// sectionBounds scales the profile's cumulative fractions to the total
// duration. Each section starts where the previous one ends and the last
// section ends at the total, so the bounds always partition [0, total].
// Without a CTA the payoff absorbs the CTA range.
func sectionBounds(l *catalog.LengthProfile, includeCTA bool) []sectionBound {
	total := l.TotalSeconds
	fractions := []float64{l.HookEnd, l.SetupEnd, l.ContentEnd, l.PayoffEnd, 1.0}

	bounds := make([]sectionBound, 0, len(fractions))
	start := 0
	for i, f := range fractions {
		end := int(math.Round(f * float64(total)))
		if end <= start {
			end = start + 1
		}
		if i == len(fractions)-1 || end > total {
			end = total
		}
		bounds = append(bounds, sectionBound{start: start, end: end})
		start = end
	}

	if !includeCTA {
		bounds[3].end = total
	}
	return bounds
}
