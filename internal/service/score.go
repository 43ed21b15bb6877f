package service

import (
	"unicode/utf8"

	"github.com/adrien9192/tiktok-viral-scripts/internal/catalog"
)

const (
	// Efficacy is configured as a 0-100 percentage; scores live on 0-10.
	efficacyScale = 10.0

	// Niche-fit bonus: the niche's first preferred hook gets the full
	// bonus, any other preferred hook a smaller one.
	bonusBestHook      = 0.5
	bonusPreferredHook = 0.3

	// Penalties for topics too thin to carry a hook.
	penaltyShortTopic   = 0.5
	penaltyGenericTopic = 0.5
	shortTopicRunes     = 10

	scoreMin = 0.0
	scoreMax = 10.0

	// Viral-potential thresholds.
	thresholdExcellent = 8.5
	thresholdGood      = 7.0
)

// Viral-potential labels, tiered by hook score.
const (
	PotentialExcellent = "Excellent potentiel viral"
	PotentialGood      = "Bon potentiel"
	PotentialAverage   = "Potentiel moyen"
)

// Scorer computes hook scores and viral-potential labels. All methods are
// pure: the same inputs always yield the same score.
type Scorer struct {
	cat *catalog.Catalog
}

func NewScorer(cat *catalog.Catalog) *Scorer {
	return &Scorer{cat: cat}
}

// HookScore combines the hook style's configured efficacy with a niche-fit
// bonus and topic penalties, clamped to [0, 10].
func (s *Scorer) HookScore(hook *catalog.HookStyle, niche *catalog.NicheProfile, topic string) float64 {
	score := float64(hook.Efficacy) / efficacyScale
	score += s.NicheFitBonus(hook, niche)
	score -= s.TopicPenalty(topic)

	if score < scoreMin {
		return scoreMin
	}
	if score > scoreMax {
		return scoreMax
	}
	return score
}

// NicheFitBonus returns the fixed bonus for using one of the niche's
// preferred hook styles.
func (s *Scorer) NicheFitBonus(hook *catalog.HookStyle, niche *catalog.NicheProfile) float64 {
	for i, id := range niche.PreferredHooks {
		if id == hook.ID {
			if i == 0 {
				return bonusBestHook
			}
			return bonusPreferredHook
		}
	}
	return 0
}

// TopicPenalty penalizes extremely short or generic topics. Both penalties
// can apply at once.
func (s *Scorer) TopicPenalty(topic string) float64 {
	var penalty float64
	if utf8.RuneCountInString(topic) < shortTopicRunes {
		penalty += penaltyShortTopic
	}
	if s.cat.IsGenericTopic(topic) {
		penalty += penaltyGenericTopic
	}
	return penalty
}

// ViralPotential derives the categorical label from a hook score.
func (s *Scorer) ViralPotential(score float64) string {
	switch {
	case score >= thresholdExcellent:
		return PotentialExcellent
	case score >= thresholdGood:
		return PotentialGood
	default:
		return PotentialAverage
	}
}
