package service

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/adrien9192/tiktok-viral-scripts/internal/catalog"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, err := catalog.Load(filepath.Join("..", "..", "config", "viral_codes.yaml"))
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	return c
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 0.001
}

func TestHookScore(t *testing.T) {
	cat := testCatalog(t)
	scorer := NewScorer(cat)

	mustHook := func(id string) *catalog.HookStyle {
		h, err := cat.HookStyle(id)
		if err != nil {
			t.Fatalf("hook %s: %v", id, err)
		}
		return h
	}
	mustNiche := func(id string) *catalog.NicheProfile {
		n, err := cat.Niche(id)
		if err != nil {
			t.Fatalf("niche %s: %v", id, err)
		}
		return n
	}

	tests := []struct {
		name  string
		hook  string
		niche string
		topic string
		want  float64
	}{
		{
			// confession (90) is not preferred by business: plain scaling.
			name: "efficacy scaled, no bonus", hook: "confession", niche: "business",
			topic: "side hustle 5000€", want: 9.0,
		},
		{
			// confession is finance's first preferred hook.
			name: "best preferred hook bonus", hook: "confession", niche: "finance",
			topic: "livret A optimisé", want: 9.5,
		},
		{
			// education is finance's second preferred hook.
			name: "secondary preferred hook bonus", hook: "education", niche: "finance",
			topic: "assurance vie 2026", want: 9.0,
		},
		{
			// 6 runes → short-topic penalty.
			name: "short topic penalty", hook: "confession", niche: "business",
			topic: "crypto", want: 8.5,
		},
		{
			// "argent" is both short and on the generic list.
			name: "short and generic penalties stack", hook: "confession", niche: "business",
			topic: "argent", want: 8.0,
		},
		{
			// controversy (95) is business's second preferred hook.
			name: "highest efficacy with bonus stays within range", hook: "controversy", niche: "business",
			topic: "les agences immobilières", want: 9.8,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scorer.HookScore(mustHook(tt.hook), mustNiche(tt.niche), tt.topic)
			if !almostEqual(got, tt.want) {
				t.Errorf("HookScore(%s, %s, %q) = %.2f, want %.2f", tt.hook, tt.niche, tt.topic, got, tt.want)
			}
			if got < 0 || got > 10 {
				t.Errorf("HookScore out of [0,10]: %.2f", got)
			}
		})
	}
}

func TestViralPotential(t *testing.T) {
	scorer := NewScorer(testCatalog(t))

	tests := []struct {
		score float64
		want  string
	}{
		{10.0, PotentialExcellent},
		{8.5, PotentialExcellent},
		{8.49, PotentialGood},
		{7.0, PotentialGood},
		{6.99, PotentialAverage},
		{0.0, PotentialAverage},
	}

	for _, tt := range tests {
		if got := scorer.ViralPotential(tt.score); got != tt.want {
			t.Errorf("ViralPotential(%.2f) = %q, want %q", tt.score, got, tt.want)
		}
	}
}
