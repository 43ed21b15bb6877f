package service

import (
	"errors"
	"reflect"
	"strconv"
	"strings"
	"testing"

	"github.com/adrien9192/tiktok-viral-scripts/internal/apperr"
	"github.com/adrien9192/tiktok-viral-scripts/internal/model"
)

// parseTimecode splits "11-30s" into its start and end seconds.
func parseTimecode(t *testing.T, tc string) (int, int) {
	t.Helper()
	trimmed := strings.TrimSuffix(tc, "s")
	parts := strings.SplitN(trimmed, "-", 2)
	if len(parts) != 2 {
		t.Fatalf("malformed timecode %q", tc)
	}
	start, err := strconv.Atoi(parts[0])
	if err != nil {
		t.Fatalf("malformed timecode %q: %v", tc, err)
	}
	end, err := strconv.Atoi(parts[1])
	if err != nil {
		t.Fatalf("malformed timecode %q: %v", tc, err)
	}
	return start, end
}

func TestGenerate_ExampleScenario(t *testing.T) {
	a := NewAssembler(testCatalog(t))

	script, err := a.Generate(model.ScriptRequest{
		Topic:      "side hustle 5000€",
		Niche:      "business",
		HookStyle:  "confession",
		Length:     "medium",
		IncludeCTA: true,
	})
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	sections := script.Sections()
	if len(sections) != 5 {
		t.Fatalf("got %d sections, want 5", len(sections))
	}
	wantNames := []string{"hook", "setup", "content", "payoff", "cta"}
	for i, s := range sections {
		if s.Name != wantNames[i] {
			t.Errorf("section %d name = %q, want %q", i, s.Name, wantNames[i])
		}
		if s.Text == "" {
			t.Errorf("section %q has empty text", s.Name)
		}
	}

	if script.TotalDuration != 45 {
		t.Errorf("total_duration = %d, want 45", script.TotalDuration)
	}
	if script.Hook.Timecode != "0-3s" {
		t.Errorf("hook timecode = %q, want 0-3s", script.Hook.Timecode)
	}

	// Confession efficacy 90 scaled to 9.0; no business niche-fit bonus,
	// no penalty for a 17-rune topic.
	if !almostEqual(script.HookScore, 9.0) {
		t.Errorf("hook score = %.2f, want 9.0", script.HookScore)
	}
	if script.ViralPotential != PotentialExcellent {
		t.Errorf("viral potential = %q, want %q", script.ViralPotential, PotentialExcellent)
	}

	if !strings.Contains(script.Hook.Text, "side hustle 5000€") {
		t.Errorf("hook text %q does not mention the topic", script.Hook.Text)
	}
}

func TestGenerate_TimecodesPartitionDuration(t *testing.T) {
	a := NewAssembler(testCatalog(t))

	for _, length := range []string{"short", "medium", "long"} {
		for _, includeCTA := range []bool{true, false} {
			name := length
			if includeCTA {
				name += "_cta"
			}
			t.Run(name, func(t *testing.T) {
				script, err := a.Generate(model.ScriptRequest{
					Topic:      "routine du matin productive",
					Niche:      "lifestyle",
					HookStyle:  "curiosity_gap",
					Length:     length,
					IncludeCTA: includeCTA,
				})
				if err != nil {
					t.Fatalf("Generate() error: %v", err)
				}

				prev := 0
				for _, s := range script.Sections() {
					start, end := parseTimecode(t, s.Timecode)
					if start != prev {
						t.Errorf("section %q starts at %d, want %d (gap or overlap)", s.Name, start, prev)
					}
					if end <= start {
						t.Errorf("section %q has non-positive span %q", s.Name, s.Timecode)
					}
					prev = end
				}
				if prev != script.TotalDuration {
					t.Errorf("last section ends at %d, want total %d", prev, script.TotalDuration)
				}
			})
		}
	}
}

func TestGenerate_Idempotent(t *testing.T) {
	a := NewAssembler(testCatalog(t))

	req := model.ScriptRequest{
		Topic:          "investir en bourse débutant",
		Niche:          "finance",
		HookStyle:      "auto",
		Length:         "long",
		TargetAudience: "étudiants",
		Tone:           "posé",
		IncludeCTA:     true,
	}

	first, err := a.Generate(req)
	if err != nil {
		t.Fatalf("first Generate() error: %v", err)
	}
	second, err := a.Generate(req)
	if err != nil {
		t.Fatalf("second Generate() error: %v", err)
	}

	// ID and created_at are per-instance; all content fields must match.
	if !reflect.DeepEqual(first.Sections(), second.Sections()) {
		t.Errorf("sections differ between identical requests:\n%v\n%v", first.Sections(), second.Sections())
	}
	if !reflect.DeepEqual(first.Hashtags, second.Hashtags) {
		t.Errorf("hashtags differ: %v vs %v", first.Hashtags, second.Hashtags)
	}
	if !reflect.DeepEqual(first.Tips, second.Tips) {
		t.Errorf("tips differ: %v vs %v", first.Tips, second.Tips)
	}
	if first.HookScore != second.HookScore {
		t.Errorf("hook score differs: %v vs %v", first.HookScore, second.HookScore)
	}
	if first.ViralPotential != second.ViralPotential {
		t.Errorf("viral potential differs: %q vs %q", first.ViralPotential, second.ViralPotential)
	}
}

func TestGenerate_TopicVariationChangesContent(t *testing.T) {
	a := NewAssembler(testCatalog(t))

	base := model.ScriptRequest{Niche: "business", HookStyle: "education", Length: "medium"}

	reqA := base
	reqA.Topic = "side hustle freelance"
	reqB := base
	reqB.Topic = "dropshipping en 2026"

	scriptA, err := a.Generate(reqA)
	if err != nil {
		t.Fatalf("Generate(A) error: %v", err)
	}
	scriptB, err := a.Generate(reqB)
	if err != nil {
		t.Fatalf("Generate(B) error: %v", err)
	}

	if scriptA.Content.Text == scriptB.Content.Text {
		t.Skip("distinct topics landed on the same point window (possible but unlikely)")
	}
}

func TestGenerate_Validation(t *testing.T) {
	a := NewAssembler(testCatalog(t))

	tests := []struct {
		name      string
		req       model.ScriptRequest
		wantField string
	}{
		{
			name:      "topic below minimum",
			req:       model.ScriptRequest{Topic: "ab"},
			wantField: "topic",
		},
		{
			name:      "topic whitespace only",
			req:       model.ScriptRequest{Topic: "   "},
			wantField: "topic",
		},
		{
			name:      "topic above maximum",
			req:       model.ScriptRequest{Topic: strings.Repeat("a", 501)},
			wantField: "topic",
		},
		{
			name:      "audience above maximum",
			req:       model.ScriptRequest{Topic: "un sujet valide", TargetAudience: strings.Repeat("a", 201)},
			wantField: "target_audience",
		},
		{
			name:      "tone above maximum",
			req:       model.ScriptRequest{Topic: "un sujet valide", Tone: strings.Repeat("a", 101)},
			wantField: "tone",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.Generate(tt.req)
			if err == nil {
				t.Fatal("expected validation error")
			}
			var ve *apperr.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("error %v is not a ValidationError", err)
			}
			if ve.Field != tt.wantField {
				t.Errorf("field = %q, want %q", ve.Field, tt.wantField)
			}
		})
	}
}

func TestGenerate_TopicMinimumCitedInError(t *testing.T) {
	a := NewAssembler(testCatalog(t))

	_, err := a.Generate(model.ScriptRequest{Topic: "ab"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "3") {
		t.Errorf("error %q does not cite the minimum length of 3", err)
	}
}

func TestGenerate_UnknownIdentifiers(t *testing.T) {
	a := NewAssembler(testCatalog(t))

	tests := []struct {
		name string
		req  model.ScriptRequest
	}{
		{"unknown hook style", model.ScriptRequest{Topic: "un sujet valide", HookStyle: "nonexistent"}},
		{"unknown niche", model.ScriptRequest{Topic: "un sujet valide", Niche: "nonexistent"}},
		{"unknown length", model.ScriptRequest{Topic: "un sujet valide", Length: "nonexistent"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := a.Generate(tt.req)
			if err == nil {
				t.Fatal("expected not-found error")
			}
			if !apperr.IsNotFound(err) {
				t.Fatalf("error %v is not a NotFoundError", err)
			}
			if !strings.Contains(err.Error(), "nonexistent") {
				t.Errorf("error %q does not name the rejected identifier", err)
			}
		})
	}
}

func TestGenerate_Defaults(t *testing.T) {
	a := NewAssembler(testCatalog(t))

	script, err := a.Generate(model.ScriptRequest{Topic: "un sujet valide"})
	if err != nil {
		t.Fatalf("Generate() with defaults error: %v", err)
	}
	// Defaults: niche custom, length medium, hook auto.
	if script.TotalDuration != 45 {
		t.Errorf("default length total = %d, want 45 (medium)", script.TotalDuration)
	}
	if script.CTA != nil {
		t.Errorf("include_cta defaults to false, got a CTA section")
	}
}

func TestGenerate_AutoHookUsesNichePreference(t *testing.T) {
	a := NewAssembler(testCatalog(t))

	script, err := a.Generate(model.ScriptRequest{
		Topic:     "side hustle 5000€",
		Niche:     "business",
		HookStyle: "auto",
		Length:    "medium",
	})
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	// business's first preferred hook is education (87): 8.7 + 0.5 bonus.
	if !almostEqual(script.HookScore, 9.2) {
		t.Errorf("auto hook score = %.2f, want 9.2", script.HookScore)
	}
}

func TestGenerate_Hashtags(t *testing.T) {
	a := NewAssembler(testCatalog(t))

	script, err := a.Generate(model.ScriptRequest{
		Topic:  "side hustle fyp viral",
		Niche:  "business",
		Length: "short",
	})
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	if len(script.Hashtags) > 8 {
		t.Errorf("got %d hashtags, want at most 8", len(script.Hashtags))
	}

	seen := make(map[string]struct{})
	for _, tag := range script.Hashtags {
		if !strings.HasPrefix(tag, "#") {
			t.Errorf("hashtag %q lacks # prefix", tag)
		}
		if _, dup := seen[tag]; dup {
			t.Errorf("duplicate hashtag %q", tag)
		}
		seen[tag] = struct{}{}
	}

	for _, denied := range []string{"#fyp", "#viral", "#foryou", "#pourtoi"} {
		if _, ok := seen[denied]; ok {
			t.Errorf("denylisted tag %q present in %v", denied, script.Hashtags)
		}
	}

	// "hustle" survives tokenization; "fyp" and "viral" are denylisted.
	if _, ok := seen["#hustle"]; !ok {
		t.Errorf("expected topic-derived tag #hustle in %v", script.Hashtags)
	}

	// Seasonal trending tags ride along on every list.
	for _, trending := range []string{"#2026", "#newyear"} {
		if _, ok := seen[trending]; !ok {
			t.Errorf("expected trending tag %q in %v", trending, script.Hashtags)
		}
	}
}

func TestGenerate_ContentPointCount(t *testing.T) {
	a := NewAssembler(testCatalog(t))

	for _, topic := range []string{
		"side hustle 5000€", "routine du matin", "apprendre le japonais",
		"meal prep semaine", "courir un marathon",
	} {
		script, err := a.Generate(model.ScriptRequest{Topic: topic, Niche: "business", Length: "medium"})
		if err != nil {
			t.Fatalf("Generate(%q) error: %v", topic, err)
		}
		// Points are joined with ". " so the separator count bounds them.
		points := strings.Split(strings.TrimSuffix(script.Content.Text, "."), ". ")
		if len(points) < 3 || len(points) > 5 {
			t.Errorf("topic %q produced %d content points, want 3-5", topic, len(points))
		}
	}
}

func TestGenerate_AudienceSubstitution(t *testing.T) {
	a := NewAssembler(testCatalog(t))

	script, err := a.Generate(model.ScriptRequest{
		Topic:          "side hustle 5000€",
		Niche:          "business",
		Length:         "medium",
		TargetAudience: "jeunes entrepreneurs",
	})
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if !strings.Contains(script.Setup.Text, "jeunes entrepreneurs") {
		t.Errorf("setup %q does not mention the target audience", script.Setup.Text)
	}
}

func TestGenerate_TipsBounded(t *testing.T) {
	a := NewAssembler(testCatalog(t))

	script, err := a.Generate(model.ScriptRequest{
		Topic:  "side hustle 5000€",
		Niche:  "business",
		Length: "short",
		Tone:   "motivant",
	})
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if len(script.Tips) == 0 || len(script.Tips) > 5 {
		t.Errorf("got %d tips, want 1-5", len(script.Tips))
	}
}
