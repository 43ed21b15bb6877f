package model

import "time"

// ScriptRequest carries the parameters for one script generation.
type ScriptRequest struct {
	Topic          string `json:"topic"`
	Niche          string `json:"niche"`
	HookStyle      string `json:"hook_style"`
	Length         string `json:"length"`
	TargetAudience string `json:"target_audience,omitempty"`
	Tone           string `json:"tone,omitempty"`
	IncludeCTA     bool   `json:"include_cta"`
}

// ScriptSection is one structural part of a generated script.
type ScriptSection struct {
	Name        string `json:"name"`
	Timecode    string `json:"timecode"`
	Text        string `json:"text"`
	VisualNotes string `json:"visual_notes,omitempty"`
}

// GeneratedScript is the complete assembled script. It is built fresh per
// request and never mutated after construction.
type GeneratedScript struct {
	ID             string         `json:"id"`
	Hook           ScriptSection  `json:"hook"`
	Setup          ScriptSection  `json:"setup"`
	Content        ScriptSection  `json:"content"`
	Payoff         ScriptSection  `json:"payoff"`
	CTA            *ScriptSection `json:"cta,omitempty"`
	TotalDuration  int            `json:"total_duration"`
	Hashtags       []string       `json:"hashtags"`
	HookScore      float64        `json:"hook_score"`
	ViralPotential string         `json:"viral_potential"`
	Tips           []string       `json:"tips"`
	CreatedAt      time.Time      `json:"created_at"`
}

// Sections returns the script sections in playback order.
func (s *GeneratedScript) Sections() []ScriptSection {
	out := []ScriptSection{s.Hook, s.Setup, s.Content, s.Payoff}
	if s.CTA != nil {
		out = append(out, *s.CTA)
	}
	return out
}

// GenerateResponse is the API envelope for POST /api/generate.
type GenerateResponse struct {
	Success          bool             `json:"success"`
	Script           *GeneratedScript `json:"script,omitempty"`
	Error            string           `json:"error,omitempty"`
	GenerationTimeMs int64            `json:"generation_time_ms"`
}
