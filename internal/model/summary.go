package model

// HookSummary is the API shape of one hook style for GET /api/hooks.
type HookSummary struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Efficacy int    `json:"efficacy"`
	Example  string `json:"example"`
}

// NicheSummary is the API shape of one niche profile for GET /api/niches.
type NicheSummary struct {
	ID             string   `json:"id"`
	Label          string   `json:"label"`
	Tone           string   `json:"tone"`
	Hashtags       []string `json:"hashtags"`
	PreferredHooks []string `json:"preferred_hooks"`
	BestHook       string   `json:"best_hook"`
}
