package hash

import (
	"testing"
)

func TestSHA256Hex(t *testing.T) {
	// Known SHA256 of "hello"
	want := "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"
	got := SHA256Hex("hello")
	if got != want {
		t.Errorf("SHA256Hex(\"hello\") = %s, want %s", got, want)
	}
}

func TestSHA256Hex_Empty(t *testing.T) {
	// SHA256 of empty string
	want := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	got := SHA256Hex("")
	if got != want {
		t.Errorf("SHA256Hex(\"\") = %s, want %s", got, want)
	}
}

func TestTopicDigest_Deterministic(t *testing.T) {
	a := TopicDigest("side hustle 5000€")
	b := TopicDigest("side hustle 5000€")
	if a != b {
		t.Errorf("TopicDigest not deterministic: %d != %d", a, b)
	}
}

func TestTopicDigest_Normalization(t *testing.T) {
	tests := []struct {
		name string
		a, b string
	}{
		{"case insensitive", "Side Hustle", "side hustle"},
		{"surrounding whitespace", "  morning routine  ", "morning routine"},
		{"mixed", " Budget 2026", "budget 2026"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if TopicDigest(tt.a) != TopicDigest(tt.b) {
				t.Errorf("TopicDigest(%q) != TopicDigest(%q)", tt.a, tt.b)
			}
		})
	}
}

func TestTopicDigest_DistinctTopics(t *testing.T) {
	if TopicDigest("side hustle") == TopicDigest("morning routine") {
		t.Error("distinct topics should produce distinct digests")
	}
}

func TestPickIndex(t *testing.T) {
	tests := []struct {
		name   string
		digest uint64
		n      int
		want   int
	}{
		{"zero digest", 0, 4, 0},
		{"wraps modulo n", 9, 4, 1},
		{"single element", 12345, 1, 0},
		{"exact multiple", 8, 4, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PickIndex(tt.digest, tt.n)
			if got != tt.want {
				t.Errorf("PickIndex(%d, %d) = %d, want %d", tt.digest, tt.n, got, tt.want)
			}
		})
	}
}

func TestPickIndex_InRange(t *testing.T) {
	for _, topic := range []string{"a topic", "another one", "budget", "skincare routine"} {
		d := TopicDigest(topic)
		for _, n := range []int{1, 3, 5, 7} {
			idx := PickIndex(d, n)
			if idx < 0 || idx >= n {
				t.Errorf("PickIndex(%d, %d) = %d out of range", d, n, idx)
			}
		}
	}
}
