package sharelink

import (
	"strings"
	"testing"

	"github.com/Faultbox/wordsring/internal/ring"
)

func TestEncodeDecode(t *testing.T) {
	tests := []ring.Configuration{
		{Line1: "Forever", Line2: "Yours", Size: 15},
		{Line1: "A&B <3", Size: 8},
		{Line1: "", Line2: "only two", Size: 20},
		{Line1: "quote \" and ? mark", Size: 15},
	}

	for _, cfg := range tests {
		link := Encode("https://example.com/ring", cfg)
		if strings.Count(link, "?") != 1 {
			t.Errorf("link %q should carry exactly one query separator", link)
		}
		got, ok := Decode(link)
		if !ok {
			t.Errorf("Decode(%q) rejected", link)
			continue
		}
		if got != cfg {
			t.Errorf("round trip = %+v, want %+v", got, cfg)
		}
	}
}

func TestEncodeReplacesExistingQuery(t *testing.T) {
	link := Encode("https://example.com/?old", ring.Configuration{Line1: "x", Size: 15})
	if strings.Contains(link, "old") {
		t.Errorf("old query kept: %q", link)
	}
}

func TestDecodeRawForms(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want ring.Configuration
		ok   bool
	}{
		{"raw query", `?{"line1":"Hi","line2":"","ringSize":"12"}`, ring.Configuration{Line1: "Hi", Size: 12}, true},
		{"numeric size", `{"line1":"Hi","ringSize":16}`, ring.Configuration{Line1: "Hi", Size: 16}, true},
		{"missing size uses default", `{"line1":"Hi"}`, ring.Configuration{Line1: "Hi", Size: ring.DefaultSize}, true},
		{"fragment ignored", `?{"line1":"Hi","ringSize":"15"}#top`, ring.Configuration{Line1: "Hi", Size: 15}, true},
		{"line2 needs size", `{"line1":"","line2":"X"}`, ring.DefaultConfiguration(), false},
		{"line2 with size", `{"line1":"","line2":"X","ringSize":"9"}`, ring.Configuration{Line2: "X", Size: 9}, true},
		{"no text", `{"line1":"","line2":"","ringSize":"15"}`, ring.DefaultConfiguration(), false},
		{"unknown size", `{"line1":"Hi","ringSize":"999"}`, ring.DefaultConfiguration(), false},
		{"garbage size", `{"line1":"Hi","ringSize":"big"}`, ring.DefaultConfiguration(), false},
		{"not json", `?line1=Hi`, ring.DefaultConfiguration(), false},
		{"empty", ``, ring.DefaultConfiguration(), false},
		{"truncated", `?%7B%22line1%22`, ring.DefaultConfiguration(), false},
		{"raw hash in text", `?{"line1":"No. #1","ringSize":"15"}`, ring.Configuration{Line1: "No. #1", Size: 15}, true},
		{"raw hash with fragment", `https://wordsring.app/?{"line1":"#1"}#top`, ring.Configuration{Line1: "#1", Size: ring.DefaultSize}, true},
		{"bare json with question mark", `{"line1":"Why?","line2":"Because","ringSize":"10"}`, ring.Configuration{Line1: "Why?", Line2: "Because", Size: 10}, true},
		{"raw percent in text", `?{"line1":"100%","ringSize":"15"}`, ring.Configuration{Line1: "100%", Size: 15}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Decode(tt.in)
			if ok != tt.ok || got != tt.want {
				t.Errorf("Decode(%q) = %+v, %v; want %+v, %v", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}
