// Package sharelink encodes an engraving configuration into a link and
// reads it back. The query is a single JSON object:
//
//	?{"line1":"Forever","line2":"Yours","ringSize":"15"}
package sharelink

import (
	"bytes"
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"github.com/Faultbox/wordsring/internal/ring"
)

type payload struct {
	Line1    *string         `json:"line1"`
	Line2    *string         `json:"line2"`
	RingSize json.RawMessage `json:"ringSize"`
}

type outgoing struct {
	Line1    string `json:"line1"`
	Line2    string `json:"line2"`
	RingSize string `json:"ringSize"`
}

// Encode appends the configuration to base as an escaped JSON query.
func Encode(base string, cfg ring.Configuration) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// Encoding a struct of strings cannot fail.
	_ = enc.Encode(outgoing{
		Line1:    cfg.Line1,
		Line2:    cfg.Line2,
		RingSize: strconv.Itoa(int(cfg.Size)),
	})

	if i := strings.IndexByte(base, '?'); i >= 0 {
		base = base[:i]
	}
	return base + "?" + url.PathEscape(strings.TrimSpace(buf.String()))
}

// Decode parses a link, a bare query, or raw JSON. It never fails: input
// that is unparseable, lacks text, or names an unknown size yields the
// default configuration and false.
func Decode(link string) (ring.Configuration, bool) {
	def := ring.DefaultConfiguration()

	q := strings.TrimSpace(link)
	if !strings.HasPrefix(q, "{") {
		if i := strings.IndexByte(q, '?'); i >= 0 {
			q = q[i+1:]
		}
	}
	if strings.HasPrefix(q, "{") {
		// Unescaped JSON may contain '?', '#' and '%' in its text; only
		// drop what follows the closing brace.
		if i := strings.LastIndexByte(q, '}'); i >= 0 {
			q = q[:i+1]
		}
	} else {
		if i := strings.IndexByte(q, '#'); i >= 0 {
			q = q[:i]
		}
		if u, err := url.PathUnescape(q); err == nil {
			q = u
		}
	}
	q = strings.TrimSpace(q)
	if q == "" {
		return def, false
	}

	var p payload
	if err := json.Unmarshal([]byte(q), &p); err != nil {
		return def, false
	}

	var cfg ring.Configuration
	if p.Line1 != nil {
		cfg.Line1 = *p.Line1
	}
	if p.Line2 != nil {
		cfg.Line2 = *p.Line2
	}
	size, hasSize := parseSize(p.RingSize)

	if cfg.Line1 == "" && (cfg.Line2 == "" || !hasSize) {
		return def, false
	}
	if !hasSize {
		size = ring.DefaultSize
	}
	if !size.Valid() {
		return def, false
	}
	cfg.Size = size
	return cfg.Normalize(), true
}

// parseSize accepts the size as a JSON string or number.
func parseSize(raw json.RawMessage) (ring.SizeIndex, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, false
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		s = strings.TrimSpace(s)
		if s == "" {
			return 0, false
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, true
		}
		return ring.SizeIndex(n), true
	}

	var n int
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, true
	}
	return ring.SizeIndex(n), true
}
