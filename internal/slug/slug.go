// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug builds and checks the URL-safe identifiers used for page
// and post paths and for heading anchors.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxLen is the longest slug a page or post may have.
const MaxLen = 300

var valid = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// Generate turns arbitrary text into a slug: accents are folded to their
// base letters, everything else that is not a letter or digit becomes a
// single hyphen, and the result is lowercase ASCII.
//
//	"Café Society, Vol. 2" → "cafe-society-vol-2"
func Generate(s string) string {
	folded, _, err := transform.String(fold(), s)
	if err != nil {
		folded = s
	}

	var b strings.Builder
	b.Grow(len(folded))
	pendingHyphen := false
	for _, r := range strings.ToLower(folded) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		// Apostrophes join words rather than split them.
		if r == '\'' || r == '’' {
			continue
		}
		pendingHyphen = true
	}
	return b.String()
}

// fold decomposes, drops combining marks and recomposes. A transformer
// holds state, so each call gets its own.
func fold() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}

// Valid reports whether s is a well-formed slug of at most MaxLen bytes.
func Valid(s string) bool {
	return len(s) <= MaxLen && valid.MatchString(s)
}
