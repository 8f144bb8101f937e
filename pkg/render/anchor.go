package render

import (
	"strconv"
	"strings"
	"unicode"
)

// fallbackAnchor is used for headings whose text has no letters or digits.
const fallbackAnchor = "section"

// Slugger generates GitHub-compatible anchor ids and disambiguates repeats
// within one document. The zero value is not usable; call NewSlugger.
type Slugger struct {
	// seenCounts maps every id handed out or reserved to the last suffix
	// tried for it.
	seenCounts map[string]int
}

// NewSlugger creates a Slugger. Reserved ids are treated as already used,
// so headings never collide with ids the surrounding page owns.
func NewSlugger(reserved ...string) *Slugger {
	s := &Slugger{seenCounts: make(map[string]int, len(reserved))}
	for _, id := range reserved {
		s.seenCounts[id] = 0
	}
	return s
}

// Anchor converts heading text to an id. Repeated ids get -1, -2 suffixes,
// skipping any suffixed id that is already in use.
func (s *Slugger) Anchor(text string) string {
	base := Slugify(text)
	if base == "" {
		base = fallbackAnchor
	}

	id := base
	if count, taken := s.seenCounts[base]; taken {
		for {
			count++
			id = base + "-" + strconv.Itoa(count)
			if _, used := s.seenCounts[id]; !used {
				break
			}
		}
		s.seenCounts[base] = count
	}

	s.seenCounts[id] = 0
	return id
}

// Slugify converts text to a lowercase, hyphen-separated identifier:
// letters and digits are kept, '-' and '_' are kept, spaces become hyphens,
// other punctuation is dropped, and hyphen runs are collapsed and trimmed.
func Slugify(text string) string {
	var buf strings.Builder
	buf.Grow(len(text))

	prevHyphen := false

	for _, ch := range strings.ToLower(text) {
		switch {
		case unicode.IsLetter(ch) || unicode.IsNumber(ch):
			buf.WriteRune(ch)
			prevHyphen = false
		case ch == '_':
			buf.WriteRune(ch)
			prevHyphen = false
		case ch == '-' || unicode.IsSpace(ch):
			if !prevHyphen && buf.Len() > 0 {
				buf.WriteByte('-')
				prevHyphen = true
			}
		}
	}

	return strings.Trim(buf.String(), "-")
}
