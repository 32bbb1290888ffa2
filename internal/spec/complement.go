package spec

import "strings"

// IUPAC complements. Anything else complements to N.
var complements = map[rune]rune{
	'A': 'T',
	'T': 'A',
	'G': 'C',
	'C': 'G',
	'R': 'Y',
	'Y': 'R',
	'S': 'S',
	'W': 'W',
	'K': 'M',
	'M': 'K',
	'B': 'V',
	'D': 'H',
	'V': 'B',
	'H': 'D',
	'N': 'N',
	'X': 'X',
}

// Complement returns the (not reversed) complement of an upper-cased seq.
func Complement(seq string) string {
	var sb strings.Builder
	sb.Grow(len(seq))
	for _, c := range strings.ToUpper(seq) {
		if comp, ok := complements[c]; ok {
			sb.WriteRune(comp)
		} else {
			sb.WriteRune('N')
		}
	}
	return sb.String()
}

// NormalizeStrand maps the strand spellings in use (forward/reverse,
// pos/neg, +/-) to Forward or Reverse. Unknown strands are returned as is.
func NormalizeStrand(strand string) string {
	switch strings.ToLower(strings.TrimSpace(strand)) {
	case "forward", "pos", "+":
		return Forward
	case "reverse", "neg", "-":
		return Reverse
	}
	return strand
}
