package terms

import (
	"fmt"
	"regexp"
	"strings"
)

// Term is a literal search string. Matching against note content is
// case-insensitive.
type Term string

type Kind string

const (
	KindText    Kind = "text"
	KindHashtag Kind = "hashtag"
	KindMention Kind = "mention"
)

var (
	separatorPattern = regexp.MustCompile(`,| OR `)
	metaCharacters   = `\^$*?[]{}()|`
)

// ValidationError explains why a raw term string produced no usable terms.
type ValidationError struct {
	Input  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid search terms %q: %s", e.Input, e.Reason)
}

func (t Term) String() string {
	return string(t)
}

func (t Term) Kind() Kind {
	switch {
	case strings.HasPrefix(string(t), "#"):
		return KindHashtag
	case strings.HasPrefix(string(t), "@"):
		return KindMention
	default:
		return KindText
	}
}

// Validate splits raw on commas and the literal " OR " separator, trims each
// entry, drops empties and exact duplicates, and rejects the whole input when
// nothing usable remains or any term is not a plain literal.
func Validate(raw string) ([]Term, error) {
	parts := separatorPattern.Split(raw, -1)

	validated := make([]Term, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}

		if idx := strings.IndexAny(trimmed, metaCharacters); idx >= 0 {
			return nil, &ValidationError{
				Input:  raw,
				Reason: fmt.Sprintf("term %q contains %q; search terms are literal text, not patterns", trimmed, trimmed[idx:idx+1]),
			}
		}

		if _, dup := seen[trimmed]; dup {
			continue
		}
		seen[trimmed] = struct{}{}
		validated = append(validated, Term(trimmed))
	}

	if len(validated) == 0 {
		return nil, &ValidationError{Input: raw, Reason: "no search terms given"}
	}

	return validated, nil
}

// Strings returns the terms as plain strings, preserving order.
func Strings(ts []Term) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = string(t)
	}
	return out
}

// Join renders the terms the way they are shown in report titles.
func Join(ts []Term) string {
	return strings.Join(Strings(ts), ", ")
}
