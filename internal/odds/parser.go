// Package odds parses free-form bookmaker odds typed into a single text field.
package odds

import (
	"math"
	"regexp"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// MaxQuotes is the number of odds a bundle can carry (home/draw/away).
const MaxQuotes = 3

// minOdd is the exclusive lower bound for a usable decimal odd.
var minOdd = decimal.RequireFromString("1.01")

// leadingNumber matches the numeric prefix of a token; "2.50€" reads as 2.50.
// The second group is the exponent's digits.
var leadingNumber = regexp.MustCompile(`^[+-]?(?:\d+(?:\.\d+)?|\.\d+)(?:[eE][+-]?(\d+))?`)

// maxExponentDigits bounds scientific notation before decimal expands it into
// a big.Int; anything past float64 range is rejected later anyway.
const maxExponentDigits = 3

// Bundle is an ordered list of 1 to MaxQuotes decimal odds. Position i maps to
// outcome i: home/draw/away for 1X2, the tracked outcome otherwise.
type Bundle []float64

// Complete reports whether the bundle has one odd per 1X2 outcome.
func (b Bundle) Complete() bool {
	return len(b) == MaxQuotes
}

// Parse extracts up to MaxQuotes valid odds from raw, in input order.
// A token counts by its leading number. Tokens without one, or whose number is
// not a finite value above 1.01, are dropped without error, since partial input
// while typing is expected. It returns false when no valid odd remains.
func Parse(raw string) (Bundle, bool) {
	var bundle Bundle
	for _, token := range tokenize(raw) {
		quote, ok := parseQuote(token)
		if !ok {
			continue
		}
		bundle = append(bundle, quote)
		if len(bundle) == MaxQuotes {
			break
		}
	}
	if len(bundle) == 0 {
		return nil, false
	}
	return bundle, true
}

// ParseSingle reads only the first token of raw. Simple markets use it; an
// invalid first token means no odd, later tokens are not consulted.
func ParseSingle(raw string) (float64, bool) {
	tokens := tokenize(raw)
	if len(tokens) == 0 {
		return 0, false
	}
	return parseQuote(tokens[0])
}

// Ptr is ParseSingle returning nil when no odd is present.
func Ptr(raw string) *float64 {
	odd, ok := ParseSingle(raw)
	if !ok {
		return nil
	}
	return &odd
}

// parseQuote accepts a token whose numeric prefix is a finite number above 1.01
func parseQuote(token string) (float64, bool) {
	match := leadingNumber.FindStringSubmatch(token)
	if match == nil || match[0][0] == '-' || len(match[1]) > maxExponentDigits {
		return 0, false
	}
	number := strings.TrimPrefix(match[0], "+")
	if number[0] == '.' {
		number = "0" + number
	}

	d, err := decimal.NewFromString(number)
	if err != nil {
		return 0, false
	}
	if !d.GreaterThan(minOdd) {
		return 0, false
	}
	f := d.InexactFloat64()
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// tokenize splits on runs of '/', ';', ',' and whitespace. A comma between two
// digits is read as a decimal separator when the current number has no decimal
// point yet, so "1,85" is one token and "1.85,2.10" is two.
func tokenize(raw string) []string {
	var (
		tokens   []string
		current  strings.Builder
		hasPoint bool
	)
	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
		hasPoint = false
	}

	runes := []rune(raw)
	for i, r := range runes {
		switch {
		case r == ',':
			if !hasPoint && current.Len() > 0 && isDigit(runes[i-1]) && i+1 < len(runes) && isDigit(runes[i+1]) {
				current.WriteRune('.')
				hasPoint = true
				continue
			}
			flush()
		case r == '/' || r == ';' || unicode.IsSpace(r):
			flush()
		default:
			if r == '.' {
				hasPoint = true
			}
			current.WriteRune(r)
		}
	}
	flush()
	return tokens
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
