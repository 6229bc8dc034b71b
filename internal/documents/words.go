package documents

import (
	"strings"

	"github.com/shopspring/decimal"
)

// maxSpelled bounds what the spellers handle (below one thousand billion)
const maxSpelled = 999_999_999_999

// Speller spells a non-negative integer in words
type Speller interface {
	Spell(n int64) (string, bool)
	// Join connects the major and minor currency parts
	Join(major, minor string) string
}

var spellers = map[string]Speller{
	"fr": frenchSpeller{},
	"en": englishSpeller{},
}

type currencyWords struct {
	one, many           string
	minorOne, minorMany string
}

var currencies = map[string]map[string]currencyWords{
	"fr": {
		"MAD": {"dirham", "dirhams", "centime", "centimes"},
		"EUR": {"euro", "euros", "centime", "centimes"},
		"USD": {"dollar", "dollars", "cent", "cents"},
	},
	"en": {
		"MAD": {"dirham", "dirhams", "centime", "centimes"},
		"EUR": {"euro", "euros", "cent", "cents"},
		"USD": {"dollar", "dollars", "cent", "cents"},
	},
}

// AmountInWords spells amount in the given locale. Unknown locales, amounts
// out of range and cents of an unknown currency fall back to digits,
// e.g. "1200.00 MAD".
func AmountInWords(amount decimal.Decimal, locale, currency string) string {
	fallback := amount.StringFixed(2) + " " + currency

	sp, ok := spellers[strings.ToLower(locale)]
	if !ok || amount.IsNegative() {
		return fallback
	}

	amount = amount.Round(2)
	major := amount.Truncate(0)
	minor := amount.Sub(major).Shift(2)
	if major.GreaterThan(decimal.NewFromInt(maxSpelled)) {
		return fallback
	}

	words, ok := currencies[strings.ToLower(locale)][strings.ToUpper(currency)]
	if !ok {
		words = currencyWords{currency, currency, "", ""}
	}

	majorN, minorN := major.IntPart(), minor.IntPart()
	// no name for the minor unit: digits keep the cents
	if minorN > 0 && words.minorOne == "" {
		return fallback
	}
	majorWords, ok := sp.Spell(majorN)
	if !ok {
		return fallback
	}
	out := majorWords + " " + plural(majorN, words.one, words.many)

	if minorN > 0 {
		minorWords, ok := sp.Spell(minorN)
		if !ok {
			return fallback
		}
		out = sp.Join(out, minorWords+" "+plural(minorN, words.minorOne, words.minorMany))
	}
	return out
}

func plural(n int64, one, many string) string {
	if n <= 1 {
		return one
	}
	return many
}

// scaleChunks splits n into groups of three digits, most significant first
func scaleChunks(n int64) []int64 {
	var chunks []int64
	for n > 0 {
		chunks = append([]int64{n % 1000}, chunks...)
		n /= 1000
	}
	return chunks
}
