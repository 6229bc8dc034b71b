package documents

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFrenchSpeller(t *testing.T) {
	tests := map[int64]string{
		0:         "zéro",
		1:         "un",
		16:        "seize",
		17:        "dix-sept",
		21:        "vingt et un",
		71:        "soixante et onze",
		77:        "soixante-dix-sept",
		80:        "quatre-vingts",
		81:        "quatre-vingt-un",
		91:        "quatre-vingt-onze",
		100:       "cent",
		200:       "deux cents",
		201:       "deux cent un",
		1000:      "mille",
		1200:      "mille deux cents",
		2000:      "deux mille",
		80000:     "quatre-vingt mille",
		200000:    "deux cent mille",
		1000000:   "un million",
		2000000:   "deux millions",
		200000000: "deux cents millions",
	}
	for n, want := range tests {
		got, ok := frenchSpeller{}.Spell(n)
		assert.True(t, ok)
		assert.Equal(t, want, got, "%d", n)
	}
}

func TestEnglishSpeller(t *testing.T) {
	tests := map[int64]string{
		0:       "zero",
		15:      "fifteen",
		42:      "forty-two",
		1200:    "one thousand two hundred",
		3000010: "three million ten",
	}
	for n, want := range tests {
		got, ok := englishSpeller{}.Spell(n)
		assert.True(t, ok)
		assert.Equal(t, want, got, "%d", n)
	}
}

func TestAmountInWords(t *testing.T) {
	d := decimal.RequireFromString

	assert.Equal(t, "mille deux cents dirhams", AmountInWords(d("1200.00"), "fr", "MAD"))
	assert.Equal(t, "un dirham et cinquante centimes", AmountInWords(d("1.50"), "fr", "MAD"))
	assert.Equal(t, "one thousand two hundred dirhams and five centimes", AmountInWords(d("1200.05"), "en", "MAD"))
	assert.Equal(t, "cent GBP", AmountInWords(d("100"), "fr", "GBP"))
}

func TestAmountInWordsFallback(t *testing.T) {
	d := decimal.RequireFromString

	assert.Equal(t, "1200.00 MAD", AmountInWords(d("1200"), "ar", "MAD"))
	assert.Equal(t, "-5.00 MAD", AmountInWords(d("-5"), "fr", "MAD"))
	assert.Equal(t, "1000000000000.00 MAD", AmountInWords(d("1000000000000"), "fr", "MAD"))
	assert.Equal(t, "12.50 GBP", AmountInWords(d("12.50"), "fr", "GBP"))
	assert.Equal(t, "12.50 GBP", AmountInWords(d("12.50"), "en", "GBP"))
	// same input, same answer
	assert.Equal(t, AmountInWords(d("7"), "xx", "MAD"), AmountInWords(d("7"), "xx", "MAD"))
}
