package documents

import "strings"

type englishSpeller struct{}

var enUnits = []string{
	"", "one", "two", "three", "four", "five", "six", "seven", "eight", "nine",
	"ten", "eleven", "twelve", "thirteen", "fourteen", "fifteen", "sixteen",
	"seventeen", "eighteen", "nineteen",
}

var enTens = []string{"", "", "twenty", "thirty", "forty", "fifty", "sixty", "seventy", "eighty", "ninety"}

var enScales = []string{"", "thousand", "million", "billion"}

func (englishSpeller) Spell(n int64) (string, bool) {
	if n < 0 || n > maxSpelled {
		return "", false
	}
	if n == 0 {
		return "zero", true
	}

	chunks := scaleChunks(n)
	parts := make([]string, 0, len(chunks))
	for i, c := range chunks {
		if c == 0 {
			continue
		}
		words := enBelow1000(c)
		if scale := enScales[len(chunks)-1-i]; scale != "" {
			words += " " + scale
		}
		parts = append(parts, words)
	}
	return strings.Join(parts, " "), true
}

func (englishSpeller) Join(major, minor string) string {
	return major + " and " + minor
}

func enBelow1000(n int64) string {
	h, r := n/100, n%100
	var parts []string
	if h > 0 {
		parts = append(parts, enUnits[h]+" hundred")
	}
	if r > 0 {
		if r < 20 {
			parts = append(parts, enUnits[r])
		} else if r%10 == 0 {
			parts = append(parts, enTens[r/10])
		} else {
			parts = append(parts, enTens[r/10]+"-"+enUnits[r%10])
		}
	}
	return strings.Join(parts, " ")
}
