package documents

import "strings"

// frenchSpeller uses the traditional spelling: hyphens inside tens,
// "et" for 21..71, plural cents/vingts only when nothing follows
type frenchSpeller struct{}

var frUnits = []string{
	"", "un", "deux", "trois", "quatre", "cinq", "six", "sept", "huit", "neuf",
	"dix", "onze", "douze", "treize", "quatorze", "quinze", "seize",
}

var frTens = []string{"", "dix", "vingt", "trente", "quarante", "cinquante", "soixante"}

func (frenchSpeller) Spell(n int64) (string, bool) {
	if n < 0 || n > maxSpelled {
		return "", false
	}
	if n == 0 {
		return "zéro", true
	}

	chunks := scaleChunks(n)
	parts := make([]string, 0, len(chunks))
	for i, c := range chunks {
		if c == 0 {
			continue
		}
		switch len(chunks) - 1 - i {
		case 0:
			parts = append(parts, frBelow1000(c, true))
		case 1:
			// mille is invariable and never takes "un"
			if c == 1 {
				parts = append(parts, "mille")
			} else {
				parts = append(parts, frBelow1000(c, false)+" mille")
			}
		case 2:
			parts = append(parts, frBelow1000(c, true)+" "+plural(c, "million", "millions"))
		case 3:
			parts = append(parts, frBelow1000(c, true)+" "+plural(c, "milliard", "milliards"))
		}
	}
	return strings.Join(parts, " "), true
}

func (frenchSpeller) Join(major, minor string) string {
	return major + " et " + minor
}

func frBelow1000(n int64, final bool) string {
	h, r := n/100, n%100
	var parts []string
	if h > 0 {
		switch {
		case h == 1:
			parts = append(parts, "cent")
		case r == 0 && final:
			parts = append(parts, frUnits[h]+" cents")
		default:
			parts = append(parts, frUnits[h]+" cent")
		}
	}
	if r > 0 {
		parts = append(parts, frBelow100(r, final))
	}
	return strings.Join(parts, " ")
}

func frBelow100(n int64, final bool) string {
	if n < 17 {
		return frUnits[n]
	}
	if n < 20 {
		return "dix-" + frUnits[n-10]
	}

	t, u := n/10, n%10
	switch t {
	case 7:
		if u == 1 {
			return "soixante et onze"
		}
		return "soixante-" + frBelow100(10+u, final)
	case 8:
		if u == 0 {
			if final {
				return "quatre-vingts"
			}
			return "quatre-vingt"
		}
		return "quatre-vingt-" + frUnits[u]
	case 9:
		return "quatre-vingt-" + frBelow100(10+u, final)
	}

	switch u {
	case 0:
		return frTens[t]
	case 1:
		return frTens[t] + " et un"
	default:
		return frTens[t] + "-" + frUnits[u]
	}
}
