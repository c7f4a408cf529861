package catalog

import (
	"strconv"
	"strings"
)

const (
	// Copper is the base currency unit; every amount is stored in copper.
	Copper int64 = 1
	// Silver is worth 100 copper.
	Silver int64 = 100
	// Gold is worth 100 silver.
	Gold int64 = 10000
)

// DecomposeCopper converts a copper amount into display tiers.
//
// Precondition: total >= 0.
// Postcondition: gold*10000 + silver*100 + copper == total; 0 <= silver < 100; 0 <= copper < 100.
func DecomposeCopper(total int64) (gold, silver, copper int64) {
	gold = total / Gold
	remainder := total % Gold
	silver = remainder / Silver
	copper = remainder % Silver
	return gold, silver, copper
}

// FormatCopper returns a compact "1g 5s 20c" string for the given amount.
// Zero tiers are omitted, except that silver is kept between non-zero gold
// and copper, and "0c" is printed for zero. Negative amounts get a leading "-".
func FormatCopper(total int64) string {
	if total < 0 {
		return "-" + FormatCopper(-total)
	}
	g, s, c := DecomposeCopper(total)

	var parts []string
	if g > 0 {
		parts = append(parts, itoa(g)+"g")
	}
	if s > 0 || (g > 0 && c > 0) {
		parts = append(parts, itoa(s)+"s")
	}
	if c > 0 || (g == 0 && s == 0) {
		parts = append(parts, itoa(c)+"c")
	}
	return strings.Join(parts, " ")
}

func itoa(n int64) string { return strconv.FormatInt(n, 10) }
