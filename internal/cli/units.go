package cli

import (
	"fmt"
	"math/big"
	"strings"
)

// unitDecimals maps amount suffixes to their power of ten in wei
var unitDecimals = []struct {
	suffix   string
	decimals int
}{
	{"ether", 18},
	{"gwei", 9},
	{"wei", 0},
	{"eth", 18},
}

// parseAmount converts "1ether", "0.05 eth", "20gwei" or a plain wei integer to wei
func parseAmount(s string) (*big.Int, error) {
	value := strings.ToLower(strings.TrimSpace(s))
	decimals := 0
	for _, unit := range unitDecimals {
		if strings.HasSuffix(value, unit.suffix) {
			value = strings.TrimSpace(strings.TrimSuffix(value, unit.suffix))
			decimals = unit.decimals
			break
		}
	}
	if value == "" {
		return nil, fmt.Errorf("invalid amount %q", s)
	}

	whole, frac, _ := strings.Cut(value, ".")
	if whole == "" {
		whole = "0"
	}
	if len(frac) > decimals {
		return nil, fmt.Errorf("invalid amount %q: more than %d decimals", s, decimals)
	}
	digits := whole + frac + strings.Repeat("0", decimals-len(frac))
	for _, r := range digits {
		if r < '0' || r > '9' {
			return nil, fmt.Errorf("invalid amount %q", s)
		}
	}

	wei, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount %q", s)
	}
	return wei, nil
}
