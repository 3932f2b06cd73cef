package common

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/params"
)

const (
	EtherDecimals = 18 // wei per ether
	GweiDecimals  = 9  // wei per gwei
)

// WeiToEther converts wei to an ether string without float precision loss.
// The fractional part keeps at least one digit, so 1 ether renders as "1.0".
func WeiToEther(wei *big.Int) string {
	return formatWithDecimals(wei, EtherDecimals)
}

// WeiToGwei converts wei to a gwei string without float precision loss
func WeiToGwei(wei *big.Int) string {
	return formatWithDecimals(wei, GweiDecimals)
}

// GweiToWei converts a whole number of gwei to wei
func GweiToWei(gwei int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(gwei), big.NewInt(params.GWei))
}

// formatWithDecimals converts integer to decimal string by inserting decimal point
// Example: formatWithDecimals(24981836, 9) = "0.024981836"
func formatWithDecimals(value *big.Int, decimals int) string {
	if value == nil {
		return "0.0"
	}

	sign := ""
	if value.Sign() < 0 {
		sign = "-"
	}
	s := fmt.Sprintf("%d", new(big.Int).Abs(value))

	// Pad with leading zeros if needed
	for len(s) <= decimals {
		s = "0" + s
	}

	// Insert decimal point, drop trailing zeros of the fraction
	pos := len(s) - decimals
	frac := strings.TrimRight(s[pos:], "0")
	if frac == "" {
		frac = "0"
	}
	return sign + s[:pos] + "." + frac
}
