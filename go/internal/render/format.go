// Package render formats the auction read model as plain text for terminal views.
// Every function is pure: the same input always produces the same output.
package render

import (
	"strconv"
	"strings"
)

const (
	// MaxTickerItems bounds the sales ticker
	MaxTickerItems = 10
	// MaxHighestBuys bounds the highest buys board
	MaxHighestBuys = 5

	tickerSeparator = "  •  "
	noneLabel       = "-"
)

// Crore formats an amount in crore as ₹X Cr, printing the shortest exact decimal
func Crore(v float64) string {
	return "₹" + strconv.FormatFloat(v, 'f', -1, 64) + " Cr"
}

// CroreFixed formats an amount in crore with a fixed number of decimals
func CroreFixed(v float64, decimals int) string {
	return "₹" + strconv.FormatFloat(v, 'f', decimals, 64) + " Cr"
}

func fixed(v float64, decimals int) string {
	return strconv.FormatFloat(v, 'f', decimals, 64)
}

func orNone(s string) string {
	if strings.TrimSpace(s) == "" {
		return noneLabel
	}
	return s
}
