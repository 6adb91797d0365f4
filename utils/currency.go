package utils

import "fmt"

// FormatAmount renders a money value with two decimals for receipts and
// report payloads.
func FormatAmount(amount float64) string {
	return fmt.Sprintf("%.2f", amount)
}
