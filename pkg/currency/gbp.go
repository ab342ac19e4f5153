package currency

import "fmt"

// FormatPence renders an amount in minor units as pounds, e.g. 340 -> "£3.40".
func FormatPence(pence int) string {
	negative := pence < 0
	if negative {
		pence = -pence
	}

	result := fmt.Sprintf("£%d.%02d", pence/100, pence%100)
	if negative {
		result = "-" + result
	}
	return result
}
