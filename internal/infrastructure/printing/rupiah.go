// Package printing renders money, spreadsheets and PDF receipts for residents
// and admins.
package printing

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var idPrinter = message.NewPrinter(language.Indonesian)

// FormatRupiah renders whole rupiah the Indonesian way: Rp50.000, -Rp1.250
func FormatRupiah(amount int64) string {
	if amount < 0 {
		// -MinInt64 overflows; format the magnitude through the printer instead
		return "-Rp" + idPrinter.Sprintf("%d", uint64(-(amount+1))+1)
	}
	return "Rp" + idPrinter.Sprintf("%d", amount)
}

// FormatNumber groups digits with the Indonesian thousands separator
func FormatNumber(n int64) string {
	return idPrinter.Sprintf("%d", n)
}
