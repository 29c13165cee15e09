package domain

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// DigitsOnly strips everything that is not 0-9 from a phone handle.
func DigitsOnly(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeName -> nama customer dalam bentuk NFC, trim, upper case.
// Nama kosong menjadi "CLIENTE".
func NormalizeName(name string) string {
	n := strings.ToUpper(strings.TrimSpace(norm.NFC.String(name)))
	if n == "" {
		return "CLIENTE"
	}
	return n
}
