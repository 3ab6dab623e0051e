package utils

import "strings"

var phoneSeparators = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", ".", "")

// NormalizePhone strips the separators a phone widget may leave in the value
// and adds the leading "+". A value holding only the country calling code
// normalizes to the empty string.
func NormalizePhone(phone, countryCode string) string {
	phone = phoneSeparators.Replace(strings.TrimSpace(phone))
	phone = strings.TrimPrefix(phone, "+")
	if phone == "" || phone == strings.TrimPrefix(countryCode, "+") {
		return ""
	}
	return "+" + phone
}
