package market

import "strings"

// countryCurrency maps common corridor endpoints to ISO 4217 codes.
var countryCurrency = map[string]string{
	"US":                   "USD",
	"USA":                  "USD",
	"UNITED STATES":        "USD",
	"INDIA":                "INR",
	"UK":                   "GBP",
	"UNITED KINGDOM":       "GBP",
	"ENGLAND":              "GBP",
	"NIGERIA":              "NGN",
	"GHANA":                "GHS",
	"KENYA":                "KES",
	"EGYPT":                "EGP",
	"MEXICO":               "MXN",
	"BRAZIL":               "BRL",
	"CANADA":               "CAD",
	"AUSTRALIA":            "AUD",
	"PHILIPPINES":          "PHP",
	"PAKISTAN":             "PKR",
	"BANGLADESH":           "BDT",
	"SRI LANKA":            "LKR",
	"NEPAL":                "NPR",
	"VIETNAM":              "VND",
	"CHINA":                "CNY",
	"JAPAN":                "JPY",
	"SINGAPORE":            "SGD",
	"UAE":                  "AED",
	"UNITED ARAB EMIRATES": "AED",
	"SAUDI ARABIA":         "SAR",
	"GERMANY":              "EUR",
	"FRANCE":               "EUR",
	"SPAIN":                "EUR",
	"ITALY":                "EUR",
	"IRELAND":              "EUR",
	"NETHERLANDS":          "EUR",
	"EUROZONE":             "EUR",
}

var knownCodes = func() map[string]bool {
	m := make(map[string]bool, len(countryCurrency))
	for _, code := range countryCurrency {
		m[code] = true
	}
	return m
}()

// ResolveCorridor turns "US to INDIA" or "usd to inr" into a currency pair.
// ok is false when either side is unknown.
func ResolveCorridor(corridor string) (base, quote string, ok bool) {
	upper := strings.ToUpper(strings.Join(strings.Fields(corridor), " "))
	from, to, found := strings.Cut(upper, " TO ")
	if !found {
		return "", "", false
	}
	base, ok1 := currencyFor(from)
	quote, ok2 := currencyFor(to)
	if !ok1 || !ok2 || base == quote {
		return "", "", false
	}
	return base, quote, true
}

func currencyFor(place string) (string, bool) {
	place = strings.TrimSpace(place)
	if knownCodes[place] {
		return place, true
	}
	code, ok := countryCurrency[place]
	return code, ok
}
