package netopia

// Numeric ISO 3166-1 country codes as the gateway expects them on the
// wire. Callers pass country names; the mapping stays inside the client.
var countryCodes = map[string]int{
	"Romania":        642,
	"România":        642,
	"Moldova":        498,
	"Bulgaria":       100,
	"Hungary":        348,
	"Germany":        276,
	"France":         250,
	"Italy":          380,
	"Spain":          724,
	"United Kingdom": 826,
}

const defaultCountryCode = 642

func countryCode(name string) int {
	if code, ok := countryCodes[name]; ok {
		return code
	}
	return defaultCountryCode
}
