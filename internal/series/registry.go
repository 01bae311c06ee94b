package series

import "sort"

// NamedSeries maps a short mnemonic to one Riksbank forecast series, so the
// CLI and HTTP surface can take "gdp" instead of "SEQGDPNAYCA".
type NamedSeries struct {
	Name        string
	ID          string
	Description string
}

// registry lists the thematic forecast series published through the
// monetary policy data API.
var registry = []NamedSeries{
	{"gdp", "SEQGDPNAYCA", "GDP, calendar-adjusted y/y growth"},
	{"gdp-yoy-na", "SEQGDPNAYNA", "GDP, unadjusted y/y growth"},
	{"gdp-yoy-sa", "SEQGDPNAYSA", "GDP, seasonally adjusted y/y growth"},
	{"gdp-level-saca", "SEQGDPNAASA", "GDP level, seasonally and calendar adjusted"},
	{"gdp-level-ca", "SEQGDPNAACA", "GDP level, calendar adjusted"},
	{"gdp-level-na", "SEQGDPNAANA", "GDP level, unadjusted"},
	{"gdp-gap", "SEQGDPGAPYSA", "GDP gap, share of potential GDP"},
	{"unemployment", "SEQLABUEASA", "Unemployment rate, seasonally adjusted LFS"},
	{"employed", "SEQLABEPASA", "Employed persons, seasonally adjusted"},
	{"labour-force", "SEQLABLFASA", "Labour force, seasonally adjusted"},
	{"cpi", "SEMCPINAYNA", "CPI, y/y inflation"},
	{"cpi-index", "SEMCPINAANA", "CPI index level"},
	{"cpif", "SEMCPIFNAYNA", "CPIF, y/y inflation"},
	{"cpif-ex-energy", "SEMCPIFFEXYNA", "CPIF excluding energy, y/y inflation"},
	{"cpif-ex-energy-index", "SEMCPIFFEXANA", "CPIF excluding energy, index level"},
	{"policy-rate", "SEQRATENAYNA", "Riksbank policy rate, quarterly mean"},
	{"hourly-labour-cost", "SEACOMNAYCA", "Hourly labour cost, y/y growth"},
	{"hourly-wage-na", "SEAWAGNAYCA", "Hourly wage, national accounts"},
	{"hourly-wage-nmo", "SEAWAGKLYNA", "Hourly wage, short-term wage statistics"},
	{"population", "SEPOPYRCA", "Population growth"},
	{"population-level", "SEQPOPNAANA", "Population level"},
	{"net-lending", "SEAPBSNAYNA", "General government net lending, share of GDP"},
	{"kix", "SEQKIXNAANA", "Nominal exchange rate, KIX index"},
}

// Resolve maps a mnemonic or a raw series identifier to a series ID.
// Unknown input is returned unchanged and assumed to be a raw ID; the
// upstream API is the authority on which identifiers exist.
func Resolve(nameOrID string) string {
	for _, s := range registry {
		if s.Name == nameOrID {
			return s.ID
		}
	}
	return nameOrID
}

// Registry returns the named series sorted by mnemonic.
func Registry() []NamedSeries {
	out := make([]NamedSeries, len(registry))
	copy(out, registry)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
