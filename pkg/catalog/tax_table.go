package catalog

import "sort"

// IPTUBracket is a progressive IPTU band over the venal value of a property.
type IPTUBracket struct {
	UpTo float64 `json:"up_to"` // inclusive upper bound, 0 means unbounded
	Rate float64 `json:"rate"`  // percent
}

// IPTUResidential is the residential rate table.
var IPTUResidential = []IPTUBracket{
	{UpTo: 150000, Rate: 0.6},
	{UpTo: 400000, Rate: 0.8},
	{UpTo: 1000000, Rate: 1.0},
	{UpTo: 0, Rate: 1.2},
}

// IPTUNonResidential applies to commercial lots and empty land.
var IPTUNonResidential = []IPTUBracket{
	{UpTo: 200000, Rate: 1.2},
	{UpTo: 0, Rate: 1.5},
}

// IPTURate returns the aliquot for venal value in table.
func IPTURate(table []IPTUBracket, venal float64) float64 {
	bounded := make([]IPTUBracket, 0, len(table))
	var open *IPTUBracket
	for i := range table {
		if table[i].UpTo == 0 {
			open = &table[i]
			continue
		}
		bounded = append(bounded, table[i])
	}
	sort.Slice(bounded, func(i, j int) bool { return bounded[i].UpTo < bounded[j].UpTo })

	for _, b := range bounded {
		if venal <= b.UpTo {
			return b.Rate
		}
	}
	if open != nil {
		return open.Rate
	}
	if len(bounded) > 0 {
		return bounded[len(bounded)-1].Rate
	}
	return 0
}

// EstimateIPTU returns the yearly tax for a venal value.
func EstimateIPTU(residential bool, venal float64) float64 {
	table := IPTUNonResidential
	if residential {
		table = IPTUResidential
	}
	return venal * IPTURate(table, venal) / 100
}
