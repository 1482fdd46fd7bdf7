package rateplan

// Static per-plan price curves in ¢/kWh at 30-minute resolution, as published
// by the backend. Slot 0 is midnight; 48 slots cover the day.

const slotsPerDay = 48

func repeat(cents float64, n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = cents
	}
	return s
}

func concat(runs ...[]float64) []float64 {
	out := make([]float64, 0, slotsPerDay)
	for _, r := range runs {
		out = append(out, r...)
	}
	return out
}

var prices = map[ID][]float64{
	SDGETouDR1: concat(
		repeat(24.7, 12), repeat(36.8, 20), repeat(59.7, 10), repeat(36.8, 6),
	),
	SDGETouDR2: concat(
		repeat(31.6, 32), repeat(60.3, 10), repeat(31.6, 6),
	),
	SDGETouDRP: concat(
		repeat(27.9, 12), repeat(39.3, 20), repeat(47.6, 10), repeat(39.3, 6),
	),
	SDGETouElec: concat(
		repeat(31.72222222, 12), repeat(35.32222222, 20), repeat(62.32222222, 10), repeat(35.32222222, 6),
	),
	SDGEStandardDR: repeat(40.4, 48),
	NHTouDomestic: concat(
		repeat(8.384777778, 12), repeat(12.09077778, 18), repeat(24.25577778, 10), repeat(8.384777778, 8),
	),
	TexasXcelTOU: concat(
		repeat(9.375933333, 26), repeat(26.10743333, 12), repeat(9.375933333, 10),
	),
	TexasFreeNight: concat(
		repeat(8.86, 25), repeat(42.7835, 8), repeat(113.7835, 5), repeat(42.7835, 2), repeat(8.86, 8),
	),
}

// Prices returns the 48-slot ¢/kWh curve for the plan. Unknown plans fall
// back to the default plan's curve, matching the backend.
func (id ID) Prices() []float64 {
	p, ok := prices[id]
	if !ok {
		p = prices[Default]
	}
	out := make([]float64, len(p))
	copy(out, p)
	return out
}

// TierLabels returns the per-slot display tier for the plan's price curve.
func (id ID) TierLabels() []string {
	p := id.Prices()
	labels := make([]string, len(p))
	for i, c := range p {
		labels[i] = TierLabel(c)
	}
	return labels
}
