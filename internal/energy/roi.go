package energy

import "math"

// Sizing and cost constants for residential rooftop solar.
const (
	// AnnualYieldPerKW is the expected yearly production of 1 kW installed.
	AnnualYieldPerKW = 1500.0

	// CostPerKW is the installed cost of 1 kW in USD.
	CostPerKW = 3000.0

	// DefaultConsumptionKWh is assumed when the user never entered a bill.
	DefaultConsumptionKWh = 350.0

	// DefaultRateUSD is the assumed grid price per kWh.
	DefaultRateUSD = 0.20
)

// EstimateROI sizes a system to cover the user's annual consumption and
// projects cost, savings, payback, and 20-year return. Zero or negative
// inputs fall back to the defaults.
func EstimateROI(consumptionKWh, rateUSD float64) ROIEstimate {
	if consumptionKWh <= 0 {
		consumptionKWh = DefaultConsumptionKWh
	}
	if rateUSD <= 0 {
		rateUSD = DefaultRateUSD
	}

	sizeKW := consumptionKWh * 12 / AnnualYieldPerKW
	cost := sizeKW * CostPerKW
	production := sizeKW * AnnualYieldPerKW
	savings := production * rateUSD
	payback := cost / savings
	roi := (20*savings - cost) / cost * 100

	return ROIEstimate{
		SystemSizeKW:     Round1(sizeKW),
		EstimatedCost:    Round2(cost),
		AnnualProduction: math.Round(production),
		AnnualSavings:    Round2(savings),
		PaybackYears:     Round1(payback),
		ROI20YearPct:     Round1(roi),
	}
}

// Round1 rounds to one decimal place.
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
