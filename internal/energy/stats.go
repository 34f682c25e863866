package energy

import (
	"math"
	"time"
)

// MonthlyYieldPerKW is the assumed monthly production of 1 kW installed.
const MonthlyYieldPerKW = 120.0

// CurrentOutputKW models today's instantaneous production as a triangular
// bell over the daylight hours 07:00-18:00, peaking at noon at 90% of the
// nameplate size. Outside daylight it is zero.
func CurrentOutputKW(systemSizeKW float64, now time.Time) float64 {
	hour := now.Hour()
	if hour <= 6 || hour >= 19 {
		return 0
	}
	f := float64(hour - 6)
	if f > 6 {
		f = 12 - f
	}
	return systemSizeKW * 0.9 * f / 6
}

// ComputeStats builds the prosumer dashboard from the system size and how
// long the system has been active, anchored on a nominal monthly yield.
func ComputeStats(systemSizeKW float64, monthsActive int, now time.Time) Stats {
	if monthsActive <= 0 {
		monthsActive = 12
	}

	monthly := systemSizeKW * MonthlyYieldPerKW
	today := CurrentOutputKW(systemSizeKW, now)
	week := monthly / 4
	lifetime := monthly * float64(monthsActive)

	carbon := lifetime * CarbonPerKWh

	return Stats{
		ProducedTodayKWh:    Round1(today),
		ProducedWeekKWh:     Round1(week),
		ProducedMonthKWh:    Round1(monthly),
		ProducedLifetimeKWh: Round1(lifetime),

		ConsumedTodayKWh:    Round1(today * 0.7),
		ConsumedWeekKWh:     Round1(week * 0.8),
		ConsumedMonthKWh:    Round1(monthly * 0.8),
		ConsumedLifetimeKWh: Round1(lifetime * 0.8),

		GridExportKWh:      Round1(monthly * 0.3),
		GridImportKWh:      Round1(monthly * 0.1),
		SelfConsumptionPct: 70,

		SavingsMonth:    Round2(monthly * 0.8 * 0.15),
		EarningsMonth:   Round2(monthly * 0.3 * 0.12),
		ProjectedAnnual: Round2(monthly * 12 * 0.8 * 0.15),

		CarbonSavedKg: Round1(carbon),
		TreesEquiv:    math.Round(carbon / 60),
		MilesEquiv:    Round1(lifetime * 2.5),
	}
}
