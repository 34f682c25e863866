package energy

import (
	"math/rand"
	"time"
)

// Production constants.
const (
	// BaseDailyYieldPerKW is the clear-sky daily output of 1 kW installed.
	BaseDailyYieldPerKW = 4.5

	// CarbonPerKWh is the grid carbon displaced per kWh produced, in kg.
	CarbonPerKWh = 0.5
)

// Simulator produces synthetic meter readings for a system size. The
// randomness source and clock are injectable; NewSimulator seeds from the
// wall clock for production use.
type Simulator struct {
	rand *rand.Rand
	now  func() time.Time
}

// NewSimulator returns a Simulator seeded from the current time.
func NewSimulator() *Simulator {
	return &Simulator{
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
		now:  time.Now,
	}
}

// NewSeededSimulator returns a Simulator with a fixed seed and clock,
// for deterministic tests.
func NewSeededSimulator(seed int64, now func() time.Time) *Simulator {
	return &Simulator{rand: rand.New(rand.NewSource(seed)), now: now}
}

// uniform returns a random float in [lo, hi).
func (s *Simulator) uniform(lo, hi float64) float64 {
	return lo + s.rand.Float64()*(hi-lo)
}

// Production simulates the last seven days plus today for a system of the
// given size. Weekends get a sunnier weather factor than weekdays.
func (s *Simulator) Production(systemSizeKW float64) ProductionSummary {
	today := s.now()
	base := systemSizeKW * BaseDailyYieldPerKW

	var days []DayProduction
	var total float64
	for offset := 7; offset >= 0; offset-- {
		day := today.AddDate(0, 0, -offset)
		factor := s.uniform(0.8, 1.05)
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			factor = s.uniform(0.95, 1.1)
		}
		kwh := Round1(base * factor)
		days = append(days, DayProduction{Date: day, KWh: kwh})
		total += kwh
	}

	total = Round1(total)
	return ProductionSummary{
		Days:     days,
		TotalKWh: total,
		PeakKW:   Round1(systemSizeKW * s.uniform(0.85, 0.95)),
		CarbonKg: Round1(total * CarbonPerKWh),
	}
}

// MeterReading returns the instantaneous output in kW for the given hour,
// following the same bell curve as CurrentOutputKW with a small jitter.
// The gateway's live meter stream uses it.
func (s *Simulator) MeterReading(systemSizeKW float64) float64 {
	out := CurrentOutputKW(systemSizeKW, s.now())
	if out == 0 {
		return 0
	}
	return Round2(out * s.uniform(0.92, 1.08))
}
