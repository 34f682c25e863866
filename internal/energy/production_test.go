package energy

import (
	"testing"
	"time"
)

func fixedNow() time.Time {
	return time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC) // a Monday
}

func TestSimulatorProduction(t *testing.T) {
	sim := NewSeededSimulator(1, fixedNow)
	got := sim.Production(5)

	if len(got.Days) != 8 {
		t.Fatalf("got %d days, want 8 (last week through today)", len(got.Days))
	}
	if !got.Days[7].Date.Equal(fixedNow()) {
		t.Errorf("last day = %v, want today", got.Days[7].Date)
	}
	if !got.Days[0].Date.Equal(fixedNow().AddDate(0, 0, -7)) {
		t.Errorf("first day = %v, want a week ago", got.Days[0].Date)
	}

	// 5 kW * 4.5 kWh/kW/day with weather factors in [0.8, 1.1].
	var sum float64
	for _, d := range got.Days {
		if d.KWh < 18 || d.KWh > 24.8 {
			t.Errorf("day %v production %v out of range", d.Date, d.KWh)
		}
		sum += d.KWh
	}
	if got.TotalKWh != Round1(sum) {
		t.Errorf("TotalKWh = %v, want %v", got.TotalKWh, Round1(sum))
	}
	if got.PeakKW < 4.2 || got.PeakKW > 4.8 {
		t.Errorf("PeakKW = %v out of range for a 5 kW system", got.PeakKW)
	}
	if got.CarbonKg != Round1(got.TotalKWh*CarbonPerKWh) {
		t.Errorf("CarbonKg = %v, want total*0.5", got.CarbonKg)
	}
}

func TestSimulatorDeterministic(t *testing.T) {
	a := NewSeededSimulator(7, fixedNow).Production(3.5)
	b := NewSeededSimulator(7, fixedNow).Production(3.5)
	if a.TotalKWh != b.TotalKWh || a.PeakKW != b.PeakKW {
		t.Errorf("same seed produced different summaries: %v vs %v", a, b)
	}
}

func TestMeterReadingDarkHours(t *testing.T) {
	night := func() time.Time { return time.Date(2026, 6, 15, 2, 0, 0, 0, time.UTC) }
	sim := NewSeededSimulator(1, night)
	if got := sim.MeterReading(5); got != 0 {
		t.Errorf("MeterReading at night = %v, want 0", got)
	}

	noon := NewSeededSimulator(1, fixedNow)
	if got := noon.MeterReading(5); got < 4.1 || got > 4.9 {
		t.Errorf("MeterReading at noon = %v, want near 4.5", got)
	}
}
