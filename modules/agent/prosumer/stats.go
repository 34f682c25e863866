package prosumer

import (
	"context"
	"fmt"
	"strings"

	"github.com/voltmesh/solarbot/internal/energy"
	"github.com/voltmesh/solarbot/internal/engine"
	"github.com/voltmesh/solarbot/internal/session"
	"github.com/voltmesh/solarbot/pkg/message"
)

func (f *Flow) trackProduction(ctx context.Context, t *engine.Turn) error {
	t.Session.State = session.StateEnergyViewingProduction

	production := f.sim.Production(t.Session.SystemSize())

	var days strings.Builder
	for _, day := range production.Days {
		fmt.Fprintf(&days, "• %s: %s kWh\n", day.Date.Format("2006-01-02"), fnum(day.KWh))
	}

	kb := (&message.Keyboard{}).
		Row(message.Button{Text: "💹 View Financial Stats", Data: "energy_services:view_stats"}).
		Row(message.Button{Text: "⬅️ Back", Data: "energy_services:start"})

	return t.Edit(ctx, fmt.Sprintf(
		"📈 **Energy Production Data**\n\n"+
			"Total this week: %s kWh\n"+
			"Peak production: %s kW\n"+
			"Carbon offset: %s kg CO2\n\n"+
			"**Daily breakdown:**\n%s\n",
		fnum(production.TotalKWh), fnum(production.PeakKW),
		fnum(production.CarbonKg), days.String()), kb)
}

func (f *Flow) viewStats(ctx context.Context, t *engine.Turn) error {
	t.Session.State = session.StateEnergyViewingStats

	stats := energy.ComputeStats(t.Session.SystemSize(), t.Session.Months(), f.now())

	kb := (&message.Keyboard{}).
		Row(message.Button{Text: "🏆 View Community Rank", Data: "energy_services:community_rank"}).
		Row(message.Button{Text: "⬅️ Back", Data: "energy_services:start"})

	return t.Edit(ctx, fmt.Sprintf(
		"📊 **Energy Dashboard**\n\n"+
			"**Production**\n"+
			"• Today: %s kWh\n"+
			"• This week: %s kWh\n"+
			"• This month: %s kWh\n"+
			"• Lifetime: %s kWh\n\n"+
			"**Consumption**\n"+
			"• Today: %s kWh\n"+
			"• This week: %s kWh\n"+
			"• Self-consumption: %s%%\n\n"+
			"**Grid Interaction**\n"+
			"• Exported: %s kWh\n"+
			"• Imported: %s kWh\n\n"+
			"**Financial Benefits**\n"+
			"• Monthly savings: $%s\n"+
			"• Monthly earnings: $%s\n"+
			"• Projected annual: $%s\n\n"+
			"**Environmental Impact**\n"+
			"• Carbon offset: %s kg\n"+
			"• Trees equivalent: %s\n"+
			"• Miles not driven: %s\n",
		fnum(stats.ProducedTodayKWh), fnum(stats.ProducedWeekKWh),
		fnum(stats.ProducedMonthKWh), fnum(stats.ProducedLifetimeKWh),
		fnum(stats.ConsumedTodayKWh), fnum(stats.ConsumedWeekKWh),
		fnum(stats.SelfConsumptionPct),
		fnum(stats.GridExportKWh), fnum(stats.GridImportKWh),
		fnum(stats.SavingsMonth), fnum(stats.EarningsMonth), fnum(stats.ProjectedAnnual),
		fnum(stats.CarbonSavedKg), fnum(stats.TreesEquiv), fnum(stats.MilesEquiv)), kb)
}

func (f *Flow) communityRank(ctx context.Context, t *engine.Turn) error {
	t.Session.State = session.StateEnergyCommunityRank

	score := fnum(t.Session.CommunityScore)

	return t.Edit(ctx, fmt.Sprintf(
		"🏆 **Community Energy Leaderboard**\n\n"+
			"**Your Rank:** #3 in your neighborhood\n\n"+
			"**Your Impact:**\n"+
			"• Community Score: %s points\n"+
			"• Energy Shared: 42.7 kWh this month\n"+
			"• CO₂ Prevented: 21.4 kg\n\n"+
			"**Top Contributors:**\n\n"+
			"1. **GreenPioneer** - 156.3 points\n"+
			"2. **SolarFamily** - 143.8 points\n"+
			"3. **You** - %s points\n"+
			"4. **EcoNeighbor** - 89.2 points\n"+
			"5. **SunshineHome** - 76.5 points\n\n"+
			"**Community Impact:**\n"+
			"Together, your neighborhood has generated 1,256 kWh of clean energy this month!",
		score, score), statsAndBack())
}
