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

func (f *Flow) autoTrading(ctx context.Context, t *engine.Turn) error {
	t.Session.State = session.StateEnergyAutoTradingConfig

	kb := (&message.Keyboard{}).
		Row(message.Button{Text: "✅ Use Default Settings", Data: "energy_services:auto_trading_default"}).
		Row(message.Button{Text: "⬅️ Back", Data: "energy_services:start"})

	return t.Edit(ctx,
		"🤖 **AI-Powered Auto-Trading**\n\n"+
			"Let our AI automatically sell your excess energy during peak hours and buy during off-peak to maximize your savings!\n\n"+
			"**Please configure your preferences:**\n\n"+
			"• Minimum selling price: $0.12/kWh\n"+
			"• Maximum buying price: $0.08/kWh\n"+
			"• Optimization target: Financial (Financial/Environmental/Balanced)\n"+
			"• Reserve capacity: 20%\n"+
			"• Neighbor sharing: Enabled (Yes/No)\n"+
			"• Token rewards: Enabled (Yes/No)\n\n"+
			"You can edit these settings by sending a message with your preferences (one per line).\n"+
			"Example:\n"+
			"Min sell price: $0.15\n"+
			"Max buy price: $0.07\n"+
			"Optimization target: Environmental\n",
		kb)
}

// enableAutoTrading turns on auto-trading, layering any "key: value" lines
// the user sent over the defaults. An empty configText means defaults.
func (f *Flow) enableAutoTrading(ctx context.Context, t *engine.Turn, configText string) error {
	settings := energy.DefaultAutoTradeSettings()
	if configText != "" {
		settings.ApplyConfigText(configText)
	}
	settings.Enabled = true

	t.Session.AutoTrading = &settings
	t.Session.State = session.StateEnergyAutoTradingOn

	enabledWord := func(on bool) string {
		if on {
			return "Enabled"
		}
		return "Disabled"
	}

	kb := (&message.Keyboard{}).
		Row(message.Button{Text: "📈 Run Trading Simulation", Data: "energy_services:run_simulation"}).
		Row(message.Button{Text: "⬅️ Back to Energy Services", Data: "energy_services:start"})

	return t.Edit(ctx, fmt.Sprintf(
		"✅ **Auto-Trading Enabled!**\n\n"+
			"**Settings:**\n"+
			"• Min. selling price: $%s/kWh\n"+
			"• Max. buying price: $%s/kWh\n"+
			"• Optimization target: %s\n"+
			"• Reserve capacity: %s%%\n"+
			"• Neighbor sharing: %s\n"+
			"• Token rewards: %s\n\n"+
			"**Estimated monthly benefit: $%s**\n\n"+
			"I'll now automatically trade energy for you based on these preferences! "+
			"You can check your earnings anytime.",
		fnum(settings.MinSellPriceKWh), fnum(settings.MaxBuyPriceKWh),
		capitalize(settings.OptimizationTarget), fnum(settings.ReserveCapacityPct),
		enabledWord(settings.NeighborSharing), enabledWord(settings.TokenRewards),
		fnum(settings.EstimatedMonthlyBenefit(t.Session.SystemSize()))), kb)
}

func (f *Flow) runSimulation(ctx context.Context, t *engine.Turn) error {
	if err := t.Edit(ctx, "Running AI trading simulation...", nil); err != nil {
		f.logger.Warn("simulation progress message failed", "error", err)
	}

	outcome := f.EvaluateAutoTrade(ctx, t.Session)

	timeOfDay := "Off-peak hours"
	if outcome.Conditions.IsPeakTime {
		timeOfDay = "Peak hours"
	}

	var b strings.Builder
	fmt.Fprintf(&b,
		"🤖 **AI Trading Simulation Results**\n\n"+
			"**Action:** %s\n\n"+
			"**AI Explanation:**\n%s\n\n"+
			"**Details:**\n"+
			"• Time: %s\n"+
			"• Price: $%s/kWh\n"+
			"• Current production: %s kWh\n\n",
		titleWords(outcome.Action), outcome.Explanation,
		timeOfDay, fnum(outcome.Conditions.PriceUSD),
		fnum(energy.Round2(outcome.Conditions.HourlyProductionKWh)))

	if r := outcome.Result; r != nil {
		fmt.Fprintf(&b,
			"**Transaction:**\n"+
				"• Type: %s\n"+
				"• Amount: %s kWh\n"+
				"• Price: $%s/kWh\n"+
				"• Total: $%s\n",
			titleWords(r.Type), fnum(r.AmountKWh), fnum(r.PricePerKWh), fnum(r.Total))
		if r.CommunityScore > 0 {
			fmt.Fprintf(&b,
				"• Community contribution: +%s points\n"+
					"• Total community score: %s points\n",
				fnum(r.Contribution), fnum(r.CommunityScore))
		}
	}

	b.WriteString("\nThis is what the AI would do based on current conditions. " +
		"When auto-trading is enabled, these actions happen automatically!")

	kb := (&message.Keyboard{}).
		Row(message.Button{Text: "📊 View Energy Stats", Data: "energy_services:view_stats"}).
		Row(message.Button{Text: "⬅️ Back to Energy Services", Data: "energy_services:start"})

	return t.Edit(ctx, b.String(), kb)
}
