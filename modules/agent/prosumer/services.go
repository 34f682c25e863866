package prosumer

import (
	"context"
	"strconv"
	"strings"

	"github.com/voltmesh/solarbot/internal/engine"
	"github.com/voltmesh/solarbot/internal/session"
	"github.com/voltmesh/solarbot/pkg/message"
)

// HandleAction implements engine.Flow.
func (f *Flow) HandleAction(ctx context.Context, t *engine.Turn, action string, args []string) error {
	switch action {
	case "start":
		return f.showMenu(ctx, t)
	case "sell_energy":
		return f.sellEnergy(ctx, t)
	case "sell_to_grid":
		return f.sellToGrid(ctx, t)
	case "share_p2p":
		// An optional arg names the chosen recipient from the P2P screen;
		// the actual counterparty comes from the trade catalog.
		return f.shareP2P(ctx, t)
	case "p2p_sharing":
		return f.p2pSharing(ctx, t)
	case "track_production":
		return f.trackProduction(ctx, t)
	case "view_stats":
		return f.viewStats(ctx, t)
	case "community_rank":
		return f.communityRank(ctx, t)
	case "tokenize_energy":
		return f.tokenizeEnergy(ctx, t)
	case "create_renewable_nft":
		return f.createNFT(ctx, t, energyNFTRenewable)
	case "create_flexibility_nft":
		return f.createNFT(ctx, t, energyNFTFlexibility)
	case "auto_trading":
		return f.autoTrading(ctx, t)
	case "auto_trading_default":
		return f.enableAutoTrading(ctx, t, "")
	case "run_simulation":
		return f.runSimulation(ctx, t)
	default:
		return f.comingSoon(ctx, t)
	}
}

// HandleText implements engine.Flow. The only text the energy flow accepts
// is the auto-trading preference block.
func (f *Flow) HandleText(ctx context.Context, t *engine.Turn, text string) (bool, error) {
	if t.Session.State != session.StateEnergyAutoTradingConfig {
		return false, nil
	}
	return true, f.enableAutoTrading(ctx, t, text)
}

func (f *Flow) showMenu(ctx context.Context, t *engine.Turn) error {
	t.Session.State = session.StateEnergyMenu

	kb := (&message.Keyboard{}).
		Row(message.Button{Text: "☀️⚡ Sell My Excess Solar", Data: "energy_services:sell_energy"}).
		Row(message.Button{Text: "📊 Track My Production", Data: "energy_services:track_production"}).
		Row(message.Button{Text: "💹 View Energy Stats", Data: "energy_services:view_stats"}).
		Row(message.Button{Text: "🎟️ Tokenize as NFTs", Data: "energy_services:tokenize_energy"}).
		Row(message.Button{Text: "🤖 Enable Auto-Trading", Data: "energy_services:auto_trading"}).
		Row(message.Button{Text: "🔌 P2P Energy Sharing", Data: "energy_services:p2p_sharing"}).
		Row(message.Button{Text: "⬅️ Back to Main Menu", Data: "solar_onboarding:back_to_main"})

	return t.Edit(ctx,
		"Welcome to Energy Services! 🌟\n\n"+
			"As a prosumer with installed solar panels, you can now participate in the energy market. "+
			"What would you like to do today?",
		kb)
}

func (f *Flow) comingSoon(ctx context.Context, t *engine.Turn) error {
	return t.Edit(ctx,
		"This energy service feature is coming soon! Check back for updates.",
		backToServices())
}

func backToServices() *message.Keyboard {
	return (&message.Keyboard{}).
		Row(message.Button{Text: "⬅️ Back to Energy Services", Data: "energy_services:start"})
}

func statsAndBack() *message.Keyboard {
	return (&message.Keyboard{}).
		Row(message.Button{Text: "📊 View My Stats", Data: "energy_services:view_stats"}).
		Row(message.Button{Text: "⬅️ Back to Energy Services", Data: "energy_services:start"})
}

func fnum(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// titleWords turns an action code like "sell_to_grid" into "Sell To Grid".
func titleWords(code string) string {
	words := strings.Split(code, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
