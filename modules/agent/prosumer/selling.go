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

// Amounts offered when the user trades manually from the menu, in kWh.
const (
	manualSaleKWh  = 5.0
	manualShareKWh = 3.5
)

func (f *Flow) sellEnergy(ctx context.Context, t *engine.Turn) error {
	t.Session.State = session.StateEnergySell

	production := f.sim.Production(t.Session.SystemSize())
	today := production.Today()
	excess := energy.Round1(today * 0.6)

	kb := (&message.Keyboard{}).
		Row(message.Button{Text: "💸 Sell to Grid", Data: "energy_services:sell_to_grid"}).
		Row(message.Button{Text: "👥 Share with Neighbors", Data: "energy_services:share_p2p"}).
		Row(message.Button{Text: "⬅️ Back", Data: "energy_services:start"})

	return t.Edit(ctx, fmt.Sprintf(
		"📊 **Your Energy Production**\n\n"+
			"Today's production: %s kWh\n"+
			"Weekly total: %s kWh\n"+
			"Peak production: %s kW\n\n"+
			"🔋 **Available to Sell**\n\n"+
			"Estimated excess: %s kWh\n"+
			"Current grid price: $%s/kWh\n"+
			"Potential earnings: $%s\n\n"+
			"Would you like to sell your excess energy now?",
		fnum(today), fnum(production.TotalKWh), fnum(production.PeakKW),
		fnum(excess), fnum(energy.GridSaleFloor),
		fnum(energy.Round2(excess*energy.GridSaleFloor))), kb)
}

func (f *Flow) sellToGrid(ctx context.Context, t *engine.Turn) error {
	result := f.executeGridSale(ctx, t.Session, manualSaleKWh)
	t.Session.State = session.StateEnergySaleComplete

	var b strings.Builder
	fmt.Fprintf(&b,
		"✅ **Energy Sale Complete!**\n\n"+
			"Amount sold: %s kWh\n"+
			"Price: $%s/kWh\n"+
			"Total earnings: $%s\n"+
			"Transaction ID: %s\n\n",
		fnum(result.AmountKWh), fnum(result.PricePerKWh),
		fnum(result.Total), result.TransactionID)
	writeNFTReward(&b, result.NFT)
	b.WriteString("Thank you for contributing to a greener grid!")

	return t.Edit(ctx, b.String(), statsAndBack())
}

func (f *Flow) shareP2P(ctx context.Context, t *engine.Turn) error {
	result := f.executeP2PShare(ctx, t.Session, manualShareKWh)
	t.Session.State = session.StateEnergySharingComplete

	var b strings.Builder
	fmt.Fprintf(&b,
		"✅ **P2P Energy Sharing Complete!**\n\n"+
			"Amount shared: %s kWh\n"+
			"Price: $%s/kWh\n"+
			"Total earnings: $%s\n"+
			"Recipient: %s\n"+
			"Transaction ID: %s\n\n"+
			"Community contribution: +%s points\n"+
			"Total community score: %s points\n\n",
		fnum(result.AmountKWh), fnum(result.PricePerKWh),
		fnum(result.Total), result.Recipient, result.TransactionID,
		fnum(result.Contribution), fnum(result.CommunityScore))
	writeNFTReward(&b, result.NFT)
	b.WriteString("Thank you for sharing with your community!")

	return t.Edit(ctx, b.String(), statsAndBack())
}

func (f *Flow) p2pSharing(ctx context.Context, t *engine.Turn) error {
	t.Session.State = session.StateEnergyP2PSharing

	production := f.sim.Production(t.Session.SystemSize())
	available := energy.Round1(production.Today() * 0.6)

	kb := (&message.Keyboard{}).
		Row(message.Button{Text: "🏠 Share with Neighbor #4521", Data: "energy_services:share_p2p:neighbor"}).
		Row(message.Button{Text: "🏫 Share with Community Center", Data: "energy_services:share_p2p:community"}).
		Row(message.Button{Text: "🏪 Share with Small Business", Data: "energy_services:share_p2p:business"}).
		Row(message.Button{Text: "⬅️ Back", Data: "energy_services:start"})

	return t.Edit(ctx, fmt.Sprintf(
		"🔌 **Peer-to-Peer Energy Sharing**\n\n"+
			"Share your excess solar energy directly with your neighbors and earn community points!\n\n"+
			"**Available to share:** %s kWh\n\n"+
			"**Nearby energy consumers:**\n\n"+
			"1. **Neighbor #4521** - 1.2 miles away\n   Needs: 2.5 kWh, Offers: $0.14/kWh\n\n"+
			"2. **Community Center** - 0.8 miles away\n   Needs: 4.0 kWh, Offers: $0.13/kWh\n\n"+
			"3. **Small Business #782** - 1.5 miles away\n   Needs: 3.0 kWh, Offers: $0.15/kWh\n\n"+
			"Select a recipient to share your excess energy:",
		fnum(available)), kb)
}

func writeNFTReward(b *strings.Builder, nft *energy.NFT) {
	if nft == nil {
		return
	}
	fmt.Fprintf(b,
		"🎁 **NFT Reward**\n\n"+
			"Token ID: %s\n"+
			"Value: $%s\n"+
			"Marketplace: %s\n\n",
		nft.TokenID, fnum(nft.Value), nft.MarketplaceURL)
}
