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

// Fixed mint amounts: kWh of production for renewable credits, flexibility
// events for grid tokens.
const (
	energyNFTRenewable   = energy.NFTRenewableCredit
	energyNFTFlexibility = energy.NFTGridFlexibility

	renewableMintKWh   = 100.0
	flexibilityEvents  = 5.0
	nftDateLayout      = "2006-01-02"
	nftTokenizeCaption = "Turn your renewable energy production and grid contributions into valuable digital assets!"
)

func (f *Flow) tokenizeEnergy(ctx context.Context, t *engine.Turn) error {
	t.Session.State = session.StateEnergyTokenize

	var b strings.Builder
	b.WriteString("🎟️ **Energy NFT Tokenization**\n\n" +
		nftTokenizeCaption + "\n\n" +
		"**Available Tokenization Options:**\n\n")

	for i, opp := range energy.TokenizationOpportunities() {
		fmt.Fprintf(&b,
			"%d. **%s**\n"+
				"   • Value: $%s/%s\n"+
				"   • Minimum: %s %s\n"+
				"   • Marketplace: %s\n"+
				"   • Blockchain: %s\n\n",
			i+1, opp.Name,
			fnum(opp.RatePerUnit), opp.Unit,
			fnum(opp.Minimum), unitWord(opp),
			opp.Marketplace, opp.Blockchain)
	}

	kb := (&message.Keyboard{}).
		Row(message.Button{Text: "💎 Create Renewable Credit NFT", Data: "energy_services:create_renewable_nft"}).
		Row(message.Button{Text: "⚡ Create Flexibility NFT", Data: "energy_services:create_flexibility_nft"}).
		Row(message.Button{Text: "⬅️ Back", Data: "energy_services:start"})

	return t.Edit(ctx, b.String(), kb)
}

func (f *Flow) createNFT(ctx context.Context, t *engine.Turn, tokenType string) error {
	amount := flexibilityEvents
	if tokenType == energy.NFTRenewableCredit {
		amount = renewableMintKWh
	}

	nft := f.mintNFT(t.Session, tokenType, amount)
	t.Session.State = session.StateEnergyNFTCreated

	// Registering the token on the network is best-effort; the mint itself
	// is simulated locally.
	providerID := f.tradeProvider(ctx, "")
	if _, err := f.net.CreateEnergyNFT(ctx, providerID, amount); err != nil {
		f.logger.Warn("energy nft registration failed", "user_id", t.Session.UserID, "error", err)
	}

	kb := (&message.Keyboard{}).
		Row(message.Button{Text: "🔗 View on Marketplace", URL: nft.MarketplaceURL}).
		Row(message.Button{Text: "⬅️ Back to Energy Services", Data: "energy_services:start"})

	return t.Edit(ctx, fmt.Sprintf(
		"✅ **NFT Created Successfully!**\n\n"+
			"Token ID: `%s`\n"+
			"Blockchain: %s\n"+
			"Value: $%s\n"+
			"Created: %s\n\n"+
			"**Contract Address:**\n`%s`\n\n"+
			"Your energy contribution has been tokenized! You can now trade this NFT "+
			"on supported marketplaces or hold it as proof of your green energy production.",
		nft.TokenID, nft.Blockchain, fnum(nft.Value),
		nft.CreatedAt.Format(nftDateLayout), nft.Contract), kb)
}

// unitWord pluralizes sensibly for the minimum line ("kWhs" reads badly).
func unitWord(opp energy.NFTOpportunity) string {
	if opp.Unit == "MWh" {
		return "kWh"
	}
	return opp.Unit + "s"
}
