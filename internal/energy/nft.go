package energy

import (
	"fmt"
	"strings"
	"time"
)

// NFT token types.
const (
	NFTRenewableCredit = "renewable_credit"
	NFTGridFlexibility = "grid_flexibility"
	NFTCommunityShare  = "community_share"
)

// RenewableCreditRate is the value per kWh for renewable-credit tokens.
const RenewableCreditRate = 0.025

// FlexibilityValue is the flat value for flexibility and community tokens.
const FlexibilityValue = 15.0

// TokenizationOpportunities are the offers shown on the tokenize screen.
func TokenizationOpportunities() []NFTOpportunity {
	return []NFTOpportunity{
		{
			Type:        NFTRenewableCredit,
			Name:        "Renewable Energy Credits",
			RatePerUnit: 25.0,
			Unit:        "MWh",
			Minimum:     100,
			Marketplace: "GreenToken Exchange",
			Blockchain:  "Ethereum",
		},
		{
			Type:        NFTGridFlexibility,
			Name:        "Grid Flexibility Tokens",
			RatePerUnit: 15.0,
			Unit:        "event",
			Minimum:     5,
			Marketplace: "FlexChain",
			Blockchain:  "Polygon",
		},
	}
}

// MintNFT simulates minting an energy token. The token id embeds the first
// four characters of the user id and token type plus the mint time, the
// contract address is derived from the token id, and the marketplace URL is
// built from the marketplace name.
func MintNFT(userID, tokenType string, amountKWh float64, marketplace, blockchain string, now time.Time) NFT {
	value := FlexibilityValue
	if tokenType == NFTRenewableCredit {
		value = Round2(amountKWh * RenewableCreditRate)
	}

	tokenID := fmt.Sprintf("nft-%s-%s-%d", prefix(userID, 4), prefix(tokenType, 4), now.Unix())
	host := strings.ToLower(strings.ReplaceAll(marketplace, " ", ""))

	return NFT{
		TokenID:        tokenID,
		Type:           tokenType,
		AmountKWh:      amountKWh,
		Value:          value,
		Contract:       fmt.Sprintf("0x%sabcdef1234567890abcdef12345678", tokenID),
		Blockchain:     blockchain,
		Marketplace:    marketplace,
		MarketplaceURL: fmt.Sprintf("https://%s.io/token/%s", host, tokenID),
		CreatedAt:      now,
	}
}

func prefix(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
