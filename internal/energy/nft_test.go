package energy

import (
	"testing"
	"time"
)

func TestMintNFTRenewableCredit(t *testing.T) {
	at := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	nft := MintNFT("123456789", NFTRenewableCredit, 100, "GreenToken Exchange", "Ethereum", at)

	wantID := "nft-1234-rene-1781524800"
	if nft.TokenID != wantID {
		t.Errorf("TokenID = %q, want %q", nft.TokenID, wantID)
	}
	if nft.Value != 2.5 {
		t.Errorf("Value = %v, want 2.5 (100 kWh at $0.025)", nft.Value)
	}
	if nft.Contract != "0x"+wantID+"abcdef1234567890abcdef12345678" {
		t.Errorf("Contract = %q", nft.Contract)
	}
	wantURL := "https://greentokenexchange.io/token/" + wantID
	if nft.MarketplaceURL != wantURL {
		t.Errorf("MarketplaceURL = %q, want %q", nft.MarketplaceURL, wantURL)
	}
	if nft.Blockchain != "Ethereum" {
		t.Errorf("Blockchain = %q", nft.Blockchain)
	}
}

func TestMintNFTFlatValue(t *testing.T) {
	at := time.Unix(1700000000, 0).UTC()
	nft := MintNFT("42", NFTGridFlexibility, 5, "FlexChain", "Polygon", at)

	if nft.Value != FlexibilityValue {
		t.Errorf("Value = %v, want %v", nft.Value, FlexibilityValue)
	}
	// Short user ids are used as-is.
	if nft.TokenID != "nft-42-grid-1700000000" {
		t.Errorf("TokenID = %q", nft.TokenID)
	}
}

func TestTokenizationOpportunities(t *testing.T) {
	opps := TokenizationOpportunities()
	if len(opps) != 2 {
		t.Fatalf("got %d opportunities, want 2", len(opps))
	}
	if opps[0].Type != NFTRenewableCredit || opps[0].Minimum != 100 {
		t.Errorf("first opportunity = %+v", opps[0])
	}
	if opps[1].Type != NFTGridFlexibility || opps[1].Blockchain != "Polygon" {
		t.Errorf("second opportunity = %+v", opps[1])
	}
}
