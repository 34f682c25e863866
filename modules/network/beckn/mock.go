package beckn

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/voltmesh/solarbot/internal/energy"
)

// Canned catalogs served in mock mode so every journey works without
// network access. Shapes mirror what the sandbox gateway returns.

func mockSubsidies() []energy.Subsidy {
	return []energy.Subsidy{
		{
			ID:            "incentive-res-01",
			ProviderID:    "provider-sfge",
			ProviderName:  "SF Grid Energy",
			FulfillmentID: "615",
			Name:          "Residential Solar Incentive",
			Description:   "30% rebate on rooftop solar installation costs",
			Price:         "2500",
			Currency:      "USD",
			Tags: map[string]map[string]string{
				"Eligibility": {
					"Property type": "residential",
					"Max system":    "10 kW",
				},
			},
		},
		{
			ID:            "incentive-battery-02",
			ProviderID:    "provider-sfge",
			ProviderName:  "SF Grid Energy",
			FulfillmentID: "615",
			Name:          "Battery Storage Credit",
			Description:   "Flat credit for pairing storage with solar",
			Price:         "1000",
			Currency:      "USD",
		},
		{
			ID:            "incentive-lowincome-03",
			ProviderID:    "provider-casun",
			ProviderName:  "CA Sun Program",
			FulfillmentID: "615",
			Name:          "Low-Income Solar Grant",
			Description:   "Income-qualified grant covering up to half of system cost",
			Price:         "4000",
			Currency:      "USD",
		},
	}
}

func mockInstallers() []energy.Installer {
	return []energy.Installer{
		{
			ID:        "installer-bright",
			Name:      "BrightRoof Installations",
			ShortDesc: "Certified residential solar installer",
			Services: []energy.InstallerService{
				{ID: "svc-resi-install", Name: "Residential Rooftop Installation", Price: "1200", Currency: "USD"},
				{ID: "svc-site-survey", Name: "Site Survey and Design", Price: "150", Currency: "USD"},
			},
		},
		{
			ID:        "installer-sunwest",
			Name:      "SunWest Solar Services",
			ShortDesc: "Full-service solar and battery installer",
			Services: []energy.InstallerService{
				{ID: "svc-full-install", Name: "Turnkey Solar Installation", Price: "1500", Currency: "USD"},
			},
		},
	}
}

func mockProducts() []energy.Product {
	return []energy.Product{
		{ID: "panel-400w", ProviderID: "provider-volt", ProviderName: "VoltMart",
			Name: "400W Monocrystalline Panel Kit", Description: "10-panel 4 kW starter kit", Price: "3200", Currency: "USD"},
		{ID: "panel-550w", ProviderID: "provider-volt", ProviderName: "VoltMart",
			Name: "550W Bifacial Panel Kit", Description: "High-yield 5.5 kW kit with inverter", Price: "4800", Currency: "USD"},
		{ID: "battery-10kwh", ProviderID: "provider-volt", ProviderName: "VoltMart",
			Name: "10 kWh Home Battery", Description: "Wall-mounted storage with backup gateway", Price: "6500", Currency: "USD"},
	}
}

func mockTradeOpportunities() []energy.TradeOpportunity {
	return []energy.TradeOpportunity{
		{ID: "trade-grid-01", ProviderID: "provider-grid", ProviderName: "Local Grid Operator",
			Type: "sell_excess", Name: "Grid Buyback", PricePerKWh: 0.15, Currency: "USD"},
		{ID: "trade-p2p-01", ProviderID: "provider-community", ProviderName: "Community Energy Group",
			Type: "p2p_sharing", Name: "Neighborhood Sharing Pool", PricePerKWh: 0.12, Currency: "USD"},
	}
}

func mockOrder(prefix, providerID, itemID string) *Order {
	return &Order{
		ID:       fmt.Sprintf("%s-%s", prefix, uuid.NewString()[:8]),
		Provider: &ProviderRef{ID: providerID},
		Items:    []Item{{ID: itemID}},
		Status:   "ACTIVE",
	}
}
