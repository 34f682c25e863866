// Package energy holds the pure domain model and math for the DEG Energy
// Agent: catalog records extracted from Beckn responses, ROI estimation,
// production simulation, prosumer statistics, NFT minting, and auto-trading
// rules. Everything here is side-effect free; randomness and clocks are
// injected so tests stay deterministic.
package energy

import "time"

// Subsidy is one solar incentive offer extracted from a deg:schemes catalog.
type Subsidy struct {
	ID              string                       `json:"id"`
	ProviderID      string                       `json:"provider_id"`
	ProviderName    string                       `json:"provider_name"`
	FulfillmentID   string                       `json:"fulfillment_id,omitempty"`
	ProviderDesc    string                       `json:"provider_desc,omitempty"`
	Name            string                       `json:"name"`
	Description     string                       `json:"description,omitempty"`
	LongDescription string                       `json:"long_description,omitempty"`
	Image           string                       `json:"image,omitempty"`
	Price           string                       `json:"price,omitempty"`
	Currency        string                       `json:"currency,omitempty"`
	Tags            map[string]map[string]string `json:"tags,omitempty"`
}

// InstallerService is one service item offered by an installer.
type InstallerService struct {
	ID              string                       `json:"id"`
	Name            string                       `json:"name"`
	Description     string                       `json:"description,omitempty"`
	LongDescription string                       `json:"long_description,omitempty"`
	Image           string                       `json:"image,omitempty"`
	Price           string                       `json:"price,omitempty"`
	Currency        string                       `json:"currency,omitempty"`
	Tags            map[string]map[string]string `json:"tags,omitempty"`
}

// Location is a provider service location.
type Location struct {
	ID  string `json:"id,omitempty"`
	GPS string `json:"gps,omitempty"`
}

// Installer is one provider extracted from a deg:service catalog.
type Installer struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	ShortDesc string             `json:"short_desc,omitempty"`
	LongDesc  string             `json:"long_desc,omitempty"`
	Image     string             `json:"image,omitempty"`
	Locations []Location         `json:"locations,omitempty"`
	Services  []InstallerService `json:"services,omitempty"`
}

// Product is one retail item extracted from a deg:retail catalog.
type Product struct {
	ID           string `json:"id"`
	ProviderID   string `json:"provider_id"`
	ProviderName string `json:"provider_name"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	Price        string `json:"price,omitempty"`
	Currency     string `json:"currency,omitempty"`
	Image        string `json:"image,omitempty"`
}

// Program is one demand-response program from a deg:programs catalog.
type Program struct {
	ID              string                       `json:"id"`
	ProviderID      string                       `json:"provider_id"`
	ProviderName    string                       `json:"provider_name"`
	Name            string                       `json:"name"`
	Description     string                       `json:"description,omitempty"`
	LongDescription string                       `json:"long_description,omitempty"`
	Image           string                       `json:"image,omitempty"`
	Tags            map[string]map[string]string `json:"tags,omitempty"`
}

// TradeOpportunity is one energy-trading offer from a deg:energy catalog.
// Type carries the item descriptor code, e.g. "sell_excess" or "p2p_sharing".
type TradeOpportunity struct {
	ID           string                       `json:"id"`
	ProviderID   string                       `json:"provider_id"`
	ProviderName string                       `json:"provider_name"`
	Type         string                       `json:"type"`
	Name         string                       `json:"name"`
	Description  string                       `json:"description,omitempty"`
	PricePerKWh  float64                      `json:"price_per_kwh"`
	Currency     string                       `json:"currency,omitempty"`
	Tags         map[string]map[string]string `json:"tags,omitempty"`
}

// ROIEstimate is the output of EstimateROI.
type ROIEstimate struct {
	SystemSizeKW     float64 `json:"system_size_kw"`
	EstimatedCost    float64 `json:"estimated_cost"`
	AnnualProduction float64 `json:"annual_production_kwh"`
	AnnualSavings    float64 `json:"annual_savings"`
	PaybackYears     float64 `json:"payback_years"`
	ROI20YearPct     float64 `json:"roi_20yr_pct"`
}

// RoofAnalysis is the result of analyzing a rooftop photo.
type RoofAnalysis struct {
	Suitable            bool    `json:"suitable"`
	RoofAreaSqm         float64 `json:"roof_area_sqm,omitempty"`
	CapacityKW          float64 `json:"capacity_kw,omitempty"`
	AnnualGenerationKWh float64 `json:"annual_generation_kwh,omitempty"`
	ShadingFactor       float64 `json:"shading_factor,omitempty"`
	Orientation         string  `json:"orientation,omitempty"`
	Confidence          float64 `json:"confidence"`
	Reason              string  `json:"reason,omitempty"`
}

// DayProduction is one simulated day of solar output.
type DayProduction struct {
	Date time.Time `json:"date"`
	KWh  float64   `json:"kwh"`
}

// ProductionSummary is a week of simulated production ending today.
type ProductionSummary struct {
	Days     []DayProduction `json:"days"`
	TotalKWh float64         `json:"total_kwh"`
	PeakKW   float64         `json:"peak_kw"`
	CarbonKg float64         `json:"carbon_kg"`
}

// Today returns the most recent day's production.
func (p ProductionSummary) Today() float64 {
	if len(p.Days) == 0 {
		return 0
	}
	return p.Days[len(p.Days)-1].KWh
}

// Stats is the prosumer dashboard snapshot.
type Stats struct {
	ProducedTodayKWh    float64 `json:"produced_today_kwh"`
	ProducedWeekKWh     float64 `json:"produced_week_kwh"`
	ProducedMonthKWh    float64 `json:"produced_month_kwh"`
	ProducedLifetimeKWh float64 `json:"produced_lifetime_kwh"`

	ConsumedTodayKWh    float64 `json:"consumed_today_kwh"`
	ConsumedWeekKWh     float64 `json:"consumed_week_kwh"`
	ConsumedMonthKWh    float64 `json:"consumed_month_kwh"`
	ConsumedLifetimeKWh float64 `json:"consumed_lifetime_kwh"`

	GridExportKWh      float64 `json:"grid_export_kwh"`
	GridImportKWh      float64 `json:"grid_import_kwh"`
	SelfConsumptionPct float64 `json:"self_consumption_pct"`

	SavingsMonth    float64 `json:"savings_month"`
	EarningsMonth   float64 `json:"earnings_month"`
	ProjectedAnnual float64 `json:"projected_annual"`

	CarbonSavedKg float64 `json:"carbon_saved_kg"`
	TreesEquiv    float64 `json:"trees_equiv"`
	MilesEquiv    float64 `json:"miles_equiv"`
}

// Transaction is one executed energy trade.
type Transaction struct {
	ID           string    `json:"id"`
	Type         string    `json:"type"` // grid_sale, grid_purchase, p2p_share
	AmountKWh    float64   `json:"amount_kwh"`
	PricePerKWh  float64   `json:"price_per_kwh"`
	Total        float64   `json:"total"`
	Counterparty string    `json:"counterparty,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// NFT is one minted energy token. The blockchain layer is simulated; the
// contract address and marketplace URL are derived, not on-chain.
type NFT struct {
	TokenID        string    `json:"token_id"`
	Type           string    `json:"type"` // renewable_credit, grid_flexibility, community_share
	AmountKWh      float64   `json:"amount_kwh"`
	Value          float64   `json:"value"`
	Contract       string    `json:"contract"`
	Blockchain     string    `json:"blockchain"`
	Marketplace    string    `json:"marketplace"`
	MarketplaceURL string    `json:"marketplace_url"`
	CreatedAt      time.Time `json:"created_at"`
}

// NFTOpportunity is one fixed tokenization offer shown to the user.
type NFTOpportunity struct {
	Type        string  `json:"type"`
	Name        string  `json:"name"`
	RatePerUnit float64 `json:"rate_per_unit"`
	Unit        string  `json:"unit"`
	Minimum     float64 `json:"minimum"`
	Marketplace string  `json:"marketplace"`
	Blockchain  string  `json:"blockchain"`
}

// TradeRecord is one entry in a user's auto-trading history.
type TradeRecord struct {
	Timestamp         time.Time `json:"timestamp"`
	Action            string    `json:"action"`
	Explanation       string    `json:"explanation"`
	IsPeakTime        bool      `json:"is_peak_time"`
	CurrentPrice      float64   `json:"current_price"`
	CurrentProduction float64   `json:"current_production"`
	Result            string    `json:"result"`
}
