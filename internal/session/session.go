// Package session defines the per-user conversation session: the state
// machine position plus everything the flows accumulate (addresses, cached
// catalogs, orders, trading settings, transactions, NFTs). Sessions are
// keyed by the Telegram user id and persist as JSON, so every field carries
// a stable JSON tag.
package session

import (
	"time"

	"github.com/voltmesh/solarbot/internal/energy"
)

// Conversation states. The prefix selects the owning flow.
const (
	StateNewUser = "new_user"

	StateOnboardAddress          = "solar_onboarding_address"
	StateOnboardElectricityBill  = "solar_onboarding_electricity_bill"
	StateOnboardConfirm          = "solar_onboarding_confirm"
	StateOnboardOptions          = "solar_onboarding_options"
	StateOnboardApplyingSubsidy  = "solar_onboarding_applying_subsidy"
	StateOnboardSubsidyConfirmed = "solar_onboarding_subsidy_confirmed"
	StateOnboardSelectInstaller  = "solar_onboarding_selecting_installer"
	StateOnboardInitOrder        = "solar_onboarding_init_order"
	StateOnboardConfirmingOrder  = "solar_onboarding_confirming_order"
	StateOnboardOrderConfirmed   = "solar_onboarding_order_confirmed"
	StateOnboardSelectProduct    = "solar_onboarding_selecting_product"
	StateOnboardInitProduct      = "solar_onboarding_init_product"
	StateOnboardConfirmProduct   = "solar_onboarding_confirming_product"
	StateOnboardProductConfirmed = "solar_onboarding_product_confirmed"
	StateOnboardAwaitingPhoto    = "solar_onboarding_awaiting_photo"
	StateOnboardRoofAnalyzed     = "solar_onboarding_roof_analyzed"

	StateEnergyMenu              = "energy_services_menu"
	StateEnergySell              = "energy_services_sell"
	StateEnergySaleComplete      = "energy_services_sale_complete"
	StateEnergySharingComplete   = "energy_services_sharing_complete"
	StateEnergyViewingProduction = "energy_services_viewing_production"
	StateEnergyViewingStats      = "energy_services_viewing_stats"
	StateEnergyTokenize          = "energy_services_tokenize"
	StateEnergyNFTCreated        = "energy_services_nft_created"
	StateEnergyAutoTradingConfig = "energy_services_auto_trading_config"
	StateEnergyAutoTradingOn     = "energy_services_auto_trading_enabled"
	StateEnergyP2PSharing        = "energy_services_p2p_sharing"
	StateEnergyCommunityRank     = "energy_services_community_rank"
)

// Prosumer defaults applied when a session has no recorded system.
const (
	DefaultSystemSizeKW = 5.0
	DefaultMonthsActive = 12
)

// Session is one user's conversation and prosumer state.
type Session struct {
	UserID string `json:"user_id"`
	// ChatID is the chat the user last talked from; scheduled jobs use it
	// to push notifications.
	ChatID string `json:"chat_id,omitempty"`
	// Name is the user's first name as reported by the channel.
	Name  string `json:"name,omitempty"`
	State string `json:"state"`

	// Solar onboarding.
	Address                string             `json:"address,omitempty"`
	ElectricityConsumption float64            `json:"electricity_consumption,omitempty"`
	ElectricityRate        float64            `json:"electricity_rate,omitempty"`
	Subsidies              []energy.Subsidy   `json:"subsidies,omitempty"`
	Installers             []energy.Installer `json:"installers,omitempty"`
	Products               []energy.Product   `json:"products,omitempty"`

	SelectedSubsidyID     string `json:"selected_subsidy_id,omitempty"`
	SelectedProviderID    string `json:"selected_provider_id,omitempty"`
	SelectedFulfillmentID string `json:"selected_fulfillment_id,omitempty"`
	SelectedServiceID     string `json:"selected_service_id,omitempty"`
	SelectedInstallerName string `json:"selected_installer_name,omitempty"`
	SelectedProductID     string `json:"selected_product_id,omitempty"`

	ROIEstimate  *energy.ROIEstimate  `json:"roi_estimate,omitempty"`
	RoofAnalysis *energy.RoofAnalysis `json:"rooftop_analysis,omitempty"`

	SubsidyOrderID      string `json:"subsidy_order_id,omitempty"`
	InstallationOrderID string `json:"installation_order_id,omitempty"`
	ProductOrderID      string `json:"product_order_id,omitempty"`

	// Prosumer energy services.
	SystemSizeKW   float64                   `json:"system_size_kw,omitempty"`
	MonthsActive   int                       `json:"months_active,omitempty"`
	AutoTrading    *energy.AutoTradeSettings `json:"auto_trading,omitempty"`
	CommunityScore float64                   `json:"community_score,omitempty"`
	TotalEarnings  float64                   `json:"total_earnings,omitempty"`
	TotalCosts     float64                   `json:"total_costs,omitempty"`
	Transactions   []energy.Transaction      `json:"transactions,omitempty"`
	NFTs           []energy.NFT              `json:"nfts,omitempty"`
	TradingHistory []energy.TradeRecord      `json:"trading_history,omitempty"`

	LastUpdated time.Time `json:"last_updated"`
}

// New returns a fresh session in the new_user state.
func New(userID string) *Session {
	return &Session{UserID: userID, State: StateNewUser}
}

// SystemSize returns the recorded system size or the default.
func (s *Session) SystemSize() float64 {
	if s.SystemSizeKW > 0 {
		return s.SystemSizeKW
	}
	return DefaultSystemSizeKW
}

// Months returns the recorded months active or the default.
func (s *Session) Months() int {
	if s.MonthsActive > 0 {
		return s.MonthsActive
	}
	return DefaultMonthsActive
}

// TradeSettings returns the auto-trading settings, falling back to the
// defaults (with auto-participation off) when none are configured.
func (s *Session) TradeSettings() energy.AutoTradeSettings {
	if s.AutoTrading != nil {
		return *s.AutoTrading
	}
	settings := energy.DefaultAutoTradeSettings()
	settings.AutoParticipation = false
	return settings
}

// AutoTradingEnabled reports whether scheduled trading may act for this user.
func (s *Session) AutoTradingEnabled() bool {
	return s.AutoTrading != nil && s.AutoTrading.Enabled && s.AutoTrading.AutoParticipation
}

// RecordTransaction appends a transaction and updates the running totals.
func (s *Session) RecordTransaction(tx energy.Transaction) {
	s.Transactions = append(s.Transactions, tx)
	switch tx.Type {
	case "grid_purchase":
		s.TotalCosts = energy.Round2(s.TotalCosts + tx.Total)
	default:
		s.TotalEarnings = energy.Round2(s.TotalEarnings + tx.Total)
	}
}
