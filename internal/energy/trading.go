package energy

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Price floors and caps for executed trades, in USD per kWh.
const (
	GridSaleFloor = 0.18
	GridBuyCap    = 0.10
	P2PFloor      = 0.15

	PeakPrice    = 0.22
	OffPeakPrice = 0.08

	// ExcessThresholdKW is the hourly production above which the system
	// is considered to have excess energy to trade.
	ExcessThresholdKW = 2.0
)

// Optimization targets.
const (
	TargetFinancial     = "financial"
	TargetEnvironmental = "environmental"
	TargetBalanced      = "balanced"
)

// Auto-trading actions.
const (
	ActionSellToGrid   = "sell_to_grid"
	ActionStoreBattery = "store_in_battery"
	ActionShareP2P     = "share_with_neighbors"
	ActionBuyFromGrid  = "buy_from_grid"
	ActionNone         = "no_action"
)

// AutoTradeSettings configures automated trading for one user.
// JSON keys match the persisted session format.
type AutoTradeSettings struct {
	Enabled            bool    `json:"enabled"`
	MinSellPriceKWh    float64 `json:"min_sell_price_kwh"`
	MaxBuyPriceKWh     float64 `json:"max_buy_price_kwh"`
	TradingHours       string  `json:"trading_hours"`
	ReserveCapacityPct float64 `json:"reserve_capacity_pct"`
	OptimizationTarget string  `json:"ai_optimization_target"`
	AutoParticipation  bool    `json:"auto_participation"`
	NeighborSharing    bool    `json:"neighbor_sharing_enabled"`
	TokenRewards       bool    `json:"token_rewards"`
	PeakTimeSelling    bool    `json:"peak_time_selling"`
	OffPeakBuying      bool    `json:"off_peak_buying"`
}

// DefaultAutoTradeSettings returns the baseline configuration users get
// when they enable auto-trading without overrides.
func DefaultAutoTradeSettings() AutoTradeSettings {
	return AutoTradeSettings{
		MinSellPriceKWh:    0.12,
		MaxBuyPriceKWh:     0.08,
		TradingHours:       "8:00-20:00",
		ReserveCapacityPct: 20,
		OptimizationTarget: TargetFinancial,
		AutoParticipation:  true,
		NeighborSharing:    true,
		TokenRewards:       true,
		PeakTimeSelling:    true,
		OffPeakBuying:      true,
	}
}

// ApplyConfigText parses free-form "key: value" lines from the user and
// applies the recognized keys onto s. Unknown keys and malformed values
// are ignored.
func (s *AutoTradeSettings) ApplyConfigText(text string) {
	for _, line := range strings.Split(text, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)

		switch key {
		case "min_sell_price", "min_sell_price_kwh":
			if v, err := parsePrice(value); err == nil {
				s.MinSellPriceKWh = v
			}
		case "max_buy_price", "max_buy_price_kwh":
			if v, err := parsePrice(value); err == nil {
				s.MaxBuyPriceKWh = v
			}
		case "trading_hours":
			if value != "" {
				s.TradingHours = value
			}
		case "reserve_capacity", "reserve_capacity_pct":
			raw := strings.TrimSuffix(value, "%")
			if v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
				s.ReserveCapacityPct = v
			}
		case "optimization_target", "ai_optimization_target":
			lower := strings.ToLower(value)
			switch {
			case strings.Contains(lower, "financial"):
				s.OptimizationTarget = TargetFinancial
			case strings.Contains(lower, "environment"):
				s.OptimizationTarget = TargetEnvironmental
			default:
				s.OptimizationTarget = TargetBalanced
			}
		case "neighbor_sharing":
			s.NeighborSharing = affirmative(value)
		case "token_rewards":
			s.TokenRewards = affirmative(value)
		}
	}
}

func parsePrice(value string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(strings.TrimPrefix(value, "$")), 64)
}

func affirmative(value string) bool {
	lower := strings.ToLower(value)
	return strings.Contains(lower, "yes") || strings.Contains(lower, "enable")
}

// EstimatedMonthlyBenefit projects the monthly dollar benefit of
// auto-trading for a system of the given size under these settings.
func (s AutoTradeSettings) EstimatedMonthlyBenefit(systemSizeKW float64) float64 {
	factor := 0.8
	switch s.OptimizationTarget {
	case TargetFinancial:
		factor = 0.9
	case TargetEnvironmental:
		factor = 0.7
	}
	return Round2(systemSizeKW * 15 * factor)
}

// WithinTradingHours reports whether now falls inside the configured
// "H:MM-H:MM" window. Unparseable windows allow trading at any hour.
func (s AutoTradeSettings) WithinTradingHours(now time.Time) bool {
	fromStr, toStr, ok := strings.Cut(s.TradingHours, "-")
	if !ok {
		return true
	}
	from, err1 := parseHour(fromStr)
	to, err2 := parseHour(toStr)
	if err1 != nil || err2 != nil {
		return true
	}
	h := now.Hour()
	return h >= from && h <= to
}

func parseHour(s string) (int, error) {
	h, _, _ := strings.Cut(strings.TrimSpace(s), ":")
	return strconv.Atoi(h)
}

// GridSalePrice returns the per-kWh price for a grid sale, honoring the
// user's minimum.
func (s AutoTradeSettings) GridSalePrice() float64 {
	if s.MinSellPriceKWh > GridSaleFloor {
		return s.MinSellPriceKWh
	}
	return GridSaleFloor
}

// GridBuyPrice returns the per-kWh price for a grid purchase, honoring the
// user's maximum.
func (s AutoTradeSettings) GridBuyPrice() float64 {
	if s.MaxBuyPriceKWh > 0 && s.MaxBuyPriceKWh < GridBuyCap {
		return s.MaxBuyPriceKWh
	}
	return GridBuyCap
}

// P2PPrice returns the per-kWh price for a peer-to-peer share, a discount
// on the user's minimum sell price with a community floor.
func (s AutoTradeSettings) P2PPrice() float64 {
	if discounted := s.MinSellPriceKWh * 0.9; discounted > P2PFloor {
		return discounted
	}
	return P2PFloor
}

// TradeConditions captures the market state at evaluation time.
type TradeConditions struct {
	IsPeakTime          bool
	PriceUSD            float64
	HourlyProductionKWh float64
	HasExcess           bool
	Forecast            string
}

// CurrentConditions derives the trading conditions from today's total
// production and the clock. Peak hours run 12:00-20:00. The forecast stands
// in for a weather API and skews sunny.
func CurrentConditions(todayProductionKWh float64, now time.Time, sunnyChance float64) TradeConditions {
	h := now.Hour()
	peak := h >= 12 && h <= 20

	price := OffPeakPrice
	if peak {
		price = PeakPrice
	}

	hourly := todayProductionKWh / 24

	forecast := "sunny"
	if sunnyChance <= 0.3 {
		forecast = "cloudy"
	}

	return TradeConditions{
		IsPeakTime:          peak,
		PriceUSD:            price,
		HourlyProductionKWh: hourly,
		HasExcess:           hourly > ExcessThresholdKW,
		Forecast:            forecast,
	}
}

// DecisionPrompt renders the LLM prompt asking for an action number.
func DecisionPrompt(cond TradeConditions, s AutoTradeSettings) string {
	timeOfDay := "off-peak hours"
	if cond.IsPeakTime {
		timeOfDay = "peak hours"
	}
	prefs := fmt.Sprintf(
		"Optimization target: %s\nMin selling price: $%.2f/kWh\nMax buying price: $%.2f/kWh\nNeighbor sharing enabled: %t\nReserve capacity: %.0f%%",
		s.OptimizationTarget, s.MinSellPriceKWh, s.MaxBuyPriceKWh, s.NeighborSharing, s.ReserveCapacityPct)

	return fmt.Sprintf(`As an AI energy trading assistant, please determine the optimal action based on:

Time of day: %s
Current energy price: $%.2f/kWh
Weather forecast: %s
User preferences: %s

Should we:
1. Sell excess energy to the grid
2. Store energy in batteries
3. Share energy with neighbors (P2P)
4. Buy energy from the grid

Return only the action number (1-4) and a brief explanation.`,
		timeOfDay, cond.PriceUSD, cond.Forecast, prefs)
}

// ParseDecision extracts the action number (1-4) from the start of an LLM
// reply. It scans only the first ten characters; 0 means no number found.
func ParseDecision(reply string) int {
	head := reply
	if len(head) > 10 {
		head = head[:10]
	}
	for n := 1; n <= 4; n++ {
		if strings.ContainsRune(head, rune('0'+n)) {
			return n
		}
	}
	return 0
}

// DecideAction maps an LLM decision number onto an executable action,
// respecting excess availability and the user's settings. Zero or an
// unexecutable number falls through to no action.
func DecideAction(n int, cond TradeConditions, s AutoTradeSettings) string {
	switch {
	case n == 1 && cond.HasExcess:
		return ActionSellToGrid
	case n == 2 && cond.HasExcess:
		return ActionStoreBattery
	case n == 3 && cond.HasExcess && s.NeighborSharing:
		return ActionShareP2P
	case n == 4 && !cond.IsPeakTime && s.OffPeakBuying:
		return ActionBuyFromGrid
	}
	return ActionNone
}

// RuleBasedAction is the fallback decision when no LLM is available.
// It returns the action plus a canned explanation.
func RuleBasedAction(cond TradeConditions, s AutoTradeSettings) (string, string) {
	switch {
	case cond.HasExcess && cond.IsPeakTime && s.PeakTimeSelling:
		return ActionSellToGrid, "Selling excess energy during peak hours for maximum profit"
	case !cond.IsPeakTime && !cond.HasExcess && s.OffPeakBuying:
		return ActionBuyFromGrid, "Buying energy during off-peak hours at lower prices"
	}
	return ActionNone, "Current conditions do not warrant trading actions"
}
