package prosumer

import (
	"context"
	"fmt"

	"github.com/voltmesh/solarbot/internal/energy"
	"github.com/voltmesh/solarbot/internal/provider"
	"github.com/voltmesh/solarbot/internal/session"
	"github.com/voltmesh/solarbot/modules/network/beckn"
)

const fallbackGridProvider = "grid-op-1"

// TradeResult is one executed trade, ready for display or notification.
type TradeResult struct {
	Type           string
	AmountKWh      float64
	PricePerKWh    float64
	Total          float64
	TransactionID  string
	Recipient      string
	Contribution   float64
	CommunityScore float64
	NFT            *energy.NFT
}

// TradeOutcome is one auto-trading evaluation. Result is nil when the
// decision was to do nothing or to hold energy in batteries.
type TradeOutcome struct {
	Action      string
	Explanation string
	Conditions  energy.TradeConditions
	Result      *TradeResult
}

// executeGridSale sells amountKWh to the grid on behalf of the session's
// user. Network failures degrade to a locally derived transaction id so the
// conversation never dead-ends on a sandbox hiccup.
func (f *Flow) executeGridSale(ctx context.Context, sess *session.Session, amountKWh float64) TradeResult {
	settings := sess.TradeSettings()
	price := settings.GridSalePrice()

	providerID := f.tradeProvider(ctx, "")
	txID := fmt.Sprintf("grid-%s-%d", shortID(sess.UserID), f.now().Unix())
	order, err := f.net.ExecuteTrade(ctx, providerID, beckn.TradeSell, amountKWh, price)
	if err != nil {
		f.logger.Warn("grid sale trade failed", "user_id", sess.UserID, "error", err)
	} else if order != nil && order.ID != "" {
		txID = order.ID
	}

	result := TradeResult{
		Type:          "grid_sale",
		AmountKWh:     amountKWh,
		PricePerKWh:   price,
		Total:         energy.Round2(amountKWh * price),
		TransactionID: txID,
	}
	// Token rewards only apply once the user has configured auto-trading.
	if sess.AutoTrading != nil && sess.AutoTrading.TokenRewards {
		result.NFT = f.mintNFT(sess, energy.NFTRenewableCredit, amountKWh)
	}

	f.recordTrade(sess, result)
	return result
}

// executeGridPurchase buys amountKWh from the grid during off-peak hours.
func (f *Flow) executeGridPurchase(ctx context.Context, sess *session.Session, amountKWh float64) TradeResult {
	settings := sess.TradeSettings()
	price := settings.GridBuyPrice()

	providerID := f.tradeProvider(ctx, "")
	txID := fmt.Sprintf("buy-%s-%d", shortID(sess.UserID), f.now().Unix())
	order, err := f.net.ExecuteTrade(ctx, providerID, beckn.TradeBuy, amountKWh, price)
	if err != nil {
		f.logger.Warn("grid purchase trade failed", "user_id", sess.UserID, "error", err)
	} else if order != nil && order.ID != "" {
		txID = order.ID
	}

	result := TradeResult{
		Type:          "grid_purchase",
		AmountKWh:     amountKWh,
		PricePerKWh:   price,
		Total:         energy.Round2(amountKWh * price),
		TransactionID: txID,
	}

	f.recordTrade(sess, result)
	return result
}

// executeP2PShare shares amountKWh with a neighbor from the P2P catalog and
// credits the user's community score.
func (f *Flow) executeP2PShare(ctx context.Context, sess *session.Session, amountKWh float64) TradeResult {
	settings := sess.TradeSettings()
	price := settings.P2PPrice()

	providerID := "community-1"
	recipient := fmt.Sprintf("neighbor-%04d", 1000+f.now().Unix()%9000)
	if opp := f.p2pOpportunity(ctx); opp != nil {
		providerID = opp.ProviderID
		recipient = opp.ProviderName
	}

	txID := fmt.Sprintf("p2p-%s-%d", shortID(sess.UserID), f.now().Unix())
	order, err := f.net.ExecuteTrade(ctx, providerID, beckn.TradeSell, amountKWh, price)
	if err != nil {
		f.logger.Warn("p2p share trade failed", "user_id", sess.UserID, "error", err)
	} else if order != nil && order.ID != "" {
		txID = order.ID
	}

	contribution := energy.Round1(amountKWh / 10)
	sess.CommunityScore = energy.Round1(sess.CommunityScore + contribution)

	result := TradeResult{
		Type:           "p2p_share",
		AmountKWh:      amountKWh,
		PricePerKWh:    price,
		Total:          energy.Round2(amountKWh * price),
		TransactionID:  txID,
		Recipient:      recipient,
		Contribution:   contribution,
		CommunityScore: sess.CommunityScore,
	}
	if sess.AutoTrading != nil && sess.AutoTrading.TokenRewards {
		result.NFT = f.mintNFT(sess, energy.NFTCommunityShare, amountKWh)
	}

	f.recordTrade(sess, result)
	return result
}

// EvaluateAutoTrade runs one auto-trading decision for the session: derive
// market conditions, ask the LLM (falling back to the rules), execute the
// chosen action, and append it to the trading history. Both the simulation
// screen and the scheduled sweep go through here.
func (f *Flow) EvaluateAutoTrade(ctx context.Context, sess *session.Session) TradeOutcome {
	settings := sess.TradeSettings()
	production := f.sim.Production(sess.SystemSize())
	cond := energy.CurrentConditions(production.Today(), f.now(), f.chance())

	action, explanation := f.decide(ctx, cond, settings)

	outcome := TradeOutcome{Action: action, Explanation: explanation, Conditions: cond}
	switch action {
	case energy.ActionSellToGrid:
		r := f.executeGridSale(ctx, sess, energy.Round1(cond.HourlyProductionKWh*0.7))
		outcome.Result = &r
	case energy.ActionShareP2P:
		r := f.executeP2PShare(ctx, sess, energy.Round1(cond.HourlyProductionKWh*0.6))
		outcome.Result = &r
	case energy.ActionBuyFromGrid:
		r := f.executeGridPurchase(ctx, sess, manualSaleKWh)
		outcome.Result = &r
	case energy.ActionStoreBattery:
		outcome.Result = &TradeResult{
			Type:      "battery_storage",
			AmountKWh: energy.Round1(cond.HourlyProductionKWh * 0.8),
		}
	}

	record := energy.TradeRecord{
		Timestamp:         f.now(),
		Action:            action,
		Explanation:       explanation,
		IsPeakTime:        cond.IsPeakTime,
		CurrentPrice:      cond.PriceUSD,
		CurrentProduction: energy.Round2(cond.HourlyProductionKWh),
	}
	if outcome.Result != nil {
		record.Result = fmt.Sprintf("%s %s kWh", outcome.Result.Type, fnum(outcome.Result.AmountKWh))
	} else {
		record.Result = energy.ActionNone
	}
	sess.TradingHistory = append(sess.TradingHistory, record)

	return outcome
}

// decide picks the trading action, via the LLM when one is wired.
func (f *Flow) decide(ctx context.Context, cond energy.TradeConditions, settings energy.AutoTradeSettings) (string, string) {
	if f.llm == nil {
		return energy.RuleBasedAction(cond, settings)
	}

	resp, err := f.llm.Complete(ctx, provider.CompletionRequest{
		Messages: []provider.LLMMessage{{
			Role:    provider.MessageRoleUser,
			Content: energy.DecisionPrompt(cond, settings),
		}},
		MaxTokens: f.config.DecisionMaxTokens,
	})
	if err != nil {
		f.logger.Warn("trading decision fell back to rules", "error", err)
		return energy.RuleBasedAction(cond, settings)
	}

	n := energy.ParseDecision(resp.Content)
	return energy.DecideAction(n, cond, settings), resp.Content
}

// tradeProvider resolves the provider for a trade from the energy catalog,
// optionally filtering by opportunity type.
func (f *Flow) tradeProvider(ctx context.Context, tradeType string) string {
	opps, err := f.net.SearchTradeOpportunities(ctx)
	if err != nil {
		f.logger.Warn("trade opportunity search failed", "error", err)
		return fallbackGridProvider
	}
	for _, opp := range opps {
		if tradeType == "" || opp.Type == tradeType {
			return opp.ProviderID
		}
	}
	return fallbackGridProvider
}

func (f *Flow) p2pOpportunity(ctx context.Context) *energy.TradeOpportunity {
	opps, err := f.net.SearchTradeOpportunities(ctx)
	if err != nil {
		f.logger.Warn("trade opportunity search failed", "error", err)
		return nil
	}
	for i := range opps {
		if opps[i].Type == "p2p_sharing" {
			return &opps[i]
		}
	}
	return nil
}

func (f *Flow) mintNFT(sess *session.Session, tokenType string, amountKWh float64) *energy.NFT {
	marketplace, blockchain := "FlexChain", "Polygon"
	if tokenType == energy.NFTRenewableCredit {
		marketplace, blockchain = "GreenToken Exchange", "Ethereum"
	}
	nft := energy.MintNFT(sess.UserID, tokenType, amountKWh, marketplace, blockchain, f.now())
	sess.NFTs = append(sess.NFTs, nft)
	if f.metrics != nil {
		f.metrics.NFTsMinted.WithLabelValues(tokenType).Inc()
	}
	return &nft
}

func (f *Flow) recordTrade(sess *session.Session, result TradeResult) {
	sess.RecordTransaction(energy.Transaction{
		ID:           result.TransactionID,
		Type:         result.Type,
		AmountKWh:    result.AmountKWh,
		PricePerKWh:  result.PricePerKWh,
		Total:        result.Total,
		Counterparty: result.Recipient,
		Timestamp:    f.now(),
	})
	if f.metrics != nil {
		f.metrics.TradesExecuted.WithLabelValues(result.Type).Inc()
		f.metrics.EnergyTradedKWh.WithLabelValues(result.Type).Add(result.AmountKWh)
	}
}

func shortID(id string) string {
	if len(id) > 4 {
		return id[:4]
	}
	return id
}
