package prosumer

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/voltmesh/solarbot/internal/energy"
	"github.com/voltmesh/solarbot/internal/engine"
	"github.com/voltmesh/solarbot/internal/provider"
	"github.com/voltmesh/solarbot/internal/session"
	"github.com/voltmesh/solarbot/modules/network/beckn"
	"github.com/voltmesh/solarbot/pkg/message"
)

type captureSender struct {
	mu   sync.Mutex
	sent []message.OutboundMessage
}

func (c *captureSender) Send(_ context.Context, msg message.OutboundMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, msg)
	return nil
}

func (c *captureSender) last(t *testing.T) *message.OutboundMessage {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.sent) == 0 {
		t.Fatal("nothing was sent")
	}
	return &c.sent[len(c.sent)-1]
}

// testClock is a Monday afternoon inside peak pricing hours.
var testClock = time.Date(2026, 3, 16, 15, 0, 0, 0, time.UTC)

func newTestFlow(t *testing.T) *Flow {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	now := func() time.Time { return testClock }
	return &Flow{
		config: Config{DecisionMaxTokens: 256},
		logger: logger,
		net:    beckn.NewClient(beckn.Config{MockMode: true}, logger, nil),
		sim:    energy.NewSeededSimulator(7, now),
		now:    now,
		chance: func() float64 { return 0.9 },
	}
}

func newTurn(sess *session.Session, sender *captureSender) *engine.Turn {
	msg := message.InboundMessage{
		Channel:  "channel.telegram",
		Sender:   message.Sender{ID: sess.UserID, DisplayName: sess.Name},
		Chat:     message.Chat{ID: "100", Type: message.ChatDM},
		Callback: &message.Callback{ID: "cb", Data: "energy_services:x", MessageID: "55"},
	}
	return engine.NewTurn(sess, msg, sender)
}

func newSession() *session.Session {
	sess := session.New("4242")
	sess.Name = "Ada"
	return sess
}

func TestMenuListsAllServices(t *testing.T) {
	flow := newTestFlow(t)
	sender := &captureSender{}
	sess := newSession()

	if err := flow.HandleAction(context.Background(), newTurn(sess, sender), "start", nil); err != nil {
		t.Fatalf("HandleAction: %v", err)
	}
	if sess.State != session.StateEnergyMenu {
		t.Errorf("state = %q", sess.State)
	}

	out := sender.last(t)
	if !strings.Contains(out.TextContent(), "Welcome to Energy Services") {
		t.Errorf("menu text: %q", out.TextContent())
	}
	if out.Keyboard == nil || len(out.Keyboard.Rows) != 7 {
		t.Fatalf("expected seven service rows, got %+v", out.Keyboard)
	}
	if back := out.Keyboard.Rows[6][0].Data; back != "solar_onboarding:back_to_main" {
		t.Errorf("back button routes to %q", back)
	}
}

func TestSellEnergyScreen(t *testing.T) {
	flow := newTestFlow(t)
	sender := &captureSender{}
	sess := newSession()

	if err := flow.HandleAction(context.Background(), newTurn(sess, sender), "sell_energy", nil); err != nil {
		t.Fatalf("sell_energy: %v", err)
	}
	if sess.State != session.StateEnergySell {
		t.Errorf("state = %q", sess.State)
	}

	out := sender.last(t)
	text := out.TextContent()
	for _, want := range []string{"Your Energy Production", "Available to Sell", "$0.18/kWh"} {
		if !strings.Contains(text, want) {
			t.Errorf("sell screen missing %q: %q", want, text)
		}
	}
	if out.Keyboard == nil || len(out.Keyboard.Rows) != 3 {
		t.Fatalf("expected sell/share/back rows, got %+v", out.Keyboard)
	}
}

func TestSellToGridRecordsTransaction(t *testing.T) {
	flow := newTestFlow(t)
	sender := &captureSender{}
	sess := newSession()

	if err := flow.HandleAction(context.Background(), newTurn(sess, sender), "sell_to_grid", nil); err != nil {
		t.Fatalf("sell_to_grid: %v", err)
	}
	if sess.State != session.StateEnergySaleComplete {
		t.Errorf("state = %q", sess.State)
	}
	if len(sess.Transactions) != 1 {
		t.Fatalf("transactions = %d", len(sess.Transactions))
	}

	tx := sess.Transactions[0]
	if tx.Type != "grid_sale" || tx.AmountKWh != 5.0 || tx.Total != 0.9 {
		t.Errorf("transaction = %+v", tx)
	}
	if sess.TotalEarnings != 0.9 {
		t.Errorf("earnings = %v", sess.TotalEarnings)
	}

	text := sender.last(t).TextContent()
	if !strings.Contains(text, "Energy Sale Complete") {
		t.Errorf("sale text: %q", text)
	}
	if !strings.Contains(text, "Transaction ID: TRD-") {
		t.Errorf("mock order id missing: %q", text)
	}
	if strings.Contains(text, "NFT Reward") {
		t.Error("NFT reward without auto-trading configured")
	}
}

func TestSellToGridMintsRewardNFT(t *testing.T) {
	flow := newTestFlow(t)
	sender := &captureSender{}
	sess := newSession()
	settings := energy.DefaultAutoTradeSettings()
	settings.Enabled = true
	sess.AutoTrading = &settings

	if err := flow.HandleAction(context.Background(), newTurn(sess, sender), "sell_to_grid", nil); err != nil {
		t.Fatalf("sell_to_grid: %v", err)
	}
	if len(sess.NFTs) != 1 {
		t.Fatalf("nfts = %d", len(sess.NFTs))
	}
	if sess.NFTs[0].Type != energy.NFTRenewableCredit {
		t.Errorf("nft type = %q", sess.NFTs[0].Type)
	}
	if !strings.Contains(sender.last(t).TextContent(), "NFT Reward") {
		t.Errorf("reward block missing: %q", sender.last(t).TextContent())
	}
}

func TestShareP2PCreditsCommunityScore(t *testing.T) {
	flow := newTestFlow(t)
	sender := &captureSender{}
	sess := newSession()

	if err := flow.HandleAction(context.Background(), newTurn(sess, sender), "share_p2p", []string{"community"}); err != nil {
		t.Fatalf("share_p2p: %v", err)
	}
	if sess.State != session.StateEnergySharingComplete {
		t.Errorf("state = %q", sess.State)
	}
	if sess.CommunityScore != 0.4 {
		t.Errorf("community score = %v", sess.CommunityScore)
	}
	if len(sess.Transactions) != 1 || sess.Transactions[0].Type != "p2p_share" {
		t.Fatalf("transactions = %+v", sess.Transactions)
	}
	if sess.Transactions[0].Counterparty != "Community Energy Group" {
		t.Errorf("counterparty = %q", sess.Transactions[0].Counterparty)
	}

	text := sender.last(t).TextContent()
	for _, want := range []string{"P2P Energy Sharing Complete", "Recipient: Community Energy Group", "+0.4 points"} {
		if !strings.Contains(text, want) {
			t.Errorf("share text missing %q: %q", want, text)
		}
	}
}

func TestP2PSharingScreen(t *testing.T) {
	flow := newTestFlow(t)
	sender := &captureSender{}
	sess := newSession()

	if err := flow.HandleAction(context.Background(), newTurn(sess, sender), "p2p_sharing", nil); err != nil {
		t.Fatalf("p2p_sharing: %v", err)
	}
	if sess.State != session.StateEnergyP2PSharing {
		t.Errorf("state = %q", sess.State)
	}

	out := sender.last(t)
	if !strings.Contains(out.TextContent(), "Peer-to-Peer Energy Sharing") {
		t.Errorf("p2p text: %q", out.TextContent())
	}
	if out.Keyboard == nil || len(out.Keyboard.Rows) != 4 {
		t.Fatalf("expected three recipients + back, got %+v", out.Keyboard)
	}
	if data := out.Keyboard.Rows[0][0].Data; data != "energy_services:share_p2p:neighbor" {
		t.Errorf("recipient data = %q", data)
	}
}

func TestTrackProduction(t *testing.T) {
	flow := newTestFlow(t)
	sender := &captureSender{}
	sess := newSession()

	if err := flow.HandleAction(context.Background(), newTurn(sess, sender), "track_production", nil); err != nil {
		t.Fatalf("track_production: %v", err)
	}
	if sess.State != session.StateEnergyViewingProduction {
		t.Errorf("state = %q", sess.State)
	}

	text := sender.last(t).TextContent()
	if !strings.Contains(text, "Energy Production Data") || !strings.Contains(text, "Daily breakdown") {
		t.Errorf("production text: %q", text)
	}
	if got := strings.Count(text, "• 2026-03-"); got != 8 {
		t.Errorf("expected 8 daily entries, got %d in %q", got, text)
	}
}

func TestViewStats(t *testing.T) {
	flow := newTestFlow(t)
	sender := &captureSender{}
	sess := newSession()

	if err := flow.HandleAction(context.Background(), newTurn(sess, sender), "view_stats", nil); err != nil {
		t.Fatalf("view_stats: %v", err)
	}
	if sess.State != session.StateEnergyViewingStats {
		t.Errorf("state = %q", sess.State)
	}

	text := sender.last(t).TextContent()
	for _, want := range []string{
		"Energy Dashboard",
		"Self-consumption: 70%",
		"This month: 600 kWh",
		"Lifetime: 7200 kWh",
		"Carbon offset: 3600 kg",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("stats missing %q: %q", want, text)
		}
	}
}

func TestCommunityRank(t *testing.T) {
	flow := newTestFlow(t)
	sender := &captureSender{}
	sess := newSession()
	sess.CommunityScore = 12.5

	if err := flow.HandleAction(context.Background(), newTurn(sess, sender), "community_rank", nil); err != nil {
		t.Fatalf("community_rank: %v", err)
	}
	if sess.State != session.StateEnergyCommunityRank {
		t.Errorf("state = %q", sess.State)
	}

	text := sender.last(t).TextContent()
	if !strings.Contains(text, "Community Energy Leaderboard") {
		t.Errorf("rank text: %q", text)
	}
	if got := strings.Count(text, "12.5 points"); got != 2 {
		t.Errorf("score should appear in impact and leaderboard, got %d", got)
	}
}

func TestTokenizeEnergy(t *testing.T) {
	flow := newTestFlow(t)
	sender := &captureSender{}
	sess := newSession()

	if err := flow.HandleAction(context.Background(), newTurn(sess, sender), "tokenize_energy", nil); err != nil {
		t.Fatalf("tokenize_energy: %v", err)
	}
	if sess.State != session.StateEnergyTokenize {
		t.Errorf("state = %q", sess.State)
	}

	out := sender.last(t)
	text := out.TextContent()
	for _, want := range []string{"Energy NFT Tokenization", "GreenToken Exchange", "FlexChain", "$25/MWh"} {
		if !strings.Contains(text, want) {
			t.Errorf("tokenize text missing %q: %q", want, text)
		}
	}
	if out.Keyboard == nil || len(out.Keyboard.Rows) != 3 {
		t.Fatalf("expected two mint buttons + back, got %+v", out.Keyboard)
	}
}

func TestCreateRenewableNFT(t *testing.T) {
	flow := newTestFlow(t)
	sender := &captureSender{}
	sess := newSession()

	if err := flow.HandleAction(context.Background(), newTurn(sess, sender), "create_renewable_nft", nil); err != nil {
		t.Fatalf("create_renewable_nft: %v", err)
	}
	if sess.State != session.StateEnergyNFTCreated {
		t.Errorf("state = %q", sess.State)
	}
	if len(sess.NFTs) != 1 {
		t.Fatalf("nfts = %d", len(sess.NFTs))
	}

	nft := sess.NFTs[0]
	if nft.Type != energy.NFTRenewableCredit || nft.AmountKWh != 100 || nft.Value != 2.5 {
		t.Errorf("nft = %+v", nft)
	}

	out := sender.last(t)
	if !strings.Contains(out.TextContent(), "NFT Created Successfully") {
		t.Errorf("nft text: %q", out.TextContent())
	}
	if out.Keyboard == nil || out.Keyboard.Rows[0][0].URL == "" {
		t.Fatalf("expected marketplace URL button, got %+v", out.Keyboard)
	}
}

func TestCreateFlexibilityNFT(t *testing.T) {
	flow := newTestFlow(t)
	sender := &captureSender{}
	sess := newSession()

	if err := flow.HandleAction(context.Background(), newTurn(sess, sender), "create_flexibility_nft", nil); err != nil {
		t.Fatalf("create_flexibility_nft: %v", err)
	}
	if len(sess.NFTs) != 1 {
		t.Fatalf("nfts = %d", len(sess.NFTs))
	}
	nft := sess.NFTs[0]
	if nft.Type != energy.NFTGridFlexibility || nft.Value != 15.0 || nft.Blockchain != "Polygon" {
		t.Errorf("nft = %+v", nft)
	}
}

func TestAutoTradingConfigScreen(t *testing.T) {
	flow := newTestFlow(t)
	sender := &captureSender{}
	sess := newSession()

	if err := flow.HandleAction(context.Background(), newTurn(sess, sender), "auto_trading", nil); err != nil {
		t.Fatalf("auto_trading: %v", err)
	}
	if sess.State != session.StateEnergyAutoTradingConfig {
		t.Errorf("state = %q", sess.State)
	}
	if !strings.Contains(sender.last(t).TextContent(), "AI-Powered Auto-Trading") {
		t.Errorf("config text: %q", sender.last(t).TextContent())
	}
}

func TestAutoTradingDefaults(t *testing.T) {
	flow := newTestFlow(t)
	sender := &captureSender{}
	sess := newSession()
	sess.State = session.StateEnergyAutoTradingConfig

	if err := flow.HandleAction(context.Background(), newTurn(sess, sender), "auto_trading_default", nil); err != nil {
		t.Fatalf("auto_trading_default: %v", err)
	}
	if sess.State != session.StateEnergyAutoTradingOn {
		t.Errorf("state = %q", sess.State)
	}
	if sess.AutoTrading == nil || !sess.AutoTrading.Enabled {
		t.Fatalf("auto trading = %+v", sess.AutoTrading)
	}

	text := sender.last(t).TextContent()
	for _, want := range []string{
		"Auto-Trading Enabled!",
		"Min. selling price: $0.12/kWh",
		"Optimization target: Financial",
		"Estimated monthly benefit: $67.5",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("enabled text missing %q: %q", want, text)
		}
	}
}

func TestAutoTradingCustomPreferencesText(t *testing.T) {
	flow := newTestFlow(t)
	sender := &captureSender{}
	sess := newSession()
	sess.State = session.StateEnergyAutoTradingConfig

	handled, err := flow.HandleText(context.Background(), newTurn(sess, sender),
		"Min sell price: $0.15\nOptimization target: Environmental")
	if err != nil || !handled {
		t.Fatalf("HandleText = %v, %v", handled, err)
	}
	if sess.AutoTrading == nil {
		t.Fatal("auto trading not stored")
	}
	if sess.AutoTrading.MinSellPriceKWh != 0.15 {
		t.Errorf("min sell = %v", sess.AutoTrading.MinSellPriceKWh)
	}
	if sess.AutoTrading.OptimizationTarget != energy.TargetEnvironmental {
		t.Errorf("target = %q", sess.AutoTrading.OptimizationTarget)
	}

	text := sender.last(t).TextContent()
	if !strings.Contains(text, "Min. selling price: $0.15/kWh") ||
		!strings.Contains(text, "Estimated monthly benefit: $52.5") {
		t.Errorf("custom settings text: %q", text)
	}
}

func TestHandleTextOutsideConfigState(t *testing.T) {
	flow := newTestFlow(t)
	sess := newSession()
	sess.State = session.StateEnergyMenu

	handled, err := flow.HandleText(context.Background(), newTurn(sess, &captureSender{}), "hello")
	if err != nil {
		t.Fatalf("HandleText: %v", err)
	}
	if handled {
		t.Error("free text outside the config state must not be handled")
	}
}

func TestRunSimulationSellsExcessAtPeak(t *testing.T) {
	flow := newTestFlow(t)
	sender := &captureSender{}
	sess := newSession()
	sess.SystemSizeKW = 15 // big enough to have hourly excess above the threshold

	if err := flow.HandleAction(context.Background(), newTurn(sess, sender), "run_simulation", nil); err != nil {
		t.Fatalf("run_simulation: %v", err)
	}
	if len(sess.TradingHistory) != 1 {
		t.Fatalf("trading history = %d", len(sess.TradingHistory))
	}
	record := sess.TradingHistory[0]
	if record.Action != energy.ActionSellToGrid || !record.IsPeakTime {
		t.Errorf("record = %+v", record)
	}
	if len(sess.Transactions) != 1 || sess.Transactions[0].Type != "grid_sale" {
		t.Fatalf("transactions = %+v", sess.Transactions)
	}

	text := sender.last(t).TextContent()
	for _, want := range []string{
		"AI Trading Simulation Results",
		"**Action:** Sell To Grid",
		"Selling excess energy during peak hours",
		"Time: Peak hours",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("simulation text missing %q: %q", want, text)
		}
	}
}

func TestRunSimulationNoActionForSmallSystem(t *testing.T) {
	flow := newTestFlow(t)
	sender := &captureSender{}
	sess := newSession() // default 5 kW never clears the excess threshold

	if err := flow.HandleAction(context.Background(), newTurn(sess, sender), "run_simulation", nil); err != nil {
		t.Fatalf("run_simulation: %v", err)
	}
	if len(sess.TradingHistory) != 1 || sess.TradingHistory[0].Action != energy.ActionNone {
		t.Fatalf("history = %+v", sess.TradingHistory)
	}
	if len(sess.Transactions) != 0 {
		t.Errorf("no transaction expected, got %+v", sess.Transactions)
	}
	if !strings.Contains(sender.last(t).TextContent(), "**Action:** No Action") {
		t.Errorf("simulation text: %q", sender.last(t).TextContent())
	}
}

func TestRunSimulationUsesLLMDecision(t *testing.T) {
	flow := newTestFlow(t)
	flow.llm = staticDecider{reply: "3 - sharing with neighbors keeps the community resilient"}
	sender := &captureSender{}
	sess := newSession()
	sess.SystemSizeKW = 15

	if err := flow.HandleAction(context.Background(), newTurn(sess, sender), "run_simulation", nil); err != nil {
		t.Fatalf("run_simulation: %v", err)
	}
	record := sess.TradingHistory[0]
	if record.Action != energy.ActionShareP2P {
		t.Errorf("action = %q", record.Action)
	}
	if sess.CommunityScore == 0 {
		t.Error("community score not credited")
	}

	text := sender.last(t).TextContent()
	if !strings.Contains(text, "sharing with neighbors keeps the community resilient") {
		t.Errorf("LLM explanation missing: %q", text)
	}
	if !strings.Contains(text, "Community contribution:") {
		t.Errorf("community block missing: %q", text)
	}
}

func TestEvaluateAutoTradeFallsBackOnLLMError(t *testing.T) {
	flow := newTestFlow(t)
	flow.llm = staticDecider{err: context.DeadlineExceeded}
	sess := newSession()
	sess.SystemSizeKW = 15

	outcome := flow.EvaluateAutoTrade(context.Background(), sess)
	if outcome.Action != energy.ActionSellToGrid {
		t.Errorf("fallback action = %q", outcome.Action)
	}
	if outcome.Explanation != "Selling excess energy during peak hours for maximum profit" {
		t.Errorf("explanation = %q", outcome.Explanation)
	}
}

func TestUnknownActionComingSoon(t *testing.T) {
	flow := newTestFlow(t)
	sender := &captureSender{}

	if err := flow.HandleAction(context.Background(), newTurn(newSession(), sender), "demand_response", nil); err != nil {
		t.Fatalf("HandleAction: %v", err)
	}
	if !strings.Contains(sender.last(t).TextContent(), "coming soon") {
		t.Errorf("expected placeholder, got %q", sender.last(t).TextContent())
	}
}

type staticDecider struct {
	reply string
	err   error
}

func (s staticDecider) Complete(context.Context, provider.CompletionRequest) (provider.CompletionResponse, error) {
	if s.err != nil {
		return provider.CompletionResponse{}, s.err
	}
	return provider.CompletionResponse{Content: s.reply}, nil
}
