package solar

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/voltmesh/solarbot/internal/energy"
	"github.com/voltmesh/solarbot/internal/engine"
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

func newTestFlow(t *testing.T) *Flow {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &Flow{
		config: Config{CatalogLimit: 3},
		logger: logger,
		net:    beckn.NewClient(beckn.Config{MockMode: true}, logger, nil),
	}
}

func newTurn(sess *session.Session, sender *captureSender) *engine.Turn {
	msg := message.InboundMessage{
		Channel:  "channel.telegram",
		Sender:   message.Sender{ID: sess.UserID, DisplayName: sess.Name},
		Chat:     message.Chat{ID: "100", Type: message.ChatDM},
		Callback: &message.Callback{ID: "cb", Data: "solar_onboarding:x", MessageID: "55"},
	}
	return engine.NewTurn(sess, msg, sender)
}

func newSession() *session.Session {
	sess := session.New("4242")
	sess.Name = "Ada"
	return sess
}

func TestStartAsksForAddress(t *testing.T) {
	flow := newTestFlow(t)
	sender := &captureSender{}
	sess := newSession()

	if err := flow.HandleAction(context.Background(), newTurn(sess, sender), "start", nil); err != nil {
		t.Fatalf("HandleAction: %v", err)
	}
	if sess.State != session.StateOnboardAddress {
		t.Errorf("state = %q", sess.State)
	}
	out := sender.last(t)
	if out.EditMessageID != "55" {
		t.Error("start should edit the menu message in place")
	}
	if !strings.Contains(out.TextContent(), "complete address") {
		t.Errorf("unexpected prompt: %q", out.TextContent())
	}
}

func TestAddressThenConsumption(t *testing.T) {
	flow := newTestFlow(t)
	sender := &captureSender{}
	sess := newSession()
	sess.State = session.StateOnboardAddress

	handled, err := flow.HandleText(context.Background(), newTurn(sess, sender), "12 Solar Street, SF")
	if err != nil || !handled {
		t.Fatalf("HandleText = %v, %v", handled, err)
	}
	if sess.Address != "12 Solar Street, SF" {
		t.Errorf("address = %q", sess.Address)
	}
	if sess.State != session.StateOnboardElectricityBill {
		t.Errorf("state = %q", sess.State)
	}

	handled, err = flow.HandleText(context.Background(), newTurn(sess, sender), "350 kWh")
	if err != nil || !handled {
		t.Fatalf("HandleText = %v, %v", handled, err)
	}
	if sess.ElectricityConsumption != 350 {
		t.Errorf("consumption = %v", sess.ElectricityConsumption)
	}
	if sess.State != session.StateOnboardConfirm {
		t.Errorf("state = %q", sess.State)
	}

	out := sender.last(t)
	if !strings.Contains(out.TextContent(), "350 kWh") {
		t.Errorf("confirmation text: %q", out.TextContent())
	}
	if out.Keyboard == nil || len(out.Keyboard.Rows) != 2 {
		t.Fatalf("expected Continue/Cancel keyboard, got %+v", out.Keyboard)
	}
}

func TestConsumptionParseFailureReprompts(t *testing.T) {
	flow := newTestFlow(t)
	sender := &captureSender{}
	sess := newSession()
	sess.State = session.StateOnboardElectricityBill

	handled, err := flow.HandleText(context.Background(), newTurn(sess, sender), "about three hundred")
	if err != nil || !handled {
		t.Fatalf("HandleText = %v, %v", handled, err)
	}
	if sess.State != session.StateOnboardElectricityBill {
		t.Errorf("state should not advance, got %q", sess.State)
	}
	if !strings.Contains(sender.last(t).TextContent(), "For example: 350 kWh") {
		t.Errorf("expected re-prompt, got %q", sender.last(t).TextContent())
	}
}

func TestConfirmShowsOptionsAndPrefetches(t *testing.T) {
	flow := newTestFlow(t)
	sender := &captureSender{}
	sess := newSession()
	sess.Address = "12 Solar Street"
	sess.ElectricityConsumption = 350
	sess.State = session.StateOnboardConfirm

	if err := flow.HandleAction(context.Background(), newTurn(sess, sender), "confirm", nil); err != nil {
		t.Fatalf("HandleAction: %v", err)
	}
	if sess.State != session.StateOnboardOptions {
		t.Errorf("state = %q", sess.State)
	}
	if len(sess.Subsidies) == 0 || len(sess.Installers) == 0 {
		t.Error("catalogs were not prefetched")
	}

	out := sender.last(t)
	if !strings.Contains(out.TextContent(), "12 Solar Street") {
		t.Errorf("options text: %q", out.TextContent())
	}
	if out.Keyboard == nil || len(out.Keyboard.Rows) != 5 {
		t.Fatalf("expected five option rows, got %+v", out.Keyboard)
	}
}

func TestSearchSubsidies(t *testing.T) {
	flow := newTestFlow(t)
	sender := &captureSender{}
	sess := newSession()
	sess.State = session.StateOnboardOptions

	if err := flow.HandleAction(context.Background(), newTurn(sess, sender), "search_subsidies", nil); err != nil {
		t.Fatalf("HandleAction: %v", err)
	}

	out := sender.last(t)
	text := out.TextContent()
	if !strings.Contains(text, "available subsidies") {
		t.Errorf("subsidy text: %q", text)
	}
	if !strings.Contains(text, "Residential Solar Incentive") {
		t.Errorf("mock subsidy missing: %q", text)
	}
	if out.Keyboard == nil || len(out.Keyboard.Rows) != 4 {
		t.Fatalf("expected 3 apply buttons + back, got %+v", out.Keyboard)
	}
	data := out.Keyboard.Rows[0][0].Data
	if !strings.HasPrefix(data, "solar_onboarding:apply_subsidy:provider-sfge:incentive-res-01:") {
		t.Errorf("apply data = %q", data)
	}
}

func TestApplyAndConfirmSubsidy(t *testing.T) {
	flow := newTestFlow(t)
	sender := &captureSender{}
	sess := newSession()

	args := []string{"provider-sfge", "incentive-res-01", "615"}
	if err := flow.HandleAction(context.Background(), newTurn(sess, sender), "apply_subsidy", args); err != nil {
		t.Fatalf("apply_subsidy: %v", err)
	}
	if sess.State != session.StateOnboardApplyingSubsidy {
		t.Errorf("state = %q", sess.State)
	}
	out := sender.last(t)
	if out.Keyboard == nil ||
		out.Keyboard.Rows[0][0].Data != "solar_onboarding:confirm_subsidy:provider-sfge:incentive-res-01:615" {
		t.Fatalf("confirm button: %+v", out.Keyboard)
	}

	if err := flow.HandleAction(context.Background(), newTurn(sess, sender), "confirm_subsidy", args); err != nil {
		t.Fatalf("confirm_subsidy: %v", err)
	}
	if sess.State != session.StateOnboardSubsidyConfirmed {
		t.Errorf("state = %q", sess.State)
	}
	if sess.SubsidyOrderID == "" {
		t.Error("subsidy order id was not stored")
	}
	if !strings.Contains(sender.last(t).TextContent(), "Subsidy Application Submitted") {
		t.Errorf("confirmation text: %q", sender.last(t).TextContent())
	}
}

func TestApplySubsidyDefaultFulfillment(t *testing.T) {
	flow := newTestFlow(t)
	sender := &captureSender{}
	sess := newSession()

	err := flow.HandleAction(context.Background(), newTurn(sess, sender), "apply_subsidy",
		[]string{"provider-sfge", "incentive-res-01"})
	if err != nil {
		t.Fatalf("apply_subsidy: %v", err)
	}
	if sess.SelectedFulfillmentID != "615" {
		t.Errorf("fulfillment = %q, want default 615", sess.SelectedFulfillmentID)
	}
}

func TestInstallerJourney(t *testing.T) {
	flow := newTestFlow(t)
	sender := &captureSender{}
	sess := newSession()

	if err := flow.HandleAction(context.Background(), newTurn(sess, sender), "find_installers", nil); err != nil {
		t.Fatalf("find_installers: %v", err)
	}
	out := sender.last(t)
	if !strings.Contains(out.TextContent(), "BrightRoof Installations") {
		t.Errorf("installer list: %q", out.TextContent())
	}

	args := []string{"installer-bright", "svc-resi-install"}
	if err := flow.HandleAction(context.Background(), newTurn(sess, sender), "select_installer", args); err != nil {
		t.Fatalf("select_installer: %v", err)
	}
	if sess.SelectedInstallerName != "BrightRoof Installations" {
		t.Errorf("installer name = %q", sess.SelectedInstallerName)
	}
	if !strings.Contains(sender.last(t).TextContent(), "Residential Rooftop Installation") {
		t.Errorf("selection text: %q", sender.last(t).TextContent())
	}

	if err := flow.HandleAction(context.Background(), newTurn(sess, sender), "init_order", args); err != nil {
		t.Fatalf("init_order: %v", err)
	}
	if sess.State != session.StateOnboardInitOrder {
		t.Errorf("state = %q", sess.State)
	}

	if err := flow.HandleAction(context.Background(), newTurn(sess, sender), "provide_contact", args); err != nil {
		t.Fatalf("provide_contact: %v", err)
	}
	if sess.State != session.StateOnboardOrderConfirmed {
		t.Errorf("state = %q", sess.State)
	}
	if sess.InstallationOrderID == "" {
		t.Error("installation order id missing")
	}
	if !strings.Contains(sender.last(t).TextContent(), "Installation Consultation Confirmed") {
		t.Errorf("confirmation: %q", sender.last(t).TextContent())
	}
}

func TestProductJourney(t *testing.T) {
	flow := newTestFlow(t)
	sender := &captureSender{}
	sess := newSession()
	sess.Address = "12 Solar Street"

	if err := flow.HandleAction(context.Background(), newTurn(sess, sender), "find_products", nil); err != nil {
		t.Fatalf("find_products: %v", err)
	}
	if !strings.Contains(sender.last(t).TextContent(), "400W Monocrystalline Panel Kit") {
		t.Errorf("product list: %q", sender.last(t).TextContent())
	}

	args := []string{"provider-volt", "panel-400w"}
	if err := flow.HandleAction(context.Background(), newTurn(sess, sender), "select_product", args); err != nil {
		t.Fatalf("select_product: %v", err)
	}
	if sess.State != session.StateOnboardSelectProduct {
		t.Errorf("state = %q", sess.State)
	}

	if err := flow.HandleAction(context.Background(), newTurn(sess, sender), "init_product", args); err != nil {
		t.Fatalf("init_product: %v", err)
	}
	if err := flow.HandleAction(context.Background(), newTurn(sess, sender), "provide_delivery_info", args); err != nil {
		t.Fatalf("provide_delivery_info: %v", err)
	}
	if sess.State != session.StateOnboardProductConfirmed {
		t.Errorf("state = %q", sess.State)
	}
	if sess.ProductOrderID == "" {
		t.Error("product order id missing")
	}
	if !strings.Contains(sender.last(t).TextContent(), "Purchase Confirmed") {
		t.Errorf("confirmation: %q", sender.last(t).TextContent())
	}
}

func TestCalcROI(t *testing.T) {
	flow := newTestFlow(t)
	sender := &captureSender{}
	sess := newSession()
	sess.ElectricityConsumption = 350
	sess.ElectricityRate = 0.20

	if err := flow.HandleAction(context.Background(), newTurn(sess, sender), "calc_roi", nil); err != nil {
		t.Fatalf("calc_roi: %v", err)
	}
	if sess.ROIEstimate == nil {
		t.Fatal("ROI estimate not stored")
	}

	text := sender.last(t).TextContent()
	for _, want := range []string{
		"Solar Investment Analysis",
		"System Size: 2.8 kW",
		"System Cost: $8400.00",
		"Annual Production: 4200 kWh",
		"Annual Savings: $840.00",
		"Payback Period: 10.0 years",
		"20-Year ROI: 100.0%",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("ROI text missing %q in %q", want, text)
		}
	}
}

func TestAnalyzeRoofAndPhoto(t *testing.T) {
	flow := newTestFlow(t)
	flow.analyzer = staticAnalyzer{analysis: energy.RoofAnalysis{
		Suitable:            true,
		RoofAreaSqm:         35,
		CapacityKW:          5.3,
		AnnualGenerationKWh: 7950,
		Orientation:         "south",
		ShadingFactor:       0.15,
	}}
	sender := &captureSender{}
	sess := newSession()

	if err := flow.HandleAction(context.Background(), newTurn(sess, sender), "analyze_roof", nil); err != nil {
		t.Fatalf("analyze_roof: %v", err)
	}
	if sess.State != session.StateOnboardAwaitingPhoto {
		t.Fatalf("state = %q", sess.State)
	}

	photo := message.NewImageBlock("tg://file_id/abc", "")
	handled, err := flow.HandlePhoto(context.Background(), newTurn(sess, sender), photo)
	if err != nil || !handled {
		t.Fatalf("HandlePhoto = %v, %v", handled, err)
	}
	if sess.State != session.StateOnboardRoofAnalyzed {
		t.Errorf("state = %q", sess.State)
	}
	if sess.RoofAnalysis == nil || !sess.RoofAnalysis.Suitable {
		t.Fatalf("analysis not stored: %+v", sess.RoofAnalysis)
	}

	text := sender.last(t).TextContent()
	if !strings.Contains(text, "Good News!") || !strings.Contains(text, "south") {
		t.Errorf("suitable response: %q", text)
	}
}

func TestPhotoUnsuitableRoof(t *testing.T) {
	flow := newTestFlow(t)
	flow.analyzer = staticAnalyzer{analysis: energy.RoofAnalysis{
		Suitable: false,
		Reason:   "Excessive shading detected",
	}}
	sender := &captureSender{}
	sess := newSession()
	sess.State = session.StateOnboardAwaitingPhoto

	photo := message.NewImageBlock("tg://file_id/abc", "")
	handled, err := flow.HandlePhoto(context.Background(), newTurn(sess, sender), photo)
	if err != nil || !handled {
		t.Fatalf("HandlePhoto = %v, %v", handled, err)
	}

	out := sender.last(t)
	if !strings.Contains(out.TextContent(), "Excessive shading detected") {
		t.Errorf("reason missing: %q", out.TextContent())
	}
	if out.Keyboard == nil || len(out.Keyboard.Rows) != 3 {
		t.Fatalf("expected alternatives keyboard, got %+v", out.Keyboard)
	}
}

func TestPhotoIgnoredOutsideAwaitingState(t *testing.T) {
	flow := newTestFlow(t)
	sess := newSession()
	sess.State = session.StateOnboardOptions

	photo := message.NewImageBlock("tg://file_id/abc", "")
	handled, err := flow.HandlePhoto(context.Background(), newTurn(sess, &captureSender{}), photo)
	if err != nil {
		t.Fatalf("HandlePhoto: %v", err)
	}
	if handled {
		t.Error("photo outside awaiting state must not be handled")
	}
}

func TestViewSummary(t *testing.T) {
	flow := newTestFlow(t)
	sender := &captureSender{}
	sess := newSession()
	sess.Address = "12 Solar Street"
	sess.ElectricityConsumption = 350
	sess.SelectedInstallerName = "BrightRoof Installations"
	sess.SubsidyOrderID = "ORD-123"

	if err := flow.HandleAction(context.Background(), newTurn(sess, sender), "view_summary", nil); err != nil {
		t.Fatalf("view_summary: %v", err)
	}
	text := sender.last(t).TextContent()
	for _, want := range []string{"Solar Onboarding Summary", "12 Solar Street", "BrightRoof Installations", "ORD-123"} {
		if !strings.Contains(text, want) {
			t.Errorf("summary missing %q: %q", want, text)
		}
	}
}

func TestUnknownActionApologizes(t *testing.T) {
	flow := newTestFlow(t)
	sender := &captureSender{}

	if err := flow.HandleAction(context.Background(), newTurn(newSession(), sender), "bogus", nil); err != nil {
		t.Fatalf("HandleAction: %v", err)
	}
	if !strings.Contains(sender.last(t).TextContent(), "couldn't process that request") {
		t.Errorf("expected apology, got %q", sender.last(t).TextContent())
	}
}

type staticAnalyzer struct {
	analysis energy.RoofAnalysis
}

func (s staticAnalyzer) Analyze(context.Context, string, []byte, string) energy.RoofAnalysis {
	return s.analysis
}
