package solar

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/voltmesh/solarbot/internal/energy"
	"github.com/voltmesh/solarbot/internal/engine"
	"github.com/voltmesh/solarbot/internal/session"
	"github.com/voltmesh/solarbot/pkg/message"
)

// HandleAction implements engine.Flow.
func (f *Flow) HandleAction(ctx context.Context, t *engine.Turn, action string, args []string) error {
	switch action {
	case "start":
		return f.start(ctx, t)
	case "confirm":
		return f.showOptions(ctx, t)
	case "search_subsidies":
		return f.searchSubsidies(ctx, t)
	case "apply_subsidy":
		return f.applySubsidy(ctx, t, args)
	case "confirm_subsidy":
		return f.confirmSubsidy(ctx, t, args)
	case "find_installers":
		return f.findInstallers(ctx, t)
	case "select_installer":
		return f.selectInstaller(ctx, t, args)
	case "init_order":
		return f.initOrder(ctx, t, args)
	case "provide_contact":
		return f.provideContact(ctx, t, args)
	case "find_products":
		return f.findProducts(ctx, t)
	case "select_product":
		return f.selectProduct(ctx, t, args)
	case "init_product":
		return f.initProduct(ctx, t, args)
	case "provide_delivery_info":
		return f.provideDeliveryInfo(ctx, t, args)
	case "calc_roi":
		return f.calcROI(ctx, t)
	case "analyze_roof":
		return f.analyzeRoof(ctx, t)
	case "explore_alternatives":
		return f.exploreAlternatives(ctx, t)
	case "view_summary":
		return f.viewSummary(ctx, t)
	case "back_to_main", "cancel":
		return t.MainMenu(ctx)
	default:
		return t.Unknown(ctx)
	}
}

// HandleText implements engine.Flow. It consumes the address and the
// monthly consumption the onboarding states ask for.
func (f *Flow) HandleText(ctx context.Context, t *engine.Turn, text string) (bool, error) {
	switch t.Session.State {
	case session.StateOnboardAddress:
		t.Session.Address = text
		t.Session.State = session.StateOnboardElectricityBill
		return true, t.Reply(ctx,
			"Thanks for providing your address. Next, please send me your monthly "+
				"electricity consumption in kWh or upload a photo of your electricity bill.")

	case session.StateOnboardElectricityBill:
		consumption, err := parseConsumption(text)
		if err != nil {
			return true, t.Reply(ctx,
				"Please enter your monthly electricity consumption as a number in kWh. "+
					"For example: 350 kWh")
		}
		t.Session.ElectricityConsumption = consumption
		t.Session.State = session.StateOnboardConfirm

		kb := (&message.Keyboard{}).
			Row(message.Button{Text: "✅ Continue", Data: "solar_onboarding:confirm"}).
			Row(message.Button{Text: "❌ Cancel", Data: "solar_onboarding:cancel"})
		return true, t.ReplyMenu(ctx, fmt.Sprintf(
			"I've recorded your monthly consumption as %s kWh. "+
				"Now I can check what solar options are available for you. "+
				"Shall we proceed?", formatKWh(consumption)), kb)
	}
	return false, nil
}

func parseConsumption(text string) (float64, error) {
	cleaned := strings.TrimSpace(strings.ReplaceAll(text, "kWh", ""))
	cleaned = strings.TrimSpace(strings.ReplaceAll(cleaned, "kwh", ""))
	return strconv.ParseFloat(cleaned, 64)
}

// formatKWh renders a consumption value the way the user entered it,
// without a trailing ".0" for whole numbers.
func formatKWh(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (f *Flow) start(ctx context.Context, t *engine.Turn) error {
	t.Session.State = session.StateOnboardAddress
	return t.Edit(ctx,
		"Great choice! Let's start your solar onboarding process. 🌞\n\n"+
			"First, I'll need your address to check solar potential and available "+
			"subsidies in your area. Please provide your complete address.", nil)
}

// showOptions is the hub screen after the user confirms address and
// consumption. Catalogs are prefetched here so the option screens render
// from the session.
func (f *Flow) showOptions(ctx context.Context, t *engine.Turn) error {
	t.Session.State = session.StateOnboardOptions
	f.prefetchCatalogs(ctx, t.Session)

	address := t.Session.Address
	if address == "" {
		address = "Unknown"
	}
	consumption := "Unknown"
	if t.Session.ElectricityConsumption > 0 {
		consumption = formatKWh(t.Session.ElectricityConsumption)
	}

	kb := (&message.Keyboard{}).
		Row(message.Button{Text: "🔍 Search Subsidies", Data: "solar_onboarding:search_subsidies"}).
		Row(message.Button{Text: "🏪 Find Installers", Data: "solar_onboarding:find_installers"}).
		Row(message.Button{Text: "🧮 Calculate ROI", Data: "solar_onboarding:calc_roi"}).
		Row(message.Button{Text: "📷 Analyze My Roof", Data: "solar_onboarding:analyze_roof"}).
		Row(message.Button{Text: "⬅️ Back to Main Menu", Data: "solar_onboarding:back_to_main"})

	return t.Edit(ctx, fmt.Sprintf(
		"Thanks for the information! I've recorded:\n\n"+
			"📍 **Address**: %s\n"+
			"⚡ **Monthly Consumption**: %s kWh\n\n"+
			"Now, what would you like to do next?", address, consumption), kb)
}

// prefetchCatalogs warms the session caches. Failures are logged and
// tolerated; the option screens fetch again on demand.
func (f *Flow) prefetchCatalogs(ctx context.Context, sess *session.Session) {
	if len(sess.Subsidies) == 0 {
		if subsidies, err := f.net.SearchSubsidies(ctx); err != nil {
			f.logger.Warn("subsidy prefetch failed", "user_id", sess.UserID, "error", err)
		} else {
			sess.Subsidies = subsidies
		}
	}
	if len(sess.Installers) == 0 {
		if installers, err := f.net.SearchInstallers(ctx); err != nil {
			f.logger.Warn("installer prefetch failed", "user_id", sess.UserID, "error", err)
		} else {
			sess.Installers = installers
		}
	}
}

func (f *Flow) calcROI(ctx context.Context, t *engine.Turn) error {
	roi := energy.EstimateROI(t.Session.ElectricityConsumption, t.Session.ElectricityRate)
	t.Session.ROIEstimate = &roi

	kb := (&message.Keyboard{}).
		Row(message.Button{Text: "🏪 Find Installers", Data: "solar_onboarding:find_installers"}).
		Row(message.Button{Text: "⬅️ Back", Data: "solar_onboarding:confirm"})

	return t.Edit(ctx, roiText(roi), kb)
}

func roiText(roi energy.ROIEstimate) string {
	return fmt.Sprintf(
		"📊 **Solar Investment Analysis**\n\n"+
			"System Size: %.1f kW\n"+
			"System Cost: $%.2f\n\n"+
			"Annual Production: %.0f kWh\n"+
			"Annual Savings: $%.2f\n\n"+
			"Payback Period: %.1f years\n"+
			"20-Year ROI: %.1f%%\n\n"+
			"Ready to take the next step toward energy independence?",
		roi.SystemSizeKW, roi.EstimatedCost, roi.AnnualProduction,
		roi.AnnualSavings, roi.PaybackYears, roi.ROI20YearPct)
}

func (f *Flow) viewSummary(ctx context.Context, t *engine.Turn) error {
	kb := (&message.Keyboard{}).
		Row(message.Button{Text: "🏠 Return to Main Menu", Data: "solar_onboarding:back_to_main"})
	return t.Edit(ctx, summaryText(t.Session), kb)
}

func summaryText(sess *session.Session) string {
	var b strings.Builder
	b.WriteString("🌞 **Solar Onboarding Summary** 🌞\n\n")

	if sess.Address != "" {
		fmt.Fprintf(&b, "📍 **Address**: %s\n", sess.Address)
	}
	if sess.ElectricityConsumption > 0 {
		fmt.Fprintf(&b, "⚡ **Monthly Consumption**: %s kWh\n", formatKWh(sess.ElectricityConsumption))
	}
	if roi := sess.ROIEstimate; roi != nil {
		fmt.Fprintf(&b,
			"\n**Investment Estimate**\n"+
				"• System size: %.1f kW\n"+
				"• System cost: $%.2f\n"+
				"• Annual savings: $%.2f\n"+
				"• Payback period: %.1f years\n",
			roi.SystemSizeKW, roi.EstimatedCost, roi.AnnualSavings, roi.PaybackYears)
	}
	if sess.SelectedInstallerName != "" {
		fmt.Fprintf(&b, "\n🏪 **Selected Installer**: %s\n", sess.SelectedInstallerName)
	}
	if sess.SubsidyOrderID != "" {
		fmt.Fprintf(&b, "✅ Subsidy application: `%s`\n", sess.SubsidyOrderID)
	}
	if sess.InstallationOrderID != "" {
		fmt.Fprintf(&b, "✅ Installation consultation: `%s`\n", sess.InstallationOrderID)
	}
	if sess.ProductOrderID != "" {
		fmt.Fprintf(&b, "✅ Product order: `%s`\n", sess.ProductOrderID)
	}

	if b.Len() == len("🌞 **Solar Onboarding Summary** 🌞\n\n") {
		b.WriteString("You haven't started your solar journey yet. " +
			"Use the main menu to begin onboarding.")
	} else {
		b.WriteString("\nCongratulations on your progress toward energy independence!")
	}
	return b.String()
}
