package solar

import (
	"context"
	"fmt"

	"github.com/voltmesh/solarbot/internal/energy"
	"github.com/voltmesh/solarbot/internal/engine"
	"github.com/voltmesh/solarbot/internal/session"
	"github.com/voltmesh/solarbot/pkg/message"
)

func (f *Flow) analyzeRoof(ctx context.Context, t *engine.Turn) error {
	t.Session.State = session.StateOnboardAwaitingPhoto
	return t.Edit(ctx,
		"Let's check your roof's solar potential! 📷\n\n"+
			"Please send me a photo of your rooftop, ideally taken from above "+
			"(a satellite view or drone shot works best).",
		backTo("solar_onboarding:confirm"))
}

// HandlePhoto implements engine.PhotoHandler. Only the awaiting-photo state
// consumes uploads; everything else falls back to the engine's hint.
func (f *Flow) HandlePhoto(ctx context.Context, t *engine.Turn, photo message.ContentBlock) (bool, error) {
	if t.Session.State != session.StateOnboardAwaitingPhoto {
		return false, nil
	}

	if err := t.Reply(ctx, "🔍 Analyzing your rooftop image... Please wait."); err != nil {
		return true, err
	}

	ref := photo.URL
	var data []byte
	var mimeType string
	if f.files != nil {
		path, fileData, mime, err := f.files.FetchFile(ctx, photo.URL)
		if err != nil {
			f.logger.Warn("rooftop photo fetch failed", "user_id", t.Session.UserID, "error", err)
		}
		if path != "" {
			ref = path
		}
		data, mimeType = fileData, mime
	}

	var analysis energy.RoofAnalysis
	if f.analyzer != nil {
		analysis = f.analyzer.Analyze(ctx, ref, data, mimeType)
	}

	t.Session.RoofAnalysis = &analysis
	t.Session.State = session.StateOnboardRoofAnalyzed

	if analysis.Suitable {
		kb := (&message.Keyboard{}).
			Row(message.Button{Text: "💰 Calculate ROI", Data: "solar_onboarding:calc_roi"}).
			Row(message.Button{Text: "🔍 Find Installers", Data: "solar_onboarding:find_installers"}).
			Row(message.Button{Text: "⬅️ Back", Data: "solar_onboarding:confirm"})
		return true, t.ReplyMenu(ctx, suitableRoofText(analysis), kb)
	}

	kb := (&message.Keyboard{}).
		Row(message.Button{Text: "🏪 Find Installers Anyway", Data: "solar_onboarding:find_installers"}).
		Row(message.Button{Text: "🌞 Explore Alternatives", Data: "solar_onboarding:explore_alternatives"}).
		Row(message.Button{Text: "⬅️ Back", Data: "solar_onboarding:confirm"})
	return true, t.ReplyMenu(ctx, unsuitableRoofText(analysis), kb)
}

func (f *Flow) exploreAlternatives(ctx context.Context, t *engine.Turn) error {
	kb := (&message.Keyboard{}).
		Row(message.Button{Text: "🏪 Find Installers", Data: "solar_onboarding:find_installers"}).
		Row(message.Button{Text: "🔍 Search Subsidies", Data: "solar_onboarding:search_subsidies"}).
		Row(message.Button{Text: "⬅️ Back to Main Menu", Data: "solar_onboarding:back_to_main"})
	return t.Edit(ctx,
		"🌞 **Solar Alternatives**\n\n"+
			"Even when a rooftop isn't ideal, you can still go solar:\n\n"+
			"• **In-person assessment**: installers can often work around shading "+
			"or orientation issues a photo can't show.\n"+
			"• **Ground-mounted panels**: a good fit if you have open land.\n"+
			"• **Community solar**: subscribe to a shared local array and save "+
			"without installing anything.\n\n"+
			"Many subsidies apply to these options too. Would you like to look?", kb)
}

func suitableRoofText(a energy.RoofAnalysis) string {
	return fmt.Sprintf(
		"✅ **Good News!** Your roof looks suitable for solar panels.\n\n"+
			"**Analysis Results:**\n"+
			"• Usable area: %.1f sq.m\n"+
			"• Potential capacity: %.1f kW\n"+
			"• Estimated annual generation: %.0f kWh\n"+
			"• Roof orientation: %s\n"+
			"• Shading factor: %.2f\n\n"+
			"Would you like to calculate your potential savings with this system?",
		a.RoofAreaSqm, a.CapacityKW, a.AnnualGenerationKWh, a.Orientation, a.ShadingFactor)
}

func unsuitableRoofText(a energy.RoofAnalysis) string {
	reason := a.Reason
	if reason == "" {
		reason = "Unable to determine"
	}
	return fmt.Sprintf(
		"⚠️ **Solar Potential Analysis**\n\n"+
			"Based on the image provided, your roof may not be ideal for solar installation.\n\n"+
			"**Reason:** %s\n\n"+
			"However, there might still be options! You could consider:\n"+
			"• Having an installer perform an in-person assessment\n"+
			"• Ground-mounted solar panels if you have available land\n"+
			"• Community solar projects in your area\n\n"+
			"Would you like to explore these alternatives?", reason)
}
