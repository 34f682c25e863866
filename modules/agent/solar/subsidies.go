package solar

import (
	"context"
	"fmt"
	"strings"

	"github.com/voltmesh/solarbot/internal/engine"
	"github.com/voltmesh/solarbot/internal/session"
	"github.com/voltmesh/solarbot/modules/network/beckn"
	"github.com/voltmesh/solarbot/pkg/message"
)

func backTo(data string) *message.Keyboard {
	return (&message.Keyboard{}).Row(message.Button{Text: "⬅️ Back", Data: data})
}

func (f *Flow) searchSubsidies(ctx context.Context, t *engine.Turn) error {
	subsidies := t.Session.Subsidies
	if len(subsidies) == 0 {
		var err error
		subsidies, err = f.net.SearchSubsidies(ctx)
		if err != nil {
			f.logger.Error("subsidy search failed", "user_id", t.Session.UserID, "error", err)
		}
		t.Session.Subsidies = subsidies
	}
	if len(subsidies) == 0 {
		return t.Edit(ctx,
			"I couldn't find any subsidies at the moment. Please try again later.",
			backTo("solar_onboarding:confirm"))
	}

	var b strings.Builder
	b.WriteString("Here are the available subsidies for your area:\n\n")
	kb := &message.Keyboard{}

	for i, sub := range subsidies {
		if i >= f.config.CatalogLimit {
			break
		}
		fmt.Fprintf(&b, "**%d. %s**\n", i+1, sub.Name)
		fmt.Fprintf(&b, "Provider: %s\n", sub.ProviderName)
		fmt.Fprintf(&b, "Description: %s\n", sub.Description)
		if sub.Price != "" && sub.Price != "0" {
			fmt.Fprintf(&b, "Value: %s %s\n", sub.Price, currencyOr(sub.Currency))
		}
		b.WriteString("\n")

		fulfillment := sub.FulfillmentID
		if fulfillment == "" {
			fulfillment = fulfillmentSubsidy
		}
		kb.Row(message.Button{
			Text: "Apply for " + truncate(sub.Name, 20),
			Data: fmt.Sprintf("solar_onboarding:apply_subsidy:%s:%s:%s", sub.ProviderID, sub.ID, fulfillment),
		})
	}
	kb.Row(message.Button{Text: "⬅️ Back", Data: "solar_onboarding:confirm"})

	return t.Edit(ctx, b.String(), kb)
}

func (f *Flow) applySubsidy(ctx context.Context, t *engine.Turn, args []string) error {
	if len(args) < 2 {
		return t.Unknown(ctx)
	}
	providerID, subsidyID := args[0], args[1]
	fulfillment := fulfillmentSubsidy
	if len(args) >= 3 && args[2] != "" {
		fulfillment = args[2]
	}

	t.Session.State = session.StateOnboardApplyingSubsidy
	t.Session.SelectedProviderID = providerID
	t.Session.SelectedSubsidyID = subsidyID
	t.Session.SelectedFulfillmentID = fulfillment

	kb := (&message.Keyboard{}).
		Row(message.Button{
			Text: "✅ Confirm Application",
			Data: fmt.Sprintf("solar_onboarding:confirm_subsidy:%s:%s:%s", providerID, subsidyID, fulfillment),
		}).
		Row(message.Button{Text: "⬅️ Back", Data: "solar_onboarding:search_subsidies"})

	return t.Edit(ctx,
		"Great! Let's apply for this subsidy. I'll need to collect some information.\n\n"+
			"Would you like to confirm your application with the information you've already provided?",
		kb)
}

func (f *Flow) confirmSubsidy(ctx context.Context, t *engine.Turn, args []string) error {
	if len(args) < 2 {
		return t.Unknown(ctx)
	}
	providerID, subsidyID := args[0], args[1]
	fulfillment := fulfillmentSubsidy
	if len(args) >= 3 && args[2] != "" {
		fulfillment = args[2]
	}

	customer := beckn.NewCustomer(t.Session.Name)
	order, err := f.net.Confirm(ctx, beckn.DomainSchemes, providerID, subsidyID, fulfillment, customer)
	if err != nil || order == nil || order.ID == "" {
		f.logger.Error("subsidy confirm failed", "user_id", t.Session.UserID, "error", err)
		return t.Edit(ctx,
			"❌ There was a problem submitting your subsidy application. Please try again later.",
			backTo("solar_onboarding:search_subsidies"))
	}

	t.Session.State = session.StateOnboardSubsidyConfirmed
	t.Session.SubsidyOrderID = order.ID

	kb := (&message.Keyboard{}).
		Row(message.Button{Text: "🔍 Find Solar Products", Data: "solar_onboarding:find_products"}).
		Row(message.Button{Text: "🏪 Find Installers", Data: "solar_onboarding:find_installers"}).
		Row(message.Button{Text: "⬅️ Back to Main Menu", Data: "solar_onboarding:back_to_main"})

	return t.Edit(ctx, fmt.Sprintf(
		"✅ **Subsidy Application Submitted!**\n\n"+
			"Order ID: `%s`\n\n"+
			"Your application has been received and is being processed. "+
			"You'll be notified once it's approved.\n\n"+
			"Would you like to find solar panels and installers now?", order.ID), kb)
}

func currencyOr(c string) string {
	if c == "" {
		return "USD"
	}
	return c
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
