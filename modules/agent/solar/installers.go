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

func (f *Flow) findInstallers(ctx context.Context, t *engine.Turn) error {
	installers := t.Session.Installers
	if len(installers) == 0 {
		var err error
		installers, err = f.net.SearchInstallers(ctx)
		if err != nil {
			f.logger.Error("installer search failed", "user_id", t.Session.UserID, "error", err)
		}
		t.Session.Installers = installers
	}
	if len(installers) == 0 {
		return t.Edit(ctx,
			"I couldn't find any installers at the moment. Please try again later.",
			backTo("solar_onboarding:confirm"))
	}

	var b strings.Builder
	b.WriteString("Here are the recommended solar installers in your area:\n\n")
	kb := &message.Keyboard{}

	for i, inst := range installers {
		if i >= f.config.CatalogLimit {
			break
		}
		fmt.Fprintf(&b, "**%d. %s**\n", i+1, inst.Name)
		fmt.Fprintf(&b, "Description: %s\n", inst.ShortDesc)
		if len(inst.Services) > 0 {
			b.WriteString("Services:\n")
			for j, svc := range inst.Services {
				if j >= 2 {
					break
				}
				fmt.Fprintf(&b, "- %s: %s %s\n", svc.Name, svc.Price, currencyOr(svc.Currency))
			}
		}
		b.WriteString("\n")

		if len(inst.Services) > 0 {
			kb.Row(message.Button{
				Text: "Select " + inst.Name,
				Data: fmt.Sprintf("solar_onboarding:select_installer:%s:%s", inst.ID, inst.Services[0].ID),
			})
		}
	}
	kb.Row(message.Button{Text: "⬅️ Back", Data: "solar_onboarding:confirm"})

	return t.Edit(ctx, b.String(), kb)
}

func (f *Flow) selectInstaller(ctx context.Context, t *engine.Turn, args []string) error {
	if len(args) < 2 {
		return t.Unknown(ctx)
	}
	providerID, serviceID := args[0], args[1]

	t.Session.State = session.StateOnboardSelectInstaller
	t.Session.SelectedProviderID = providerID
	t.Session.SelectedServiceID = serviceID

	order, err := f.net.Select(ctx, beckn.DomainService, providerID, serviceID)
	if err != nil || order == nil {
		f.logger.Error("installer select failed", "user_id", t.Session.UserID, "error", err)
		return t.Edit(ctx,
			"There was a problem selecting this service. Please try again later.",
			backTo("solar_onboarding:find_installers"))
	}

	serviceName, providerName := f.installerNames(t.Session, providerID, serviceID)
	t.Session.SelectedInstallerName = providerName

	price, currency := "N/A", "USD"
	if order.Quote != nil && order.Quote.Price.Value != "" {
		price = order.Quote.Price.Value
		currency = currencyOr(order.Quote.Price.Currency)
	}

	kb := (&message.Keyboard{}).
		Row(message.Button{
			Text: "✅ Schedule Consultation",
			Data: fmt.Sprintf("solar_onboarding:init_order:%s:%s", providerID, serviceID),
		}).
		Row(message.Button{Text: "⬅️ Back", Data: "solar_onboarding:find_installers"})

	return t.Edit(ctx, fmt.Sprintf(
		"You've selected **%s** from **%s**.\n\n"+
			"Price: %s %s\n\n"+
			"Would you like to proceed with scheduling an installation consultation?",
		serviceName, providerName, price, currency), kb)
}

// installerNames resolves display names from the cached catalog, with
// generic fallbacks when the catalog has expired from the session.
func (f *Flow) installerNames(sess *session.Session, providerID, serviceID string) (service, provider string) {
	service, provider = "Solar Installation Service", "Solar Installer"
	for _, inst := range sess.Installers {
		if inst.ID != providerID {
			continue
		}
		provider = inst.Name
		for _, svc := range inst.Services {
			if svc.ID == serviceID {
				service = svc.Name
				break
			}
		}
		break
	}
	return service, provider
}

func (f *Flow) initOrder(ctx context.Context, t *engine.Turn, args []string) error {
	if len(args) < 2 {
		return t.Unknown(ctx)
	}
	providerID, serviceID := args[0], args[1]

	order, err := f.net.Init(ctx, beckn.DomainService, providerID, serviceID)
	if err != nil || order == nil {
		f.logger.Error("order init failed", "user_id", t.Session.UserID, "error", err)
		return t.Edit(ctx,
			"There was a problem initializing your order. Please try again later.",
			backTo(fmt.Sprintf("solar_onboarding:select_installer:%s:%s", providerID, serviceID)))
	}

	t.Session.State = session.StateOnboardInitOrder

	kb := (&message.Keyboard{}).
		Row(message.Button{
			Text: "📝 Provide Contact Info",
			Data: fmt.Sprintf("solar_onboarding:provide_contact:%s:%s", providerID, serviceID),
		}).
		Row(message.Button{
			Text: "⬅️ Back",
			Data: fmt.Sprintf("solar_onboarding:select_installer:%s:%s", providerID, serviceID),
		})

	return t.Edit(ctx,
		"Your installation consultation has been initialized!\n\n"+
			"To complete your order, I'll need to collect your contact information.", kb)
}

func (f *Flow) provideContact(ctx context.Context, t *engine.Turn, args []string) error {
	if len(args) < 2 {
		return t.Unknown(ctx)
	}
	providerID, serviceID := args[0], args[1]

	t.Session.State = session.StateOnboardConfirmingOrder

	customer := beckn.NewCustomer(t.Session.Name)
	order, err := f.net.Confirm(ctx, beckn.DomainSchemes, providerID, serviceID, fulfillmentInstallation, customer)
	if err != nil || order == nil || order.ID == "" {
		f.logger.Error("consultation confirm failed", "user_id", t.Session.UserID, "error", err)
		return t.Edit(ctx,
			"❌ There was a problem confirming your installation consultation. Please try again later.",
			backTo(fmt.Sprintf("solar_onboarding:init_order:%s:%s", providerID, serviceID)))
	}

	t.Session.State = session.StateOnboardOrderConfirmed
	t.Session.InstallationOrderID = order.ID

	kb := (&message.Keyboard{}).
		Row(message.Button{Text: "📊 View Solar Summary", Data: "solar_onboarding:view_summary"}).
		Row(message.Button{Text: "🏠 Return to Main Menu", Data: "solar_onboarding:back_to_main"})

	return t.Edit(ctx, fmt.Sprintf(
		"✅ **Installation Consultation Confirmed!**\n\n"+
			"Order ID: `%s`\n\n"+
			"Your installation consultation has been scheduled. "+
			"The installer will contact you soon to coordinate the details.\n\n"+
			"Congratulations on taking this important step toward energy independence!", order.ID), kb)
}
