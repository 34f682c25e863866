package solar

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/voltmesh/solarbot/internal/engine"
	"github.com/voltmesh/solarbot/internal/session"
	"github.com/voltmesh/solarbot/modules/network/beckn"
	"github.com/voltmesh/solarbot/pkg/message"
)

func (f *Flow) findProducts(ctx context.Context, t *engine.Turn) error {
	products := t.Session.Products
	if len(products) == 0 {
		var err error
		products, err = f.net.SearchProducts(ctx)
		if err != nil {
			f.logger.Error("product search failed", "user_id", t.Session.UserID, "error", err)
		}
		t.Session.Products = products
	}
	if len(products) == 0 {
		return t.Edit(ctx,
			"I couldn't find any solar products at the moment. Please try again later.",
			backTo("solar_onboarding:confirm"))
	}

	var b strings.Builder
	b.WriteString("Here are recommended solar panel systems for your needs:\n\n")
	kb := &message.Keyboard{}

	for i, p := range products {
		if i >= f.config.CatalogLimit {
			break
		}
		fmt.Fprintf(&b, "**%d. %s**\n", i+1, p.Name)
		fmt.Fprintf(&b, "Description: %s\n", p.Description)
		fmt.Fprintf(&b, "Price: %s %s\n\n", p.Price, currencyOr(p.Currency))

		kb.Row(message.Button{
			Text: "Select " + p.Name,
			Data: fmt.Sprintf("solar_onboarding:select_product:%s:%s", p.ProviderID, p.ID),
		})
	}
	kb.Row(message.Button{Text: "⬅️ Back", Data: "solar_onboarding:confirm"})

	return t.Edit(ctx, b.String(), kb)
}

func (f *Flow) selectProduct(ctx context.Context, t *engine.Turn, args []string) error {
	if len(args) < 2 {
		return t.Unknown(ctx)
	}
	providerID, productID := args[0], args[1]

	t.Session.State = session.StateOnboardSelectProduct
	t.Session.SelectedProviderID = providerID
	t.Session.SelectedProductID = productID

	if _, err := f.net.Select(ctx, beckn.DomainRetail, providerID, productID); err != nil {
		f.logger.Warn("product select failed", "user_id", t.Session.UserID, "error", err)
	}

	kb := (&message.Keyboard{}).
		Row(message.Button{
			Text: "✅ Purchase Product",
			Data: fmt.Sprintf("solar_onboarding:init_product:%s:%s", providerID, productID),
		}).
		Row(message.Button{Text: "⬅️ Back", Data: "solar_onboarding:find_products"})

	return t.Edit(ctx,
		"You've selected this solar panel system. Would you like to purchase it?", kb)
}

func (f *Flow) initProduct(ctx context.Context, t *engine.Turn, args []string) error {
	if len(args) < 2 {
		return t.Unknown(ctx)
	}
	providerID, productID := args[0], args[1]

	if _, err := f.net.Init(ctx, beckn.DomainRetail, providerID, productID); err != nil {
		f.logger.Warn("product init failed", "user_id", t.Session.UserID, "error", err)
	}

	t.Session.State = session.StateOnboardInitProduct

	kb := (&message.Keyboard{}).
		Row(message.Button{
			Text: "📝 Provide Delivery Info",
			Data: fmt.Sprintf("solar_onboarding:provide_delivery_info:%s:%s", providerID, productID),
		}).
		Row(message.Button{
			Text: "⬅️ Back",
			Data: fmt.Sprintf("solar_onboarding:select_product:%s:%s", providerID, productID),
		})

	return t.Edit(ctx,
		"Your product order has been initialized!\n\n"+
			"To complete your purchase, I'll need to collect your contact and delivery information.", kb)
}

func (f *Flow) provideDeliveryInfo(ctx context.Context, t *engine.Turn, args []string) error {
	if len(args) < 2 {
		return t.Unknown(ctx)
	}
	providerID, productID := args[0], args[1]

	t.Session.State = session.StateOnboardConfirmProduct

	customer := beckn.NewCustomer(t.Session.Name).WithDelivery(t.Session.Address)
	order, err := f.net.Confirm(ctx, beckn.DomainRetail, providerID, productID, fulfillmentDelivery, customer)
	if err != nil {
		f.logger.Warn("product confirm failed, issuing local order id",
			"user_id", t.Session.UserID, "error", err)
	}

	orderID := ""
	if order != nil {
		orderID = order.ID
	}
	if orderID == "" {
		orderID = "PROD-" + uuid.NewString()[:8]
	}

	t.Session.State = session.StateOnboardProductConfirmed
	t.Session.ProductOrderID = orderID

	kb := (&message.Keyboard{}).
		Row(message.Button{Text: "🏪 Find Installers", Data: "solar_onboarding:find_installers"}).
		Row(message.Button{Text: "📊 View Solar Summary", Data: "solar_onboarding:view_summary"}).
		Row(message.Button{Text: "🏠 Return to Main Menu", Data: "solar_onboarding:back_to_main"})

	return t.Edit(ctx, fmt.Sprintf(
		"✅ **Solar Panel System Purchase Confirmed!**\n\n"+
			"Order ID: `%s`\n\n"+
			"Your solar panel system has been ordered and will be delivered to your address. "+
			"Would you like to schedule an installation with one of our certified installers?", orderID), kb)
}
