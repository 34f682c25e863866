package beckn

import (
	"context"
	"strconv"
	"strings"
)

// NewCustomer builds the customer payload the flows attach to confirms.
// The phone and email are demo placeholders, matching the sandbox network.
func NewCustomer(name string) Customer {
	return Customer{
		Person:  Person{Name: name},
		Contact: Contact{Phone: "876756454", Email: name + "@example.com"},
	}
}

// WithDelivery returns the customer with a retail delivery address attached.
func (c Customer) WithDelivery(address string) Customer {
	c.Delivery = &Delivery{Address: address}
	return c
}

// Select asks the provider to price an item.
func (c *Client) Select(ctx context.Context, domain, providerID, itemID string) (*Order, error) {
	if c.config.MockMode {
		return mockOrder("SEL", providerID, itemID), nil
	}
	req := Request{
		Context: c.newContext("select", domain),
		Message: Message{Order: &Order{
			Provider: &ProviderRef{ID: providerID},
			Items:    []Item{{ID: itemID}},
		}},
	}
	resp, err := c.call(ctx, req)
	if err != nil {
		return nil, err
	}
	return ExtractOrder(resp), nil
}

// Init opens an order for an item.
func (c *Client) Init(ctx context.Context, domain, providerID, itemID string) (*Order, error) {
	if c.config.MockMode {
		return mockOrder("INIT", providerID, itemID), nil
	}
	req := Request{
		Context: c.newContext("init", domain),
		Message: Message{Order: &Order{
			Provider: &ProviderRef{ID: providerID},
			Items:    []Item{{ID: itemID}},
		}},
	}
	resp, err := c.call(ctx, req)
	if err != nil {
		return nil, err
	}
	return ExtractOrder(resp), nil
}

// Confirm places an order with the customer attached to the fulfillment.
func (c *Client) Confirm(ctx context.Context, domain, providerID, itemID, fulfillmentID string, customer Customer) (*Order, error) {
	if c.config.MockMode {
		return mockOrder("ORD", providerID, itemID), nil
	}
	req := Request{
		Context: c.newContext("confirm", domain),
		Message: Message{Order: &Order{
			Provider: &ProviderRef{ID: providerID},
			Items:    []Item{{ID: itemID}},
			Fulfillments: []Fulfillment{{
				ID:       fulfillmentID,
				Customer: &customer,
			}},
		}},
	}
	resp, err := c.call(ctx, req)
	if err != nil {
		return nil, err
	}
	return ExtractOrder(resp), nil
}

// Status fetches the current state of an order.
func (c *Client) Status(ctx context.Context, domain, orderID string) (*Order, error) {
	if c.config.MockMode {
		return &Order{ID: orderID, Status: "ACTIVE"}, nil
	}
	req := Request{
		Context: c.newContext("status", domain),
		Message: Message{OrderID: orderID},
	}
	resp, err := c.call(ctx, req)
	if err != nil {
		return nil, err
	}
	return ExtractOrder(resp), nil
}

// Trade directions for ExecuteTrade.
const (
	TradeSell = "SELL"
	TradeBuy  = "BUY"
)

// ExecuteTrade inits an energy trade order on the energy domain. The item
// id and descriptor encode the direction; amount and price ride as strings.
func (c *Client) ExecuteTrade(ctx context.Context, providerID, tradeType string, amountKWh, priceUSD float64) (*Order, error) {
	if c.config.MockMode {
		return mockOrder("TRD", providerID, "energy-"+strings.ToLower(tradeType)), nil
	}
	direction := strings.ToUpper(tradeType)
	if direction == "" {
		direction = TradeSell
	}
	lower := strings.ToLower(direction)
	title := "Energy " + strings.ToUpper(lower[:1]) + lower[1:]
	req := Request{
		Context: c.newContext("init", DomainEnergy),
		Message: Message{Order: &Order{
			Provider: &ProviderRef{ID: providerID},
			Items: []Item{{
				ID: "energy-" + strings.ToLower(direction),
				Descriptor: Descriptor{
					Name: title,
					Code: direction,
				},
				Price: &Price{
					Value:    strconv.FormatFloat(priceUSD, 'f', -1, 64),
					Currency: "USD",
				},
				Quantity: &Quantity{Measure: Measure{
					Value: strconv.FormatFloat(amountKWh, 'f', -1, 64),
					Unit:  "kWh",
				}},
			}},
		}},
	}
	resp, err := c.call(ctx, req)
	if err != nil {
		return nil, err
	}
	return ExtractOrder(resp), nil
}

// CreateEnergyNFT inits a tokenization order on the tokens domain.
func (c *Client) CreateEnergyNFT(ctx context.Context, providerID string, amountKWh float64) (*Order, error) {
	if c.config.MockMode {
		return mockOrder("NFT", providerID, "energy-nft"), nil
	}
	req := Request{
		Context: c.newContext("init", DomainTokens),
		Message: Message{Order: &Order{
			Provider: &ProviderRef{ID: providerID},
			Items: []Item{{
				ID: "energy-nft",
				Descriptor: Descriptor{
					Name: "Energy NFT",
					Code: "ENERGY_TOKEN",
				},
				Quantity: &Quantity{Measure: Measure{
					Value: strconv.FormatFloat(amountKWh, 'f', -1, 64),
					Unit:  "kWh",
				}},
			}},
		}},
	}
	resp, err := c.call(ctx, req)
	if err != nil {
		return nil, err
	}
	return ExtractOrder(resp), nil
}
