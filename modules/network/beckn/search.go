package beckn

import (
	"context"

	"github.com/voltmesh/solarbot/internal/energy"
)

// Network domains.
const (
	DomainSchemes  = "deg:schemes"
	DomainService  = "deg:service"
	DomainRetail   = "deg:retail"
	DomainEnergy   = "deg:energy"
	DomainPrograms = "deg:programs"
	DomainTokens   = "deg:tokens"
)

// Default search queries.
const (
	querySubsidies  = "incentive"
	queryInstallers = "resi"
	queryProducts   = "solar"
	queryPrograms   = "Program"
)

// SearchSubsidies finds solar incentives on the schemes domain.
func (c *Client) SearchSubsidies(ctx context.Context) ([]energy.Subsidy, error) {
	if c.config.MockMode {
		return mockSubsidies(), nil
	}
	req := Request{
		Context: c.newContext("search", DomainSchemes),
		Message: Message{Descriptor: &Descriptor{Name: querySubsidies}},
	}
	resp, err := c.call(ctx, req)
	if err != nil {
		return nil, err
	}
	return ExtractSubsidies(resp), nil
}

// SearchInstallers finds residential installation providers.
func (c *Client) SearchInstallers(ctx context.Context) ([]energy.Installer, error) {
	if c.config.MockMode {
		return mockInstallers(), nil
	}
	req := Request{
		Context: c.newContext("search", DomainService),
		Message: Message{Intent: &Intent{Descriptor: &Descriptor{Name: queryInstallers}}},
	}
	resp, err := c.call(ctx, req)
	if err != nil {
		return nil, err
	}
	return ExtractInstallers(resp), nil
}

// SearchProducts finds solar panel systems on the retail domain.
func (c *Client) SearchProducts(ctx context.Context) ([]energy.Product, error) {
	if c.config.MockMode {
		return mockProducts(), nil
	}
	req := Request{
		Context: c.newContext("search", DomainRetail),
		Message: Message{Intent: &Intent{Item: &Item{Descriptor: Descriptor{Name: queryProducts}}}},
	}
	resp, err := c.call(ctx, req)
	if err != nil {
		return nil, err
	}
	return ExtractProducts(resp), nil
}

// SearchPrograms finds energy programs on the schemes domain.
func (c *Client) SearchPrograms(ctx context.Context) ([]energy.Program, error) {
	if c.config.MockMode {
		return nil, nil
	}
	req := Request{
		Context: c.newContext("search", DomainSchemes),
		Message: Message{Intent: &Intent{Item: &Item{Descriptor: Descriptor{Name: queryPrograms}}}},
	}
	resp, err := c.call(ctx, req)
	if err != nil {
		return nil, err
	}
	return ExtractPrograms(resp), nil
}

// SearchTradeOpportunities finds open energy trades.
func (c *Client) SearchTradeOpportunities(ctx context.Context) ([]energy.TradeOpportunity, error) {
	if c.config.MockMode {
		return mockTradeOpportunities(), nil
	}
	req := Request{
		Context: c.newContext("search", DomainEnergy),
		Message: Message{Intent: &Intent{Fulfillment: &IntentFulf{Type: "ENERGY_TRADE"}}},
	}
	resp, err := c.call(ctx, req)
	if err != nil {
		return nil, err
	}
	return ExtractTradeOpportunities(resp), nil
}

// SearchDemandResponse finds demand-response programs.
func (c *Client) SearchDemandResponse(ctx context.Context) ([]energy.Program, error) {
	if c.config.MockMode {
		return nil, nil
	}
	req := Request{
		Context: c.newContext("search", DomainPrograms),
		Message: Message{Intent: &Intent{Category: &Category{
			Descriptor: Descriptor{Code: "demand-response"},
		}}},
	}
	resp, err := c.call(ctx, req)
	if err != nil {
		return nil, err
	}
	return ExtractPrograms(resp), nil
}
