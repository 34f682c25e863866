package beckn

import (
	"strconv"

	"github.com/voltmesh/solarbot/internal/energy"
)

// The extraction helpers flatten the aggregated catalog envelopes into the
// domain records the agents work with. Missing descriptors fall back to
// "Unknown ..." placeholders rather than dropping the entry.

func firstImage(d Descriptor) string {
	if len(d.Images) == 0 {
		return ""
	}
	return d.Images[0].URL
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// tagTables flattens item tags into nested maps: the outer key is the tag
// descriptor description, the inner keys are each entry's description
// falling back to its code.
func tagTables(tags []Tag) map[string]map[string]string {
	var out map[string]map[string]string
	for _, tag := range tags {
		if tag.Descriptor.Description == "" {
			continue
		}
		values := make(map[string]string)
		for _, tv := range tag.List {
			key := tv.Descriptor.Description
			if key == "" {
				key = tv.Descriptor.Code
			}
			if key == "" || tv.Value == "" {
				continue
			}
			values[key] = tv.Value
		}
		if len(values) == 0 {
			continue
		}
		if out == nil {
			out = make(map[string]map[string]string)
		}
		out[tag.Descriptor.Description] = values
	}
	return out
}

// eachCatalogProvider walks every provider in every response entry.
func eachCatalogProvider(resp *Response, fn func(Provider)) {
	if resp == nil {
		return
	}
	for _, entry := range resp.Responses {
		if entry.Message == nil || entry.Message.Catalog == nil {
			continue
		}
		for _, p := range entry.Message.Catalog.Providers {
			fn(p)
		}
	}
}

// ExtractSubsidies flattens a deg:schemes search response.
func ExtractSubsidies(resp *Response) []energy.Subsidy {
	var out []energy.Subsidy
	eachCatalogProvider(resp, func(p Provider) {
		fulfillmentID := ""
		if len(p.Fulfillments) > 0 {
			fulfillmentID = p.Fulfillments[0].ID
		}
		for _, item := range p.Items {
			s := energy.Subsidy{
				ID:              item.ID,
				ProviderID:      p.ID,
				ProviderName:    orDefault(p.Descriptor.Name, "Unknown Provider"),
				FulfillmentID:   fulfillmentID,
				ProviderDesc:    p.Descriptor.ShortDesc,
				Name:            orDefault(item.Descriptor.Name, "Unknown Subsidy"),
				Description:     item.Descriptor.ShortDesc,
				LongDescription: item.Descriptor.LongDesc,
				Image:           firstImage(item.Descriptor),
				Price:           "0",
				Currency:        "USD",
				Tags:            tagTables(item.Tags),
			}
			if item.Price != nil {
				s.Price = orDefault(item.Price.Value, "0")
				s.Currency = orDefault(item.Price.Currency, "USD")
			}
			out = append(out, s)
		}
	})
	return out
}

// ExtractInstallers flattens a deg:service search response into providers
// with their service items.
func ExtractInstallers(resp *Response) []energy.Installer {
	var out []energy.Installer
	eachCatalogProvider(resp, func(p Provider) {
		inst := energy.Installer{
			ID:        p.ID,
			Name:      orDefault(p.Descriptor.Name, "Unknown Provider"),
			ShortDesc: p.Descriptor.ShortDesc,
			LongDesc:  p.Descriptor.LongDesc,
			Image:     firstImage(p.Descriptor),
		}
		for _, loc := range p.Locations {
			inst.Locations = append(inst.Locations, energy.Location{ID: loc.ID, GPS: loc.GPS})
		}
		for _, item := range p.Items {
			svc := energy.InstallerService{
				ID:              item.ID,
				Name:            orDefault(item.Descriptor.Name, "Unknown Service"),
				Description:     item.Descriptor.ShortDesc,
				LongDescription: item.Descriptor.LongDesc,
				Image:           firstImage(item.Descriptor),
				Price:           "0",
				Currency:        "USD",
				Tags:            tagTables(item.Tags),
			}
			if item.Price != nil {
				svc.Price = orDefault(item.Price.Value, "0")
				svc.Currency = orDefault(item.Price.Currency, "USD")
			}
			inst.Services = append(inst.Services, svc)
		}
		out = append(out, inst)
	})
	return out
}

// ExtractProducts flattens a deg:retail search response.
func ExtractProducts(resp *Response) []energy.Product {
	var out []energy.Product
	eachCatalogProvider(resp, func(p Provider) {
		for _, item := range p.Items {
			prod := energy.Product{
				ID:           item.ID,
				ProviderID:   p.ID,
				ProviderName: orDefault(p.Descriptor.Name, "Unknown"),
				Name:         orDefault(item.Descriptor.Name, "Unknown Product"),
				Description:  item.Descriptor.ShortDesc,
				Image:        firstImage(item.Descriptor),
				Price:        "0",
				Currency:     "USD",
			}
			if item.Price != nil {
				prod.Price = orDefault(item.Price.Value, "0")
				prod.Currency = orDefault(item.Price.Currency, "USD")
			}
			out = append(out, prod)
		}
	})
	return out
}

// ExtractPrograms flattens a deg:schemes or deg:programs search response.
func ExtractPrograms(resp *Response) []energy.Program {
	var out []energy.Program
	eachCatalogProvider(resp, func(p Provider) {
		for _, item := range p.Items {
			out = append(out, energy.Program{
				ID:              item.ID,
				ProviderID:      p.ID,
				ProviderName:    orDefault(p.Descriptor.Name, "Unknown Provider"),
				Name:            orDefault(item.Descriptor.Name, "Unknown Program"),
				Description:     item.Descriptor.ShortDesc,
				LongDescription: item.Descriptor.LongDesc,
				Image:           firstImage(item.Descriptor),
				Tags:            tagTables(item.Tags),
			})
		}
	})
	return out
}

// ExtractTradeOpportunities flattens a deg:energy search response.
func ExtractTradeOpportunities(resp *Response) []energy.TradeOpportunity {
	var out []energy.TradeOpportunity
	eachCatalogProvider(resp, func(p Provider) {
		for _, item := range p.Items {
			opp := energy.TradeOpportunity{
				ID:           item.ID,
				ProviderID:   p.ID,
				ProviderName: orDefault(p.Descriptor.Name, "Unknown Provider"),
				Type:         orDefault(item.Descriptor.Code, "unknown"),
				Name:         orDefault(item.Descriptor.Name, "Unknown Opportunity"),
				Description:  item.Descriptor.ShortDesc,
				Currency:     "USD",
				Tags:         tagTables(item.Tags),
			}
			if item.Price != nil {
				if v, err := strconv.ParseFloat(item.Price.Value, 64); err == nil {
					opp.PricePerKWh = v
				}
				opp.Currency = orDefault(item.Price.Currency, "USD")
			}
			out = append(out, opp)
		}
	})
	return out
}

// ExtractOrder returns the first order found in an order-action response,
// or nil when there is none.
func ExtractOrder(resp *Response) *Order {
	if resp == nil {
		return nil
	}
	for _, entry := range resp.Responses {
		if entry.Message != nil && entry.Message.Order != nil {
			return entry.Message.Order
		}
	}
	return nil
}
