package beckn

// Context travels with every request on the network and identifies the
// domain, action, and the transacting platforms.
type Context struct {
	Domain        string   `json:"domain"`
	Action        string   `json:"action"`
	Location      Location `json:"location"`
	Version       string   `json:"version"`
	BAPID         string   `json:"bap_id"`
	BAPURI        string   `json:"bap_uri"`
	BPPID         string   `json:"bpp_id"`
	BPPURI        string   `json:"bpp_uri"`
	TransactionID string   `json:"transaction_id"`
	MessageID     string   `json:"message_id"`
	Timestamp     string   `json:"timestamp"`
}

// Location scopes a context to a country and city.
type Location struct {
	Country CodeRef `json:"country"`
	City    CodeRef `json:"city"`
}

// CodeRef is a coded reference ({"code": ...}).
type CodeRef struct {
	Code string `json:"code"`
}

// Descriptor names and describes a provider, item, or tag.
type Descriptor struct {
	Name        string  `json:"name,omitempty"`
	Code        string  `json:"code,omitempty"`
	ShortDesc   string  `json:"short_desc,omitempty"`
	LongDesc    string  `json:"long_desc,omitempty"`
	Description string  `json:"description,omitempty"`
	Images      []Image `json:"images,omitempty"`
}

// Image is a descriptor image reference.
type Image struct {
	URL string `json:"url,omitempty"`
}

// Price is a money amount carried as a string on the wire.
type Price struct {
	Value    string `json:"value,omitempty"`
	Currency string `json:"currency,omitempty"`
}

// Quantity wraps a measured amount.
type Quantity struct {
	Measure Measure `json:"measure"`
}

// Measure is a value with a unit, e.g. {"value": "5.0", "unit": "kWh"}.
type Measure struct {
	Value string `json:"value"`
	Unit  string `json:"unit"`
}

// TagValue is one entry in a tag list.
type TagValue struct {
	Descriptor Descriptor `json:"descriptor,omitempty"`
	Value      string     `json:"value,omitempty"`
}

// Tag is a keyed table of extra attributes on an item.
type Tag struct {
	Descriptor Descriptor `json:"descriptor,omitempty"`
	List       []TagValue `json:"list,omitempty"`
}

// Item is a catalog entry or order line.
type Item struct {
	ID         string     `json:"id,omitempty"`
	Descriptor Descriptor `json:"descriptor,omitempty"`
	Price      *Price     `json:"price,omitempty"`
	Quantity   *Quantity  `json:"quantity,omitempty"`
	Tags       []Tag      `json:"tags,omitempty"`
}

// Person identifies a human in customer info.
type Person struct {
	Name string `json:"name,omitempty"`
}

// Contact carries reachability details.
type Contact struct {
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
}

// Delivery carries a drop-off address for retail orders.
type Delivery struct {
	Address string `json:"address,omitempty"`
}

// Customer is the person plus contact attached to a fulfillment.
type Customer struct {
	Person   Person    `json:"person"`
	Contact  Contact   `json:"contact"`
	Delivery *Delivery `json:"delivery,omitempty"`
}

// Fulfillment is how an order is delivered or serviced.
type Fulfillment struct {
	ID       string    `json:"id,omitempty"`
	Type     string    `json:"type,omitempty"`
	Customer *Customer `json:"customer,omitempty"`
}

// Provider is one seller in a catalog.
type Provider struct {
	ID           string        `json:"id,omitempty"`
	Descriptor   Descriptor    `json:"descriptor,omitempty"`
	Locations    []ProviderLoc `json:"locations,omitempty"`
	Fulfillments []Fulfillment `json:"fulfillments,omitempty"`
	Items        []Item        `json:"items,omitempty"`
}

// ProviderLoc is a provider service location on the wire.
type ProviderLoc struct {
	ID  string `json:"id,omitempty"`
	GPS string `json:"gps,omitempty"`
}

// Catalog is the providers listing in a search response.
type Catalog struct {
	Descriptor Descriptor `json:"descriptor,omitempty"`
	Providers  []Provider `json:"providers,omitempty"`
}

// Order is the order body in select/init/confirm messages and responses.
type Order struct {
	ID           string        `json:"id,omitempty"`
	Provider     *ProviderRef  `json:"provider,omitempty"`
	Items        []Item        `json:"items,omitempty"`
	Fulfillments []Fulfillment `json:"fulfillments,omitempty"`
	Quote        *Quote        `json:"quote,omitempty"`
	Status       string        `json:"status,omitempty"`
}

// ProviderRef references a provider by id in an order.
type ProviderRef struct {
	ID string `json:"id"`
}

// Quote is the priced summary a BPP returns on select.
type Quote struct {
	Price Price `json:"price,omitempty"`
}

// Intent is the search intent body.
type Intent struct {
	Descriptor  *Descriptor `json:"descriptor,omitempty"`
	Item        *Item       `json:"item,omitempty"`
	Category    *Category   `json:"category,omitempty"`
	Fulfillment *IntentFulf `json:"fulfillment,omitempty"`
}

// Category is a coded intent category.
type Category struct {
	Descriptor Descriptor `json:"descriptor"`
}

// IntentFulf narrows a search to a fulfillment type.
type IntentFulf struct {
	Type string `json:"type,omitempty"`
}

// Message is the polymorphic message body of a request or response.
type Message struct {
	Descriptor *Descriptor `json:"descriptor,omitempty"`
	Intent     *Intent     `json:"intent,omitempty"`
	Catalog    *Catalog    `json:"catalog,omitempty"`
	Order      *Order      `json:"order,omitempty"`
	OrderID    string      `json:"order_id,omitempty"`
}

// Request is a full envelope sent to the gateway.
type Request struct {
	Context Context `json:"context"`
	Message Message `json:"message"`
}

// Response is the aggregated envelope the BAP client returns: search and
// order actions both come back under a "responses" array.
type Response struct {
	Responses []ResponseEntry `json:"responses,omitempty"`
	Error     *WireError      `json:"error,omitempty"`
}

// ResponseEntry is one BPP response inside the aggregate.
type ResponseEntry struct {
	Context *Context `json:"context,omitempty"`
	Message *Message `json:"message,omitempty"`
}

// WireError is the error object a gateway may return in-band.
type WireError struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}
