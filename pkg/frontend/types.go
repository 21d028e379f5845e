package frontend

import "strings"

// AddressType distinguishes the addresses attached to a basket.
type AddressType string

const (
	AddressPayment  AddressType = "payment"
	AddressDelivery AddressType = "delivery"
)

// ServiceType distinguishes basket services.
type ServiceType string

const (
	ServiceDelivery ServiceType = "delivery"
	ServicePayment  ServiceType = "payment"
)

// Part selects which basket parts a check covers.
type Part int

const (
	PartProduct Part = 1 << iota
	PartAddress
	PartCoupon
	PartService
)

// Price is expressed in minor units (cents).
type Price struct {
	Value    int64  `json:"value"`
	Costs    int64  `json:"costs"`
	Rebate   int64  `json:"rebate"`
	TaxRate  string `json:"taxrate"`
	TaxName  string `json:"taxname"`
	Currency string `json:"currency"`
}

// Product is a catalog product as returned by the product controller.
type Product struct {
	ID     string `json:"id"`
	Code   string `json:"code"`
	Type   string `json:"type"`
	Label  string `json:"label"`
	Status int    `json:"status"`
	Price  Price  `json:"price"`
	SiteID string `json:"siteid"`
}

// OrderAttribute is an attribute attached to an ordered product.
type OrderAttribute struct {
	AttributeID string `json:"attrid"`
	Type        string `json:"type"`
	Code        string `json:"code"`
	Value       string `json:"value"`
	Quantity    int    `json:"quantity"`
}

// OrderProduct is a line item in the basket.
type OrderProduct struct {
	Position    int              `json:"position"`
	ProductID   string           `json:"prodid"`
	ProductCode string           `json:"prodcode"`
	Name        string           `json:"name"`
	Quantity    int              `json:"quantity"`
	Price       Price            `json:"price"`
	StockType   string           `json:"stocktype"`
	Supplier    string           `json:"supplier,omitempty"`
	SiteID      string           `json:"siteid,omitempty"`
	Attributes  []OrderAttribute `json:"attributes,omitempty"`
}

// Service is a delivery or payment option chosen for the basket.
type Service struct {
	ID    string      `json:"id"`
	Code  string      `json:"code"`
	Name  string      `json:"name"`
	Type  ServiceType `json:"type"`
	Price Price       `json:"price"`
}

// Address is used for customer and order addresses alike.
type Address struct {
	ID         string `json:"id"`
	AddressID  string `json:"addressid,omitempty"`
	Salutation string `json:"salutation"`
	Company    string `json:"company"`
	FirstName  string `json:"firstname"`
	LastName   string `json:"lastname"`
	Address1   string `json:"address1"`
	Address2   string `json:"address2"`
	Postal     string `json:"postal"`
	City       string `json:"city"`
	State      string `json:"state"`
	CountryID  string `json:"countryid"`
	LanguageID string `json:"languageid"`
	Email      string `json:"email"`
	Telephone  string `json:"telephone"`
}

// CopyFrom returns a new order address holding the values of src. The copy
// has no identity of its own and references src through AddressID.
func (a Address) CopyFrom(src Address) Address {
	out := src
	out.ID = ""
	out.AddressID = src.ID
	if out.LanguageID == "" {
		out.LanguageID = a.LanguageID
	}
	return out
}

// Field returns the value of an address field by its form name.
func (a Address) Field(name string) string {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "salutation":
		return a.Salutation
	case "company":
		return a.Company
	case "firstname":
		return a.FirstName
	case "lastname":
		return a.LastName
	case "address1":
		return a.Address1
	case "address2":
		return a.Address2
	case "postal":
		return a.Postal
	case "city":
		return a.City
	case "state":
		return a.State
	case "countryid":
		return a.CountryID
	case "languageid":
		return a.LanguageID
	case "email":
		return a.Email
	case "telephone":
		return a.Telephone
	default:
		return ""
	}
}

// AddressFromMap builds an address from submitted form fields.
func AddressFromMap(values map[string]string) Address {
	get := func(key string) string { return strings.TrimSpace(values[key]) }
	return Address{
		Salutation: get("salutation"),
		Company:    get("company"),
		FirstName:  get("firstname"),
		LastName:   get("lastname"),
		Address1:   get("address1"),
		Address2:   get("address2"),
		Postal:     get("postal"),
		City:       get("city"),
		State:      get("state"),
		CountryID:  strings.ToUpper(get("countryid")),
		LanguageID: get("languageid"),
		Email:      get("email"),
		Telephone:  get("telephone"),
	}
}

// Basket is the in-progress order.
type Basket struct {
	ID        string                    `json:"id"`
	Currency  string                    `json:"currency"`
	Products  []OrderProduct            `json:"products"`
	Addresses map[AddressType][]Address `json:"addresses"`
	Coupons   map[string][]OrderProduct `json:"coupons"`
	Services  map[ServiceType][]Service `json:"services"`
}

// NewBasket returns an empty basket with initialised collections.
func NewBasket(id, currency string) *Basket {
	return &Basket{
		ID:        id,
		Currency:  currency,
		Addresses: make(map[AddressType][]Address),
		Coupons:   make(map[string][]OrderProduct),
		Services:  make(map[ServiceType][]Service),
	}
}

// AddressCount returns the number of addresses of any type.
func (b *Basket) AddressCount() int {
	if b == nil {
		return 0
	}
	n := 0
	for _, list := range b.Addresses {
		n += len(list)
	}
	return n
}

// Customer is a registered storefront customer.
type Customer struct {
	ID             string    `json:"id"`
	Code           string    `json:"code"`
	Label          string    `json:"label"`
	PaymentAddress Address   `json:"payment"`
	Addresses      []Address `json:"addresses"`
}

// StockItem is the stock level of a product for one stock type. A nil
// StockLevel means unlimited stock.
type StockItem struct {
	ID          string `json:"id"`
	ProductCode string `json:"productcode"`
	Type        string `json:"type"`
	StockLevel  *int   `json:"stocklevel"`
	DateBack    string `json:"dateback,omitempty"`
}

// Locale is an available site/language/currency combination.
type Locale struct {
	SiteID     string `json:"siteid"`
	LanguageID string `json:"languageid"`
	CurrencyID string `json:"currencyid"`
	Position   int    `json:"position"`
	Status     int    `json:"status"`
}

// StockFilter narrows a stock search.
type StockFilter struct {
	Codes  []string
	Type   string
	Sort   string
	Offset int
	Limit  int
}

// AddProductInput carries everything the basket needs to add a line item.
type AddProductInput struct {
	Product      Product
	Quantity     int
	VariantAttrs []string
	ConfigAttrs  map[string]int
	CustomAttrs  map[string]string
	StockType    string
	Supplier     string
	SiteID       string
}
