package orders

type OrderOpened struct {
	Reference string `json:"reference"`
}

type ItemAdded struct {
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
}

type ItemRemoved struct {
	SKU      string `json:"sku"`
	Quantity int    `json:"quantity"`
}

type OrderCheckedOut struct{}
