package orders

type OpenOrder struct {
	Reference string
}

type AddItem struct {
	SKU      string
	Quantity int
}

type RemoveItem struct {
	SKU      string
	Quantity int
}

type Checkout struct{}
