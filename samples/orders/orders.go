package orders

const (
	StatusOpen       = "open"
	StatusCheckedOut = "checked-out"
)

type Order struct {
	Reference string         `json:"reference"`
	Status    string         `json:"status"`
	Items     map[string]int `json:"items"`
}

func (o *Order) Quantity(sku string) int {
	return o.Items[sku]
}

func (o *Order) Empty() bool {
	for _, quantity := range o.Items {
		if quantity > 0 {
			return false
		}
	}

	return true
}
