package orders

func opened(order *Order, evt *OrderOpened) error {
	order.Reference = evt.Reference
	order.Status = StatusOpen
	order.Items = make(map[string]int)

	return nil
}

func itemAdded(order *Order, evt *ItemAdded) error {
	if order.Items == nil {
		order.Items = make(map[string]int)
	}
	order.Items[evt.SKU] = order.Items[evt.SKU] + evt.Quantity

	return nil
}

func itemRemoved(order *Order, evt *ItemRemoved) error {
	order.Items[evt.SKU] = order.Items[evt.SKU] - evt.Quantity
	if order.Items[evt.SKU] <= 0 {
		delete(order.Items, evt.SKU)
	}

	return nil
}

func checkedOut(order *Order, evt *OrderCheckedOut) error {
	order.Status = StatusCheckedOut

	return nil
}
