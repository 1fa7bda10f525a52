package orders

import (
	"context"
	"errors"

	qe "github.com/quayshop/quay-events-go"
)

func openOrder(ctx context.Context, cmd OpenOrder, entity qe.Entity[Order], publish qe.EventPublisher) error {
	if entity.Initialized() {
		return errors.New("order already opened")
	}

	_, err := publish(ctx, entity.Aggregate, entity.Version, OrderOpened{Reference: cmd.Reference})
	return err
}

func addItem(ctx context.Context, cmd AddItem, entity qe.Entity[Order], publish qe.EventPublisher) error {
	if cmd.Quantity <= 0 {
		return errors.New("quantity must be positive")
	}

	if entity.State.Status != StatusOpen {
		return errors.New("order is not open")
	}

	_, err := publish(ctx, entity.Aggregate, entity.Version, ItemAdded{SKU: cmd.SKU, Quantity: cmd.Quantity})
	return err
}

func removeItem(ctx context.Context, cmd RemoveItem, entity qe.Entity[Order], publish qe.EventPublisher) error {
	if entity.State.Status != StatusOpen {
		return errors.New("order is not open")
	}

	if entity.State.Quantity(cmd.SKU) < cmd.Quantity {
		return errors.New("cannot remove more than the order holds")
	}

	_, err := publish(ctx, entity.Aggregate, entity.Version, ItemRemoved{SKU: cmd.SKU, Quantity: cmd.Quantity})
	return err
}

func checkout(ctx context.Context, cmd Checkout, entity qe.Entity[Order], publish qe.EventPublisher) error {
	if entity.State.Status != StatusOpen {
		return errors.New("order is not open")
	}

	if entity.State.Empty() {
		return errors.New("cannot check out an empty order")
	}

	_, err := publish(ctx, entity.Aggregate, entity.Version, OrderCheckedOut{})
	return err
}
