package orders

import (
	qe "github.com/quayshop/quay-events-go"
)

func NewOrderService(store qe.EventStore) qe.EntityService[Order] {
	reducers := qe.Reducers[Order]{
		qe.EventTypeOf(OrderOpened{}):     qe.ReducerFunction[Order, OrderOpened](opened),
		qe.EventTypeOf(ItemAdded{}):       qe.ReducerFunction[Order, ItemAdded](itemAdded),
		qe.EventTypeOf(ItemRemoved{}):     qe.ReducerFunction[Order, ItemRemoved](itemRemoved),
		qe.EventTypeOf(OrderCheckedOut{}): qe.ReducerFunction[Order, OrderCheckedOut](checkedOut),
	}

	handlers := qe.CommandHandlers[Order]{
		qe.CommandNameOf(OpenOrder{}):  qe.CommandHandlerFunction[Order, OpenOrder](openOrder),
		qe.CommandNameOf(AddItem{}):    qe.CommandHandlerFunction[Order, AddItem](addItem),
		qe.CommandNameOf(RemoveItem{}): qe.CommandHandlerFunction[Order, RemoveItem](removeItem),
		qe.CommandNameOf(Checkout{}):   qe.CommandHandlerFunction[Order, Checkout](checkout),
	}

	loader := &qe.EntityLoader[Order]{
		Loader:   qe.Loader(store),
		Renderer: &qe.Renderer[Order]{Reducers: reducers},
	}

	dispatcher := &qe.RoutedDispatcher[Order]{
		Publish:  qe.Publisher(store),
		Handlers: handlers,
	}

	return qe.NewEntityService(loader, dispatcher)
}
