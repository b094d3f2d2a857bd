// Package event provides a typed, synchronous publish/subscribe bus.
package event

// Subscription identifies one handler registered on a Bus.
type Subscription uint64

type subscriber[T any] struct {
	id      Subscription
	handler func(T)
}

// Bus delivers values of type T to its subscribers.
//
// Delivery:
//   - Single-threaded; Publish returns after every handler ran
//   - Handlers are invoked in subscription order
//   - Handlers added or removed during a Publish take effect on the next one
type Bus[T any] struct {
	subscribers []subscriber[T]
	nextID      Subscription
}

// NewBus creates an empty bus.
func NewBus[T any]() *Bus[T] {
	return &Bus[T]{}
}

// Subscribe registers handler and returns a token for Unsubscribe.
func (b *Bus[T]) Subscribe(handler func(T)) Subscription {
	b.nextID++
	subs := make([]subscriber[T], len(b.subscribers), len(b.subscribers)+1)
	copy(subs, b.subscribers)
	b.subscribers = append(subs, subscriber[T]{id: b.nextID, handler: handler})
	return b.nextID
}

// Unsubscribe removes a handler. Unknown tokens are ignored.
func (b *Bus[T]) Unsubscribe(id Subscription) {
	for i, s := range b.subscribers {
		if s.id != id {
			continue
		}
		subs := make([]subscriber[T], 0, len(b.subscribers)-1)
		subs = append(subs, b.subscribers[:i]...)
		b.subscribers = append(subs, b.subscribers[i+1:]...)
		return
	}
}

// Publish delivers value to every current subscriber.
func (b *Bus[T]) Publish(value T) {
	for _, s := range b.subscribers {
		s.handler(value)
	}
}

// Len returns the number of subscribers.
func (b *Bus[T]) Len() int {
	return len(b.subscribers)
}
