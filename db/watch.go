// ABOUTME: In-process change notification for store mutations
// ABOUTME: Subscribers get a callback per entity change and a cancel func to unsubscribe
package db

import (
	"sync"
)

// Entity names used for change notifications.
const (
	EntityMeetings = "meetings"
	EntityTasks    = "tasks"
	EntityProjects = "projects"
	EntityTokens   = "tokens"
)

// Notifier fans out change notifications to subscribers. Callbacks run on the
// notifying goroutine; no delivery-order guarantee exists across subscribers.
type Notifier struct {
	mu   sync.Mutex
	next int
	subs map[int]subscription
}

type subscription struct {
	entity string
	fn     func(entity string)
}

func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[int]subscription)}
}

// Subscribe registers fn for changes to entity ("" matches every entity).
// The returned cancel func detaches the subscription and is safe to call twice.
func (n *Notifier) Subscribe(entity string, fn func(entity string)) func() {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.next
	n.next++
	n.subs[id] = subscription{entity: entity, fn: fn}

	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.subs, id)
	}
}

// Notify invokes every subscription matching entity.
func (n *Notifier) Notify(entity string) {
	n.mu.Lock()
	var fns []func(string)
	for _, sub := range n.subs {
		if sub.entity == "" || sub.entity == entity {
			fns = append(fns, sub.fn)
		}
	}
	n.mu.Unlock()

	for _, fn := range fns {
		fn(entity)
	}
}
