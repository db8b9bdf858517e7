// ABOUTME: Tests for the change notifier
// ABOUTME: Covers entity filtering and cancellation of subscriptions
package db

import (
	"testing"
)

func TestNotifierSubscribeAndCancel(t *testing.T) {
	n := NewNotifier()

	var meetingHits, anyHits int
	cancelMeetings := n.Subscribe(EntityMeetings, func(string) { meetingHits++ })
	cancelAll := n.Subscribe("", func(string) { anyHits++ })

	n.Notify(EntityMeetings)
	n.Notify(EntityTasks)

	if meetingHits != 1 {
		t.Errorf("meeting subscriber hits = %d, want 1", meetingHits)
	}
	if anyHits != 2 {
		t.Errorf("wildcard subscriber hits = %d, want 2", anyHits)
	}

	cancelMeetings()
	n.Notify(EntityMeetings)
	if meetingHits != 1 {
		t.Errorf("cancelled subscriber still called, hits = %d", meetingHits)
	}
	if anyHits != 3 {
		t.Errorf("wildcard subscriber hits = %d, want 3", anyHits)
	}

	// Cancel twice is safe
	cancelMeetings()
	cancelAll()
	n.Notify(EntityMeetings)
	if anyHits != 3 {
		t.Errorf("wildcard hits after cancel = %d, want 3", anyHits)
	}
}
