// ABOUTME: Tests for the terminal agenda view
// ABOUTME: Validates rendering, grouping, refresh handling, and stale banners
package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/yensaimusic-cyber/nexus-label-sub000/models"
	"github.com/yensaimusic-cyber/nexus-label-sub000/sync"
)

type fakeProvider struct {
	snapshot *sync.Snapshot
	err      error
	calls    int
}

func (f *fakeProvider) Snapshot(context.Context, string) (*sync.Snapshot, error) {
	f.calls++
	return f.snapshot, f.err
}

func refreshed(m Model, snap *sync.Snapshot) Model {
	updated, _ := m.Update(refreshMsg{snapshot: snap})
	return updated.(Model)
}

func TestViewShowsLoadingBeforeFirstSnapshot(t *testing.T) {
	m := NewModel(&fakeProvider{}, "u1")
	if !strings.Contains(m.View(), "Loading agenda") {
		t.Error("Expected loading message before first snapshot")
	}
}

func TestViewGroupsEventsByDay(t *testing.T) {
	m := NewModel(&fakeProvider{}, "u1")
	m = refreshed(m, &sync.Snapshot{Events: []models.NormalizedEvent{
		{ID: "1", Title: "Mix approval", Kind: models.KindTask, Date: "2025-03-10", ColorKey: "rose"},
		{ID: "2", Title: "Listening party", Kind: models.KindPromo, Date: "2025-03-10", Time: "19:00", ColorKey: "amber"},
		{ID: "3", Title: "Release: Neon Pulse", Kind: models.KindRelease, Date: "2025-03-11", ColorKey: "violet"},
	}})

	view := m.View()
	if !strings.Contains(view, "Monday, Mar 10") {
		t.Errorf("Expected day header for 2025-03-10 in view:\n%s", view)
	}
	if !strings.Contains(view, "Tuesday, Mar 11") {
		t.Errorf("Expected day header for 2025-03-11 in view:\n%s", view)
	}
	if !strings.Contains(view, "Mix approval") || !strings.Contains(view, "Release: Neon Pulse") {
		t.Error("Expected all event titles in view")
	}
	if !strings.Contains(view, "all-day") {
		t.Error("Expected untimed events rendered as all-day")
	}
	if !strings.Contains(view, "19:00") {
		t.Error("Expected timed events to show their clock time")
	}
}

func TestViewShowsStaleBanner(t *testing.T) {
	m := NewModel(&fakeProvider{}, "u1")
	m = refreshed(m, &sync.Snapshot{
		Events: []models.NormalizedEvent{{ID: "1", Title: "Cached", Date: "2025-03-10"}},
		Stale:  true,
		Warning: &sync.SyncWarning{
			Op:     "list remote events",
			Detail: "google calendar unavailable",
		},
	})

	if !strings.Contains(m.View(), "cached remote events") {
		t.Error("Expected stale banner when snapshot is served from cache")
	}
}

func TestViewShowsWarningWithoutStale(t *testing.T) {
	m := NewModel(&fakeProvider{}, "u1")
	m = refreshed(m, &sync.Snapshot{
		Warning: &sync.SyncWarning{Op: "list remote events", Detail: "boom"},
	})

	if !strings.Contains(m.View(), "list remote events") {
		t.Error("Expected the sync warning in the view")
	}
}

func TestEmptyAgenda(t *testing.T) {
	m := NewModel(&fakeProvider{}, "u1")
	m = refreshed(m, &sync.Snapshot{})

	if !strings.Contains(m.View(), "Nothing scheduled") {
		t.Error("Expected empty-state message")
	}
}

func TestQuitKey(t *testing.T) {
	m := NewModel(&fakeProvider{}, "u1")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("Expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("Expected tea.Quit on 'q'")
	}
}

func TestManualRefreshKey(t *testing.T) {
	provider := &fakeProvider{snapshot: &sync.Snapshot{}}
	m := NewModel(provider, "u1")

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	if cmd == nil {
		t.Fatal("Expected a refresh command on 'r'")
	}
	if !updated.(Model).loading {
		t.Error("Expected loading state while refreshing")
	}

	// The refresh is batched with the spinner tick; find the refreshMsg
	found := false
	if batch, ok := cmd().(tea.BatchMsg); ok {
		for _, c := range batch {
			if _, ok := c().(refreshMsg); ok {
				found = true
			}
		}
	}
	if !found {
		t.Error("Expected the refresh command to produce a refreshMsg")
	}
	if provider.calls != 1 {
		t.Errorf("Expected 1 snapshot call, got %d", provider.calls)
	}
}

func TestTickSchedulesNextRefresh(t *testing.T) {
	provider := &fakeProvider{snapshot: &sync.Snapshot{}}
	m := refreshed(NewModel(provider, "u1"), &sync.Snapshot{})

	_, cmd := m.Update(tickMsg(time.Time{}))
	if cmd == nil {
		t.Fatal("Expected tick to produce follow-up commands")
	}
}
