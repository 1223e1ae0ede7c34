package picker

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/weekcards/internal/card"
	"github.com/abhisek/weekcards/internal/progress"
	"github.com/abhisek/weekcards/internal/router"
	"github.com/abhisek/weekcards/internal/screens/lesson"
)

func testCatalog(t *testing.T) *card.Catalog {
	t.Helper()
	var cards []*card.Card
	for _, raw := range []string{
		`{"week":1,"title":"Counting","concepts":[]}`,
		`{"week":2,"title":"Adding","prereq":1,"concepts":[]}`,
	} {
		c, err := card.Parse([]byte(raw))
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		cards = append(cards, c)
	}
	cat, err := card.NewCatalog(cards...)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	return cat
}

func load(t *testing.T, s *PickerScreen, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a status load command")
	}
	s.Update(cmd())
}

func TestPickerScreen_LockedUntilPrereqDone(t *testing.T) {
	store := progress.NewMemoryStore()
	s := New(testCatalog(t), lesson.Deps{StudentID: "amal", Store: store})
	load(t, s, s.Init())

	if len(s.menu.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(s.menu.Items))
	}
	if !s.menu.Items[1].Disabled {
		t.Error("week 2 should be locked")
	}
	if !strings.Contains(s.View(80, 24), "finish week 1") {
		t.Error("expected the locked marker")
	}

	if err := store.MarkDone(context.Background(), "amal", 1); err != nil {
		t.Fatal(err)
	}
	load(t, s, s.Resume())

	if s.menu.Items[1].Disabled {
		t.Error("week 2 should unlock once week 1 is done")
	}
	if s.menu.Items[0].Badge != "✓ done" {
		t.Errorf("week 1 badge = %q, want done", s.menu.Items[0].Badge)
	}
}

func TestPickerScreen_InProgressBadge(t *testing.T) {
	store := progress.NewMemoryStore()
	err := store.Set(context.Background(), "amal", 1, progress.Record{Stage: progress.StagePrereq})
	if err != nil {
		t.Fatal(err)
	}
	s := New(testCatalog(t), lesson.Deps{StudentID: "amal", Store: store})
	load(t, s, s.Init())

	if s.menu.Items[0].Badge != "in progress" {
		t.Errorf("badge = %q, want in progress", s.menu.Items[0].Badge)
	}
}

func TestPickerScreen_EnterOpensLesson(t *testing.T) {
	s := New(testCatalog(t), lesson.Deps{StudentID: "amal", Store: progress.NewMemoryStore()})
	load(t, s, s.Init())

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command on Enter")
	}
	msg, ok := cmd().(router.PushScreenMsg)
	if !ok {
		t.Fatalf("expected PushScreenMsg, got %T", cmd())
	}
	ls, ok := msg.Screen.(*lesson.LessonScreen)
	if !ok || ls.Title() != "Counting" {
		t.Errorf("expected the week 1 lesson, got %T", msg.Screen)
	}
}

func TestPickerScreen_LockedItemSkippedByCursor(t *testing.T) {
	s := New(testCatalog(t), lesson.Deps{StudentID: "amal", Store: progress.NewMemoryStore()})
	load(t, s, s.Init())

	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if s.menu.Selected != 0 {
		t.Errorf("cursor moved onto a locked card: %d", s.menu.Selected)
	}
}

func TestPickerScreen_Title(t *testing.T) {
	s := New(testCatalog(t), lesson.Deps{})
	if s.Title() != "Weekly cards" {
		t.Errorf("Title = %q", s.Title())
	}
}
