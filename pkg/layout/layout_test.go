package layout

import (
	"testing"
	"time"

	"github.com/Guisb12/lusia-cal/pkg/session"
	"github.com/Guisb12/lusia-cal/pkg/timegrid"
)

func at(hour, min int) time.Time {
	return time.Date(2026, time.March, 9, hour, min, 0, 0, time.UTC)
}

func sess(id string, startH, startM, endH, endM int) session.Session {
	return session.Session{
		ID:       id,
		StartsAt: at(startH, startM),
		EndsAt:   at(endH, endM),
	}
}

func itemByID(t *testing.T, items []Item, id string) Item {
	t.Helper()
	for _, it := range items {
		if it.Session.ID == id {
			return it
		}
	}
	t.Fatalf("no item for session %q", id)
	return Item{}
}

func TestEmptyDay(t *testing.T) {
	if items := Compute(nil, timegrid.Default()); len(items) != 0 {
		t.Fatalf("expected empty layout, got %d items", len(items))
	}
}

func TestSingleSessionFillsColumn(t *testing.T) {
	items := Compute([]session.Session{sess("a", 9, 0, 10, 0)}, timegrid.Default())
	if len(items) != 1 {
		t.Fatalf("expected one item, got %d", len(items))
	}
	it := items[0]
	if it.Column != 0 || it.Columns != 1 {
		t.Fatalf("expected column 0 of 1, got %d of %d", it.Column, it.Columns)
	}
	if it.Top != 540 || it.Height != 60 {
		t.Fatalf("expected top 540 height 60, got top %d height %d", it.Top, it.Height)
	}
}

func TestOverlappingPairSharesCluster(t *testing.T) {
	items := Compute([]session.Session{
		sess("a", 9, 0, 10, 0),
		sess("b", 9, 30, 10, 30),
	}, timegrid.Default())

	a := itemByID(t, items, "a")
	b := itemByID(t, items, "b")
	if a.Columns != 2 || b.Columns != 2 {
		t.Fatalf("expected both to report 2 columns, got %d and %d", a.Columns, b.Columns)
	}
	if a.Column == b.Column {
		t.Fatalf("overlapping sessions share column %d", a.Column)
	}
	if a.Column != 0 || b.Column != 1 {
		t.Fatalf("expected deterministic columns {0,1}, got {%d,%d}", a.Column, b.Column)
	}
}

func TestBackToBackStayIndependent(t *testing.T) {
	items := Compute([]session.Session{
		sess("a", 9, 0, 10, 0),
		sess("b", 10, 0, 11, 0),
	}, timegrid.Default())
	for _, id := range []string{"a", "b"} {
		it := itemByID(t, items, id)
		if it.Column != 0 || it.Columns != 1 {
			t.Fatalf("%s: expected column 0 of 1, got %d of %d", id, it.Column, it.Columns)
		}
	}
}

func TestColumnCountIsPerCluster(t *testing.T) {
	// Morning pile-up of three, lone afternoon session.
	items := Compute([]session.Session{
		sess("m1", 9, 0, 10, 0),
		sess("m2", 9, 15, 10, 15),
		sess("m3", 9, 30, 10, 30),
		sess("solo", 14, 0, 15, 0),
	}, timegrid.Default())

	for _, id := range []string{"m1", "m2", "m3"} {
		if it := itemByID(t, items, id); it.Columns != 3 {
			t.Fatalf("%s: expected 3 columns in morning cluster, got %d", id, it.Columns)
		}
	}
	if it := itemByID(t, items, "solo"); it.Column != 0 || it.Columns != 1 {
		t.Fatalf("solo session should not inherit morning width, got %d of %d",
			it.Column, it.Columns)
	}
}

func TestNoColumnSharesOverlappingTime(t *testing.T) {
	sessions := []session.Session{
		sess("a", 9, 0, 11, 0),
		sess("b", 9, 30, 10, 0),
		sess("c", 9, 45, 10, 30),
		sess("d", 10, 0, 10, 45),
		sess("e", 10, 30, 12, 0),
		sess("f", 11, 0, 11, 30),
	}
	items := Compute(sessions, timegrid.Default())
	for i := range items {
		for j := i + 1; j < len(items); j++ {
			a, b := items[i], items[j]
			if a.Column != b.Column {
				continue
			}
			if a.StartMin < b.EndMin && b.StartMin < a.EndMin {
				t.Fatalf("%s and %s share column %d with overlapping time [%d,%d) vs [%d,%d)",
					a.Session.ID, b.Session.ID, a.Column,
					a.StartMin, a.EndMin, b.StartMin, b.EndMin)
			}
		}
	}
}

func TestColumnCountMatchesClusterMaximum(t *testing.T) {
	sessions := []session.Session{
		sess("a", 9, 0, 10, 0),
		sess("b", 9, 10, 9, 40),
		sess("c", 9, 45, 10, 30),
		sess("d", 13, 0, 14, 0),
		sess("e", 13, 30, 14, 30),
	}
	items := Compute(sessions, timegrid.Default())
	byCluster := make(map[int][]Item)
	for _, it := range items {
		byCluster[it.cluster] = append(byCluster[it.cluster], it)
	}
	for id, members := range byCluster {
		maxCol := 0
		for _, it := range members {
			if it.Column > maxCol {
				maxCol = it.Column
			}
		}
		for _, it := range members {
			if it.Columns != maxCol+1 {
				t.Fatalf("cluster %d: %s reports %d columns, cluster max is %d",
					id, it.Session.ID, it.Columns, maxCol+1)
			}
		}
	}
}

func TestZeroLengthSessionGetsMinimumHeight(t *testing.T) {
	items := Compute([]session.Session{sess("z", 9, 0, 9, 0)}, timegrid.Default())
	it := items[0]
	if it.EndMin != it.StartMin+1 {
		t.Fatalf("expected end forced to start+1, got [%d,%d)", it.StartMin, it.EndMin)
	}
	if it.Height < 1 {
		t.Fatalf("expected positive height, got %d", it.Height)
	}
}
