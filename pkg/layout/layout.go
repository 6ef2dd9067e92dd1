// Package layout assigns side-by-side columns to overlapping sessions within
// a single calendar day. Items are recomputed on every render pass and carry
// no identity beyond the session they reference.
package layout

import (
	"github.com/Guisb12/lusia-cal/pkg/session"
	"github.com/Guisb12/lusia-cal/pkg/timegrid"
)

// Item is the placement computed for one session: vertical extent in grid
// units plus the column slot within its overlap cluster.
type Item struct {
	Session session.Session

	// StartMin and EndMin are minutes of the day, with EndMin forced to at
	// least StartMin+1 so zero-height blocks cannot occur.
	StartMin int
	EndMin   int

	// Top and Height are vertical grid units derived from the minutes.
	Top    int
	Height int

	// Column is the zero-based slot within the item's overlap cluster;
	// Columns is the cluster's total slot count. Width per item is
	// 1/Columns of the day column.
	Column  int
	Columns int

	cluster int
}

// Compute lays out one day's sessions. Entries are sorted by start ascending
// (ties: longer first), columns are assigned greedily to the first free slot,
// and column counts are resolved per overlap cluster so width reflects local
// density rather than the busiest part of the day.
func Compute(sessions []session.Session, grid timegrid.Grid) []Item {
	if len(sessions) == 0 {
		return nil
	}

	ordered := make([]session.Session, len(sessions))
	copy(ordered, sessions)
	session.SortForLayout(ordered)

	items := make([]Item, len(ordered))
	var columnEnds []int

	cluster := 0
	clusterEnd := -1

	for i, s := range ordered {
		start := s.StartMinute()
		end := s.EndMinute()
		if end <= start {
			end = start + 1
		}

		// Chain overlap: a gap against everything accumulated so far
		// starts a fresh cluster.
		if start >= clusterEnd {
			cluster++
			clusterEnd = end
		} else if end > clusterEnd {
			clusterEnd = end
		}

		col := -1
		for c, colEnd := range columnEnds {
			if colEnd <= start {
				col = c
				break
			}
		}
		if col < 0 {
			columnEnds = append(columnEnds, 0)
			col = len(columnEnds) - 1
		}
		columnEnds[col] = end

		items[i] = Item{
			Session:  s,
			StartMin: start,
			EndMin:   end,
			Top:      grid.Offset(start),
			Height:   grid.Offset(end) - grid.Offset(start),
			Column:   col,
			cluster:  cluster,
		}
	}

	maxColumn := make(map[int]int, cluster)
	for _, it := range items {
		if it.Column > maxColumn[it.cluster] {
			maxColumn[it.cluster] = it.Column
		}
	}
	for i := range items {
		items[i].Columns = maxColumn[items[i].cluster] + 1
	}
	return items
}
