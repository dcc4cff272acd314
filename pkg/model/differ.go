package model

import (
	"fmt"
	"slices"

	"github.com/samber/lo"
)

type ChangeKind int

const (
	Added ChangeKind = iota
	Removed
	Changed
)

var changeKinds = map[ChangeKind]string{
	Added:   "added",
	Removed: "removed",
	Changed: "changed",
}

func (kind ChangeKind) String() string { return changeKinds[kind] }

// Change describes one assignment-level difference. Before is unset for
// additions and After is unset for removals.
type Change struct {
	Kind   ChangeKind
	Before Assignment
	After  Assignment
}

func (change Change) String() string {
	switch change.Kind {
	case Added:
		return fmt.Sprintf("+ %v", change.After)
	case Removed:
		return fmt.Sprintf("- %v", change.Before)
	default:
		return fmt.Sprintf("~ %v -> %v", change.Before, change.After)
	}
}

// CellDiff gathers the changes of one (key, column) position
type CellDiff struct {
	Coord   Coord
	Changes []Change
}

type Report struct {
	OnlyInBase    []string
	OnlyInCurrent []string
	Cells         []CellDiff
}

func (report Report) Empty() bool {
	return len(report.Cells) == 0 && len(report.OnlyInBase) == 0 && len(report.OnlyInCurrent) == 0
}

// Affected returns every holder named by a change, in order of first occurrence
func (report Report) Affected() []string {
	holders := make([]string, 0)
	for _, cell := range report.Cells {
		for _, change := range cell.Changes {
			holders = append(holders, change.Before.Holder, change.After.Holder)
		}
	}
	return lo.Compact(lo.Uniq(holders))
}

// Diff compares two grids of the same orientation cell by cell. A cell is a set
// of lessons: line order and repeated lines carry no meaning, and lines sharing
// subject and holder count as one lesson on the union of their days.
func Diff(base, current *Grid) (Report, error) {
	if base.Orientation() != current.Orientation() {
		return Report{}, structuralf(Coord{}, "cannot compare a %v grid with a %v grid", base.Orientation(), current.Orientation())
	}

	report := Report{
		OnlyInBase:    lo.Filter(base.Keys(), func(key string, _ int) bool { return !current.HasKey(key) }),
		OnlyInCurrent: lo.Filter(current.Keys(), func(key string, _ int) bool { return !base.HasKey(key) }),
		Cells:         make([]CellDiff, 0),
	}

	keys := lo.Union(base.Keys(), current.Keys())
	columns := lo.Union(base.Columns(), current.Columns())
	slices.Sort(columns)

	for _, key := range keys {
		for _, column := range columns {
			changes := diffCell(base.Cell(key, column), current.Cell(key, column))
			if len(changes) > 0 {
				report.Cells = append(report.Cells, CellDiff{Coord: Coord{Key: key, Column: column}, Changes: changes})
			}
		}
	}

	return report, nil
}

func diffCell(base, current Cell) []Change {
	before := lessons(base)
	after := lessons(current)

	removed := lo.Filter(before, func(assignment Assignment, _ int) bool {
		return !lo.ContainsBy(after, assignment.Equal)
	})
	added := lo.Filter(after, func(assignment Assignment, _ int) bool {
		return !lo.ContainsBy(before, assignment.Equal)
	})

	changes := make([]Change, 0)

	//** Pair removed and added assignments differing in a single attribute
	similarities := []func(a, b Assignment) bool{
		func(a, b Assignment) bool { return a.Subject == b.Subject && a.Holder == b.Holder },
		func(a, b Assignment) bool { return a.Subject == b.Subject && a.Days.Equal(b.Days) },
		func(a, b Assignment) bool { return a.Holder == b.Holder && a.Days.Equal(b.Days) },
	}
	for _, similar := range similarities {
		remaining := make([]Assignment, 0, len(removed))
		for _, old := range removed {
			index := slices.IndexFunc(added, func(candidate Assignment) bool { return similar(old, candidate) })
			if index < 0 {
				remaining = append(remaining, old)
				continue
			}
			changes = append(changes, Change{Kind: Changed, Before: old, After: added[index]})
			added = slices.Delete(added, index, index+1)
		}
		removed = remaining
	}

	for _, old := range removed {
		changes = append(changes, Change{Kind: Removed, Before: old})
	}
	for _, assignment := range added {
		changes = append(changes, Change{Kind: Added, After: assignment})
	}
	return changes
}

// lessons merges the assignments of a cell sharing subject and holder, in order of first occurrence
func lessons(cell Cell) []Assignment {
	merged := make([]Assignment, 0, len(cell.Assignments))
	positions := make(map[[2]string]int)
	for _, assignment := range cell.Assignments {
		key := [2]string{assignment.Subject, assignment.Holder}
		if position, ok := positions[key]; ok {
			merged[position].Days = merged[position].Days.Union(assignment.Days)
			continue
		}
		positions[key] = len(merged)
		merged = append(merged, Assignment{Subject: assignment.Subject, Days: slices.Clone(assignment.Days), Holder: assignment.Holder})
	}
	return merged
}
