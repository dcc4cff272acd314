package model

import (
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"
)

// DaySet is an ascending, duplicate-free list of day indices
type DaySet []int

func NewDaySet(days ...int) DaySet {
	set := slices.Clone(days)
	slices.Sort(set)
	return slices.Compact(set)
}

func (days DaySet) Contains(day int) bool {
	_, found := slices.BinarySearch(days, day)
	return found
}

func (days DaySet) Union(other DaySet) DaySet {
	return NewDaySet(append(slices.Clone(days), other...)...)
}

func (days DaySet) Equal(other DaySet) bool {
	return slices.Equal(days, other)
}

// String compresses consecutive days into ranges, e.g. [1 2 3 5 6] -> "1-3, 5-6"
func (days DaySet) String() string {
	if len(days) == 0 {
		return ""
	}

	groups := make([]string, 0)
	start := 0
	for i := 1; i <= len(days); i++ {
		if i < len(days) && days[i]-days[i-1] == 1 {
			continue
		}
		if start == i-1 {
			groups = append(groups, fmt.Sprint(days[start]))
		} else {
			groups = append(groups, fmt.Sprintf("%d-%d", days[start], days[i-1]))
		}
		start = i
	}
	return strings.Join(groups, ", ")
}

// Bracketed renders the days the way clash markers list them: "[1, 2, 5]"
func (days DaySet) Bracketed() string {
	return "[" + strings.Join(lo.Map(days, func(day int, _ int) string { return fmt.Sprint(day) }), ", ") + "]"
}

// Assignment is one teaching slot within a cell. Holder is the teacher code in a
// classwise grid and the class name in a teacherwise grid.
type Assignment struct {
	Subject string
	Days    DaySet
	Holder  string
}

func (assignment Assignment) String() string {
	return fmt.Sprintf("%v (%v) %v", assignment.Subject, assignment.Days, assignment.Holder)
}

func (assignment Assignment) Equal(other Assignment) bool {
	return assignment.Subject == other.Subject && assignment.Holder == other.Holder && assignment.Days.Equal(other.Days)
}

// Cell holds the assignments of one (key, column) position in source order.
// Clash lists the days on which the cell's holder is double booked.
type Cell struct {
	Assignments []Assignment
	Clash       DaySet
}

func (cell Cell) Empty() bool {
	return len(cell.Assignments) == 0 && len(cell.Clash) == 0
}

// Busy returns every day on which at least one assignment of the cell takes place
func (cell Cell) Busy() DaySet {
	return lo.Reduce(cell.Assignments, func(days DaySet, assignment Assignment, _ int) DaySet {
		return days.Union(assignment.Days)
	}, DaySet{})
}

// Holders returns the distinct holders of the cell in order of first occurrence
func (cell Cell) Holders() []string {
	return lo.Uniq(lo.Map(cell.Assignments, func(assignment Assignment, _ int) string { return assignment.Holder }))
}
