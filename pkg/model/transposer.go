package model

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

type TransposerOptions struct {
	Periods int // Highest valid period, DefaultPeriods when zero
	// Treat sections of the same grade taught the same subject in the same slot
	// (e.g. 10A and 10B) as one combined lesson instead of a clash
	CombineSections bool
}

// DayConflict lists the classes competing for a teacher on one day
type DayConflict struct {
	Day     int
	Parties []string
}

// Clash reports a teacher booked by more than one class in the same period
type Clash struct {
	Key       string
	Column    int
	Conflicts []DayConflict
}

func (clash Clash) Days() DaySet {
	return NewDaySet(lo.Map(clash.Conflicts, func(conflict DayConflict, _ int) int { return conflict.Day })...)
}

// Parties returns every class involved in the clash, in order of first occurrence
func (clash Clash) Parties() []string {
	return lo.Uniq(lo.FlatMap(clash.Conflicts, func(conflict DayConflict, _ int) []string { return conflict.Parties }))
}

func (clash Clash) String() string {
	return fmt.Sprintf("%v period %v: days %v (%v)", clash.Key, clash.Column, clash.Days().Bracketed(), strings.Join(clash.Parties(), ", "))
}

// Transposer converts a grid into the opposite orientation. Clashes are
// detected when the target grid is keyed by teacher; they are data, not errors.
//
// Example:
//
//	transposer := model.NewTransposer(model.TransposerOptions{})
//	teacherwise, clashes, err := transposer.Transpose(classwise)
//	classwise, _, err = transposer.Transpose(teacherwise)
type Transposer interface {
	Transpose(source *Grid) (target *Grid, clashes []Clash, err error)
}

func NewTransposer(options TransposerOptions) Transposer {
	if options.Periods <= 0 {
		options.Periods = DefaultPeriods
	}
	return &standardTransposer{options}
}
