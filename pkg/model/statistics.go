package model

import (
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"
)

// Load is the number of (period, day) slots in which a key is busy
type Load struct {
	Key     string
	Periods int
}

// Workload counts, for every key, the distinct days busy in each column
func Workload(grid *Grid) []Load {
	return lo.Map(grid.keys, func(key string, _ int) Load {
		periods := lo.SumBy(grid.columns, func(column int) int { return len(grid.Cell(key, column).Busy()) })
		return Load{Key: key, Periods: periods}
	})
}

// Vacancy holds the free periods of a key for days 1..n (Free[0] is day 1)
type Vacancy struct {
	Key  string
	Free []int
}

// busySchedule returns key -> day -> set of busy columns
func busySchedule(grid *Grid) map[string]map[int][]int {
	schedule := make(map[string]map[int][]int)
	for _, key := range grid.keys {
		schedule[key] = make(map[int][]int)
		for _, column := range grid.columns {
			for _, day := range grid.Cell(key, column).Busy() {
				if !slices.Contains(schedule[key][day], column) {
					schedule[key][day] = append(schedule[key][day], column)
				}
			}
		}
	}
	return schedule
}

func Vacancies(grid *Grid, days int) []Vacancy {
	schedule := busySchedule(grid)
	return lo.Map(grid.keys, func(key string, _ int) Vacancy {
		return Vacancy{
			Key: key,
			Free: lo.Map(lo.RangeFrom(1, days), func(day int, _ int) int {
				return grid.periods - len(schedule[key][day])
			}),
		}
	})
}

// FreeKey is a key without an assignment in a slot along with its free periods that day
type FreeKey struct {
	Key         string
	FreePeriods int
}

func (free FreeKey) String() string {
	return fmt.Sprintf("%v:%v", free.Key, free.FreePeriods)
}

type FreeSlot struct {
	Day    int
	Column int
	Free   []FreeKey
}

// FreeTeachers lists, for every day and period, the keys not busy in that slot.
// Keys with more free periods that day come first; ties keep the grid order.
func FreeTeachers(grid *Grid, days int) []FreeSlot {
	schedule := busySchedule(grid)
	slots := make([]FreeSlot, 0, days*grid.periods)

	for day := 1; day <= days; day++ {
		for column := 1; column <= grid.periods; column++ {
			free := lo.FilterMap(grid.keys, func(key string, _ int) (FreeKey, bool) {
				busy := schedule[key][day]
				return FreeKey{Key: key, FreePeriods: grid.periods - len(busy)}, !slices.Contains(busy, column)
			})
			slices.SortStableFunc(free, func(a, b FreeKey) int { return b.FreePeriods - a.FreePeriods })
			slots = append(slots, FreeSlot{Day: day, Column: column, Free: free})
		}
	}
	return slots
}

// SubjectCount tallies the weekly periods of every subject taught to a key
type SubjectCount struct {
	Key      string
	Subjects map[string]int
	Total    int
}

// String renders the tally as "MATH: 6, PHY: 4, TOTAL: 10", subjects sorted by name
func (count SubjectCount) String() string {
	subjects := lo.Keys(count.Subjects)
	slices.Sort(subjects)
	parts := lo.Map(subjects, func(subject string, _ int) string {
		return fmt.Sprintf("%v: %v", subject, count.Subjects[subject])
	})
	parts = append(parts, fmt.Sprintf("TOTAL: %v", count.Total))
	return strings.Join(parts, ", ")
}

func SubjectSummary(grid *Grid) []SubjectCount {
	return lo.Map(grid.keys, func(key string, _ int) SubjectCount {
		count := SubjectCount{Key: key, Subjects: make(map[string]int)}
		for _, column := range grid.columns {
			for _, assignment := range grid.Cell(key, column).Assignments {
				count.Subjects[assignment.Subject] += len(assignment.Days)
				count.Total += len(assignment.Days)
			}
		}
		return count
	})
}

// Repetition reports a key meeting the same holder in several periods of one day
type Repetition struct {
	Key     string
	Holder  string
	Day     int
	Columns []int
}

func (repetition Repetition) String() string {
	return fmt.Sprintf("%v meets %v %v times on day %v (periods %v)", repetition.Key, repetition.Holder, len(repetition.Columns), repetition.Day, repetition.Columns)
}

// RepeatedLessons finds keys meeting the same holder in more than limit periods of a day
func RepeatedLessons(grid *Grid, limit int) []Repetition {
	repetitions := make([]Repetition, 0)
	for _, key := range grid.keys {
		meetings := make(map[string]map[int][]int) // holder -> day -> columns
		holders := make([]string, 0)
		for _, column := range grid.columns {
			for _, assignment := range grid.Cell(key, column).Assignments {
				if _, ok := meetings[assignment.Holder]; !ok {
					meetings[assignment.Holder] = make(map[int][]int)
					holders = append(holders, assignment.Holder)
				}
				for _, day := range assignment.Days {
					if !slices.Contains(meetings[assignment.Holder][day], column) {
						meetings[assignment.Holder][day] = append(meetings[assignment.Holder][day], column)
					}
				}
			}
		}

		for _, holder := range holders {
			days := lo.Keys(meetings[holder])
			slices.Sort(days)
			for _, day := range days {
				if columns := meetings[holder][day]; len(columns) > limit {
					repetitions = append(repetitions, Repetition{Key: key, Holder: holder, Day: day, Columns: columns})
				}
			}
		}
	}
	return repetitions
}
