package model

import (
	"slices"
	"strings"
	"unicode"

	"github.com/samber/lo"
)

type standardTransposer struct {
	options TransposerOptions
}

// origin identifies the source of an output assignment: the source row key and the subject taught
type origin struct {
	key     string
	subject string
}

// slot gathers everything a holder is assigned in one period
type slot struct {
	origins []origin
	days    map[origin]DaySet
	claims  map[int][]origin // day -> origins claiming the holder on that day
}

func (transposer *standardTransposer) Transpose(source *Grid) (*Grid, []Clash, error) {
	target := source.Orientation().Swap()
	detectClashes := target.Key == RoleTeacher

	//** Record (holder, period, day) -> origin facts
	holders := make([]string, 0)
	slots := make(map[string]map[int]*slot)
	for _, key := range source.Keys() {
		for _, column := range source.Columns() {
			coord := Coord{Key: key, Column: column}
			if column < 1 || column > transposer.options.Periods {
				return nil, nil, structuralf(coord, "period %v outside 1-%v", column, transposer.options.Periods)
			}

			for _, assignment := range source.Cell(key, column).Assignments {
				if assignment.Holder == "" {
					return nil, nil, structuralf(coord, "assignment %q has no %v", assignment.Subject, target.Key)
				}

				// Initialize holder and slot if they do not exist
				if _, ok := slots[assignment.Holder]; !ok {
					holders = append(holders, assignment.Holder)
					slots[assignment.Holder] = make(map[int]*slot)
				}
				s, ok := slots[assignment.Holder][column]
				if !ok {
					s = &slot{days: make(map[origin]DaySet), claims: make(map[int][]origin)}
					slots[assignment.Holder][column] = s
				}

				o := origin{key: key, subject: assignment.Subject}
				if _, ok := s.days[o]; !ok {
					s.origins = append(s.origins, o)
				}
				s.days[o] = s.days[o].Union(assignment.Days)
				for _, day := range assignment.Days {
					if !slices.Contains(s.claims[day], o) {
						s.claims[day] = append(s.claims[day], o)
					}
				}
			}
		}
	}

	//** Build target grid
	builder := NewGridBuilder(target, transposer.options.Periods)
	for _, column := range source.Columns() {
		if err := builder.AddColumn(column); err != nil {
			return nil, nil, err
		}
	}

	clashes := make([]Clash, 0)
	for _, holder := range holders {
		if err := builder.AddKey(holder); err != nil {
			return nil, nil, err
		}

		for _, column := range source.Columns() {
			s, ok := slots[holder][column]
			if !ok {
				continue
			}

			cell := Cell{Assignments: lo.Map(s.origins, func(o origin, _ int) Assignment {
				return Assignment{Subject: o.subject, Days: s.days[o], Holder: o.key}
			})}

			if detectClashes {
				if clash, ok := transposer.findClash(holder, column, s); ok {
					cell.Clash = clash.Days()
					clashes = append(clashes, clash)
				}
			}

			if err := builder.Add(holder, column, cell); err != nil {
				return nil, nil, err
			}
		}
	}

	return builder.Build(), clashes, nil
}

// findClash collects the days on which more than one party claims the same slot
func (transposer *standardTransposer) findClash(holder string, column int, s *slot) (Clash, bool) {
	days := lo.Keys(s.claims)
	slices.Sort(days)

	conflicts := make([]DayConflict, 0)
	for _, day := range days {
		claims := s.claims[day]
		parties := lo.Uniq(lo.Map(claims, func(o origin, _ int) string { return transposer.party(o) }))
		if len(parties) < 2 {
			continue
		}
		conflicts = append(conflicts, DayConflict{
			Day:     day,
			Parties: lo.Uniq(lo.Map(claims, func(o origin, _ int) string { return o.key })),
		})
	}

	if len(conflicts) == 0 {
		return Clash{}, false
	}
	return Clash{Key: holder, Column: column, Conflicts: conflicts}, true
}

// party tells which origins may legitimately share a slot
func (transposer *standardTransposer) party(o origin) string {
	if !transposer.options.CombineSections {
		return o.key
	}
	return gradeOf(o.key) + "-" + o.subject
}

// gradeOf strips the section letters of a class name, "10A" -> "10"
func gradeOf(class string) string {
	grade := strings.TrimRightFunc(class, unicode.IsLetter)
	if grade == "" {
		return class
	}
	return grade
}
