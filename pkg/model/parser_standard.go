package model

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/samber/lo"
)

type standardParser struct {
	options ParserOptions
}

func (parser *standardParser) ParseCell(coord Coord, text string) CellResult {
	result := CellResult{}
	warn := func(line, reason string) {
		result.Warnings = append(result.Warnings, ParseWarning{Coord: coord, Line: line, Reason: reason})
	}

	for _, line := range strings.Split(text, parser.options.Separator) {
		line = strings.TrimSpace(line)
		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Clash markers written by a previous run are read back as the cell's annotation
		if strings.HasPrefix(line, ClashMark) {
			days, err := parseClashMark(line)
			if err != nil {
				warn(line, err.Error())
				continue
			}
			result.Cell.Clash = result.Cell.Clash.Union(days)
			continue
		}

		assignment, ok, problems := parser.ParseLine(line)
		for _, problem := range problems {
			warn(line, problem)
		}
		if ok {
			result.Cell.Assignments = append(result.Cell.Assignments, assignment)
		}
	}

	//** Verify coverage of the whole week
	if parser.options.FullWeek > 0 && len(result.Cell.Assignments) > 0 {
		busy := result.Cell.Busy()
		missing := lo.Filter(lo.RangeFrom(1, parser.options.FullWeek), func(day int, _ int) bool {
			return !busy.Contains(day)
		})
		if len(missing) > 0 {
			warn("", fmt.Sprintf("missing days %v", DaySet(missing).Bracketed()))
		}
	}

	return result
}

func (parser *standardParser) ParseLine(line string) (Assignment, bool, []string) {
	line = strings.TrimSpace(line)

	open := strings.IndexByte(line, '(')
	closing := strings.LastIndexByte(line, ')')
	if open < 0 || closing < open {
		return Assignment{}, false, []string{"missing parentheses around days"}
	}

	subject := strings.TrimSpace(line[:open])
	if !validSubject(subject) {
		return Assignment{}, false, []string{fmt.Sprintf("invalid subject %q", subject)}
	}

	holder := strings.TrimSpace(line[closing+1:])
	if holder == "" {
		return Assignment{}, false, []string{"missing teacher"}
	}
	if !validHolder(holder) {
		return Assignment{}, false, []string{fmt.Sprintf("invalid teacher %q", holder)}
	}

	days, problems, err := parser.parseDays(line[open+1 : closing])
	if err != nil {
		return Assignment{}, false, []string{err.Error()}
	}
	if len(days) == 0 {
		return Assignment{}, false, append(problems, "no valid days")
	}

	return Assignment{Subject: subject, Days: days, Holder: holder}, true, problems
}

// parseDays expands a day list such as "1-3, 5". A term that cannot be read
// fails the whole list; inverted ranges and days out of bounds are only
// reported and dropped.
func (parser *standardParser) parseDays(list string) (DaySet, []string, error) {
	days := make([]int, 0)
	problems := make([]string, 0)

	for _, term := range strings.Split(list, ",") {
		term = strings.TrimSpace(term)
		if term == "" {
			return nil, nil, fmt.Errorf("empty day term in %q", list)
		}

		startStr, endStr, isRange := strings.Cut(term, "-")
		start, err := strconv.Atoi(strings.TrimSpace(startStr))
		if err != nil {
			return nil, nil, fmt.Errorf("invalid day term %q", term)
		}
		end := start
		if isRange {
			end, err = strconv.Atoi(strings.TrimSpace(endStr))
			if err != nil {
				return nil, nil, fmt.Errorf("invalid day term %q", term)
			}
		}

		if start > end {
			problems = append(problems, fmt.Sprintf("inverted day range %q", term))
			continue
		}

		if outside := outOfRange(start, end, parser.options.Days); len(outside) > 0 {
			problems = append(problems, fmt.Sprintf("%v %v out of range 1-%v",
				lo.Ternary(len(outside) == 1 && !strings.Contains(outside[0], "-"), "day", "days"),
				strings.Join(outside, ", "), parser.options.Days))
		}
		for day := max(start, 1); day <= min(end, parser.options.Days); day++ {
			days = append(days, day)
		}
	}

	return NewDaySet(days...), problems, nil
}

// outOfRange lists the parts of start..end that fall outside 1..limit as day terms
func outOfRange(start, end, limit int) []string {
	term := func(from, to int) string {
		if from == to {
			return strconv.Itoa(from)
		}
		return fmt.Sprintf("%v-%v", from, to)
	}

	outside := make([]string, 0, 2)
	if start < 1 {
		outside = append(outside, term(start, min(end, 0)))
	}
	if end > limit {
		outside = append(outside, term(max(start, limit+1), end))
	}
	return outside
}

func parseClashMark(line string) (DaySet, error) {
	list := strings.TrimSpace(strings.TrimPrefix(line, ClashMark))
	list = strings.TrimSpace(strings.TrimPrefix(strings.TrimSuffix(list, ":"), ":"))
	if !strings.HasPrefix(list, "[") || !strings.HasSuffix(list, "]") {
		return nil, fmt.Errorf("malformed clash marker")
	}
	list = strings.Trim(list, "[]")

	days := make([]int, 0)
	for _, term := range strings.Split(list, ",") {
		if strings.TrimSpace(term) == "" {
			continue
		}
		day, err := strconv.Atoi(strings.TrimSpace(term))
		if err != nil {
			return nil, fmt.Errorf("malformed clash marker")
		}
		days = append(days, day)
	}
	return NewDaySet(days...), nil
}

func validSubject(subject string) bool {
	if subject == "" || !unicode.IsLetter([]rune(subject)[0]) {
		return false
	}
	return lo.EveryBy([]rune(subject), func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune(" .-_", r)
	})
}

func validHolder(holder string) bool {
	return lo.EveryBy([]rune(holder), func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-'
	})
}
