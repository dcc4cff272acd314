package model

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// NameTable maps teacher short codes to full names. It is read only once built.
type NameTable map[string]string

func (names NameTable) Name(code string) (string, bool) {
	name, ok := names[code]
	return name, ok && name != ""
}

// Renderer formats cells and row labels the way they are written back to a sheet
type Renderer struct {
	Separator string
	Names     NameTable
	FullNames bool
}

// Cell joins the rendered assignments with the separator and closes with the clash marker, if any
func (renderer Renderer) Cell(cell Cell) string {
	separator := lo.Ternary(renderer.Separator == "", DefaultSeparator, renderer.Separator)

	lines := lo.Map(cell.Assignments, func(assignment Assignment, _ int) string { return assignment.String() })
	if len(cell.Clash) > 0 {
		lines = append(lines, fmt.Sprintf("%v %v", ClashMark, cell.Clash.Bracketed()))
	}
	return strings.Join(lines, separator)
}

// Label renders a row key; teacher codes become "Full Name, CODE" when full names are enabled
func (renderer Renderer) Label(orientation Orientation, key string) string {
	if !renderer.FullNames || orientation.Key != RoleTeacher {
		return key
	}
	if name, ok := renderer.Names.Name(key); ok {
		return fmt.Sprintf("%v, %v", name, key)
	}
	return key
}

// ShortCode recovers the teacher code from a label produced by Label
func ShortCode(label string) string {
	if index := strings.LastIndex(label, ","); index >= 0 {
		return strings.TrimSpace(label[index+1:])
	}
	return strings.TrimSpace(label)
}
