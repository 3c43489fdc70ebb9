package tui

import (
	"strings"
)

// pickerItem is one option of a horizontal picker.
type pickerItem struct {
	Label string
	Value string
}

// picker is a horizontal single-choice row, moved with left/right.
type picker struct {
	items  []pickerItem
	cursor int
}

func newPicker(items []pickerItem, value string) picker {
	p := picker{items: items}
	p.selectValue(value)
	return p
}

// selectValue moves the cursor to the item with the given value. Unknown
// values leave the cursor where it is.
func (p *picker) selectValue(value string) {
	for i, it := range p.items {
		if it.Value == value {
			p.cursor = i
			return
		}
	}
}

// move shifts the cursor by delta, clamped to the ends.
func (p *picker) move(delta int) bool {
	next := p.cursor + delta
	if next < 0 || next >= len(p.items) {
		return false
	}
	p.cursor = next
	return true
}

// current returns the selected item.
func (p picker) current() pickerItem {
	if len(p.items) == 0 {
		return pickerItem{}
	}
	return p.items[p.cursor]
}

// view renders the row with the selected item highlighted. focused adds a
// cursor marker in front of the row.
func (p picker) view(st styles, focused bool) string {
	parts := make([]string, 0, len(p.items))
	for i, it := range p.items {
		if i == p.cursor {
			parts = append(parts, st.selected.Render(it.Label))
		} else {
			parts = append(parts, st.text.Render(" "+it.Label+" "))
		}
	}
	marker := "  "
	if focused {
		marker = st.accent.Render("▸ ")
	}
	return marker + strings.Join(parts, " ")
}
