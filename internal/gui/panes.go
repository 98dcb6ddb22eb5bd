package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"codeberg.org/snonux/biread/internal/document"
)

// paneText renders one unit into the row text and style for one side of
// the reader.
type paneText func(u document.Unit) (string, fyne.TextStyle)

// listPane adapts a widget.List to the viewsync.Pane interface. Rows are
// single-line truncated labels, so every row has the same height and the
// scroll ratio can be derived from the scroll offset alone.
type listPane struct {
	list       *widget.List
	rows       func() int
	itemHeight float32
	lastOffset float32
}

func newListPane(rows func() int, unit func(int) (document.Unit, error), text paneText, onSelected func(int)) *listPane {
	p := &listPane{rows: rows}

	template := widget.NewLabel("Mg")
	p.itemHeight = template.MinSize().Height + theme.Padding()

	p.list = widget.NewList(
		func() int { return rows() },
		func() fyne.CanvasObject {
			label := widget.NewLabel("")
			label.Truncation = fyne.TextTruncateEllipsis
			return label
		},
		func(id widget.ListItemID, o fyne.CanvasObject) {
			u, err := unit(id)
			if err != nil {
				return
			}
			label := o.(*widget.Label)
			label.Text, label.TextStyle = text(u)
			label.Refresh()
		},
	)
	p.list.OnSelected = func(id widget.ListItemID) { onSelected(id) }

	return p
}

// SetCurrent highlights and reveals the row at index.
func (p *listPane) SetCurrent(index int) {
	p.list.Select(index)
	p.list.ScrollTo(index)
	p.lastOffset = p.list.GetScrollOffset()
}

// ScrollToRatio scrolls the pane so that ratio of its content is above the
// viewport.
func (p *listPane) ScrollToRatio(ratio float64) {
	max := p.maxOffset()
	if max <= 0 {
		return
	}
	p.list.ScrollToOffset(float32(ratio) * max)
	p.lastOffset = p.list.GetScrollOffset()
}

// scrollRatio reports the current scroll position as a fraction of the
// scrollable range, and whether the position moved since the last call.
// Programmatic scrolls record their own offset, so a move seen here came
// from the user.
func (p *listPane) scrollRatio() (float64, bool) {
	offset := p.list.GetScrollOffset()
	if offset == p.lastOffset {
		return 0, false
	}
	p.lastOffset = offset
	max := p.maxOffset()
	if max <= 0 {
		return 0, false
	}
	return float64(offset / max), true
}

func (p *listPane) maxOffset() float32 {
	content := float32(p.rows()) * p.itemHeight
	return content - p.list.Size().Height
}

// reset clears the selection and scroll position for a new document.
func (p *listPane) reset() {
	p.list.UnselectAll()
	p.list.ScrollToOffset(0)
	p.lastOffset = 0
	p.list.Refresh()
}
