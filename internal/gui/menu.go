package gui

import (
	"path/filepath"

	"fyne.io/fyne/v2"
)

const maxRecentEntries = 10

// buildMainMenu creates the File menu. It is rebuilt after every document
// load so the recent list stays current.
func (a *Application) buildMainMenu() *fyne.MainMenu {
	items := []*fyne.MenuItem{
		fyne.NewMenuItem("Open…", a.onOpen),
	}

	if a.hist != nil {
		if entries, err := a.hist.Recent(maxRecentEntries); err == nil && len(entries) > 0 {
			recent := make([]*fyne.MenuItem, 0, len(entries))
			for _, e := range entries {
				path := e.Path
				recent = append(recent, fyne.NewMenuItem(filepath.Base(path), func() {
					a.loadDocument(path)
				}))
			}
			recentItem := fyne.NewMenuItem("Open Recent", nil)
			recentItem.ChildMenu = fyne.NewMenu("", recent...)
			items = append(items, recentItem)
		}
	}

	items = append(items,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Settings…", a.onSettings),
	)

	return fyne.NewMainMenu(fyne.NewMenu("File", items...))
}
