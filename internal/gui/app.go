package gui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	fynetooltip "github.com/dweymouth/fyne-tooltip"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"

	"codeberg.org/snonux/biread/internal"
	"codeberg.org/snonux/biread/internal/cli"
	"codeberg.org/snonux/biread/internal/document"
	"codeberg.org/snonux/biread/internal/history"
	"codeberg.org/snonux/biread/internal/reader"
	"codeberg.org/snonux/biread/internal/scheduler"
	"codeberg.org/snonux/biread/internal/segment"
	"codeberg.org/snonux/biread/internal/translate"
	"codeberg.org/snonux/biread/internal/viewsync"
)

// How often user scrolling is sampled and mirrored to the other pane.
const scrollSyncInterval = 150 * time.Millisecond

// Application is the main reader window: the source text on the left, its
// translation on the right, selection and scrolling kept in sync while
// translations stream in.
type Application struct {
	app    fyne.App
	window fyne.Window

	leftPane  *listPane
	rightPane *listPane
	split     *container.Split

	openBtn       *ttwidget.Button
	translateBtn  *ttwidget.Button
	refreshBtn    *ttwidget.Button
	stopBtn       *ttwidget.Button
	settingsBtn   *ttwidget.Button
	langSelect    *widget.Select
	autoCheck     *widget.Check
	providerLabel *widget.Label
	progressBar   *widget.ProgressBar
	statusLabel   *widget.Label

	flags   *cli.Flags
	sched   *scheduler.Scheduler
	syncctl *viewsync.Controller
	hist    *history.Store

	// Guards store and docPath; the panes read units through unit()
	// while translation workers write to the store.
	mu         sync.Mutex
	store      *document.Store
	docPath    string
	lastTarget string

	ctx          context.Context
	cancel       context.CancelFunc
	scrollTicker *time.Ticker
}

// New creates the reader application. Provider and worker settings come
// from the parsed command line flags and the config file.
func New(flags *cli.Flags) *Application {
	return newWithApp(app.NewWithID("org.codeberg.snonux.biread"), flags)
}

// newWithApp builds the application on a given Fyne app, so tests can use
// the headless test driver.
func newWithApp(myApp fyne.App, flags *cli.Flags) *Application {
	ctx, cancel := context.WithCancel(context.Background())

	myApp.SetIcon(GetAppIcon())

	a := &Application{
		app:     myApp,
		flags:   flags,
		syncctl: viewsync.New(),
		ctx:     ctx,
		cancel:  cancel,
	}

	provider, err := translate.NewProvider(cli.ProviderConfig(flags))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v, falling back to the google provider\n", err)
		flags.Provider = "google"
		provider, _ = translate.NewProvider(cli.ProviderConfig(flags))
	}
	a.sched = scheduler.New(provider, flags.Workers)
	a.sched.SetCallbacks(a.onProgress, a.onFinished)

	if h, err := history.Open(history.DefaultPath()); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open reading history: %v\n", err)
	} else {
		a.hist = h
	}

	a.setupUI()

	return a
}

// setupUI creates the main window
func (a *Application) setupUI() {
	a.window = a.app.NewWindow(fmt.Sprintf("biread v%s", internal.Version))
	a.window.Resize(fyne.NewSize(1200, 720))

	// Status section first, the toolbar callbacks report into it
	a.statusLabel = widget.NewLabel("Open a document to start reading")
	a.progressBar = widget.NewProgressBar()
	a.progressBar.Hide()

	a.leftPane = newListPane(a.rows, a.unit, sourceText, func(i int) { a.onRowSelected(viewsync.Left, i) })
	a.rightPane = newListPane(a.rows, a.unit, translationText, func(i int) { a.onRowSelected(viewsync.Right, i) })
	a.syncctl.Attach(a.leftPane, a.rightPane)

	a.split = container.NewHSplit(a.leftPane.list, a.rightPane.list)
	a.split.SetOffset(0.5)

	// Toolbar (tooltips are set after the tooltip layer is created)
	a.openBtn = ttwidget.NewButtonWithIcon("", theme.FolderOpenIcon(), a.onOpen)
	a.translateBtn = ttwidget.NewButtonWithIcon("", theme.MediaPlayIcon(), a.onTranslate)
	a.refreshBtn = ttwidget.NewButtonWithIcon("", theme.ViewRefreshIcon(), a.onTranslate)
	a.stopBtn = ttwidget.NewButtonWithIcon("", theme.MediaStopIcon(), a.onStop)
	a.settingsBtn = ttwidget.NewButtonWithIcon("", theme.SettingsIcon(), a.onSettings)

	a.langSelect = widget.NewSelect(translate.LanguageOptions(), func(string) { a.onTargetChanged() })
	a.langSelect.Selected = languageOption(a.flags.Target)

	a.autoCheck = widget.NewCheck("Auto-translate", nil)
	a.autoCheck.SetChecked(!a.flags.NoAutoTranslate)

	a.providerLabel = widget.NewLabel(a.flags.Provider)
	a.providerLabel.TextStyle = fyne.TextStyle{Italic: true}

	toolbar := container.NewHBox(
		a.openBtn,
		widget.NewSeparator(),
		a.translateBtn,
		a.refreshBtn,
		a.stopBtn,
		widget.NewSeparator(),
		a.langSelect,
		a.autoCheck,
		widget.NewSeparator(),
		a.settingsBtn,
		a.providerLabel,
	)

	statusSection := container.NewVBox(
		a.progressBar,
		a.statusLabel,
	)

	content := container.NewBorder(
		container.NewVBox(toolbar, widget.NewSeparator()),
		statusSection,
		nil, nil,
		a.split,
	)

	// Add the tooltip layer to enable tooltips
	a.window.SetContent(fynetooltip.AddWindowToolTipLayer(content, a.window.Canvas()))
	a.setupTooltips()
	a.window.SetMainMenu(a.buildMainMenu())

	a.window.SetOnClosed(func() {
		if a.scrollTicker != nil {
			a.scrollTicker.Stop()
		}
		a.sched.Stop()
		a.cancel()
		if a.hist != nil {
			a.hist.Close()
		}
	})

	a.setupKeyboardShortcuts()
}

func (a *Application) setupTooltips() {
	a.openBtn.SetToolTip("Open document (Ctrl+O)")
	a.translateBtn.SetToolTip("Translate document (Ctrl+T)")
	a.refreshBtn.SetToolTip("Retry pending and failed paragraphs")
	a.stopBtn.SetToolTip("Stop translating")
	a.settingsBtn.SetToolTip("Provider settings")
}

func (a *Application) setupKeyboardShortcuts() {
	canvas := a.window.Canvas()
	canvas.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyO, Modifier: fyne.KeyModifierControl},
		func(fyne.Shortcut) { a.onOpen() })
	canvas.AddShortcut(&desktop.CustomShortcut{KeyName: fyne.KeyT, Modifier: fyne.KeyModifierControl},
		func(fyne.Shortcut) { a.onTranslate() })
}

// Run starts the GUI application
func (a *Application) Run() {
	a.startScrollSync()
	a.window.ShowAndRun()
}

// OpenDocument loads a document on startup, before the event loop runs.
func (a *Application) OpenDocument(path string) {
	a.loadDocument(path)
}

func (a *Application) rows() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.store == nil {
		return 0
	}
	return a.store.Len()
}

func (a *Application) unit(i int) (document.Unit, error) {
	a.mu.Lock()
	st := a.store
	a.mu.Unlock()
	if st == nil {
		return document.Unit{}, document.ErrIndexOutOfRange
	}
	return st.Unit(i)
}

// sourceText renders a left pane row.
func sourceText(u document.Unit) (string, fyne.TextStyle) {
	return u.Source, fyne.TextStyle{}
}

// translationText renders a right pane row. Failed units carry the source
// text as their fallback translation and are shown italic.
func translationText(u document.Unit) (string, fyne.TextStyle) {
	switch u.Status {
	case document.StatusTranslating:
		return "…", fyne.TextStyle{Italic: true}
	case document.StatusFailed:
		return u.Translation, fyne.TextStyle{Italic: true}
	case document.StatusDone:
		return u.Translation, fyne.TextStyle{}
	default:
		return "", fyne.TextStyle{}
	}
}

// onOpen shows the file chooser for supported document formats.
func (a *Application) onOpen() {
	d := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		if rc == nil {
			return
		}
		path := rc.URI().Path()
		rc.Close()
		a.loadDocument(path)
	}, a.window)
	d.SetFilter(storage.NewExtensionFileFilter(reader.Extensions))
	d.Show()
}

// loadDocument reads and segments a document, replacing the current one.
// A new document invalidates all in-flight translations of the old one.
func (a *Application) loadDocument(path string) {
	text, err := reader.Read(path)
	if err != nil {
		dialog.ShowError(fmt.Errorf("failed to open %s: %w", filepath.Base(path), err), a.window)
		return
	}
	paragraphs := segment.Split(text)
	if len(paragraphs) == 0 {
		// An empty document still replaces the current one, leaving both
		// panes empty.
		a.mu.Lock()
		a.store = nil
		a.docPath = ""
		a.lastTarget = ""
		a.mu.Unlock()

		a.sched.SetStore(nil)
		a.syncctl.Reset(0)
		a.leftPane.reset()
		a.rightPane.reset()
		a.progressBar.Hide()

		a.window.SetTitle(fmt.Sprintf("biread v%s", internal.Version))
		a.setStatus("No readable paragraphs")
		dialog.ShowInformation("Empty Document",
			fmt.Sprintf("No readable paragraphs found in %s", filepath.Base(path)), a.window)
		return
	}

	store := document.New(paragraphs)
	store.Subscribe(a.onUnitChanged)

	a.mu.Lock()
	a.store = store
	a.docPath = path
	a.lastTarget = ""
	a.mu.Unlock()

	a.sched.SetStore(store)
	a.syncctl.Reset(len(paragraphs))
	a.leftPane.reset()
	a.rightPane.reset()
	a.progressBar.Hide()
	a.translateBtn.Enable()

	a.window.SetTitle(fmt.Sprintf("biread v%s - %s", internal.Version, filepath.Base(path)))
	a.setStatus(fmt.Sprintf("%d paragraphs", len(paragraphs)))

	if a.hist != nil {
		if err := a.hist.Touch(path); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not record %s in history: %v\n", path, err)
		}
		if idx, err := a.hist.LastIndex(path); err == nil && idx >= 0 && idx < len(paragraphs) {
			a.syncctl.Select(viewsync.Left, idx)
		}
		a.window.SetMainMenu(a.buildMainMenu())
	}

	if a.autoCheck.Checked {
		a.startTranslation()
	}
}

// onUnitChanged is called by translation workers whenever a unit changes
// state, it repaints the affected translation row.
func (a *Application) onUnitChanged(index int, _ document.Status) {
	fyne.Do(func() {
		a.rightPane.list.RefreshItem(index)
	})
}

// onRowSelected forwards a pane selection to the sync controller and
// remembers the reading position.
func (a *Application) onRowSelected(side viewsync.Side, index int) {
	a.syncctl.Select(side, index)

	a.mu.Lock()
	path := a.docPath
	a.mu.Unlock()
	if a.hist != nil && path != "" {
		a.hist.SaveIndex(path, index)
	}
}

func (a *Application) onTranslate() {
	a.startTranslation()
}

func (a *Application) startTranslation() {
	a.mu.Lock()
	st := a.store
	path := a.docPath
	lastTarget := a.lastTarget
	a.mu.Unlock()
	if st == nil {
		a.setStatus("Open a document first")
		return
	}

	target := translate.LanguageByOption(a.langSelect.Selected)
	if target == "" {
		target = a.flags.Target
	}
	// A run only covers units that are not Done, so translations of a
	// previous target would survive a language switch. Start over.
	if lastTarget != "" && target != lastTarget {
		st = a.replaceStore(st)
	}
	a.mu.Lock()
	a.lastTarget = target
	a.mu.Unlock()

	if a.hist != nil && path != "" {
		a.hist.SaveTarget(path, target)
	}

	a.translateBtn.Disable()
	a.progressBar.SetValue(0)
	a.progressBar.Show()
	a.setStatus("Translating...")
	a.sched.Run(target)
}

// replaceStore swaps in a fresh all-Pending store holding the same source
// paragraphs, invalidating every in-flight translation of the old one.
func (a *Application) replaceStore(old *document.Store) *document.Store {
	units := old.Units()
	sources := make([]string, len(units))
	for i, u := range units {
		sources[i] = u.Source
	}
	store := document.New(sources)
	store.Subscribe(a.onUnitChanged)

	a.mu.Lock()
	a.store = store
	a.mu.Unlock()

	a.sched.SetStore(store)
	a.rightPane.list.Refresh()
	return store
}

func (a *Application) onStop() {
	a.sched.Stop()
	a.translateBtn.Enable()
	a.progressBar.Hide()
	a.setStatus("Translation stopped")
}

// onTargetChanged re-translates into the new language when auto-translate
// is on.
func (a *Application) onTargetChanged() {
	a.mu.Lock()
	loaded := a.store != nil
	a.mu.Unlock()
	if loaded && a.autoCheck != nil && a.autoCheck.Checked {
		a.startTranslation()
	}
}

// onProgress is called from scheduler workers.
func (a *Application) onProgress(done, total int) {
	fyne.Do(func() {
		if total > 0 {
			a.progressBar.SetValue(float64(done) / float64(total))
		}
		a.statusLabel.SetText(fmt.Sprintf("Translating %d/%d", done, total))
	})
}

// onFinished is called once per run when every unit has resolved.
func (a *Application) onFinished() {
	fyne.Do(func() {
		a.translateBtn.Enable()
		a.progressBar.Hide()

		failed := 0
		a.mu.Lock()
		st := a.store
		a.mu.Unlock()
		if st != nil {
			for _, u := range st.Units() {
				if u.Status == document.StatusFailed {
					failed++
				}
			}
		}
		if failed > 0 {
			a.setStatus(fmt.Sprintf("Translation finished, %d paragraphs fell back to the source text", failed))
		} else {
			a.setStatus("Translation finished")
		}
	})
}

// startScrollSync samples the panes for user scrolling and mirrors it via
// the sync controller. Fyne lists expose no scroll event, so this polls.
func (a *Application) startScrollSync() {
	a.scrollTicker = time.NewTicker(scrollSyncInterval)
	go func() {
		for {
			select {
			case <-a.ctx.Done():
				return
			case <-a.scrollTicker.C:
				fyne.Do(a.pollScroll)
			}
		}
	}()
}

// pollScroll runs on the UI thread. At most one pane is treated as the
// scroll origin per tick.
func (a *Application) pollScroll() {
	if ratio, moved := a.leftPane.scrollRatio(); moved {
		a.syncctl.Scroll(viewsync.Left, ratio)
		return
	}
	if ratio, moved := a.rightPane.scrollRatio(); moved {
		a.syncctl.Scroll(viewsync.Right, ratio)
	}
}

func (a *Application) setStatus(text string) {
	a.statusLabel.SetText(text)
}

// languageOption maps a generic language code to its select widget option.
func languageOption(code string) string {
	for _, l := range translate.Languages {
		if l.Code == code {
			return l.Label + " (" + l.Code + ")"
		}
	}
	return translate.LanguageOptions()[0]
}
