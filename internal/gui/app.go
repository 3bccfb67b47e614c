//go:build !nogui

// Package gui is the desktop shell: a directory chooser, an organize button
// and a read-only log of the session.
package gui

import (
	"fmt"
	"strings"
	"sync"

	"extsort/internal/log"
	"extsort/internal/session"
	"extsort/pkg/types"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// Dialog constructors, replaced in tests.
var (
	showError       = dialog.ShowError
	showInformation = dialog.ShowInformation
)

// App is the GUI application
type App struct {
	fyneApp    fyne.App
	mainWindow fyne.Window
	state      *session.State

	dirEntry       *widget.Entry
	browseButton   *widget.Button
	organizeButton *widget.Button
	dryRunCheck    *widget.Check
	logView        *widget.Entry

	logMu sync.Mutex
	lines []string
}

var _ session.Sink = (*App)(nil)

// NewApp creates the GUI for state
func NewApp(state *session.State) *App {
	return newApp(app.NewWithID("io.github.extsort"), state)
}

func newApp(fyneApp fyne.App, state *session.State) *App {
	a := &App{
		fyneApp: fyneApp,
		state:   state,
	}
	a.mainWindow = fyneApp.NewWindow("File Organizer")
	a.setupMainWindow()
	state.SetSink(a)
	return a
}

// GetMainWindow returns the main window instance
func (a *App) GetMainWindow() fyne.Window {
	return a.mainWindow
}

// Run bootstraps the configuration and starts the GUI event loop
func (a *App) Run() {
	if err := a.state.Bootstrap(); err != nil {
		log.LogError(err, "Configuration bootstrap failed")
	}
	a.mainWindow.Resize(fyne.NewSize(720, 480))
	a.mainWindow.ShowAndRun()
}

// setupMainWindow sets up the main window content
func (a *App) setupMainWindow() {
	a.dirEntry = widget.NewEntry()
	a.dirEntry.SetPlaceHolder("Directory to organize")
	a.dirEntry.SetText(a.state.Directory)

	a.browseButton = widget.NewButton("Browse...", a.browse)
	a.dryRunCheck = widget.NewCheck("Dry run", nil)
	a.dryRunCheck.SetChecked(a.state.DryRun)
	a.organizeButton = widget.NewButton("Organize", func() { a.Organize() })
	a.organizeButton.Importance = widget.HighImportance

	a.logView = widget.NewMultiLineEntry()
	a.logView.Wrapping = fyne.TextWrapWord
	a.logView.Disable()

	directoryRow := container.NewBorder(nil, nil, widget.NewLabel("Directory:"), a.browseButton, a.dirEntry)
	actionRow := container.NewHBox(a.organizeButton, a.dryRunCheck)

	a.mainWindow.SetContent(container.NewBorder(
		container.NewVBox(directoryRow, actionRow),
		nil, nil, nil,
		a.logView,
	))
}

func (a *App) browse() {
	dialog.ShowFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil {
			a.Notify(session.Notice{Level: session.LevelError, Title: "Error", Message: err.Error()})
			return
		}
		if uri == nil {
			return
		}
		a.Log("Selected directory: " + uri.Path())
		a.dirEntry.SetText(uri.Path())
	}, a.mainWindow)
}

// Organize runs the session for the directory in the entry
func (a *App) Organize() (*types.OrganizeReport, error) {
	a.state.Directory = a.dirEntry.Text
	a.state.DryRun = a.dryRunCheck.Checked

	a.organizeButton.Disable()
	defer a.organizeButton.Enable()
	return a.state.Run()
}

// Log appends a line to the log view
func (a *App) Log(line string) {
	a.logMu.Lock()
	a.lines = append(a.lines, line)
	text := strings.Join(a.lines, "\n")
	a.logMu.Unlock()

	a.logView.SetText(text)
	a.logView.CursorRow = len(a.lines)
}

// Notify shows a notice as a dialog. Errors use the error dialog.
func (a *App) Notify(n session.Notice) {
	if n.Level == session.LevelError {
		showError(fmt.Errorf("%s", n.Message), a.mainWindow)
		return
	}
	showInformation(n.Title, n.Message, a.mainWindow)
}

// LogText returns the content of the log view
func (a *App) LogText() string {
	return a.logView.Text
}

// IsGUIAvailable returns whether the GUI is available in this build
func IsGUIAvailable() bool {
	return true
}

// StartGUI opens the desktop window for state and blocks until it closes
func StartGUI(state *session.State) error {
	NewApp(state).Run()
	return nil
}
