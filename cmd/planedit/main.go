// Command planedit is a TUI editor for attack plans.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/ha1tch/attackplan/pkg/canvas"
	"github.com/ha1tch/attackplan/pkg/input"
	"github.com/ha1tch/attackplan/pkg/layout"
	"github.com/ha1tch/attackplan/pkg/plan"
	"github.com/ha1tch/attackplan/pkg/planfile"
	"github.com/ha1tch/attackplan/pkg/render"
)

// Editor holds all editor state
type Editor struct {
	screen      tcell.Screen
	graph       *plan.Graph
	ctrl        *canvas.Controller
	filename    string
	modified    bool
	mode        Mode
	quit        bool
	message     string
	messageType MessageType
	config      Config
	configPath  string
	logger      *slog.Logger

	// Undo/Redo. snapped is set once the current input event has taken
	// its snapshot, so multi-batch operations and drags undo in one step.
	history history
	snapped bool

	// Pointer state
	mouse       mouseTracker
	pointerDown bool // a canvas gesture is in progress

	// Keyboard cursor on the canvas, in cells
	cursorX int
	cursorY int

	// Palette sidebar
	palette        *palette
	paletteVisible bool
	paletteWidth   int
	paletteDrag    int // entry being dragged, -1 if none
	dragX, dragY   int

	// UI regions
	canvasWidth  int
	canvasHeight int

	// Menu state
	menuItems    []string
	menuSelected int

	// Input state
	inputBuffer string
	inputPrompt string
	inputAction func(string)

	// File picker state
	fileList        []string
	fileSelected    int
	dirList         []string
	dirSelected     int
	currentDir      string
	filePickerFocus int // 0 = directories, 1 = files

	helpScrollOffset int

	// Message flash state, read by the ticker goroutine
	messageFlashStart atomic.Int64
}

// Mode represents editor mode
type Mode int

const (
	ModeMenu Mode = iota
	ModeCanvas
	ModeInput
	ModeFilePicker
	ModeHelp
	ModePalette // keyboard focus in the palette sidebar
)

// MessageType for status messages
type MessageType int

const (
	MsgInfo    MessageType = iota // Informative, no flash
	MsgError                      // Errors, flash
	MsgSuccess                    // State changes, flash
	MsgWarning                    // Warnings, flash
)

func newEditor(cfg Config, logger *slog.Logger) *Editor {
	ed := &Editor{
		graph:          plan.NewGraph(),
		config:         cfg,
		configPath:     ConfigPath(),
		logger:         logger,
		paletteVisible: true,
		paletteWidth:   32,
		paletteDrag:    -1,
	}
	ed.graph.SetLogger(logger)
	ed.ctrl = canvas.New(ed.graph, canvas.Options{
		OnNodesChange: ed.applyNodes,
		OnEdgesChange: ed.applyEdges,
		Viewport:      canvas.Viewport{Zoom: cfg.Zoom},
		Logger:        logger,
	})

	p, err := newPalette(cfg.Palette)
	if err != nil {
		logger.Warn("palette", "path", cfg.Palette, "err", err)
		ed.showMessage("Palette: "+err.Error(), MsgError)
		p, _ = newPalette("")
	}
	ed.palette = p
	ed.updateMenuItems()
	return ed
}

func main() {
	cfg := LoadConfig(ConfigPath())
	logger, logFile := openLog(cfg)
	defer logFile.Close()

	ed := newEditor(cfg, logger)

	// Check command line
	if len(os.Args) > 1 {
		ed.filename = os.Args[1]
		if err := ed.loadFile(ed.filename); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", ed.filename, err)
				os.Exit(1)
			}
			ed.showMessage("New file: "+ed.filename, MsgInfo)
		}
	}

	// Initialize screen
	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing screen: %v\n", err)
		os.Exit(1)
	}
	screen.EnableMouse()
	screen.Clear()
	ed.screen = screen

	if err := ed.palette.watch(screen, logger); err != nil {
		ed.showMessage("Palette watch: "+err.Error(), MsgWarning)
	}
	defer ed.palette.close()

	// If a file was given, go straight to canvas
	if ed.filename != "" {
		ed.mode = ModeCanvas
	} else {
		ed.mode = ModeMenu
	}

	// Main loop
	logger.Info("planedit started", "file", ed.filename)
	ed.run()

	screen.Fini()
}

func (ed *Editor) updateMenuItems() {
	ed.menuItems = []string{
		"New Plan",
		"Open File",
		"Save",
		"Save As",
		"Edit Canvas",
		"Arrange",
		"Export",
		"Export Format: " + strings.ToUpper(ed.config.ExportFormat),
		"Quit",
	}
}

// flashTicker sends periodic refresh events while a message is flashing,
// until done is closed.
func (ed *Editor) flashTicker(done <-chan struct{}) {
	ticker := time.NewTicker(50 * time.Millisecond) // 20fps for smooth flash
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
		}
		start := ed.messageFlashStart.Load()
		if start == 0 {
			continue
		}
		elapsed := time.Now().UnixMilli() - start
		if elapsed >= 0 && elapsed < 700 {
			ed.screen.PostEvent(tcell.NewEventInterrupt(nil))
		}
	}
}

func (ed *Editor) run() {
	done := make(chan struct{})
	defer close(done)
	go ed.flashTicker(done)

	for !ed.quit {
		ed.draw()
		ed.screen.Show()

		ev := ed.screen.PollEvent()
		switch ev := ev.(type) {
		case nil:
			return
		case *tcell.EventResize:
			ed.screen.Sync()
		case *tcell.EventKey:
			if ed.handleKey(ev) {
				return
			}
		case *tcell.EventMouse:
			ed.handleMouse(ev)
		case *tcell.EventInterrupt:
			// Refresh event for flash animation - just redraw; palette
			// reloads ride on the same event
			if r, ok := ev.Data().(paletteReload); ok {
				ed.reloadPalette(r)
			}
		}
	}
}

func (ed *Editor) reloadPalette(r paletteReload) {
	if r.err != nil {
		ed.showMessage("Palette: "+r.err.Error(), MsgError)
		return
	}
	ed.palette.set(r.catalog)
	ed.showMessage("Palette reloaded", MsgInfo)
}

// applyNodes is the controller's node callback: it snapshots for undo and
// applies the batch to the graph.
func (ed *Editor) applyNodes(changes []plan.NodeChange) {
	ed.snapshot()
	ed.graph.ApplyNodeChanges(changes)
	ed.modified = true
}

func (ed *Editor) applyEdges(changes []plan.EdgeChange) {
	ed.snapshot()
	ed.graph.ApplyEdgeChanges(changes)
	ed.modified = true
}

func (ed *Editor) snapshot() {
	if ed.snapped {
		return
	}
	ed.history.save(ed.graph)
	ed.snapped = true
}

func (ed *Editor) handleKey(ev *tcell.EventKey) bool {
	ed.snapped = false

	// The text editor sees everything first. Ctrl+Enter rarely reaches a
	// terminal application, so Ctrl+S commits and Ctrl+T stands in for
	// Ctrl+I, which arrives as Tab.
	if ed.mode == ModeCanvas && ed.ctrl.Editing() {
		switch ev.Key() {
		case tcell.KeyCtrlS:
			ed.ctrl.TextAction(ed.ctrl.Focused(), render.ActionSave)
			return false
		case tcell.KeyCtrlT:
			ed.ctrl.TextAction(ed.ctrl.Focused(), render.ActionItalic)
			return false
		}
		ed.ctrl.KeyDown(translateKey(ev))
		return false
	}

	// Global shortcuts (Ctrl or Cmd on macOS)
	mod := ev.Modifiers()
	isCtrlOrCmd := func(key tcell.Key, r rune) bool {
		if ev.Key() == key {
			return true
		}
		// Cmd+key is reported as Meta or Alt plus the rune by some terminals
		if mod&(tcell.ModMeta|tcell.ModAlt) != 0 && ev.Rune() == r {
			return true
		}
		return false
	}

	if ed.mode != ModeInput {
		switch {
		case isCtrlOrCmd(tcell.KeyCtrlC, 'c'):
			ed.copyToClipboard()
			return false
		case isCtrlOrCmd(tcell.KeyCtrlV, 'v'):
			ed.pasteFromClipboard()
			return false
		case isCtrlOrCmd(tcell.KeyCtrlS, 's'):
			ed.save()
			return false
		case isCtrlOrCmd(tcell.KeyCtrlZ, 'z'):
			ed.undo()
			return false
		case isCtrlOrCmd(tcell.KeyCtrlY, 'y'):
			ed.redo()
			return false
		case ev.Key() == tcell.KeyCtrlP:
			ed.togglePalette()
			return false
		}
	}

	switch ed.mode {
	case ModeMenu:
		return ed.handleMenuKey(ev)
	case ModeCanvas:
		return ed.handleCanvasKey(ev)
	case ModeInput:
		return ed.handleInputKey(ev)
	case ModeFilePicker:
		return ed.handleFilePickerKey(ev)
	case ModeHelp:
		return ed.handleHelpKey(ev)
	case ModePalette:
		return ed.handlePaletteKey(ev)
	}
	return false
}

func (ed *Editor) handleMenuKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyUp:
		if ed.menuSelected > 0 {
			ed.menuSelected--
		}
	case tcell.KeyDown:
		if ed.menuSelected < len(ed.menuItems)-1 {
			ed.menuSelected++
		}
	case tcell.KeyEnter:
		return ed.executeMenuItem()
	case tcell.KeyEscape:
		ed.mode = ModeCanvas
	}
	return false
}

func (ed *Editor) executeMenuItem() bool {
	item := ed.menuItems[ed.menuSelected]

	switch {
	case item == "New Plan":
		ed.newPlan()
	case item == "Open File":
		ed.openFilePicker()
	case item == "Save":
		ed.save()
	case item == "Save As":
		ed.saveAs()
	case item == "Edit Canvas":
		ed.mode = ModeCanvas
	case item == "Arrange":
		ed.arrange()
		ed.mode = ModeCanvas
	case item == "Export":
		if len(ed.graph.Nodes()) == 0 {
			ed.showMessage("Canvas is empty - nothing to export", MsgError)
		} else {
			ed.exportView()
		}
	case strings.HasPrefix(item, "Export Format:"):
		ed.toggleExportFormat()
	case item == "Quit":
		if ed.modified {
			ed.inputPrompt = "Unsaved changes. Quit anyway? (y/n): "
			ed.inputBuffer = ""
			ed.inputAction = func(s string) {
				if strings.ToLower(s) == "y" {
					ed.quit = true
				}
				ed.mode = ModeMenu
			}
			ed.mode = ModeInput
		} else {
			return true
		}
	}
	return false
}

func (ed *Editor) toggleExportFormat() {
	if ed.config.ExportFormat == planfile.FormatSVG {
		ed.config.ExportFormat = planfile.FormatPNG
	} else {
		ed.config.ExportFormat = planfile.FormatSVG
	}
	ed.saveConfig()
	ed.updateMenuItems()
	ed.showMessage("Export format: "+strings.ToUpper(ed.config.ExportFormat), MsgInfo)
}

func (ed *Editor) togglePalette() {
	ed.paletteVisible = !ed.paletteVisible
	if !ed.paletteVisible && ed.mode == ModePalette {
		ed.mode = ModeCanvas
	}
}

func (ed *Editor) saveConfig() {
	if err := SaveConfig(ed.configPath, ed.config); err != nil {
		ed.logger.Warn("save config", "path", ed.configPath, "err", err)
	}
}

func (ed *Editor) handleCanvasKey(ev *tcell.EventKey) bool {
	if m := ed.ctrl.Menu(); m.Visible && ev.Key() == tcell.KeyEnter {
		for _, it := range m.Items {
			if !it.Disabled {
				ed.ctrl.ChooseMenuItem(it.ID)
				break
			}
		}
		return false
	}
	if ed.ctrl.KeyDown(translateKey(ev)) {
		return false
	}

	switch ev.Key() {
	case tcell.KeyEscape:
		ed.mode = ModeMenu
	case tcell.KeyTab:
		if ed.paletteVisible {
			ed.mode = ModePalette
		}
	case tcell.KeyLeft:
		ed.moveCursor(-1, 0)
	case tcell.KeyRight:
		ed.moveCursor(1, 0)
	case tcell.KeyUp:
		ed.moveCursor(0, -1)
	case tcell.KeyDown:
		ed.moveCursor(0, 1)
	case tcell.KeyRune:
		switch ev.Rune() {
		case '?':
			ed.helpScrollOffset = 0
			ed.mode = ModeHelp
		case 't':
			ed.ctrl.AddTextBox(ed.cursorCanvas())
		case 'g':
			ed.config.Grid = !ed.config.Grid
			ed.saveConfig()
		case 'n':
			ed.config.Minimap = !ed.config.Minimap
			ed.saveConfig()
		case 'L':
			ed.arrange()
		case 'm':
			ed.ctrl.PointerDown(&canvas.PointerEvent{
				Screen: cellToScreen(ed.cursorX, ed.cursorY),
				Button: input.ButtonSecondary,
			})
		}
	}
	return false
}

func (ed *Editor) moveCursor(dx, dy int) {
	ed.cursorX += dx
	ed.cursorY += dy
	if ed.cursorX < 0 {
		ed.cursorX = 0
	}
	if ed.cursorY < 0 {
		ed.cursorY = 0
	}
	if ed.canvasWidth > 0 && ed.cursorX >= ed.canvasWidth {
		ed.cursorX = ed.canvasWidth - 1
	}
	if ed.canvasHeight > 0 && ed.cursorY >= ed.canvasHeight {
		ed.cursorY = ed.canvasHeight - 1
	}
	ed.ctrl.Hover(cellToScreen(ed.cursorX, ed.cursorY))
}

// cursorCanvas returns the canvas point under the keyboard cursor.
func (ed *Editor) cursorCanvas() plan.Point {
	return ed.ctrl.Viewport().ScreenToCanvas(cellToScreen(ed.cursorX, ed.cursorY))
}

func (ed *Editor) handlePaletteKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyTab:
		ed.mode = ModeCanvas
	case tcell.KeyUp:
		ed.palette.move(-1)
	case tcell.KeyDown:
		ed.palette.move(1)
	case tcell.KeyPgUp:
		ed.palette.move(-10)
	case tcell.KeyPgDn:
		ed.palette.move(10)
	case tcell.KeyEnter:
		ed.dropEntry(ed.palette.selected, ed.cursorX, ed.cursorY)
	}
	return false
}

// dropEntry drops a palette entry at a canvas cell, the way a mouse drag
// would.
func (ed *Editor) dropEntry(i, cx, cy int) {
	if i < 0 || i >= len(ed.palette.entries) {
		return
	}
	data, err := ed.palette.payload(i)
	if err != nil {
		ed.showMessage("Error: "+err.Error(), MsgError)
		return
	}
	ev := &canvas.DragEvent{Screen: cellToScreen(cx, cy), Data: data}
	ed.ctrl.DragOver(ev)
	if ed.ctrl.Drop(ev) {
		ed.showMessage("Added "+ed.palette.entries[i].Label, MsgSuccess)
	}
}

func (ed *Editor) handleInputKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape:
		ed.mode = ModeMenu
	case tcell.KeyEnter:
		if ed.inputAction != nil {
			ed.inputAction(ed.inputBuffer)
		}
		ed.inputBuffer = ""
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if r := []rune(ed.inputBuffer); len(r) > 0 {
			ed.inputBuffer = string(r[:len(r)-1])
		}
	case tcell.KeyRune:
		ed.inputBuffer += string(ev.Rune())
	}
	return false
}

func (ed *Editor) handleFilePickerKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape:
		ed.mode = ModeMenu
	case tcell.KeyTab:
		// Switch focus between directories and files
		ed.filePickerFocus = 1 - ed.filePickerFocus
	case tcell.KeyLeft:
		ed.filePickerFocus = 0 // Focus directories
	case tcell.KeyRight:
		ed.filePickerFocus = 1 // Focus files
	case tcell.KeyUp:
		if ed.filePickerFocus == 0 {
			if ed.dirSelected > 0 {
				ed.dirSelected--
			}
		} else if ed.fileSelected > 0 {
			ed.fileSelected--
		}
	case tcell.KeyDown:
		if ed.filePickerFocus == 0 {
			if ed.dirSelected < len(ed.dirList)-1 {
				ed.dirSelected++
			}
		} else if ed.fileSelected < len(ed.fileList)-1 {
			ed.fileSelected++
		}
	case tcell.KeyEnter:
		if ed.filePickerFocus == 0 {
			// Navigate to selected directory
			selectedDir := ed.dirList[ed.dirSelected]
			if selectedDir == ".." {
				ed.currentDir = filepath.Dir(ed.currentDir)
			} else {
				ed.currentDir = filepath.Join(ed.currentDir, selectedDir)
			}
			ed.refreshFilePicker()
		} else if len(ed.fileList) > 0 {
			// Open selected file
			fullPath := filepath.Join(ed.currentDir, ed.fileList[ed.fileSelected])
			if err := ed.loadFile(fullPath); err != nil {
				ed.showMessage("Error: "+err.Error(), MsgError)
			} else {
				ed.filename = fullPath
				// Save last used directory
				ed.config.LastDir = ed.currentDir
				ed.saveConfig()
				ed.showMessage("Loaded: "+ed.filename, MsgSuccess)
				ed.mode = ModeCanvas
			}
		}
	}
	return false
}

func (ed *Editor) handleHelpKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyEnter:
		ed.mode = ModeCanvas
	case tcell.KeyUp:
		if ed.helpScrollOffset > 0 {
			ed.helpScrollOffset--
		}
	case tcell.KeyDown:
		// Allow scrolling down if there's more content
		if ed.helpScrollOffset < len(helpLines)-1 {
			ed.helpScrollOffset++
		}
	case tcell.KeyRune:
		if ev.Rune() == '?' || ev.Rune() == 'q' {
			ed.mode = ModeCanvas
		}
	}
	return false
}

func (ed *Editor) handleMouse(ev *tcell.EventMouse) {
	for _, me := range ed.mouse.update(ev) {
		ed.handleMouseEvent(me)
	}
}

func (ed *Editor) inCanvas(x, y int) bool {
	return x >= 0 && y >= 0 && x < ed.canvasWidth && y < ed.canvasHeight
}

func (ed *Editor) inPalette(x, y int) bool {
	return ed.paletteVisible && x >= ed.canvasWidth && y < ed.canvasHeight
}

func (ed *Editor) handleMouseEvent(me mouseEvent) {
	switch ed.mode {
	case ModeCanvas, ModePalette:
	default:
		return
	}
	p := cellToScreen(me.x, me.y)
	pe := &canvas.PointerEvent{Screen: p, Button: me.button, Shift: me.shift}

	// Palette drag in progress
	if ed.paletteDrag >= 0 {
		ed.dragX, ed.dragY = me.x, me.y
		switch me.action {
		case mouseMove:
			if ed.inCanvas(me.x, me.y) {
				ed.ctrl.DragOver(&canvas.DragEvent{Screen: p})
			}
		case mouseRelease:
			i := ed.paletteDrag
			ed.paletteDrag = -1
			if ed.inCanvas(me.x, me.y) {
				ed.snapped = false
				ed.dropEntry(i, me.x, me.y)
				ed.mode = ModeCanvas
			}
		}
		return
	}

	switch me.action {
	case mouseWheel:
		if ed.inCanvas(me.x, me.y) {
			ed.ctrl.Wheel(p, me.wheel)
		}

	case mousePress:
		if ed.inPalette(me.x, me.y) {
			if i := ed.palette.entryAt(me.y - paletteTop); i >= 0 && me.button == input.ButtonPrimary {
				ed.palette.selected = i
				ed.paletteDrag = i
				ed.dragX, ed.dragY = me.x, me.y
				ed.mode = ModePalette
			}
			return
		}
		if !ed.inCanvas(me.x, me.y) || ed.pointerDown {
			return
		}
		ed.snapped = false
		ed.mode = ModeCanvas
		ed.cursorX, ed.cursorY = me.x, me.y
		ed.pointerDown = true
		ed.ctrl.PointerDown(pe)

	case mouseMove:
		if ed.pointerDown || ed.inCanvas(me.x, me.y) {
			ed.ctrl.PointerMove(pe)
		}

	case mouseRelease:
		if ed.pointerDown {
			ed.pointerDown = false
			ed.ctrl.PointerUp(pe)
		}
	}
}

func (ed *Editor) newPlan() {
	ed.inputPrompt = "Plan name (optional): "
	ed.inputBuffer = ""
	ed.inputAction = func(name string) {
		ed.graph.Replace(nil, nil)
		ed.graph.Name = name
		ed.graph.Description = ""
		ed.ctrl.SetViewport(canvas.Viewport{Zoom: ed.config.Zoom})
		ed.ctrl.Selection().Clear()
		ed.history.reset()
		ed.filename = ""
		ed.modified = false
		ed.showMessage("New plan created", MsgSuccess)
		ed.mode = ModeCanvas
	}
	ed.mode = ModeInput
}

func (ed *Editor) openFilePicker() {
	// Start in last used directory
	ed.currentDir = ed.config.LastDir
	if ed.currentDir == "" {
		ed.currentDir, _ = os.Getwd()
	}
	ed.refreshFilePicker()
	ed.filePickerFocus = 1 // Start with files focused
	ed.mode = ModeFilePicker
}

func (ed *Editor) refreshFilePicker() {
	// Get directories
	ed.dirList = []string{".."}
	entries, err := os.ReadDir(ed.currentDir)
	if err == nil {
		for _, e := range entries {
			if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
				ed.dirList = append(ed.dirList, e.Name())
			}
		}
	}
	ed.dirSelected = 0

	// Get plan files
	ed.fileList = nil
	files, _ := filepath.Glob(filepath.Join(ed.currentDir, "*.json"))
	for _, f := range files {
		// Store just filenames, not full paths
		ed.fileList = append(ed.fileList, filepath.Base(f))
	}
	ed.fileSelected = 0
}

func (ed *Editor) save() {
	if ed.filename == "" {
		ed.saveAs()
		return
	}
	if err := ed.saveFile(ed.filename); err != nil {
		ed.showMessage("Error: "+err.Error(), MsgError)
	} else {
		ed.modified = false
		ed.showMessage("Saved: "+ed.filename, MsgSuccess)
	}
}

func (ed *Editor) saveAs() {
	back := ed.mode
	ed.inputPrompt = "Save as: "
	ed.inputBuffer = ed.filename
	ed.inputAction = func(name string) {
		ed.mode = back
		if name == "" {
			ed.showMessage("Cancelled", MsgInfo)
			return
		}
		// Add .json extension if none
		if filepath.Ext(name) == "" {
			name += ".json"
		}
		if err := ed.saveFile(name); err != nil {
			ed.showMessage("Error: "+err.Error(), MsgError)
			return
		}
		ed.filename = name
		ed.modified = false
		ed.showMessage("Saved: "+ed.filename, MsgSuccess)
	}
	ed.mode = ModeInput
}

// arrange lays the plan out with the strategy that suits its structure.
// The move batch goes through applyNodes, so it undoes in one step.
func (ed *Editor) arrange() {
	nodes := ed.graph.Nodes()
	if len(nodes) == 0 {
		ed.showMessage("Canvas is empty - nothing to arrange", MsgInfo)
		return
	}
	pos, alg := layout.Arrange(nodes, ed.graph.Edges(), layout.Smart)
	changes := layout.Changes(nodes, pos)
	if len(changes) == 0 {
		ed.showMessage("Already arranged", MsgInfo)
		return
	}
	ed.applyNodes(changes)
	ed.logger.Debug("arranged", "layout", alg, "moved", len(changes))
	ed.showMessage("Arranged ("+alg.String()+")", MsgSuccess)
}

func (ed *Editor) undo() {
	if !ed.history.undo(ed.graph) {
		ed.showMessage("Nothing to undo", MsgInfo)
		return
	}
	ed.modified = true
	ed.showMessage("Undo", MsgInfo)
}

func (ed *Editor) redo() {
	if !ed.history.redo(ed.graph) {
		ed.showMessage("Nothing to redo", MsgInfo)
		return
	}
	ed.modified = true
	ed.showMessage("Redo", MsgInfo)
}

// exportPath returns where an export in format is written: next to the
// plan file, or in the temp directory for an unsaved plan.
func (ed *Editor) exportPath(format string) string {
	if ed.filename == "" {
		return filepath.Join(os.TempDir(), "plan."+format)
	}
	return strings.TrimSuffix(ed.filename, filepath.Ext(ed.filename)) + "." + format
}

func (ed *Editor) exportView() {
	title := ed.graph.Name
	if title == "" {
		title = "Attack Plan"
	}
	format := ed.config.ExportFormat
	path := ed.exportPath(format)

	f, err := os.Create(path)
	if err != nil {
		ed.showMessage("Error: "+err.Error(), MsgError)
		return
	}
	if err := planfile.Export(ed.graph, format, f, title); err != nil {
		f.Close()
		ed.showMessage("Export failed: "+err.Error(), MsgError)
		return
	}
	if err := f.Close(); err != nil {
		ed.showMessage("Error: "+err.Error(), MsgError)
		return
	}
	ed.logger.Info("exported", "format", format, "path", path)

	// Open with system viewer
	var openCmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		openCmd = exec.Command("open", path)
	case "windows":
		openCmd = exec.Command("cmd", "/c", "start", "", path)
	default:
		openCmd = exec.Command("xdg-open", path)
	}
	if err := openCmd.Start(); err != nil {
		ed.showMessage("Exported "+path, MsgSuccess)
		return
	}
	ed.showMessage("Opened in viewer: "+path, MsgInfo)
}

func (ed *Editor) showMessage(msg string, msgType MessageType) {
	ed.message = msg
	ed.messageType = msgType
	ed.messageFlashStart.Store(time.Now().UnixMilli())
	if msgType == MsgError {
		ed.logger.Warn(msg)
	}
	// Trigger immediate refresh for flash animation
	if ed.screen != nil {
		ed.screen.PostEvent(tcell.NewEventInterrupt(nil))
	}
}

// File operations

func (ed *Editor) loadFile(path string) error {
	doc, err := planfile.ReadFile(path, ed.logger)
	if err != nil {
		return err
	}
	ed.graph.Replace(doc.Nodes, doc.Edges)
	ed.graph.Name = doc.Name
	ed.graph.Description = doc.Description
	vp := doc.Viewport
	if vp.Zoom <= 0 {
		vp = canvas.Viewport{Zoom: ed.config.Zoom}
	}
	ed.ctrl.SetViewport(vp)
	ed.ctrl.Selection().Clear()
	ed.history.reset()
	ed.modified = false
	ed.logger.Info("loaded", "path", path, "nodes", len(doc.Nodes), "edges", len(doc.Edges))
	return nil
}

func (ed *Editor) saveFile(path string) error {
	return planfile.WriteFile(path, planfile.FromGraph(ed.graph, ed.ctrl.Viewport()))
}
