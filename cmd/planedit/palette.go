package main

import (
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/gdamore/tcell/v2"

	"github.com/ha1tch/attackplan/pkg/plan"
	"github.com/ha1tch/attackplan/pkg/planfile"
)

// palette is the sidebar listing catalog entries that can be dragged onto
// the canvas.
type palette struct {
	path     string // catalog file, empty for the built-in catalog
	entries  []planfile.Entry
	selected int
	scroll   int
	watcher  *fsnotify.Watcher
}

// paletteRow is one line of the sidebar: a kind heading or an entry.
type paletteRow struct {
	heading string
	entry   int // index into entries, -1 for headings
}

// paletteReload is posted into the event loop when the catalog file
// changes on disk.
type paletteReload struct {
	catalog *planfile.Catalog
	err     error
}

func loadCatalog(path string) (*planfile.Catalog, error) {
	if path == "" {
		return planfile.DefaultCatalog(), nil
	}
	return planfile.LoadCatalog(path)
}

func newPalette(path string) (*palette, error) {
	c, err := loadCatalog(path)
	if err != nil {
		return nil, err
	}
	p := &palette{path: path}
	p.set(c)
	return p, nil
}

// set replaces the entries, keeping the selection in range.
func (p *palette) set(c *planfile.Catalog) {
	p.entries = c.Entries()
	if p.selected >= len(p.entries) {
		p.selected = len(p.entries) - 1
	}
	if p.selected < 0 {
		p.selected = 0
	}
}

func (p *palette) rows() []paletteRow {
	var out []paletteRow
	var kind plan.Kind
	for i, e := range p.entries {
		if e.Descriptor.Kind != kind {
			kind = e.Descriptor.Kind
			heading := "Phases"
			if kind == plan.KindTechnique {
				heading = "Techniques"
			}
			out = append(out, paletteRow{heading: heading, entry: -1})
		}
		out = append(out, paletteRow{entry: i})
	}
	return out
}

// entryAt returns the entry shown on sidebar line y, or -1.
func (p *palette) entryAt(y int) int {
	rows := p.rows()
	i := y + p.scroll
	if i < 0 || i >= len(rows) {
		return -1
	}
	return rows[i].entry
}

func (p *palette) move(delta int) {
	p.selected += delta
	if p.selected < 0 {
		p.selected = 0
	}
	if p.selected >= len(p.entries) {
		p.selected = len(p.entries) - 1
	}
}

// follow scrolls so that the selected entry is visible in height lines.
func (p *palette) follow(height int) {
	row := 0
	for i, r := range p.rows() {
		if r.entry == p.selected {
			row = i
		}
	}
	if row < p.scroll {
		p.scroll = row
	}
	if height > 0 && row >= p.scroll+height {
		p.scroll = row - height + 1
	}
}

// payload encodes the drag payload of entry i.
func (p *palette) payload(i int) ([]byte, error) {
	return plan.EncodeDescriptor(p.entries[i].Descriptor)
}

// watch reloads a custom catalog whenever its file is written. The
// directory is watched rather than the file so that editors which save
// by rename are noticed.
func (p *palette) watch(screen tcell.Screen, logger *slog.Logger) error {
	if p.path == "" {
		return nil
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	target := filepath.Clean(p.path)
	if err := w.Add(filepath.Dir(target)); err != nil {
		w.Close()
		return err
	}
	p.watcher = w

	go func() {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
					continue
				}
				c, err := planfile.LoadCatalog(target)
				logger.Debug("palette changed", "path", target, "err", err)
				screen.PostEvent(tcell.NewEventInterrupt(paletteReload{catalog: c, err: err}))
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Warn("palette watcher", "err", err)
			}
		}
	}()
	return nil
}

func (p *palette) close() {
	if p.watcher != nil {
		p.watcher.Close()
		p.watcher = nil
	}
}
