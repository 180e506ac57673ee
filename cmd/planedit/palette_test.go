package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ha1tch/attackplan/pkg/plan"
)

const smallCatalog = `phases:
  - id: TA0001
    name: Initial Access
    icon: target
    order: 3
techniques:
  - id: phishing
    mitre_id: T1566
    title: Phishing
    phase: Initial Access
  - id: valid-accounts
    mitre_id: T1078
    title: Valid Accounts
    phase: Initial Access
`

func writeCatalog(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestPaletteRows(t *testing.T) {
	p, err := newPalette(writeCatalog(t, t.TempDir(), smallCatalog))
	require.NoError(t, err)
	require.Len(t, p.entries, 3)

	rows := p.rows()
	require.Len(t, rows, 5)
	assert.Equal(t, "Phases", rows[0].heading)
	assert.Equal(t, 0, rows[1].entry)
	assert.Equal(t, "Techniques", rows[2].heading)
	assert.Equal(t, -1, rows[2].entry)
	assert.Equal(t, 2, rows[4].entry)

	assert.Equal(t, -1, p.entryAt(0), "heading")
	assert.Equal(t, 1, p.entryAt(3))
	assert.Equal(t, -1, p.entryAt(9))
}

func TestPaletteMoveAndFollow(t *testing.T) {
	p, err := newPalette(writeCatalog(t, t.TempDir(), smallCatalog))
	require.NoError(t, err)

	p.move(-1)
	assert.Equal(t, 0, p.selected)
	p.move(10)
	assert.Equal(t, 2, p.selected)

	p.follow(2)
	assert.Equal(t, 3, p.scroll, "row 4 visible in a two-line window")
	p.move(-10)
	p.follow(2)
	assert.Equal(t, 1, p.scroll)
}

func TestPalettePayload(t *testing.T) {
	p, err := newPalette("")
	require.NoError(t, err)
	require.NotEmpty(t, p.entries)

	data, err := p.payload(0)
	require.NoError(t, err)
	d, err := plan.DecodeDescriptor(data)
	require.NoError(t, err)
	assert.Equal(t, plan.KindPhase, d.Kind)
}

func TestPaletteSetClampsSelection(t *testing.T) {
	dir := t.TempDir()
	p, err := newPalette(writeCatalog(t, dir, smallCatalog))
	require.NoError(t, err)
	p.selected = 2

	c, err := loadCatalog(writeCatalog(t, dir, "phases:\n  - id: TA0001\n    name: Initial Access\n"))
	require.NoError(t, err)
	p.set(c)
	assert.Equal(t, 0, p.selected)
}

func TestNewPaletteBadFile(t *testing.T) {
	_, err := newPalette(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestPaletteWatchReloads(t *testing.T) {
	dir := t.TempDir()
	path := writeCatalog(t, dir, smallCatalog)
	p, err := newPalette(path)
	require.NoError(t, err)

	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	defer screen.Fini()

	if err := p.watch(screen, discardLogger()); err != nil {
		t.Skipf("file watching unavailable: %v", err)
	}
	defer p.close()

	// Save by rename so the watcher never sees a half-written file.
	tmp := filepath.Join(dir, "catalog.tmp")
	body := smallCatalog + "  - id: exfil\n    title: Exfiltration\n    phase: Exfiltration\n"
	require.NoError(t, os.WriteFile(tmp, []byte(body), 0644))
	require.NoError(t, os.Rename(tmp, path))

	events := make(chan tcell.Event)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	timeout := time.After(5 * time.Second)
	for {
		select {
		case ev := <-events:
			intr, ok := ev.(*tcell.EventInterrupt)
			if !ok {
				continue
			}
			r, ok := intr.Data().(paletteReload)
			if !ok {
				continue
			}
			require.NoError(t, r.err)
			assert.Len(t, r.catalog.Techniques, 3)
			return
		case <-timeout:
			t.Fatal("no reload event")
		}
	}
}
