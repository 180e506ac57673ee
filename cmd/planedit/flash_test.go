package main

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
)

// TestFlashPhaseCalculation verifies the phase logic for message flashing
func TestFlashPhaseCalculation(t *testing.T) {
	// Flash pattern: normal(0-125) -> inverted(125-250) -> normal(250-375) -> inverted(375-500) -> normal(500+)
	tests := []struct {
		elapsed      int64
		wantInverted bool
		description  string
	}{
		{-5, false, "clock skew - normal"},
		{0, false, "start of flash - normal"},
		{124, false, "end of phase 0 - normal"},
		{125, true, "start of phase 1 - inverted"},
		{249, true, "end of phase 1 - inverted"},
		{250, false, "start of phase 2 - normal"},
		{374, false, "end of phase 2 - normal"},
		{375, true, "start of phase 3 - inverted"},
		{499, true, "end of phase 3 - inverted"},
		{500, false, "after flash period - normal"},
		{1000, false, "long after flash - normal"},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			if got := shouldBeInverted(tt.elapsed); got != tt.wantInverted {
				t.Errorf("elapsed=%d: got inverted=%v, want %v", tt.elapsed, got, tt.wantInverted)
			}
		})
	}
}

// TestFlashMessageTypes verifies which message types should flash
func TestFlashMessageTypes(t *testing.T) {
	tests := []struct {
		msgType     MessageType
		shouldFlash bool
		description string
	}{
		{MsgInfo, false, "info messages don't flash"},
		{MsgError, true, "error messages flash"},
		{MsgSuccess, true, "success messages flash"},
		{MsgWarning, true, "warning messages flash"},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			if got := shouldFlashForType(tt.msgType); got != tt.shouldFlash {
				t.Errorf("msgType=%v: got shouldFlash=%v, want %v", tt.msgType, got, tt.shouldFlash)
			}
		})
	}
}

// TestShowMessageRestartsFlash checks that each message starts its own
// flash cycle.
func TestShowMessageRestartsFlash(t *testing.T) {
	ed := &Editor{logger: discardLogger()}
	ed.showMessage("first", MsgError)
	first := ed.messageFlashStart.Load()
	if first == 0 {
		t.Fatal("flash start not recorded")
	}

	ed.messageFlashStart.Store(first - 1000)
	ed.showMessage("second", MsgSuccess)
	if got := ed.messageFlashStart.Load(); got < first {
		t.Errorf("second message did not restart flash: %d < %d", got, first)
	}
	if ed.message != "second" || ed.messageType != MsgSuccess {
		t.Errorf("message = %q/%v", ed.message, ed.messageType)
	}
}

// TestFlashTickerStops checks that the refresh goroutine posts while a
// message flashes and returns once done is closed.
func TestFlashTickerStops(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatal(err)
	}
	defer screen.Fini()
	ed := &Editor{logger: discardLogger(), screen: screen}
	ed.showMessage("saved", MsgSuccess)

	done := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		ed.flashTicker(done)
		close(stopped)
	}()

	// Skip the resize the screen may post on startup.
	for {
		ev := screen.PollEvent()
		if ev == nil {
			t.Fatal("screen closed before a refresh arrived")
		}
		if _, ok := ev.(*tcell.EventInterrupt); ok {
			break
		}
	}

	close(done)
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("ticker still running after done was closed")
	}
}
