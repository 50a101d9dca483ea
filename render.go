package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/mrdg/polysynth/audio"
)

const meterWidth = 20

// renderStatus prints one row per voice: gate, note and amplitude envelope level.
func renderStatus(voices []audio.VoiceStatus, w io.Writer) {
	for i, v := range voices {
		gate := colorize("○", colorBlack)
		if v.Gated {
			gate = colorize("●", colorGreen)
		} else if v.Active {
			gate = colorize("◐", colorYellow)
		}
		note := "   "
		if v.Active || v.Gated {
			note = noteName(v.Note)
		}
		fmt.Fprintf(w, "%s %s %s %s\n", colorize(fmt.Sprintf("%2d", i+1), colorMagenta), gate,
			colorize(note, colorBlue), meter(v.Level))
	}
}

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// noteName formats a MIDI note like C4 for 60.
func noteName(n int) string {
	if n < 0 || n > 127 {
		return "---"
	}
	return fmt.Sprintf("%-3s", fmt.Sprintf("%s%d", noteNames[n%12], n/12-1))
}

func meter(level float32) string {
	n := int(level*meterWidth + 0.5)
	n = max(0, min(n, meterWidth))
	return strings.Repeat("█", n) + strings.Repeat("·", meterWidth-n)
}

const (
	colorBlack = iota + 30
	colorRed
	colorGreen
	colorYellow
	colorBlue
	colorMagenta
)

func colorize(text string, color int) string {
	return fmt.Sprintf("\033[%dm%s\033[0m", color, text)
}
