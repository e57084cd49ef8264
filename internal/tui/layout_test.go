package tui

import (
	"regexp"
	"testing"
)

var ansiEscapeCodes = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func stripStyles(text string) string {
	return ansiEscapeCodes.ReplaceAllString(text, "")
}

func TestPageLayoutUpdate(t *testing.T) {
	cases := []struct {
		name             string
		width            int
		height           int
		contentWidth     int
		transcriptHeight int
	}{
		{name: "narrow", width: 80, height: 24, contentWidth: 76, transcriptHeight: 4},
		{name: "tiny", width: 30, height: 10, contentWidth: 40, transcriptHeight: 3},
		{name: "wide", width: 200, height: 80, contentWidth: 196, transcriptHeight: 10},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			layout := newPageLayout()
			layout.Update(tc.width, tc.height)
			if layout.contentWidth != tc.contentWidth {
				t.Fatalf("content width mismatch: got %d want %d", layout.contentWidth, tc.contentWidth)
			}
			if layout.transcriptHeight != tc.transcriptHeight {
				t.Fatalf("transcript height mismatch: got %d want %d", layout.transcriptHeight, tc.transcriptHeight)
			}
		})
	}
}

func TestViewportHeightHasFloor(t *testing.T) {
	layout := newPageLayout()
	layout.Update(80, 24)
	if got := layout.viewportHeight(10); got != 14 {
		t.Fatalf("viewport height = %d, want 14", got)
	}
	if got := layout.viewportHeight(40); got != minViewportHeight {
		t.Fatalf("viewport height = %d, want floor %d", got, minViewportHeight)
	}
}

func TestProgressBarWidth(t *testing.T) {
	m := newTestModel(t)
	cases := map[float64]int{0: 0, 0.5: 15, 1: 30}
	for ratio, filled := range cases {
		bar := []rune(stripStyles(m.progressBar(ratio)))
		if len(bar) != progressBarWidth {
			t.Fatalf("ratio %.1f: bar width %d", ratio, len(bar))
		}
		count := 0
		for _, r := range bar {
			if r == '█' {
				count++
			}
		}
		if count != filled {
			t.Fatalf("ratio %.1f: filled %d want %d", ratio, count, filled)
		}
	}
}
