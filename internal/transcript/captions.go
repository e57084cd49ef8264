package transcript

import (
	"regexp"
	"strings"
)

var (
	cueTiming   = regexp.MustCompile(`^\d{1,2}:\d{2}(:\d{2})?[.,]\d{3}\s+-->\s+\d{1,2}:\d{2}(:\d{2})?[.,]\d{3}`)
	cueIndex    = regexp.MustCompile(`^\d+$`)
	inlineTags  = regexp.MustCompile(`<[^>]+>`)
	collapseWSP = regexp.MustCompile(`\s+`)
)

// cleanCaptions turns an .srt or .vtt caption file into running text. Cue
// numbers, timings, headers and styling tags are dropped, and a caption line
// that repeats the previous one is kept once, which is how rolling
// auto-generated captions are written.
func cleanCaptions(raw string) string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.ReplaceAll(raw, "\r", "\n")

	var (
		words    []string
		previous string
		skipping bool
	)
	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			skipping = false
			continue
		case skipping:
			continue
		case strings.HasPrefix(trimmed, "WEBVTT"),
			strings.HasPrefix(trimmed, "NOTE"),
			strings.HasPrefix(trimmed, "STYLE"),
			strings.HasPrefix(trimmed, "REGION"):
			skipping = true
			continue
		case cueIndex.MatchString(trimmed), cueTiming.MatchString(trimmed):
			continue
		}
		text := canonicalLine(inlineTags.ReplaceAllString(trimmed, ""))
		if text == "" || text == previous {
			continue
		}
		previous = text
		words = append(words, text)
	}
	return strings.Join(words, " ")
}

func canonicalLine(text string) string {
	return collapseWSP.ReplaceAllString(strings.TrimSpace(text), " ")
}
