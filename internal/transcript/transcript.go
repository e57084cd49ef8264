// Package transcript loads transcript text from local files.
package transcript

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

const maxFileBytes = 16 << 20

var (
	// ErrUnsupported is returned for file types other than text and PDF.
	ErrUnsupported = errors.New("unsupported transcript file type")
	// ErrEmpty is returned when a file holds no readable text.
	ErrEmpty = errors.New("transcript file is empty")

	extraneousWhitespace = regexp.MustCompile(`[ \t]+`)
	youtubeID            = regexp.MustCompile(`(?:youtube\.com/(?:[^/]+/.+/|(?:v|e(?:mbed)?|shorts|live)/|.*[?&]v=)|youtu\.be/)([^"&?/\s]{11})`)
)

// Document is a loaded transcript.
type Document struct {
	Path  string
	Title string
	Text  string
}

// Load reads a .txt, .md, .srt, .vtt or .pdf file. The title is derived from
// the file name.
func Load(path string) (Document, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Document{}, fmt.Errorf("transcript path is required")
	}
	var (
		text string
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		text, err = readPDF(path)
	case ".txt", ".md", "":
		text, err = readText(path)
	case ".srt", ".vtt":
		if text, err = readText(path); err == nil {
			text = cleanCaptions(text)
		}
	default:
		return Document{}, fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(path))
	}
	if err != nil {
		return Document{}, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return Document{}, fmt.Errorf("%w: %s", ErrEmpty, path)
	}
	return Document{Path: path, Title: titleFromPath(path), Text: text}, nil
}

func readText(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, maxFileBytes))
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("transcript %s is not valid UTF-8", path)
	}
	return strings.ReplaceAll(string(data), "\r\n", "\n"), nil
}

func readPDF(path string) (string, error) {
	file, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}
	defer file.Close()

	content, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to extract pdf text: %w", err)
	}
	var builder strings.Builder
	if _, err := io.Copy(&builder, io.LimitReader(content, maxFileBytes)); err != nil {
		return "", err
	}
	return extraneousWhitespace.ReplaceAllString(builder.String(), " "), nil
}

func titleFromPath(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = strings.NewReplacer("_", " ", "-", " ").Replace(base)
	return strings.Join(strings.Fields(base), " ")
}

// VideoID extracts the 11 character YouTube id from url, or "" when the url
// does not look like a YouTube link. It is informational only.
func VideoID(url string) string {
	if matches := youtubeID.FindStringSubmatch(strings.TrimSpace(url)); len(matches) > 1 {
		return matches[1]
	}
	return ""
}
