// Package extract turns uploaded files and pasted text into RawContent.
package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/abhisek/quizgen/internal/quiz"
)

// MaxFileSize is the largest upload accepted, in bytes.
const MaxFileSize = 10 << 20

// Supported media types.
const (
	MediaTypePDF  = "application/pdf"
	MediaTypeText = "text/plain"
)

var (
	// ErrFileTooLarge is returned for inputs over MaxFileSize.
	ErrFileTooLarge = errors.New("file exceeds the 10 MB limit")

	// ErrUnsupportedType is returned for media types other than PDF and plain text.
	ErrUnsupportedType = errors.New("unsupported file type: only PDF and TXT files are accepted")

	// ErrEmptyContent is returned when a text input is blank.
	ErrEmptyContent = errors.New("content is empty")

	// ErrNoExtractableText is returned when a PDF yields no text, e.g. a
	// scanned image-only document, or cannot be parsed at all.
	ErrNoExtractableText = errors.New("no extractable text found in PDF")
)

// Extract reads r, whose declared length is size, and returns its text.
// Size and type are checked before any parsing happens.
func Extract(ctx context.Context, r io.Reader, size int64, mediaType string) (quiz.RawContent, error) {
	if size > MaxFileSize {
		return quiz.RawContent{}, ErrFileTooLarge
	}

	mt, err := normalizeMediaType(mediaType)
	if err != nil {
		return quiz.RawContent{}, err
	}

	data, err := readLimited(r)
	if err != nil {
		return quiz.RawContent{}, err
	}

	var text string
	switch mt {
	case MediaTypeText:
		text = normalizeText(string(data))
		if strings.TrimSpace(text) == "" {
			return quiz.RawContent{}, ErrEmptyContent
		}
	case MediaTypePDF:
		text, err = extractPDF(ctx, data)
		if err != nil {
			return quiz.RawContent{}, err
		}
	}

	return quiz.RawContent{
		Text:      text,
		Source:    quiz.SourceFileUpload,
		MediaType: mt,
	}, nil
}

// ExtractFile opens path and extracts it, resolving the media type from the
// file extension.
func ExtractFile(ctx context.Context, path string) (quiz.RawContent, error) {
	info, err := os.Stat(path)
	if err != nil {
		return quiz.RawContent{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.Size() > MaxFileSize {
		return quiz.RawContent{}, ErrFileTooLarge
	}

	mediaType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if mediaType == "" {
		return quiz.RawContent{}, ErrUnsupportedType
	}

	f, err := os.Open(path)
	if err != nil {
		return quiz.RawContent{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	return Extract(ctx, f, info.Size(), mediaType)
}

// FromText builds RawContent for pasted text.
func FromText(text string) (quiz.RawContent, error) {
	text = normalizeText(text)
	if strings.TrimSpace(text) == "" {
		return quiz.RawContent{}, ErrEmptyContent
	}
	return quiz.RawContent{Text: text, Source: quiz.SourceManualText}, nil
}

// normalizeMediaType strips parameters and checks the allow-list.
func normalizeMediaType(mediaType string) (string, error) {
	mt, _, err := mime.ParseMediaType(mediaType)
	if err != nil {
		return "", ErrUnsupportedType
	}
	switch mt {
	case MediaTypePDF, MediaTypeText:
		return mt, nil
	default:
		return "", ErrUnsupportedType
	}
}

// readLimited reads at most MaxFileSize bytes, failing if there is more.
func readLimited(r io.Reader) ([]byte, error) {
	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(r, MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	if n > MaxFileSize {
		return nil, ErrFileTooLarge
	}
	return buf.Bytes(), nil
}

// normalizeText replaces invalid UTF-8 sequences and composes to NFC.
func normalizeText(s string) string {
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "�")
	}
	return norm.NFC.String(s)
}
