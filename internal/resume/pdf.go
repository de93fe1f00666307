package resume

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// ErrUnreadableDocument is returned when resume bytes cannot be decoded at all.
var ErrUnreadableDocument = errors.New("unreadable resume document")

// Decoder turns an uploaded resume into plain text.
type Decoder interface {
	Decode(data []byte) (string, error)
}

// PDFDecoder extracts the text of every page in order. Plain-text uploads
// are passed through unchanged.
type PDFDecoder struct{}

// Decode returns the concatenated page text. A page whose text cannot be
// extracted contributes an empty string rather than failing the document.
func (PDFDecoder) Decode(data []byte) (text string, err error) {
	if !IsPDF(data) {
		if utf8.Valid(data) {
			return string(data), nil
		}
		return "", fmt.Errorf("%w: neither PDF nor UTF-8 text", ErrUnreadableDocument)
	}

	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("%w: %v", ErrUnreadableDocument, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnreadableDocument, err)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		sb.WriteString(pageText(reader.Page(i)))
	}
	return sb.String(), nil
}

func pageText(page pdf.Page) (text string) {
	defer func() {
		if recover() != nil {
			text = ""
		}
	}()

	if page.V.IsNull() {
		return ""
	}
	text, err := page.GetPlainText(nil)
	if err != nil {
		return ""
	}
	return text
}

// IsPDF reports whether data starts with the PDF magic number.
func IsPDF(data []byte) bool {
	return bytes.HasPrefix(bytes.TrimLeft(data, " \t\r\n"), []byte("%PDF-"))
}

// DecodeFile reads a resume from disk and decodes it with d.
func DecodeFile(d Decoder, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("resume file not found: %w", err)
		}
		return "", fmt.Errorf("failed to read resume file: %w", err)
	}
	return d.Decode(data)
}
