// Package extract turns stored submission files into plain text for grading.
// Extraction is best-effort: it never fails the caller, it reports a degraded
// Result whose Text holds whatever could be recovered.
package extract

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"grading_service/internal/domain"
)

var ErrUnsupportedFormat = errors.New("unsupported file format")

// Result carries the extracted text and, when extraction degraded, the reason.
// Text is meaningful even when Err is set.
type Result struct {
	Text string
	Err  error
}

func (r Result) Degraded() bool {
	return r.Err != nil
}

type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

func (e *Extractor) Extract(data []byte, format domain.FileFormat) Result {
	switch format {
	case domain.FormatTXT:
		return plainText(data)
	case domain.FormatPDF:
		return pdfText(data)
	case domain.FormatDOCX:
		return docxText(data)
	default:
		return Result{Err: fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)}
	}
}

// plainText decodes UTF-8, honouring a UTF-8 or UTF-16 byte order mark.
// Undecodable bytes become U+FFFD instead of failing.
func plainText(data []byte) Result {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	out, _, err := transform.Bytes(decoder, data)
	if err != nil {
		return Result{Text: strings.ToValidUTF8(string(data), ""), Err: fmt.Errorf("decode text: %w", err)}
	}
	return Result{Text: string(out)}
}
