package extract

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

func pdfText(data []byte) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			res = Result{Err: fmt.Errorf("pdf reader panic: %v", r)}
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Result{Err: fmt.Errorf("open pdf: %w", err)}
	}

	pages := make([]string, 0, reader.NumPage())
	var errs []error
	for i := 1; i <= reader.NumPage(); i++ {
		text, err := pageText(reader, i)
		if err != nil {
			errs = append(errs, fmt.Errorf("page %d: %w", i, err))
		}
		pages = append(pages, text)
	}

	return Result{Text: strings.Join(pages, "\n"), Err: errors.Join(errs...)}
}

// pageText returns "" for a page without extractable text. A broken page must
// not take the rest of the document down, so panics are contained per page.
func pageText(reader *pdf.Reader, n int) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("panic: %v", r)
		}
	}()

	page := reader.Page(n)
	if page.V.IsNull() {
		return "", nil
	}
	return page.GetPlainText(nil)
}
