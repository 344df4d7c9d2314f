package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	docxBody = "word/document.xml"
	wordNS   = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
)

func docxText(data []byte) Result {
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Result{Err: fmt.Errorf("open docx: %w", err)}
	}

	body, err := archive.Open(docxBody)
	if err != nil {
		return Result{Err: fmt.Errorf("open %s: %w", docxBody, err)}
	}
	defer func() { _ = body.Close() }()

	paragraphs, err := paragraphs(body)
	return Result{Text: strings.Join(paragraphs, "\n"), Err: err}
}

// paragraphs walks the document body and returns the text of every w:p in
// document order, including paragraphs inside tables. Paragraphs nested in
// another paragraph (text boxes) are emitted on their own. On a malformed
// document the paragraphs read so far are returned alongside the error.
func paragraphs(r io.Reader) ([]string, error) {
	decoder := xml.NewDecoder(r)

	var (
		out   []string
		stack []*strings.Builder
	)
	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, fmt.Errorf("parse %s: %w", docxBody, err)
		}

		switch el := tok.(type) {
		case xml.StartElement:
			if el.Name.Space != wordNS {
				continue
			}
			switch el.Name.Local {
			case "p":
				stack = append(stack, &strings.Builder{})
			case "tab":
				if len(stack) > 0 {
					stack[len(stack)-1].WriteByte('\t')
				}
			case "br", "cr":
				if len(stack) > 0 {
					stack[len(stack)-1].WriteByte('\n')
				}
			case "t":
				var text string
				if err := decoder.DecodeElement(&text, &el); err != nil {
					return out, fmt.Errorf("parse %s: %w", docxBody, err)
				}
				if len(stack) > 0 {
					stack[len(stack)-1].WriteString(text)
				}
			}
		case xml.EndElement:
			if el.Name.Space == wordNS && el.Name.Local == "p" && len(stack) > 0 {
				out = append(out, stack[len(stack)-1].String())
				stack = stack[:len(stack)-1]
			}
		}
	}
}
