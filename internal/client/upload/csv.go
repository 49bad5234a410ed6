package upload

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/shafayetkh/qbank/internal/client/api"
	"github.com/shafayetkh/qbank/internal/common"
)

// PreviewRows is how many records the client shows before an import.
const PreviewRows = 5

// templateHeader is the column set the bulk-import endpoint expects.
var templateHeader = []string{
	"title", "body", "course_code", "year", "exam_type", "question_type", "difficulty", "tags",
}

// CSVPreview is the bounded, header-keyed preview of an import file.
type CSVPreview struct {
	Header []string
	Rows   []map[string]string
}

// Preview parses the whole file client-side and returns at most PreviewRows
// header-keyed records. Malformed input is a *common.ParseError carrying the
// offending line when known. The original bytes are what gets imported; the
// preview is display-only.
func Preview(r io.Reader) (*CSVPreview, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &common.ParseError{Err: errors.New("empty file")}
		}
		return nil, asParseError(err)
	}

	preview := &CSVPreview{Header: header}
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, asParseError(err)
		}
		if len(preview.Rows) < PreviewRows {
			row := make(map[string]string, len(header))
			for i, col := range header {
				if i < len(record) {
					row[col] = record[i]
				}
			}
			preview.Rows = append(preview.Rows, row)
		}
		// Keep reading past the preview bound: a parse error anywhere in the
		// file must surface before the import is offered.
	}
	return preview, nil
}

func asParseError(err error) error {
	var ce *csv.ParseError
	if errors.As(err, &ce) {
		return &common.ParseError{Line: ce.Line, Err: err}
	}
	return &common.ParseError{Err: err}
}

// Template renders a one-row sample CSV the user can download and fill in.
func Template() []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write(templateHeader)
	_ = w.Write([]string{
		"Sample Question Title",
		"This is a sample question body text.",
		"ECON101",
		"2023",
		"final",
		"short",
		"medium",
		"macroeconomics,supply-demand",
	})
	w.Flush()
	return buf.Bytes()
}

// Import sends the original file bytes as a single multipart request to the
// bulk-import endpoint. Parse errors (from Preview) and submission errors
// are reported independently by the caller.
func Import(ctx context.Context, client api.Client, fileName string, content []byte) error {
	return client.BulkImport(ctx, fileName, bytes.NewReader(content))
}

// Export streams the question bank in the given format ("csv" or "json")
// into w.
func Export(ctx context.Context, client api.Client, format string, w io.Writer) error {
	if format != "csv" && format != "json" {
		return fmt.Errorf("unsupported export format %q", format)
	}
	return client.Export(ctx, format, w)
}
