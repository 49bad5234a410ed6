package upload

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shafayetkh/qbank/internal/client/api"
	"github.com/shafayetkh/qbank/internal/common"
)

func csvOfRows(n int) string {
	var b strings.Builder
	b.WriteString("title,body,course_code\n")
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, "Q%d,Body %d,ECON101\n", i, i)
	}
	return b.String()
}

func TestPreview_ShowsAtMostFiveRows(t *testing.T) {
	p, err := Preview(strings.NewReader(csvOfRows(10)))
	require.NoError(t, err)
	require.Equal(t, []string{"title", "body", "course_code"}, p.Header)
	require.Len(t, p.Rows, PreviewRows, "preview is bounded regardless of file size")
	require.Equal(t, "Q1", p.Rows[0]["title"])
	require.Equal(t, "Q5", p.Rows[4]["title"])
}

func TestPreview_SmallFile(t *testing.T) {
	p, err := Preview(strings.NewReader(csvOfRows(2)))
	require.NoError(t, err)
	require.Len(t, p.Rows, 2)
}

func TestPreview_EmptyFile(t *testing.T) {
	_, err := Preview(strings.NewReader(""))
	var pe *common.ParseError
	require.ErrorAs(t, err, &pe)
}

func TestPreview_MalformedRowPastTheBoundStillFails(t *testing.T) {
	// Row 8 has a stray quote; the preview only displays 5 rows but the whole
	// file must parse before an import is offered.
	bad := csvOfRows(7) + "Q8,\"broken\nrest,of,file\n"
	_, err := Preview(strings.NewReader(bad))
	var pe *common.ParseError
	require.ErrorAs(t, err, &pe)
	require.Positive(t, pe.Line)
}

func TestTemplate_RoundTrips(t *testing.T) {
	p, err := Preview(strings.NewReader(string(Template())))
	require.NoError(t, err)
	require.Equal(t, templateHeader, p.Header)
	require.Len(t, p.Rows, 1)
	require.Equal(t, "ECON101", p.Rows[0]["course_code"])
	require.Equal(t, "final", p.Rows[0]["exam_type"])
}

type importRecorder struct {
	api.Client
	fileName string
	content  string
	format   string
	exported string
}

func (i *importRecorder) BulkImport(ctx context.Context, name string, csv io.Reader) error {
	i.fileName = name
	b, _ := io.ReadAll(csv)
	i.content = string(b)
	return nil
}

func (i *importRecorder) Export(ctx context.Context, format string, w io.Writer) error {
	i.format = format
	_, err := io.WriteString(w, i.exported)
	return err
}

func TestImport_SendsOriginalBytes(t *testing.T) {
	rec := &importRecorder{}
	content := csvOfRows(3)

	require.NoError(t, Import(context.Background(), rec, "batch.csv", []byte(content)))
	require.Equal(t, "batch.csv", rec.fileName)
	require.Equal(t, content, rec.content, "the original file is sent, not the parsed preview")
}

func TestExport_FormatValidation(t *testing.T) {
	rec := &importRecorder{exported: "title,body\n"}

	var out strings.Builder
	require.NoError(t, Export(context.Background(), rec, "csv", &out))
	require.Equal(t, "csv", rec.format)
	require.Equal(t, "title,body\n", out.String())

	require.Error(t, Export(context.Background(), rec, "xml", &out))
}
