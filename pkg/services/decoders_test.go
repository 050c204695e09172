package services

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildPDF writes a one-page Helvetica PDF showing text, with a correct xref table.
func buildPDF(t *testing.T, text string) []byte {
	t.Helper()
	stream := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 5 0 R >> >> /Contents 4 0 R >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>",
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

func TestNormalizePDF(t *testing.T) {
	n, dir := newTestNormalizer(t, nil)
	text, err := n.Normalize(context.Background(), ResumeInput{
		File:     bytes.NewReader(buildPDF(t, "Experienced engineer")),
		MimeType: MimePDF,
	})
	require.NoError(t, err)
	assert.Equal(t, "Experienced engineer", strings.TrimSpace(text))
	assert.Empty(t, stagedFiles(t, dir))
}

func TestPDFTextLimit(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	n := NewNormalizer(NewUploadStager(dir, 1<<20, nil), LimitedDecoders(8), nil)

	_, err := n.Normalize(context.Background(), ResumeInput{
		File:     bytes.NewReader(buildPDF(t, "Experienced engineer")),
		MimeType: MimePDF,
	})
	assert.ErrorIs(t, err, ErrTextTooLarge)
	assert.ErrorIs(t, err, ErrDocumentProcessing)
	assert.Empty(t, stagedFiles(t, dir))
}

func TestDOCXExpandingPastTextLimit(t *testing.T) {
	const limit = 64 << 10
	body := strings.Repeat("<w:p><w:r><w:t>"+strings.Repeat("a", 1024)+"</w:t></w:r></w:p>", 1024)
	docx := buildDOCX(t, `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`+body+`</w:body></w:document>`)
	require.Less(t, len(docx), 1<<20, "compressed upload must fit under the upload cap")

	dir := filepath.Join(t.TempDir(), "uploads")
	n := NewNormalizer(NewUploadStager(dir, 1<<20, nil), LimitedDecoders(limit), nil)

	_, err := n.Normalize(context.Background(), ResumeInput{File: bytes.NewReader(docx), MimeType: MimeDOCX})
	assert.ErrorIs(t, err, ErrTextTooLarge)
	assert.ErrorIs(t, err, ErrDocumentProcessing)
	assert.Empty(t, stagedFiles(t, dir))
}

func TestDOCXMarkupLimit(t *testing.T) {
	// no text at all, only markup
	body := strings.Repeat("<w:r/>", 4096)
	doc := `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` + body + `</w:body></w:document>`

	_, err := docxText(strings.NewReader(doc), 16)
	assert.ErrorIs(t, err, ErrTextTooLarge)

	text, err := docxText(strings.NewReader(sampleDocumentXML), 0)
	require.NoError(t, err)
	assert.Equal(t, "Experienced engineer\nGo\tPostgres", text)
}
