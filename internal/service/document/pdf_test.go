package document

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractText_Errors(t *testing.T) {
	dir := t.TempDir()
	notPDF := filepath.Join(dir, "notes.pdf")
	require.NoError(t, os.WriteFile(notPDF, []byte("just some notes"), 0o600))

	testCases := []struct {
		name string
		path string
	}{
		{name: "missing", path: filepath.Join(dir, "missing.pdf")},
		{name: "not a pdf", path: notPDF},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			text, err := ExtractText(tc.path)
			assert.Error(t, err)
			assert.Empty(t, text)
			assert.Contains(t, err.Error(), tc.path)
		})
	}
}

// writeTwoPagePDF writes an uncompressed two-page PDF. The page objects are
// laid out in reverse in the file so page order can only come from /Kids.
func writeTwoPagePDF(t *testing.T, path, first, second string) {
	t.Helper()
	content := func(text string) string {
		return fmt.Sprintf("BT /F1 12 Tf 72 712 Td (%s) Tj ET", text)
	}
	page := func(contents int) string {
		return fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] "+
			"/Resources << /Font << /F1 7 0 R >> >> /Contents %d 0 R >>", contents)
	}
	stream := func(body string) string {
		return fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(body), body)
	}
	objects := map[int]string{
		1: "<< /Type /Catalog /Pages 2 0 R >>",
		2: "<< /Type /Pages /Kids [3 0 R 4 0 R] /Count 2 >>",
		3: page(5),
		4: page(6),
		5: stream(content(first)),
		6: stream(content(second)),
		7: "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make(map[int]int, len(objects))
	for _, num := range []int{1, 2, 4, 3, 6, 5, 7} {
		offsets[num] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", num, objects[num])
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for num := 1; num <= len(objects); num++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[num])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
}

func TestExtractText_PageOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "unit_guide.pdf")
	writeTwoPagePDF(t, path, "Lesson one: algorithms", "Lesson two: variables")

	text, err := ExtractText(path)
	require.NoError(t, err)

	first := strings.Index(text, "Lesson one: algorithms")
	second := strings.Index(text, "Lesson two: variables")
	require.GreaterOrEqual(t, first, 0, "page 1 text missing from %q", text)
	require.GreaterOrEqual(t, second, 0, "page 2 text missing from %q", text)
	assert.Less(t, first, second)
}
