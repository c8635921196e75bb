package document

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ExtractText returns the plain text of every page of the PDF at path, in
// page order. The first page that cannot be read aborts the extraction.
func ExtractText(path string) (text string, err error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer f.Close()

	// pdf 库遇到损坏的对象会直接 panic
	page := 0
	defer func() {
		if p := recover(); p != nil {
			text, err = "", fmt.Errorf("read pdf %s page %d: %v", path, page, p)
		}
	}()

	var sb strings.Builder
	for page = 1; page <= r.NumPage(); page++ {
		p := r.Page(page)
		if p.V.IsNull() {
			continue
		}
		content, err := p.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("read pdf %s page %d: %w", path, page, err)
		}
		sb.WriteString(content)
	}
	return sb.String(), nil
}
