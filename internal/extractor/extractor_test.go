package extractor

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/tealeg/xlsx"
	"github.com/xuri/excelize/v2"

	"driveqa/internal/domain"
)

func newTestExtractor() *Extractor { return New(zerolog.Nop()) }

func TestExtractPlainText(t *testing.T) {
	e := newTestExtractor()
	got, err := e.Extract([]byte("\xef\xbb\xbfHello world. Second."), "notes.TXT")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Hello world. Second." {
		t.Errorf("got %q", got)
	}
}

func TestExtractInvalidUTF8IsWarning(t *testing.T) {
	e := newTestExtractor()
	got, err := e.Extract([]byte{0xff, 0xfe, 0xfd}, "bad.txt")
	if !errors.Is(err, domain.ErrExtraction) {
		t.Fatalf("expected ErrExtraction, got %v", err)
	}
	if got != "" {
		t.Errorf("expected empty text on failure, got %q", got)
	}
}

func TestExtractUnsupportedExtension(t *testing.T) {
	e := newTestExtractor()
	for _, name := range []string{"image.png", "archive.zip", "noext"} {
		got, err := e.Extract([]byte("whatever"), name)
		if err != nil || got != "" {
			t.Errorf("Extract(%s) = %q, %v; want empty, nil", name, got, err)
		}
	}
}

func TestExtractCSV(t *testing.T) {
	e := newTestExtractor()
	got, err := e.Extract([]byte("name,team\nAda,core\nLin,infra\n"), "people.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "name\tteam\nAda\tcore\nLin\tinfra"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestExtractMarkdown(t *testing.T) {
	e := newTestExtractor()
	src := "# Release notes\n\nThe *sync* engine was rewritten. It is faster.\n\n```\ncode sample\n```\n"
	got, err := e.Extract([]byte(src), "README.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"Release notes", "The sync engine was rewritten. It is faster.", "code sample"} {
		if !strings.Contains(got, want) {
			t.Errorf("markdown text %q missing %q", got, want)
		}
	}
	if strings.Contains(got, "*") || strings.Contains(got, "#") {
		t.Errorf("markdown syntax leaked into %q", got)
	}
}

func TestExtractDOCX(t *testing.T) {
	doc := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		`<w:p><w:r><w:t>First paragraph</w:t></w:r><w:r><w:t xml:space="preserve"> continues.</w:t></w:r></w:p>` +
		`<w:p></w:p>` +
		`<w:p><w:r><w:t>Fish &amp; chips.</w:t></w:r></w:p>` +
		`</w:body></w:document>`
	data := buildZip(t, map[string]string{
		"[Content_Types].xml":          `<?xml version="1.0"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"/>`,
		"word/document.xml":            doc,
		"word/_rels/document.xml.rels": `<?xml version="1.0"?><Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"/>`,
	})

	got, err := newTestExtractor().Extract(data, "report.docx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "First paragraph continues. Fish & chips." {
		t.Errorf("got %q", got)
	}
}

func TestExtractPPTXOrdersSlides(t *testing.T) {
	data := buildZip(t, map[string]string{
		"ppt/slides/slide10.xml": `<p:sld><a:t>Tenth</a:t></p:sld>`,
		"ppt/slides/slide2.xml":  `<p:sld><a:t>Second</a:t><a:t>slide</a:t></p:sld>`,
		"ppt/slides/slide1.xml":  `<p:sld><a:t>First</a:t></p:sld>`,
		"ppt/slides/_rels/x.xml": `<a:t>ignored</a:t>`,
	})
	got, err := newTestExtractor().Extract(data, "deck.pptx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "First Second slide Tenth" {
		t.Errorf("got %q", got)
	}
}

func TestExtractXLSX(t *testing.T) {
	f := excelize.NewFile()
	if err := f.SetCellValue("Sheet1", "A1", "region"); err != nil {
		t.Fatal(err)
	}
	if err := f.SetCellValue("Sheet1", "B1", "revenue"); err != nil {
		t.Fatal(err)
	}
	if err := f.SetCellValue("Sheet1", "A2", "north"); err != nil {
		t.Fatal(err)
	}
	if err := f.SetCellValue("Sheet1", "B2", 42); err != nil {
		t.Fatal(err)
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}

	got, err := newTestExtractor().Extract(buf.Bytes(), "sales.xlsx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"Sheet: Sheet1", "region\trevenue", "north\t42"} {
		if !strings.Contains(got, want) {
			t.Errorf("xlsx text %q missing %q", got, want)
		}
	}
}

func TestExtractPDFJoinsPages(t *testing.T) {
	data := buildPDF(t, "First page text", "Second page text")
	got, err := newTestExtractor().Extract(data, "handbook.PDF")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if joined := strings.Join(strings.Fields(got), " "); joined != "First page text Second page text" {
		t.Errorf("got %q", got)
	}
}

func TestLegacySpreadsheetText(t *testing.T) {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Budget")
	if err != nil {
		t.Fatal(err)
	}
	for _, cells := range [][]string{{"item", "cost"}, {"desks", "300"}} {
		row := sheet.AddRow()
		for _, v := range cells {
			row.AddCell().Value = v
		}
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatal(err)
	}

	got, err := legacySpreadsheetText(buf.Bytes())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "Sheet: Budget\nitem\tcost\ndesks\t300"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if _, err := legacySpreadsheetText([]byte("not a workbook")); err == nil {
		t.Error("expected error for corrupt workbook")
	}
}

func TestExtractCorruptDocumentsAreWarnings(t *testing.T) {
	e := newTestExtractor()
	for _, name := range []string{"broken.pdf", "broken.docx", "broken.pptx", "broken.xlsx"} {
		got, err := e.Extract([]byte("definitely not a document"), name)
		if !errors.Is(err, domain.ErrExtraction) {
			t.Errorf("Extract(%s) err = %v, want ErrExtraction", name, err)
		}
		if got != "" {
			t.Errorf("Extract(%s) text = %q, want empty", name, got)
		}
	}
}

func buildZip(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// buildPDF writes a minimal PDF with one Helvetica text line per page and a
// correct cross-reference table.
func buildPDF(t *testing.T, pages ...string) []byte {
	t.Helper()
	n := len(pages)
	fontObj := 3 + n
	firstContent := fontObj + 1

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
	}
	kids := make([]string, n)
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 3+i)
	}
	objects = append(objects, fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), n))
	for i := range pages {
		objects = append(objects, fmt.Sprintf(
			"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 %d 0 R >> >> /Contents %d 0 R >>",
			fontObj, firstContent+i))
	}
	objects = append(objects, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>")
	for _, text := range pages {
		stream := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
		objects = append(objects, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream))
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
