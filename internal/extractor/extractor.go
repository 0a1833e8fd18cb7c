package extractor

import (
	"archive/zip"
	"bytes"
	"encoding/csv"
	"fmt"
	"html"
	"io"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"github.com/rs/zerolog"
	"github.com/tealeg/xlsx"
	"github.com/xuri/excelize/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"driveqa/internal/domain"
)

// Extractor dispatches on the file extension. Unsupported extensions yield empty text.
type Extractor struct {
	log zerolog.Logger
}

func New(log zerolog.Logger) *Extractor {
	return &Extractor{log: log}
}

// Extract converts data into plain text. A parse failure returns empty text and an
// error wrapping domain.ErrExtraction; callers treat it as a warning.
func (e *Extractor) Extract(data []byte, fileName string) (out string, err error) {
	// some parsers panic on malformed input
	defer func() {
		if r := recover(); r != nil {
			e.log.Warn().Str("file", fileName).Interface("panic", r).Msg("parser panicked")
			out, err = "", fmt.Errorf("%w: %s: %v", domain.ErrExtraction, fileName, r)
		}
	}()

	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".txt":
		out, err = decodeText(data)
	case ".md", ".markdown":
		out, err = markdownText(data)
	case ".docx":
		out, err = docxText(data)
	case ".pptx":
		out, err = pptxText(data)
	case ".pdf":
		out, err = pdfText(data)
	case ".csv":
		out, err = csvText(data)
	case ".xlsx", ".xlsm":
		out, err = spreadsheetText(data)
	default:
		e.log.Debug().Str("file", fileName).Msg("unsupported extension, no content")
		return "", nil
	}
	if err != nil {
		e.log.Warn().Err(err).Str("file", fileName).Msg("could not extract document text")
		return "", fmt.Errorf("%w: %s: %v", domain.ErrExtraction, fileName, err)
	}
	return out, nil
}

func decodeText(data []byte) (string, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if !utf8.Valid(data) {
		return "", fmt.Errorf("not valid utf-8")
	}
	return string(data), nil
}

func markdownText(data []byte) (string, error) {
	src, err := decodeText(data)
	if err != nil {
		return "", err
	}
	source := []byte(src)
	doc := goldmark.New().Parser().Parse(text.NewReader(source))
	var b strings.Builder
	err = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			if n.Type() == ast.TypeBlock && b.Len() > 0 {
				b.WriteString("\n")
			}
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Text:
			b.Write(node.Segment.Value(source))
			if node.SoftLineBreak() || node.HardLineBreak() {
				b.WriteString(" ")
			}
		case *ast.String:
			b.Write(node.Value)
		case *ast.CodeBlock, *ast.FencedCodeBlock:
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				seg := lines.At(i)
				b.Write(seg.Value(source))
			}
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(b.String()), nil
}

var (
	wordParagraphEnd = regexp.MustCompile(`</w:p>`)
	wordTextRun      = regexp.MustCompile(`(?s)<w:t(?:\s[^>]*)?>(.*?)</w:t>`)
	slideTextRun     = regexp.MustCompile(`(?s)<a:t>(.*?)</a:t>`)
	slideNumber      = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)
)

// docxText joins the document paragraphs with a single space.
func docxText(data []byte) (string, error) {
	r, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	defer r.Close()

	content := r.Editable().GetContent()
	var paragraphs []string
	for _, para := range wordParagraphEnd.Split(content, -1) {
		var p strings.Builder
		for _, m := range wordTextRun.FindAllStringSubmatch(para, -1) {
			p.WriteString(html.UnescapeString(m[1]))
		}
		if s := strings.TrimSpace(p.String()); s != "" {
			paragraphs = append(paragraphs, s)
		}
	}
	return strings.Join(paragraphs, " "), nil
}

func pptxText(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	type slide struct {
		num  int
		text string
	}
	var slides []slide
	for _, f := range zr.File {
		m := slideNumber.FindStringSubmatch(f.Name)
		if m == nil {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", err
		}
		raw, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return "", err
		}
		var parts []string
		for _, run := range slideTextRun.FindAllStringSubmatch(string(raw), -1) {
			parts = append(parts, html.UnescapeString(run[1]))
		}
		num, _ := strconv.Atoi(m[1])
		slides = append(slides, slide{num: num, text: strings.Join(parts, " ")})
	}
	sort.Slice(slides, func(i, j int) bool { return slides[i].num < slides[j].num })
	texts := make([]string, 0, len(slides))
	for _, s := range slides {
		if strings.TrimSpace(s.text) != "" {
			texts = append(texts, s.text)
		}
	}
	return strings.Join(texts, " "), nil
}

// pdfText joins the plain text of every page with a single space.
func pdfText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	var pages []string
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i, err)
		}
		pages = append(pages, pageText)
	}
	return strings.Join(pages, " "), nil
}

func csvText(data []byte) (string, error) {
	src, err := decodeText(data)
	if err != nil {
		return "", err
	}
	r := csv.NewReader(strings.NewReader(src))
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return "", err
	}
	return renderRows(rows), nil
}

// spreadsheetText renders every sheet as tab separated rows. Workbooks excelize
// rejects are retried with the tealeg reader.
func spreadsheetText(data []byte) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		out, legacyErr := legacySpreadsheetText(data)
		if legacyErr != nil {
			return "", err
		}
		return out, nil
	}
	defer f.Close()

	var b strings.Builder
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return "", fmt.Errorf("sheet %s: %w", name, err)
		}
		writeSheet(&b, name, rows)
	}
	return strings.TrimSpace(b.String()), nil
}

func legacySpreadsheetText(data []byte) (string, error) {
	f, err := xlsx.OpenBinary(data)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, sheet := range f.Sheets {
		rows := make([][]string, 0, len(sheet.Rows))
		for _, row := range sheet.Rows {
			cells := make([]string, 0, len(row.Cells))
			for _, cell := range row.Cells {
				cells = append(cells, cell.String())
			}
			rows = append(rows, cells)
		}
		writeSheet(&b, sheet.Name, rows)
	}
	return strings.TrimSpace(b.String()), nil
}

func writeSheet(b *strings.Builder, name string, rows [][]string) {
	if len(rows) == 0 {
		return
	}
	fmt.Fprintf(b, "Sheet: %s\n", name)
	b.WriteString(renderRows(rows))
	b.WriteString("\n")
}

func renderRows(rows [][]string) string {
	var b strings.Builder
	for _, row := range rows {
		b.WriteString(strings.Join(row, "\t"))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
