// Package extract converts uploaded project documentation into plain text and splits it
// into chunks sized for the language model's input budget.
package extract

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/miljoverk/samsvar/internal/errors"
	"github.com/miljoverk/samsvar/internal/models"
	"github.com/miljoverk/samsvar/internal/ocr"
	"github.com/xuri/excelize/v2"
)

var (
	// ErrUnsupportedFormat signals a file extension outside the recognized set. The batch
	// skips the file and continues.
	ErrUnsupportedFormat = errors.NewSentinel("unsupported file format")
	// ErrExtraction signals that the extractor failed on a supported format. Like an
	// unsupported format, it is local to the file, not fatal to the batch.
	ErrExtraction = errors.NewSentinel("text extraction failed")
)

// Text returns the full plain-text content of the file at path. Images go through the
// given OCR reader; everything else is parsed locally.
func Text(ctx context.Context, path string, reader ocr.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".docx":
		return docxText(path)
	case ".pptx":
		return pptxText(path)
	case ".xlsx":
		return xlsxText(path)
	case ".pdf":
		return pdfText(path)
	case ".jpg", ".png":
		return imageText(ctx, path, reader)
	default:
		return "", errors.Wrap(ErrUnsupportedFormat, "dispatch extractor", slog.String("extension", ext))
	}
}

// Document extracts and chunks one file.
func Document(ctx context.Context, path string, reader ocr.Reader, chunkSize int) (models.ExtractedDocument, error) {
	text, err := Text(ctx, path, reader)
	if err != nil {
		return models.ExtractedDocument{}, err
	}
	var chunks []string
	for chunk := range Chunk(text, chunkSize) {
		chunks = append(chunks, chunk)
	}
	return models.ExtractedDocument{
		FileName: filepath.Base(path),
		Chunks:   chunks,
	}, nil
}

// docxText gathers the <w:t> runs of word/document.xml, one line per paragraph.
func docxText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrExtraction, err)
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrExtraction, err)
	}
	document := findZipFile(zr, "word/document.xml")
	if document == nil {
		return "", fmt.Errorf("%w: no word/document.xml in archive", ErrExtraction)
	}
	content, err := readZipFile(document)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrExtraction, err)
	}

	var (
		lines     []string
		paragraph strings.Builder
	)
	decoder := xml.NewDecoder(bytes.NewReader(content))
	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}
		switch element := token.(type) {
		case xml.StartElement:
			if element.Name.Local == "t" {
				var run string
				_ = decoder.DecodeElement(&run, &element)
				paragraph.WriteString(run)
			}
		case xml.EndElement:
			if element.Name.Local == "p" {
				lines = append(lines, paragraph.String())
				paragraph.Reset()
			}
		}
	}
	if paragraph.Len() > 0 {
		lines = append(lines, paragraph.String())
	}
	return strings.Join(lines, "\n"), nil
}

var slideNumberPattern = regexp.MustCompile(`slide(\d+)\.xml$`)

// pptxText gathers the <a:t> runs of every slide, preserving slide order.
func pptxText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrExtraction, err)
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrExtraction, err)
	}

	var slides []*zip.File
	for _, file := range zr.File {
		if strings.HasPrefix(file.Name, "ppt/slides/") && slideNumberPattern.MatchString(file.Name) {
			slides = append(slides, file)
		}
	}
	sort.Slice(slides, func(i, j int) bool {
		return slideNumber(slides[i].Name) < slideNumber(slides[j].Name)
	})

	var texts []string
	for _, slide := range slides {
		content, err := readZipFile(slide)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrExtraction, err)
		}
		decoder := xml.NewDecoder(bytes.NewReader(content))
		for {
			token, err := decoder.Token()
			if err != nil {
				break
			}
			element, ok := token.(xml.StartElement)
			if !ok || element.Name.Local != "t" {
				continue
			}
			var run string
			_ = decoder.DecodeElement(&run, &element)
			if run != "" {
				texts = append(texts, run)
			}
		}
	}
	return strings.Join(texts, "\n"), nil
}

func slideNumber(name string) int {
	matches := slideNumberPattern.FindStringSubmatch(name)
	if len(matches) != 2 {
		return 0
	}
	number, _ := strconv.Atoi(matches[1])
	return number
}

// xlsxText concatenates cell values row-wise, space-separated, rows newline-separated,
// skipping empty cells.
func xlsxText(path string) (string, error) {
	workbook, err := excelize.OpenFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrExtraction, err)
	}
	defer func() {
		_ = workbook.Close()
	}()

	var lines []string
	for _, sheet := range workbook.GetSheetList() {
		rows, err := workbook.GetRows(sheet)
		if err != nil {
			return "", fmt.Errorf("%w: %w", ErrExtraction, err)
		}
		for _, row := range rows {
			var cells []string
			for _, cell := range row {
				if cell != "" {
					cells = append(cells, cell)
				}
			}
			lines = append(lines, strings.Join(cells, " "))
		}
	}
	return strings.Join(lines, "\n"), nil
}

// pdfText concatenates page texts in order. A page that yields no extractable text
// contributes an empty string instead of failing the file.
func pdfText(path string) (string, error) {
	file, reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrExtraction, err)
	}
	defer func() {
		_ = file.Close()
	}()

	var text strings.Builder
	for pageNumber := 1; pageNumber <= reader.NumPage(); pageNumber++ {
		page := reader.Page(pageNumber)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		text.WriteString(pageText)
	}
	return text.String(), nil
}

func imageText(ctx context.Context, path string, reader ocr.Reader) (string, error) {
	if reader == nil {
		return "", fmt.Errorf("%w: no OCR reader configured", ErrExtraction)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrExtraction, err)
	}
	text, err := reader.Text(ctx, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrExtraction, err)
	}
	return text, nil
}

func findZipFile(zr *zip.Reader, name string) *zip.File {
	for _, file := range zr.File {
		if file.Name == name {
			return file
		}
	}
	return nil
}

func readZipFile(file *zip.File) ([]byte, error) {
	rc, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = rc.Close()
	}()
	content, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}
	return content, nil
}
