package reader

import (
	"archive/zip"
	"fmt"
	"strings"

	"github.com/antchfx/xmlquery"
)

// readDocx extracts the paragraph text of a Word document. A .docx file is
// a zip archive; the body lives in word/document.xml as w:p paragraph
// elements whose runs carry w:t text nodes.
func readDocx(path string) (string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("failed to open docx archive: %w", err)
	}
	defer zr.Close()

	var body *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			body = f
			break
		}
	}
	if body == nil {
		return "", fmt.Errorf("docx has no word/document.xml")
	}

	rc, err := body.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open document body: %w", err)
	}
	defer rc.Close()

	doc, err := xmlquery.Parse(rc)
	if err != nil {
		return "", fmt.Errorf("failed to parse document body: %w", err)
	}

	var paragraphs []string
	for _, p := range xmlquery.Find(doc, "//w:p") {
		text := docxParagraphText(p)
		if strings.TrimSpace(text) != "" {
			paragraphs = append(paragraphs, strings.TrimSpace(text))
		}
	}

	return strings.Join(paragraphs, "\n\n"), nil
}

// docxParagraphText joins the text runs of one w:p element. Explicit line
// breaks (w:br) and tabs (w:tab) become a space so words do not run
// together.
func docxParagraphText(p *xmlquery.Node) string {
	var sb strings.Builder
	for _, n := range xmlquery.Find(p, ".//w:t | .//w:br | .//w:tab") {
		switch n.Data {
		case "t":
			sb.WriteString(n.InnerText())
		case "br", "tab":
			sb.WriteString(" ")
		}
	}
	return sb.String()
}
