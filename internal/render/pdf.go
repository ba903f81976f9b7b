package render

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/cookpress/backend/internal/model"
)

// PDFRenderer renders the cookbook as a PDF using the standard core
// fonts. Core fonts only cover Latin-1, so text is reduced to ASCII
// before drawing.
type PDFRenderer struct {
	Title string
	Now   func() time.Time
}

// NewPDFRenderer creates a PDFRenderer with the default collection title.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{Title: DefaultTitle, Now: time.Now}
}

// Render converts the recipe collection into PDF bytes.
func (r *PDFRenderer) Render(recipes []model.Recipe) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCreationDate(r.now().UTC())
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.MultiCell(0, 10, cleanText(r.title()), "", "C", false)
	pdf.Ln(8)

	if len(recipes) == 0 {
		pdf.SetFont("Helvetica", "I", 11)
		pdf.MultiCell(0, 8, "No recipes yet.", "", "C", false)
	}

	for _, recipe := range recipes {
		pdf.SetFont("Helvetica", "B", 14)
		pdf.MultiCell(0, 8, cleanText(recipe.Title), "", "L", false)
		pdf.Ln(2)

		if len(recipe.Ingredients) > 0 {
			pdf.SetFont("Helvetica", "B", 12)
			pdf.MultiCell(0, 7, "Ingredients:", "", "L", false)
			pdf.SetFont("Helvetica", "", 11)
			for _, ing := range recipe.Ingredients {
				pdf.MultiCell(0, 6, "- "+cleanText(ing), "", "L", false)
			}
			pdf.Ln(3)
		}

		if len(recipe.Steps) > 0 {
			pdf.SetFont("Helvetica", "B", 12)
			pdf.MultiCell(0, 7, "Steps:", "", "L", false)
			pdf.SetFont("Helvetica", "", 11)
			for i, step := range recipe.Steps {
				pdf.MultiCell(0, 6, fmt.Sprintf("%d. %s", i+1, cleanText(step)), "", "L", false)
				pdf.Ln(1)
			}
		}
		pdf.Ln(8)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ContentType returns the MIME type for PDF output.
func (r *PDFRenderer) ContentType() string { return "application/pdf" }

// Extension returns the file extension for PDF output.
func (r *PDFRenderer) Extension() string { return ".pdf" }

func (r *PDFRenderer) title() string {
	if r.Title == "" {
		return DefaultTitle
	}
	return r.Title
}

func (r *PDFRenderer) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}

// cleanText keeps only ASCII so the core PDF fonts can draw every rune.
func cleanText(s string) string {
	var b strings.Builder
	for _, ch := range s {
		if ch < 128 {
			b.WriteRune(ch)
		}
	}
	return strings.TrimSpace(b.String())
}
