// Package export writes the edit history as a PDF contact sheet.
package export

import (
	"bytes"
	"fmt"
	"image/png"

	"github.com/jung-kurt/gofpdf"

	"scene-studio/internal/history"
)

const (
	pageWidth  = 210.0 // A4 portrait, mm
	margin     = 15.0
	cellWidth  = pageWidth - 2*margin
	cellHeight = 80.0
	captionGap = 6.0
)

// HistoryPDF writes every committed entry, oldest first, one image per row
// with its label and timestamp. Debug prompts are included under the entry
// when the generation service supplied one.
func HistoryPDF(path string, stack *history.Stack) error {
	entries := stack.Entries()
	if len(entries) == 0 {
		return fmt.Errorf("history is empty, nothing to export")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.AddPage()

	y := margin
	for i, entry := range entries {
		if y+cellHeight+captionGap > 297-margin {
			pdf.AddPage()
			y = margin
		}

		name := fmt.Sprintf("entry-%d", i)
		var buf bytes.Buffer
		if err := png.Encode(&buf, entry.Image.ToNRGBA()); err != nil {
			return fmt.Errorf("failed to encode history entry %d: %w", i, err)
		}
		pdf.RegisterImageOptionsReader(name, gofpdf.ImageOptions{ImageType: "PNG"}, &buf)

		// Fit the image into the cell preserving aspect ratio.
		w := cellWidth
		h := w * float64(entry.Image.Height) / float64(entry.Image.Width)
		if h > cellHeight {
			h = cellHeight
			w = h * float64(entry.Image.Width) / float64(entry.Image.Height)
		}
		pdf.ImageOptions(name, margin, y, w, h, false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")

		caption := fmt.Sprintf("%d. %s  (%s)", i+1, entry.Label, entry.CreatedAt.Format("15:04:05"))
		pdf.SetXY(margin, y+h+1)
		pdf.CellFormat(cellWidth, 5, caption, "", 0, "L", false, 0, "")

		y += h + captionGap
		if entry.Debug != nil && entry.Debug.Prompt != "" {
			pdf.SetXY(margin, y)
			pdf.SetFont("Helvetica", "I", 8)
			pdf.MultiCell(cellWidth, 4, entry.Debug.Prompt, "", "L", false)
			pdf.SetFont("Helvetica", "", 10)
			y = pdf.GetY() + captionGap/2
		}
	}

	return pdf.OutputFileAndClose(path)
}
