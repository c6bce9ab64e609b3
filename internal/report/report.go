// Package report renders the single-page PDF handed back to the user after
// an assessment.
package report

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"

	"github.com/deanrcg/skincheck/internal/imaging"
)

const disclaimer = "Disclaimer: This report is generated by AI and is not a medical diagnosis. Please consult a healthcare professional for medical advice."

// Generator writes assessment reports into a fixed output directory.
type Generator struct {
	dir    string
	logger *zap.Logger
	now    func() time.Time
}

// NewGenerator constructs a Generator writing into dir.
func NewGenerator(dir string, logger *zap.Logger) *Generator {
	return &Generator{dir: dir, logger: logger.Named("report"), now: time.Now}
}

// Generate renders the report and returns its path. The layout is fixed:
// title, timestamp, risk level, explanation, source image, disclaimer.
// A uuid-named temporary JPEG is written for embedding and removed before
// return, success or failure.
func (g *Generator) Generate(img image.Image, riskLabel, explanation string) (string, error) {
	now := g.now()
	if err := os.MkdirAll(g.dir, 0o755); err != nil {
		return "", fmt.Errorf("create report directory: %w", err)
	}
	path := filepath.Join(g.dir, fmt.Sprintf("Skin_Report_%s.pdf", now.Format("20060102_150405")))

	jpegData, err := imaging.EncodeJPEG(img, imaging.JPEGQuality)
	if err != nil {
		return "", fmt.Errorf("encode report image: %w", err)
	}
	tempImage := filepath.Join(g.dir, fmt.Sprintf("temp_%s.jpg", uuid.NewString()))
	if err := os.WriteFile(tempImage, jpegData, 0o644); err != nil {
		return "", fmt.Errorf("write temporary image: %w", err)
	}
	defer os.Remove(tempImage) //nolint:errcheck

	pdf := gofpdf.New("P", "mm", "A4", "")
	// The core fonts are cp1252 only; the translator swaps anything outside
	// that range for a substitute glyph instead of corrupting the page.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, tr("AI Skin Monitoring Report"), "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 12)
	pdf.Ln(10)
	pdf.CellFormat(190, 10, "Date: "+now.Format("2006-01-02 15:04:05"), "", 1, "L", false, 0, "")
	pdf.Ln(5)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 10, tr("Risk Level: "+riskLabel), "", 1, "L", false, 0, "")
	pdf.Ln(5)

	pdf.SetFont("Arial", "", 12)
	for _, line := range strings.Split(explanation, "\n") {
		pdf.MultiCell(0, 10, tr(line), "", "L", false)
	}
	pdf.Ln(10)

	pdf.ImageOptions(tempImage, 10, 0, 100, 0, true, gofpdf.ImageOptions{ImageType: "JPG"}, 0, "")

	pdf.Ln(10)
	pdf.SetFont("Arial", "I", 10)
	pdf.MultiCell(0, 10, tr(disclaimer), "", "L", false)

	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("write report pdf: %w", err)
	}

	g.logger.Info("report generated", zap.String("path", path))
	return path, nil
}
