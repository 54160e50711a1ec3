package utils

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/ahmadqo/student-course-roster/internal/model"
)

type RosterPDFData struct {
	DocumentNumber string
	GeneratedAt    time.Time
	CourseName     string
	Students       []PDFStudent
	QRCodePNG      []byte // link ke detail course
	DetailURL      string
}

type PDFStudent struct {
	No          int
	Name        string
	DateOfBirth string
}

// RosterDocumentNumber format: ROSTER/{YEAR}/{8 karakter awal id course}
func RosterDocumentNumber(courseID string, now time.Time) string {
	short := strings.ToUpper(strings.ReplaceAll(courseID, "-", ""))
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("ROSTER/%d/%s", now.Year(), short)
}

func GenerateRosterPDF(data RosterPDFData) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	// ── Judul ─────────────────────────────────────
	pdf.SetFont("Arial", "B", 16)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(0, 9, "Course Detail", "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 5, fmt.Sprintf("Nomor: %s", data.DocumentNumber), "", 1, "C", false, 0, "")

	pdf.SetDrawColor(0, 51, 102)
	pdf.SetLineWidth(0.8)
	pdf.Line(20, pdf.GetY()+3, 190, pdf.GetY()+3)
	pdf.Ln(8)

	// ── Nama course ───────────────────────────────
	pdf.SetFont("Arial", "B", 13)
	pdf.MultiCell(0, 7, data.CourseName, "", "L", false)
	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(102, 102, 102)
	pdf.CellFormat(0, 6, model.EnrollmentSummary(len(data.Students)), "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(4)

	// ── Tabel siswa ───────────────────────────────
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(0, 6, "Enrolled Students:", "", 1, "L", false, 0, "")

	headers := []string{"No", "Name", "Date of Birth"}
	widths := []float64{12, 108, 50}

	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(0, 51, 102)
	pdf.SetTextColor(255, 255, 255)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(0, 0, 0)
	for i, s := range data.Students {
		fill := i%2 == 0
		if fill {
			pdf.SetFillColor(240, 245, 255)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		pdf.CellFormat(widths[0], 6, fmt.Sprintf("%d", s.No), "1", 0, "C", fill, 0, "")
		pdf.CellFormat(widths[1], 6, truncate(s.Name, 60), "1", 0, "L", fill, 0, "")
		pdf.CellFormat(widths[2], 6, s.DateOfBirth, "1", 0, "C", fill, 0, "")
		pdf.Ln(-1)
	}
	pdf.Ln(6)

	// ── QR ke endpoint detail ─────────────────────
	if len(data.QRCodePNG) > 0 {
		y := pdf.GetY()
		pdf.SetFont("Arial", "", 8)
		pdf.CellFormat(60, 5, "Scan untuk membuka detail course:", "", 1, "L", false, 0, "")
		pdf.RegisterImageOptionsReader("qrcode", gofpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(data.QRCodePNG))
		pdf.ImageOptions("qrcode", 20, y+6, 35, 35, false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
		if data.DetailURL != "" {
			pdf.SetXY(60, y+20)
			pdf.SetFont("Arial", "", 7)
			pdf.CellFormat(0, 4, data.DetailURL, "", 1, "L", false, 0, "")
		}
	}

	// ── Footer ────────────────────────────────────
	pdf.SetY(-15)
	pdf.SetFont("Arial", "I", 7)
	pdf.SetTextColor(128, 128, 128)
	pdf.CellFormat(0, 5,
		fmt.Sprintf("Dibuat pada %s", data.GeneratedAt.Format("02/01/2006 15:04")),
		"", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("gagal generate PDF: %w", err)
	}

	return buf.Bytes(), nil
}

// truncate memotong per rune agar karakter multibyte tidak terbelah
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
