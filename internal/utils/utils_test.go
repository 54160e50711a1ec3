package utils

import (
	"bytes"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/ahmadqo/student-course-roster/internal/model"
)

func TestSpreadsheetRoundTrip(t *testing.T) {
	data, err := WriteStudentSheet([]ExportRow{
		{Name: "Ani  Wijaya", DateOfBirth: "2004-01-02", Courses: 2},
		{Name: "Budi", DateOfBirth: "2005-03-04", Courses: 0},
	})
	if err != nil {
		t.Fatalf("WriteStudentSheet: %v", err)
	}

	rows, err := ParseStudentSheet(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("ParseStudentSheet: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0].Name != "Ani Wijaya" || rows[0].DateOfBirth != "2004-01-02" || rows[0].Row != 2 {
		t.Errorf("row 0 = %+v", rows[0])
	}
	if rows[1].Row != 3 {
		t.Errorf("row 1 number = %d", rows[1].Row)
	}
}

func TestParseStudentSheetRejectsGarbage(t *testing.T) {
	if _, err := ParseStudentSheet(strings.NewReader("not a zip")); err == nil {
		t.Fatal("expected error")
	}
}

func TestRosterPDF(t *testing.T) {
	qr, err := GenerateQRCodePNG("http://localhost:8080/api/v1/courses/x/detail", 256)
	if err != nil {
		t.Fatalf("qr: %v", err)
	}
	out, err := GenerateRosterPDF(RosterPDFData{
		DocumentNumber: "ROSTER/2026/ABCDEF12",
		GeneratedAt:    time.Now(),
		CourseName:     "Biologi",
		Students:       []PDFStudent{{No: 1, Name: "Ani", DateOfBirth: model.NewDate(2004, 1, 2).FormatDisplay()}},
		QRCodePNG:      qr,
		DetailURL:      "http://localhost:8080/api/v1/courses/x/detail",
	})
	if err != nil {
		t.Fatalf("GenerateRosterPDF: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF")) {
		t.Error("output is not a PDF")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("Ani", 10); got != "Ani" {
		t.Errorf("short = %q", got)
	}
	if got := truncate("Abcdefghijkl", 10); got != "Abcdefg..." {
		t.Errorf("ascii = %q", got)
	}

	long := strings.Repeat("É", 61)
	got := truncate(long, 60)
	if !utf8.ValidString(got) {
		t.Fatalf("cut mid-rune: %q", got)
	}
	if want := strings.Repeat("É", 57) + "..."; got != want {
		t.Errorf("multibyte = %q", got)
	}
	// 40 rune = 80 byte, masih muat
	if s := strings.Repeat("É", 40); truncate(s, 60) != s {
		t.Error("rune count under max should not be truncated")
	}
}

func TestRosterDocumentNumber(t *testing.T) {
	got := RosterDocumentNumber("1b4e28ba-2fa1-11d2-883f-0016d3cca427", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	if got != "ROSTER/2026/1B4E28BA" {
		t.Errorf("got %s", got)
	}
}

func TestPhotoObjectName(t *testing.T) {
	name, err := PhotoObjectName("/students/photos/", "image/png", time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("PhotoObjectName: %v", err)
	}
	if !strings.HasPrefix(name, "students/photos/20261017-") || !strings.HasSuffix(name, ".png") {
		t.Errorf("name = %s", name)
	}
	if _, err := PhotoObjectName("x", "application/pdf", time.Now()); err == nil {
		t.Error("pdf should be rejected")
	}
}

func TestValidators(t *testing.T) {
	if SanitizeString("  Siti   Nur  ") != "Siti Nur" {
		t.Error("SanitizeString")
	}
	if !IsValidEmail("a@b.co") || IsValidEmail("nope") {
		t.Error("IsValidEmail")
	}
	if IsValidPassword("short1") || IsValidPassword("longpassword") || !IsValidPassword("longpass1") {
		t.Error("IsValidPassword")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	pair, err := GenerateTokenPair(model.JWTClaims{UserID: "u1", Email: "a@b.co", Role: "staff", Name: "A"}, "secret", 1, 2)
	if err != nil {
		t.Fatalf("GenerateTokenPair: %v", err)
	}
	claims, err := ValidateToken(pair.AccessToken, "secret")
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != "u1" || claims.Role != "staff" {
		t.Errorf("claims = %+v", claims)
	}
	if _, err := ValidateToken(pair.AccessToken, "other"); err == nil {
		t.Error("wrong secret accepted")
	}
}

func TestRefreshTokenIsNotAccessToken(t *testing.T) {
	pair, err := GenerateTokenPair(model.JWTClaims{UserID: "u1"}, "secret", 1, 2)
	if err != nil {
		t.Fatalf("GenerateTokenPair: %v", err)
	}
	if _, err := ValidateToken(pair.RefreshToken, "secret"); err == nil {
		t.Error("refresh token accepted as access token")
	}
	if _, err := ValidateRefreshToken(pair.RefreshToken, "secret"); err != nil {
		t.Errorf("ValidateRefreshToken: %v", err)
	}
}
