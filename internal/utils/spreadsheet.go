package utils

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

const studentSheet = "Students"

// StudentRow satu baris siswa di file XLSX
type StudentRow struct {
	Row         int // nomor baris di sheet, mulai dari 1
	Name        string
	DateOfBirth string
}

// ParseStudentSheet membaca sheet pertama: kolom A nama, kolom B tanggal lahir.
// Baris pertama dianggap header. Baris kosong dilewati.
func ParseStudentSheet(r io.Reader) ([]StudentRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open excel file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, errors.New("excel file does not contain any sheets")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows from sheet %s: %w", sheetName, err)
	}

	out := make([]StudentRow, 0, len(rows))
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		var name, dob string
		if len(row) > 0 {
			name = SanitizeString(row[0])
		}
		if len(row) > 1 {
			dob = strings.TrimSpace(row[1])
		}
		if name == "" && dob == "" {
			continue
		}
		out = append(out, StudentRow{Row: i + 1, Name: name, DateOfBirth: dob})
	}
	return out, nil
}

// ExportRow satu baris siswa untuk file export
type ExportRow struct {
	Name        string
	DateOfBirth string
	Courses     int
}

// WriteStudentSheet membuat file XLSX berisi daftar siswa
func WriteStudentSheet(rows []ExportRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", studentSheet); err != nil {
		return nil, err
	}

	header := []interface{}{"Name", "Date of Birth", "Courses"}
	if err := f.SetSheetRow(studentSheet, "A1", &header); err != nil {
		return nil, err
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		values := []interface{}{r.Name, r.DateOfBirth, r.Courses}
		if err := f.SetSheetRow(studentSheet, cell, &values); err != nil {
			return nil, err
		}
	}

	if err := f.SetColWidth(studentSheet, "A", "A", 32); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("gagal menulis file excel: %w", err)
	}
	return buf.Bytes(), nil
}
