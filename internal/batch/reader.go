package batch

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/povarna/generative-ai-agents/synereval/internal/models"
	"github.com/xuri/excelize/v2"
)

// StudentColumn is the canonical name of the column holding student names.
const StudentColumn = "student_name"

// Excel's "CSV UTF-8" export starts the file with a byte order mark.
const byteOrderMark = "\ufeff"

// ReadGrid parses a submission table. The first row is the header; the
// student column may appear anywhere and every other column up to the last
// non-empty one is an answer column, in position order.
func ReadGrid(r io.Reader, format Format) (models.StudentGrid, error) {
	var (
		records [][]string
		err     error
	)
	switch format {
	case FormatXLSX:
		records, err = readXLSX(r)
	case FormatCSV:
		records, err = readCSV(r)
	default:
		return models.StudentGrid{}, fmt.Errorf("%w: unsupported format %q", models.ErrMalformedRequest, format)
	}
	if err != nil {
		return models.StudentGrid{}, err
	}

	return gridFromRecords(records)
}

func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: unable to open spreadsheet: %v", models.ErrMalformedRequest, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: spreadsheet has no sheets", models.ErrMalformedRequest)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: unable to read sheet %s: %v", models.ErrMalformedRequest, sheets[0], err)
	}
	return rows, nil
}

func readCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: unable to parse csv: %v", models.ErrMalformedRequest, err)
	}
	return records, nil
}

func gridFromRecords(records [][]string) (models.StudentGrid, error) {
	if len(records) == 0 {
		return models.StudentGrid{}, &models.SchemaError{Field: StudentColumn}
	}

	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], byteOrderMark)
	}

	studentIdx := -1
	for i, name := range header {
		if !isStudentColumn(name) {
			continue
		}
		if studentIdx != -1 {
			return models.StudentGrid{}, &models.SchemaError{Field: StudentColumn, Duplicate: true}
		}
		studentIdx = i
	}
	if studentIdx == -1 {
		return models.StudentGrid{}, &models.SchemaError{Field: StudentColumn}
	}

	// Answers bind to questions by position, so a blank header keeps its slot.
	width := usedWidth(records)
	var answerIdx []int
	var answerColumns []string
	for i := 0; i < width; i++ {
		if i == studentIdx {
			continue
		}
		name := strings.TrimSpace(cell(header, i))
		if name == "" {
			name = fmt.Sprintf("column-%d", i+1)
		}
		answerIdx = append(answerIdx, i)
		answerColumns = append(answerColumns, name)
	}

	grid := models.StudentGrid{
		StudentColumn: strings.TrimSpace(header[studentIdx]),
		AnswerColumns: answerColumns,
	}
	for _, record := range records[1:] {
		if isBlank(record) {
			continue
		}
		row := models.StudentRow{
			StudentName: strings.TrimSpace(cell(record, studentIdx)),
			Answers:     make([]string, len(answerIdx)),
		}
		for j, idx := range answerIdx {
			row.Answers[j] = strings.TrimSpace(cell(record, idx))
		}
		grid.Rows = append(grid.Rows, row)
	}

	return grid, nil
}

// usedWidth is the index after the last column holding a value in any row.
// Trailing columns that are empty everywhere are not answer columns.
func usedWidth(records [][]string) int {
	width := 0
	for _, record := range records {
		for i := len(record) - 1; i >= width; i-- {
			if strings.TrimSpace(record[i]) != "" {
				width = i + 1
				break
			}
		}
	}
	return width
}

func isStudentColumn(name string) bool {
	normalized := strings.ToLower(strings.TrimSpace(name))
	normalized = strings.NewReplacer(" ", "_", "-", "_").Replace(normalized)
	return normalized == StudentColumn
}

// cell pads short rows with empty values.
func cell(record []string, idx int) string {
	if idx < len(record) {
		return record[idx]
	}
	return ""
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
