package excel

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"roadmapboard/domain/cell"
	"roadmapboard/internal/errors"
)

// WorkbookReader parses xlsx (and csv) bytes into cell matrices
type WorkbookReader struct {
	logger *zap.Logger
}

// NewWorkbookReader creates a workbook reader
func NewWorkbookReader(logger *zap.Logger) *WorkbookReader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkbookReader{logger: logger.Named("excel")}
}

// Parse reads every sheet in file order. name is the workbook location and
// only decides between the xlsx and csv formats.
func (r *WorkbookReader) Parse(data []byte, name string) ([]cell.Sheet, error) {
	start := time.Now()

	var (
		sheets []cell.Sheet
		err    error
	)
	if FileType(name) == "csv" {
		sheets, err = r.parseCSV(data, name)
	} else {
		sheets, err = r.parseXLSX(data)
	}
	if err != nil {
		return nil, err
	}

	r.logger.Debug("Workbook parsed",
		zap.Int("sheets", len(sheets)),
		zap.Duration("took", time.Since(start)))
	return sheets, nil
}

func (r *WorkbookReader) parseXLSX(data []byte) ([]cell.Sheet, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.LoadFailed("Unable to read workbook", err)
	}
	defer f.Close()

	names := f.GetSheetList()
	sheets := make([]cell.Sheet, 0, len(names))
	for _, name := range names {
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, errors.LoadFailed(fmt.Sprintf("Unable to read sheet %q", name), err)
		}
		sheets = append(sheets, cell.Sheet{Name: name, Matrix: toMatrix(rows)})
	}
	return sheets, nil
}

func (r *WorkbookReader) parseCSV(data []byte, name string) ([]cell.Sheet, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.LoadFailed("Unable to read CSV workbook", err)
	}
	return []cell.Sheet{{Name: SheetNameFor(name), Matrix: toMatrix(rows)}}, nil
}

func toMatrix(rows [][]string) cell.Matrix {
	m := make(cell.Matrix, len(rows))
	for i, row := range rows {
		m[i] = make(cell.Row, len(row))
		for j, raw := range row {
			m[i][j] = cell.Parse(raw)
		}
	}
	return m
}

// FileType returns "csv" for .csv locations and "xlsx" for everything else
func FileType(location string) string {
	if strings.EqualFold(path.Ext(locationPath(location)), ".csv") {
		return "csv"
	}
	return "xlsx"
}

// SheetNameFor names the single sheet of a csv workbook after its file
func SheetNameFor(location string) string {
	base := path.Base(locationPath(location))
	return strings.TrimSuffix(base, path.Ext(base))
}

func locationPath(location string) string {
	if u, err := url.Parse(location); err == nil && u.Scheme != "" && u.Host != "" {
		if p, err := url.PathUnescape(u.Path); err == nil {
			return p
		}
		return u.Path
	}
	return strings.ReplaceAll(location, "\\", "/")
}
