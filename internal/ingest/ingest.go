// Package ingest loads CSV and XLSX source files into standardized tables
// and classifies each file's role. It is the boundary between uploaded files
// and the pure reconciliation core: everything past here is in-memory.
package ingest

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/encoding/charmap"

	"github.com/sells-group/agency-intel/internal/schema"
	"github.com/sells-group/agency-intel/internal/table"
)

// Source is one loaded, standardized input file.
type Source struct {
	Path  string
	Role  Role
	Table *table.Table
}

// loadConcurrency bounds parallel file loads.
const loadConcurrency = 4

// LoadAll loads every path, standardizes headers through the synonym table,
// detects roles, and applies role validation. Files load concurrently; the
// result keeps the input path order so downstream first-seen tie-breaks stay
// deterministic.
func LoadAll(ctx context.Context, paths []string, synonyms map[string]string) ([]Source, error) {
	if len(paths) == 0 {
		return nil, ErrNoInput
	}

	sources := make([]Source, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(loadConcurrency)

	var mu sync.Mutex
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return eris.Wrap(err, "ingest: context cancelled")
			}
			src, err := LoadFile(path, synonyms)
			if err != nil {
				return err
			}
			mu.Lock()
			sources[i] = src
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return sources, nil
}

// LoadFile loads one CSV or XLSX file into a standardized, role-validated
// table.
func LoadFile(path string, synonyms map[string]string) (Source, error) {
	var (
		raw *table.Table
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		raw, err = readXLSX(path)
	default:
		raw, err = readCSV(path)
	}
	if err != nil {
		return Source{}, err
	}

	std := schema.Standardize(raw, synonyms)
	role, ok := DetectRole(std)
	if !ok {
		return Source{}, eris.Errorf(
			"ingest: %s: cannot infer file role; expected a coverage, rate card, or scorecard export", path)
	}
	if err := validateColumns(path, role, std); err != nil {
		return Source{}, err
	}

	switch role {
	case RoleRateCard:
		std = dropNullMargins(std)
	case RoleCoverage:
		// Back-fill whichever optional signal column the source omitted so
		// downstream reads never depend on which one was present.
		std.EnsureColumns("role_category", "supply_capability")
	}

	zap.L().Info("ingest: loaded source",
		zap.String("path", path),
		zap.String("role", string(role)),
		zap.Int("rows", std.Len()),
	)
	return Source{Path: path, Role: role, Table: std}, nil
}

// dropNullMargins removes rate-card rows whose margin cell does not parse.
// A rate-card row without a margin carries no identity of its own; this is
// the one place a bad numeric cell drops a row.
func dropNullMargins(t *table.Table) *table.Table {
	out := table.New(t.Headers...)
	for _, r := range t.Rows {
		if r.Float("agency_margin") == nil {
			continue
		}
		out.Append(r)
	}
	if dropped := t.Len() - out.Len(); dropped > 0 {
		zap.L().Debug("ingest: dropped rate-card rows with null margin", zap.Int("rows", dropped))
	}
	return out
}

func readCSV(path string) (*table.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "ingest: read csv")
	}
	data = decodeToUTF8(data)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: parse csv %s", path)
	}
	if len(records) == 0 {
		return nil, eris.Errorf("ingest: %s: csv has no header row", path)
	}
	return recordsToTable(records), nil
}

func readXLSX(path string) (*table.Table, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: open xlsx %s", path)
	}
	if len(f.Sheets) == 0 {
		return nil, eris.Errorf("ingest: %s: workbook has no sheets", path)
	}

	sheet := f.Sheets[0]
	records := make([][]string, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.String()
		}
		records = append(records, cells)
	}
	if len(records) == 0 {
		return nil, eris.Errorf("ingest: %s: sheet has no header row", path)
	}
	return recordsToTable(records), nil
}

// recordsToTable converts header+data records into a table, padding short
// rows and ignoring cells beyond the header width.
func recordsToTable(records [][]string) *table.Table {
	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = strings.TrimSpace(h)
	}
	t := table.New(headers...)
	for _, rec := range records[1:] {
		row := make(table.Row, len(headers))
		for i, h := range headers {
			if i < len(rec) {
				row[h] = rec[i]
			}
		}
		t.Append(row)
	}
	return t
}

// decodeToUTF8 strips a UTF-8 BOM and transcodes Windows-1252 exports, the
// usual spreadsheet-tool output when a file is not valid UTF-8.
func decodeToUTF8(data []byte) []byte {
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
	if utf8.Valid(data) {
		return data
	}
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return data
	}
	return decoded
}
