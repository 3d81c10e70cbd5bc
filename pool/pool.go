// Package pool loads the roster pool from a player table and filters it the
// way the operator narrows the list during an auction.
package pool

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/cloudx-io/auctioneer/core"
)

// MaxFilters is the number of column predicates Filter accepts.
const MaxFilters = 4

// AllValues matches every value of a column.
const AllValues = "All"

// ErrMissingColumn is returned when a required column is absent from the header.
var ErrMissingColumn = errors.New("missing required column")

// Columns names the header cells that carry the fixed player fields.
// ID and Reserve are optional; an empty name disables them.
type Columns struct {
	ID        string `mapstructure:"id"`
	FirstName string `mapstructure:"first_name"`
	Surname   string `mapstructure:"surname"`
	Reserve   string `mapstructure:"reserve"`
}

// DefaultColumns matches the player list layout used by most auction sheets.
func DefaultColumns() Columns {
	return Columns{
		ID:        "Player ID",
		FirstName: "First Name",
		Surname:   "Surname",
		Reserve:   "Reserve Price",
	}
}

// LoadFile reads the roster pool from a CSV or Excel (.xlsx, .xlsm) file,
// chosen by extension.
func LoadFile(path string, cols Columns) ([]core.PlayerRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open player list: %w", err)
	}
	defer file.Close()

	var players []core.PlayerRecord
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		players, err = ReadXLSX(file, cols)
	default:
		players, err = ReadCSV(file, cols)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return players, nil
}

// ReadCSV parses a player table. Rows without an id column are numbered from 1
// in file order. Columns other than the fixed ones become attributes.
func ReadCSV(r io.Reader, cols Columns) ([]core.PlayerRecord, error) {
	csvReader := csv.NewReader(r)
	csvReader.TrimLeadingSpace = true
	csvReader.FieldsPerRecord = -1
	return readTable(csvReader.Read, cols)
}

// ReadXLSX parses the first sheet of an Excel workbook with the same header
// rules as ReadCSV.
func ReadXLSX(r io.Reader, cols Columns) ([]core.PlayerRecord, error) {
	workbook, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer workbook.Close()

	sheets := workbook.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("failed to read header: workbook has no sheets")
	}
	rows, err := workbook.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}

	next := 0
	return readTable(func() ([]string, error) {
		if next == len(rows) {
			return nil, io.EOF
		}
		next++
		return rows[next-1], nil
	}, cols)
}

// readTable maps a header row and the rows after it to players. read returns
// io.EOF after the last row.
func readTable(read func() ([]string, error), cols Columns) ([]core.PlayerRecord, error) {
	header, err := read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	columnMap := mapColumns(header)

	firstIdx, ok := columnMap[cols.FirstName]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, cols.FirstName)
	}
	surnameIdx, ok := columnMap[cols.Surname]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrMissingColumn, cols.Surname)
	}
	idIdx, hasID := columnMap[cols.ID]
	hasID = hasID && cols.ID != ""
	reserveIdx, hasReserve := columnMap[cols.Reserve]
	hasReserve = hasReserve && cols.Reserve != ""

	var players []core.PlayerRecord
	for row := 1; ; row++ {
		record, err := read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", row, err)
		}

		p := core.PlayerRecord{
			ID:         core.PlayerID(row),
			FirstName:  cell(record, firstIdx),
			Surname:    cell(record, surnameIdx),
			Attributes: make(map[string]string),
		}

		if hasID {
			id, err := strconv.Atoi(cell(record, idIdx))
			if err != nil {
				return nil, fmt.Errorf("row %d: invalid player id %q", row, cell(record, idIdx))
			}
			p.ID = core.PlayerID(id)
		}
		if hasReserve {
			if raw := cell(record, reserveIdx); raw != "" {
				reserve, err := decimal.NewFromString(raw)
				if err != nil {
					return nil, fmt.Errorf("row %d: invalid reserve price %q", row, raw)
				}
				p.ReservePrice = core.RoundMoney(reserve)
			}
		}

		for i, column := range header {
			if i == firstIdx || i == surnameIdx || (hasID && i == idIdx) || (hasReserve && i == reserveIdx) {
				continue
			}
			if name := normalizeColumn(column); name != "" {
				p.Attributes[name] = cell(record, i)
			}
		}
		players = append(players, p)
	}
	return players, nil
}

// Predicate constrains one column to a value.
type Predicate struct {
	Column string
	Value  string
}

// Filter returns the players matching every predicate, preserving order.
// A predicate with an empty column, or a value of "" or "All", is ignored.
func Filter(players []core.PlayerRecord, cols Columns, preds ...Predicate) ([]core.PlayerRecord, error) {
	if len(preds) > MaxFilters {
		return nil, fmt.Errorf("%w: at most %d filters, got %d", core.ErrValidation, MaxFilters, len(preds))
	}

	active := preds[:0:0]
	for _, p := range preds {
		if p.Column == "" || p.Value == "" || p.Value == AllValues {
			continue
		}
		active = append(active, p)
	}

	out := make([]core.PlayerRecord, 0, len(players))
	for _, player := range players {
		if matches(player, cols, active) {
			out = append(out, player)
		}
	}
	return out, nil
}

// DistinctValues lists the non-empty values of a column, sorted.
func DistinctValues(players []core.PlayerRecord, cols Columns, column string) []string {
	seen := make(map[string]struct{})
	for _, p := range players {
		if v := Value(p, cols, column); v != "" {
			seen[v] = struct{}{}
		}
	}
	values := make([]string, 0, len(seen))
	for v := range seen {
		values = append(values, v)
	}
	sort.Strings(values)
	return values
}

// Value returns a player's value for a column. The fixed fields answer to
// their configured column names and to "Full Name"; everything else is an
// attribute. Reserve prices read as plain decimals ("2.5").
func Value(p core.PlayerRecord, cols Columns, column string) string {
	switch {
	case column == "":
		return ""
	case column == cols.FirstName:
		return p.FirstName
	case column == cols.Surname:
		return p.Surname
	case column == "Full Name":
		return p.FullName()
	case column == cols.ID:
		return strconv.Itoa(int(p.ID))
	case column == cols.Reserve:
		return p.ReservePrice.String()
	default:
		return p.Attributes[column]
	}
}

// ParsePredicate parses "column=value".
func ParsePredicate(s string) (Predicate, error) {
	column, value, ok := strings.Cut(s, "=")
	if !ok || strings.TrimSpace(column) == "" {
		return Predicate{}, fmt.Errorf("%w: filter must look like column=value, got %q", core.ErrValidation, s)
	}
	return Predicate{Column: strings.TrimSpace(column), Value: strings.TrimSpace(value)}, nil
}

func matches(p core.PlayerRecord, cols Columns, preds []Predicate) bool {
	for _, pred := range preds {
		if Value(p, cols, pred.Column) != pred.Value {
			return false
		}
	}
	return true
}

func mapColumns(header []string) map[string]int {
	columnMap := make(map[string]int, len(header))
	for i, column := range header {
		column = normalizeColumn(column)
		if column == "" {
			continue
		}
		if _, dup := columnMap[column]; !dup {
			columnMap[column] = i
		}
	}
	return columnMap
}

// normalizeColumn strips whitespace and the byte order mark spreadsheet exports prepend.
func normalizeColumn(column string) string {
	return strings.TrimSpace(strings.TrimPrefix(column, "\ufeff"))
}

func cell(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}
