// Package importer reads line items from CSV files.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/invoicer-dev/invoicer/internal/id"
	"github.com/invoicer-dev/invoicer/internal/lineitem"
	"github.com/invoicer-dev/invoicer/internal/model"
)

// Header is the expected first row of an items CSV. Columns may appear in any
// order.
const Header = "name,description,price,quantity"

var columns = []lineitem.Field{
	lineitem.FieldName,
	lineitem.FieldDescription,
	lineitem.FieldPrice,
	lineitem.FieldQuantity,
}

// ErrMissingColumn is returned when the header lacks one of the item columns.
var ErrMissingColumn = errors.New("missing column")

// ReadItems parses an items CSV. Each data row becomes a line item with a
// fresh ID from newID. Cell values are kept as written; numbers are parsed
// later when totals are derived. Blank price or quantity cells take the
// defaults of a new row. A file with only a header yields nil.
func ReadItems(r io.Reader, newID id.Generator) ([]model.LineItem, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading items CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	index, err := columnIndex(records[0])
	if err != nil {
		return nil, err
	}

	var items []model.LineItem
	for i, rec := range records[1:] {
		if len(rec) != len(records[0]) {
			return nil, fmt.Errorf("row %d: expected %d fields, got %d", i+2, len(records[0]), len(rec))
		}
		item := lineitem.New(newID())
		for _, f := range columns {
			if v := strings.TrimSpace(rec[index[f]]); v != "" {
				item = lineitem.Set(item, f, v)
			}
		}
		items = append(items, item)
	}
	return items, nil
}

// ReadItemsFile opens path and calls ReadItems.
func ReadItemsFile(path string, newID id.Generator) ([]model.LineItem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening items file: %w", err)
	}
	defer f.Close()

	items, err := ReadItems(f, newID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return items, nil
}

func columnIndex(head []string) (map[lineitem.Field]int, error) {
	index := make(map[lineitem.Field]int, len(columns))
	for i, name := range head {
		f, err := lineitem.ParseField(strings.ToLower(strings.TrimSpace(name)))
		if err != nil {
			continue
		}
		index[f] = i
	}
	for _, f := range columns {
		if _, ok := index[f]; !ok {
			return nil, fmt.Errorf("%w %q: header must be %q", ErrMissingColumn, f, Header)
		}
	}
	return index, nil
}
