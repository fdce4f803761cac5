package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"chopmate/internal/domain"
	"github.com/shopspring/decimal"
)

type MenuWriter interface {
	UpsertMenuItem(ctx context.Context, item domain.MenuItem) (*domain.MenuItem, error)
}

// CSVImporter reads menu spreadsheets and inserts/updates a vendor's menu items.
//
// A row with a name starts a menu item. Following rows with an empty name only carry
// customization options for that item.
type CSVImporter struct {
	reader   *csv.Reader
	menu     MenuWriter
	vendorID string
}

func NewCSVImporter(r io.Reader, menu MenuWriter, vendorID string) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader:   csvr,
		menu:     menu,
		vendorID: vendorID,
	}
}

type csvRow struct {
	ID          string
	Name        string
	Desc        string
	Price       string
	Category    string
	ImageURL    string
	Unavailable bool
	Options     []domain.CustomizationOption
	line        int
}

// Run parses CSV rows and upserts menu items grouped by name.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	if _, ok := index["name"]; !ok {
		return 0, errors.New("missing name column")
	}

	var (
		current  *csvRow
		imported int
		line     = 1
	)

	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}
		line++

		row, err := parseRow(record, index)
		if err != nil {
			return imported, fmt.Errorf("line %d: %w", line, err)
		}
		if row == nil {
			continue
		}
		row.line = line

		if row.Name != "" {
			if current != nil {
				if err := i.save(ctx, current); err != nil {
					return imported, err
				}
				imported++
			}
			current = row
			continue
		}

		if current == nil {
			return imported, fmt.Errorf("line %d: option row before any menu item", line)
		}
		current.Options = append(current.Options, row.Options...)
	}

	if current != nil {
		if err := i.save(ctx, current); err != nil {
			return imported, err
		}
		imported++
	}

	return imported, nil
}

func (i *CSVImporter) save(ctx context.Context, row *csvRow) error {
	if row.Price == "" {
		return fmt.Errorf("line %d: price required for %q", row.line, row.Name)
	}
	price, err := decimal.NewFromString(row.Price)
	if err != nil || price.IsNegative() {
		return fmt.Errorf("line %d: invalid price %q for %q", row.line, row.Price, row.Name)
	}
	if row.ID != "" && len(row.ID) != 36 {
		return fmt.Errorf("line %d: invalid id for %q: %s", row.line, row.Name, row.ID)
	}

	item := domain.MenuItem{
		ID:             row.ID,
		VendorID:       i.vendorID,
		Name:           row.Name,
		Description:    row.Desc,
		Price:          price,
		ImageURL:       row.ImageURL,
		Category:       row.Category,
		Available:      !row.Unavailable,
		Customizations: row.Options,
	}

	if _, err := i.menu.UpsertMenuItem(ctx, item); err != nil {
		return fmt.Errorf("upsert menu item %q: %w", row.Name, err)
	}
	return nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) (*csvRow, error) {
	name := pick(record, index, "name")
	optionName := pick(record, index, "option.name")

	if name == "" && optionName == "" {
		return nil, nil
	}

	row := &csvRow{
		ID:       pick(record, index, "id"),
		Name:     name,
		Desc:     pick(record, index, "description"),
		Price:    pick(record, index, "price"),
		Category: pick(record, index, "category"),
		ImageURL: pick(record, index, "imageurl"),
	}
	if available := pick(record, index, "available"); available != "" {
		ok, err := strconv.ParseBool(available)
		if err != nil {
			return nil, fmt.Errorf("invalid available flag %q", available)
		}
		row.Unavailable = !ok
	}

	if optionName != "" {
		delta := decimal.Zero
		if raw := pick(record, index, "option.pricedelta"); raw != "" {
			d, err := decimal.NewFromString(raw)
			if err != nil {
				return nil, fmt.Errorf("invalid option price %q", raw)
			}
			delta = d
		}
		row.Options = []domain.CustomizationOption{{
			Group:      pick(record, index, "option.group"),
			Name:       optionName,
			PriceDelta: delta,
		}}
	}
	return row, nil
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
