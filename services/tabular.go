package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"sales_call_app_go/config"
	"sales_call_app_go/models"

	"github.com/xuri/excelize/v2"
)

// Tabular formats understood by the record store
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// CustomerColumns is the header written for the customer source
var CustomerColumns = []string{"id", "name", "business", "phone", "email", "potential", "status", "last_contact", "call_count", "rm_code"}

// CallLogColumns is the canonical call-log header. Every write uses it.
var CallLogColumns = []string{"customer_id", "customer", "date", "outcome", "notes"}

// legacyCallLogColumns is the headerless five-column layout older deployments read with
var legacyCallLogColumns = []string{"rm_code", "customer_name", "call_date", "call_count", "notes"}

// TabularFormat picks the format from the file extension
func TabularFormat(key string) string {
	if strings.EqualFold(filepath.Ext(key), ".xlsx") {
		return FormatXLSX
	}
	return FormatCSV
}

// ReadCustomers parses a customer source. Missing rm_code, call_count and
// last_contact are defaulted; rows without a usable id get the next free id.
func ReadCustomers(r io.Reader, format string, today string) ([]models.Customer, error) {
	rows, err := readRows(r, format)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.New("customer source has no header row")
	}

	index := headerIndex(rows[0])
	if _, ok := index["name"]; !ok {
		return nil, errors.New("customer source is missing the name column")
	}

	customers := make([]models.Customer, 0, len(rows)-1)
	seen := make(map[int]bool)
	var needsID []int
	maxID := 0

	for _, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		get := func(col string) string {
			return cell(row, index, col)
		}

		c := models.Customer{
			Name:        get("name"),
			Business:    get("business"),
			Phone:       get("phone"),
			Email:       get("email"),
			Potential:   strings.ToUpper(get("potential")),
			Status:      get("status"),
			LastContact: get("last_contact"),
			RMCode:      get("rm_code"),
		}

		if n, ok := parseCount(get("call_count")); ok && n > 0 {
			c.CallCount = n
		}
		if c.RMCode == "" {
			c.RMCode = config.DefaultRMCode
		}
		if c.LastContact == "" {
			c.LastContact = today
		}

		if id, ok := parseCount(get("id")); ok && id > 0 && !seen[id] {
			c.ID = id
			seen[id] = true
			if id > maxID {
				maxID = id
			}
		} else {
			needsID = append(needsID, len(customers))
		}

		customers = append(customers, c)
	}

	for _, i := range needsID {
		maxID++
		customers[i].ID = maxID
	}

	return customers, nil
}

// WriteCustomers serializes customers with the CustomerColumns header
func WriteCustomers(w io.Writer, format string, customers []models.Customer) error {
	records := make([][]string, 0, len(customers)+1)
	records = append(records, CustomerColumns)
	for _, c := range customers {
		records = append(records, []string{
			strconv.Itoa(c.ID),
			c.Name,
			c.Business,
			c.Phone,
			c.Email,
			c.Potential,
			c.Status,
			c.LastContact,
			strconv.Itoa(c.CallCount),
			c.RMCode,
		})
	}

	if format == FormatXLSX {
		return writeXLSX(w, "Customers", records)
	}
	return writeCSV(w, records)
}

// ReadCallLog parses a call-log source in the canonical layout, the older
// customer/date/outcome/notes layout, or the headerless legacy five-column layout
func ReadCallLog(r io.Reader) ([]models.CallLogEntry, error) {
	rows, err := readRows(r, FormatCSV)
	if err != nil {
		return nil, err
	}

	entries := []models.CallLogEntry{}
	if len(rows) == 0 {
		return entries, nil
	}

	index := headerIndex(rows[0])
	if _, ok := index["outcome"]; ok {
		for _, row := range rows[1:] {
			if isBlankRow(row) {
				continue
			}
			entry := models.CallLogEntry{
				Customer: firstNonEmpty(cell(row, index, "customer"), cell(row, index, "customer_name")),
				Date:     firstNonEmpty(cell(row, index, "date"), cell(row, index, "call_date")),
				Outcome:  cell(row, index, "outcome"),
				Notes:    cell(row, index, "notes"),
			}
			if id, ok := parseCount(cell(row, index, "customer_id")); ok && id > 0 {
				entry.CustomerID = id
			}
			entries = append(entries, entry)
		}
		return entries, nil
	}

	legacy := headerIndex(legacyCallLogColumns)
	start := 0
	if _, ok := index["customer_name"]; ok {
		start = 1
	}
	for _, row := range rows[start:] {
		if isBlankRow(row) {
			continue
		}
		entries = append(entries, models.CallLogEntry{
			Customer: cell(row, legacy, "customer_name"),
			Date:     cell(row, legacy, "call_date"),
			Notes:    cell(row, legacy, "notes"),
		})
	}
	return entries, nil
}

// WriteCallLog serializes the full log with the canonical header
func WriteCallLog(w io.Writer, entries []models.CallLogEntry) error {
	records := make([][]string, 0, len(entries)+1)
	records = append(records, CallLogColumns)
	for _, e := range entries {
		id := ""
		if e.CustomerID > 0 {
			id = strconv.Itoa(e.CustomerID)
		}
		records = append(records, []string{id, e.Customer, e.Date, e.Outcome, e.Notes})
	}
	return writeCSV(w, records)
}

func readRows(r io.Reader, format string) ([][]string, error) {
	if format == FormatXLSX {
		f, err := excelize.OpenReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to open excel file: %w", err)
		}
		defer f.Close()

		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.New("invalid excel format: no sheets")
		}
		rows, err := f.GetRows(sheets[0])
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
		}
		return rows, nil
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	return rows, nil
}

func writeCSV(w io.Writer, records [][]string) error {
	writer := csv.NewWriter(w)
	if err := writer.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

func writeXLSX(w io.Writer, sheet string, records [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", sheet)
	for i, record := range records {
		cellName, _ := excelize.CoordinatesToCellName(1, i+1)
		values := make([]interface{}, len(record))
		for j, v := range record {
			values[j] = v
		}
		if err := f.SetSheetRow(sheet, cellName, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write excel file: %w", err)
	}
	return nil
}

func headerIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if _, exists := index[name]; !exists && name != "" {
			index[name] = i
		}
	}
	return index
}

func cell(row []string, index map[string]int, col string) string {
	i, ok := index[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// parseCount accepts integers and integral floats ("2.0"), as spreadsheet tools write them
func parseCount(value string) (int, bool) {
	if value == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(value); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(f) || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
