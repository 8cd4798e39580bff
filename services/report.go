package services

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"time"

	"sales_call_app_go/models"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

const (
	reportSheetSummary   = "Summary"
	reportSheetCustomers = "Customers"
	reportSheetCalls     = "Call Log"
)

// ReportFilename is the download name for an RM's performance workbook
func ReportFilename(rmCode string, at time.Time) string {
	return fmt.Sprintf("performance_%s_%s.xlsx", rmCode, at.Format("20060102_150405"))
}

// GenerateReportKey creates a unique storage key for an archived report
func GenerateReportKey(rmCode string, at time.Time) string {
	filename := fmt.Sprintf("%s_%d.xlsx", uuid.New().String(), at.Unix())
	return filepath.ToSlash(filepath.Join("reports", rmCode, filename))
}

// BuildPerformanceWorkbook renders the Performance tab as an XLSX workbook
func BuildPerformanceWorkbook(rmCode string, summary Summary, customers []models.Customer, calls []models.CallLogEntry) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})

	// --- Summary Sheet ---
	f.SetSheetName("Sheet1", reportSheetSummary)
	summaryRows := [][]interface{}{
		{"RM Code", rmCode},
		{"Total Customers", summary.Total},
		{"Completed Calls", summary.Completed},
		{"Pending Calls", summary.Pending},
		{"Missed Calls", summary.Missed},
		{"High Potential", summary.HighPotential},
		{"Medium Potential", summary.MediumPotential},
		{"Low Potential", summary.LowPotential},
	}
	for i, row := range summaryRows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(reportSheetSummary, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write summary: %w", err)
		}
	}
	f.SetCellStyle(reportSheetSummary, "A1", fmt.Sprintf("A%d", len(summaryRows)), headerStyle)
	f.SetColWidth(reportSheetSummary, "A", "A", 20)

	// --- Customers Sheet ---
	f.NewSheet(reportSheetCustomers)
	customerRows := [][]interface{}{{"ID", "Name", "Business", "Phone", "Potential", "Status", "Last Contact", "Calls"}}
	for _, c := range customers {
		customerRows = append(customerRows, []interface{}{
			c.ID, c.Name, c.Business, c.Phone, c.PotentialLabel(), c.Status, c.LastContact, c.CallCount,
		})
	}
	if err := writeSheetRows(f, reportSheetCustomers, customerRows, headerStyle); err != nil {
		return nil, err
	}
	f.SetColWidth(reportSheetCustomers, "B", "D", 22)

	// --- Call Log Sheet ---
	f.NewSheet(reportSheetCalls)
	callRows := [][]interface{}{{"Date", "Customer", "Outcome", "Notes"}}
	for _, e := range calls {
		callRows = append(callRows, []interface{}{e.Date, e.Customer, e.Outcome, e.DisplayNotes()})
	}
	if err := writeSheetRows(f, reportSheetCalls, callRows, headerStyle); err != nil {
		return nil, err
	}
	f.SetColWidth(reportSheetCalls, "A", "C", 18)
	f.SetColWidth(reportSheetCalls, "D", "D", 50)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf, nil
}

func writeSheetRows(f *excelize.File, sheet string, rows [][]interface{}, headerStyle int) error {
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	if len(rows) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(rows[0]), 1)
		f.SetCellStyle(sheet, "A1", last, headerStyle)
	}
	return nil
}

// PerformanceReport builds the workbook for an RM from the store's current data
func PerformanceReport(store *RecordStore, rmCode string) (*bytes.Buffer, error) {
	customers := store.CustomersFor(rmCode)
	calls := CallsForRM(store.CallLog(), store.Customers(), rmCode)
	return BuildPerformanceWorkbook(rmCode, Summarize(customers), customers, calls)
}

// ArchiveReport stores a copy of a generated report
func ArchiveReport(ctx context.Context, storage StorageProvider, rmCode string, report []byte, at time.Time) (*StorageResult, error) {
	key := GenerateReportKey(rmCode, at)
	result, err := storage.UploadReader(ctx, bytes.NewReader(report), key, ContentTypeFor(key), int64(len(report)))
	if err != nil {
		return nil, fmt.Errorf("failed to archive report: %w", err)
	}
	return result, nil
}
