// Package report renders dashboard data as downloadable files.
package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	"medtrack-backend/internal/derive"
	"medtrack-backend/internal/model"
	"medtrack-backend/internal/parse"
)

const (
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypePDF  = "application/pdf"
)

// Inventory is the data behind the inventory workbook.
type Inventory struct {
	Devices       []model.Device
	Installations []model.Installation
	Contracts     []model.AMCContract
	GeneratedAt   time.Time
}

// BuildInventoryXLSX renders a workbook with a summary sheet, one row per
// device and one row per installation.
func BuildInventoryXLSX(inv Inventory) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	summarySheet := "summary"
	devicesSheet := "devices"
	installationsSheet := "installations"
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(devicesSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(installationsSheet); err != nil {
		return nil, err
	}

	stats := derive.ComputeStats(inv.Devices, inv.Installations, inv.Contracts)
	contracts := derive.SummarizeContracts(inv.Contracts)
	summary := [][]any{
		{"Device Inventory"},
		{"Generated", inv.GeneratedAt.Format(time.RFC3339)},
		{"Total Devices", stats.TotalDevices},
		{"Online Devices", stats.OnlineDevices},
		{"Under Maintenance", stats.MaintenanceDevices},
		{"Pending Installations", stats.PendingInstallations},
		{"Expiring Contracts", stats.ExpiringContracts},
		{"Total Contract Value", contracts.TotalValue},
	}
	if err := writeRows(f, summarySheet, summary); err != nil {
		return nil, err
	}

	deviceRows := [][]any{{
		"ID", "Type", "Facility", "Status", "Battery (%)", "Battery Band",
		"Last Service", "Installed", "AMC Status", "Location", "Serial Number",
	}}
	for _, d := range inv.Devices {
		deviceRows = append(deviceRows, []any{
			d.ID, d.Type, d.FacilityName, string(d.Status), d.BatteryLevel, string(derive.BatteryBand(d.BatteryLevel)),
			d.LastServiceDate, d.InstallationDate, string(d.AMCStatus), d.Location, d.SerialNumber,
		})
	}
	if err := writeRows(f, devicesSheet, deviceRows); err != nil {
		return nil, err
	}

	installationRows := [][]any{{"ID", "Device", "Facility", "Date", "Technician", "Status", "Progress (%)"}}
	for _, i := range inv.Installations {
		installationRows = append(installationRows, []any{
			i.ID, i.DeviceID, i.FacilityName, i.InstallationDate, i.Technician, string(i.Status),
			derive.ChecklistProgress(i.Checklist),
		})
	}
	if err := writeRows(f, installationsSheet, installationRows); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}

// BuildContractsPDF renders the maintenance contracts with their remaining days
// as of now. Text is encoded as cp1252 for the core fonts; runes outside it
// print as '.'.
func BuildContractsPDF(contracts []model.AMCContract, now time.Time) ([]byte, error) {
	return buildContractsPDF(contracts, now, true)
}

func buildContractsPDF(contracts []model.AMCContract, now time.Time, compress bool) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetCompression(compress)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	summary := derive.SummarizeContracts(contracts)
	pdf.Cell(0, 8, "AMC/CMC Contracts")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", now.Format(time.RFC3339)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Active: %d  Expiring Soon: %d  Expired: %d", summary.Active, summary.ExpiringSoon, summary.Expired))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Total Value: %s", summary.FormattedValue))
	pdf.Ln(8)

	widths := []float64{25, 25, 18, 28, 28, 30, 22, 30, 70}
	headers := []string{"Contract", "Device", "Type", "Start", "End", "Status", "Days Left", "Value", "Vendor"}
	pdf.SetFont("Arial", "B", 10)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 6, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 10)
	for _, c := range contracts {
		daysLeft := "-"
		if end, err := parse.Date(c.EndDate); err == nil {
			daysLeft = fmt.Sprintf("%d", derive.DaysUntilExpiry(end, now))
		}
		cells := []string{
			c.ID, c.DeviceID, string(c.ContractType), c.StartDate, c.EndDate, string(c.Status),
			daysLeft, derive.FormatAmount(c.ContractValue), c.Vendor,
		}
		for i, v := range cells {
			align := "L"
			if i == 6 || i == 7 {
				align = "R"
			}
			pdf.CellFormat(widths[i], 6, tr(v), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
