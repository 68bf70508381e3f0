package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/elsenior/tailoring-api/models"
)

// Report types understood by the generator
const (
	ReportOverview  = "overview"
	ReportFinancial = "financial"
	ReportInventory = "inventory"
	ReportTailor    = "tailor"
)

// Report output formats
const (
	FormatPDF = "pdf"
	FormatCSV = "csv"
)

// ReportRequest describes one report to generate
type ReportRequest struct {
	Type     string
	From     time.Time
	To       time.Time
	Format   string // pdf or csv
	TailorID uint   // required for tailor reports
}

// reportSection is one titled table inside a report
type reportSection struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// reportData is the format-independent content of a report
type reportData struct {
	Title    string
	Sections []reportSection
}

// ReportGenerator builds PDF and CSV business reports from read-only
// queries over the store.
type ReportGenerator struct {
	db *gorm.DB
}

// NewReportGenerator creates a report generator backed by the given database
func NewReportGenerator(db *gorm.DB) *ReportGenerator {
	return &ReportGenerator{db: db}
}

// Generate builds the requested report and returns the document bytes and a
// suggested filename.
func (g *ReportGenerator) Generate(req ReportRequest) ([]byte, string, error) {
	var data *reportData
	var err error

	switch req.Type {
	case ReportOverview:
		data, err = g.businessOverview(req)
	case ReportFinancial:
		data, err = g.financialReport(req)
	case ReportInventory:
		data, err = g.inventoryReport(req)
	case ReportTailor:
		data, err = g.tailorPerformance(req)
	default:
		return nil, "", fmt.Errorf("unknown report type: %s", req.Type)
	}
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("%s_report_%s_to_%s.%s",
		req.Type, req.From.Format("2006-01-02"), req.To.Format("2006-01-02"), req.Format)

	var doc []byte
	switch req.Format {
	case FormatCSV:
		doc, err = renderCSV(data)
	case FormatPDF:
		doc, err = renderPDF(data, req)
	default:
		return nil, "", fmt.Errorf("unknown report format: %s", req.Format)
	}
	if err != nil {
		return nil, "", err
	}

	return doc, filename, nil
}

func (g *ReportGenerator) businessOverview(req ReportRequest) (*reportData, error) {
	var customers, tailors, orders int64
	if err := g.db.Model(&models.Customer{}).Count(&customers).Error; err != nil {
		return nil, fmt.Errorf("failed to count customers: %w", err)
	}
	if err := g.db.Model(&models.Tailor{}).Count(&tailors).Error; err != nil {
		return nil, fmt.Errorf("failed to count tailors: %w", err)
	}
	inRange := g.db.Model(&models.Order{}).Where("created_at BETWEEN ? AND ?", req.From, req.To)
	if err := inRange.Count(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to count orders: %w", err)
	}

	revenue, err := g.sumOrders("total_amount", req.From, req.To, nil)
	if err != nil {
		return nil, err
	}

	summary := reportSection{
		Title:   "Executive Summary",
		Headers: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Total Customers", strconv.FormatInt(customers, 10)},
			{"Total Tailors", strconv.FormatInt(tailors, 10)},
			{"Orders in Period", strconv.FormatInt(orders, 10)},
			{"Revenue in Period", revenue.StringFixed(2)},
		},
	}

	statuses := []models.OrderStatus{
		models.OrderPending, models.OrderAssigned, models.OrderInProgress,
		models.OrderCompleted, models.OrderApproved, models.OrderCancelled,
	}
	statusSection := reportSection{
		Title:   "Orders by Status",
		Headers: []string{"Status", "Count"},
	}
	for _, status := range statuses {
		var count int64
		if err := g.db.Model(&models.Order{}).
			Where("created_at BETWEEN ? AND ? AND status = ?", req.From, req.To, status).
			Count(&count).Error; err != nil {
			return nil, fmt.Errorf("failed to count %s orders: %w", status, err)
		}
		statusSection.Rows = append(statusSection.Rows, []string{string(status), strconv.FormatInt(count, 10)})
	}

	return &reportData{
		Title:    "Business Overview Report",
		Sections: []reportSection{summary, statusSection},
	}, nil
}

func (g *ReportGenerator) financialReport(req ReportRequest) (*reportData, error) {
	billed, err := g.sumOrders("total_amount", req.From, req.To, nil)
	if err != nil {
		return nil, err
	}
	paid := models.PaymentPaid
	collected, err := g.sumOrders("total_amount", req.From, req.To, &paid)
	if err != nil {
		return nil, err
	}
	outstanding, err := g.sumOrders("remaining_balance", req.From, req.To, nil)
	if err != nil {
		return nil, err
	}

	var commissionsApproved, commissionsPaid decimal.Decimal
	if err := g.db.Model(&models.Commission{}).
		Where("created_at BETWEEN ? AND ?", req.From, req.To).
		Select("COALESCE(SUM(amount), 0)").Scan(&commissionsApproved).Error; err != nil {
		return nil, fmt.Errorf("failed to sum commissions: %w", err)
	}
	if err := g.db.Model(&models.Commission{}).
		Where("created_at BETWEEN ? AND ? AND status = ?", req.From, req.To, models.CommissionPaid).
		Select("COALESCE(SUM(amount), 0)").Scan(&commissionsPaid).Error; err != nil {
		return nil, fmt.Errorf("failed to sum paid commissions: %w", err)
	}

	return &reportData{
		Title: "Financial Report",
		Sections: []reportSection{
			{
				Title:   "Revenue",
				Headers: []string{"Metric", "Amount"},
				Rows: [][]string{
					{"Billed", billed.StringFixed(2)},
					{"Collected", collected.StringFixed(2)},
					{"Outstanding Balances", outstanding.StringFixed(2)},
				},
			},
			{
				Title:   "Commissions",
				Headers: []string{"Metric", "Amount"},
				Rows: [][]string{
					{"Commissions Accrued", commissionsApproved.StringFixed(2)},
					{"Commissions Paid Out", commissionsPaid.StringFixed(2)},
					{"Net After Commissions", billed.Sub(commissionsApproved).StringFixed(2)},
				},
			},
		},
	}, nil
}

func (g *ReportGenerator) inventoryReport(req ReportRequest) (*reportData, error) {
	var fabrics []models.Fabric
	if err := g.db.Order("name ASC").Find(&fabrics).Error; err != nil {
		return nil, fmt.Errorf("failed to load fabrics: %w", err)
	}
	var accessories []models.Accessory
	if err := g.db.Order("name ASC").Find(&accessories).Error; err != nil {
		return nil, fmt.Errorf("failed to load accessories: %w", err)
	}

	fabricSection := reportSection{
		Title:   "Fabric Inventory",
		Headers: []string{"Name", "Quantity", "Unit", "Threshold", "Low Stock"},
	}
	for i := range fabrics {
		f := &fabrics[i]
		fabricSection.Rows = append(fabricSection.Rows, []string{
			f.Name, f.Quantity.StringFixed(2), f.UnitType,
			f.LowStockThreshold.StringFixed(2), yesNo(f.IsLowStock()),
		})
	}

	accessorySection := reportSection{
		Title:   "Accessory Inventory",
		Headers: []string{"Name", "Quantity", "Threshold", "Low Stock"},
	}
	for i := range accessories {
		a := &accessories[i]
		accessorySection.Rows = append(accessorySection.Rows, []string{
			a.Name, strconv.Itoa(a.Quantity), strconv.Itoa(a.LowStockThreshold), yesNo(a.IsLowStock()),
		})
	}

	return &reportData{
		Title:    "Inventory Report",
		Sections: []reportSection{fabricSection, accessorySection},
	}, nil
}

func (g *ReportGenerator) tailorPerformance(req ReportRequest) (*reportData, error) {
	var tailor models.Tailor
	if err := g.db.Preload("User").First(&tailor, req.TailorID).Error; err != nil {
		return nil, fmt.Errorf("failed to load tailor %d: %w", req.TailorID, err)
	}

	taskSection := reportSection{
		Title:   "Tasks",
		Headers: []string{"Status", "Count"},
	}
	for _, status := range []models.TaskStatus{
		models.TaskAssigned, models.TaskInProgress, models.TaskCompleted, models.TaskApproved,
	} {
		var count int64
		if err := g.db.Model(&models.Task{}).
			Where("tailor_id = ? AND assigned_at BETWEEN ? AND ? AND status = ?",
				tailor.ID, req.From, req.To, status).
			Count(&count).Error; err != nil {
			return nil, fmt.Errorf("failed to count tasks: %w", err)
		}
		taskSection.Rows = append(taskSection.Rows, []string{string(status), strconv.FormatInt(count, 10)})
	}

	var earned, paidOut decimal.Decimal
	if err := g.db.Model(&models.Commission{}).
		Where("tailor_id = ? AND created_at BETWEEN ? AND ?", tailor.ID, req.From, req.To).
		Select("COALESCE(SUM(amount), 0)").Scan(&earned).Error; err != nil {
		return nil, fmt.Errorf("failed to sum commissions: %w", err)
	}
	if err := g.db.Model(&models.Commission{}).
		Where("tailor_id = ? AND created_at BETWEEN ? AND ? AND status = ?",
			tailor.ID, req.From, req.To, models.CommissionPaid).
		Select("COALESCE(SUM(amount), 0)").Scan(&paidOut).Error; err != nil {
		return nil, fmt.Errorf("failed to sum paid commissions: %w", err)
	}

	commissionSection := reportSection{
		Title:   "Commissions",
		Headers: []string{"Metric", "Amount"},
		Rows: [][]string{
			{"Earned in Period", earned.StringFixed(2)},
			{"Paid Out", paidOut.StringFixed(2)},
		},
	}

	return &reportData{
		Title:    fmt.Sprintf("Tailor Performance Report - %s", tailor.User.Name),
		Sections: []reportSection{taskSection, commissionSection},
	}, nil
}

// sumOrders sums a decimal column over orders in the date range, optionally
// restricted to a payment status.
func (g *ReportGenerator) sumOrders(column string, from, to time.Time, paymentStatus *models.PaymentStatus) (decimal.Decimal, error) {
	var total decimal.Decimal
	query := g.db.Model(&models.Order{}).Where("created_at BETWEEN ? AND ?", from, to)
	if paymentStatus != nil {
		query = query.Where("payment_status = ?", *paymentStatus)
	}
	if err := query.Select("COALESCE(SUM(" + column + "), 0)").Scan(&total).Error; err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum %s: %w", column, err)
	}
	return total, nil
}

func yesNo(b bool) string {
	if b {
		return "YES"
	}
	return "no"
}

// renderPDF lays the report sections out as tables on an A4 page
func renderPDF(data *reportData, req ReportRequest) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, data.Title, "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	period := fmt.Sprintf("Period: %s to %s", req.From.Format("Jan 2, 2006"), req.To.Format("Jan 2, 2006"))
	pdf.CellFormat(0, 6, period, "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, "Generated: "+time.Now().Format("Jan 2, 2006 15:04"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	for _, section := range data.Sections {
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(0, 8, section.Title, "", 1, "L", false, 0, "")

		colWidth := 190.0 / float64(len(section.Headers))

		pdf.SetFont("Arial", "B", 9)
		pdf.SetFillColor(230, 230, 230)
		for _, header := range section.Headers {
			pdf.CellFormat(colWidth, 7, header, "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Arial", "", 9)
		for _, row := range section.Rows {
			for _, cell := range row {
				pdf.CellFormat(colWidth, 6, cell, "1", 0, "L", false, 0, "")
			}
			pdf.Ln(-1)
		}
		pdf.Ln(4)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// renderCSV writes each section as a titled block of rows
func renderCSV(data *reportData) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{data.Title}); err != nil {
		return nil, fmt.Errorf("failed to write CSV: %w", err)
	}

	for _, section := range data.Sections {
		if err := writer.Write([]string{}); err != nil {
			return nil, fmt.Errorf("failed to write CSV: %w", err)
		}
		if err := writer.Write([]string{section.Title}); err != nil {
			return nil, fmt.Errorf("failed to write CSV: %w", err)
		}
		if err := writer.Write(section.Headers); err != nil {
			return nil, fmt.Errorf("failed to write CSV: %w", err)
		}
		for _, row := range section.Rows {
			if err := writer.Write(row); err != nil {
				return nil, fmt.Errorf("failed to write CSV: %w", err)
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}
	return buf.Bytes(), nil
}
