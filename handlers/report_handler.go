package handlers

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/anjiri1684/fee_collect/apperrors"
	"github.com/anjiri1684/fee_collect/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReportHandler struct {
	DB *gorm.DB
}

func NewReportHandler(db *gorm.DB) *ReportHandler {
	return &ReportHandler{DB: db}
}

func sendCSV(c *fiber.Ctx, filename string, b *bytes.Buffer) error {
	c.Set("Content-Type", "text/csv")
	c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	return c.Send(b.Bytes())
}

// GenerateTransactionReport streams a CSV of payments in a date range,
// optionally filtered by event and status.
func (h *ReportHandler) GenerateTransactionReport(c *fiber.Ctx) error {
	startDateStr := c.Query("start_date", time.Now().AddDate(0, -1, 0).Format("2006-01-02"))
	endDateStr := c.Query("end_date", time.Now().Format("2006-01-02"))

	startDate, err := time.Parse("2006-01-02", startDateStr)
	if err != nil {
		return fail(c, apperrors.Validation("Invalid start_date format. Use YYYY-MM-DD."))
	}
	endDate, err := time.Parse("2006-01-02", endDateStr)
	if err != nil {
		return fail(c, apperrors.Validation("Invalid end_date format. Use YYYY-MM-DD."))
	}
	endDate = endDate.Add(23*time.Hour + 59*time.Minute + 59*time.Second)

	query := h.DB.Preload("Student").Preload("Event").
		Where("payment_date BETWEEN ? AND ?", startDate, endDate).
		Order("payment_date desc")

	if eventIDStr := c.Query("event_id"); eventIDStr != "" {
		eventID, err := uuid.Parse(eventIDStr)
		if err != nil {
			return fail(c, apperrors.Validation("Invalid event_id format"))
		}
		query = query.Where("event_id = ?", eventID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var txns []models.Payment
	if err := query.Find(&txns).Error; err != nil {
		return fail(c, apperrors.Internal("Failed to fetch transactions"))
	}

	b := new(bytes.Buffer)
	w := csv.NewWriter(b)

	headers := []string{"Transaction ID", "Date", "Student Name", "Roll No", "Event", "Amount", "Method", "Status", "Receipt No"}
	if err := w.Write(headers); err != nil {
		return fail(c, apperrors.Internal("Failed to write CSV header"))
	}

	for _, t := range txns {
		row := []string{
			strPtr(t.TransactionID),
			t.PaymentDate.Format("2006-01-02 15:04"),
			t.Student.Name,
			t.Student.RollNo,
			t.Event.Name,
			fmt.Sprintf("%.2f", t.Amount),
			strPtr(t.PaymentMethod),
			t.Status,
			strPtr(t.ReceiptNumber),
		}
		if err := w.Write(row); err != nil {
			return fail(c, apperrors.Internal("Failed to write CSV row"))
		}
	}
	w.Flush()

	filename := fmt.Sprintf("transactions_%s_to_%s.csv",
		startDate.Format("2006-01-02"), endDate.Format("2006-01-02"))
	return sendCSV(c, filename, b)
}

// GenerateEventReport writes one CSV row per event with collection totals.
func (h *ReportHandler) GenerateEventReport(c *fiber.Ctx) error {
	var events []models.Event
	if err := h.DB.Preload("Payments").Order("deadline asc").Find(&events).Error; err != nil {
		return fail(c, apperrors.Internal("Failed to fetch events"))
	}

	b := new(bytes.Buffer)
	w := csv.NewWriter(b)

	headers := []string{"Event", "Category", "Deadline", "Cost", "Paid Count", "Pending Count", "Total Collected"}
	if err := w.Write(headers); err != nil {
		return fail(c, apperrors.Internal("Failed to write CSV header"))
	}

	for _, e := range events {
		var paidCount, pendingCount int
		var collected float64
		for _, p := range e.Payments {
			switch p.Status {
			case models.PaymentStatusPaid:
				paidCount++
				collected += p.Amount
			case models.PaymentStatusPending, models.PaymentStatusVerification:
				pendingCount++
			}
		}

		row := []string{
			e.Name,
			e.Category,
			e.Deadline.Format("2006-01-02"),
			fmt.Sprintf("%.2f", e.Cost),
			fmt.Sprintf("%d", paidCount),
			fmt.Sprintf("%d", pendingCount),
			fmt.Sprintf("%.2f", collected),
		}
		if err := w.Write(row); err != nil {
			return fail(c, apperrors.Internal("Failed to write CSV row"))
		}
	}
	w.Flush()

	return sendCSV(c, "event_report.csv", b)
}

// GenerateStudentWiseReport writes one CSV row per student with the events
// they have paid for and their total contribution.
func (h *ReportHandler) GenerateStudentWiseReport(c *fiber.Ctx) error {
	var students []models.Student
	if err := h.DB.Preload("Payments.Event").Order("roll_no asc").Find(&students).Error; err != nil {
		return fail(c, apperrors.Internal("Failed to fetch students"))
	}

	b := new(bytes.Buffer)
	w := csv.NewWriter(b)

	headers := []string{"Roll No", "Student Name", "Class", "Events Paid", "Total Paid"}
	if err := w.Write(headers); err != nil {
		return fail(c, apperrors.Internal("Failed to write CSV header"))
	}

	for _, s := range students {
		var eventsPaid int
		var totalPaid float64
		for _, p := range s.Payments {
			if p.Status == models.PaymentStatusPaid {
				eventsPaid++
				totalPaid += p.Amount
			}
		}

		row := []string{
			s.RollNo,
			s.Name,
			s.Class,
			fmt.Sprintf("%d", eventsPaid),
			fmt.Sprintf("%.2f", totalPaid),
		}
		if err := w.Write(row); err != nil {
			return fail(c, apperrors.Internal("Failed to write CSV row"))
		}
	}
	w.Flush()

	return sendCSV(c, "student_report.csv", b)
}

// GenerateSummary returns aggregate counts and totals by status as JSON for
// the reports page header.
func (h *ReportHandler) GenerateSummary(c *fiber.Ctx) error {
	type statusRow struct {
		Status string
		Count  int64
		Total  float64
	}

	var rows []statusRow
	if err := h.DB.Model(&models.Payment{}).
		Select("status, count(*) as count, coalesce(sum(amount), 0) as total").
		Group("status").
		Scan(&rows).Error; err != nil {
		return fail(c, apperrors.Internal("Failed to fetch summary"))
	}

	summary := fiber.Map{
		"totalCollected":      0.0,
		"paidCount":           int64(0),
		"pendingCount":        int64(0),
		"failedCount":         int64(0),
		"verificationPending": int64(0),
	}
	for _, r := range rows {
		switch r.Status {
		case models.PaymentStatusPaid:
			summary["totalCollected"] = r.Total
			summary["paidCount"] = r.Count
		case models.PaymentStatusPending:
			summary["pendingCount"] = r.Count
		case models.PaymentStatusFailed:
			summary["failedCount"] = r.Count
		case models.PaymentStatusVerification:
			summary["verificationPending"] = r.Count
		}
	}

	return success(c, summary)
}

func strPtr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
