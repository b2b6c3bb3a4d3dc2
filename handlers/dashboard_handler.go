package handlers

import (
	"time"

	"github.com/anjiri1684/fee_collect/apperrors"
	"github.com/anjiri1684/fee_collect/models"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type DashboardHandler struct {
	DB *gorm.DB
}

func NewDashboardHandler(db *gorm.DB) *DashboardHandler {
	return &DashboardHandler{DB: db}
}

type DashboardTransaction struct {
	models.Payment
	StudentName string  `json:"studentName"`
	EventName   string  `json:"eventName"`
	EventCost   float64 `json:"eventCost"`
}

func toDashboardTransaction(p models.Payment) DashboardTransaction {
	return DashboardTransaction{
		Payment:     p,
		StudentName: p.Student.Name,
		EventName:   p.Event.Name,
		EventCost:   p.Event.Cost,
	}
}

// GetDashboardData returns everything the landing dashboard renders in one
// call: all events, all transactions, and the five most recent.
func (h *DashboardHandler) GetDashboardData(c *fiber.Ctx) error {
	var events []models.Event
	if err := h.DB.Find(&events).Error; err != nil {
		return fail(c, apperrors.Internal("Failed to fetch dashboard data"))
	}

	var transactions []models.Payment
	if err := h.DB.Preload("Student").Preload("Event").Find(&transactions).Error; err != nil {
		return fail(c, apperrors.Internal("Failed to fetch dashboard data"))
	}

	var recent []models.Payment
	if err := h.DB.Preload("Student").Preload("Event").
		Order("payment_date desc").Limit(5).
		Find(&recent).Error; err != nil {
		return fail(c, apperrors.Internal("Failed to fetch dashboard data"))
	}

	eventResponses := make([]EventResponse, 0, len(events))
	for _, e := range events {
		eventResponses = append(eventResponses, toEventResponse(e))
	}

	mapped := make([]DashboardTransaction, 0, len(transactions))
	for _, t := range transactions {
		mapped = append(mapped, toDashboardTransaction(t))
	}
	recentMapped := make([]DashboardTransaction, 0, len(recent))
	for _, t := range recent {
		recentMapped = append(recentMapped, toDashboardTransaction(t))
	}

	return success(c, fiber.Map{
		"events":             eventResponses,
		"transactions":       mapped,
		"recentTransactions": recentMapped,
	})
}

type StatisticsPoint struct {
	Date         string  `json:"date"`
	Collections  float64 `json:"collections"`
	Transactions int64   `json:"transactions"`
}

// GetStatistics returns collection totals bucketed by period: the last 7
// days, 8 weeks, or 6 months of Paid payments.
func (h *DashboardHandler) GetStatistics(c *fiber.Ctx) error {
	period := c.Query("period", "week")
	now := time.Now()

	var points []StatisticsPoint
	switch period {
	case "day":
		for i := 6; i >= 0; i-- {
			day := now.AddDate(0, 0, -i)
			start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
			end := start.AddDate(0, 0, 1)
			point, err := h.bucket(start, end, day.Format("Jan 02"))
			if err != nil {
				return fail(c, apperrors.Internal("Failed to fetch statistics"))
			}
			points = append(points, point)
		}
	case "month":
		for i := 5; i >= 0; i-- {
			month := now.AddDate(0, -i, 0)
			start := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, month.Location())
			end := start.AddDate(0, 1, 0)
			point, err := h.bucket(start, end, month.Format("Jan 2006"))
			if err != nil {
				return fail(c, apperrors.Internal("Failed to fetch statistics"))
			}
			points = append(points, point)
		}
	case "week":
		for i := 7; i >= 0; i-- {
			week := now.AddDate(0, 0, -7*i)
			start := startOfWeek(week)
			end := start.AddDate(0, 0, 7)
			point, err := h.bucket(start, end, "Week "+start.Format("Jan 02"))
			if err != nil {
				return fail(c, apperrors.Internal("Failed to fetch statistics"))
			}
			points = append(points, point)
		}
	default:
		return fail(c, apperrors.Validation("period must be day, week or month"))
	}

	return success(c, points)
}

func (h *DashboardHandler) bucket(start, end time.Time, label string) (StatisticsPoint, error) {
	var payments []models.Payment
	err := h.DB.
		Where("payment_date >= ? AND payment_date < ? AND status = ?",
			start, end, models.PaymentStatusPaid).
		Find(&payments).Error
	if err != nil {
		return StatisticsPoint{}, err
	}

	var total float64
	for _, p := range payments {
		total += p.Amount
	}

	return StatisticsPoint{
		Date:         label,
		Collections:  total,
		Transactions: int64(len(payments)),
	}, nil
}

func startOfWeek(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return day.AddDate(0, 0, -int(day.Weekday()))
}
