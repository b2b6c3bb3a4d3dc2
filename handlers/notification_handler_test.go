package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/anjiri1684/fee_collect/models"
	ws "github.com/anjiri1684/fee_collect/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func notificationApp(h *NotificationHandler) *fiber.App {
	app := fiber.New()
	notifications := app.Group("/api/v1/notifications")
	notifications.Get("/pending", h.GetPendingTransactions)
	notifications.Post("/:paymentId/approve", h.ApproveVerification)
	notifications.Post("/:paymentId/reject", h.RejectVerification)
	return app
}

func seedVerificationPayment(t *testing.T, db *gorm.DB, student models.Student, event models.Event) models.Payment {
	t.Helper()
	payment := models.Payment{
		Amount:    event.Cost,
		Status:    models.PaymentStatusVerification,
		StudentID: student.ID,
		EventID:   event.ID,
	}
	if err := db.Create(&payment).Error; err != nil {
		t.Fatalf("seed verification payment: %v", err)
	}
	return payment
}

func TestGetPendingTransactions(t *testing.T) {
	db := setupTestDB(t)
	app := notificationApp(NewNotificationHandler(db, ws.NewHub()))

	student := seedStudent(t, db, "R030")
	event := seedEvent(t, db, "Sports Day")
	seedVerificationPayment(t, db, student, event)

	paid := models.Payment{
		Amount: event.Cost, Status: models.PaymentStatusPaid,
		StudentID: student.ID, EventID: event.ID,
	}
	if err := db.Create(&paid).Error; err != nil {
		t.Fatalf("seed paid payment: %v", err)
	}

	req := httptest.NewRequest("GET", "/api/v1/notifications/pending", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var envelope struct {
		Success bool `json:"success"`
		Data    []struct {
			Status      string `json:"status"`
			StudentName string `json:"studentName"`
			StudentRoll string `json:"studentRoll"`
			EventName   string `json:"eventName"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if len(envelope.Data) != 1 {
		t.Fatalf("pending = %d, want 1", len(envelope.Data))
	}
	if envelope.Data[0].Status != models.PaymentStatusVerification {
		t.Errorf("status = %q, want Verification Pending", envelope.Data[0].Status)
	}
	if envelope.Data[0].StudentRoll != student.RollNo {
		t.Errorf("studentRoll = %q, want %q", envelope.Data[0].StudentRoll, student.RollNo)
	}
	if envelope.Data[0].EventName != event.Name {
		t.Errorf("eventName = %q, want %q", envelope.Data[0].EventName, event.Name)
	}
}

func TestApproveVerification(t *testing.T) {
	db := setupTestDB(t)
	app := notificationApp(NewNotificationHandler(db, ws.NewHub()))

	student := seedStudent(t, db, "R031")
	event := seedEvent(t, db, "Annual Fest")
	payment := seedVerificationPayment(t, db, student, event)

	req := httptest.NewRequest("POST", "/api/v1/notifications/"+payment.ID.String()+"/approve", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var updated models.Payment
	if err := db.First(&updated, "id = ?", payment.ID).Error; err != nil {
		t.Fatalf("load payment: %v", err)
	}
	if updated.Status != models.PaymentStatusPaid {
		t.Errorf("status = %q, want Paid", updated.Status)
	}
}

func TestRejectVerification(t *testing.T) {
	db := setupTestDB(t)
	app := notificationApp(NewNotificationHandler(db, ws.NewHub()))

	student := seedStudent(t, db, "R032")
	event := seedEvent(t, db, "Science Expo")
	payment := seedVerificationPayment(t, db, student, event)

	req := httptest.NewRequest("POST", "/api/v1/notifications/"+payment.ID.String()+"/reject", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var updated models.Payment
	if err := db.First(&updated, "id = ?", payment.ID).Error; err != nil {
		t.Fatalf("load payment: %v", err)
	}
	if updated.Status != models.PaymentStatusFailed {
		t.Errorf("status = %q, want Failed", updated.Status)
	}
}

func TestResolveVerificationConflicts(t *testing.T) {
	db := setupTestDB(t)
	app := notificationApp(NewNotificationHandler(db, ws.NewHub()))

	student := seedStudent(t, db, "R033")
	event := seedEvent(t, db, "Sports Day")

	paid := models.Payment{
		Amount: event.Cost, Status: models.PaymentStatusPaid,
		StudentID: student.ID, EventID: event.ID,
	}
	if err := db.Create(&paid).Error; err != nil {
		t.Fatalf("seed paid payment: %v", err)
	}

	req := httptest.NewRequest("POST", "/api/v1/notifications/"+paid.ID.String()+"/approve", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusConflict {
		t.Errorf("status = %d, want 409 for a payment not awaiting verification", resp.StatusCode)
	}

	req = httptest.NewRequest("POST", "/api/v1/notifications/"+uuid.NewString()+"/approve", nil)
	resp, err = app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("status = %d, want 404 for unknown payment", resp.StatusCode)
	}
}
