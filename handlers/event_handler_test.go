package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/anjiri1684/fee_collect/models"
	"github.com/gofiber/fiber/v2"
)

func eventApp(h *EventHandler) *fiber.App {
	app := fiber.New()
	events := app.Group("/api/v1/events")
	events.Post("/", h.CreateEvent)
	events.Get("/", h.GetEvents)
	events.Get("/:eventId", h.GetEvent)
	events.Put("/:eventId", h.UpdateEvent)
	events.Delete("/:eventId", h.DeleteEvent)
	events.Get("/:eventId/pay", h.GetPaymentPageData)
	return app
}

func TestCreateEvent(t *testing.T) {
	db := setupTestDB(t)
	app := eventApp(NewEventHandler(db))

	deadline := time.Now().Add(14 * 24 * time.Hour).UTC().Truncate(time.Second)
	body, _ := json.Marshal(map[string]interface{}{
		"name":           "Annual Fest",
		"description":    "Two day cultural fest",
		"deadline":       deadline.Format(time.RFC3339),
		"cost":           750,
		"paymentOptions": []string{"UPI", "Cash"},
		"category":       "Cultural",
	})
	req := httptest.NewRequest("POST", "/api/v1/events/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}

	var envelope struct {
		Success bool `json:"success"`
		Data    struct {
			Name           string   `json:"name"`
			Cost           float64  `json:"cost"`
			PaymentOptions []string `json:"paymentOptions"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if envelope.Data.Name != "Annual Fest" {
		t.Errorf("name = %q", envelope.Data.Name)
	}
	if len(envelope.Data.PaymentOptions) != 2 || envelope.Data.PaymentOptions[0] != "UPI" {
		t.Errorf("paymentOptions = %v, want [UPI Cash]", envelope.Data.PaymentOptions)
	}

	var event models.Event
	if err := db.First(&event, "name = ?", "Annual Fest").Error; err != nil {
		t.Fatalf("load event: %v", err)
	}
	if event.PaymentOptions != `["UPI","Cash"]` {
		t.Errorf("stored paymentOptions = %q", event.PaymentOptions)
	}
}

func TestCreateEventRejectsBadDeadline(t *testing.T) {
	db := setupTestDB(t)
	app := eventApp(NewEventHandler(db))

	body, _ := json.Marshal(map[string]interface{}{
		"name":     "Annual Fest",
		"deadline": "31-12-2026",
		"cost":     750,
	})
	req := httptest.NewRequest("POST", "/api/v1/events/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestUpdateEvent(t *testing.T) {
	db := setupTestDB(t)
	app := eventApp(NewEventHandler(db))

	event := seedEvent(t, db, "Sports Day")

	deadline := time.Now().Add(30 * 24 * time.Hour).UTC().Truncate(time.Second)
	body, _ := json.Marshal(map[string]interface{}{
		"name":           "Sports Day 2026",
		"deadline":       deadline.Format(time.RFC3339),
		"cost":           900,
		"paymentOptions": []string{"UPI"},
		"category":       "Sports",
	})
	req := httptest.NewRequest("PUT", "/api/v1/events/"+event.ID.String(), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var updated models.Event
	if err := db.First(&updated, "id = ?", event.ID).Error; err != nil {
		t.Fatalf("load event: %v", err)
	}
	if updated.Name != "Sports Day 2026" || updated.Cost != 900 {
		t.Errorf("updated event = %q/%.2f, want Sports Day 2026/900.00", updated.Name, updated.Cost)
	}
}

func TestDeleteEvent(t *testing.T) {
	db := setupTestDB(t)
	app := eventApp(NewEventHandler(db))

	event := seedEvent(t, db, "Science Expo")

	req := httptest.NewRequest("DELETE", "/api/v1/events/"+event.ID.String(), nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var count int64
	db.Model(&models.Event{}).Where("id = ?", event.ID).Count(&count)
	if count != 0 {
		t.Error("event still present after delete")
	}

	resp, err = app.Test(httptest.NewRequest("DELETE", "/api/v1/events/"+event.ID.String(), nil), -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", resp.StatusCode)
	}
}

func TestGetPaymentPageData(t *testing.T) {
	db := setupTestDB(t)
	app := eventApp(NewEventHandler(db))

	event := seedEvent(t, db, "Annual Fest")
	paid := seedStudent(t, db, "R050")
	verifying := seedStudent(t, db, "R051")
	failed := seedStudent(t, db, "R052")
	fresh := seedStudent(t, db, "R053")

	for _, p := range []models.Payment{
		{Amount: 500, Status: models.PaymentStatusPaid, StudentID: paid.ID, EventID: event.ID},
		{Amount: 500, Status: models.PaymentStatusVerification, StudentID: verifying.ID, EventID: event.ID},
		{Amount: 500, Status: models.PaymentStatusFailed, StudentID: failed.ID, EventID: event.ID},
	} {
		payment := p
		if err := db.Create(&payment).Error; err != nil {
			t.Fatalf("seed payment: %v", err)
		}
	}

	req := httptest.NewRequest("GET", "/api/v1/events/"+event.ID.String()+"/pay", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var envelope struct {
		Success bool `json:"success"`
		Data    struct {
			Event struct {
				Name string `json:"name"`
			} `json:"event"`
			AvailableStudents []models.Student `json:"availableStudents"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if envelope.Data.Event.Name != event.Name {
		t.Errorf("event = %q, want %q", envelope.Data.Event.Name, event.Name)
	}

	rolls := make([]string, 0, len(envelope.Data.AvailableStudents))
	for _, s := range envelope.Data.AvailableStudents {
		rolls = append(rolls, s.RollNo)
	}
	// Paid and verification-pending students drop out; a failed attempt
	// leaves the student eligible to pay again.
	if len(rolls) != 2 || rolls[0] != failed.RollNo || rolls[1] != fresh.RollNo {
		t.Errorf("available rolls = %v, want [%s %s]", rolls, failed.RollNo, fresh.RollNo)
	}
}
