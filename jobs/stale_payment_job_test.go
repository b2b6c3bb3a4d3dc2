package jobs

import (
	"testing"
	"time"

	"github.com/anjiri1684/fee_collect/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openJobTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.Student{}, &models.Event{}, &models.Payment{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestExpireStalePayments(t *testing.T) {
	db := openJobTestDB(t)

	student := models.Student{RollNo: "R070", Name: "Student"}
	if err := db.Create(&student).Error; err != nil {
		t.Fatalf("seed student: %v", err)
	}
	event := models.Event{Name: "Sports Day", Deadline: time.Now(), Cost: 500, PaymentOptions: "[]"}
	if err := db.Create(&event).Error; err != nil {
		t.Fatalf("seed event: %v", err)
	}

	staleOrder := "order_stale"
	freshOrder := "order_fresh"
	staleAge := time.Now().Add(-8 * 24 * time.Hour)

	stale := models.Payment{
		Amount: 500, Status: models.PaymentStatusPending, RazorpayOrderID: &staleOrder,
		StudentID: student.ID, EventID: event.ID, CreatedAt: staleAge,
	}
	fresh := models.Payment{
		Amount: 500, Status: models.PaymentStatusPending, RazorpayOrderID: &freshOrder,
		StudentID: student.ID, EventID: event.ID,
	}
	manual := models.Payment{
		Amount: 500, Status: models.PaymentStatusPending, IsManualEntry: true,
		StudentID: student.ID, EventID: event.ID, CreatedAt: staleAge,
	}
	verification := models.Payment{
		Amount: 500, Status: models.PaymentStatusVerification,
		StudentID: student.ID, EventID: event.ID, CreatedAt: staleAge,
	}
	for _, p := range []*models.Payment{&stale, &fresh, &manual, &verification} {
		if err := db.Create(p).Error; err != nil {
			t.Fatalf("seed payment: %v", err)
		}
	}

	ExpireStalePayments(db)

	assertStatus := func(id interface{}, want string) {
		t.Helper()
		var p models.Payment
		if err := db.First(&p, "id = ?", id).Error; err != nil {
			t.Fatalf("load payment: %v", err)
		}
		if p.Status != want {
			t.Errorf("status = %q, want %q", p.Status, want)
		}
	}

	assertStatus(stale.ID, models.PaymentStatusFailed)
	assertStatus(fresh.ID, models.PaymentStatusPending)
	// Untouched: no gateway order behind it.
	assertStatus(manual.ID, models.PaymentStatusPending)
	assertStatus(verification.ID, models.PaymentStatusVerification)
}
