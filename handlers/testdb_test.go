package handlers

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/anjiri1684/fee_collect/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens an isolated in-memory database per test.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Student{},
		&models.Event{},
		&models.Payment{},
		&models.QrCode{},
		&models.PrintDistribution{},
	)
	if err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func seedStudent(t *testing.T, db *gorm.DB, rollNo string) models.Student {
	t.Helper()
	student := models.Student{
		RollNo: rollNo,
		Name:   "Student " + rollNo,
		Email:  rollNo + "@school.test",
		Class:  "10A",
	}
	if err := db.Create(&student).Error; err != nil {
		t.Fatalf("seed student: %v", err)
	}
	return student
}

func seedEvent(t *testing.T, db *gorm.DB, name string) models.Event {
	t.Helper()
	options, _ := json.Marshal([]string{"UPI", "Cash"})
	event := models.Event{
		Name:           name,
		Description:    "Annual " + name,
		Deadline:       time.Now().Add(7 * 24 * time.Hour),
		Cost:           500,
		PaymentOptions: string(options),
		Category:       "Cultural",
	}
	if err := db.Create(&event).Error; err != nil {
		t.Fatalf("seed event: %v", err)
	}
	return event
}
