package utils

import (
	"strings"
	"testing"

	"github.com/anjiri1684/fee_collect/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.Payment{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestGenerateUniqueReceiptNumber(t *testing.T) {
	db := openTestDB(t)

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		number, err := GenerateUniqueReceiptNumber(db)
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		if !strings.HasPrefix(number, ReceiptNumberPrefix) {
			t.Errorf("number %q missing %s prefix", number, ReceiptNumberPrefix)
		}
		if len(number) != len(ReceiptNumberPrefix)+receiptNumberLength {
			t.Errorf("number %q has wrong length", number)
		}
		if seen[number] {
			t.Errorf("number %q generated twice", number)
		}
		seen[number] = true

		receiptNumber := number
		payment := models.Payment{Amount: 100, Status: models.PaymentStatusPaid, ReceiptNumber: &receiptNumber}
		if err := db.Create(&payment).Error; err != nil {
			t.Fatalf("persist payment: %v", err)
		}
	}
}

func TestGenerateUniqueReceiptNumberSkipsTaken(t *testing.T) {
	db := openTestDB(t)

	number, err := GenerateUniqueReceiptNumber(db)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	taken := models.Payment{Amount: 100, Status: models.PaymentStatusPaid, ReceiptNumber: &number}
	if err := db.Create(&taken).Error; err != nil {
		t.Fatalf("seed payment: %v", err)
	}

	next, err := GenerateUniqueReceiptNumber(db)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if next == number {
		t.Errorf("generated a receipt number already attached to a payment")
	}
}
