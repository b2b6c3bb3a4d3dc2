package utils

import (
	"math/rand"
	"time"

	"github.com/anjiri1684/fee_collect/models"
	"gorm.io/gorm"
)

const receiptNumberLength = 8
const letterBytes = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

const ReceiptNumberPrefix = "RCP-"

// GenerateUniqueReceiptNumber returns a receipt number not yet attached to
// any payment. Runs inside the caller's transaction.
func GenerateUniqueReceiptNumber(tx *gorm.DB) (string, error) {
	seededRand := rand.New(rand.NewSource(time.Now().UnixNano()))

	for {
		b := make([]byte, receiptNumberLength)
		for i := range b {
			b[i] = letterBytes[seededRand.Intn(len(letterBytes))]
		}
		number := ReceiptNumberPrefix + string(b)

		var payment models.Payment
		err := tx.Where("receipt_number = ?", number).First(&payment).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return number, nil
			}
			return "", err
		}
	}
}
