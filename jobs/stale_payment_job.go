package jobs

import (
	"log"
	"time"

	"github.com/anjiri1684/fee_collect/models"
	"gorm.io/gorm"
)

const stalePendingAge = 7 * 24 * time.Hour

// ExpireStalePayments fails gateway payments that have sat in Pending for
// over a week. Only rows that came through an order are touched; manual
// entries and verification submissions stay for an admin to resolve.
func ExpireStalePayments(db *gorm.DB) {
	log.Println("Running job: ExpireStalePayments...")

	cutoff := time.Now().Add(-stalePendingAge)

	result := db.Model(&models.Payment{}).
		Where("status = ? AND razorpay_order_id IS NOT NULL AND created_at < ?",
			models.PaymentStatusPending, cutoff).
		Update("status", models.PaymentStatusFailed)
	if result.Error != nil {
		log.Printf("Error expiring stale payments: %v", result.Error)
		return
	}

	if result.RowsAffected > 0 {
		log.Printf("Marked %d stale pending payments as failed", result.RowsAffected)
	}
}
