package jobs

import (
	"fmt"
	"log"
	"time"

	"github.com/anjiri1684/fee_collect/models"
	"github.com/anjiri1684/fee_collect/notifications"
	"gorm.io/gorm"
)

// SendDeadlineReminders emails every student who has not yet paid for an
// event whose deadline falls within the next 48 hours.
func SendDeadlineReminders(db *gorm.DB) {
	log.Println("Running job: SendDeadlineReminders...")

	now := time.Now()
	upperBound := now.Add(48 * time.Hour)

	var upcomingEvents []models.Event
	if err := db.Where("deadline BETWEEN ? AND ?", now, upperBound).Find(&upcomingEvents).Error; err != nil {
		log.Printf("Error checking for upcoming deadlines: %v", err)
		return
	}
	if len(upcomingEvents) == 0 {
		return
	}

	var students []models.Student
	if err := db.Find(&students).Error; err != nil {
		log.Printf("Error fetching students for reminders: %v", err)
		return
	}

	for _, event := range upcomingEvents {
		var payments []models.Payment
		if err := db.Where("event_id = ? AND status IN ?", event.ID,
			[]string{models.PaymentStatusPaid, models.PaymentStatusVerification}).
			Find(&payments).Error; err != nil {
			log.Printf("Error fetching payments for event %s: %v", event.ID, err)
			continue
		}

		settled := make(map[string]bool, len(payments))
		for _, p := range payments {
			settled[p.StudentID.String()] = true
		}

		for _, student := range students {
			if settled[student.ID.String()] || student.Email == "" {
				continue
			}

			emailSubject := fmt.Sprintf("Reminder: %s fee due %s", event.Name, event.Deadline.Format("Jan 2"))
			emailBody := fmt.Sprintf(
				"<h1>Fee Reminder</h1><p>Hi %s,</p><p>The payment of ₹%.2f for <b>%s</b> is due by %s. Please complete your payment before the deadline.</p>",
				student.Name, event.Cost, event.Name, event.Deadline.Format("January 2, 2006"),
			)
			go notifications.SendEmail(student.Name, student.Email, emailSubject, emailBody)
		}
	}
}
