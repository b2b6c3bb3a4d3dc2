// Command migrate copies the legacy SQLite database into Postgres. It is a
// one-shot, single-threaded copy with per-row existence checks, safe to
// re-run. Legacy string ids are remapped to fresh UUIDs; relations survive
// through an in-memory id map.
package main

import (
	"database/sql"
	"log"
	"time"

	config "github.com/anjiri1684/fee_collect/configs"
	"github.com/anjiri1684/fee_collect/database"
	"github.com/anjiri1684/fee_collect/models"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

func main() {
	sqlitePath := config.Config("SQLITE_PATH")
	if sqlitePath == "" {
		sqlitePath = "prisma/dev.db"
	}

	log.Printf("📂 Reading from SQLite DB at: %s", sqlitePath)
	legacy, err := sql.Open("sqlite3", sqlitePath)
	if err != nil {
		log.Fatalf("🔥 Failed to open SQLite DB: %v", err)
	}
	defer legacy.Close()

	db := database.Connect()
	database.Migrate(db)

	studentIDs := map[string]uuid.UUID{}
	eventIDs := map[string]uuid.UUID{}

	migrateUsers(legacy, db)
	migrateStudents(legacy, db, studentIDs)
	migrateEvents(legacy, db, eventIDs)
	migrateQrCodes(legacy, db)
	migratePayments(legacy, db, studentIDs, eventIDs)
	migratePrintDistributions(legacy, db, studentIDs, eventIDs)

	log.Println("🎉 Migration complete!")
}

func parseLegacyTime(raw sql.NullString) time.Time {
	if !raw.Valid {
		return time.Now()
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, raw.String); err == nil {
			return t
		}
	}
	return time.Now()
}

func strOrNil(raw sql.NullString) *string {
	if !raw.Valid || raw.String == "" {
		return nil
	}
	s := raw.String
	return &s
}

func migrateUsers(legacy *sql.DB, db *gorm.DB) {
	log.Println("Migrating Users...")
	rows, err := legacy.Query(`SELECT email, password, name, role FROM User`)
	if err != nil {
		log.Printf("⚠️ Skipping Users: %v", err)
		return
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var email, password, name, role string
		if err := rows.Scan(&email, &password, &name, &role); err != nil {
			log.Fatalf("🔥 Failed to scan user row: %v", err)
		}

		var existing int64
		db.Model(&models.User{}).Where("email = ?", email).Count(&existing)
		if existing > 0 {
			continue
		}

		user := models.User{Email: email, Password: password, Name: name, Role: role}
		if err := db.Create(&user).Error; err != nil {
			log.Fatalf("🔥 Failed to migrate user %s: %v", email, err)
		}
		count++
	}
	log.Printf("✅ Users migrated: %d", count)
}

func migrateStudents(legacy *sql.DB, db *gorm.DB, studentIDs map[string]uuid.UUID) {
	log.Println("Migrating Students...")
	rows, err := legacy.Query(`SELECT id, rollNo, name, email, class, createdAt FROM Student`)
	if err != nil {
		log.Printf("⚠️ Skipping Students: %v", err)
		return
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var legacyID, rollNo, name string
		var email, class, createdAt sql.NullString
		if err := rows.Scan(&legacyID, &rollNo, &name, &email, &class, &createdAt); err != nil {
			log.Fatalf("🔥 Failed to scan student row: %v", err)
		}

		var existing models.Student
		if err := db.Where("roll_no = ?", rollNo).First(&existing).Error; err == nil {
			studentIDs[legacyID] = existing.ID
			continue
		}

		student := models.Student{
			RollNo:    rollNo,
			Name:      name,
			Email:     email.String,
			Class:     class.String,
			CreatedAt: parseLegacyTime(createdAt),
		}
		if err := db.Create(&student).Error; err != nil {
			log.Fatalf("🔥 Failed to migrate student %s: %v", rollNo, err)
		}
		studentIDs[legacyID] = student.ID
		count++
	}
	log.Printf("✅ Students migrated: %d", count)
}

func migrateEvents(legacy *sql.DB, db *gorm.DB, eventIDs map[string]uuid.UUID) {
	log.Println("Migrating Events...")
	rows, err := legacy.Query(`SELECT id, name, description, deadline, cost, paymentOptions, qrCodeUrl, category, createdAt FROM Event`)
	if err != nil {
		log.Printf("⚠️ Skipping Events: %v", err)
		return
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var legacyID, name string
		var description, deadline, paymentOptions, qrCodeURL, category, createdAt sql.NullString
		var cost float64
		if err := rows.Scan(&legacyID, &name, &description, &deadline, &cost, &paymentOptions, &qrCodeURL, &category, &createdAt); err != nil {
			log.Fatalf("🔥 Failed to scan event row: %v", err)
		}

		deadlineTime := parseLegacyTime(deadline)

		var existing models.Event
		if err := db.Where("name = ? AND deadline = ?", name, deadlineTime).First(&existing).Error; err == nil {
			eventIDs[legacyID] = existing.ID
			continue
		}

		options := paymentOptions.String
		if options == "" {
			options = "[]"
		}
		event := models.Event{
			Name:           name,
			Description:    description.String,
			Deadline:       deadlineTime,
			Cost:           cost,
			PaymentOptions: options,
			QrCodeURL:      strOrNil(qrCodeURL),
			Category:       category.String,
			CreatedAt:      parseLegacyTime(createdAt),
		}
		if err := db.Create(&event).Error; err != nil {
			log.Fatalf("🔥 Failed to migrate event %s: %v", name, err)
		}
		eventIDs[legacyID] = event.ID
		count++
	}
	log.Printf("✅ Events migrated: %d", count)
}

func migrateQrCodes(legacy *sql.DB, db *gorm.DB) {
	log.Println("Migrating QrCodes...")
	rows, err := legacy.Query(`SELECT name, url FROM QrCode`)
	if err != nil {
		log.Println("⚠️ Skipping QrCodes (table might not exist)")
		return
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var name, url string
		if err := rows.Scan(&name, &url); err != nil {
			log.Fatalf("🔥 Failed to scan qr code row: %v", err)
		}

		var existing int64
		db.Model(&models.QrCode{}).Where("name = ? AND url = ?", name, url).Count(&existing)
		if existing > 0 {
			continue
		}

		if err := db.Create(&models.QrCode{Name: name, URL: url}).Error; err != nil {
			log.Fatalf("🔥 Failed to migrate qr code %s: %v", name, err)
		}
		count++
	}
	log.Printf("✅ QrCodes migrated: %d", count)
}

func migratePayments(legacy *sql.DB, db *gorm.DB, studentIDs, eventIDs map[string]uuid.UUID) {
	log.Println("Migrating Payments...")
	rows, err := legacy.Query(`SELECT id, amount, paymentDate, transactionId, status, paymentMethod,
		screenshotUrl, razorpay_order_id, isManualEntry, recordedBy, manualEntryNotes, receiptNumber,
		studentId, eventId, createdAt FROM Payment`)
	if err != nil {
		log.Printf("⚠️ Skipping Payments: %v", err)
		return
	}
	defer rows.Close()

	successCount := 0
	skipCount := 0
	for rows.Next() {
		var legacyID, status, legacyStudentID, legacyEventID string
		var amount float64
		var paymentDate, transactionID, paymentMethod, screenshotURL, orderID,
			recordedBy, notes, receiptNumber, createdAt sql.NullString
		var isManualEntry bool
		if err := rows.Scan(&legacyID, &amount, &paymentDate, &transactionID, &status, &paymentMethod,
			&screenshotURL, &orderID, &isManualEntry, &recordedBy, &notes, &receiptNumber,
			&legacyStudentID, &legacyEventID, &createdAt); err != nil {
			log.Fatalf("🔥 Failed to scan payment row: %v", err)
		}

		studentID, okStudent := studentIDs[legacyStudentID]
		eventID, okEvent := eventIDs[legacyEventID]
		if !okStudent || !okEvent {
			log.Printf("Skipping payment %s: missing relation", legacyID)
			skipCount++
			continue
		}

		if txn := strOrNil(transactionID); txn != nil {
			var existing int64
			db.Model(&models.Payment{}).Where("transaction_id = ?", *txn).Count(&existing)
			if existing > 0 {
				skipCount++
				continue
			}
		}

		payment := models.Payment{
			Amount:           amount,
			PaymentDate:      parseLegacyTime(paymentDate),
			TransactionID:    strOrNil(transactionID),
			Status:           status,
			PaymentMethod:    strOrNil(paymentMethod),
			ScreenshotURL:    strOrNil(screenshotURL),
			RazorpayOrderID:  strOrNil(orderID),
			IsManualEntry:    isManualEntry,
			ManualEntryNotes: strOrNil(notes),
			ReceiptNumber:    strOrNil(receiptNumber),
			StudentID:        studentID,
			EventID:          eventID,
			CreatedAt:        parseLegacyTime(createdAt),
		}
		if err := db.Create(&payment).Error; err != nil {
			log.Fatalf("🔥 Failed to migrate payment %s: %v", legacyID, err)
		}
		successCount++
	}
	log.Printf("✅ Payments migrated: %d success, %d skipped", successCount, skipCount)
}

func migratePrintDistributions(legacy *sql.DB, db *gorm.DB, studentIDs, eventIDs map[string]uuid.UUID) {
	log.Println("Migrating PrintDistributions...")
	rows, err := legacy.Query(`SELECT id, distributedAt, studentId, eventId FROM PrintDistribution`)
	if err != nil {
		log.Println("⚠️ No PrintDistribution table, skipping")
		return
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var legacyID, legacyStudentID, legacyEventID string
		var distributedAt sql.NullString
		if err := rows.Scan(&legacyID, &distributedAt, &legacyStudentID, &legacyEventID); err != nil {
			log.Fatalf("🔥 Failed to scan print distribution row: %v", err)
		}

		studentID, okStudent := studentIDs[legacyStudentID]
		eventID, okEvent := eventIDs[legacyEventID]
		if !okStudent || !okEvent {
			log.Printf("Skipping distribution %s: missing relation", legacyID)
			continue
		}

		var existing int64
		db.Model(&models.PrintDistribution{}).
			Where("student_id = ? AND event_id = ?", studentID, eventID).
			Count(&existing)
		if existing > 0 {
			continue
		}

		distribution := models.PrintDistribution{
			DistributedAt: parseLegacyTime(distributedAt),
			StudentID:     studentID,
			EventID:       eventID,
		}
		if err := db.Create(&distribution).Error; err != nil {
			log.Fatalf("🔥 Failed to migrate distribution %s: %v", legacyID, err)
		}
		count++
	}
	log.Printf("✅ PrintDistributions migrated: %d", count)
}
