package handlers

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"github.com/anjiri1684/fee_collect/apperrors"
	"github.com/anjiri1684/fee_collect/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StudentHandler struct {
	DB *gorm.DB
}

func NewStudentHandler(db *gorm.DB) *StudentHandler {
	return &StudentHandler{DB: db}
}

type AddStudentRequest struct {
	Name       string `json:"name" validate:"required"`
	RollNumber string `json:"rollNumber" validate:"required"`
	Email      string `json:"email" validate:"omitempty,email"`
	Class      string `json:"class"`
}

var errRollNumberTaken = apperrors.Conflict("A student with this roll number already exists")

func (h *StudentHandler) AddStudent(c *fiber.Ctx) error {
	var req AddStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, apperrors.Validation("Cannot parse JSON"))
	}
	if err := validate.Struct(req); err != nil {
		return fail(c, apperrors.Validation(err.Error()))
	}

	var student models.Student
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.Student
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("roll_no = ?", req.RollNumber).First(&existing).Error
		if err == nil {
			return errRollNumberTaken
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		student = models.Student{
			Name:   req.Name,
			RollNo: req.RollNumber,
			Email:  req.Email,
			Class:  req.Class,
		}
		return tx.Create(&student).Error
	})
	if err != nil {
		if errors.Is(err, errRollNumberTaken) {
			return fail(c, errRollNumberTaken)
		}
		return fail(c, apperrors.Internal("Failed to add student"))
	}

	return created(c, student)
}

func (h *StudentHandler) GetStudents(c *fiber.Ctx) error {
	var students []models.Student
	if err := h.DB.Order("roll_no asc").Find(&students).Error; err != nil {
		return fail(c, apperrors.Internal("Failed to fetch students"))
	}
	return success(c, students)
}

type StudentLedgerTransaction struct {
	models.Payment
	EventName string `json:"eventName"`
}

// GetStudentPayments returns the student together with every payment they
// have made, newest first.
func (h *StudentHandler) GetStudentPayments(c *fiber.Ctx) error {
	studentID, err := uuid.Parse(c.Params("studentId"))
	if err != nil {
		return fail(c, apperrors.Validation("Invalid student ID format"))
	}

	var student models.Student
	if err := h.DB.First(&student, "id = ?", studentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fail(c, apperrors.NotFound("Student not found"))
		}
		return fail(c, apperrors.Internal("Failed to fetch student"))
	}

	var payments []models.Payment
	if err := h.DB.Preload("Event").
		Where("student_id = ?", studentID).
		Order("payment_date desc").
		Find(&payments).Error; err != nil {
		return fail(c, apperrors.Internal("Failed to fetch payments"))
	}

	transactions := make([]StudentLedgerTransaction, 0, len(payments))
	for _, p := range payments {
		transactions = append(transactions, StudentLedgerTransaction{Payment: p, EventName: p.Event.Name})
	}

	return success(c, fiber.Map{
		"student":      student,
		"transactions": transactions,
	})
}

// ImportStudentsCSV bulk-creates students from an uploaded CSV with the
// columns name,rollNo,email,class. Rows whose roll number already exists
// are skipped, not treated as errors.
func (h *StudentHandler) ImportStudentsCSV(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return fail(c, apperrors.Validation("Missing CSV file"))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return fail(c, apperrors.Internal("Failed to open uploaded file"))
	}
	defer file.Close()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return fail(c, apperrors.Validation("CSV file is empty"))
	}

	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	nameIdx, okName := col["name"]
	rollIdx, okRoll := col["rollno"]
	if !okName || !okRoll {
		return fail(c, apperrors.Validation("CSV must have name and rollNo columns"))
	}

	field := func(record []string, idx int, ok bool) string {
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}
	emailIdx, okEmail := col["email"]
	classIdx, okClass := col["class"]

	importedCount := 0
	skippedCount := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fail(c, apperrors.Validation("Malformed CSV row"))
		}

		name := field(record, nameIdx, true)
		rollNo := field(record, rollIdx, true)
		if name == "" || rollNo == "" {
			skippedCount++
			continue
		}

		var count int64
		if err := h.DB.Model(&models.Student{}).Where("roll_no = ?", rollNo).Count(&count).Error; err != nil {
			return fail(c, apperrors.Internal("Failed to import students"))
		}
		if count > 0 {
			skippedCount++
			continue
		}

		student := models.Student{
			Name:   name,
			RollNo: rollNo,
			Email:  field(record, emailIdx, okEmail),
			Class:  field(record, classIdx, okClass),
		}
		if err := h.DB.Create(&student).Error; err != nil {
			return fail(c, apperrors.Internal("Failed to import students"))
		}
		importedCount++
	}

	return success(c, fiber.Map{"imported": importedCount, "skipped": skippedCount})
}
