package routes

import (
	"github.com/anjiri1684/fee_collect/handlers"
	"github.com/anjiri1684/fee_collect/middleware"
	"github.com/gofiber/fiber/v2"
)

func StudentRoutes(app *fiber.App, h *handlers.StudentHandler) {
	api := app.Group("/api/v1")

	students := api.Group("/students", middleware.Protected())
	students.Post("/", h.AddStudent)
	students.Get("/", h.GetStudents)
	students.Post("/import", h.ImportStudentsCSV)
	students.Get("/:studentId/payments", h.GetStudentPayments)
}
