package main

import (
	"log"
	"time"

	config "github.com/anjiri1684/fee_collect/configs"
	"github.com/anjiri1684/fee_collect/database"
	"github.com/anjiri1684/fee_collect/handlers"
	"github.com/anjiri1684/fee_collect/jobs"
	"github.com/anjiri1684/fee_collect/notifications"
	"github.com/anjiri1684/fee_collect/routes"
	"github.com/anjiri1684/fee_collect/services"
	"github.com/anjiri1684/fee_collect/session"
	ws "github.com/anjiri1684/fee_collect/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/robfig/cron/v3"
)

func main() {
	db := database.Connect()
	database.Migrate(db)
	database.SeedAdmin(db)
	notifications.InitEmailService()

	codec := session.NewCodec(config.MustConfig("SESSION_SECRET"))

	hub := ws.NewHub()
	go hub.Run()

	c := cron.New()
	c.AddFunc("0 8 * * *", func() { jobs.SendDeadlineReminders(db) })
	c.AddFunc("0 * * * *", func() { jobs.ExpireStalePayments(db) })
	go c.Start()
	log.Println("✅ Cron jobs scheduled successfully.")

	app := fiber.New(fiber.Config{
		AppName:       "Fee Collect",
		CaseSensitive: true,
		StrictRouting: false,
		ReadTimeout:   15 * time.Second,
		WriteTimeout:  15 * time.Second,
		IdleTimeout:   60 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}

			log.Printf("[ERROR] %v | Path: %s | Method: %s", err, c.Path(), c.Method())
			return c.Status(code).JSON(fiber.Map{
				"success": false,
				"error":   err.Error(),
			})
		},
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowHeaders:  "Origin, Content-Type, Accept, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowMethods:  "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "Content-Length, Content-Disposition",
		MaxAge:        86400,
	}))

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	authHandler := handlers.NewAuthHandler(db, codec)
	studentHandler := handlers.NewStudentHandler(db)
	eventHandler := handlers.NewEventHandler(db)
	paymentHandler := handlers.NewPaymentHandler(db, hub)
	manualHandler := handlers.NewManualPaymentHandler(db, hub)
	dashboardHandler := handlers.NewDashboardHandler(db)
	notificationHandler := handlers.NewNotificationHandler(db, hub)
	reportHandler := handlers.NewReportHandler(db)
	settingsHandler := handlers.NewSettingsHandler(db)
	printHandler := handlers.NewPrintHandler(db)
	receiptHandler := handlers.NewReceiptHandler(db, services.NewReceiptService(db))

	routes.AuthRoutes(app, authHandler, codec)
	routes.StudentRoutes(app, studentHandler)
	routes.EventRoutes(app, eventHandler, paymentHandler, printHandler)
	routes.PaymentRoutes(app, paymentHandler, manualHandler)
	routes.DashboardRoutes(app, dashboardHandler, notificationHandler)
	routes.ReportRoutes(app, reportHandler)
	routes.SettingsRoutes(app, settingsHandler)
	routes.UploadRoutes(app)
	routes.PrintRoutes(app, printHandler, receiptHandler)
	routes.FeedRoutes(app, hub, codec)

	log.Println("✅ Server is running on port 8080")
	if err := app.Listen(":8080"); err != nil {
		log.Fatalf("🔥 Server failed to start: %v", err)
	}
}
