package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/clinica-pro/internal/application/auth"
	"github.com/tu-usuario/clinica-pro/internal/application/billing"
	"github.com/tu-usuario/clinica-pro/internal/application/inventory"
	"github.com/tu-usuario/clinica-pro/internal/application/subscription"
	"github.com/tu-usuario/clinica-pro/internal/application/usecase"
	"github.com/tu-usuario/clinica-pro/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.AuthUseCase
	PatientUC      *usecase.PatientUseCase
	AppointmentUC  *usecase.AppointmentUseCase
	PrescriptionUC *usecase.PrescriptionUseCase
	SettingsUC     *usecase.SettingsUseCase
	InvoiceUC      *billing.InvoiceUseCase
	PDFUC          *billing.PDFUseCase
	InventoryUC    *inventory.UseCase
	SubscriptionUC *subscription.UseCase
	JWTSecret      string
	WebhookSecret  string
	Log            *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Webhooks del proveedor de pagos (público, firmado con HMAC)
	webhookHandler := NewWebhookHandler(deps.SubscriptionUC, deps.WebhookSecret, deps.Log)
	api.Post("/webhooks/payments", webhookHandler.HandlePayment)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Users (solo admin puede invitar usuarios a su clínica)
	users := protected.Group("/users", RequireRole("admin"))
	users.Post("/", authHandler.RegisterUser)

	// Patients (protegido)
	patients := protected.Group("/patients")
	patientHandler := NewPatientHandler(deps.PatientUC)
	patients.Post("/", patientHandler.Create)
	patients.Get("/", patientHandler.List)
	patients.Get("/:id", patientHandler.GetByID)
	patients.Put("/:id", patientHandler.Update)
	patients.Delete("/:id", patientHandler.Delete)

	// Appointments (protegido)
	appointments := protected.Group("/appointments")
	appointmentHandler := NewAppointmentHandler(deps.AppointmentUC)
	appointments.Post("/", appointmentHandler.Create)
	appointments.Get("/", appointmentHandler.List)
	appointments.Get("/:id", appointmentHandler.GetByID)
	appointments.Put("/:id", appointmentHandler.Update)
	appointments.Delete("/:id", appointmentHandler.Delete)
	patients.Get("/:id/appointments", appointmentHandler.ListByPatient)

	// Prescriptions (protegido)
	prescriptions := protected.Group("/prescriptions")
	prescriptionHandler := NewPrescriptionHandler(deps.PrescriptionUC)
	prescriptions.Post("/", prescriptionHandler.Create)
	prescriptions.Get("/", prescriptionHandler.List)
	prescriptions.Get("/:id", prescriptionHandler.GetByID)
	prescriptions.Put("/:id", prescriptionHandler.Update)
	prescriptions.Delete("/:id", prescriptionHandler.Delete)
	patients.Get("/:id/prescriptions", prescriptionHandler.ListByPatient)

	// Invoices (protegido, facturación)
	invoices := protected.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.PDFUC)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Put("/:id", invoiceHandler.Update)
	invoices.Delete("/:id/items/:idx", invoiceHandler.RemoveItem)
	invoices.Post("/:id/issue", invoiceHandler.Issue)
	invoices.Post("/:id/cancel", invoiceHandler.Cancel)
	invoices.Post("/:id/payments", invoiceHandler.RecordPayment)
	invoices.Get("/:id/pdf", invoiceHandler.DownloadPDF)

	// Inventory (protegido)
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.InventoryUC)
	invGroup.Post("/items", inventoryHandler.CreateItem)
	invGroup.Get("/items", inventoryHandler.ListItems)
	invGroup.Get("/items/low-stock", inventoryHandler.ListLowStock)
	invGroup.Get("/items/:id", inventoryHandler.GetItem)
	invGroup.Put("/items/:id", inventoryHandler.UpdateItem)
	invGroup.Delete("/items/:id", inventoryHandler.DeleteItem)
	invGroup.Post("/items/:id/adjustments", inventoryHandler.AdjustStock)
	invGroup.Post("/suppliers", inventoryHandler.CreateSupplier)
	invGroup.Get("/suppliers", inventoryHandler.ListSuppliers)
	invGroup.Put("/suppliers/:id", inventoryHandler.UpdateSupplier)
	invGroup.Post("/purchase-orders", inventoryHandler.CreateOrder)
	invGroup.Get("/purchase-orders", inventoryHandler.ListOrders)
	invGroup.Get("/purchase-orders/:id", inventoryHandler.GetOrder)
	invGroup.Patch("/purchase-orders/:id/status", inventoryHandler.UpdateOrderStatus)

	// Subscription (protegido)
	subs := protected.Group("/subscription")
	subscriptionHandler := NewSubscriptionHandler(deps.SubscriptionUC)
	subs.Get("/", subscriptionHandler.Status)
	subs.Get("/plans", subscriptionHandler.ListPlans)
	subs.Post("/trial", subscriptionHandler.StartTrial)
	subs.Post("/payments", subscriptionHandler.ConfirmPayment)
	subs.Post("/cancel", subscriptionHandler.Cancel)

	// Settings (lectura para todos; escritura solo admin)
	settings := protected.Group("/settings")
	settingsHandler := NewSettingsHandler(deps.SettingsUC)
	settings.Get("/", settingsHandler.Get)
	settings.Put("/", RequireRole("admin"), settingsHandler.Update)
}
