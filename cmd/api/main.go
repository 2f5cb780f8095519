package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/tu-usuario/clinica-pro/internal/application/auth"
	"github.com/tu-usuario/clinica-pro/internal/application/billing"
	"github.com/tu-usuario/clinica-pro/internal/application/inventory"
	"github.com/tu-usuario/clinica-pro/internal/application/subscription"
	"github.com/tu-usuario/clinica-pro/internal/application/usecase"
	"github.com/tu-usuario/clinica-pro/internal/infrastructure/jobs"
	infrapdf "github.com/tu-usuario/clinica-pro/internal/infrastructure/pdf"
	"github.com/tu-usuario/clinica-pro/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/clinica-pro/internal/interfaces/http"
	"github.com/tu-usuario/clinica-pro/pkg/config"
	"github.com/tu-usuario/clinica-pro/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	clinicRepo := postgres.NewClinicRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	patientRepo := postgres.NewPatientRepository(pool)
	appointmentRepo := postgres.NewAppointmentRepository(pool)
	prescriptionRepo := postgres.NewPrescriptionRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	itemRepo := postgres.NewInventoryRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	poRepo := postgres.NewPurchaseOrderRepository(pool)
	subscriptionRepo := postgres.NewSubscriptionRepository(pool)
	settingsRepo := postgres.NewSettingsRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	authUC := auth.NewAuthUseCase(userRepo, clinicRepo, subscriptionRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	patientUC := usecase.NewPatientUseCase(patientRepo)
	appointmentUC := usecase.NewAppointmentUseCase(appointmentRepo, patientRepo)
	prescriptionUC := usecase.NewPrescriptionUseCase(prescriptionRepo, patientRepo)
	settingsUC := usecase.NewSettingsUseCase(settingsRepo, usecase.SettingsDefaults{
		Currency:      cfg.Billing.Currency,
		InvoicePrefix: cfg.Billing.InvoicePrefix,
		DueDays:       cfg.Billing.DueDays,
	})

	invoiceUC := billing.NewInvoiceUseCase(txRunner, invoiceRepo, patientRepo, settingsRepo, billing.Defaults{
		Currency: cfg.Billing.Currency,
		Prefix:   cfg.Billing.InvoicePrefix,
		DueDays:  cfg.Billing.DueDays,
	})

	// PDF: representación imprimible de facturas emitidas
	pdfGenerator := infrapdf.NewMarotoPDFGenerator()
	pdfUC := billing.NewPDFUseCase(invoiceRepo, clinicRepo, settingsRepo, pdfGenerator)

	inventoryUC := inventory.NewUseCase(txRunner, itemRepo, supplierRepo, poRepo)
	subscriptionUC := subscription.NewUseCase(subscriptionRepo, clinicRepo, subscription.Plans{
		Currency:     cfg.Billing.Currency,
		MonthlyPrice: cfg.Payment.MonthlyPrice,
		AnnualPrice:  cfg.Payment.AnnualPrice,
	}, nil)

	scheduler := jobs.NewScheduler(invoiceUC, subscriptionUC, cfg.Jobs, log)
	if err := scheduler.Start(); err != nil {
		log.Fatal().Err(err).Msg("arranque de jobs programados")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:         authUC,
		PatientUC:      patientUC,
		AppointmentUC:  appointmentUC,
		PrescriptionUC: prescriptionUC,
		SettingsUC:     settingsUC,
		InvoiceUC:      invoiceUC,
		PDFUC:          pdfUC,
		InventoryUC:    inventoryUC,
		SubscriptionUC: subscriptionUC,
		JWTSecret:      cfg.JWT.Secret,
		WebhookSecret:  cfg.Payment.WebhookSecret,
		Log:            log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	scheduler.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
