package http_test

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/clinica-pro/internal/application/subscription"
	"github.com/tu-usuario/clinica-pro/internal/domain/entity"
	"github.com/tu-usuario/clinica-pro/internal/domain/lifecycle"
	apphttp "github.com/tu-usuario/clinica-pro/internal/interfaces/http"
	"github.com/tu-usuario/clinica-pro/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const webhookTestSecret = "webhook-secret-for-unit-tests"

type fakeWebhookSubRepo struct {
	subs map[string]*entity.Subscription
}

func (r *fakeWebhookSubRepo) Get(clinicID string) (*entity.Subscription, error) {
	return r.subs[clinicID], nil
}

func (r *fakeWebhookSubRepo) Upsert(sub *entity.Subscription) error {
	r.subs[sub.ClinicID] = sub
	return nil
}

func (r *fakeWebhookSubRepo) ListLapsed(now time.Time) ([]*entity.Subscription, error) {
	return nil, nil
}

type fakeWebhookClinicRepo struct {
	clinics map[string]*entity.Clinic
}

func (r *fakeWebhookClinicRepo) Create(clinic *entity.Clinic) error { return nil }

func (r *fakeWebhookClinicRepo) GetByID(id string) (*entity.Clinic, error) {
	return r.clinics[id], nil
}

func (r *fakeWebhookClinicRepo) Update(clinic *entity.Clinic) error { return nil }

func (r *fakeWebhookClinicRepo) List(limit, offset int) ([]*entity.Clinic, error) {
	return nil, nil
}

// buildWebhookApp monta solo la ruta pública de webhooks sobre una suscripción
// inicial dada. Devuelve el app y el repo para inspeccionar el estado final.
func buildWebhookApp(initial *entity.Subscription) (*fiber.App, *fakeWebhookSubRepo) {
	subRepo := &fakeWebhookSubRepo{subs: map[string]*entity.Subscription{}}
	if initial != nil {
		subRepo.subs[initial.ClinicID] = initial
	}
	clinicRepo := &fakeWebhookClinicRepo{clinics: map[string]*entity.Clinic{
		testClinicID: {ID: testClinicID, Name: "Clínica Demo", Status: "active"},
	}}
	uc := subscription.NewUseCase(subRepo, clinicRepo, subscription.Plans{
		Currency:     "COP",
		MonthlyPrice: 99000,
		AnnualPrice:  990000,
	}, nil)
	log := logger.New(logger.Config{Env: "production", Level: "error"})
	handler := apphttp.NewWebhookHandler(uc, webhookTestSecret, log)

	app := fiber.New()
	app.Post("/webhooks/payments", handler.HandlePayment)
	return app, subRepo
}

func signBody(body []byte) string {
	mac := hmac.New(sha256.New, []byte(webhookTestSecret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func postWebhook(t *testing.T, app *fiber.App, body []byte, signature string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhooks/payments", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set(apphttp.HeaderWebhookSignature, signature)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func activeSubscription() *entity.Subscription {
	start := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	return &entity.Subscription{
		ClinicID:           testClinicID,
		Plan:               lifecycle.PlanMonthly,
		Status:             lifecycle.SubActive,
		CurrentPeriodStart: &start,
		CurrentPeriodEnd:   &end,
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests webhook de pagos
// ──────────────────────────────────────────────────────────────────────────────

// Sin firma o con firma incorrecta el evento se descarta sin tocar el estado.
func TestWebhook_FirmaInvalida_Retorna401(t *testing.T) {
	app, repo := buildWebhookApp(activeSubscription())
	body := []byte(`{"event":"payment.failed","clinic_id":"` + testClinicID + `"}`)

	resp := postWebhook(t, app, body, "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "sin firma debe rechazarse")

	resp2 := postWebhook(t, app, body, "deadbeef")
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp2.StatusCode, "firma incorrecta debe rechazarse")

	assert.Equal(t, lifecycle.SubActive, repo.subs[testClinicID].Status,
		"un evento rechazado no debe mutar la suscripción")
}

// subscription.updated aplica la foto del proveedor tal cual sobre el estado
// local, incluso cuando el salto no sería una transición propia.
func TestWebhook_SubscriptionUpdated_AplicaSnapshotRemoto(t *testing.T) {
	app, repo := buildWebhookApp(activeSubscription())
	body := []byte(`{
		"event": "subscription.updated",
		"clinic_id": "` + testClinicID + `",
		"subscription": {
			"plan": "ANNUAL",
			"status": "cancelled"
		}
	}`)

	resp := postWebhook(t, app, body, signBody(body))
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	stored := repo.subs[testClinicID]
	assert.Equal(t, lifecycle.SubCancelled, stored.Status,
		"el estado remoto debe quedar persistido")
	assert.Equal(t, lifecycle.PlanAnnual, stored.Plan)
}

// subscription.updated sin la foto de suscripción es un payload inválido.
func TestWebhook_SubscriptionUpdated_SinSnapshot_Retorna400(t *testing.T) {
	app, _ := buildWebhookApp(activeSubscription())
	body := []byte(`{"event":"subscription.updated","clinic_id":"` + testClinicID + `"}`)

	resp := postWebhook(t, app, body, signBody(body))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// Un estado desconocido en la foto remota no debe sobreescribir el local.
func TestWebhook_SubscriptionUpdated_EstadoDesconocido_Retorna409(t *testing.T) {
	app, repo := buildWebhookApp(activeSubscription())
	body := []byte(`{
		"event": "subscription.updated",
		"clinic_id": "` + testClinicID + `",
		"subscription": {"plan": "MONTHLY", "status": "limbo"}
	}`)

	resp := postWebhook(t, app, body, signBody(body))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, lifecycle.SubActive, repo.subs[testClinicID].Status)
}

// payment.failed sigue el flujo normal de la máquina de estados.
func TestWebhook_PaymentFailed_PasaAPastDue(t *testing.T) {
	app, repo := buildWebhookApp(activeSubscription())
	body := []byte(`{"event":"payment.failed","clinic_id":"` + testClinicID + `"}`)

	resp := postWebhook(t, app, body, signBody(body))
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, lifecycle.SubPastDue, repo.subs[testClinicID].Status)
}

func TestWebhook_EventoDesconocido_Retorna400(t *testing.T) {
	app, _ := buildWebhookApp(activeSubscription())
	body := []byte(`{"event":"payment.refunded","clinic_id":"` + testClinicID + `"}`)

	resp := postWebhook(t, app, body, signBody(body))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
