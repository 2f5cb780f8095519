// Package jobs contiene los barridos programados: facturas pending vencidas
// pasan a overdue y suscripciones con periodo terminado pasan a expired.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/tu-usuario/clinica-pro/internal/application/billing"
	"github.com/tu-usuario/clinica-pro/internal/application/subscription"
	"github.com/tu-usuario/clinica-pro/pkg/config"
	"github.com/tu-usuario/clinica-pro/pkg/logger"
)

// Scheduler agrupa los cron jobs de la aplicación.
type Scheduler struct {
	cron    *cron.Cron
	log     *logger.Logger
	invoice *billing.InvoiceUseCase
	subs    *subscription.UseCase
	cfg     config.JobsConfig
}

// NewScheduler construye el scheduler con los casos de uso que ejecutan los barridos.
func NewScheduler(invoice *billing.InvoiceUseCase, subs *subscription.UseCase, cfg config.JobsConfig, log *logger.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		log:     log,
		invoice: invoice,
		subs:    subs,
		cfg:     cfg,
	}
}

// Start registra los jobs y arranca el cron. Con Jobs.Enabled en false no hace nada.
func (s *Scheduler) Start() error {
	if !s.cfg.Enabled {
		s.log.Info().Msg("jobs deshabilitados por configuración")
		return nil
	}

	if _, err := s.cron.AddFunc(s.cfg.OverdueSchedule, s.runOverdueSweep); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(s.cfg.ExpirySchedule, s.runExpirySweep); err != nil {
		return err
	}

	s.cron.Start()
	s.log.Info().
		Str("overdue_schedule", s.cfg.OverdueSchedule).
		Str("expiry_schedule", s.cfg.ExpirySchedule).
		Msg("jobs programados")
	return nil
}

// Stop detiene el cron y espera a que terminen los jobs en curso.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Scheduler) runOverdueSweep() {
	now := time.Now()
	count, err := s.invoice.MarkOverdue(context.Background(), now)
	if err != nil {
		s.log.Error().Err(err).Msg("barrido de facturas vencidas falló")
		return
	}
	if count > 0 {
		s.log.Info().Int("count", count).Msg("facturas marcadas overdue")
	}
}

func (s *Scheduler) runExpirySweep() {
	now := time.Now()
	count, err := s.subs.ExpireLapsed(context.Background(), now)
	if err != nil {
		s.log.Error().Err(err).Msg("barrido de suscripciones vencidas falló")
		return
	}
	if count > 0 {
		s.log.Info().Int("count", count).Msg("suscripciones expiradas")
	}
}
