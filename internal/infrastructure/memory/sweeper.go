package memory

import (
	"github.com/robfig/cron/v3"

	"github.com/jhoicas/Cava-api/pkg/logger"
)

// Sweeper barre periódicamente el almacén de planes con un job de cron.
type Sweeper struct {
	cron  *cron.Cron
	store *PlanStore
	log   *logger.Logger
}

// NewSweeper registra el barrido con la expresión spec (p. ej. "@every 1m").
func NewSweeper(store *PlanStore, spec string, log *logger.Logger) (*Sweeper, error) {
	s := &Sweeper{cron: cron.New(), store: store, log: log}
	if _, err := s.cron.AddFunc(spec, s.run); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Sweeper) run() {
	if n := s.store.Sweep(); n > 0 {
		s.log.Debug().Int("plans", n).Msg("planes de reconfiguración expirados eliminados")
	}
}

// Start arranca el planificador en segundo plano.
func (s *Sweeper) Start() { s.cron.Start() }

// Stop detiene el planificador y espera al job en curso.
func (s *Sweeper) Stop() { <-s.cron.Stop().Done() }
