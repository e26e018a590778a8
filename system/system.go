package system

import (
	"errors"
	"fmt"

	"github.com/aerth/studiod/config"
	"github.com/aerth/studiod/contactdb"
	"github.com/aerth/studiod/i/mailer"
	"github.com/aerth/studiod/metrics"
	"go.uber.org/zap"
)

// System holds everything the handlers share. The only mutable state lives in
// the contact store.
type System struct {
	config   *config.Config
	log      *zap.Logger
	contacts *contactdb.Store
	metrics  *metrics.Collector
	mailer   mailer.Notifier
	devmode  bool
}

// New opens the contact store under config.Meta.PathData and wires the
// integrations. config should already have passed config.CheckConfig.
func New(config *config.Config, log *zap.Logger) (*System, error) {
	if config == nil {
		return nil, errors.New("nil config")
	}
	if log == nil {
		log = zap.NewNop()
	}
	contacts, err := contactdb.Open(config.Meta.PathData)
	if err != nil {
		return nil, fmt.Errorf("boot error: %w", err)
	}
	log.Info("contact store ready", zap.String("path", contacts.Path()))

	return &System{
		config:   config,
		log:      log,
		contacts: contacts,
		metrics:  metrics.New(config.Meta.ServiceName),
		mailer:   mailer.New(log, config.Meta.ContactEmail),
		devmode:  config.DevelopmentMode(),
	}, nil
}

func (s *System) Config() *config.Config {
	return s.config
}

func (s *System) Metrics() *metrics.Collector {
	return s.metrics
}

func (s *System) Contacts() *contactdb.Store {
	return s.contacts
}

// SetNotifier replaces the contact notifier.
func (s *System) SetNotifier(n mailer.Notifier) {
	s.mailer = n
}
