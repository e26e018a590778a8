// Package mailer announces new contact submissions.
//
// No mail is sent. The Logger notifier writes what would have been emailed to
// the application log.
package mailer

import (
	"github.com/aerth/studiod/contactdb"
	"go.uber.org/zap"
)

type Notifier interface {
	NotifyContact(r contactdb.Record) error
}

type Logger struct {
	log *zap.Logger
	to  string
}

// New returns a Notifier logging to l. to is only used in the log line.
func New(l *zap.Logger, to string) *Logger {
	if l == nil {
		l = zap.NewNop()
	}
	return &Logger{log: l.Named("mailer"), to: to}
}

func (m *Logger) NotifyContact(r contactdb.Record) error {
	m.log.Info("new contact submission (email delivery not configured)",
		zap.String("to", m.to),
		zap.Int("contactId", r.ID),
		zap.String("name", r.Name),
		zap.String("email", r.Email),
		zap.String("company", r.Company),
		zap.String("service", r.Service),
		zap.Bool("nda", r.NDA),
	)
	return nil
}
