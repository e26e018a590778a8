package system

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/aerth/studiod/contactdb"
	"github.com/aerth/studiod/metrics"
	"go.uber.org/zap"
)

const (
	msgContactThanks   = "Thank you for your message! We will get back to you soon."
	msgBadBody         = "Invalid request body"
	msgContactFailed   = "Failed to submit contact form"
	msgContactsFailed  = "Failed to fetch contacts"
	maxContactBodySize = 1 << 20
)

// ContactRequest is the body accepted by POST /api/contact.
type ContactRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,contactemail"`
	Company string `json:"company"`
	Service string `json:"service"`
	Message string `json:"message" validate:"required"`
	NDA     bool   `json:"nda"`
}

type ContactResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	ContactID int    `json:"contactId"`
}

// Record builds the stored form of req. Empty company and service become "Not specified".
func (req ContactRequest) Record(ip, userAgent string, now time.Time) contactdb.Record {
	r := contactdb.Record{
		Name:      req.Name,
		Email:     req.Email,
		Company:   req.Company,
		Service:   req.Service,
		Message:   req.Message,
		NDA:       req.NDA,
		Timestamp: now.UTC().Format(ISOTime),
		IP:        ip,
		UserAgent: userAgent,
	}
	if r.Company == "" {
		r.Company = contactdb.NotSpecified
	}
	if r.Service == "" {
		r.Service = contactdb.NotSpecified
	}
	return r
}

// ContactHandler validates and stores one submission.
func (s *System) ContactHandler(w http.ResponseWriter, r *http.Request) {
	var req ContactRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxContactBodySize))
	err := dec.Decode(&req)
	if err == nil {
		// one JSON value only, trailing data is rejected
		if extra := dec.Decode(&struct{}{}); !errors.Is(extra, io.EOF) {
			err = errors.New("unexpected data after request body")
		}
	}
	if err != nil && !errors.Is(err, io.EOF) {
		s.metrics.ContactSubmitted(metrics.ContactInvalid)
		s.serveJsonError(w, msgBadBody, http.StatusBadRequest)
		return
	}

	if err := validateContact(req); err != nil {
		s.metrics.ContactSubmitted(metrics.ContactInvalid)
		s.serveJsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	record := req.Record(getip(r), r.UserAgent(), time.Now())
	id, err := s.contacts.Append(record)
	if err != nil {
		s.metrics.ContactSubmitted(metrics.ContactFailed)
		s.log.Error("error saving contact", zap.Error(err), zap.String("email", req.Email))
		s.serveInternalError(w, msgContactFailed, err)
		return
	}
	record.ID = id
	s.metrics.ContactSubmitted(metrics.ContactAccepted)
	s.log.Info("new contact form submission", zap.Int("contactId", id), zap.String("email", record.Email))

	if err := s.mailer.NotifyContact(record); err != nil {
		// the record is stored, a failed notification doesn't fail the request
		s.log.Warn("error sending contact notification", zap.Error(err), zap.Int("contactId", id))
	}

	s.serveJSON(w, ContactResponse{
		Success:   true,
		Message:   msgContactThanks,
		ContactID: id,
	}, http.StatusOK)
}

// AdminContactsHandler lists every submission without ip and user agent.
// There is no authentication on this route.
func (s *System) AdminContactsHandler(w http.ResponseWriter, r *http.Request) {
	list, err := s.contacts.List()
	if err != nil {
		s.log.Error("error reading contacts", zap.Error(err))
		s.serveInternalError(w, msgContactsFailed, err)
		return
	}
	s.serveJSON(w, list, http.StatusOK)
}
