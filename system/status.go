package system

import (
	"net/http"
	"time"
)

// ISOTime is the timestamp layout used in responses and stored records.
const ISOTime = "2006-01-02T15:04:05.000Z"

type Health struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}

func (s *System) HealthHandler(w http.ResponseWriter, r *http.Request) {
	s.serveJSON(w, Health{
		Status:    "OK",
		Service:   s.config.Meta.ServiceName,
		Version:   s.config.Meta.Version,
		Timestamp: time.Now().UTC().Format(ISOTime),
	}, http.StatusOK)
}
