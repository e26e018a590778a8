// Package contactdb stores contact form submissions in a single JSON file.
//
// The file holds one pretty-printed JSON array. Every Append reads the whole
// array, adds the record with id len(array)+1 and writes the whole array back.
// A mutex serializes access within one process; two processes sharing the same
// file can still lose updates or hand out duplicate ids.
package contactdb

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileName is the store file created inside the data directory.
const FileName = "contacts.json"

// NotSpecified is stored for optional fields left empty.
const NotSpecified = "Not specified"

// MaxSummaryMessage is the number of characters kept by List.
const MaxSummaryMessage = 100

// ErrCorrupt is returned when the store file is not a JSON array of records.
var ErrCorrupt = errors.New("contact store is corrupt")

// Record is one stored submission.
type Record struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Company   string `json:"company"`
	Service   string `json:"service"`
	Message   string `json:"message"`
	NDA       bool   `json:"nda"`
	Timestamp string `json:"timestamp"`
	IP        string `json:"ip"`
	UserAgent string `json:"userAgent"`
}

// Summary is the admin view of a Record, without ip and user agent.
type Summary struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Company   string `json:"company"`
	Service   string `json:"service"`
	Message   string `json:"message"`
	NDA       bool   `json:"nda"`
	Timestamp string `json:"timestamp"`
}

// Store is a file backed list of Records.
type Store struct {
	path string
	mu   sync.Mutex
}

// Open returns a Store for dir/contacts.json, creating both if missing.
func Open(dir string) (*Store, error) {
	s := &Store{path: filepath.Join(dir, FileName)}
	if err := s.EnsureInitialized(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path of the backing file.
func (s *Store) Path() string {
	return s.path
}

// EnsureInitialized creates the data directory and an empty array file.
// Existing files are left alone.
func (s *Store) EnsureInitialized() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("error creating data dir: %w", err)
	}
	_, err := os.Stat(s.path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("error checking contact store: %w", err)
	}
	if err := os.WriteFile(s.path, []byte("[]"), 0644); err != nil {
		return fmt.Errorf("error creating contact store: %w", err)
	}
	return nil
}

// Append stores r with the next sequential id and returns that id.
// r.ID is ignored.
func (s *Store) Append(r Record) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.read()
	if err != nil {
		return 0, err
	}
	r.ID = len(records) + 1
	records = append(records, r)
	if err := s.write(records); err != nil {
		return 0, err
	}
	return r.ID, nil
}

// All returns every stored record in submission order.
func (s *Store) All() ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

// List returns the redacted view of every record in submission order.
func (s *Store) List() ([]Summary, error) {
	records, err := s.All()
	if err != nil {
		return nil, err
	}
	summaries := make([]Summary, 0, len(records))
	for _, r := range records {
		summaries = append(summaries, r.Summary())
	}
	return summaries, nil
}

// Summary drops ip and user agent and truncates the message.
func (r Record) Summary() Summary {
	return Summary{
		ID:        r.ID,
		Name:      r.Name,
		Email:     r.Email,
		Company:   r.Company,
		Service:   r.Service,
		Message:   Truncate(r.Message, MaxSummaryMessage),
		NDA:       r.NDA,
		Timestamp: r.Timestamp,
	}
}

// Truncate keeps the first n characters of s and appends "..." if anything was cut.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

func (s *Store) read() ([]Record, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("error reading contact store: %w", err)
	}
	records := []Record{}
	if err := json.Unmarshal(b, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if records == nil {
		// a literal null parses without error
		records = []Record{}
	}
	return records, nil
}

func (s *Store) write(records []Record) error {
	b, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding contact store: %w", err)
	}
	if err := os.WriteFile(s.path, b, 0644); err != nil {
		return fmt.Errorf("error writing contact store: %w", err)
	}
	return nil
}
