// Package seed loads starter transactions for an empty store from a local
// file or an http(s) URL.
package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tally-dev/tally/internal/backup"
	"github.com/tally-dev/tally/internal/model"
)

// Parser decodes seed data in one format.
type Parser interface {
	Parse(r io.Reader) ([]model.Transaction, error)
	Format() string
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// DefaultRegistry returns a registry with the json and csv parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&JSONParser{})
	r.Register(&CSVParser{})
	return r
}

// JSONParser reads an array of transaction records.
type JSONParser struct{}

// Format returns the parser name.
func (p *JSONParser) Format() string { return "json" }

// Parse decodes a JSON array of transactions.
func (p *JSONParser) Parse(r io.Reader) ([]model.Transaction, error) {
	var txns []model.Transaction
	if err := json.NewDecoder(r).Decode(&txns); err != nil {
		return nil, fmt.Errorf("decoding seed JSON: %w", err)
	}
	return txns, nil
}

// CSVParser reads the transactions CSV written by export.
type CSVParser struct{}

// Format returns the parser name.
func (p *CSVParser) Format() string { return "csv" }

// Parse decodes a transactions CSV.
func (p *CSVParser) Parse(r io.Reader) ([]model.Transaction, error) {
	return backup.ReadCSV(r)
}

// DefaultTimeout bounds a remote fetch.
const DefaultTimeout = 10 * time.Second

// Seeder fetches and parses seed data. An empty Source yields nothing.
type Seeder struct {
	Source   string // file path or http(s) URL
	Format   string // empty means infer from the source extension
	Registry *Registry
	Client   *http.Client
}

// New creates a Seeder for source using the default registry.
func New(source, format string) *Seeder {
	return &Seeder{
		Source:   source,
		Format:   format,
		Registry: DefaultRegistry(),
		Client:   &http.Client{Timeout: DefaultTimeout},
	}
}

// Seed reads and parses the source.
func (s *Seeder) Seed(ctx context.Context) ([]model.Transaction, error) {
	if s.Source == "" {
		return nil, nil
	}

	format := s.Format
	if format == "" {
		format = InferFormat(s.Source)
	}
	registry := s.Registry
	if registry == nil {
		registry = DefaultRegistry()
	}
	p := registry.Get(format)
	if p == nil {
		return nil, fmt.Errorf("no seed parser for format %q", format)
	}

	rc, err := s.open(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	txns, err := p.Parse(rc)
	if err != nil {
		return nil, fmt.Errorf("parsing seed %s: %w", s.Source, err)
	}
	return txns, nil
}

func (s *Seeder) open(ctx context.Context) (io.ReadCloser, error) {
	if !IsRemote(s.Source) {
		f, err := os.Open(s.Source)
		if err != nil {
			return nil, fmt.Errorf("opening seed file: %w", err)
		}
		return f, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.Source, nil)
	if err != nil {
		return nil, fmt.Errorf("building seed request: %w", err)
	}
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching seed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("fetching seed: unexpected status %s", resp.Status)
	}
	return resp.Body, nil
}

// IsRemote reports whether source is an http(s) URL.
func IsRemote(source string) bool {
	lower := strings.ToLower(source)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// InferFormat picks csv for a .csv source and json otherwise.
func InferFormat(source string) string {
	if i := strings.IndexAny(source, "?#"); i >= 0 && IsRemote(source) {
		source = source[:i]
	}
	if strings.EqualFold(filepath.Ext(source), ".csv") {
		return "csv"
	}
	return "json"
}
