// Package subscribers persists the SMS subscriber list as a flat CSV file,
// one phone number per row with a header line.
package subscribers

import (
	"encoding/csv"
	"fmt"
	"os"
	"sync"
)

const header = "number"

// Store is a CSV-backed phone number store. Safe for concurrent use within
// one process.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore opens (or creates) the subscriber file at path.
func NewStore(path string) (*Store, error) {
	s := &Store{path: path}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := s.write(nil); err != nil {
			return nil, fmt.Errorf("creating subscribers file: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("checking subscribers file: %w", err)
	}

	return s, nil
}

// List returns all subscribed numbers.
func (s *Store) List() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

// Add appends a number unless it is already subscribed.
func (s *Store) Add(number string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	numbers, err := s.read()
	if err != nil {
		return err
	}
	for _, existing := range numbers {
		if existing == number {
			return nil
		}
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening subscribers file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{number}); err != nil {
		return fmt.Errorf("appending subscriber: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("appending subscriber: %w", err)
	}
	return nil
}

// Remove drops a number from the list. Removing an unknown number is a
// no-op.
func (s *Store) Remove(number string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	numbers, err := s.read()
	if err != nil {
		return err
	}

	kept := make([]string, 0, len(numbers))
	for _, existing := range numbers {
		if existing != number {
			kept = append(kept, existing)
		}
	}

	return s.write(kept)
}

func (s *Store) read() ([]string, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("opening subscribers file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading subscribers file: %w", err)
	}

	numbers := make([]string, 0, len(records))
	for i, record := range records {
		// Skip the header row
		if i == 0 {
			continue
		}
		if len(record) > 0 && record[0] != "" {
			numbers = append(numbers, record[0])
		}
	}
	return numbers, nil
}

func (s *Store) write(numbers []string) error {
	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("writing subscribers file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{header}); err != nil {
		return fmt.Errorf("writing subscribers file: %w", err)
	}
	for _, number := range numbers {
		if err := w.Write([]string{number}); err != nil {
			return fmt.Errorf("writing subscribers file: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("writing subscribers file: %w", err)
	}
	return nil
}
