// Package memory provides process-local store implementations. They back
// tests and credential-free local runs; production wiring uses the SQLite
// store in internal/db.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/karolisr/disputedesk/internal/app/ports"
)

// Store keeps accounts and cases in mutex-guarded maps. Listing preserves
// insertion order.
type Store struct {
	mu       sync.RWMutex
	accounts map[string]ports.Account
	cases    map[string]ports.Case
	caseIDs  []string
}

// NewStore constructs an empty Store.
func NewStore() *Store {
	return &Store{
		accounts: make(map[string]ports.Account),
		cases:    make(map[string]ports.Case),
	}
}

// UpsertAccount overwrites any prior record for the account id.
func (s *Store) UpsertAccount(ctx context.Context, account ports.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[account.ID] = account
	return nil
}

// GetAccount returns the stored account or ErrNotFound.
func (s *Store) GetAccount(ctx context.Context, id string) (ports.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	account, ok := s.accounts[id]
	if !ok {
		return ports.Account{}, fmt.Errorf("account %s: %w", id, ports.ErrNotFound)
	}
	return account, nil
}

// UpsertCase overwrites any prior record for the case id. First insertion
// fixes the record's position in listing order.
func (s *Store) UpsertCase(ctx context.Context, record ports.Case) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cases[record.ID]; !ok {
		s.caseIDs = append(s.caseIDs, record.ID)
	}
	s.cases[record.ID] = record
	return nil
}

// GetCase returns the stored case or ErrNotFound.
func (s *Store) GetCase(ctx context.Context, id string) (ports.Case, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.cases[id]
	if !ok {
		return ports.Case{}, fmt.Errorf("case %s: %w", id, ports.ErrNotFound)
	}
	return record, nil
}

// ListCases returns all cases in insertion order.
func (s *Store) ListCases(ctx context.Context) ([]ports.Case, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := make([]ports.Case, 0, len(s.caseIDs))
	for _, id := range s.caseIDs {
		records = append(records, s.cases[id])
	}
	return records, nil
}

var (
	_ ports.AccountStore = (*Store)(nil)
	_ ports.CaseStore    = (*Store)(nil)
)
