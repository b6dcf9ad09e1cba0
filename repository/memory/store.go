// Package memory keeps the whole ledger in process memory.
package memory

import (
	"sync"

	"pointledger/models"
)

// Store holds every ledger collection. A unit of work owns mu from Begin until
// Commit or Rollback, so operations never interleave.
type Store struct {
	mu sync.Mutex

	accounts     map[string]*models.Account
	profiles     map[string]*models.Profile
	handles      map[string]string // lowercase handle -> user id
	transactions map[string][]*models.Transaction
	requests     map[string]*storedRequest
	requestSeq   int64
}

// storedRequest remembers creation order so equal timestamps still sort newest first
type storedRequest struct {
	req *models.PaymentRequest
	seq int64
}

// NewStore creates an empty ledger
func NewStore() *Store {
	return &Store{
		accounts:     make(map[string]*models.Account),
		profiles:     make(map[string]*models.Profile),
		handles:      make(map[string]string),
		transactions: make(map[string][]*models.Transaction),
		requests:     make(map[string]*storedRequest),
	}
}
