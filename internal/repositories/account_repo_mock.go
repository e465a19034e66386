package repositories

import (
	"fmt"
	"sync"

	"agromart/internal/models"

	"github.com/google/uuid"
)

// MockAccountRepository is an in-memory implementation of AccountRepository.
type MockAccountRepository struct {
	accounts map[string]models.Account
	mu       sync.RWMutex
}

// NewMockAccountRepository creates a new instance of MockAccountRepository.
func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		accounts: make(map[string]models.Account),
	}
}

// Create adds a new account.
func (r *MockAccountRepository) Create(account *models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if account.ID == "" {
		account.ID = uuid.New().String()
	}
	for _, existing := range r.accounts {
		if existing.Email == account.Email {
			return fmt.Errorf("account with email %s already exists", account.Email)
		}
	}
	r.accounts[account.ID] = *account
	return nil
}

// GetByEmail returns an account by its email.
func (r *MockAccountRepository) GetByEmail(email string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, account := range r.accounts {
		if account.Email == email {
			a := account
			return &a, nil
		}
	}
	return nil, fmt.Errorf("account with email %s not found", email)
}

// GetByID returns an account by its ID.
func (r *MockAccountRepository) GetByID(id string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.accounts[id]
	if !ok {
		return nil, fmt.Errorf("account with ID %s not found", id)
	}
	return &account, nil
}

// Update modifies an existing account.
func (r *MockAccountRepository) Update(account *models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.accounts[account.ID]
	if !ok {
		return fmt.Errorf("account with ID %s not found for update", account.ID)
	}
	r.accounts[account.ID] = *account
	return nil
}
