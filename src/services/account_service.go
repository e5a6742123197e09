package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"ledger/src/auth"
	"ledger/src/config"
	"ledger/src/models"
	"ledger/src/repositories"
	"ledger/src/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type AccountServiceI interface {
	CreateAccount(ctx context.Context, name, credential string) (*models.Account, error)
	GetAccount(ctx context.Context, accountID string) (*models.Account, error)
	GetAccountByName(ctx context.Context, name string) (*models.Account, error)
	GetBalances(ctx context.Context, accountID string) (map[string]decimal.Decimal, error)
	AdjustBalance(ctx context.Context, accountID, currency string, delta decimal.Decimal) (decimal.Decimal, error)
	Rates() map[string]decimal.Decimal
	Count(ctx context.Context) (int64, error)
}

// AccountService owns balances. Every mutation of an account runs under the
// account's lock, inside one transaction holding its row lock.
type AccountService struct {
	db          *gorm.DB
	accountRepo repositories.AccountRepository
	balanceRepo repositories.BalanceRepository
	audit       *AuditService
	metrics     *utils.Metrics

	rates    map[string]decimal.Decimal
	starting map[string]decimal.Decimal

	accountLocks *utils.KeyedMutex
	nameLocks    *utils.KeyedMutex
}

func NewAccountService(
	db *gorm.DB,
	accountRepo repositories.AccountRepository,
	balanceRepo repositories.BalanceRepository,
	audit *AuditService,
	ledgerCfg config.LedgerConfig,
	metrics *utils.Metrics,
) *AccountService {
	rates := make(map[string]decimal.Decimal, len(ledgerCfg.Currencies))
	starting := make(map[string]decimal.Decimal, len(ledgerCfg.Currencies))
	for code, currency := range ledgerCfg.Currencies {
		rates[code] = decimal.NewFromFloat(currency.Rate)
		starting[code] = Amount(currency.StartingBalance)
	}
	return &AccountService{
		db:           db,
		accountRepo:  accountRepo,
		balanceRepo:  balanceRepo,
		audit:        audit,
		metrics:      metrics,
		rates:        rates,
		starting:     starting,
		accountLocks: utils.NewKeyedMutex(),
		nameLocks:    utils.NewKeyedMutex(),
	}
}

// CreateAccount registers name, seeds the starting balances and records the
// creation, all in one transaction.
func (s *AccountService) CreateAccount(ctx context.Context, name, credential string) (account *models.Account, err error) {
	started := time.Now()
	defer func() { s.metrics.Observe("create_account", started, err) }()

	name = strings.TrimSpace(name)
	if name == "" || credential == "" {
		return nil, fmt.Errorf("%w: name and password are required", ErrInvalidInput)
	}

	unlock, err := s.nameLocks.Lock(ctx, name)
	if err != nil {
		return nil, err
	}
	defer unlock()

	existing, err := s.accountRepo.GetByName(ctx, name, nil)
	if err != nil {
		return nil, storageError(err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyExists, name)
	}

	hash, err := auth.HashPassword(credential)
	if err != nil {
		return nil, err
	}

	account = &models.Account{ID: uuid.NewString(), Name: name, PasswordHash: hash}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.accountRepo.Create(ctx, account, tx); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("%w: %s", ErrAlreadyExists, name)
			}
			return err
		}
		for _, code := range sortedKeys(s.starting) {
			amount := s.starting[code]
			if amount.IsZero() {
				continue
			}
			balance := &models.Balance{AccountID: account.ID, Currency: code, Amount: amount}
			if err := s.balanceRepo.Upsert(ctx, balance, tx); err != nil {
				return err
			}
		}
		return s.audit.Info(ctx, tx, &account.ID, "User created: %s", name)
	})
	if err != nil {
		return nil, storageError(err)
	}
	return account, nil
}

func (s *AccountService) GetAccount(ctx context.Context, accountID string) (*models.Account, error) {
	account, err := s.accountRepo.GetByID(ctx, accountID, nil)
	if err != nil {
		return nil, storageError(err)
	}
	if account == nil {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, accountID)
	}
	return account, nil
}

func (s *AccountService) GetAccountByName(ctx context.Context, name string) (*models.Account, error) {
	account, err := s.accountRepo.GetByName(ctx, strings.TrimSpace(name), nil)
	if err != nil {
		return nil, storageError(err)
	}
	if account == nil {
		return nil, fmt.Errorf("%w: %s", ErrAccountNotFound, name)
	}
	return account, nil
}

func (s *AccountService) Count(ctx context.Context) (int64, error) {
	count, err := s.accountRepo.Count(ctx)
	if err != nil {
		return 0, storageError(err)
	}
	return count, nil
}

// GetBalances returns every configured currency, zero where the account
// never held any.
func (s *AccountService) GetBalances(ctx context.Context, accountID string) (map[string]decimal.Decimal, error) {
	if _, err := s.GetAccount(ctx, accountID); err != nil {
		return nil, err
	}
	rows, err := s.balanceRepo.GetByAccountID(ctx, accountID, nil)
	if err != nil {
		return nil, storageError(err)
	}

	balances := make(map[string]decimal.Decimal, len(s.rates))
	for code := range s.rates {
		balances[code] = decimal.Zero
	}
	for _, row := range rows {
		balances[row.Currency] = row.Amount
	}
	return balances, nil
}

// AdjustBalance applies delta to one currency balance and returns the new
// amount. A result below -Epsilon is rejected with ErrInsufficientFunds and
// nothing is written.
func (s *AccountService) AdjustBalance(ctx context.Context, accountID, currency string, delta decimal.Decimal) (balance decimal.Decimal, err error) {
	started := time.Now()
	defer func() { s.metrics.Observe("adjust_balance", started, err) }()

	currency, err = s.currency(currency)
	if err != nil {
		return decimal.Zero, err
	}
	err = s.withAccount(ctx, accountID, func(tx *gorm.DB, _ *models.Account) error {
		balance, err = s.adjustBalanceTx(ctx, tx, accountID, currency, Quantize(delta))
		return err
	})
	return balance, err
}

// Rates returns the fixed EUR value of one unit of each currency.
func (s *AccountService) Rates() map[string]decimal.Decimal {
	rates := make(map[string]decimal.Decimal, len(s.rates))
	for code, rate := range s.rates {
		rates[code] = rate
	}
	return rates
}

func (s *AccountService) rate(currency string) (decimal.Decimal, error) {
	rate, ok := s.rates[currency]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrUnknownCurrency, currency)
	}
	return rate, nil
}

func (s *AccountService) currency(code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if _, err := s.rate(code); err != nil {
		return "", err
	}
	return code, nil
}

// withAccount serializes fn with every other mutation of accountID. fn runs
// inside a transaction after the account row is locked; returning an error
// rolls everything back.
func (s *AccountService) withAccount(ctx context.Context, accountID string, fn func(tx *gorm.DB, account *models.Account) error) error {
	unlock, err := s.accountLocks.Lock(ctx, accountID)
	if err != nil {
		return err
	}
	defer unlock()

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		account, err := s.accountRepo.LockByID(ctx, accountID, tx)
		if err != nil {
			return err
		}
		if account == nil {
			return fmt.Errorf("%w: %s", ErrAccountNotFound, accountID)
		}
		return fn(tx, account)
	})
	return storageError(err)
}

// adjustBalanceTx is the debit/credit primitive. The caller holds the
// account lock and tx.
func (s *AccountService) adjustBalanceTx(ctx context.Context, tx *gorm.DB, accountID, currency string, delta decimal.Decimal) (decimal.Decimal, error) {
	row, err := s.balanceRepo.Get(ctx, accountID, currency, tx)
	if err != nil {
		return decimal.Zero, err
	}
	current := decimal.Zero
	if row != nil {
		current = row.Amount
	}
	if delta.IsZero() {
		return current, nil
	}

	next := current.Add(delta)
	if next.LessThan(Epsilon.Neg()) {
		return current, fmt.Errorf("%w: %s balance %s, change %s", ErrInsufficientFunds, currency, current, delta)
	}
	// Within the quantum a shortfall rounds to zero rather than failing, so
	// up to Epsilon can be debited beyond the balance.
	if next.IsNegative() {
		next = decimal.Zero
	}

	err = s.balanceRepo.Upsert(ctx, &models.Balance{AccountID: accountID, Currency: currency, Amount: next}, tx)
	if err != nil {
		return current, err
	}
	err = s.audit.Info(ctx, tx, &accountID, "account %s balance %s changed by %s => %s", accountID, currency, delta, next)
	if err != nil {
		return current, err
	}
	return next, nil
}

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
