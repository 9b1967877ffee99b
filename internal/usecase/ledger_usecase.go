package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/creditledger/internal/domain"
)

// Ledger operation names used in events.
const (
	OperationIncreaseCredit = "increase_credit"
	OperationSellCharge     = "sell_charge"
)

// LedgerUseCase is the ledger engine. It applies credit increases and charge
// sales so that each idempotency key is applied at most once and every balance
// change is committed together with its log entry.
type LedgerUseCase struct {
	txManager  TransactionManager
	sellerRepo SellerRepository
	txLog      TransactionLog
	phoneRepo  PhoneNumberRepository
	idGen      IDGenerator
	clock      Clock
	retrier    Retrier
	cache      BalanceCache
	recorder   EventRecorder
	txTimeout  time.Duration
}

// LedgerOption configures optional LedgerUseCase collaborators.
type LedgerOption func(*LedgerUseCase)

// WithClock overrides the clock used for timestamps and derived keys.
func WithClock(clock Clock) LedgerOption {
	return func(uc *LedgerUseCase) { uc.clock = clock }
}

// WithRetrier retries whole units of work on transient store conflicts.
func WithRetrier(retrier Retrier) LedgerOption {
	return func(uc *LedgerUseCase) { uc.retrier = retrier }
}

// WithBalanceCache publishes committed balances to cache.
func WithBalanceCache(cache BalanceCache) LedgerOption {
	return func(uc *LedgerUseCase) { uc.cache = cache }
}

// WithEventRecorder sets the observability collaborator.
func WithEventRecorder(recorder EventRecorder) LedgerOption {
	return func(uc *LedgerUseCase) { uc.recorder = recorder }
}

// WithTransactionTimeout bounds each unit of work, lock wait included.
func WithTransactionTimeout(d time.Duration) LedgerOption {
	return func(uc *LedgerUseCase) {
		if d > 0 {
			uc.txTimeout = d
		}
	}
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(
	txManager TransactionManager,
	sellerRepo SellerRepository,
	txLog TransactionLog,
	phoneRepo PhoneNumberRepository,
	idGen IDGenerator,
	opts ...LedgerOption,
) *LedgerUseCase {
	uc := &LedgerUseCase{
		txManager:  txManager,
		sellerRepo: sellerRepo,
		txLog:      txLog,
		phoneRepo:  phoneRepo,
		idGen:      idGen,
		clock:      SystemClock(),
		retrier:    onceRetrier{},
		recorder:   nopRecorder{},
		txTimeout:  DefaultTransactionTimeout,
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}

// IncreaseCreditInput represents input for a credit increase.
type IncreaseCreditInput struct {
	SellerID       string
	Amount         decimal.Decimal
	IdempotencyKey string
}

// SellChargeInput represents input for a charge sale.
type SellChargeInput struct {
	SellerID       string
	PhoneNumber    string
	Amount         decimal.Decimal
	IdempotencyKey string
}

// LedgerResult is the outcome of a ledger mutation. When AlreadyProcessed is
// set the key had been recorded before, nothing was written, Transaction is
// nil and Balance is the seller's current balance.
type LedgerResult struct {
	Transaction      *domain.Transaction
	SellerID         string
	Key              string
	Balance          decimal.Decimal
	AlreadyProcessed bool

	version int64
}

type mutation struct {
	operation string
	kind      domain.TransactionKind
	sellerID  string
	phone     string
	key       string
	amount    decimal.Decimal
}

// IncreaseCredit adds amount to the seller balance and returns the new balance.
func (uc *LedgerUseCase) IncreaseCredit(ctx context.Context, input IncreaseCreditInput) (*LedgerResult, error) {
	start := time.Now()

	m := mutation{
		operation: OperationIncreaseCredit,
		kind:      domain.KindCredit,
		sellerID:  input.SellerID,
		amount:    input.Amount,
	}

	if err := validateMutation(input.Amount, input.IdempotencyKey); err != nil {
		uc.record(ctx, m, nil, err, start)
		return nil, err
	}

	m.key = domain.DeriveKey(domain.KeyRequest{
		Kind:        domain.KindCredit,
		SellerID:    input.SellerID,
		Amount:      input.Amount,
		ClientKey:   input.IdempotencyKey,
		RequestedAt: uc.clock.Now(),
	})

	result, err := uc.apply(ctx, m)
	uc.record(ctx, m, result, err, start)

	return result, err
}

// SellCharge charges amount to phoneNumber from the seller balance and returns
// the remaining balance. It fails with domain.ErrInsufficientCredit, writing
// nothing, when the balance does not cover amount.
func (uc *LedgerUseCase) SellCharge(ctx context.Context, input SellChargeInput) (*LedgerResult, error) {
	start := time.Now()

	m := mutation{
		operation: OperationSellCharge,
		kind:      domain.KindCharge,
		sellerID:  input.SellerID,
		phone:     input.PhoneNumber,
		amount:    input.Amount,
	}

	if err := validateMutation(input.Amount, input.IdempotencyKey); err != nil {
		uc.record(ctx, m, nil, err, start)
		return nil, err
	}

	phone, err := domain.NormalizePhoneNumber(input.PhoneNumber)
	if err != nil {
		uc.record(ctx, m, nil, err, start)
		return nil, err
	}
	m.phone = phone

	m.key = domain.DeriveKey(domain.KeyRequest{
		Kind:        domain.KindCharge,
		SellerID:    input.SellerID,
		Target:      phone,
		Amount:      input.Amount,
		ClientKey:   input.IdempotencyKey,
		RequestedAt: uc.clock.Now(),
	})

	result, err := uc.apply(ctx, m)
	uc.record(ctx, m, result, err, start)

	return result, err
}

func validateMutation(amount decimal.Decimal, clientKey string) error {
	if err := domain.ValidateAmount(amount); err != nil {
		return err
	}
	return domain.ValidateIdempotencyKey(clientKey)
}

// apply runs the mutation as one unit of work under the transaction timeout,
// retrying from the top on transient conflicts.
func (uc *LedgerUseCase) apply(ctx context.Context, m mutation) (*LedgerResult, error) {
	opCtx, cancel := context.WithTimeout(ctx, uc.txTimeout)
	defer cancel()

	var result *LedgerResult

	err := uc.retrier.Retry(opCtx, func() error {
		var err error
		result, err = uc.applyOnce(opCtx, m)
		return err
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateKey) {
			// Lost the race on the unique key: the other unit of work applied it.
			return uc.alreadyProcessed(ctx, m)
		}
		return nil, classifyError(err)
	}

	if uc.cache != nil && !result.AlreadyProcessed {
		cacheCtx := context.WithoutCancel(ctx)
		// An entry older than this commit must not survive a failed publish;
		// GetBalance falls back to the store on a miss.
		if err := uc.cache.Store(cacheCtx, m.sellerID, result.version, result.Balance); err != nil {
			_ = uc.cache.Invalidate(cacheCtx, m.sellerID)
		}
	}

	return result, nil
}

func (uc *LedgerUseCase) applyOnce(ctx context.Context, m mutation) (*LedgerResult, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	// Rollback must run even when the caller gave up, so the lock is released.
	defer tx.Rollback(context.WithoutCancel(ctx))

	seller, err := uc.sellerRepo.GetByIDForUpdate(ctx, tx, m.sellerID)
	if err != nil {
		return nil, err
	}

	exists, err := uc.txLog.Exists(ctx, tx, m.kind, m.key)
	if err != nil {
		return nil, err
	}

	if exists {
		return &LedgerResult{
			SellerID:         seller.ID,
			Key:              m.key,
			Balance:          seller.Balance,
			AlreadyProcessed: true,
		}, nil
	}

	now := uc.clock.Now()

	var newBalance decimal.Decimal

	switch m.kind {
	case domain.KindCredit:
		newBalance = seller.ApplyIncrease(m.amount)
	case domain.KindCharge:
		if err := seller.ValidateCharge(m.amount); err != nil {
			return nil, err
		}
		newBalance = seller.ApplyCharge(m.amount)
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", domain.ErrInvalidTransaction, m.kind)
	}

	if err := uc.sellerRepo.UpdateBalance(ctx, tx, seller.ID, newBalance, now); err != nil {
		return nil, err
	}

	var record *domain.Transaction

	if m.kind == domain.KindCharge {
		phone, err := uc.phoneRepo.GetOrCreate(ctx, tx, m.phone)
		if err != nil {
			return nil, err
		}
		record = domain.NewChargeTransaction(uc.idGen.Generate(), m.key, seller.ID, phone, m.amount, now)
	} else {
		record = domain.NewCreditTransaction(uc.idGen.Generate(), m.key, seller.ID, m.amount, now)
	}

	if err := record.Validate(); err != nil {
		return nil, err
	}

	if err := uc.txLog.Append(ctx, tx, record); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &LedgerResult{
		Transaction: record,
		SellerID:    seller.ID,
		Key:         m.key,
		Balance:     newBalance,
		version:     seller.Version + 1,
	}, nil
}

func (uc *LedgerUseCase) alreadyProcessed(ctx context.Context, m mutation) (*LedgerResult, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.txTimeout)
	defer cancel()

	seller, err := uc.sellerRepo.GetByID(ctx, m.sellerID)
	if err != nil {
		return nil, classifyError(err)
	}

	return &LedgerResult{
		SellerID:         seller.ID,
		Key:              m.key,
		Balance:          seller.Balance,
		AlreadyProcessed: true,
	}, nil
}

func (uc *LedgerUseCase) record(ctx context.Context, m mutation, result *LedgerResult, err error, start time.Time) {
	event := LedgerEvent{
		Operation:   m.operation,
		SellerID:    m.sellerID,
		Key:         m.key,
		PhoneNumber: m.phone,
		Amount:      m.amount,
		Duration:    time.Since(start),
		Err:         err,
	}

	switch {
	case err != nil && isRejection(err):
		event.Type = EventRejected
	case err != nil:
		event.Type = EventFailed
	case result.AlreadyProcessed:
		event.Type = EventAlreadyProcessed
		event.Balance = result.Balance
	case m.kind == domain.KindCharge:
		event.Type = EventChargeSold
		event.Balance = result.Balance
	default:
		event.Type = EventCreditIncreased
		event.Balance = result.Balance
	}

	uc.recorder.Record(ctx, event)
}

// isRejection reports caller errors and business rule violations.
func isRejection(err error) bool {
	return errors.Is(err, domain.ErrInvalidAmount) ||
		errors.Is(err, domain.ErrInvalidPhoneNumber) ||
		errors.Is(err, domain.ErrInvalidIdempotencyKey) ||
		errors.Is(err, domain.ErrInsufficientCredit) ||
		errors.Is(err, domain.ErrSellerNotFound)
}

// classifyError turns deadline expiry into domain.ErrStoreTimeout.
func classifyError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, domain.ErrStoreTimeout) {
		return fmt.Errorf("%w: %w", domain.ErrStoreTimeout, err)
	}
	return err
}

type onceRetrier struct{}

func (onceRetrier) Retry(_ context.Context, operation func() error) error {
	return operation()
}
