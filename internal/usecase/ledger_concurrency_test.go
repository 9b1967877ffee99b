package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/creditledger/internal/adapter/repository/memory"
	"github.com/iho/creditledger/internal/domain"
	"github.com/iho/creditledger/internal/usecase"
)

type memoryLedger struct {
	store   *memory.Store
	ledger  *usecase.LedgerUseCase
	sellers *usecase.SellerUseCase
	txs     *usecase.TransactionUseCase
	recon   *usecase.ReconciliationUseCase
}

func newMemoryLedger(t *testing.T, opts ...usecase.LedgerOption) *memoryLedger {
	t.Helper()

	ids := &seqIDs{}
	store := memory.NewStore(ids, fixedClock{t: testNow})

	opts = append([]usecase.LedgerOption{usecase.WithClock(fixedClock{t: testNow})}, opts...)

	return &memoryLedger{
		store:   store,
		ledger:  usecase.NewLedgerUseCase(store, store.Sellers(), store.Transactions(), store.PhoneNumbers(), ids, opts...),
		sellers: usecase.NewSellerUseCase(store.Sellers(), ids, nil),
		txs:     usecase.NewTransactionUseCase(store.Sellers(), store.Transactions(), store.PhoneNumbers()),
		recon:   usecase.NewReconciliationUseCase(store.Sellers(), store.Transactions()),
	}
}

func (l *memoryLedger) newSeller(t *testing.T, principal string) *domain.Seller {
	t.Helper()

	s, err := l.sellers.CreateSeller(context.Background(), usecase.CreateSellerInput{PrincipalID: principal})
	require.NoError(t, err)

	return s
}

func TestLedger_ConcurrentIncreasesWithDistinctKeys(t *testing.T) {
	l := newMemoryLedger(t)
	s := l.newSeller(t, "alice")
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, 2)

	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := l.ledger.IncreaseCredit(ctx, usecase.IncreaseCreditInput{
				SellerID:       s.ID,
				Amount:         decimal.NewFromInt(50000),
				IdempotencyKey: fmt.Sprintf("deposit-%d", n),
			})
			errs <- err
		}(i)
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	balance, err := l.sellers.GetBalance(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "100000.00", balance.StringFixed(2))

	credits, err := l.txs.ListCreditTransactions(ctx, usecase.ListCreditTransactionsInput{SellerID: s.ID})
	require.NoError(t, err)
	assert.Len(t, credits, 2)
}

func TestLedger_ConcurrentChargesNeverOverdraw(t *testing.T) {
	l := newMemoryLedger(t)
	s := l.newSeller(t, "bob")
	ctx := context.Background()

	_, err := l.ledger.IncreaseCredit(ctx, usecase.IncreaseCreditInput{
		SellerID: s.ID,
		Amount:   decimal.NewFromInt(3000),
	})
	require.NoError(t, err)

	const workers = 1000

	rng := rand.New(rand.NewSource(42))
	amounts := make([]int64, workers)
	for i := range amounts {
		amounts[i] = 1000 + rng.Int63n(4001)
	}

	var (
		wg           sync.WaitGroup
		successCount atomic.Int64
		rejectCount  atomic.Int64
		spentMu      sync.Mutex
		spent        = decimal.Zero
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()

			_, err := l.ledger.SellCharge(ctx, usecase.SellChargeInput{
				SellerID:       s.ID,
				PhoneNumber:    fmt.Sprintf("0912%07d", n%10),
				Amount:         decimal.NewFromInt(amounts[n]),
				IdempotencyKey: fmt.Sprintf("charge-%d", n),
			})

			switch {
			case err == nil:
				successCount.Add(1)
				spentMu.Lock()
				spent = spent.Add(decimal.NewFromInt(amounts[n]))
				spentMu.Unlock()
			case errors.Is(err, domain.ErrInsufficientCredit):
				rejectCount.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}

	wg.Wait()

	assert.Equal(t, int64(workers), successCount.Load()+rejectCount.Load())
	assert.GreaterOrEqual(t, successCount.Load(), int64(1), "charges of at most 3000 fit the opening balance")

	charges, err := l.txs.ListChargeTransactions(ctx, usecase.ListChargeTransactionsInput{SellerID: s.ID, Limit: domain.MaxListLimit})
	require.NoError(t, err)
	assert.Len(t, charges, int(successCount.Load()))

	seller, err := l.sellers.GetSeller(ctx, s.ID)
	require.NoError(t, err)
	assert.False(t, seller.Balance.IsNegative())
	assert.True(t, seller.Balance.Equal(decimal.NewFromInt(3000).Sub(spent)),
		"balance %s, spent %s", seller.Balance, spent)

	result, err := l.recon.ReconcileSeller(ctx, s.ID)
	require.NoError(t, err)
	assert.True(t, result.IsReconciled)
}

func TestLedger_DuplicateSubmissionAppliesOnce(t *testing.T) {
	l := newMemoryLedger(t)
	s := l.newSeller(t, "carol")
	ctx := context.Background()

	const attempts = 20

	var (
		wg       sync.WaitGroup
		applied  atomic.Int64
		replayed atomic.Int64
	)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := l.ledger.IncreaseCredit(ctx, usecase.IncreaseCreditInput{
				SellerID:       s.ID,
				Amount:         decimal.NewFromInt(700),
				IdempotencyKey: "same-request",
			})
			if !assert.NoError(t, err) {
				return
			}
			if res.AlreadyProcessed {
				replayed.Add(1)
				assert.Equal(t, "700.00", res.Balance.StringFixed(2))
			} else {
				applied.Add(1)
			}
		}()
	}

	wg.Wait()

	assert.Equal(t, int64(1), applied.Load())
	assert.Equal(t, int64(attempts-1), replayed.Load())

	credits, err := l.txs.ListCreditTransactions(ctx, usecase.ListCreditTransactionsInput{SellerID: s.ID})
	require.NoError(t, err)
	assert.Len(t, credits, 1)

	balance, err := l.sellers.GetBalance(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, "700.00", balance.StringFixed(2))
}

func TestLedger_DerivedKeysAtSameInstantCollapse(t *testing.T) {
	// The clock is frozen, so identical requests derive identical keys.
	l := newMemoryLedger(t)
	s := l.newSeller(t, "dave")
	ctx := context.Background()

	first, err := l.ledger.IncreaseCredit(ctx, usecase.IncreaseCreditInput{SellerID: s.ID, Amount: decimal.NewFromInt(10)})
	require.NoError(t, err)
	assert.False(t, first.AlreadyProcessed)

	second, err := l.ledger.IncreaseCredit(ctx, usecase.IncreaseCreditInput{SellerID: s.ID, Amount: decimal.NewFromInt(10)})
	require.NoError(t, err)
	assert.True(t, second.AlreadyProcessed)
	assert.Equal(t, first.Key, second.Key)
	assert.Equal(t, "10.00", second.Balance.StringFixed(2))
}

func TestLedger_PhoneNumberCreatedOnce(t *testing.T) {
	l := newMemoryLedger(t)
	ctx := context.Background()

	a := l.newSeller(t, "erin")
	b := l.newSeller(t, "frank")

	for _, s := range []*domain.Seller{a, b} {
		_, err := l.ledger.IncreaseCredit(ctx, usecase.IncreaseCreditInput{SellerID: s.ID, Amount: decimal.NewFromInt(100)})
		require.NoError(t, err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			s := a
			if n%2 == 1 {
				s = b
			}
			_, err := l.ledger.SellCharge(ctx, usecase.SellChargeInput{
				SellerID:       s.ID,
				PhoneNumber:    "09350000000",
				Amount:         decimal.NewFromInt(1),
				IdempotencyKey: fmt.Sprintf("topup-%d", n),
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	phones, err := l.txs.ListPhoneNumbers(ctx, usecase.ListPhoneNumbersInput{})
	require.NoError(t, err)
	require.Len(t, phones, 1)

	charges, err := l.txs.ListChargeTransactions(ctx, usecase.ListChargeTransactionsInput{PhoneNumber: "09350000000"})
	require.NoError(t, err)
	require.Len(t, charges, 10)
	for _, c := range charges {
		assert.Equal(t, phones[0].ID, c.PhoneNumber.ID)
	}
}

func TestLedger_AbandonedRequestReleasesLock(t *testing.T) {
	l := newMemoryLedger(t, usecase.WithTransactionTimeout(50*time.Millisecond))
	s := l.newSeller(t, "grace")
	ctx := context.Background()

	// Hold the seller lock from outside the engine.
	holder, err := l.store.Begin(ctx)
	require.NoError(t, err)
	_, err = l.store.Sellers().GetByIDForUpdate(ctx, holder, s.ID)
	require.NoError(t, err)

	_, err = l.ledger.IncreaseCredit(ctx, usecase.IncreaseCreditInput{SellerID: s.ID, Amount: decimal.NewFromInt(5)})
	assert.ErrorIs(t, err, domain.ErrStoreTimeout)

	require.NoError(t, holder.Rollback(ctx))

	res, err := l.ledger.IncreaseCredit(ctx, usecase.IncreaseCreditInput{
		SellerID:       s.ID,
		Amount:         decimal.NewFromInt(5),
		IdempotencyKey: "after-timeout",
	})
	require.NoError(t, err)
	assert.Equal(t, "5.00", res.Balance.StringFixed(2))

	credits, err := l.txs.ListCreditTransactions(ctx, usecase.ListCreditTransactionsInput{SellerID: s.ID})
	require.NoError(t, err)
	assert.Len(t, credits, 1, "the timed out request left nothing behind")
}

func TestLedger_DifferentSellersDoNotBlock(t *testing.T) {
	l := newMemoryLedger(t, usecase.WithTransactionTimeout(time.Second))
	a := l.newSeller(t, "heidi")
	b := l.newSeller(t, "ivan")
	ctx := context.Background()

	holder, err := l.store.Begin(ctx)
	require.NoError(t, err)
	_, err = l.store.Sellers().GetByIDForUpdate(ctx, holder, a.ID)
	require.NoError(t, err)
	defer holder.Rollback(ctx)

	res, err := l.ledger.IncreaseCredit(ctx, usecase.IncreaseCreditInput{SellerID: b.ID, Amount: decimal.NewFromInt(1)})
	require.NoError(t, err)
	assert.Equal(t, "1.00", res.Balance.StringFixed(2))
}
