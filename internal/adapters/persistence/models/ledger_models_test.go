package models

import (
	"testing"
	"time"

	"saccolink/internal/core/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func newMember(savings, loan string) *Member {
	return &Member{
		ID:             1,
		UserID:         10,
		SavingsBalance: dec(savings),
		LoanBalance:    dec(loan),
	}
}

// ============================================================
// Savings ledger
// ============================================================

func TestDepositApprove_CreditsBalance(t *testing.T) {
	member := newMember("100.00", "0")
	deposit := &Deposit{ID: 1, MemberID: member.ID, Amount: dec("250.50"), Status: TxStatusPending}
	now := time.Now()

	err := deposit.Approve(member, 99, now)

	require.NoError(t, err)
	assert.Equal(t, TxStatusApproved, deposit.Status)
	assert.True(t, member.SavingsBalance.Equal(dec("350.50")))
	require.NotNil(t, deposit.ApprovedBy)
	assert.Equal(t, uint(99), *deposit.ApprovedBy)
	require.NotNil(t, deposit.ApprovedOn)
	assert.Equal(t, now, *deposit.ApprovedOn)
}

func TestDepositApprove_SecondCallFailsAlreadyProcessed(t *testing.T) {
	member := newMember("0", "0")
	deposit := &Deposit{Amount: dec("100"), Status: TxStatusPending}

	require.NoError(t, deposit.Approve(member, 1, time.Now()))
	err := deposit.Approve(member, 2, time.Now())

	assert.ErrorIs(t, err, domain.ErrAlreadyProcessed)
	// Balance credited exactly once
	assert.True(t, member.SavingsBalance.Equal(dec("100")))
	assert.Equal(t, uint(1), *deposit.ApprovedBy)
}

func TestDepositReject_NoBalanceEffect(t *testing.T) {
	member := newMember("50", "0")
	deposit := &Deposit{Amount: dec("100"), Status: TxStatusPending}

	err := deposit.Reject(7, time.Now())

	require.NoError(t, err)
	assert.Equal(t, TxStatusRejected, deposit.Status)
	assert.True(t, member.SavingsBalance.Equal(dec("50")))
	assert.NotNil(t, deposit.ApprovedBy)
	assert.NotNil(t, deposit.ApprovedOn)
}

func TestDepositReject_AfterApproveFails(t *testing.T) {
	member := newMember("0", "0")
	deposit := &Deposit{Amount: dec("100"), Status: TxStatusPending}

	require.NoError(t, deposit.Approve(member, 1, time.Now()))
	assert.ErrorIs(t, deposit.Reject(1, time.Now()), domain.ErrAlreadyProcessed)
	assert.Equal(t, TxStatusApproved, deposit.Status)
}

func TestWithdrawalApprove_DebitsBalance(t *testing.T) {
	member := newMember("100.00", "0")
	withdrawal := &Withdrawal{Amount: dec("50.00"), Status: TxStatusPending}

	err := withdrawal.Approve(member, 3, time.Now())

	require.NoError(t, err)
	assert.Equal(t, TxStatusApproved, withdrawal.Status)
	assert.True(t, member.SavingsBalance.Equal(dec("50.00")))
}

func TestWithdrawalApprove_InsufficientFunds(t *testing.T) {
	member := newMember("100.00", "0")
	withdrawal := &Withdrawal{Amount: dec("150.00"), Status: TxStatusPending}

	err := withdrawal.Approve(member, 3, time.Now())

	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
	// No mutation: still pending, balance untouched, approval fields unset
	assert.Equal(t, TxStatusPending, withdrawal.Status)
	assert.True(t, member.SavingsBalance.Equal(dec("100.00")))
	assert.Nil(t, withdrawal.ApprovedBy)
	assert.Nil(t, withdrawal.ApprovedOn)
}

// Worked example: withdrawal of 150 against balance 100 fails and leaves the
// request pending; a later withdrawal of 50 succeeds.
func TestWithdrawalScenario_RetryAfterInsufficientFunds(t *testing.T) {
	member := newMember("100.00", "0")

	first := &Withdrawal{Amount: dec("150"), Status: TxStatusPending}
	assert.ErrorIs(t, first.Approve(member, 5, time.Now()), domain.ErrInsufficientFunds)
	assert.Equal(t, TxStatusPending, first.Status)
	assert.True(t, member.SavingsBalance.Equal(dec("100")))

	second := &Withdrawal{Amount: dec("50"), Status: TxStatusPending}
	require.NoError(t, second.Approve(member, 5, time.Now()))
	assert.Equal(t, TxStatusApproved, second.Status)
	assert.True(t, member.SavingsBalance.Equal(dec("50")))
}

func TestWithdrawalApprove_ExactBalanceSucceeds(t *testing.T) {
	member := newMember("75.25", "0")
	withdrawal := &Withdrawal{Amount: dec("75.25"), Status: TxStatusPending}

	require.NoError(t, withdrawal.Approve(member, 1, time.Now()))
	assert.True(t, member.SavingsBalance.IsZero())
}

func TestWithdrawalReject_Idempotence(t *testing.T) {
	member := newMember("100", "0")
	withdrawal := &Withdrawal{Amount: dec("10"), Status: TxStatusPending}

	require.NoError(t, withdrawal.Reject(2, time.Now()))
	assert.ErrorIs(t, withdrawal.Reject(2, time.Now()), domain.ErrAlreadyProcessed)
	assert.ErrorIs(t, withdrawal.Approve(member, 2, time.Now()), domain.ErrAlreadyProcessed)
	assert.True(t, member.SavingsBalance.Equal(dec("100")))
}

// ============================================================
// Loan ledger
// ============================================================

func TestLoanTotalPayable(t *testing.T) {
	loan := &Loan{Amount: dec("1000"), InterestRate: dec("10")}
	assert.True(t, loan.TotalPayable().Equal(dec("1100")))

	loan = &Loan{Amount: dec("2500"), InterestRate: dec("12.50")}
	assert.True(t, loan.TotalPayable().Equal(dec("2812.50")))
}

func TestLoanApprove_SetsBalanceAndDueDate(t *testing.T) {
	member := newMember("0", "0")
	loan := &Loan{Amount: dec("1000"), InterestRate: dec("10"), Status: LoanStatusPending}
	now := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)

	err := loan.Approve(member, now)

	require.NoError(t, err)
	assert.Equal(t, LoanStatusApproved, loan.Status)
	assert.True(t, loan.Balance.Equal(dec("1100")))
	require.NotNil(t, loan.ApprovedOn)
	assert.Equal(t, now, *loan.ApprovedOn)
	require.NotNil(t, loan.DueDate)
	assert.Equal(t, time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC), *loan.DueDate)
	// Member loan balance tracks principal only
	assert.True(t, member.LoanBalance.Equal(dec("1000")))
}

func TestLoanApprove_AlreadyProcessed(t *testing.T) {
	member := newMember("0", "0")
	loan := &Loan{Amount: dec("500"), InterestRate: dec("10"), Status: LoanStatusPending}

	require.NoError(t, loan.Approve(member, time.Now()))
	assert.ErrorIs(t, loan.Approve(member, time.Now()), domain.ErrAlreadyProcessed)
	assert.True(t, member.LoanBalance.Equal(dec("500")))

	rejected := &Loan{Amount: dec("500"), Status: LoanStatusPending}
	require.NoError(t, rejected.Reject())
	assert.ErrorIs(t, rejected.Approve(member, time.Now()), domain.ErrAlreadyProcessed)
	assert.ErrorIs(t, rejected.Reject(), domain.ErrAlreadyProcessed)
}

func TestLoanRepayment_ReducesBalances(t *testing.T) {
	member := newMember("0", "0")
	loan := &Loan{ID: 4, Amount: dec("1000"), InterestRate: dec("10"), Status: LoanStatusPending}
	require.NoError(t, loan.Approve(member, time.Now()))

	repayment, err := loan.ApplyRepayment(member, dec("300"), time.Now())

	require.NoError(t, err)
	assert.Equal(t, uint(4), repayment.LoanID)
	assert.True(t, repayment.Amount.Equal(dec("300")))
	assert.True(t, loan.Balance.Equal(dec("800")))
	assert.True(t, member.LoanBalance.Equal(dec("700")))
	assert.Equal(t, LoanStatusApproved, loan.Status)
}

// Worked example: loan 1000 @ 10% approved then repaid in full with 1100.
// The loan completes and the member's loan balance clamps at zero.
func TestLoanScenario_FullRepaymentCompletesLoan(t *testing.T) {
	member := newMember("0", "0")
	loan := &Loan{Amount: dec("1000"), InterestRate: dec("10"), Status: LoanStatusPending}
	require.NoError(t, loan.Approve(member, time.Now()))
	assert.True(t, loan.Balance.Equal(dec("1100")))
	assert.True(t, member.LoanBalance.Equal(dec("1000")))

	_, err := loan.ApplyRepayment(member, dec("1100"), time.Now())

	require.NoError(t, err)
	assert.True(t, loan.Balance.IsZero())
	assert.Equal(t, LoanStatusCompleted, loan.Status)
	assert.True(t, member.LoanBalance.IsZero())
}

func TestLoanRepayment_ExcessIsClampedAtZero(t *testing.T) {
	member := newMember("0", "0")
	loan := &Loan{Amount: dec("100"), InterestRate: dec("10"), Status: LoanStatusPending}
	require.NoError(t, loan.Approve(member, time.Now()))

	_, err := loan.ApplyRepayment(member, dec("500"), time.Now())

	require.NoError(t, err)
	assert.True(t, loan.Balance.IsZero())
	assert.Equal(t, LoanStatusCompleted, loan.Status)
	assert.True(t, member.LoanBalance.IsZero())
}

func TestLoanRepayment_RequiresApprovedStatus(t *testing.T) {
	member := newMember("0", "0")

	pending := &Loan{Amount: dec("100"), Status: LoanStatusPending}
	_, err := pending.ApplyRepayment(member, dec("10"), time.Now())
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	completed := &Loan{Amount: dec("100"), Status: LoanStatusCompleted}
	_, err = completed.ApplyRepayment(member, dec("10"), time.Now())
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestLoanRepayment_RejectsNonPositiveAmount(t *testing.T) {
	member := newMember("0", "0")
	loan := &Loan{Amount: dec("100"), InterestRate: dec("10"), Status: LoanStatusPending}
	require.NoError(t, loan.Approve(member, time.Now()))

	_, err := loan.ApplyRepayment(member, dec("0"), time.Now())
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = loan.ApplyRepayment(member, dec("-5"), time.Now())
	assert.ErrorIs(t, err, domain.ErrValidation)

	assert.True(t, loan.Balance.Equal(dec("110")))
}

func TestLoanRepayment_SequenceNeverGoesNegative(t *testing.T) {
	member := newMember("0", "0")
	loan := &Loan{Amount: dec("1000"), InterestRate: dec("10"), Status: LoanStatusPending}
	require.NoError(t, loan.Approve(member, time.Now()))

	for _, amt := range []string{"400", "400", "400"} {
		if loan.Status != LoanStatusApproved {
			break
		}
		_, err := loan.ApplyRepayment(member, dec(amt), time.Now())
		require.NoError(t, err)
		assert.False(t, loan.Balance.IsNegative())
		assert.False(t, member.LoanBalance.IsNegative())
	}

	assert.Equal(t, LoanStatusCompleted, loan.Status)
	assert.True(t, loan.Balance.IsZero())
}
