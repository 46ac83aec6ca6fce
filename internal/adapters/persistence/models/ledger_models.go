package models

import (
	"time"

	"saccolink/internal/core/domain"

	"github.com/shopspring/decimal"
)

// ============================================================
// Savings Ledger
// ============================================================

// Savings transaction statuses (terminal: approved, rejected)
const (
	TxStatusPending  = "pending"
	TxStatusApproved = "approved"
	TxStatusRejected = "rejected"
)

// Deposit represents the deposits table. Created pending by a member and
// approved or rejected exactly once by staff/admin; approval credits the
// member's savings balance.
type Deposit struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	MemberID   uint            `gorm:"index;not null" json:"member_id"`
	Amount     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Status     string          `gorm:"size:20;not null;default:'pending';index" json:"status"`
	ApprovedBy *uint           `json:"approved_by"`
	ApprovedOn *time.Time      `json:"approved_on"`
	CreatedAt  time.Time       `gorm:"autoCreateTime;index" json:"created_at"`

	Member   *Member `gorm:"foreignKey:MemberID;constraint:OnDelete:CASCADE" json:"member,omitempty"`
	Approver *User   `gorm:"foreignKey:ApprovedBy" json:"approver,omitempty"`
}

func (Deposit) TableName() string {
	return "deposits"
}

// Approve transitions pending→approved and credits the member's savings
// balance by the deposit amount. The deposit and member rows must be saved
// in one transaction by the caller.
func (d *Deposit) Approve(m *Member, approverID uint, now time.Time) error {
	if d.Status != TxStatusPending {
		return domain.ErrAlreadyProcessed
	}

	m.SavingsBalance = m.SavingsBalance.Add(d.Amount)

	d.Status = TxStatusApproved
	d.ApprovedBy = &approverID
	d.ApprovedOn = &now
	return nil
}

// Reject transitions pending→rejected with no balance effect
func (d *Deposit) Reject(approverID uint, now time.Time) error {
	if d.Status != TxStatusPending {
		return domain.ErrAlreadyProcessed
	}

	d.Status = TxStatusRejected
	d.ApprovedBy = &approverID
	d.ApprovedOn = &now
	return nil
}

// Withdrawal represents the withdrawals table. Funds are checked at approval
// time, not at request time, since the balance may change while pending.
type Withdrawal struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	MemberID   uint            `gorm:"index;not null" json:"member_id"`
	Amount     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Status     string          `gorm:"size:20;not null;default:'pending';index" json:"status"`
	ApprovedBy *uint           `json:"approved_by"`
	ApprovedOn *time.Time      `json:"approved_on"`
	CreatedAt  time.Time       `gorm:"autoCreateTime;index" json:"created_at"`

	Member   *Member `gorm:"foreignKey:MemberID;constraint:OnDelete:CASCADE" json:"member,omitempty"`
	Approver *User   `gorm:"foreignKey:ApprovedBy" json:"approver,omitempty"`
}

func (Withdrawal) TableName() string {
	return "withdrawals"
}

// Approve transitions pending→approved and debits the member's savings
// balance. Fails with ErrInsufficientFunds, leaving status and balance
// untouched, when the amount exceeds the current balance.
func (w *Withdrawal) Approve(m *Member, approverID uint, now time.Time) error {
	if w.Status != TxStatusPending {
		return domain.ErrAlreadyProcessed
	}
	if m.SavingsBalance.LessThan(w.Amount) {
		return domain.ErrInsufficientFunds
	}

	m.SavingsBalance = m.SavingsBalance.Sub(w.Amount)

	w.Status = TxStatusApproved
	w.ApprovedBy = &approverID
	w.ApprovedOn = &now
	return nil
}

// Reject transitions pending→rejected with no balance effect
func (w *Withdrawal) Reject(approverID uint, now time.Time) error {
	if w.Status != TxStatusPending {
		return domain.ErrAlreadyProcessed
	}

	w.Status = TxStatusRejected
	w.ApprovedBy = &approverID
	w.ApprovedOn = &now
	return nil
}

// ============================================================
// Loan Ledger
// ============================================================

// Loan statuses (pending → approved → completed, pending → rejected)
const (
	LoanStatusPending   = "pending"
	LoanStatusApproved  = "approved"
	LoanStatusRejected  = "rejected"
	LoanStatusCompleted = "completed"
)

// DefaultInterestRate is the interest rate (%) applied when a loan request
// does not specify one
var DefaultInterestRate = decimal.NewFromFloat(10.00)

// DefaultDurationMonths is the loan duration applied when not specified
const DefaultDurationMonths = 12

// Loan represents the loans table. Balance is zero until approval, then set
// to principal plus interest and monotonically reduced by repayments.
type Loan struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	MemberID       uint            `gorm:"index;not null" json:"member_id"`
	Amount         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	InterestRate   decimal.Decimal `gorm:"type:decimal(5,2);not null;default:10.00" json:"interest_rate"`
	DurationMonths int             `gorm:"not null;default:12" json:"duration_months"`
	Status         string          `gorm:"size:20;not null;default:'pending';index" json:"status"`
	RequestedOn    time.Time       `gorm:"autoCreateTime;index" json:"requested_on"`
	ApprovedOn     *time.Time      `json:"approved_on"`
	DueDate        *time.Time      `gorm:"type:date" json:"due_date"`
	Balance        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"balance"`

	Member     *Member         `gorm:"foreignKey:MemberID;constraint:OnDelete:CASCADE" json:"member,omitempty"`
	Repayments []LoanRepayment `gorm:"foreignKey:LoanID" json:"repayments,omitempty"`
}

func (Loan) TableName() string {
	return "loans"
}

// TotalPayable returns principal plus interest: amount × (1 + rate/100)
func (l *Loan) TotalPayable() decimal.Decimal {
	interest := l.Amount.Mul(l.InterestRate).Div(decimal.NewFromInt(100))
	return l.Amount.Add(interest)
}

// Approve transitions pending→approved: sets the outstanding balance to
// principal plus interest, stamps approval and due date (one year out), and
// increases the member's loan balance by the principal. The loan and member
// rows must be saved in one transaction by the caller.
func (l *Loan) Approve(m *Member, now time.Time) error {
	if l.Status != LoanStatusPending {
		return domain.ErrAlreadyProcessed
	}

	l.Balance = l.TotalPayable()
	l.Status = LoanStatusApproved
	l.ApprovedOn = &now
	due := now.AddDate(1, 0, 0)
	l.DueDate = &due

	// Principal only; repayments reduce it clamped at zero.
	m.LoanBalance = m.LoanBalance.Add(l.Amount)
	return nil
}

// Reject transitions pending→rejected with no balance effect
func (l *Loan) Reject() error {
	if l.Status != LoanStatusPending {
		return domain.ErrAlreadyProcessed
	}

	l.Status = LoanStatusRejected
	return nil
}

// ApplyRepayment records a repayment against an approved loan: the loan
// balance and the member's loan balance drop by the amount, both clamped at
// zero; a loan whose balance reaches zero transitions to completed. Excess
// over the outstanding balance is accepted and discarded.
func (l *Loan) ApplyRepayment(m *Member, amount decimal.Decimal, now time.Time) (*LoanRepayment, error) {
	if !amount.IsPositive() {
		return nil, domain.ErrValidation
	}
	if l.Status != LoanStatusApproved {
		return nil, domain.ErrInvalidState
	}

	l.Balance = l.Balance.Sub(amount)
	if l.Balance.IsNegative() {
		l.Balance = decimal.Zero
	}
	if l.Balance.IsZero() {
		l.Status = LoanStatusCompleted
	}

	m.LoanBalance = m.LoanBalance.Sub(amount)
	if m.LoanBalance.IsNegative() {
		m.LoanBalance = decimal.Zero
	}

	return &LoanRepayment{
		LoanID: l.ID,
		Amount: amount,
		Date:   now,
	}, nil
}

// LoanRepayment represents the loan_repayments table: append-only ledger
// entries, immutable once created
type LoanRepayment struct {
	ID     uint            `gorm:"primaryKey" json:"id"`
	LoanID uint            `gorm:"index;not null" json:"loan_id"`
	Amount decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Date   time.Time       `gorm:"not null;index" json:"date"`

	Loan *Loan `gorm:"foreignKey:LoanID;constraint:OnDelete:CASCADE" json:"-"`
}

func (LoanRepayment) TableName() string {
	return "loan_repayments"
}

// ============================================================
// DTOs
// ============================================================

// SavingsTxResponse DTO shared by deposits and withdrawals
type SavingsTxResponse struct {
	ID           uint            `json:"id"`
	MemberID     uint            `json:"member_id"`
	MemberName   string          `json:"member_name,omitempty"`
	Amount       decimal.Decimal `json:"amount"`
	Status       string          `json:"status"`
	ApprovedBy   *uint           `json:"approved_by"`
	ApproverName string          `json:"approver_name,omitempty"`
	ApprovedOn   *time.Time      `json:"approved_on"`
	CreatedAt    time.Time       `json:"created_at"`
}

func (d *Deposit) ToResponse() *SavingsTxResponse {
	resp := &SavingsTxResponse{
		ID:         d.ID,
		MemberID:   d.MemberID,
		Amount:     d.Amount,
		Status:     d.Status,
		ApprovedBy: d.ApprovedBy,
		ApprovedOn: d.ApprovedOn,
		CreatedAt:  d.CreatedAt,
	}

	if d.Member != nil && d.Member.User != nil {
		resp.MemberName = d.Member.User.Username
	}
	if d.Approver != nil {
		resp.ApproverName = d.Approver.Username
	}

	return resp
}

func (w *Withdrawal) ToResponse() *SavingsTxResponse {
	resp := &SavingsTxResponse{
		ID:         w.ID,
		MemberID:   w.MemberID,
		Amount:     w.Amount,
		Status:     w.Status,
		ApprovedBy: w.ApprovedBy,
		ApprovedOn: w.ApprovedOn,
		CreatedAt:  w.CreatedAt,
	}

	if w.Member != nil && w.Member.User != nil {
		resp.MemberName = w.Member.User.Username
	}
	if w.Approver != nil {
		resp.ApproverName = w.Approver.Username
	}

	return resp
}

// LoanResponse DTO
type LoanResponse struct {
	ID             uint            `json:"id"`
	MemberID       uint            `json:"member_id"`
	MemberName     string          `json:"member_name,omitempty"`
	Amount         decimal.Decimal `json:"amount"`
	InterestRate   decimal.Decimal `json:"interest_rate"`
	DurationMonths int             `json:"duration_months"`
	Status         string          `json:"status"`
	RequestedOn    time.Time       `json:"requested_on"`
	ApprovedOn     *time.Time      `json:"approved_on"`
	DueDate        *time.Time      `json:"due_date"`
	Balance        decimal.Decimal `json:"balance"`
}

func (l *Loan) ToResponse() *LoanResponse {
	resp := &LoanResponse{
		ID:             l.ID,
		MemberID:       l.MemberID,
		Amount:         l.Amount,
		InterestRate:   l.InterestRate,
		DurationMonths: l.DurationMonths,
		Status:         l.Status,
		RequestedOn:    l.RequestedOn,
		ApprovedOn:     l.ApprovedOn,
		DueDate:        l.DueDate,
		Balance:        l.Balance,
	}

	if l.Member != nil && l.Member.User != nil {
		resp.MemberName = l.Member.User.Username
	}

	return resp
}
