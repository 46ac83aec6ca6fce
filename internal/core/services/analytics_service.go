package services

import (
	"context"
	"fmt"
	"time"

	"saccolink/internal/adapters/persistence/models"
	"saccolink/internal/core/domain"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// AnalyticsService aggregates ledger data for dashboards and reports
type AnalyticsService struct {
	db *gorm.DB
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(db *gorm.DB) *AnalyticsService {
	return &AnalyticsService{db: db}
}

// ============================================================
// Dashboard
// ============================================================

// DashboardData represents the cooperative-wide dashboard
type DashboardData struct {
	TotalMembers int64 `json:"total_members"`
	TotalStaff   int64 `json:"total_staff"`

	TotalSavings    decimal.Decimal `json:"total_savings"`
	TotalLoansOwed  decimal.Decimal `json:"total_loans_owed"`
	TotalDisbursed  decimal.Decimal `json:"total_disbursed"`
	TotalRepaid     decimal.Decimal `json:"total_repaid"`

	PendingDeposits    int64 `json:"pending_deposits"`
	PendingWithdrawals int64 `json:"pending_withdrawals"`
	PendingLoans       int64 `json:"pending_loans"`
	ApprovedLoans      int64 `json:"approved_loans"`
	CompletedLoans     int64 `json:"completed_loans"`
}

// GetDashboard returns the cooperative-wide dashboard
func (s *AnalyticsService) GetDashboard(ctx context.Context) (*DashboardData, error) {
	data := &DashboardData{}

	s.db.WithContext(ctx).Table("members").Count(&data.TotalMembers)
	s.db.WithContext(ctx).Table("staff").Count(&data.TotalStaff)

	s.db.WithContext(ctx).Table("members").
		Select("COALESCE(SUM(savings_balance), 0)").
		Scan(&data.TotalSavings)

	s.db.WithContext(ctx).Table("loans").
		Where("status = ?", models.LoanStatusApproved).
		Select("COALESCE(SUM(balance), 0)").
		Scan(&data.TotalLoansOwed)

	s.db.WithContext(ctx).Table("loans").
		Where("status IN ?", []string{models.LoanStatusApproved, models.LoanStatusCompleted}).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&data.TotalDisbursed)

	s.db.WithContext(ctx).Table("loan_repayments").
		Select("COALESCE(SUM(amount), 0)").
		Scan(&data.TotalRepaid)

	s.db.WithContext(ctx).Table("deposits").
		Where("status = ?", models.TxStatusPending).Count(&data.PendingDeposits)
	s.db.WithContext(ctx).Table("withdrawals").
		Where("status = ?", models.TxStatusPending).Count(&data.PendingWithdrawals)
	s.db.WithContext(ctx).Table("loans").
		Where("status = ?", models.LoanStatusPending).Count(&data.PendingLoans)
	s.db.WithContext(ctx).Table("loans").
		Where("status = ?", models.LoanStatusApproved).Count(&data.ApprovedLoans)
	s.db.WithContext(ctx).Table("loans").
		Where("status = ?", models.LoanStatusCompleted).Count(&data.CompletedLoans)

	return data, nil
}

// ============================================================
// Monthly Trends
// ============================================================

// MonthlyTrend represents one month's approved ledger flow
type MonthlyTrend struct {
	Month       string          `json:"month"`
	NewMembers  int64           `json:"new_members"`
	Deposits    decimal.Decimal `json:"deposits"`
	Withdrawals decimal.Decimal `json:"withdrawals"`
	LoansIssued decimal.Decimal `json:"loans_issued"`
	Repayments  decimal.Decimal `json:"repayments"`
}

// GetMonthlyTrends returns the per-month approved flow for the current year
func (s *AnalyticsService) GetMonthlyTrends(ctx context.Context, now time.Time) ([]MonthlyTrend, error) {
	trends := make([]MonthlyTrend, 0, 12)

	for month := 1; month <= int(now.Month()); month++ {
		start, end := monthBounds(now.Year(), time.Month(month), now.Location())

		trend := MonthlyTrend{Month: start.Format("2006-01")}

		s.db.WithContext(ctx).Table("members").
			Where("joined_at >= ? AND joined_at < ?", start, end).
			Count(&trend.NewMembers)

		s.db.WithContext(ctx).Table("deposits").
			Where("status = ? AND approved_on >= ? AND approved_on < ?", models.TxStatusApproved, start, end).
			Select("COALESCE(SUM(amount), 0)").
			Scan(&trend.Deposits)

		s.db.WithContext(ctx).Table("withdrawals").
			Where("status = ? AND approved_on >= ? AND approved_on < ?", models.TxStatusApproved, start, end).
			Select("COALESCE(SUM(amount), 0)").
			Scan(&trend.Withdrawals)

		s.db.WithContext(ctx).Table("loans").
			Where("approved_on >= ? AND approved_on < ?", start, end).
			Select("COALESCE(SUM(amount), 0)").
			Scan(&trend.LoansIssued)

		s.db.WithContext(ctx).Table("loan_repayments").
			Where("date >= ? AND date < ?", start, end).
			Select("COALESCE(SUM(amount), 0)").
			Scan(&trend.Repayments)

		trends = append(trends, trend)
	}

	return trends, nil
}

// ============================================================
// Financial Summary
// ============================================================

// FinancialSummary represents the approved flow within a date range
type FinancialSummary struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`

	DepositsTotal    decimal.Decimal `json:"deposits_total"`
	DepositsCount    int64           `json:"deposits_count"`
	WithdrawalsTotal decimal.Decimal `json:"withdrawals_total"`
	WithdrawalsCount int64           `json:"withdrawals_count"`
	LoansIssued      decimal.Decimal `json:"loans_issued"`
	LoansCount       int64           `json:"loans_count"`
	RepaymentsTotal  decimal.Decimal `json:"repayments_total"`
	RepaymentsCount  int64           `json:"repayments_count"`

	NetSavingsFlow decimal.Decimal `json:"net_savings_flow"`
	Outstanding    decimal.Decimal `json:"outstanding"`
	ApprovalRate   decimal.Decimal `json:"approval_rate"`
}

// GetFinancialSummary returns totals of approved activity between from and to
func (s *AnalyticsService) GetFinancialSummary(ctx context.Context, from, to time.Time) (*FinancialSummary, error) {
	if to.Before(from) {
		return nil, domain.ErrValidation
	}

	summary := &FinancialSummary{From: from, To: to}

	s.db.WithContext(ctx).Table("deposits").
		Where("status = ? AND approved_on >= ? AND approved_on <= ?", models.TxStatusApproved, from, to).
		Count(&summary.DepositsCount)
	s.db.WithContext(ctx).Table("deposits").
		Where("status = ? AND approved_on >= ? AND approved_on <= ?", models.TxStatusApproved, from, to).
		Select("COALESCE(SUM(amount), 0)").Scan(&summary.DepositsTotal)

	s.db.WithContext(ctx).Table("withdrawals").
		Where("status = ? AND approved_on >= ? AND approved_on <= ?", models.TxStatusApproved, from, to).
		Count(&summary.WithdrawalsCount)
	s.db.WithContext(ctx).Table("withdrawals").
		Where("status = ? AND approved_on >= ? AND approved_on <= ?", models.TxStatusApproved, from, to).
		Select("COALESCE(SUM(amount), 0)").Scan(&summary.WithdrawalsTotal)

	s.db.WithContext(ctx).Table("loans").
		Where("approved_on >= ? AND approved_on <= ?", from, to).
		Count(&summary.LoansCount)
	s.db.WithContext(ctx).Table("loans").
		Where("approved_on >= ? AND approved_on <= ?", from, to).
		Select("COALESCE(SUM(amount), 0)").Scan(&summary.LoansIssued)

	s.db.WithContext(ctx).Table("loan_repayments").
		Where("date >= ? AND date <= ?", from, to).
		Count(&summary.RepaymentsCount)
	s.db.WithContext(ctx).Table("loan_repayments").
		Where("date >= ? AND date <= ?", from, to).
		Select("COALESCE(SUM(amount), 0)").Scan(&summary.RepaymentsTotal)

	summary.NetSavingsFlow = summary.DepositsTotal.Sub(summary.WithdrawalsTotal)
	summary.Outstanding = summary.LoansIssued.Sub(summary.RepaymentsTotal)
	if summary.Outstanding.IsNegative() {
		summary.Outstanding = decimal.Zero
	}

	// Approval rate across loan decisions made in the range
	var approved, rejected int64
	s.db.WithContext(ctx).Table("loans").
		Where("approved_on >= ? AND approved_on <= ?", from, to).
		Count(&approved)
	s.db.WithContext(ctx).Table("loans").
		Where("status = ? AND requested_on >= ? AND requested_on <= ?", models.LoanStatusRejected, from, to).
		Count(&rejected)
	summary.ApprovalRate = ratioPercent(
		decimal.NewFromInt(approved),
		decimal.NewFromInt(approved+rejected),
	)

	return summary, nil
}

// ============================================================
// Performance
// ============================================================

// ApprovalTrendPoint represents one month of loan decisions
type ApprovalTrendPoint struct {
	Month    string `json:"month"`
	Approved int64  `json:"approved"`
	Rejected int64  `json:"rejected"`
}

// MemberRanking represents a member ranked by a balance
type MemberRanking struct {
	MemberID uint            `json:"member_id"`
	Username string          `json:"username"`
	Balance  decimal.Decimal `json:"balance"`
}

// PerformanceData represents cooperative health indicators
type PerformanceData struct {
	LoanToDepositRatio decimal.Decimal `json:"loan_to_deposit_ratio"`
	RepaymentRate      decimal.Decimal `json:"repayment_rate"`
	SavingsGrowth      decimal.Decimal `json:"savings_growth"`

	ActiveLoans    int64 `json:"active_loans"`
	CompletedLoans int64 `json:"completed_loans"`

	ApprovalTrend []ApprovalTrendPoint `json:"approval_trend"`
	TopSavers     []MemberRanking      `json:"top_savers"`
	TopBorrowers  []MemberRanking      `json:"top_borrowers"`
}

// GetPerformance returns cooperative health indicators: loan-to-deposit
// ratio, repayment rate, month-over-month savings growth, the six-month
// loan decision trend, and member rankings.
func (s *AnalyticsService) GetPerformance(ctx context.Context, now time.Time) (*PerformanceData, error) {
	data := &PerformanceData{}

	var totalSavings, outstandingPrincipal decimal.Decimal
	s.db.WithContext(ctx).Table("members").
		Select("COALESCE(SUM(savings_balance), 0)").
		Scan(&totalSavings)
	s.db.WithContext(ctx).Table("members").
		Select("COALESCE(SUM(loan_balance), 0)").
		Scan(&outstandingPrincipal)

	data.LoanToDepositRatio = ratioPercent(outstandingPrincipal, totalSavings)

	// Repayment rate: share of the total payable that has been repaid
	var totalPayable, totalRepaid decimal.Decimal
	s.db.WithContext(ctx).Table("loans").
		Where("status IN ?", []string{models.LoanStatusApproved, models.LoanStatusCompleted}).
		Select("COALESCE(SUM(amount + amount * interest_rate / 100), 0)").
		Scan(&totalPayable)
	s.db.WithContext(ctx).Table("loan_repayments").
		Select("COALESCE(SUM(amount), 0)").
		Scan(&totalRepaid)

	data.RepaymentRate = ratioPercent(totalRepaid, totalPayable)

	// Savings growth: approved deposit flow this month vs last month
	thisStart, thisEnd := monthBounds(now.Year(), now.Month(), now.Location())
	lastMonth := thisStart.AddDate(0, -1, 0)
	lastStart, lastEnd := monthBounds(lastMonth.Year(), lastMonth.Month(), now.Location())

	var thisMonthDeposits, lastMonthDeposits decimal.Decimal
	s.db.WithContext(ctx).Table("deposits").
		Where("status = ? AND approved_on >= ? AND approved_on < ?", models.TxStatusApproved, thisStart, thisEnd).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&thisMonthDeposits)
	s.db.WithContext(ctx).Table("deposits").
		Where("status = ? AND approved_on >= ? AND approved_on < ?", models.TxStatusApproved, lastStart, lastEnd).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&lastMonthDeposits)

	data.SavingsGrowth = growthPercent(thisMonthDeposits, lastMonthDeposits)

	s.db.WithContext(ctx).Table("loans").
		Where("status = ?", models.LoanStatusApproved).Count(&data.ActiveLoans)
	s.db.WithContext(ctx).Table("loans").
		Where("status = ?", models.LoanStatusCompleted).Count(&data.CompletedLoans)

	// Loan decisions over the last six months, oldest first
	data.ApprovalTrend = make([]ApprovalTrendPoint, 0, 6)
	for i := 5; i >= 0; i-- {
		month := thisStart.AddDate(0, -i, 0)
		start, end := monthBounds(month.Year(), month.Month(), now.Location())

		point := ApprovalTrendPoint{Month: start.Format("2006-01")}
		s.db.WithContext(ctx).Table("loans").
			Where("approved_on >= ? AND approved_on < ?", start, end).
			Count(&point.Approved)
		s.db.WithContext(ctx).Table("loans").
			Where("status = ? AND requested_on >= ? AND requested_on < ?", models.LoanStatusRejected, start, end).
			Count(&point.Rejected)

		data.ApprovalTrend = append(data.ApprovalTrend, point)
	}

	data.TopSavers = s.rankMembers(ctx, "savings_balance")
	data.TopBorrowers = s.rankMembers(ctx, "loan_balance")

	return data, nil
}

// rankMembers returns the top five members by the given balance column
func (s *AnalyticsService) rankMembers(ctx context.Context, column string) []MemberRanking {
	var rows []struct {
		MemberID uint
		Username string
		Balance  decimal.Decimal
	}
	s.db.WithContext(ctx).Table("members").
		Select(fmt.Sprintf("members.id as member_id, users.username, members.%s as balance", column)).
		Joins("LEFT JOIN users ON users.id = members.user_id").
		Where(fmt.Sprintf("members.%s > 0", column)).
		Order("balance DESC").
		Limit(5).
		Scan(&rows)

	rankings := make([]MemberRanking, len(rows))
	for i, r := range rows {
		rankings[i] = MemberRanking{
			MemberID: r.MemberID,
			Username: r.Username,
			Balance:  r.Balance,
		}
	}
	return rankings
}

// ============================================================
// Admin Overview
// ============================================================

// PendingItem represents one request awaiting a decision
type PendingItem struct {
	ID        uint            `json:"id"`
	Kind      string          `json:"kind"`
	MemberID  uint            `json:"member_id"`
	Amount    decimal.Decimal `json:"amount"`
	CreatedAt time.Time       `json:"created_at"`
}

// AdminOverviewData represents the admin landing page
type AdminOverviewData struct {
	TotalUsers   int64 `json:"total_users"`
	TotalAdmins  int64 `json:"total_admins"`
	TotalStaff   int64 `json:"total_staff"`
	TotalMembers int64 `json:"total_members"`

	Dashboard *DashboardData `json:"dashboard"`

	PendingQueue []PendingItem `json:"pending_queue"`
}

// GetAdminOverview returns account counts, the cooperative dashboard and
// the oldest pending requests across all three ledgers
func (s *AnalyticsService) GetAdminOverview(ctx context.Context) (*AdminOverviewData, error) {
	data := &AdminOverviewData{}

	s.db.WithContext(ctx).Table("users").Where("deleted_at IS NULL").Count(&data.TotalUsers)
	s.db.WithContext(ctx).Table("users").
		Where("role = ? AND deleted_at IS NULL", string(domain.RoleAdmin)).Count(&data.TotalAdmins)
	s.db.WithContext(ctx).Table("users").
		Where("role = ? AND deleted_at IS NULL", string(domain.RoleStaff)).Count(&data.TotalStaff)
	s.db.WithContext(ctx).Table("users").
		Where("role = ? AND deleted_at IS NULL", string(domain.RoleMember)).Count(&data.TotalMembers)

	dashboard, err := s.GetDashboard(ctx)
	if err != nil {
		return nil, err
	}
	data.Dashboard = dashboard

	data.PendingQueue = make([]PendingItem, 0, 30)
	for _, table := range []struct {
		name string
		kind string
		date string
	}{
		{"deposits", "deposit", "created_at"},
		{"withdrawals", "withdrawal", "created_at"},
		{"loans", "loan", "requested_on"},
	} {
		var rows []struct {
			ID        uint
			MemberID  uint
			Amount    decimal.Decimal
			CreatedAt time.Time
		}
		s.db.WithContext(ctx).Table(table.name).
			Select(fmt.Sprintf("id, member_id, amount, %s as created_at", table.date)).
			Where("status = ?", models.TxStatusPending).
			Order(table.date + " ASC").
			Limit(10).
			Scan(&rows)

		for _, r := range rows {
			data.PendingQueue = append(data.PendingQueue, PendingItem{
				ID:        r.ID,
				Kind:      table.kind,
				MemberID:  r.MemberID,
				Amount:    r.Amount,
				CreatedAt: r.CreatedAt,
			})
		}
	}

	return data, nil
}

// ============================================================
// Pure helpers
// ============================================================

// ratioPercent returns part/whole as a percentage, zero when whole is zero
func ratioPercent(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(decimal.NewFromInt(100)).Round(2)
}

// growthPercent returns the percent change from previous to current,
// zero when previous is zero
func growthPercent(current, previous decimal.Decimal) decimal.Decimal {
	if previous.IsZero() {
		return decimal.Zero
	}
	return current.Sub(previous).Div(previous).Mul(decimal.NewFromInt(100)).Round(2)
}

// monthBounds returns the half-open interval [start, end) of a calendar month
func monthBounds(year int, month time.Month, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 1, 0)
}
