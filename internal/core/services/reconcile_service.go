package services

import (
	"context"
	"log"
	"time"

	"saccolink/internal/adapters/persistence/models"

	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// reconcileSchedule runs the nightly check at 02:30
const reconcileSchedule = "30 2 * * *"

// ReconcileService verifies that member balances agree with the approved
// ledger history. It never mutates data; discrepancies are reported for
// operators to investigate.
type ReconcileService struct {
	db   *gorm.DB
	cron *cron.Cron
}

// NewReconcileService creates a new reconcile service
func NewReconcileService(db *gorm.DB) *ReconcileService {
	return &ReconcileService{
		db:   db,
		cron: cron.New(),
	}
}

// Discrepancy represents one balance that disagrees with its ledger
type Discrepancy struct {
	MemberID uint            `json:"member_id"`
	LoanID   uint            `json:"loan_id,omitempty"`
	Field    string          `json:"field"`
	Stored   decimal.Decimal `json:"stored"`
	Expected decimal.Decimal `json:"expected"`
}

// ReconciliationReport represents one reconciliation run
type ReconciliationReport struct {
	RanAt          time.Time     `json:"ran_at"`
	MembersChecked int64         `json:"members_checked"`
	LoansChecked   int64         `json:"loans_checked"`
	Discrepancies  []Discrepancy `json:"discrepancies"`
}

// Clean reports whether the run found no discrepancies
func (r *ReconciliationReport) Clean() bool {
	return len(r.Discrepancies) == 0
}

// Start schedules the nightly reconciliation
func (s *ReconcileService) Start() error {
	_, err := s.cron.AddFunc(reconcileSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()

		s.purgeExpiredTokens(ctx)

		report, err := s.CheckAll(ctx)
		if err != nil {
			log.Printf("❌ Reconciliation failed: %v", err)
			return
		}
		if report.Clean() {
			log.Printf("✅ Reconciliation clean: %d members, %d loans checked",
				report.MembersChecked, report.LoansChecked)
			return
		}
		for _, d := range report.Discrepancies {
			log.Printf("⚠️ Reconciliation mismatch: member=%d field=%s stored=%s expected=%s",
				d.MemberID, d.Field, d.Stored, d.Expected)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	log.Printf("✅ Reconciliation job scheduled (%s)", reconcileSchedule)
	return nil
}

// Stop stops the scheduler and waits for a running job to finish
func (s *ReconcileService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// purgeExpiredTokens deletes refresh tokens past their expiry
func (s *ReconcileService) purgeExpiredTokens(ctx context.Context) {
	result := s.db.WithContext(ctx).
		Where("expires_at < ?", time.Now()).
		Delete(&models.RefreshToken{})
	if result.Error != nil {
		log.Printf("❌ Token purge failed: %v", result.Error)
		return
	}
	if result.RowsAffected > 0 {
		log.Printf("✅ Purged %d expired refresh tokens", result.RowsAffected)
	}
}

// CheckAll compares every member's savings balance against the approved
// deposit/withdrawal history and every active loan's balance against its
// repayment history
func (s *ReconcileService) CheckAll(ctx context.Context) (*ReconciliationReport, error) {
	report := &ReconciliationReport{
		RanAt:         time.Now(),
		Discrepancies: []Discrepancy{},
	}

	var members []models.Member
	if err := s.db.WithContext(ctx).Find(&members).Error; err != nil {
		return nil, err
	}
	report.MembersChecked = int64(len(members))

	for i := range members {
		member := &members[i]

		var depositSum, withdrawalSum decimal.Decimal
		s.db.WithContext(ctx).Table("deposits").
			Where("member_id = ? AND status = ?", member.ID, models.TxStatusApproved).
			Select("COALESCE(SUM(amount), 0)").
			Scan(&depositSum)
		s.db.WithContext(ctx).Table("withdrawals").
			Where("member_id = ? AND status = ?", member.ID, models.TxStatusApproved).
			Select("COALESCE(SUM(amount), 0)").
			Scan(&withdrawalSum)

		expected := depositSum.Sub(withdrawalSum)
		if !member.SavingsBalance.Equal(expected) {
			report.Discrepancies = append(report.Discrepancies, Discrepancy{
				MemberID: member.ID,
				Field:    "savings_balance",
				Stored:   member.SavingsBalance,
				Expected: expected,
			})
		}
	}

	var loans []models.Loan
	err := s.db.WithContext(ctx).
		Where("status IN ?", []string{models.LoanStatusApproved, models.LoanStatusCompleted}).
		Find(&loans).Error
	if err != nil {
		return nil, err
	}
	report.LoansChecked = int64(len(loans))

	for i := range loans {
		loan := &loans[i]

		var repaid decimal.Decimal
		s.db.WithContext(ctx).Table("loan_repayments").
			Where("loan_id = ?", loan.ID).
			Select("COALESCE(SUM(amount), 0)").
			Scan(&repaid)

		// Overpayment is discarded at repayment time, so clamp here too
		expected := loan.TotalPayable().Sub(repaid)
		if expected.IsNegative() {
			expected = decimal.Zero
		}
		if !loan.Balance.Equal(expected) {
			report.Discrepancies = append(report.Discrepancies, Discrepancy{
				MemberID: loan.MemberID,
				LoanID:   loan.ID,
				Field:    "loan_balance",
				Stored:   loan.Balance,
				Expected: expected,
			})
		}
	}

	return report, nil
}
