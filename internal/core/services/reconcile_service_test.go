package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReconciliationReportClean(t *testing.T) {
	report := &ReconciliationReport{
		RanAt:          time.Now(),
		MembersChecked: 5,
		LoansChecked:   2,
		Discrepancies:  []Discrepancy{},
	}
	assert.True(t, report.Clean())

	report.Discrepancies = append(report.Discrepancies, Discrepancy{
		MemberID: 1,
		Field:    "savings_balance",
		Stored:   d("100.00"),
		Expected: d("90.00"),
	})
	assert.False(t, report.Clean())
}

func TestNormalizeListInput(t *testing.T) {
	page, limit := 0, 0
	normalizeListInput(&page, &limit)
	assert.Equal(t, 1, page)
	assert.Equal(t, 10, limit)

	page, limit = 3, 50
	normalizeListInput(&page, &limit)
	assert.Equal(t, 3, page)
	assert.Equal(t, 50, limit)

	page, limit = 1, 500
	normalizeListInput(&page, &limit)
	assert.Equal(t, 100, limit)
}
