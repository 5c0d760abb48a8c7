package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBalanceFoldsAllDeltas(t *testing.T) {
	db := newTestDB(t)
	_, child := seedFamily(t, db)
	ledger := NewLedgerService(db)

	for _, delta := range []int{10, 20, -5} {
		_, err := ledger.Append(db, child.ID, delta, "TASK_APPROVED", nil, nil)
		require.NoError(t, err)
	}

	balance, err := ledger.Balance(child.ID)
	require.NoError(t, err)
	assert.Equal(t, 25, balance)
}

func TestBalanceEmptyLedgerIsZero(t *testing.T) {
	db := newTestDB(t)
	_, child := seedFamily(t, db)
	ledger := NewLedgerService(db)

	balance, err := ledger.Balance(child.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, balance)
}

func TestPositiveLifetimeTotalIgnoresDebits(t *testing.T) {
	db := newTestDB(t)
	_, child := seedFamily(t, db)
	ledger := NewLedgerService(db)

	for _, delta := range []int{150, 100, -200} {
		_, err := ledger.Append(db, child.ID, delta, "entry", nil, nil)
		require.NoError(t, err)
	}

	lifetime, err := ledger.PositiveLifetimeTotal(child.ID)
	require.NoError(t, err)
	assert.Equal(t, 250, lifetime)

	balance, err := ledger.Balance(child.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, balance)
}

func TestPointsSummaryMoneyConversion(t *testing.T) {
	db := newTestDB(t)
	_, child := seedFamily(t, db)
	ledger := NewLedgerService(db)

	// One credit last month, one this month.
	pinClock(ledger, time.Date(2026, time.February, 20, 10, 0, 0, 0, time.UTC))
	_, err := ledger.Append(db, child.ID, 100, "TASK_APPROVED", nil, nil)
	require.NoError(t, err)

	pinClock(ledger, time.Date(2026, time.March, 5, 10, 0, 0, 0, time.UTC))
	_, err = ledger.Append(db, child.ID, 25, "TASK_APPROVED", nil, nil)
	require.NoError(t, err)

	summary, err := ledger.PointsSummary(child.ID, 100)
	require.NoError(t, err)
	assert.Equal(t, 125, summary.TotalPoints)
	assert.InDelta(t, 1.25, summary.TotalMoneyEquivalent, 1e-9)
	assert.InDelta(t, 0.25, summary.ThisMonthMoneyEquivalent, 1e-9)
}

func TestPointsSummaryNonPositiveRateDisablesMoney(t *testing.T) {
	db := newTestDB(t)
	_, child := seedFamily(t, db)
	ledger := NewLedgerService(db)

	_, err := ledger.Append(db, child.ID, 100, "TASK_APPROVED", nil, nil)
	require.NoError(t, err)

	for _, rate := range []int{0, -1} {
		summary, err := ledger.PointsSummary(child.ID, rate)
		require.NoError(t, err)
		assert.Equal(t, 100, summary.TotalPoints)
		assert.Zero(t, summary.TotalMoneyEquivalent)
		assert.Zero(t, summary.ThisMonthMoneyEquivalent)
	}
}

func TestListEntriesNewestFirst(t *testing.T) {
	db := newTestDB(t)
	_, child := seedFamily(t, db)
	ledger := NewLedgerService(db)

	base := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
	for i, delta := range []int{10, 20, 30} {
		pinClock(ledger, base.Add(time.Duration(i)*time.Hour))
		_, err := ledger.Append(db, child.ID, delta, "entry", nil, nil)
		require.NoError(t, err)
	}

	entries, err := ledger.ListEntries(child.ID)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, 30, entries[0].DeltaPoints)
	assert.Equal(t, 10, entries[2].DeltaPoints)
}

func TestComputeLevelFromBalance(t *testing.T) {
	db := newTestDB(t)
	_, child := seedFamily(t, db)
	ledger := NewLedgerService(db)

	cases := []struct {
		delta int
		level int
	}{
		{delta: 150, level: 1},  // 150
		{delta: 100, level: 2},  // 250
		{delta: 500, level: 4},  // 750
		{delta: 300, level: 5},  // 1050
		{delta: -900, level: 1}, // 150 — level follows spendable balance down
	}
	for _, tc := range cases {
		_, err := ledger.Append(db, child.ID, tc.delta, "entry", nil, nil)
		require.NoError(t, err)

		level, err := ledger.ComputeLevel(child.ID)
		require.NoError(t, err)
		assert.Equal(t, tc.level, level)
	}
}
