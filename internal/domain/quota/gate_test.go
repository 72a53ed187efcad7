package quota

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"ghostai-app/database"
	"ghostai-app/internal/domain/tiers"
	"ghostai-app/internal/domain/usage"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func newTestGate(t *testing.T) *Gate {
	return &Gate{
		DB:         newTestDB(t),
		Limits:     tiers.LimitTable{Free: 5, Pro: 60, Ultimate: 1_000_000},
		OwnerEmail: "ghostaicorp@gmail.com",
	}
}

func storedCount(t *testing.T, db *gorm.DB, email string) int {
	t.Helper()
	var rec usage.Record
	err := db.Where("email = ? AND day = ?", email, usage.DayKey(time.Now())).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0
	}
	require.NoError(t, err)
	return rec.Count
}

func TestAdmitCreatesRowOnFirstRequest(t *testing.T) {
	g := newTestGate(t)
	ctx := context.Background()

	require.NoError(t, g.Admit(ctx, "a@x.com", "free", 1))
	require.Equal(t, 1, storedCount(t, g.DB, "a@x.com"))
}

func TestAdmitFreeTierScenario(t *testing.T) {
	g := newTestGate(t)
	ctx := context.Background()

	// Requests 1..5 admitted, count tracks exactly.
	for i := 1; i <= 5; i++ {
		require.NoError(t, g.Admit(ctx, "a@x.com", "free", 1))
		require.Equal(t, i, storedCount(t, g.DB, "a@x.com"))
	}

	// Sixth request rejected with used/limit, and no write.
	err := g.Admit(ctx, "a@x.com", "free", 1)
	var le LimitError
	require.ErrorAs(t, err, &le)
	require.Equal(t, 5, le.Used)
	require.Equal(t, 5, le.Limit)
	require.Equal(t, 5, storedCount(t, g.DB, "a@x.com"))
}

func TestAdmitCostTwoBoundary(t *testing.T) {
	g := newTestGate(t)
	ctx := context.Background()

	// count 4, limit 5: a cost-2 request must be rejected without a write.
	for i := 0; i < 4; i++ {
		require.NoError(t, g.Admit(ctx, "b@x.com", "free", 1))
	}
	err := g.Admit(ctx, "b@x.com", "free", 2)
	var le LimitError
	require.ErrorAs(t, err, &le)
	require.Equal(t, 4, le.Used)
	require.Equal(t, 4, storedCount(t, g.DB, "b@x.com"))

	// count 3, limit 5: cost 2 fits exactly.
	for i := 0; i < 3; i++ {
		require.NoError(t, g.Admit(ctx, "c@x.com", "free", 1))
	}
	require.NoError(t, g.Admit(ctx, "c@x.com", "free", 2))
	require.Equal(t, 5, storedCount(t, g.DB, "c@x.com"))
}

func TestAdmitOwnerBypassesAccounting(t *testing.T) {
	g := newTestGate(t)
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		require.NoError(t, g.Admit(ctx, g.OwnerEmail, "free", 1))
	}
	require.Equal(t, 0, storedCount(t, g.DB, g.OwnerEmail))
}

func TestAdmitUltimateBypassesAccounting(t *testing.T) {
	g := newTestGate(t)
	ctx := context.Background()

	require.NoError(t, g.Admit(ctx, "u@x.com", "ultimate", 2))
	require.Equal(t, 0, storedCount(t, g.DB, "u@x.com"))
}

func TestAdmitUnknownTierFallsBackToFree(t *testing.T) {
	g := newTestGate(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, g.Admit(ctx, "d@x.com", "platinum", 1))
	}
	err := g.Admit(ctx, "d@x.com", "platinum", 1)
	var le LimitError
	require.ErrorAs(t, err, &le)
	require.Equal(t, 5, le.Limit)
}

func TestAdmitCostClampedToOne(t *testing.T) {
	g := newTestGate(t)
	ctx := context.Background()

	require.NoError(t, g.Admit(ctx, "e@x.com", "free", 0))
	require.Equal(t, 1, storedCount(t, g.DB, "e@x.com"))
}

func TestAdmitNewDayStartsFresh(t *testing.T) {
	g := newTestGate(t)
	ctx := context.Background()

	day := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	g.Now = func() time.Time { return day }
	for i := 0; i < 5; i++ {
		require.NoError(t, g.Admit(ctx, "f@x.com", "free", 1))
	}
	require.Error(t, g.Admit(ctx, "f@x.com", "free", 1))

	g.Now = func() time.Time { return day.AddDate(0, 0, 1) }
	require.NoError(t, g.Admit(ctx, "f@x.com", "free", 1))

	used, limit, err := g.Snapshot(ctx, "f@x.com", "free")
	require.NoError(t, err)
	require.Equal(t, 1, used)
	require.Equal(t, 5, limit)
}

func TestSnapshotMissingRowReadsZero(t *testing.T) {
	g := newTestGate(t)

	used, limit, err := g.Snapshot(context.Background(), "nobody@x.com", "pro")
	require.NoError(t, err)
	require.Equal(t, 0, used)
	require.Equal(t, 60, limit)
}

func TestAdmitFailsClosedWhenStoreUnavailable(t *testing.T) {
	g := newTestGate(t)
	require.NoError(t, g.DB.Exec(`DROP TABLE ai_usage`).Error)

	err := g.Admit(context.Background(), "g@x.com", "free", 1)
	require.ErrorIs(t, err, ErrUnavailable)
}
