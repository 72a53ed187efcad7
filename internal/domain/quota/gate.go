// Package quota enforces per-user daily request limits.
package quota

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ghostai-app/internal/domain/tiers"
	"ghostai-app/internal/domain/usage"

	"gorm.io/gorm"
)

// ErrUnavailable means the accounting store could not be read or written.
// Callers must fail closed on it, never admit the request.
var ErrUnavailable = errors.New("usage accounting unavailable")

// LimitError reports a denial together with the numbers the client needs
// to render "X of Y used".
type LimitError struct {
	Used  int
	Limit int
}

func (e LimitError) Error() string {
	return fmt.Sprintf("daily limit reached (%d of %d used)", e.Used, e.Limit)
}

// Gate is the usage-accounting gate. One instance is shared by all handlers;
// it holds no per-request state.
type Gate struct {
	DB         *gorm.DB
	Limits     tiers.LimitTable
	OwnerEmail string

	// Now is overridable in tests; nil means time.Now.
	Now func() time.Time
}

func (g *Gate) now() time.Time {
	if g.Now != nil {
		return g.Now()
	}
	return time.Now()
}

// Admit decides whether a request of the given cost may proceed today and,
// if so, records the consumption. The owner identity and the ultimate tier
// bypass accounting entirely: no row is read or written for them.
//
// The increment is a single conditional upsert so that two concurrent
// requests cannot both pass the check and under-count.
func (g *Gate) Admit(ctx context.Context, email, tier string, cost int) error {
	tier = tiers.Normalize(tier)
	if email == g.OwnerEmail || tier == tiers.TierUltimate {
		return nil
	}
	if cost < 1 {
		cost = 1
	}

	limit := g.Limits.Limit(tier)
	day := usage.DayKey(g.now())

	if cost > limit {
		used, err := g.readCount(ctx, email, day)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return LimitError{Used: used, Limit: limit}
	}

	// The ON CONFLICT guard covers the existing-row path; the fresh-row path
	// is safe because cost <= limit was checked above.
	now := g.now().UTC()
	res := g.DB.WithContext(ctx).Exec(`
		INSERT INTO ai_usage (email, day, count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (email, day) DO UPDATE
		SET count = ai_usage.count + ?, updated_at = ?
		WHERE ai_usage.count + ? <= ?`,
		email, day, cost, now, now,
		cost, now,
		cost, limit,
	)
	if res.Error != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, res.Error)
	}
	if res.RowsAffected == 0 {
		used, err := g.readCount(ctx, email, day)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return LimitError{Used: used, Limit: limit}
	}
	return nil
}

// Snapshot reports today's consumption without mutating anything.
// A missing row reads as zero.
func (g *Gate) Snapshot(ctx context.Context, email, tier string) (used, limit int, err error) {
	limit = g.Limits.Limit(tiers.Normalize(tier))
	used, err = g.readCount(ctx, email, usage.DayKey(g.now()))
	if err != nil {
		return 0, limit, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return used, limit, nil
}

func (g *Gate) readCount(ctx context.Context, email, day string) (int, error) {
	var rec usage.Record
	err := g.DB.WithContext(ctx).
		Where("email = ? AND day = ?", email, day).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return rec.Count, nil
}
