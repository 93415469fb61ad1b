//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// DBLike is satisfied by both *pgxpool.Pool and pgx.Tx, which is enough
// for seeding and inspecting rows in tests.
type DBLike interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// BookingRow describes one seeded booking request.
type BookingRow struct {
	RequesterName  string
	RequesterEmail string
	StartDate      time.Time
	EndDate        time.Time
	Status         string
	Notes          *string
	DecisionAt     *time.Time
	DecidedBy      *string
}

// CreateTestBooking inserts a booking row directly, bypassing the API,
// and returns its id.
func CreateTestBooking(t *testing.T, db DBLike, row BookingRow) int64 {
	t.Helper()

	if row.Status == "" {
		row.Status = "pending"
	}

	ctx := context.Background()
	var id int64
	err := db.QueryRow(ctx, `
		INSERT INTO bookings (requester_name, requester_email, start_date, end_date, status, notes, decision_at, decided_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		row.RequesterName, row.RequesterEmail, row.StartDate, row.EndDate,
		row.Status, row.Notes, row.DecisionAt, row.DecidedBy,
	).Scan(&id)
	require.NoError(t, err)

	return id
}

// CountBookings returns the number of booking rows, optionally filtered
// by status.
func CountBookings(t *testing.T, db DBLike, status string) int64 {
	t.Helper()

	ctx := context.Background()
	var count int64
	var err error
	if status == "" {
		err = db.QueryRow(ctx, "SELECT count(*) FROM bookings").Scan(&count)
	} else {
		err = db.QueryRow(ctx, "SELECT count(*) FROM bookings WHERE status = $1", status).Scan(&count)
	}
	require.NoError(t, err)

	return count
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables between tests
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var t string
			if err := rows.Scan(&t); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, t)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}

	return nil
}
