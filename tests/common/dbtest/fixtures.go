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

	"booking-reconciler/internal/domain/booking"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

func CreateTestUser(t *testing.T, db DBLike, name string) uuid.UUID {
	t.Helper()

	userID := uuid.New()
	email := strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@example.com"
	_, err := db.Exec(context.Background(),
		"INSERT INTO users (id, name, email, phone) VALUES ($1, $2, $3, $4)",
		userID, name, email, "+91 90000 00000")
	require.NoError(t, err)

	return userID
}

func CreateTestService(t *testing.T, db DBLike, providerID uuid.UUID, name string) uuid.UUID {
	t.Helper()

	serviceID := uuid.New()
	_, err := db.Exec(context.Background(),
		"INSERT INTO services (id, provider_id, name) VALUES ($1, $2, $3)",
		serviceID, providerID, name)
	require.NoError(t, err)

	return serviceID
}

// inserts b as is, including its timestamps
func CreateTestBooking(t *testing.T, db DBLike, b booking.Booking) {
	t.Helper()

	var start, end *time.Time
	if !b.ScheduledStart.IsZero() {
		start = &b.ScheduledStart
	}
	if !b.ScheduledEnd.IsZero() {
		end = &b.ScheduledEnd
	}
	var reason *string
	if b.DisputeReason != "" {
		reason = &b.DisputeReason
	}

	_, err := db.Exec(context.Background(), `
		INSERT INTO bookings (id, service_id, customer_id, provider_id, status, payment_status,
		                      scheduled_start, scheduled_end, dispute_reason, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		b.ID, b.ServiceID, b.CustomerID, b.ProviderID, string(b.Status), string(b.PaymentStatus),
		start, end, reason, b.CreatedAt, b.UpdatedAt)
	require.NoError(t, err)
}

func BookingStatus(t *testing.T, db DBLike, id uuid.UUID) (booking.Status, string) {
	t.Helper()

	var status string
	var reason *string
	err := db.QueryRow(context.Background(),
		"SELECT status, dispute_reason FROM bookings WHERE id = $1", id).Scan(&status, &reason)
	require.NoError(t, err)

	if reason == nil {
		return booking.Status(status), ""
	}
	return booking.Status(status), *reason
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables
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
	_, err := pool.Exec(ctx, sqlAny.(string))
	return err
}
