//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// Conn is satisfied by a pool, a connection or a transaction.
type Conn interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// bcrypt hash of "password123"
const testPasswordHash = "$2a$12$uhAjVE9f92IGYv3E25pJNetg.27lVt0p7jmLWjqjmhOg92ldPS0A."

func CreateTestUser(t *testing.T, db Conn, email, role string, staffID *uuid.UUID) uuid.UUID {
	t.Helper()

	userID := uuid.New()
	ctx := context.Background()

	tag, err := db.Exec(ctx, "INSERT INTO users (id, email, password_hash, role, staff_id, is_active) VALUES ($1, $2, $3, $4, $5, true) ON CONFLICT ((lower(email))) DO NOTHING",
		userID, email, testPasswordHash, role, staffID)
	require.NoError(t, err)

	if tag.RowsAffected() == 0 {
		_ = db.QueryRow(ctx, "SELECT id FROM users WHERE lower(email) = lower($1)", email).Scan(&userID)
	}

	return userID
}

// CreateTestStaff inserts an active staff member working 09:00-18:00 every day.
func CreateTestStaff(t *testing.T, db Conn, name, email string) uuid.UUID {
	t.Helper()

	staffID := uuid.New()
	ctx := context.Background()

	_, err := db.Exec(ctx, "INSERT INTO staff (id, display_name, email, is_active) VALUES ($1, $2, $3, true)",
		staffID, name, email)
	require.NoError(t, err)

	_, err = db.Exec(ctx, `
		INSERT INTO staff_schedules (staff_id, day_of_week, is_available, start_minute, end_minute)
		SELECT $1, d, true, 540, 1080 FROM generate_series(0, 6) AS d`, staffID)
	require.NoError(t, err)

	return staffID
}

func CreateTestService(t *testing.T, db Conn, name string, durationMin int, priceCents int64) uuid.UUID {
	t.Helper()

	serviceID := uuid.New()
	_, err := db.Exec(context.Background(),
		"INSERT INTO services (id, name, duration_min, price_cents, is_active) VALUES ($1, $2, $3, $4, true)",
		serviceID, name, durationMin, priceCents)
	require.NoError(t, err)

	return serviceID
}

// SeedReferenceData makes sure the extensions the schema relies on exist.
func SeedReferenceData(pool *pgxpool.Pool) error {
	_, err := pool.Exec(context.Background(), "CREATE EXTENSION IF NOT EXISTS btree_gist")
	return err
}

// bookingTables is every table the migrations create, children first.
var bookingTables = []string{
	"audit_logs",
	"notification_jobs",
	"idempotency_keys",
	"payments",
	"appointment_services",
	"appointments",
	"users",
	"clients",
	"combo_services",
	"combos",
	"services",
	"staff_schedules",
	"staff",
}

// ResetDB empties every booking table and reseeds reference data.
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := pool.Exec(ctx, "TRUNCATE "+strings.Join(bookingTables, ", ")+" CASCADE"); err != nil {
		return fmt.Errorf("truncate booking tables: %w", err)
	}
	return SeedReferenceData(pool)
}
