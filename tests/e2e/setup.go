//go:build e2e

package e2e

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"salon-booking/cmd/bootstrap"
	"salon-booking/cmd/bootstrap/components"
	"salon-booking/internal/infra/db"
	"salon-booking/internal/pkg/config"
	"salon-booking/tests/common/dbtest"

	"github.com/docker/go-connections/nat"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/fx"
)

const (
	pgUser     = "salon"
	pgPassword = "salonpass"
	pgPort     = nat.Port("5432/tcp")
)

// ContainerInfo is where the shared postgres container listens.
type ContainerInfo struct {
	Host string
	Port nat.Port
}

func (c ContainerInfo) adminDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/postgres?sslmode=disable", pgUser, pgPassword, c.Host, c.Port.Port())
}

// 全スイートで一つのコンテナを共有し、スイートごとに専用DBを作る
var sharedPostgres = sync.OnceValues(startPostgres)

// harness is one isolated database plus the fully wired application on top of it.
type harness struct {
	pool   *pgxpool.Pool
	router *gin.Engine
	cfg    config.Config
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	info, err := sharedPostgres()
	require.NoError(t, err, "PostgreSQLコンテナの起動に失敗")

	dbCfg := createDatabase(t, info)
	require.NoError(t, db.Migrate(dbCfg.BuildDSN()), "マイグレーションに失敗")

	pool, _, err := db.Connect(context.Background(), dbCfg)
	require.NoError(t, err, "データベース接続に失敗")
	t.Cleanup(pool.Close)
	require.NoError(t, dbtest.SeedReferenceData(pool), "参照データの投入に失敗")

	h := &harness{pool: pool, cfg: testConfig(dbCfg)}
	app := h.start(t)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := app.Stop(ctx); err != nil {
			slog.Warn("fxアプリケーションの停止に失敗しました", "error", err.Error())
		}
	})
	return h
}

// start wires the production modules over the test pool. Redis is left
// unconfigured so quotas are unlimited, and notifications go to the log sender.
func (h *harness) start(t *testing.T) *fx.App {
	t.Helper()

	app := fx.New(
		fx.Supply(h.pool, h.cfg, h.cfg.Booking),
		fx.Provide(
			bootstrap.NewLocation,
			func() *gin.Engine { return gin.New() },
		),
		bootstrap.LoggerModule,
		bootstrap.RedisModule,
		bootstrap.JWTModule,
		bootstrap.MetricsModule,
		bootstrap.NotifierModule,
		components.PersistenceModule,
		components.UseCaseModule,
		components.HandlerModule,
		fx.Populate(&h.router),
		fx.NopLogger,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	require.NoError(t, app.Start(ctx), "fxアプリケーションの起動に失敗")
	require.NotNil(t, h.router, "Routerのセットアップに失敗")
	return app
}

func testConfig(dbCfg config.DBConfig) config.Config {
	cfg := config.NewTestConfig()
	cfg.DB = dbCfg
	cfg.Redis.Addr = ""
	cfg.Notifier.Provider = "log"
	cfg.Notifier.RedeliverInterval = 0
	cfg.Booking.IdempotencySweep = 0
	return cfg
}

// createDatabase makes a throwaway database and drops it when the test ends.
func createDatabase(t *testing.T, info ContainerInfo) config.DBConfig {
	t.Helper()
	name := "salon_" + strings.ReplaceAll(uuid.NewString(), "-", "")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	admin, err := pgxpool.New(ctx, info.adminDSN())
	require.NoError(t, err, "管理者接続に失敗")
	defer admin.Close()

	// 並列実行時は CREATE DATABASE が template1 のロックで失敗することがある
	err = retry(ctx, 5, func() error {
		_, err := admin.Exec(ctx, "CREATE DATABASE "+name)
		return err
	})
	require.NoError(t, err, "テスト用データベースの作成に失敗")

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		admin, err := pgxpool.New(ctx, info.adminDSN())
		if err != nil {
			slog.Warn("クリーンアップ用の接続に失敗しました", "database", name, "error", err.Error())
			return
		}
		defer admin.Close()
		if _, err := admin.Exec(ctx, "DROP DATABASE IF EXISTS "+name+" WITH (FORCE)"); err != nil {
			slog.Warn("テストデータベースの削除に失敗しました", "database", name, "error", err.Error())
		}
	})

	return config.DBConfig{
		Host:     info.Host,
		Port:     info.Port.Port(),
		User:     pgUser,
		Password: pgPassword,
		DBName:   name,
		SSLMode:  "disable",
		TimeZone: "UTC",
		MaxConns: 20,
		MinConns: 1,
	}
}

func retry(ctx context.Context, attempts int, fn func() error) error {
	var err error
	for i := range attempts {
		if err = fn(); err == nil {
			return nil
		}
		backoff := min(time.Duration(i+1)*500*time.Millisecond, 3*time.Second)
		slog.Warn("再試行します", "attempt", i+1, "wait", backoff, "error", err.Error())
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
	return err
}

// startPostgres runs postgres:17 (btree_gist ships with the image) tuned for
// throwaway data. Ryuk reaps the container when the test binary exits.
func startPostgres() (ContainerInfo, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:17",
			ExposedPorts: []string{string(pgPort)},
			Env: map[string]string{
				"POSTGRES_USER":     pgUser,
				"POSTGRES_PASSWORD": pgPassword,
				"POSTGRES_DB":       "postgres",
				"TZ":                "UTC",
			},
			Tmpfs: map[string]string{"/var/lib/postgresql/data": "rw,size=512m"},
			Cmd: []string{
				"postgres",
				"-c", "fsync=off",
				"-c", "full_page_writes=off",
				"-c", "synchronous_commit=off",
				"-c", "max_connections=200",
				"-c", "timezone=UTC",
				"-c", "log_statement=none",
			},
			WaitingFor: wait.ForSQL(pgPort, "pgx", func(host string, port nat.Port) string {
				return ContainerInfo{Host: host, Port: port}.adminDSN()
			}).WithStartupTimeout(time.Minute),
			Labels: map[string]string{"purpose": "salon-booking-e2e"},
		},
		Started: true,
	})
	if err != nil {
		return ContainerInfo{}, err
	}

	host, err := c.Host(ctx)
	if err != nil {
		return ContainerInfo{}, err
	}
	port, err := c.MappedPort(ctx, pgPort)
	if err != nil {
		return ContainerInfo{}, err
	}
	slog.Info("PostgreSQLコンテナを起動しました", "host", host, "port", port.Port())
	return ContainerInfo{Host: host, Port: port}, nil
}

// SharedSuite gives every e2e suite its own database and application.
type SharedSuite struct {
	suite.Suite
	Router *gin.Engine
	DB     *pgxpool.Pool
	Config config.Config
}

func (s *SharedSuite) SetupSuite() {
	h := newHarness(s.T())
	s.DB, s.Router, s.Config = h.pool, h.router, h.cfg
}

// SetupSubTest starts every subtest from empty tables.
func (s *SharedSuite) SetupSubTest() {
	require.NoError(s.T(), dbtest.ResetDB(s.DB), "Failed to reset database state")
}
