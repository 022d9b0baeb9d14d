package integration_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/geocoder89/formhub/internal/backend"
	"github.com/geocoder89/formhub/internal/config"
	"github.com/geocoder89/formhub/internal/db"
	apphttp "github.com/geocoder89/formhub/internal/http"
	"github.com/geocoder89/formhub/internal/page"
	"github.com/geocoder89/formhub/internal/repo/postgres"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// These tests need a running postgres; set TEST_DB_DSN to enable them.
func setupTestRouter(t *testing.T) (*gin.Engine, *pgxpool.Pool) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}

	ctx := context.Background()

	pool, err := db.NewPool(dsn, 2)
	if err != nil {
		t.Fatalf("failed to create pgx pool: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := db.MigratePostgres(ctx, pool); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	resetDB(t, pool)

	// Basic logger that discards outputs during tests
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	router := apphttp.NewRouter(apphttp.Deps{
		Log: logger,
		Config: config.Config{
			Env:            "test",
			MaxBodyBytes:   1_000_000,
			RequestTimeout: 5 * time.Second,
		},
		Backend: backend.NewRelationalInserter(postgres.NewUsersRepo(pool)),
		Pages:   page.NewFileLoader("home.html", 0),
		Ping:    pool.Ping,
	})

	return router, pool
}

func resetDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	if _, err := pool.Exec(context.Background(), `TRUNCATE TABLE users RESTART IDENTITY`); err != nil {
		t.Fatalf("failed to reset db: %v", err)
	}
}

func countUsers(t *testing.T, pool *pgxpool.Pool, name string) int {
	t.Helper()

	var n int
	err := pool.QueryRow(context.Background(), `SELECT count(*) FROM users WHERE name = $1`, name).Scan(&n)
	if err != nil {
		t.Fatalf("count users: %v", err)
	}
	return n
}

func TestRelationalSubmitInsertsRow(t *testing.T) {
	router, pool := setupTestRouter(t)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/submit", strings.NewReader("email=a%40b.com&password=abcdef"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("submit %d: got status %d, body=%s", i, w.Code, w.Body.String())
		}

		var resp struct {
			Message string `json:"message"`
			ID      string `json:"id"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if resp.Message != "Inserted row: a@b.com" || resp.ID == "" {
			t.Fatalf("unexpected response %+v", resp)
		}
	}

	if got := countUsers(t, pool, "a@b.com"); got != 2 {
		t.Fatalf("expected 2 rows, got %d", got)
	}
}

func TestRelationalReadiness(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
	}
}
