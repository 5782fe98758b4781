package handlers

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"server/internal/domain"
	"server/internal/infra"
	"server/internal/middleware"
)

const testJWTSecret = "test-secret"

func newTestApp(sql infra.SQLExecutor) *App {
	return &App{
		SQL:    sql,
		Logger: zerolog.Nop(),
		Cfg: &infra.Config{
			JWTSecret:     testJWTSecret,
			JWTExpiry:     time.Hour,
			ResetTokenTTL: 30 * time.Minute,
		},
	}
}

// authorize signs a token for the given subject and sets the bearer header.
func authorize(t *testing.T, r *http.Request, userID, role string) {
	t.Helper()
	token, err := middleware.SignToken(testJWTSecret, userID, role, time.Hour)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	r.Header.Set("Authorization", "Bearer "+token)
}

// fakeSQL dispatches to per-test functions; unset methods fail the query.
type fakeSQL struct {
	execFn     func(query string, args ...any) (pgconn.CommandTag, error)
	queryRowFn func(query string, args ...any) pgx.Row
	queryFn    func(query string, args ...any) (pgx.Rows, error)
}

func (f *fakeSQL) Exec(_ context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	if f.execFn == nil {
		return pgconn.CommandTag{}, fmt.Errorf("unexpected exec: %s", query)
	}
	return f.execFn(query, args...)
}

func (f *fakeSQL) QueryRow(_ context.Context, query string, args ...any) pgx.Row {
	if f.queryRowFn == nil {
		return scanFunc(func(...any) error {
			return fmt.Errorf("unexpected query row: %s", query)
		})
	}
	return f.queryRowFn(query, args...)
}

// scanFunc adapts a function to pgx.Row; a nil scanFunc reports no rows.
type scanFunc func(dest ...any) error

func (s scanFunc) Scan(dest ...any) error {
	if s == nil {
		return pgx.ErrNoRows
	}
	return s(dest...)
}

// testRowsBase stubs the pgx.Rows methods the handlers never touch, so row
// fixtures only implement iteration and scanning.
type testRowsBase struct{}

func (testRowsBase) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (testRowsBase) Conn() *pgx.Conn                              { return nil }
func (testRowsBase) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (testRowsBase) RawValues() [][]byte                          { return nil }

func (testRowsBase) Values() ([]any, error) {
	return nil, fmt.Errorf("values not supported in test rows")
}

func (f *fakeSQL) Query(_ context.Context, query string, args ...any) (pgx.Rows, error) {
	if f.queryFn == nil {
		return nil, fmt.Errorf("unexpected query: %s", query)
	}
	return f.queryFn(query, args...)
}

// fakeRows yields one canned value slice per row.
type fakeRows struct {
	testRowsBase
	rows [][]any
	idx  int
}

func (r *fakeRows) Next() bool {
	if r.idx >= len(r.rows) {
		return false
	}
	r.idx++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	if r.idx == 0 || r.idx > len(r.rows) {
		return pgx.ErrNoRows
	}
	return assign(dest, r.rows[r.idx-1]...)
}

func (r *fakeRows) Err() error { return nil }

func (r *fakeRows) Close() {}

// rowOf builds a single-row pgx.Row from canned values.
func rowOf(values ...any) pgx.Row {
	return scanFunc(func(dest ...any) error {
		return assign(dest, values...)
	})
}

func noRow() pgx.Row { return scanFunc(nil) }

func assign(dest []any, values ...any) error {
	if len(dest) != len(values) {
		return fmt.Errorf("scan: %d dest for %d values", len(dest), len(values))
	}
	for i, v := range values {
		switch d := dest[i].(type) {
		case *string:
			if v != nil {
				*d = fmt.Sprintf("%v", v)
			}
		case **string:
			if v == nil {
				*d = nil
			} else {
				s := fmt.Sprintf("%v", v)
				*d = &s
			}
		case *float64:
			*d = v.(float64)
		case *int:
			*d = v.(int)
		case *time.Time:
			*d = v.(time.Time)
		case *domain.Status:
			switch s := v.(type) {
			case domain.Status:
				*d = s
			case string:
				*d = domain.Status(s)
			default:
				return fmt.Errorf("scan: %T value for %T dest", v, dest[i])
			}
		case *domain.UserRole:
			switch s := v.(type) {
			case domain.UserRole:
				*d = s
			case string:
				*d = domain.UserRole(s)
			default:
				return fmt.Errorf("scan: %T value for %T dest", v, dest[i])
			}
		default:
			return fmt.Errorf("scan: unsupported dest %T", dest[i])
		}
	}
	return nil
}
