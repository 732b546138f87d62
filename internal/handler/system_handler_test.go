package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

type healthBody struct {
	Data *struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	} `json:"data"`
	Error *struct {
		Code   string            `json:"code"`
		Fields map[string]string `json:"fields"`
	} `json:"error"`
}

func serveHealth(t *testing.T, h *SystemHandler) (int, healthBody) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/health", h.Health)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	var body healthBody
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v (%s)", err, w.Body.String())
	}
	return w.Code, body
}

func TestHealthReportsFailedDependency(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	up := pingerFunc(func(context.Context) error { return nil })
	down := pingerFunc(func(context.Context) error { return errors.New("connection refused") })

	tests := []struct {
		name       string
		db         Pinger
		stopRedis  bool
		wantStatus int
		wantChecks map[string]string
	}{
		{
			name:       "all up",
			db:         up,
			wantStatus: http.StatusOK,
			wantChecks: map[string]string{"postgres": "ok", "redis": "ok"},
		},
		{
			name:       "postgres down",
			db:         down,
			wantStatus: http.StatusServiceUnavailable,
			wantChecks: map[string]string{"postgres": "unavailable", "redis": "ok"},
		},
		{
			name:       "redis down",
			db:         up,
			stopRedis:  true,
			wantStatus: http.StatusServiceUnavailable,
			wantChecks: map[string]string{"postgres": "ok", "redis": "unavailable"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.stopRedis {
				mr.Close()
			}
			code, body := serveHealth(t, NewSystemHandler(rdb, tt.db, zerolog.Nop()))
			if code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, code)
			}

			var got map[string]string
			if tt.wantStatus == http.StatusOK {
				if body.Data == nil || body.Data.Status != "ok" {
					t.Fatalf("expected ok payload, got %+v", body)
				}
				got = body.Data.Checks
			} else {
				if body.Error == nil || body.Error.Code != "SERVICE_UNAVAILABLE" {
					t.Fatalf("expected SERVICE_UNAVAILABLE, got %+v", body.Error)
				}
				got = body.Error.Fields
			}
			if diff := cmp.Diff(tt.wantChecks, got); diff != "" {
				t.Fatalf("checks mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
