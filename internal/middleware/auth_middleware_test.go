package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-inventory-ledger/internal/repository"
	"go-inventory-ledger/internal/testutil"
	"go-inventory-ledger/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequireAuth(t *testing.T) {
	db := testutil.NewDB(t)
	business := testutil.NewBusiness(t, db, "owner@shop.test")
	tokens := jwt.NewManager("middleware-secret", "test", time.Hour)

	app := fiber.New()
	app.Get("/whoami", RequireAuth(tokens, repository.NewBusinessRepo(db)), func(c *fiber.Ctx) error {
		return c.SendString(TenantID(c).String())
	})

	valid, err := tokens.GenerateToken(business.ID, business.Email, business.Name)
	require.NoError(t, err)
	orphan, err := tokens.GenerateToken(uuid.New(), "gone@shop.test", "Gone")
	require.NoError(t, err)
	foreign, err := jwt.NewManager("other-secret", "test", time.Hour).GenerateToken(business.ID, business.Email, business.Name)
	require.NoError(t, err)

	tests := []struct {
		name    string
		path    string
		headers map[string]string
		status  int
	}{
		{"missing header", "/whoami", nil, http.StatusUnauthorized},
		{"wrong scheme", "/whoami", map[string]string{"Authorization": "Token " + valid}, http.StatusUnauthorized},
		{"foreign signature", "/whoami", map[string]string{"Authorization": "Bearer " + foreign}, http.StatusUnauthorized},
		{"deleted business", "/whoami", map[string]string{"Authorization": "Bearer " + orphan}, http.StatusUnauthorized},
		{"query token ignored on plain requests", "/whoami?token=" + valid, nil, http.StatusUnauthorized},
		{"bearer token", "/whoami", map[string]string{"Authorization": "Bearer " + valid}, http.StatusOK},
		{"query token on websocket upgrade", "/whoami?token=" + valid, map[string]string{
			"Connection": "Upgrade",
			"Upgrade":    "websocket",
		}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.status, resp.StatusCode)
			if tt.status == http.StatusOK {
				body, err := io.ReadAll(resp.Body)
				require.NoError(t, err)
				assert.Equal(t, business.ID.String(), string(body))
			}
		})
	}
}
