package service

import (
	"context"
	"testing"
	"time"

	"go-inventory-ledger/internal/repository"
	"go-inventory-ledger/internal/testutil"
	"go-inventory-ledger/pkg/apperr"
	"go-inventory-ledger/pkg/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRegisterLoginMe(t *testing.T) {
	db := testutil.NewDB(t)
	ctx := context.Background()
	tokens := jwt.NewManager("test-secret", "test", time.Hour)
	auth := NewAuthService(repository.NewBusinessRepo(db), tokens, zap.NewNop())

	res, err := auth.Register(ctx, RegisterInput{Name: "Shop", Email: " Owner@Shop.test ", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "owner@shop.test", res.Business.Email)

	claims, err := tokens.ValidateToken(res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.Business.ID, claims.TenantID)

	_, err = auth.Register(ctx, RegisterInput{Name: "Again", Email: "owner@shop.test", Password: "secret123"})
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	_, err = auth.Login(ctx, LoginInput{Email: "owner@shop.test", Password: "wrong"})
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))

	_, err = auth.Login(ctx, LoginInput{Email: "nobody@shop.test", Password: "secret123"})
	assert.Equal(t, apperr.KindUnauthorized, apperr.KindOf(err))

	logged, err := auth.Login(ctx, LoginInput{Email: "OWNER@shop.test", Password: "secret123"})
	require.NoError(t, err)

	me, err := auth.Me(ctx, logged.Business.ID)
	require.NoError(t, err)
	assert.Equal(t, "Shop", me.Name)

	require.NoError(t, auth.ResetPassword(ctx, ResetPasswordInput{Email: "owner@shop.test", OldPassword: "secret123", NewPassword: "newsecret"}))
	_, err = auth.Login(ctx, LoginInput{Email: "owner@shop.test", Password: "newsecret"})
	assert.NoError(t, err)
}
