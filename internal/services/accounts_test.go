package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recetas-api/internal/common"
	"recetas-api/internal/models"
)

const verifyBase = "http://api.test/api/v1/usuarios/verificacion"

func register(t *testing.T, e *env, nombre, correo, password string) string {
	t.Helper()
	ctx := context.Background()
	res, err := e.accounts.Register(ctx, RegisterInput{Nombre: nombre, Correo: correo, Password: password}, verifyBase)
	require.NoError(t, err)
	assert.Equal(t, "OK", res.Estado)

	u, err := e.mem.UserByEmail(ctx, normalizeEmail(correo))
	require.NoError(t, err)
	require.NotNil(t, u.Token)
	return *u.Token
}

func TestAccounts_RegisterCreatesPendingUserAndMailsLink(t *testing.T) {
	e := newEnv(t)
	token := register(t, e, "Ana", " Ana@X.cl ", "secret")
	e.settle(t)

	u, err := e.mem.UserByEmail(context.Background(), "ana@x.cl")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, u.Estado)
	assert.NotEqual(t, "secret", u.Password)

	sent := e.mailer.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "ana@x.cl", sent[0].To)
	assert.Contains(t, sent[0].Body, verifyBase+"/"+token)
}

func TestAccounts_RegisterDuplicateEmail(t *testing.T) {
	e := newEnv(t)
	register(t, e, "Ana", "ana@x.cl", "secret")

	_, err := e.accounts.Register(context.Background(), RegisterInput{Nombre: "Otra", Correo: "ANA@x.cl", Password: "x"}, verifyBase)
	kindOf(t, err, common.ErrDuplicate, msgUnexpected)
}

func TestAccounts_RegisterRejectsPasswordOverBcryptLimit(t *testing.T) {
	e := newEnv(t)

	_, err := e.accounts.Register(context.Background(), RegisterInput{Nombre: "Ana", Correo: "ana@x.cl", Password: strings.Repeat("ñ", 40)}, verifyBase)
	kindOf(t, err, common.ErrValidation, "El campo password supera el largo permitido")

	_, err = e.mem.UserByEmail(context.Background(), "ana@x.cl")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestAccounts_RegisterSurvivesMailFailure(t *testing.T) {
	e := newEnv(t)
	e.mailer.err = errors.New("smtp down")

	register(t, e, "Ana", "ana@x.cl", "secret")
	e.settle(t)
	assert.Len(t, e.mailer.Sent(), 1)
}

func TestAccounts_VerifyActivatesOnce(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	token := register(t, e, "Ana", "ana@x.cl", "secret")

	redirect, err := e.accounts.Verify(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "http://front.test/login", redirect)

	u, err := e.mem.UserByEmail(ctx, "ana@x.cl")
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, u.Estado)
	assert.Nil(t, u.Token)

	_, err = e.accounts.Verify(ctx, token)
	kindOf(t, err, common.ErrNotFound, msgUnavailable)

	_, err = e.accounts.Verify(ctx, "never-issued")
	kindOf(t, err, common.ErrNotFound, msgUnavailable)

	_, err = e.accounts.Verify(ctx, "")
	kindOf(t, err, common.ErrNotFound, msgUnavailable)
}

func TestAccounts_Login(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	token := register(t, e, "Ana", "ana@x.cl", "secret")

	_, err := e.accounts.Login(ctx, "ana@x.cl", "secret")
	kindOf(t, err, common.ErrAuth, msgUnavailable)

	_, err = e.accounts.Verify(ctx, token)
	require.NoError(t, err)

	res, err := e.accounts.Login(ctx, " ANA@x.cl", "secret")
	require.NoError(t, err)
	assert.Equal(t, "Ana", res.Nombre)
	assert.NotEmpty(t, res.Token)

	claims, err := e.issuer.Verify(res.Token)
	require.NoError(t, err)
	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, res.ID, id)
	assert.Equal(t, "ana@x.cl", claims.Username)
}

func TestAccounts_LoginFailuresAreIndistinguishable(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	token := register(t, e, "Ana", "ana@x.cl", "secret")
	_, err := e.accounts.Verify(ctx, token)
	require.NoError(t, err)

	_, wrongPass := e.accounts.Login(ctx, "ana@x.cl", "nope")
	_, unknown := e.accounts.Login(ctx, "nadie@x.cl", "secret")

	require.Error(t, wrongPass)
	require.Error(t, unknown)
	assert.Equal(t, wrongPass.Error(), unknown.Error())
	assert.ErrorIs(t, wrongPass, common.ErrAuth)
	assert.ErrorIs(t, unknown, common.ErrAuth)
}
