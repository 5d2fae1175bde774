package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"recetas-api/internal/auth"
	"recetas-api/internal/background"
	"recetas-api/internal/common"
	"recetas-api/internal/models"
	"recetas-api/internal/utils"
)

type RegisterInput struct {
	Nombre   string
	Correo   string
	Password string
}

type LoginResult struct {
	ID     uint   `json:"id"`
	Nombre string `json:"nombre"`
	Token  string `json:"token"`
}

// Accounts registers users, activates them through the emailed link and
// logs them in.
type Accounts struct {
	users       UserStore
	issuer      *auth.Issuer
	mailer      utils.Mailer
	runner      *background.Runner
	frontendURL string
}

func NewAccounts(users UserStore, issuer *auth.Issuer, mailer utils.Mailer, runner *background.Runner, frontendURL string) *Accounts {
	return &Accounts{
		users:       users,
		issuer:      issuer,
		mailer:      mailer,
		runner:      runner,
		frontendURL: frontendURL,
	}
}

func normalizeEmail(correo string) string {
	return strings.ToLower(strings.TrimSpace(correo))
}

// Register creates a pending user and mails the verification link
// <verifyBaseURL>/<token>. The mail is sent in the background.
func (a *Accounts) Register(ctx context.Context, in RegisterInput, verifyBaseURL string) (Result, error) {
	const op = "services.Accounts.Register"

	if len(in.Password) > utils.MaxPasswordBytes {
		return Result{}, common.Validation("El campo %s supera el largo permitido", "password")
	}

	correo := normalizeEmail(in.Correo)
	_, err := a.users.UserByEmail(ctx, correo)
	switch {
	case err == nil:
		return Result{}, common.Duplicate(msgUnexpected)
	case !notFound(err):
		return Result{}, internal(op, err)
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return Result{}, internal(op, err)
	}
	token, err := utils.GenerateVerificationToken()
	if err != nil {
		return Result{}, internal(op, err)
	}
	u := &models.User{
		Nombre:   strings.TrimSpace(in.Nombre),
		Correo:   correo,
		Password: hash,
		Token:    &token,
		Estado:   models.StatusPending,
	}
	if err := a.users.CreateUser(ctx, u); err != nil {
		if errors.Is(err, common.ErrDuplicate) {
			return Result{}, common.Duplicate(msgUnexpected)
		}
		return Result{}, internal(op, err)
	}

	link := strings.TrimRight(verifyBaseURL, "/") + "/" + token
	body := verificationBody(u.Nombre, link)
	a.runner.Go("send verification email", func(context.Context) error {
		return a.mailer.Send(u.Correo, "Verificacion de cuenta", body)
	})

	return ok(msgRegistered), nil
}

func verificationBody(nombre, link string) string {
	return fmt.Sprintf(
		`Hola <b>%s</b>, por favor verifica tu cuenta dando click en el siguiente enlace: <a href="%s">Verificar cuenta</a><br>O copia y pega el siguiente enlace en tu navegador: %s`,
		nombre, link, link,
	)
}

// Verify activates the pending user holding token and returns where the
// client should be redirected. Unknown and already used tokens both fail
// with NotFound.
func (a *Accounts) Verify(ctx context.Context, token string) (string, error) {
	const op = "services.Accounts.Verify"

	if token == "" {
		return "", common.NotFound(msgUnavailable)
	}
	if err := a.users.ActivateUser(ctx, token); err != nil {
		if notFound(err) {
			return "", common.NotFound(msgUnavailable)
		}
		return "", internal(op, err)
	}
	return a.frontendURL + "login", nil
}

// Login checks the credentials of an active user and issues a bearer
// token. Unknown users and wrong passwords fail identically.
func (a *Accounts) Login(ctx context.Context, correo, password string) (*LoginResult, error) {
	const op = "services.Accounts.Login"

	u, err := a.users.ActiveUserByEmail(ctx, normalizeEmail(correo))
	if err != nil {
		if notFound(err) {
			return nil, common.Auth(msgUnavailable)
		}
		return nil, internal(op, err)
	}
	if err := utils.CheckPasswordHash(u.Password, password); err != nil {
		return nil, common.Auth(msgUnavailable)
	}

	token, err := a.issuer.Issue(u.ID, u.Correo)
	if err != nil {
		return nil, internal(op, err)
	}
	return &LoginResult{ID: u.ID, Nombre: u.Nombre, Token: token}, nil
}
