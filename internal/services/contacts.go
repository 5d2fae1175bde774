package services

import (
	"context"
	"html"
	"strings"

	"recetas-api/internal/background"
	"recetas-api/internal/models"
	"recetas-api/internal/utils"
)

type ContactInput struct {
	Nombre   string
	Correo   string
	Telefono string
	Mensaje  string
}

type Contacts struct {
	store  ContactStore
	mailer utils.Mailer
	runner *background.Runner
}

func NewContacts(store ContactStore, mailer utils.Mailer, runner *background.Runner) *Contacts {
	return &Contacts{store: store, mailer: mailer, runner: runner}
}

// Submit saves the message and sends the sender a copy.
func (s *Contacts) Submit(ctx context.Context, in ContactInput) (Result, error) {
	c := &models.Contact{
		Nombre:   strings.TrimSpace(in.Nombre),
		Correo:   normalizeEmail(in.Correo),
		Telefono: strings.TrimSpace(in.Telefono),
		Mensaje:  in.Mensaje,
	}
	if err := s.store.CreateContact(ctx, c); err != nil {
		return Result{}, internal("services.Contacts.Submit", err)
	}

	body := html.EscapeString(c.Mensaje)
	s.runner.Go("send contact copy", func(context.Context) error {
		return s.mailer.Send(c.Correo, "Contacto recibido", body)
	})
	return ok(msgContactSaved), nil
}
