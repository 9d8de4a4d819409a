// Package preferences keeps the visitor's language and remembered contact details
package preferences

import (
	"context"
	"fmt"

	"github.com/nkiryanov/tourfront/internal/inquiry"
	"github.com/nkiryanov/tourfront/internal/persist"
	"github.com/nkiryanov/tourfront/internal/storage"
	"github.com/nkiryanov/tourfront/internal/validate"
)

type Preferences struct {
	language persist.Value[string]
	contact  persist.Value[inquiry.Contact]
}

func New(store storage.Store) *Preferences {
	return &Preferences{
		language: persist.NewValue[string](store, storage.KeyLanguage),
		contact:  persist.NewValue[inquiry.Contact](store, storage.KeyContact),
	}
}

// Language returns the saved language or the default one
func (p *Preferences) Language(ctx context.Context) string {
	lang := p.language.LoadOr(ctx, validate.Languages[0])
	if !validate.IsLanguage(lang) {
		return validate.Languages[0]
	}
	return lang
}

func (p *Preferences) SetLanguage(ctx context.Context, lang string) error {
	if !validate.IsLanguage(lang) {
		return fmt.Errorf("unsupported language %q", lang)
	}
	return p.language.Save(ctx, lang)
}

// Contact returns remembered details; ok is false when nothing is remembered
func (p *Preferences) Contact(ctx context.Context) (inquiry.Contact, bool, error) {
	return p.contact.Load(ctx)
}

func (p *Preferences) RememberContact(ctx context.Context, c inquiry.Contact) error {
	return p.contact.Save(ctx, c)
}

func (p *Preferences) ForgetContact(ctx context.Context) error {
	return p.contact.Clear(ctx)
}
