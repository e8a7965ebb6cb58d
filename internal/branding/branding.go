// Package branding persists the company name and primary colour shown by the
// web UI and CLI banners.
package branding

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/hpungsan/passgen/internal/db"
	"github.com/hpungsan/passgen/internal/errors"
)

// DefaultPrimaryColor is used when no colour has been saved.
const DefaultPrimaryColor = "#4f46e5"

// KV is the persistence branding reads and writes.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Branding is the display configuration.
type Branding struct {
	CompanyName  string `json:"company_name" validate:"max=100"`
	PrimaryColor string `json:"primary_color" validate:"required,hexcolor"`
}

// Default returns the branding used before anything is saved.
func Default() Branding {
	return Branding{PrimaryColor: DefaultPrimaryColor}
}

// Validate checks field constraints.
func (b Branding) Validate() error {
	if err := validator.New().Struct(b); err != nil {
		var verrs validator.ValidationErrors
		if stderrors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return errors.NewInvalidRequest(fmt.Sprintf("invalid %s: failed %q check", strings.ToLower(fe.Field()), fe.Tag()))
		}
		return errors.NewInvalidRequest(err.Error())
	}
	return nil
}

// Load reads branding. Missing fields fall back to Default; a read failure
// returns Default together with the PERSISTENCE_FAILURE error.
func Load(ctx context.Context, kv KV) (Branding, error) {
	b := Default()

	name, ok, err := kv.Get(ctx, db.KeyBrandingCompanyName)
	if err != nil {
		return Default(), err
	}
	if ok {
		b.CompanyName = name
	}

	color, ok, err := kv.Get(ctx, db.KeyBrandingColor)
	if err != nil {
		return Default(), err
	}
	// The colour is written into CSS, so a stored value that is not a hex
	// colour is ignored.
	if ok && validColor(color) {
		b.PrimaryColor = color
	}
	return b, nil
}

func validColor(color string) bool {
	return validator.New().Var(color, "required,hexcolor") == nil
}

// Save validates and writes b. An empty company name removes the stored one.
func Save(ctx context.Context, kv KV, b Branding) (Branding, error) {
	b.CompanyName = strings.TrimSpace(b.CompanyName)
	b.PrimaryColor = strings.ToLower(strings.TrimSpace(b.PrimaryColor))
	if b.PrimaryColor == "" {
		b.PrimaryColor = DefaultPrimaryColor
	}
	if err := b.Validate(); err != nil {
		return Branding{}, err
	}

	if b.CompanyName == "" {
		if err := kv.Delete(ctx, db.KeyBrandingCompanyName); err != nil {
			return Branding{}, err
		}
	} else if err := kv.Set(ctx, db.KeyBrandingCompanyName, b.CompanyName); err != nil {
		return Branding{}, err
	}

	if err := kv.Set(ctx, db.KeyBrandingColor, b.PrimaryColor); err != nil {
		return Branding{}, err
	}
	return b, nil
}

// Reset removes all stored branding.
func Reset(ctx context.Context, kv KV) error {
	if err := kv.Delete(ctx, db.KeyBrandingCompanyName); err != nil {
		return err
	}
	return kv.Delete(ctx, db.KeyBrandingColor)
}

// Title returns the heading to display: the company name, or fallback when unset.
func (b Branding) Title(fallback string) string {
	if b.CompanyName == "" {
		return fallback
	}
	return b.CompanyName
}
