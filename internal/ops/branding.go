package ops

import (
	"context"

	"go.uber.org/zap"

	"github.com/hpungsan/passgen/internal/branding"
)

// SetBrandingInput contains parameters for the SetBranding operation.
type SetBrandingInput struct {
	CompanyName  string
	PrimaryColor string
	Reset        bool
}

// GetBranding returns the saved branding. Read failures fall back to the
// defaults; the failure is logged, not returned.
func GetBranding(ctx context.Context, d *Deps) branding.Branding {
	b, err := branding.Load(ctx, d.KV)
	if err != nil {
		d.logger().Warn("branding load failed, using defaults", zap.Error(err))
	}
	return b
}

// SetBranding validates and saves branding, or clears it when Reset is set.
func SetBranding(ctx context.Context, d *Deps, input SetBrandingInput) (*branding.Branding, error) {
	if input.Reset {
		if err := branding.Reset(ctx, d.KV); err != nil {
			return nil, err
		}
		b := branding.Default()
		return &b, nil
	}

	b, err := branding.Save(ctx, d.KV, branding.Branding{
		CompanyName:  input.CompanyName,
		PrimaryColor: input.PrimaryColor,
	})
	if err != nil {
		return nil, err
	}
	return &b, nil
}
