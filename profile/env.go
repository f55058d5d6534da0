package profile

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Overrides are environment variables that take precedence over the file.
// Unset variables leave the profile untouched.
type Overrides struct {
	Seed      *uint64 `env:"MOTION_SEED"`
	Particles *int    `env:"MOTION_PARTICLES"`
	TPS       *int    `env:"MOTION_TPS"`
	Debug     *bool   `env:"MOTION_DEBUG"`
}

// ParseEnv loads overrides from environment variables.
func ParseEnv() (Overrides, error) {
	var o Overrides
	if err := env.Parse(&o); err != nil {
		return o, fmt.Errorf("parse env: %w", err)
	}
	return o, nil
}

// ApplyEnv reads the MOTION_* variables and applies them.
func (p *Profile) ApplyEnv() error {
	o, err := ParseEnv()
	if err != nil {
		return err
	}
	p.Apply(o)
	return nil
}

// Apply writes every set override into the profile. A seed or particle
// count override creates the field section when the profile has none.
func (p *Profile) Apply(o Overrides) {
	if o.Seed != nil || o.Particles != nil {
		if p.Field == nil {
			p.Field = &FieldSpec{}
		}
		if o.Seed != nil {
			p.Field.Seed = *o.Seed
			if p.Backdrop != nil {
				p.Backdrop.Seed = *o.Seed
			}
		}
		if o.Particles != nil {
			p.Field.Count = *o.Particles
		}
	}
	if o.TPS != nil {
		p.TPS = *o.TPS
	}
	if o.Debug != nil {
		p.Debug = *o.Debug
	}
}
