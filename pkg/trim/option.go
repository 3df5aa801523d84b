package trim

import (
	"github.com/xaionaro-go/trimsilence/pkg/boundary"
)

type config struct {
	BoundaryOptions boundary.Options
}

type Option interface {
	apply(*config)
}

type Options []Option

func (opts Options) apply(cfg *config) {
	for _, opt := range opts {
		opt.apply(cfg)
	}
}

func (opts Options) config() config {
	cfg := config{}
	opts.apply(&cfg)
	return cfg
}

// OptionBoundaryOptions forwards options to the boundary search.
type OptionBoundaryOptions boundary.Options

func (opt OptionBoundaryOptions) apply(cfg *config) {
	cfg.BoundaryOptions = boundary.Options(opt)
}
