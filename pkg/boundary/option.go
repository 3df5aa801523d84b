package boundary

import (
	"time"
)

type config struct {
	TrimStart     bool
	TrimEnd       bool
	Mode          Mode
	Pad           time.Duration
	ChunkDuration time.Duration
	Epsilon       time.Duration
}

func defaultConfig() config {
	return config{
		Mode:          ModeAuto,
		Pad:           DefaultPad,
		ChunkDuration: DefaultChunkDuration,
		Epsilon:       DefaultEpsilon,
	}
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
	cfg := defaultConfig()
	opts.apply(&cfg)
	return cfg
}

// OptionTrimStart requests the leading boundary only; see
// OptionTrimEnd. When neither is given, both boundaries are searched.
type OptionTrimStart bool

func (opt OptionTrimStart) apply(cfg *config) {
	cfg.TrimStart = bool(opt)
}

// OptionTrimEnd requests the trailing boundary only.
type OptionTrimEnd bool

func (opt OptionTrimEnd) apply(cfg *config) {
	cfg.TrimEnd = bool(opt)
}

type OptionMode Mode

func (opt OptionMode) apply(cfg *config) {
	cfg.Mode = Mode(opt)
}

// OptionPad overrides the margin kept around detected speech.
type OptionPad time.Duration

func (opt OptionPad) apply(cfg *config) {
	cfg.Pad = time.Duration(opt)
}

// OptionChunkDuration overrides the chunk length of ModeChunked.
type OptionChunkDuration time.Duration

func (opt OptionChunkDuration) apply(cfg *config) {
	cfg.ChunkDuration = time.Duration(opt)
}

// OptionEpsilon overrides the tolerance of the nothing-to-trim check.
type OptionEpsilon time.Duration

func (opt OptionEpsilon) apply(cfg *config) {
	cfg.Epsilon = time.Duration(opt)
}
