// SPDX-License-Identifier: MIT

package dlr

import "log/slog"

// Defaults (single source of truth).
const (
	// DefaultPanelOrder is the number of Gauss–Legendre nodes per dyadic panel
	// of the fine discretization.
	DefaultPanelOrder = 24

	// DefaultSymmetrize selects unpaired nodes.
	DefaultSymmetrize = false

	// DefaultCacheSize bounds the number of memoized bases held by Get.
	DefaultCacheSize = 64
)

const (
	panelOrderInvalid = "dlr: WithPanelOrder: order must be in [8, 64]"
	cutoffInvalid     = "dlr: WithMatsubaraCutoff: nmax must be ≥ 1"
)

// Option mutates Options. Constructors panic on nonsensical values.
type Option func(*Options)

// Options is the resolved basis-construction configuration.
type Options struct {
	symmetrize bool
	panelOrder int
	nmax       int // 0 = derived from Λ
	logger     *slog.Logger
}

// WithSymmetrize selects frequencies in ±ω pairs, τ nodes in (τ, β-τ)
// pairs and Matsubara nodes in (n, -n-1) (fermions) or (n, -n) (bosons)
// pairs, so that the node sets are symmetric about zero.
func WithSymmetrize() Option {
	return func(o *Options) { o.symmetrize = true }
}

// WithPanelOrder sets the Gauss–Legendre order of the fine grid.
func WithPanelOrder(order int) Option {
	if order < 8 || order > 64 {
		panic(panelOrderInvalid)
	}

	return func(o *Options) { o.panelOrder = order }
}

// WithMatsubaraCutoff sets the half-width of the dense Matsubara index
// range searched for frequency nodes.
func WithMatsubaraCutoff(nmax int) Option {
	if nmax < 1 {
		panic(cutoffInvalid)
	}

	return func(o *Options) { o.nmax = nmax }
}

// WithLogger routes debug output to l instead of slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) { o.logger = l }
}

func gatherOptions(opts ...Option) Options {
	o := Options{
		symmetrize: DefaultSymmetrize,
		panelOrder: DefaultPanelOrder,
	}
	for _, fn := range opts {
		fn(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	return o
}

// Symmetrized reports whether WithSymmetrize was applied.
func (o Options) Symmetrized() bool { return o.symmetrize }
