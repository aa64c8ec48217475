package oratio

// OrderingTheory selects which theory backs flaw/resolver position
// ordering for causal-cycle prevention (spec §3 invariant 6, §9's
// DL_TN/LRA_TN open question). RDL is the reference implementation's
// default (semitone's idl_theory); LRA is offered for deployments that
// already pay for a full linear-arithmetic theory and would rather not
// run a second one.
type OrderingTheory int

const (
	OrderingRDL OrderingTheory = iota
	OrderingLRA
)

// Config controls solver-wide policy knobs that the reference
// implementation expressed as compile-time macros (DL_TN, LRA_TN,
// GRAPH_PRUNING, GRAPH_REFINING) — collapsed here into ordinary runtime
// fields per spec §9's resolved Open Question, since Go has no equivalent
// of conditional compilation worth reaching for.
type Config struct {
	// OrderingTheory picks RDL or LRA for position-variable bounds.
	OrderingTheory OrderingTheory
	// Pruning enables h1.Prune: flaws still queued after Check's build/
	// add_layer step get a ¬γ ∨ ¬φ clause. γ stays the constant true
	// literal, so the clause forces those flaws' φ false at once.
	Pruning bool
	// Refining is carried in the configuration (spec §9 Open Question),
	// but no code reads it: there is no refine step.
	Refining bool
	// NodeLimit bounds the number of search decisions Solve will take
	// before returning ErrCancelled. Zero means unbounded.
	NodeLimit int
	// TimeLimitMs bounds wall-clock search time in milliseconds. Zero
	// means unbounded. Checked at decision-point granularity, not
	// preemptively.
	TimeLimitMs int64
}

// DefaultConfig returns the reference implementation's effective defaults:
// RDL ordering, no pruning, no refining, no limits.
func DefaultConfig() Config {
	return Config{OrderingTheory: OrderingRDL, Pruning: false, Refining: false}
}

// Option configures a Solver at construction time.
type Option func(*Config)

// WithOrderingTheory overrides the default RDL position-ordering theory.
func WithOrderingTheory(t OrderingTheory) Option {
	return func(c *Config) { c.OrderingTheory = t }
}

// WithPruning enables graph pruning.
func WithPruning(enabled bool) Option {
	return func(c *Config) { c.Pruning = enabled }
}

// WithRefining sets Config.Refining, which no code reads.
func WithRefining(enabled bool) Option {
	return func(c *Config) { c.Refining = enabled }
}

// WithNodeLimit bounds the number of search decisions.
func WithNodeLimit(n int) Option {
	return func(c *Config) { c.NodeLimit = n }
}

// WithTimeLimit bounds wall-clock search time, in milliseconds.
func WithTimeLimit(ms int64) Option {
	return func(c *Config) { c.TimeLimitMs = ms }
}
