package ast

// Prepared is the discriminated union spec.md §9 models as "a discriminated
// union for statement kinds combined with small capability traits" instead
// of the source's class hierarchy. Every concrete statement type in this
// package implements it.
//
// Invariants (spec.md §3):
//   - exactly one statement kind per Prepared (the concrete Go type IS the
//     kind, Kind() just reports its stable code);
//   - the parameter list is frozen after parse;
//   - Epoch snapshots the catalog's modification counter at parse time so
//     the command runtime can decide whether a recompile is needed.
type Prepared interface {
	Kind() Kind
	IsQuery() bool
	IsTransactional() bool
	IsRetryable() bool
	Parameters() ParameterList
	Dependencies() []string // catalog object names this statement resolved against
	PlanSQL(quoteAll bool) string

	// Epoch is the catalog modification-epoch number snapshotted at parse
	// time (spec.md §3 "Prepared statement").
	Epoch() int64
	// PrepareAlways reports the `prepare-always` flag: some statements
	// (e.g. ones touching session-local state like SET) must always be
	// recompiled rather than trusting the epoch.
	PrepareAlways() bool
}

// Binder is implemented by every Prepared (via the embedded base) and lets
// the parser finalize parameters/epoch without a per-type switch.
type Binder interface {
	Bind(params ParameterList, epoch int64)
}

// base is embedded by every concrete Prepared to supply the common fields
// and satisfy most of the interface mechanically; each concrete type adds
// Kind(), IsQuery(), IsTransactional(), IsRetryable(), PlanSQL(), and
// Dependencies().
type base struct {
	params       ParameterList
	epoch        int64
	prepareAlways bool
}

func (b *base) Parameters() ParameterList { return b.params }
func (b *base) Epoch() int64              { return b.epoch }
func (b *base) PrepareAlways() bool       { return b.prepareAlways }

// Bind freezes the parameter list and snapshots the catalog epoch once a
// parse completes (spec.md §3 "the parameter list is frozen after parse").
// It is promoted to every concrete statement type through the embedded
// base, so a parser holding only a Prepared value can still finalize it via
// a narrow interface assertion without needing per-type constructors.
func (b *base) Bind(params ParameterList, epoch int64) {
	b.params = params
	b.epoch = epoch
}

// SetPrepareAlways marks a statement as needing recompilation on every
// execution regardless of epoch (spec.md §4.6): SET and other
// session-local statements never trust a cached plan.
func (b *base) SetPrepareAlways() {
	b.prepareAlways = true
}

func newBase(params ParameterList, epoch int64) base {
	return base{params: params, epoch: epoch}
}
