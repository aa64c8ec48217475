package oratio

// SigmaState is the tri-state meaning of an atom's state literal σ
// (spec §3): True=active, False=unified, Undefined=inactive.
type SigmaState int

const (
	SigmaUndefined SigmaState = iota
	SigmaActive
	SigmaUnified
)

func sigmaFromLBool(b LBool) SigmaState {
	switch b {
	case LTrue:
		return SigmaActive
	case LFalse:
		return SigmaUnified
	default:
		return SigmaUndefined
	}
}

// Atom is a predicate instance with a named-argument map and a state
// literal σ (spec §3). Every atom is introduced together with exactly one
// atom_flaw, its Reason.
type Atom struct {
	// ID uniquely identifies this atom within its solver for debugging and
	// JSON serialization.
	ID int
	// Predicate is the name of the predicate this atom instantiates.
	Predicate string
	// Args maps argument name to the bound Item.
	Args map[string]*Item
	// Sigma is the SAT variable backing this atom's state literal. Query its
	// value via the solver's SAT core.
	Sigma Var
	// IsFact marks whether this atom was declared as a fact (vs. a goal).
	IsFact bool
	// Reason is the atom_flaw that justifies this atom; set once by
	// Solver.NewAtom.
	Reason *Flaw
	// Scope names the smart-type-observed component instance this atom is
	// declared under, if any (e.g. a StateVariable or ReusableResource
	// instance name), used to route new_atom notifications (spec §4.6).
	Scope string
}

// Arg returns the named argument, or nil if absent.
func (a *Atom) Arg(name string) *Item { return a.Args[name] }
