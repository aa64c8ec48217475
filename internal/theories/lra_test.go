package theories

import (
	"testing"

	"github.com/oratio-project/oratio/pkg/oratio"
)

func constExpr(n int64) oratio.LinearExpr {
	return oratio.LinearExpr{Constant: oratio.NewRational(n, 1)}
}

func varExpr(v oratio.Var) oratio.LinearExpr {
	return oratio.LinearExpr{Terms: map[oratio.Var]oratio.Rational{v: oratio.One}, Constant: oratio.Zero}
}

func TestLRA_NewVar_StartsAtTheDefaultWindow(t *testing.T) {
	sat := New()
	l := NewLRA(sat)
	v := l.NewVar()
	lb, ub := l.Bounds(varExpr(v))
	if lb.Compare(oratio.NewRational(-lraWindow, 1)) != 0 {
		t.Fatalf("lower bound = %v, want -%d", lb, lraWindow)
	}
	if ub.Compare(oratio.NewRational(lraWindow, 1)) != 0 {
		t.Fatalf("upper bound = %v, want %d", ub, lraWindow)
	}
}

func TestLRA_Bounds_OfAConstantExprIsExact(t *testing.T) {
	sat := New()
	l := NewLRA(sat)
	lb, ub := l.Bounds(constExpr(5))
	if !lb.Equal(oratio.NewRational(5, 1)) || !ub.Equal(oratio.NewRational(5, 1)) {
		t.Fatalf("Bounds(5) = [%v, %v], want [5, 5]", lb, ub)
	}
}

func TestLRA_NewLeq_DecidesTrueWhenAlreadyGuaranteed(t *testing.T) {
	sat := New()
	l := NewLRA(sat)
	lit := l.NewLeq(constExpr(1), constExpr(2))
	if sat.Value(lit) != oratio.LTrue {
		t.Fatalf("1 <= 2 should be forced true immediately")
	}
}

func TestLRA_NewLeq_DecidesFalseWhenAlreadyImpossible(t *testing.T) {
	sat := New()
	l := NewLRA(sat)
	lit := l.NewLeq(constExpr(5), constExpr(2))
	if sat.Value(lit) != oratio.LFalse {
		t.Fatalf("5 <= 2 should be forced false immediately")
	}
}

func TestLRA_NewLeq_UndecidedWhenWithinTheWideWindow(t *testing.T) {
	sat := New()
	l := NewLRA(sat)
	v := l.NewVar()
	lit := l.NewLeq(varExpr(v), constExpr(0))
	if sat.Value(lit) != oratio.LUndefined {
		t.Fatalf("v <= 0 should be undecided while v's window still spans both sides of 0")
	}
}

func TestLRA_NewLt_IsStrictlyTighterThanLeq(t *testing.T) {
	sat := New()
	l := NewLRA(sat)
	lit := l.NewLt(constExpr(2), constExpr(2))
	if sat.Value(lit) != oratio.LFalse {
		t.Fatalf("2 < 2 should be forced false")
	}
}

func TestLRA_Value_IsTheBoundMidpoint(t *testing.T) {
	sat := New()
	l := NewLRA(sat)
	got := l.Value(constExpr(4))
	if !got.Equal(oratio.NewRational(4, 1)) {
		t.Fatalf("Value of a constant expr = %v, want 4", got)
	}
}

func TestLRA_Listen_DelegatesToTheSharedSAT(t *testing.T) {
	sat := New()
	l := NewLRA(sat)
	v := l.NewVar()
	fired := false
	l.Listen(v, oratio.ListenerFunc(func(oratio.Var) { fired = true }))
	sat.NewClause([]oratio.Lit{{Var: v}})
	if !fired {
		t.Fatalf("LRA.Listen should register against the shared SAT core")
	}
}
