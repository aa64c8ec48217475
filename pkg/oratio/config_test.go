package oratio

import "testing"

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	if c.OrderingTheory != OrderingRDL {
		t.Errorf("OrderingTheory = %v, want OrderingRDL", c.OrderingTheory)
	}
	if c.Pruning || c.Refining {
		t.Errorf("DefaultConfig should disable pruning and refining")
	}
	if c.NodeLimit != 0 || c.TimeLimitMs != 0 {
		t.Errorf("DefaultConfig should leave limits unbounded")
	}
}

func TestOptions_ApplyOverDefault(t *testing.T) {
	c := DefaultConfig()
	for _, opt := range []Option{
		WithOrderingTheory(OrderingLRA),
		WithPruning(true),
		WithRefining(true),
		WithNodeLimit(100),
		WithTimeLimit(5000),
	} {
		opt(&c)
	}
	if c.OrderingTheory != OrderingLRA {
		t.Errorf("OrderingTheory = %v, want OrderingLRA", c.OrderingTheory)
	}
	if !c.Pruning || !c.Refining {
		t.Errorf("Pruning/Refining should both be enabled")
	}
	if c.NodeLimit != 100 {
		t.Errorf("NodeLimit = %d, want 100", c.NodeLimit)
	}
	if c.TimeLimitMs != 5000 {
		t.Errorf("TimeLimitMs = %d, want 5000", c.TimeLimitMs)
	}
}
