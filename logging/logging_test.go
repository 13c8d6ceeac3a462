package logging

import "testing"

func TestInitializeDefaultsDoNotPanic(t *testing.T) {
	config := DefaultConfig()
	config.FileEnabled = false
	if err := Initialize(config); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	Info("planner started", "entities", 3)
	Debug("window move", "size", 7)
	Warning("low coverage", "consumer", 12)
	Error("solve failed", "err", "infeasible")
}

func TestParseLevel(t *testing.T) {
	cases := map[string]int{
		"DEBUG":   -4,
		"INFO":    0,
		"WARNING": 4,
		"WARN":    4,
		"ERROR":   8,
		"":        0,
	}
	for in, want := range cases {
		if got := int(parseLevel(in)); got != want {
			t.Errorf("parseLevel(%q) = %d, want %d", in, got, want)
		}
	}
}
