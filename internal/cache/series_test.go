package cache

import (
	"testing"

	"futarchyscope/internal/model"
)

func TestKeyDeterministic(t *testing.T) {
	events := []model.SwapEvent{
		{Timestamp: 100, OutcomeIndex: 1, AssetReserveAfter: 10, StableReserveAfter: 20},
	}

	a := Key("0xabc", 0, 7200, 300, events)
	b := Key("0xabc", 0, 7200, 300, events)
	if a != b {
		t.Fatalf("same inputs must produce the same key: %s != %s", a, b)
	}
}

func TestKeyDiscriminates(t *testing.T) {
	events := []model.SwapEvent{
		{Timestamp: 100, OutcomeIndex: 1, AssetReserveAfter: 10, StableReserveAfter: 20},
	}

	base := Key("0xabc", 0, 7200, 300, events)
	if Key("0xdef", 0, 7200, 300, events) == base {
		t.Fatalf("market must affect key")
	}
	if Key("0xabc", 0, 7200, 600, events) == base {
		t.Fatalf("interval must affect key")
	}
	if Key("0xabc", 0, 7200, 300, nil) == base {
		t.Fatalf("event set must affect key")
	}

	moved := []model.SwapEvent{
		{Timestamp: 101, OutcomeIndex: 1, AssetReserveAfter: 10, StableReserveAfter: 20},
	}
	if Key("0xabc", 0, 7200, 300, moved) == base {
		t.Fatalf("event timestamps must affect key")
	}
}
