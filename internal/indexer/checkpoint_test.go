package indexer

import (
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func TestCheckpointRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkpoint.json")
	store := NewCheckpointStore(path, true)
	markets := MarketFingerprint([]common.Address{common.HexToAddress("0x1111111111111111111111111111111111111111")})

	if err := store.Save(42, markets); err != nil {
		t.Fatalf("save: %v", err)
	}

	cp, ok, err := store.Load(markets)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !ok {
		t.Fatal("expected checkpoint to load")
	}
	if cp.LastProcessedBlock != 42 {
		t.Fatalf("last processed mismatch: %d", cp.LastProcessedBlock)
	}
	if cp.Markets != markets {
		t.Fatalf("markets mismatch: %s", cp.Markets)
	}
}

func TestCheckpointIgnoredForDifferentMarketSet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkpoint.json")
	store := NewCheckpointStore(path, true)
	saved := MarketFingerprint([]common.Address{common.HexToAddress("0x1111111111111111111111111111111111111111")})
	other := MarketFingerprint([]common.Address{common.HexToAddress("0x2222222222222222222222222222222222222222")})

	if err := store.Save(42, saved); err != nil {
		t.Fatalf("save: %v", err)
	}

	_, ok, err := store.Load(other)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if ok {
		t.Fatal("checkpoint for a different market set must not resume")
	}
}

func TestCheckpointDisabled(t *testing.T) {
	store := NewCheckpointStore(filepath.Join(t.TempDir(), "checkpoint.json"), false)

	if err := store.Save(42, "abc"); err != nil {
		t.Fatalf("save: %v", err)
	}

	_, ok, err := store.Load("abc")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if ok {
		t.Fatal("disabled store must not load")
	}
}

func TestMarketFingerprintOrderIndependent(t *testing.T) {
	a := common.HexToAddress("0x1111111111111111111111111111111111111111")
	b := common.HexToAddress("0x2222222222222222222222222222222222222222")

	if MarketFingerprint([]common.Address{a, b}) != MarketFingerprint([]common.Address{b, a}) {
		t.Fatal("fingerprint must not depend on address order")
	}
	if MarketFingerprint([]common.Address{a}) == MarketFingerprint([]common.Address{b}) {
		t.Fatal("different market sets must not collide")
	}
}
