package market

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

func outcomeTopic(outcome uint8) common.Hash {
	var h common.Hash
	h[31] = outcome
	return h
}

func traderTopic(addr common.Address) common.Hash {
	var h common.Hash
	copy(h[12:], addr.Bytes())
	return h
}

func TestSwapDecoderDecode(t *testing.T) {
	ammABI, err := FutarchyAmmABI()
	if err != nil {
		t.Fatalf("abi parse: %v", err)
	}

	decoder, err := NewSwapDecoder()
	if err != nil {
		t.Fatalf("decoder: %v", err)
	}

	priceRaw, _ := new(big.Int).SetString("1500000000000", 10)
	data, err := ammABI.Events["OutcomeSwap"].Inputs.NonIndexed().Pack(
		true,
		priceRaw,
		big.NewInt(1_000_000),
		big.NewInt(1_500_000),
	)
	if err != nil {
		t.Fatalf("pack swap: %v", err)
	}

	marketAddr := common.HexToAddress("0x1111111111111111111111111111111111111111")
	trader := common.HexToAddress("0x2222222222222222222222222222222222222222")

	log := types.Log{
		Address:     marketAddr,
		Topics:      []common.Hash{decoder.Topic0(), traderTopic(trader), outcomeTopic(2)},
		Data:        data,
		BlockNumber: 777,
		TxHash:      common.HexToHash("0xdead"),
		Index:       5,
	}

	event, err := decoder.Decode(56, log, 1700000000)
	if err != nil {
		t.Fatalf("decode swap: %v", err)
	}

	if event.OutcomeIndex != 2 {
		t.Fatalf("outcome mismatch: %d", event.OutcomeIndex)
	}
	if !event.IsBuy {
		t.Fatalf("direction mismatch")
	}
	if event.PriceRaw != "1500000000000" {
		t.Fatalf("price mismatch: %s", event.PriceRaw)
	}
	if event.AssetReserveAfter != 1_000_000 || event.StableReserveAfter != 1_500_000 {
		t.Fatalf("reserves mismatch: %+v", event)
	}
	if event.Market != marketAddr.Hex() || event.Timestamp != 1700000000 {
		t.Fatalf("envelope mismatch: %+v", event)
	}
	if event.BlockNumber != 777 || event.LogIndex != 5 {
		t.Fatalf("log position mismatch: %+v", event)
	}
}

func TestSwapDecoderRejectsForeignLog(t *testing.T) {
	decoder, err := NewSwapDecoder()
	if err != nil {
		t.Fatalf("decoder: %v", err)
	}

	log := types.Log{Topics: []common.Hash{common.HexToHash("0xbeef")}}
	if decoder.CanDecode(log) {
		t.Fatalf("foreign topic0 should not decode")
	}
	if _, err := decoder.Decode(56, log, 0); err == nil {
		t.Fatalf("expected decode error")
	}
}
