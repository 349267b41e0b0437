package market

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"

	"futarchyscope/internal/chain"
	"futarchyscope/internal/model"
)

// MetaCache caches market metadata by address. Metadata is immutable
// after market creation, so entries never expire.
type MetaCache struct {
	mu   sync.RWMutex
	data map[common.Address]model.Market
}

func NewMetaCache() *MetaCache {
	return &MetaCache{data: make(map[common.Address]model.Market)}
}

func (c *MetaCache) Get(address common.Address) (model.Market, bool) {
	c.mu.RLock()
	meta, ok := c.data[address]
	c.mu.RUnlock()
	return meta, ok
}

func (c *MetaCache) Set(address common.Address, meta model.Market) {
	c.mu.Lock()
	c.data[address] = meta
	c.mu.Unlock()
}

// FetchMeta loads a market's metadata (outcome count, pass threshold,
// initial per-outcome reserves, token decimals) via eth_call.
func FetchMeta(ctx context.Context, chainClient *chain.Client, chainID uint64, market common.Address) (model.Market, error) {
	if chainClient == nil {
		return model.Market{}, fmt.Errorf("chain client is nil")
	}

	ammABI, err := FutarchyAmmABI()
	if err != nil {
		return model.Market{}, fmt.Errorf("parse amm abi: %w", err)
	}

	call := func(method string, args ...interface{}) ([]interface{}, error) {
		data, err := ammABI.Pack(method, args...)
		if err != nil {
			return nil, fmt.Errorf("pack %s: %w", method, err)
		}
		msg := ethereum.CallMsg{To: &market, Data: data}
		resp, err := chainClient.CallContract(ctx, msg, nil)
		if err != nil {
			return nil, fmt.Errorf("call %s: %w", method, err)
		}
		values, err := ammABI.Unpack(method, resp)
		if err != nil {
			return nil, fmt.Errorf("unpack %s: %w", method, err)
		}
		return values, nil
	}

	values, err := call("outcomeCount")
	if err != nil {
		return model.Market{}, err
	}
	outcomeCount, err := asUint8(values[0])
	if err != nil {
		return model.Market{}, fmt.Errorf("outcomeCount: %w", err)
	}
	if outcomeCount == 0 {
		return model.Market{}, fmt.Errorf("market reports zero outcomes")
	}

	values, err = call("passThresholdBps")
	if err != nil {
		return model.Market{}, err
	}
	threshold, err := asUint64(values[0])
	if err != nil {
		return model.Market{}, fmt.Errorf("passThresholdBps: %w", err)
	}

	values, err = call("assetDecimals")
	if err != nil {
		return model.Market{}, err
	}
	assetDecimals, err := asUint8(values[0])
	if err != nil {
		return model.Market{}, fmt.Errorf("assetDecimals: %w", err)
	}

	values, err = call("stableDecimals")
	if err != nil {
		return model.Market{}, err
	}
	stableDecimals, err := asUint8(values[0])
	if err != nil {
		return model.Market{}, fmt.Errorf("stableDecimals: %w", err)
	}

	initial := make([]model.Reserves, 0, outcomeCount)
	for i := uint8(0); i < outcomeCount; i++ {
		values, err = call("initialReserves", i)
		if err != nil {
			return model.Market{}, err
		}
		if len(values) != 2 {
			return model.Market{}, fmt.Errorf("initialReserves(%d): unexpected field count %d", i, len(values))
		}
		asset, err := reserveValue(values[0], "assetReserve")
		if err != nil {
			return model.Market{}, fmt.Errorf("initialReserves(%d): %w", i, err)
		}
		stable, err := reserveValue(values[1], "stableReserve")
		if err != nil {
			return model.Market{}, fmt.Errorf("initialReserves(%d): %w", i, err)
		}
		initial = append(initial, model.Reserves{Asset: asset, Stable: stable})
	}

	return model.Market{
		ChainID:         chainID,
		Address:         market.Hex(),
		OutcomeCount:    int(outcomeCount),
		AssetDecimals:   assetDecimals,
		StableDecimals:  stableDecimals,
		ThresholdBps:    threshold,
		InitialReserves: initial,
	}, nil
}

func asUint8(value interface{}) (uint8, error) {
	switch v := value.(type) {
	case uint8:
		return v, nil
	case *big.Int:
		if !v.IsUint64() || v.Uint64() > 255 {
			return 0, fmt.Errorf("uint8 overflow: %s", v)
		}
		return uint8(v.Uint64()), nil
	default:
		return 0, fmt.Errorf("unsupported uint8 type %T", value)
	}
}

func asUint64(value interface{}) (uint64, error) {
	switch v := value.(type) {
	case uint8:
		return uint64(v), nil
	case uint16:
		return uint64(v), nil
	case uint32:
		return uint64(v), nil
	case uint64:
		return v, nil
	case *big.Int:
		if !v.IsUint64() {
			return 0, fmt.Errorf("uint64 overflow: %s", v)
		}
		return v.Uint64(), nil
	default:
		return 0, fmt.Errorf("unsupported uint type %T", value)
	}
}
