package market

import (
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

const futarchyAmmABIJSON = `[
  {
    "anonymous": false,
    "inputs": [
      {"indexed": true, "internalType": "address", "name": "trader", "type": "address"},
      {"indexed": true, "internalType": "uint8", "name": "outcome", "type": "uint8"},
      {"indexed": false, "internalType": "bool", "name": "isBuy", "type": "bool"},
      {"indexed": false, "internalType": "uint256", "name": "priceRaw", "type": "uint256"},
      {"indexed": false, "internalType": "uint256", "name": "assetReserveAfter", "type": "uint256"},
      {"indexed": false, "internalType": "uint256", "name": "stableReserveAfter", "type": "uint256"}
    ],
    "name": "OutcomeSwap",
    "type": "event"
  },
  {
    "inputs": [],
    "name": "outcomeCount",
    "outputs": [{"internalType": "uint8", "name": "", "type": "uint8"}],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [],
    "name": "passThresholdBps",
    "outputs": [{"internalType": "uint32", "name": "", "type": "uint32"}],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [{"internalType": "uint8", "name": "outcome", "type": "uint8"}],
    "name": "initialReserves",
    "outputs": [
      {"internalType": "uint256", "name": "assetReserve", "type": "uint256"},
      {"internalType": "uint256", "name": "stableReserve", "type": "uint256"}
    ],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [],
    "name": "assetDecimals",
    "outputs": [{"internalType": "uint8", "name": "", "type": "uint8"}],
    "stateMutability": "view",
    "type": "function"
  },
  {
    "inputs": [],
    "name": "stableDecimals",
    "outputs": [{"internalType": "uint8", "name": "", "type": "uint8"}],
    "stateMutability": "view",
    "type": "function"
  }
]`

var (
	futarchyAmmABI     abi.ABI
	futarchyAmmABIOnce sync.Once
	futarchyAmmABIErr  error
)

// FutarchyAmmABI returns the parsed futarchy AMM ABI.
func FutarchyAmmABI() (abi.ABI, error) {
	futarchyAmmABIOnce.Do(func() {
		futarchyAmmABI, futarchyAmmABIErr = abi.JSON(strings.NewReader(futarchyAmmABIJSON))
	})
	return futarchyAmmABI, futarchyAmmABIErr
}
