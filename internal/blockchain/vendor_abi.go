package blockchain

// Vendor contract fragment used by verification: the three quest-relevant
// events plus the per-user state read.
const vendorABI = `[
  {
    "type": "event",
    "name": "TokensPurchased",
    "inputs": [
      {"name": "buyer", "type": "address", "indexed": true},
      {"name": "amount", "type": "uint256", "indexed": false},
      {"name": "cost", "type": "uint256", "indexed": false}
    ]
  },
  {
    "type": "event",
    "name": "TokensSold",
    "inputs": [
      {"name": "seller", "type": "address", "indexed": true},
      {"name": "amount", "type": "uint256", "indexed": false},
      {"name": "proceeds", "type": "uint256", "indexed": false}
    ]
  },
  {
    "type": "event",
    "name": "LightUp",
    "inputs": [
      {"name": "user", "type": "address", "indexed": true},
      {"name": "fuelBurned", "type": "uint256", "indexed": false}
    ]
  },
  {
    "type": "function",
    "name": "getUserState",
    "stateMutability": "view",
    "inputs": [
      {"name": "user", "type": "address"}
    ],
    "outputs": [
      {"name": "stage", "type": "uint8"},
      {"name": "points", "type": "uint256"},
      {"name": "fuel", "type": "uint256"},
      {"name": "lastStage3MaxSale", "type": "uint256"},
      {"name": "dailySoldAmount", "type": "uint256"},
      {"name": "dailyWindowStart", "type": "uint64"}
    ]
  }
]`
