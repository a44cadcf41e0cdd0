package chain

// Minimal ABI fragments for the deployed contract set: only the events the
// grabber consumes and the read-only views it calls.

const metaverseABI = `[
  {"anonymous": false, "inputs": [
    {"indexed": true, "internalType": "bytes32", "name": "permission", "type": "bytes32"},
    {"indexed": true, "internalType": "address", "name": "user", "type": "address"},
    {"indexed": false, "internalType": "bool", "name": "set", "type": "bool"},
    {"indexed": false, "internalType": "address", "name": "sender", "type": "address"}
  ], "name": "PermissionChanged", "type": "event"},
  {"inputs": [], "name": "brandRegistry",
   "outputs": [{"internalType": "address", "name": "", "type": "address"}],
   "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "economy",
   "outputs": [{"internalType": "address", "name": "", "type": "address"}],
   "stateMutability": "view", "type": "function"},
  {"inputs": [], "name": "sponsorRegistry",
   "outputs": [{"internalType": "address", "name": "", "type": "address"}],
   "stateMutability": "view", "type": "function"},
  {"inputs": [{"internalType": "uint256", "name": "", "type": "uint256"}], "name": "pluginsList",
   "outputs": [{"internalType": "address", "name": "", "type": "address"}],
   "stateMutability": "view", "type": "function"},
  {"inputs": [{"internalType": "uint256", "name": "tokenId", "type": "uint256"}], "name": "tokenURI",
   "outputs": [{"internalType": "string", "name": "", "type": "string"}],
   "stateMutability": "view", "type": "function"}
]`

const brandRegistryABI = `[
  {"anonymous": false, "inputs": [
    {"indexed": true, "internalType": "address", "name": "updatedBy", "type": "address"},
    {"indexed": false, "internalType": "uint256", "name": "newCost", "type": "uint256"}
  ], "name": "BrandRegistrationCostUpdated", "type": "event"},
  {"anonymous": false, "inputs": [
    {"indexed": true, "internalType": "address", "name": "registeredBy", "type": "address"},
    {"indexed": true, "internalType": "address", "name": "brandId", "type": "address"},
    {"indexed": false, "internalType": "string", "name": "name", "type": "string"},
    {"indexed": false, "internalType": "string", "name": "description", "type": "string"},
    {"indexed": false, "internalType": "uint256", "name": "price", "type": "uint256"},
    {"indexed": true, "internalType": "address", "name": "mintedBy", "type": "address"}
  ], "name": "BrandRegistered", "type": "event"},
  {"anonymous": false, "inputs": [
    {"indexed": true, "internalType": "address", "name": "updatedBy", "type": "address"},
    {"indexed": true, "internalType": "address", "name": "brandId", "type": "address"}
  ], "name": "BrandUpdated", "type": "event"},
  {"anonymous": false, "inputs": [
    {"indexed": true, "internalType": "address", "name": "updatedBy", "type": "address"},
    {"indexed": true, "internalType": "address", "name": "brand", "type": "address"},
    {"indexed": false, "internalType": "bool", "name": "committed", "type": "bool"}
  ], "name": "BrandSocialCommitmentUpdated", "type": "event"},
  {"anonymous": false, "inputs": [
    {"indexed": true, "internalType": "address", "name": "brandId", "type": "address"},
    {"indexed": true, "internalType": "bytes32", "name": "permission", "type": "bytes32"},
    {"indexed": true, "internalType": "address", "name": "user", "type": "address"},
    {"indexed": false, "internalType": "bool", "name": "set", "type": "bool"},
    {"indexed": false, "internalType": "address", "name": "sender", "type": "address"}
  ], "name": "BrandPermissionChanged", "type": "event"}
]`

const economyABI = `[
  {"anonymous": false, "inputs": [
    {"indexed": true, "internalType": "address", "name": "operator", "type": "address"},
    {"indexed": true, "internalType": "address", "name": "from", "type": "address"},
    {"indexed": true, "internalType": "address", "name": "to", "type": "address"},
    {"indexed": false, "internalType": "uint256", "name": "id", "type": "uint256"},
    {"indexed": false, "internalType": "uint256", "name": "value", "type": "uint256"}
  ], "name": "TransferSingle", "type": "event"},
  {"anonymous": false, "inputs": [
    {"indexed": true, "internalType": "address", "name": "operator", "type": "address"},
    {"indexed": true, "internalType": "address", "name": "from", "type": "address"},
    {"indexed": true, "internalType": "address", "name": "to", "type": "address"},
    {"indexed": false, "internalType": "uint256[]", "name": "ids", "type": "uint256[]"},
    {"indexed": false, "internalType": "uint256[]", "name": "values", "type": "uint256[]"}
  ], "name": "TransferBatch", "type": "event"},
  {"anonymous": false, "inputs": [
    {"indexed": true, "internalType": "uint256", "name": "dealId", "type": "uint256"},
    {"indexed": true, "internalType": "address", "name": "emitter", "type": "address"},
    {"indexed": true, "internalType": "address", "name": "receiver", "type": "address"},
    {"indexed": false, "internalType": "uint256[]", "name": "emitterTokenIds", "type": "uint256[]"},
    {"indexed": false, "internalType": "uint256[]", "name": "emitterTokenAmounts", "type": "uint256[]"}
  ], "name": "DealStarted", "type": "event"},
  {"anonymous": false, "inputs": [
    {"indexed": true, "internalType": "uint256", "name": "dealId", "type": "uint256"},
    {"indexed": true, "internalType": "address", "name": "emitter", "type": "address"},
    {"indexed": true, "internalType": "address", "name": "receiver", "type": "address"},
    {"indexed": false, "internalType": "uint256[]", "name": "receiverTokenIds", "type": "uint256[]"},
    {"indexed": false, "internalType": "uint256[]", "name": "receiverTokenAmounts", "type": "uint256[]"}
  ], "name": "DealAccepted", "type": "event"},
  {"anonymous": false, "inputs": [
    {"indexed": true, "internalType": "uint256", "name": "dealId", "type": "uint256"},
    {"indexed": true, "internalType": "address", "name": "emitter", "type": "address"},
    {"indexed": true, "internalType": "address", "name": "receiver", "type": "address"}
  ], "name": "DealConfirmed", "type": "event"},
  {"anonymous": false, "inputs": [
    {"indexed": true, "internalType": "uint256", "name": "dealId", "type": "uint256"},
    {"indexed": true, "internalType": "address", "name": "emitter", "type": "address"},
    {"indexed": true, "internalType": "address", "name": "receiver", "type": "address"},
    {"indexed": false, "internalType": "bool", "name": "isEmitter", "type": "bool"}
  ], "name": "DealBroken", "type": "event"}
]`

const sponsorRegistryABI = `[
  {"anonymous": false, "inputs": [
    {"indexed": true, "internalType": "address", "name": "sponsor", "type": "address"},
    {"indexed": true, "internalType": "address", "name": "brandId", "type": "address"},
    {"indexed": false, "internalType": "bool", "name": "sponsored", "type": "bool"}
  ], "name": "Sponsored", "type": "event"}
]`

const currencyDefinitionPluginABI = `[
  {"anonymous": false, "inputs": [
    {"indexed": true, "internalType": "address", "name": "updatedBy", "type": "address"},
    {"indexed": false, "internalType": "uint256", "name": "newCost", "type": "uint256"}
  ], "name": "CurrencyDefinitionCostUpdated", "type": "event"},
  {"anonymous": false, "inputs": [
    {"indexed": true, "internalType": "uint256", "name": "tokenId", "type": "uint256"},
    {"indexed": true, "internalType": "address", "name": "brandId", "type": "address"},
    {"indexed": true, "internalType": "address", "name": "definedBy", "type": "address"},
    {"indexed": false, "internalType": "uint256", "name": "paidPrice", "type": "uint256"},
    {"indexed": false, "internalType": "string", "name": "name", "type": "string"},
    {"indexed": false, "internalType": "string", "name": "description", "type": "string"}
  ], "name": "CurrencyDefined", "type": "event"},
  {"anonymous": false, "inputs": [
    {"indexed": true, "internalType": "address", "name": "updatedBy", "type": "address"},
    {"indexed": true, "internalType": "uint256", "name": "tokenId", "type": "uint256"}
  ], "name": "CurrencyMetadataUpdated", "type": "event"}
]`

const currencyMintingPluginABI = `[
  {"anonymous": false, "inputs": [
    {"indexed": true, "internalType": "address", "name": "updatedBy", "type": "address"},
    {"indexed": false, "internalType": "uint256", "name": "newCost", "type": "uint256"}
  ], "name": "CurrencyMintCostUpdated", "type": "event"},
  {"anonymous": false, "inputs": [
    {"indexed": true, "internalType": "address", "name": "updatedBy", "type": "address"},
    {"indexed": false, "internalType": "uint256", "name": "newAmount", "type": "uint256"}
  ], "name": "CurrencyMintAmountUpdated", "type": "event"}
]`
