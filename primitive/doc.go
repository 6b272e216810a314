// Package primitive validates and normalizes values of atomic types.
//
// Atomic type names follow the Solidity spelling used by typed data:
//
//	bool                 bool
//	address              common.Address (20 bytes)
//	string               string (dynamic)
//	bytes                []byte (dynamic)
//	bytes1 .. bytes32    []byte of exactly N bytes
//	uint8 .. uint256     *big.Int in [0, 2^N)
//	int8 .. int256       *big.Int in [-2^(N-1), 2^(N-1))
//
// Integer widths are multiples of 8. The unsized aliases uint and int
// are not atomic type names because they have no canonical encoding.
//
// Validate accepts the loose shapes values arrive in (JSON numbers,
// json.Number, hex and decimal strings, Go integers, *big.Int,
// *uint256.Int) and returns the normalized representation above.
// Serialize is its inverse and returns the plain JSON-friendly form.
package primitive
