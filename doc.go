// Package typeddata hashes and signs typed structured data the way
// Ethereum wallets do (EIP-712).
//
// Messages are declared as named record types inside a signing domain.
// Every type has a canonical encodeType string and a typeHash; every
// value has a canonical encodeData and struct hash; and the digest that
// gets signed binds the message to its domain:
//
//	signHash = keccak256(0x19 0x01 ‖ domainSeparator ‖ hashStruct(message))
//
// # Architecture Overview
//
//	typeddata/          Root package with one-call helpers for JSON requests
//	├── eip712/         Domains, type registry, instances, encoding, request parser
//	│   └── internal/
//	│       ├── abi/    32-byte word packing
//	│       └── graph/  Declaration ordering and cycle detection
//	├── primitive/      Atomic type grammar, validation and plain serialization
//	├── keccak/         Keccak-256
//	├── signer/         secp256k1 signing and signature recovery
//	├── approval/       Terminal approval prompt for signature requests
//	├── errors/         Structured error types
//	└── cmd/typeddata/  Command line tool
//
// # Quick Start
//
// Build a domain and a message in code:
//
//	domain, err := eip712.NewDomain(map[string]any{
//	    "name":    "Ether Mail",
//	    "version": "1",
//	    "chainId": 1,
//	})
//	person, _ := domain.RegisterType("Person", []eip712.Field{
//	    {Name: "name", Type: "string"},
//	    {Name: "wallet", Type: "address"},
//	})
//	bob, err := person.New(map[string]any{
//	    "name":   "Bob",
//	    "wallet": "0xbBbBBBBbbBBBbbbBbbBbbbbBBbBbbbbBbBbbBBbB",
//	})
//	digest, err := bob.SignHash()
//
// Or hash a wallet request directly:
//
//	digest, err := typeddata.Digest(requestJSON)
//
// # Signing
//
// Struct.Sign delegates to any signer.Signer; signer.PrivateKeySigner
// signs with a secp256k1 key and Struct.VerifySignature recovers the
// signer address. Keys never pass through the eip712 package.
//
// # Error Handling
//
// All errors are *errors.Error or *errors.CycleError and match the
// sentinels in the errors package:
//
//	if errors.Is(err, typeddataerrors.ErrValidation) {
//	    // a value does not fit its declared type
//	}
package typeddata
