// Package eip712 implements typed structured data hashing and signing.
//
// A Domain holds the signing domain properties and the struct types
// declared under it. Types are registered once and are immutable after
// that; each carries its encodeType string and typeHash.
//
//	domain, err := eip712.NewDomain(map[string]any{
//		"name":              "Ether Mail",
//		"version":           "1",
//		"chainId":           1,
//		"verifyingContract": "0xCcCCccccCCCCcCCCCCCcCcCccCcCCCcCcccccccC",
//	})
//	person, err := domain.RegisterType("Person", []eip712.Field{
//		{Name: "name", Type: "string"},
//		{Name: "wallet", Type: "address"},
//	})
//
// Instances validate their values on construction and on every Set:
//
//	bob, err := person.New(map[string]any{"name": "Bob", "wallet": "0xbBbB..."})
//	digest, err := bob.SignHash()
//
// The digest is keccak256(0x19 0x01 ‖ domainSeparator ‖ hashStruct(message)).
//
// FromSignatureRequest rebuilds a domain and message from the JSON request
// format used by wallets; declarations may appear in any order and
// circular references are rejected.
package eip712
