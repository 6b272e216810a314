// Package signer bridges typed data digests to secp256k1 signatures.
//
// Signatures are 65 bytes laid out as r ‖ s ‖ v with v in {27, 28}, the
// layout wallets return for eth_signTypedData. Recovery also accepts the
// raw recovery id form where v is 0 or 1.
//
// The Signer and Verifier interfaces let callers plug in hardware
// wallets, remote signers or test doubles; PrivateKeySigner and
// RecoverVerifier are the in-process implementations.
package signer
