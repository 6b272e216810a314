package typeddata

import (
	"github.com/ethereum/go-ethereum/common"

	"github.com/wippyai/typeddata/eip712"
	"github.com/wippyai/typeddata/signer"
)

// Load parses a JSON signature request and builds its domain and message
// with the default parse options.
func Load(data []byte) (*eip712.Domain, *eip712.Struct, error) {
	req, err := eip712.ParseSignatureRequest(data)
	if err != nil {
		return nil, nil, err
	}
	return eip712.FromSignatureRequest(req, eip712.DefaultParseOptions())
}

// Digest returns the sign hash of a JSON signature request
func Digest(data []byte) (common.Hash, error) {
	_, msg, err := Load(data)
	if err != nil {
		return common.Hash{}, err
	}
	return msg.SignHash()
}

// Sign signs a JSON signature request with s
func Sign(data []byte, s signer.Signer) ([]byte, error) {
	_, msg, err := Load(data)
	if err != nil {
		return nil, err
	}
	return msg.Sign(s)
}

// Verify reports whether sig over a JSON signature request was produced
// by address.
func Verify(data []byte, sig []byte, address string) (bool, error) {
	_, msg, err := Load(data)
	if err != nil {
		return false, err
	}
	return msg.VerifySignature(sig, address, nil)
}
