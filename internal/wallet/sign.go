package wallet

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// SignDigest signs a 32-byte digest (typically a permit digest) with the
// wallet's key. Returns a 65-byte R||S||V signature with V in 27/28 form,
// the layout the ledger's recovery step expects.
func SignDigest(w *Wallet, ks KeystoreBackend, digest common.Hash) ([]byte, error) {
	if w.Type != TypeSigning {
		return nil, fmt.Errorf("wallet %q is watch-only and cannot sign", w.Name)
	}

	hexKey, err := ks.Retrieve(w.KeyRef)
	if err != nil {
		return nil, fmt.Errorf("retrieving key: %w", err)
	}

	privKey, err := crypto.HexToECDSA(stripHexPrefix(hexKey))
	if err != nil {
		return nil, fmt.Errorf("parsing private key: %w", err)
	}

	sig, err := crypto.Sign(digest.Bytes(), privKey)
	if err != nil {
		return nil, fmt.Errorf("signing digest: %w", err)
	}

	// Adjust V from 0/1 to 27/28 for Ethereum compatibility.
	sig[64] += 27

	return sig, nil
}

// Recoverer recovers a signer address from a digest and a 65-byte
// signature. It is the concrete secp256k1 backend injected into the
// ledger's permit flow.
type Recoverer struct{}

// Recover returns the address whose key produced sig over digest. Rejects
// malformed signatures, out-of-range components, and malleable (high-S)
// values.
func (Recoverer) Recover(digest common.Hash, sig []byte) (common.Address, error) {
	if len(sig) != 65 {
		return common.Address{}, fmt.Errorf("invalid signature length: expected 65 bytes, got %d", len(sig))
	}

	// Accept both 27/28 and 0/1 forms of V.
	v := sig[64]
	if v >= 27 {
		v -= 27
	}
	r := new(big.Int).SetBytes(sig[:32])
	s := new(big.Int).SetBytes(sig[32:64])
	if !crypto.ValidateSignatureValues(v, r, s, true) {
		return common.Address{}, fmt.Errorf("invalid signature values")
	}

	recoverSig := make([]byte, 65)
	copy(recoverSig, sig[:64])
	recoverSig[64] = v

	pubKey, err := crypto.SigToPub(digest.Bytes(), recoverSig)
	if err != nil {
		return common.Address{}, fmt.Errorf("recovering signer: %w", err)
	}

	return crypto.PubkeyToAddress(*pubKey), nil
}
