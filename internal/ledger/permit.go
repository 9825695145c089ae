package ledger

import (
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
)

// EIP-712 type hashes. The permit structure matches EIP-2612 exactly so
// that standard wallet tooling can produce accepted signatures.
var (
	eip712DomainTypehash = crypto.Keccak256Hash(
		[]byte("EIP712Domain(string name,string version,uint256 chainId,address verifyingContract)"))
	permitTypehash = crypto.Keccak256Hash(
		[]byte("Permit(address owner,address spender,uint256 value,uint256 nonce,uint256 deadline)"))
)

// SignerRecoverer recovers the signing address for a 32-byte digest and a
// 65-byte R||S||V signature. The ledger treats signature cryptography as
// an injected collaborator; the concrete secp256k1 implementation lives in
// the wallet package.
type SignerRecoverer interface {
	Recover(digest common.Hash, sig []byte) (common.Address, error)
}

// DomainSeparator returns the EIP-712 domain separator scoping permit
// signatures to this ledger instance and chain.
func (l *Ledger) DomainSeparator() common.Hash {
	return l.domainSeparator
}

// PermitDigest builds the digest an off-chain signer must sign to
// authorize allowance[owner][spender] = value before deadline, at the
// given nonce. Exposed so signing utilities and the ledger agree on the
// exact message bytes.
func (l *Ledger) PermitDigest(owner, spender common.Address, value *uint256.Int, nonce, deadline uint64) common.Hash {
	structHash := crypto.Keccak256(
		permitTypehash.Bytes(),
		common.LeftPadBytes(owner.Bytes(), 32),
		common.LeftPadBytes(spender.Bytes(), 32),
		word(value),
		wordUint64(nonce),
		wordUint64(deadline),
	)
	return crypto.Keccak256Hash([]byte("\x19\x01"), l.domainSeparator.Bytes(), structHash)
}

// Permit sets allowance[owner][spender] = value on behalf of owner,
// authorized by an off-chain signature instead of a direct call. Any
// caller may submit it. The digest binds the current nonce of owner, and
// a successful call advances that nonce exactly once, so resubmitting the
// same signature fails with InvalidSignerError.
func (l *Ledger) Permit(owner, spender common.Address, value *uint256.Int, deadline uint64, sig []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now := uint64(l.now().Unix()); now > deadline {
		return &ExpiredDeadlineError{Deadline: deadline, Now: now}
	}
	if l.recoverer == nil {
		return &InvalidSignerError{Owner: owner, Cause: ErrNoRecoverer}
	}

	digest := l.PermitDigest(owner, spender, value, l.nonces[owner], deadline)
	recovered, err := l.recoverer.Recover(digest, sig)
	if err != nil {
		return &InvalidSignerError{Owner: owner, Cause: err}
	}
	if recovered != owner {
		return &InvalidSignerError{Owner: owner, Recovered: recovered}
	}

	if spender == (common.Address{}) {
		return &InvalidSpenderError{Spender: spender}
	}

	// Nonce consumption and the allowance write commit under the same
	// lock hold; a replay recomputes the digest with the advanced nonce
	// and is rejected above.
	l.nonces[owner]++
	return l.approve(owner, spender, value)
}

// computeDomainSeparator hashes the EIP-712 domain fields.
func computeDomainSeparator(name, version string, chainID uint64, addr common.Address) common.Hash {
	return crypto.Keccak256Hash(
		eip712DomainTypehash.Bytes(),
		crypto.Keccak256([]byte(name)),
		crypto.Keccak256([]byte(version)),
		wordUint64(chainID),
		common.LeftPadBytes(addr.Bytes(), 32),
	)
}

// word returns the 32-byte big-endian encoding of v.
func word(v *uint256.Int) []byte {
	b := v.Bytes32()
	return b[:]
}

func wordUint64(v uint64) []byte {
	return word(uint256.NewInt(v))
}
