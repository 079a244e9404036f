// Package ledger implements the gateway to the external ownership ledger:
// a JSON-RPC client for a live node and an in-process simulation.
package ledger

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/sha3"

	"github.com/dtroode/landregistry-server/internal/model"
)

func keccak256(data ...[]byte) []byte {
	h := sha3.NewLegacyKeccak256()
	for _, d := range data {
		h.Write(d)
	}
	return h.Sum(nil)
}

// addressFromPublicKey takes the last 20 bytes of the Keccak-256 hash of the
// uncompressed public key without its 0x04 prefix.
func addressFromPublicKey(pub *ecdsa.PublicKey) (string, error) {
	ecdhKey, err := pub.ECDH()
	if err != nil {
		return "", fmt.Errorf("failed to encode public key: %w", err)
	}
	raw := ecdhKey.Bytes()
	return "0x" + hex.EncodeToString(keccak256(raw[1:])[12:]), nil
}

func randomRef() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return "0x" + hex.EncodeToString(buf), nil
}

var _ model.Signer = (*keySigner)(nil)

// keySigner signs the Keccak-256 digest of a payload with a local key.
type keySigner struct {
	key *ecdsa.PrivateKey
}

func newKeySigner() (*keySigner, error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate wallet key: %w", err)
	}
	return &keySigner{key: key}, nil
}

func (s *keySigner) Sign(_ context.Context, payload []byte) ([]byte, error) {
	sig, err := ecdsa.SignASN1(rand.Reader, s.key, keccak256(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to sign payload: %w", err)
	}
	return sig, nil
}

func (s *keySigner) verify(payload, sig []byte) bool {
	return ecdsa.VerifyASN1(&s.key.PublicKey, keccak256(payload), sig)
}
