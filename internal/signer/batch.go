package signer

import (
	"context"

	"signet/internal/batch"
	"signet/internal/domain"
)

// EncryptMany encrypts plaintexts for one peer through s with bounded
// parallelism, preserving input order.
func EncryptMany(ctx context.Context, s domain.Signer, peerPubKey string, limit int, plaintexts []string) ([]string, error) {
	return batch.Map(ctx, limit, plaintexts, func(ctx context.Context, pt string) (string, error) {
		return s.Encrypt(ctx, pt, peerPubKey)
	})
}

// DecryptMany decrypts ciphertexts from one peer through s with bounded
// parallelism, preserving input order.
func DecryptMany(ctx context.Context, s domain.Signer, peerPubKey string, limit int, ciphertexts []string) ([]string, error) {
	return batch.Map(ctx, limit, ciphertexts, func(ctx context.Context, ct string) (string, error) {
		return s.Decrypt(ctx, ct, peerPubKey)
	})
}
