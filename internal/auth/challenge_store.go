package auth

import (
	"context"
	"crypto/rand"
	"time"

	"github.com/google/uuid"

	"gadgetry/internal/cache"
)

const (
	challengeKeyPrefix = "selfdestruct:challenge:"
	// ChallengeTTL is how long an issued confirmation code stays valid.
	ChallengeTTL = 5 * time.Minute

	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength   = 6
)

// ChallengeStoreInterface defines the interface for self-destruct challenge
// storage operations.
type ChallengeStoreInterface interface {
	Issue(ctx context.Context, gadgetID uuid.UUID) (string, error)
	Confirm(ctx context.Context, gadgetID uuid.UUID, code string) (bool, error)
}

// ChallengeStore keeps single-use self-destruct confirmation codes in Redis.
type ChallengeStore struct {
	cache *cache.Client
}

// Ensure ChallengeStore implements ChallengeStoreInterface
var _ ChallengeStoreInterface = (*ChallengeStore)(nil)

// NewChallengeStore creates a new challenge store.
func NewChallengeStore(cache *cache.Client) *ChallengeStore {
	return &ChallengeStore{cache: cache}
}

// Issue generates a fresh confirmation code for the gadget and stores it
// with a TTL. Re-issuing replaces any outstanding code.
func (s *ChallengeStore) Issue(ctx context.Context, gadgetID uuid.UUID) (string, error) {
	code, err := generateCode()
	if err != nil {
		return "", err
	}

	key := challengeKeyPrefix + gadgetID.String()
	if err := s.cache.Set(ctx, key, []byte(code), ChallengeTTL); err != nil {
		return "", err
	}
	return code, nil
}

// Confirm consumes the outstanding code for the gadget and reports whether
// the supplied code matches. A missing or expired challenge never matches.
func (s *ChallengeStore) Confirm(ctx context.Context, gadgetID uuid.UUID, code string) (bool, error) {
	key := challengeKeyPrefix + gadgetID.String()
	stored, err := s.cache.GetDel(ctx, key)
	if err != nil || stored == nil {
		return false, err
	}
	return string(stored) == code, nil
}

// generateCode produces a 6-character uppercase alphanumeric code.
func generateCode() (string, error) {
	buf := make([]byte, codeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(buf), nil
}
