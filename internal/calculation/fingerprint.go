package calculation

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/finsim/household-forecast/internal/domain"
)

// Fingerprint derives a stable identity for a plan from its canonical JSON
// form. Plans hold no maps, so field order (and therefore the digest) is
// deterministic. Identical inputs always produce identical results, which
// makes the fingerprint a safe memoization key.
func Fingerprint(plan *domain.Plan) (string, error) {
	data, err := json.Marshal(plan)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
