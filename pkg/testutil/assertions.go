package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bibbank/riskscore/internal/domain/model"
)

// AssertErrorContains checks that err contains the expected substring.
func AssertErrorContains(t *testing.T, err error, expected string) {
	t.Helper()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), expected)
}

// RankedIDs returns the entity ids of a ranking in order.
func RankedIDs(r model.Ranking) []string {
	ids := make([]string, 0, len(r.Ranked))
	for _, e := range r.Ranked {
		ids = append(ids, e.ID())
	}
	return ids
}

// AssertScoreInvariants checks the bounds every score must satisfy.
func AssertScoreInvariants(t *testing.T, s model.Score) {
	t.Helper()
	assert.GreaterOrEqual(t, s.Value, 0)
	assert.LessOrEqual(t, s.Value, 100)
	assert.NotEmpty(t, s.Factors)
	assert.False(t, s.Tier.IsZero())
}
