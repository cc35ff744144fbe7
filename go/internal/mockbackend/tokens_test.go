package mockbackend

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/auctionfeed/go/internal/models"
)

func TestTokensIssueVerify(t *testing.T) {
	clock := clockwork.NewFakeClock()
	tokens := NewTokens("secret", time.Hour, clock)

	token, err := tokens.Issue(models.User{
		ID: "user-csk", Username: "csk", Role: models.UserRoleTeam,
		Team: &models.TeamRef{ID: "csk", Name: "Chennai Super Kings"},
	})
	require.NoError(t, err)

	claims, err := tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-csk", claims.Subject)
	assert.Equal(t, "TEAM", claims.Role)
	assert.Equal(t, "csk", claims.TeamID)

	clock.Advance(2 * time.Hour)
	_, err = tokens.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokensRejectForeignSignature(t *testing.T) {
	clock := clockwork.NewFakeClock()
	token, err := NewTokens("other", time.Hour, clock).Issue(models.User{ID: "x"})
	require.NoError(t, err)

	_, err = NewTokens("secret", time.Hour, clock).Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = NewTokens("secret", time.Hour, clock).Verify("")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
