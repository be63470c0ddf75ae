package jwtservice_test

import (
	"testing"
	"time"

	errorvalues "github.com/limbo/accountability/internal/error_values"
	jwtservice "github.com/limbo/accountability/pkg/jwt_service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	svc := jwtservice.New("secret", time.Minute)
	token, err := svc.GenerateToken("alice")
	require.NoError(t, err)

	claims, err := svc.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Operator)
	assert.Equal(t, "alice", claims.Subject)
}

func TestParseTokenRejects(t *testing.T) {
	good := jwtservice.New("secret", time.Minute)
	token, err := good.GenerateToken("alice")
	require.NoError(t, err)

	testCases := []struct {
		Desc  string
		Token string
		Svc   *jwtservice.JWTService
	}{
		{Desc: "wrong secret", Token: token, Svc: jwtservice.New("other", time.Minute)},
		{Desc: "garbage", Token: "not.a.token", Svc: good},
	}
	for _, tc := range testCases {
		t.Run(tc.Desc, func(t *testing.T) {
			_, err := tc.Svc.ParseToken(tc.Token)
			assert.ErrorIs(t, err, errorvalues.ErrInvalidToken)
		})
	}
}

func TestGenerateTokenRequiresOperator(t *testing.T) {
	_, err := jwtservice.New("secret", 0).GenerateToken("")
	assert.Error(t, err)
}
