package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/pipeline-crm/pkg/jwt"
)

const testSecret = "test-secret-key-for-unit-tests"

var testIdentity = pkgjwt.Identity{
	UserID: "00000000-0000-0000-0000-000000000001",
	Name:   "Ana Souza",
	Role:   "vendedor",
}

func TestGenerateAndParse(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, testIdentity, "crm-test", 60)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	id, err := pkgjwt.Parse(testSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, testIdentity, id)
}

func TestParse_TokenExpirado(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, testIdentity, "crm-test", -1)
	require.NoError(t, err)

	_, err = pkgjwt.Parse(testSecret, tok)
	assert.Error(t, err, "token expirado debe retornar error")
}

func TestParse_SecretIncorrecto(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, testIdentity, "crm-test", 60)
	require.NoError(t, err)

	_, err = pkgjwt.Parse("otro-secret", tok)
	assert.Error(t, err)
}

func TestSecretVacio(t *testing.T) {
	_, err := pkgjwt.Generate("", testIdentity, "crm-test", 60)
	assert.ErrorIs(t, err, pkgjwt.ErrEmptySecret)

	_, err = pkgjwt.Parse("", "x.y.z")
	assert.ErrorIs(t, err, pkgjwt.ErrEmptySecret)
}
