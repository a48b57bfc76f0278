package cryptox

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveMasterKey_Deterministic(t *testing.T) {
	salt := []byte("0123456789abcdef")
	a := DeriveMasterKey([]byte("secret"), salt)
	b := DeriveMasterKey([]byte("secret"), salt)
	assert.Equal(t, a, b)
	assert.Len(t, a, 32)
}

func TestDeriveMasterKey_SaltMatters(t *testing.T) {
	a := DeriveMasterKey([]byte("secret"), []byte("salt-one........"))
	b := DeriveMasterKey([]byte("secret"), []byte("salt-two........"))
	assert.NotEqual(t, a, b)
}

func TestMakeVerifier_DiffersFromKey(t *testing.T) {
	key := DeriveMasterKey([]byte("secret"), []byte("0123456789abcdef"))
	v := MakeVerifier(key)
	assert.Len(t, v, 32)
	assert.NotEqual(t, key, v)
}
