package redis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyBuilder_EnvironmentPrefix(t *testing.T) {
	tests := []struct {
		environment string
		prefix      string
	}{
		{"production", "prod"},
		{"", "prod"},
		{"development", "staging"},
		{"staging", "staging"},
		{"test", "staging"},
	}

	for _, tt := range tests {
		t.Run(tt.environment, func(t *testing.T) {
			kb := NewKeyBuilder(tt.environment)
			assert.Equal(t, tt.prefix, kb.GetPrefix())
		})
	}
}

func TestKeyBuilder_Keys(t *testing.T) {
	kb := NewKeyBuilder("production")

	assert.Equal(t, "prod:auth:session:wallet1", kb.KeySessionToken("wallet1"))
	assert.Equal(t, "prod:settlement:lock:sub1", kb.KeySettlementLock("sub1"))
	assert.Equal(t, "prod:activities:list:active", kb.KeyActivitiesList("active"))
	assert.Equal(t, "prod:activities:id:act1", kb.KeyActivityByID("act1"))
	assert.Equal(t, "prod:custom:42", kb.KeyCustom("custom:%d", 42))
}

func TestKeyBuilder_EnvironmentIsolation(t *testing.T) {
	prod := NewKeyBuilder("production")
	staging := NewKeyBuilder("staging")

	assert.NotEqual(t, prod.KeySessionToken("w"), staging.KeySessionToken("w"))
}
