package redis

import "fmt"

// KeyBuilder provides environment-aware Redis key building functionality
type KeyBuilder struct {
	prefix string
}

// NewKeyBuilder creates a new key builder with environment-based prefix
func NewKeyBuilder(environment string) *KeyBuilder {
	prefix := "prod"
	if environment == "development" || environment == "staging" || environment == "test" {
		prefix = "staging"
	}

	return &KeyBuilder{
		prefix: prefix,
	}
}

// BuildKey constructs a Redis key with the environment prefix
func (kb *KeyBuilder) BuildKey(key string) string {
	return fmt.Sprintf("%s:%s", kb.prefix, key)
}

// GetPrefix returns the current environment prefix
func (kb *KeyBuilder) GetPrefix() string {
	return kb.prefix
}

// KeySessionToken caches the issued session token per wallet so that
// re-authentication before expiry reissues an equivalent session.
func (kb *KeyBuilder) KeySessionToken(wallet string) string {
	return kb.BuildKey(fmt.Sprintf(KeySessionToken, wallet))
}

// KeySettlementLock is the per-submission exclusive settlement intent.
func (kb *KeyBuilder) KeySettlementLock(submissionID string) string {
	return kb.BuildKey(fmt.Sprintf(KeySettlementLock, submissionID))
}

// KeyActivitiesList caches an activity listing; scope is "active" or "all".
func (kb *KeyBuilder) KeyActivitiesList(scope string) string {
	return kb.BuildKey(fmt.Sprintf(KeyActivitiesList, scope))
}

// KeyActivityByID caches a single activity.
func (kb *KeyBuilder) KeyActivityByID(activityID string) string {
	return kb.BuildKey(fmt.Sprintf(KeyActivityByID, activityID))
}

// KeyCustom builds a key from a custom pattern
func (kb *KeyBuilder) KeyCustom(pattern string, args ...interface{}) string {
	key := fmt.Sprintf(pattern, args...)
	return kb.BuildKey(key)
}
