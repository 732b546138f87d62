package config

import "fmt"

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// EditingSessionKey returns the cache key holding an exam editing session.
func (r *CacheKeyStruct) EditingSessionKey(sessionID string) string {
	return fmt.Sprintf("paper:session:%s", sessionID)
}

// UserSessionsKey returns the cache key of the set of session ids a user owns.
func (r *CacheKeyStruct) UserSessionsKey(userID int) string {
	return fmt.Sprintf("paper:user:%d:sessions", userID)
}

// SessionEventsChannel returns the Pub/Sub channel announcing changes to an
// editing session.
func (r *CacheKeyStruct) SessionEventsChannel(sessionID string) string {
	return fmt.Sprintf("paper:session:%s:events", sessionID)
}

var CacheKey = NewCacheKeyStruct()
