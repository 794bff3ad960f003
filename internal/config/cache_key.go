package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// StudentSessionKey returns the cache key for a student's active session.
// A fresh login overwrites the stored JTI, invalidating older tokens.
func (r *CacheKeyStruct) StudentSessionKey(studentID int) string {
	return fmt.Sprintf("login:student:%d", studentID)
}

// InstructorSessionKey returns the cache key for one instructor session.
// The instructor credential is shared, so sessions are keyed per JTI to
// allow several devices to stay logged in independently.
func (r *CacheKeyStruct) InstructorSessionKey(jti string) string {
	return fmt.Sprintf("login:instructor:%s", jti)
}

var CacheKey = NewCacheKeyStruct()
