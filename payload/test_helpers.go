package payload

import "github.com/stretchr/testify/mock"

// MatchObject creates a custom matcher for object arguments in mocks
func MatchObject(matcher func(Object) bool) interface{} {
	return mock.MatchedBy(matcher)
}
