package audit

import "github.com/stretchr/testify/mock"

// MatchEntry creates a custom matcher for entry arguments in mocks
func MatchEntry(matcher func(Entry) bool) interface{} {
	return mock.MatchedBy(matcher)
}

// MatchDeleteEntry creates a custom matcher for delete-log arguments in mocks
func MatchDeleteEntry(matcher func(DeleteEntry) bool) interface{} {
	return mock.MatchedBy(matcher)
}
