package chain

import "strings"

type mockDictionary map[string]struct{}

func newMockDictionary(words ...string) mockDictionary {
	d := make(mockDictionary, len(words))
	for _, w := range words {
		d[strings.ToUpper(w)] = struct{}{}
	}
	return d
}

func (d mockDictionary) Valid(word string) bool {
	_, ok := d[strings.ToUpper(word)]
	return ok
}
