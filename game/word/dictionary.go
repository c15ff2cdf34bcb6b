// Package word handles checking words in the game.
package word

import (
	"bufio"
	"errors"
	"io"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"
)

// minLength is the length of the shortest valid word.
const minLength = 2

// Dictionary determines if words are valid.  It is safe to use from multiple goroutines.
type Dictionary struct {
	mu    sync.RWMutex
	words map[string]struct{}
}

// NewDictionary consumes the lower case words in the reader to use for validating.
// Words with uppercase letters or symbols, such as proper nouns and contractions, are skipped.
func NewDictionary(r io.Reader) (*Dictionary, error) {
	if r == nil {
		return nil, errors.New("reader required to initialize dictionary from")
	}
	d := Dictionary{
		words: make(map[string]struct{}),
	}
	scanner := bufio.NewScanner(r)
	scanner.Split(scanLowerWords)
	for scanner.Scan() {
		d.words[scanner.Text()] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return &d, nil
}

// Valid determines whether or not the word is in the dictionary, ignoring case.
// Words shorter than two letters are never valid.
func (d *Dictionary) Valid(word string) bool {
	if utf8.RuneCountInString(word) < minLength {
		return false
	}
	lowerWord := strings.ToLower(word)
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.words[lowerWord]
	return ok
}

// Add includes the words in the dictionary.  Adding a word that is already in the dictionary has no effect.
// Words are not removed from dictionaries.
func (d *Dictionary) Add(words ...string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if len(w) == 0 {
			continue
		}
		d.words[w] = struct{}{}
	}
}

// Len is the number of distinct words in the dictionary.
func (d *Dictionary) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.words)
}

// scanLowerWords is a bufio.SplitFunc that returns the first only-lowercase word.
// Derived from bufio.ScanWords, but simplified to only handle ASCII.
func scanLowerWords(data []byte, atEOF bool) (advance int, token []byte, err error) {
	start, end := 0, 0
	skipUntilSpace := false
	for end < len(data) {
		r := rune(data[end])
		end++
		switch {
		case unicode.IsSpace(r):
			if !skipUntilSpace && end-start > 1 {
				return end, data[start : end-1], nil
			}
			start = end
			skipUntilSpace = false
		case !unicode.IsLower(r) && !skipUntilSpace: // uppercase/symbol
			skipUntilSpace = true
		}
	}
	if atEOF && len(data) > start {
		if skipUntilSpace {
			return len(data), nil, nil
		}
		// a final, non-empty, non-terminated word
		return len(data), data[start:], nil
	}
	return start, nil, nil
}
