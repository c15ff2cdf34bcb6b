package word

import (
	"bufio"
	"bytes"
	_ "embed"
	"io"
)

// defaultWords are the words that come with the game.
//
//go:embed words.txt
var defaultWords []byte

// NewDefaultDictionary creates a dictionary of the words that come with the game.
func NewDefaultDictionary() (*Dictionary, error) {
	return NewDictionary(bytes.NewReader(defaultWords))
}

// AddFrom includes the lower case words in the reader, skipping the same words that NewDictionary skips.
func (d *Dictionary) AddFrom(r io.Reader) error {
	var words []string
	scanner := bufio.NewScanner(r)
	scanner.Split(scanLowerWords)
	for scanner.Scan() {
		words = append(words, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	d.Add(words...)
	return nil
}
