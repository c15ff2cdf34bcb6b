// Package auth contains code to ensure players are authorized to use the server after they have set their name.
package auth

import (
	"fmt"
	"io"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/jacobpatterson1549/wibble/game/player"
)

type (
	// Tokenizer creates and reads signed tokens that identify players.
	Tokenizer struct {
		method jwt.SigningMethod
		key    []byte
		TokenizerConfig
	}

	// TokenizerConfig contains fields which describe a Tokenizer.
	TokenizerConfig struct {
		// KeyReader is used to generate token keys.
		KeyReader io.Reader
		// TimeFunc is a function which should supply the current time since the unix epoch.
		// Used to set and check the length of time the token is valid.
		TimeFunc func() int64
		// ValidSec is the length of time the token is valid from the issuing time, in seconds.
		ValidSec int64
	}

	// playerClaims stores the id of the player in the Subject ("sub") field.
	playerClaims struct {
		Name player.Name `json:"name"`
		jwt.RegisteredClaims
	}
)

// keySize is the number of random bytes used to sign tokens.
const keySize = 64

// NewTokenizer creates a Tokenizer that uses the random number generator to create its key.
func (cfg TokenizerConfig) NewTokenizer() (*Tokenizer, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("creating tokenizer: validation: %w", err)
	}
	key := make([]byte, keySize)
	if _, err := io.ReadFull(cfg.KeyReader, key); err != nil {
		return nil, fmt.Errorf("generating tokenizer key: %w", err)
	}
	t := Tokenizer{
		method:          jwt.SigningMethodHS256,
		key:             key,
		TokenizerConfig: cfg,
	}
	return &t, nil
}

// validate ensures the configuration has no errors.
func (cfg TokenizerConfig) validate() error {
	switch {
	case cfg.KeyReader == nil:
		return fmt.Errorf("key reader required")
	case cfg.TimeFunc == nil:
		return fmt.Errorf("time func required")
	case cfg.ValidSec <= 0:
		return fmt.Errorf("positive valid seconds required")
	}
	return nil
}

// Create converts the id and name of the player to a token string.
func (t Tokenizer) Create(p player.Player) (string, error) {
	now := t.TimeFunc()
	claims := playerClaims{
		Name: p.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   string(p.ID),
			NotBefore: jwt.NewNumericDate(time.Unix(now, 0)),
			ExpiresAt: jwt.NewNumericDate(time.Unix(now+t.ValidSec, 0)),
		},
	}
	token := jwt.NewWithClaims(t.method, claims)
	return token.SignedString(t.key)
}

// Read extracts the player from the token string.
// The times of the token are checked with the time func of the tokenizer.
func (t Tokenizer) Read(tokenString string) (*player.Player, error) {
	var claims playerClaims
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	if _, err := parser.ParseWithClaims(tokenString, &claims, t.keyFunc); err != nil {
		return nil, fmt.Errorf("parsing token: %w", err)
	}
	now := time.Unix(t.TimeFunc(), 0)
	switch {
	case !claims.VerifyNotBefore(now, true):
		return nil, fmt.Errorf("token not valid yet")
	case !claims.VerifyExpiresAt(now, true):
		return nil, fmt.Errorf("token expired")
	}
	id, err := player.ParseID(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("reading token: %w", err)
	}
	p := player.Player{
		ID:   id,
		Name: claims.Name,
	}
	return &p, nil
}

// keyFunc ensures the key type (method) of the token is correct before returning the key.
func (t Tokenizer) keyFunc(token *jwt.Token) (interface{}, error) {
	if token.Method != t.method {
		return nil, fmt.Errorf("incorrect authorization signing method")
	}
	return t.key, nil
}
