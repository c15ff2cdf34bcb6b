package auth

import (
	"errors"
	"testing"

	"github.com/golang-jwt/jwt/v4"
	"github.com/jacobpatterson1549/wibble/game/player"
)

var ada = player.Player{
	ID:   "0b7b7a1c-6a3e-4f39-9e0b-4e3f1c5a9d21",
	Name: "ada",
}

func TestNewTokenizer(t *testing.T) {
	timeFunc := func() int64 { return 20 }
	newTokenizerTests := []struct {
		TokenizerConfig
		wantOk bool
	}{
		{}, // no key reader
		{ // no time func
			TokenizerConfig: TokenizerConfig{
				KeyReader: mockReader{},
			},
		},
		{ // bad valid sec
			TokenizerConfig: TokenizerConfig{
				KeyReader: mockReader{},
				TimeFunc:  timeFunc,
			},
		},
		{ // key read error
			TokenizerConfig: TokenizerConfig{
				KeyReader: mockReader{readErr: errors.New("read error")},
				TimeFunc:  timeFunc,
				ValidSec:  39,
			},
		},
		{
			TokenizerConfig: TokenizerConfig{
				KeyReader: mockReader{},
				TimeFunc:  timeFunc,
				ValidSec:  39,
			},
			wantOk: true,
		},
	}
	for i, test := range newTokenizerTests {
		got, err := test.TokenizerConfig.NewTokenizer()
		switch {
		case !test.wantOk:
			if err == nil {
				t.Errorf("Test %v: wanted error", i)
			}
		case err != nil:
			t.Errorf("Test %v: unwanted error: %v", i, err)
		case len(got.key) != keySize:
			t.Errorf("Test %v: wanted key with %v bytes, got %v", i, keySize, len(got.key))
		case got.key[1] != 1:
			t.Errorf("Test %v: wanted key to be read from key reader", i)
		}
	}
}

func TestCreateRead(t *testing.T) {
	readTests := []struct {
		creationSigningMethod jwt.SigningMethod
		readSigningMethod     jwt.SigningMethod
		readKey               string
		wantOk                bool
	}{
		{
			creationSigningMethod: jwt.SigningMethodHS256,
			readSigningMethod:     jwt.SigningMethodHS256,
			readKey:               "secret",
			wantOk:                true,
		},
		{
			creationSigningMethod: jwt.SigningMethodHS512,
			readSigningMethod:     jwt.SigningMethodHS512,
			readKey:               "secret",
			wantOk:                true,
		},
		{ // different method
			creationSigningMethod: jwt.SigningMethodHS512,
			readSigningMethod:     jwt.SigningMethodHS256,
			readKey:               "secret",
		},
		{ // different key
			creationSigningMethod: jwt.SigningMethodHS256,
			readSigningMethod:     jwt.SigningMethodHS256,
			readKey:               "other secret",
		},
	}
	cfg := TokenizerConfig{
		TimeFunc: func() int64 { return 0 },
		ValidSec: 60,
	}
	for i, test := range readTests {
		creationTokenizer := Tokenizer{
			method:          test.creationSigningMethod,
			key:             []byte("secret"),
			TokenizerConfig: cfg,
		}
		tokenString, err := creationTokenizer.Create(ada)
		if err != nil {
			t.Errorf("Test %v: unwanted error: %v", i, err)
			continue
		}
		readTokenizer := Tokenizer{
			method:          test.readSigningMethod,
			key:             []byte(test.readKey),
			TokenizerConfig: cfg,
		}
		got, err := readTokenizer.Read(tokenString)
		switch {
		case !test.wantOk:
			if err == nil {
				t.Errorf("Test %v: wanted error", i)
			}
		case err != nil:
			t.Errorf("Test %v: unwanted error: %v", i, err)
		case *got != ada:
			t.Errorf("Test %v: wanted %v, got %v", i, ada, *got)
		}
	}
}

func TestCreateReadWithTime(t *testing.T) {
	const validSec int64 = 1000
	readTests := []struct {
		creationTime int64
		readTime     int64
		wantOk       bool
	}{
		{ // before created
			creationTime: 1,
			readTime:     0,
		},
		{
			creationTime: 2,
			readTime:     2,
			wantOk:       true,
		},
		{
			creationTime: 3,
			readTime:     5,
			wantOk:       true,
		},
		{
			creationTime: 100,
			readTime:     99 + validSec,
			wantOk:       true,
		},
		{ // expired
			creationTime: 100,
			readTime:     100 + validSec,
		},
		{
			creationTime: 100,
			readTime:     101 + validSec,
		},
	}
	for i, test := range readTests {
		now := test.creationTime
		tokenizer := Tokenizer{
			method: jwt.SigningMethodHS256,
			key:    []byte("secret"),
			TokenizerConfig: TokenizerConfig{
				TimeFunc: func() int64 { return now },
				ValidSec: validSec,
			},
		}
		tokenString, err := tokenizer.Create(ada)
		if err != nil {
			t.Errorf("Test %v: unwanted error: %v", i, err)
			continue
		}
		now = test.readTime
		got, err := tokenizer.Read(tokenString)
		switch {
		case !test.wantOk:
			if err == nil {
				t.Errorf("Test %v: wanted error", i)
			}
		case err != nil:
			t.Errorf("Test %v: unwanted error: %v", i, err)
		case got.ID != ada.ID:
			t.Errorf("Test %v: wanted %v, got %v", i, ada.ID, got.ID)
		}
	}
}

func TestReadBadPlayerID(t *testing.T) {
	tokenizer := Tokenizer{
		method: jwt.SigningMethodHS256,
		key:    []byte("secret"),
		TokenizerConfig: TokenizerConfig{
			TimeFunc: func() int64 { return 0 },
			ValidSec: 60,
		},
	}
	p := player.Player{
		ID:   "fred",
		Name: "fred",
	}
	tokenString, err := tokenizer.Create(p)
	if err != nil {
		t.Fatalf("unwanted error: %v", err)
	}
	if _, err := tokenizer.Read(tokenString); err == nil {
		t.Errorf("wanted error reading token with id that is not a uuid")
	}
}
