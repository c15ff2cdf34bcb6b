package message

import (
	"encoding/json"
	"testing"

	"github.com/jacobpatterson1549/wibble/game/board"
)

func TestMessageMarshalOmitsInternals(t *testing.T) {
	m := Message{
		PlayerID:   "id-ada",
		PlayerName: "ada",
		Addr:       "127.0.0.1",
	}
	want := `{"type":0}`
	got, err := json.Marshal(m)
	switch {
	case err != nil:
		t.Errorf("unwanted error: %v", err)
	case want != string(got):
		t.Errorf("wanted %v, got %v", want, string(got))
	}
}

func TestMessageUnmarshal(t *testing.T) {
	text := `{"type":12,"roomId":"ABC123","position":{"row":1,"col":2},"letter":"q"}`
	var m Message
	if err := json.Unmarshal([]byte(text), &m); err != nil {
		t.Fatalf("unwanted error: %v", err)
	}
	want := board.Position{Row: 1, Col: 2}
	switch {
	case m.Type != UseReplaceTile:
		t.Errorf("wanted %v, got %v", UseReplaceTile, m.Type)
	case m.RoomID != "ABC123":
		t.Errorf("wanted room id, got %q", m.RoomID)
	case m.Position == nil || *m.Position != want:
		t.Errorf("wanted position %v, got %v", want, m.Position)
	case m.Letter != "q":
		t.Errorf("wanted letter q, got %q", m.Letter)
	}
}

func TestTypeString(t *testing.T) {
	typeStringTests := []struct {
		Type
		want string
	}{
		{0, "?"},
		{-1, "?"},
		{SetName, "SetName"},
		{SubmitWord, "SubmitWord"},
		{GameEnded, "GameEnded"},
		{PlayerRemove, "PlayerRemove"},
		{PlayerRemove + 1, "?"},
	}
	for i, test := range typeStringTests {
		if want, got := test.want, test.Type.String(); want != got {
			t.Errorf("Test %v: wanted %q, got %q", i, want, got)
		}
	}
}

func TestTypeNamesComplete(t *testing.T) {
	if want, got := int(PlayerRemove)+1, len(typeNames); want != got {
		t.Errorf("wanted %v type names, got %v", want, got)
	}
}

func TestTypeIsIntent(t *testing.T) {
	for typ := Type(0); typ <= PlayerRemove; typ++ {
		want := typ >= SetName && typ <= UseReplaceTile
		if got := typ.IsIntent(); want != got {
			t.Errorf("wanted %v.IsIntent() to be %v", typ, want)
		}
	}
}
