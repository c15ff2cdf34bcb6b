package server

import (
	"context"
	"net/http"

	"github.com/jacobpatterson1549/wibble/db/points"
	"github.com/jacobpatterson1549/wibble/game"
	"github.com/jacobpatterson1549/wibble/game/player"
	"github.com/jacobpatterson1549/wibble/server/peer"
)

type mockTokenizer struct {
	CreateFunc func(p player.Player) (string, error)
	ReadFunc   func(tokenString string) (*player.Player, error)
}

func (m mockTokenizer) Create(p player.Player) (string, error) {
	return m.CreateFunc(p)
}

func (m mockTokenizer) Read(tokenString string) (*player.Player, error) {
	return m.ReadFunc(tokenString)
}

type mockLobby struct {
	RunFunc     func(ctx context.Context)
	AddUserFunc func(ctx context.Context, pID player.ID, name player.Name, w http.ResponseWriter, r *http.Request) error
}

func (m mockLobby) Run(ctx context.Context) {
	m.RunFunc(ctx)
}

func (m mockLobby) AddUser(ctx context.Context, pID player.ID, name player.Name, w http.ResponseWriter, r *http.Request) error {
	return m.AddUserFunc(ctx, pID, name, w, r)
}

type mockPeers struct {
	RegisterFunc func(hostID player.ID, name, address string) (*peer.Listing, error)
	LookupFunc   func(id game.ID) (*peer.Listing, error)
	RefreshFunc  func(id game.ID, hostID player.ID) (*peer.Listing, error)
	RemoveFunc   func(id game.ID, hostID player.ID) error
}

func (m mockPeers) Register(hostID player.ID, name, address string) (*peer.Listing, error) {
	return m.RegisterFunc(hostID, name, address)
}

func (m mockPeers) Lookup(id game.ID) (*peer.Listing, error) {
	return m.LookupFunc(id)
}

func (m mockPeers) Refresh(id game.ID, hostID player.ID) (*peer.Listing, error) {
	return m.RefreshFunc(id, hostID)
}

func (m mockPeers) Remove(id game.ID, hostID player.ID) error {
	return m.RemoveFunc(id, hostID)
}

type mockPointsDao struct {
	TopFunc func(ctx context.Context, n int) ([]points.Total, error)
}

func (m mockPointsDao) Top(ctx context.Context, n int) ([]points.Total, error) {
	return m.TopFunc(ctx, n)
}
