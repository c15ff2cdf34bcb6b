package points

import "context"

type mockBackend struct {
	updatePointsIncrementFunc func(ctx context.Context, playerPoints map[string]int) error
	topFunc                   func(ctx context.Context, n int) ([]Total, error)
}

func (m mockBackend) UpdatePointsIncrement(ctx context.Context, playerPoints map[string]int) error {
	return m.updatePointsIncrementFunc(ctx, playerPoints)
}

func (m mockBackend) Top(ctx context.Context, n int) ([]Total, error) {
	return m.topFunc(ctx, n)
}
