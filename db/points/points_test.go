package points

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestNewDao(t *testing.T) {
	newDaoTests := []struct {
		DaoConfig
		b      Backend
		wantOk bool
	}{
		{}, // no backend
		{ // no max top
			b: mockBackend{},
		},
		{
			DaoConfig: DaoConfig{
				MaxTop: 10,
			},
			b:      mockBackend{},
			wantOk: true,
		},
	}
	for i, test := range newDaoTests {
		d, err := test.DaoConfig.NewDao(test.b)
		switch {
		case !test.wantOk:
			if err == nil {
				t.Errorf("Test %v: wanted error", i)
			}
		case err != nil:
			t.Errorf("Test %v: unwanted error: %v", i, err)
		case d.backend == nil:
			t.Errorf("Test %v: backend not set", i)
		}
	}
}

func TestDaoUpdatePointsIncrement(t *testing.T) {
	updatePointsIncrementTests := []struct {
		playerPoints map[string]int
		backendErr   error
		want         map[string]int
		wantOk       bool
	}{
		{
			playerPoints: map[string]int{"ada": 7},
			backendErr:   errors.New("backend error"),
		},
		{
			playerPoints: map[string]int{"ada": -7},
		},
		{ // nothing to save
			playerPoints: map[string]int{"ada": 0, " ": 4},
			wantOk:       true,
		},
		{
			playerPoints: map[string]int{"ada": 7, " fred ": 3, "barney": 0},
			want:         map[string]int{"ada": 7, "fred": 3},
			wantOk:       true,
		},
	}
	for i, test := range updatePointsIncrementTests {
		var got map[string]int
		b := mockBackend{
			updatePointsIncrementFunc: func(ctx context.Context, playerPoints map[string]int) error {
				got = playerPoints
				return test.backendErr
			},
		}
		d := Dao{
			backend: b,
		}
		err := d.UpdatePointsIncrement(context.Background(), test.playerPoints)
		switch {
		case !test.wantOk:
			if err == nil {
				t.Errorf("Test %v: wanted error", i)
			}
		case err != nil:
			t.Errorf("Test %v: unwanted error: %v", i, err)
		case !reflect.DeepEqual(test.want, got):
			t.Errorf("Test %v: wanted backend to increment %v, got %v", i, test.want, got)
		}
	}
}

func TestDaoTop(t *testing.T) {
	totals := []Total{
		{Name: "ada", Points: 40},
		{Name: "fred", Points: 12},
	}
	topTests := []struct {
		n          int
		backendErr error
		wantN      int
		wantOk     bool
	}{
		{},
		{
			n:          3,
			backendErr: errors.New("backend error"),
		},
		{
			n:      3,
			wantN:  3,
			wantOk: true,
		},
		{
			n:      500,
			wantN:  10,
			wantOk: true,
		},
	}
	for i, test := range topTests {
		var gotN int
		b := mockBackend{
			topFunc: func(ctx context.Context, n int) ([]Total, error) {
				gotN = n
				return totals, test.backendErr
			},
		}
		d := Dao{
			backend: b,
			DaoConfig: DaoConfig{
				MaxTop: 10,
			},
		}
		got, err := d.Top(context.Background(), test.n)
		switch {
		case !test.wantOk:
			if err == nil {
				t.Errorf("Test %v: wanted error", i)
			}
		case err != nil:
			t.Errorf("Test %v: unwanted error: %v", i, err)
		case test.wantN != gotN:
			t.Errorf("Test %v: wanted backend to read %v totals, got %v", i, test.wantN, gotN)
		case !reflect.DeepEqual(totals, got):
			t.Errorf("Test %v: wanted %v, got %v", i, totals, got)
		}
	}
}

func TestNoDatabaseBackend(t *testing.T) {
	var b NoDatabaseBackend
	ctx := context.Background()
	increments := []map[string]int{
		{"ada": 5, "fred": 9},
		{"ada": 6, "barney": 9},
	}
	for i, playerPoints := range increments {
		if err := b.UpdatePointsIncrement(ctx, playerPoints); err != nil {
			t.Fatalf("Test %v: unwanted error: %v", i, err)
		}
	}
	want := []Total{
		{Name: "ada", Points: 11},
		{Name: "barney", Points: 9},
	}
	got, err := b.Top(ctx, 2)
	switch {
	case err != nil:
		t.Errorf("unwanted error: %v", err)
	case !reflect.DeepEqual(want, got):
		t.Errorf("wanted %v, got %v", want, got)
	}
}
