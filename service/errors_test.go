package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestRetriable(t *testing.T) {
	i := 0
	ctx := context.Background()
	tim := time.Now()
	err := Retriable(ctx, func() error {
		i++
		return fmt.Errorf("%d", i)
	}, time.Microsecond, 3)

	if time.Since(tim) < 3*time.Microsecond {
		t.Errorf("err: excepted at least 3µs got %v", time.Since(tim))
	}

	if err == nil {
		t.Error("err: excepted 3 got nil")
	}
	if err.Error() != "3" {
		t.Error("err: excepted 3 got " + err.Error())
	}
}

func TestRetriableFatal(t *testing.T) {
	i := 0
	err := Retriable(context.Background(), func() error {
		i++
		return MakeFatal(fmt.Errorf("fatal"))
	}, time.Microsecond, 5)
	if err == nil {
		t.Error("err: expected fatal got nil")
	}
	if i != 1 {
		t.Errorf("expected a single attempt, got %d", i)
	}
}

func TestTemporary(t *testing.T) {
	tests := []struct {
		err error
		tmp bool
	}{
		{ErrStatus{Status: 429}, true},
		{ErrStatus{Status: 503}, true},
		{ErrStatus{Status: 400}, false},
		{ErrStatus{Status: 404}, false},
		{fmt.Errorf("wrap: %w", ErrStatus{Status: 500}), true},
		{MakeTemporary(errors.New("whatever")), true},
		{context.DeadlineExceeded, true},
		{errors.New("plain"), false},
	}
	for _, tt := range tests {
		if Temporary(tt.err) != tt.tmp {
			t.Errorf("Temporary(%v): expected %v", tt.err, tt.tmp)
		}
	}
}

func TestFatal(t *testing.T) {
	if !Fatal(MakeFatal(errors.New("f"))) {
		t.Error("expected fatal")
	}
	if Fatal(errors.New("f")) {
		t.Error("expected not fatal")
	}
}
