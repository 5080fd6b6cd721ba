package main

import (
	"errors"
	"testing"
)

type closer struct{ closed int }

func (c *closer) Close() error {
	c.closed++
	return nil
}

func TestRunUIClosesDriver(t *testing.T) {
	out := &closer{}
	uiErr := errors.New("terminal gone")
	err := runUI(out, func() error {
		if out.closed != 0 {
			t.Errorf("driver closed while the front end is running")
		}
		return uiErr
	})
	if !errors.Is(err, uiErr) {
		t.Errorf("want %v, got %v", uiErr, err)
	}
	if want, got := 1, out.closed; want != got {
		t.Errorf("want driver closed %d time, got %d", want, got)
	}

	if err := runUI(nil, func() error { return nil }); err != nil {
		t.Errorf("unexpected error without a driver: %v", err)
	}
}
