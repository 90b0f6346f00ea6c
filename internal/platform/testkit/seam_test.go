package testkit

import (
	"sync"
	"testing"
	"time"
)

var greet = func() string { return "hello" }

func TestSwap_Restores(t *testing.T) {
	t.Run("swapped", func(t *testing.T) {
		Swap(t, &greet, func() string { return "bye" })
		if greet() != "bye" {
			t.Fatalf("swap did not take effect")
		}
	})
	if greet() != "hello" {
		t.Fatalf("swap not restored")
	}
}

func TestSerial_NoInterleave(t *testing.T) {
	var mu sync.Mutex
	var seq []string
	rec := func(s string) {
		mu.Lock()
		seq = append(seq, s)
		mu.Unlock()
	}

	t.Run("group", func(t *testing.T) {
		for _, name := range []string{"A", "B"} {
			name := name
			t.Run(name, func(t *testing.T) {
				t.Parallel()
				Serial(t)
				rec(name + "-start")
				time.Sleep(20 * time.Millisecond)
				rec(name + "-end")
			})
		}
	})

	if len(seq) != 4 {
		t.Fatalf("seq = %v", seq)
	}
	if seq[0][:1] != seq[1][:1] || seq[2][:1] != seq[3][:1] {
		t.Fatalf("interleaved: %v", seq)
	}
}
