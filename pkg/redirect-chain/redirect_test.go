package redirectchain

import "testing"

func TestLocationDecrements(t *testing.T) {
	if loc := Location("/redirect/", 3); loc != "/redirect/2" {
		t.Fatalf("Location is %s", loc)
	}
	if loc := Location("/redirect/", 2); loc != "/redirect/1" {
		t.Fatalf("Location is %s", loc)
	}
}

func TestLocationTerminates(t *testing.T) {
	for _, n := range []int{1, 0, -5} {
		if loc := Location("/relative-redirect/", n); loc != Terminal {
			t.Fatalf("Location for %d is %s", n, loc)
		}
	}
}

func TestChainLength(t *testing.T) {
	for n := 1; n <= 10; n++ {
		hops := 0
		for count, done := n, false; !done; hops++ {
			count, done = Next(count)
		}
		if hops != n {
			t.Fatalf("Chain for %d has %d hops", n, hops)
		}
	}
}

func TestParseCount(t *testing.T) {
	if _, err := ParseCount("abc"); err == nil {
		t.Fatal("Expected error")
	}
	if n, err := ParseCount("7"); err != nil || n != 7 {
		t.Fatalf("Count is %d (%v)", n, err)
	}
}
