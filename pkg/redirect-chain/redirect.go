package redirectchain

import (
	"fmt"
	"strconv"
)

// Terminal is the endpoint every counted redirect chain ends at.
const Terminal = "/get"

// Next returns the hop count left after the hop for n is taken,
// along with a boolean indicating whether the chain is done.
func Next(n int) (int, bool) {
	remaining := n - 1
	return remaining, remaining <= 0
}

// Location returns the path of the hop following n within the given family.
// The family is a path prefix ending with a slash, e.g. "/redirect/".
func Location(family string, n int) string {
	remaining, done := Next(n)
	if done {
		return Terminal
	}
	return family + strconv.Itoa(remaining)
}

// ParseCount parses the hop count from a path segment.
func ParseCount(segment string) (int, error) {
	n, err := strconv.Atoi(segment)
	if err != nil {
		return 0, fmt.Errorf("invalid redirect count %q", segment)
	}
	return n, nil
}
