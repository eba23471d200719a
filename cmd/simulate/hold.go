package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/milk9111/platformer/ecs"
)

// hold is a key held for frames [from, to). to < 0 means forever.
type hold struct {
	key      ecs.Key
	from, to int
}

// parseHolds reads "Space@10-20,ArrowRight@0-60,A". A bare key is held on
// every frame; "Key@n" holds from n onwards.
func parseHolds(s string) ([]hold, error) {
	var out []hold
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, frames, hasFrames := strings.Cut(part, "@")
		if name == "" {
			return nil, fmt.Errorf("hold %q: missing key", part)
		}
		h := hold{key: ecs.Key(name), to: -1}
		if hasFrames {
			fromStr, toStr, hasTo := strings.Cut(frames, "-")
			from, err := strconv.Atoi(fromStr)
			if err != nil || from < 0 {
				return nil, fmt.Errorf("hold %q: bad start frame", part)
			}
			h.from = from
			if hasTo {
				to, err := strconv.Atoi(toStr)
				if err != nil || to < from {
					return nil, fmt.Errorf("hold %q: bad end frame", part)
				}
				h.to = to
			}
		}
		out = append(out, h)
	}
	return out, nil
}

// keysAt fills set with the keys held on frame.
func keysAt(holds []hold, frame int, set ecs.KeySet) {
	set.Clear()
	for _, h := range holds {
		if frame >= h.from && (h.to < 0 || frame < h.to) {
			set.Press(h.key)
		}
	}
}
