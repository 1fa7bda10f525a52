package qe

import "strconv"

// Version is a per-aggregate sequence number. Committed events for an
// aggregate hold versions 1..N with no gaps; InitialVersion is the expected
// version for an aggregate with no history.
type Version int64

const InitialVersion = Version(0)

func (v Version) Next() Version {
	return v + 1
}

func (v Version) String() string {
	return strconv.FormatInt(int64(v), 10)
}
