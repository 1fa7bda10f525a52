package qe

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConvertsToISODatetime(t *testing.T) {
	now := time.Now()
	timestamp := TimestampFromTime(now)

	assert.Equal(t, now.UTC().Format(RFC3339Milli), string(timestamp))

	parsed, err := timestamp.Time()
	assert.Nil(t, err)
	assert.Equal(t, now.UTC().Truncate(time.Millisecond), parsed.UTC())
}
