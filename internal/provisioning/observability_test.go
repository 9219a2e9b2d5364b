package provisioning

import (
	"errors"
	"strings"
	"testing"

	"github.com/go-logr/logr/funcr"
	"github.com/stretchr/testify/assert"

	"github.com/imamik/slicectl/internal/slice"
)

func TestLogObserver(t *testing.T) {
	t.Parallel()
	var lines []string
	logger := funcr.New(func(prefix, args string) {
		lines = append(lines, args)
	}, funcr.Options{Verbosity: 0})
	o := NewLogObserver(logger)

	emitTransition(o, "s1", slice.StateCreating, slice.StateFailed, errors.New("boom"))
	emitProgress(o, "s1", 1, 2)

	assert.Len(t, lines, 1, "progress events are logged at V(1)")
	assert.True(t, strings.Contains(lines[0], `"cause"="boom"`), lines[0])
	assert.Contains(t, lines[0], `"from"="CREATING"`)
	assert.Contains(t, lines[0], `"slice"="s1"`)
}

func TestLogObserver_Verbose(t *testing.T) {
	t.Parallel()
	var lines []string
	logger := funcr.New(func(prefix, args string) {
		lines = append(lines, args)
	}, funcr.Options{Verbosity: 1})
	o := NewLogObserver(logger)

	emitProgress(o, "s1", 1, 2)
	emitPollRetry(o, "s1", 1, 0, errors.New("503"))

	assert.Len(t, lines, 2)
	assert.Contains(t, lines[0], "1/2 resources active")
	assert.Contains(t, lines[1], `"error"="503"`)
}
