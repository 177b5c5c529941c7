package main

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ja7ad/cpulimit/internal/config"
	"github.com/ja7ad/cpulimit/internal/process"
)

func TestCheckNotSelf_SamePID(t *testing.T) {
	err := checkNotSelf(os.Getpid())
	assert.ErrorIs(t, err, process.ErrSelfTarget)
}

func TestCheckNotSelf_UnrelatedPID(t *testing.T) {
	// a PID that does not exist is never an ancestor of the test process.
	err := checkNotSelf(999999)
	assert.NoError(t, err)
}

func TestApplyDefaults_OnlyFillsUnsetFields(t *testing.T) {
	limit := 42.0
	lazy := true
	nice := 7
	d := config.Defaults{Limit: &limit, Lazy: &lazy, Nice: &nice}

	o := &opts{limit: 10} // already set on the command line
	applyDefaults(o, d)

	assert.Equal(t, 10.0, o.limit, "explicit CLI flag must not be overridden by config")
	assert.True(t, o.lazy)
	assert.Equal(t, 7, o.nice)
	assert.True(t, o.niceSet)
}

func TestNewCLIError(t *testing.T) {
	err := newCLIError(2, "boom: %d", 7)
	assert.Equal(t, 2, err.code)
	assert.Equal(t, "boom: 7", err.Error())

	var target *cliError
	assert.True(t, errors.As(error(err), &target))
}
