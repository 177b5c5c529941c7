package priority

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestElevate_NeverPanics(t *testing.T) {
	assert.NotPanics(t, func() { Elevate(nil) })
}

func TestRenice_InvalidPID(t *testing.T) {
	err := Renice(-1, 0)
	assert.Error(t, err)
}

func TestRenice_Self(t *testing.T) {
	// renicing ourselves to our own current-or-lower priority should
	// always be permitted, even unprivileged.
	err := Renice(os.Getpid(), 19)
	assert.NoError(t, err)
}
