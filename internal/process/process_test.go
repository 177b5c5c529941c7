package process

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyFilter_All(t *testing.T) {
	all := []Snapshot{{PID: 1}, {PID: 2}, {PID: 3}}
	got := applyFilter(all, Filter{PID: 0})
	assert.Equal(t, all, got)
}

func TestApplyFilter_SinglePID(t *testing.T) {
	all := []Snapshot{{PID: 1}, {PID: 2, PPID: 1}, {PID: 3, PPID: 1}}
	got := applyFilter(all, Filter{PID: 2})
	assert.Equal(t, []Snapshot{{PID: 2, PPID: 1}}, got)
}

func TestApplyFilter_SinglePID_NotFound(t *testing.T) {
	all := []Snapshot{{PID: 1}, {PID: 2, PPID: 1}}
	got := applyFilter(all, Filter{PID: 999})
	assert.Nil(t, got)
}

func TestApplyFilter_IncludeChildren(t *testing.T) {
	// 1 (root) -> 2 -> 4; 1 -> 3; 5 is unrelated.
	all := []Snapshot{
		{PID: 1, PPID: 0},
		{PID: 2, PPID: 1},
		{PID: 3, PPID: 1},
		{PID: 4, PPID: 2},
		{PID: 5, PPID: 999},
	}
	got := applyFilter(all, Filter{PID: 1, IncludeChildren: true})

	pids := make([]int, 0, len(got))
	for _, s := range got {
		pids = append(pids, s.PID)
	}
	assert.ElementsMatch(t, []int{1, 2, 3, 4}, pids)
}

func TestIsDescendantOf(t *testing.T) {
	ppid := map[int]int{2: 1, 3: 2, 4: 3}
	assert.True(t, isDescendantOf(ppid, 4, 1))
	assert.True(t, isDescendantOf(ppid, 3, 1))
	assert.False(t, isDescendantOf(ppid, 4, 99))
	assert.False(t, isDescendantOf(ppid, 1, 1)) // self is not its own descendant
}
