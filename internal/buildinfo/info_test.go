package buildinfo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString_UsesLinkerValues(t *testing.T) {
	oldV, oldC, oldD := Version, Commit, Date
	t.Cleanup(func() { Version, Commit, Date = oldV, oldC, oldD })

	Version, Commit, Date = "v1.2.0", "abc1234", "2025-12-20"
	assert.Equal(t, "v1.2.0 (commit: abc1234, built: 2025-12-20)", String())
}

func TestString_Defaults(t *testing.T) {
	assert.Contains(t, String(), "(commit: ")
}
