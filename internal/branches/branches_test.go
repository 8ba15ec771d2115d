package branches

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	d := Default()
	names := d.Names()
	require.NotEmpty(t, names)
	assert.Equal(t, "1004", names[0])
	assert.True(t, d.Contains("AJAH"))
	assert.True(t, d.Contains(" abakpa/ new haven "))
	assert.False(t, d.Contains("ATLANTIS"))
}

func TestNew_DropsBlanksAndRepeats(t *testing.T) {
	d := New([]string{"AJAH", " ", "ajah", "IKEJA "})
	assert.Equal(t, []string{"AJAH", "IKEJA"}, d.Names())
}

func TestNames_ReturnsCopy(t *testing.T) {
	d := New([]string{"AJAH"})
	d.Names()[0] = "CHANGED"
	assert.Equal(t, []string{"AJAH"}, d.Names())
}

func TestReadWrite_RoundTrip(t *testing.T) {
	names := []string{"BERGER /UTAKO", "IBA 3- GLORY HOUSE", "LEKKI, PHASE 1"}
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, names))
	assert.True(t, strings.HasPrefix(buf.String(), Header+"\n"))

	got, err := Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, names, got)
}

func TestRead_BadHeader(t *testing.T) {
	_, err := Read(strings.NewReader("branch\nAJAH\n"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	root := t.TempDir()

	d, err := Load(root)
	require.NoError(t, err)
	assert.Equal(t, DefaultNames(), d.Names(), "missing file falls back to defaults")

	require.NoError(t, New([]string{"AJAH", "IKEJA"}).Save(root))
	_, err = os.Stat(filepath.Join(root, File))
	require.NoError(t, err)

	d, err = Load(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"AJAH", "IKEJA"}, d.Names())
}
