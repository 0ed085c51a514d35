package harmony

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestParseOutput(t *testing.T) {
	cases := []struct {
		name string
		out  string
		want float64
		ok   bool
	}{
		{"plain", "ATC Score for 'a.mid': 4.123\n", 4.123, true},
		{"noise before", "loading...\nchords: 12\nATC Score for 'x.mid': 0.5", 0.5, true},
		{"colon in name", "ATC Score for 'C:/x.mid': 2", 2, true},
		{"first parseable wins", "ATC Score for 'a.mid': n/a\nATC Score for 'a.mid': 3.25\n", 3.25, true},
		{"missing", "no score here\n", 0, false},
		{"empty", "", 0, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := ParseOutput(c.out)
			if !c.ok {
				assert.True(t, errors.Is(err, ErrNoScore))
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, c.want, got)
		})
	}
}

func TestScoreNotConfigured(t *testing.T) {
	var nilATC *ATC
	_, err := nilATC.Score(context.Background(), "a.mid")
	assert.True(t, errors.Is(err, ErrNotConfigured))

	_, err = (&ATC{}).Score(context.Background(), "a.mid")
	assert.True(t, errors.Is(err, ErrNotConfigured))

	// dir without the analyser jar
	_, err = NewATC("", t.TempDir()).Score(context.Background(), "a.mid")
	assert.True(t, errors.Is(err, ErrNotConfigured))
}

func fakeATCDir(t *testing.T, script string) string {
	dir := t.TempDir()
	jar := filepath.Join(dir, JarPath)
	assert.NoError(t, os.MkdirAll(filepath.Dir(jar), 0755))
	assert.NoError(t, os.WriteFile(jar, nil, 0644))
	assert.NoError(t, os.WriteFile(filepath.Join(dir, scriptName), []byte(script), 0644))
	return dir
}

func TestScoreRunsScript(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	dir := fakeATCDir(t, "echo \"ATC Score for '$1': 1.75\"\n")

	got, err := (&ATC{Python: "sh", ScriptDir: dir}).Score(context.Background(), "song.mid")
	assert.NoError(t, err)
	assert.Equal(t, 1.75, got)
}

func TestScoreScriptFails(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	dir := fakeATCDir(t, "echo broken >&2\nexit 3\n")

	_, err := (&ATC{Python: "sh", ScriptDir: dir}).Score(context.Background(), "song.mid")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
}
