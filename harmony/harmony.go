// Package harmony runs the external average-chord-complexity (ATC) tool.
package harmony

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var (
	ErrNotConfigured = errors.New("harmony scorer not configured")
	ErrNoScore       = errors.New("could not parse ATC score from output")
)

const (
	scriptName   = "get_atc_score.py"
	scorePrefix  = "ATC Score for"
	defaultLimit = 2 * time.Minute
)

// JarPath is the harmony analyser build the script needs, relative to the ATC dir.
var JarPath = filepath.Join("harmony-analyser", "target", "ha-script-1.2-beta.jar")

type Scorer interface {
	Score(ctx context.Context, path string) (float64, error)
}

type ATC struct {
	Python    string
	ScriptDir string
	Timeout   time.Duration
}

// NewATC prefers a virtualenv interpreter inside dir when python is empty.
func NewATC(python, dir string) *ATC {
	if python == "" {
		venv := filepath.Join(dir, ".venv", "bin", "python")
		if _, err := os.Stat(venv); err == nil {
			python = venv
		} else {
			python = "python3"
		}
	}
	return &ATC{Python: python, ScriptDir: dir, Timeout: defaultLimit}
}

func (a *ATC) Score(ctx context.Context, path string) (float64, error) {
	if a == nil || a.ScriptDir == "" {
		return 0, ErrNotConfigured
	}
	if _, err := os.Stat(filepath.Join(a.ScriptDir, JarPath)); err != nil {
		return 0, errors.Wrapf(ErrNotConfigured, "harmony analyser jar not found at %s", JarPath)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return 0, errors.WithStack(err)
	}

	timeout := a.Timeout
	if timeout <= 0 {
		timeout = defaultLimit
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, a.Python, scriptName, abs)
	cmd.Dir = a.ScriptDir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err = cmd.Run()
	logrus.WithFields(logrus.Fields{
		"path":     path,
		"duration": time.Since(start),
	}).Debug("ATC tool finished")
	if err != nil {
		return 0, errors.Wrapf(err, "ATC tool execution failed: %s", strings.TrimSpace(stderr.String()))
	}
	return ParseOutput(stdout.String())
}

// ParseOutput finds the first line like "ATC Score for 'file.mid': 4.123".
func ParseOutput(out string) (float64, error) {
	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.Contains(line, scorePrefix) {
			continue
		}
		i := strings.LastIndex(line, ":")
		if i < 0 {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(line[i+1:]), 64)
		if err != nil {
			continue
		}
		return v, nil
	}
	return 0, ErrNoScore
}
