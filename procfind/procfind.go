// Package procfind locates running processes in the OS process table by
// command-line pattern. Lookups are best-effort: "not found" is a normal
// result, never an error.
package procfind

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/gobwas/glob"
)

// Finder looks up a live process by a command-line pattern. A zero PID
// means no match was found.
type Finder interface {
	FindByPattern(pattern string) int
}

// Pgrep is a Finder backed by the pgrep(1) tool. It runs pgrep in
// "list full command line" mode and filters the candidates itself, so
// the caller's own process and anything matching an exclude glob never
// get picked up. This replaces relying on the ordering of the pgrep
// output, which shifts with the environment.
type Pgrep struct {
	exclude []glob.Glob
	selfPID int

	// run is swapped out in tests
	run func(name string, args ...string) ([]byte, error)
}

func NewPgrep(excludePatterns []string) (*Pgrep, error) {
	p := &Pgrep{
		selfPID: os.Getpid(),
		run: func(name string, args ...string) ([]byte, error) {
			return exec.Command(name, args...).Output()
		},
	}

	for _, pattern := range excludePatterns {
		compiled, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("'process_exclude': '%s' is invalid: %w", pattern, err)
		}
		p.exclude = append(p.exclude, compiled)
	}

	return p, nil
}

// FindByPattern returns the PID of the first live process whose full
// command line contains pattern, or 0 when there is none. pgrep exiting
// non-zero (including "no match") is treated the same as no match.
func (p *Pgrep) FindByPattern(pattern string) int {
	out, err := p.run("pgrep", "-a", "-f", "--", pattern)
	if err != nil {
		return 0
	}

	for _, line := range strings.Split(string(out), "\n") {
		pid, cmdline, ok := parsePgrepLine(line)
		if !ok {
			continue
		}

		if pid == p.selfPID {
			continue
		}

		if p.excluded(cmdline) {
			continue
		}

		return pid
	}

	return 0
}

func (p *Pgrep) excluded(cmdline string) bool {
	for _, g := range p.exclude {
		if g.Match(cmdline) {
			return true
		}
	}

	return false
}

// parsePgrepLine splits a "pid cmdline" line from `pgrep -a` output.
func parsePgrepLine(line string) (int, string, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return 0, "", false
	}

	pidStr, cmdline, _ := strings.Cut(line, " ")
	pid, err := strconv.Atoi(pidStr)
	if err != nil || pid <= 0 {
		return 0, "", false
	}

	return pid, cmdline, true
}
