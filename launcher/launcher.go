// Package launcher coordinates the lifecycle of an editor and the
// language server it spawns, for interactive debug sessions.
package launcher

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/svlang/lspdev/procfind"
)

// DoneMarker is printed once teardown has been attempted, whatever the
// outcome of the session.
const DoneMarker = "===== EDITOR AND LANGUAGE SERVER TERMINATED ====="

// Config holds everything one debug session needs. Every field has a
// working default in the root command; see lspdev.yaml to override.
type Config struct {
	TargetFile        string
	Editor            string
	EditorArgs        []string
	LoggingFilterName string
	LoggingFilter     string
	DebugFlagName     string
	ServerPattern     string
	Debugger          string
	DebuggerCommands  []string
	DebuggerInitFile  string
	StartupDelay      time.Duration
}

// Launcher drives one session: spawn the editor, discover the two PIDs,
// optionally hand the server to a debugger, then tear everything down.
type Launcher struct {
	cfg     Config
	finder  procfind.Finder
	out     io.Writer
	session *zap.Logger

	// hooks, swapped out in tests
	spawn  func(cmd *exec.Cmd, wait bool) error
	attach func(cmd *exec.Cmd) error
	kill   func(pid int) error
	sleep  func(d time.Duration)
}

func New(cfg Config, finder procfind.Finder) *Launcher {
	return &Launcher{
		cfg:     cfg,
		finder:  finder,
		out:     os.Stdout,
		session: zap.NewNop(),
		spawn:   defaultSpawn,
		attach:  defaultAttach,
		kill:    defaultKill,
		sleep:   time.Sleep,
	}
}

// LogSessionTo mirrors the session as JSON events onto w, one event per
// spawn, discovery, attach and kill.
func (l *Launcher) LogSessionTo(w io.Writer) {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(w),
		zap.InfoLevel,
	)

	l.session = zap.New(core)
}

// Close flushes the session log.
func (l *Launcher) Close() {
	l.session.Sync()
}

// Run drives a full session in the fixed order: launch, debugger if
// requested, then unconditional teardown.
func (l *Launcher) Run(debug bool) {
	editorPID, serverPID := l.Launch(debug)

	if debug {
		l.AttachDebugger(serverPID)
	}

	l.Shutdown(editorPID, serverPID)
}

// Launch spawns the editor against the target file and looks up the
// editor and language-server PIDs afterwards. In debug mode the spawn
// is non-blocking and Launch sleeps StartupDelay so the editor has a
// chance to bring the server up; otherwise it blocks until the editor
// exits. A zero PID means that process was not found, which is a
// normal outcome, not a failure.
func (l *Launcher) Launch(debug bool) (editorPID, serverPID int) {
	args := append([]string{}, l.cfg.EditorArgs...)
	args = append(args, l.cfg.TargetFile)

	cmd := exec.Command(l.cfg.Editor, args...)
	cmd.Env = append(os.Environ(), l.cfg.LoggingFilterName+"="+l.cfg.LoggingFilter)
	if debug {
		cmd.Env = append(cmd.Env, l.cfg.DebugFlagName+"=ON")
	}
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	l.session.Info("spawn",
		zap.String("editor", l.cfg.Editor),
		zap.String("target", l.cfg.TargetFile),
		zap.Bool("debug", debug),
	)

	if err := l.spawn(cmd, !debug); err != nil {
		// Discovery below may still pick up an earlier instance
		log.Error().Err(err).Str("editor", l.cfg.Editor).Msg("Failed to launch editor")
	}

	if debug {
		l.sleep(l.cfg.StartupDelay)
	}

	editorPID = l.finder.FindByPattern(l.cfg.Editor)
	serverPID = l.finder.FindByPattern(l.cfg.ServerPattern)

	l.session.Info("discover",
		zap.Int("editor_pid", editorPID),
		zap.Int("server_pid", serverPID),
	)

	if editorPID != 0 {
		fmt.Fprintf(l.out, "EDITOR_PID: %d\n", editorPID)
	}
	if serverPID != 0 {
		fmt.Fprintf(l.out, "SERVER_PID: %d\n", serverPID)
	}

	return editorPID, serverPID
}

// AttachDebugger hands the language-server process to an interactive
// debugger on the caller's terminal and blocks until the operator quits
// it. A zero PID makes this a no-op.
func (l *Launcher) AttachDebugger(serverPID int) {
	if serverPID == 0 {
		log.Warn().Str("pattern", l.cfg.ServerPattern).Msg("No language server found, skipping debugger")
		return
	}

	args := []string{l.cfg.Debugger, "-q", "-p", strconv.Itoa(serverPID)}
	for _, ex := range l.cfg.DebuggerCommands {
		args = append(args, "-ex", ex)
	}
	if l.cfg.DebuggerInitFile != "" {
		args = append(args, "-ex", "source "+l.cfg.DebuggerInitFile)
	}

	cmd := exec.Command("sudo", args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	l.session.Info("attach",
		zap.Int("server_pid", serverPID),
		zap.Strings("args", args),
	)

	if err := l.attach(cmd); err != nil {
		log.Error().Err(err).Int("pid", serverPID).Msg("Debugger session ended with error")
	}
}

// Shutdown force-kills each present PID. Kills are best-effort: a
// process that already exited is fine. The completion marker is always
// printed.
func (l *Launcher) Shutdown(editorPID, serverPID int) {
	for _, pid := range []int{editorPID, serverPID} {
		if pid == 0 {
			continue
		}

		l.session.Info("kill", zap.Int("pid", pid))

		if err := l.kill(pid); err != nil {
			log.Debug().Err(err).Int("pid", pid).Msg("Process already gone")
		}
	}

	fmt.Fprintln(l.out, DoneMarker)
}

func defaultSpawn(cmd *exec.Cmd, wait bool) error {
	if wait {
		return cmd.Run()
	}

	if err := cmd.Start(); err != nil {
		return err
	}

	// Reap the child when it exits on its own
	go func() {
		cmd.Wait()
	}()

	return nil
}

func defaultAttach(cmd *exec.Cmd) error {
	return cmd.Run()
}

func defaultKill(pid int) error {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return err
	}

	return proc.Kill()
}
