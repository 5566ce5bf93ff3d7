package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/tburn/internal/cli"
	"github.com/theirongolddev/tburn/internal/config"
	"github.com/theirongolddev/tburn/internal/daemon"
)

// runFile describes a live daemon. It is written on start and removed on
// clean exit; a file whose PID is gone is stale.
type runFile struct {
	PID       int       `json:"pid"`
	Addr      string    `json:"addr"`
	Ledger    string    `json:"ledger"`
	StartedAt time.Time `json:"started_at"`
}

var daemonOpts struct {
	addr     string
	interval time.Duration
	buffer   int
	runPath  string
	logPath  string
	detach   bool
	child    bool
}

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Watch the ledger and serve progress over HTTP/SSE",
	RunE: func(_ *cobra.Command, _ []string) error {
		fillDaemonOpts()
		switch {
		case daemonOpts.detach && daemonOpts.child:
			return errors.New("--detach and --child are exclusive")
		case daemonOpts.detach:
			return spawnDaemon()
		default:
			return serveDaemon()
		}
	},
}

var daemonStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon process and API status",
	RunE: func(_ *cobra.Command, _ []string) error {
		fillDaemonOpts()
		return printDaemonStatus()
	},
}

var daemonStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running daemon",
	RunE: func(_ *cobra.Command, _ []string) error {
		fillDaemonOpts()
		return stopDaemon(8 * time.Second)
	},
}

func init() {
	pf := daemonCmd.PersistentFlags()
	pf.StringVar(&daemonOpts.addr, "addr", "", "HTTP listen address (default from config)")
	pf.DurationVar(&daemonOpts.interval, "interval", 0, "Ledger poll interval (default from config)")
	pf.IntVar(&daemonOpts.buffer, "events-buffer", 0, "Events kept in memory (default from config)")
	pf.StringVar(&daemonOpts.runPath, "run-file", "", "Run file path (default in the data dir)")
	pf.StringVar(&daemonOpts.logPath, "log-file", "", "Log file for detached mode (default in the data dir)")

	daemonCmd.Flags().BoolVar(&daemonOpts.detach, "detach", false, "Run in the background")
	daemonCmd.Flags().BoolVar(&daemonOpts.child, "child", false, "Internal: detached child")
	_ = daemonCmd.Flags().MarkHidden("child")

	daemonCmd.AddCommand(daemonStatusCmd, daemonStopCmd)
	rootCmd.AddCommand(daemonCmd)
}

func fillDaemonOpts() {
	o := &daemonOpts
	if o.addr == "" {
		o.addr = cfg.Daemon.Addr
	}
	if o.interval <= 0 {
		o.interval = cfg.PollInterval()
	}
	if o.buffer <= 0 {
		o.buffer = cfg.Daemon.EventsBuffer
	}
	if o.runPath == "" {
		o.runPath = filepath.Join(config.DataDir(), "tburnd.json")
	}
	if o.logPath == "" {
		o.logPath = filepath.Join(config.DataDir(), "tburnd.log")
	}
}

// spawnDaemon re-executes this binary as a detached child that logs JSON
// to the log file.
func spawnDaemon() error {
	if rf, ok := liveDaemon(); ok {
		return fmt.Errorf("daemon already running (pid %d)", rf.PID)
	}

	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(daemonOpts.logPath), 0o750); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}
	//nolint:gosec // log path comes from the local user
	logf, err := os.OpenFile(daemonOpts.logPath, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("open daemon log: %w", err)
	}
	defer func() { _ = logf.Close() }()

	args := slices.DeleteFunc(slices.Clone(os.Args[1:]), func(a string) bool {
		return a == "--detach" || strings.HasPrefix(a, "--detach=")
	})
	args = append(args, "--child", "--log-json")

	child := exec.Command(exe, args...) //nolint:gosec // re-exec of the current binary
	child.Stdout = logf
	child.Stderr = logf
	child.Env = os.Environ()
	if err := child.Start(); err != nil {
		return fmt.Errorf("start daemon: %w", err)
	}

	fmt.Printf("  Daemon started (pid %d)\n", child.Process.Pid)
	fmt.Printf("  API:  http://%s/v1/status\n", daemonOpts.addr)
	fmt.Printf("  Log:  %s\n", daemonOpts.logPath)
	return nil
}

func serveDaemon() error {
	if rf, ok := liveDaemon(); ok {
		return fmt.Errorf("daemon already running (pid %d)", rf.PID)
	}

	p, err := params()
	if err != nil {
		return err
	}
	l, err := openLedger()
	if err != nil {
		return err
	}
	defer func() { _ = l.Close() }()

	rf := runFile{PID: os.Getpid(), Addr: daemonOpts.addr, Ledger: l.Path(), StartedAt: time.Now()}
	if err := writeRunFile(daemonOpts.runPath, rf); err != nil {
		return err
	}
	defer func() { _ = os.Remove(daemonOpts.runPath) }()

	svc := daemon.New(daemon.Config{
		Source:       l,
		Params:       p,
		LedgerPath:   l.Path(),
		Interval:     daemonOpts.interval,
		Addr:         daemonOpts.addr,
		EventsBuffer: daemonOpts.buffer,
		Logger:       log,
	})

	if !daemonOpts.child {
		fmt.Printf("  Serving http://%s, polling %s every %s\n", daemonOpts.addr, l.Path(), daemonOpts.interval)
		fmt.Printf("  Ctrl+C or `tburn daemon stop` to quit\n")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func printDaemonStatus() error {
	rf, ok := liveDaemon()
	if !ok {
		fmt.Println("  Daemon: not running")
		return nil
	}
	fmt.Printf("  Daemon: pid %d, up %s\n", rf.PID, time.Since(rf.StartedAt).Round(time.Second))
	fmt.Printf("  Address: http://%s\n", rf.Addr)

	st, err := fetchDaemonStatus(rf.Addr)
	if err != nil {
		fmt.Printf("  API: %v\n", err)
		return nil
	}

	if st.LastPollAt.IsZero() {
		fmt.Println("  Last poll: pending")
	} else {
		fmt.Printf("  Last poll: %s (%d total)\n", st.LastPollAt.Local().Format(time.RFC3339), st.PollCount)
	}
	s := st.Summary
	fmt.Printf("  Ledger: %s (%d records)\n", st.Ledger, s.Records)
	fmt.Printf("  Status: %s, estimated age %s\n", s.Status, cli.FormatAge(s.EstimatedAge))
	fmt.Printf("  Net time: %s\n", cli.FormatTime(s.NetHours))
	fmt.Printf("  This month: %s\n", cli.FormatPercent(s.ProgressPercent))
	if st.LastError != "" {
		fmt.Printf("  Last error: %s\n", st.LastError)
	}
	return nil
}

func fetchDaemonStatus(addr string) (daemon.Status, error) {
	var st daemon.Status

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://"+addr+"/v1/status", nil)
	if err != nil {
		return st, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return st, fmt.Errorf("unreachable: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return st, fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		return st, fmt.Errorf("malformed response: %w", err)
	}
	return st, nil
}

func stopDaemon(wait time.Duration) error {
	rf, ok := liveDaemon()
	if !ok {
		return errors.New("daemon is not running")
	}
	proc, err := os.FindProcess(rf.PID)
	if err != nil {
		return fmt.Errorf("find daemon: %w", err)
	}
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("signal daemon: %w", err)
	}

	for deadline := time.Now().Add(wait); time.Now().Before(deadline); time.Sleep(150 * time.Millisecond) {
		if !pidAlive(rf.PID) {
			_ = os.Remove(daemonOpts.runPath)
			fmt.Printf("  Daemon stopped (pid %d)\n", rf.PID)
			return nil
		}
	}
	return fmt.Errorf("daemon (pid %d) still running after %s", rf.PID, wait)
}

// liveDaemon reads the run file and reports whether its process is alive.
// A stale run file is removed.
func liveDaemon() (runFile, bool) {
	var rf runFile
	//nolint:gosec // run file path comes from the local user
	data, err := os.ReadFile(daemonOpts.runPath)
	if err != nil {
		return rf, false
	}
	if err := json.Unmarshal(data, &rf); err != nil || rf.PID <= 0 || !pidAlive(rf.PID) {
		_ = os.Remove(daemonOpts.runPath)
		return rf, false
	}
	return rf, true
}

func writeRunFile(path string, rf runFile) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create run directory: %w", err)
	}
	data, err := json.MarshalIndent(rf, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o600)
}

// pidAlive probes with signal 0; EPERM still means the process exists.
func pidAlive(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = proc.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}
