// Package hooks runs user scripts at hook points.
//
// Scripts live in <hooks_dir>/<hook point>/ and run in name order when they
// are executable. Event data is passed through environment variables.
package hooks

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cristianoliveira/orderdesk/internal/colors"
	"github.com/cristianoliveira/orderdesk/internal/config"
	"github.com/cristianoliveira/orderdesk/internal/logging"
)

// Hook points.
const (
	PointNewOrder     = "on-new-order"
	PointStatusChange = "on-status-change"
)

// Failure modes.
const (
	FailureAbort  = "abort"
	FailureWarn   = "warn"
	FailureIgnore = "ignore"
)

// Options configures a Runner.
type Options struct {
	Dir          string
	Enabled      bool
	FailureMode  string
	Async        bool
	AsyncTimeout time.Duration
	MaxAsync     int
	// Stderr receives script output and progress lines.
	Stderr io.Writer
}

// OptionsFromConfig reads the hooks_* configuration keys.
func OptionsFromConfig() Options {
	return Options{
		Dir:          config.Get("hooks_dir", ""),
		Enabled:      config.GetBool("hooks_enabled", true),
		FailureMode:  config.Get("hooks_failure_mode", FailureWarn),
		Async:        config.GetBool("hooks_async", false),
		AsyncTimeout: config.GetSeconds("hooks_async_timeout_seconds", 30*time.Second),
		MaxAsync:     config.GetInt("hooks_max_async", 10),
	}
}

// Runner executes hook scripts.
type Runner struct {
	opts Options
	log  logging.Logger

	mu           sync.Mutex
	pendingCount int
	pending      sync.WaitGroup
}

// NewRunner builds a runner. An empty Dir disables every hook point.
func NewRunner(opts Options) *Runner {
	if opts.FailureMode == "" {
		opts.FailureMode = FailureWarn
	}
	if opts.AsyncTimeout <= 0 {
		opts.AsyncTimeout = 30 * time.Second
	}
	if opts.MaxAsync <= 0 {
		opts.MaxAsync = 10
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	return &Runner{opts: opts, log: logging.With("component", "hooks")}
}

// Init creates the hooks directory.
func (r *Runner) Init() error {
	if r.opts.Dir == "" {
		return nil
	}
	if err := os.MkdirAll(r.opts.Dir, 0755); err != nil {
		colors.Error(fmt.Sprintf("failed to create hooks directory %s: %v", r.opts.Dir, err))
		return fmt.Errorf("failed to create hooks directory %s: %w", r.opts.Dir, err)
	}
	return nil
}

type script struct {
	path string
	name string
}

// scripts returns the executable scripts of hookPoint in name order.
func (r *Runner) scripts(hookPoint string) []script {
	hookDir := filepath.Join(r.opts.Dir, hookPoint)
	files, err := os.ReadDir(hookDir)
	if err != nil {
		// Directory doesn't exist -> no hooks
		return nil
	}
	var out []script
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		scriptPath := filepath.Join(hookDir, f.Name())
		info, err := os.Stat(scriptPath)
		if err != nil || info.Mode()&0111 == 0 {
			continue
		}
		out = append(out, script{path: scriptPath, name: f.Name()})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].name < out[j].name
	})
	return out
}

// Run executes the scripts of hookPoint with envVars ("KEY=value").
// Only the abort failure mode turns a script failure into an error.
func (r *Runner) Run(ctx context.Context, hookPoint string, envVars ...string) error {
	if !r.opts.Enabled || r.opts.Dir == "" {
		return nil
	}
	scripts := r.scripts(hookPoint)
	if len(scripts) == 0 {
		return nil
	}

	env := r.environment(hookPoint, envVars)
	r.log.Debug("running hooks", "hook_point", hookPoint, "scripts", len(scripts))
	colors.Debug(fmt.Sprintf("Running %s hooks (%d script(s))", hookPoint, len(scripts)))

	for _, s := range scripts {
		if r.opts.Async {
			if !r.reserveAsync() {
				fmt.Fprintf(r.opts.Stderr, "warning: too many async hooks pending (max: %d), skipping %s\n", r.opts.MaxAsync, s.name)
				continue
			}
			r.runAsync(s, env)
			continue
		}
		if err := r.runSync(ctx, s, env); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) environment(hookPoint string, envVars []string) []string {
	env := os.Environ()
	env = append(env,
		"HOOK_POINT="+hookPoint,
		"HOOK_TIMESTAMP="+time.Now().Format(time.RFC3339),
		"ORDERDESK_HOOKS_FAILURE_MODE="+r.opts.FailureMode,
	)
	if exe, err := os.Executable(); err == nil {
		env = append(env, "ORDERDESK_BINARY="+exe)
	}
	for _, v := range envVars {
		if strings.Contains(v, "=") {
			env = append(env, v)
		}
	}
	return env
}

func (r *Runner) runSync(ctx context.Context, s script, env []string) error {
	start := time.Now()
	cmd := exec.CommandContext(ctx, s.path)
	cmd.Env = env
	output, err := cmd.CombinedOutput()
	if len(output) > 0 {
		_, _ = r.opts.Stderr.Write(output)
	}
	if err == nil {
		r.log.Debug("hook completed", "hook", s.name, "duration_ms", time.Since(start).Milliseconds())
		return nil
	}
	r.log.Warn("hook failed", "hook", s.name, "error", err.Error())
	switch r.opts.FailureMode {
	case FailureAbort:
		return fmt.Errorf("hook %s failed: %w", s.name, err)
	case FailureWarn:
		fmt.Fprintf(r.opts.Stderr, "warning: hook %s failed: %v\n", s.name, err)
	}
	return nil
}

func (r *Runner) reserveAsync() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pendingCount >= r.opts.MaxAsync {
		return false
	}
	r.pendingCount++
	r.pending.Add(1)
	return true
}

func (r *Runner) releaseAsync() {
	r.mu.Lock()
	r.pendingCount--
	r.mu.Unlock()
	r.pending.Done()
}

// runAsync starts s detached from the caller's context, bounded by AsyncTimeout.
func (r *Runner) runAsync(s script, env []string) {
	ctx, cancel := context.WithTimeout(context.Background(), r.opts.AsyncTimeout)
	cmd := exec.CommandContext(ctx, s.path)
	cmd.Env = env
	cmd.Stdout = r.opts.Stderr
	cmd.Stderr = r.opts.Stderr
	if err := cmd.Start(); err != nil {
		cancel()
		if r.opts.FailureMode != FailureIgnore {
			fmt.Fprintf(r.opts.Stderr, "warning: async hook %s failed to start: %v\n", s.name, err)
		}
		r.releaseAsync()
		return
	}
	start := time.Now()

	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				fmt.Fprintf(r.opts.Stderr, "error: async hook %s panicked: %v\n", s.name, rec)
			}
			r.releaseAsync()
			cancel()
		}()

		err := cmd.Wait()
		duration := time.Since(start)
		if ctx.Err() == context.DeadlineExceeded {
			fmt.Fprintf(r.opts.Stderr, "warning: async hook %s timed out after %.2fs\n", s.name, duration.Seconds())
		}
		if err != nil && r.opts.FailureMode != FailureIgnore {
			fmt.Fprintf(r.opts.Stderr, "warning: async hook %s failed: %v (duration: %.2fs)\n", s.name, err, duration.Seconds())
			return
		}
		if err == nil {
			r.log.Debug("async hook completed", "hook", s.name, "duration_ms", duration.Milliseconds())
		}
	}()
}

// Pending returns the number of running async hooks.
func (r *Runner) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pendingCount
}

// Wait blocks until every async hook has finished.
func (r *Runner) Wait() {
	r.pending.Wait()
}
