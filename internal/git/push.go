package git

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"

	"github.com/penwyp/gac/internal/errors"
	"github.com/penwyp/gac/prompt"
	"go.uber.org/zap"
)

const (
	// chunkSize bounds a single read from the push output stream.
	chunkSize = 4096
	// maxCarry bounds the unterminated tail kept between chunks.
	maxCarry = 512
)

// PushResult is the outcome reported by the completion callback.
type PushResult struct {
	// Status is the exit description with any trailing terminator stripped,
	// e.g. "finished" or "exited abnormally with code 128".
	Status string
	Err    error
}

// Succeeded reports whether git push exited cleanly.
func (r PushResult) Succeeded() bool {
	return r.Err == nil
}

// PushJob is one in-flight `git push`. Its filter runs for every output chunk
// and its completion runs exactly once, after the last filter call.
type PushJob struct {
	Root string
	Args []string

	proc     Process
	filter   func(chunk string)
	// carry is the unterminated last line of earlier output, so a prompt
	// split across reads is still recognised. Only the filter touches it.
	carry    string
	complete func(PushResult)

	done   chan struct{}
	mu     sync.Mutex
	result PushResult
}

// Done is closed after the completion callback has run.
func (j *PushJob) Done() <-chan struct{} {
	return j.done
}

// Result returns the outcome; it is only meaningful once Done is closed.
func (j *PushJob) Result() PushResult {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.result
}

// Wait blocks until the job terminated or ctx is done. It never stops the
// child process.
func (j *PushJob) Wait(ctx context.Context) (PushResult, error) {
	select {
	case <-j.done:
		return j.Result(), nil
	case <-ctx.Done():
		return PushResult{}, ctx.Err()
	}
}

// pump reads the child's output until EOF, then reaps it. Every callback is
// handed to post so that they run on the caller's event loop in order.
func (j *PushJob) pump(post func(func())) {
	buf := make([]byte, chunkSize)
	for {
		n, err := j.proc.Read(buf)
		if n > 0 {
			chunk := string(buf[:n])
			post(func() { j.filter(chunk) })
		}
		if err != nil {
			break
		}
	}

	waitErr := j.proc.Wait()
	res := PushResult{Status: exitStatus(waitErr), Err: waitErr}
	post(func() {
		j.mu.Lock()
		j.result = res
		j.mu.Unlock()
		j.complete(res)
		close(j.done)
	})
}

// exitStatus renders a wait error the way a process sentinel would.
func exitStatus(err error) string {
	if err == nil {
		return "finished"
	}
	var status string
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.Exited() {
		status = fmt.Sprintf("exited abnormally with code %d", exitErr.ExitCode())
	} else if errors.As(err, &exitErr) {
		status = exitErr.ProcessState.String()
	} else {
		status = err.Error()
	}
	return strings.TrimRight(status, "\r\n")
}

// PushWorkerConfig wires the collaborators of a PushWorker.
type PushWorkerConfig struct {
	Spawner    Spawner
	Inspector  RepoInspector
	Remotes    RemoteManager
	Prompter   SecretPrompter
	Notifier   Notifier
	Dispatcher Dispatcher
	// Remote is the preferred remote for branches without upstream; empty means origin.
	Remote string
	Logger *zap.Logger
}

// PushWorker starts background pushes and bridges credential prompts.
type PushWorker struct {
	cfg    PushWorkerConfig
	logger *zap.Logger
}

// NewPushWorker creates a PushWorker.
func NewPushWorker(cfg PushWorkerConfig) *PushWorker {
	if cfg.Spawner == nil {
		cfg.Spawner = PTYSpawner{}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PushWorker{cfg: cfg, logger: logger}
}

// Start spawns `git push` for the repository holding filePath and returns
// immediately. There is no retry, timeout or cancellation.
func (w *PushWorker) Start(ctx context.Context, filePath string) (*PushJob, error) {
	root, err := w.cfg.Inspector.FindRoot(ctx, filePath)
	if err != nil {
		return nil, err
	}

	args := w.pushArgs(ctx, root)
	w.logger.Debug("Starting push", zap.String("repo", root), zap.Strings("args", args))

	proc, err := w.cfg.Spawner.Spawn(root, "git", args...)
	if err != nil {
		return nil, errors.Wrap(errors.ErrTypePush, "failed to start git push", err)
	}

	job := &PushJob{
		Root: root,
		Args: args,
		proc: proc,
		done: make(chan struct{}),
	}
	job.filter = func(chunk string) { w.filterOutput(job, chunk) }
	job.complete = func(res PushResult) { w.report(job, res) }

	go job.pump(w.post)
	return job, nil
}

// pushArgs adds --set-upstream for branches that were never pushed, which is
// the normal state of a freshly created wip branch.
func (w *PushWorker) pushArgs(ctx context.Context, root string) []string {
	args := []string{"push"}
	if w.cfg.Remotes == nil {
		return args
	}

	branch, err := w.cfg.Inspector.CurrentBranch(ctx, root)
	if err != nil || branch == "" {
		return args
	}
	if w.cfg.Remotes.HasUpstreamBranch(ctx, root, branch) {
		return args
	}

	remotes, err := w.cfg.Remotes.GetRemotes(ctx, root)
	if err != nil {
		w.logger.Debug("Failed to list remotes", zap.Error(err))
		return args
	}
	remote, err := w.cfg.Remotes.SelectRemote(remotes, w.cfg.Remote)
	if err != nil {
		w.logger.Debug("No remote to set upstream", zap.Error(err))
		return args
	}
	return append(args, "--set-upstream", remote.Name, branch)
}

func (w *PushWorker) post(fn func()) {
	if w.cfg.Dispatcher == nil {
		fn()
		return
	}
	w.cfg.Dispatcher.Post(fn)
}

// filterOutput answers credential prompts. The secret goes to the child's
// stdin only; it is never logged.
func (w *PushWorker) filterOutput(job *PushJob, chunk string) {
	text := job.carry + chunk
	match, ok := prompt.Detect(text)
	if !ok {
		job.carry = trailingLine(text)
		w.logger.Debug("Push output", zap.String("repo", job.Root), zap.Int("bytes", len(chunk)))
		return
	}
	job.carry = ""

	w.logger.Debug("Credential prompt detected",
		zap.String("repo", job.Root),
		zap.Stringer("kind", match.Kind))

	var secret string
	if w.cfg.Prompter == nil {
		w.logger.Warn("No credential prompter configured, answering with an empty line")
	} else {
		s, err := w.ask(match)
		if err != nil {
			// An empty answer lets git fail instead of waiting forever.
			w.logger.Warn("Credential prompt failed", zap.Error(err))
		} else {
			secret = s
		}
	}

	if _, err := io.WriteString(job.proc, secret+"\n"); err != nil {
		w.logger.Warn("Failed to answer credential prompt", zap.Error(err))
	}
}

func (w *PushWorker) ask(match prompt.Match) (string, error) {
	if tp, ok := w.cfg.Prompter.(TextPrompter); ok && !match.Secret() {
		return tp.PromptText(match.Label())
	}
	return w.cfg.Prompter.PromptSecret(match.Label())
}

// trailingLine returns the text after the last line terminator, capped at
// maxCarry bytes.
func trailingLine(text string) string {
	if i := strings.LastIndexAny(text, "\r\n"); i >= 0 {
		text = text[i+1:]
	}
	if len(text) > maxCarry {
		text = text[len(text)-maxCarry:]
	}
	return text
}

func (w *PushWorker) report(job *PushJob, res PushResult) {
	if res.Succeeded() {
		w.logger.Info("Push finished", zap.String("repo", job.Root))
	} else {
		w.logger.Warn("Push failed", zap.String("repo", job.Root), zap.String("status", res.Status))
	}
	if w.cfg.Notifier != nil {
		w.cfg.Notifier.Notify("git push: " + res.Status)
	}
}
