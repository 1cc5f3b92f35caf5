package git

import (
	"errors"
	"io"
	"os"
	"os/exec"
	"syscall"

	"github.com/creack/pty"
)

// PTYSpawner runs the child on a pseudo-terminal, so ssh and git write their
// credential prompts to the stream the push filter reads.
type PTYSpawner struct{}

// Spawn implements Spawner.
func (PTYSpawner) Spawn(dir string, command string, args ...string) (Process, error) {
	cmd := exec.Command(command, args...)
	cmd.Dir = dir
	f, err := pty.Start(cmd)
	if err != nil {
		return nil, err
	}
	return &ptyProcess{tty: f, cmd: cmd}, nil
}

type ptyProcess struct {
	tty *os.File
	cmd *exec.Cmd
}

func (p *ptyProcess) Read(b []byte) (int, error) {
	n, err := p.tty.Read(b)
	// Linux reports EIO on the master side once the child side is closed.
	if err != nil && errors.Is(err, syscall.EIO) {
		err = io.EOF
	}
	return n, err
}

func (p *ptyProcess) Write(b []byte) (int, error) {
	return p.tty.Write(b)
}

func (p *ptyProcess) Wait() error {
	err := p.cmd.Wait()
	_ = p.tty.Close()
	return err
}

// PipeSpawner wires stdout and stderr into one pipe and keeps stdin open.
// It is used where pseudo-terminals are unavailable.
type PipeSpawner struct{}

// Spawn implements Spawner.
func (PipeSpawner) Spawn(dir string, command string, args ...string) (Process, error) {
	cmd := exec.Command(command, args...)
	cmd.Dir = dir

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	pr, pw := io.Pipe()
	cmd.Stdout = pw
	cmd.Stderr = pw

	if err := cmd.Start(); err != nil {
		_ = pw.Close()
		return nil, err
	}

	p := &pipeProcess{out: pr, in: stdin, done: make(chan struct{})}
	go func() {
		p.err = cmd.Wait()
		_ = pw.Close()
		close(p.done)
	}()
	return p, nil
}

type pipeProcess struct {
	out  *io.PipeReader
	in   io.WriteCloser
	done chan struct{}
	err  error
}

func (p *pipeProcess) Read(b []byte) (int, error)  { return p.out.Read(b) }
func (p *pipeProcess) Write(b []byte) (int, error) { return p.in.Write(b) }

func (p *pipeProcess) Wait() error {
	<-p.done
	_ = p.in.Close()
	return p.err
}

// NewSpawner picks the pseudo-terminal spawner unless usePTY is false.
func NewSpawner(usePTY bool) Spawner {
	if usePTY {
		return PTYSpawner{}
	}
	return PipeSpawner{}
}
