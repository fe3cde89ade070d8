// Package podmantest provides an in-memory podman.Engine for tests.
package podmantest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jeanhaley32/iteron/internal/podman"
)

// Container is the state the fake tracks per container.
type Container struct {
	Args    []string
	Running bool
}

// Fake is an in-memory Engine. The zero value is a host with nothing
// installed; set fields to describe other hosts. Calls records every
// mutating operation in order.
type Fake struct {
	mu sync.Mutex

	NotInstalled bool
	NotRootless  bool
	Machine      bool
	MachineUp    bool
	Images       map[string]bool
	Volumes      map[string]bool
	Containers   map[string]*Container
	ExecOutput   map[string]string
	ExecErr      map[string]error
	RunFails     bool
	RunWontStart bool
	Calls        []string
	Interactive  [][]string
	Execs        [][]string
}

// New returns a Fake with podman installed and rootless, and no machine,
// images, volumes or containers.
func New() *Fake {
	return &Fake{
		Images:     map[string]bool{},
		Volumes:    map[string]bool{},
		Containers: map[string]*Container{},
		ExecOutput: map[string]string{},
		ExecErr:    map[string]error{},
	}
}

var _ podman.Engine = (*Fake)(nil)

func (f *Fake) record(format string, args ...any) {
	f.Calls = append(f.Calls, fmt.Sprintf(format, args...))
}

func (f *Fake) Installed(ctx context.Context) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.NotInstalled
}

func (f *Fake) Rootless(ctx context.Context) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.NotInstalled && !f.NotRootless
}

func (f *Fake) MachineExists(ctx context.Context) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Machine
}

func (f *Fake) MachineRunning(ctx context.Context) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Machine && f.MachineUp
}

func (f *Fake) InitMachine(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("machine init")
	f.Machine = true
	return nil
}

func (f *Fake) StartMachine(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("machine start")
	if !f.Machine {
		return errors.New("no machine")
	}
	f.MachineUp = true
	return nil
}

func (f *Fake) ImageExists(ctx context.Context, image string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Images[image]
}

func (f *Fake) PullImage(ctx context.Context, image string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("pull %s", image)
	f.Images[image] = true
	return nil
}

func (f *Fake) VolumeExists(ctx context.Context, name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Volumes[name]
}

func (f *Fake) CreateVolume(ctx context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("volume create %s", name)
	f.Volumes[name] = true
	return nil
}

func (f *Fake) ContainerExists(ctx context.Context, name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.Containers[name]
	return ok
}

func (f *Fake) ContainerRunning(ctx context.Context, name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.Containers[name]
	return ok && c.Running
}

func (f *Fake) RunContainer(ctx context.Context, args []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("run")
	if f.RunFails {
		return errors.New("run failed")
	}
	name := flagValue(args, "--name")
	if name == "" {
		return errors.New("run without --name")
	}
	if _, ok := f.Containers[name]; ok {
		return fmt.Errorf("container name %q is already in use", name)
	}
	f.Containers[name] = &Container{Args: append([]string(nil), args...), Running: !f.RunWontStart}
	return nil
}

func (f *Fake) StopContainer(ctx context.Context, name string, grace time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("stop -t %d %s", int(grace/time.Second), name)
	c, ok := f.Containers[name]
	if !ok {
		return fmt.Errorf("no such container %s", name)
	}
	c.Running = false
	return nil
}

func (f *Fake) RemoveContainer(ctx context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("rm %s", name)
	if _, ok := f.Containers[name]; !ok {
		return fmt.Errorf("no such container %s", name)
	}
	delete(f.Containers, name)
	return nil
}

// Exec answers from ExecOutput and ExecErr, keyed by the command joined
// with spaces. Unknown commands succeed with empty output.
func (f *Fake) Exec(ctx context.Context, container string, command ...string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Execs = append(f.Execs, append([]string(nil), command...))
	key := strings.Join(command, " ")
	if err, ok := f.ExecErr[key]; ok {
		return "", err
	}
	return f.ExecOutput[key], nil
}

func (f *Fake) ExecInteractive(ctx context.Context, container string, command ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Interactive = append(f.Interactive, append([]string(nil), command...))
	return nil
}

func flagValue(args []string, flag string) string {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flag {
			return args[i+1]
		}
	}
	return ""
}
