// Package interactive provides the interactive command line of the lock
// device.
package interactive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"github.com/nuki-esphome/nuki-go/pkg/inspect"
	"github.com/nuki-esphome/nuki-go/pkg/lock"
	"github.com/nuki-esphome/nuki-go/pkg/pairing"
	"github.com/nuki-esphome/nuki-go/pkg/schema"
)

// Simulator is the optional control surface of a simulated lock.
type Simulator interface {
	Keypad()
	Door(open bool)
	Fail(n int)
}

// Console handles interactive mode for nuki-device.
type Console struct {
	comp      *lock.Component
	sim       Simulator
	inspector *inspect.Inspector
	formatter *inspect.Formatter
	rl        *readline.Instance
	out       io.Writer
}

// New creates a console reading from rl. sim may be nil.
func New(comp *lock.Component, sim Simulator, rl *readline.Instance) *Console {
	c := newConsole(comp, sim, rl.Stdout())
	c.rl = rl
	return c
}

func newConsole(comp *lock.Component, sim Simulator, out io.Writer) *Console {
	f := inspect.NewFormatter()
	f.ShowState = true
	return &Console{
		comp:      comp,
		sim:       sim,
		inspector: inspect.NewInspector(comp.Device()),
		formatter: f,
		out:       out,
	}
}

// NewReadline creates the line editor the console and the process logs
// share.
func NewReadline() (*readline.Instance, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "nuki> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	return rl, nil
}

// Run starts the interactive command loop.
func (c *Console) Run(ctx context.Context, cancel context.CancelFunc) error {
	defer c.rl.Close()

	// Closing the editor unblocks Readline on shutdown.
	stop := context.AfterFunc(ctx, func() { c.rl.Close() })
	defer stop()

	c.printHelp()

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		line, err := c.rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			fmt.Fprintln(c.out, "Exiting...")
			cancel()
			return nil
		}

		if !c.Exec(ctx, line) {
			cancel()
			return nil
		}
	}
}

// Exec runs one command line. It returns false when the console should
// exit.
func (c *Console) Exec(ctx context.Context, line string) bool {
	parts := strings.Fields(strings.TrimSpace(line))
	if len(parts) == 0 {
		return true
	}
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	var err error
	switch cmd {
	case "help", "?":
		c.printHelp()
	case "status", "s":
		c.cmdStatus()
	case "inspect", "i":
		err = c.cmdInspect(args)
	case "lock":
		err = c.comp.Lock(ctx)
	case "unlock":
		err = c.comp.Unlock(ctx)
	case "open", "unlatch":
		err = c.comp.Open(ctx)
	case "lockngo":
		err = c.comp.LockNGo(ctx)
	case "pair":
		err = c.cmdPair(args)
	case "unpair":
		err = c.comp.Unpair(ctx)
	case "calibrate":
		err = c.comp.RequestCalibration(ctx)
	case "pin":
		err = c.cmdPin(ctx, args)
	case "set":
		err = c.cmdSet(ctx, args)
	case "press":
		if len(args) != 1 {
			err = errors.New("usage: press <button>")
			break
		}
		err = c.comp.Press(ctx, args[0])
	case "refresh":
		err = c.cmdRefresh(ctx, args)
	case "sim":
		err = c.cmdSim(args)
	case "quit", "exit", "q":
		fmt.Fprintln(c.out, "Exiting...")
		return false
	default:
		fmt.Fprintf(c.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
		return true
	}

	if err != nil {
		fmt.Fprintf(c.out, "Error: %v\n", err)
	} else if isAction(cmd) {
		fmt.Fprintln(c.out, "OK")
	}
	return true
}

func isAction(cmd string) bool {
	switch cmd {
	case "lock", "unlock", "open", "unlatch", "lockngo", "pair", "unpair", "calibrate", "pin", "set", "press", "refresh", "sim":
		return true
	}
	return false
}

func (c *Console) printHelp() {
	fmt.Fprintln(c.out, `
Lock Commands:
  Actions:
    lock | unlock | open | lockngo  - Send a lock action
    calibrate                       - Request a calibration run
    pair on|off                     - Enter or leave pairing mode
    unpair                          - Delete the pairing
    pin <0-65535>                   - Set the security PIN (0 clears)

  Entities:
    status                          - Show lock status
    inspect [path]                  - Show entities (kind/key, kind or key)
    set <key> <value>               - Write a switch, number or select
    press <button>                  - Press a button entity
    refresh [status|settings|auth|log]

  Simulation:
    sim keypad                      - Unlock from the keypad
    sim door open|closed            - Move the door
    sim fail <n>                    - Fail the next n lock operations

  General:
    help                            - Show this help
    quit                            - Exit`)
}

func (c *Console) cmdStatus() {
	t := c.comp.Timer()
	fmt.Fprintf(c.out, "Session:      %s\n", c.comp.SessionID())
	fmt.Fprintf(c.out, "Lock state:   %s\n", c.comp.State())
	fmt.Fprintf(c.out, "Pairing mode: %s", t.Mode())
	if t.Mode() == pairing.Pairing {
		fmt.Fprintf(c.out, " (%s left)", t.Remaining(time.Now()).Round(time.Second))
	}
	fmt.Fprintln(c.out)
	for _, key := range []string{"is_paired", "is_connected", "battery_level", "pin_state", "last_lock_action"} {
		n, ok := c.comp.Device().Entity(key)
		if !ok {
			continue
		}
		value := "<unset>"
		if v, ok := n.State(); ok {
			value = c.formatter.FormatValue(v, n.Options().Unit)
		}
		fmt.Fprintf(c.out, "%-13s %s\n", key+":", value)
	}
}

func (c *Console) cmdInspect(args []string) error {
	if len(args) == 0 {
		fmt.Fprint(c.out, c.formatter.FormatDevice(c.comp.Device()))
		return nil
	}
	path, err := inspect.ParsePath(args[0])
	if err != nil {
		return err
	}
	nodes, err := c.inspector.Resolve(path)
	if err != nil {
		return err
	}
	for _, n := range nodes {
		fmt.Fprintln(c.out, c.formatter.FormatEntity(n))
		if n.Kind() == schema.EntitySelect {
			fmt.Fprint(c.out, c.formatter.FormatOptions(n))
		}
	}
	return nil
}

func (c *Console) cmdPair(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: pair on|off")
	}
	on, err := parseOnOff(args[0])
	if err != nil {
		return err
	}
	c.comp.SetPairingMode(on)
	return nil
}

func (c *Console) cmdPin(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: pin <0-65535>")
	}
	pin, err := strconv.ParseUint(args[0], 10, 16)
	if err != nil {
		return fmt.Errorf("invalid pin %q", args[0])
	}
	return c.comp.SetSecurityPin(ctx, uint16(pin))
}

func (c *Console) cmdSet(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errors.New("usage: set <key> <value>")
	}
	key := args[0]
	n, ok := c.comp.Device().Entity(key)
	if !ok {
		return fmt.Errorf("%w: %s", lock.ErrUnknownEntity, key)
	}
	value := strings.Join(args[1:], " ")

	switch n.Kind() {
	case schema.EntitySwitch:
		on, err := parseOnOff(value)
		if err != nil {
			return err
		}
		return c.comp.SetSwitch(ctx, key, on)
	case schema.EntityNumber:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid number %q", value)
		}
		return c.comp.SetNumber(ctx, key, f)
	case schema.EntitySelect:
		return c.comp.SetSelect(ctx, key, value)
	}
	return fmt.Errorf("%s is a %s and cannot be set", key, n.Kind())
}

func (c *Console) cmdRefresh(ctx context.Context, args []string) error {
	what := "status"
	if len(args) > 0 {
		what = args[0]
	}
	switch what {
	case "status":
		return c.comp.UpdateStatus(ctx)
	case "settings":
		return c.comp.RefreshSettings(ctx)
	case "auth":
		return c.comp.RefreshAuthData(ctx)
	case "log":
		return c.comp.RefreshEventLog(ctx)
	}
	return fmt.Errorf("unknown refresh target %q", what)
}

func (c *Console) cmdSim(args []string) error {
	if c.sim == nil {
		return errors.New("not running a simulated lock")
	}
	if len(args) == 0 {
		return errors.New("usage: sim keypad | door open|closed | fail <n>")
	}
	switch args[0] {
	case "keypad":
		c.sim.Keypad()
	case "door":
		if len(args) != 2 || (args[1] != "open" && args[1] != "closed") {
			return errors.New("usage: sim door open|closed")
		}
		c.sim.Door(args[1] == "open")
	case "fail":
		if len(args) != 2 {
			return errors.New("usage: sim fail <n>")
		}
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 0 {
			return fmt.Errorf("invalid count %q", args[1])
		}
		c.sim.Fail(n)
	default:
		return fmt.Errorf("unknown sim command %q", args[0])
	}
	return nil
}

func parseOnOff(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "on", "true", "1", "yes":
		return true, nil
	case "off", "false", "0", "no":
		return false, nil
	}
	return false, fmt.Errorf("invalid switch value %q", s)
}
