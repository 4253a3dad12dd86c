package inspect

import (
	"errors"
	"strings"
	"testing"

	"github.com/nuki-esphome/nuki-go/pkg/config"
	"github.com/nuki-esphome/nuki-go/pkg/entity"
	"github.com/nuki-esphome/nuki-go/pkg/schema"
)

func testDevice(t *testing.T) *entity.DeviceNode {
	t.Helper()
	reg, err := schema.LoadCurrent()
	if err != nil {
		t.Fatalf("LoadCurrent: %v", err)
	}
	cfg, err := config.Validate(map[string]any{
		"is_connected":     nil,
		"is_paired":        nil,
		"battery_level":    nil,
		"led_brightness":   nil,
		"motor_speed":      nil,
		"on_paired_action": "logger.log",
	}, reg)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	dev, err := entity.Build(cfg)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return dev
}

func TestParsePath(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		partial bool
	}{
		{"select/motor_speed", "select/motor_speed", false},
		{"select", "select", true},
		{"motor_speed", "motor_speed", false},
		{" * ", "*", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			p, err := ParsePath(tt.in)
			if err != nil {
				t.Fatalf("ParsePath: %v", err)
			}
			if p.String() != tt.want {
				t.Errorf("String() = %q, want %q", p.String(), tt.want)
			}
			if p.IsPartial() != tt.partial {
				t.Errorf("IsPartial() = %v", p.IsPartial())
			}
		})
	}
}

func TestParsePath_Errors(t *testing.T) {
	tests := []struct {
		in   string
		want error
	}{
		{"", ErrEmptyPath},
		{"lamp/motor_speed", ErrInvalidPath},
		{"select/", ErrInvalidPath},
		{"a/b/c", ErrInvalidPath},
	}
	for _, tt := range tests {
		if _, err := ParsePath(tt.in); !errors.Is(err, tt.want) {
			t.Errorf("ParsePath(%q) error = %v, want %v", tt.in, err, tt.want)
		}
	}
}

func TestInspector_Resolve(t *testing.T) {
	in := NewInspector(testDevice(t))

	all, err := in.Resolve(&Path{})
	if err != nil || len(all) != 5 {
		t.Fatalf("Resolve(*) = %d nodes, %v", len(all), err)
	}

	p, _ := ParsePath("binary_sensor")
	nodes, err := in.Resolve(p)
	if err != nil || len(nodes) != 2 {
		t.Fatalf("Resolve(binary_sensor) = %d nodes, %v", len(nodes), err)
	}

	p, _ = ParsePath("sensor/motor_speed")
	if _, err := in.Resolve(p); !errors.Is(err, ErrNotFound) {
		t.Errorf("kind mismatch error = %v", err)
	}
	p, _ = ParsePath("door_sensor")
	if _, err := in.Resolve(p); !errors.Is(err, ErrNotFound) {
		t.Errorf("absent slot error = %v", err)
	}
}

func TestInspector_ReadWrite(t *testing.T) {
	in := NewInspector(testDevice(t))
	p, _ := ParsePath("motor_speed")

	if _, ok, err := in.Read(p); err != nil || ok {
		t.Fatalf("Read before write: ok=%v err=%v", ok, err)
	}
	if err := in.Write(p, "Insane"); err != nil {
		t.Fatalf("Write: %v", err)
	}
	v, ok, err := in.Read(p)
	if err != nil || !ok || v != "Insane" {
		t.Errorf("Read = %v, %v, %v", v, ok, err)
	}
	if err := in.Write(p, "Turbo"); !errors.Is(err, entity.ErrInvalidOption) {
		t.Errorf("Write invalid option error = %v", err)
	}

	all, _ := ParsePath("select")
	if _, _, err := in.Read(all); !errors.Is(err, ErrInvalidPath) {
		t.Errorf("Read partial error = %v", err)
	}
}

func TestFormatValue(t *testing.T) {
	f := &Formatter{}
	tests := []struct {
		value any
		unit  string
		want  string
	}{
		{nil, "", "null"},
		{true, "", "true"},
		{42.0, "%", "42 %"},
		{-67.5, "dBm", "-67.5 dBm"},
		{"closed", "", `"closed"`},
		{uint8(3), "", "3"},
	}
	for _, tt := range tests {
		if got := f.FormatValue(tt.value, tt.unit); got != tt.want {
			t.Errorf("FormatValue(%v, %q) = %q, want %q", tt.value, tt.unit, got, tt.want)
		}
	}
}

func TestFormatDevice(t *testing.T) {
	dev := testDevice(t)
	out := NewFormatter().FormatDevice(dev)

	for _, want := range []string{
		"device (5 entities, 1 triggers)\n",
		"  binary_sensor:\n",
		`    is_connected "Is connected" (diagnostic, class=connectivity`,
		`    battery_level "Battery level" (diagnostic, class=battery, unit=%`,
		"range=[0..5]/1",
		"options=3",
		"  triggers:\n    on_paired_action on paired -> logger.log\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	// Platforms appear in schema order.
	if strings.Index(out, "binary_sensor:") > strings.Index(out, "select:") {
		t.Errorf("unexpected platform order:\n%s", out)
	}
}

func TestFormatEntity_State(t *testing.T) {
	dev := testDevice(t)
	n, _ := dev.Entity("battery_level")
	f := &Formatter{ShowState: true}

	if got := f.FormatEntity(n); got != `battery_level "Battery level" = <unset>` {
		t.Errorf("FormatEntity = %q", got)
	}
	if err := n.SetState(80); err != nil {
		t.Fatal(err)
	}
	if got := f.FormatEntity(n); got != `battery_level "Battery level" = 80 %` {
		t.Errorf("FormatEntity = %q", got)
	}
}

func TestFormatOptions(t *testing.T) {
	dev := testDevice(t)
	n, _ := dev.Entity("motor_speed")
	got := NewFormatter().FormatOptions(n)
	want := "  [0] Standard\n  [1] Insane\n  [2] Gentle\n"
	if got != want {
		t.Errorf("FormatOptions = %q, want %q", got, want)
	}
}
