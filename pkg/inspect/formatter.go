package inspect

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nuki-esphome/nuki-go/pkg/entity"
	"github.com/nuki-esphome/nuki-go/pkg/schema"
)

// Formatter formats inspection output.
type Formatter struct {
	// ShowMetadata includes category, class, unit and ranges.
	ShowMetadata bool

	// ShowState includes the last published state.
	ShowState bool

	// IndentWidth is the number of spaces per indent level
	IndentWidth int
}

// NewFormatter creates a new Formatter with default settings.
func NewFormatter() *Formatter {
	return &Formatter{
		ShowMetadata: true,
		IndentWidth:  2,
	}
}

// Indent returns the content with indentation.
func (f *Formatter) Indent(depth int, content string) string {
	width := f.IndentWidth
	if width == 0 {
		width = 2
	}
	return strings.Repeat(" ", depth*width) + content
}

// FormatValue formats a value for display.
func (f *Formatter) FormatValue(value any, unit string) string {
	if value == nil {
		return "null"
	}

	var s string
	switch v := value.(type) {
	case bool:
		s = strconv.FormatBool(v)
	case string:
		return strconv.Quote(v)
	case float64:
		s = strconv.FormatFloat(v, 'f', -1, 64)
	default:
		s = fmt.Sprintf("%v", v)
	}
	if unit != "" {
		return s + " " + unit
	}
	return s
}

// FormatDevice renders the graph, one node per line grouped by platform
// in schema order, followed by the triggers.
func (f *Formatter) FormatDevice(dev *entity.DeviceNode) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "device (%d entities, %d triggers)\n", dev.Len(), len(dev.Triggers()))

	var current schema.EntityKind
	first := true
	for _, n := range dev.Entities() {
		if first || n.Kind() != current {
			current = n.Kind()
			first = false
			sb.WriteString(f.Indent(1, current.String()+":\n"))
		}
		sb.WriteString(f.Indent(2, f.FormatEntity(n)))
		sb.WriteString("\n")
	}

	if triggers := dev.Triggers(); len(triggers) > 0 {
		sb.WriteString(f.Indent(1, "triggers:\n"))
		for _, t := range triggers {
			line := fmt.Sprintf("%s on %s -> %s", t.Key, t.Event, strings.Join(t.Actions, ", "))
			sb.WriteString(f.Indent(2, line))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// FormatEntity renders one node on a single line.
func (f *Formatter) FormatEntity(n *entity.EntityNode) string {
	opts := n.Options()
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %q", n.Key(), opts.Name)

	if f.ShowMetadata {
		var meta []string
		if opts.Category != schema.CategoryNone {
			meta = append(meta, string(opts.Category))
		}
		if opts.DeviceClass != "" {
			meta = append(meta, "class="+opts.DeviceClass)
		}
		if opts.Unit != "" {
			meta = append(meta, "unit="+opts.Unit)
		}
		if opts.Icon != "" {
			meta = append(meta, "icon="+opts.Icon)
		}
		switch n.Kind() {
		case schema.EntityNumber:
			meta = append(meta, fmt.Sprintf("range=[%s..%s]/%s",
				f.FormatValue(opts.Min, ""), f.FormatValue(opts.Max, ""), f.FormatValue(opts.Step, "")))
		case schema.EntitySelect:
			meta = append(meta, fmt.Sprintf("options=%d", len(opts.Choices)))
		}
		if opts.Internal {
			meta = append(meta, "internal")
		}
		if opts.DisabledByDefault {
			meta = append(meta, "disabled")
		}
		if len(meta) > 0 {
			sb.WriteString(" (" + strings.Join(meta, ", ") + ")")
		}
	}

	if f.ShowState {
		if v, ok := n.State(); ok {
			sb.WriteString(" = " + f.FormatValue(v, opts.Unit))
		} else {
			sb.WriteString(" = <unset>")
		}
	}
	return sb.String()
}

// FormatOptions renders a select node's choices with their indices.
func (f *Formatter) FormatOptions(n *entity.EntityNode) string {
	choices := n.Options().Choices
	if len(choices) == 0 {
		return f.Indent(1, "(no options)")
	}
	var sb strings.Builder
	for i, c := range choices {
		sb.WriteString(f.Indent(1, fmt.Sprintf("[%d] %s\n", i, c)))
	}
	return sb.String()
}
