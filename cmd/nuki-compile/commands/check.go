package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/nuki-esphome/nuki-go/pkg/check"
	"github.com/nuki-esphome/nuki-go/pkg/compiler"
)

// CheckOptions configures the check command.
type CheckOptions struct {
	commonFlags
	JSON    bool
	Strict  bool
	Disable stringList
	File    string
}

type stringList []string

func (s *stringList) String() string { return fmt.Sprint(*s) }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// ViolationOutput is one consistency finding.
type ViolationOutput struct {
	Rule       string   `json:"rule"`
	Severity   string   `json:"severity"`
	Kind       string   `json:"kind"`
	Message    string   `json:"message"`
	Sections   []string `json:"sections,omitempty"`
	Suggestion string   `json:"suggestion,omitempty"`
}

// RunCheck runs the check command.
func RunCheck(args []string, stdout, stderr io.Writer) int {
	opts, err := parseCheckArgs(args)
	if err != nil {
		return parseError(err, stderr, printCheckUsage)
	}

	logger, err := opts.logger(stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}

	rules := check.NewDefaultRegistry()
	for _, id := range opts.Disable {
		if rules.Rule(id) == nil {
			fmt.Fprintf(stderr, "Error: unknown rule %s\n", id)
			return exitCommandError
		}
		if err := rules.Disable(id); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitCommandError
		}
	}
	if opts.Strict {
		for _, r := range rules.EnabledRules() {
			// Raising to error is always allowed.
			_ = rules.SetSeverity(r.ID(), check.SeverityError)
		}
	}

	// The planner needs no variant here, so stop before it and run the
	// rules directly on the validated configuration.
	res, code := compileFile(opts.File, compiler.Options{
		SchemaVersion: opts.Schema,
		StopAfter:     compiler.StageBuild,
		Logger:        logger,
	}, stderr)
	if code != exitSuccess {
		return code
	}

	report := rules.Run(res.Config, res.Document)
	if opts.JSON {
		out := make([]ViolationOutput, 0, len(report.Violations))
		for _, v := range report.Violations {
			out = append(out, ViolationOutput{
				Rule:       v.RuleID,
				Severity:   v.Severity.String(),
				Kind:       v.Kind.String(),
				Message:    v.Message,
				Sections:   v.Sections,
				Suggestion: v.Suggestion,
			})
		}
		data, _ := json.MarshalIndent(out, "", "  ")
		fmt.Fprintln(stdout, string(data))
	} else {
		fmt.Fprint(stdout, report.String())
	}

	if report.HasErrors() {
		return exitValidation
	}
	return exitSuccess
}

func parseCheckArgs(args []string) (CheckOptions, error) {
	fs := newFlagSet("check")
	opts := CheckOptions{}
	opts.register(fs)
	fs.BoolVar(&opts.JSON, "json", false, "Output violations as JSON")
	fs.BoolVar(&opts.Strict, "strict", false, "Treat every enabled rule as an error")
	fs.Var(&opts.Disable, "disable", "Disable a rule by ID (repeatable)")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	file, err := singleFile(fs)
	if err != nil {
		return opts, err
	}
	opts.File = file
	return opts, nil
}

func printCheckUsage(w io.Writer) {
	fmt.Fprintln(w, `
Usage: nuki-compile check [options] <file>

Options:
  --json          Output violations as JSON
  --strict        Treat recommendations as errors
  --disable ID    Disable a rule (repeatable)

Examples:
  nuki-compile check front-door.yaml
  nuki-compile check --strict --disable API-002 front-door.yaml`)
}
