package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/nuki-esphome/nuki-go/pkg/compiler"
	"github.com/nuki-esphome/nuki-go/pkg/config"
)

// ValidateOptions configures the validate command.
type ValidateOptions struct {
	commonFlags
	JSON  bool
	Files []string
}

// ValidationOutput is the result for one file.
type ValidationOutput struct {
	Valid    bool          `json:"valid"`
	Schema   string        `json:"schema,omitempty"`
	Settings int           `json:"settings,omitempty"`
	Errors   []IssueOutput `json:"errors,omitempty"`
}

// IssueOutput is one validation problem.
type IssueOutput struct {
	Code    string `json:"code"`
	Key     string `json:"key,omitempty"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
}

// RunValidate runs the validate command.
func RunValidate(args []string, stdout, stderr io.Writer) int {
	opts, err := parseValidateArgs(args)
	if err != nil {
		return parseError(err, stderr, printValidateUsage)
	}

	if len(opts.Files) == 0 {
		fmt.Fprintln(stderr, "Error: no files specified")
		printValidateUsage(stderr)
		return exitCommandError
	}

	logger, err := opts.logger(stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}

	exitCode := exitSuccess
	results := make(map[string]*ValidationOutput)
	for _, file := range opts.Files {
		res, err := compiler.CompileFile(file, compiler.Options{
			SchemaVersion: opts.Schema,
			StopAfter:     compiler.StageValidate,
			Logger:        logger,
		})
		out := validationOutput(res, err)
		results[file] = out

		switch {
		case err == nil:
		case compiler.IsInvalid(err):
			exitCode = max(exitCode, exitValidation)
		default:
			// Schema selection problems are usage errors, but a later
			// invalid file still wins.
			if exitCode == exitSuccess {
				exitCode = exitCommandError
			}
		}

		if !opts.JSON {
			printValidationResult(stdout, file, out)
		}
	}

	if opts.JSON {
		output, _ := json.MarshalIndent(results, "", "  ")
		fmt.Fprintln(stdout, string(output))
	}
	return exitCode
}

func validationOutput(res *compiler.Result, err error) *ValidationOutput {
	out := &ValidationOutput{Valid: err == nil}
	if res != nil && res.Schema != nil {
		out.Schema = res.Schema.Version()
	}
	if err == nil {
		out.Settings = res.Config.Len()
		return out
	}

	var verr *config.ValidationError
	if errors.As(err, &verr) {
		for _, fe := range verr.Errors {
			out.Errors = append(out.Errors, IssueOutput{
				Code:    fe.Code(),
				Key:     fe.Key,
				Message: fe.Error(),
				Line:    fe.Line,
			})
		}
		return out
	}

	code := "ERROR"
	var serr *compiler.StageError
	if errors.As(err, &serr) {
		code = string(serr.Stage)
	}
	out.Errors = append(out.Errors, IssueOutput{Code: code, Message: err.Error()})
	return out
}

func printValidationResult(w io.Writer, file string, result *ValidationOutput) {
	if result.Valid {
		fmt.Fprintf(w, "%s: OK (%d settings, schema %s)\n", file, result.Settings, result.Schema)
		return
	}

	fmt.Fprintf(w, "%s: FAILED (%d errors)\n", file, len(result.Errors))
	for _, e := range result.Errors {
		if e.Line > 0 {
			fmt.Fprintf(w, "  ERROR [line %d] %s: %s\n", e.Line, e.Code, e.Message)
		} else {
			fmt.Fprintf(w, "  ERROR %s: %s\n", e.Code, e.Message)
		}
	}
}

func parseValidateArgs(args []string) (ValidateOptions, error) {
	fs := newFlagSet("validate")
	opts := ValidateOptions{}
	opts.register(fs)
	fs.BoolVar(&opts.JSON, "json", false, "Output results as JSON")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	opts.Files = fs.Args()
	return opts, nil
}

func printValidateUsage(w io.Writer) {
	fmt.Fprintln(w, `
Usage: nuki-compile validate [options] <files...>

Options:
  --json            Output results as JSON
  --schema VERSION  Validate against a specific schema version
  --log-level LVL   Log level (default: warn)

Examples:
  nuki-compile validate front-door.yaml
  nuki-compile validate --json *.yaml`)
}
