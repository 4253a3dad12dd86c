package commands

import (
	"fmt"
	"io"

	"github.com/nuki-esphome/nuki-go/pkg/buildplan"
	"github.com/nuki-esphome/nuki-go/pkg/compiler"
)

// PlanOptions configures the plan command.
type PlanOptions struct {
	commonFlags
	Variant string
	Format  string
	File    string
}

// RunPlan runs the plan command.
func RunPlan(args []string, stdout, stderr io.Writer) int {
	opts, err := parsePlanArgs(args)
	if err != nil {
		return parseError(err, stderr, printPlanUsage)
	}

	logger, err := opts.logger(stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}

	res, code := compileFile(opts.File, compiler.Options{
		Variant:       opts.Variant,
		SchemaVersion: opts.Schema,
		StopAfter:     compiler.StagePlan,
		Logger:        logger,
	}, stderr)
	if code != exitSuccess {
		return code
	}

	switch opts.Format {
	case "text":
		fmt.Fprint(stdout, res.Plan.String())
	case "platformio":
		fmt.Fprint(stdout, res.Plan.PlatformIO())
	case "sdkconfig":
		if res.Plan.Variant != buildplan.VariantIDF {
			fmt.Fprintf(stderr, "Error: sdkconfig output requires the %s variant\n", buildplan.VariantIDF)
			return exitCommandError
		}
		fmt.Fprint(stdout, res.Plan.SDKConfig())
	default:
		fmt.Fprintf(stderr, "Error: unknown format %q\n", opts.Format)
		return exitCommandError
	}
	return exitSuccess
}

func parsePlanArgs(args []string) (PlanOptions, error) {
	fs := newFlagSet("plan")
	opts := PlanOptions{}
	opts.register(fs)
	fs.StringVar(&opts.Variant, "variant", "", "Platform variant: esp-idf or arduino")
	fs.StringVar(&opts.Format, "format", "text", "Output format: text, platformio, sdkconfig")

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

func printPlanUsage(w io.Writer) {
	fmt.Fprintln(w, `
Usage: nuki-compile plan [options] <file>

Options:
  --variant NAME   Override esp32.framework.type (esp-idf, arduino)
  --format FMT     text (default), platformio, sdkconfig

Examples:
  nuki-compile plan front-door.yaml
  nuki-compile plan --variant esp-idf --format sdkconfig front-door.yaml`)
}
