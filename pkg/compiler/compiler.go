package compiler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/nuki-esphome/nuki-go/pkg/buildplan"
	"github.com/nuki-esphome/nuki-go/pkg/check"
	"github.com/nuki-esphome/nuki-go/pkg/codegen"
	"github.com/nuki-esphome/nuki-go/pkg/config"
	"github.com/nuki-esphome/nuki-go/pkg/entity"
	"github.com/nuki-esphome/nuki-go/pkg/schema"
)

// Stage names a pipeline step.
type Stage string

// Pipeline stages, in order.
const (
	StageParse    Stage = "parse"
	StageSchema   Stage = "schema"
	StageValidate Stage = "validate"
	StageBuild    Stage = "build"
	StagePlan     Stage = "plan"
	StageCheck    Stage = "check"
	StageGenerate Stage = "generate"
)

// StageError reports the stage a compilation stopped at.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// ErrNoFramework is returned when no variant is given and the document
// has no esp32.framework.type.
var ErrNoFramework = errors.New("no framework: set esp32.framework.type or pass a variant")

// Options configure a compilation.
type Options struct {
	// Variant overrides esp32.framework.type.
	Variant string
	// SchemaVersion overrides the document's schema selector.
	SchemaVersion string
	// RunID stamps the bundle; generated when empty.
	RunID string
	// Rules replaces the default consistency rules.
	Rules *check.Registry
	// StopAfter ends the pipeline after the named stage.
	StopAfter Stage

	Logger *slog.Logger
}

// Result holds every artifact produced so far. Fields of stages that did
// not run are nil.
type Result struct {
	RunID    string
	Document *config.Document
	Schema   *schema.Registry
	Config   *config.ResolvedConfig
	Device   *entity.DeviceNode
	Variant  buildplan.Variant
	Plan     *buildplan.BuildPlan
	Report   *check.Report
	Unit     []byte
}

// Compile runs the pipeline over a YAML system document. On failure the
// partial Result is returned with a *StageError. After a StageCheck failure
// it carries the Report but no Device or Plan.
func Compile(data []byte, opts Options) (*Result, error) {
	doc, err := config.ParseDocument(data)
	if err != nil {
		return &Result{RunID: runID(opts)}, &StageError{Stage: StageParse, Err: err}
	}
	return CompileDocument(doc, opts)
}

// CompileFile reads and compiles the document at path.
func CompileFile(path string, opts Options) (*Result, error) {
	doc, err := config.ParseFile(path)
	if err != nil {
		return &Result{RunID: runID(opts)}, &StageError{Stage: StageParse, Err: err}
	}
	return CompileDocument(doc, opts)
}

// CompileDocument runs the pipeline over a parsed document.
func CompileDocument(doc *config.Document, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	res := &Result{RunID: runID(opts), Document: doc}
	logger = logger.With("run", res.RunID)
	done := func(s Stage) bool { return opts.StopAfter == s }

	if done(StageParse) {
		return res, nil
	}

	version := opts.SchemaVersion
	if version == "" {
		version = doc.SchemaVersion
	}
	if version == "" {
		version = schema.Current
	}
	reg, err := schema.Load(version)
	if err != nil {
		return res, &StageError{Stage: StageSchema, Err: err}
	}
	res.Schema = reg
	logger.Debug("schema loaded", "version", reg.Version(), "fields", reg.Len())
	if done(StageSchema) {
		return res, nil
	}

	cfg, err := doc.ValidateDevice(reg)
	if err != nil {
		return res, &StageError{Stage: StageValidate, Err: err}
	}
	res.Config = cfg
	if done(StageValidate) {
		return res, nil
	}

	dev, err := entity.Build(cfg)
	if err != nil {
		return res, &StageError{Stage: StageBuild, Err: err}
	}
	res.Device = dev
	logger.Debug("entity graph built", "entities", dev.Len(), "triggers", len(dev.Triggers()))
	if done(StageBuild) {
		return res, nil
	}

	variant, err := resolveVariant(doc, opts.Variant)
	if err != nil {
		return res, &StageError{Stage: StagePlan, Err: err}
	}
	res.Variant = variant
	plan, err := buildplan.Plan(cfg, variant, Capabilities(doc))
	if err != nil {
		return res, &StageError{Stage: StagePlan, Err: err}
	}
	res.Plan = plan
	logger.Debug("build plan", "variant", variant.String(), "entries", len(plan.Entries))
	if done(StagePlan) {
		return res, nil
	}

	rules := opts.Rules
	if rules == nil {
		rules = check.NewDefaultRegistry()
	}
	res.Report = rules.Run(cfg, doc)
	for _, v := range res.Report.Warnings() {
		logger.Warn("consistency", "rule", v.RuleID, "message", v.Message)
	}
	if err := res.Report.Err(); err != nil {
		// A rejected system keeps only its diagnostics.
		res.Device, res.Plan = nil, nil
		return res, &StageError{Stage: StageCheck, Err: err}
	}
	if done(StageCheck) {
		return res, nil
	}

	unit, err := codegen.Generate(dev, codegen.Options{Header: "run " + res.RunID})
	if err != nil {
		return res, &StageError{Stage: StageGenerate, Err: err}
	}
	res.Unit = unit
	logger.Info("compiled", "variant", variant.String(), "entities", dev.Len(), "warnings", len(res.Report.Warnings()))
	return res, nil
}

func runID(opts Options) string {
	if opts.RunID != "" {
		return opts.RunID
	}
	return uuid.NewString()
}

// Capabilities derives the planner capabilities from the system document.
func Capabilities(sys check.SystemView) buildplan.Capabilities {
	return buildplan.Capabilities{ExternalMemory: sys.Has("psram")}
}

// Framework returns esp32.framework.type, or "".
func Framework(doc *config.Document) string {
	esp32, ok := doc.Section("esp32")
	if !ok {
		return ""
	}
	fw, _ := esp32["framework"].(map[string]any)
	s, _ := fw["type"].(string)
	return s
}

func resolveVariant(doc *config.Document, override string) (buildplan.Variant, error) {
	name := override
	if name == "" {
		name = Framework(doc)
	}
	if name == "" {
		return 0, ErrNoFramework
	}
	return buildplan.ParseVariant(name)
}

// IsInvalid reports whether err is a validation or consistency failure,
// as opposed to a usage or I/O error.
func IsInvalid(err error) bool {
	var verr *config.ValidationError
	var serr *StageError
	if errors.As(err, &verr) || errors.Is(err, check.ErrIncompatibleSubsystem) || errors.Is(err, check.ErrRecommendationNotMet) {
		return true
	}
	return errors.As(err, &serr) && (serr.Stage == StageParse || serr.Stage == StageValidate)
}
