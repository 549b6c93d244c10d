package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/ludo-technologies/fsdscan/domain"
	"github.com/ludo-technologies/fsdscan/internal/classifier"
	"github.com/ludo-technologies/fsdscan/internal/config"
	"github.com/ludo-technologies/fsdscan/internal/constants"
	"github.com/ludo-technologies/fsdscan/internal/consumers"
	"github.com/ludo-technologies/fsdscan/internal/graph"
	"github.com/ludo-technologies/fsdscan/internal/reporter"
	"github.com/ludo-technologies/fsdscan/internal/rules"
	"github.com/ludo-technologies/fsdscan/internal/scanner"
	"github.com/ludo-technologies/fsdscan/internal/version"
)

// AuditService runs the full pipeline on one project root:
// scan, build the import graph, count consumers, evaluate rules, report.
type AuditService struct {
	progress domain.ProgressManager
	logger   *zap.Logger

	// Workers bounds parallel parsing, 0 means one per CPU
	Workers int

	// SkipRevision disables the git lookup for report metadata
	SkipRevision bool
}

// NewAuditService creates an audit service. progress and logger may be nil.
func NewAuditService(progress domain.ProgressManager, logger *zap.Logger) *AuditService {
	if progress == nil {
		progress = &NoOpProgressManager{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{progress: progress, logger: logger}
}

// NewEngine builds the rule engine configured by cfg
func NewEngine(cfg *config.Config, logger *zap.Logger) (*rules.Engine, error) {
	return rules.NewEngine(rules.Table(), rules.Overrides{
		Disabled:   cfg.Rules.Disabled,
		Priorities: cfg.PriorityOverrides(),
	}, logger)
}

// NewMatcher builds the layer matcher configured by cfg
func NewMatcher(cfg *config.Config) *classifier.LayerMatcher {
	return classifier.NewLayerMatcher(cfg.Scan.SourceRoots, cfg.Layers.Folders, cfg.Layers.Paths)
}

// Audit audits root. Scan and configuration failures are returned as fatal
// errors; everything else ends up in the report.
func (s *AuditService) Audit(ctx context.Context, root string, cfg *config.Config) (*domain.AuditReport, error) {
	report, _, err := s.AuditWithGraph(ctx, root, cfg)
	return report, err
}

// AuditWithGraph is Audit that also returns the import graph the report was
// computed from.
func (s *AuditService) AuditWithGraph(ctx context.Context, root string, cfg *config.Config) (*domain.AuditReport, *domain.Snapshot, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	engine, err := NewEngine(cfg, s.logger)
	if err != nil {
		return nil, nil, err
	}

	matcher := NewMatcher(cfg)
	cls := classifier.New(matcher)

	scan, err := scanner.New(scanner.Options{
		Ignore:           cfg.Scan.Ignore,
		RespectGitignore: cfg.Scan.RespectGitignore,
		Extensions:       cfg.Scan.Extensions,
	}, cls, s.logger).Scan(ctx, root)
	if err != nil {
		return nil, nil, err
	}
	s.logger.Debug("scan finished",
		zap.String("root", scan.Root),
		zap.Int("files", len(scan.Records)),
		zap.Int("ignored_dirs", scan.IgnoredDirs))

	snap, warnings, err := graph.NewBuilder(graph.Options{
		Aliases:     cfg.Layers.Aliases,
		MaxFileSize: cfg.Scan.MaxFileSize,
		Workers:     s.Workers,
	}, cls, s.progress, s.logger).Build(ctx, scan)
	if err != nil {
		return nil, nil, err
	}
	s.logger.Debug("graph built",
		zap.Int("modules", snap.ModuleCount()),
		zap.Int("edges", snap.EdgeCount()),
		zap.Int("warnings", len(warnings)))

	analysis := consumers.Analyze(snap, consumers.Options{
		Transitive: cfg.Consumers.Transitive,
		SharedMin:  cfg.Consumers.SharedMin,
	})

	rctx := rules.NewContext(snap, matcher, analysis, rules.Settings{
		Thresholds:     cfg.ThresholdMap(),
		NetworkModules: cfg.Responsibility.NetworkModules,
	})

	task := s.progress.StartTask("Evaluating rules", engine.EnabledCount())
	violations, ruleWarnings := engine.Evaluate(rctx)
	task.Increment(engine.EnabledCount())
	task.Complete()

	meta := domain.ReportMetadata{
		Tool:    constants.ToolName,
		Version: version.Version,
	}
	if !s.SkipRevision {
		meta.Revision = Revision(scan.Root)
	}

	report := reporter.Generate(reporter.Input{
		Root:            scan.Root,
		Snapshot:        snap,
		Violations:      violations,
		Warnings:        append(warnings, ruleWarnings...),
		FailOn:          cfg.FailOnPriority(),
		FeaturesAudited: len(rctx.Features()),
		RulesEvaluated:  engine.EnabledCount(),
		Metadata:        meta,
	})
	s.logger.Info("audit finished",
		zap.String("root", report.Root),
		zap.String("status", string(report.Status)),
		zap.Int("violations", len(report.Violations)),
		zap.Int("warnings", len(report.Warnings)))
	return report, snap, nil
}
