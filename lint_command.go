package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ByLCY/asslint/ass"
	"github.com/ByLCY/asslint/checks"
	"github.com/ByLCY/asslint/config"
	"github.com/ByLCY/asslint/layout"
	"github.com/ByLCY/asslint/lint"
	"github.com/ByLCY/asslint/logging"
	canvasrenderer "github.com/ByLCY/asslint/renderer/canvas"
	"github.com/ByLCY/asslint/report"
)

const watchDebounce = 300 * time.Millisecond

// fileOutcome 是单个文件的检查结果。
type fileOutcome struct {
	report report.FileReport
	// failures 为运行中出错的检查。
	failures []error
	layout   *layout.FileLayout
}

// linter 持有一次命令调用共享的配置。每个文件使用独立的渲染器。
type linter struct {
	cfg         *config.Config
	logger      *slog.Logger
	withLayout  bool
	newRenderer func(fontsDir string) layout.Renderer
}

func newLinter(cfg *config.Config, logger *slog.Logger, withLayout bool) *linter {
	return &linter{
		cfg:        cfg,
		logger:     logger,
		withLayout: withLayout,
		newRenderer: func(fontsDir string) layout.Renderer {
			return canvasrenderer.NewRenderer(fontsDir)
		},
	}
}

func (l *linter) lintFile(ctx context.Context, path string) (fileOutcome, error) {
	out := fileOutcome{report: report.FileReport{Path: path}}
	logger := logging.WithRun(l.logger, path)

	doc, err := ass.ParseFile(path)
	if err != nil {
		return out, fmt.Errorf("解析字幕失败: %w", err)
	}
	r := l.newRenderer(l.cfg.FontsDir)
	lctx, err := lint.NewContext(doc, lint.ContextOptions{
		Path:     path,
		FontsDir: l.cfg.FontsDir,
		Language: l.cfg.Language,
		Renderer: r,
		Logger:   logger,
	})
	if err != nil {
		return out, fmt.Errorf("初始化检查失败: %w", err)
	}

	runner := &lint.Runner{
		Registrations: checks.Registrations(),
		Thorough:      l.cfg.Thorough,
		Disabled:      l.cfg.Disable,
		Logger:        logger,
	}
	started := time.Now()
	for res, err := range runner.Run(lctx) {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return out, ctxErr
		}
		if err != nil {
			logger.Error("检查执行失败", "error", err)
			out.failures = append(out.failures, err)
			continue
		}
		out.report.Results = append(out.report.Results, res)
	}
	logger.Debug("文件检查完成", "results", len(out.report.Results), "elapsed", time.Since(started))

	if l.withLayout {
		fl, err := layout.Inspect(r, path, logger)
		if err != nil {
			return out, fmt.Errorf("布局测量失败: %w", err)
		}
		out.layout = fl
	}
	return out, nil
}

// lintAll 并发检查所有文件，结果按参数顺序返回。
func (l *linter) lintAll(ctx context.Context, paths []string) ([]fileOutcome, error) {
	outcomes := make([]fileOutcome, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(l.cfg.Jobs, 1))
	for i, path := range paths {
		g.Go(func() error {
			outcome, err := l.lintFile(gctx, path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			outcomes[i] = outcome
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

func runLint(cmd *cobra.Command, opts *rootOptions, args []string) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}
	logger, err := logging.NewFromConfig(cfg, opts.debug, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("初始化日志失败: %w", err)
	}

	stdout := cmd.OutOrStdout()
	writer, err := report.NewWriter(stdout, report.Options{
		Format:    cfg.Format,
		Template:  cfg.Template,
		Color:     report.ShouldColor(cfg.Color, asFile(stdout)),
		ShowDebug: opts.debug,
	})
	if err != nil {
		return err
	}

	l := newLinter(cfg, logger, opts.debugLayout != "")
	ctx := cmd.Context()
	err = lintAndReport(ctx, l, writer, args, opts.debugLayout)
	if !opts.watch {
		return err
	}
	if err != nil {
		logger.Error("检查失败", "error", err)
	}

	logger.Info("开始监听文件变化", "files", len(args))
	return watchFiles(ctx, args, watchDebounce, logger, func(changed []string) {
		if err := lintAndReport(ctx, l, writer, changed, opts.debugLayout); err != nil {
			logger.Error("重新检查失败", "error", err)
		}
	})
}

func lintAndReport(ctx context.Context, l *linter, writer *report.Writer, paths []string, debugLayout string) error {
	outcomes, err := l.lintAll(ctx, paths)
	if err != nil {
		return err
	}

	reports := make([]report.FileReport, 0, len(outcomes))
	failed := 0
	debugReport := &layout.DebugReport{}
	for _, o := range outcomes {
		reports = append(reports, o.report)
		failed += len(o.failures)
		if o.layout != nil {
			debugReport.Files = append(debugReport.Files, *o.layout)
		}
	}
	if err := writer.Write(reports); err != nil {
		return fmt.Errorf("输出结果失败: %w", err)
	}

	if debugLayout != "" {
		if err := writeDebug(debugReport, debugLayout); err != nil {
			return err
		}
	}
	if failed > 0 {
		return errChecksFailed
	}
	return nil
}

func writeDebug(debugReport *layout.DebugReport, debugPath string) error {
	if err := os.MkdirAll(filepath.Dir(debugPath), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	if err := layout.WriteDebugJSON(debugReport, debugPath); err != nil {
		return fmt.Errorf("输出调试 JSON 失败: %w", err)
	}
	return nil
}

func asFile(w io.Writer) *os.File {
	if f, ok := w.(*os.File); ok {
		return f
	}
	return nil
}
