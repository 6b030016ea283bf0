package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ByLCY/asslint/checks"
	"github.com/ByLCY/asslint/config"
)

// errChecksFailed 表示至少一个检查在运行中出错，输出照常完成但退出码为 1。
var errChecksFailed = errors.New("部分检查执行失败，详见日志")

type rootOptions struct {
	configPath  string
	full        bool
	debug       bool
	fontsDir    string
	language    string
	format      string
	template    string
	color       string
	jobs        int
	disable     []string
	watch       bool
	debugLayout string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "asslint [flags] FILE...",
		Short:         "检查 ASS 字幕的排版与文字问题",
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(cmd, opts, args)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "配置文件路径（默认 ./asslint.toml 或 ~/.config/asslint/config.toml）")
	flags.BoolVarP(&opts.debug, "debug", "d", false, "输出调试级别的日志与检查结果")
	flags.StringVar(&opts.fontsDir, "fonts-dir", "", "字体目录，覆盖配置与 "+config.FontsDirEnv)

	local := cmd.Flags()
	local.BoolVarP(&opts.full, "full", "f", false, "同时运行耗时的检查")
	local.StringVar(&opts.language, "language", "", "字幕未声明 Language 时使用的语言")
	local.StringVar(&opts.format, "format", "", "输出格式：text、table、json 或 yaml")
	local.StringVar(&opts.template, "template", "", "text 格式的逐行模板，例如 '${file}:${event.number}: ${message}'")
	local.StringVar(&opts.color, "color", "", "着色：auto、always 或 never")
	local.IntVarP(&opts.jobs, "jobs", "j", 0, "并发检查的文件数")
	local.StringSliceVar(&opts.disable, "disable", nil, "禁用的检查名称（可重复）")
	local.BoolVarP(&opts.watch, "watch", "w", false, "文件变化时重新检查")
	local.StringVar(&opts.debugLayout, "debug-layout", "", "将测量数据写入指定 JSON 文件")

	cmd.AddCommand(newFrameCommand(opts))
	cmd.AddCommand(newChecksCommand())
	cmd.AddCommand(newConfigCommand())
	return cmd
}

// loadConfig 读取配置文件，再用显式传入的命令行参数覆盖。
func loadConfig(cmd *cobra.Command, opts *rootOptions) (*config.Config, error) {
	cfg, _, _, err := config.Load(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("加载配置失败: %w", err)
	}

	changed := func(name string) bool {
		f := cmd.Flags().Lookup(name)
		return f != nil && f.Changed
	}
	if changed("fonts-dir") {
		dir, err := config.ExpandPath(opts.fontsDir)
		if err != nil {
			return nil, fmt.Errorf("解析字体目录失败: %w", err)
		}
		cfg.FontsDir = dir
	}
	if changed("full") {
		cfg.Thorough = opts.full
	}
	if changed("language") {
		cfg.Language = strings.TrimSpace(opts.language)
	}
	if changed("format") {
		cfg.Format = strings.ToLower(strings.TrimSpace(opts.format))
	}
	if changed("template") {
		cfg.Template = opts.template
	}
	if changed("color") {
		cfg.Color = strings.ToLower(strings.TrimSpace(opts.color))
	}
	if changed("jobs") {
		cfg.Jobs = opts.jobs
	}
	if changed("disable") {
		cfg.Disable = append(cfg.Disable, opts.disable...)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.CheckDisabled(checks.Names()); err != nil {
		return nil, err
	}
	return cfg, nil
}
