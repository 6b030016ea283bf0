package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ByLCY/asslint/ass"
	"github.com/ByLCY/asslint/layout"
	"github.com/ByLCY/asslint/renderer"
	canvasrenderer "github.com/ByLCY/asslint/renderer/canvas"
)

func newFrameCommand(opts *rootOptions) *cobra.Command {
	var at, output string

	cmd := &cobra.Command{
		Use:   "frame FILE",
		Short: "将指定时刻的字幕画面渲染为 PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			ms, err := ass.ParseTimestamp(at)
			if err != nil {
				return fmt.Errorf("解析时间失败: %w", err)
			}
			target := output
			if target == "" {
				target = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + ".pdf"
			}

			var r renderer.Renderer = canvasrenderer.NewRenderer(cfg.FontsDir)
			if err := renderFrame(r, args[0], ms, target); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "已生成 PDF：%s\n", target)
			return nil
		},
	}

	cmd.Flags().StringVar(&at, "at", "0:00:00.00", "渲染时刻（H:MM:SS.cc）")
	cmd.Flags().StringVarP(&output, "out", "o", "", "PDF 输出路径（默认与字幕同名）")
	return cmd
}

// renderFrame 串联解析、绑定与渲染。
func renderFrame(r renderer.Renderer, inputPath string, ms int, outputPath string) error {
	doc, err := ass.ParseFile(inputPath)
	if err != nil {
		return fmt.Errorf("解析字幕失败: %w", err)
	}
	if err := layout.BindDocument(r, doc); err != nil {
		return fmt.Errorf("绑定渲染器失败: %w", err)
	}
	pdfBytes, err := r.Snapshot(ms)
	if err != nil {
		return fmt.Errorf("渲染 PDF 失败: %w", err)
	}
	if dir := filepath.Dir(outputPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("创建输出目录失败: %w", err)
		}
	}
	if err := os.WriteFile(outputPath, pdfBytes, 0o644); err != nil {
		return fmt.Errorf("写入 PDF 文件失败: %w", err)
	}
	return nil
}
