package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ByLCY/asslint/config"
)

func newConfigCommand() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "配置文件工具",
	}
	configCmd.AddCommand(newConfigInitCommand())
	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "输出示例配置，或用 --path 写入文件",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			target := strings.TrimSpace(targetPath)
			if target == "" {
				_, err := fmt.Fprint(out, config.Sample())
				return err
			}
			expanded, err := config.ExpandPath(target)
			if err != nil {
				return fmt.Errorf("解析配置路径失败: %w", err)
			}
			target = expanded

			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("配置文件已存在：%s（使用 --overwrite 覆盖）", target)
				} else if !os.IsNotExist(err) {
					return fmt.Errorf("检查配置路径失败: %w", err)
				}
			}
			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("写入示例配置失败: %w", err)
			}
			fmt.Fprintf(out, "已写入示例配置：%s\n", target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "写入位置（留空则输出到标准输出）")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "覆盖已存在的配置文件")
	return cmd
}
