package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchFiles 监听字幕文件所在目录，目标文件被写入或重建后，在 debounce
// 静默期结束时以参数顺序回调 onChange。编辑器常以重命名方式保存，因此监听
// 目录而不是文件本身。ctx 取消时返回 nil。
func watchFiles(ctx context.Context, paths []string, debounce time.Duration, logger *slog.Logger, onChange func([]string)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("创建文件监听失败: %w", err)
	}
	defer w.Close()

	targets := make(map[string]string, len(paths))
	dirs := map[string]bool{}
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("解析路径失败: %w", err)
		}
		targets[abs] = p
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("监听目录 %s 失败: %w", dir, err)
		}
		dirs[dir] = true
	}

	pending := map[string]bool{}
	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			orig, ok := targets[filepath.Clean(ev.Name)]
			if !ok {
				continue
			}
			logger.Debug("检测到文件变化", "file", orig, "op", ev.Op.String())
			pending[orig] = true
			timer.Reset(debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("文件监听出错", "error", err)
		case <-timer.C:
			changed := changedInOrder(paths, pending)
			clear(pending)
			if len(changed) > 0 {
				onChange(changed)
			}
		}
	}
}

func changedInOrder(paths []string, pending map[string]bool) []string {
	var out []string
	seen := map[string]bool{}
	for _, p := range paths {
		if pending[p] && !seen[p] {
			out = append(out, p)
			seen[p] = true
		}
	}
	return out
}
