package lint

import (
	"iter"
	"log/slog"
	"slices"
	"time"
)

// Runner drives registered checks over one context.
type Runner struct {
	Registrations []Registration
	Thorough      bool
	// Disabled lists check names that never run.
	Disabled []string
	Logger   *slog.Logger
}

// Run produces the graded diagnostic stream, check by check in registration
// order. Checks that fail to construct are skipped with a warning. An error
// raised while a check iterates ends that check only: it is yielded as a
// *CheckError and the next check starts.
func (r *Runner) Run(ctx *Context) iter.Seq2[Result, error] {
	logger := r.Logger
	if logger == nil {
		logger = ctx.Log()
	}
	return func(yield func(Result, error) bool) {
		for _, reg := range r.Registrations {
			if slices.Contains(r.Disabled, reg.Name) {
				logger.Debug("检查已禁用", "check", reg.Name)
				continue
			}
			if reg.Thorough && !r.Thorough {
				continue
			}
			check, err := reg.Open(ctx)
			if err != nil {
				logger.Warn("检查初始化失败，已跳过", "check", reg.Name, "error", err)
				continue
			}

			started := time.Now()
			count := 0
			for res, err := range check.Results() {
				if err != nil {
					if !yield(Result{}, &CheckError{Check: reg.Name, Err: err}) {
						return
					}
					break
				}
				res.Check = reg.Name
				count++
				if !yield(res, nil) {
					return
				}
			}
			logger.Debug("检查完成", "check", reg.Name, "results", count, "elapsed", time.Since(started))
		}
	}
}

// Collect drains a result stream.
func Collect(seq iter.Seq2[Result, error]) ([]Result, []error) {
	var results []Result
	var errs []error
	for res, err := range seq {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		results = append(results, res)
	}
	return results, errs
}
