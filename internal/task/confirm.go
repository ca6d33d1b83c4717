package task

import (
	"context"
	"fmt"

	"github.com/mrz1836/transit/internal/domain"
	transiterrors "github.com/mrz1836/transit/internal/errors"
)

// ConfirmConfig describes a parent task whose units are confirmed by the user
// one by one when a console is available.
type ConfirmConfig struct {
	Name domain.TaskName
	Skip SkipPolicy

	// Units are the candidate tasks, executed in order.
	Units []*Task

	// ConfirmAll, when set, is asked once first. Yes runs every unit without
	// further prompts; No falls back to per-unit prompts.
	ConfirmAll string

	// Prompt renders the per-unit question. Defaults to "Migrate <name>?".
	Prompt func(unit *Task) string

	Policy Policy
}

// NewConfirm builds an interactive confirmation task. Without an interactive
// console every unit runs. A declined unit is recorded as skipped; an
// AnswerError repeats the same question until it is resolved.
func NewConfirm(cfg ConfirmConfig) (*Task, error) {
	units := append([]*Task(nil), cfg.Units...)
	prompt := cfg.Prompt
	if prompt == nil {
		prompt = func(unit *Task) string {
			return fmt.Sprintf("Migrate %s?", unit.Name())
		}
	}

	run := func(ctx context.Context, tc *Context) (domain.TaskResult, error) {
		if !tc.IsInteractive() {
			return runAll(ctx, tc, units, cfg.Policy)
		}

		if cfg.ConfirmAll != "" && len(units) > 0 {
			answer, err := confirm(ctx, tc, cfg.ConfirmAll)
			if err != nil {
				return domain.TaskResult{}, err
			}
			if answer == AnswerYes {
				return runAll(ctx, tc, units, cfg.Policy)
			}
		}

		for _, unit := range units {
			answer, err := confirm(ctx, tc, prompt(unit))
			if err != nil {
				return domain.TaskResult{}, err
			}
			if answer == AnswerNo {
				tc.Skip(unit)
				continue
			}
			if _, err := tc.Execute(ctx, unit); err != nil {
				return domain.TaskResult{}, err
			}
		}
		return cfg.Policy.Reduce(tc), nil
	}

	return New(Config{Name: cfg.Name, Skip: cfg.Skip, Run: run})
}

func runAll(ctx context.Context, tc *Context, units []*Task, policy Policy) (domain.TaskResult, error) {
	for _, unit := range units {
		if _, err := tc.Execute(ctx, unit); err != nil {
			return domain.TaskResult{}, err
		}
	}
	return policy.Reduce(tc), nil
}

// confirm asks until the console returns yes or no.
func confirm(ctx context.Context, tc *Context, message string) (Answer, error) {
	console := tc.Console()
	for {
		answer, err := console.Confirm(ctx, message)
		if err != nil {
			return AnswerError, err
		}
		switch answer {
		case AnswerYes, AnswerNo:
			tc.logger.Debug().
				Str("question", message).
				Str("answer", answer.String()).
				Msg("confirmation answered")
			return answer, nil
		case AnswerError:
			tc.logger.Warn().Str("question", message).Msg("unrecognized answer, asking again")
		default:
			return AnswerError, fmt.Errorf("%w: %d", transiterrors.ErrUnexpectedAnswer, int(answer))
		}
	}
}
