package task

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/transit/internal/domain"
	transiterrors "github.com/mrz1836/transit/internal/errors"
)

type scriptedAnswer struct {
	answer Answer
	err    error
}

// scriptedConsole replays answers and records the questions asked.
type scriptedConsole struct {
	interactive bool
	answers     []scriptedAnswer
	questions   []string
}

func (c *scriptedConsole) Interactive() bool { return c.interactive }

func (c *scriptedConsole) Confirm(_ context.Context, message string) (Answer, error) {
	c.questions = append(c.questions, message)
	if len(c.answers) == 0 {
		return AnswerError, errBoom
	}
	next := c.answers[0]
	c.answers = c.answers[1:]
	return next.answer, next.err
}

func answers(as ...Answer) []scriptedAnswer {
	out := make([]scriptedAnswer, 0, len(as))
	for _, a := range as {
		out = append(out, scriptedAnswer{answer: a})
	}
	return out
}

func units(t *testing.T, ran *[]string, names ...string) []*Task {
	t.Helper()
	out := make([]*Task, 0, len(names))
	for _, name := range names {
		out = append(out, MustNew(Config{
			Name: domain.NewTaskName("configuration", "file", name),
			Run: func(context.Context, *Context) (domain.TaskResult, error) {
				*ran = append(*ran, name)
				return domain.Success(), nil
			},
		}))
	}
	return out
}

func TestConfirm(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("non-interactive runs every unit", func(t *testing.T) {
		t.Parallel()
		var ran []string
		console := &scriptedConsole{interactive: false}
		task, err := NewConfirm(ConfirmConfig{
			Name:       domain.NewTaskName("configurations"),
			Units:      units(t, &ran, "standalone.yaml", "standalone-ha.yaml"),
			ConfirmAll: "Migrate all configurations?",
		})
		require.NoError(t, err)

		exec, err := NewEngine(WithConsole(console)).Run(ctx, task)
		require.NoError(t, err)
		assert.Equal(t, []string{"standalone.yaml", "standalone-ha.yaml"}, ran)
		assert.Empty(t, console.questions)
		assert.Equal(t, domain.StatusSuccess, exec.Status())
	})

	t.Run("no console runs every unit", func(t *testing.T) {
		t.Parallel()
		var ran []string
		task, err := NewConfirm(ConfirmConfig{Name: domain.NewTaskName("configurations"), Units: units(t, &ran, "a")})
		require.NoError(t, err)

		_, err = NewEngine().Run(ctx, task)
		require.NoError(t, err)
		assert.Equal(t, []string{"a"}, ran)
	})

	t.Run("confirm all", func(t *testing.T) {
		t.Parallel()
		var ran []string
		console := &scriptedConsole{interactive: true, answers: answers(AnswerYes)}
		task, err := NewConfirm(ConfirmConfig{
			Name:       domain.NewTaskName("configurations"),
			Units:      units(t, &ran, "a", "b"),
			ConfirmAll: "Migrate all configurations?",
		})
		require.NoError(t, err)

		_, err = NewEngine(WithConsole(console)).Run(ctx, task)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, ran)
		assert.Equal(t, []string{"Migrate all configurations?"}, console.questions)
	})

	t.Run("per unit with retry and decline", func(t *testing.T) {
		t.Parallel()
		var ran []string
		console := &scriptedConsole{
			interactive: true,
			answers:     answers(AnswerError, AnswerNo, AnswerError, AnswerError, AnswerYes, AnswerNo),
		}
		task, err := NewConfirm(ConfirmConfig{
			Name:       domain.NewTaskName("configurations"),
			Units:      units(t, &ran, "a", "b"),
			ConfirmAll: "Migrate all configurations?",
			Prompt: func(unit *Task) string {
				file, _ := unit.Name().Attribute("file")
				return "Migrate " + file + "?"
			},
		})
		require.NoError(t, err)

		exec, err := NewEngine(WithConsole(console)).Run(ctx, task)
		require.NoError(t, err)
		assert.Equal(t, []string{"a"}, ran)
		assert.Equal(t, []string{
			"Migrate all configurations?",
			"Migrate all configurations?",
			"Migrate a?",
			"Migrate a?",
			"Migrate a?",
			"Migrate b?",
		}, console.questions)

		require.Len(t, exec.Subtasks, 2)
		assert.Equal(t, domain.StatusSuccess, exec.Subtasks[0].Status())
		assert.Equal(t, domain.StatusSkipped, exec.Subtasks[1].Status())
		assert.Equal(t, domain.StatusSuccess, exec.Status())
	})

	t.Run("all declined is skipped", func(t *testing.T) {
		t.Parallel()
		var ran []string
		console := &scriptedConsole{interactive: true, answers: answers(AnswerNo)}
		task, err := NewConfirm(ConfirmConfig{Name: domain.NewTaskName("configurations"), Units: units(t, &ran, "a")})
		require.NoError(t, err)

		exec, err := NewEngine(WithConsole(console)).Run(ctx, task)
		require.NoError(t, err)
		assert.Empty(t, ran)
		assert.Equal(t, []string{"Migrate configuration(file=a)?"}, console.questions)
		assert.Equal(t, domain.StatusSkipped, exec.Status())
	})

	t.Run("console failure aborts", func(t *testing.T) {
		t.Parallel()
		var ran []string
		console := &scriptedConsole{
			interactive: true,
			answers:     []scriptedAnswer{{answer: AnswerError, err: transiterrors.ErrOperationCanceled}},
		}
		task, err := NewConfirm(ConfirmConfig{Name: domain.NewTaskName("configurations"), Units: units(t, &ran, "a")})
		require.NoError(t, err)

		_, err = NewEngine(WithConsole(console)).Run(ctx, task)
		require.ErrorIs(t, err, transiterrors.ErrOperationCanceled)
		assert.Empty(t, ran)
	})

	t.Run("unexpected answer value", func(t *testing.T) {
		t.Parallel()
		var ran []string
		console := &scriptedConsole{interactive: true, answers: answers(Answer(42))}
		task, err := NewConfirm(ConfirmConfig{Name: domain.NewTaskName("configurations"), Units: units(t, &ran, "a")})
		require.NoError(t, err)

		_, err = NewEngine(WithConsole(console)).Run(ctx, task)
		require.ErrorIs(t, err, transiterrors.ErrUnexpectedAnswer)
	})
}
