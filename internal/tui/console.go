package tui

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	transiterrors "github.com/mrz1836/transit/internal/errors"
	"github.com/mrz1836/transit/internal/task"
)

// Terminal layout constants.
const (
	// TerminalEdgeMargin is the number of characters to leave between
	// prompt content and the terminal edge.
	TerminalEdgeMargin = 4

	// MinPromptWidth is the minimum usable width for prompt content.
	MinPromptWidth = 40

	// DefaultPromptWidth is used when the terminal width is unknown.
	DefaultPromptWidth = 80
)

// Console asks migration confirmations with Huh forms.
type Console struct {
	width       int
	accessible  bool
	keyHints    bool
	interactive *bool
}

var _ task.Console = (*Console)(nil)

// ConsoleOption configures a Console.
type ConsoleOption func(*Console)

// WithWidth caps the prompt width. Zero adapts to the terminal.
func WithWidth(width int) ConsoleOption {
	return func(c *Console) {
		c.width = width
	}
}

// WithAccessible enables or disables Huh's accessible (line based) mode.
func WithAccessible(enabled bool) ConsoleOption {
	return func(c *Console) {
		c.accessible = enabled
	}
}

// WithKeyHints enables or disables the key hints below a prompt.
func WithKeyHints(show bool) ConsoleOption {
	return func(c *Console) {
		c.keyHints = show
	}
}

// WithInteractive overrides terminal detection.
func WithInteractive(interactive bool) ConsoleOption {
	return func(c *Console) {
		c.interactive = &interactive
	}
}

// NewConsole creates a console. Accessible mode defaults to on when the
// ACCESSIBLE environment variable is set.
func NewConsole(opts ...ConsoleOption) *Console {
	_, accessible := os.LookupEnv("ACCESSIBLE")
	c := &Console{
		width:      DefaultPromptWidth,
		accessible: accessible,
		keyHints:   true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Interactive reports whether both stdin and stdout are terminals.
func (c *Console) Interactive() bool {
	if c.interactive != nil {
		return *c.interactive
	}
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// Confirm asks a yes/no question. Aborting the prompt (Esc or Ctrl+C)
// cancels the migration with ErrOperationCanceled.
func (c *Console) Confirm(ctx context.Context, message string) (task.Answer, error) {
	if !c.Interactive() {
		return task.AnswerError, fmt.Errorf("%w: %s", transiterrors.ErrInteractiveRequired, message)
	}

	confirmed := true
	field := huh.NewConfirm().
		Title(message).
		Affirmative("Yes").
		Negative("No").
		Value(&confirmed)

	if err := c.runForm(ctx, field); err != nil {
		return task.AnswerError, err
	}
	if confirmed {
		return task.AnswerYes, nil
	}
	return task.AnswerNo, nil
}

// runForm runs a single-field form with the transit theme.
func (c *Console) runForm(ctx context.Context, field huh.Field) error {
	CheckNoColor()

	form := huh.NewForm(huh.NewGroup(field)).
		WithTheme(Theme()).
		WithWidth(adaptWidth(c.width)).
		WithAccessible(c.accessible).
		WithShowHelp(c.keyHints)

	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return transiterrors.ErrOperationCanceled
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("confirmation prompt failed: %w", err)
	}
	return nil
}

// adaptWidth returns a prompt width that fits the terminal, capped at maxWidth.
func adaptWidth(maxWidth int) int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		if maxWidth <= 0 {
			return DefaultPromptWidth
		}
		return maxWidth
	}

	available := width - TerminalEdgeMargin
	if maxWidth > 0 && maxWidth < available {
		return maxWidth
	}
	if available < MinPromptWidth {
		return MinPromptWidth
	}
	return available
}

// Theme returns a Huh theme using the transit colors.
func Theme() *huh.Theme {
	CheckNoColor()

	t := huh.ThemeBase()

	t.Focused.Base = t.Focused.Base.BorderForeground(ColorPrimary)
	t.Focused.Title = t.Focused.Title.Foreground(ColorPrimary)
	t.Focused.FocusedButton = t.Focused.FocusedButton.Background(ColorPrimary)
	t.Focused.ErrorMessage = t.Focused.ErrorMessage.Foreground(ColorError)
	t.Focused.ErrorIndicator = t.Focused.ErrorIndicator.Foreground(ColorError)

	t.Blurred.Base = t.Blurred.Base.BorderForeground(ColorMuted)
	t.Blurred.Title = t.Blurred.Title.Foreground(ColorMuted)
	t.Focused.Description = t.Focused.Description.Foreground(ColorMuted)
	t.Help.Ellipsis = t.Help.Ellipsis.Foreground(ColorMuted)

	return t
}
