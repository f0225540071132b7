package repl

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/ardnew/plume/cli/diag"
	"github.com/ardnew/plume/lang"
	"github.com/ardnew/plume/log"
	"github.com/ardnew/plume/pkg"
)

const defaultEditor = "vi"

// editCommand implements [tea.ExecCommand] for the edit-parse-retry loop. It
// writes content to a temp file, opens the user's editor, and parses the
// result. On a syntax error the user is prompted to re-edit; declining exits
// the program.
type editCommand struct {
	content string
	ctxFunc func() context.Context
	logger  log.Logger
	result  string
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

func (c *editCommand) SetStdin(r io.Reader)  { c.stdin = r }
func (c *editCommand) SetStdout(w io.Writer) { c.stdout = w }
func (c *editCommand) SetStderr(w io.Writer) { c.stderr = w }

// Run executes the edit loop. A result that parses is kept in c.result; an
// empty file leaves it empty. If the user declines to re-edit, Run returns
// [ErrEditDeclined].
func (c *editCommand) Run() error {
	ctx := c.ctxFunc()

	content := c.content
	if prog, err := lang.ParseString(ctx, content, lang.WithCache(false)); err == nil {
		var buf strings.Builder
		if prog.Format(&buf) == nil {
			content = buf.String()
		}
	}

	f, err := os.CreateTemp("", pkg.Name+"-repl-*"+pkg.Ext)
	if err != nil {
		return err
	}

	path := f.Name()

	defer os.Remove(path)

	if err := f.Close(); err != nil {
		return err
	}

	for {
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			return err
		}

		if err := c.runEditor(ctx, path); err != nil {
			return err
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		content = string(data)
		if strings.TrimSpace(content) == "" {
			return nil
		}

		_, parseErr := lang.ParseString(ctx, content, lang.WithCache(false))

		c.logger.TraceContext(
			ctx,
			"editor parse attempt",
			slog.Int("content_length", len(content)),
			slog.Bool("success", parseErr == nil),
		)

		if parseErr == nil {
			c.result = content

			return nil
		}

		_ = diag.NewPrinter(c.stderr).Print(path, content, parseErr)

		if !c.confirm("Re-edit? [Y/n] ") {
			return ErrEditDeclined
		}
	}
}

// confirm prompts on stdout and reports whether the answer is not "n".
func (c *editCommand) confirm(prompt string) bool {
	_, _ = io.WriteString(c.stdout, prompt)

	scanner := bufio.NewScanner(c.stdin)
	if !scanner.Scan() {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
	case "n", "no":
		return false
	}

	return true
}

// runEditor opens path in $EDITOR and waits for it to exit.
func (c *editCommand) runEditor(ctx context.Context, path string) error {
	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = defaultEditor
	}

	cmd := exec.CommandContext(ctx, editor, path)
	cmd.Stdin = c.stdin
	cmd.Stdout = c.stdout
	cmd.Stderr = c.stderr

	return cmd.Run()
}
