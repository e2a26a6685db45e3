// Package formatter re-indents submitted source code for display.
package formatter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"mock_interview_backend/internal/util"
)

const indentUnit = "    "

// Printer 语法感知的格式化器
type Printer interface {
	Print(ctx context.Context, code string) (string, error)
}

type Formatter struct {
	java Printer
}

func New(java Printer) *Formatter {
	return &Formatter{java: java}
}

// Format java 交给 Printer，失败直接返回错误，由调用方保留原文；cpp 使用花括号计数
func (f *Formatter) Format(ctx context.Context, language, code string) (string, error) {
	switch language {
	case util.LangJava:
		if f.java == nil {
			return "", errors.New("java printer is not configured")
		}
		return f.java.Print(ctx, code)
	case util.LangCpp:
		return FormatBraces(code), nil
	default:
		return "", fmt.Errorf("%w: %s", util.ErrUnsupportedLanguage, language)
	}
}

// FormatBraces 行级缩进：以 } 开头先减一层，以 { 结尾输出后加一层。
// 空行同样输出当前层级的缩进；不解析字符串和注释中的花括号。
func FormatBraces(code string) string {
	lines := strings.Split(code, "\n")
	out := make([]string, 0, len(lines))
	depth := 0

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "}") && depth > 0 {
			depth--
		}
		out = append(out, strings.Repeat(indentUnit, depth)+trimmed)
		if strings.HasSuffix(trimmed, "{") {
			depth++
		}
	}
	return strings.Join(out, "\n")
}

// CommandPrinter 通过子进程调用外部格式化工具，源码走 stdin，结果读 stdout
type CommandPrinter struct {
	Command []string
	Timeout time.Duration
}

func NewCommandPrinter(command []string, timeout time.Duration) *CommandPrinter {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &CommandPrinter{Command: command, Timeout: timeout}
}

func (p *CommandPrinter) Print(ctx context.Context, code string) (string, error) {
	if len(p.Command) == 0 {
		return "", errors.New("formatter command is empty")
	}

	ctx, cancel := context.WithTimeout(ctx, p.Timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, p.Command[0], p.Command[1:]...)
	cmd.Stdin = strings.NewReader(code)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("%w: formatter: %v", util.ErrTimeout, ctx.Err())
		}
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		return "", fmt.Errorf("formatter failed: %s", msg)
	}
	return stdout.String(), nil
}
