package formatter

import (
	"context"
	"errors"
	"os/exec"
	"testing"
	"time"

	"mock_interview_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingPrinter struct{}

func (failingPrinter) Print(ctx context.Context, code string) (string, error) {
	return "", errors.New("syntax error at line 1")
}

func TestFormatBraces(t *testing.T) {
	in := "int main() {\nif (x) {\nreturn 1;\n} else {\nreturn 2;\n}\n}"
	want := "int main() {\n" +
		"    if (x) {\n" +
		"        return 1;\n" +
		"    } else {\n" +
		"        return 2;\n" +
		"    }\n" +
		"}"
	assert.Equal(t, want, FormatBraces(in))
}

func TestFormatBracesReindentsAndFloorsDepth(t *testing.T) {
	in := "}\n      }\nint x;\n\n   struct A {\n\t\tint a;\n  };"
	want := "}\n}\nint x;\n\nstruct A {\n    int a;\n};"
	assert.Equal(t, want, FormatBraces(in))
}

func TestFormatBracesIndentsBlankLinesInsideBlocks(t *testing.T) {
	in := "int main() {\nint a;\n\nreturn a;\n}"
	want := "int main() {\n    int a;\n    \n    return a;\n}"
	assert.Equal(t, want, FormatBraces(in))
}

func TestFormatBracesMidLineBraces(t *testing.T) {
	in := "void f() {\nputs(\"{\");\nx();\n}"
	want := "void f() {\n    puts(\"{\");\n    x();\n}"
	assert.Equal(t, want, FormatBraces(in))
}

func TestFormatUnsupportedLanguage(t *testing.T) {
	_, err := New(nil).Format(context.Background(), "python", "print(1)")
	assert.ErrorIs(t, err, util.ErrUnsupportedLanguage)
}

func TestFormatJavaPrinterFailureIsReturned(t *testing.T) {
	code := "class A { void f( }"
	out, err := New(failingPrinter{}).Format(context.Background(), util.LangJava, code)
	require.Error(t, err)
	assert.Empty(t, out)
	assert.Equal(t, "class A { void f( }", code)
}

func TestCommandPrinter(t *testing.T) {
	if _, err := exec.LookPath("cat"); err != nil {
		t.Skip("cat not available")
	}
	p := NewCommandPrinter([]string{"cat"}, time.Second)
	out, err := New(p).Format(context.Background(), util.LangJava, "class A {}\n")
	require.NoError(t, err)
	assert.Equal(t, "class A {}\n", out)
}

func TestCommandPrinterFailure(t *testing.T) {
	if _, err := exec.LookPath("false"); err != nil {
		t.Skip("false not available")
	}
	_, err := NewCommandPrinter([]string{"false"}, time.Second).Print(context.Background(), "class A {}")
	assert.Error(t, err)

	_, err = NewCommandPrinter(nil, time.Second).Print(context.Background(), "class A {}")
	assert.Error(t, err)
}
