package errors

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"log/slog"
	"testing"
)

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "nil error", err: nil, expected: 0},
		{name: "validation", err: ValidationError("bad navbar").Build(), expected: 2},
		{name: "missing sidebar", err: NotFoundError("sidebar missing").Build(), expected: 3},
		{name: "broken links", err: LinkError("broken").Build(), expected: 4},
		{name: "config", err: ConfigError("bad yaml").Build(), expected: 7},
		{name: "render", err: RenderError("marshal").Build(), expected: 11},
		{name: "wrapped classified", err: fmt.Errorf("outer: %w", LinkError("broken").Build()), expected: 4},
		{name: "unclassified", err: stderrors.New("boom"), expected: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := adapter.ExitCodeFor(tt.err); got != tt.expected {
				t.Errorf("ExitCodeFor() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCLIErrorAdapter_HandleError(t *testing.T) {
	var out bytes.Buffer
	var code int
	adapter := NewCLIErrorAdapter(false, slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	adapter.out = &out
	adapter.exit = func(c int) { code = c }

	adapter.HandleError(LinkError("broken links found").WithContext("count", 2).Build())

	if code != 4 {
		t.Errorf("exit code = %d, want 4", code)
	}
	if got := out.String(); got != "Error: broken links found\n" {
		t.Errorf("unexpected output %q", got)
	}
}

func TestCLIErrorAdapter_FormatInternalHidesDetails(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())
	err := NewError(CategoryInternal, "nil pointer in emitter").Build()
	if got := adapter.FormatError(err); got != "Internal error occurred (use -v for details)" {
		t.Errorf("unexpected message %q", got)
	}

	verbose := NewCLIErrorAdapter(true, slog.Default())
	if got := verbose.FormatError(err); got != err.Error() {
		t.Errorf("verbose message = %q, want %q", got, err.Error())
	}
}
