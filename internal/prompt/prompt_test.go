package prompt

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"
)

func TestNextCount(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []int
	}{
		{"single", "1\n", []int{1}},
		{"max", "3\n", []int{255}},
		{"exit", "0\n", []int{0}},
		{"prompted", "2\n17\n", []int{17}},
		{"prompted clamps high", "2\n1000\n", []int{255}},
		{"prompted clamps low", "2\n-4\n", []int{0}},
		{"prompted garbage", "2\nmany\n", []int{0}},
		{"sequence", "1\n3\n2\n5\n0\n", []int{1, 255, 5, 0}},
		{"unknown then valid", "9\n1\n", []int{1}},
		{"eof", "", []int{0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewConsolePrompter(strings.NewReader(tt.input), io.Discard)
			for i, want := range tt.want {
				got, err := p.NextCount(context.Background())
				if err != nil {
					t.Fatalf("NextCount #%d: %v", i, err)
				}
				if got != want {
					t.Fatalf("NextCount #%d = %d, want %d", i, got, want)
				}
			}
		})
	}
}

func TestMenuOnlyWhenInteractive(t *testing.T) {
	var out bytes.Buffer
	p := NewConsolePrompter(strings.NewReader("1\n"), &out)
	if p.Interactive {
		t.Fatal("a string reader is not a terminal")
	}
	if _, err := p.NextCount(context.Background()); err != nil {
		t.Fatalf("NextCount: %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("non-interactive prompter printed %q", out.String())
	}

	out.Reset()
	p = NewConsolePrompter(strings.NewReader("3\n"), &out)
	p.Interactive = true
	if _, err := p.NextCount(context.Background()); err != nil {
		t.Fatalf("NextCount: %v", err)
	}
	if !strings.Contains(out.String(), "3) Get all jobs (255) from server") {
		t.Fatalf("menu missing, got %q", out.String())
	}
}

func TestNextCountCancelled(t *testing.T) {
	reader, writer := io.Pipe()
	defer writer.Close()

	p := NewConsolePrompter(reader, io.Discard)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := p.NextCount(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("error = %v, want deadline exceeded", err)
	}
}

func TestConfirmRetry(t *testing.T) {
	p := NewConsolePrompter(strings.NewReader("\n"), io.Discard)
	if err := p.ConfirmRetry(context.Background(), errors.New("refused")); err != nil {
		t.Fatalf("first retry: %v", err)
	}
	if err := p.ConfirmRetry(context.Background(), errors.New("refused")); !errors.Is(err, ErrInputClosed) {
		t.Fatalf("retry at EOF error = %v, want ErrInputClosed", err)
	}
}

func TestClampCount(t *testing.T) {
	tests := map[string]int{
		"0":    0,
		"1":    1,
		" 42 ": 42,
		"255":  255,
		"256":  255,
		"-1":   0,
		"":     0,
		"x":    0,
	}
	for in, want := range tests {
		if got := ClampCount(in); got != want {
			t.Errorf("ClampCount(%q) = %d, want %d", in, got, want)
		}
	}
}
