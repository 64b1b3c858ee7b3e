package main

import "testing"

func TestRunArguments(t *testing.T) {
	t.Setenv("JOBFEED_ENV_FILE", "")
	tests := []struct {
		name string
		args []string
		want int
	}{
		{"help", []string{"--help"}, 0},
		{"no arguments", nil, 1},
		{"one argument", []string{"jobs.bin"}, 1},
		{"zero port", []string{"jobs.bin", "0"}, 1},
		{"bad port", []string{"jobs.bin", "http"}, 1},
		{"unknown flag", []string{"--verbose", "jobs.bin", "9000"}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := run(tt.args); got != tt.want {
				t.Fatalf("run(%q) = %d, want %d", tt.args, got, tt.want)
			}
		})
	}
}
