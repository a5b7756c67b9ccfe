package cli

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/morikuni/failure/v2"
	"github.com/spf13/cobra"
)

func TestPromptPassword(t *testing.T) {
	tty, err := os.Create(filepath.Join(t.TempDir(), "tty"))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	defer tty.Close()

	tests := []struct {
		name     string
		in       func() *cobra.Command
		terminal bool
		typed    string
		want     string
		wantErr  bool
	}{
		{
			name: "piped input is read as a line",
			in: func() *cobra.Command {
				cmd := &cobra.Command{}
				cmd.SetIn(strings.NewReader("hunter2\n"))
				return cmd
			},
			want: "hunter2",
		},
		{
			name: "terminal input is read without echo",
			in: func() *cobra.Command {
				cmd := &cobra.Command{}
				cmd.SetIn(tty)
				return cmd
			},
			terminal: true,
			typed:    "s3cret",
			want:     "s3cret",
		},
		{
			name: "empty terminal input",
			in: func() *cobra.Command {
				cmd := &cobra.Command{}
				cmd.SetIn(tty)
				return cmd
			},
			terminal: true,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func(isTTY func(int) bool, read func(int) ([]byte, error)) {
				isTerminal, readPassword = isTTY, read
			}(isTerminal, readPassword)
			isTerminal = func(int) bool { return tt.terminal }
			readPassword = func(int) ([]byte, error) { return []byte(tt.typed), nil }

			cmd := tt.in()
			var stderr bytes.Buffer
			cmd.SetErr(&stderr)

			got, err := promptPassword(cmd, bufio.NewReader(cmd.InOrStdin()), "Password: ")
			if tt.wantErr {
				if !failure.Is(err, InvalidArguments) {
					t.Errorf("promptPassword() error = %v, want InvalidArguments", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("promptPassword() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("promptPassword() = %q, want %q", got, tt.want)
			}
			if strings.Contains(stderr.String(), tt.want) {
				t.Errorf("password echoed to %q", stderr.String())
			}
		})
	}
}
