package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/anirudh-chai/subtitles-transliterator/internal/config"
)

// promptBaseDir asks for the base folder interactively, defaulting to
// fallback. Off a terminal the fallback is used directly so piped and
// scripted invocations never hang on a prompt.
func promptBaseDir(cmd *cobra.Command, fallback string) (string, error) {
	if !stdinIsTerminal() {
		return fallback, nil
	}

	out := cmd.OutOrStdout()
	reader := bufio.NewReader(cmd.InOrStdin())
	for {
		fmt.Fprintf(out, "Base folder with subtitle collections [%s]: ", fallback)
		line, err := reader.ReadString('\n')
		if err != nil {
			if errors.Is(err, io.EOF) {
				return fallback, nil
			}
			return "", err
		}
		value := strings.TrimSpace(line)
		if value == "" {
			value = fallback
		}
		expanded, err := config.ExpandPath(value)
		if err != nil {
			return "", err
		}
		info, statErr := os.Stat(expanded)
		if statErr != nil || !info.IsDir() {
			fmt.Fprintf(out, "Not a directory: %s\n", expanded)
			continue
		}
		return expanded, nil
	}
}

func stdinIsTerminal() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
