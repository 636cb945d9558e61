// Package note opens vault notes in the configured editor.
package note

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/Paintersrp/periodsearch/internal/notes"
)

// Launch is a prepared editor invocation. Terminal editors are waited on,
// GUI editors are started and released.
type Launch struct {
	Command string
	Args    []string
	Wait    bool
	Silence bool
}

// Opener surfaces a note to the user.
type Opener struct {
	Editor   string
	NvimArgs string
	VaultDir string

	// start runs a launch; tests replace it.
	start func(ctx context.Context, l Launch) error
}

// NewOpener reads the active workspace's editor settings from viper.
func NewOpener() *Opener {
	return &Opener{
		Editor:   strings.TrimSpace(viper.GetString("editor")),
		NvimArgs: strings.TrimSpace(viper.GetString("nvimargs")),
		VaultDir: viper.GetString("vaultdir"),
		start:    runLaunch,
	}
}

// Open opens path in the editor. Relative paths are resolved against the vault.
func (o *Opener) Open(ctx context.Context, path string) error {
	if !filepath.IsAbs(path) && o.VaultDir != "" {
		path = filepath.Join(notes.NormalizePath(o.VaultDir), filepath.FromSlash(path))
	}

	l, err := o.LaunchFor(path)
	if err != nil {
		return err
	}

	start := o.start
	if start == nil {
		start = runLaunch
	}
	if err := start(ctx, l); err != nil {
		return fmt.Errorf("opening %s with %s: %w", path, l.Command, err)
	}
	return nil
}

// LaunchFor builds the editor command for path without running it.
func (o *Opener) LaunchFor(path string) (Launch, error) {
	switch o.Editor {
	case "nvim":
		args := strings.Fields(o.NvimArgs)
		return Launch{Command: "nvim", Args: append(args, path), Wait: true}, nil
	case "vim", "nano":
		return Launch{Command: o.Editor, Args: []string{path}, Wait: true}, nil
	case "vscode", "code":
		return guiLaunch(
			[]string{"open", "-n", "-b", "com.microsoft.VSCode", "--args", path},
			[]string{"code", path},
			[]string{"cmd", "/c", "code", path},
		)
	case "obsidian":
		uri, err := o.obsidianURI(path)
		if err != nil {
			return Launch{}, err
		}
		return guiLaunch(
			[]string{"open", uri},
			[]string{"xdg-open", uri},
			[]string{"cmd", "/c", "start", uri},
		)
	case "":
		return Launch{}, fmt.Errorf("editor not configured")
	default:
		return Launch{}, fmt.Errorf("unsupported editor: %s", o.Editor)
	}
}

func (o *Opener) obsidianURI(path string) (string, error) {
	rel, err := notes.VaultRelative(o.VaultDir, path)
	if err != nil {
		return "", fmt.Errorf("unable to determine relative path for obsidian: %w", err)
	}
	vault := filepath.Base(notes.NormalizePath(o.VaultDir))
	return fmt.Sprintf("obsidian://open?vault=%s&file=%s", url.QueryEscape(vault), url.QueryEscape(rel)), nil
}

func guiLaunch(darwin, linux, windows []string) (Launch, error) {
	var argv []string
	switch runtime.GOOS {
	case "darwin":
		argv = darwin
	case "linux":
		argv = linux
	case "windows":
		argv = windows
	default:
		return Launch{}, fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}
	return Launch{Command: argv[0], Args: argv[1:], Silence: true}, nil
}

func runLaunch(ctx context.Context, l Launch) error {
	if l.Wait && !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("%s needs an interactive terminal", l.Command)
	}

	cmd := exec.CommandContext(ctx, l.Command, l.Args...)
	if l.Silence {
		cmd.Stdout = io.Discard
		cmd.Stderr = io.Discard
	} else if l.Wait {
		cmd.Stdin = os.Stdin
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	}

	if err := cmd.Start(); err != nil {
		return err
	}
	if !l.Wait {
		return cmd.Process.Release()
	}
	return cmd.Wait()
}
