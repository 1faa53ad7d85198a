package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"

	"github.com/spf13/cobra"

	"github.com/marmos91/volcat/internal/cli/prompt"
	"github.com/marmos91/volcat/internal/logger"
	"github.com/marmos91/volcat/pkg/cat"
	"github.com/marmos91/volcat/pkg/config"
	"github.com/marmos91/volcat/pkg/registry"
	"github.com/marmos91/volcat/pkg/volume"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactive shell holding a reusable volume session",
	Long: `Start an interactive shell that keeps at most one established session,
so repeated reads from the same volume skip connection setup.

Commands inside the shell:
  connect URL    establish a session (tears down any previous one)
  cat PATH       stream a file through the current session to stdout
  volumes        list configured volume exports
  disconnect     tear down the current session
  version        show version
  help           show this command list
  exit, quit     leave the shell (the session is torn down on the way out)

The --debug flag enables verbose diagnostics for the whole shell and is
inherited by every session it establishes.`,
	Args: cobra.NoArgs,
	RunE: runShell,
}

// shellState owns the shell's single session. The shell is the session
// owner: cat invocations borrow it and never tear it down.
type shellState struct {
	cfg  *config.Config
	reg  *registry.Registry
	sess *volume.Session
	out  io.Writer
	errw io.Writer
}

func runShell(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	reg, err := registry.FromConfig(cfg)
	if err != nil {
		return err
	}

	st := &shellState{cfg: cfg, reg: reg, out: cmd.OutOrStdout(), errw: cmd.ErrOrStderr()}
	defer st.disconnect()

	for {
		line, err := prompt.Line(st.promptLabel())
		if errors.Is(err, io.EOF) || errors.Is(err, prompt.ErrAborted) {
			return nil
		}
		if err != nil {
			return err
		}

		tokens, err := splitTokens(line)
		if err != nil {
			fmt.Fprintf(st.errw, "volcat: %v\n", err)
			continue
		}
		if len(tokens) == 0 {
			continue
		}

		done, err := st.dispatch(cmd.Context(), tokens)
		if err != nil {
			fmt.Fprintf(st.errw, "volcat: %v\n", err)
		}
		if done {
			return nil
		}
	}
}

func (st *shellState) promptLabel() string {
	if st.sess == nil {
		return "volcat"
	}
	t := st.sess.Target()
	return fmt.Sprintf("%s://%s/%s", volume.Scheme, t.Host, t.Volume)
}

// dispatch runs one shell command. It returns done=true when the shell
// should exit.
func (st *shellState) dispatch(ctx context.Context, tokens []string) (bool, error) {
	cmd, args := tokens[0], tokens[1:]
	switch cmd {
	case "connect":
		if len(args) != 1 {
			return false, errors.New("usage: connect URL")
		}
		return false, st.connect(ctx, args[0])

	case "cat":
		if len(args) != 1 {
			return false, errors.New("usage: cat PATH")
		}
		if st.sess == nil {
			return false, errors.New("not connected; use 'connect URL' first")
		}
		return false, cat.StreamSession(ctx, st.sess, args[0], st.out)

	case "disconnect":
		st.disconnect()
		return false, nil

	case "volumes":
		for _, name := range st.reg.Names() {
			fmt.Fprintln(st.out, name)
		}
		return false, nil

	case "version":
		fmt.Fprintf(st.out, "volcat %s\n", Version)
		return false, nil

	case "help":
		st.printHelp()
		return false, nil

	case "exit", "quit":
		return true, nil

	default:
		return false, fmt.Errorf("unknown command %q; type 'help'", cmd)
	}
}

// connect establishes a fresh session, tearing down any previous one
// first so the shell never holds more than one connection.
func (st *shellState) connect(ctx context.Context, rawURL string) error {
	target, err := volume.ParseURL(rawURL)
	if err != nil {
		return err
	}
	drv, err := st.reg.Resolve(target)
	if err != nil {
		return err
	}

	st.disconnect()

	sess, err := volume.Establish(ctx, drv, target, nil)
	if err != nil {
		return err
	}
	sess.SetChunkSize(st.cfg.ChunkSize.Int())
	if flagDebug {
		sess.EnableDebugLogging(st.errw)
	}
	st.sess = sess
	fmt.Fprintf(st.out, "connected to %s://%s/%s\n", volume.Scheme, target.Host, target.Volume)
	return nil
}

func (st *shellState) disconnect() {
	if st.sess == nil {
		return
	}
	if err := st.sess.Teardown(); err != nil {
		logger.Warn("session teardown failed", logger.KeyError, err.Error())
	}
	st.sess = nil
}

func (st *shellState) printHelp() {
	fmt.Fprint(st.out, `Commands:
  connect URL    establish a session (dfs://host[:port]/volume/path)
  cat PATH       stream a file through the current session to stdout
  volumes        list configured volume exports
  disconnect     tear down the current session
  version        show version
  help           show this command list
  exit, quit     leave the shell
`)
}

// splitTokens splits a shell line on whitespace. Double quotes group
// characters (including whitespace) into a single token; an
// unterminated quote is an error.
func splitTokens(line string) ([]string, error) {
	var tokens []string
	var cur strings.Builder
	inQuote := false
	hasToken := false

	for _, r := range line {
		switch {
		case r == '"':
			inQuote = !inQuote
			hasToken = true
		case !inQuote && unicode.IsSpace(r):
			if hasToken || cur.Len() > 0 {
				tokens = append(tokens, cur.String())
				cur.Reset()
				hasToken = false
			}
		default:
			cur.WriteRune(r)
		}
	}
	if inQuote {
		return nil, errors.New("unterminated quote")
	}
	if hasToken || cur.Len() > 0 {
		tokens = append(tokens, cur.String())
	}
	return tokens, nil
}
