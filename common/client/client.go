package client

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/ghodss/yaml"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/bcdev/ocdb-client/api"
	"github.com/bcdev/ocdb-client/common/stats"
	"github.com/bcdev/ocdb-client/config"
)

const (
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// Client interface that includes CLI handling
type CLIClient interface {
	Exec() error
}

// SimpleClient includes base fields required for implementing client
type SimpleClient struct {
	RootCmd    *cobra.Command
	ServerURL  string
	ConfigPath string
	LogLevel   string
	Output     string
	Timeout    time.Duration
	HTTPTries  int
	PrintStats bool

	// Store overrides the file store at ConfigPath when set.
	Store config.Store
	// HTTPClient overrides the pester client when set.
	HTTPClient api.Doer
	Stats      stats.StatsReceiver
	API        *api.Client
}

// Command interface used to run client commands
type Cmd interface {
	RegisterFlags() *cobra.Command
	Run(cl *SimpleClient, cmd *cobra.Command, args []string) error
}

// Context returns a context bounded by the --timeout flag.
func (cl *SimpleClient) Context() (context.Context, context.CancelFunc) {
	if cl.Timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), cl.Timeout)
}

// Dump writes a JSON result in the selected output format. Nothing is written
// for an empty result.
func (cl *SimpleClient) Dump(w io.Writer, result json.RawMessage) error {
	if len(result) == 0 {
		return nil
	}
	var out []byte
	switch cl.Output {
	case OutputYAML:
		y, err := yaml.JSONToYAML(result)
		if err != nil {
			return errors.Wrap(err, "convert result to YAML")
		}
		out = y
	case OutputJSON, "":
		var buf bytes.Buffer
		if err := json.Indent(&buf, result, "", "  "); err != nil {
			return errors.Wrap(err, "format result")
		}
		buf.WriteByte('\n')
		out = buf.Bytes()
	default:
		return fmt.Errorf("unknown output format %q, must be %s or %s", cl.Output, OutputJSON, OutputYAML)
	}
	_, err := w.Write(out)
	return err
}

// DumpValue marshals v and writes it like Dump.
func (cl *SimpleClient) DumpValue(w io.Writer, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "encode result")
	}
	return cl.Dump(w, data)
}

// Prompter asks for missing values on the terminal.
type Prompter struct {
	in    io.Reader
	out   io.Writer
	lines *bufio.Reader
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: in, out: out, lines: bufio.NewReader(in)}
}

// Ask prints label and reads one line. Secret values are read without echo
// when the input is a terminal.
func (p *Prompter) Ask(label string, secret bool) (string, error) {
	fmt.Fprint(p.out, label)
	if f, ok := p.in.(*os.File); ok && secret && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(p.out)
		return string(b), errors.Wrap(err, "read password")
	}
	line, err := p.lines.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", errors.Wrapf(err, "read %s", strings.TrimSuffix(label, ":"))
	}
	return strings.TrimRight(line, "\r\n"), nil
}
