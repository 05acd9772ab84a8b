// Package numwb contains a CLI-driven engine for getting commands and
// advancing an interactive problem-solving session continuously until the
// user quits.
package numwb

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/dekarrin/rosed"
	"github.com/halvardsen/numwb/internal/config"
	"github.com/halvardsen/numwb/internal/input"
	"github.com/halvardsen/numwb/internal/problems"
	"github.com/halvardsen/numwb/internal/util"
)

// commandReader is implemented by both input.DirectCommandReader and
// input.InteractiveCommandReader.
type commandReader interface {
	ReadCommand() (string, error)
	AllowBlank(bool)
	Close() error
}

// Engine contains the things needed to run an interactive problem-solving
// session from an input stream and an output stream.
type Engine struct {
	in          commandReader
	out         *bufio.Writer
	forceDirect bool
	running     bool

	kind   problems.Kind
	params problems.Params
}

const consoleOutputWidth = 80

// New creates a new Engine ready to operate on the given input and output
// streams.
//
// If nil is given for the input stream, a bufio.Reader is opened on stdin.
// If nil is given for the output stream, a bufio.Writer is opened on
// stdout.
func New(inputStream io.Reader, outputStream io.Writer, forceDirectInput bool) (*Engine, error) {
	if inputStream == nil {
		inputStream = os.Stdin
	}
	if outputStream == nil {
		outputStream = os.Stdout
	}

	eng := &Engine{
		out:         bufio.NewWriter(outputStream),
		forceDirect: forceDirectInput,
		params:      make(problems.Params),
	}

	useReadline := !forceDirectInput && inputStream == os.Stdin && outputStream == os.Stdout

	if useReadline {
		var err error
		eng.in, err = input.NewInteractiveReader()
		if err != nil {
			return nil, fmt.Errorf("initializing interactive-mode input reader: %w", err)
		}
	} else {
		eng.in = input.NewDirectReader(inputStream)
	}

	return eng, nil
}

// Close closes all resources associated with the Engine, including any
// readline-related resources created for interactive mode.
func (eng *Engine) Close() error {
	if eng.running {
		return fmt.Errorf("cannot close a running session")
	}
	if err := eng.in.Close(); err != nil {
		return fmt.Errorf("close command reader: %w", err)
	}
	return nil
}

func (eng *Engine) writeLine(format string, a ...interface{}) error {
	s := fmt.Sprintf(format, a...)
	s = rosed.Edit(s).Wrap(consoleOutputWidth).String()
	if _, err := eng.out.WriteString(s + "\n"); err != nil {
		return fmt.Errorf("could not write output: %w", err)
	}
	return eng.out.Flush()
}

// RunUntilQuit begins reading commands from the input stream and applying
// them to the session until the QUIT command is received.
func (eng *Engine) RunUntilQuit(startCommands []string) error {
	intro := "numwb interactive workbench\n"
	if eng.forceDirect {
		intro += "(direct input mode)\n"
	}
	intro += "============================\n\nType HELP for a list of commands."
	if err := eng.writeLine("%s", intro); err != nil {
		return err
	}

	eng.running = true
	defer func() { eng.running = false }()

	for _, c := range startCommands {
		if !eng.running {
			break
		}
		if err := eng.dispatch(strings.TrimSpace(c)); err != nil {
			return err
		}
	}

	eng.in.AllowBlank(false)
	for eng.running {
		line, err := eng.in.ReadCommand()
		if err != nil {
			if err == io.EOF {
				break
			}
			return fmt.Errorf("read command: %w", err)
		}

		if err := eng.dispatch(line); err != nil {
			return err
		}
	}

	return eng.writeLine("Goodbye")
}

func (eng *Engine) dispatch(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}

	verb := strings.ToUpper(fields[0])
	args := fields[1:]

	switch verb {
	case "QUIT", "EXIT":
		eng.running = false
		return nil
	case "HELP":
		return eng.cmdHelp()
	case "KINDS":
		return eng.cmdKinds()
	case "KIND":
		return eng.cmdKind(args)
	case "LOAD":
		return eng.cmdLoad(args)
	case "SET":
		return eng.cmdSet(args)
	case "SHOW":
		return eng.cmdShow()
	case "SOLVE":
		return eng.cmdSolve()
	default:
		return eng.writeLine("Unrecognized command %q. Type HELP for a list of commands.", fields[0])
	}
}

func (eng *Engine) cmdHelp() error {
	return eng.writeLine(
		"Commands:\n" +
			"  KINDS               list every registered problem kind\n" +
			"  KIND <name>          select the problem kind to solve\n" +
			"  LOAD <path>          load a preset file, setting kind and params\n" +
			"  SET <key>=<value>    set a parameter on the current problem\n" +
			"  SHOW                 show the current kind and parameters\n" +
			"  SOLVE                dispatch the current kind and parameters\n" +
			"  QUIT                 exit the session",
	)
}

func (eng *Engine) cmdKinds() error {
	kinds := problems.Kinds()
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return eng.writeLine("Registered problem kinds: %s", util.MakeTextList(names))
}

func (eng *Engine) cmdKind(args []string) error {
	if len(args) != 1 {
		return eng.writeLine("Usage: KIND <name>")
	}
	kind := problems.Kind(strings.ToLower(args[0]))
	if !problems.Registered(kind) {
		return eng.writeLine("Unknown problem kind %q. Type KINDS to list valid kinds.", args[0])
	}
	eng.kind = kind
	return eng.writeLine("Kind set to %q", kind)
}

func (eng *Engine) cmdLoad(args []string) error {
	if len(args) != 1 {
		return eng.writeLine("Usage: LOAD <path>")
	}
	preset, err := config.LoadPresetFile(args[0])
	if err != nil {
		return eng.writeLine("Could not load preset: %s", err.Error())
	}
	eng.kind = preset.Kind
	eng.params = preset.Params
	return eng.writeLine("Loaded preset %q (kind %q) from %s", preset.Name, preset.Kind, args[0])
}

func (eng *Engine) cmdSet(args []string) error {
	if len(args) != 1 || !strings.Contains(args[0], "=") {
		return eng.writeLine("Usage: SET <key>=<value>")
	}
	kv := strings.SplitN(args[0], "=", 2)
	key, raw := kv[0], kv[1]
	eng.params[key] = parseParamValue(raw)
	return eng.writeLine("%s = %v", key, eng.params[key])
}

func parseParamValue(raw string) any {
	raw = strings.TrimSpace(raw)

	if strings.HasPrefix(raw, "[") && strings.HasSuffix(raw, "]") {
		inner := strings.TrimSuffix(strings.TrimPrefix(raw, "["), "]")
		parts := strings.Split(inner, ",")
		out := make([]any, len(parts))
		for i, p := range parts {
			out[i] = parseParamValue(strings.TrimSpace(p))
		}
		return out
	}

	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}

	return raw
}

func (eng *Engine) cmdShow() error {
	if eng.kind == "" {
		return eng.writeLine("No kind selected. Use KIND or LOAD to select one.")
	}

	keys := make([]string, 0, len(eng.params))
	for k := range eng.params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Kind: %s\nParams:\n", eng.kind)
	for _, k := range keys {
		fmt.Fprintf(&sb, "  %s = %v\n", k, eng.params[k])
	}
	return eng.writeLine("%s", strings.TrimRight(sb.String(), "\n"))
}

func (eng *Engine) cmdSolve() error {
	if eng.kind == "" {
		return eng.writeLine("No kind selected. Use KIND or LOAD to select one.")
	}

	res, err := problems.Run(eng.kind, eng.params)
	if err != nil {
		return eng.writeLine("Solve failed: %s", err.Error())
	}

	return eng.writeLine("Result: %s", formatResult(res))
}

// formatResult renders whichever field of res its Kind populated, matching
// the same kind-to-field mapping the HTTP service uses to build its JSON
// response body.
func formatResult(res problems.Result) string {
	switch res.Kind {
	case problems.Area:
		t := res.Triangle
		return fmt.Sprintf("area=%g ab_x=%g ac_x=%g bc_x=%g", t.Area, t.ABx, t.ACx, t.BCx)
	case problems.Golden, problems.Penalty:
		m := res.Minimum1
		return fmt.Sprintf("x=%g y=%g", m.X, m.Y)
	case problems.Gradient:
		m := res.MinimumN
		return fmt.Sprintf("x=%v y=%g", m.X, m.Y)
	case problems.Spline:
		return fmt.Sprintf("%d piecewise-cubic segments", len(res.Spline.Coefficients()))
	default:
		return fmt.Sprintf("%d samples", res.Table.Len())
	}
}
