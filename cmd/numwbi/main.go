/*
Numwbi starts an interactive numwb session.

It reads commands from stdin and applies them to a running problem-solving
session, printing output to stdout until the "QUIT" command is given.

Usage:

	numwbi [flags]

The flags are:

	-v, --version
		Give the current version of numwb and then exit.

	-d, --direct
		Force reading directly from the console as opposed to using GNU
		readline based routines for reading command input even if launched
		in a tty with stdin and stdout.

	-c, --command COMMANDS
		Immediately run the given command(s) at start. Can be multiple
		commands separated by the ";" character.

Once a session has started, type HELP for a list of commands. To exit,
type QUIT.
*/
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/halvardsen/numwb"
	"github.com/halvardsen/numwb/internal/version"
	"github.com/spf13/pflag"
)

const (
	ExitSuccess = iota
	ExitSessionError
	ExitInitError
)

var (
	returnCode   = ExitSuccess
	flagVersion  = pflag.BoolP("version", "v", false, "Gives the version info")
	forceDirect  = pflag.BoolP("direct", "d", false, "Force reading directly from stdin instead of going through GNU readline where possible")
	startCommand = pflag.StringP("command", "c", "", "Execute the given commands immediately at start and leave the interpreter open")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occurred: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	var startCommands []string
	if *startCommand != "" {
		startCommands = strings.Split(*startCommand, ";")
	}

	eng, initErr := numwb.New(os.Stdin, os.Stdout, *forceDirect)
	if initErr != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", initErr.Error())
		returnCode = ExitInitError
		return
	}
	defer eng.Close()

	if err := eng.RunUntilQuit(startCommands); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitSessionError
		return
	}
}
