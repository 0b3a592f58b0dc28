// Command taskcheck evaluates a gameplay log against a task's
// configured conditions and prints the result byte and signature code
// (spec.md §6).
//
// Usage:
//
//	taskcheck <config-file> <task-id> <salt> <log-file>
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog"

	"github.com/kestrel-play/taskcheck/checker"
	"github.com/kestrel-play/taskcheck/log"
)

var version = "dev"

type options struct {
	Version func() `short:"V" long:"version" description:"Print version and exit"`
	Verbose bool   `short:"v" long:"verbose" description:"Log progress to stderr"`

	Args struct {
		ConfigFile string `positional-arg-name:"config-file" description:"Top-level manifest file" required:"true"`
		TaskID     string `positional-arg-name:"task-id" description:"Task name to check against" required:"true"`
		Salt       string `positional-arg-name:"salt" description:"Signing salt (signed 32-bit integer)" required:"true"`
		LogFile    string `positional-arg-name:"log-file" description:"Gameplay log to evaluate" required:"true"`
	} `positional-args:"yes"`
}

func main() {
	os.Exit(run(os.Args))
}

// run implements the documented exit-code contract directly (spec.md
// §6): exit 99 if argc != 5 or if go-flags rejects the arguments,
// otherwise the library's own result code (0 success, 1 bad
// parameters, 2 format error).
func run(args []string) int {
	if len(args) != 5 {
		return 99
	}

	var opts options
	opts.Version = func() {
		fmt.Printf("taskcheck %s\n", version)
		os.Exit(0)
	}

	parser := flags.NewParser(&opts, flags.Default&^flags.PrintErrors)
	parser.Name = "taskcheck"
	parser.LongDescription = "Evaluate a gameplay log against a task's configured conditions"

	if _, err := parser.ParseArgs(args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 99
	}

	if opts.Verbose {
		zlog := zerolog.New(os.Stderr).With().Timestamp().Logger()
		log.SetLogger(log.NewZerologAdapter(zlog))
	}

	salt, err := strconv.ParseInt(opts.Args.Salt, 10, 32)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid salt %q: %v\n", opts.Args.Salt, err)
		fmt.Println("Program checking error:", 1)
		fmt.Println("Result code:", 0)
		return 1
	}

	h, err := checker.Init(opts.Args.ConfigFile)
	if err != nil {
		return reportError(err)
	}
	defer checker.Free(h)

	result, sig, err := checker.Check(h, opts.Args.TaskID, int32(salt), opts.Args.LogFile)
	if err != nil {
		return reportError(err)
	}

	fmt.Println("Checking completed!")
	fmt.Printf("Result code: %d\n", result)
	fmt.Printf("Code string: %s\n", sig)
	return 0
}

func reportError(err error) int {
	code := checker.Code(err)
	fmt.Println("Program checking error:", code)
	fmt.Println("Result code:", 0)
	fmt.Fprintln(os.Stderr, err)
	return code
}
