// Command cinth runs a source file (or, with no file argument, a tiny REPL)
// through the interpreter, the same role the teacher's main.go plays for
// its own VM: flag parsing, a logio.Logger for diagnostics, and a single
// call into the library package that does the real work.
package main

import (
	"flag"
	"fmt"
	"io/ioutil"
	"os"
	"time"

	"github.com/alecthomas/repr"
	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/cinth/cinth/interp"
	"github.com/cinth/cinth/internal/flushio"
	"github.com/cinth/cinth/internal/logio"
)

func main() {
	var (
		memLimit uint
		timeout  time.Duration
		trace    bool
		dumpAST  bool
		repl     bool
		banner   bool
		useColor bool
	)
	flag.UintVar(&memLimit, "mem-limit", 0, "enable a memory address limit")
	flag.DurationVar(&timeout, "timeout", 0, "abort the run after this long")
	flag.BoolVar(&trace, "trace", false, "enable call trace logging")
	flag.BoolVar(&dumpAST, "dump-ast", false, "print the parsed AST after the run")
	flag.BoolVar(&repl, "repl", false, "read and evaluate one function body at a time")
	flag.BoolVar(&banner, "banner", false, "print a startup banner")
	flag.BoolVar(&useColor, "color", false, "color the startup banner")
	flag.Parse()

	log := logio.Logger{}
	log.SetOutput(os.Stderr)
	defer func() { os.Exit(log.ExitCode()) }()

	if banner {
		printBanner(useColor)
	}

	// Wrap stdout in a flusher so buffered program output (printf/putchar)
	// is never lost if the process exits right after the run completes.
	out := flushio.NewWriteFlusher(os.Stdout)
	defer out.Flush()

	opts := []interp.Option{
		interp.WithMemLimit(memLimit),
		interp.WithStdout(out),
		interp.WithStdin(os.Stdin),
	}
	if trace {
		tracef := log.Leveledf("TRACE")
		opts = append(opts, interp.WithTrace(tracef))
	}

	if repl || flag.NArg() == 0 {
		runREPL(&log, out, dumpAST, opts)
		return
	}

	src, err := ioutil.ReadFile(flag.Arg(0))
	if err != nil {
		log.Errorf("%s", err)
		return
	}

	runOne(&log, out, string(src), dumpAST, timeout, opts)
}

func runOne(log *logio.Logger, out flushio.WriteFlusher, src string, dumpAST bool, timeout time.Duration, opts []interp.Option) {
	done := make(chan struct{})
	var res interp.Result
	var err error
	go func() {
		res, err = interp.Run(src, opts...)
		close(done)
	}()

	if timeout > 0 {
		select {
		case <-done:
		case <-time.After(timeout):
			log.Errorf("timed out after %s", timeout)
			return
		}
	} else {
		<-done
	}

	out.Flush()
	if dumpAST && res.Program != nil {
		fmt.Fprintln(os.Stderr, repr.String(res.Program, repr.Indent("  "), repr.OmitEmpty(true)))
	}
	for _, w := range res.Warnings {
		log.Printf("WARN", "%s", w)
	}
	if err != nil {
		log.Errorf("%s", err)
		return
	}
	if res.Status != 0 {
		log.Printf("EXIT", "status %d", res.Status)
	}
}

// runREPL offers a tiny line-at-a-time mode when cinth is invoked with no
// source file: each line is wrapped in a throwaway main and evaluated on
// its own, so the user can poke at expressions and statements
// interactively without writing a full program to a file.
func runREPL(log *logio.Logger, out flushio.WriteFlusher, dumpAST bool, opts []interp.Option) {
	rl, err := readline.New("cinth> ")
	if err != nil {
		log.Errorf("%s", err)
		return
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil {
			return
		}
		if line == "" {
			continue
		}
		src := "#include <stdio.h>\nint main(){" + line + " return 0;}"
		runOne(log, out, src, dumpAST, 0, opts)
	}
}

func printBanner(useColor bool) {
	const msg = "cinth — a conservative C interpreter"
	if useColor {
		color.New(color.FgCyan, color.Bold).Fprintln(os.Stderr, msg)
		return
	}
	fmt.Fprintln(os.Stderr, msg)
}
