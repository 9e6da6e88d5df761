// faultmon watches a target's console for fault records and decodes them.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/aymanbagabas/go-pty"
	"github.com/buildkite/shellwords"

	"github.com/kroesche/cmfault/record"
)

const usageString = `faultmon watches a target's console for fault records.

Usage: %s [flags] <command>

The command is run under a pty and its output is echoed. Whenever a fault
record line shows up it is decoded and printed human-readable. Pass "-" as
the command to read a saved log from stdin instead.

`

var (
	quiet = flag.Bool("q", false, "print only decoded faults, drop the rest of the output")
	fatal = flag.Bool("e", false, "exit with status 1 if a fault was seen")
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), usageString, os.Args[0])
	flag.PrintDefaults()
}

func main() {
	log.Default().SetFlags(0)
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(1)
	}

	var in io.Reader = os.Stdin
	if cmdline := flag.Arg(0); cmdline != "-" {
		args, err := splitCommand(cmdline)
		if err != nil {
			log.Fatalln("parse command:", err)
		}

		// Run the target under a pty. Emulators and serial bridges tend
		// to line-buffer or stay silent without a terminal attached.
		ptmx, err := pty.New()
		if err != nil {
			log.Fatalln("open pty:", err)
		}
		defer ptmx.Close()

		cmd := ptmx.Command(args[0], args[1:]...)
		if err := cmd.Start(); err != nil {
			log.Fatalln("start command:", err)
		}
		defer cmd.Wait()
		in = ptmx
	}

	faults := scan(in, os.Stdout, *quiet)
	if faults > 0 {
		log.Println("faultmon:", faults, "fault(s) decoded")
		if *fatal {
			os.Exit(1)
		}
	}
}

// splitCommand splits the command line into argv, rejecting an empty one.
func splitCommand(cmdline string) ([]string, error) {
	args, err := shellwords.Split(cmdline)
	if err != nil {
		return nil, err
	}
	if len(args) == 0 {
		return nil, errors.New("empty command")
	}
	return args, nil
}

// scan echoes lines from in to out and decodes any fault records found in
// between. It returns the number of decoded faults.
func scan(in io.Reader, out io.Writer, quiet bool) int {
	faults := 0
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := scanner.Text()
		if !record.IsRecord(line) {
			if !quiet {
				fmt.Fprintln(out, line)
			}
			continue
		}
		s, err := record.Parse(line)
		if err != nil {
			log.Println("faultmon:", err)
			continue
		}
		faults++
		s.Print(out)
	}
	return faults
}
