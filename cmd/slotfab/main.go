// slotfab is a CLI for working with slotfactory blueprints and layouts.
//
// Usage:
//
//	slotfab repl [--blueprints <file.jsonc>]    Interactive layout/instance REPL
//	slotfab check <file.jsonc>                  Validate a blueprint file
//	slotfab render <file.jsonc> <name> [k=v...] Build one instance and print it
//
// Blueprint files are JSONC (comments and trailing commas allowed); see the
// blueprint package for the format.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/slotfactory"
	"github.com/calvinalkan/slotfactory/internal/blueprint"
	"github.com/calvinalkan/slotfactory/internal/cli"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	o := cli.NewIO(os.Stdout, os.Stderr)

	commands := []*cli.Command{
		replCommand(),
		checkCommand(),
		renderCommand(),
	}

	if len(args) == 0 || args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		printUsage(o, commands)
		return 0
	}

	name := args[0]

	for _, c := range commands {
		if c.Name() == name {
			return c.Run(context.Background(), o, args[1:])
		}
	}

	o.ErrPrintln("error: unknown command:", name)
	o.ErrPrintln()
	printUsage(o, commands)

	return 1
}

func printUsage(o *cli.IO, commands []*cli.Command) {
	o.Println("Usage:", cli.Program, "<command> [arguments]")
	o.Println()
	o.Println("Commands:")

	for _, c := range commands {
		o.Println(c.HelpLine())
	}

	o.Println()
	o.Println("Run '" + cli.Program + " <command> --help' for details.")
}

func replCommand() *cli.Command {
	flags := flag.NewFlagSet("repl", flag.ContinueOnError)
	blueprints := flags.StringP("blueprints", "b", "", "blueprint file to preload layouts from")

	return &cli.Command{
		Flags: flags,
		Usage: "repl [flags]",
		Short: "Interactive layout and instance REPL",
		Long: "Start an interactive session for defining layouts and building,\n" +
			"inspecting, and mutating record instances. Type 'help' inside the\n" +
			"REPL for the command list.",
		Exec: func(_ context.Context, o *cli.IO, _ []string) error {
			r := newREPL(o)

			if *blueprints != "" {
				if err := r.loadBlueprints(*blueprints); err != nil {
					return err
				}
			}

			return r.Run()
		},
	}
}

func checkCommand() *cli.Command {
	flags := flag.NewFlagSet("check", flag.ContinueOnError)

	return &cli.Command{
		Flags: flags,
		Usage: "check <blueprints.jsonc>",
		Short: "Validate a blueprint file",
		Long: "Parse and resolve a blueprint file without building anything.\n" +
			"Exits non-zero if any definition is invalid.",
		Exec: func(_ context.Context, o *cli.IO, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("expected exactly one blueprint file, got %d arguments", len(args))
			}

			defs, err := blueprint.Load(args[0])
			if err != nil {
				return err
			}

			layouts, err := blueprint.Resolve(defs)
			if err != nil {
				return err
			}

			o.Printf("%s: %d layout(s) ok\n", args[0], len(layouts))

			for _, def := range defs {
				layout := layouts[def.Name]
				o.Printf("  %-20s fields=%v frozen=%v ordered=%v\n",
					layout.Name(), layout.Fields(), layout.Frozen(), layout.Ordered())
			}

			return nil
		},
	}
}

func renderCommand() *cli.Command {
	flags := flag.NewFlagSet("render", flag.ContinueOnError)

	return &cli.Command{
		Flags: flags,
		Usage: "render <blueprints.jsonc> <name> [field=value...]",
		Short: "Build one instance from a blueprint and print it",
		Exec: func(_ context.Context, o *cli.IO, args []string) error {
			if len(args) < 2 {
				return errors.New("expected <blueprints.jsonc> <name> [field=value...]")
			}

			defs, err := blueprint.Load(args[0])
			if err != nil {
				return err
			}

			layouts, err := blueprint.Resolve(defs)
			if err != nil {
				return err
			}

			layout, ok := layouts[args[1]]
			if !ok {
				return fmt.Errorf("no blueprint named %q in %s", args[1], args[0])
			}

			fields, err := parseFieldArgs(args[2:])
			if err != nil {
				return err
			}

			inst, err := slotfactory.Instantiate(layout, fields...)
			if err != nil {
				return err
			}

			o.Println(inst)

			return nil
		},
	}
}
