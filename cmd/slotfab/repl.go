package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/natefinch/atomic"
	"github.com/peterh/liner"

	"github.com/calvinalkan/slotfactory"
	"github.com/calvinalkan/slotfactory/internal/blueprint"
	"github.com/calvinalkan/slotfactory/internal/cli"
)

// replCommands drives both the dispatch switch and tab completion.
var replCommands = []string{
	"def", "load", "build", "named", "new",
	"show", "get", "set", "items", "layouts",
	"stats", "reset", "export", "help", "exit", "quit",
}

// REPL is an interactive slotfactory session: a private layout cache, the
// layouts defined so far, and every instance built, addressable by index.
type REPL struct {
	o       *cli.IO
	cache   *slotfactory.Cache
	layouts map[string]*slotfactory.Layout

	// layoutOrder keeps 'layouts' output stable.
	layoutOrder []string

	instances []*slotfactory.Instance
	liner     *liner.State
}

func newREPL(o *cli.IO) *REPL {
	return &REPL{
		o:       o,
		cache:   slotfactory.NewCache(),
		layouts: make(map[string]*slotfactory.Layout),
	}
}

// historyFile returns the path to the history file.
func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, ".slotfab_history")
}

// loadBlueprints resolves a blueprint file into the session's layouts.
func (r *REPL) loadBlueprints(path string) error {
	defs, err := blueprint.Load(path)
	if err != nil {
		return err
	}

	layouts, err := blueprint.Resolve(defs)
	if err != nil {
		return err
	}

	for _, def := range defs {
		r.registerLayout(def.Name, layouts[def.Name])
	}

	r.o.Printf("loaded %d layout(s) from %s\n", len(defs), path)

	return nil
}

func (r *REPL) registerLayout(name string, layout *slotfactory.Layout) {
	if _, exists := r.layouts[name]; !exists {
		r.layoutOrder = append(r.layoutOrder, name)
	}

	r.layouts[name] = layout
}

func (r *REPL) completer(line string) []string {
	var out []string

	for _, c := range replCommands {
		if strings.HasPrefix(c, strings.ToLower(line)) {
			out = append(out, c)
		}
	}

	return out
}

// Run starts the REPL loop.
func (r *REPL) Run() error {
	r.liner = liner.NewLiner()
	defer r.liner.Close()

	r.liner.SetCtrlCAborts(true)
	r.liner.SetCompleter(r.completer)

	if f, err := os.Open(historyFile()); err == nil {
		r.liner.ReadHistory(f)
		f.Close()
	}

	r.o.Println("slotfab - slotfactory REPL")
	r.o.Println("Type 'help' for available commands.")
	r.o.Println()

	for {
		line, err := r.liner.Prompt("slotfab> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				r.o.Println("\nBye!")

				break
			}

			return fmt.Errorf("reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		r.liner.AppendHistory(line)

		parts := strings.Fields(line)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "exit", "quit", "q":
			r.o.Println("Bye!")

			r.saveHistory()

			return nil

		case "help", "?":
			r.printHelp()

		case "def":
			r.cmdDef(args)

		case "load":
			r.cmdLoad(args)

		case "build":
			r.cmdBuild(args, false)

		case "named":
			r.cmdBuild(args, true)

		case "new":
			r.cmdNew(args)

		case "show":
			r.cmdShow(args)

		case "get":
			r.cmdGet(args)

		case "set":
			r.cmdSet(args)

		case "items":
			r.cmdItems(args)

		case "layouts":
			r.cmdLayouts()

		case "stats":
			r.cmdStats()

		case "reset":
			r.cache.Reset()
			r.o.Println("cache reset (defined layouts kept)")

		case "export":
			r.cmdExport(args)

		default:
			r.o.Printf("Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}

	r.saveHistory()

	return nil
}

// saveHistory persists command history to disk.
func (r *REPL) saveHistory() {
	path := historyFile()
	if path == "" {
		return
	}

	f, err := os.Create(path)
	if err != nil {
		return
	}
	defer f.Close()

	_, _ = r.liner.WriteHistory(f)
}

func (r *REPL) printHelp() {
	r.o.Println("Commands:")
	r.o.Println("  def <Name> <f1,f2,...> [frozen] [sorted]   Define a layout")
	r.o.Println("  load <file.jsonc>                          Load blueprint definitions")
	r.o.Println("  build <Name> [f=v...]                      Hash-keyed factory build")
	r.o.Println("  named <Name> [f=v...]                      Name-keyed factory build")
	r.o.Println("  new <Name> [f=v...]                        Instantiate a defined layout")
	r.o.Println("  show <idx>                                 Print instance #idx")
	r.o.Println("  get <idx> <field>                          Read one field")
	r.o.Println("  set <idx> <field> <value>                  Write one field")
	r.o.Println("  items <idx>                                List (field, value) pairs in order")
	r.o.Println("  layouts                                    List defined layouts")
	r.o.Println("  stats                                      Show cache occupancy")
	r.o.Println("  reset                                      Drop all cached layouts")
	r.o.Println("  export <path>                              Write instances as JSON (atomic)")
	r.o.Println("  exit / quit / q                            Exit")
}

func (r *REPL) cmdDef(args []string) {
	if len(args) < 2 {
		r.o.Println("usage: def <Name> <f1,f2,...> [frozen] [sorted]")
		return
	}

	spec := slotfactory.LayoutSpec{
		Name:   args[0],
		Fields: strings.Split(args[1], ","),
	}

	for _, opt := range args[2:] {
		switch strings.ToLower(opt) {
		case "frozen":
			spec.Frozen = true
		case "sorted":
			spec.Order = slotfactory.OrderSorted
		default:
			r.o.Printf("unknown option %q (want frozen|sorted)\n", opt)
			return
		}
	}

	layout, err := slotfactory.DefineLayout(spec)
	if err != nil {
		r.o.Println("error:", err)
		return
	}

	r.registerLayout(args[0], layout)
	r.o.Printf("defined %s%v\n", layout.Name(), layout.Fields())
}

func (r *REPL) cmdLoad(args []string) {
	if len(args) != 1 {
		r.o.Println("usage: load <file.jsonc>")
		return
	}

	if err := r.loadBlueprints(args[0]); err != nil {
		r.o.Println("error:", err)
	}
}

func (r *REPL) cmdBuild(args []string, named bool) {
	if len(args) < 1 {
		r.o.Println("usage: build|named <Name> [field=value...]")
		return
	}

	fields, err := parseFieldArgs(args[1:])
	if err != nil {
		r.o.Println("error:", err)
		return
	}

	var inst *slotfactory.Instance

	if named {
		inst, err = r.cache.BuildNamed(args[0], fields...)
	} else {
		inst, err = r.cache.Build(args[0], fields...)
	}

	if err != nil {
		r.o.Println("error:", err)
		return
	}

	r.instances = append(r.instances, inst)
	r.o.Printf("#%d %s\n", len(r.instances)-1, inst)
}

func (r *REPL) cmdNew(args []string) {
	if len(args) < 1 {
		r.o.Println("usage: new <Name> [field=value...]")
		return
	}

	layout, ok := r.layouts[args[0]]
	if !ok {
		r.o.Printf("no layout %q (use 'def' or 'load' first)\n", args[0])
		return
	}

	fields, err := parseFieldArgs(args[1:])
	if err != nil {
		r.o.Println("error:", err)
		return
	}

	inst, err := slotfactory.Instantiate(layout, fields...)
	if err != nil {
		r.o.Println("error:", err)
		return
	}

	r.instances = append(r.instances, inst)
	r.o.Printf("#%d %s\n", len(r.instances)-1, inst)
}

func (r *REPL) instanceArg(args []string) (*slotfactory.Instance, bool) {
	if len(args) < 1 {
		return nil, false
	}

	idx, err := strconv.Atoi(args[0])
	if err != nil || idx < 0 || idx >= len(r.instances) {
		r.o.Printf("no instance #%s (have 0..%d)\n", args[0], len(r.instances)-1)
		return nil, false
	}

	return r.instances[idx], true
}

func (r *REPL) cmdShow(args []string) {
	if len(args) != 1 {
		r.o.Println("usage: show <idx>")
		return
	}

	inst, ok := r.instanceArg(args)
	if !ok {
		return
	}

	r.o.Println(inst)
}

func (r *REPL) cmdGet(args []string) {
	if len(args) != 2 {
		r.o.Println("usage: get <idx> <field>")
		return
	}

	inst, ok := r.instanceArg(args)
	if !ok {
		return
	}

	v, err := inst.Get(args[1])
	if err != nil {
		r.o.Println("error:", err)
		return
	}

	r.o.Printf("%v\n", v)
}

func (r *REPL) cmdSet(args []string) {
	if len(args) != 3 {
		r.o.Println("usage: set <idx> <field> <value>")
		return
	}

	inst, ok := r.instanceArg(args)
	if !ok {
		return
	}

	if err := inst.Set(args[1], parseValue(args[2])); err != nil {
		r.o.Println("error:", err)
		return
	}

	r.o.Println(inst)
}

func (r *REPL) cmdItems(args []string) {
	if len(args) != 1 {
		r.o.Println("usage: items <idx>")
		return
	}

	inst, ok := r.instanceArg(args)
	if !ok {
		return
	}

	for _, item := range inst.Items() {
		r.o.Printf("  %-12s %v\n", item.Field, item.Value)
	}
}

func (r *REPL) cmdLayouts() {
	if len(r.layoutOrder) == 0 {
		r.o.Println("no layouts defined")
		return
	}

	for _, name := range r.layoutOrder {
		layout := r.layouts[name]
		r.o.Printf("  %-20s fields=%v frozen=%v ordered=%v\n",
			name, layout.Fields(), layout.Frozen(), layout.Ordered())
	}
}

func (r *REPL) cmdStats() {
	stats := r.cache.Stats()
	r.o.Printf("hash-keyed layouts: %d\n", stats.HashKeyed)
	r.o.Printf("name-keyed layouts: %d\n", stats.NameKeyed)
	r.o.Printf("instances built:    %d\n", len(r.instances))
}

// cmdExport writes all built instances to a JSON file. The write is atomic:
// either the full file appears or nothing changes.
func (r *REPL) cmdExport(args []string) {
	if len(args) != 1 {
		r.o.Println("usage: export <path>")
		return
	}

	type exported struct {
		Layout string         `json:"layout"`
		Fields map[string]any `json:"fields"`
	}

	out := make([]exported, 0, len(r.instances))
	for _, inst := range r.instances {
		out = append(out, exported{
			Layout: inst.Layout().Name(),
			Fields: inst.ToMap(),
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		r.o.Println("error:", err)
		return
	}

	data = append(data, '\n')

	if err := atomic.WriteFile(args[0], bytes.NewReader(data)); err != nil {
		r.o.Println("error:", err)
		return
	}

	r.o.Printf("wrote %d instance(s) to %s\n", len(out), args[0])
}

// parseFieldArgs turns field=value tokens into factory fields. Values are
// parsed as int, float, or bool when they look like one, string otherwise.
func parseFieldArgs(args []string) ([]slotfactory.Field, error) {
	fields := make([]slotfactory.Field, 0, len(args))

	for _, arg := range args {
		name, raw, ok := strings.Cut(arg, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("expected field=value, got %q", arg)
		}

		fields = append(fields, slotfactory.F(name, parseValue(raw)))
	}

	return fields, nil
}

func parseValue(raw string) any {
	if n, err := strconv.Atoi(raw); err == nil {
		return n
	}

	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f
	}

	if b, err := strconv.ParseBool(raw); err == nil {
		return b
	}

	return raw
}
