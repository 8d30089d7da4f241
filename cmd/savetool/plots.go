package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/alecthomas/kingpin/v2"

	"github.com/andreyvit/savecodec/plot"
	"github.com/andreyvit/savecodec/session"
)

type plotsCommand struct {
	env     *env
	file    string
	missing bool
	sets    []string
}

func addPlotsCommand(app *kingpin.Application, e *env) {
	cmd := &plotsCommand{env: e}
	c := app.Command("plots", "List known plots of a .plot file, or change them.").Action(cmd.run)
	c.Arg("file", "Plot file.").Required().ExistingFileVar(&cmd.file)
	c.Flag("missing", "Only list known plots the file is too short to hold.").BoolVar(&cmd.missing)
	c.Flag("set", "Change a plot and save the file, e.g. bool:1530=true, int:4=120, float:7=0.5. Repeatable.").StringsVar(&cmd.sets)
}

func (cmd *plotsCommand) run(*kingpin.ParseContext) error {
	if len(cmd.sets) > 0 {
		return cmd.edit()
	}
	if cmd.env.cfg.Catalog == "" {
		return fmt.Errorf("no plot catalog configured; use --catalog or set catalog in %s", cmd.env.configPath)
	}
	cat, err := plot.LoadCatalogFile(cmd.env.cfg.Catalog)
	if err != nil {
		return err
	}
	s := cmd.env.open(cmd.file, session.PlotFormat.Name, nil)
	entries := cat.Resolve(&s.Root().(*plot.File).Table)
	if cmd.missing {
		entries = plot.Missing(entries)
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, e := range entries {
		value := fmt.Sprint(e.Value)
		if !e.Present {
			value = "-"
		}
		fmt.Fprintf(tw, "%s\t%s:%d\t%s\t%s\n", e.Category, e.Kind, e.ID, value, e.Label)
	}
	return tw.Flush()
}

func (cmd *plotsCommand) edit() error {
	var assigns []assignment
	for _, s := range cmd.sets {
		a, err := parseAssignment(s)
		if err != nil {
			return err
		}
		assigns = append(assigns, a)
	}

	store := cmd.env.openBackups(false)
	if store != nil {
		defer store.Close()
	} else {
		cmd.env.logger.Warn("saving without a backup database")
	}
	s := cmd.env.open(cmd.file, session.PlotFormat.Name, &session.Options{Backups: store})
	t := &s.Root().(*plot.File).Table
	for _, a := range assigns {
		a.apply(t)
	}
	if !s.Dirty() {
		fmt.Printf("%s: no changes\n", cmd.file)
		return nil
	}

	data, err := s.Save(context.Background())
	if err != nil {
		return err
	}
	if err := os.WriteFile(cmd.file, data, 0o644); err != nil {
		return err
	}
	fmt.Printf("%s: saved %d change(s)\n", cmd.file, len(assigns))
	return nil
}

// assignment is one --set, e.g. "int:4=120".
type assignment struct {
	kind plot.Kind
	id   int
	b    bool
	i    int32
	f    float32
}

func parseAssignment(s string) (assignment, error) {
	var a assignment
	lhs, value, ok := strings.Cut(s, "=")
	if !ok {
		return a, fmt.Errorf("--set %q: wanted kind:id=value", s)
	}
	kind, idStr, ok := strings.Cut(lhs, ":")
	if !ok {
		return a, fmt.Errorf("--set %q: wanted kind:id=value", s)
	}
	id, err := strconv.Atoi(idStr)
	if err != nil || id < 0 {
		return a, fmt.Errorf("--set %q: invalid id %q", s, idStr)
	}
	a.id = id

	switch kind {
	case "bool":
		a.kind = plot.KindBool
		a.b, err = strconv.ParseBool(value)
	case "int":
		a.kind = plot.KindInt
		var v int64
		v, err = strconv.ParseInt(value, 0, 32)
		a.i = int32(v)
	case "float":
		a.kind = plot.KindFloat
		var v float64
		v, err = strconv.ParseFloat(value, 32)
		a.f = float32(v)
	default:
		return a, fmt.Errorf("--set %q: unknown kind %q", s, kind)
	}
	if err != nil {
		return a, fmt.Errorf("--set %q: %w", s, err)
	}
	return a, nil
}

func (a assignment) apply(t *plot.Table) {
	switch a.kind {
	case plot.KindBool:
		t.SetBool(a.id, a.b)
	case plot.KindInt:
		t.SetInt(a.id, a.i)
	case plot.KindFloat:
		t.SetFloat(a.id, a.f)
	}
}
