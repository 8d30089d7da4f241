package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/alecthomas/kingpin/v2"
	"github.com/dustin/go-humanize"

	"github.com/andreyvit/savecodec/backup"
)

type backupCommand struct {
	env  *env
	name string
	sum  string
	out  string
	keep int
}

func addBackupCommand(app *kingpin.Application, e *env) {
	cmd := &backupCommand{env: e}
	bk := app.Command("backup", "Manage save backups.")

	list := bk.Command("list", "List backed-up versions of a save, newest first.").Action(cmd.list)
	list.Arg("name", "Save name (the file's base name).").Required().StringVar(&cmd.name)

	restore := bk.Command("restore", "Write a backed-up version to a file.").Action(cmd.restore)
	restore.Arg("name", "Save name.").Required().StringVar(&cmd.name)
	restore.Arg("sum", "Version checksum as printed by list.").Required().StringVar(&cmd.sum)
	restore.Arg("out", "Output file.").Required().StringVar(&cmd.out)

	prune := bk.Command("prune", "Delete all but the newest versions of a save.").Action(cmd.prune)
	prune.Arg("name", "Save name.").Required().StringVar(&cmd.name)
	prune.Flag("keep", "Versions to keep (overrides config).").Default("-1").IntVar(&cmd.keep)
}

func (cmd *backupCommand) list(*kingpin.ParseContext) error {
	store := cmd.env.openBackups(true)
	defer store.Close()

	metas, err := store.List(cmd.name)
	if err != nil {
		return err
	}
	if len(metas) == 0 {
		fmt.Printf("%s: no backups\n", cmd.name)
		return nil
	}
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, m := range metas {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", m.SumString(), m.Format, humanize.Bytes(uint64(m.Size)), humanize.Bytes(uint64(m.Stored)), humanize.Time(m.Time))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	st, err := store.Stats(cmd.name)
	if err != nil {
		return err
	}
	fmt.Printf("%d versions, %d distinct, %s stored\n", st.Versions, st.Blobs, humanize.Bytes(uint64(st.StoredSize)))
	return nil
}

func (cmd *backupCommand) restore(*kingpin.ParseContext) error {
	sum, err := backup.ParseSum(cmd.sum)
	if err != nil {
		return err
	}
	store := cmd.env.openBackups(true)
	defer store.Close()

	data, err := store.Get(cmd.name, sum)
	if err != nil {
		return err
	}
	if err := os.WriteFile(cmd.out, data, 0o644); err != nil {
		return err
	}
	fmt.Printf("%s: wrote %s\n", cmd.out, humanize.Bytes(uint64(len(data))))
	return nil
}

func (cmd *backupCommand) prune(*kingpin.ParseContext) error {
	keep := cmd.keep
	if keep < 0 {
		keep = cmd.env.cfg.Keep
	}
	store := cmd.env.openBackups(true)
	defer store.Close()

	n, err := store.Prune(context.Background(), cmd.name, keep)
	if err != nil {
		return err
	}
	fmt.Printf("%s: removed %d version(s), kept up to %d\n", cmd.name, n, keep)
	return nil
}
