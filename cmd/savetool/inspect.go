package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kingpin/v2"
	"github.com/dustin/go-humanize"

	"github.com/andreyvit/savecodec"
	"github.com/andreyvit/savecodec/session"
)

type inspectCommand struct {
	env    *env
	file   string
	format string
}

func addInspectCommand(app *kingpin.Application, e *env) {
	cmd := &inspectCommand{env: e}
	c := app.Command("inspect", "Decode a save file and print its contents.").Action(cmd.run)
	c.Arg("file", "Save file.").Required().ExistingFileVar(&cmd.file)
	c.Flag("format", "Save format; picked from the file when empty.").StringVar(&cmd.format)
}

func (cmd *inspectCommand) run(*kingpin.ParseContext) error {
	s := cmd.env.open(cmd.file, cmd.format, nil)
	fmt.Printf("%s: %s, %s\n", cmd.file, s.Format(), humanize.Bytes(uint64(len(s.Encode()))))
	fmt.Print(savecodec.Dump(s.Root()))
	return nil
}

// open decodes path into a session, printing the failing bytes on a decode
// error.
func (e *env) open(path, format string, opts *session.Options) *session.Session {
	data := readFile(path)
	var o session.Options
	if opts != nil {
		o = *opts
	}
	o.Format = format
	o.Logger = e.logger
	s, err := session.Open(context.Background(), filepath.Base(path), data, o)
	if err != nil {
		var de *savecodec.DataError
		if errors.As(err, &de) {
			fmt.Fprint(os.Stderr, savecodec.HexDumpAround(data, de.Off, 4))
		}
		exitWithErr(err)
	}
	return s
}
