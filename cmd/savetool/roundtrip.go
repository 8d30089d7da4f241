package main

import (
	"fmt"

	"github.com/alecthomas/kingpin/v2"
	"github.com/dustin/go-humanize"

	"github.com/andreyvit/savecodec"
)

type roundTripCommand struct {
	env    *env
	files  []string
	format string
}

func addRoundTripCommand(app *kingpin.Application, e *env) {
	cmd := &roundTripCommand{env: e}
	c := app.Command("roundtrip", "Check that decoding and re-encoding reproduces each file byte for byte.").Action(cmd.run)
	c.Arg("files", "Save files.").Required().ExistingFilesVar(&cmd.files)
	c.Flag("format", "Save format; picked from each file when empty.").StringVar(&cmd.format)
}

func (cmd *roundTripCommand) run(*kingpin.ParseContext) error {
	var failed int
	for _, path := range cmd.files {
		orig := readFile(path)
		s := cmd.env.open(path, cmd.format, nil)
		got := s.Encode()
		off := savecodec.FirstDiff(orig, got)
		if off < 0 {
			fmt.Printf("%s: ok (%s)\n", path, humanize.Bytes(uint64(len(orig))))
			continue
		}
		failed++
		fmt.Printf("%s: differs at 0x%x (read %d bytes, wrote %d)\n", path, off, len(orig), len(got))
		fmt.Printf("read:\n%s", savecodec.HexDumpAround(orig, off, 2))
		fmt.Printf("wrote:\n%s", savecodec.HexDumpAround(got, off, 2))
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files did not round-trip", failed, len(cmd.files))
	}
	return nil
}
