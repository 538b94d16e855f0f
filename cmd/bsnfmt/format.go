package main

import (
	"fmt"
	"io"
	"os"

	"github.com/ardnew/bsn/bsn"
)

// Format parses a scene file and pretty-prints it back to stdout in
// canonical BSN syntax.
type Format struct {
	Source string `arg:"" default:"-" help:"Source scene file or '-' for stdin." name:"source"`
}

// Run executes the format command.
func (f *Format) Run() error {
	buf, err := readSource(f.Source)
	if err != nil {
		return err
	}

	scene, err := bsn.Parse(buf)
	if err != nil {
		return err
	}

	fmt.Println(bsn.Print(scene))

	return nil
}

func readSource(source string) ([]byte, error) {
	if source == "-" {
		return io.ReadAll(os.Stdin)
	}

	return os.ReadFile(source)
}
