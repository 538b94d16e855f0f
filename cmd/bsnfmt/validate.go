package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ardnew/bsn/asset"
	"github.com/ardnew/bsn/bsn"
)

// Validate parses a scene file and walks its sub-scene (`@"path"`)
// references, checking that every referenced file exists and that no
// sub-scene transitively references itself. It does not resolve schematic
// type paths against a registry or decode any props, since bsnfmt has no
// knowledge of an application's registered types — that validation belongs
// to the host application's own startup path (spec §4.6 "Resolve").
type Validate struct {
	Include []string `help:"Additional directories to search for sub-scene references." name:"include" placeholder:"DIR" short:"I" type:"path"`

	Source string `arg:"" default:"-" help:"Source scene file or '-' for stdin." name:"source"`
}

// Run executes the validate command.
func (v *Validate) Run(ctx context.Context) error {
	buf, err := readSource(v.Source)
	if err != nil {
		return err
	}

	scene, err := bsn.Parse(buf)
	if err != nil {
		return err
	}

	store := asset.NewFileStore(v.Include...)
	if v.Source != "-" {
		store.AddInclude(filepath.Dir(v.Source))
	}

	seen := map[string]bool{}
	if err := walkSubScenes(ctx, store, scene.Root, seen); err != nil {
		return err
	}

	fmt.Fprintln(os.Stdout, "ok")

	return nil
}

func walkSubScenes(
	ctx context.Context,
	store *asset.FileStore,
	e *bsn.Entity,
	inFlight map[string]bool,
) error {
	for _, cfg := range e.Configs {
		if cfg.Kind != bsn.ConfigScene {
			continue
		}

		path := string(cfg.ScenePath)

		if inFlight[path] {
			return fmt.Errorf("validate: cyclic sub-scene reference at %q", path)
		}

		file, err := store.Open(ctx, path)
		if err != nil {
			return fmt.Errorf("validate: sub-scene %q: %w", path, err)
		}

		inFlight[path] = true

		sub, err := readAndParse(file)
		if err == nil {
			err = walkSubScenes(ctx, store, sub.Root, inFlight)
		}

		delete(inFlight, path)

		if err != nil {
			return err
		}
	}

	for _, child := range e.Children {
		if err := walkSubScenes(ctx, store, child, inFlight); err != nil {
			return err
		}
	}

	return nil
}

func readAndParse(file io.ReadCloser) (*bsn.Scene, error) {
	defer file.Close()

	buf, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	return bsn.Parse(buf)
}
