//go:build !tinygo

// Command mkflash writes an emulated flash image with a folder counter
// record already in place.
package main

import (
	"fmt"
	"os"

	"cartreader/hal"
	"cartreader/internal/storage"

	"github.com/urfave/cli"
)

func main() {
	cliApp := cli.NewApp()
	cliApp.Name = "mkflash"
	cliApp.Usage = "write an emulated flash image with a folder counter"
	cliApp.Flags = []cli.Flag{
		cli.StringFlag{Name: "out, o", Value: "cartreader.flash", Usage: "output image path"},
		cli.UintFlag{Name: "size", Value: 64 * 1024, Usage: "image size in bytes"},
		cli.UintFlag{Name: "erase", Value: 4096, Usage: "erase block size in bytes"},
		cli.UintFlag{Name: "folder", Usage: "initial folder counter"},
	}
	cliApp.Action = func(c *cli.Context) error {
		if c.String("out") == "" {
			return cli.NewExitError("--out is required", 2)
		}
		return run(c.String("out"), uint32(c.Uint("size")), uint32(c.Uint("erase")), uint32(c.Uint("folder")))
	}

	if err := cliApp.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(outPath string, flashSize, eraseSize, folder uint32) error {
	ff, err := hal.CreateFileFlash(outPath, flashSize, eraseSize)
	if err != nil {
		return err
	}
	defer func() { _ = ff.Close() }()

	store, err := storage.NewFlash(ff)
	if err != nil {
		return err
	}
	if err := store.StoreFolder(folder); err != nil {
		return err
	}

	got, err := store.LoadFolder()
	if err != nil {
		return fmt.Errorf("verify: %w", err)
	}
	if got != folder {
		return fmt.Errorf("verify: read back %d, want %d", got, folder)
	}
	return nil
}
