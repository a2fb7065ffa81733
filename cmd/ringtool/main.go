// ringtool is a CLI utility for ring engravings: it exports meshes and
// encodes and decodes share links without opening a window.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/Faultbox/wordsring/internal/app"
	"github.com/Faultbox/wordsring/internal/config"
	"github.com/Faultbox/wordsring/internal/logger"
	"github.com/Faultbox/wordsring/internal/ring"
	"github.com/Faultbox/wordsring/internal/sharelink"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "export", "x":
		cmdExport(args)
	case "link":
		cmdLink(args)
	case "parse":
		cmdParse(args)
	case "sizes":
		cmdSizes()
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`ringtool - ring engraving utility

Usage:
  ringtool <command> [options]

Commands:
  export [options] -o <file.obj>    Build the ring and write it as OBJ
  link [options]                    Print the share link for an engraving
  parse <link>                      Decode a share link
  sizes                             List ring sizes and radii

Engraving options (export, link):
  -line1 <text>  -line2 <text>  -size <n>  -link <url>

Examples:
  ringtool export -line1 "Forever" -size 16 -o ring.obj
  ringtool link -line1 "Love" -line2 "You"
  ringtool parse 'https://wordsring.app/?{"line1":"Love","ringSize":"15"}'`)
}

// engravingFlags registers the options shared by export and link.
type engravingFlags struct {
	line1 *string
	line2 *string
	size  *int
	link  *string
}

func addEngravingFlags(fs *flag.FlagSet) engravingFlags {
	return engravingFlags{
		line1: fs.String("line1", "", "Text of line 1"),
		line2: fs.String("line2", "", "Text of line 2"),
		size:  fs.Int("size", int(ring.DefaultSize), "Ring size"),
		link:  fs.String("link", "", "Share link (overrides the other options)"),
	}
}

func (f engravingFlags) apply(cfg *config.Config) {
	cfg.Ring.Line1 = *f.line1
	cfg.Ring.Line2 = *f.line2
	cfg.Ring.Size = *f.size
	cfg.Ring.Link = *f.link
}

func cmdExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	eng := addEngravingFlags(fs)
	out := fs.String("o", "ring.obj", "Output OBJ file")
	shellDir := fs.String("shells", "", "Directory of legacy JSON ring shells")
	fontPath := fs.String("font", "", "TrueType/OpenType font file")
	timeout := fs.Duration("timeout", 30*time.Second, "Give up after this long")
	verbose := fs.Bool("v", false, "Log progress")
	fs.Parse(args)

	if *verbose {
		if err := logger.InitConsole("debug"); err != nil {
			fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		}
		defer logger.Sync()
	}

	cfg := config.Default()
	eng.apply(cfg)
	cfg.Assets.ShellDir = *shellDir
	cfg.Text.FontPath = *fontPath
	// No one is typing; rebuild as soon as possible.
	cfg.Regen.Debounce = time.Millisecond
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	session := app.New(cfg, app.Deps{})
	defer session.Close()
	session.Start(ctx, cfg.Initial())
	if err := session.WaitSettled(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if !session.TextAvailable() {
		fmt.Fprintln(os.Stderr, "Warning: font unavailable, exporting the ring without text")
	}

	f, err := os.Create(*out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	err = session.ExportOBJ(f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", *out, err)
		os.Exit(1)
	}

	cur := session.Configuration()
	fmt.Printf("Exported %s (size %d, %s, %d objects)\n", *out, cur.Size, session.Mode(), len(session.Group().Nodes()))
}

func cmdLink(args []string) {
	fs := flag.NewFlagSet("link", flag.ExitOnError)
	eng := addEngravingFlags(fs)
	base := fs.String("base", config.Default().Share.BaseURL, "Base URL")
	fs.Parse(args)

	cfg := config.Default()
	eng.apply(cfg)
	if !ring.SizeIndex(cfg.Ring.Size).Valid() {
		fmt.Fprintf(os.Stderr, "Error: unknown ring size %d\n", cfg.Ring.Size)
		os.Exit(1)
	}
	fmt.Println(sharelink.Encode(*base, cfg.Initial()))
}

func cmdParse(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: ringtool parse <link>")
		os.Exit(1)
	}

	cfg, ok := sharelink.Decode(args[0])
	if !ok {
		fmt.Fprintln(os.Stderr, "Not a valid ring link")
		os.Exit(1)
	}

	d, _ := ring.Diameter(cfg.Size)
	fmt.Printf("Line 1: %q\n", cfg.Line1)
	fmt.Printf("Line 2: %q\n", cfg.Line2)
	fmt.Printf("Size:   %d (%.1f mm)\n", cfg.Size, d)
	fmt.Printf("Mode:   %s\n", ring.ModeOf(cfg))
}

func cmdSizes() {
	layout := ring.DefaultLayout()
	fmt.Printf("%-5s %-10s %-8s %-8s %-8s\n", "Size", "Diameter", "Inner", "Band", "Engrave")
	for _, s := range ring.Sizes() {
		d, _ := ring.Diameter(s)
		dims, err := layout.Dimensions(s)
		if err != nil {
			continue
		}
		fmt.Printf("%-5d %-10.1f %-8.2f %-8.2f %-8.2f\n", s, d, dims.Inner, dims.Band, dims.Engrave)
	}
}
