// Command smaatables precomputes the SMAA area and search tables.
//
// It writes the compressed table asset read by tables.Decode and, on
// request, the tables as images for inspection:
//
//	smaatables -out smaa.tables -area area.png -search search.png
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/disintegration/imaging"

	"github.com/gogpu/smaa/tables"
)

func main() {
	if err := run(os.Args[1:], os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		log.Fatalf("smaatables: %v", err)
	}
}

func run(args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet("smaatables", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		out    = fs.String("out", "", "table asset output file")
		area   = fs.String("area", "", "optional area table image")
		search = fs.String("search", "", "optional search table image")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *out == "" && *area == "" && *search == "" {
		fs.Usage()
		return errors.New("nothing to write")
	}

	set := tables.Build()
	if err := set.Validate(); err != nil {
		return err
	}

	if *out != "" {
		if err := writeAsset(*out, set); err != nil {
			return err
		}
	}
	if *area != "" {
		if err := imaging.Save(set.AreaImage(), *area); err != nil {
			return fmt.Errorf("save area image: %w", err)
		}
	}
	if *search != "" {
		if err := imaging.Save(set.SearchImage(), *search); err != nil {
			return fmt.Errorf("save search image: %w", err)
		}
	}
	return nil
}

func writeAsset(path string, set *tables.Set) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return tables.Encode(f, set)
}
