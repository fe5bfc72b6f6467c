package main

import (
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"

	"github.com/ddvk/dxf2png/dxf"
)

var (
	entities = flag.BoolP("entities", "e", false, "print every entity")
	verbose  = flag.BoolP("verbose", "v", false, "debug logging")
)

func dump(w io.Writer, doc *dxf.Document, withEntities bool) {
	fmt.Fprintf(w, "Version: %s\n", doc.Version)
	if lo, hi, err := doc.Extents(); err != nil {
		fmt.Fprintf(w, "Extents: %v\n", err)
	} else {
		fmt.Fprintf(w, "Extents: %.3f,%.3f -> %.3f,%.3f\n", lo.X, lo.Y, hi.X, hi.Y)
	}
	fmt.Fprintf(w, "Number of Layer: %d\n", doc.Layers.Len())
	for i, layer := range doc.Layers.All() {
		list := doc.Query(layer.Name)
		fmt.Fprintf(w, "Layer: %d %s color:%d flags:%d off:%v entities:%d\n",
			i, layer.Name, layer.Color, layer.Flags, layer.IsOff(), len(list))

		counts := make(map[dxf.EntityType]int)
		var order []dxf.EntityType
		for _, e := range list {
			if counts[e.Type()] == 0 {
				order = append(order, e.Type())
			}
			counts[e.Type()]++
		}
		for _, t := range order {
			fmt.Fprintf(w, "\t%s: %d\n", t, counts[t])
		}
		if withEntities {
			for _, e := range list {
				fmt.Fprintf(w, "\t\t%v\n", e)
			}
		}
	}
}

func _main() error {
	flag.Parse()
	if flag.NArg() < 1 {
		log.Print("missing file")
		return nil
	}
	if *verbose {
		log.SetLevel(log.DebugLevel)
	}
	doc, err := dxf.Open(flag.Arg(0))
	if err != nil {
		return err
	}
	dump(os.Stdout, doc, *entities)
	return nil
}

func main() {
	prefixed := &prefixed.TextFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   true,
		ForceFormatting: true,
		ForceColors:     true,
	}
	log.SetFormatter(prefixed)
	log.SetOutput(os.Stdout)
	log.SetLevel(log.InfoLevel)
	err := _main()
	if err != nil {
		log.Fatal(err)
	}
}
