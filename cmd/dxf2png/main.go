package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"

	"github.com/ddvk/dxf2png/batch"
	"github.com/ddvk/dxf2png/config"
	"github.com/ddvk/dxf2png/render"
)

var (
	cfgPath = flag.StringP("cfgpath", "c", "./config.json", "overrides the default path to config.json")
	input   = flag.StringP("input", "i", "", "input path - folder with dxf files or file")
	output  = flag.StringP("output", "o", "", "output path - folder for png files")
	tree    = flag.BoolP("tree", "t", false, "iterate in tree of folders")
	format  = flag.StringP("format", "f", "png", "output image format: png, tiff or bmp")
	verbose = flag.BoolP("verbose", "v", false, "debug logging")
)

func usage(msg string) {
	fmt.Fprintf(os.Stderr, "%s: %s\n", os.Args[0], msg)
	flag.Usage()
	os.Exit(2)
}

func _main() error {
	flag.Parse()
	if *input == "" || *output == "" {
		usage("the following arguments are required: -i/--input, -o/--output")
	}
	f, err := render.ParseFormat(*format)
	if err != nil {
		usage(err.Error())
	}
	if *verbose {
		log.SetLevel(log.DebugLevel)
	}

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		return err
	}

	// a missing input is only reported, listing it fails below
	_ = batch.CheckInput(os.Stdout, *input)

	if err = os.MkdirAll(*output, 0o755); err != nil {
		return err
	}

	files, err := batch.Collect(*input, *tree)
	if err != nil {
		return err
	}

	run := uuid.New()
	log.WithField("run", run.String()).Debugf("converting %d files from %s", len(files), *input)
	d := &batch.Driver{
		Output:  *output,
		Format:  f,
		Convert: batch.ConvertFile(cfg, f),
		Report:  os.Stdout,
		RunID:   run,
	}
	d.Run(files)
	return nil
}

func main() {
	prefixed := &prefixed.TextFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   true,
		ForceFormatting: true,
	}
	log.SetFormatter(prefixed)
	log.SetOutput(os.Stdout)
	log.SetLevel(log.InfoLevel)
	err := _main()
	if err != nil {
		log.Fatal(err)
	}
}
