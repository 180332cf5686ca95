package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"

	"mesh-ca/internal/app"
	"mesh-ca/internal/core"
	"mesh-ca/internal/host"
	"mesh-ca/internal/report"
	_ "mesh-ca/internal/sims/briansbrain"
	_ "mesh-ca/internal/sims/heat"
	_ "mesh-ca/internal/sims/life"
	"mesh-ca/pkg/mesh"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	printFrames := flag.Bool("print", false, "print every recorded frame")
	chartPath := flag.String("chart", "", "write a population chart PNG to this path")
	showParams := flag.Bool("params", false, "print the demo parameters before running")
	list := flag.Bool("list", false, "list available demos and exit")
	flag.Parse()

	if *list {
		fmt.Println(strings.Join(core.Names(), "\n"))
		return
	}

	factory, ok := core.Demos()[cfg.Demo]
	if !ok {
		log.Fatalf("unknown demo %q (have %s)", cfg.Demo, strings.Join(core.Names(), ", "))
	}
	demo := factory(cfg.Set.Map())
	if *showParams {
		if _, err := demo.Parameters().WriteTo(os.Stdout); err != nil {
			log.Fatal(err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := core.Run(ctx, demo, core.RunOptions{
		Ticks:   cfg.Ticks,
		Workers: cfg.Workers,
		Host:    []host.Option{host.WithDroppedRecording(cfg.Drop...)},
	})
	if res == nil || res.Series == nil {
		log.Fatal(err)
	}
	if err != nil {
		log.Printf("run completed with read-back errors: %v", err)
	}
	for _, w := range res.Series.Warnings() {
		log.Printf("warning: %s", w)
	}

	size := demo.Size()
	fmt.Printf("%s: %dx%d %s mesh, %d cells, %d edges, %d initially active\n",
		demo.Name(), size.W, size.H, demo.Connectivity(), res.Grid.Len(), len(res.Edges), res.Grid.CountActive())
	if *printFrames {
		shade, glyphs := textShading(demo)
		if err := report.WriteSeries(os.Stdout, res.Series, shade, glyphs); err != nil {
			log.Fatal(err)
		}
	}
	fmt.Println(report.Summarize(res.Series))

	if *chartPath != "" {
		f, err := os.Create(*chartPath)
		if err != nil {
			log.Fatal(err)
		}
		if err := report.WriteChart(f, demo.Name(), res.Series); err != nil {
			f.Close()
			log.Fatal(err)
		}
		if err := f.Close(); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("chart written to %s\n", *chartPath)
	}
}

const gradientGlyphs = " .:-=+*#%@"

// textShading squeezes gradient palettes into a short run of glyphs.
func textShading(d core.Demo) (func(mesh.State) uint8, string) {
	n := len(d.Palette()) - 1
	if n <= len(gradientGlyphs) {
		return d.Shade, report.DefaultGlyphs
	}
	return func(s mesh.State) uint8 {
		return uint8(int(d.Shade(s)) * len(gradientGlyphs) / n)
	}, gradientGlyphs
}
