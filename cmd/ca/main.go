//go:build ebiten

package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"

	"mesh-ca/internal/app"
	"mesh-ca/internal/core"
	"mesh-ca/internal/host"
	_ "mesh-ca/internal/sims/briansbrain"
	_ "mesh-ca/internal/sims/heat"
	_ "mesh-ca/internal/sims/life"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()

	factory, ok := core.Demos()[cfg.Demo]
	if !ok {
		log.Fatalf("unknown demo %q", cfg.Demo)
	}
	demo := factory(cfg.Set.Map())

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

	game := app.New(demo, res.Series, cfg.Scale, cfg.TPS)
	size := demo.Size()

	ebiten.SetWindowTitle("mesh-ca: " + demo.Name())
	ebiten.SetWindowSize(size.W*cfg.Scale, size.H*cfg.Scale)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
