package main

import (
	"context"
	"flag"
	"fmt"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"mesh-ca/internal/core"
	"mesh-ca/internal/report"
	_ "mesh-ca/internal/sims/briansbrain"
	_ "mesh-ca/internal/sims/heat"
	_ "mesh-ca/internal/sims/life"
)

type scenario struct {
	demo string
	size int
}

func (s scenario) String() string {
	return fmt.Sprintf("%s %dx%d", s.demo, s.size, s.size)
}

type scenarioResult struct {
	scenario scenario
	cells    int
	edges    int
	summary  report.Summary
	elapsed  time.Duration
	err      error
}

func main() {
	ticks := flag.Int("ticks", 64, "ticks to simulate per scenario")
	workers := flag.Int("workers", runtime.NumCPU(), "number of worker goroutines")
	sizesFlag := flag.String("sizes", "8,16,32", "comma-separated square grid sizes")
	demosFlag := flag.String("demos", strings.Join(core.Names(), ","), "comma-separated demos to sweep")
	flag.Parse()

	sizes, err := parseSizes(*sizesFlag)
	if err != nil {
		fmt.Println(err)
		return
	}

	var scenarios []scenario
	for _, name := range strings.Split(*demosFlag, ",") {
		name = strings.TrimSpace(name)
		if _, ok := core.Demos()[name]; !ok {
			fmt.Printf("skipping unknown demo %q\n", name)
			continue
		}
		for _, size := range sizes {
			scenarios = append(scenarios, scenario{demo: name, size: size})
		}
	}

	fmt.Printf("Sweeping %d scenarios (%d workers, %d ticks)\n", len(scenarios), *workers, *ticks)

	jobs := make(chan scenario)
	results := make(chan scenarioResult)
	var wg sync.WaitGroup

	for i := 0; i < *workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for sc := range jobs {
				results <- runScenario(sc, *ticks)
			}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	go func() {
		for _, sc := range scenarios {
			jobs <- sc
		}
		close(jobs)
	}()

	start := time.Now()
	var all []scenarioResult
	for res := range results {
		all = append(all, res)
		if res.err != nil {
			fmt.Printf("%s failed: %v\n", res.scenario, res.err)
		}
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].scenario.demo != all[j].scenario.demo {
			return all[i].scenario.demo < all[j].scenario.demo
		}
		return all[i].scenario.size < all[j].scenario.size
	})

	fmt.Printf("\nResults (elapsed %s):\n", time.Since(start).Round(time.Millisecond))
	for _, res := range all {
		if res.err != nil && res.summary.Frames == 0 {
			continue
		}
		fmt.Printf("%-20s cells=%-5d edges=%-6d %s (%s)\n",
			res.scenario, res.cells, res.edges, res.summary, res.elapsed.Round(time.Microsecond))
	}
}

func runScenario(sc scenario, ticks int) scenarioResult {
	out := scenarioResult{scenario: sc}
	side := strconv.Itoa(sc.size)
	demo := core.Demos()[sc.demo](map[string]string{"w": side, "h": side})

	start := time.Now()
	// One reader per scenario; the sweep is already parallel across scenarios.
	res, err := core.Run(context.Background(), demo, core.RunOptions{Ticks: ticks, Workers: 1})
	out.elapsed = time.Since(start)
	out.err = err
	if res == nil {
		return out
	}
	out.cells = res.Grid.Len()
	out.edges = len(res.Edges)
	if res.Series != nil {
		out.summary = report.Summarize(res.Series)
	}
	return out
}

func parseSizes(s string) ([]int, error) {
	var sizes []int
	for _, part := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("bad size %q: %w", part, err)
		}
		sizes = append(sizes, n)
	}
	return sizes, nil
}
