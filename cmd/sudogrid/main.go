// The MIT License (MIT)
//
// # Copyright (c) 2016 xtaci
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package main

import (
	"bufio"
	"io"
	"log"
	"os"
	"sync/atomic"
	"time"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/urfave/cli"

	"github.com/sudogrid/sudogrid/internal/config"
	"github.com/sudogrid/sudogrid/internal/ioformat"
	"github.com/sudogrid/sudogrid/internal/pipeline"
	"github.com/sudogrid/sudogrid/internal/symmetry"
	"github.com/sudogrid/sudogrid/internal/template"
)

// VERSION is injected by buildflags.
var VERSION = "SELFBUILD"

// progressPeriod is how often the optional textual ticker prints, mirroring
// kcptun's scavenger check period as a small fixed constant.
const progressPeriod = 1

func main() {
	if VERSION == "SELFBUILD" {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}

	myApp := cli.NewApp()
	myApp.Name = "sudogrid"
	myApp.Usage = "constraint-directed Sudoku puzzle generator"
	myApp.Version = VERSION
	myApp.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "template",
			Usage: "template text, or @path to read it from a file",
		},
		cli.StringFlag{
			Name:  "exclude",
			Usage: `expansion cell-exclusion string, eg: "r1c1,r9c9"`,
		},
		cli.StringFlag{
			Name:  "eliminate",
			Usage: `filter elimination string, eg: "56789r4c1,4r6c4"`,
		},
		cli.IntFlag{
			Name:  "expand",
			Value: 0,
			Usage: "clue count for the symmetric expansion stage, 0 to disable",
		},
		cli.StringFlag{
			Name:  "symmetry",
			Value: "none",
			Usage: "dihedral subgroup: none, rot180, rot90, diag, antidiag, horiz, vert, full",
		},
		cli.BoolFlag{
			Name:  "unique",
			Usage: "require a unique solution",
		},
		cli.BoolFlag{
			Name:  "basics",
			Usage: "require the grid to solve by basic deduction alone",
		},
		cli.BoolFlag{
			Name:  "dedupe",
			Usage: "drop grids equivalent under minlex canonicalization to one already emitted",
		},
		cli.IntFlag{
			Name:  "limit",
			Value: 0,
			Usage: "stop after emitting this many grids, 0 for no limit",
		},
		cli.BoolFlag{
			Name:  "progress",
			Usage: "render a textual progress line on stderr",
		},
		cli.StringFlag{
			Name:  "out",
			Value: "",
			Usage: "output path, default stdout",
		},
		cli.BoolFlag{
			Name:  "compress",
			Usage: "snappy-compress the output stream",
		},
		cli.StringFlag{
			Name:  "c",
			Value: "",
			Usage: "config from json file, which will override the command from shell",
		},
	}
	myApp.Action = func(c *cli.Context) error {
		cfg := config.Config{}
		cfg.Template = c.String("template")
		cfg.Exclude = c.String("exclude")
		cfg.Eliminate = c.String("eliminate")
		cfg.Expand = c.Int("expand")
		cfg.Symmetry = c.String("symmetry")
		cfg.Unique = c.Bool("unique")
		cfg.Basics = c.Bool("basics")
		cfg.Dedupe = c.Bool("dedupe")
		cfg.Limit = c.Int("limit")
		cfg.Progress = c.Bool("progress")
		cfg.Out = c.String("out")
		cfg.Compress = c.Bool("compress")

		if c.String("c") != "" {
			err := config.ParseJSONFile(&cfg, c.String("c"))
			checkError(err)
		}

		if cfg.Template == "" {
			checkError(errors.New("--template is required"))
		}

		log.Println("version:", VERSION)
		log.Println("template:", cfg.Template)
		log.Println("exclude:", cfg.Exclude)
		log.Println("eliminate:", cfg.Eliminate)
		log.Println("expand:", cfg.Expand)
		log.Println("symmetry:", cfg.Symmetry)
		log.Println("unique:", cfg.Unique)
		log.Println("basics:", cfg.Basics)
		log.Println("dedupe:", cfg.Dedupe)
		log.Println("limit:", cfg.Limit)
		log.Println("progress:", cfg.Progress)
		log.Println("out:", cfg.Out)
		log.Println("compress:", cfg.Compress)

		if cfg.Expand > 0 && cfg.Limit > 0 && cfg.Expand > cfg.Limit {
			color.Red("WARNING: --expand %d is larger than --limit %d, most expansions will be cut off mid-search.", cfg.Expand, cfg.Limit)
		}

		group, ok := symmetry.Group(cfg.Symmetry)
		if !ok {
			checkError(errors.Errorf("unknown --symmetry group %q", cfg.Symmetry))
		}

		text, err := ioformat.ResolveTemplateText(cfg.Template)
		checkError(err)
		tpl := template.Parse(text)

		var p *pipeline.Pipeline
		func() {
			defer func() {
				if r := recover(); r != nil {
					checkError(errors.Errorf("malformed configuration: %v", r))
				}
			}()
			excluded := ioformat.ParseExclusions(cfg.Exclude)
			elims := ioformat.ParseEliminations(cfg.Eliminate)

			if cfg.Expand > 0 {
				empty := 0
				for _, d := range tpl.Cells {
					if d.Kind == template.Empty {
						empty++
					}
				}
				if empty == 0 {
					color.Red("WARNING: template leaves no Empty cells, --expand %d has nothing to place into.", cfg.Expand)
				}
			}

			base := template.NewGenerator(tpl).Searcher()
			var stages []pipeline.Stage
			if cfg.Expand > 0 {
				stages = append(stages, pipeline.Expansion{Group: group, Excluded: excluded, N: cfg.Expand})
			}
			if len(elims) > 0 || cfg.Basics {
				stages = append(stages, pipeline.AsStage(pipeline.SolvesWithBasicsAfterElims(elims)))
			}
			if cfg.Unique {
				stages = append(stages, pipeline.AsStage(pipeline.HasUniqueSolution()))
			}
			if cfg.Dedupe {
				stages = append(stages, pipeline.AsStage(pipeline.NonEquivalent()))
			}
			p = pipeline.New(base, stages...)
		}()

		out, closeOut := openOutput(cfg.Out)
		defer closeOut()
		bw := bufio.NewWriter(out)
		defer bw.Flush()
		writer := io.Writer(bw)
		if cfg.Compress {
			cw := ioformat.CompressWriter(bw)
			defer cw.Close()
			writer = cw
		}

		var position int64
		if cfg.Progress {
			stop := make(chan struct{})
			go progressTicker(&position, stop)
			defer close(stop)
		}

		emitted := 0
		for {
			if cfg.Limit > 0 && emitted >= cfg.Limit {
				break
			}
			progress, _, g, ok := p.Next()
			if !ok {
				break
			}
			atomic.StoreInt64(&position, int64(progress*1e6))
			checkError(ioformat.FormatGrid(writer, g))
			emitted++
		}

		log.Println("emitted:", emitted)
		return nil
	}

	if err := myApp.Run(os.Args); err != nil {
		checkError(err)
	}
}

func openOutput(path string) (io.Writer, func()) {
	if path == "" {
		return os.Stdout, func() {}
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o666)
	checkError(errors.Wrapf(err, "opening --out %q", path))
	return f, func() { f.Close() }
}

// progressTicker is the one goroutine this binary starts: it only reads an
// atomically-stored position set by the draining loop and never touches the
// pipeline itself, mirroring kcptun's best-effort SNMP logging goroutine.
func progressTicker(position *int64, stop chan struct{}) {
	ticker := time.NewTicker(progressPeriod * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			p := atomic.LoadInt64(position)
			color.New(color.FgYellow).Fprintf(os.Stderr, "progress: %.4f%%\n", float64(p)/1e6*100)
		case <-stop:
			return
		}
	}
}

func checkError(err error) {
	if err != nil {
		log.Printf("%+v\n", err)
		os.Exit(-1)
	}
}
