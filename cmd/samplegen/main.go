package main

import (
	"flag"
	"fmt"
	"os"

	"rankboard/internal/samplegen"
)

func main() {
	dir := flag.String("dir", ".", "output directory")
	seed := flag.Int64("seed", 42, "RNG seed (deterministic)")
	rows := flag.Int("company-rows", 40, "ranked rows per company sheet")
	blank := flag.Float64("blank-rate", 0.05, "share of percent cells left empty")
	flag.Parse()

	cfg := samplegen.DefaultConfig()
	cfg.Seed = *seed
	cfg.CompanyRows = *rows
	cfg.BlankRate = *blank

	paths, err := samplegen.WriteAll(*dir, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error writing sample workbooks:", err)
		os.Exit(1)
	}

	for _, p := range paths {
		fmt.Printf("Sample workbook created: %s\n", p)
	}
}
