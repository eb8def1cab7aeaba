// Command poly-freq estimates allele frequencies from mixed-ploidy VCF
// files. Output is either population-specific allele frequencies or allele
// counts in the format required by BayPass, with optional LD-pruning of the
// emitted sites.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"time"

	"github.com/carbocation/pfx"
	"github.com/poly-tools/polyld"
)

func main() {
	var configPath string
	cfg := &polyld.Config{Info: "info.txt"}

	flag.StringVar(&configPath, "config", "", "Optional TOML config file; flags override its values")
	flag.StringVar(&cfg.VCF, "vcf", "", "VCF file containing biallelic sites (.gz and .zst accepted)")
	flag.StringVar(&cfg.Pops, "pops", "", "Tab-delimited file listing individuals to use and their populations (format: individual id, population id)")
	flag.StringVar(&cfg.Sites, "sites", "", "Tab-delimited file listing sites to use (format: chr, pos), or a .ldi site index. Optional")
	flag.IntVar(&cfg.Window, "window", 0, "Window size in number of SNPs. Optional; enables LD-pruning")
	flag.IntVar(&cfg.Step, "step", 0, "Step size in number of SNPs")
	flag.Float64Var(&cfg.MaxR2, "max-r2", 1, "Maximum squared genotypic correlation allowed within a window")
	flag.Float64Var(&cfg.Mis, "mis", 0, "Missing-data threshold (0 = all missing allowed, 1 = no missing data allowed)")
	flag.Float64Var(&cfg.MAF, "maf", 0, "Minimum minor allele frequency allowed")
	flag.IntVar(&cfg.Out, "out", 0, "Whether to output allele frequencies (0) or allele counts in the BayPass format (1)")
	flag.StringVar(&cfg.Info, "info", "info.txt", "If -out is 1, records populations and locations of used SNPs into this file")
	flag.Parse()

	if flag.NFlag() == 0 {
		flag.PrintDefaults()
		os.Exit(1)
	}

	if configPath != "" {
		cfg = mergeConfig(configPath, cfg)
	}
	cfg.VCF = expandHome(cfg.VCF)

	if cfg.Pops == "" {
		log.Fatalln("-vcf and -pops are required")
	}
	if cfg.LDEnabled() && cfg.MAF == 0 {
		log.Println("Warning: doing LD-pruning, setting -maf to 0.05")
		cfg.MAF = 0.05
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalln(err)
	}

	start := time.Now()
	kept, err := run(cfg)
	if err != nil {
		log.Fatalln(err)
	}

	fmt.Fprintf(os.Stderr, "Done!\nKept %d variants\n", kept)
	if elapsed := time.Since(start).Round(time.Second); elapsed >= 5*time.Second {
		fmt.Fprintf(os.Stderr, "Elapsed time: %s\n", elapsed)
	}
}

func run(cfg *polyld.Config) (int, error) {
	vcf, err := polyld.Open(cfg.VCF)
	if err != nil {
		return 0, pfx.Err(err)
	}
	defer vcf.Close()

	pops, err := polyld.ReadPopMap(cfg.Pops)
	if err != nil {
		return 0, pfx.Err(err)
	}
	cols, matched, err := pops.ColumnIndexes(vcf.SampleIDs)
	if err != nil {
		return 0, pfx.Err(err)
	}
	if matched < pops.NIndividuals() {
		log.Println("Warning: pops file contains individuals that are not in the VCF file")
	}

	var sites *polyld.SiteList
	if cfg.Sites != "" {
		if sites, err = polyld.ReadSiteList(cfg.Sites); err != nil {
			return 0, pfx.Err(err)
		}
	}

	var window *polyld.Window
	if cfg.LDEnabled() {
		if window, err = polyld.NewWindow(cfg.Window, cfg.Step, cfg.MaxR2); err != nil {
			return 0, pfx.Err(err)
		}
	}

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	var writer polyld.SiteWriter
	var info *os.File
	if cfg.Mode() == polyld.OutputCounts {
		if info, err = os.Create(cfg.Info); err != nil {
			return 0, pfx.Err(err)
		}
		defer info.Close()
		writer = &polyld.BayPassWriter{W: out, Info: info, Pops: pops}
	} else {
		writer = &polyld.FreqWriter{W: out, Pops: pops}
	}

	p := &polyld.Pruner{
		VCF:     vcf,
		Writer:  writer,
		Sites:   sites,
		Columns: cols,
		NPops:   pops.NPops(),
		Window:  window,
		Mis:     cfg.Mis,
		MAF:     cfg.MAF,
	}
	if err := p.Run(); err != nil {
		return 0, pfx.Err(err)
	}
	if err := out.Flush(); err != nil {
		return 0, pfx.Err(err)
	}

	return p.Kept, nil
}

// mergeConfig loads the TOML file and lets explicitly-set flags override it.
func mergeConfig(path string, flags *polyld.Config) *polyld.Config {
	cfg, err := polyld.LoadConfig(path)
	if err != nil {
		log.Fatalln(err)
	}
	if cfg.Info == "" {
		cfg.Info = "info.txt"
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "vcf":
			cfg.VCF = flags.VCF
		case "pops":
			cfg.Pops = flags.Pops
		case "sites":
			cfg.Sites = flags.Sites
		case "window":
			cfg.Window = flags.Window
		case "step":
			cfg.Step = flags.Step
		case "max-r2":
			cfg.MaxR2 = flags.MaxR2
		case "mis":
			cfg.Mis = flags.Mis
		case "maf":
			cfg.MAF = flags.MAF
		case "out":
			cfg.Out = flags.Out
		case "info":
			cfg.Info = flags.Info
		}
	})

	return cfg
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}

	usr, err := user.Current()
	if err != nil {
		log.Fatalln(pfx.Err(err))
	}

	return filepath.Join(usr.HomeDir, path[2:])
}
