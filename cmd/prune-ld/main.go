// Command prune-ld conducts LD-pruning on mixed-ploidy VCF files. Allowed
// ploidies are 2, 4, 6, and 8. Retained records are written to stdout in
// VCF form; diagnostics go to stderr.
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
	cfg := &polyld.Config{}

	flag.StringVar(&configPath, "config", "", "Optional TOML config file; flags override its values")
	flag.StringVar(&cfg.VCF, "vcf", "", "VCF file containing biallelic sites (.gz and .zst accepted)")
	flag.StringVar(&cfg.Sites, "sites", "", "Tab-delimited file listing sites to use (format: chr, pos), or a .ldi site index. Optional")
	flag.IntVar(&cfg.Window, "window", 0, "Window size in number of SNPs")
	flag.IntVar(&cfg.Step, "step", 0, "Step size in number of SNPs")
	flag.Float64Var(&cfg.MaxR2, "max-r2", -1, "Maximum squared genotypic correlation allowed within a window")
	flag.Float64Var(&cfg.Mis, "mis", 0.6, "Missing-data threshold (0 = all missing allowed, 1 = no missing data allowed)")
	flag.Float64Var(&cfg.MAF, "maf", 0.05, "Minimum minor allele frequency allowed")
	flag.StringVar(&cfg.Index, "index", "", "Optional .ldi output: a SQLite index of the retained sites")
	flag.Parse()

	if flag.NFlag() == 0 {
		flag.PrintDefaults()
		os.Exit(1)
	}

	if configPath != "" {
		cfg = mergeConfig(configPath, cfg)
	}
	cfg.VCF = expandHome(cfg.VCF)

	if cfg.Window < 1 || cfg.MaxR2 < 0 {
		log.Fatalln("-vcf, -window, -step and -max-r2 are required")
	}
	if cfg.MAF == 0 {
		log.Println("Warning: doing LD-pruning, setting -maf to 0.05")
		cfg.MAF = 0.05
	}
	if cfg.Mis == 0 {
		log.Println("Warning: doing LD-pruning, setting -mis to 0.6")
		cfg.Mis = 0.6
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalln(err)
	}

	start := time.Now()
	kept, err := run(cfg)
	if err != nil {
		log.Fatalln(err)
	}

	fmt.Fprintf(os.Stderr, "Done!\nAfter pruning, kept %d variants\n", kept)
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

	var sites *polyld.SiteList
	if cfg.Sites != "" {
		if sites, err = polyld.ReadSiteList(cfg.Sites); err != nil {
			return 0, pfx.Err(err)
		}
	}

	window, err := polyld.NewWindow(cfg.Window, cfg.Step, cfg.MaxR2)
	if err != nil {
		return 0, pfx.Err(err)
	}

	var index *polyld.SiteIndex
	if cfg.Index != "" {
		if index, err = polyld.CreateSiteIndex(cfg.Index, cfg.VCF); err != nil {
			return 0, pfx.Err(err)
		}
		defer index.Close()
	}

	out := bufio.NewWriter(os.Stdout)
	defer out.Flush()

	p := &polyld.Pruner{
		VCF:    vcf,
		Writer: &polyld.VCFWriter{W: out},
		Sites:  sites,
		Window: window,
		Index:  index,
		Mis:    cfg.Mis,
		MAF:    cfg.MAF,
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

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "vcf":
			cfg.VCF = flags.VCF
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
		case "index":
			cfg.Index = flags.Index
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
