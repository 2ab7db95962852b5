package main

import(
	"flag"
	"log"
	"path/filepath"
	"strings"

	"github.com/polarmetrics/pace-anim/pkg/harp"
	"github.com/polarmetrics/pace-anim/pkg/l1c"
)

var(
	fVerbosity int
	fBand string
	fGamma float64
	fSmoothSigma float64
	fScale float64
	fDelayMode string
	fDelayCS int
	fOutputDir string
)

func init() {
	flag.IntVar(&fVerbosity, "v", 0, "how verbose to get")

	flag.StringVar(&fBand, "band", "red", "which wavelength band to animate")
	flag.Float64Var(&fGamma, "gamma", 0.5, "power-law contrast exponent, <1 brightens")
	flag.Float64Var(&fSmoothSigma, "smoothsigma", 0.5, "gaussian sigma along the view-angle axis, 0 to disable")
	flag.Float64Var(&fScale, "scale", 1.0, "scale factor for output frames")

	flag.StringVar(&fDelayMode, "delaymode", harp.DelayModeIndex, "per-frame GIF delay: 'index' (historical) or 'constant'")
	flag.IntVar(&fDelayCS, "delaycs", 5, "constant-mode frame delay, in 100ths of a second")
	flag.StringVar(&fOutputDir, "outdir", ".", "where to write the animation and quicklooks")
	flag.Parse()

	log.Printf("pace-anim starting\n")
}

func main() {
	cfg := harp.NewConfig()
	granulePath := ""

	// Args are the granule plus an optional config yaml, in any order.
	for _, arg := range flag.Args() {
		switch strings.ToLower(filepath.Ext(arg)) {
		case ".yaml":
			c, err := harp.LoadConfig(arg)
			if err != nil {
				log.Fatal(err)
			}
			cfg = c
			log.Printf("Loaded base configuration from %s\n", arg)
		default:
			granulePath = arg
		}
	}
	if granulePath == "" {
		log.Fatal("usage: pace-anim [flags] [config.yaml] granule.nc")
	}

	cfg.Verbosity = fVerbosity
	cfg.Band = fBand
	cfg.Gamma = fGamma
	cfg.SmoothSigma = fSmoothSigma
	cfg.Scale = fScale
	cfg.DelayMode = fDelayMode
	cfg.DelayCS = fDelayCS
	cfg.OutputDir = fOutputDir

	if cfg.Verbosity > 0 {
		log.Printf("Final configuration:-\n\n%s\n", cfg.AsYaml())
	}

	granule, err := l1c.Open(granulePath)
	if err != nil {
		log.Fatal(err)
	}

	if err := harp.NewAnimator(cfg, granule).Run(); err != nil {
		log.Fatal(err)
	}
}
