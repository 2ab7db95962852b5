package harp

import(
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v2"
)

type Config struct {
	Verbosity       int       `yaml:"verbosity"`

	Band            string    `yaml:"band"`            // which wavelength band to animate
	Gamma           float64   `yaml:"gamma"`           // power-law contrast; <1 brightens
	SmoothSigma     float64   `yaml:"smoothsigma"`     // angular Gaussian sigma, channel-index units; 0 disables
	StretchLo       float64   `yaml:"stretchlo"`       // lower quantile for the stretch; 0 with stretchhi 0 = plain min/max
	StretchHi       float64   `yaml:"stretchhi"`
	Scale           float64   `yaml:"scale"`           // output frame scale factor

	DelayMode       string    `yaml:"delaymode"`       // "index" (historical) or "constant"
	DelayCS         int       `yaml:"delaycs"`         // constant-mode delay, hundredths of a second

	OutputDir       string    `yaml:"outputdir"`

	Bands           BandTable `yaml:"bands"`           // channel layout; label -> [start,end)
}

func NewConfig() Config {
	return Config{
		Band:        "red",
		Gamma:       0.5,
		SmoothSigma: 0.5,
		Scale:       1.0,
		DelayMode:   DelayModeIndex,
		DelayCS:     5,
		OutputDir:   ".",
		Bands:       DefaultBandTable(),
	}
}

func LoadConfig(filename string) (Config, error) {
	contents, err := os.ReadFile(filename)
	if err != nil {
		return Config{}, fmt.Errorf("config read %s: %v", filename, err)
	}
	return newConfigFromYaml(contents)
}

func newConfigFromYaml(b []byte) (Config, error) {
	c := NewConfig()
	err := yaml.Unmarshal(b, &c)
	return c, err
}

func (c Config)AsYaml() string {
	b, err := yaml.Marshal(c)
	if err != nil {
		log.Fatalf("Can't marshal config yaml: %v\n", err)
	}
	return string(b)
}

// Granule IDs carry an acquisition timestamp, e.g.
// PACE_HARP2.20240519T235950.L1C.V2. That substring keys the output
// filenames so reruns over the same granule are deterministic.
var granuleStampRE = regexp.MustCompile(`\d{8}T\d{6}`)

func granuleStamp(granuleID string) string {
	if stamp := granuleStampRE.FindString(granuleID); stamp != "" {
		return stamp
	}
	return granuleID
}

// OutputName is the animation filename for a granule and band, under
// the configured output directory.
func (c Config)OutputName(granuleID string) string {
	return filepath.Join(c.OutputDir, fmt.Sprintf("harp2-%s-%s.gif", c.Band, granuleStamp(granuleID)))
}

func (c Config)quicklookName(granuleID, kind, ext string) string {
	return filepath.Join(c.OutputDir, fmt.Sprintf("harp2-%s-%s-%s.%s", c.Band, granuleStamp(granuleID), kind, ext))
}
