package main

import (
	"flag"
	"os"
	"time"

	"github.com/okian/metaforge/internal/catgen"
)

// Default configuration constants.
const (
	defaultOut          = "catalog.yaml"
	defaultSkills       = 40
	defaultSupports     = 60
	defaultAscendancies = 12
)

func main() {
	var (
		out          = flag.String("out", defaultOut, "Output path for the generated catalog")
		skills       = flag.Int("skills", defaultSkills, "Number of skills to generate")
		supports     = flag.Int("supports", defaultSupports, "Number of supports to generate")
		ascendancies = flag.Int("ascendancies", defaultAscendancies, "Number of ascendancies to generate")
		seed         = flag.Int64("seed", time.Now().UnixNano(), "Seed for catalog generation")
	)
	flag.Parse()

	gen := catgen.New(*seed,
		catgen.WithSkillCount(*skills),
		catgen.WithSupportCount(*supports),
		catgen.WithAscendancyCount(*ascendancies),
	)

	doc, err := gen.Generate()
	if err != nil {
		os.Stderr.WriteString("Catalog generation failed: " + err.Error() + "\n")
		os.Exit(1)
	}

	data, err := catgen.Marshal(doc)
	if err != nil {
		os.Stderr.WriteString("Catalog marshal failed: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := os.WriteFile(*out, data, 0o644); err != nil {
		os.Stderr.WriteString("Catalog write failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
