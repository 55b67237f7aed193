package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/Clark-Hu/course-tracker/internal/catalog"
)

type courseSummary struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Instructor string `json:"instructor"`
	Rating     int    `json:"rating"`
}

// seedcheck validates a catalog seed file before it is handed to the server
// through CATALOG_SEED_PATH.
func main() {
	var (
		data    = flag.String("data", "courses.json", "path to catalog seed file")
		verbose = flag.Bool("v", false, "print the parsed catalog as JSON")
	)
	flag.Parse()

	courses, err := catalog.LoadFile(*data)
	if err != nil {
		log.Fatalf("invalid seed: %v", err)
	}
	log.Printf("loaded %d courses from %s", len(courses), *data)

	if *verbose {
		summary := make([]courseSummary, 0, len(courses))
		for _, c := range courses {
			summary = append(summary, courseSummary{ID: c.ID, Name: c.Name, Instructor: c.Instructor, Rating: c.Rating})
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(summary); err != nil {
			log.Fatalf("encode summary: %v", err)
		}
	}
}
