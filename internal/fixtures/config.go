package fixtures

// Config holds configuration for a generated data set.
type Config struct {
	Dir         string  // Output directory, created if absent
	Years       []int   // One extract per year
	Events      int     // Events per season
	Teams       int     // Teams per season, two drivers each
	Seed        uint64  // PRNG seed; equal seeds give identical files
	SwapRate    float64 // Chance per season that two drivers swap teams mid-season
	MissingRate float64 // Chance per session time of being blank
	WetRate     float64 // Chance per event of a wet session
	TSV         bool    // Write tab separated .tsv files instead of .csv
}

// Stats holds generation statistics.
type Stats struct {
	Files int
	Rows  int
	Swaps int
}
