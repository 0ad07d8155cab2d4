package cli

import "codeberg.org/snonux/forvodict/internal/country"

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile   string
	LogLevel  string
	LogFormat string

	// build flags
	DBPath       string
	SimpleDBPath string
	BatchSize    int

	// flags (country resolver) flags
	MappingsOut string
	FlagsDir    string
	FlagBaseURL string

	// icons flags
	VenusIcon string
	MarsIcon  string
	IconsOut  string

	// describe flags
	LanguagesFile string
	DescribeOut   string
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		LogLevel:      "info",
		LogFormat:     "text",
		DBPath:        "forvo_database.db",
		SimpleDBPath:  "forvo_simple.db",
		BatchSize:     1000,
		MappingsOut:   "country_mappings.json",
		FlagsDir:      "flags",
		FlagBaseURL:   country.DefaultFlagBaseURL,
		VenusIcon:     "venus.svg",
		MarsIcon:      "mars.svg",
		IconsOut:      "icons",
		LanguagesFile: "languages.json",
		DescribeOut:   ".",
	}
}
