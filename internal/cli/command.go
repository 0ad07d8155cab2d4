package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/forvodict/internal"
	"codeberg.org/snonux/forvodict/internal/builder"
	"codeberg.org/snonux/forvodict/internal/country"
	"codeberg.org/snonux/forvodict/internal/describe"
	"codeberg.org/snonux/forvodict/internal/icon"
	"codeberg.org/snonux/forvodict/internal/logging"
	"codeberg.org/snonux/forvodict/internal/origins"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "forvodict",
		Short: "Forvo pronunciation dump to dictionary database converter",
		Long: `forvodict turns a dump of crowd-sourced pronunciation recordings into
a distributable, self-contained pronunciation database.

The build command streams the dump's metadata log, groups recordings per
dictionary entry, renders clickable flag-badged pronunciation snippets and
writes two SQLite stores: a relational one and a flat mdx-style one. The
remaining commands prepare the supporting assets (origin statistics,
country mappings with flags, composite icons, title/description files).

Examples:
  forvodict build ./forvo-bg-dump              # Build both databases
  forvodict origins metadata.jsonl bg          # Extract origin statistics
  forvodict flags metadata_bg_origin_stats.json countries.json
  forvodict icons metadata_bg_origin_stats.json country_mappings.json flags
  forvodict describe bg                        # Generate title/description`,
		Version:       internal.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			applyLogConfig(cmd, flags)
			logging.Setup(flags.LogLevel, flags.LogFormat)
		},
	}

	rootCmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.forvodict.yaml)")
	rootCmd.PersistentFlags().StringVar(&flags.LogLevel, "log-level", flags.LogLevel, "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&flags.LogFormat, "log-format", flags.LogFormat, "Log format (text or json)")

	rootCmd.AddCommand(newBuildCommand(flags))
	rootCmd.AddCommand(newOriginsCommand(flags))
	rootCmd.AddCommand(newFlagsCommand(flags))
	rootCmd.AddCommand(newIconsCommand(flags))
	rootCmd.AddCommand(newDescribeCommand(flags))

	return rootCmd
}

func newBuildCommand(flags *Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build ROOT",
		Short: "Build the pronunciation databases from a dump directory",
		Long: `build streams ROOT/metadata.jsonl, groups the recordings by dictionary
entry and writes the complex and simple SQLite stores. ROOT must contain
the metadata log, an icons/ directory of pre-rendered composite icons and
the per-language audio directories. Interrupting a run (Ctrl-C) commits
the current batch and exits cleanly; re-running resumes to the same final
state.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			applyStoreConfig(cmd, flags)
			b := builder.New(args[0], builder.Options{
				DBPath:       flags.DBPath,
				SimpleDBPath: flags.SimpleDBPath,
				BatchSize:    flags.BatchSize,
			})
			return b.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&flags.DBPath, "db-path", flags.DBPath, "Output complex database path")
	cmd.Flags().StringVar(&flags.SimpleDBPath, "simple-db-path", flags.SimpleDBPath, "Output simple database path (MDX format)")
	cmd.Flags().IntVar(&flags.BatchSize, "batch-size", flags.BatchSize, "Word groups committed per transaction")

	bindFlagsToViper(cmd)

	return cmd
}

func newOriginsCommand(flags *Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "origins METADATA LANGUAGE",
		Short: "Extract distinct gender/country origin values for one language",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, language := args[0], args[1]

			f, err := os.Open(input)
			if err != nil {
				return fmt.Errorf("failed to open metadata log: %w", err)
			}
			defer f.Close()

			stats, processed, err := origins.Extract(cmd.Context(), f, language)
			if err != nil {
				return err
			}

			outputPath := origins.OutputPath(input, language)
			if err := stats.Write(outputPath); err != nil {
				return fmt.Errorf("failed to write origin stats: %w", err)
			}

			fmt.Printf("Total matching entries: %d\n", processed)
			fmt.Printf("Unique genders: %d\n", len(stats.Genders))
			fmt.Printf("Unique countries: %d\n", len(stats.Countries))
			fmt.Printf("Unique combinations: %d\n", len(stats.Combinations))
			fmt.Printf("Results saved to: %s\n", outputPath)
			return nil
		},
	}
}

func newFlagsCommand(flags *Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "flags STATS COUNTRIES",
		Short: "Map country names to ISO codes and download their flags",
		Long: `flags reads the origin statistics produced by the origins command and a
restcountries-style countries.json, normalizes every free-text country
name, maps it to an ISO code and downloads the matching circle-flag SVG.
Download failures are captured per country and never abort the run.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("base-url") && viper.IsSet("flags.base_url") {
				flags.FlagBaseURL = viper.GetString("flags.base_url")
			}

			stats, err := origins.Load(args[0])
			if err != nil {
				return err
			}

			index, err := country.BuildIndex(args[1])
			if err != nil {
				return err
			}

			downloader := country.NewFlagDownloader(flags.FlagBaseURL)
			mappings := index.Resolve(cmd.Context(), stats.Countries, downloader, flags.FlagsDir)

			if err := country.WriteMappings(mappings, flags.MappingsOut); err != nil {
				return fmt.Errorf("failed to write country mappings: %w", err)
			}

			mapped, downloaded := 0, 0
			for _, m := range mappings {
				if m.ISOCode != "" {
					mapped++
				}
				if m.FlagFile != "" {
					downloaded++
				}
			}
			fmt.Printf("Processed %d countries\n", len(mappings))
			fmt.Printf("Successfully mapped: %d\n", mapped)
			fmt.Printf("Flags downloaded: %d\n", downloaded)
			fmt.Printf("Results saved to %s\n", flags.MappingsOut)
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.MappingsOut, "output", flags.MappingsOut, "Output mappings file")
	cmd.Flags().StringVar(&flags.FlagsDir, "flags-dir", flags.FlagsDir, "Directory to save flag SVGs")
	cmd.Flags().StringVar(&flags.FlagBaseURL, "base-url", flags.FlagBaseURL, "Flag download base URL")

	return cmd
}

func newIconsCommand(flags *Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "icons STATS MAPPINGS FLAGSDIR",
		Short: "Create gender-country composite icons",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := origins.Load(args[0])
			if err != nil {
				return err
			}

			countries, err := country.LoadTable(args[1])
			if err != nil {
				return err
			}

			compositor, err := icon.NewCompositor(flags.VenusIcon, flags.MarsIcon)
			if err != nil {
				return err
			}

			created, err := compositor.ComposeAll(stats, countries, args[2], flags.IconsOut)
			if err != nil {
				return err
			}

			fmt.Printf("Successfully created %d out of %d icons\n", created, len(stats.Combinations))
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.VenusIcon, "venus", flags.VenusIcon, "Path to Venus (female) glyph SVG")
	cmd.Flags().StringVar(&flags.MarsIcon, "mars", flags.MarsIcon, "Path to Mars (male) glyph SVG")
	cmd.Flags().StringVar(&flags.IconsOut, "output", flags.IconsOut, "Output icons directory")

	return cmd
}

func newDescribeCommand(flags *Flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "describe CODE",
		Short: "Generate title.html and description.html for a language code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			languages, err := describe.LoadLanguages(flags.LanguagesFile)
			if err != nil {
				return err
			}

			title, description, err := describe.Write(args[0], languages, flags.DescribeOut)
			if err != nil {
				return err
			}

			fmt.Printf("Generated:\n")
			fmt.Printf("  - title.html: %s\n", title)
			fmt.Printf("  - description.html: %s\n", description)
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.LanguagesFile, "languages", flags.LanguagesFile, "Language code mapping file")
	cmd.Flags().StringVar(&flags.DescribeOut, "output-dir", flags.DescribeOut, "Directory for the generated files")

	return cmd
}

func bindFlagsToViper(cmd *cobra.Command) {
	viper.BindPFlag("store.db_path", cmd.Flags().Lookup("db-path"))
	viper.BindPFlag("store.simple_db_path", cmd.Flags().Lookup("simple-db-path"))
	viper.BindPFlag("store.batch_size", cmd.Flags().Lookup("batch-size"))
}

// applyLogConfig resolves the logging settings from config when the
// persistent flags were not given explicitly.
func applyLogConfig(cmd *cobra.Command, flags *Flags) {
	if !cmd.Flags().Changed("log-level") && viper.IsSet("log.level") {
		flags.LogLevel = viper.GetString("log.level")
	}
	if !cmd.Flags().Changed("log-format") && viper.IsSet("log.format") {
		flags.LogFormat = viper.GetString("log.format")
	}
}

// applyStoreConfig lets config file and environment values override flag
// defaults while explicit flags always win.
func applyStoreConfig(cmd *cobra.Command, flags *Flags) {
	if !cmd.Flags().Changed("db-path") && viper.IsSet("store.db_path") {
		flags.DBPath = viper.GetString("store.db_path")
	}
	if !cmd.Flags().Changed("simple-db-path") && viper.IsSet("store.simple_db_path") {
		flags.SimpleDBPath = viper.GetString("store.simple_db_path")
	}
	if !cmd.Flags().Changed("batch-size") && viper.IsSet("store.batch_size") {
		flags.BatchSize = viper.GetInt("store.batch_size")
	}
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".forvodict" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".forvodict")
	}

	// Environment variables
	viper.SetEnvPrefix("FORVODICT")
	viper.AutomaticEnv()

	// Read config file
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
