// Copyright (c) 2025 Michael D Henderson. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/mdhender/tabtxt"
	"github.com/mdhender/tabtxt/inputs"
	"github.com/mdhender/tabtxt/pipelines/stages"
	"github.com/mdhender/tabtxt/renderer"
	store "github.com/mdhender/tabtxt/stores/sqlite"
	"github.com/mdhender/tabtxt/walkers/tally"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func main() {
	addFlags := func(cmd *cobra.Command) error {
		cmd.PersistentFlags().Bool("debug", false, "log debugging information")
		cmd.PersistentFlags().Bool("log-with-default-flags", false, "log with default flags")
		cmd.PersistentFlags().Bool("log-with-shortfile", true, "log with short file name")
		cmd.PersistentFlags().Bool("log-with-timestamp", false, "log with timestamp")
		cmd.PersistentFlags().Bool("quiet", false, "log less information")
		cmd.PersistentFlags().Bool("show-version", false, "show version")
		cmd.PersistentFlags().Bool("verbose", false, "log more information")
		return nil
	}
	var cmdRoot = &cobra.Command{
		Use:   "tabtxt",
		Short: "tabtxt command line utility",
		Long:  `Parse, inspect, convert, and import tolerant tabular text`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logWithDefaultFlags, _ := cmd.Flags().GetBool("log-with-default-flags")
			logWithShortFileName, _ := cmd.Flags().GetBool("log-with-shortfile")
			logWithTimestamp, _ := cmd.Flags().GetBool("log-with-timestamp")
			logFlags := 0
			if logWithShortFileName {
				logFlags |= log.Lshortfile
			}
			if logWithTimestamp {
				logFlags |= log.Ltime
			}
			if logWithDefaultFlags || logFlags == 0 {
				logFlags = log.LstdFlags
			}
			log.SetFlags(logFlags)

			if showVersion, _ := cmd.Flags().GetBool("show-version"); showVersion {
				fmt.Printf("tabtxt: version %q\n", tabtxt.Version().Core())
			}

			return nil
		},
	}
	cmdRoot.AddCommand(cmdParse())
	cmdRoot.AddCommand(cmdSplit())
	cmdRoot.AddCommand(cmdStats())
	cmdRoot.AddCommand(cmdRender())
	cmdRoot.AddCommand(cmdImport())
	cmdRoot.AddCommand(cmdInitDB())
	cmdRoot.AddCommand(cmdCompactDB())
	cmdRoot.AddCommand(cmdVersion())
	if err := addFlags(cmdRoot); err != nil {
		log.Fatal(err)
	}

	if err := cmdRoot.Execute(); err != nil {
		os.Exit(1)
	}
}

// dialectFlags adds the shared dialect flags and returns a builder that
// reads them back into a ParseConfig.
func dialectFlags(cmd *cobra.Command) func() tabtxt.ParseConfig {
	cmd.Flags().StringP("delimiter", "d", ",", "field delimiter (single character)")
	cmd.Flags().String("comment", "#", "comment character (single character)")
	cmd.Flags().Bool("no-header", false, "treat the first row as data")
	cmd.Flags().Bool("no-trim", false, "keep whitespace on unquoted fields")
	return func() tabtxt.ParseConfig {
		cfg := tabtxt.DefaultConfig()
		if s, _ := cmd.Flags().GetString("delimiter"); s != "" {
			cfg.Delimiter = s[0]
		}
		if s, _ := cmd.Flags().GetString("comment"); s != "" {
			cfg.Comment = s[0]
		}
		if noHeader, _ := cmd.Flags().GetBool("no-header"); noHeader {
			cfg.HasHeader = false
		}
		if noTrim, _ := cmd.Flags().GetBool("no-trim"); noTrim {
			cfg.Trim = false
		}
		return cfg
	}
}

func cmdParse() *cobra.Command {
	var getCfg func() tabtxt.ParseConfig
	var outputFile string
	var showDiagnostics bool
	var emitRows bool
	var cmd = &cobra.Command{
		Use:          "parse <file>",
		Short:        "parse a delimited text file to JSON records",
		SilenceUsage: true,
		Args:         cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := getCfg()

			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			rows, diags := tabtxt.TokenizeWithDiagnostics(string(data), cfg)
			if showDiagnostics {
				for _, diag := range diags {
					tabtxt.PrintDiagnostic(os.Stderr, diag, filepath.Base(args[0]), string(data))
				}
			}

			var out any
			if emitRows {
				out = rows
			} else {
				out = tabtxt.Records(rows, cfg)
			}

			if data, err := json.MarshalIndent(out, "", "  "); err != nil {
				log.Fatalf("json: %v\n", err)
			} else if outputFile == "" {
				fmt.Printf("%s\n", string(data))
			} else if err = os.WriteFile(outputFile, data, 0o644); err != nil {
				return err
			} else {
				log.Printf("%s: wrote %d bytes\n", outputFile, len(data))
			}

			return nil
		},
	}
	getCfg = dialectFlags(cmd)
	cmd.Flags().StringVarP(&outputFile, "output", "o", outputFile, "save parse to file")
	cmd.Flags().BoolVar(&showDiagnostics, "show-diagnostics", showDiagnostics, "report recoveries on stderr")
	cmd.Flags().BoolVar(&emitRows, "rows", emitRows, "emit raw rows instead of records")
	return cmd
}

func cmdSplit() *cobra.Command {
	var cmd = &cobra.Command{
		Use:          "split <file>",
		Short:        "split a file into quote-aware logical lines",
		SilenceUsage: true,
		Args:         cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			n := 0
			for line := range tabtxt.SplitLines(string(data)) {
				n++
				fmt.Printf("%4d: %s\n", n, line)
			}
			log.Printf("%s: %d logical lines\n", filepath.Base(args[0]), n)
			return nil
		},
	}
	return cmd
}

func cmdStats() *cobra.Command {
	var getCfg func() tabtxt.ParseConfig
	var cmd = &cobra.Command{
		Use:          "stats <file>",
		Short:        "report per-column statistics for a delimited file",
		SilenceUsage: true,
		Args:         cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := getCfg()
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			rows := tabtxt.Tokenize(string(data), cfg)
			columns := tally.Walk(rows, cfg)
			fmt.Printf("%-4s %-20s %8s %8s %8s %6s %6s\n", "pos", "name", "rows", "empty", "numeric", "min", "max")
			for _, col := range columns {
				fmt.Printf("%-4d %-20s %8d %8d %8d %6d %6d\n",
					col.Position+1, col.Name, col.Rows, col.Empty, col.Numeric, col.MinWidth, col.MaxWidth)
			}
			return nil
		},
	}
	getCfg = dialectFlags(cmd)
	return cmd
}

func cmdRender() *cobra.Command {
	var getCfg func() tabtxt.ParseConfig
	var outputFile string
	var toDelimiter string
	var crlf, quoteAll bool
	var excludeColumns []string
	var includeColumns []string
	var cmd = &cobra.Command{
		Use:          "render <file>",
		Short:        "re-render a delimited file in another dialect",
		SilenceUsage: true,
		Args:         cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := getCfg()
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			rows := tabtxt.Tokenize(string(data), cfg)

			options := []renderer.Option{
				renderer.WithCRLF(crlf),
				renderer.WithQuoteAll(quoteAll),
				renderer.WithExcludeColumns(excludeColumns...),
				renderer.WithIncludeColumns(includeColumns...),
			}
			if toDelimiter != "" {
				options = append(options, renderer.WithDelimiter(toDelimiter[0]))
			}
			r, err := renderer.New(options...)
			if err != nil {
				return err
			}

			if outputFile == "" {
				return r.Render(os.Stdout, rows)
			}
			f, err := os.Create(outputFile)
			if err != nil {
				return err
			}
			defer f.Close()
			return r.Render(f, rows)
		},
	}
	getCfg = dialectFlags(cmd)
	cmd.Flags().StringVarP(&outputFile, "output", "o", outputFile, "save rendered output to file")
	cmd.Flags().StringVar(&toDelimiter, "to-delimiter", toDelimiter, "delimiter for the output")
	cmd.Flags().BoolVar(&crlf, "crlf", crlf, "terminate rows with CR+LF")
	cmd.Flags().BoolVar(&quoteAll, "quote-all", quoteAll, "quote every field")
	cmd.Flags().StringSliceVarP(&excludeColumns, "exclude", "e", excludeColumns, "exclude the column")
	cmd.Flags().StringSliceVarP(&includeColumns, "include", "i", includeColumns, "include the column")
	return cmd
}

func cmdImport() *cobra.Command {
	var getCfg func() tabtxt.ParseConfig
	var dbPath string
	var dataDir string
	var cmd = &cobra.Command{
		Use:          "import <file-or-directory>...",
		Short:        "import delimited files into a dataset store",
		SilenceUsage: true,
		Args:         cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			verbose, _ := cmd.Flags().GetBool("verbose")
			debug, _ := cmd.Flags().GetBool("debug")
			cfg := getCfg()

			var sqlStore *store.Store
			var err error
			if dbPath == "" {
				return fmt.Errorf("missing --db")
			}
			sqlStore, err = store.NewStoreWithConfig(store.StoreConfig{Path: dbPath, InitSchema: false})
			if err != nil {
				return err
			}
			defer sqlStore.Close()

			// expand directories into candidate files
			fs := afero.NewOsFs()
			var found []*inputs.InputFile_t
			for _, arg := range args {
				info, err := os.Stat(arg)
				if err != nil {
					return err
				}
				if info.IsDir() {
					dirInputs, err := inputs.CollectInputs(fs, arg, false, verbose, debug)
					if err != nil {
						return err
					}
					found = append(found, dirInputs...)
					continue
				}
				in := inputs.CollectInput(filepath.Dir(arg), filepath.Base(arg), info.Size(), debug)
				if in == nil {
					return fmt.Errorf("%s: not a delimited text file", arg)
				}
				found = append(found, in)
			}
			log.Printf("import: found %d delimited files\n", len(found))

			ingest := stages.NewIngestService(sqlStore, dataDir)
			batchID, err := ingest.NewBatch(ctx, "")
			if err != nil {
				return err
			}

			imported, duplicates := 0, 0
			for _, in := range found {
				data, err := os.ReadFile(in.Path)
				if err != nil {
					return err
				}
				delimiter := cfg.Delimiter
				if changed := cmd.Flags().Changed("delimiter"); !changed {
					delimiter = in.Delimiter // infer from extension unless overridden
				}
				result, err := ingest.IngestFile(ctx, batchID, stages.IngestRequest{
					Filename:  in.Name,
					Data:      data,
					Delimiter: delimiter,
					Comment:   cfg.Comment,
					HasHeader: cfg.HasHeader,
					Trim:      cfg.Trim,
				})
				if err != nil {
					return fmt.Errorf("%s: %w", in.Name, err)
				}
				if result.Duplicate {
					duplicates++
					log.Printf("import: %s: duplicate of dataset %d\n", in.Name, result.DatasetID)
					continue
				}
				imported++
			}

			worker := stages.NewWorkerService(sqlStore, dataDir, "import")
			parsed, err := worker.Drain(ctx)
			if err != nil {
				return err
			}
			log.Printf("import: %d imported, %d duplicates, %d parsed\n", imported, duplicates, parsed)

			stats := sqlStore.Stats()
			log.Printf("store: %d datasets, %d rows, %d columns\n", stats.Datasets, stats.Rows, stats.Columns)
			return nil
		},
	}
	getCfg = dialectFlags(cmd)
	cmd.Flags().StringVar(&dbPath, "db", dbPath, "SQLite database file (created with init-db)")
	cmd.Flags().StringVar(&dataDir, "data", ".", "directory for imported file copies")
	return cmd
}

func cmdInitDB() *cobra.Command {
	return &cobra.Command{
		Use:          "init-db <path>",
		Short:        "create and initialize a new dataset database",
		SilenceUsage: true,
		Args:         cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := store.InitDatabase(args[0]); err != nil {
				return err
			}
			log.Printf("init-db: created %s\n", args[0])
			return nil
		},
	}
}

func cmdCompactDB() *cobra.Command {
	return &cobra.Command{
		Use:          "compact-db <path>",
		Short:        "checkpoint and vacuum a dataset database",
		SilenceUsage: true,
		Args:         cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := store.CompactDatabase(args[0]); err != nil {
				return err
			}
			log.Printf("compact-db: compacted %s\n", args[0])
			return nil
		},
	}
}

func cmdVersion() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(tabtxt.Version().String())
		},
	}
}
