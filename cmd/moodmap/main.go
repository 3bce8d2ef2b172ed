package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/TobiSchelling/moodmap/internal/config"
	"github.com/TobiSchelling/moodmap/internal/logger"
	"github.com/TobiSchelling/moodmap/internal/pipeline"
	"github.com/TobiSchelling/moodmap/internal/server"
)

var version = "dev"

var (
	verbose    bool
	configPath string
	cfg        *config.Config
	log        *zap.SugaredLogger
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "moodmap",
	Short:   "Map news sentiment to places",
	Long:    "moodmap fetches recent news for a topic, scores the sentiment attached to each place it mentions, and geocodes the places into a coordinate file.",
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip config loading for init and version
		if cmd.Name() == "init" || cmd.Name() == "version" {
			return nil
		}

		// A missing .env is fine; keys may come from the environment.
		_ = godotenv.Load()

		path, err := config.ResolveConfigPath(configPath)
		if err != nil {
			return err
		}
		cfg, err = config.Load(path)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}

		log, err = logger.New(cfg.Logging.Level, verbose)
		if err != nil {
			return err
		}
		if path == "" {
			log.Debug("No config file found, using built-in defaults")
		} else {
			log.Debugf("Using config %s", path)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to config file")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("moodmap", version)
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration in ~/.config/moodmap/",
	RunE: func(cmd *cobra.Command, args []string) error {
		target := filepath.Join(config.ConfigDir(), "config.yaml")
		if _, err := os.Stat(target); err == nil {
			fmt.Printf("Config already exists: %s\n", target)
			return nil
		}

		if err := os.MkdirAll(config.ConfigDir(), 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}

		if err := os.WriteFile(target, config.DefaultConfigYAML, 0o644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		fmt.Printf("Created config: %s\n", target)
		fmt.Println("Edit it to choose the news source, extractor, scorer and geocoder.")
		return nil
	},
}

// --- run command ---

var (
	outputPath string
	days       int
	pageSize   int
	workers    int
)

var runCmd = &cobra.Command{
	Use:   "run [topic...]",
	Short: "Run the pipeline: collect -> aggregate -> resolve -> write",
	RunE: func(cmd *cobra.Command, args []string) error {
		applyRunFlags(cmd)

		query := strings.TrimSpace(strings.Join(args, " "))
		if query == "" {
			var err error
			query, err = readTopic(cmd.InOrStdin(), cmd.OutOrStdout())
			if err != nil {
				return err
			}
		}
		if query == "" {
			fmt.Fprintln(cmd.OutOrStdout(), "Empty query. Aborting.")
			return nil
		}

		ctx := cmd.Context()
		deps, closeDeps, err := pipeline.BuildDeps(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer closeDeps()

		pipe, err := pipeline.New(cfg, deps, log)
		if err != nil {
			return err
		}

		result, err := pipe.Run(ctx, query)
		if result != nil {
			printSteps(cmd.OutOrStdout(), result)
		}
		if errors.Is(err, pipeline.ErrEmptyQuery) {
			fmt.Fprintln(cmd.OutOrStdout(), "Empty query. Aborting.")
			return nil
		}
		return err
	},
}

func init() {
	runCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Override output file path")
	runCmd.Flags().IntVar(&days, "days", 0, "Override lookback window (days)")
	runCmd.Flags().IntVar(&pageSize, "page-size", 0, "Override number of articles requested (max 100)")
	runCmd.Flags().IntVar(&workers, "workers", 0, "Override number of concurrent article workers")
}

func applyRunFlags(cmd *cobra.Command) {
	if cmd.Flags().Changed("output") {
		cfg.Output.Path = outputPath
	}
	if cmd.Flags().Changed("days") && days > 0 {
		cfg.News.Days = days
	}
	if cmd.Flags().Changed("page-size") && pageSize > 0 {
		cfg.News.PageSize = pageSize
	}
	if cmd.Flags().Changed("workers") && workers > 0 {
		cfg.Aggregation.Workers = workers
	}
}

// readTopic prompts for a topic and reads one line. A closed input yields
// an empty topic.
func readTopic(in io.Reader, out io.Writer) (string, error) {
	fmt.Fprintln(out, "Enter your news topic of interest.")
	fmt.Fprint(out, "Topic: ")

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading topic: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func printSteps(w io.Writer, result *pipeline.Result) {
	for i, step := range result.Steps {
		fmt.Fprintf(w, "\nStep %d: %s\n", i+1, step.Name)
		if step.Err != nil {
			fmt.Fprintf(w, "  Error: %v\n", step.Err)
		} else {
			fmt.Fprintf(w, "  %s\n", step.Summary)
		}
	}
}

// --- serve command ---

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		deps, closeDeps, err := pipeline.BuildDeps(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer closeDeps()

		pipe, err := pipeline.New(cfg, deps, log)
		if err != nil {
			return err
		}

		port := cfg.Server.Port
		if cmd.Flags().Changed("port") {
			port = servePort
		}
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, port)

		fmt.Printf("Starting server at http://%s\n", addr)
		fmt.Println("Press Ctrl+C to stop")
		return server.Serve(ctx, server.New(pipe, cfg.Output.Path, log), addr)
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 5000, "Port to run server on")
}
