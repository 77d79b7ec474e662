package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ali-gai/MCQs-Generator/internal/config"
	"github.com/ali-gai/MCQs-Generator/internal/llm"
	"github.com/ali-gai/MCQs-Generator/internal/logger"
	"github.com/ali-gai/MCQs-Generator/internal/mcq"
	"github.com/ali-gai/MCQs-Generator/internal/pdftext"
	"github.com/ali-gai/MCQs-Generator/internal/service"
	"github.com/ali-gai/MCQs-Generator/internal/store"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mcqgen",
	Short: "Generate multiple-choice questions from PDF files",
	Long: `mcqgen extracts the text of a PDF, asks a language model for
multiple-choice questions about it and lets you save them as PDF or TXT.

Run without a subcommand to open the terminal UI, or use "serve" for the
web interface.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd, "")
	},
}

// Execute runs the root command until it returns or the process is
// interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides MCQGEN_DB env var)")
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML config file (overrides MCQGEN_CONFIG env var)")
	rootCmd.PersistentFlags().String("env-file", "", "Load environment variables from this dotenv file instead of ./.env")

	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the configuration named by the persistent flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	file, _ := cmd.Flags().GetString("config")
	envFile, _ := cmd.Flags().GetString("env-file")
	cfg, err := config.Load(config.LoadOptions{File: file, EnvFile: envFile})
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then db_path from the config (MCQGEN_DB), then the default XDG path.
func resolveDBPath(cmd *cobra.Command, cfg *config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg != nil && cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}

// openStore loads the config and opens the database it points at.
func openStore(cmd *cobra.Command) (*config.Config, *store.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	dbPath, err := resolveDBPath(cmd, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	return cfg, st, nil
}

// app bundles everything a command needs to run the pipeline.
type app struct {
	cfg      *config.Config
	store    *store.Store
	provider llm.Provider
	svc      *service.Service
	logger   *slog.Logger
}

// openApp builds the store, the LLM provider and the service. The provider
// is required: every caller of openApp generates or exports questions.
// A nil log means a stderr logger at the configured level.
func openApp(cmd *cobra.Command, log *slog.Logger) (*app, error) {
	cfg, st, err := openStore(cmd)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.NewWithWriter(cmd.ErrOrStderr(), cfg.LogLevel, "mcqgen")
	}

	provider, err := llm.NewProviderFromEnv(cmd.Context(), st.EventRepo(), log)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("LLM provider not configured: %w", err)
	}

	svc := service.New(service.Options{
		Generator:   mcq.New(provider, generatorConfig(cfg)),
		Documents:   st.DocumentRepo(),
		Generations: st.GenerationRepo(),
		Limits:      pdftext.Limits{MinChars: cfg.Limits.MinChars, MaxChars: cfg.Limits.MaxChars},
		Logger:      log,
	})

	return &app{cfg: cfg, store: st, provider: provider, svc: svc, logger: log}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

// generatorConfig applies the generation settings on top of the default
// validator chain.
func generatorConfig(cfg *config.Config) mcq.Config {
	gc := mcq.DefaultConfig()
	gc.Structured = cfg.Generation.Structured
	gc.Strict = cfg.Generation.Strict
	gc.MaxTokens = cfg.Generation.MaxTokens
	gc.Temperature = cfg.Generation.Temperature
	gc.MinQuestions = cfg.Limits.MinQuestions
	gc.MaxQuestions = cfg.Limits.MaxQuestions
	return gc
}

// errSilent marks an error already reported to the user.
var errSilent = errors.New("error already reported")

// reportError prints the user-facing message for err to stderr and
// returns errSilent so main does not print it again.
func reportError(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), service.UserMessage(err))
	return errSilent
}

// IsSilent reports whether err was already shown to the user.
func IsSilent(err error) bool {
	return errors.Is(err, errSilent)
}
