// Package commands implements the lifestyles CLI commands with cobra.
package commands

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sezginpak/lifestyles/ai/aiclient"
	"github.com/sezginpak/lifestyles/ai/assemble"
	"github.com/sezginpak/lifestyles/ai/chat"
	"github.com/sezginpak/lifestyles/ai/insight"
	"github.com/sezginpak/lifestyles/ai/knowledge"
	"github.com/sezginpak/lifestyles/ai/privacy"
	"github.com/sezginpak/lifestyles/ai/ratelimit"
	"github.com/sezginpak/lifestyles/ai/security"
	"github.com/sezginpak/lifestyles/ai/usage"
	"github.com/sezginpak/lifestyles/internal/profile"
	"github.com/sezginpak/lifestyles/store/kv/sqlitekv"
	"github.com/sezginpak/lifestyles/store/sqlitestore"
)

// NewRootCmd creates the root command with all subcommands registered.
func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "lifestyles",
		Short: "Privacy-gated personal AI assistant over your life data",
		Long: `lifestyles answers questions about your life (friends, moods, goals,
habits, places, journal) with an AI assistant that only ever sees the data
categories you have explicitly allowed.

Examples:
  lifestyles privacy consent
  lifestyles chat "how am I doing this week?"
  lifestyles insight
  lifestyles usage`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("data", "", "data directory (default .lifestyles)")
	rootCmd.PersistentFlags().String("mode", "", "run mode: prod or dev")
	rootCmd.PersistentFlags().String("model", "", "model identifier override")
	rootCmd.PersistentFlags().String("provider", "", "AI provider: anthropic or proxy")
	_ = viper.BindPFlag("data", rootCmd.PersistentFlags().Lookup("data"))
	_ = viper.BindPFlag("mode", rootCmd.PersistentFlags().Lookup("mode"))
	_ = viper.BindPFlag("model", rootCmd.PersistentFlags().Lookup("model"))
	_ = viper.BindPFlag("provider", rootCmd.PersistentFlags().Lookup("provider"))
	viper.SetEnvPrefix("lifestyles")
	viper.AutomaticEnv()

	rootCmd.AddCommand(
		newChatCmd(),
		newInsightCmd(),
		newUsageCmd(),
		newFactsCmd(),
		newPrivacyCmd(),
		newProfileCmd(),
		newKeyCmd(),
	)
	return rootCmd
}

// app holds the wired pipeline for one command invocation.
type app struct {
	profile   *profile.Profile
	logger    *slog.Logger
	kv        *sqlitekv.DB
	data      *sqlitestore.DB
	gate      *privacy.Gate
	tracker   *usage.Tracker
	limiter   *ratelimit.Limiter
	extractor *knowledge.Extractor
	chat      *chat.Service
	insight   *insight.Service
}

// loadProfile builds the runtime profile from defaults, .env, environment
// and flags, in that order of increasing precedence.
func loadProfile() (*profile.Profile, error) {
	_ = godotenv.Load()

	p := profile.Default()
	p.FromEnv()
	if v := viper.GetString("data"); v != "" {
		p.Data = v
	}
	if v := viper.GetString("mode"); v != "" {
		p.Mode = v
	}
	if v := viper.GetString("model"); v != "" {
		p.AIModel = v
	}
	if v := viper.GetString("provider"); v != "" {
		p.AIProvider = v
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// newApp wires the full pipeline. Commands that only touch configuration or
// local state (privacy, usage, facts) still go through here so every command
// sees the same stores.
func newApp(cmd *cobra.Command) (*app, error) {
	p, err := loadProfile()
	if err != nil {
		return nil, err
	}

	level := slog.LevelInfo
	if p.IsDev() {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	kvdb, err := sqlitekv.Open(p.KVPath())
	if err != nil {
		return nil, err
	}
	datadb, err := sqlitestore.Open(p.DataPath())
	if err != nil {
		_ = kvdb.Close()
		return nil, err
	}

	ctx := cmd.Context()
	gate := privacy.NewGate(ctx, kvdb, logger)
	tracker := usage.NewTracker(kvdb, usage.Rates{InputPer1M: p.InputCostPer1M, OutputPer1M: p.OutputCostPer1M}, p.FreeDailyMessages, logger)
	limiter := ratelimit.New(kvdb, ratelimit.Limits{
		PerMinute: p.MaxRequestsPerMinute,
		PerHour:   p.MaxRequestsPerHour,
		PerDay:    p.MaxRequestsPerDay,
	}, logger)

	creds, err := aiclient.NewCredentialProvider(p)
	if err != nil {
		_ = kvdb.Close()
		_ = datadb.Close()
		return nil, err
	}
	transport, err := aiclient.NewTransport(p, creds)
	if err != nil {
		_ = kvdb.Close()
		_ = datadb.Close()
		return nil, err
	}
	client := aiclient.NewClient(transport, security.NewGate(nil), limiter, tracker, p)

	assembler := assemble.New(datadb, gate, logger)
	extractor := knowledge.NewExtractor(gate, knowledge.NewMerger(datadb), client, logger)

	return &app{
		profile:   p,
		logger:    logger,
		kv:        kvdb,
		data:      datadb,
		gate:      gate,
		tracker:   tracker,
		limiter:   limiter,
		extractor: extractor,
		chat:      chat.NewService(gate, assembler, client, tracker, extractor, logger),
		insight:   insight.NewService(gate, assembler, client, kvdb, logger),
	}, nil
}

// close drains the extractor so queued fact extraction completes before the
// process exits.
func (a *app) close() {
	a.extractor.Close()
	if err := a.data.Close(); err != nil {
		a.logger.Warn("close data store", "error", err)
	}
	if err := a.kv.Close(); err != nil {
		a.logger.Warn("close kv store", "error", err)
	}
}

func userMessage(err error) string {
	type messager interface{ UserMessage() string }
	if m, ok := err.(messager); ok {
		return m.UserMessage()
	}
	return err.Error()
}

var errNotFound = errors.New("not found")
