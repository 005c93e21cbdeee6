package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/abhisek/triviaz/internal/app"
	"github.com/abhisek/triviaz/internal/config"
	"github.com/abhisek/triviaz/internal/feedback"
	"github.com/abhisek/triviaz/internal/llm"
	"github.com/abhisek/triviaz/internal/logging"
	"github.com/abhisek/triviaz/internal/quiz"
	"github.com/abhisek/triviaz/internal/state"
	"github.com/abhisek/triviaz/internal/store"
	"github.com/abhisek/triviaz/internal/trivia"
)

const categoriesTimeout = 5 * time.Second

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger, closeLog, err := logging.New(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closeLog()

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	client := trivia.NewClient(cfg.OpenTDB.BaseURL,
		trivia.WithHTTPClient(&http.Client{Timeout: cfg.OpenTDB.Timeout}),
		trivia.WithLogger(logger),
		trivia.WithSessionToken(cfg.OpenTDB.SessionTokens),
	)
	catCtx, cancel := context.WithTimeout(ctx, categoriesTimeout)
	catalog := client.CategoriesOrDefault(catCtx)
	cancel()

	provider, fetchTimeout, err := questionSource(ctx, cfg, client, catalog, st.EventRepo(), logger)
	if err != nil {
		return err
	}

	logger.Info("starting", "version", version, "source", cfg.Source, "db", cfg.DBPath)
	return app.Run(ctx, app.Deps{
		Store:        state.New(st.ProfileRepo(), logger),
		Provider:     provider,
		Catalog:      catalog,
		Feedback:     feedback.NewBell(os.Stderr, cfg.Bell),
		Logger:       logger,
		FetchTimeout: fetchTimeout,
	})
}

// questionSource picks the provider for cfg.Source. The Open Trivia DB
// client is the default; the LLM source needs an API key from the config
// or a vendor environment variable.
func questionSource(ctx context.Context, cfg config.Config, client *trivia.Client, catalog trivia.Catalog, events store.EventRepo, logger *log.Logger) (quiz.Provider, time.Duration, error) {
	if cfg.Source != config.SourceLLM {
		return client, cfg.OpenTDB.Timeout * 2, nil
	}

	llmCfg, ok := llm.Discover(cfg.LLM)
	if !ok {
		return nil, 0, errors.New("LLM source selected but no API key configured (set TRIVIAZ_LLM_* or a vendor API key variable)")
	}
	p, err := llm.NewProvider(ctx, llmCfg, events, logger)
	if err != nil {
		return nil, 0, fmt.Errorf("LLM provider: %w", err)
	}
	return trivia.NewLLMSource(p, catalog, logger), llmCfg.Timeout, nil
}
