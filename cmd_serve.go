package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"prompt_page_studio/composer"
	"prompt_page_studio/config"
	"prompt_page_studio/events"
	"prompt_page_studio/generator"
	"prompt_page_studio/kickstarters"
	"prompt_page_studio/metrics"
	"prompt_page_studio/publisher"
	"prompt_page_studio/server"
	"prompt_page_studio/store"
	"prompt_page_studio/store/postgres"
	"prompt_page_studio/store/rediscache"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the studio HTTP API",
	Long: `Start the HTTP API that backs the prompt page editor.

Examples:
  studio serve
  studio serve --config studio.yaml --addr :9090`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.addr)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := buildStore(cfg.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	catalog := kickstarters.NewCatalog(cfg.Kickstarters)
	loader := kickstarters.NewLoader(st)
	if n, err := loader.Load(ctx, server.DefaultAccountID, catalog); err != nil {
		log.Warn().Err(err).Msg("custom kickstarters not loaded")
	} else {
		log.Info().Int("custom", n).Msg("kickstarter catalog ready")
	}

	assistant, err := buildAssistant(cfg.LLM)
	if err != nil {
		return err
	}

	pub, err := buildEvents(cfg.Events)
	if err != nil {
		return err
	}
	defer pub.Close()

	snapshots, err := buildPublisher(ctx, cfg, catalog)
	if err != nil {
		return err
	}

	srv, err := server.New(server.Options{
		Pages:         st,
		Catalog:       catalog,
		Loader:        loader,
		Assistant:     assistant,
		Events:        pub,
		Publisher:     snapshots,
		Metrics:       metrics.New(),
		PublicBaseURL: cfg.Server.PublicBaseURL,
		AssetBaseURL:  cfg.Server.AssetBaseURL,
		SessionTTL:    cfg.Server.SessionTTL.Duration,
	})
	if err != nil {
		return err
	}
	srv.StartReaper(ctx, time.Minute)

	httpSrv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("studio listening")
		errc <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}

func buildStore(c config.StoreConfig) (store.Store, error) {
	var st store.Store
	switch c.Driver {
	case "postgres":
		pg, err := postgres.Open(c.DSN)
		if err != nil {
			return nil, err
		}
		st = pg
	default:
		st = store.NewMemory()
	}
	if c.RedisAddr == "" {
		return st, nil
	}
	cached, err := rediscache.Dial(c.RedisAddr, c.RedisPassword, c.RedisDB, c.CacheTTL.Duration, st)
	if err != nil {
		st.Close()
		return nil, err
	}
	return cached, nil
}

func buildAssistant(c config.LLMConfig) (composer.Assistant, error) {
	llm, err := buildLLM(c)
	if err != nil {
		return nil, err
	}
	guarded := generator.NewGuarded(c.Provider, llm, generator.GuardSettings{
		RPS:         c.RPS,
		Burst:       c.Burst,
		OpenTimeout: c.BreakerTimeout.Duration,
	})
	return generator.NewAgent(guarded)
}

func buildLLM(c config.LLMConfig) (generator.LLMClient, error) {
	settings := &generator.LLMSettings{
		Provider: c.Provider,
		Model:    c.Model,
		APIKey:   c.APIKey,
		BaseURL:  c.BaseURL,
	}
	switch c.Provider {
	case "", "mock":
		return generator.MockLLM{}, nil
	case "openai":
		return generator.NewOpenAILLMFromConfig(settings)
	case "deepseek":
		// OpenAI-compatible; the endpoint must be given explicitly.
		if c.BaseURL == "" {
			return nil, fmt.Errorf("llm provider deepseek requires base_url")
		}
		return generator.NewOpenAILLMFromConfig(settings)
	default:
		return nil, fmt.Errorf("llm provider %s not supported", c.Provider)
	}
}

func buildEvents(c config.EventsConfig) (events.Publisher, error) {
	if c.NATSURL == "" {
		return events.NoopPublisher{}, nil
	}
	return events.NewNATSPublisher(c.NATSURL)
}

func buildPublisher(ctx context.Context, cfg config.Config, catalog *kickstarters.Catalog) (*publisher.Publisher, error) {
	c := cfg.Publisher
	if c.Bucket == "" {
		return nil, nil
	}
	up, err := publisher.NewS3Uploader(ctx, c.Bucket, c.Region, c.Endpoint)
	if err != nil {
		return nil, err
	}
	return publisher.New(up, publisher.Options{
		Prefix:        c.Prefix,
		PublicBaseURL: cfg.Server.PublicBaseURL,
		Catalog:       catalog,
	})
}
