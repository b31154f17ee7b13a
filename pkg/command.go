package pkg

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/5h1v4n1-2025/daruma/pkg/ai"
	"github.com/5h1v4n1-2025/daruma/pkg/config"
	"github.com/5h1v4n1-2025/daruma/pkg/pipeline"
	"github.com/5h1v4n1-2025/daruma/pkg/script"
	"github.com/5h1v4n1-2025/daruma/pkg/server"
	"github.com/5h1v4n1-2025/daruma/pkg/tts"
	"github.com/5h1v4n1-2025/daruma/pkg/tts/handlers"
	"github.com/5h1v4n1-2025/daruma/pkg/utils"
	"github.com/5h1v4n1-2025/daruma/pkg/voices"
)

func NewCommand() (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:   "daruma",
		Short: "Turn free-form text into a multi-voice audio file",
	}

	cmd.AddCommand(
		newServeCommand(),
		newSpeakCommand(),
	)

	return cmd, nil
}

// newServeCommand starts the HTTP API and serves until interrupted.
func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the audio generation HTTP service",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			pipe, registry, err := buildPipeline(cfg)
			if err != nil {
				return err
			}

			srv := server.New(pipe, registry, cfg.RequestTimeout)

			banner := color.New(color.FgGreen, color.Bold)
			banner.Printf("daruma serving on %s (llm=%s/%s tts=%s/%s voices=%d)\n",
				cfg.Addr, cfg.LLMProvider, cfg.LLMModel, cfg.TTSProvider, cfg.TTSModel, len(registry.Catalog()))

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.Listen(cfg.Addr)
			}()

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return err
			case sig := <-stop:
				log.Printf("Received %s, shutting down", sig)
				return srv.Shutdown()
			}
		},
	}
}

// newSpeakCommand runs one text file through the pipeline and writes
// the resulting mp3 next to it, no server involved.
func newSpeakCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "speak <file.txt> [out.mp3]",
		Short: "Voice a text file into an mp3",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(_ *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			pipe, _, err := buildPipeline(cfg)
			if err != nil {
				return err
			}

			file := args[0]
			text, err := os.ReadFile(file)
			if err != nil {
				return err
			}

			base := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
			outFile := filepath.Join(filepath.Dir(file), utils.SanitizeFilename(base)+".mp3")
			if len(args) == 2 {
				outFile = args[1]
			}

			log.Printf("Voicing %s...", file)
			result, err := pipe.Run(context.Background(), string(text))
			if err != nil {
				return err
			}

			if err := os.WriteFile(outFile, result.Audio.Data, 0o644); err != nil {
				return err
			}

			speakers := result.Utterances.Speakers()
			log.Println("Success!")
			log.Printf("Speakers (%d): %s", len(speakers), strings.Join(speakers, ", "))
			log.Printf("Duration: %s", result.Audio.Duration.Round(time.Second))
			log.Printf("mp3: %s", outFile)
			return nil
		},
	}
}

// buildPipeline wires the configured providers into a ready pipeline.
func buildPipeline(cfg *config.Config) (*pipeline.Pipeline, *voices.Registry, error) {
	llm, err := ai.NewAI(ai.Options{
		Provider:        cfg.LLMProvider,
		Model:           cfg.LLMModel,
		APIKey:          cfg.LLMAPIKey(),
		MaxPromptTokens: cfg.MaxPromptTokens,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("building extraction client: %w", err)
	}

	synth, err := tts.NewSynthesizer(cfg)
	if err != nil {
		return nil, nil, err
	}

	registry := loadRegistry(cfg)

	extractor := pipeline.NewScriptExtractor(llm, script.NewCache(0), cfg.UpstreamTimeout)
	pipe := pipeline.New(extractor, registry, synth, cfg.MaxParallel, cfg.RequestTimeout)

	return pipe, registry, nil
}

// loadRegistry builds the voice catalog for the configured provider.
// For ElevenLabs the live voice listing is preferred so label matching
// sees the account's actual voices; any failure falls back to the
// built-in catalog.
func loadRegistry(cfg *config.Config) *voices.Registry {
	catalog := voices.CatalogFor(cfg.TTSProvider)

	if cfg.TTSProvider == "elevenlabs" {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.UpstreamTimeout)
		defer cancel()

		listed, err := handlers.NewClient(cfg.Secrets.ElevenLabsAPIKey).ListVoices(ctx)
		if err != nil {
			log.Printf("Voice listing unavailable, using built-in catalog: %v", err)
		} else if len(listed) > 0 {
			log.Printf("Loaded %d voices from ElevenLabs", len(listed))
			catalog = listed
		}
	}

	for _, voice := range catalog {
		if voice.ID == cfg.NarratorVoice {
			log.Printf("Narrator voice: %s", voice.ToJson())
			break
		}
	}

	return voices.NewRegistry(catalog, cfg.NarratorVoice)
}
