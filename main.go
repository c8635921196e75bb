package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/KNICEX/ai-tutor/internal/service/chat"
	"github.com/KNICEX/ai-tutor/internal/service/display"
	"github.com/KNICEX/ai-tutor/internal/service/document"
	"github.com/KNICEX/ai-tutor/internal/service/file"
	"github.com/KNICEX/ai-tutor/internal/service/tutor"
	"github.com/KNICEX/ai-tutor/internal/surface"
	"github.com/KNICEX/ai-tutor/internal/surface/console"
	"github.com/KNICEX/ai-tutor/internal/surface/web"
	"github.com/KNICEX/ai-tutor/ioc"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func initViper() {
	// --config=./config/xxx.yaml
	cfgFile := pflag.String("config", "./config/config.dev.yaml", "specify config file")
	pflag.String("serve", "", "serve the chat over http on this address instead of the terminal")
	pflag.Parse()

	// .env 可选
	_ = godotenv.Load()
	if err := viper.BindEnv("llm.gemini.api_key", "GEMINI_API_KEY"); err != nil {
		panic(err)
	}
	if err := viper.BindPFlag("server.addr", pflag.Lookup("serve")); err != nil {
		panic(err)
	}

	viper.SetConfigFile(*cfgFile)
	err := viper.ReadInConfig()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(fmt.Errorf("fatal error config file: %s \n", err))
	}
}

func main() {
	initViper()
	logger := ioc.InitLogger()
	if err := run(logger); err != nil {
		logger.Error().Err(err).Msg("tutor stopped")
		os.Exit(1)
	}
}

func run(logger zerolog.Logger) error {
	if logger.GetLevel() > zerolog.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	geminiCli := ioc.InitGeminiCli()
	defer geminiCli.Close()
	llmSvc := ioc.InitLLMService(geminiCli, logger)
	cfg := ioc.InitTutorConfig()
	sink := display.NewConsole(os.Stdout)

	var guide string
	if cfg.GuidePDF != "" {
		text, err := document.ExtractText(cfg.GuidePDF)
		if err != nil {
			return err
		}
		guide = text
		logger.Info().Str("path", cfg.GuidePDF).Int("chars", len(guide)).Msg("loaded unit guide")
	}

	gate := file.NewGate(llmSvc,
		file.WithPolicy(ioc.InitPollPolicy()),
		file.WithSink(sink),
		file.WithLogger(logger.With().Str("component", "file_gate").Logger()),
	)
	docs := tutor.NewDocuments(attachDocuments(ctx, gate, cfg.Documents), sink.Error)

	factory := tutor.NewDeferredSessionFactory(llmSvc, tutor.SystemInstruction(cfg, guide), cfg, docs, logger)
	tutorSvc := tutor.NewService(chat.NewManager(factory, logger), cfg.Followup, logger)

	var sf surface.Surface
	if addr := viper.GetString("server.addr"); addr != "" {
		// 文档处理期间即可开始监听, 新会话会等待文档就绪
		sf = web.NewServer(addr, web.NewHandler(tutorSvc, logger), logger)
	} else {
		session, err := tutorSvc.Sessions().Create(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		if err != nil {
			return err
		}
		sf = console.NewLoop(tutorSvc, session.ID(), os.Stdin, sink, logger)
	}

	logger.Info().Str("surface", sf.Name()).Str("model", llmSvc.ModelName()).Msg("tutor started")
	if err := sf.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", sf.Name(), err)
	}
	return nil
}

// attachDocuments uploads the configured documents and waits for them off the
// caller's goroutine.
func attachDocuments(ctx context.Context, gate *file.Gate, docs []file.Document) <-chan file.ReadyResult {
	if len(docs) == 0 {
		ready := make(chan file.ReadyResult, 1)
		ready <- file.ReadyResult{}
		close(ready)
		return ready
	}
	handles, err := gate.SubmitAll(ctx, docs)
	if err != nil {
		ready := make(chan file.ReadyResult, 1)
		ready <- file.ReadyResult{Err: err}
		close(ready)
		return ready
	}
	return gate.AwaitReadyAsync(ctx, handles)
}
