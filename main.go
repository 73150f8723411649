package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/voxboard/voxboard/assistant/analysis"
	"github.com/voxboard/voxboard/assistant/session"
	toolx "github.com/voxboard/voxboard/assistant/tool"
	"github.com/voxboard/voxboard/assistant/trigger"
	configx "github.com/voxboard/voxboard/pkg/config"
	"github.com/voxboard/voxboard/pkg/hubspot"
	"github.com/voxboard/voxboard/pkg/llm"
	logx "github.com/voxboard/voxboard/pkg/logger"
	"github.com/voxboard/voxboard/pkg/notion"
	"github.com/voxboard/voxboard/server"
)

type AppConfig struct {
	NotionPageID string `envconfig:"NOTION_PAGE_ID" split_words:"true"`

	// Zero means the trigger's built-in default.
	MarketFitTimeout time.Duration `envconfig:"MARKET_FIT_TIMEOUT" split_words:"true"`
	VerifyTimeout    time.Duration `envconfig:"VERIFY_TIMEOUT" split_words:"true"`
}

func main() {
	logCfg := configx.MustNew[logx.Config]("LOG")
	logx.Init(*logCfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	appCfg := configx.MustNew[AppConfig]("")

	hubspotCfg := configx.MustNew[hubspot.Config]("HUBSPOT")
	crm, err := hubspot.NewClient(*hubspotCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("hubspot client")
	}

	notionCfg := configx.MustNew[notion.Config]("NOTION")
	pages, err := notion.NewClient(*notionCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("notion client")
	}

	llmCfg := configx.MustNew[llm.Config]("OPENAI")
	chatModel, err := llmCfg.New(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("chat model")
	}
	dashboardCompleter := llm.NewChatCompleter(chatModel)
	verifyCompleter := llm.NewSDKCompleter(llm.NewClient(*llmCfg), *llmCfg)

	analyzer := analysis.NewService(crm, pages, dashboardCompleter, appCfg.NotionPageID)
	verifier := analysis.NewVerifyService(crm, verifyCompleter)

	registry := trigger.NewRegistry(
		trigger.NewProductMarketFit(analyzer, appCfg.MarketFitTimeout),
		trigger.NewVerifyData(verifier, appCfg.VerifyTimeout),
	)

	executor := toolx.NewExecutor(analyzer, verifier)
	sessions := session.NewManager(toolx.Catalog(), executor)

	serverCfg := configx.MustNew[server.Config]("SERVER")
	srv := server.New(*serverCfg, registry, sessions, analyzer, verifier, crm)

	if err := srv.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
