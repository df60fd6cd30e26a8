package main

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"tracker-bot/handlers"
	"tracker-bot/logging"
	"tracker-bot/middleware"
	"tracker-bot/repositories"
	"tracker-bot/services"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/sony/gobreaker"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const defaultRoster = "Jonathan,Stefan,Denys,Pierre,Jimmy"

func main() {
	logging.InitLogger()

	logging.Logger.Info("Event ID: SERVICE_START, Description: Starting tracker-bot...")
	if err := godotenv.Load(".env"); err != nil {
		logging.Logger.Warnf("Event ID: ENV_LOAD_ERROR, Description: Error loading .env file: %v", err)
	}

	botToken := os.Getenv("BOT_TOKEN")
	if botToken == "" {
		logging.Logger.Fatalf("Event ID: CONFIG_ERROR, Description: BOT_TOKEN is not set in the environment variables.")
	}
	spreadsheetID := os.Getenv("SPREADSHEET_ID")
	if spreadsheetID == "" {
		logging.Logger.Fatalf("Event ID: CONFIG_ERROR, Description: SPREADSHEET_ID is not set in the environment variables.")
	}
	credentialsFile := os.Getenv("CREDENTIALS_FILE")
	if credentialsFile == "" {
		credentialsFile = "credentials.json"
	}

	allowed := parseSet(os.Getenv("AUTHORIZED_USERNAMES"))
	if len(allowed) == 0 {
		logging.Logger.Fatalf("Event ID: CONFIG_ERROR, Description: AUTHORIZED_USERNAMES is not set in the environment variables.")
	}

	rosterEnv := os.Getenv("ASSIGNEES")
	if rosterEnv == "" {
		rosterEnv = defaultRoster
	}
	roster := parseList(rosterEnv)

	rateLimit := 60
	if raw := os.Getenv("API_RATE_LIMIT"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			logging.Logger.Fatalf("Event ID: CONFIG_ERROR, Description: API_RATE_LIMIT must be a positive integer, got %q", raw)
		}
		rateLimit = parsed
	}

	ctx := context.Background()
	sheetsService, err := sheets.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(sheets.SpreadsheetsScope),
	)
	if err != nil {
		logging.Logger.Fatalf("Event ID: SHEETS_CLIENT_FAILED, Description: Failed to build Google Sheets client: %v", err)
	}
	logging.Logger.Infof("Event ID: SHEETS_CLIENT_READY, Description: Google Sheets client ready for spreadsheet %s", spreadsheetID)

	sheetsBreaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "SheetsCB",
		MaxRequests: 1,
		Timeout:     5 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Logger.Infof("Event ID: CIRCUIT_BREAKER_STATE_CHANGE, Description: Circuit Breaker '%s' changed from '%s' to '%s'", name, from.String(), to.String())
		},
	})

	repo := repositories.NewSheetRepository(sheetsService, spreadsheetID, sheetsBreaker)
	projectService := services.NewProjectService(repo)
	taskService := services.NewTaskService(repo)

	bot, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		logging.Logger.Fatalf("Event ID: BOT_INIT_FAILED, Description: Failed to connect to Telegram: %v", err)
	}
	logging.Logger.Infof("Event ID: BOT_AUTHORIZED, Description: Authorized on bot account @%s", bot.Self.UserName)

	notificationService := services.NewNotificationService(bot)
	notificationService.Start()

	sessions := services.NewSessionStore()
	limiter := middleware.NewActorLimiter(rateLimit)

	botHandler := handlers.NewBotHandler(bot, sessions, projectService, taskService, notificationService, allowed, limiter, roster)

	if webhookURL := os.Getenv("WEBHOOK_URL"); webhookURL != "" {
		runWebhook(bot, botHandler, webhookURL)
	} else {
		runPolling(bot, botHandler)
	}
}

// runPolling pulls updates with a long-poll loop. Any webhook left over
// from a previous deployment is removed first, otherwise Telegram refuses
// getUpdates.
func runPolling(bot *tgbotapi.BotAPI, botHandler *handlers.BotHandler) {
	if _, err := bot.Request(tgbotapi.DeleteWebhookConfig{}); err != nil {
		logging.Logger.Warnf("Event ID: WEBHOOK_REMOVE_FAILED, Description: Could not remove existing webhook: %v", err)
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	logging.Logger.Info("Event ID: POLLING_STARTED, Description: Receiving updates via long polling")
	botHandler.Run(bot.GetUpdatesChan(u))
}

// runWebhook registers the webhook with Telegram and serves its path,
// feeding parsed updates into the same dispatch loop the polling mode
// uses.
func runWebhook(bot *tgbotapi.BotAPI, botHandler *handlers.BotHandler, webhookURL string) {
	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		logging.Logger.Fatalf("Event ID: CONFIG_ERROR, Description: SERVER_PORT is not set in the environment variables.")
	}

	parsed, err := url.Parse(webhookURL)
	if err != nil {
		logging.Logger.Fatalf("Event ID: CONFIG_ERROR, Description: WEBHOOK_URL is not a valid URL: %v", err)
	}
	webhookPath := parsed.Path
	if webhookPath == "" {
		webhookPath = "/"
	}

	wh, err := tgbotapi.NewWebhook(webhookURL)
	if err != nil {
		logging.Logger.Fatalf("Event ID: WEBHOOK_CONFIG_FAILED, Description: Invalid webhook configuration: %v", err)
	}
	if _, err := bot.Request(wh); err != nil {
		logging.Logger.Fatalf("Event ID: WEBHOOK_SET_FAILED, Description: Failed to set webhook: %v", err)
	}
	info, err := bot.GetWebhookInfo()
	if err == nil && info.LastErrorDate != 0 {
		logging.Logger.Warnf("Event ID: WEBHOOK_LAST_ERROR, Description: Telegram reported webhook failure: %s", info.LastErrorMessage)
	}

	updates := make(chan tgbotapi.Update, bot.Buffer)

	r := mux.NewRouter()
	r.HandleFunc(webhookPath, func(w http.ResponseWriter, req *http.Request) {
		update, err := bot.HandleUpdate(req)
		if err != nil {
			logging.Logger.Warnf("Event ID: WEBHOOK_BAD_UPDATE, Description: Rejected webhook payload: %v", err)
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		updates <- *update
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodPost)

	serverAddress := fmt.Sprintf(":%s", serverPort)
	logging.Logger.Infof("Event ID: SERVER_START_INFO, Description: Webhook server running on http://localhost%s%s", serverAddress, webhookPath)

	go func() {
		if err := http.ListenAndServe(serverAddress, r); err != nil {
			logging.Logger.Fatalf("Event ID: SERVER_FATAL_ERROR, Description: Webhook server failed: %v", err)
		}
	}()

	botHandler.Run(updates)
}

func parseList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func parseSet(raw string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, item := range parseList(raw) {
		set[strings.TrimPrefix(item, "@")] = struct{}{}
	}
	return set
}
