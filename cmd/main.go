package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/leonelquinteros/gotext"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"
	log "github.com/sirupsen/logrus"

	"cryptorank-telegram-bot/config"
	"cryptorank-telegram-bot/internal/bot"
	"cryptorank-telegram-bot/internal/cryptorank"
	"cryptorank-telegram-bot/internal/database"
	"cryptorank-telegram-bot/internal/model"
	"cryptorank-telegram-bot/internal/telegram"
	"cryptorank-telegram-bot/internal/types"
)

type BotMetrics struct {
	MessagesHandled   prometheus.Counter
	CommandsProcessed prometheus.Counter
	DeliveryFailures  prometheus.Counter
}

var metrics = NewBotMetrics()

func init() {
	config.InitConfig()
	setupLogging()
}

func NewBotMetrics() *BotMetrics {
	m := &BotMetrics{
		MessagesHandled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cryptorank",
			Subsystem: "telegram_bot",
			Name:      "messages_handled",
			Help:      "The total number of handled updates",
		}),
		CommandsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cryptorank",
			Subsystem: "telegram_bot",
			Name:      "commands_processed",
			Help:      "The total number of updates answered successfully",
		}),
		DeliveryFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "cryptorank",
			Subsystem: "telegram_bot",
			Name:      "delivery_failures",
			Help:      "The total number of replies that could not be delivered",
		}),
	}

	prometheus.MustRegister(m.MessagesHandled)
	prometheus.MustRegister(m.CommandsProcessed)
	prometheus.MustRegister(m.DeliveryFailures)

	return m
}

func main() {
	gotext.Configure("locales", strings.ToLower(config.GetString("lang")), "default")

	token := config.GetString("telegram_bot_token")
	if token == "" {
		log.Fatal("TELEGRAM_BOT_TOKEN is required")
	}

	if err := database.InitDB(config.GetString("db_path")); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.CloseDB()

	loadMetricsFromDB()

	apiTimeout := time.Duration(config.GetInt("api_timeout")) * time.Second

	market := cryptorank.NewClient(
		config.GetString("cryptorank_base_url"),
		config.GetString("cryptorank_api_key"),
		cryptorank.WithTimeout(apiTimeout),
		cryptorank.WithMaxRetries(config.GetInt("api_max_retries")),
		cryptorank.WithCacheTTL(time.Duration(config.GetInt("cache_duration"))*time.Second),
	)
	if config.GetString("cryptorank_api_key") == "" {
		log.Warn("No CryptoRank API key configured; market-data commands will ask for one")
	}

	ai := model.New(
		config.GetString("model_base_url"),
		config.GetString("model_id"),
		config.GetString("model_api_key"),
		model.WithTimeout(apiTimeout),
	)
	if config.GetString("model_api_key") == "" {
		log.Warn("No model API key configured; free text falls back to the static message")
	}

	dispatcher := bot.NewDispatcher(market, ai)

	tg, err := telegram.NewBot(telegram.BotConfig{
		Token:          token,
		Debug:          config.GetBool("debug"),
		UpdatesTimeout: 60,
	})
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	updates, err := tg.GetUpdatesChannel()
	if err != nil {
		log.Fatalf("Failed to get updates channel: %v", err)
	}

	go handleUpdates(tg, dispatcher, updates)

	go func() {
		for {
			time.Sleep(5 * time.Minute)
			saveMetricsToDB()
		}
	}()

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		saveMetricsToDB()
		log.Println("Metrics saved, shutting down...")
		os.Exit(0)
	}()

	if err := launchMetricsAndHealthServer(config.GetInt("metrics_port")); err != nil {
		log.Fatalf("Failed to start metrics and health server: %v", err)
	}
}

func setupLogging() {
	log.SetLevel(log.ErrorLevel)
	if config.GetBool("debug") {
		log.SetLevel(log.DebugLevel)
	}
	log.Debug("Starting telegram bot...")
}

func handleUpdates(tg *telegram.Bot, dispatcher *bot.Dispatcher, updates tgbotapi.UpdatesChannel) {
	for update := range updates {
		inbound := telegram.MapUpdate(update)
		if inbound == nil {
			log.Debug("Received update with no message or button press")
			continue
		}

		metrics.MessagesHandled.Inc()
		handleUpdate(tg, dispatcher, inbound)
	}
}

func handleUpdate(tg *telegram.Bot, dispatcher *bot.Dispatcher, inbound *types.InboundUpdate) {
	defer func() {
		if r := recover(); r != nil {
			stackBuf := make([]byte, 1024)
			stackSize := runtime.Stack(stackBuf, false)
			stackTrace := bytes.TrimRight(stackBuf[:stackSize], "\x00")
			log.Errorf("Recovered from panic: %v\nStack trace: %s", r, stackTrace)
		}
	}()

	if inbound.Button != nil {
		tg.AnswerCallback(inbound.Button.CallbackID)
	}

	reply := dispatcher.Dispatch(context.Background(), *inbound)
	if reply == nil {
		return
	}

	if err := tg.Send(*reply); err != nil {
		log.Errorf("Failed to send message: %v", err)
		metrics.DeliveryFailures.Inc()
	} else {
		metrics.CommandsProcessed.Inc()
	}
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func launchMetricsAndHealthServer(port int) error {
	http.Handle("/metrics", promhttp.Handler())
	http.HandleFunc("/health", healthCheckHandler)

	log.Infof("Launching metrics and health endpoint on :%d", port)
	return http.ListenAndServe(fmt.Sprintf(":%d", port), http.DefaultServeMux)
}

func loadMetricsFromDB() {
	messagesHandled, _ := database.GetMetric("messages_handled")
	commandsProcessed, _ := database.GetMetric("commands_processed")
	deliveryFailures, _ := database.GetMetric("delivery_failures")

	metrics.MessagesHandled.Add(messagesHandled)
	metrics.CommandsProcessed.Add(commandsProcessed)
	metrics.DeliveryFailures.Add(deliveryFailures)

	log.Println("Metrics loaded from database.")
}

func saveMetricsToDB() {
	database.SaveMetric("messages_handled", getMetricValue(metrics.MessagesHandled))
	database.SaveMetric("commands_processed", getMetricValue(metrics.CommandsProcessed))
	database.SaveMetric("delivery_failures", getMetricValue(metrics.DeliveryFailures))

	log.Println("Metrics saved to database.")
}

func getMetricValue(metric prometheus.Collector) float64 {
	metricChan := make(chan prometheus.Metric, 1)
	metric.Collect(metricChan)
	close(metricChan)

	metricProto := &dto.Metric{}
	if err := (<-metricChan).Write(metricProto); err != nil {
		log.Printf("Failed to read metric value: %v", err)
		return 0
	}

	if metricProto.Counter != nil {
		return metricProto.Counter.GetValue()
	}
	return 0
}
