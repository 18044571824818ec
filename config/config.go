package config

import (
	"github.com/spf13/viper"
	"sync"
)

var once sync.Once

func InitConfig() {
	once.Do(func() {
		viper.AutomaticEnv()

		viper.BindEnv("metrics_port", "METRICS_PORT")
		viper.BindEnv("telegram_bot_token", "TELEGRAM_BOT_TOKEN")
		viper.BindEnv("cryptorank_api_key", "CRYPTORANK_API_KEY")
		viper.BindEnv("cryptorank_base_url", "CRYPTORANK_BASE_URL")
		viper.BindEnv("model_api_key", "MODEL_API_KEY")
		viper.BindEnv("model_base_url", "MODEL_BASE_URL")
		viper.BindEnv("model_id", "MODEL_ID")
		viper.BindEnv("api_timeout", "API_TIMEOUT")
		viper.BindEnv("api_max_retries", "API_MAX_RETRIES")
		viper.BindEnv("cache_duration", "CACHE_DURATION")
		viper.BindEnv("db_path", "DB_PATH")
		viper.BindEnv("debug", "DEBUG")
		viper.BindEnv("lang", "LANG")

		viper.SetDefault("metrics_port", 9090)
		viper.SetDefault("cryptorank_base_url", "https://api.cryptorank.io/v2")
		viper.SetDefault("model_base_url", "https://api.fireworks.ai/inference/v1")
		viper.SetDefault("model_id", "accounts/sentientfoundation/models/dobby-unhinged-llama-3-3-70b-new")
		viper.SetDefault("api_timeout", 30)
		// Retry and cache are opt-in: 0 keeps a single GET per request and no caching.
		viper.SetDefault("api_max_retries", 0)
		viper.SetDefault("cache_duration", 0)
		viper.SetDefault("db_path", "bot.db")
		viper.SetDefault("debug", false)
		viper.SetDefault("lang", "en")
	})
}

func GetString(key string) string {
	InitConfig()
	return viper.GetString(key)
}

func GetInt(key string) int {
	InitConfig()
	return viper.GetInt(key)
}

func GetBool(key string) bool {
	InitConfig()
	return viper.GetBool(key)
}
