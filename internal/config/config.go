package config

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	BaseURL     string `env:"BASE_URL"`
	DatabaseURL string `env:"DATABASE_URL" envDefault:"marketpay.db"`
	JWTSecret   string `env:"JWT_SECRET"`

	Gateway Gateway `envPrefix:"GATEWAY_"`
}

// Gateway holds the env-level defaults for the payment gateway. The settings
// store may override any of these at runtime, so callers should go through a
// settings resolver instead of reading this struct per request.
type Gateway struct {
	BaseURL       string `env:"BASE_URL"`
	MerchantID    string `env:"MERCHANT_ID"`
	Secret        string `env:"SECRET"`
	WebhookSecret string `env:"WEBHOOK_SECRET"`
	Currency      string `env:"CURRENCY" envDefault:"USD"`
	DemoMode      bool   `env:"DEMO_MODE"`
	MinTopup      int64  `env:"MIN_TOPUP" envDefault:"100"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}
