package config

type App struct {
	Port         string `env:"APP_PORT" default:"8080"`
	DatabaseURL  string `env:"DATABASE_URL,required"`
	JWTSecret    string `env:"JWT_SECRET,required"`
	StripeAPIKey string `env:"STRIPE_API_KEY"`
	MailerURL    string `env:"MAILER_URL"`
	MailerAPIKey string `env:"MAILER_API_KEY"`
	Env          string `env:"APP_ENV" default:"dev"`
}
