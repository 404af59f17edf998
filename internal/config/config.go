package config

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	BaseURL     string `env:"BASE_URL"`

	Database Database `envPrefix:"DATABASE_"`
	Payment  Payment  `envPrefix:"PAYMENT_"`
	Shipping Shipping `envPrefix:"SHIPPING_"`
	Tax      Tax      `envPrefix:"TAX_"`
	Email    Email    `envPrefix:"EMAIL_"`
	Auth     Auth     `envPrefix:"AUTH_"`
	Checkout Checkout `envPrefix:"CHECKOUT_"`
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

type Database struct {
	Driver string `env:"DRIVER" envDefault:"sqlite"` // sqlite | mysql
	DSN    string `env:"DSN" envDefault:"storefront.db"`
}

type Payment struct {
	BaseApiURL    string `env:"BASE_API_URL" envDefault:"https://api.stripe.com"`
	SecretKey     string `env:"SECRET_KEY"`
	WebhookSecret string `env:"WEBHOOK_SECRET"`
}

type Shipping struct {
	BaseApiURL string `env:"BASE_API_URL"`
	APIKey     string `env:"API_KEY"`

	// warehouse the parcels ship from
	OriginAddress1   string `env:"ORIGIN_ADDRESS1"`
	OriginCity       string `env:"ORIGIN_CITY"`
	OriginState      string `env:"ORIGIN_STATE"`
	OriginPostalCode string `env:"ORIGIN_POSTAL_CODE"`
	OriginCountry    string `env:"ORIGIN_COUNTRY" envDefault:"US"`
}

type Tax struct {
	BaseApiURL string `env:"BASE_API_URL"`
	APIKey     string `env:"API_KEY"`
}

type Email struct {
	BaseApiURL  string `env:"BASE_API_URL"`
	APIKey      string `env:"API_KEY"`
	FromAddress string `env:"FROM_ADDRESS" envDefault:"orders@example.com"`
	FromName    string `env:"FROM_NAME" envDefault:"Storefront"`
}

type Auth struct {
	JWTSecret string `env:"JWT_SECRET"`
}

type Checkout struct {
	// amounts in cents
	FreeShippingThreshold int64 `env:"FREE_SHIPPING_THRESHOLD" envDefault:"7500"`
	// assumed per-unit weight (grams) when the catalog has none
	DefaultItemWeight int `env:"DEFAULT_ITEM_WEIGHT" envDefault:"450"`
}
