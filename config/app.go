package config

type App struct {
	Port        string `env:"APP_PORT" default:"8080"`
	DatabaseURL string `env:"DATABASE_URL,required"`
	JWTSecret   string `env:"JWT_SECRET,required"`
	Env         string `env:"APP_ENV" default:"dev"`

	// Cover asset host (S3-compatible; Endpoint set when running MinIO).
	CoverBucket   string `env:"COVER_S3_BUCKET"`
	CoverRegion   string `env:"COVER_S3_REGION" default:"us-east-1"`
	CoverEndpoint string `env:"COVER_S3_ENDPOINT"`

	OTLPEndpoint string `env:"OTLP_ENDPOINT"`
}
