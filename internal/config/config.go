package config

import (
	"os"
	"strings"
)

type Mode string

const (
	ModeDev  Mode = "dev"
	ModeProd Mode = "prod"
)

type Config struct {
	Mode      Mode
	HTTPAddr  string
	PublicURL string

	DBDriver string
	DBDSN    string

	BlobDriver   string // fs (local disk)
	BlobBasePath string

	RedisAddr     string
	RedisPassword string
	QuizCacheTTL  string // Go duration, e.g. "10m"

	// Modules counted toward induction progress, in order.
	RequiredModules []string

	JWTSecret string

	EnableLocalAuth bool
	AdminUser       string
	AdminPassHash   string // bcrypt

	EnableMicrosoftAuth bool
	MSClientID          string
	MSClientSecret      string
	MSTenant            string
	MSRedirectURI       string
	AllowedDomains      []string

	SeedQuestions bool

	CORSOriginsProd []string
	CORSOriginsDev  []string
}

func FromEnv() Config {
	mode := Mode(os.Getenv("MODE"))
	if mode == "" {
		mode = ModeDev
	}
	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	pub := os.Getenv("PUBLIC_URL")
	return Config{
		Mode:      mode,
		HTTPAddr:  addr,
		PublicURL: pub,

		DBDriver: envOr("DB_DRIVER", "sqlite"),
		DBDSN:    envOr("DB_DSN", ""),

		BlobDriver:   envOr("BLOB_DRIVER", "fs"),
		BlobBasePath: envOr("BLOB_BASE_PATH", "./data"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		QuizCacheTTL:  envOr("QUIZ_CACHE_TTL", "10m"),

		RequiredModules: csvOr("REQUIRED_MODULES", "welcome,safety,policies,tools"),

		JWTSecret: envOr("JWT_SECRET", "dev-only-secret"),

		EnableLocalAuth: envBool("ENABLE_LOCAL_AUTH", true),
		AdminUser:       envOr("ADMIN_USER", "admin"),
		AdminPassHash:   envOr("ADMIN_PASS_HASH", "$2y$12$pyZAiWaTfVtM7UElIRStvOC3gNbnp70nmQU4eYopLGBfCJr1DOvji"),

		EnableMicrosoftAuth: envBool("ENABLE_MICROSOFT_AUTH", false),
		MSClientID:          os.Getenv("MS_CLIENT_ID"),
		MSClientSecret:      os.Getenv("MS_CLIENT_SECRET"),
		MSTenant:            envOr("MS_TENANT", "common"),
		MSRedirectURI:       envOr("MS_REDIRECT_URI", strings.TrimSuffix(pub, "/")+"/api/auth/microsoft/callback"),
		AllowedDomains:      csvOr("ALLOWED_DOMAINS", ""),

		SeedQuestions: envBool("SEED_QUESTIONS", mode == ModeDev),

		CORSOriginsProd: csvOr("CORS_ORIGINS_PROD", "https://induction.brightstep.example"),
		CORSOriginsDev:  csvOr("CORS_ORIGINS_DEV", "http://localhost:3000,http://localhost:5173"),
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}

func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
