package config // package config loads application configuration from environment variables

import (
    "log"     // log is used to report configuration errors and halt execution
    "os"      // os provides access to environment variables
    "strconv" // strconv converts strings to other types
    "time"    // time expresses the slot duration as a Duration
)

// Config holds all runtime configuration values.  Each field corresponds
// to an environment variable.  Booking hours are read as integers and the
// slot duration is converted to a time.Duration at load time, so the
// booking core never deals with raw config strings.
type Config struct {
    Env          string // application environment (e.g. "dev", "prod")
    Port         string // HTTP port to listen on
    DBUser       string // database username
    DBPass       string // database password (optional)
    DBHost       string // database host address
    DBPort       string // database port number
    DBName       string // database name
    JWTSecret    string // secret used to sign JWTs
    AccessTTLMin int    // access token time-to-live in minutes
    BcryptCost   int    // bcrypt cost for password hashing

    OpeningHour   int           // first bookable hour of the day
    ClosingHour   int           // hour the restaurant closes
    SlotDuration  time.Duration // fixed reservation slot length
    DefaultStatus string        // status assigned to new reservations
}

// Load reads configuration values from environment variables and returns
// a Config.  Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.  Booking settings
// have defaults so a bare environment still produces a usable grid.
func Load() Config {
    cfg := Config{
        Env:          must("APP_ENV"),
        Port:         must("APP_PORT"),
        DBUser:       must("DB_USER"),
        DBPass:       os.Getenv("DB_PASS"), // empty allowed
        DBHost:       must("DB_HOST"),
        DBPort:       must("DB_PORT"),
        DBName:       must("DB_NAME"),
        JWTSecret:    must("JWT_SECRET"),
        AccessTTLMin: mustInt("ACCESS_TOKEN_TTL_MIN"),
        BcryptCost:   mustInt("BCRYPT_COST"),

        OpeningHour:   envIntDefault("OPENING_HOUR", 10),
        ClosingHour:   envIntDefault("CLOSING_HOUR", 23),
        SlotDuration:  time.Duration(envIntDefault("SLOT_DURATION_HOURS", 1)) * time.Hour,
        DefaultStatus: envStrDefault("DEFAULT_RESERVATION_STATUS", "CONFIRMED"),
    }
    if cfg.OpeningHour < 0 || cfg.ClosingHour > 24 || cfg.OpeningHour >= cfg.ClosingHour {
        log.Fatalf("invalid operating hours: opening=%d closing=%d", cfg.OpeningHour, cfg.ClosingHour)
    }
    if cfg.SlotDuration <= 0 {
        log.Fatalf("invalid slot duration: %s", cfg.SlotDuration)
    }
    return cfg
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
    v, ok := os.LookupEnv(key)
    if !ok || v == "" {
        log.Fatalf("missing required env var: %s", key)
    }
    return v
}

// mustInt is like must() but converts the retrieved string into an integer.
func mustInt(key string) int {
    s := must(key)
    n, err := strconv.Atoi(s)
    if err != nil {
        log.Fatalf("invalid int for %s: %q", key, s)
    }
    return n
}

func envStrDefault(key, def string) string {
    if v := os.Getenv(key); v != "" {
        return v
    }
    return def
}

func envIntDefault(key string, def int) int {
    v := os.Getenv(key)
    if v == "" {
        return def
    }
    n, err := strconv.Atoi(v)
    if err != nil {
        log.Fatalf("invalid int for %s: %q", key, v)
    }
    return n
}
