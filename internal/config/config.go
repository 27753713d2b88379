package config

import (
	"flag"
	"log"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	StorageLocal   = "local"
	StorageSQLite  = "sqlite"
	StorageMariaDB = "mariadb"
)

type Config struct {
	Env        string `yaml:"env" env:"ENV" env-required:"true"`
	LogFile    string `yaml:"log_file" env:"LOG_FILE"`
	HTTPServer `yaml:"http_server"`
	API        API       `yaml:"api"`
	Storage    Storage   `yaml:"storage"`
	Session    Session   `yaml:"session"`
	RateLimit  RateLimit `yaml:"rate_limit"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:8080"`
	Timeout     time.Duration `yaml:"timeout" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
	TrustProxy  bool          `yaml:"trust_proxy" env:"HTTP_TRUST_PROXY" env-default:"false"`
}

type API struct {
	BaseURL      string        `yaml:"base_url" env:"API_BASE_URL" env-default:"http://localhost:4941/api/v1"`
	Timeout      time.Duration `yaml:"timeout" env:"API_TIMEOUT" env-default:"5s"`
	ReferenceTTL time.Duration `yaml:"reference_ttl" env:"API_REFERENCE_TTL" env-default:"10m"`
}

type Storage struct {
	Driver  string   `yaml:"driver" env:"STORAGE_DRIVER" env-default:"local"`
	Path    string   `yaml:"path" env:"STORAGE_PATH" env-default:"./data/sessions"`
	MariaDB Database `yaml:"mariadb"`
}

type Database struct {
	Host       string `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port       int    `yaml:"port" env:"DB_PORT" env-default:"3306"`
	UsernameDB string `yaml:"username-db" env:"DB_USERNAME"`
	Password   string `yaml:"password" env:"DB_PASSWORD"`
	DBName     string `yaml:"dbname" env:"DB_NAME" env-default:"storefront"`
}

type Session struct {
	HashKey      string        `yaml:"hash_key" env:"SESSION_HASH_KEY" env-required:"true"`
	BlockKey     string        `yaml:"block_key" env:"SESSION_BLOCK_KEY" env-required:"true"`
	PrevHashKey  string        `yaml:"prev_hash_key" env:"SESSION_PREV_HASH_KEY"`
	PrevBlockKey string        `yaml:"prev_block_key" env:"SESSION_PREV_BLOCK_KEY"`
	MaxAge       time.Duration `yaml:"max_age" env:"SESSION_MAX_AGE" env-default:"720h"`
	Secure       bool          `yaml:"secure" env:"SESSION_SECURE" env-default:"false"`
}

type RateLimit struct {
	RPS   int           `yaml:"rps" env:"RATE_LIMIT_RPS" env-default:"5"`
	Burst int           `yaml:"burst" env:"RATE_LIMIT_BURST" env-default:"10"`
	TTL   time.Duration `yaml:"ttl" env:"RATE_LIMIT_TTL" env-default:"10m"`
}

func MustLoad() *Config {
	configPath := flag.String("config", "", "path to config yaml file")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("cannot read .env: %s", err)
	}

	if *configPath == "" {
		*configPath = os.Getenv("CONFIG_PATH")
	}
	if *configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}

	cfg, err := Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	return cfg
}

func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}

	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (cfg *Database) GetDSN() string {
	mc := mysql.NewConfig()
	mc.User = cfg.UsernameDB
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	mc.DBName = cfg.DBName
	mc.ParseTime = true
	return mc.FormatDSN()
}
