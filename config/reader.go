package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v2"
)

type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"name"`
}

type RedisConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type ConfigSchema struct {
	Databases struct {
		// Driver: postgres (по умолчанию) или sqlite для локального запуска
		Driver     string     `yaml:"driver"`
		SQLitePath string     `yaml:"sqlite_path"`
		Master     DBConfig   `yaml:"master"`
		Replicas   []DBConfig `yaml:"replicas"`
	} `yaml:"db"`
	Redis    RedisConfig `yaml:"redis"`
	RabbitMQ struct {
		URL   string `yaml:"url"`
		Queue string `yaml:"queue"`
	} `yaml:"rabbitmq"`
	Backend struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
	} `yaml:"backend"`
	Logs struct {
		// Level: debug включает режим отладки gin
		Level string `yaml:"level"`
	} `yaml:"logs"`
}

var AppConfig *ConfigSchema

func LoadConfig(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	conf := &ConfigSchema{}
	if err = yaml.Unmarshal(data, conf); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", filePath, err)
	}
	if err = applyEnv(conf); err != nil {
		return err
	}
	applyDefaults(conf)
	AppConfig = conf
	return nil
}

// Addr возвращает адрес, на котором слушает HTTP сервер
func (c *ConfigSchema) Addr() string {
	return fmt.Sprintf("%s:%d", c.Backend.Host, c.Backend.Port)
}

func applyDefaults(conf *ConfigSchema) {
	if conf.Databases.Driver == "" {
		conf.Databases.Driver = "postgres"
	}
	if conf.Databases.Driver == "sqlite" && conf.Databases.SQLitePath == "" {
		conf.Databases.SQLitePath = "filmorate.db"
	}
	if conf.Databases.Master.Port == 0 {
		conf.Databases.Master.Port = 5432
	}
	if conf.Backend.Port == 0 {
		conf.Backend.Port = 8080
	}
	if conf.RabbitMQ.Queue == "" {
		conf.RabbitMQ.Queue = "feed_push_queue"
	}
	if conf.Logs.Level == "" {
		conf.Logs.Level = "info"
	}
}

// applyEnv переопределяет настройки из переменных окружения (удобно для docker и тестов)
func applyEnv(conf *ConfigSchema) error {
	setString := func(name string, dst *string) {
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}
	setInt := func(name string, dst *int) error {
		v := os.Getenv(name)
		if v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
		*dst = n
		return nil
	}

	setString("DB_DRIVER", &conf.Databases.Driver)
	setString("DB_HOST", &conf.Databases.Master.Host)
	setString("DB_USER", &conf.Databases.Master.User)
	setString("DB_PASSWORD", &conf.Databases.Master.Password)
	setString("DB_NAME", &conf.Databases.Master.DBName)
	setString("REDIS_HOST", &conf.Redis.Host)
	setString("REDIS_PASSWORD", &conf.Redis.Password)
	setString("RABBITMQ_URL", &conf.RabbitMQ.URL)
	if err := setInt("DB_PORT", &conf.Databases.Master.Port); err != nil {
		return err
	}
	if err := setInt("REDIS_PORT", &conf.Redis.Port); err != nil {
		return err
	}
	return setInt("BACKEND_PORT", &conf.Backend.Port)
}
