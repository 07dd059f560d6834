package config

import (
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

var ConfigInfo config

func Init() {
	wd, _ := os.Getwd()
	logrus.Infof("Current working directory: %s", wd)

	viper.SetConfigType("yaml")
	viper.SetConfigName("config.yml")

	configPaths := []string{
		"../../config",
		"./config",
		"../config",
		".",
	}

	for _, path := range configPaths {
		viper.AddConfigPath(path)
		absPath, _ := filepath.Abs(path)
		logrus.Infof("Added config path: %s (absolute: %s)", path, absPath)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logrus.Errorf("config file not found: %v", err)
		} else {
			logrus.Errorf("config error: %v", err)
		}
		return
	}

	logrus.Infof("Successfully read config file: %s", viper.ConfigFileUsed())

	// 手动从viper获取配置值，避免Unmarshal问题
	ConfigInfo.Server.Addr = viper.GetString("server.addr")
	ConfigInfo.Server.EnablePprof = viper.GetBool("server.enable_pprof")

	ConfigInfo.Mysql.Addr = viper.GetString("mysql.addr")
	ConfigInfo.Mysql.Database = viper.GetString("mysql.database")
	ConfigInfo.Mysql.Username = viper.GetString("mysql.username")
	ConfigInfo.Mysql.Password = viper.GetString("mysql.password")
	ConfigInfo.Mysql.Charset = viper.GetString("mysql.charset")

	ConfigInfo.Redis.Addr = viper.GetString("redis.addr")
	ConfigInfo.Redis.Password = viper.GetString("redis.password")
	ConfigInfo.Redis.DB = viper.GetInt("redis.db")
	ConfigInfo.Redis.Enable = viper.GetBool("redis.enable")

	ConfigInfo.RabbitMq.Addr = viper.GetString("rabbitmq.addr")
	ConfigInfo.RabbitMq.Username = viper.GetString("rabbitmq.username")
	ConfigInfo.RabbitMq.Password = viper.GetString("rabbitmq.password")
	ConfigInfo.RabbitMq.Enable = viper.GetBool("rabbitmq.enable")

	ConfigInfo.Store.Backend = viper.GetString("store.backend")
	ConfigInfo.Store.LatencyMs = viper.GetInt("store.latency_ms")
	ConfigInfo.Store.FailureRate = viper.GetFloat64("store.failure_rate")
	ConfigInfo.Store.TimeoutMs = viper.GetInt("store.timeout_ms")
	ConfigInfo.Store.Seed = viper.GetBool("store.seed")

	if ConfigInfo.Store.Backend == "" {
		ConfigInfo.Store.Backend = "memory"
	}

	logrus.Infof("Config loaded - server: %s, store backend: %s",
		ConfigInfo.Server.Addr, ConfigInfo.Store.Backend)
	if ConfigInfo.Store.Backend == "mysql" {
		logrus.Infof("MySQL: %s:%s@%s/%s",
			ConfigInfo.Mysql.Username, "***", ConfigInfo.Mysql.Addr, ConfigInfo.Mysql.Database)
	}
}
