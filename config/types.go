package config

type config struct {
	Server   server   `yaml:"server" mapstructure:"server"`
	Mysql    mysql    `yaml:"mysql" mapstructure:"mysql"`
	Redis    redis    `yaml:"redis" mapstructure:"redis"`
	RabbitMq rabbitmq `yaml:"rabbitmq" mapstructure:"rabbitmq"`
	Store    store    `yaml:"store" mapstructure:"store"`
}

type server struct {
	Addr        string `yaml:"addr"`
	EnablePprof bool   `yaml:"enable_pprof" mapstructure:"enable_pprof"`
}

type mysql struct {
	Addr     string `yaml:"addr"`
	Database string `yaml:"database"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Charset  string `yaml:"charset"`
}

type redis struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Enable   bool   `yaml:"enable"`
}

type rabbitmq struct {
	Addr     string `yaml:"addr"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Enable   bool   `yaml:"enable"`
}

// store configures the record store backing the thread: which backend to
// use, the simulated latency/failure of the memory backend, the per-call
// timeout, and whether to seed the sample dataset on first use.
type store struct {
	Backend     string  `yaml:"backend" mapstructure:"backend"` // mysql | memory
	LatencyMs   int     `yaml:"latency_ms" mapstructure:"latency_ms"`
	FailureRate float64 `yaml:"failure_rate" mapstructure:"failure_rate"`
	TimeoutMs   int     `yaml:"timeout_ms" mapstructure:"timeout_ms"`
	Seed        bool    `yaml:"seed" mapstructure:"seed"`
}
