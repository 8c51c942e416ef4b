package config

import "github.com/spf13/viper"

type Config struct {
	Server  Server  `mapstructure:"server"`
	Backend Backend `mapstructure:"backend"`
	Upload  Upload  `mapstructure:"upload"`
	Session Session `mapstructure:"session"`
	Devup   Devup   `mapstructure:"devup"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type Backend struct {
	//full URL of the inference endpoint, e.g. http://localhost:5000/predict
	URL string `mapstructure:"url"`
}

type Upload struct {
	MaxSizeMB int64 `mapstructure:"max_size_mb"`
}

type Session struct {
	TTLMinutes int `mapstructure:"ttl_minutes"`
}

type Devup struct {
	APICommand []string `mapstructure:"api_command"`
	WebCommand []string `mapstructure:"web_command"`
}

func InitConfig(filename string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(filename)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	if cfg.Upload.MaxSizeMB == 0 {
		cfg.Upload.MaxSizeMB = 10
	}
	if cfg.Session.TTLMinutes == 0 {
		cfg.Session.TTLMinutes = 30
	}
	return cfg, nil
}
