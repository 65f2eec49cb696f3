package log

// Config controls where log records go and at which level.
type Config struct {
	StdoutLevel string
	NoStdout    bool
	JSON        bool
	File        string
	FileLevel   string
}

func defaultConfig() *Config {
	return &Config{
		StdoutLevel: "info",
		FileLevel:   "info",
	}
}
