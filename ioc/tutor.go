package ioc

import (
	"github.com/KNICEX/ai-tutor/internal/service/file"
	"github.com/KNICEX/ai-tutor/internal/service/tutor"
	"github.com/spf13/viper"
)

// InitTutorConfig overlays the "tutor" config section on the defaults.
func InitTutorConfig() tutor.Config {
	cfg := tutor.DefaultConfig()
	if err := viper.UnmarshalKey("tutor", &cfg); err != nil {
		panic(err)
	}
	return cfg
}

func InitPollPolicy() file.PollPolicy {
	policy := file.DefaultPolicy()
	if err := viper.UnmarshalKey("files", &policy); err != nil {
		panic(err)
	}
	return policy
}
