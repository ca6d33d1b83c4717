package task

import "github.com/spf13/viper"

// Environment is the migration key/value configuration consulted by skip
// policies and rules. *viper.Viper satisfies it.
type Environment interface {
	GetBool(key string) bool
	GetString(key string) string
	IsSet(key string) bool
}

// Ensure viper satisfies Environment.
var _ Environment = (*viper.Viper)(nil)

// EmptyEnvironment returns an environment with no properties set.
func EmptyEnvironment() Environment {
	return viper.New()
}
