package utils

import "inkbook/config"

// IsProduction checks if the environment is production.
func IsProduction() bool {
	return config.GetEnv() == "production"
}
