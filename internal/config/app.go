package config

import "os"

func Development() bool {
	v, ok := os.LookupEnv("DEVELOPMENT")
	return ok && v != "0"
}

func Addr() string {
	if addr, ok := os.LookupEnv("SOLVER_ADDR"); ok {
		return addr
	}
	return ":8080"
}
