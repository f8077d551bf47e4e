package antsi

import (
	"os"
	"strings"
)

// DetectColorSupport reports whether the environment asks for or allows SGR
// output. It does not check whether the output is a terminal; callers
// combine it with their own terminal detection.
func DetectColorSupport() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if force := os.Getenv("CLICOLOR_FORCE"); force != "" && force != "0" {
		return true
	}
	if os.Getenv("CLICOLOR") == "0" {
		return false
	}
	term := strings.ToLower(os.Getenv("TERM"))
	return term != "dumb"
}
