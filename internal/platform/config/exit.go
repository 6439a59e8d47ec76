package config

import (
	"fmt"
	"os"
)

// Exitf reports a fatal startup problem on stderr and exits with code 1.
// The foodgram mains call it for config parse failures before logging is
// configured.
func Exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
