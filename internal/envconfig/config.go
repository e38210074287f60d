package envconfig

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"regexkit/internal/logutil"
)

var (
	// Set via REGEXKIT_DEBUG in the environment
	Debug bool
	// Set via REGEXKIT_TRACE in the environment
	Trace bool
	// Set via REGEXKIT_UNIVERSE in the environment
	Universe string
)

type EnvVar struct {
	Name        string
	Value       any
	Description string
}

func AsMap() map[string]EnvVar {
	return map[string]EnvVar{
		"REGEXKIT_DEBUG":    {"REGEXKIT_DEBUG", Debug, "Show additional debug information (e.g. REGEXKIT_DEBUG=1)"},
		"REGEXKIT_TRACE":    {"REGEXKIT_TRACE", Trace, "Log parser fixed-point iterations and automaton pruning"},
		"REGEXKIT_UNIVERSE": {"REGEXKIT_UNIVERSE", Universe, "Symbols matched by '.' and negated sets: ascii or latin1 (default ascii)"},
	}
}

func Values() map[string]string {
	vals := make(map[string]string)
	for k, v := range AsMap() {
		vals[k] = fmt.Sprintf("%v", v.Value)
	}
	return vals
}

// Clean quotes and spaces from the value
func clean(key string) string {
	return strings.Trim(os.Getenv(key), "\"' ")
}

func init() {
	LoadConfig()
}

func LoadConfig() {
	Debug, Trace, Universe = false, false, "ascii"

	if debug := clean("REGEXKIT_DEBUG"); debug != "" {
		d, err := strconv.ParseBool(debug)
		if err == nil {
			Debug = d
		} else {
			Debug = true
		}
	}

	if trace := clean("REGEXKIT_TRACE"); trace != "" {
		d, err := strconv.ParseBool(trace)
		if err == nil {
			Trace = d
		} else {
			Trace = true
		}
	}

	if u := strings.ToLower(clean("REGEXKIT_UNIVERSE")); u != "" {
		switch u {
		case "ascii", "latin1":
			Universe = u
		default:
			slog.Error("invalid setting, ignoring", "REGEXKIT_UNIVERSE", u)
		}
	}
}

// LogLevel maps the debug switches onto a slog level.
func LogLevel() slog.Level {
	switch {
	case Trace:
		return logutil.LevelTrace
	case Debug:
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}
