// Package flagx contains helpers for partial command-line parsing, so
// that the server and client components can each pick out only the
// flags they own without tripping over each other's arguments.
package flagx

import (
	"os"
	"strings"
)

// FilterArgs returns the subset of args that belongs to the allowed
// flags, keeping flag/value pairs together.
//
// Supported formats:
//  1. Flag and value as separate arguments:  -c conf.json
//  2. Flag and value combined with '=':      --config=conf.json
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name := strings.SplitN(arg, "=", 2)[0]
			if _, ok := allowed[name]; ok {
				filtered = append(filtered, arg)
			}
			continue
		}

		if _, ok := allowed[arg]; ok {
			filtered = append(filtered, arg)
			// Keep the value that follows, if any.
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				filtered = append(filtered, args[i+1])
				i++
			}
		}
	}

	return filtered
}

// JsonConfigFlags scans os.Args for -c/-config and returns the JSON
// config file path, or "" when the flag is absent.
func JsonConfigFlags() string {
	args := FilterArgs(os.Args[1:], []string{"-c", "-config", "--config"})

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if strings.Contains(arg, "=") {
			return strings.SplitN(arg, "=", 2)[1]
		}
		if i+1 < len(args) {
			return args[i+1]
		}
	}

	return ""
}
