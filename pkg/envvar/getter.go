package envvar

import (
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

func String(n string, args ...string) (string, bool) {
	defaultValue := ""
	if len(args) > 0 {
		defaultValue = args[0]
	}

	str, ok := os.LookupEnv(n)
	if !ok {
		return defaultValue, false
	}

	return str, true
}

// List splits a comma separated variable, dropping the empty items.
func List(n string) ([]string, bool) {
	str, ok := os.LookupEnv(n)
	if !ok {
		return nil, false
	}

	var items []string
	for _, item := range strings.Split(str, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}

	return items, true
}

func Duration(n string, args ...time.Duration) (time.Duration, bool) {
	defaultValue := time.Duration(0)
	if len(args) > 0 {
		defaultValue = args[0]
	}

	str, ok := os.LookupEnv(n)
	if !ok {
		return defaultValue, false
	}

	du, err := time.ParseDuration(str)
	if err != nil {
		logrus.WithError(err).Errorf("can not parse env var %q as time.Duration, incorrect format", str)
		return defaultValue, false
	}

	return du, true
}
