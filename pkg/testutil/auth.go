package testutil

import (
	"os"
	"regexp"
	"testing"
)

func maskSecret(s string) string {
	re := regexp.MustCompile(`\b(\w{2})\w+\b`)
	s = re.ReplaceAllString(s, "$1******")
	return s
}

// IntegrationTestConfigured reports whether the integration test of the given backend is
// enabled, which requires TEST_<prefix>=1 and <prefix>_HOST to be set.
func IntegrationTestConfigured(t *testing.T, prefix string) (host string, ok bool) {
	var hasHost bool
	host, hasHost = os.LookupEnv(prefix + "_HOST")
	ok = hasHost && host != "" && os.Getenv("TEST_"+prefix) == "1"
	if ok {
		t.Logf(prefix+" integration test enabled, host = %s, password = %s", host, maskSecret(os.Getenv(prefix+"_PASSWORD")))
	}

	return host, ok
}
