package main

import (
	"fmt"
	"strings"

	"github.com/blang/semver"
)

// version is overridden at build time with
// -ldflags "-X main.version=1.2.3".
var version = "0.1.0-dev"

func buildVersion() (semver.Version, error) {
	return parseVersion(version)
}

func parseVersion(s string) (semver.Version, error) {
	v, err := semver.Parse(strings.TrimPrefix(strings.TrimSpace(s), "v"))
	if err != nil {
		return semver.Version{}, fmt.Errorf("invalid build version %q: %w", s, err)
	}
	return v, nil
}
