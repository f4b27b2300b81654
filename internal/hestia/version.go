package hestia

import (
	"fmt"

	"github.com/blang/semver"
)

const versionDevelopment = "development"

// HESTIA_VERSION is set at link time by release builds.
var HESTIA_VERSION = versionDevelopment

func parseVersion(v string) (semver.Version, error) {
	res, err := semver.ParseTolerant(v)
	if err != nil {
		return semver.Version{}, fmt.Errorf("invalid version '%s': %w", v, err)
	}
	return res, nil
}

// VersionAreCompatible reports if a layout written for version b can
// be loaded by version a. Development builds accept anything. Before
// 1.0 the minor version must match.
func VersionAreCompatible(a, b string) (bool, error) {
	if a == versionDevelopment || b == versionDevelopment {
		return true, nil
	}
	av, err := parseVersion(a)
	if err != nil {
		return false, err
	}
	bv, err := parseVersion(b)
	if err != nil {
		return false, err
	}
	if av.Major != bv.Major {
		return false, nil
	}
	return av.Major > 0 || av.Minor == bv.Minor, nil
}

func checkLayoutVersion(version string) error {
	if len(version) == 0 {
		return nil
	}
	ok, err := VersionAreCompatible(HESTIA_VERSION, version)
	if err != nil {
		return configurationErrorf("%s", err)
	}
	if ok == false {
		return configurationErrorf("layout version %s is incompatible with hestia %s", version, HESTIA_VERSION)
	}
	return nil
}
