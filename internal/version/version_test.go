package version

import "testing"

func TestStrings(t *testing.T) {
	prev := Version
	defer func() { Version = prev }()
	Version = "1.2.3"

	if got := String(); got != "v1.2.3" {
		t.Errorf("String() = %q", got)
	}
	if got := UserAgent(); got != "hass-render/1.2.3" {
		t.Errorf("UserAgent() = %q", got)
	}
	if got := Get()["version"]; got != "1.2.3" {
		t.Errorf("Get()[version] = %q", got)
	}
}
