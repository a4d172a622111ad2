package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCliParams(t *testing.T) {
	assert.Equal(t, &Run{ExitOnError: true}, NewCliParams())
}

func TestVersionInformationDefaults(t *testing.T) {
	assert.Equal(t, "esqlc", CliBinaryName)
	assert.NotEmpty(t, VersionInformation.BuildVersion)
}
