package util

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveAppInfoPathExplicit(t *testing.T) {
	path, err := ResolveAppInfoPath("/opt/steam")
	assert.NoError(t, err)
	assert.Equal(t, filepath.Join("/opt/steam", "appcache", "appinfo.vdf"), path)
}
