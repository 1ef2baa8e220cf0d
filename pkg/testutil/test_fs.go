package testutil

import (
	"github.com/johnlanda/kickstart/pkg/filesystem"
	"github.com/johnlanda/kickstart/pkg/types"
	"github.com/spf13/afero"
)

// NewTestFS creates a new in-memory filesystem for testing.
func NewTestFS() types.FS {
	return filesystem.NewAferoFS(afero.NewMemMapFs())
}
