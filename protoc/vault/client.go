// Package vault provides a remote store whose logical namespace is kept
// under a root directory of a locally mounted filesystem. Collections are
// directories and data objects are regular files, so positioned writes
// are served natively by the operating system.
package vault

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/derektruong/fxput/protoc"
	"github.com/go-logr/logr"
	"github.com/google/uuid"
)

var connectionIDNamespace = uuid.MustParse("0f0c8a52-61d7-4d0e-9a55-3b7f1e5d2c41")

// Client represents the vault store settings.
type Client struct {
	// Root is the directory holding the logical root collection
	Root string `json:"root" yaml:"root"`
}

// NewClient creates a new vault client rooted at root.
func NewClient(root string) (c *Client) {
	return &Client{Root: root}
}

func (c Client) Dial(ctx context.Context, logger logr.Logger) (conn protoc.Conn, err error) {
	var root string
	if root, err = filepath.Abs(c.Root); err != nil {
		return
	}
	var info os.FileInfo
	if info, err = os.Stat(root); err != nil {
		return nil, fmt.Errorf("vault root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("vault root %q is not a directory", root)
	}
	if err = registerMeterCallback(); err != nil {
		return
	}
	id := uuid.NewString()
	return &vaultConn{
		id:     id,
		root:   root,
		logger: logger.WithName("vault.conn").WithValues("connectionID", id),
	}, nil
}

func (c Client) GetConnectionID() string {
	return uuid.NewSHA1(connectionIDNamespace, []byte(filepath.Clean(c.Root))).String()
}

func (c Client) GetCredential() any {
	return c
}
