// Package storage uploads generated images to object storage and
// returns publicly retrievable URLs.
package storage

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// Uploader stores binary image data under a path and returns its
// public URL.
type Uploader interface {
	Upload(ctx context.Context, path string, data []byte, contentType string) (string, error)
}

// MakeImagePath derives an object path from the owning user, the
// current time, and a random id.
func MakeImagePath(userID string) string {
	buf := make([]byte, 8)
	_, _ = rand.Read(buf)
	return fmt.Sprintf("%s/%d-%s.png", userID, time.Now().UnixNano(), hex.EncodeToString(buf))
}
