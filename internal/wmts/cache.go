// SPDX-FileCopyrightText: 2021 Softbear, Inc.
// SPDX-License-Identifier: AGPL-3.0-or-later

package wmts

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"

	"github.com/defvs/francegen/internal/worldgen/errs"
)

// Cache stores and retrieves tile image bytes keyed by layer/matrix/row/col,
// so a second run (or a second layer sharing a matrix) does not refetch.
type Cache interface {
	Get(key string) ([]byte, bool, error)
	Put(key string, data []byte) error
}

// TileKey builds a cache key for one tile, sanitizing layer/matrix
// identifiers the way the original's WmtsCacheDir::tile_path does so they
// are safe path/object-key components.
func TileKey(layer, tileMatrix string, row, col uint32, extension string) string {
	var sb strings.Builder
	sb.WriteString(sanitizeForKey(layer))
	sb.WriteByte('_')
	sb.WriteString(sanitizeForKey(tileMatrix))
	sb.WriteByte('_')
	sb.WriteString(strconv.FormatUint(uint64(row), 10))
	sb.WriteByte('_')
	sb.WriteString(strconv.FormatUint(uint64(col), 10))
	sb.WriteByte('.')
	sb.WriteString(extension)
	return sb.String()
}

func sanitizeForKey(value string) string {
	var sb strings.Builder
	for _, ch := range value {
		switch {
		case ch >= 'A' && ch <= 'Z', ch >= 'a' && ch <= 'z', ch >= '0' && ch <= '9', ch == '-', ch == '_':
			sb.WriteRune(ch)
		default:
			sb.WriteByte('_')
		}
	}
	return sb.String()
}

// DiskCache is the default tile cache: a local directory of tile files,
// ported from the original's WmtsCacheDir.
type DiskCache struct {
	root string
}

// NewDiskCache creates root (and any parents) if needed.
func NewDiskCache(root string) (*DiskCache, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, errs.New(errs.IOError, "create WMTS cache dir", root, err)
	}
	return &DiskCache{root: root}, nil
}

func (d *DiskCache) Get(key string) ([]byte, bool, error) {
	data, err := os.ReadFile(filepath.Join(d.root, key))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errs.New(errs.IOError, "read cached WMTS tile", key, err)
	}
	return data, true, nil
}

func (d *DiskCache) Put(key string, data []byte) error {
	path := filepath.Join(d.root, key)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errs.New(errs.IOError, "write cached WMTS tile", key, err)
	}
	return nil
}

// Cleanup removes the entire cache directory, for ephemeral caches created
// without an explicit WMTS CacheDir config entry (the original's
// auto_cleanup flag).
func (d *DiskCache) Cleanup() error {
	return os.RemoveAll(d.root)
}

// S3Cache stores tiles as objects in an S3 bucket, generalizing
// S3Filesystem.UploadStaticFile (server/cloud/fs/s3.go) into a get/put tile
// cache instead of a static-asset uploader.
type S3Cache struct {
	svc    *s3.S3
	bucket string
	prefix string
}

// NewS3Cache builds an S3Cache backed by bucket, storing every key under
// prefix (e.g. "wmts-tiles/").
func NewS3Cache(sess *session.Session, bucket, prefix string) *S3Cache {
	return &S3Cache{svc: s3.New(sess), bucket: bucket, prefix: prefix}
}

func (c *S3Cache) objectKey(key string) string {
	return c.prefix + key
}

func (c *S3Cache) Get(key string) ([]byte, bool, error) {
	out, err := c.svc.GetObject(&s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(c.objectKey(key)),
	})
	if err != nil {
		if isS3NotFound(err) {
			return nil, false, nil
		}
		return nil, false, errs.New(errs.IOError, "get S3 WMTS tile", key, err)
	}
	defer out.Body.Close()
	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, false, errs.New(errs.IOError, "read S3 WMTS tile body", key, err)
	}
	return data, true, nil
}

func (c *S3Cache) Put(key string, data []byte) error {
	_, err := c.svc.PutObject(&s3.PutObjectInput{
		Bucket:       aws.String(c.bucket),
		Key:          aws.String(c.objectKey(key)),
		Body:         bytes.NewReader(data),
		CacheControl: aws.String(fmt.Sprintf("no-transform, public, max-age=%d", tileCacheSeconds)),
	})
	if err != nil {
		return errs.New(errs.IOError, "put S3 WMTS tile", key, err)
	}
	return nil
}

const tileCacheSeconds = 30 * 24 * 3600

func isS3NotFound(err error) bool {
	return strings.Contains(err.Error(), "NoSuchKey") || strings.Contains(err.Error(), "NotFound")
}
