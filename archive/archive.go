// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package archive uploads snapshots of the vote ledger as .xlsx workbooks.
package archive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/danielhkuo/dzmatch-votes/archive/fs"
	"github.com/danielhkuo/dzmatch-votes/archive/s3"
	"github.com/danielhkuo/dzmatch-votes/ballot"
	"github.com/danielhkuo/dzmatch-votes/cliparse"
	"github.com/danielhkuo/dzmatch-votes/store/xlsx"
)

// ContentType is the media type of archived workbooks.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ErrDisabled is returned by Snapshot when no archive is configured.
var ErrDisabled = errors.New("archive disabled")

// Uploader stores one object under key and reports where it went.
type Uploader interface {
	Upload(ctx context.Context, key string, body []byte, contentType string) (string, error)
}

// Open returns the uploader for cfg.ArchiveDriver, or nil for "none".
func Open(ctx context.Context, cfg cliparse.Config) (Uploader, error) {
	switch cfg.ArchiveDriver {
	case "", "none":
		return nil, nil
	case "fs":
		s, err := fs.New(cfg.ArchiveDir)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "s3":
		s, err := s3.New(ctx, s3.Config{
			Bucket:    cfg.ArchiveS3Bucket,
			Region:    cfg.ArchiveS3Region,
			Endpoint:  cfg.ArchiveS3Endpoint,
			PathStyle: cfg.ArchiveS3PathStyle,
		})
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown archive driver %s", cfg.ArchiveDriver)
	}
}

// Key names a snapshot taken at t.
func Key(t time.Time) string {
	return "votes-" + t.UTC().Format("20060102T150405Z") + ".xlsx"
}

// Snapshot encodes records as a workbook and uploads it.
func Snapshot(ctx context.Context, u Uploader, records []ballot.Record, at time.Time) (string, error) {
	if u == nil {
		return "", ErrDisabled
	}

	var buf bytes.Buffer
	if err := xlsx.WriteWorkbook(&buf, records); err != nil {
		return "", err
	}

	key := Key(at)
	location, err := u.Upload(ctx, key, buf.Bytes(), ContentType)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	slog.Info("ledger archived", "location", location, "records", len(records), "bytes", buf.Len())
	return location, nil
}
