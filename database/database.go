// Copyright 2025 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package database

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/blinklabs-io/lottery/database/plugin"
	"github.com/blinklabs-io/lottery/database/plugin/blob"
	"github.com/blinklabs-io/lottery/database/plugin/metadata"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	DefaultBlobPlugin     = "badger"
	DefaultMetadataPlugin = "sqlite"
)

// Config holds the settings used to open the storage layer
type Config struct {
	PromRegistry   prometheus.Registerer
	Logger         *slog.Logger
	BlobPlugin     string
	MetadataPlugin string
	// DataDir selects persistent storage. An empty value keeps everything
	// in memory
	DataDir string
}

// Database pairs a blob store holding account snapshots with a metadata
// store indexing lotteries, tickets and accounts
type Database struct {
	logger   *slog.Logger
	blob     blob.BlobStore
	metadata metadata.MetadataStore
	config   Config
}

// Blob returns the underling blob store instance
func (d *Database) Blob() blob.BlobStore {
	return d.blob
}

// DataDir returns the path to the data directory used for storage
func (d *Database) DataDir() string {
	return d.config.DataDir
}

// Logger returns the logger instance
func (d *Database) Logger() *slog.Logger {
	return d.logger
}

// Metadata returns the underlying metadata store instance
func (d *Database) Metadata() metadata.MetadataStore {
	return d.metadata
}

// Transaction starts a new database transaction and returns a handle to it
func (d *Database) Transaction(readWrite bool) *Txn {
	return NewTxn(d, readWrite)
}

// Close cleans up the database connections
func (d *Database) Close() error {
	var err error
	if d.metadata != nil {
		err = errors.Join(err, d.metadata.Close())
	}
	if d.blob != nil {
		err = errors.Join(err, d.blob.Close())
	}
	return err
}

// New opens the configured blob and metadata plugins and verifies that they
// were last committed together
func New(config *Config) (*Database, error) {
	if config == nil {
		config = &Config{}
	}
	db := &Database{
		config: *config,
		logger: config.Logger,
	}
	if db.logger == nil {
		// Create logger to throw away logs
		// We do this so we don't have to add guards around every log operation
		db.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if db.config.BlobPlugin == "" {
		db.config.BlobPlugin = DefaultBlobPlugin
	}
	if db.config.MetadataPlugin == "" {
		db.config.MetadataPlugin = DefaultMetadataPlugin
	}
	startOpts := plugin.StartOptions{
		Logger:       db.logger,
		PromRegistry: db.config.PromRegistry,
		DataDir:      db.config.DataDir,
	}
	metadataDb, err := metadata.New(db.config.MetadataPlugin, startOpts)
	if err != nil {
		return nil, fmt.Errorf("open metadata store: %w", err)
	}
	db.metadata = metadataDb
	blobDb, err := blob.New(db.config.BlobPlugin, startOpts)
	if err != nil {
		_ = metadataDb.Close()
		return nil, fmt.Errorf("open blob store: %w", err)
	}
	db.blob = blobDb
	if err := db.checkCommitTimestamp(); err != nil {
		// Database is available for recovery, so return it with error
		return db, err
	}
	db.logger.Debug(
		"opened database",
		"component", "database",
		"blob", db.config.BlobPlugin,
		"metadata", db.config.MetadataPlugin,
		"data_dir", db.config.DataDir,
	)
	return db, nil
}
