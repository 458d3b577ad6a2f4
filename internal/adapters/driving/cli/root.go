// Package cli wires the cobra command tree over the core services.
//
// Commands talk to the services through package-level variables so
// tests can swap in fakes. The real wiring happens once per process
// in initServices, driven by the TOML config.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	configfile "github.com/talosedu/materia/internal/adapters/driven/config/file"
	localfiles "github.com/talosedu/materia/internal/adapters/driven/files/local"
	gatefile "github.com/talosedu/materia/internal/adapters/driven/gate/file"
	"github.com/talosedu/materia/internal/adapters/driven/storage/snapshot"
	"github.com/talosedu/materia/internal/adapters/driven/storage/sqlite"
	"github.com/talosedu/materia/internal/chunker"
	"github.com/talosedu/materia/internal/core/ports/driven"
	"github.com/talosedu/materia/internal/core/ports/driving"
	"github.com/talosedu/materia/internal/core/services"
	"github.com/talosedu/materia/internal/logger"
)

// version is overridden at build time via -ldflags.
var version = "dev"

// Services used by the commands. Wired in initServices; tests replace
// them directly.
var (
	indexService     driving.IndexService
	ingestService    driving.IngestService
	retrieverService driving.RetrieverService
	gateService      driving.GateService
)

// servicesConfigured suppresses wiring when tests have already
// installed fakes.
var servicesConfigured bool

var (
	verbose   bool
	configDir string
)

var rootCmd = &cobra.Command{
	Use:   "materia",
	Short: "Course material indexing and retrieval",
	Long: `Materia indexes uploaded course documents and retrieves the most
relevant excerpts for a question, scoped to a course and gated by an
access token.`,
	SilenceUsage: true,
	// main reports the error through the logger.
	SilenceErrors:     true,
	PersistentPreRunE: initServices,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "config directory (default ~/.materia)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// initServices builds the adapter stack and the core services from
// config. Runs before every command.
func initServices(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if servicesConfigured {
		return nil
	}

	cfg, err := configfile.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	dataDir := cfg.GetString("storage.data_dir")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".materia", "data")
	}

	store, err := newDocumentStore(cfg.GetString("storage.backend"), dataDir)
	if err != nil {
		return err
	}

	files, err := localfiles.NewStore(cfg.GetString("storage.uploads_dir"))
	if err != nil {
		return fmt.Errorf("opening upload store: %w", err)
	}

	gate, err := gatefile.NewGate(filepath.Join(dataDir, "tokens.json"))
	if err != nil {
		return fmt.Errorf("opening token registry: %w", err)
	}

	var chunkOpts []chunker.Option
	if size := cfg.GetInt("chunking.size"); size > 0 {
		chunkOpts = append(chunkOpts, chunker.WithChunkSize(size))
		chunkOpts = append(chunkOpts, chunker.WithOverlap(cfg.GetInt("chunking.overlap")))
	}
	splitter, err := chunker.New(chunkOpts...)
	if err != nil {
		return fmt.Errorf("configuring chunker: %w", err)
	}

	index := services.NewIndexService(store, splitter)
	indexService = index
	ingestService = services.NewIngestService(files, index)
	retrieverService = services.NewRetrieverService(store, gate)
	gateService = gate
	servicesConfigured = true

	logger.Debug("Services wired: backend=%s data=%s", cfg.GetString("storage.backend"), dataDir)
	return nil
}

// newDocumentStore picks the persistence backend. The JSON snapshot is
// the default; "sqlite" switches to the database store.
func newDocumentStore(backend, dataDir string) (driven.DocumentStore, error) {
	switch backend {
	case "", "snapshot":
		store, err := snapshot.NewStore(filepath.Join(dataDir, "index.json"))
		if err != nil {
			return nil, fmt.Errorf("opening snapshot store: %w", err)
		}
		return store, nil
	case "sqlite":
		store, err := sqlite.NewStore(dataDir)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}
