// file: cmd/root.go
// version: 2.0.0
// guid: 6a7b8c9d-0e1f-2a3b-4c5d-6e7f8a9b0c1d

package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/jdfalk/kitfinder/internal/catalog"
	"github.com/jdfalk/kitfinder/internal/config"
	"github.com/jdfalk/kitfinder/internal/matcher"
	"github.com/jdfalk/kitfinder/internal/metrics"
	"github.com/jdfalk/kitfinder/internal/search"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "KITFINDER"

var cfgFile string
var catalogPath string
var workers int
var languageFlag string
var logFilePath string

// logFile is the open --log-file handle, closed by Execute
var logFile *os.File

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "kitfinder",
	Short: "Find kits that contain the blocks you are looking for",
	Long: `kitfinder searches a catalog of kits (named lists of blocks) with a
typo-tolerant query. Each word or comma-separated piece of the query is matched
against every block, and kits are ranked by how well their blocks match.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.AppConfig.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		if config.AppConfig.LogFile == "" || logFile != nil {
			return nil
		}
		f, err := setupFileLogging(config.AppConfig.LogFile)
		if err != nil {
			return err
		}
		logFile = f
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() error {
	defer func() {
		if logFile != nil {
			_ = logFile.Close()
			logFile = nil
		}
	}()
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/"+config.DefaultConfigName+")")
	rootCmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "path to the kit catalog (.yaml, .yml, .json or .txt)")
	rootCmd.PersistentFlags().IntVar(&workers, "workers", 1, "number of goroutines used to score kits")
	rootCmd.PersistentFlags().StringVar(&languageFlag, "language", "en", "BCP-47 language used to order kit names")
	rootCmd.PersistentFlags().StringVar(&logFilePath, "log-file", "", "append log output to this file")

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(kitsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(diagnosticsCmd)
}

// bindFlags maps command line flags onto viper keys
func bindFlags() {
	viper.BindPFlag("catalog_path", rootCmd.PersistentFlags().Lookup("catalog"))
	viper.BindPFlag("workers", rootCmd.PersistentFlags().Lookup("workers"))
	viper.BindPFlag("language", rootCmd.PersistentFlags().Lookup("language"))
	viper.BindPFlag("log_file", rootCmd.PersistentFlags().Lookup("log-file"))

	viper.BindPFlag("server.host", serveCmd.Flags().Lookup("host"))
	viper.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
	viper.BindPFlag("server.read_timeout", serveCmd.Flags().Lookup("read-timeout"))
	viper.BindPFlag("server.write_timeout", serveCmd.Flags().Lookup("write-timeout"))
	viper.BindPFlag("server.idle_timeout", serveCmd.Flags().Lookup("idle-timeout"))
	viper.BindPFlag("watch_catalog", serveCmd.Flags().Lookup("watch"))
}

func initConfig() {
	bindFlags()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(strings.TrimSuffix(config.DefaultConfigName, filepath.Ext(config.DefaultConfigName)))
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		log.Printf("[INFO] Using config file: %s", viper.ConfigFileUsed())
	}

	config.InitConfig()
}

// setupFileLogging sends log output to path as well as stderr.
func setupFileLogging(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	log.SetOutput(io.MultiWriter(os.Stderr, f))
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	return f, nil
}

// loadStore loads the configured catalog.
func loadStore() (*catalog.Store, error) {
	if config.AppConfig.CatalogPath == "" {
		return nil, fmt.Errorf("catalog not specified: use --catalog or set catalog_path")
	}
	store := catalog.NewStore()
	if err := store.Load(config.AppConfig.CatalogPath); err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	metrics.SetCatalogKits(store.Len())
	return store, nil
}

// newService builds the search service from config.AppConfig.
func newService(store *catalog.Store) (*search.Service, error) {
	tag, err := config.AppConfig.LanguageTag()
	if err != nil {
		return nil, err
	}
	engine := matcher.NewEngine(
		matcher.WithWorkers(config.AppConfig.Workers),
		matcher.WithLanguage(tag),
	)
	return search.NewService(store, search.Options{
		Engine:          engine,
		CacheEnabled:    config.AppConfig.CacheEnabled,
		CacheTTL:        config.AppConfig.CacheTTL,
		CacheMaxEntries: config.AppConfig.CacheMaxEntries,
		MaxResults:      config.AppConfig.MaxResults,
	}), nil
}
