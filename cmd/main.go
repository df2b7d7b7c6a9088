package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gopkg.in/yaml.v3"

	"warespace/internal/api"
	"warespace/internal/catalog"
	"warespace/internal/monitoring"
	"warespace/internal/registry"
)

var (
	port        = flag.Int("port", 8080, "API server port")
	metricsPort = flag.Int("metrics-port", 9090, "Metrics server port")
	configFile  = flag.String("config", "configs/config.yaml", "Path to configuration file")
	dataFile    = flag.String("data", "", "Path to the locations CSV (overrides config)")
)

func main() {
	flag.Parse()

	// Load configuration
	config, err := loadConfig(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *dataFile != "" {
		config.DataFile = *dataFile
	}

	// Load the location catalogue; a missing dataset is generated, a
	// malformed one is fatal since the registry cannot start incomplete.
	cat, err := loadCatalogue(config.DataFile)
	if err != nil {
		log.Fatalf("Failed to load catalogue: %v", err)
	}
	log.Printf("Loaded %d locations from %s", cat.Len(), config.DataFile)

	// Initialize registry and metrics
	reg := registry.New(cat)
	monitor := monitoring.NewMonitor(prometheus.DefaultRegisterer)
	monitor.SetStatusCounts(reg.StatusCounts())

	// Initialize API server
	apiServer := api.NewServer(reg, monitor)

	// Start metrics server
	go startMetricsServer(*metricsPort)

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", *port),
		Handler: apiServer.Router,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down servers...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("API server shutdown error: %v", err)
		}
	}()

	log.Printf("Starting API server on port %d", *port)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("API server error: %v", err)
	}
}

func loadCatalogue(path string) (*catalog.Catalogue, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		log.Printf("Dataset %s not found, generating synthetic catalogue", path)
		locs := catalog.Generate(rand.New(rand.NewSource(time.Now().UnixNano())))
		if err := catalog.WriteCSV(path, locs); err != nil {
			return nil, err
		}
	}
	return catalog.LoadCSV(path)
}

func loadConfig(path string) (*Config, error) {
	config := &Config{DataFile: "locations.csv"}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("Config %s not found, using defaults", path)
			return config, nil
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return config, nil
}

func startMetricsServer(port int) {
	metricsRouter := gin.Default()
	metricsRouter.GET("/metrics", gin.WrapH(promhttp.Handler()))

	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: metricsRouter,
	}

	log.Printf("Starting metrics server on port %d", port)
	if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
		log.Printf("Metrics server error: %v", err)
	}
}

// Config represents the application configuration
type Config struct {
	DataFile      string `yaml:"data_file"`
	LogLevel      string `yaml:"log_level"`
	MetricsConfig struct {
		Enabled bool   `yaml:"enabled"`
		Port    int    `yaml:"port"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
}
