package config_test

import (
	"context"
	"os"
	"runtime"
	"testing"

	"github.com/okian/metaforge/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			// Clear any existing environment variables
			clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.CatalogPath, convey.ShouldEqual, "catalog.yaml")
				convey.So(cfg.CuratedBuildsPath, convey.ShouldEqual, "")
				convey.So(cfg.WorkerCount, convey.ShouldEqual, runtime.NumCPU()*2)
				convey.So(cfg.QueueCapacity, convey.ShouldEqual, 10_000)
				convey.So(cfg.SourceTimeoutMS, convey.ShouldEqual, 2_000)
				convey.So(cfg.DefaultInnovationLevel, convey.ShouldEqual, "balanced")
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("METAFORGE_ADDR", ":8080")
			_ = os.Setenv("METAFORGE_CATALOG_PATH", "/etc/metaforge/catalog.yaml")
			_ = os.Setenv("METAFORGE_WORKER_COUNT", "16")
			_ = os.Setenv("METAFORGE_QUEUE_CAPACITY", "5000")
			_ = os.Setenv("METAFORGE_SOURCE_TIMEOUT_MS", "500")
			_ = os.Setenv("METAFORGE_DEFAULT_INNOVATION_LEVEL", "experimental")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.CatalogPath, convey.ShouldEqual, "/etc/metaforge/catalog.yaml")
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 16)
				convey.So(cfg.QueueCapacity, convey.ShouldEqual, 5000)
				convey.So(cfg.SourceTimeoutMS, convey.ShouldEqual, 500)
				convey.So(cfg.DefaultInnovationLevel, convey.ShouldEqual, "experimental")
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			yamlContent := `
addr: ":9090"
catalog_path: "data/catalog.yaml"
curated_builds_path: "data/builds.yaml"
worker_count: 24
queue_capacity: 20000
source_timeout_ms: 3000
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("METAFORGE_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.CatalogPath, convey.ShouldEqual, "data/catalog.yaml")
				convey.So(cfg.CuratedBuildsPath, convey.ShouldEqual, "data/builds.yaml")
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 24)
				convey.So(cfg.QueueCapacity, convey.ShouldEqual, 20000)
				convey.So(cfg.SourceTimeoutMS, convey.ShouldEqual, 3000)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			yamlContent := `
addr: ":9090"
worker_count: 24
queue_capacity: 20000
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("METAFORGE_CONFIG", tmpFile)
			_ = os.Setenv("METAFORGE_ADDR", ":8080")      // This should override the file
			_ = os.Setenv("METAFORGE_WORKER_COUNT", "32") // This should override the file
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")          // Overridden by env
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 32)        // Overridden by env
				convey.So(cfg.QueueCapacity, convey.ShouldEqual, 20_000)  // From file
				convey.So(cfg.SourceTimeoutMS, convey.ShouldEqual, 2_000) // From defaults
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			invalidYaml := `invalid: yaml: content: [`
			tmpFile := createTempConfigFile(invalidYaml)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("METAFORGE_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("METAFORGE_CONFIG", "/non/existent/file.yaml")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with empty addr", func() {
			_ = os.Setenv("METAFORGE_ADDR", "")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with partial YAML file", func() {
			yamlContent := `
addr: ":9090"
worker_count: 16
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("METAFORGE_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should merge with defaults for missing fields", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")                    // From file
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 16)                  // From file
				convey.So(cfg.QueueCapacity, convey.ShouldEqual, 10_000)            // From defaults
				convey.So(cfg.SourceTimeoutMS, convey.ShouldEqual, 2_000)           // From defaults
				convey.So(cfg.DefaultInnovationLevel, convey.ShouldEqual, "balanced") // From defaults
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("METAFORGE_QUEUE_CAPACITY", "invalid")
			_ = os.Setenv("METAFORGE_WORKER_COUNT", "not_a_number")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

func TestConfigLoaderValidation(t *testing.T) {
	convey.Convey("Given config validation on load", t, func() {
		ctx := context.Background()

		convey.Convey("When the queue capacity is zero", func() {
			_ = os.Setenv("METAFORGE_QUEUE_CAPACITY", "0")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should reject the config", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "queue_capacity")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the source timeout is zero", func() {
			_ = os.Setenv("METAFORGE_SOURCE_TIMEOUT_MS", "0")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should reject the config", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "source_timeout_ms")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the worker count is negative", func() {
			_ = os.Setenv("METAFORGE_WORKER_COUNT", "-10")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should reject the config", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "worker_count")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the default innovation level is unknown", func() {
			_ = os.Setenv("METAFORGE_DEFAULT_INNOVATION_LEVEL", "reckless")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should reject the config", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "default_innovation_level")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the catalog path is cleared", func() {
			yamlContent := `
catalog_path: ""
`
			tmpFile := createTempConfigFile(yamlContent)
			defer func() { _ = os.Remove(tmpFile) }()

			_ = os.Setenv("METAFORGE_CONFIG", tmpFile)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should reject the config", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "catalog_path")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When various addr formats are supplied", func() {
			_ = os.Setenv("METAFORGE_ADDR", "[::1]:8080")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should accept them", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg, convey.ShouldNotBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, "[::1]:8080")
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	envVars := []string{
		"METAFORGE_CONFIG",
		"METAFORGE_ADDR",
		"METAFORGE_CATALOG_PATH",
		"METAFORGE_CURATED_BUILDS_PATH",
		"METAFORGE_WORKER_COUNT",
		"METAFORGE_QUEUE_CAPACITY",
		"METAFORGE_SOURCE_TIMEOUT_MS",
		"METAFORGE_DEFAULT_INNOVATION_LEVEL",
	}
	for _, envVar := range envVars {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "metaforge-config-*.yaml")
	if err != nil {
		panic(err)
	}

	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}

	if err := tmpFile.Close(); err != nil {
		panic(err)
	}

	return tmpFile.Name()
}
