package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/rhyrak/campus-schedule/internal/snapshot"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// a missing .env is fine, the process environment still applies
	_ = godotenv.Load()

	var snapshotPath string
	var addr string
	flagSet := pflag.NewFlagSet("server", pflag.ContinueOnError)
	flagSet.StringVar(&snapshotPath, "snapshot", envOr("SCHEDULE_SNAPSHOT", "population.snap"), "population snapshot written by campussim")
	flagSet.StringVar(&addr, "addr", envOr("SCHEDULE_ADDR", ":3001"), "listen address")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	snap, err := snapshot.Read(snapshotPath)
	if err != nil {
		return fmt.Errorf("loading snapshot %s: %w", snapshotPath, err)
	}
	logger.Info("loaded snapshot", "run", snap.RunID, "sessions", len(snap.Sessions), "students", len(snap.Students))

	r := newRouter(snap)
	logger.Info("listening", "addr", addr)
	return r.Run(addr)
}

// envOr returns the environment variable key, or fallback when it is unset or empty.
func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func newRouter(snap *snapshot.Snapshot) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept, Origin, Cache-Control")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	h := &handlers{snap: snap}
	r.GET("/health", h.handleHealth)
	r.GET("/run", h.handleGetRun)
	r.GET("/sessions", h.handleGetSessions)
	r.GET("/sessions/:id", h.handleGetSessionWithId)
	r.GET("/students", h.handleGetStudents)
	r.GET("/students/:id", h.handleGetStudentWithId)
	return r
}
