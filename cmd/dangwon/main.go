package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"

	"github.com/dangwonlab/dangwon/internal/exam"
	"github.com/dangwonlab/dangwon/internal/handler"
	appI18n "github.com/dangwonlab/dangwon/internal/i18n"
	"github.com/dangwonlab/dangwon/internal/llm"
	"github.com/dangwonlab/dangwon/internal/model"
	"github.com/dangwonlab/dangwon/internal/store"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "dangwon",
		Short: "Unit exam server for the math learning platform",
	}

	serve := serveCmd()
	root.AddCommand(serve, exportCmd())

	// Make "serve" the default when no subcommand is given.
	root.RunE = serve.RunE

	// Register serve flags on root so bare `dangwon --addr ...` still works.
	root.Flags().AddFlagSet(serve.Flags())

	return root
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP exam server",
		RunE:  runServe,
	}
	f := cmd.Flags()
	f.StringP("addr", "a", ":8080", "HTTP listen address")
	f.String("db", "dangwon.db", "SQLite database path")
	f.StringP("units", "u", "", "Path to units JSON file to import on first run")
	f.String("llm-url", "", "OpenAI-compatible API base URL")
	f.String("llm-key", "", "API key for the LLM provider")
	f.String("llm-model", "gemini-2.0-flash", "LLM model name")
	f.StringP("lang", "l", "ko", "Message language (ko, en)")
	f.Int("code-attempts", exam.DefaultCodeAttempts, "Maximum exam code mint attempts before giving up")
	f.String("admin-password", "", "Initial admin password (or set DANGWON_ADMIN_PASSWORD)")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
	return cmd
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export one exam's questions, attempts, and solves as JSON",
		RunE:  runExport,
	}
	f := cmd.Flags()
	f.String("db", "dangwon.db", "SQLite database path")
	f.StringP("code", "c", "", "Exam code to export (required)")
	f.StringP("output", "o", "-", "Output file path (- for stdout)")
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")

	_ = cmd.MarkFlagRequired("code")

	return cmd
}

func setupLogging(cmd *cobra.Command) {
	v := viperForCmd(cmd)

	var logLevel slog.Level
	switch strings.ToLower(v.GetString("log-level")) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	handlerOpts := &slog.HandlerOptions{Level: logLevel}
	var logHandler slog.Handler
	switch strings.ToLower(v.GetString("log-format")) {
	case "json":
		logHandler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	default:
		logHandler = slog.NewTextHandler(os.Stderr, handlerOpts)
	}
	slog.SetDefault(slog.New(logHandler))
}

// viperForCmd binds a command's flags and environment to a fresh viper instance.
func viperForCmd(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	_ = v.BindPFlags(cmd.Flags())

	v.SetEnvPrefix("DANGWON")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("dangwon")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/dangwon")
	v.AddConfigPath("/etc/dangwon")
	v.AddConfigPath("/data")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("error reading config file", "error", err)
		}
	} else {
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}

	return v
}

func runServe(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	db, err := store.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := seedAdmin(db, v.GetString("admin-password")); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	if path := v.GetString("units"); path != "" {
		if err := loadUnits(db, path); err != nil {
			return fmt.Errorf("load units: %w", err)
		}
	}

	lang := v.GetString("lang")
	if err := appI18n.Init(lang); err != nil {
		return fmt.Errorf("init i18n: %w", err)
	}

	// Generation refuses to run without an API key: the exam service gets a
	// nil generator and fails fast with a configuration error.
	var llmClient *llm.Client
	if key := v.GetString("llm-key"); key != "" {
		llmClient = llm.New(v.GetString("llm-url"), key, v.GetString("llm-model"))
		if err := llmClient.Ping(context.Background()); err != nil {
			return fmt.Errorf("LLM health check: %w", err)
		}
		slog.Info("LLM endpoint OK", "url", v.GetString("llm-url"), "model", v.GetString("llm-model"))
	} else {
		slog.Warn("no LLM API key configured, exam generation disabled")
	}

	var gen exam.Generator
	if llmClient != nil {
		gen = llmClient
	}
	svc := exam.NewService(db, gen, v.GetInt("code-attempts"))

	h := handler.New(db, svc)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(appI18n.Middleware(lang))
	h.Routes(r)

	addr := v.GetString("addr")
	slog.Info("starting server",
		"addr", addr,
		"model", v.GetString("llm-model"),
		"llm_url", v.GetString("llm-url"),
		"lang", lang,
		"code_attempts", v.GetInt("code-attempts"),
	)
	return http.ListenAndServe(addr, r)
}

func runExport(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	db, err := store.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	export, err := db.ExportExam(strings.ToUpper(strings.TrimSpace(v.GetString("code"))))
	if err != nil {
		return fmt.Errorf("export exam: %w", err)
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}

	outPath := v.GetString("output")
	var w io.Writer
	if outPath == "" || outPath == "-" {
		w = os.Stdout
	} else {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	_, _ = fmt.Fprintln(w)

	return nil
}

// unitImport is the JSON shape for unit reference data files.
type unitImport struct {
	Name     string `json:"name"`
	VideoURL string `json:"videoUrl"`
}

// loadUnits imports unit reference data once; an already-populated units
// table is left untouched so ids stay stable.
func loadUnits(db *store.Store, path string) error {
	count, err := db.UnitCount()
	if err != nil {
		return err
	}
	if count > 0 {
		slog.Info("units already present, skipping import", "count", count)
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	var units []unitImport
	if err := json.Unmarshal(data, &units); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}

	for _, u := range units {
		if _, err := db.CreateUnit(model.Unit{Name: u.Name, VideoURL: u.VideoURL}); err != nil {
			return fmt.Errorf("insert unit %q: %w", u.Name, err)
		}
	}
	slog.Info("imported units", "path", path, "count", len(units))
	return nil
}

func seedAdmin(db *store.Store, password string) error {
	count, err := db.UserCount()
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	if password == "" {
		return fmt.Errorf("admin password is required: set --admin-password flag or DANGWON_ADMIN_PASSWORD env var")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	_, err = db.CreateUser(model.User{
		Username:     "admin",
		DisplayName:  "Administrator",
		PasswordHash: string(hash),
		Role:         model.UserRoleAdmin,
		Active:       true,
	})
	if err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}

	slog.Info("seeded default admin user", "username", "admin")
	return nil
}
