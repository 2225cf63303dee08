//go:build integration
// +build integration

package bootstrap

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"

	"github.com/Yathushan/coldsweat/internal/application/port"
	"github.com/Yathushan/coldsweat/internal/application/usecase"
	"github.com/Yathushan/coldsweat/internal/domain/service"
	"github.com/Yathushan/coldsweat/pkg/config"
	"github.com/Yathushan/coldsweat/pkg/logger"
)

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func integrationConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := &config.Config{
		LogLevel: "error",
		Database: config.DatabaseConfig{
			Engine:          config.EnginePostgres,
			Host:            getenv("INTEGRATION_DB_HOST", "localhost"),
			Port:            getenv("INTEGRATION_DB_PORT", "5432"),
			User:            getenv("INTEGRATION_DB_USER", "postgres"),
			Password:        getenv("INTEGRATION_DB_PASSWORD", "postgres"),
			Database:        getenv("INTEGRATION_DB_NAME", "coldsweat"),
			MaxOpenConns:    4,
			ConnMaxLifetime: time.Minute,
			AutoMigrate:     true,
		},
		App: config.AppConfig{
			SessionSecret: "integration-secret-integration-secret",
			SessionMaxAge: time.Hour,
			CheckTimeout:  5 * time.Second,
			UserAgent:     "coldsweat-integration",
		},
		Redis: config.RedisConfig{
			Enabled:     true,
			Host:        getenv("INTEGRATION_REDIS_HOST", "localhost"),
			Port:        getenv("INTEGRATION_REDIS_PORT", "6379"),
			TTL:         time.Minute,
			PoolSize:    2,
			DialTimeout: 2 * time.Second,
		},
		NATS: config.NATSConfig{
			Enabled: true,
			URL:     getenv("INTEGRATION_NATS_URL", "nats://localhost:4222"),
			Subject: "coldsweat.integration." + uuid.NewString(),
		},
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("integration config invalid: %v", err)
	}
	return cfg
}

func TestIntegrationPostgresRedisNATS(t *testing.T) {
	ctx := context.Background()
	cfg := integrationConfig(t)

	nc, err := nats.Connect(cfg.NATS.URL)
	if err != nil {
		t.Fatalf("nats connect: %v", err)
	}
	defer nc.Close()
	sub, err := nc.SubscribeSync(cfg.NATS.Subject)
	if err != nil {
		t.Fatalf("nats subscribe: %v", err)
	}

	app, err := New(cfg, logger.Discard())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer app.Close()

	username := "it-" + uuid.NewString()[:8]
	password := "integration password"
	createUser := usecase.NewCreateUserUseCase(app.Store, service.NewCredentials(), logger.Discard())
	if _, err := createUser.Execute(ctx, usecase.CreateUserInput{Username: username, Password: password}); err != nil {
		t.Fatalf("create user: %v", err)
	}

	feedServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/atom+xml")
		_, _ = io.WriteString(w, `<feed xmlns="http://www.w3.org/2005/Atom"><title>IT</title></feed>`)
	}))
	defer feedServer.Close()

	server := httptest.NewServer(app.Handler)
	defer server.Close()

	jar, _ := cookiejar.New(nil)
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Host + ":" + cfg.Redis.Port})
	defer rdb.Close()
	_ = rdb.Del(ctx, usecase.StatsCacheKey).Err()

	resp, err := client.Get(server.URL + "/login")
	if err != nil {
		t.Fatalf("GET /login: %v", err)
	}
	resp.Body.Close()
	if n, err := rdb.Exists(ctx, usecase.StatsCacheKey).Result(); err != nil || n != 1 {
		t.Fatalf("stats not cached in redis: n=%d err=%v", n, err)
	}

	resp, err = client.PostForm(server.URL+"/login", url.Values{"username": {username}, "password": {password}})
	if err != nil {
		t.Fatalf("POST /login: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("login status = %d, want 303", resp.StatusCode)
	}

	selfLink := feedServer.URL + "/" + uuid.NewString()
	resp, err = client.PostForm(server.URL+"/feeds/add", url.Values{"self_link": {selfLink}})
	if err != nil {
		t.Fatalf("POST /feeds/add: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(body), "Feed has been added to Default group") {
		t.Fatalf("add feed response = %d %q", resp.StatusCode, body)
	}

	msg, err := sub.NextMsg(5 * time.Second)
	if err != nil {
		t.Fatalf("no feed.added event: %v", err)
	}
	var event port.FeedAddedEvent
	if err := json.Unmarshal(msg.Data, &event); err != nil {
		t.Fatalf("decode event: %v", err)
	}
	if event.SelfLink != selfLink || !event.IsNew {
		t.Fatalf("event = %+v", event)
	}

	if n, _ := rdb.Exists(ctx, usecase.StatsCacheKey).Result(); n != 0 {
		t.Fatal("stats cache not invalidated after adding a feed")
	}
}
