//go:build integration

package integration

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/braincreator/flow-masters-access/internal/storage/postgres"
)

var pool *pgxpool.Pool

func TestMain(m *testing.M) {
	os.Exit(testMain(m))
}

func testMain(m *testing.M) int {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "access",
				"POSTGRES_PASSWORD": "access",
				"POSTGRES_DB":       "access",
			},
			WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(time.Minute),
		},
		Started: true,
	})
	if err != nil {
		log.Fatalf("start postgres container: %v", err)
	}
	defer func() {
		if err := container.Terminate(context.Background()); err != nil {
			log.Printf("terminate container: %v", err)
		}
	}()

	host, err := container.Host(ctx)
	if err != nil {
		log.Fatalf("container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		log.Fatalf("mapped port: %v", err)
	}

	dsn := fmt.Sprintf("postgres://access:access@%s:%s/access?sslmode=disable", host, port.Port())

	// The container accepts connections slightly before postgres finishes
	// initializing, so retry the first connect.
	deadline := time.Now().Add(time.Minute)
	for {
		pool, err = postgres.NewPool(ctx, dsn)
		if err == nil {
			err = pool.Ping(ctx)
		}
		if err == nil {
			break
		}
		if time.Now().After(deadline) {
			log.Fatalf("connect to postgres: %v", err)
		}
		time.Sleep(500 * time.Millisecond)
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		log.Fatalf("run migrations: %v", err)
	}

	return m.Run()
}

// seedCourse inserts a course row directly, returning its id.
func seedCourse(t *testing.T, id, title, slug string) string {
	t.Helper()

	_, err := pool.Exec(context.Background(),
		`INSERT INTO courses (id, title, slug) VALUES ($1, $2, $3) ON CONFLICT (id) DO NOTHING`,
		id, title, slug,
	)
	if err != nil {
		t.Fatalf("seed course %s: %v", id, err)
	}
	return id
}
