// cmd/shelfd/main.go
package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"golang.org/x/time/rate"

	"shelftrack/internal/inventory"
	"shelftrack/internal/membership"
	"shelftrack/internal/snapshot"
)

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// initTracer wires the OTLP/HTTP exporter when an endpoint is
// configured; without one, tracing stays on the no-op provider.
func initTracer(ctx context.Context) (*sdktrace.TracerProvider, error) {
	if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") == "" {
		return nil, nil
	}

	exporter, err := otlptracehttp.New(ctx)
	if err != nil {
		return nil, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceName("shelfd")),
	)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	return tp, nil
}

// memberDirectory adapts the membership service to the inventory's
// member check.
type memberDirectory struct {
	members membership.Service
}

func (d memberDirectory) MemberExists(ctx context.Context, id inventory.MemberID) bool {
	memberID, err := uuid.Parse(string(id))
	if err != nil {
		return false
	}
	_, err = d.members.GetMember(ctx, memberID)
	return err == nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tp, err := initTracer(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize tracing: %v", err)
	}
	if tp != nil {
		defer tp.Shutdown(context.Background())
	}

	members := membership.NewService(rate.NewLimiter(rate.Every(time.Minute), 5))

	library := inventory.NewService(func(e inventory.HoldAvailableEvent) {
		log.Printf("hold available: title %s claimable by member %s (event %s)",
			e.BookID, e.MemberID, e.EventID)
	})

	var store *snapshot.Store
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		db, err := sql.Open("postgres", dbURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		store = snapshot.NewStore(db)
		if err := store.EnsureSchema(ctx); err != nil {
			log.Fatalf("Failed to create snapshot schema: %v", err)
		}

		snap, err := store.Latest(ctx)
		switch {
		case err == nil:
			if err := library.Restore(snap); err != nil {
				log.Fatalf("Failed to restore snapshot: %v", err)
			}
			log.Printf("Restored %d titles, %d on shelf", len(snap.Titles), len(snap.ShelfOrder))
		case errors.Is(err, snapshot.ErrNoSnapshot):
			log.Println("No snapshot recorded, starting empty")
		default:
			log.Fatalf("Failed to load snapshot: %v", err)
		}
	}

	var directory inventory.MemberDirectory
	if getEnv("REQUIRE_MEMBERSHIP", "false") == "true" {
		directory = memberDirectory{members: members}
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Mount("/", inventory.NewHandler(library, directory).Routes())
	router.Mount("/membership", membership.NewHandler(members).Routes())

	port := getEnv("PORT", "8080")
	server := &http.Server{Addr: ":" + port, Handler: router}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	log.Printf("Starting shelfd on port %s", port)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Server failed: %v", err)
	}

	if store != nil {
		saveCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		id, err := store.Save(saveCtx, library.Snapshot())
		if err != nil {
			log.Fatalf("Failed to save snapshot: %v", err)
		}
		log.Printf("Saved snapshot %s", id)
	}
}
