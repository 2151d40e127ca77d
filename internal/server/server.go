package server

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/VictoriaMetrics/metrics"

	"github.com/five82/rolo/internal/contacts"
	ds "github.com/five82/rolo/internal/server/datastore"
)

const (
	title   = "rolo contacts"
	version = "0.1.0"
)

// ServerOptions configure the listener.
type ServerOptions struct {
	Host              string
	Port              int
	ReadHeaderTimeout time.Duration
}

// StoreOptions select the storage backend. An empty DB keeps contacts in memory.
type StoreOptions struct {
	DB   string
	Seed bool
}

// NewServer builds an http.Server around handler.
func NewServer(options *ServerOptions, handler http.Handler, logger *slog.Logger) *http.Server {
	timeout := options.ReadHeaderTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &http.Server{
		Addr:              net.JoinHostPort(options.Host, strconv.Itoa(options.Port)),
		ReadHeaderTimeout: timeout,
		Handler:           handler,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}
}

var sampleContact = contacts.Fields{
	FirstName: "Ana",
	LastName:  "Lopez",
	Phone:     "555-0101",
	Email:     "ana@example.com",
	City:      "Lima",
	Company:   "Acme",
	Birthday:  "1990-02-03",
}

// OpenStore opens the backend named by options. The returned closer releases
// the database, if any.
func OpenStore(ctx context.Context, options *StoreOptions) (ds.ContactsStore, io.Closer, error) {
	if options.DB == "" {
		store := ds.NewInmem()
		if options.Seed {
			store = ds.NewInmem(sampleContact)
		}
		return store, nopCloser{}, nil
	}

	db, err := ds.OpenSQLite(ctx, options.DB)
	if err != nil {
		return nil, nil, err
	}
	store := ds.NewSQLite(db)
	if options.Seed {
		if err := seed(ctx, store); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
	}
	return store, db, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func seed(ctx context.Context, store ds.ContactsStore) error {
	items, err := store.List(ctx)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	if len(items) > 0 {
		return nil
	}
	if _, err := store.Create(ctx, sampleContact); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	return nil
}

// NewHandler assembles the full rolod HTTP handler around store.
func NewHandler(store ds.ContactsStore, logger *slog.Logger) http.Handler {
	buildinfo := joinQuote("rolod_build_info{goversion=", runtime.Version(), ",version=", version, "} 1\n")
	set := metrics.NewSet()

	return NewRouter(title, version,
		func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := store.Ping(ctx); err != nil {
				logger.Warn("readiness check failed", "err", err)
				http.Error(w, "store unavailable", http.StatusServiceUnavailable)
			}
		},
		func(w io.Writer) {
			_, _ = io.WriteString(w, buildinfo)
			set.WritePrometheus(w)
			metrics.WriteProcessMetrics(w)
		},
		OptGroup("/api",
			OptUseMiddleware(
				ctxlog{}.loggerMiddleware(logger),
				meterRequests(set),
				ctxlog{}.recoverMiddleware(logger),
			),
			OptAutoRegister(&Contacts{
				Store:        store,
				ErrorHandler: ctxlog{}.errorHandler(logger),
			}),
		),
	)
}
