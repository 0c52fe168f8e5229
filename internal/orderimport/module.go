package orderimport

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/shandysiswandi/goorder/internal/orderimport/inbound"
	"github.com/shandysiswandi/goorder/internal/orderimport/metrics"
	"github.com/shandysiswandi/goorder/internal/orderimport/pipeline"
	"github.com/shandysiswandi/goorder/internal/orderimport/store"
	"github.com/shandysiswandi/goorder/internal/orderimport/usecase"
	"github.com/shandysiswandi/goorder/internal/pkg/pkgconfig"
	"github.com/shandysiswandi/goorder/internal/pkg/pkgrouter"
	"github.com/shandysiswandi/goorder/internal/pkg/pkgroutine"
	"github.com/shandysiswandi/goorder/internal/pkg/pkguid"
)

const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"

	ImportIDPrefix = "imp_"
)

type Dependency struct {
	Config    pkgconfig.Config
	Goroutine *pkgroutine.Manager
	Router    *pkgrouter.Router
	Context   context.Context
	Registry  *prometheus.Registry
}

func New(dep Dependency) (func(context.Context) error, error) {
	ctx := dep.Context
	if ctx == nil {
		ctx = context.Background()
	}

	orders, closeOrders, err := openOrderRepository(ctx, dep.Config)
	if err != nil {
		return nil, err
	}

	orderIDs, err := newOrderIDGenerator(dep.Config.GetInt("modules.orderimport.snowflake_node"))
	if err != nil {
		closeOrders()
		return nil, fmt.Errorf("init order id generator: %w", err)
	}

	reg := dep.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	uc := usecase.New(usecase.Dependency{
		Jobs:     store.NewInMemoryJobStore(),
		Orders:   orders,
		Pipeline: pipelineConfig(dep.Config),
		Metrics:  metrics.NewMetrics(reg),
		Runner:   dep.Goroutine,
		ID:       pkguid.NewPrefixedUUID(ImportIDPrefix),
		OrderID:  orderIDs,
		RootCtx:  ctx,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)
	dep.Router.Handle(http.MethodGet, "/metrics", metrics.Handler(reg))

	return func(context.Context) error {
		closeOrders()
		return nil
	}, nil
}

// newOrderIDGenerator uses a random snowflake node when node is negative.
func newOrderIDGenerator(node int64) (*pkguid.Snowflake, error) {
	if node < 0 {
		return pkguid.NewSnowflake()
	}
	return pkguid.NewSnowflakeNode(node)
}

func pipelineConfig(cfg pkgconfig.Config) pipeline.Config {
	return pipeline.Config{
		BatchSize:         int(cfg.GetInt("modules.orderimport.batch_size")),
		OuterMultiplier:   int(cfg.GetInt("modules.orderimport.outer_multiplier")),
		InnerWorkers:      int(cfg.GetInt("modules.orderimport.inner_workers")),
		CompletionTimeout: cfg.GetDuration("modules.orderimport.completion_timeout"),
		HeaderRows:        int(cfg.GetInt("modules.orderimport.header_rows")),
	}
}

func openOrderRepository(ctx context.Context, cfg pkgconfig.Config) (usecase.OrderRepository, func(), error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.GetString("store.driver")))
	dsn := cfg.GetString("store.dsn")

	switch driver {
	case "", DriverMemory:
		repo := store.NewInMemoryOrderRepository()
		return repo, func() { _ = repo.Close() }, nil

	case DriverPostgres:
		repo, closer, err := store.NewPostgresOrderRepository(ctx, dsn)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres order repository: %w", err)
		}
		if err := repo.EnsureSchema(ctx); err != nil {
			closer()
			return nil, nil, fmt.Errorf("ensure postgres schema: %w", err)
		}
		slog.InfoContext(ctx, "order repository ready", "driver", driver)
		return repo, closer, nil

	case store.DriverSQLite, store.DriverSQLServer:
		repo, closer, err := store.OpenSQLOrderRepository(ctx, driver, dsn)
		if err != nil {
			return nil, nil, fmt.Errorf("open %s order repository: %w", driver, err)
		}
		if err := repo.EnsureSchema(ctx); err != nil {
			closer()
			return nil, nil, fmt.Errorf("ensure %s schema: %w", driver, err)
		}
		slog.InfoContext(ctx, "order repository ready", "driver", driver)
		return repo, closer, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", driver)
	}
}
