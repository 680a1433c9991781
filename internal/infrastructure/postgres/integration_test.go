//go:build integration

package postgres_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jhoicas/stockops-api/internal/application/dto"
	"github.com/jhoicas/stockops-api/internal/application/inventory"
	"github.com/jhoicas/stockops-api/internal/domain"
	"github.com/jhoicas/stockops-api/internal/domain/entity"
	"github.com/jhoicas/stockops-api/internal/domain/repository"
	"github.com/jhoicas/stockops-api/internal/infrastructure/postgres"
	"github.com/jhoicas/stockops-api/pkg/logger"
)

type pgFixture struct {
	pool     *pgxpool.Pool
	docs     *inventory.DocumentUseCase
	validate *inventory.ValidateUseCase
	repos    inventory.Repos

	warehouse string
	stock     string
	zoneB     string
	product   string
}

func newPgFixture(t *testing.T) *pgFixture {
	t.Helper()
	ctx := context.Background()

	ctr, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("stockops_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ctr.Terminate(context.Background()) })

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	log := logger.Nop()
	m, err := postgres.NewMigrator(dsn, log)
	require.NoError(t, err)
	require.NoError(t, m.Up())
	require.NoError(t, m.Close())

	pool, err := postgres.NewPoolFromDSN(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	f := &pgFixture{
		pool:      pool,
		warehouse: uuid.NewString(),
		stock:     uuid.NewString(),
		zoneB:     uuid.NewString(),
		product:   uuid.NewString(),
	}
	_, err = pool.Exec(ctx, `INSERT INTO warehouses (id, name, code) VALUES ($1, 'Bodega Central', 'WH')`, f.warehouse)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `INSERT INTO locations (id, warehouse_id, name, code) VALUES ($1, $3, 'Stock', 'STK'), ($2, $3, 'Zona B', 'ZB')`,
		f.stock, f.zoneB, f.warehouse)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `INSERT INTO products (id, sku, name, category) VALUES ($1, 'SKU-1', 'Tornillo', 'ferreteria')`, f.product)
	require.NoError(t, err)

	runner := postgres.NewTxRunner(pool)
	f.repos = postgres.NewRepos(pool)
	f.docs = inventory.NewDocumentUseCase(runner, f.repos.Documents, log)
	f.validate = inventory.NewValidateUseCase(runner, inventory.NoopMetrics, log)
	return f
}

func (f *pgFixture) qty(t *testing.T, locationID string) decimal.Decimal {
	t.Helper()
	q, err := f.repos.Quants.Get(context.Background(), f.product, locationID)
	require.NoError(t, err)
	return q
}

func amount(n int64) *decimal.Decimal {
	v := decimal.NewFromInt(n)
	return &v
}

func TestPostgres_RecepcionTrasladoYDespacho(t *testing.T) {
	f := newPgFixture(t)
	ctx := context.Background()

	rec, err := f.docs.CreateDraft(ctx, "user-1", entity.KindReceipt, dto.CreateDocumentRequest{
		WarehouseID:  f.warehouse,
		SupplierName: "Proveedor S.A.",
		Lines:        []dto.DocumentLineRequest{{ProductID: f.product, OrderedQty: amount(12), ReceivedQty: amount(10)}},
	})
	require.NoError(t, err)
	assert.Equal(t, "WH/IN/00001", rec.Code)

	res, err := f.validate.Validate(ctx, "user-1", rec.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.StatusDone), res.Document.Status)
	assert.True(t, f.qty(t, f.stock).Equal(decimal.NewFromInt(10)), "la ubicación por defecto es la primera activa por nombre")

	tr, err := f.docs.CreateDraft(ctx, "user-1", entity.KindTransfer, dto.CreateDocumentRequest{
		SourceLocationID:      f.stock,
		DestinationLocationID: f.zoneB,
		Lines:                 []dto.DocumentLineRequest{{ProductID: f.product, Quantity: amount(4)}},
	})
	require.NoError(t, err)
	_, err = f.validate.Validate(ctx, "user-1", tr.ID)
	require.NoError(t, err)

	del, err := f.docs.CreateDraft(ctx, "user-1", entity.KindDelivery, dto.CreateDocumentRequest{
		WarehouseID:  f.warehouse,
		CustomerName: "Cliente",
		Lines:        []dto.DocumentLineRequest{{ProductID: f.product, SourceLocationID: f.zoneB, Quantity: amount(5)}},
	})
	require.NoError(t, err)
	_, err = f.validate.Validate(ctx, "user-1", del.ID)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.True(t, f.qty(t, f.stock).Equal(decimal.NewFromInt(6)))
	assert.True(t, f.qty(t, f.zoneB).Equal(decimal.NewFromInt(4)))

	got, err := f.docs.Get(ctx, del.ID)
	require.NoError(t, err)
	assert.Equal(t, string(entity.StatusDraft), got.Status, "un fallo no cambia el estado")

	moves, err := f.repos.Moves.Query(ctx, repository.LedgerFilter{ProductID: f.product})
	require.NoError(t, err)
	require.Len(t, moves, 2)
	assert.Equal(t, entity.KindTransfer, moves[0].MoveType)
	assert.Equal(t, "Tornillo", moves[0].ProductName)
	assert.Equal(t, f.warehouse, moves[0].ToWarehouseID)

	_, err = f.validate.Validate(ctx, "user-1", rec.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyValidated)
}

func TestPostgres_ValidacionConcurrenteSoloUnaVez(t *testing.T) {
	f := newPgFixture(t)
	ctx := context.Background()

	rec, err := f.docs.CreateDraft(ctx, "user-1", entity.KindReceipt, dto.CreateDocumentRequest{
		WarehouseID: f.warehouse,
		Lines:       []dto.DocumentLineRequest{{ProductID: f.product, LocationID: f.stock, Quantity: amount(7)}},
	})
	require.NoError(t, err)

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.validate.Validate(ctx, "user-1", rec.ID)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	ok := 0
	for err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrAlreadyValidated)
	}
	assert.Equal(t, 1, ok)
	assert.True(t, f.qty(t, f.stock).Equal(decimal.NewFromInt(7)))
}

func TestPostgres_LibroDeSoloInsercion(t *testing.T) {
	f := newPgFixture(t)
	ctx := context.Background()

	rec, err := f.docs.CreateDraft(ctx, "user-1", entity.KindReceipt, dto.CreateDocumentRequest{
		WarehouseID: f.warehouse,
		Lines:       []dto.DocumentLineRequest{{ProductID: f.product, Quantity: amount(1)}},
	})
	require.NoError(t, err)
	_, err = f.validate.Validate(ctx, "user-1", rec.ID)
	require.NoError(t, err)

	_, err = f.pool.Exec(ctx, `UPDATE stock_moves SET quantity = 99`)
	assert.Error(t, err)
	_, err = f.pool.Exec(ctx, `DELETE FROM stock_moves`)
	assert.Error(t, err)
}

func TestPostgres_SecuenciaYListado(t *testing.T) {
	f := newPgFixture(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := f.docs.CreateDraft(ctx, "user-1", entity.KindAdjustment, dto.CreateDocumentRequest{
			LocationID: f.stock,
			Reason:     "conteo",
			Lines:      []dto.DocumentLineRequest{{ProductID: f.product, CountedQty: amount(int64(i))}},
		})
		require.NoError(t, err)
	}

	page, err := f.docs.List(ctx, entity.KindAdjustment, dto.ListDocumentsRequest{
		PageRequest: dto.PageRequest{Limit: 2},
		WarehouseID: f.warehouse,
	})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "WH/ADJ/00003", page[0].Code)
	require.NotNil(t, page[0].Adjustment)
	require.Len(t, page[0].Lines, 1)

	dash := postgres.NewAnalyticsRepository(f.pool)
	counts, err := dash.CountDocumentsByStatus(ctx, []entity.DocumentStatus{entity.StatusDraft})
	require.NoError(t, err)
	assert.Equal(t, 3, counts[entity.KindAdjustment])
	assert.Equal(t, 0, counts[entity.KindReceipt])
}
