package ledger_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/tagom-pos/internal/application/ledger"
	"github.com/jhoicas/tagom-pos/internal/domain"
	"github.com/jhoicas/tagom-pos/internal/domain/entity"
	"github.com/jhoicas/tagom-pos/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria para el libro de stock.
//
// fakeStore guarda el estado compartido; cada operación toma el mutex del
// store. fakeTxRunner serializa las transacciones con su propio mutex (emula
// los bloqueos de fila) y restaura un snapshot si el callback falla (emula el
// rollback), de modo que "todo o nada" se verifica de verdad y no por
// accidente del orden de las escrituras.
// ──────────────────────────────────────────────────────────────────────────────

type fakeStore struct {
	mu sync.Mutex

	suppliers map[string]*entity.Supplier
	products  map[string]*entity.Product
	customers map[string]*entity.Customer

	positions      map[string]*entity.StockPosition // clave company|supplier|product
	sales          map[string]*entity.Sale          // cabeceras, sin líneas
	lines          map[string][]*entity.SaleLine    // por saleID
	invoiceNumbers map[string]bool                  // clave company|número (único por empresa)
	counters       map[string]int64                 // consecutivo por empresa
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		suppliers:      make(map[string]*entity.Supplier),
		products:       make(map[string]*entity.Product),
		customers:      make(map[string]*entity.Customer),
		positions:      make(map[string]*entity.StockPosition),
		sales:          make(map[string]*entity.Sale),
		lines:          make(map[string][]*entity.SaleLine),
		invoiceNumbers: make(map[string]bool),
		counters:       make(map[string]int64),
	}
}

func posKeyOf(companyID, supplierID, productID string) string {
	return companyID + "|" + supplierID + "|" + productID
}

func invKeyOf(companyID, invoiceNumber string) string {
	return companyID + "|" + invoiceNumber
}

type storeSnapshot struct {
	positions      map[string]*entity.StockPosition
	sales          map[string]*entity.Sale
	lines          map[string][]*entity.SaleLine
	invoiceNumbers map[string]bool
	counters       map[string]int64
}

func (s *fakeStore) snapshot() *storeSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := &storeSnapshot{
		positions:      make(map[string]*entity.StockPosition, len(s.positions)),
		sales:          make(map[string]*entity.Sale, len(s.sales)),
		lines:          make(map[string][]*entity.SaleLine, len(s.lines)),
		invoiceNumbers: make(map[string]bool, len(s.invoiceNumbers)),
		counters:       make(map[string]int64, len(s.counters)),
	}
	for k, p := range s.positions {
		cp := *p
		snap.positions[k] = &cp
	}
	for k, sale := range s.sales {
		cp := *sale
		snap.sales[k] = &cp
	}
	for k, ls := range s.lines {
		cps := make([]*entity.SaleLine, len(ls))
		for i, l := range ls {
			cp := *l
			cps[i] = &cp
		}
		snap.lines[k] = cps
	}
	for k, v := range s.invoiceNumbers {
		snap.invoiceNumbers[k] = v
	}
	for k, v := range s.counters {
		snap.counters[k] = v
	}
	return snap
}

func (s *fakeStore) restore(snap *storeSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.positions = snap.positions
	s.sales = snap.sales
	s.lines = snap.lines
	s.invoiceNumbers = snap.invoiceNumbers
	s.counters = snap.counters
}

// ── Repos de catálogo ─────────────────────────────────────────────────────────

type fakeSupplierRepo struct{ store *fakeStore }

func (r *fakeSupplierRepo) Create(supplier *entity.Supplier) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *supplier
	r.store.suppliers[supplier.ID] = &cp
	return nil
}

func (r *fakeSupplierRepo) GetByID(id string) (*entity.Supplier, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	s, ok := r.store.suppliers[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSupplierRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Supplier, error) {
	return nil, nil
}

func (r *fakeSupplierRepo) Update(supplier *entity.Supplier) error { return nil }

type fakeProductRepo struct{ store *fakeStore }

func (r *fakeProductRepo) Create(product *entity.Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *product
	r.store.products[product.ID] = &cp
	return nil
}

func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	p, ok := r.store.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeProductRepo) GetByCompanyAndSKU(companyID, sku string) (*entity.Product, error) {
	return nil, nil
}

func (r *fakeProductRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Product, error) {
	return nil, nil
}

func (r *fakeProductRepo) Update(product *entity.Product) error { return nil }

type fakeCustomerRepo struct{ store *fakeStore }

func (r *fakeCustomerRepo) Create(customer *entity.Customer) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *customer
	r.store.customers[customer.ID] = &cp
	return nil
}

func (r *fakeCustomerRepo) GetByID(id string) (*entity.Customer, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	c, ok := r.store.customers[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCustomerRepo) GetByCompanyAndPhone(companyID, phone string) (*entity.Customer, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, c := range r.store.customers {
		if c.CompanyID == companyID && c.Phone == phone {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeCustomerRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Customer, error) {
	return nil, nil
}

// ── Repo de posiciones ────────────────────────────────────────────────────────

type fakeStockRepo struct{ store *fakeStore }

func (r *fakeStockRepo) Get(companyID, supplierID, productID string) (*entity.StockPosition, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	p, ok := r.store.positions[posKeyOf(companyID, supplierID, productID)]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakeStockRepo) GetForUpdate(companyID, supplierID, productID string) (*entity.StockPosition, error) {
	return r.Get(companyID, supplierID, productID)
}

func (r *fakeStockRepo) Upsert(pos *entity.StockPosition) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	key := posKeyOf(pos.CompanyID, pos.SupplierID, pos.ProductID)
	version := int64(1)
	if existing, ok := r.store.positions[key]; ok {
		version = existing.Version + 1
	}
	pos.Version = version
	cp := *pos
	r.store.positions[key] = &cp
	return nil
}

func (r *fakeStockRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.StockPosition, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.StockPosition
	for _, p := range r.store.positions {
		if p.CompanyID == companyID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeStockRepo) TotalsByProduct(companyID string) ([]*entity.ProductStockTotal, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	byProduct := make(map[string]*entity.ProductStockTotal)
	for _, p := range r.store.positions {
		if p.CompanyID != companyID {
			continue
		}
		t, ok := byProduct[p.ProductID]
		if !ok {
			name := ""
			if prod, ok := r.store.products[p.ProductID]; ok {
				name = prod.Name
			}
			t = &entity.ProductStockTotal{ProductID: p.ProductID, ProductName: name}
			byProduct[p.ProductID] = t
		}
		t.Total += p.Quantity
		t.Suppliers++
	}
	out := make([]*entity.ProductStockTotal, 0, len(byProduct))
	for _, t := range byProduct {
		out = append(out, t)
	}
	return out, nil
}

// ── Repo de ventas ────────────────────────────────────────────────────────────

type fakeSaleRepo struct{ store *fakeStore }

func (r *fakeSaleRepo) Create(sale *entity.Sale) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if r.store.invoiceNumbers[invKeyOf(sale.CompanyID, sale.InvoiceNumber)] {
		return fmt.Errorf("%w: invoice number %s", domain.ErrDuplicate, sale.InvoiceNumber)
	}
	cp := *sale
	cp.Lines = nil
	r.store.sales[sale.ID] = &cp
	r.store.invoiceNumbers[invKeyOf(sale.CompanyID, sale.InvoiceNumber)] = true
	return nil
}

func (r *fakeSaleRepo) InvoiceNumberExists(companyID, invoiceNumber string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.invoiceNumbers[invKeyOf(companyID, invoiceNumber)], nil
}

func (r *fakeSaleRepo) CreateLine(line *entity.SaleLine) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *line
	r.store.lines[line.SaleID] = append(r.store.lines[line.SaleID], &cp)
	return nil
}

func (r *fakeSaleRepo) GetByID(id string) (*entity.Sale, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	s, ok := r.store.sales[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSaleRepo) GetLines(saleID string) ([]*entity.SaleLine, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	ls := r.store.lines[saleID]
	out := make([]*entity.SaleLine, len(ls))
	for i, l := range ls {
		cp := *l
		out[i] = &cp
	}
	return out, nil
}

func (r *fakeSaleRepo) GetLinesForUpdate(saleID string) ([]*entity.SaleLine, error) {
	return r.GetLines(saleID)
}

func (r *fakeSaleRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Sale, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []*entity.Sale
	for _, s := range r.store.sales {
		if s.CompanyID == companyID {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeSaleRepo) MarkLineReturned(line *entity.SaleLine) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, l := range r.store.lines[line.SaleID] {
		if l.ID == line.ID {
			l.IsReturned = line.IsReturned
			l.ReturnReason = line.ReturnReason
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *fakeSaleRepo) UpdateStatus(saleID, status string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	s, ok := r.store.sales[saleID]
	if !ok {
		return domain.ErrNotFound
	}
	s.Status = status
	return nil
}

func (r *fakeSaleRepo) NextInvoiceSeq(companyID string) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.counters[companyID]++
	return r.store.counters[companyID], nil
}

// ── TxRunner ──────────────────────────────────────────────────────────────────

type fakeTxRunner struct {
	store *fakeStore
	txMu  sync.Mutex
}

func (r *fakeTxRunner) Run(_ context.Context, fn func(
	stockRepo repository.StockPositionRepository,
	saleRepo repository.SaleRepository,
) error) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()
	snap := r.store.snapshot()
	if err := fn(&fakeStockRepo{r.store}, &fakeSaleRepo{r.store}); err != nil {
		r.store.restore(snap)
		return err
	}
	return nil
}

// flakyTxRunner falla las primeras N ejecuciones con un conflicto de
// concurrencia envuelto, como haría el TxRunner real ante SQLSTATE 40001.
type flakyTxRunner struct {
	inner    *fakeTxRunner
	failures int
	calls    int
}

func (r *flakyTxRunner) Run(ctx context.Context, fn func(
	stockRepo repository.StockPositionRepository,
	saleRepo repository.SaleRepository,
) error) error {
	r.calls++
	if r.calls <= r.failures {
		return fmt.Errorf("%w: could not serialize access", domain.ErrConcurrencyConflict)
	}
	return r.inner.Run(ctx, fn)
}

// abortTxRunner aplica la semántica de aborto de Postgres dentro de la
// transacción: tras la primera sentencia fallida, toda sentencia posterior
// falla (SQLSTATE 25P02) hasta el fin de la transacción. Verifica que el
// caso de uso nunca dependa de seguir ejecutando después de un error.
type abortTxRunner struct {
	inner *fakeTxRunner
}

type txAbortState struct {
	err error
}

func (a *txAbortState) check() error {
	if a.err != nil {
		return fmt.Errorf("current transaction is aborted, commands ignored until end of transaction block (SQLSTATE 25P02): %w", a.err)
	}
	return nil
}

func (a *txAbortState) note(err error) error {
	if err != nil && a.err == nil {
		a.err = err
	}
	return err
}

func (r *abortTxRunner) Run(_ context.Context, fn func(
	stockRepo repository.StockPositionRepository,
	saleRepo repository.SaleRepository,
) error) error {
	r.inner.txMu.Lock()
	defer r.inner.txMu.Unlock()
	snap := r.inner.store.snapshot()
	abort := &txAbortState{}
	err := fn(
		&abortingStockRepo{inner: &fakeStockRepo{r.inner.store}, abort: abort},
		&abortingSaleRepo{inner: &fakeSaleRepo{r.inner.store}, abort: abort},
	)
	if err == nil && abort.err != nil {
		// el COMMIT de una transacción abortada también falla
		err = abort.err
	}
	if err != nil {
		r.inner.store.restore(snap)
		return err
	}
	return nil
}

type abortingStockRepo struct {
	inner repository.StockPositionRepository
	abort *txAbortState
}

func (r *abortingStockRepo) Get(companyID, supplierID, productID string) (*entity.StockPosition, error) {
	if err := r.abort.check(); err != nil {
		return nil, err
	}
	p, err := r.inner.Get(companyID, supplierID, productID)
	return p, r.abort.note(err)
}

func (r *abortingStockRepo) GetForUpdate(companyID, supplierID, productID string) (*entity.StockPosition, error) {
	if err := r.abort.check(); err != nil {
		return nil, err
	}
	p, err := r.inner.GetForUpdate(companyID, supplierID, productID)
	return p, r.abort.note(err)
}

func (r *abortingStockRepo) Upsert(pos *entity.StockPosition) error {
	if err := r.abort.check(); err != nil {
		return err
	}
	return r.abort.note(r.inner.Upsert(pos))
}

func (r *abortingStockRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.StockPosition, error) {
	if err := r.abort.check(); err != nil {
		return nil, err
	}
	out, err := r.inner.ListByCompany(companyID, limit, offset)
	return out, r.abort.note(err)
}

func (r *abortingStockRepo) TotalsByProduct(companyID string) ([]*entity.ProductStockTotal, error) {
	if err := r.abort.check(); err != nil {
		return nil, err
	}
	out, err := r.inner.TotalsByProduct(companyID)
	return out, r.abort.note(err)
}

type abortingSaleRepo struct {
	inner repository.SaleRepository
	abort *txAbortState
}

func (r *abortingSaleRepo) Create(sale *entity.Sale) error {
	if err := r.abort.check(); err != nil {
		return err
	}
	return r.abort.note(r.inner.Create(sale))
}

func (r *abortingSaleRepo) InvoiceNumberExists(companyID, invoiceNumber string) (bool, error) {
	if err := r.abort.check(); err != nil {
		return false, err
	}
	exists, err := r.inner.InvoiceNumberExists(companyID, invoiceNumber)
	return exists, r.abort.note(err)
}

func (r *abortingSaleRepo) CreateLine(line *entity.SaleLine) error {
	if err := r.abort.check(); err != nil {
		return err
	}
	return r.abort.note(r.inner.CreateLine(line))
}

func (r *abortingSaleRepo) GetByID(id string) (*entity.Sale, error) {
	if err := r.abort.check(); err != nil {
		return nil, err
	}
	s, err := r.inner.GetByID(id)
	return s, r.abort.note(err)
}

func (r *abortingSaleRepo) GetLines(saleID string) ([]*entity.SaleLine, error) {
	if err := r.abort.check(); err != nil {
		return nil, err
	}
	ls, err := r.inner.GetLines(saleID)
	return ls, r.abort.note(err)
}

func (r *abortingSaleRepo) GetLinesForUpdate(saleID string) ([]*entity.SaleLine, error) {
	if err := r.abort.check(); err != nil {
		return nil, err
	}
	ls, err := r.inner.GetLinesForUpdate(saleID)
	return ls, r.abort.note(err)
}

func (r *abortingSaleRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Sale, error) {
	if err := r.abort.check(); err != nil {
		return nil, err
	}
	out, err := r.inner.ListByCompany(companyID, limit, offset)
	return out, r.abort.note(err)
}

func (r *abortingSaleRepo) MarkLineReturned(line *entity.SaleLine) error {
	if err := r.abort.check(); err != nil {
		return err
	}
	return r.abort.note(r.inner.MarkLineReturned(line))
}

func (r *abortingSaleRepo) UpdateStatus(saleID, status string) error {
	if err := r.abort.check(); err != nil {
		return err
	}
	return r.abort.note(r.inner.UpdateStatus(saleID, status))
}

func (r *abortingSaleRepo) NextInvoiceSeq(companyID string) (int64, error) {
	if err := r.abort.check(); err != nil {
		return 0, err
	}
	seq, err := r.inner.NextInvoiceSeq(companyID)
	return seq, r.abort.note(err)
}

// ── Fixture ───────────────────────────────────────────────────────────────────

const (
	testCompanyID  = "comp-1"
	testUserID     = "user-1"
	testSupplierID = "sup-1"
	testSupplier2  = "sup-2"
	testProductID  = "prod-1"
	testProduct2   = "prod-2"
	testCustomerID = "cust-1"
	testPhone      = "3001234567"
)

type fixture struct {
	store  *fakeStore
	runner *fakeTxRunner
	uc     *ledger.UseCase
}

func newFixture() *fixture {
	store := newFakeStore()
	now := time.Now()
	store.suppliers[testSupplierID] = &entity.Supplier{
		ID: testSupplierID, CompanyID: testCompanyID, Name: "Distribuidora Andina", CreatedAt: now,
	}
	store.suppliers[testSupplier2] = &entity.Supplier{
		ID: testSupplier2, CompanyID: testCompanyID, Name: "Importadora del Café", CreatedAt: now,
	}
	store.products[testProductID] = &entity.Product{
		ID: testProductID, CompanyID: testCompanyID, SKU: "CAFE-500",
		Name: "Café molido 500g", Price: decimal.RequireFromString("8.00"), CreatedAt: now,
	}
	store.products[testProduct2] = &entity.Product{
		ID: testProduct2, CompanyID: testCompanyID, SKU: "PANELA-1K",
		Name: "Panela 1kg", Price: decimal.RequireFromString("3.50"), CreatedAt: now,
	}
	store.customers[testCustomerID] = &entity.Customer{
		ID: testCustomerID, CompanyID: testCompanyID, Name: "María Pérez", Phone: testPhone, CreatedAt: now,
	}

	runner := &fakeTxRunner{store: store}
	uc := ledger.NewUseCase(
		runner,
		&fakeStockRepo{store},
		&fakeSupplierRepo{store},
		&fakeProductRepo{store},
		&fakeCustomerRepo{store},
		&fakeSaleRepo{store},
		0, "",
	)
	return &fixture{store: store, runner: runner, uc: uc}
}

// adjust aplica un ajuste y entrega la posición resultante.
func (f *fixture) adjust(supplierID, productID string, delta int64, unitCost string) (*entity.StockPosition, error) {
	var cost *decimal.Decimal
	if unitCost != "" {
		d := decimal.RequireFromString(unitCost)
		cost = &d
	}
	return f.uc.AdjustStock(context.Background(), testCompanyID, ledger.AdjustStockInput{
		SupplierID: supplierID,
		ProductID:  productID,
		DeltaQty:   delta,
		UnitCost:   cost,
	})
}

// quantity lee la cantidad almacenada directamente del store.
func (f *fixture) quantity(supplierID, productID string) int64 {
	f.store.mu.Lock()
	defer f.store.mu.Unlock()
	p, ok := f.store.positions[posKeyOf(testCompanyID, supplierID, productID)]
	if !ok {
		return -1
	}
	return p.Quantity
}
