package sync_test

import (
	"context"
	"time"

	"github.com/jhoicas/tienda-sync/internal/domain/entity"
	"github.com/jhoicas/tienda-sync/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria: una base local mínima con semántica transaccional de
// snapshot/restore, suficiente para verificar los merges sin SQLite.
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	products      map[int64]*entity.Product
	nextProductID int64
	sales         []*entity.Sale
	nextSaleRowID int64
	logs          []*entity.InventoryLog
	staff         map[string]*entity.Staff
	settings      *entity.Settings
}

func newMemStore() *memStore {
	return &memStore{
		products: make(map[int64]*entity.Product),
		staff:    make(map[string]*entity.Staff),
	}
}

func (s *memStore) clone() *memStore {
	c := newMemStore()
	c.nextProductID = s.nextProductID
	c.nextSaleRowID = s.nextSaleRowID
	for id, p := range s.products {
		cp := *p
		c.products[id] = &cp
	}
	for _, sale := range s.sales {
		cp := *sale
		cp.Items = append([]entity.SaleItem(nil), sale.Items...)
		c.sales = append(c.sales, &cp)
	}
	for _, l := range s.logs {
		cl := *l
		c.logs = append(c.logs, &cl)
	}
	for id, st := range s.staff {
		cs := *st
		c.staff[id] = &cs
	}
	if s.settings != nil {
		cs := *s.settings
		c.settings = &cs
	}
	return c
}

func (s *memStore) restore(from *memStore) {
	*s = *from
}

// fakeTxRunner aplica fn sobre el store y lo revierte completo si fn falla.
type fakeTxRunner struct {
	store *memStore
}

func (r *fakeTxRunner) Run(_ context.Context, fn func(
	sales repository.SaleRepository,
	products repository.ProductRepository,
	logs repository.InventoryLogRepository,
) error) error {
	snapshot := r.store.clone()
	if err := fn(&memSaleRepo{r.store}, &memProductRepo{r.store}, &memLogRepo{r.store}); err != nil {
		r.store.restore(snapshot)
		return err
	}
	return nil
}

// RunParked completa el contrato de ventas.TxRunner; los tests de este
// paquete registran ventas reales pero no usan pedidos aparcados.
func (r *fakeTxRunner) RunParked(_ context.Context, fn func(
	parked repository.ParkedOrderRepository,
	sales repository.SaleRepository,
	products repository.ProductRepository,
	logs repository.InventoryLogRepository,
) error) error {
	snapshot := r.store.clone()
	if err := fn(nil, &memSaleRepo{r.store}, &memProductRepo{r.store}, &memLogRepo{r.store}); err != nil {
		r.store.restore(snapshot)
		return err
	}
	return nil
}

func (r *fakeTxRunner) RunSync(_ context.Context, fn func(
	sales repository.SaleRepository,
	products repository.ProductRepository,
	logs repository.InventoryLogRepository,
	staff repository.StaffRepository,
	settings repository.SettingsRepository,
) error) error {
	snapshot := r.store.clone()
	if err := fn(&memSaleRepo{r.store}, &memProductRepo{r.store}, &memLogRepo{r.store},
		&memStaffRepo{r.store}, &memSettingsRepo{r.store}); err != nil {
		r.store.restore(snapshot)
		return err
	}
	return nil
}

type memProductRepo struct{ s *memStore }

func (r *memProductRepo) Create(p *entity.Product) error {
	r.s.nextProductID++
	p.ID = r.s.nextProductID
	cp := *p
	r.s.products[p.ID] = &cp
	return nil
}

func (r *memProductRepo) GetByID(id int64) (*entity.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *memProductRepo) List() ([]*entity.Product, error) {
	out := make([]*entity.Product, 0, len(r.s.products))
	for _, p := range r.s.products {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memProductRepo) ListLowStock() ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.s.products {
		if p.LowStock() {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memProductRepo) Update(p *entity.Product) error {
	cp := *p
	r.s.products[p.ID] = &cp
	return nil
}

func (r *memProductRepo) UpdateStock(id int64, stock int) error {
	if p, ok := r.s.products[id]; ok {
		p.Stock = stock
	}
	return nil
}

func (r *memProductRepo) Delete(id int64) error {
	delete(r.s.products, id)
	return nil
}

func (r *memProductRepo) DeleteAll() error {
	r.s.products = make(map[int64]*entity.Product)
	return nil
}

type memSaleRepo struct{ s *memStore }

func (r *memSaleRepo) Create(sale *entity.Sale) error {
	r.s.nextSaleRowID++
	sale.ID = r.s.nextSaleRowID
	cp := *sale
	cp.Items = append([]entity.SaleItem(nil), sale.Items...)
	r.s.sales = append(r.s.sales, &cp)
	return nil
}

func (r *memSaleRepo) GetBySaleID(saleID string) (*entity.Sale, error) {
	for _, sale := range r.s.sales {
		if sale.SaleID == saleID {
			cp := *sale
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memSaleRepo) ListByDay(day time.Time) ([]*entity.Sale, error) {
	var out []*entity.Sale
	y, m, d := day.Date()
	for _, sale := range r.s.sales {
		sy, sm, sd := sale.CreatedAt.Date()
		if sy == y && sm == m && sd == d {
			out = append(out, sale)
		}
	}
	return out, nil
}

func (r *memSaleRepo) ListBySyncStatus(status string) ([]*entity.Sale, error) {
	var out []*entity.Sale
	for _, sale := range r.s.sales {
		if sale.SyncStatus == status {
			out = append(out, sale)
		}
	}
	return out, nil
}

func (r *memSaleRepo) UpdateSyncStatus(saleID, status string) error {
	for _, sale := range r.s.sales {
		if sale.SaleID == saleID {
			sale.SyncStatus = status
		}
	}
	return nil
}

func (r *memSaleRepo) MarkTransferVerified(saleID string) error {
	for _, sale := range r.s.sales {
		if sale.SaleID == saleID {
			sale.PaymentMethod = entity.TransferVerifiedLabel
			sale.SyncStatus = entity.SyncStatusVerified
		}
	}
	return nil
}

func (r *memSaleRepo) Delete(id int64) error {
	for i, sale := range r.s.sales {
		if sale.ID == id {
			r.s.sales = append(r.s.sales[:i], r.s.sales[i+1:]...)
			return nil
		}
	}
	return nil
}

type memLogRepo struct{ s *memStore }

func (r *memLogRepo) Create(l *entity.InventoryLog) error {
	cl := *l
	cl.ID = int64(len(r.s.logs) + 1)
	r.s.logs = append(r.s.logs, &cl)
	return nil
}

func (r *memLogRepo) ListByProduct(productID int64, limit int) ([]*entity.InventoryLog, error) {
	var out []*entity.InventoryLog
	for _, l := range r.s.logs {
		if l.ProductID == productID {
			out = append(out, l)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memLogRepo) ListRecent(limit int) ([]*entity.InventoryLog, error) {
	out := r.s.logs
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

type memStaffRepo struct{ s *memStore }

func (r *memStaffRepo) Create(st *entity.Staff) error {
	cp := *st
	r.s.staff[st.ID] = &cp
	return nil
}

func (r *memStaffRepo) GetByID(id string) (*entity.Staff, error) {
	st, ok := r.s.staff[id]
	if !ok {
		return nil, nil
	}
	cp := *st
	return &cp, nil
}

func (r *memStaffRepo) GetByName(name string) (*entity.Staff, error) {
	for _, st := range r.s.staff {
		if st.Name == name {
			cp := *st
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memStaffRepo) List() ([]*entity.Staff, error) {
	out := make([]*entity.Staff, 0, len(r.s.staff))
	for _, st := range r.s.staff {
		cp := *st
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memStaffRepo) Delete(id string) error {
	delete(r.s.staff, id)
	return nil
}

type memSettingsRepo struct{ s *memStore }

func (r *memSettingsRepo) Get() (*entity.Settings, error) {
	if r.s.settings == nil {
		return nil, nil
	}
	cp := *r.s.settings
	return &cp, nil
}

func (r *memSettingsRepo) Save(settings *entity.Settings) error {
	cp := *settings
	cp.ID = 1
	r.s.settings = &cp
	return nil
}
