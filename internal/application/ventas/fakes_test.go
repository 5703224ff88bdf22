package ventas_test

import (
	"context"
	"time"

	"github.com/jhoicas/tienda-sync/internal/domain/entity"
	"github.com/jhoicas/tienda-sync/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria con snapshot/restore para simular el rollback transaccional.
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	products      map[int64]*entity.Product
	nextProductID int64
	sales         []*entity.Sale
	nextSaleRowID int64
	logs          []*entity.InventoryLog
	parked        map[int64]*entity.ParkedOrder
	nextParkedID  int64
}

func newMemStore() *memStore {
	return &memStore{
		products: make(map[int64]*entity.Product),
		parked:   make(map[int64]*entity.ParkedOrder),
	}
}

func (s *memStore) clone() *memStore {
	c := newMemStore()
	c.nextProductID = s.nextProductID
	c.nextSaleRowID = s.nextSaleRowID
	c.nextParkedID = s.nextParkedID
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
	for id, o := range s.parked {
		co := *o
		co.Items = append([]entity.SaleItem(nil), o.Items...)
		c.parked[id] = &co
	}
	return c
}

func (s *memStore) restore(from *memStore) {
	*s = *from
}

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

func (r *fakeTxRunner) RunParked(_ context.Context, fn func(
	parked repository.ParkedOrderRepository,
	sales repository.SaleRepository,
	products repository.ProductRepository,
	logs repository.InventoryLogRepository,
) error) error {
	snapshot := r.store.clone()
	if err := fn(&memParkedRepo{r.store}, &memSaleRepo{r.store}, &memProductRepo{r.store}, &memLogRepo{r.store}); err != nil {
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
			cp.Items = append([]entity.SaleItem(nil), sale.Items...)
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

type memParkedRepo struct{ s *memStore }

func (r *memParkedRepo) Create(order *entity.ParkedOrder) error {
	r.s.nextParkedID++
	order.ID = r.s.nextParkedID
	co := *order
	co.Items = append([]entity.SaleItem(nil), order.Items...)
	r.s.parked[order.ID] = &co
	return nil
}

func (r *memParkedRepo) GetByID(id int64) (*entity.ParkedOrder, error) {
	o, ok := r.s.parked[id]
	if !ok {
		return nil, nil
	}
	co := *o
	co.Items = append([]entity.SaleItem(nil), o.Items...)
	return &co, nil
}

func (r *memParkedRepo) List() ([]*entity.ParkedOrder, error) {
	out := make([]*entity.ParkedOrder, 0, len(r.s.parked))
	for _, o := range r.s.parked {
		co := *o
		co.Items = append([]entity.SaleItem(nil), o.Items...)
		out = append(out, &co)
	}
	return out, nil
}

func (r *memParkedRepo) ReplaceItems(orderID int64, items []entity.SaleItem) error {
	if o, ok := r.s.parked[orderID]; ok {
		o.Items = append([]entity.SaleItem(nil), items...)
	}
	return nil
}

func (r *memParkedRepo) Delete(id int64) error {
	delete(r.s.parked, id)
	return nil
}

// fakeRelay registra las ventas publicadas para verificar el espejado.
type fakeRelay struct {
	connected bool
	published []*entity.Sale
}

func (f *fakeRelay) Connected() bool { return f.connected }

func (f *fakeRelay) PublishSale(sale *entity.Sale) {
	f.published = append(f.published, sale)
}
