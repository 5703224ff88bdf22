package relay

import (
	"context"
	"encoding/json"
	"strings"
	"sync/atomic"
	"time"

	"github.com/nats-io/nats.go"

	appsync "github.com/jhoicas/tienda-sync/internal/application/sync"
	"github.com/jhoicas/tienda-sync/internal/application/ventas"
	"github.com/jhoicas/tienda-sync/internal/domain/entity"
	"github.com/jhoicas/tienda-sync/pkg/logger"
)

// Ensure Client implementa los puertos de publicación de las aplicaciones.
var (
	_ ventas.RelayPublisher  = (*Client)(nil)
	_ appsync.StockPublisher = (*Client)(nil)
	_ appsync.KeyRotator     = (*Client)(nil)
)

// Dispatcher recibe los eventos remotos del canal. Lo implementa
// application/sync.LiveSync, que filtra por rol de terminal; ese filtro es
// también lo que descarta el eco de los eventos propios (NATS entrega las
// publicaciones de una conexión a sus propias suscripciones).
type Dispatcher interface {
	OnRemoteSale(ctx context.Context, rec entity.SaleRecord)
	OnRemoteStock(ctx context.Context, products []entity.ProductSnapshot, ts time.Time)
}

// Client es el cliente del relay en tiempo real sobre NATS. Todo es
// best-effort: conectar reintenta en segundo plano para siempre, publicar con
// la conexión caída solo deja un log, y ningún error del relay llega a los
// casos de uso. La verdad siempre es la base local.
type Client struct {
	url         string
	log         *logger.Logger
	conn        *nats.Conn
	dispatcher  Dispatcher
	subs        []*nats.Subscription
	subjectBase string
	connected   atomic.Bool
}

// New construye el cliente sin conectar.
func New(url string, log *logger.Logger) *Client {
	return &Client{url: url, log: log}
}

// ChannelName deriva la base del canal pub/sub desde la clave de la tienda.
// Todas las terminales de una tienda comparten clave, y por lo tanto canal;
// terminales de otras tiendas ni siquiera escuchan los mismos subjects.
func ChannelName(syncKey string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(syncKey) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '-' || r == '_' || r == ' ':
			b.WriteRune('-')
		}
	}
	name := strings.Trim(b.String(), "-")
	if name == "" {
		name = "default"
	}
	return "tienda.sync." + name
}

// Connect abre la conexión, se suscribe a los eventos del canal de la tienda
// y queda reconectando en segundo plano ante cualquier caída.
func (c *Client) Connect(syncKey string, dispatcher Dispatcher) error {
	base := ChannelName(syncKey)

	conn, err := nats.Connect(c.url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.ConnectHandler(func(_ *nats.Conn) {
			c.connected.Store(true)
			c.log.Info().Str("channel", base).Msg("relay conectado")
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			c.connected.Store(true)
			c.log.Info().Msg("relay reconectado")
		}),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			c.connected.Store(false)
			c.log.Warn().Err(err).Msg("relay desconectado; el canal asíncrono sigue disponible")
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			c.connected.Store(false)
		}),
	)
	if err != nil {
		return err
	}
	c.conn = conn
	c.dispatcher = dispatcher
	if conn.IsConnected() {
		c.connected.Store(true)
	}

	if err := c.subscribe(base); err != nil {
		conn.Close()
		return err
	}
	return nil
}

// subscribe ata las suscripciones de venta y catálogo a la base dada y la
// adopta como canal vigente.
func (c *Client) subscribe(base string) error {
	saleSub, err := c.conn.Subscribe(base+".venta", func(m *nats.Msg) {
		var p entity.SyncPayload
		if err := json.Unmarshal(m.Data, &p); err != nil || p.Type != entity.PayloadSalesReport {
			c.log.Warn().Msg("evento de venta del relay descartado: payload inválido")
			return
		}
		for _, rec := range p.Sales {
			c.dispatcher.OnRemoteSale(context.Background(), rec)
		}
	})
	if err != nil {
		return err
	}

	stockSub, err := c.conn.Subscribe(base+".stock", func(m *nats.Msg) {
		var p entity.SyncPayload
		if err := json.Unmarshal(m.Data, &p); err != nil || p.Type != entity.PayloadStockUpdate {
			c.log.Warn().Msg("evento de catálogo del relay descartado: payload inválido")
			return
		}
		c.dispatcher.OnRemoteStock(context.Background(), p.Products, p.Timestamp)
	})
	if err != nil {
		_ = saleSub.Unsubscribe()
		return err
	}

	c.subs = []*nats.Subscription{saleSub, stockSub}
	c.subjectBase = base
	return nil
}

// Rekey muda la conexión al canal derivado de la clave nueva. El contrato es
// una conexión por clave de tienda: después de una rotación este terminal no
// debe seguir escuchando (ni publicando en) el canal de la clave anterior.
func (c *Client) Rekey(newKey string) {
	if c.conn == nil || c.conn.IsClosed() {
		return
	}
	for _, sub := range c.subs {
		_ = sub.Unsubscribe()
	}
	c.subs = nil
	if err := c.subscribe(ChannelName(newKey)); err != nil {
		c.log.Error().Err(err).Msg("no se pudo resuscribir el relay tras rotar la clave")
	}
}

// Connected indica si la conexión está viva en este momento.
func (c *Client) Connected() bool {
	return c.connected.Load()
}

// PublishSale espeja una venta local al canal. Nunca devuelve error: la venta
// ya está confirmada en la base local y el relay es solo un acelerador.
func (c *Client) PublishSale(sale *entity.Sale) {
	payload := entity.SyncPayload{
		Type:      entity.PayloadSalesReport,
		StaffName: sale.StaffName,
		Sales:     []entity.SaleRecord{sale.Record()},
		Timestamp: time.Now(),
	}
	c.publish(c.subjectBase+".venta", payload)
}

// PublishStock espeja el catálogo al canal (solo lo invoca el terminal admin).
func (c *Client) PublishStock(products []entity.ProductSnapshot, ts time.Time) {
	payload := entity.SyncPayload{
		Type:      entity.PayloadStockUpdate,
		Products:  products,
		Timestamp: ts,
	}
	c.publish(c.subjectBase+".stock", payload)
}

// Disconnect drena y cierra la conexión. Es idempotente.
func (c *Client) Disconnect() {
	if c.conn == nil || c.conn.IsClosed() {
		return
	}
	c.connected.Store(false)
	if err := c.conn.Drain(); err != nil {
		c.conn.Close()
	}
}

func (c *Client) publish(subject string, payload entity.SyncPayload) {
	if c.conn == nil || !c.connected.Load() {
		c.log.Debug().Str("subject", subject).Msg("relay sin conexión; evento omitido")
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		c.log.Error().Err(err).Msg("no se pudo serializar evento del relay")
		return
	}
	if err := c.conn.Publish(subject, data); err != nil {
		c.log.Warn().Err(err).Str("subject", subject).Msg("no se pudo publicar en el relay")
	}
}
