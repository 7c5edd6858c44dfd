package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"ordersheet/internal"
)

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS orders (
  order_id TEXT PRIMARY KEY,
  customer TEXT NOT NULL,
  total_dollar REAL,
  is_paid INTEGER NOT NULL DEFAULT 0,
  wants_delivery INTEGER NOT NULL DEFAULT 0,
  is_fulfilled INTEGER NOT NULL DEFAULT 0,
  is_delivered INTEGER NOT NULL DEFAULT 0,
  created_at TEXT DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS items (
  item_id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  name TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  price REAL,
  is_checked INTEGER NOT NULL DEFAULT 0,
  packed_quantity INTEGER NOT NULL DEFAULT 0,
  FOREIGN KEY(order_id) REFERENCES orders(order_id)
);

CREATE TABLE IF NOT EXISTS catalog (
  item_name TEXT PRIMARY KEY,
  unit_price REAL NOT NULL,
  summary_qty REAL,
  summary_amount REAL
);

CREATE TABLE IF NOT EXISTS issues (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  import_id INTEGER,
  order_id TEXT NOT NULL,
  customer TEXT NOT NULL,
  warning TEXT NOT NULL,
  content_sample TEXT NOT NULL,
  created_at TEXT DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS imports (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  source TEXT NOT NULL,
  ref TEXT NOT NULL,
  sheet_hash TEXT,
  order_count INTEGER NOT NULL,
  item_count INTEGER NOT NULL,
  issue_count INTEGER NOT NULL,
  created_at TEXT DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS inbox (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  provider TEXT NOT NULL,
  message_id TEXT NOT NULL,
  subject TEXT,
  sender TEXT,
  received_at TEXT,
  hash TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'fetched',
  raw_ref TEXT NOT NULL,
  created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  UNIQUE(provider, message_id)
);

CREATE TABLE IF NOT EXISTS metadata (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updated_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`
	if _, err := d.conn.Exec(schema); err != nil {
		return err
	}

	migrations := []struct {
		table  string
		column string
	}{
		{"items", "packed_quantity INTEGER NOT NULL DEFAULT 0"},
		{"orders", "is_delivered INTEGER NOT NULL DEFAULT 0"},
		{"orders", "delivery_address TEXT"},
		{"orders", "delivery_distance_miles REAL"},
		{"orders", "delivery_fee REAL"},
		{"orders", "delivery_distance_computed_at TEXT"},
		{"orders", "delivery_distance_source TEXT"},
		{"orders", "amount_received REAL DEFAULT 0"},
		{"orders", "change_given REAL DEFAULT 0"},
		{"orders", "change_status TEXT DEFAULT 'pending'"},
	}
	for _, m := range migrations {
		if err := d.addColumnIfMissing(m.table, m.column); err != nil {
			return err
		}
	}

	if err := d.dedupeItemsByOrderAndName(); err != nil {
		return err
	}
	if _, err := d.conn.Exec(`
CREATE UNIQUE INDEX IF NOT EXISTS idx_items_order_name_unique ON items(order_id, name);
`); err != nil {
		return err
	}

	// delivered is only meaningful for delivery orders; normalize stale rows
	// before installing the guards
	if _, err := d.conn.Exec(`
UPDATE orders SET is_delivered = 0 WHERE wants_delivery = 0 AND is_delivered <> 0;
`); err != nil {
		return err
	}

	triggers := `
CREATE TRIGGER IF NOT EXISTS trg_orders_delivered_insert_guard
BEFORE INSERT ON orders
WHEN NEW.wants_delivery = 0 AND NEW.is_delivered <> 0
BEGIN
  SELECT RAISE(ABORT, 'Invalid: is_delivered can only be 1 when wants_delivery is 1');
END;

CREATE TRIGGER IF NOT EXISTS trg_orders_delivered_update_guard
BEFORE UPDATE OF is_delivered ON orders
WHEN NEW.wants_delivery = 0 AND NEW.is_delivered <> 0
BEGIN
  SELECT RAISE(ABORT, 'Invalid: cannot set is_delivered=1 when wants_delivery=0');
END;

CREATE TRIGGER IF NOT EXISTS trg_orders_wants_delivery_force_reset
AFTER UPDATE OF wants_delivery ON orders
WHEN NEW.wants_delivery = 0
BEGIN
  UPDATE orders SET is_delivered = 0 WHERE order_id = NEW.order_id;
END;
`
	_, err := d.conn.Exec(triggers)
	return err
}

func (d *DB) columnExists(table, column string) (bool, error) {
	rows, err := d.conn.Query(fmt.Sprintf(`PRAGMA table_info(%s)`, table))
	if err != nil {
		return false, err
	}
	defer rows.Close()

	for rows.Next() {
		var cid int
		var name, colType string
		var notNull, pk int
		var dflt sql.NullString
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dflt, &pk); err != nil {
			return false, err
		}
		if name == column {
			return true, nil
		}
	}
	return false, rows.Err()
}

func (d *DB) addColumnIfMissing(table, columnDef string) error {
	column := strings.Fields(columnDef)[0]
	exists, err := d.columnExists(table, column)
	if err != nil || exists {
		return err
	}
	_, err = d.conn.Exec(fmt.Sprintf(`ALTER TABLE %s ADD COLUMN %s`, table, columnDef))
	return err
}

// dedupeItemsByOrderAndName merges duplicate (order_id, name) item rows so the
// unique index can be created: quantities sum, packed clamps to the summed
// quantity, the highest price survives.
func (d *DB) dedupeItemsByOrderAndName() error {
	rows, err := d.conn.Query(`
SELECT order_id, name FROM items GROUP BY order_id, name HAVING COUNT(*) > 1
`)
	if err != nil {
		return err
	}
	type dup struct{ orderID, name string }
	var dups []dup
	for rows.Next() {
		var dp dup
		if err := rows.Scan(&dp.orderID, &dp.name); err != nil {
			_ = rows.Close()
			return err
		}
		dups = append(dups, dp)
	}
	_ = rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for _, dp := range dups {
		var survivorID string
		var qtySum, packedSum int
		var priceMax sql.NullFloat64
		err := d.conn.QueryRow(`
SELECT MIN(item_id), SUM(quantity), SUM(COALESCE(packed_quantity, 0)), MAX(price)
FROM items WHERE order_id = ? AND name = ?
`, dp.orderID, dp.name).Scan(&survivorID, &qtySum, &packedSum, &priceMax)
		if err != nil {
			return err
		}

		packed := packedSum
		if packed > qtySum {
			packed = qtySum
		}
		var price *float64
		if priceMax.Valid {
			price = &priceMax.Float64
		}

		if _, err := d.conn.Exec(`
UPDATE items SET quantity = ?, packed_quantity = ?, price = ? WHERE item_id = ?
`, qtySum, packed, price, survivorID); err != nil {
			return err
		}
		if _, err := d.conn.Exec(`
DELETE FROM items WHERE order_id = ? AND name = ? AND item_id <> ?
`, dp.orderID, dp.name, survivorID); err != nil {
			return err
		}
	}
	return nil
}

func (d *DB) WipeAll() error {
	for _, table := range []string{"items", "orders", "catalog", "issues"} {
		if _, err := d.conn.Exec(`DELETE FROM ` + table); err != nil {
			return err
		}
	}
	return nil
}

func (d *DB) UpsertCatalog(entries []internal.CatalogEntry) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
INSERT INTO catalog (item_name, unit_price, summary_qty, summary_amount)
VALUES (?, ?, ?, ?)
ON CONFLICT(item_name) DO UPDATE SET
  unit_price=excluded.unit_price,
  summary_qty=excluded.summary_qty,
  summary_amount=excluded.summary_amount
`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, e := range entries {
		if _, err := stmt.Exec(strings.TrimSpace(e.Name), e.UnitPrice, e.SummaryQty, e.SummaryAmount); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (d *DB) ListCatalog() ([]internal.CatalogEntry, error) {
	rows, err := d.conn.Query(`
SELECT item_name, unit_price, summary_qty, summary_amount FROM catalog ORDER BY item_name ASC
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.CatalogEntry
	for rows.Next() {
		var e internal.CatalogEntry
		if err := rows.Scan(&e.Name, &e.UnitPrice, &e.SummaryQty, &e.SummaryAmount); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// InsertParsedData writes one parse pass worth of orders, items and issues in
// a single transaction. The caller recomputes totals and fulfillment after.
func (d *DB) InsertParsedData(orders []internal.ParsedOrder, items []internal.ParsedItem, issues []internal.Issue, importID int64) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, o := range orders {
		if _, err := tx.Exec(`
INSERT INTO orders (order_id, customer, total_dollar, is_paid, wants_delivery, is_fulfilled, is_delivered)
VALUES (?, ?, ?, ?, ?, ?, 0)
`, o.OrderID, o.Customer, o.Total, boolInt(o.IsPaid), boolInt(o.WantsDelivery), boolInt(o.IsFulfilled)); err != nil {
			return err
		}
	}

	for _, it := range items {
		if _, err := tx.Exec(`
INSERT INTO items (item_id, order_id, name, quantity, price, is_checked, packed_quantity)
VALUES (?, ?, ?, ?, ?, 0, 0)
ON CONFLICT(order_id, name) DO UPDATE SET
  quantity = quantity + excluded.quantity,
  price = COALESCE(excluded.price, price)
`, it.ItemID, it.OrderID, it.Name, it.Quantity, it.Price); err != nil {
			return err
		}
	}

	for _, issue := range issues {
		if _, err := tx.Exec(`
INSERT INTO issues (import_id, order_id, customer, warning, content_sample)
VALUES (?, ?, ?, ?, ?)
`, importID, issue.OrderID, issue.Customer, issue.Warning, issue.ContentSample); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (d *DB) RecordImport(source, ref, sheetHash string, orderCount, itemCount, issueCount int) (int64, error) {
	res, err := d.conn.Exec(`
INSERT INTO imports (source, ref, sheet_hash, order_count, item_count, issue_count)
VALUES (?, ?, ?, ?, ?, ?)
`, source, ref, sheetHash, orderCount, itemCount, issueCount)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (d *DB) RecomputeOrderTotal(orderID string) error {
	_, err := d.conn.Exec(`
UPDATE orders SET total_dollar = (
  SELECT SUM(quantity * COALESCE(price, 0)) FROM items WHERE order_id = ?
) WHERE order_id = ?
`, orderID, orderID)
	return err
}

// RecomputeOrderFulfilled marks an order fulfilled iff it has at least one
// item and every item is fully packed.
func (d *DB) RecomputeOrderFulfilled(orderID string) error {
	_, err := d.conn.Exec(`
UPDATE orders SET is_fulfilled = (
  SELECT CASE
    WHEN COUNT(*) > 0 AND SUM(CASE WHEN packed_quantity >= quantity THEN 1 ELSE 0 END) = COUNT(*) THEN 1
    ELSE 0
  END
  FROM items WHERE order_id = ?
) WHERE order_id = ?
`, orderID, orderID)
	return err
}

func (d *DB) SetAllPacked(orderID string, packed bool) error {
	query := `UPDATE items SET packed_quantity = 0 WHERE order_id = ?`
	if packed {
		query = `UPDATE items SET packed_quantity = quantity WHERE order_id = ?`
	}
	if _, err := d.conn.Exec(query, orderID); err != nil {
		return err
	}
	if err := d.RecomputeOrderTotal(orderID); err != nil {
		return err
	}
	return d.RecomputeOrderFulfilled(orderID)
}

func (d *DB) SetPackedQuantity(itemID string, packed int) error {
	orderID, err := d.orderIDForItem(itemID)
	if err != nil {
		return err
	}
	if _, err := d.conn.Exec(`
UPDATE items SET packed_quantity = MIN(?, quantity) WHERE item_id = ?
`, packed, itemID); err != nil {
		return err
	}
	return d.RecomputeOrderFulfilled(orderID)
}

func (d *DB) SetQuantity(itemID string, quantity int) error {
	orderID, err := d.orderIDForItem(itemID)
	if err != nil {
		return err
	}
	if _, err := d.conn.Exec(`
UPDATE items SET quantity = ?, packed_quantity = MIN(packed_quantity, ?) WHERE item_id = ?
`, quantity, quantity, itemID); err != nil {
		return err
	}
	if err := d.RecomputeOrderTotal(orderID); err != nil {
		return err
	}
	return d.RecomputeOrderFulfilled(orderID)
}

func (d *DB) orderIDForItem(itemID string) (string, error) {
	var orderID string
	err := d.conn.QueryRow(`SELECT order_id FROM items WHERE item_id = ?`, itemID).Scan(&orderID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("item not found: %s", itemID)
	}
	return orderID, err
}

func (d *DB) SetPaid(orderID string, paid bool) error {
	_, err := d.conn.Exec(`UPDATE orders SET is_paid = ? WHERE order_id = ?`, boolInt(paid), orderID)
	return err
}

// SetDelivered flips delivery state; the trigger rejects delivered=1 on
// orders that never asked for delivery.
func (d *DB) SetDelivered(orderID string, delivered bool) error {
	_, err := d.conn.Exec(`UPDATE orders SET is_delivered = ? WHERE order_id = ?`, boolInt(delivered), orderID)
	return err
}

func (d *DB) RecordPayment(orderID string, amountReceived, changeGiven float64, changeStatus string) error {
	_, err := d.conn.Exec(`
UPDATE orders SET amount_received = ?, change_given = ?, change_status = ?, is_paid = 1
WHERE order_id = ?
`, amountReceived, changeGiven, changeStatus, orderID)
	return err
}

// AddItemToOrder upserts by (order_id, name): an existing line grows by the
// added quantity with packed clamped, a new line is inserted.
func (d *DB) AddItemToOrder(itemID, orderID, name string, quantity int, price float64) error {
	if _, err := d.conn.Exec(`
INSERT INTO items (item_id, order_id, name, quantity, price, is_checked, packed_quantity)
VALUES (?, ?, ?, ?, ?, 0, 0)
ON CONFLICT(order_id, name) DO UPDATE SET
  quantity = quantity + excluded.quantity,
  price = excluded.price,
  packed_quantity = MIN(packed_quantity, quantity + excluded.quantity)
`, itemID, orderID, name, quantity, price); err != nil {
		return err
	}
	if err := d.RecomputeOrderTotal(orderID); err != nil {
		return err
	}
	return d.RecomputeOrderFulfilled(orderID)
}

func (d *DB) RemoveItem(itemID string) error {
	orderID, err := d.orderIDForItem(itemID)
	if err != nil {
		return err
	}
	if _, err := d.conn.Exec(`DELETE FROM items WHERE item_id = ?`, itemID); err != nil {
		return err
	}
	if err := d.RecomputeOrderTotal(orderID); err != nil {
		return err
	}
	return d.RecomputeOrderFulfilled(orderID)
}

type OrderFilter struct {
	Search          string
	OnlyUnfulfilled bool
	OnlyDelivery    bool
	OnlyUndelivered bool
}

func (d *DB) ListOrders(filter OrderFilter) ([]internal.OrderRecord, error) {
	query := orderSelect + ` WHERE 1=1`
	var params []any

	if s := strings.TrimSpace(filter.Search); s != "" {
		query += ` AND customer LIKE ?`
		params = append(params, "%"+s+"%")
	}
	if filter.OnlyUnfulfilled {
		query += ` AND is_fulfilled = 0`
	}
	if filter.OnlyDelivery {
		query += ` AND wants_delivery = 1`
	}
	if filter.OnlyUndelivered {
		query += ` AND is_delivered = 0`
	}
	query += ` ORDER BY created_at DESC, order_id ASC`

	rows, err := d.conn.Query(query, params...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.OrderRecord
	for rows.Next() {
		rec, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

const orderSelect = `
SELECT order_id, customer, total_dollar, is_paid, wants_delivery, is_fulfilled, is_delivered,
       delivery_address, delivery_distance_miles, delivery_fee,
       delivery_distance_computed_at, delivery_distance_source,
       COALESCE(amount_received, 0), COALESCE(change_given, 0), COALESCE(change_status, 'pending'),
       created_at
FROM orders`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (internal.OrderRecord, error) {
	var rec internal.OrderRecord
	var paid, delivery, fulfilled, delivered int
	err := row.Scan(
		&rec.OrderID, &rec.Customer, &rec.Total, &paid, &delivery, &fulfilled, &delivered,
		&rec.DeliveryAddress, &rec.DeliveryMiles, &rec.DeliveryFee,
		&rec.DeliveryComputedAt, &rec.DeliverySource,
		&rec.AmountReceived, &rec.ChangeGiven, &rec.ChangeStatus,
		&rec.CreatedAt,
	)
	if err != nil {
		return internal.OrderRecord{}, err
	}
	rec.IsPaid = paid != 0
	rec.WantsDelivery = delivery != 0
	rec.IsFulfilled = fulfilled != 0
	rec.IsDelivered = delivered != 0
	return rec, nil
}

func (d *DB) GetOrder(orderID string) (*internal.OrderRecord, error) {
	rec, err := scanOrder(d.conn.QueryRow(orderSelect+` WHERE order_id = ?`, orderID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (d *DB) ListOrderItems(orderID string) ([]internal.ItemRecord, error) {
	rows, err := d.conn.Query(`
SELECT item_id, order_id, name, quantity, price, is_checked, packed_quantity
FROM items WHERE order_id = ? ORDER BY name ASC
`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.ItemRecord
	for rows.Next() {
		var it internal.ItemRecord
		var checked int
		if err := rows.Scan(&it.ItemID, &it.OrderID, &it.Name, &it.Quantity, &it.Price, &checked, &it.PackedQuantity); err != nil {
			return nil, err
		}
		it.IsChecked = checked != 0
		out = append(out, it)
	}
	return out, rows.Err()
}

// ChecklistRows joins order attributes onto every item row for export.
func (d *DB) ChecklistRows() ([]internal.ChecklistRow, error) {
	rows, err := d.conn.Query(`
SELECT o.order_id, o.customer, o.wants_delivery, o.is_paid, o.is_fulfilled, o.total_dollar,
       i.item_id, i.name, i.quantity, i.packed_quantity, i.price, i.is_checked
FROM items i
JOIN orders o ON o.order_id = i.order_id
ORDER BY o.created_at DESC, o.order_id ASC, i.name ASC
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.ChecklistRow
	for rows.Next() {
		var r internal.ChecklistRow
		var delivery, paid, fulfilled, checked int
		if err := rows.Scan(
			&r.OrderID, &r.Customer, &delivery, &paid, &fulfilled, &r.Total,
			&r.ItemID, &r.Name, &r.Quantity, &r.PackedQuantity, &r.Price, &checked,
		); err != nil {
			return nil, err
		}
		r.WantsDelivery = delivery != 0
		r.IsPaid = paid != 0
		r.IsFulfilled = fulfilled != 0
		r.IsChecked = checked != 0
		out = append(out, r)
	}
	return out, rows.Err()
}

func (d *DB) SaveDelivery(orderID, address string, miles, fee float64, source, computedAt string) error {
	_, err := d.conn.Exec(`
UPDATE orders SET
  delivery_address = ?,
  delivery_distance_miles = ?,
  delivery_fee = ?,
  delivery_distance_source = ?,
  delivery_distance_computed_at = ?
WHERE order_id = ?
`, address, miles, fee, source, computedAt, orderID)
	return err
}

func (d *DB) UpsertInbox(provider, messageID, subject, sender, receivedAt, hash, rawRef, status string) (internal.InboxRow, error) {
	_, err := d.conn.Exec(`
INSERT INTO inbox (provider, message_id, subject, sender, received_at, hash, status, raw_ref)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(provider, message_id) DO UPDATE SET
  subject=excluded.subject,
  sender=excluded.sender,
  received_at=excluded.received_at,
  hash=excluded.hash,
  raw_ref=excluded.raw_ref,
  updated_at=CURRENT_TIMESTAMP
`, provider, messageID, subject, sender, receivedAt, hash, status, rawRef)
	if err != nil {
		return internal.InboxRow{}, err
	}

	row, err := d.GetInboxByProviderMessageID(provider, messageID)
	if err != nil {
		return internal.InboxRow{}, err
	}
	if row == nil {
		return internal.InboxRow{}, errors.New("failed to upsert inbox row")
	}
	return *row, nil
}

func (d *DB) GetInboxByProviderMessageID(provider, messageID string) (*internal.InboxRow, error) {
	var row internal.InboxRow
	err := d.conn.QueryRow(`
SELECT id, provider, message_id, subject, sender, received_at, hash, status, raw_ref
FROM inbox WHERE provider = ? AND message_id = ?
`, provider, messageID).Scan(
		&row.ID, &row.Provider, &row.MessageID, &row.Subject, &row.Sender, &row.ReceivedAt, &row.Hash, &row.Status, &row.RawRef,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (d *DB) MustInboxByProviderMessageID(provider, messageID string) (internal.InboxRow, error) {
	row, err := d.GetInboxByProviderMessageID(provider, messageID)
	if err != nil {
		return internal.InboxRow{}, err
	}
	if row == nil {
		return internal.InboxRow{}, fmt.Errorf("inbox message not found: provider=%s messageId=%s", provider, messageID)
	}
	return *row, nil
}

func (d *DB) ListInboxByStatus(status string, limit int) ([]internal.InboxRow, error) {
	rows, err := d.conn.Query(`
SELECT id, provider, message_id, subject, sender, received_at, hash, status, raw_ref
FROM inbox WHERE status = ? ORDER BY received_at ASC LIMIT ?
`, status, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.InboxRow
	for rows.Next() {
		var row internal.InboxRow
		if err := rows.Scan(&row.ID, &row.Provider, &row.MessageID, &row.Subject, &row.Sender, &row.ReceivedAt, &row.Hash, &row.Status, &row.RawRef); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (d *DB) UpdateInboxStatus(id int, status string) error {
	_, err := d.conn.Exec(`UPDATE inbox SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, status, id)
	return err
}

func (d *DB) SetMetadata(key, value string) error {
	_, err := d.conn.Exec(`
INSERT INTO metadata (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
`, key, value)
	return err
}

func (d *DB) GetMetadata(key string) (*string, error) {
	var value string
	err := d.conn.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &value, nil
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
