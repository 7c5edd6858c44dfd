// Package importer wires sheet loading, parsing and persistence into the
// import flows: one-off files and mailed-in sheets from the inbox table.
package importer

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/jhillyerd/enmime"

	"ordersheet/internal"
	"ordersheet/internal/config"
	"ordersheet/internal/parse"
	"ordersheet/internal/sheet"
	"ordersheet/internal/storage"
)

type Service struct {
	db  *storage.DB
	cfg config.Config
	log *slog.Logger
}

func New(db *storage.DB, cfg config.Config, log *slog.Logger) *Service {
	return &Service{db: db, cfg: cfg, log: log}
}

type Result struct {
	ImportID int64
	Orders   int
	Items    int
	Issues   int
}

// Markers builds the parser configuration from the loaded env config.
func (s *Service) Markers() parse.Markers {
	return parse.Markers{
		Summary:          s.cfg.SummaryMarker,
		Total:            s.cfg.TotalMarker,
		ProductHeader:    s.cfg.ProductHeader,
		OrdersHeader:     s.cfg.OrdersHeaderMarker,
		TotalPrice:       s.cfg.TotalPriceMarker,
		DeliveryPrefixes: s.cfg.DeliveryPrefixes,
	}
}

// ImportFile imports one local xlsx file. With wipe set, existing orders,
// items, issues and catalog rows are cleared first. A structural parse
// failure commits nothing.
func (s *Service) ImportFile(path string, sheetIndex int, wipe bool) (Result, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return Result{}, err
	}
	return s.importBlob("file", path, blob, sheetIndex, wipe)
}

func (s *Service) importBlob(source, ref string, blob []byte, sheetIndex int, wipe bool) (Result, error) {
	grid, err := sheet.LoadReader(bytes.NewReader(blob), sheetIndex)
	if err != nil {
		return Result{}, err
	}

	parsed, err := parse.ParseSheet(grid, s.Markers())
	if err != nil {
		return Result{}, err
	}

	if wipe {
		if err := s.db.WipeAll(); err != nil {
			return Result{}, err
		}
	}

	hashBytes := sha256.Sum256(blob)
	importID, err := s.db.RecordImport(source, ref, hex.EncodeToString(hashBytes[:]),
		len(parsed.Orders), len(parsed.Items), len(parsed.Issues))
	if err != nil {
		return Result{}, err
	}

	if err := s.db.UpsertCatalog(parsed.Catalog); err != nil {
		return Result{}, err
	}
	if err := s.db.InsertParsedData(parsed.Orders, parsed.Items, parsed.Issues, importID); err != nil {
		return Result{}, err
	}

	// the store owns totals and fulfillment from here on
	for _, o := range parsed.Orders {
		if err := s.db.RecomputeOrderTotal(o.OrderID); err != nil {
			return Result{}, err
		}
		if err := s.db.RecomputeOrderFulfilled(o.OrderID); err != nil {
			return Result{}, err
		}
	}

	s.log.Info("sheet imported",
		"source", source,
		"ref", ref,
		"orders", len(parsed.Orders),
		"items", len(parsed.Items),
		"issues", len(parsed.Issues),
	)

	return Result{
		ImportID: importID,
		Orders:   len(parsed.Orders),
		Items:    len(parsed.Items),
		Issues:   len(parsed.Issues),
	}, nil
}

// ImportInboxMessage imports every xlsx attachment of one fetched mail
// message. Messages without a sheet attachment are marked skipped; a message
// whose sheets all fail structurally is marked failed. Neither aborts the
// batch.
func (s *Service) ImportInboxMessage(row internal.InboxRow) (int, error) {
	raw, err := os.ReadFile(row.RawRef)
	if err != nil {
		return 0, err
	}

	env, err := enmime.ReadEnvelope(bytes.NewReader(raw))
	if err != nil {
		return 0, err
	}

	imported := 0
	attempted := 0
	for _, att := range env.Attachments {
		filename := strings.TrimSpace(att.FileName)
		lower := strings.ToLower(filename)
		if !strings.HasSuffix(lower, ".xlsx") && !strings.HasSuffix(lower, ".xls") {
			continue
		}
		attempted++

		ref := fmt.Sprintf("%s/%s/%s", row.Provider, row.MessageID, filename)
		if _, err := s.importBlob("mail", ref, att.Content, s.cfg.SheetIndex, false); err != nil {
			s.log.Warn("mailed sheet rejected", "ref", ref, "error", err)
			continue
		}
		imported++
	}

	status := "imported"
	switch {
	case attempted == 0:
		status = "skipped"
	case imported == 0:
		status = "failed"
	}
	if err := s.db.UpdateInboxStatus(row.ID, status); err != nil {
		return imported, err
	}
	return imported, nil
}

// ProcessPending walks fetched inbox rows, importing each message's sheets.
func (s *Service) ProcessPending(limit int, provider string) (int, int, error) {
	pending, err := s.db.ListInboxByStatus("fetched", limit)
	if err != nil {
		return 0, 0, err
	}

	messages := 0
	sheets := 0
	for _, row := range pending {
		if provider != "" && row.Provider != provider {
			continue
		}
		n, err := s.ImportInboxMessage(row)
		if err != nil {
			return messages, sheets, err
		}
		messages++
		sheets += n
	}
	return messages, sheets, nil
}
