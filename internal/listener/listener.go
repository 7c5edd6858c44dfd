package listener

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"ordersheet/internal/config"
	"ordersheet/internal/connectors"
	gmailconnector "ordersheet/internal/connectors/gmail"
	imapconnector "ordersheet/internal/connectors/imap"
	"ordersheet/internal/export"
	"ordersheet/internal/importer"
	"ordersheet/internal/storage"
)

type Service struct {
	db  *storage.DB
	cfg config.Config
	log *slog.Logger
}

func NewService(db *storage.DB, cfg config.Config, log *slog.Logger) *Service {
	return &Service{db: db, cfg: cfg, log: log}
}

// Run polls the mailbox until ctx is cancelled. A failed cycle is logged
// and retried on the next tick rather than stopping the loop.
func (s *Service) Run(ctx context.Context) error {
	for {
		if err := s.runCycle(ctx); err != nil {
			s.log.Error("listener cycle failed", "error", err)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(time.Duration(s.cfg.ListenerIntervalSec) * time.Second):
		}
	}
}

func (s *Service) runCycle(ctx context.Context) error {
	provider := strings.ToLower(strings.TrimSpace(s.cfg.ListenerProvider))
	source, err := MakeConnector(s.cfg, provider)
	if err != nil {
		return err
	}

	fetchService := connectors.NewFetchService(s.db, s.cfg.RawMailDir, source)
	fetchResult, err := fetchService.FetchAndStore(s.cfg.ListenerLabel, s.cfg.ListenerFetchMax)
	if err != nil {
		return err
	}

	svc := importer.New(s.db, s.cfg, s.log)
	messages, sheets, err := svc.ProcessPending(s.cfg.ListenerProcessBatch, provider)
	if err != nil {
		return err
	}

	if s.cfg.ListenerAutoExport && sheets > 0 {
		if err := s.exportChecklist(); err != nil {
			return err
		}
	}

	s.log.Info("listener cycle done",
		"provider", provider,
		"fetched", fetchResult.Fetched,
		"stored", fetchResult.Stored,
		"messages", messages,
		"sheets", sheets,
	)
	_ = ctx
	return nil
}

func (s *Service) exportChecklist() error {
	rows, err := s.db.ChecklistRows()
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}
	filename := fmt.Sprintf("checklist_%s.xlsx", time.Now().UTC().Format("20060102_150405"))
	outputPath := filepath.Join(s.cfg.OutputDir, "listener", filename)
	if err := export.ChecklistToXLSX(rows, outputPath); err != nil {
		return err
	}
	s.log.Info("checklist exported", "path", outputPath, "rows", len(rows))
	return nil
}

// MakeConnector builds the mail source for the given provider name.
func MakeConnector(cfg config.Config, provider string) (connectors.SheetSource, error) {
	switch provider {
	case "gmail":
		return gmailconnector.NewConnector(cfg)
	case "imap":
		return imapconnector.NewConnector(cfg)
	default:
		return nil, fmt.Errorf("unsupported mail provider: %s", provider)
	}
}
