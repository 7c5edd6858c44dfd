package distance

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"ordersheet/internal/config"
	"ordersheet/internal/storage"
)

// Service resolves driving distance for a delivery order and records the
// distance and quoted fee on the order row.
type Service struct {
	db     *storage.DB
	cfg    config.Config
	client *Client
	log    *slog.Logger
}

func NewService(db *storage.DB, cfg config.Config, log *slog.Logger) *Service {
	return &Service{db: db, cfg: cfg, client: NewClient(cfg), log: log}
}

type Quote struct {
	OrderID string
	Address string
	Miles   float64
	Fee     float64
}

// UpdateOrder looks up the driving distance to the order's delivery address
// and saves the result. When address is empty the stored address is used.
func (s *Service) UpdateOrder(ctx context.Context, orderID, address string) (Quote, error) {
	order, err := s.db.GetOrder(orderID)
	if err != nil {
		return Quote{}, err
	}
	if order == nil {
		return Quote{}, fmt.Errorf("order not found: %s", orderID)
	}

	dest := strings.TrimSpace(address)
	if dest == "" && order.DeliveryAddress != nil {
		dest = strings.TrimSpace(*order.DeliveryAddress)
	}
	if dest == "" {
		return Quote{}, fmt.Errorf("order %s has no delivery address", orderID)
	}

	miles, err := s.client.DrivingMiles(ctx, dest)
	if err != nil {
		return Quote{}, err
	}

	fee := QuoteFee(s.cfg, miles)
	computedAt := time.Now().UTC().Format(time.RFC3339)
	if err := s.db.SaveDelivery(orderID, dest, miles, fee, s.cfg.DistanceProvider, computedAt); err != nil {
		return Quote{}, err
	}

	s.log.Info("delivery distance updated",
		"order_id", orderID,
		"miles", miles,
		"fee", fee,
		"source", s.cfg.DistanceProvider,
	)
	return Quote{OrderID: orderID, Address: dest, Miles: miles, Fee: fee}, nil
}
