package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/Chiki-tella/safesave/internal/store"
)

// MaintenanceService houses destructive/ops actions.
type MaintenanceService struct {
	Store store.Store
	Log   *zap.Logger
}

// Reset wipes every slot in the store's namespace. Views pick the wipe
// up through the normal change signals.
func (s *MaintenanceService) Reset(ctx context.Context) error {
	if err := s.Store.Reset(ctx); err != nil {
		return err
	}
	s.Log.Info("store reset")
	return nil
}
