package email

import (
	"context"

	"github.com/hospitalops/hospital-api/internal/model"
)

// Service sends operational notifications.
type Service interface {
	SendAlert(ctx context.Context, hospitalID string, alert model.Alert) error
}
